package imapresp

// BodyPartKind discriminates the shape BodyStructure takes: a single
// part (of some MIME-major-type flavor) or a multipart container.
type BodyPartKind int

const (
	// PartBasic is any single part whose type isn't specially
	// recognized: application/*, image/*, audio/*, and so on, plus the
	// MESSAGE fallback described below.
	PartBasic BodyPartKind = iota
	// PartText is a text/* part, carrying an extra line-count field.
	PartText
	// PartMessage is a message/rfc822 or message/global part carrying
	// an embedded envelope, body, and line count — unless the server
	// omits the embedded structure, in which case it is downgraded to
	// PartBasic (see parseBodyType1Part).
	PartMessage
	// PartMultipart is a body-type-mpart: one or more child parts
	// sharing one subtype (or none, in the malformed multipart/mixed
	// case).
	PartMultipart
)

// BodyStructure is the BODY / BODYSTRUCTURE fetch attribute: RFC 3501
// section 7.4.2's body structure, generalized over body-type-1part
// and body-type-mpart per spec.md section 4.4's "body" row.
type BodyStructure struct {
	Kind BodyPartKind

	// Single-part fields (PartBasic, PartText, PartMessage).
	MediaType   string // e.g. "TEXT", "APPLICATION"
	MediaSubtype string
	Params      map[string]string
	ID          string
	Description string
	Encoding    string
	Size        uint64 // octets

	// PartText only.
	Lines uint64

	// PartMessage only. Envelope/MessageBody/MessageLines are the embedded
	// envelope structure of RFC 3501 section 7.4.2. If the server
	// omitted them (malformed, or collapsed per the md5-string quirk),
	// this part was downgraded to PartBasic instead, so these fields
	// are only ever populated on a genuine PartMessage.
	Envelope      *Envelope
	MessageBody   *BodyStructure
	MessageLines  uint64

	// Single-part extension data (body-ext-1part), present if the
	// server included them.
	MD5         NString
	Disposition *BodyDisposition
	Language    []string
	Location    NString

	// PartMultipart fields.
	Parts       []*BodyStructure
	Subtype     string // e.g. "MIXED", "ALTERNATIVE"; also "MIXED" for the malformed zero-part case

	// Multipart extension data (body-ext-mpart), present if the server
	// included them.
	MultipartParams      map[string]string
	MultipartDisposition *BodyDisposition
	MultipartLanguage    []string
	MultipartLocation    NString
}

// BodyDisposition is body-fld-dsp: NIL or a disposition type plus
// parameters.
type BodyDisposition struct {
	Type   string
	Params map[string]string
}

// parseBody implements "body" (EXPR_DATA): "(" then either
// body-type-mpart (if the next token opens another parenthesis) or
// body-type-1part, closed by ")".
func (p *Parser) parseBody() (*BodyStructure, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	saved := p.mode
	p.mode = ExprData
	defer func() { p.mode = saved }()

	if err := p.lpar(); err != nil {
		return nil, err
	}
	bs, err := p.parseBodyInner()
	if err != nil {
		return nil, err
	}
	if err := p.rpar(); err != nil {
		return nil, err
	}
	return bs, nil
}

// parseBodyInner dispatches on the contents of an already-opened
// "(...)" to either body-type-mpart or body-type-1part, per spec.md
// section 4.4's "body" row, tolerating the malformed zero-part
// multipart case described in section 9: a single leading string
// immediately followed by ')' can't be a well-formed body-type-1part
// (which needs at least type, subtype, params, id, description,
// encoding, and size), so it is treated as a parts-less multipart/
// mixed instead of raising a parse error.
func (p *Parser) parseBodyInner() (*BodyStructure, error) {
	if p.lookahead() == TokenLPar {
		return p.parseBodyTypeMPart()
	}
	first, err := p.str()
	if err != nil {
		return nil, err
	}
	if p.lookahead() == TokenRPar {
		p.s.warnf("imapresp: multipart body with no child parts, treating as malformed multipart/mixed")
		return &BodyStructure{Kind: PartMultipart, Subtype: "MIXED"}, nil
	}
	return p.parseBodyType1Part(first)
}

// parseBodyTypeMPart implements body-type-mpart: 1*body SP media-
// subtype [SP body-ext-mpart]. Per spec.md section 9's tolerated
// deviation, a server emitting an empty part list for multipart/mixed
// is accepted and recorded with Parts == nil, Subtype == "MIXED".
func (p *Parser) parseBodyTypeMPart() (*BodyStructure, error) {
	bs := &BodyStructure{Kind: PartMultipart}
	for p.lookahead() == TokenLPar {
		if err := p.lpar(); err != nil {
			return nil, err
		}
		child, err := p.parseBodyInner()
		if err != nil {
			return nil, err
		}
		if err := p.rpar(); err != nil {
			return nil, err
		}
		bs.Parts = append(bs.Parts, child)
	}
	zeroParts := len(bs.Parts) == 0
	if zeroParts {
		p.s.warnf("imapresp: multipart body with no child parts, treating as malformed multipart/mixed")
	}
	if err := p.SP(); err != nil {
		return nil, err
	}
	subtype, err := p.str()
	if err != nil {
		return nil, err
	}
	if zeroParts {
		bs.Subtype = "MIXED"
	} else {
		bs.Subtype = string(asciiUpper(subtype))
	}

	if p.lookahead() == TokenSpace {
		p.maybeSP()
		params, err := p.parseBodyFldParam()
		if err != nil {
			return nil, err
		}
		bs.MultipartParams = params
		if p.maybeSP() {
			disp, err := p.parseBodyFldDsp()
			if err != nil {
				return nil, err
			}
			bs.MultipartDisposition = disp
			if p.maybeSP() {
				lang, err := p.parseBodyFldLang()
				if err != nil {
					return nil, err
				}
				bs.MultipartLanguage = lang
				if p.maybeSP() {
					loc, err := p.nstring()
					if err != nil {
						return nil, err
					}
					bs.MultipartLocation = loc
					p.consumeBodyExtensions()
				}
			}
		}
	}
	return bs, nil
}

// parseBodyType1Part implements body-type-1part: a peek at the
// media-type/subtype pair classifies the part as TEXT, MESSAGE, or
// BASIC, falling back to BASIC for anything unrecognized, per spec.md
// section 4.4's "body" row.
func (p *Parser) parseBodyType1Part(mediaType []byte) (*BodyStructure, error) {
	if err := p.SP(); err != nil {
		return nil, err
	}
	subtype, err := p.str()
	if err != nil {
		return nil, err
	}
	if err := p.SP(); err != nil {
		return nil, err
	}

	bs := &BodyStructure{
		MediaType:    string(asciiUpper(mediaType)),
		MediaSubtype: string(asciiUpper(subtype)),
	}

	params, err := p.parseBodyFldParam()
	if err != nil {
		return nil, err
	}
	bs.Params = params
	if err := p.SP(); err != nil {
		return nil, err
	}
	id, err := p.nstring()
	if err != nil {
		return nil, err
	}
	bs.ID = string(id.Value)
	if err := p.SP(); err != nil {
		return nil, err
	}
	descr, err := p.nstring()
	if err != nil {
		return nil, err
	}
	bs.Description = string(descr.Value)
	if err := p.SP(); err != nil {
		return nil, err
	}
	enc, err := p.nstring()
	if err != nil {
		return nil, err
	}
	bs.Encoding = string(asciiUpper(enc.Value))
	if err := p.SP(); err != nil {
		return nil, err
	}
	size, err := p.number64()
	if err != nil {
		return nil, err
	}
	bs.Size = size

	switch bs.MediaType {
	case "TEXT":
		bs.Kind = PartText
		if err := p.SP(); err != nil {
			return nil, err
		}
		lines, err := p.number64()
		if err != nil {
			return nil, err
		}
		bs.Lines = lines

	case "MESSAGE":
		if bs.MediaSubtype == "RFC822" || bs.MediaSubtype == "GLOBAL" {
			// Peek for the "(envelope" continuation some servers omit
			// when they tag an attachment as message/rfc822 without
			// the nested structure (spec.md section 9). The lookahead
			// past the SP is tentative: if it isn't '(', the SP is put
			// back so the generic body-ext-1part block below parses
			// the MD5 string these servers send instead.
			savedPos := p.s.pos
			if p.lookahead() == TokenSpace {
				p.s.Next(p.mode)
				if p.lookahead() == TokenLPar {
					bs.Kind = PartMessage
					env, err := p.parseEnvelope()
					if err != nil {
						return nil, err
					}
					bs.Envelope = env
					if err := p.SP(); err != nil {
						return nil, err
					}
					inner, err := p.parseBody()
					if err != nil {
						return nil, err
					}
					bs.MessageBody = inner
					if err := p.SP(); err != nil {
						return nil, err
					}
					lines, err := p.number64()
					if err != nil {
						return nil, err
					}
					bs.MessageLines = lines
				} else {
					p.s.warnf("imapresp: message/%s part missing embedded envelope, downgrading to basic", bs.MediaSubtype)
					bs.Kind = PartBasic
					p.s.pos = savedPos
					p.s.cached = false
				}
			} else {
				p.s.warnf("imapresp: message/%s part missing embedded envelope, downgrading to basic", bs.MediaSubtype)
				bs.Kind = PartBasic
			}
		} else {
			bs.Kind = PartBasic
		}

	default:
		bs.Kind = PartBasic
	}

	if p.maybeSP() {
		md5, err := p.nstring()
		if err != nil {
			return nil, err
		}
		bs.MD5 = md5
		if p.maybeSP() {
			disp, err := p.parseBodyFldDsp()
			if err != nil {
				return nil, err
			}
			bs.Disposition = disp
			if p.maybeSP() {
				lang, err := p.parseBodyFldLang()
				if err != nil {
					return nil, err
				}
				bs.Language = lang
				if p.maybeSP() {
					loc, err := p.nstring()
					if err != nil {
						return nil, err
					}
					bs.Location = loc
					p.consumeBodyExtensions()
				}
			}
		}
	}

	return bs, nil
}

// parseBodyFldParam implements body-fld-param: NIL / "(" (string SP
// string)+ ")".
func (p *Parser) parseBodyFldParam() (map[string]string, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if err := p.lpar(); err != nil {
		return nil, err
	}
	params := map[string]string{}
	if p.lookahead() != TokenRPar {
		for {
			k, err := p.str()
			if err != nil {
				return nil, err
			}
			if err := p.SP(); err != nil {
				return nil, err
			}
			v, err := p.str()
			if err != nil {
				return nil, err
			}
			params[string(asciiUpper(k))] = string(v)
			if !p.maybeSP() {
				break
			}
		}
	}
	if err := p.rpar(); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBodyFldDsp implements body-fld-dsp: NIL / "(" string SP
// body-fld-param ")".
func (p *Parser) parseBodyFldDsp() (*BodyDisposition, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if err := p.lpar(); err != nil {
		return nil, err
	}
	typ, err := p.str()
	if err != nil {
		return nil, err
	}
	if err := p.SP(); err != nil {
		return nil, err
	}
	params, err := p.parseBodyFldParam()
	if err != nil {
		return nil, err
	}
	if err := p.rpar(); err != nil {
		return nil, err
	}
	return &BodyDisposition{Type: string(asciiUpper(typ)), Params: params}, nil
}

// parseBodyFldLang implements body-fld-lang: nstring / "(" string+
// ")".
func (p *Parser) parseBodyFldLang() ([]string, error) {
	if p.lookahead() == TokenLPar {
		if err := p.lpar(); err != nil {
			return nil, err
		}
		var langs []string
		for {
			s, err := p.str()
			if err != nil {
				return nil, err
			}
			langs = append(langs, string(s))
			if !p.maybeSP() {
				break
			}
		}
		if err := p.rpar(); err != nil {
			return nil, err
		}
		return langs, nil
	}
	ns, err := p.nstring()
	if err != nil {
		return nil, err
	}
	if !ns.Present {
		return nil, nil
	}
	return []string{string(ns.Value)}, nil
}

// consumeBodyExtensions discards any further body-extension values: a
// recursive "nstring / number64 / ( body-extension+ )" grammar that
// spec.md section 4.4 says to accept but no SPEC_FULL consumer
// structurally needs today.
func (p *Parser) consumeBodyExtensions() {
	for p.maybeSP() {
		p.skipBodyExtension()
	}
}

func (p *Parser) skipBodyExtension() {
	switch p.lookahead() {
	case TokenLPar:
		p.lpar()
		for p.lookahead() != TokenRPar {
			p.skipBodyExtension()
			if !p.maybeSP() {
				break
			}
		}
		p.rpar()
	case TokenNumber:
		p.number64()
	default:
		p.nstring()
	}
}
