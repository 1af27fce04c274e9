package imapresp

import (
	"fmt"
	"strings"
)

// parseMsgAtt implements msg-att: "(" (msg-att-dynamic / msg-att-
// static) *(SP (msg-att-dynamic / msg-att-static)) ")", per spec.md
// section 4.4. Unknown keys raise a parse error; a trailing space
// before ")" is tolerated, matching parseFlagList's quirk.
func (p *Parser) parseMsgAtt() (FetchData, error) {
	var fd FetchData
	if err := p.lpar(); err != nil {
		return fd, err
	}
	if p.lookahead() != TokenRPar {
		for {
			if err := p.parseMsgAttItem(&fd); err != nil {
				return fd, err
			}
			if !p.maybeSP() {
				break
			}
			if p.lookahead() == TokenRPar {
				break
			}
		}
	}
	if err := p.rpar(); err != nil {
		return fd, err
	}
	return fd, nil
}

func (p *Parser) parseMsgAttItem(fd *FetchData) error {
	name := p.peekLabel()
	switch {
	case name == "UID":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		n, err := p.number()
		if err != nil {
			return err
		}
		fd.UID, fd.HasUID = n, true

	case name == "FLAGS":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		flags, err := p.parseFlagList()
		if err != nil {
			return err
		}
		fd.Flags, fd.HasFlags = flags, true

	case name == "INTERNALDATE":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		q, err := p.quoted()
		if err != nil {
			return err
		}
		fd.InternalDate, fd.HasInternalDate = string(q), true

	case name == "ENVELOPE":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		env, err := p.parseEnvelope()
		if err != nil {
			return err
		}
		fd.Envelope = env

	case name == "BODYSTRUCTURE":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		bs, err := p.parseBody()
		if err != nil {
			return err
		}
		fd.BodyStructure = bs

	case strings.HasPrefix(name, "BODY["):
		// '[' is an ordinary ATOM-CHAR (charclass.go's atomSpecials
		// excludes it), so the scanner has already merged "BODY[" and
		// as much of the section-spec as it could into one atom — there
		// is no standalone '[' token to look ahead for here. Consume
		// that merged atom directly and hand its raw bytes to
		// parseFetchSection to pick the section-spec back apart.
		tok, err := p.s.Peek(p.mode)
		if err != nil {
			return err
		}
		p.s.Next(p.mode)
		sec, err := p.parseFetchSection(tok.Value)
		if err != nil {
			return err
		}
		if err := p.SP(); err != nil {
			return err
		}
		val, err := p.nstring()
		if err != nil {
			return err
		}
		sec.Value = val
		fd.Sections = append(fd.Sections, sec)
		return nil

	case name == "BODY":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		bs, err := p.parseBody()
		if err != nil {
			return err
		}
		fd.Body = bs

	case name == "RFC822" || name == "RFC822[":
		if err := p.consumeLabelWithOptionalBrackets("RFC822"); err != nil {
			return err
		}
		if err := p.SP(); err != nil {
			return err
		}
		ns, err := p.nstring()
		if err != nil {
			return err
		}
		fd.RFC822 = ns

	case name == "RFC822.HEADER" || name == "RFC822.HEADER[":
		if err := p.consumeLabelWithOptionalBrackets("RFC822.HEADER"); err != nil {
			return err
		}
		if err := p.SP(); err != nil {
			return err
		}
		ns, err := p.nstring()
		if err != nil {
			return err
		}
		fd.RFC822Header = ns

	case name == "RFC822.TEXT" || name == "RFC822.TEXT[":
		if err := p.consumeLabelWithOptionalBrackets("RFC822.TEXT"); err != nil {
			return err
		}
		if err := p.SP(); err != nil {
			return err
		}
		ns, err := p.nstring()
		if err != nil {
			return err
		}
		fd.RFC822Text = ns

	case name == "RFC822.SIZE":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		n, err := p.number64()
		if err != nil {
			return err
		}
		fd.RFC822Size, fd.HasRFC822Size = n, true

	case name == "MODSEQ":
		p.label(name)
		if err := p.SP(); err != nil {
			return err
		}
		if err := p.lpar(); err != nil {
			return err
		}
		n, err := p.number64()
		if err != nil {
			return err
		}
		if err := p.rpar(); err != nil {
			return err
		}
		fd.ModSeq, fd.HasModSeq = n, true

	default:
		return p.errorf(fmt.Sprintf("unknown msg-att key %q", name))
	}
	return nil
}

// consumeLabelWithOptionalBrackets consumes the RFC822 / RFC822.HEADER
// / RFC822.TEXT label, tolerating a stray "[]" suffix some servers
// send for the bare (non-section) form, per spec.md section 4.4. '['
// is an ordinary ATOM-CHAR, so a server's "RFC822[]" lexes as one atom
// "RFC822[" followed by a standalone ']' token, not as "RFC822" plus
// separate bracket punctuation — the caller's switch already matches
// on that merged form (key+"[").
func (p *Parser) consumeLabelWithOptionalBrackets(key string) error {
	tok, err := p.s.Peek(p.mode)
	if err != nil {
		return err
	}
	text := string(asciiUpper(tok.Value))
	switch text {
	case key:
		p.s.Next(p.mode)
		return nil
	case key + "[":
		p.s.Next(p.mode)
		p.s.warnf("imapresp: tolerating stray [] suffix on %s", key)
		return p.expect(TokenRBra)
	default:
		return p.errorf(fmt.Sprintf("expected %s", key))
	}
}
