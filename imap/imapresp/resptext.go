package imapresp

import (
	"fmt"

	"github.com/debasishbsws/net-imap/imap/seqset"
)

// parseRespText implements resp-text = ["[" resp-text-code "]" SP] text,
// per spec.md section 4.4. Empty text is permitted (continuations and
// some tagged OKs carry none).
func (p *Parser) parseRespText() (ResponseText, error) {
	var rt ResponseText
	if _, ok := p.accept(TokenLBra); ok {
		code, err := p.parseRespTextCode()
		if err != nil {
			return rt, err
		}
		if err := p.expect(TokenRBra); err != nil {
			return rt, err
		}
		rt.HasCode = true
		rt.Code = code
		p.maybeSP()
	}
	rt.Text = p.remainingUnparsed()
	return rt, nil
}

// parseRespTextCode implements resp-text-code from spec.md section
// 4.4, including the UIDPLUS (RFC 4315) and CONDSTORE/QRESYNC
// extensions named there.
func (p *Parser) parseRespTextCode() (ResponseCode, error) {
	name := p.peekLabel()
	switch name {
	case "ALERT", "PARSE", "READ-ONLY", "READ-WRITE", "TRYCREATE", "NOMODSEQ", "UIDNOTSTICKY", "CLOSED":
		p.label(name)
		return ResponseCode{Name: name, Kind: CodeNone}, nil

	case "BADCHARSET":
		p.label(name)
		var charsets []string
		if p.maybeSP() {
			if err := p.lpar(); err != nil {
				return ResponseCode{}, err
			}
			for {
				cs, err := p.astring()
				if err != nil {
					return ResponseCode{}, err
				}
				charsets = append(charsets, string(cs))
				if !p.maybeSP() {
					break
				}
			}
			if err := p.rpar(); err != nil {
				return ResponseCode{}, err
			}
		}
		return ResponseCode{Name: name, Kind: CodeCharsetList, Charsets: charsets}, nil

	case "CAPABILITY":
		p.label(name)
		caps, err := p.parseCapabilityAtoms()
		if err != nil {
			return ResponseCode{}, err
		}
		return ResponseCode{Name: name, Kind: CodeCapabilityList, Capability: caps}, nil

	case "PERMANENTFLAGS":
		p.label(name)
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		flags, err := p.parseFlagList()
		if err != nil {
			return ResponseCode{}, err
		}
		return ResponseCode{Name: name, Kind: CodeFlagList, Flags: flags}, nil

	case "UIDVALIDITY", "UIDNEXT", "UNSEEN", "HIGHESTMODSEQ":
		p.label(name)
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		n, err := p.number64()
		if err != nil {
			return ResponseCode{}, err
		}
		return ResponseCode{Name: name, Kind: CodeNumber, Number: n}, nil

	case "APPENDUID":
		p.label(name)
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		validity, err := p.number()
		if err != nil {
			return ResponseCode{}, err
		}
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		dst, err := p.parseUIDSet()
		if err != nil {
			return ResponseCode{}, err
		}
		return ResponseCode{Name: name, Kind: CodeUIDPlus, UIDPlus: UIDPlusData{Validity: validity, DstUIDs: dst}}, nil

	case "COPYUID", "MOVEUID":
		p.label(name)
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		validity, err := p.number()
		if err != nil {
			return ResponseCode{}, err
		}
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		src, err := p.parseUIDSet()
		if err != nil {
			return ResponseCode{}, err
		}
		if err := p.SP(); err != nil {
			return ResponseCode{}, err
		}
		dst, err := p.parseUIDSet()
		if err != nil {
			return ResponseCode{}, err
		}
		return ResponseCode{Name: name, Kind: CodeUIDPlus, UIDPlus: UIDPlusData{Validity: validity, HasSrc: true, SrcUIDs: src, DstUIDs: dst}}, nil

	default:
		// Unknown codes carry free text, per spec.md section 4.4's
		// resp-text-code table ("unknown codes carry free text").
		atom, err := p.atom()
		if err != nil {
			// Some servers emit non-atom codes (e.g. a bare number);
			// tolerate by consuming whatever is there as text.
			atom = p.remainingUnparsedUntilRBra()
			return ResponseCode{Name: atom, Kind: CodeText, Text: atom}, nil
		}
		var text string
		if p.maybeSP() {
			text = p.remainingUnparsedUntilRBra()
		}
		return ResponseCode{Name: atom, Kind: CodeText, Text: text}, nil
	}
}

// remainingUnparsedUntilRBra consumes free text up to (but not
// including) the closing ']' of a resp-text-code.
func (p *Parser) remainingUnparsedUntilRBra() string {
	start := p.s.pos
	for {
		tok, err := p.s.Peek(p.mode)
		if err != nil || tok.Kind == TokenRBra || tok.Kind == TokenCRLF || tok.Kind == TokenEOF {
			break
		}
		p.s.Next(p.mode)
	}
	return string(p.s.buf[start:p.s.pos])
}

// parseUIDSet parses the uid-set / sequence-set production: since ':'
// and ',' are ordinary ATOM-CHAR bytes (not atom-specials), a run like
// "5:10,12" already lexes as a single ATOM token; only the "*"
// sentinel breaks the run, because STAR is its own token kind. So a
// full sequence-set is reassembled by concatenating the raw text of
// however many consecutive ATOM/NUMBER/STAR tokens appear with no
// intervening SP, per spec.md section 4.5's wire grammar.
func (p *Parser) parseUIDSet() (*seqset.SeqSet, error) {
	start := p.s.pos
	for {
		switch p.lookahead() {
		case TokenAtom, TokenNumber, TokenStar:
			p.s.Next(p.mode)
		default:
			goto done
		}
	}
done:
	text := string(p.s.buf[start:p.s.pos])
	set, err := seqset.Parse(text)
	if err != nil {
		return nil, p.errorf(fmt.Sprintf("invalid uid-set %q: %v", text, err))
	}
	return set, nil
}
