package imapresp

import "fmt"

// parseFetchSection implements the "[section]<partial>" suffix of a
// BODY fetch response, per spec.md section 4.4's "BODY[...]<partial>"
// row. lead is the raw bytes of the merged "BODY[..." atom the caller
// already peeked and consumed: '[' is an ordinary ATOM-CHAR (spec.md
// section 4.1's ATOM_SPECIALS excludes it), so the scanner cannot stop
// at "BODY" and hand back a standalone '[' token — it keeps scanning
// into the section-spec itself, up to the first true special byte (SP,
// '(', ')', or ']'). lead's bytes after "BODY" are therefore the first
// chunk of the section-spec text, not a separate bracket token.
func (p *Parser) parseFetchSection(lead []byte) (FetchSection, error) {
	var sec FetchSection
	if len(lead) < 5 || lead[4] != '[' {
		return sec, p.errorf(fmt.Sprintf("expected BODY[ prefix, got %q", lead))
	}
	spec, err := p.parseSectionSpec(string(lead[5:]))
	if err != nil {
		return sec, err
	}
	sec.Spec = spec
	if err := p.expect(TokenRBra); err != nil {
		return sec, err
	}
	if p.lookahead() == TokenAtom {
		n, err := p.parsePartialOrigin()
		if err != nil {
			return sec, err
		}
		sec.HasOrigin = true
		sec.Origin = n
	}
	return sec, nil
}

// parsePartialOrigin consumes the "<number>" partial-origin suffix.
// '<', digits, '.', and '>' are all plain ATOM-CHARs (none of them
// are atom-specials), so the whole "<n>" run already lexes as a
// single ATOM token under the scanner's greedy-but-linear rule; this
// just validates its shape and extracts the digits.
func (p *Parser) parsePartialOrigin() (uint32, error) {
	tok, err := p.s.Peek(p.mode)
	if err != nil {
		return 0, err
	}
	run := tok.Value
	if len(run) < 3 || run[0] != '<' || run[len(run)-1] != '>' {
		return 0, p.errorf("expected <number> partial origin")
	}
	digits := run[1 : len(run)-1]
	if len(digits) == 0 {
		return 0, p.errorf("expected digits in partial origin")
	}
	var n uint64
	for _, c := range digits {
		if !isDigit(c) {
			return 0, p.errorf("expected digits in partial origin")
		}
		n = n*10 + uint64(c-'0')
	}
	p.s.Next(p.mode)
	return uint32(n), nil
}

// parseSectionSpec captures the remainder of a section-spec's text
// following prefix (the part already read out of the merged "BODY["
// atom, see parseFetchSection), validating the HEADER.FIELDS [.NOT]
// header-name list's field-names along the way. Everything else
// (section-msgtext alone, section-part "." section-text, or a bare
// number part-specifier) is carried through verbatim. A paren depth
// counter keeps a HEADER.FIELDS (...) list's inner parens from being
// mistaken for anything structural.
func (p *Parser) parseSectionSpec(prefix string) (string, error) {
	start := p.s.pos
	depth := 0
	for {
		tok, err := p.s.Peek(p.mode)
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case TokenRBra:
			if depth == 0 {
				goto done
			}
		case TokenLPar:
			depth++
		case TokenRPar:
			if depth > 0 {
				depth--
			}
		case TokenCRLF, TokenEOF:
			return "", p.errorf("unterminated section-spec")
		}
		p.s.Next(p.mode)
	}
done:
	text := prefix + string(p.s.buf[start:p.s.pos])
	if err := p.validateHeaderFieldList(text); err != nil {
		p.s.warnf("imapresp: %v", err)
	}
	return text, nil
}

// validateHeaderFieldList checks, on a best-effort basis, that a
// HEADER.FIELDS / HEADER.FIELDS.NOT section's parenthesized header
// names are all valid RFC 5322 field-names (printable ASCII, no ':'
// or SP). It never fails parsing: callers just get a warning, per
// spec.md section 7's "header field names that are not valid RFC
// 5322" tolerance.
func (p *Parser) validateHeaderFieldList(spec string) error {
	i := indexFold(spec, "HEADER.FIELDS")
	if i < 0 {
		return nil
	}
	j := i
	for j < len(spec) && spec[j] != '(' {
		j++
	}
	if j >= len(spec) {
		return nil
	}
	k := j + 1
	fieldStart := k
	for k <= len(spec) {
		atEnd := k == len(spec) || spec[k] == ' ' || spec[k] == ')'
		if atEnd {
			if k > fieldStart {
				name := spec[fieldStart:k]
				for i := 0; i < len(name); i++ {
					if !headerFieldNameOK(name[i]) {
						return fmt.Errorf("header field name %q contains invalid RFC 5322 character %q", name, name[i])
					}
				}
			}
			if k >= len(spec) || spec[k] == ')' {
				break
			}
			fieldStart = k + 1
		}
		k++
	}
	return nil
}

func indexFold(s, sub string) int {
	su := string(asciiUpper([]byte(s)))
	sb := string(asciiUpper([]byte(sub)))
	for i := 0; i+len(sb) <= len(su); i++ {
		if su[i:i+len(sb)] == sb {
			return i
		}
	}
	return -1
}
