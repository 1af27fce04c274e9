package imapresp

// parseFlag parses a single flag: either a system flag "\Name"
// (canonically cased, e.g. "\Seen") or a bare keyword atom, carried
// as-is, per spec.md section 4.4's flag-list row. It also accepts the
// bare "\*" wildcard used in PERMANENTFLAGS (flag-perm).
func (p *Parser) parseFlag() (Flag, error) {
	if _, ok := p.accept(TokenBSlash); ok {
		if _, ok := p.accept(TokenStar); ok {
			return Flag{System: true, Name: "*"}, nil
		}
		name, err := p.atom()
		if err != nil {
			return Flag{}, err
		}
		return Flag{System: true, Name: canonicalFlagName(name)}, nil
	}
	name, err := p.atom()
	if err != nil {
		return Flag{}, err
	}
	return Flag{Name: name}, nil
}

var canonicalSystemFlags = map[string]string{
	"ANSWERED": "Answered",
	"FLAGGED":  "Flagged",
	"DELETED":  "Deleted",
	"SEEN":     "Seen",
	"DRAFT":    "Draft",
	"RECENT":   "Recent",
}

func canonicalFlagName(name string) string {
	if c, ok := canonicalSystemFlags[asciiUpperStr(name)]; ok {
		return c
	}
	return name
}

func asciiUpperStr(s string) string {
	return string(asciiUpper([]byte(s)))
}

// parseFlagList parses "(" [flag *(SP flag)] ")".
func (p *Parser) parseFlagList() ([]Flag, error) {
	if err := p.lpar(); err != nil {
		return nil, err
	}
	var flags []Flag
	if p.lookahead() != TokenRPar {
		for {
			f, err := p.parseFlag()
			if err != nil {
				return nil, err
			}
			flags = append(flags, f)
			if !p.maybeSP() {
				break
			}
			// Tolerate a trailing space before ')', a real-world server
			// quirk spec.md section 4.4 calls out for msg-att lists
			// generally.
			if p.lookahead() == TokenRPar {
				break
			}
		}
	}
	if err := p.rpar(); err != nil {
		return nil, err
	}
	return flags, nil
}
