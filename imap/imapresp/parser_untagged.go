package imapresp

import (
	"fmt"

	"github.com/debasishbsws/net-imap/imap/imapresp/utf7"
)

// parseContinuation implements continue-req = "+" [SP resp-text] CRLF.
func (p *Parser) parseContinuation() (Response, error) {
	if err := p.expect(TokenPlus); err != nil {
		return Response{}, err
	}
	var text string
	if p.maybeSP() {
		rt, err := p.parseRespText()
		if err != nil {
			return Response{}, err
		}
		text = rt.Text
		if rt.HasCode {
			// continue-req's resp-text may carry a code in principle;
			// spec.md section 4.4 only documents the free-text form,
			// so fold a code (if any) back into the rendered text.
			text = fmt.Sprintf("[%s] %s", rt.Code.Name, rt.Text)
		}
	}
	return Response{Kind: KindContinuation, ContinuationText: text}, nil
}

// parseTagged implements tag SP ("OK"/"NO"/"BAD") SP resp-text CRLF.
func (p *Parser) parseTagged() (Response, error) {
	tag, err := p.tag()
	if err != nil {
		return Response{}, err
	}
	if err := p.SP(); err != nil {
		return Response{}, err
	}
	statusWord := p.peekLabel()
	var status Status
	switch statusWord {
	case "OK":
		status = StatusOK
	case "NO":
		status = StatusNo
	case "BAD":
		status = StatusBad
	default:
		return Response{}, &InvalidResponseError{Label: "resp-cond-state", Got: statusWord}
	}
	p.label(statusWord)
	if err := p.SP(); err != nil {
		return Response{}, err
	}
	rt, err := p.parseRespText()
	if err != nil {
		return Response{}, err
	}
	return Response{Kind: KindTagged, Tag: tag, Status: status, ResponseText: rt}, nil
}

// parseUntagged implements "*" SP followed by an optional leading
// nz-number and a dispatch on the next label, per spec.md section
// 4.4's untagged-response table.
func (p *Parser) parseUntagged() (Response, error) {
	if err := p.expect(TokenStar); err != nil {
		return Response{}, err
	}
	if err := p.SP(); err != nil {
		return Response{}, err
	}

	var number uint32
	hasNumber := false
	if p.lookahead() == TokenNumber {
		n, err := p.number()
		if err != nil {
			return Response{}, err
		}
		number = n
		hasNumber = true
		if err := p.SP(); err != nil {
			return Response{}, err
		}
	}

	label := p.peekLabel()
	resp := Response{Kind: KindUntagged, Number: number, Label: label}

	switch label {
	case "OK", "NO", "BAD", "BYE", "PREAUTH":
		p.label(label)
		var rt ResponseText
		var err error
		if p.maybeSP() {
			rt, err = p.parseRespText()
			if err != nil {
				return Response{}, err
			}
		}
		resp.Data = UntaggedData{Kind: DataRespText, RespText: rt}
		return resp, nil

	case "EXISTS", "RECENT":
		p.label(label)
		if !hasNumber {
			return Response{}, p.errorf(label + " requires a preceding number")
		}
		resp.Data = UntaggedData{Kind: DataExists}
		return resp, nil

	case "EXPUNGE":
		p.label(label)
		if !hasNumber {
			return Response{}, p.errorf("EXPUNGE requires a preceding number")
		}
		resp.Data = UntaggedData{Kind: DataExpunge}
		return resp, nil

	case "FETCH":
		p.label(label)
		if !hasNumber {
			return Response{}, p.errorf("FETCH requires a preceding number")
		}
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		fd, err := p.parseMsgAtt()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataFetch, Fetch: fd}
		return resp, nil

	case "FLAGS":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		flags, err := p.parseFlagList()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataFlags, Flags: flags}
		return resp, nil

	case "LIST", "LSUB", "XLIST":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		ld, err := p.parseListData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataList, List: ld}
		return resp, nil

	case "STATUS":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		sd, err := p.parseStatusData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataStatus, StatusData: sd}
		return resp, nil

	case "SEARCH", "SORT":
		p.label(label)
		sd, err := p.parseSearchData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataSearch, Search: sd}
		return resp, nil

	case "ESEARCH":
		p.label(label)
		ed, err := p.parseESearchData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataESearch, ESearch: ed}
		return resp, nil

	case "CAPABILITY", "ENABLED":
		p.label(label)
		caps, err := p.parseCapabilityAtoms()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataCapability, Capability: caps}
		return resp, nil

	case "NAMESPACE":
		p.label(label)
		nd, err := p.parseNamespaceData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataNamespace, Namespace: nd}
		return resp, nil

	case "QUOTA":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		qd, err := p.parseQuotaData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataQuota, Quota: qd}
		return resp, nil

	case "QUOTAROOT":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		roots, err := p.parseQuotaRoots()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataQuotaRoot, QuotaRoots: roots}
		return resp, nil

	case "ACL":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		acl, err := p.parseACLData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataACL, ACL: acl}
		return resp, nil

	case "ID":
		p.label(label)
		if err := p.SP(); err != nil {
			return Response{}, err
		}
		id, err := p.parseIDData()
		if err != nil {
			return Response{}, err
		}
		resp.Data = UntaggedData{Kind: DataID, ID: id}
		return resp, nil

	default:
		p.s.warnf("imapresp: unrecognized untagged label %q, keeping as unparsed data", label)
		p.label(label)
		var text string
		if p.maybeSP() {
			text = p.remainingUnparsed()
		}
		resp.Kind = KindIgnored
		resp.Data = UntaggedData{Kind: DataUnparsed, Unparsed: UnparsedData{HasNumber: hasNumber, Number: number, Text: text}}
		return resp, nil
	}
}

// parseCapabilityAtoms implements *(SP capability), also used for
// ENABLED and the CAPABILITY resp-text-code.
func (p *Parser) parseCapabilityAtoms() ([]string, error) {
	var caps []string
	for p.maybeSP() {
		a, err := p.astring()
		if err != nil {
			return nil, err
		}
		caps = append(caps, string(a))
	}
	return caps, nil
}

// parseListData implements "(" flags ")" SP (QUOTED-CHAR / NIL) SP
// astring, per spec.md section 4.4's LIST/LSUB/XLIST row. The mailbox
// name is decoded out of modified UTF-7 per RFC 3501 section 5.1.3.
func (p *Parser) parseListData() (ListData, error) {
	flags, err := p.parseFlagList()
	if err != nil {
		return ListData{}, err
	}
	if err := p.SP(); err != nil {
		return ListData{}, err
	}
	ld := ListData{Flags: flags}
	if _, ok := p.accept(TokenNIL); !ok {
		q, err := p.quoted()
		if err != nil {
			return ListData{}, err
		}
		if len(q) != 1 {
			return ListData{}, p.errorf("mailbox delimiter must be a single character")
		}
		ld.HasDelimiter = true
		ld.Delimiter = q[0]
	}
	if err := p.SP(); err != nil {
		return ListData{}, err
	}
	raw, err := p.astring()
	if err != nil {
		return ListData{}, err
	}
	decoded, err := utf7.AppendDecode(nil, raw)
	if err != nil {
		p.s.warnf("imapresp: mailbox name %q is not valid modified UTF-7: %v", raw, err)
		decoded = raw
	}
	ld.Mailbox = string(decoded)
	return ld, nil
}

// parseStatusData implements astring SP "(" (key SP number)* ")".
func (p *Parser) parseStatusData() (StatusData, error) {
	raw, err := p.astring()
	if err != nil {
		return StatusData{}, err
	}
	decoded, err := utf7.AppendDecode(nil, raw)
	if err != nil {
		decoded = raw
	}
	sd := StatusData{Mailbox: string(decoded)}
	if err := p.SP(); err != nil {
		return StatusData{}, err
	}
	if err := p.lpar(); err != nil {
		return StatusData{}, err
	}
	if p.lookahead() != TokenRPar {
		for {
			key, err := p.atom()
			if err != nil {
				return StatusData{}, err
			}
			if err := p.SP(); err != nil {
				return StatusData{}, err
			}
			n, err := p.number64()
			if err != nil {
				return StatusData{}, err
			}
			sd.Items = append(sd.Items, StatusItem{Key: key, Value: n})
			if !p.maybeSP() {
				break
			}
		}
	}
	if err := p.rpar(); err != nil {
		return StatusData{}, err
	}
	return sd, nil
}

// parseSearchData implements *(SP nz-number) [SP "(" "MODSEQ" SP
// number ")"], per spec.md section 4.4's SEARCH/SORT row.
func (p *Parser) parseSearchData() (SearchData, error) {
	var sd SearchData
	for {
		if !p.maybeSP() {
			break
		}
		if p.lookahead() == TokenLPar {
			if err := p.lpar(); err != nil {
				return SearchData{}, err
			}
			if !p.label("MODSEQ") {
				return SearchData{}, p.errorf("expected MODSEQ in SEARCH modifier")
			}
			if err := p.SP(); err != nil {
				return SearchData{}, err
			}
			n, err := p.number64()
			if err != nil {
				return SearchData{}, err
			}
			if err := p.rpar(); err != nil {
				return SearchData{}, err
			}
			sd.HasModSeq = true
			sd.ModSeq = n
			break
		}
		n, err := p.number()
		if err != nil {
			return SearchData{}, err
		}
		sd.Numbers = append(sd.Numbers, n)
	}
	return sd, nil
}

// parseESearchData implements the ESEARCH response of RFC 4731 / RFC
// 9051 section 7.3.4: ["(" "TAG" SP tag-string ")" SP] ["UID" SP]
// *(SP search-return-data).
func (p *Parser) parseESearchData() (ESearchData, error) {
	var ed ESearchData
	if p.maybeSP() {
		if p.lookahead() == TokenLPar {
			if err := p.lpar(); err != nil {
				return ESearchData{}, err
			}
			if !p.label("TAG") {
				return ESearchData{}, p.errorf("expected TAG in ESEARCH correlator")
			}
			if err := p.SP(); err != nil {
				return ESearchData{}, err
			}
			tag, err := p.str()
			if err != nil {
				return ESearchData{}, err
			}
			if err := p.rpar(); err != nil {
				return ESearchData{}, err
			}
			ed.HasTag = true
			ed.Tag = string(tag)
			p.maybeSP()
		}
		if p.label("UID") {
			ed.UID = true
			p.maybeSP()
		}
		for {
			name := p.peekLabel()
			if name == "" {
				break
			}
			p.label(name)
			if !p.maybeSP() {
				// Names with no value (unusual but tolerated).
				ed.Returns = append(ed.Returns, ESearchReturn{Name: name})
				continue
			}
			ret := ESearchReturn{Name: name}
			switch name {
			case "COUNT", "MIN", "MAX":
				n, err := p.number64()
				if err != nil {
					return ESearchData{}, err
				}
				ret.HasNum = true
				ret.Number = n
			default:
				set, err := p.parseUIDSet()
				if err != nil {
					return ESearchData{}, err
				}
				ret.Set = set
			}
			ed.Returns = append(ed.Returns, ret)
			if !p.maybeSP() {
				break
			}
		}
	}
	return ed, nil
}

// parseNamespaceData implements NAMESPACE (RFC 2342): three
// namespace groups, each either NIL or a parenthesized list of
// namespace-descr.
func (p *Parser) parseNamespaceData() (NamespaceData, error) {
	saved := p.mode
	p.mode = ExprData
	defer func() { p.mode = saved }()

	groups := make([][]NamespaceDescr, 3)
	for i := 0; i < 3; i++ {
		if err := p.SP(); err != nil {
			return NamespaceData{}, err
		}
		if _, ok := p.accept(TokenNIL); ok {
			continue
		}
		if err := p.lpar(); err != nil {
			return NamespaceData{}, err
		}
		var descrs []NamespaceDescr
		for {
			d, err := p.parseNamespaceDescr()
			if err != nil {
				return NamespaceData{}, err
			}
			descrs = append(descrs, d)
			if p.lookahead() != TokenLPar {
				break
			}
		}
		if err := p.rpar(); err != nil {
			return NamespaceData{}, err
		}
		groups[i] = descrs
	}
	return NamespaceData{Personal: groups[0], OtherUsers: groups[1], Shared: groups[2]}, nil
}

func (p *Parser) parseNamespaceDescr() (NamespaceDescr, error) {
	if err := p.lpar(); err != nil {
		return NamespaceDescr{}, err
	}
	prefix, err := p.str()
	if err != nil {
		return NamespaceDescr{}, err
	}
	if err := p.SP(); err != nil {
		return NamespaceDescr{}, err
	}
	d := NamespaceDescr{Prefix: string(prefix)}
	if _, ok := p.accept(TokenNIL); !ok {
		q, err := p.quoted()
		if err != nil {
			return NamespaceDescr{}, err
		}
		if len(q) == 1 {
			d.HasDelimiter = true
			d.Delimiter = q[0]
		}
	}
	// namespace-response-extensions (ignored: no SPEC_FULL consumer).
	for p.lookahead() == TokenSpace {
		p.maybeSP()
		if p.lookahead() != TokenAtom && p.lookahead() != TokenQuoted {
			break
		}
		p.astring()
		p.maybeSP()
		if p.lookahead() == TokenLPar {
			p.lpar()
			for {
				if _, err := p.str(); err != nil {
					break
				}
				if !p.maybeSP() {
					break
				}
			}
			p.rpar()
		}
	}
	if err := p.rpar(); err != nil {
		return NamespaceDescr{}, err
	}
	return d, nil
}

// parseQuotaData implements QUOTA (RFC 9208): astring SP "(" *(atom
// SP number SP number) ")".
func (p *Parser) parseQuotaData() (QuotaData, error) {
	root, err := p.astring()
	if err != nil {
		return QuotaData{}, err
	}
	if err := p.SP(); err != nil {
		return QuotaData{}, err
	}
	if err := p.lpar(); err != nil {
		return QuotaData{}, err
	}
	qd := QuotaData{Root: string(root)}
	if p.lookahead() != TokenRPar {
		for {
			name, err := p.atom()
			if err != nil {
				return QuotaData{}, err
			}
			if err := p.SP(); err != nil {
				return QuotaData{}, err
			}
			usage, err := p.number64()
			if err != nil {
				return QuotaData{}, err
			}
			if err := p.SP(); err != nil {
				return QuotaData{}, err
			}
			limit, err := p.number64()
			if err != nil {
				return QuotaData{}, err
			}
			qd.Resources = append(qd.Resources, QuotaResource{Name: name, Usage: usage, Limit: limit})
			if !p.maybeSP() {
				break
			}
		}
	}
	if err := p.rpar(); err != nil {
		return QuotaData{}, err
	}
	return qd, nil
}

func (p *Parser) parseQuotaRoots() ([]string, error) {
	var roots []string
	if _, err := p.astring(); err != nil { // mailbox name, discarded: no SPEC_FULL consumer needs it separately from the roots
		return nil, err
	}
	for p.maybeSP() {
		r, err := p.astring()
		if err != nil {
			return nil, err
		}
		roots = append(roots, string(r))
	}
	return roots, nil
}

// parseACLData implements ACL (RFC 4314): mailbox *(SP identifier SP
// rights).
func (p *Parser) parseACLData() ([]ACLEntry, error) {
	if _, err := p.astring(); err != nil {
		return nil, err
	}
	var entries []ACLEntry
	for p.maybeSP() {
		id, err := p.astring()
		if err != nil {
			return nil, err
		}
		if err := p.SP(); err != nil {
			return nil, err
		}
		rights, err := p.astring()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ACLEntry{Identifier: string(id), Rights: string(rights)})
	}
	return entries, nil
}

// parseIDData implements ID (RFC 2971): NIL / "(" *(string SP
// nstring) ")".
func (p *Parser) parseIDData() (map[string]string, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if err := p.lpar(); err != nil {
		return nil, err
	}
	m := map[string]string{}
	if p.lookahead() != TokenRPar {
		for {
			key, err := p.str()
			if err != nil {
				return nil, err
			}
			if err := p.SP(); err != nil {
				return nil, err
			}
			val, err := p.nstring()
			if err != nil {
				return nil, err
			}
			if val.Present {
				m[string(key)] = string(val.Value)
			} else {
				m[string(key)] = ""
			}
			if !p.maybeSP() {
				break
			}
		}
	}
	if err := p.rpar(); err != nil {
		return nil, err
	}
	return m, nil
}
