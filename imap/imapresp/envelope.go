package imapresp

// Envelope is the ENVELOPE fetch attribute: RFC 3501 section 7.4.2's
// envelope structure. Address-list fields are nil (not empty slices)
// when the wire value was NIL, so callers can distinguish "no header"
// from "header with a parenthesized empty list" — the latter does not
// occur on the wire but the distinction is cheap to preserve.
type Envelope struct {
	Date      string
	Subject   string
	From      []Address
	Sender    []Address
	ReplyTo   []Address
	To        []Address
	Cc        []Address
	Bcc       []Address
	InReplyTo string
	MessageID string
}

// Address is one address structure: either a real mailbox (Mailbox
// and Host both non-empty) or an RFC 822 group marker, where Mailbox
// holds the group name, Host is empty, and Adl/Mailbox follow the
// "group start"/"group end" convention of RFC 3501 section 7.4.2.
type Address struct {
	Name    string
	Adl     string
	Mailbox string
	Host    string
}

// parseEnvelope implements envelope, per RFC 3501 section 7.4.2. It
// runs in ExprData mode: inside an envelope, bare words are always
// NIL/NUMBER/QUOTED/LITERAL, never the richer ExprBeg atom set.
func (p *Parser) parseEnvelope() (*Envelope, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	saved := p.mode
	p.mode = ExprData
	defer func() { p.mode = saved }()

	if err := p.lpar(); err != nil {
		return nil, err
	}
	env := &Envelope{}

	date, err := p.nstring()
	if err != nil {
		return nil, err
	}
	env.Date = string(date.Value)
	if err := p.SP(); err != nil {
		return nil, err
	}

	subject, err := p.nstring()
	if err != nil {
		return nil, err
	}
	env.Subject = string(subject.Value)

	for _, dst := range []*[]Address{&env.From, &env.Sender, &env.ReplyTo, &env.To, &env.Cc, &env.Bcc} {
		if err := p.SP(); err != nil {
			return nil, err
		}
		addrs, err := p.parseAddressList()
		if err != nil {
			return nil, err
		}
		*dst = addrs
	}

	if err := p.SP(); err != nil {
		return nil, err
	}
	inReplyTo, err := p.nstring()
	if err != nil {
		return nil, err
	}
	env.InReplyTo = string(inReplyTo.Value)

	if err := p.SP(); err != nil {
		return nil, err
	}
	messageID, err := p.nstring()
	if err != nil {
		return nil, err
	}
	env.MessageID = string(messageID.Value)

	if err := p.rpar(); err != nil {
		return nil, err
	}
	return env, nil
}

// parseAddressList implements "(" 1*address ")" / nil, the envelope's
// address-list production.
func (p *Parser) parseAddressList() ([]Address, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if err := p.lpar(); err != nil {
		return nil, err
	}
	var addrs []Address
	for {
		a, err := p.parseAddress()
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
		if p.lookahead() != TokenLPar {
			break
		}
	}
	if err := p.rpar(); err != nil {
		return nil, err
	}
	return addrs, nil
}

// parseAddress implements address = "(" addr-name SP addr-adl SP
// addr-mailbox SP addr-host ")".
func (p *Parser) parseAddress() (Address, error) {
	if err := p.lpar(); err != nil {
		return Address{}, err
	}
	var a Address
	name, err := p.nstring()
	if err != nil {
		return Address{}, err
	}
	a.Name = string(name.Value)
	if err := p.SP(); err != nil {
		return Address{}, err
	}
	adl, err := p.nstring()
	if err != nil {
		return Address{}, err
	}
	a.Adl = string(adl.Value)
	if err := p.SP(); err != nil {
		return Address{}, err
	}
	mailbox, err := p.nstring()
	if err != nil {
		return Address{}, err
	}
	a.Mailbox = string(mailbox.Value)
	if err := p.SP(); err != nil {
		return Address{}, err
	}
	host, err := p.nstring()
	if err != nil {
		return Address{}, err
	}
	a.Host = string(host.Value)
	if err := p.rpar(); err != nil {
		return Address{}, err
	}
	return a, nil
}
