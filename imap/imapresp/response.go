// Package imapresp parses IMAP server responses (RFC 3501 / RFC 9051)
// from an already-assembled byte buffer into typed Go values.
//
// The entry point is Parse. It performs no I/O: the caller's
// transport layer is responsible for reading a complete response —
// including following any embedded {n} literal — before calling
// Parse, per RFC 3501 section 2.2.1's "client MUST read a complete
// line" framing rule.
package imapresp

import "github.com/debasishbsws/net-imap/imap/seqset"

// ResponseKind discriminates the variants of Response, playing the
// role spec.md section 3's tagged union describes. Go has no native
// sum type, so — per spec.md section 9's guidance to prefer sum types
// over inheritance — a single struct carries a Kind tag plus one
// populated payload field per variant, the same shape the teacher
// uses for its Command type (imap/imapparser/types.go).
type ResponseKind int

const (
	KindContinuation ResponseKind = iota
	KindTagged
	KindUntagged
	KindIgnored
)

// Status is a tagged or resp-cond-state status.
type Status string

const (
	StatusOK      Status = "OK"
	StatusNo      Status = "NO"
	StatusBad     Status = "BAD"
	StatusBye     Status = "BYE"
	StatusPreAuth Status = "PREAUTH"
)

// Response is the result of parsing one complete server response.
type Response struct {
	Kind ResponseKind

	// KindContinuation
	ContinuationText string

	// KindTagged
	Tag          string
	Status       Status
	ResponseText ResponseText

	// KindUntagged / KindIgnored
	Number uint32 // the optional leading nz-number, e.g. "* 12 FETCH"
	Label  string // the label as seen on the wire, upper-cased
	Data   UntaggedData
}

// UntaggedData is the payload of an untagged or ignored response. As
// with Response, Go encodes the sum type as a Kind discriminant plus
// per-variant fields.
type UntaggedDataKind int

const (
	DataRespText UntaggedDataKind = iota
	DataExpunge
	DataExists
	DataFetch
	DataFlags
	DataList
	DataStatus
	DataSearch
	DataESearch
	DataCapability
	DataNamespace
	DataQuota
	DataQuotaRoot
	DataACL
	DataID
	DataUnparsed
)

type UntaggedData struct {
	Kind UntaggedDataKind

	RespText   ResponseText      // OK/NO/BAD/BYE/PREAUTH
	Count      uint32            // EXISTS/RECENT/EXPUNGE/FETCH's leading number lives in Response.Number
	Fetch      FetchData         // FETCH
	Flags      []Flag            // FLAGS
	List       ListData          // LIST/LSUB/XLIST
	StatusData StatusData        // STATUS
	Search     SearchData        // SEARCH/SORT
	ESearch    ESearchData       // ESEARCH
	Capability []string          // CAPABILITY/ENABLED
	Namespace  NamespaceData     // NAMESPACE
	Quota      QuotaData         // QUOTA
	QuotaRoots []string          // QUOTAROOT
	ACL        []ACLEntry        // ACL
	ID         map[string]string // ID
	Unparsed   UnparsedData      // anything not in the table above
}

// UnparsedData is the fallback payload for an untagged label the
// grammar does not structurally recognize, per spec.md section 3.
type UnparsedData struct {
	HasNumber bool
	Number    uint32
	Text      string
}

// ResponseText is resp-text: an optional bracketed resp-text-code and
// free text.
type ResponseText struct {
	HasCode bool
	Code    ResponseCode
	Text    string
}

// ResponseCodeKind discriminates which of ResponseCode's argument
// fields (Charsets, Capability, Flags, Number, UIDPlus, Text) is set.
type ResponseCodeKind int

const (
	CodeNone ResponseCodeKind = iota
	CodeCharsetList
	CodeCapabilityList
	CodeFlagList
	CodeNumber
	CodeUIDPlus
	CodeText
)

// ResponseCode is a bracketed resp-text-code, e.g. "[UIDVALIDITY
// 12345]".
type ResponseCode struct {
	Name string
	Kind ResponseCodeKind

	Charsets   []string
	Capability []string
	Flags      []Flag
	Number     uint64
	UIDPlus    UIDPlusData
	Text       string
}

// UIDPlusData carries APPENDUID/COPYUID response code arguments
// (RFC 4315).
type UIDPlusData struct {
	Validity uint32
	HasSrc   bool
	SrcUIDs  *seqset.SeqSet
	DstUIDs  *seqset.SeqSet
}

// Flag is either a system flag ("\Seen", canonically cased) or a
// keyword atom, carried as-is.
type Flag struct {
	System bool
	Name   string
}

// FetchData is a FETCH response's parenthesized msg-att list.
type FetchData struct {
	UID             uint32
	HasUID          bool
	Flags           []Flag
	HasFlags        bool
	InternalDate    string
	HasInternalDate bool
	Envelope        *Envelope
	Body            *BodyStructure
	BodyStructure   *BodyStructure
	RFC822          NString
	RFC822Header    NString
	RFC822Text      NString
	RFC822Size      uint64
	HasRFC822Size   bool
	ModSeq          uint64
	HasModSeq       bool
	Sections        []FetchSection // BODY[section]<partial>
}

// FetchSection is one BODY[...]<n> item of a FETCH response.
type FetchSection struct {
	Spec      string // the raw bracketed section text, e.g. "1.MIME" or "HEADER.FIELDS (FROM TO)"
	HasOrigin bool
	Origin    uint32 // the "<n>" partial offset, if present
	Value     NString
}

// NString is the IMAP nstring production: either NIL or a string.
type NString struct {
	Present bool
	Value   []byte
}

// ListData is the payload of LIST/LSUB/XLIST.
type ListData struct {
	Flags        []Flag
	HasDelimiter bool
	Delimiter    byte
	Mailbox      string // decoded from modified UTF-7
}

// StatusItem is one key/number pair of a STATUS response.
type StatusItem struct {
	Key   string
	Value uint64
}

// StatusData is the payload of a STATUS response.
type StatusData struct {
	Mailbox string
	Items   []StatusItem
}

// SearchData is the payload of SEARCH/SORT.
type SearchData struct {
	Numbers   []uint32
	HasModSeq bool
	ModSeq    uint64
}

// ESearchData is the payload of ESEARCH (RFC 4731 / RFC 9051).
type ESearchData struct {
	HasTag    bool
	Tag       string
	UID       bool
	Returns   []ESearchReturn
}

// ESearchReturn is one "ATOM SP value" pair of an ESEARCH response.
type ESearchReturn struct {
	Name   string
	Number uint64
	HasNum bool
	Set    *seqset.SeqSet
}

// NamespaceData is the payload of NAMESPACE (RFC 2342): personal,
// other-users, and shared namespace groups.
type NamespaceData struct {
	Personal   []NamespaceDescr
	OtherUsers []NamespaceDescr
	Shared     []NamespaceDescr
}

// NamespaceDescr is one namespace-descr.
type NamespaceDescr struct {
	Prefix       string
	HasDelimiter bool
	Delimiter    byte
}

// QuotaData is the payload of QUOTA (RFC 9208).
type QuotaData struct {
	Root      string
	Resources []QuotaResource
}

type QuotaResource struct {
	Name  string
	Usage uint64
	Limit uint64
}

// ACLEntry is one identifier/rights pair of an ACL response
// (RFC 4314).
type ACLEntry struct {
	Identifier string
	Rights     string
}
