package dnswire

import "github.com/mkerrig/dnswire/internal/rdata"

// MessageType is the QR bit of a DNS header: whether the message is a
// query or a response (RFC 1035 §4.1.1).
type MessageType uint8

const (
	Query    MessageType = 0
	Response MessageType = 1
)

func (t MessageType) String() string {
	if t == Response {
		return "RESPONSE"
	}
	return "QUERY"
}

// Opcode is the 4-bit OPCODE field of a DNS header (RFC 1035 §4.1.1).
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
)

// RCode is a DNS response code. Values 0-15 are carried directly in the
// header; values above 15 require the OPT extended-RCODE mechanism of
// RFC 6891 §6.1.3 and only ever appear on a Header that a Message has
// folded an OPT record's ExtRCode into (see NewMessage and Decode).
type RCode uint16

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
)

// DNS classes (RFC 1035 §3.2.4). dnswire carries non-IN classes through
// as opaque values on records but offers no class-specific behavior for
// them.
const (
	ClassIN = 1
	ClassCS = 2
	ClassCH = 3
	ClassHS = 4
)

// Flags holds the bit-packed header flags (RFC 1035 §4.1.1). Z MUST be
// zero on a Header an encoder produces; RCode may exceed 15 only as
// described on the RCode type.
type Flags struct {
	QR     MessageType
	Opcode Opcode
	AA     bool
	TC     bool
	RD     bool
	RA     bool
	Z      uint8
	RCode  RCode
}

// Header is the fixed 12-byte DNS message header (RFC 1035 §4.1.1).
type Header struct {
	ID      uint16
	Flags   Flags
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Question is one entry of the question section (RFC 1035 §4.1.2).
// Name always carries a trailing dot; NewQuestion normalizes it.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// ResourceRecord is one entry of the answer, authority, or additional
// section (RFC 1035 §4.1.3), excluding the OPT pseudo-record (see
// OPTRecord). RData's dynamic type must agree with Type, a precondition
// NewResourceRecord enforces by deriving Type from RData itself.
type ResourceRecord struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   int32
	RData rdata.RData
}

// OPTRecord is the EDNS pseudo-record (RFC 6891 §6.1.2). Its wire
// layout overlays CLASS with UDPSize and TTL with
// ExtRCode/Version/DO/Z, rather than carrying a regular CLASS/TTL, so it
// is modeled as a distinct type instead of shoehorning those fields onto
// ResourceRecord.
type OPTRecord struct {
	UDPSize  uint16
	ExtRCode uint8
	Version  uint8
	DO       bool
	Z        uint16 // 15-bit
	Options  []rdata.EDNSOption
}

// Record is either a ResourceRecord or an OPTRecord. Only the
// additional section may contain an OPTRecord (RFC 6891 §6.1.1); answers
// and authorities are always ResourceRecord.
type Record interface {
	isRecord()
}

func (ResourceRecord) isRecord() {}
func (OPTRecord) isRecord()      {}

// Message is a complete DNS message: a Header plus the four sections.
// A Message exclusively owns its Header, Questions, and record lists;
// there are no shared or back-references between a Message's entities.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []ResourceRecord
	Authorities []ResourceRecord
	Additionals []Record
}

// OPT returns the message's OPT record and true if one is present in
// Additionals. At most one OPT record is expected per message
// (RFC 6891 §6.1.1).
func (m *Message) OPT() (OPTRecord, bool) {
	for _, r := range m.Additionals {
		if opt, ok := r.(OPTRecord); ok {
			return opt, true
		}
	}
	return OPTRecord{}, false
}
