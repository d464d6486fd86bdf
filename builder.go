package dnswire

import (
	"strings"

	"github.com/mkerrig/dnswire/internal/errors"
	"github.com/mkerrig/dnswire/internal/rdata"
)

// normalizeName appends the trailing dot a wire-format name always
// carries in its textual form. Empty input normalizes to the root
// name.
func normalizeName(name string) string {
	if name == "" {
		return "."
	}
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// NewHeader builds a Header with the given QR/Opcode and every other
// field at its zero-value default (RD/AA/TC/RA false, Z/RCode 0, every
// count 0). Counts are filled in later by NewMessage.
func NewHeader(id uint16, qr MessageType, opcode Opcode) Header {
	return Header{ID: id, Flags: Flags{QR: qr, Opcode: opcode}}
}

// NewQuestion builds a Question, normalizing qname's trailing dot.
func NewQuestion(qname string, qtype, qclass uint16) Question {
	return Question{Name: normalizeName(qname), Type: qtype, Class: qclass}
}

// NewResourceRecord builds a ResourceRecord bound to rd, normalizing
// name and deriving Type from rd.Type() so the TYPE/RDATA
// correspondence required by RFC 1035 §3.2.1 always holds by
// construction.
func NewResourceRecord(name string, class uint16, ttl int32, rd rdata.RData) ResourceRecord {
	return ResourceRecord{
		Name:  normalizeName(name),
		Type:  rd.Type(),
		Class: class,
		TTL:   ttl,
		RData: rd,
	}
}

// OPTOption configures an OPTRecord built by NewOPTRecord.
type OPTOption func(*OPTRecord)

// WithUDPSize sets the OPT record's advertised UDP payload size
// (RFC 6891 §6.2.3). Default: 512.
func WithUDPSize(size uint16) OPTOption {
	return func(o *OPTRecord) { o.UDPSize = size }
}

// WithEDNSVersion sets the OPT record's EDNS version (RFC 6891 §6.1.3).
// Default: 0.
func WithEDNSVersion(version uint8) OPTOption {
	return func(o *OPTRecord) { o.Version = version }
}

// WithDNSSECOK sets the OPT record's DO bit (RFC 3225 / RFC 6891 §6.1.4).
// Default: false.
func WithDNSSECOK(ok bool) OPTOption {
	return func(o *OPTRecord) { o.DO = ok }
}

// WithEDNSOptions attaches EDNS options (RFC 6891 §6.1.2) to the OPT
// record. Default: none.
func WithEDNSOptions(opts []rdata.EDNSOption) OPTOption {
	return func(o *OPTRecord) { o.Options = opts }
}

// NewOPTRecord builds an OPT pseudo-record with RFC 6891 defaults
// (UDPSize 512, version 0, DO false, no options), since its wire layout
// differs from a normal ResourceRecord enough to warrant a distinct
// constructor.
func NewOPTRecord(opts ...OPTOption) OPTRecord {
	o := OPTRecord{UDPSize: 512}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MessageOption configures defaults NewMessage uses when it has to
// synthesize an OPT record to carry an extended RCODE.
type MessageOption func(*OPTRecord)

// NewMessage assembles a Message from a Header and the four sections,
// recomputing the section-count header fields from the slice lengths
// and folding an extended RCODE (> 15) into an OPT record
// (RFC 6891 §6.1.3), inserting a default one if additionals has none.
func NewMessage(header Header, questions []Question, answers, authorities []ResourceRecord, additionals []Record, opts ...MessageOption) (*Message, error) {
	for _, n := range []int{len(questions), len(answers), len(authorities), len(additionals)} {
		if n > 0xFFFF {
			return nil, &errors.SectionCountOverflow{Section: "message", Count: n}
		}
	}

	additionals = append([]Record(nil), additionals...)

	if header.Flags.RCode > 15 {
		high := uint8(header.Flags.RCode >> 4)
		idx := -1
		for i, r := range additionals {
			if _, ok := r.(OPTRecord); ok {
				idx = i
				break
			}
		}
		if idx == -1 {
			opt := NewOPTRecord()
			for _, o := range opts {
				o(&opt)
			}
			additionals = append(additionals, opt)
			idx = len(additionals) - 1
		}
		opt := additionals[idx].(OPTRecord)
		opt.ExtRCode = high
		additionals[idx] = opt
	}

	header.QDCount = uint16(len(questions))
	header.ANCount = uint16(len(answers))
	header.NSCount = uint16(len(authorities))
	header.ARCount = uint16(len(additionals))

	return &Message{
		Header:      header,
		Questions:   questions,
		Answers:     answers,
		Authorities: authorities,
		Additionals: additionals,
	}, nil
}
