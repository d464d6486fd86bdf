package dnswire

import (
	"encoding/binary"

	"github.com/mkerrig/dnswire/internal/errors"
	"github.com/mkerrig/dnswire/internal/name"
	"github.com/mkerrig/dnswire/internal/rdata"
	"github.com/mkerrig/dnswire/internal/stream"
)

// Framing selects whether Encode produces a bare UDP message or
// prefixes it with the u16 big-endian length RFC 1035 §4.2.2 requires
// for TCP transport.
type Framing int

const (
	UDP Framing = iota
	TCP
)

// Encode serializes m to wire format, walking header, questions,
// answers, authorities, and additionals in order and threading a fresh
// compression dictionary across the whole message (RFC 1035 §4).
func Encode(m *Message, framing Framing) ([]byte, error) {
	s := stream.Get()
	comp := name.Compressor{}

	s.WriteUint16(m.Header.ID)
	s.WriteUint16(packFlags(m.Header.Flags))
	s.WriteUint16(m.Header.QDCount)
	s.WriteUint16(m.Header.ANCount)
	s.WriteUint16(m.Header.NSCount)
	s.WriteUint16(m.Header.ARCount)

	for _, q := range m.Questions {
		if err := name.Encode(s, q.Name, comp); err != nil {
			stream.Put(s)
			return nil, err
		}
		s.WriteUint16(q.Type)
		s.WriteUint16(q.Class)
	}

	for _, rr := range m.Answers {
		if err := encodeResourceRecord(s, rr, comp); err != nil {
			stream.Put(s)
			return nil, err
		}
	}
	for _, rr := range m.Authorities {
		if err := encodeResourceRecord(s, rr, comp); err != nil {
			stream.Put(s)
			return nil, err
		}
	}
	for _, r := range m.Additionals {
		var err error
		switch v := r.(type) {
		case ResourceRecord:
			err = encodeResourceRecord(s, v, comp)
		case OPTRecord:
			err = encodeOPTRecord(s, v, comp)
		}
		if err != nil {
			stream.Put(s)
			return nil, err
		}
	}

	out := append([]byte(nil), s.Bytes()...)
	stream.Put(s)

	if framing == TCP {
		if len(out) > 0xFFFF {
			return nil, &errors.MalformedRData{Type: "message", Message: "message exceeds 65535 bytes and cannot be TCP-framed"}
		}
		framed := make([]byte, 2+len(out))
		binary.BigEndian.PutUint16(framed, uint16(len(out)))
		copy(framed[2:], out)
		return framed, nil
	}
	return out, nil
}

func encodeResourceRecord(s *stream.Stream, rr ResourceRecord, comp name.Compressor) error {
	if err := name.Encode(s, rr.Name, comp); err != nil {
		return err
	}
	s.WriteUint16(rr.Type)
	s.WriteUint16(rr.Class)
	s.WriteUint32(uint32(rr.TTL))
	return rdata.Write(s, rr.RData, comp)
}

func encodeOPTRecord(s *stream.Stream, opt OPTRecord, comp name.Compressor) error {
	// The OPT name is always the root; compression never applies to it.
	if err := name.Encode(s, ".", comp); err != nil {
		return err
	}
	s.WriteUint16(rdata.TypeOPT)
	s.WriteUint16(opt.UDPSize)

	var doZ uint16
	if opt.DO {
		doZ = 0x8000
	}
	doZ |= opt.Z & 0x7FFF
	ttlSlot := uint32(opt.ExtRCode)<<24 | uint32(opt.Version)<<16 | uint32(doZ)
	s.WriteUint32(ttlSlot)

	return rdata.Write(s, rdata.OPT{Options: opt.Options}, comp)
}

// Decode parses a UDP-framed (unprefixed) DNS message from b. Strip any
// TCP length prefix before calling Decode.
func Decode(b []byte) (*Message, error) {
	s := stream.NewReader(b)

	id, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	flagsRaw, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	qd, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	an, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	ns, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	ar, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}

	flags := unpackFlags(flagsRaw)
	header := Header{ID: id, Flags: flags, QDCount: qd, ANCount: an, NSCount: ns, ARCount: ar}

	questions := make([]Question, 0, qd)
	for i := 0; i < int(qd); i++ {
		qname, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		qtype, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		qclass, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		questions = append(questions, Question{Name: qname, Type: qtype, Class: qclass})
	}

	answers, err := decodeResourceRecords(s, int(an))
	if err != nil {
		return nil, err
	}
	authorities, err := decodeResourceRecords(s, int(ns))
	if err != nil {
		return nil, err
	}
	additionals, foldedRCode, folded, err := decodeAdditionals(s, int(ar), flags.RCode)
	if err != nil {
		return nil, err
	}
	if folded {
		header.Flags.RCode = foldedRCode
	}

	return &Message{
		Header:      header,
		Questions:   questions,
		Answers:     answers,
		Authorities: authorities,
		Additionals: additionals,
	}, nil
}

func decodeResourceRecords(s *stream.Stream, n int) ([]ResourceRecord, error) {
	records := make([]ResourceRecord, 0, n)
	for i := 0; i < n; i++ {
		nm, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		typ, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		class, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		ttl, err := s.ReadUint32()
		if err != nil {
			return nil, err
		}
		rd, err := rdata.Parse(s, typ)
		if err != nil {
			return nil, err
		}
		records = append(records, ResourceRecord{Name: nm, Type: typ, Class: class, TTL: int32(ttl), RData: rd})
	}
	return records, nil
}

// decodeAdditionals parses the additional section, deciding per record
// whether TYPE selects the OPT layout (RFC 6891 §6.1.2) or the normal
// CLASS/TTL layout. It returns the extended RCODE folded from the first
// OPT record encountered, if any (RFC 6891 §6.1.3).
func decodeAdditionals(s *stream.Stream, n int, lowNibble RCode) ([]Record, RCode, bool, error) {
	records := make([]Record, 0, n)
	folded := false
	var foldedRCode RCode

	for i := 0; i < n; i++ {
		nm, err := name.Decode(s)
		if err != nil {
			return nil, 0, false, err
		}
		typ, err := s.ReadUint16()
		if err != nil {
			return nil, 0, false, err
		}

		if typ == rdata.TypeOPT {
			udpSize, err := s.ReadUint16()
			if err != nil {
				return nil, 0, false, err
			}
			ttlSlot, err := s.ReadUint32()
			if err != nil {
				return nil, 0, false, err
			}
			extRCode := uint8(ttlSlot >> 24)
			version := uint8(ttlSlot >> 16)
			doZ := uint16(ttlSlot & 0xFFFF)

			rd, err := rdata.Parse(s, rdata.TypeOPT)
			if err != nil {
				return nil, 0, false, err
			}
			opt := OPTRecord{
				UDPSize:  udpSize,
				ExtRCode: extRCode,
				Version:  version,
				DO:       doZ&0x8000 != 0,
				Z:        doZ & 0x7FFF,
				Options:  rd.(rdata.OPT).Options,
			}
			_ = nm // OPT's name is always "."; nothing to preserve beyond validating it parsed.
			records = append(records, opt)

			if !folded {
				foldedRCode = RCode(uint16(extRCode)<<4 | uint16(lowNibble))
				folded = true
			}
			continue
		}

		class, err := s.ReadUint16()
		if err != nil {
			return nil, 0, false, err
		}
		ttl, err := s.ReadUint32()
		if err != nil {
			return nil, 0, false, err
		}
		rd, err := rdata.Parse(s, typ)
		if err != nil {
			return nil, 0, false, err
		}
		records = append(records, ResourceRecord{Name: nm, Type: typ, Class: class, TTL: int32(ttl), RData: rd})
	}

	return records, foldedRCode, folded, nil
}
