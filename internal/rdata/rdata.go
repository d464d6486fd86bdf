// Package rdata implements the polymorphic per-TYPE resource-record
// payload codec of RFC 1035 §3.3/§3.4, RFC 1886 (AAAA), RFC 2782 (SRV),
// RFC 6891 (OPT), and RFC 8659 (CAA).
//
// Each payload variant is a distinct Go type implementing RData, with
// Parse/Write dispatching on the owning record's TYPE via a type
// switch rather than virtual dispatch.
package rdata

import (
	"github.com/mkerrig/dnswire/internal/errors"
	"github.com/mkerrig/dnswire/internal/name"
	"github.com/mkerrig/dnswire/internal/stream"
)

// Well-known TYPE values per RFC 1035 §3.2.2, RFC 1886, RFC 2782, RFC 6891,
// and RFC 8659.
const (
	TypeA     = 1
	TypeNS    = 2
	TypeMD    = 3
	TypeMF    = 4
	TypeCNAME = 5
	TypeSOA   = 6
	TypeMB    = 7
	TypeMG    = 8
	TypeMR    = 9
	TypeNULL  = 10
	TypeWKS   = 11
	TypePTR   = 12
	TypeHINFO = 13
	TypeMINFO = 14
	TypeMX    = 15
	TypeTXT   = 16
	TypeAAAA  = 28
	TypeSRV   = 33
	TypeOPT   = 41
	TypeCAA   = 257
)

// RData is implemented by every resource-record payload variant,
// including Unknown. It is a closed tagged union in spirit: Message
// decode always dispatches on the owning record's TYPE, never on a
// runtime type assertion cascade.
type RData interface {
	// Type returns the RFC TYPE code this payload serializes as.
	Type() uint16
}

// A is the IPv4 address RDATA for TYPE A (RFC 1035 §3.4.1).
type A struct{ Addr [4]byte }

func (A) Type() uint16 { return TypeA }

// AAAA is the IPv6 address RDATA for TYPE AAAA (RFC 1886 §2.2).
type AAAA struct{ Addr [16]byte }

func (AAAA) Type() uint16 { return TypeAAAA }

// NS is a single compressed domain name, for TYPE NS (RFC 1035 §3.3.11).
type NS struct{ Name string }

func (NS) Type() uint16 { return TypeNS }

// MD is a single compressed domain name, for the obsolete TYPE MD
// (RFC 1035 §3.3.4).
type MD struct{ Name string }

func (MD) Type() uint16 { return TypeMD }

// MF is a single compressed domain name, for the obsolete TYPE MF
// (RFC 1035 §3.3.5).
type MF struct{ Name string }

func (MF) Type() uint16 { return TypeMF }

// CNAME is a single compressed domain name, for TYPE CNAME
// (RFC 1035 §3.3.1).
type CNAME struct{ Name string }

func (CNAME) Type() uint16 { return TypeCNAME }

// MB is a single compressed domain name, for the experimental TYPE MB
// (RFC 1035 §3.3.3).
type MB struct{ Name string }

func (MB) Type() uint16 { return TypeMB }

// MG is a single compressed domain name, for the experimental TYPE MG
// (RFC 1035 §3.3.6).
type MG struct{ Name string }

func (MG) Type() uint16 { return TypeMG }

// MR is a single compressed domain name, for the experimental TYPE MR
// (RFC 1035 §3.3.8).
type MR struct{ Name string }

func (MR) Type() uint16 { return TypeMR }

// PTR is a single compressed domain name, for TYPE PTR
// (RFC 1035 §3.3.12).
type PTR struct{ Name string }

func (PTR) Type() uint16 { return TypePTR }

// SOA is the zone authority record for TYPE SOA (RFC 1035 §3.3.13).
type SOA struct {
	MName, RName                             string
	Serial, Refresh, Retry, Expire, Minimum uint32
}

func (SOA) Type() uint16 { return TypeSOA }

// Null is opaque data for TYPE NULL (RFC 1035 §3.3.10).
type Null struct{ Data []byte }

func (Null) Type() uint16 { return TypeNULL }

// WKS describes well-known services for TYPE WKS (RFC 1035 §3.4.2).
type WKS struct {
	Addr     [4]byte
	Protocol uint8
	Bitmap   []byte
}

func (WKS) Type() uint16 { return TypeWKS }

// HINFO carries host information for TYPE HINFO (RFC 1035 §3.3.2).
type HINFO struct{ CPU, OS string }

func (HINFO) Type() uint16 { return TypeHINFO }

// MINFO carries mailbox information for TYPE MINFO (RFC 1035 §3.3.7).
type MINFO struct{ RMailbx, EMailbx string }

func (MINFO) Type() uint16 { return TypeMINFO }

// MX is a mail exchange preference and target for TYPE MX
// (RFC 1035 §3.3.9).
type MX struct {
	Preference uint16
	Exchange   string
}

func (MX) Type() uint16 { return TypeMX }

// TXT holds one or more character-strings for TYPE TXT
// (RFC 1035 §3.3.14).
type TXT struct{ Strings []string }

func (TXT) Type() uint16 { return TypeTXT }

// SRV locates a service for TYPE SRV (RFC 2782).
type SRV struct {
	Priority, Weight, Port uint16
	Target                 string
}

func (SRV) Type() uint16 { return TypeSRV }

// CAA restricts certificate issuance for TYPE CAA (RFC 8659 §4). The
// flags byte's seven reserved bits (RFC 8659 §4.1) are preserved
// verbatim in Reserved so a decoded record re-encodes byte-identical
// even when a peer sets bits it shouldn't.
type CAA struct {
	IssuerCritical bool
	Reserved       uint8
	Tag            string
	Value          []byte
}

func (CAA) Type() uint16 { return TypeCAA }

// EDNSOption is a single {code, data} option inside an OPT record's
// RDATA, per RFC 6891 §6.1.2.
type EDNSOption struct {
	Code uint16
	Data []byte
}

// OPT is the EDNS pseudo-record payload for TYPE OPT (RFC 6891 §6.1.2).
// The rest of the OPT record's fields (UDP size, extended RCODE,
// version, DO, Z) live on the owning record, not here, because they
// overlay the generic record's CLASS/TTL slots rather than RDATA.
type OPT struct{ Options []EDNSOption }

func (OPT) Type() uint16 { return TypeOPT }

// Unknown preserves the exact RDLENGTH bytes of a TYPE this package does
// not model. Decoding into Unknown never fails; re-serializing one is a
// best-effort verbatim write and is not guaranteed to round trip
// through a foreign encoder.
type Unknown struct {
	TypeCode uint16
	Data     []byte
}

func (u Unknown) Type() uint16 { return u.TypeCode }

// Parse reads RDLENGTH followed by the TYPE-specific RDATA from s,
// returning the parsed variant. The stream must be positioned
// immediately after the owning record's fixed fields (CLASS/TTL for a
// normal record, or the UDP-size/extRCode/version/Z fields for OPT).
//
// Names inside RDATA (SOA's two names, MX/SRV/NS/CNAME/... targets) are
// decoded against the full message stream so compression pointers can
// reach anywhere earlier in the message, not just within this RDATA's
// own byte range; Parse verifies after the fact that exactly RDLENGTH
// bytes were consumed.
func Parse(s *stream.Stream, typ uint16) (RData, error) {
	rdlength, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	start := s.Pos()

	rd, err := parseBody(s, typ, int(rdlength))
	if err != nil {
		return nil, err
	}

	consumed := s.Pos() - start
	if consumed != int(rdlength) {
		return nil, &errors.MalformedRData{
			Type:    typeName(typ),
			Message: "parser consumed a different number of bytes than RDLENGTH declared",
		}
	}
	return rd, nil
}

func parseBody(s *stream.Stream, typ uint16, rdlength int) (RData, error) {
	switch typ {
	case TypeA:
		b, err := s.ReadN(4)
		if err != nil {
			return nil, err
		}
		if len(b) != 4 {
			return nil, malformed("A", "expected 4 bytes")
		}
		var a A
		copy(a.Addr[:], b)
		return a, nil

	case TypeAAAA:
		b, err := s.ReadN(16)
		if err != nil {
			return nil, err
		}
		var a AAAA
		copy(a.Addr[:], b)
		return a, nil

	case TypeNS:
		n, err := name.Decode(s)
		return NS{Name: n}, err
	case TypeMD:
		n, err := name.Decode(s)
		return MD{Name: n}, err
	case TypeMF:
		n, err := name.Decode(s)
		return MF{Name: n}, err
	case TypeCNAME:
		n, err := name.Decode(s)
		return CNAME{Name: n}, err
	case TypeMB:
		n, err := name.Decode(s)
		return MB{Name: n}, err
	case TypeMG:
		n, err := name.Decode(s)
		return MG{Name: n}, err
	case TypeMR:
		n, err := name.Decode(s)
		return MR{Name: n}, err
	case TypePTR:
		n, err := name.Decode(s)
		return PTR{Name: n}, err

	case TypeSOA:
		mname, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		rname, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		serial, err := s.ReadUint32()
		if err != nil {
			return nil, err
		}
		refresh, err := s.ReadUint32()
		if err != nil {
			return nil, err
		}
		retry, err := s.ReadUint32()
		if err != nil {
			return nil, err
		}
		expire, err := s.ReadUint32()
		if err != nil {
			return nil, err
		}
		minimum, err := s.ReadUint32()
		if err != nil {
			return nil, err
		}
		return SOA{MName: mname, RName: rname, Serial: serial, Refresh: refresh, Retry: retry, Expire: expire, Minimum: minimum}, nil

	case TypeNULL:
		b, err := s.ReadN(rdlength)
		if err != nil {
			return nil, err
		}
		return Null{Data: cloneBytes(b)}, nil

	case TypeWKS:
		if rdlength < 5 {
			return nil, malformed("WKS", "rdlength shorter than fixed fields")
		}
		addr, err := s.ReadN(4)
		if err != nil {
			return nil, err
		}
		proto, err := s.ReadByte()
		if err != nil {
			return nil, err
		}
		bitmap, err := s.ReadN(rdlength - 5)
		if err != nil {
			return nil, err
		}
		var w WKS
		copy(w.Addr[:], addr)
		w.Protocol = proto
		w.Bitmap = cloneBytes(bitmap)
		return w, nil

	case TypeHINFO:
		cpu, err := readCharString(s)
		if err != nil {
			return nil, err
		}
		os, err := readCharString(s)
		if err != nil {
			return nil, err
		}
		return HINFO{CPU: cpu, OS: os}, nil

	case TypeMINFO:
		rmailbx, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		emailbx, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		return MINFO{RMailbx: rmailbx, EMailbx: emailbx}, nil

	case TypeMX:
		pref, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		exchange, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		return MX{Preference: pref, Exchange: exchange}, nil

	case TypeTXT:
		var strs []string
		start := s.Pos()
		for s.Pos()-start < rdlength {
			str, err := readCharString(s)
			if err != nil {
				return nil, err
			}
			strs = append(strs, str)
		}
		if len(strs) == 0 {
			return nil, malformed("TXT", "at least one character-string is required")
		}
		return TXT{Strings: strs}, nil

	case TypeSRV:
		if rdlength < 6 {
			return nil, malformed("SRV", "rdlength shorter than fixed fields")
		}
		priority, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		weight, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		port, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		target, err := name.Decode(s)
		if err != nil {
			return nil, err
		}
		return SRV{Priority: priority, Weight: weight, Port: port, Target: target}, nil

	case TypeCAA:
		if rdlength < 2 {
			return nil, malformed("CAA", "rdlength shorter than fixed fields")
		}
		flags, err := s.ReadByte()
		if err != nil {
			return nil, err
		}
		tagLen, err := s.ReadByte()
		if err != nil {
			return nil, err
		}
		if int(tagLen) > rdlength-2 {
			return nil, malformed("CAA", "tag length exceeds rdlength")
		}
		tagBytes, err := s.ReadN(int(tagLen))
		if err != nil {
			return nil, err
		}
		value, err := s.ReadN(rdlength - 2 - int(tagLen))
		if err != nil {
			return nil, err
		}
		return CAA{
			IssuerCritical: flags&0x80 != 0,
			Reserved:       flags &^ 0x80,
			Tag:            string(tagBytes),
			Value:          cloneBytes(value),
		}, nil

	case TypeOPT:
		opts, err := parseOptions(s, rdlength)
		return OPT{Options: opts}, err

	default:
		b, err := s.ReadN(rdlength)
		if err != nil {
			return nil, err
		}
		return Unknown{TypeCode: typ, Data: cloneBytes(b)}, nil
	}
}

func parseOptions(s *stream.Stream, rdlength int) ([]EDNSOption, error) {
	var opts []EDNSOption
	start := s.Pos()
	for s.Pos()-start < rdlength {
		code, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		length, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		data, err := s.ReadN(int(length))
		if err != nil {
			return nil, err
		}
		opts = append(opts, EDNSOption{Code: code, Data: cloneBytes(data)})
	}
	if s.Pos()-start != rdlength {
		return nil, malformed("OPT", "option lengths do not sum to rdlength")
	}
	return opts, nil
}

func readCharString(s *stream.Stream) (string, error) {
	l, err := s.ReadByte()
	if err != nil {
		return "", err
	}
	b, err := s.ReadN(int(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Write serializes rd to s as a placeholder RDLENGTH followed by the
// TYPE-specific body, then back-patches the real length once the body's
// size is known. comp is the shared compression dictionary for this
// message; pass nil to disable compression for this RDATA (for
// example, a strict-RFC-2782 SRV target).
func Write(s *stream.Stream, rd RData, comp name.Compressor) error {
	placeholder := s.Pos()
	s.WriteUint16(0)
	bodyStart := s.Pos()

	if err := writeBody(s, rd, comp); err != nil {
		return err
	}

	rdlen := s.Pos() - bodyStart
	if rdlen > 0xFFFF {
		return malformed(typeName(rd.Type()), "serialized rdata exceeds 65535 bytes")
	}

	end := s.Pos()
	if err := s.Seek(placeholder); err != nil {
		return err
	}
	s.WriteUint16(uint16(rdlen))
	return s.Seek(end)
}

func writeBody(s *stream.Stream, rd RData, comp name.Compressor) error {
	switch v := rd.(type) {
	case A:
		s.Write(v.Addr[:])
	case AAAA:
		s.Write(v.Addr[:])
	case NS:
		return name.Encode(s, v.Name, comp)
	case MD:
		return name.Encode(s, v.Name, comp)
	case MF:
		return name.Encode(s, v.Name, comp)
	case CNAME:
		return name.Encode(s, v.Name, comp)
	case MB:
		return name.Encode(s, v.Name, comp)
	case MG:
		return name.Encode(s, v.Name, comp)
	case MR:
		return name.Encode(s, v.Name, comp)
	case PTR:
		return name.Encode(s, v.Name, comp)
	case SOA:
		if err := name.Encode(s, v.MName, comp); err != nil {
			return err
		}
		if err := name.Encode(s, v.RName, comp); err != nil {
			return err
		}
		s.WriteUint32(v.Serial)
		s.WriteUint32(v.Refresh)
		s.WriteUint32(v.Retry)
		s.WriteUint32(v.Expire)
		s.WriteUint32(v.Minimum)
	case Null:
		s.Write(v.Data)
	case WKS:
		s.Write(v.Addr[:])
		s.WriteByte(v.Protocol)
		s.Write(v.Bitmap)
	case HINFO:
		if err := writeCharString(s, v.CPU); err != nil {
			return err
		}
		return writeCharString(s, v.OS)
	case MINFO:
		if err := name.Encode(s, v.RMailbx, comp); err != nil {
			return err
		}
		return name.Encode(s, v.EMailbx, comp)
	case MX:
		s.WriteUint16(v.Preference)
		return name.Encode(s, v.Exchange, comp)
	case TXT:
		if len(v.Strings) == 0 {
			return malformed("TXT", "at least one character-string is required")
		}
		for _, str := range v.Strings {
			if err := writeCharString(s, str); err != nil {
				return err
			}
		}
	case SRV:
		s.WriteUint16(v.Priority)
		s.WriteUint16(v.Weight)
		s.WriteUint16(v.Port)
		// RFC 2782 forbids compressing the target, but compressing it
		// anyway is common practice. Encode always passes the message's
		// dictionary; only a nil comp leaves the target uncompressed.
		return name.Encode(s, v.Target, comp)
	case CAA:
		if len(v.Tag) > 255 {
			return &errors.CharacterStringTooLong{Length: len(v.Tag)}
		}
		for i := 0; i < len(v.Tag); i++ {
			c := v.Tag[i]
			if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
				return malformed("CAA", "tag must be ASCII lowercase letters and digits")
			}
		}
		flags := v.Reserved &^ 0x80
		if v.IssuerCritical {
			flags |= 0x80
		}
		s.WriteByte(flags)
		s.WriteByte(byte(len(v.Tag)))
		s.Write([]byte(v.Tag))
		s.Write(v.Value)
	case OPT:
		for _, opt := range v.Options {
			s.WriteUint16(opt.Code)
			if len(opt.Data) > 0xFFFF {
				return malformed("OPT", "option data exceeds 65535 bytes")
			}
			s.WriteUint16(uint16(len(opt.Data)))
			s.Write(opt.Data)
		}
	case Unknown:
		s.Write(v.Data)
	default:
		return &errors.UnsupportedType{Type: rd.Type()}
	}
	return nil
}

func writeCharString(s *stream.Stream, str string) error {
	if len(str) > 255 {
		return &errors.CharacterStringTooLong{Length: len(str)}
	}
	s.WriteByte(byte(len(str)))
	s.Write([]byte(str))
	return nil
}

func malformed(typ, msg string) error {
	return &errors.MalformedRData{Type: typ, Message: msg}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func typeName(typ uint16) string {
	switch typ {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeMD:
		return "MD"
	case TypeMF:
		return "MF"
	case TypeCNAME:
		return "CNAME"
	case TypeSOA:
		return "SOA"
	case TypeMB:
		return "MB"
	case TypeMG:
		return "MG"
	case TypeMR:
		return "MR"
	case TypeNULL:
		return "NULL"
	case TypeWKS:
		return "WKS"
	case TypePTR:
		return "PTR"
	case TypeHINFO:
		return "HINFO"
	case TypeMINFO:
		return "MINFO"
	case TypeMX:
		return "MX"
	case TypeTXT:
		return "TXT"
	case TypeAAAA:
		return "AAAA"
	case TypeSRV:
		return "SRV"
	case TypeOPT:
		return "OPT"
	case TypeCAA:
		return "CAA"
	default:
		return "UNKNOWN"
	}
}
