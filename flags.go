package dnswire

// packFlags bit-packs Flags into the wire representation of header
// bytes 2-3 (RFC 1035 §4.1.1). Only the low 4 bits of f.RCode are
// carried here; extended RCODE folding is a Message-level concern (see
// NewMessage in builder.go and Decode in codec.go), not a Flags-level
// one, since it depends on the OPT record.
func packFlags(f Flags) uint16 {
	var v uint16
	if f.QR == Response {
		v |= 1 << 15
	}
	v |= uint16(f.Opcode&0xF) << 11
	if f.AA {
		v |= 1 << 10
	}
	if f.TC {
		v |= 1 << 9
	}
	if f.RD {
		v |= 1 << 8
	}
	if f.RA {
		v |= 1 << 7
	}
	v |= uint16(f.Z&0x7) << 4
	v |= uint16(f.RCode) & 0xF
	return v
}

// unpackFlags reverses packFlags. The returned RCode holds only the low
// nibble; Decode widens it after folding in an OPT ExtRCode.
func unpackFlags(v uint16) Flags {
	return Flags{
		QR:     MessageType((v >> 15) & 0x1),
		Opcode: Opcode((v >> 11) & 0xF),
		AA:     v&(1<<10) != 0,
		TC:     v&(1<<9) != 0,
		RD:     v&(1<<8) != 0,
		RA:     v&(1<<7) != 0,
		Z:      uint8((v >> 4) & 0x7),
		RCode:  RCode(v & 0xF),
	}
}
