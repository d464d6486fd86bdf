// Package fuzz fuzz-tests Decode against malformed and adversarial
// packet inputs.
package fuzz

import (
	"testing"

	"github.com/mkerrig/dnswire"
)

// FuzzDecode checks that Decode never panics on arbitrary or malformed
// input, whether or not it returns an error.
func FuzzDecode(f *testing.F) {
	validMessage := []byte{
		0x12, 0x34, // ID
		0x84, 0x00, // Flags: QR=1, AA=1
		0x00, 0x01, // QDCOUNT = 1
		0x00, 0x01, // ANCOUNT = 1
		0x00, 0x00, // NSCOUNT = 0
		0x00, 0x00, // ARCOUNT = 0

		0x04, 't', 'e', 's', 't',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
		0x00, 0x01, // QTYPE = A
		0x00, 0x01, // QCLASS = IN

		0x04, 't', 'e', 's', 't',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
		0x00, 0x01, // TYPE = A
		0x00, 0x01, // CLASS = IN
		0x00, 0x00, 0x00, 0x78, // TTL = 120
		0x00, 0x04, // RDLENGTH = 4
		192, 168, 1, 100,
	}
	f.Add(validMessage)

	compressedMessage := []byte{
		0x12, 0x34,
		0x84, 0x00,
		0x00, 0x01,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,

		0x04, 't', 'e', 's', 't',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
		0x00, 0x01,
		0x00, 0x01,

		0xC0, 0x0C, // pointer to offset 12 (the question name)
		0x00, 0x01,
		0x00, 0x01,
		0x00, 0x00, 0x00, 0x78,
		0x00, 0x04,
		192, 168, 1, 100,
	}
	f.Add(compressedMessage)

	// A TYPE-41 additional that exercises the OPT decode branch.
	withOPT := append(append([]byte{}, compressedMessage[:4]...),
		0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, // QD=1 AN=1 NS=0 AR=1
	)
	withOPT = append(withOPT, compressedMessage[12:]...)
	withOPT = append(withOPT,
		0x00,             // root name
		0x00, 0x29,       // TYPE = OPT
		0x10, 0x00,       // UDP size 4096
		0x00, 0x00, 0x80, 0x00, // extRCode=0 version=0 DO=1 Z=0
		0x00, 0x00, // rdlength 0
	)
	f.Add(withOPT)

	tooShort := []byte{0x12, 0x34, 0x84, 0x00}
	f.Add(tooShort)

	truncatedQuestion := []byte{
		0x12, 0x34,
		0x84, 0x00,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,

		0x04, 't', 'e', 's', 't',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
		0x00,
	}
	f.Add(truncatedQuestion)

	invalidPointer := []byte{
		0x12, 0x34,
		0x84, 0x00,
		0x00, 0x01,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,

		0x04, 't', 'e', 's', 't',
		0x05, 'l', 'o', 'c', 'a', 'l',
		0x00,
		0x00, 0x01,
		0x00, 0x01,

		0xC0, 0xC8, // pointer to offset 200, beyond the message
		0x00, 0x01,
		0x00, 0x01,
		0x00, 0x00, 0x00, 0x78,
		0x00, 0x04,
		192, 168, 1, 100,
	}
	f.Add(invalidPointer)

	compressionLoop := []byte{
		0x12, 0x34,
		0x84, 0x00,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,

		0xC0, 0x0C, // pointer to itself
		0x00, 0x01,
		0x00, 0x01,
	}
	f.Add(compressionLoop)

	emptyMessage := []byte{
		0x12, 0x34,
		0x84, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
	}
	f.Add(emptyMessage)

	f.Fuzz(func(_ *testing.T, data []byte) {
		_, _ = dnswire.Decode(data)
	})
}
