// Package name implements DNS domain name encoding, decoding, and the
// message-compression back-pointer scheme of RFC 1035 §4.1.4.
package name

import (
	"strings"

	"github.com/mkerrig/dnswire/internal/errors"
	"github.com/mkerrig/dnswire/internal/stream"
)

const (
	maxLabelLength = 63
	maxNameLength  = 254
	pointerMask    = 0xC0
	maxPointer     = 0x3FFF
)

// Compressor maps a name suffix (the textual remainder starting at some
// label, always written with a trailing dot) to the absolute offset in
// the message where that suffix was first written. Its lifetime is a
// single Encode call for a single message.
type Compressor map[string]int

// Encode writes name in wire format to s, consulting and updating comp
// for compression back-pointers. comp may be nil to disable compression
// for this call (for example, a strict-RFC-2782 SRV target).
func Encode(s *stream.Stream, name string, comp Compressor) error {
	if name == "" {
		return &errors.EmptyName{}
	}
	if name == "." {
		s.WriteByte(0)
		return nil
	}
	if len(name) > maxNameLength {
		return &errors.NameTooLong{Length: len(name)}
	}

	trimmed := strings.TrimSuffix(name, ".")
	labels := strings.Split(trimmed, ".")

	for i, label := range labels {
		if label == "" {
			return &errors.EmptyInnerLabel{Name: name}
		}

		if comp != nil {
			remainder := strings.Join(labels[i:], ".") + "."
			if offset, ok := comp[remainder]; ok {
				s.WriteUint16(uint16(pointerMask<<8) | uint16(offset))
				return nil
			}
			if s.Pos() <= maxPointer {
				comp[remainder] = s.Pos()
			}
		}

		if err := validateLabel(label); err != nil {
			return err
		}

		s.WriteByte(byte(len(label)))
		s.Write([]byte(label))
	}

	s.WriteByte(0)
	return nil
}

func validateLabel(label string) error {
	if len(label) < 1 || len(label) > maxLabelLength {
		return &errors.LabelTooLong{Length: len(label)}
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if i == 0 || i == len(label)-1 {
			if !isAlnum(c) && !(i == 0 && c == '_') {
				return &errors.InvalidLabelByte{Label: label, Position: i, Byte: c}
			}
			continue
		}
		if !isAlnum(c) && c != '-' {
			return &errors.InvalidLabelByte{Label: label, Position: i, Byte: c}
		}
	}
	return nil
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Decode reads a wire-format name from s, starting at the current
// cursor position, following compression pointers as needed. The
// returned name always carries a trailing dot; the root name decodes to
// ".". On return, s's cursor sits immediately after the name as it
// appeared at the call site (i.e. immediately after a pointer, not after
// whatever the pointer ultimately resolves to).
func Decode(s *stream.Stream) (string, error) {
	var labels []string
	textLen := 0
	jumped := false
	returnPos := -1

	maxSteps := s.Len() + 1
	steps := 0

	for {
		steps++
		if steps > maxSteps {
			return "", &errors.InvalidOffset{Operation: "decode name", Offset: s.Pos(), Message: "exceeded maximum label/pointer steps (possible compression loop)"}
		}

		startPos := s.Pos()
		b, err := s.ReadByte()
		if err != nil {
			return "", err
		}

		if b&pointerMask == pointerMask {
			b2, err := s.ReadByte()
			if err != nil {
				return "", err
			}
			ptr := (int(b&0x3F) << 8) | int(b2)

			if ptr >= startPos {
				return "", &errors.InvalidOffset{Operation: "decode name", Offset: startPos, Message: "compression pointer does not point strictly backward"}
			}

			if !jumped {
				returnPos = s.Pos()
				jumped = true
			}
			if err := s.Seek(ptr); err != nil {
				return "", err
			}
			continue
		}

		if b == 0 {
			break
		}

		length := int(b)
		if length > maxLabelLength {
			return "", &errors.LabelTooLong{Length: length}
		}

		label, err := s.ReadN(length)
		if err != nil {
			return "", err
		}
		labels = append(labels, string(label))

		textLen += length + 1
		if textLen > maxNameLength {
			return "", &errors.NameTooLong{Length: textLen}
		}
	}

	if jumped {
		if err := s.Seek(returnPos); err != nil {
			return "", err
		}
	}

	if len(labels) == 0 {
		return ".", nil
	}
	return strings.Join(labels, ".") + ".", nil
}
