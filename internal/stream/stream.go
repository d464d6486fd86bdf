// Package stream implements the mutable byte cursor the codec is built
// on: big-endian integer read/write primitives plus absolute seek, used
// both to follow DNS name compression pointers on decode and to
// back-patch RDLENGTH placeholders on encode.
package stream

import (
	"encoding/binary"
	"sync"

	"github.com/mkerrig/dnswire/internal/errors"
)

// Stream is a cursor over a byte buffer. Reads consume bytes starting
// at the cursor and advance it; writes either append at the cursor (when
// it sits at the end of the buffer) or overwrite bytes already present
// (when Seek has moved it backward), which is exactly the RDLENGTH
// placeholder patch a resource record's RDATA serialization needs.
type Stream struct {
	buf []byte
	pos int
}

// New returns a Stream ready for encoding, with its backing buffer
// pre-sized to capacity (512 bytes is a reasonable default for a
// single UDP-sized message).
func New(capacity int) *Stream {
	return &Stream{buf: make([]byte, 0, capacity)}
}

// NewReader returns a Stream positioned at the start of buf, ready for
// decoding. The Stream does not copy buf.
func NewReader(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Reset clears the stream for reuse, keeping the underlying array when
// it has enough capacity.
func (s *Stream) Reset() {
	s.buf = s.buf[:0]
	s.pos = 0
}

// Pos returns the current cursor position.
func (s *Stream) Pos() int { return s.pos }

// Len returns the total number of bytes held by the buffer (not the
// cursor position).
func (s *Stream) Len() int { return len(s.buf) }

// Bytes returns the full underlying buffer.
func (s *Stream) Bytes() []byte { return s.buf }

// Seek moves the cursor to an absolute position. It is an error to seek
// past the end of the buffer; seeking to exactly len(buf) is allowed
// (that is where appends resume).
func (s *Stream) Seek(pos int) error {
	if pos < 0 || pos > len(s.buf) {
		return &errors.InvalidOffset{Operation: "seek", Offset: pos, Message: "position outside buffer"}
	}
	s.pos = pos
	return nil
}

func (s *Stream) remaining() int { return len(s.buf) - s.pos }

// ReadByte reads and consumes one byte.
func (s *Stream) ReadByte() (byte, error) {
	if s.remaining() < 1 {
		return 0, &errors.TruncatedInput{Operation: "read byte", Offset: s.pos, Wanted: 1, Available: s.remaining()}
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// ReadN reads and consumes the next n bytes. The returned slice aliases
// the stream's buffer; callers that retain it past further stream use
// must copy.
func (s *Stream) ReadN(n int) ([]byte, error) {
	if n < 0 || s.remaining() < n {
		return nil, &errors.TruncatedInput{Operation: "read bytes", Offset: s.pos, Wanted: n, Available: s.remaining()}
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

// ReadUint16 reads a big-endian uint16.
func (s *Stream) ReadUint16() (uint16, error) {
	b, err := s.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads a big-endian uint32.
func (s *Stream) ReadUint32() (uint32, error) {
	b, err := s.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint64 reads a big-endian uint64.
func (s *Stream) ReadUint64() (uint64, error) {
	b, err := s.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// PeekByte returns the next byte without advancing the cursor.
func (s *Stream) PeekByte() (byte, error) {
	save := s.pos
	b, err := s.ReadByte()
	s.pos = save
	return b, err
}

// PeekUint16 returns the next big-endian uint16 without advancing the
// cursor.
func (s *Stream) PeekUint16() (uint16, error) {
	save := s.pos
	v, err := s.ReadUint16()
	s.pos = save
	return v, err
}

// writeAt places p at the cursor: in place if the cursor sits within the
// existing buffer (a patch), or appended if it sits at the end. This is
// the single rule that makes Seek+Write double as both the RDLENGTH
// back-patch mechanism and ordinary sequential writing.
func (s *Stream) writeAt(p []byte) {
	if s.pos == len(s.buf) {
		s.buf = append(s.buf, p...)
		s.pos += len(p)
		return
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += n
	if n < len(p) {
		s.buf = append(s.buf, p[n:]...)
		s.pos += len(p) - n
	}
}

// WriteByte appends or patches a single byte.
func (s *Stream) WriteByte(b byte) { s.writeAt([]byte{b}) }

// Write appends or patches raw bytes.
func (s *Stream) Write(p []byte) { s.writeAt(p) }

// WriteUint16 appends or patches a big-endian uint16.
func (s *Stream) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	s.writeAt(b[:])
}

// WriteUint32 appends or patches a big-endian uint32.
func (s *Stream) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.writeAt(b[:])
}

// pool recycles encode-side Streams so every Encode call doesn't pay
// for a fresh backing array.
var pool = sync.Pool{
	New: func() any { return New(512) },
}

// Get returns a reset Stream from the pool, ready for a fresh Encode
// call.
func Get() *Stream {
	s := pool.Get().(*Stream)
	s.Reset()
	return s
}

// Put returns s to the pool. Callers must not use s after calling Put.
func Put(s *Stream) {
	pool.Put(s)
}
