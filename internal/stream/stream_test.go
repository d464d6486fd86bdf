package stream

import (
	"bytes"
	"testing"
)

func TestWriteAppendsThenSeekPatches(t *testing.T) {
	s := New(8)
	placeholder := s.Pos()
	s.WriteUint16(0)
	s.WriteByte('x')
	s.WriteByte('y')

	end := s.Pos()
	if err := s.Seek(placeholder); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	s.WriteUint16(2)
	if err := s.Seek(end); err != nil {
		t.Fatalf("Seek forward: %v", err)
	}

	want := []byte{0x00, 0x02, 'x', 'y'}
	if !bytes.Equal(s.Bytes(), want) {
		t.Fatalf("got % X, want % X", s.Bytes(), want)
	}
}

func TestReadPastEndFails(t *testing.T) {
	s := NewReader([]byte{0x01})
	if _, err := s.ReadUint16(); err == nil {
		t.Fatalf("expected TruncatedInput error")
	}
}

func TestSeekOutOfBoundsFails(t *testing.T) {
	s := NewReader([]byte{0x01, 0x02})
	if err := s.Seek(3); err == nil {
		t.Fatalf("expected InvalidOffset error")
	}
	if err := s.Seek(-1); err == nil {
		t.Fatalf("expected InvalidOffset error for negative offset")
	}
	if err := s.Seek(2); err != nil {
		t.Fatalf("seek to end of buffer should succeed: %v", err)
	}
}

func TestPeekDoesNotAdvanceCursor(t *testing.T) {
	s := NewReader([]byte{0x00, 0x2A, 0xFF})
	v, err := s.PeekUint16()
	if err != nil {
		t.Fatalf("PeekUint16: %v", err)
	}
	if v != 0x002A {
		t.Fatalf("peeked value = %d, want 42", v)
	}
	if s.Pos() != 0 {
		t.Fatalf("Pos() = %d, want 0 (peek must not advance)", s.Pos())
	}
	got, err := s.ReadUint16()
	if err != nil || got != v {
		t.Fatalf("subsequent read = %d, %v; want %d, nil", got, err, v)
	}
}

func TestReadNAliasesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	s := NewReader(buf)
	b, err := s.ReadN(2)
	if err != nil {
		t.Fatalf("ReadN: %v", err)
	}
	if len(b) != 2 || b[0] != 1 || b[1] != 2 {
		t.Fatalf("unexpected slice: %v", b)
	}
	buf[0] = 9
	if b[0] != 9 {
		t.Fatalf("ReadN result does not alias the buffer: %v", b)
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	s := Get()
	s.WriteByte('a')
	out := append([]byte(nil), s.Bytes()...)
	Put(s)

	s2 := Get()
	if s2.Len() != 0 {
		t.Fatalf("Get() after Put did not reset, Len() = %d", s2.Len())
	}
	if !bytes.Equal(out, []byte{'a'}) {
		t.Fatalf("copied bytes corrupted: %v", out)
	}
}
