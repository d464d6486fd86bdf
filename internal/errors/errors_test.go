package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncatedInputMessage(t *testing.T) {
	err := &TruncatedInput{Operation: "read byte", Offset: 4, Wanted: 1, Available: 0}
	assert.Contains(t, err.Error(), "read byte")
	assert.Contains(t, err.Error(), "offset 4")
	assert.Nil(t, err.Unwrap())
}

func TestMalformedRDataWrapsUnderlyingError(t *testing.T) {
	inner := errors.New("boom")
	err := &MalformedRData{Type: "CAA", Message: "bad tag", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "CAA")
	assert.Contains(t, err.Error(), "boom")
}

func TestMalformedRDataWithoutUnderlyingError(t *testing.T) {
	err := &MalformedRData{Type: "TXT", Message: "empty"}
	assert.Nil(t, err.Unwrap())
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestErrorsAsMatchesConcreteType(t *testing.T) {
	var err error = &LabelTooLong{Length: 70}

	var target *LabelTooLong
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 70, target.Length)
}

func TestInvalidOffsetMessage(t *testing.T) {
	err := &InvalidOffset{Operation: "decode name", Offset: 40, Message: "compression pointer does not point strictly backward"}
	assert.Contains(t, err.Error(), "decode name")
	assert.Contains(t, err.Error(), "40")
	assert.Contains(t, err.Error(), "strictly backward")
}

func TestSectionCountOverflowMessage(t *testing.T) {
	err := &SectionCountOverflow{Section: "answers", Count: 70000}
	assert.Contains(t, err.Error(), "answers")
	assert.Contains(t, err.Error(), "70000")
}

func TestUnsupportedTypeMessage(t *testing.T) {
	err := &UnsupportedType{Type: 257}
	assert.Contains(t, err.Error(), "257")
}
