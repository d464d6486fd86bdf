package dnswire_test

import (
	"testing"

	"github.com/mkerrig/dnswire"
	"github.com/mkerrig/dnswire/internal/rdata"
)

func TestMessageTypeString(t *testing.T) {
	if got := dnswire.Query.String(); got != "QUERY" {
		t.Fatalf("Query.String() = %q, want QUERY", got)
	}
	if got := dnswire.Response.String(); got != "RESPONSE" {
		t.Fatalf("Response.String() = %q, want RESPONSE", got)
	}
}

func TestMessageOPTFindsOnlyOPTRecord(t *testing.T) {
	rr := dnswire.NewResourceRecord("example.com", dnswire.ClassIN, 60, rdata.A{Addr: [4]byte{1, 2, 3, 4}})
	opt := dnswire.NewOPTRecord(dnswire.WithUDPSize(4096))

	m := &dnswire.Message{
		Additionals: []dnswire.Record{rr, opt},
	}

	got, ok := m.OPT()
	if !ok {
		t.Fatalf("expected OPT() to find the OPTRecord")
	}
	if got.UDPSize != 4096 {
		t.Fatalf("UDPSize = %d, want 4096", got.UDPSize)
	}
}

func TestMessageOPTAbsent(t *testing.T) {
	rr := dnswire.NewResourceRecord("example.com", dnswire.ClassIN, 60, rdata.A{Addr: [4]byte{1, 2, 3, 4}})
	m := &dnswire.Message{Additionals: []dnswire.Record{rr}}

	if _, ok := m.OPT(); ok {
		t.Fatalf("expected OPT() to report absence")
	}
}
