// Package dnswire encodes and decodes DNS wire-format messages as
// defined by RFC 1034/1035 and the extensions in RFC 1886 (AAAA),
// RFC 2782 (SRV), RFC 6891 (EDNS/OPT), and RFC 8659 (CAA).
//
// dnswire is neither a transport nor a resolver: it converts between an
// in-memory Message and its exact binary representation. Sending or
// receiving those bytes, caching, and recursive/iterative resolution
// are the caller's concern.
//
// The hard part lives in three internal packages this package wires
// together in section order (header, questions, answers, authorities,
// additionals): internal/name implements the label compression scheme,
// internal/rdata implements the per-TYPE RDATA codec including the OPT
// pseudo-record's option list, and internal/stream implements the
// big-endian cursor both are built on.
package dnswire
