// Package pargon implements a type-driven serialization framework that
// mediates conversion between Go values and four representations: a
// compact binary buffer, a human-oriented text string, an in-memory
// Blueprint document tree, and PON/JSON encodings of that tree.
//
// Six engines (BufferReader, BufferWriter, StringReader, StringWriter,
// BlueprintReader, BlueprintWriter) do the actual work; Serializer is a
// thin façade over any one of them for types that want a single
// engine-agnostic Serialize hook.
package pargon

import "encoding/binary"

// Endian selects the byte order used by the binary engine for
// multi-byte primitives. Endian is out-of-band: it is never itself
// encoded in the stream (spec §6.1).
type Endian uint8

const (
	// NativeEndian uses the platform's native byte order.
	NativeEndian Endian = iota
	// LittleEndian always encodes least-significant byte first.
	LittleEndian
	// BigEndian always encodes most-significant byte first.
	BigEndian
)

// byteOrder returns the binary.ByteOrder matching the receiver, treating
// NativeEndian as little-endian (this codebase's native order).
func (e Endian) byteOrder() binary.ByteOrder {
	switch e {
	case BigEndian:
		return binary.BigEndian
	default:
		return binary.LittleEndian
	}
}

// isNative reports whether e matches the platform's native byte order.
func (e Endian) isNative() bool {
	return e == NativeEndian || e == LittleEndian
}

// Limits bounds resource consumption while decoding untrusted input.
// A zero value in any field means "no limit", matching the teacher's
// Limits convention.
type Limits struct {
	// MaxDepth is the maximum nesting depth for blueprints, sequences,
	// and maps. 0 means unlimited.
	MaxDepth int

	// MaxStringLength is the maximum decoded length of a string, in bytes.
	MaxStringLength int

	// MaxBufferLength is the maximum decoded length of a raw byte buffer.
	MaxBufferLength int

	// MaxContainerLength is the maximum number of elements read for a
	// single sequence or map.
	MaxContainerLength int
}

// DefaultLimits are generous limits suitable for trusted input.
var DefaultLimits = Limits{
	MaxDepth:           100,
	MaxStringLength:    10 * 1024 * 1024,
	MaxBufferLength:    100 * 1024 * 1024,
	MaxContainerLength: 1_000_000,
}

// SecureLimits are conservative limits for untrusted input.
var SecureLimits = Limits{
	MaxDepth:           32,
	MaxStringLength:    1 * 1024 * 1024,
	MaxBufferLength:    10 * 1024 * 1024,
	MaxContainerLength: 10_000,
}

// NoLimits disables all resource limits. Only use with trusted input.
var NoLimits = Limits{}

// Options configures the behavior of any of the six engines.
type Options struct {
	// Endian selects the byte order for the binary engine. Ignored by
	// the text and blueprint engines.
	Endian Endian

	// Limits bounds resource consumption while decoding.
	Limits Limits
}

// DefaultOptions pair NativeEndian with DefaultLimits.
var DefaultOptions = Options{
	Endian: NativeEndian,
	Limits: DefaultLimits,
}

// SecureOptions pair NativeEndian with SecureLimits, for untrusted input.
var SecureOptions = Options{
	Endian: NativeEndian,
	Limits: SecureLimits,
}

// IndentStyle controls the whitespace used by pretty-printed PON/JSON
// output. The spec documents tab indentation only; space indentation is
// a supplement carried over from the original implementation's
// Stringify options (see SPEC_FULL.md §4.7/§6.2).
type IndentStyle struct {
	// Tab selects tab-character indentation when true (the default);
	// otherwise Width spaces are used per nesting level.
	Tab   bool
	Width int
}

// DefaultIndent is one tab per nesting level, matching spec §6.2's
// worked example.
var DefaultIndent = IndentStyle{Tab: true}
