// Package wire provides low-level encoding primitives for the Pargon
// binary engine: endian-aware fixed-width primitive encoding and the
// blueprint type-tag byte shared by BufferReader and BufferWriter.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrTruncated indicates the input was shorter than the value being decoded.
var ErrTruncated = errors.New("pargon: truncated input")

// Order selects the byte order used for fixed-width primitive encoding.
// Unlike a length-prefix count (always big-endian network order would be
// arbitrary too), Pargon's endian mode is purely a BufferReader/Writer
// setting and is never itself encoded in the stream (see spec §6.1).
type Order = binary.ByteOrder

// Native is the platform's native byte order. Pargon always builds on
// little-endian-first targets in this codebase; Native exists so the
// default Endian mode has a concrete byte order to compare against when
// a caller asks "does my endian differ from native".
var Native Order = binary.LittleEndian

// PutUint16 writes v to buf (which must have length >= 2) using order.
func PutUint16(buf []byte, v uint16, order Order) { order.PutUint16(buf, v) }

// PutUint32 writes v to buf (which must have length >= 4) using order.
func PutUint32(buf []byte, v uint32, order Order) { order.PutUint32(buf, v) }

// PutUint64 writes v to buf (which must have length >= 8) using order.
func PutUint64(buf []byte, v uint64, order Order) { order.PutUint64(buf, v) }

// Uint16 decodes a uint16 from data using order. data must have length >= 2.
func Uint16(data []byte, order Order) uint16 { return order.Uint16(data) }

// Uint32 decodes a uint32 from data using order. data must have length >= 4.
func Uint32(data []byte, order Order) uint32 { return order.Uint32(data) }

// Uint64 decodes a uint64 from data using order. data must have length >= 8.
func Uint64(data []byte, order Order) uint64 { return order.Uint64(data) }

// PutFloat32 writes the raw IEEE-754 bits of v to buf using order.
// No canonicalization of NaN or negative zero is performed: the spec's
// roundtrip property (§8) requires R(W(x)) == x bit-for-bit.
func PutFloat32(buf []byte, v float32, order Order) {
	order.PutUint32(buf, math.Float32bits(v))
}

// PutFloat64 writes the raw IEEE-754 bits of v to buf using order.
func PutFloat64(buf []byte, v float64, order Order) {
	order.PutUint64(buf, math.Float64bits(v))
}

// Float32 decodes a float32 from its raw IEEE-754 bit representation.
func Float32(data []byte, order Order) float32 {
	return math.Float32frombits(order.Uint32(data))
}

// Float64 decodes a float64 from its raw IEEE-754 bit representation.
func Float64(data []byte, order Order) float64 {
	return math.Float64frombits(order.Uint64(data))
}

// Normalized sizes (spec §4.4), independent of host platform widths.
const (
	BoolSize   = 1
	Int8Size   = 1
	Int16Size  = 2
	Int32Size  = 4
	Int64Size  = 8
	Float32Size = 4
	Float64Size = 8
	// LengthPrefixSize is the size of the count prefix for
	// strings/buffers/sequences/maps: a normalized int (4 bytes).
	LengthPrefixSize = Int32Size
)
