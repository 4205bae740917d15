package pargon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferPrimitivesRoundTrip(t *testing.T) {
	w := NewBufferWriter(DefaultOptions)
	w.WriteBool(true)
	w.WriteInt8(-5)
	w.WriteUint16(60000)
	w.WriteInt32(-123456)
	w.WriteUint64(18000000000000000000)
	w.WriteFloat32(3.5)
	w.WriteFloat64(2.718281828)
	w.WriteString("hello")
	require.False(t, w.Failed())

	r := NewBufferReader(w.Bytes(), DefaultOptions)
	require.Equal(t, true, r.ReadBool())
	require.Equal(t, int8(-5), r.ReadInt8())
	require.Equal(t, uint16(60000), r.ReadUint16())
	require.Equal(t, int32(-123456), r.ReadInt32())
	require.Equal(t, uint64(18000000000000000000), r.ReadUint64())
	require.InDelta(t, float32(3.5), r.ReadFloat32(), 1e-6)
	require.InDelta(t, 2.718281828, r.ReadFloat64(), 1e-12)
	require.Equal(t, "hello", r.ReadString())
	require.False(t, r.Failed())
}

func TestBufferFloatNaNAndInfRoundTrip(t *testing.T) {
	w := NewBufferWriter(DefaultOptions)
	w.WriteFloat64(math.NaN())
	w.WriteFloat64(math.Inf(1))
	w.WriteFloat64(math.Inf(-1))
	w.WriteFloat64(math.Copysign(0, -1))

	r := NewBufferReader(w.Bytes(), DefaultOptions)
	require.True(t, math.IsNaN(r.ReadFloat64()))
	require.True(t, math.IsInf(r.ReadFloat64(), 1))
	require.True(t, math.IsInf(r.ReadFloat64(), -1))
	negZero := r.ReadFloat64()
	require.Equal(t, 0.0, negZero)
	require.True(t, math.Signbit(negZero))
}

func TestBufferBitPacking(t *testing.T) {
	w := NewBufferWriter(DefaultOptions)
	w.WriteBit(true)
	w.WriteBit(false)
	w.WriteBits(0b101, 3)
	w.WriteSignedBits(-3, 4)
	w.Align()
	w.WriteUint8(0xAB)

	r := NewBufferReader(w.Bytes(), DefaultOptions)
	require.True(t, r.ReadBit())
	require.False(t, r.ReadBit())
	require.Equal(t, uint64(0b101), r.ReadBits(3))
	require.Equal(t, int64(-3), r.ReadSignedBits(4))
	r.Realign()
	require.Equal(t, uint8(0xAB), r.ReadUint8())
}

func TestBufferLengthLimitEnforced(t *testing.T) {
	opts := Options{Endian: NativeEndian, Limits: Limits{MaxStringLength: 4}}
	w := NewBufferWriter(opts)
	w.WriteLength(10, opts.Limits.MaxStringLength)
	require.True(t, w.Failed())
	require.ErrorIs(t, w.Err(), ErrMaxLengthExceeded)
}

func TestBufferReadPastEndFails(t *testing.T) {
	r := NewBufferReader([]byte{1, 2}, DefaultOptions)
	r.ReadUint64()
	require.True(t, r.Failed())
	require.ErrorIs(t, r.Err(), ErrUnexpectedEOF)
}

type bufferTestRecord struct {
	Name    string
	Count   int32
	Scores  []float64
	Tags    map[string]int32
	Nested  *bufferTestInner
	private string
}

type bufferTestInner struct {
	Value bool
}

func TestBufferStructFallbackRoundTrip(t *testing.T) {
	in := bufferTestRecord{
		Name:   "widget",
		Count:  7,
		Scores: []float64{1.5, 2.5, 3.5},
		Tags:   map[string]int32{"a": 1, "b": 2},
		Nested: &bufferTestInner{Value: true},
	}

	w := NewBufferWriter(DefaultOptions)
	require.NoError(t, w.WriteValue(&in))

	var out bufferTestRecord
	r := NewBufferReader(w.Bytes(), DefaultOptions)
	require.NoError(t, r.ReadValue(&out))

	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Count, out.Count)
	require.Equal(t, in.Scores, out.Scores)
	require.Equal(t, in.Tags, out.Tags)
	require.Equal(t, in.Nested, out.Nested)
	require.Empty(t, out.private)
}

func TestBufferStructNilPointerRoundTrip(t *testing.T) {
	in := bufferTestRecord{Name: "no-nested"}
	w := NewBufferWriter(DefaultOptions)
	require.NoError(t, w.WriteValue(&in))

	var out bufferTestRecord
	r := NewBufferReader(w.Bytes(), DefaultOptions)
	require.NoError(t, r.ReadValue(&out))
	require.Nil(t, out.Nested)
}

func TestBufferReadValueRequiresPointer(t *testing.T) {
	r := NewBufferReader([]byte{1}, DefaultOptions)
	var dest bufferTestRecord
	err := r.ReadValue(dest)
	require.ErrorIs(t, err, ErrNotPointer)
}

func TestBufferReaderViewByteAndViewBytesDoNotConsume(t *testing.T) {
	r := NewBufferReader([]byte{0xAB, 0xCD, 0xEF}, DefaultOptions)

	b, ok := r.ViewByte()
	require.True(t, ok)
	require.Equal(t, byte(0xAB), b)

	span, ok := r.ViewBytes(2)
	require.True(t, ok)
	require.Equal(t, []byte{0xAB, 0xCD}, span)

	consumed, ok := r.ReadByte()
	require.True(t, ok)
	require.Equal(t, byte(0xAB), consumed)
}

func TestBufferReaderViewBytesPastEndFails(t *testing.T) {
	r := NewBufferReader([]byte{1}, DefaultOptions)
	_, ok := r.ViewBytes(5)
	require.False(t, ok)
}

func TestBufferWriterViewBytesMutatesInPlace(t *testing.T) {
	w := NewBufferWriter(DefaultOptions)
	w.WriteUint32(0)

	span := w.ViewBytes(0, 4)
	require.Len(t, span, 4)
	copy(span, []byte{1, 0, 0, 0})

	r := NewBufferReader(w.Bytes(), DefaultOptions)
	require.Equal(t, uint32(1), r.ReadUint32())
}

func TestBufferBlueprintRoundTrip(t *testing.T) {
	var doc Blueprint
	doc.ObjectSet("name", makeStringBlueprint("alice"))
	doc.ObjectSet("age", makeIntBlueprint(30))
	arr := doc.ObjectEnsure("tags")
	arr.ArrayAppend(makeStringBlueprint("x"))
	arr.ArrayAppend(makeStringBlueprint("y"))

	w := NewBufferWriter(DefaultOptions)
	w.WriteBlueprint(&doc)
	require.False(t, w.Failed())

	r := NewBufferReader(w.Bytes(), DefaultOptions)
	out := r.ReadBlueprint()
	require.False(t, r.Failed())
	require.True(t, doc.Equal(&out))
}
