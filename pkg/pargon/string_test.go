package pargon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringWriterPrimitives(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	require.NoError(t, w.WriteBool(true, "t"))
	require.NoError(t, w.WriteInt(-255, "#"))
	require.NoError(t, w.WriteFloat(1.5, ""))
	require.Equal(t, "T"+"-255"+"1.5", w.String())
}

func TestStringWriterUintHex(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	require.NoError(t, w.WriteUint(255, "#"))
	require.Equal(t, "FF", w.String())
}

func TestStringWriterFloatWholeNumberKeepsDecimalPoint(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	require.NoError(t, w.WriteFloat(1.0, ""))
	require.Equal(t, "1.0", w.String())
}

func TestStringReaderPrimitives(t *testing.T) {
	r := NewStringReader("T 255 hello", DefaultOptions)
	b, err := r.ReadBool("t")
	require.NoError(t, err)
	require.True(t, b)

	r.skipSpace()
	n, err := r.ReadInt("")
	require.NoError(t, err)
	require.Equal(t, int64(255), n)

	r.skipSpace()
	s, err := r.ReadString("raw")
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestStringValueRoundTripSlice(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	err := WriteValue(w, []int32{7, 8, 9}, "")
	require.NoError(t, err)
	require.Equal(t, "[7, 8, 9]", w.String())

	r := NewStringReader(w.String(), DefaultOptions)
	var out []int32
	require.NoError(t, ReadValue(r, &out, ""))
	require.Equal(t, []int32{7, 8, 9}, out)
}

func TestStringValueRoundTripArray(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	in := [3]int32{1, 2, 3}
	require.NoError(t, WriteValue(w, in, ""))

	r := NewStringReader(w.String(), DefaultOptions)
	var out [3]int32
	require.NoError(t, ReadValue(r, &out, ""))
	require.Equal(t, in, out)
}

func TestStringValueRoundTripMap(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	in := map[string]int32{"a": 1}
	require.NoError(t, WriteValue(w, in, ""))

	r := NewStringReader(w.String(), DefaultOptions)
	var out map[string]int32
	require.NoError(t, ReadValue(r, &out, ""))
	require.Equal(t, in, out)
}

func TestStringReaderSliceRollsBackOnElementFailure(t *testing.T) {
	r := NewStringReader(`[1, x, 3] rest`, DefaultOptions)
	var out []int32
	err := ReadValue(r, &out, "")
	require.Error(t, err)
	require.Equal(t, `[1, x, 3] rest`, r.Remaining())
}

// A hookless struct has no text representation: the text engine's
// structural fallback is slice/array/map/primitive only (spec row 9 is
// Buffer-only).
func TestStringValueHooklessStructUnsupported(t *testing.T) {
	type inner struct {
		A int32
	}
	w := NewStringWriter(DefaultOptions)
	err := WriteValue(w, inner{A: 1}, "")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestStringWriterBlueprintPON(t *testing.T) {
	var doc Blueprint
	doc.ObjectSet("a", makeIntBlueprint(1))

	w := NewStringWriter(DefaultOptions)
	require.NoError(t, w.WriteBlueprint(&doc, "pon"))
	require.Contains(t, w.String(), "a = 1")
}

func TestStringReaderParsesBlueprintJSON(t *testing.T) {
	r := NewStringReader(`{"a": 1, "b": "two"}`, DefaultOptions)
	doc, err := r.ReadBlueprint("json")
	require.NoError(t, err)
	require.True(t, doc.IsObject())

	a, ok := doc.ObjectGet("a")
	require.True(t, ok)
	v, _ := a.AsInt()
	require.Equal(t, int64(1), v)
}

func TestStringWriterEnum(t *testing.T) {
	w := NewStringWriter(DefaultOptions)
	names := []string{"Red", "Green", "Blue"}
	require.NoError(t, w.WriteEnum(names, 1, ""))
	require.Equal(t, "Green", w.String())

	err := w.WriteEnum(names, 10, "")
	require.ErrorIs(t, err, ErrUnknownEnumName)
}
