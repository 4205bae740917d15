package pargon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type serializerTestWidget struct {
	Label string
	Count int32
}

func (w *serializerTestWidget) Serialize(s *Serializer) error {
	if err := SerializeValue(s, "label", &w.Label); err != nil {
		return err
	}
	return SerializeDefault(s, "count", &w.Count, 0)
}

func TestSerializerIsReadingIsWriting(t *testing.T) {
	bw := NewBufferWriter(DefaultOptions)
	write := NewSerializer(bw)
	require.True(t, write.IsWriting())
	require.False(t, write.IsReading())

	br := NewBufferReader(nil, DefaultOptions)
	read := NewDeserializer(br)
	require.True(t, read.IsReading())
	require.False(t, read.IsWriting())
}

func TestSerializerBufferFacadeRoundTrip(t *testing.T) {
	in := serializerTestWidget{Label: "knob", Count: 7}

	bw := NewBufferWriter(DefaultOptions)
	s := NewSerializer(bw)
	require.NoError(t, in.Serialize(s))
	require.NoError(t, s.Err())

	var out serializerTestWidget
	br := NewBufferReader(bw.Bytes(), DefaultOptions)
	rs := NewDeserializer(br)
	require.NoError(t, out.Serialize(rs))
	require.Equal(t, in, out)
}

func TestSerializerStringFacadeRoundTrip(t *testing.T) {
	in := serializerTestWidget{Label: "dial", Count: 3}

	sw := NewStringWriter(DefaultOptions)
	s := NewStringSerializer(sw)
	require.NoError(t, in.Serialize(s))

	var out serializerTestWidget
	sr := NewStringReader(sw.String(), DefaultOptions)
	rs := NewStringDeserializer(sr)
	require.NoError(t, out.Serialize(rs))
	require.Equal(t, in, out)
}

func TestSerializerDefaultOmitsOnBlueprintWriterOnly(t *testing.T) {
	in := serializerTestWidget{Label: "zeroed", Count: 0}

	w := NewBlueprintWriter(DefaultOptions)
	s := NewBlueprintSerializer(w)
	require.NoError(t, in.Serialize(s))

	doc := w.ExtractBlueprint()
	_, ok := doc.ObjectGet("count")
	require.False(t, ok)

	var out serializerTestWidget
	r := NewBlueprintReader(doc, DefaultOptions)
	rs := NewBlueprintDeserializer(r)
	require.NoError(t, out.Serialize(rs))
	require.Equal(t, int32(0), out.Count)
}

func TestSerializerErrDelegatesToUnderlyingEngine(t *testing.T) {
	br := NewBufferReader([]byte{}, DefaultOptions)
	s := NewDeserializer(br)

	var n int32
	_ = s.br.ReadValue(&n)
	require.Error(t, s.Err())
}
