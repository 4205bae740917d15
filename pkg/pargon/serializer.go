package pargon

// Serializer is a thin façade over whichever of the six engines is
// currently active, letting a type implement a single direction-agnostic
// Serialize(s *Serializer) error method (capability row 3) instead of
// six pairs of hooks. The same method body runs for both reading and
// writing; callers branch on IsReading when the two directions
// genuinely differ (e.g. allocating a slice before filling it).
type Serializer struct {
	bw  *BufferWriter
	br  *BufferReader
	sw  *StringWriter
	sr  *StringReader
	blw *BlueprintWriter
	blr *BlueprintReader
}

// NewSerializer wraps a BufferWriter for the write direction.
func NewSerializer(w *BufferWriter) *Serializer { return &Serializer{bw: w} }

// NewDeserializer wraps a BufferReader for the read direction.
func NewDeserializer(r *BufferReader) *Serializer { return &Serializer{br: r} }

// NewStringSerializer wraps a StringWriter for the write direction.
func NewStringSerializer(w *StringWriter) *Serializer { return &Serializer{sw: w} }

// NewStringDeserializer wraps a StringReader for the read direction.
func NewStringDeserializer(r *StringReader) *Serializer { return &Serializer{sr: r} }

// NewBlueprintSerializer wraps a BlueprintWriter for the write direction.
func NewBlueprintSerializer(w *BlueprintWriter) *Serializer { return &Serializer{blw: w} }

// NewBlueprintDeserializer wraps a BlueprintReader for the read direction.
func NewBlueprintDeserializer(r *BlueprintReader) *Serializer { return &Serializer{blr: r} }

// IsReading reports whether the façade is bound to a reader.
func (s *Serializer) IsReading() bool {
	return s.br != nil || s.sr != nil || s.blr != nil
}

// IsWriting reports whether the façade is bound to a writer.
func (s *Serializer) IsWriting() bool { return !s.IsReading() }

// Err returns the underlying engine's first error, if any. The text
// engines keep no error state (each call returns its own error), so Err
// is always nil for them.
func (s *Serializer) Err() error {
	switch {
	case s.bw != nil:
		return s.bw.Err()
	case s.br != nil:
		return s.br.Err()
	case s.sw != nil, s.sr != nil:
		return nil
	case s.blw != nil:
		return s.blw.Err()
	case s.blr != nil:
		return s.blr.Err()
	default:
		return nil
	}
}

// SerializeValue serializes value positionally: the name is used by the
// text and blueprint engines and ignored by the binary engine, which
// has no notion of field names.
func SerializeValue[T any](s *Serializer, name string, value *T) error {
	switch {
	case s.bw != nil:
		return s.bw.WriteValue(*value)
	case s.br != nil:
		return s.br.ReadValue(value)
	case s.sw != nil:
		return WriteValue(s.sw, *value, "")
	case s.sr != nil:
		return ReadValue(s.sr, value, "")
	case s.blw != nil:
		return s.blw.WriteField(name, *value)
	case s.blr != nil:
		return s.blr.ReadField(name, value)
	default:
		return ErrUnsupportedType
	}
}

// SerializeDefault is like SerializeValue, but a writer skips emitting
// the field when *value equals def, and a reader leaves *value at def
// when the field is absent (spec's "default-valued member" convention,
// generalized from the original's object-member omission rule to every
// engine capable of representing an absent field).
func SerializeDefault[T any](s *Serializer, name string, value *T, def T) error {
	if s.blw != nil {
		bd := ToBlueprint(def)
		bv := ToBlueprint(*value)
		if bd.Equal(&bv) {
			return nil
		}
	}
	if s.blr != nil {
		if _, ok := s.blr.current().ObjectGet(name); !ok {
			*value = def
			return nil
		}
	}
	return SerializeValue(s, name, value)
}

// SerializeOptional serializes a pointer field, writing nothing for a
// nil pointer on the blueprint engine (rather than a null placeholder)
// and leaving the destination nil when the field is absent on read. The
// binary and text engines have no absent-field notion: the binary engine
// always writes a presence flag followed by the pointee, and the text
// engine writes `null` for a nil pointer, matching each engine's
// existing Ptr handling in WriteValue/ReadValue.
func SerializeOptional[T any](s *Serializer, name string, value **T) error {
	switch {
	case s.bw != nil:
		return s.bw.WriteValue(*value)
	case s.br != nil:
		return s.br.ReadValue(value)
	case s.sw != nil:
		return WriteValue(s.sw, *value, "")
	case s.sr != nil:
		return ReadValue(s.sr, value, "")
	case s.blw != nil:
		if *value == nil {
			return nil
		}
		return s.blw.WriteField(name, *value)
	case s.blr != nil:
		if _, ok := s.blr.current().ObjectGet(name); !ok {
			*value = nil
			return nil
		}
		return s.blr.ReadField(name, value)
	default:
		return ErrUnsupportedType
	}
}
