package pargon

import (
	"reflect"

	"github.com/blockberries/pargon/internal/wire"
)

// BufferReader deserializes values out of a binary buffer written by
// BufferWriter. Like BufferWriter, every Read* method is a no-op once
// the reader has failed, and Err/Failed report the first error.
type BufferReader struct {
	opts Options
	data []byte
	pos  int

	bitCount int // bits of data[pos] already consumed, 0-7

	failed bool
	err    error
}

// NewBufferReader wraps data for reading with opts.
func NewBufferReader(data []byte, opts Options) *BufferReader {
	return &BufferReader{data: data, opts: opts}
}

func (r *BufferReader) Failed() bool { return r.failed }
func (r *BufferReader) Err() error   { return r.err }

// Pos returns the current byte offset.
func (r *BufferReader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes (current partial byte
// counts as unread until Realign/Align advances past it).
func (r *BufferReader) Remaining() int { return len(r.data) - r.pos }

func (r *BufferReader) fail(err error) {
	if !r.failed {
		r.failed = true
		r.err = err
	}
}

func (r *BufferReader) order() wire.Order { return r.opts.Endian.byteOrder() }

func (r *BufferReader) need(n int) bool {
	if r.failed {
		return false
	}
	if r.pos+n > len(r.data) {
		r.fail(NewReadError(r.pos, "unexpected end of buffer", ErrUnexpectedEOF))
		return false
	}
	return true
}

// --- Byte-granular cursor. ---

// Advance skips n bytes, failing if that would run past the end.
func (r *BufferReader) Advance(n int) {
	if !r.need(n) {
		return
	}
	r.pos += n
}

// Retreat moves the cursor back n bytes, failing on underflow.
func (r *BufferReader) Retreat(n int) {
	if r.failed {
		return
	}
	if r.pos-n < 0 {
		r.fail(NewReadError(r.pos, "retreat past start of buffer", ErrUnexpectedEOF))
		return
	}
	r.pos -= n
}

// MoveTo sets the cursor to an absolute byte offset.
func (r *BufferReader) MoveTo(offset int) {
	if r.failed {
		return
	}
	if offset < 0 || offset > len(r.data) {
		r.fail(NewReadError(offset, "MoveTo out of range", ErrUnexpectedEOF))
		return
	}
	r.pos = offset
	r.bitCount = 0
}

// ViewByte returns the byte at the cursor without consuming it.
func (r *BufferReader) ViewByte() (byte, bool) {
	if !r.need(1) {
		return 0, false
	}
	return r.data[r.pos], true
}

// ViewBytes returns n bytes from the cursor without consuming them.
func (r *BufferReader) ViewBytes(n int) ([]byte, bool) {
	if !r.need(n) {
		return nil, false
	}
	return r.data[r.pos : r.pos+n], true
}

// ReadByte consumes and returns one byte.
func (r *BufferReader) ReadByte() (byte, bool) {
	if !r.need(1) {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++
	return b, true
}

// ReadBytes consumes and returns n bytes.
func (r *BufferReader) ReadBytes(n int) ([]byte, bool) {
	if !r.need(n) {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

// CopyBytes consumes n bytes into a fresh, independently owned slice.
func (r *BufferReader) CopyBytes(n int) ([]byte, bool) {
	b, ok := r.ReadBytes(n)
	if !ok {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, b)
	return out, true
}

// --- Bit cursor, mirroring BufferWriter's MSB-first convention. ---

func (r *BufferReader) ReadBit() bool {
	if !r.need(1) {
		return false
	}
	bit := r.data[r.pos]&(1<<(7-r.bitCount)) != 0
	r.bitCount++
	if r.bitCount == 8 {
		r.pos++
		r.bitCount = 0
	}
	return bit
}

// ReadBits reads n bits, n in [0, 64], MSB-first, into a uint64.
func (r *BufferReader) ReadBits(n int) uint64 {
	if r.failed {
		return 0
	}
	if n < 0 || n > 64 {
		r.fail(NewReadError(r.pos, "bit count out of range", ErrInvalidBitCount))
		return 0
	}
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if r.ReadBit() {
			v |= 1
		}
	}
	return v
}

// ReadSignedBits reads n bits as a two's-complement integer, sign bit first.
func (r *BufferReader) ReadSignedBits(n int) int64 {
	if n <= 0 || n > 64 {
		r.fail(NewReadError(r.pos, "bit count out of range", ErrInvalidBitCount))
		return 0
	}
	v := r.ReadBits(n)
	signBit := uint64(1) << uint(n-1)
	if v&signBit != 0 {
		return int64(v) - int64(signBit<<1)
	}
	return int64(v)
}

// Realign discards any unread bits in the current partial byte.
func (r *BufferReader) Realign() {
	if r.failed || r.bitCount == 0 {
		return
	}
	r.pos++
	r.bitCount = 0
}

// --- Normalized-width primitives. ---

func (r *BufferReader) ReadBool() bool {
	r.Realign()
	b, ok := r.ReadByte()
	return ok && b != 0
}

func (r *BufferReader) ReadInt8() int8 { return int8(r.ReadUint8()) }

func (r *BufferReader) ReadUint8() uint8 {
	r.Realign()
	b, _ := r.ReadByte()
	return b
}

func (r *BufferReader) ReadInt16() int16 { return int16(r.ReadUint16()) }

func (r *BufferReader) ReadUint16() uint16 {
	r.Realign()
	b, ok := r.ReadBytes(wire.Int16Size)
	if !ok {
		return 0
	}
	return wire.Uint16(b, r.order())
}

func (r *BufferReader) ReadInt32() int32 { return int32(r.ReadUint32()) }

func (r *BufferReader) ReadUint32() uint32 {
	r.Realign()
	b, ok := r.ReadBytes(wire.Int32Size)
	if !ok {
		return 0
	}
	return wire.Uint32(b, r.order())
}

func (r *BufferReader) ReadInt64() int64 { return int64(r.ReadUint64()) }

func (r *BufferReader) ReadUint64() uint64 {
	r.Realign()
	b, ok := r.ReadBytes(wire.Int64Size)
	if !ok {
		return 0
	}
	return wire.Uint64(b, r.order())
}

func (r *BufferReader) ReadFloat32() float32 {
	r.Realign()
	b, ok := r.ReadBytes(wire.Float32Size)
	if !ok {
		return 0
	}
	return wire.Float32(b, r.order())
}

func (r *BufferReader) ReadFloat64() float64 {
	r.Realign()
	b, ok := r.ReadBytes(wire.Float64Size)
	if !ok {
		return 0
	}
	return wire.Float64(b, r.order())
}

// ReadLength reads a normalized-int length prefix and enforces limit
// when non-zero.
func (r *BufferReader) ReadLength(limit int) int {
	n := int(r.ReadUint32())
	if r.failed {
		return 0
	}
	if n < 0 || (limit > 0 && n > limit) {
		r.fail(NewReadError(r.pos, "length exceeds limit", ErrMaxLengthExceeded))
		return 0
	}
	return n
}

func (r *BufferReader) ReadString() string {
	n := r.ReadLength(r.opts.Limits.MaxStringLength)
	if r.failed {
		return ""
	}
	r.Realign()
	b, ok := r.ReadBytes(n)
	if !ok {
		return ""
	}
	return string(b)
}

func (r *BufferReader) ReadBuffer() []byte {
	n := r.ReadLength(r.opts.Limits.MaxBufferLength)
	if r.failed {
		return nil
	}
	r.Realign()
	b, ok := r.CopyBytes(n)
	if !ok {
		return nil
	}
	return b
}

// --- Blueprint support. ---

func (r *BufferReader) ReadBlueprint() Blueprint {
	var b Blueprint
	r.readBlueprintDepth(&b, 0)
	return b
}

func (r *BufferReader) readBlueprintDepth(b *Blueprint, depth int) {
	if r.failed {
		return
	}
	if limit := r.opts.Limits.MaxDepth; limit > 0 && depth > limit {
		r.fail(NewReadError(r.pos, "blueprint nesting too deep", ErrMaxDepthExceeded))
		return
	}
	tag := wire.BlueprintTag(r.ReadUint8())
	if r.failed {
		return
	}
	if !tag.IsValid() {
		r.fail(NewReadError(r.pos, "invalid blueprint tag", wire.ErrInvalidTag))
		return
	}
	switch tag {
	case wire.TagInvalid:
		b.SetToInvalid()
	case wire.TagNull:
		b.SetToNull()
	case wire.TagBool:
		b.SetToBool(r.ReadBool())
	case wire.TagInt:
		b.SetToInt(r.ReadInt64())
	case wire.TagFloat:
		b.SetToFloat(r.ReadFloat64())
	case wire.TagString:
		b.SetToString(r.ReadString())
	case wire.TagArray:
		n := r.ReadLength(r.opts.Limits.MaxContainerLength)
		b.SetToArray()
		for i := 0; i < n && !r.failed; i++ {
			var child Blueprint
			r.readBlueprintDepth(&child, depth+1)
			b.ArrayAppend(child)
		}
	case wire.TagObject:
		n := r.ReadLength(r.opts.Limits.MaxContainerLength)
		b.SetToObject()
		for i := 0; i < n && !r.failed; i++ {
			key := r.ReadString()
			var child Blueprint
			r.readBlueprintDepth(&child, depth+1)
			b.ObjectSet(key, child)
		}
	}
}

// --- Capability-probed dispatch, mirroring BufferWriter.WriteValue. ---

// ReadValue decodes into dest, which must be a non-nil pointer.
func (r *BufferReader) ReadValue(dest any) error {
	if r.failed {
		return r.err
	}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrNotPointer
	}
	r.readReflect(rv.Elem(), rv)
	return r.err
}

func (r *BufferReader) readReflect(rv reflect.Value, ptr reflect.Value) {
	if dec, ok := ptr.Interface().(BufferDecoder); ok {
		if err := dec.FromBuffer(r); err != nil {
			r.fail(err)
		}
		return
	}

	t := rv.Type()
	if entry, ok := lookupBufferFunc(t); ok {
		if err := entry.from(r, ptr.Interface()); err != nil {
			r.fail(err)
		}
		return
	}

	if s, ok := ptr.Interface().(Serializable); ok {
		if err := s.Serialize(NewDeserializer(r)); err != nil {
			r.fail(err)
		}
		return
	}
	if fn, ok := lookupSerializeFunc(t); ok {
		if err := fn(NewDeserializer(r), ptr.Interface()); err != nil {
			r.fail(err)
		}
		return
	}

	if names, ok := lookupEnumNames(t); ok {
		idx := r.ReadInt64()
		if r.failed {
			return
		}
		if idx < 0 || int(idx) >= len(names) {
			r.fail(NewReadError(r.pos, "enum ordinal out of range", ErrUnknownEnumName))
			return
		}
		rv.Set(reflect.ValueOf(idx).Convert(t))
		return
	}

	r.readStructural(rv)
}

func (r *BufferReader) readStructural(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Bool:
		rv.SetBool(r.ReadBool())
	case reflect.Int8:
		rv.SetInt(int64(r.ReadInt8()))
	case reflect.Int16:
		rv.SetInt(int64(r.ReadInt16()))
	case reflect.Int, reflect.Int32:
		rv.SetInt(int64(r.ReadInt32()))
	case reflect.Int64:
		rv.SetInt(r.ReadInt64())
	case reflect.Uint8:
		rv.SetUint(uint64(r.ReadUint8()))
	case reflect.Uint16:
		rv.SetUint(uint64(r.ReadUint16()))
	case reflect.Uint, reflect.Uint32:
		rv.SetUint(uint64(r.ReadUint32()))
	case reflect.Uint64:
		rv.SetUint(r.ReadUint64())
	case reflect.Float32:
		rv.SetFloat(float64(r.ReadFloat32()))
	case reflect.Float64:
		rv.SetFloat(r.ReadFloat64())
	case reflect.String:
		rv.SetString(r.ReadString())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			rv.SetBytes(r.ReadBuffer())
			return
		}
		n := r.ReadLength(r.opts.Limits.MaxContainerLength)
		if r.failed {
			return
		}
		out := reflect.MakeSlice(rv.Type(), n, n)
		for i := 0; i < n && !r.failed; i++ {
			ev := out.Index(i)
			r.readReflect(ev, addrOf(ev))
		}
		if r.failed {
			return
		}
		rv.Set(out)
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < out.Len() && !r.failed; i++ {
			ev := out.Index(i)
			r.readReflect(ev, addrOf(ev))
		}
		if r.failed {
			return
		}
		rv.Set(out)
	case reflect.Map:
		n := r.ReadLength(r.opts.Limits.MaxContainerLength)
		if r.failed {
			return
		}
		out := reflect.MakeMapWithSize(rv.Type(), n)
		kt, vt := rv.Type().Key(), rv.Type().Elem()
		for i := 0; i < n && !r.failed; i++ {
			kv := reflect.New(kt).Elem()
			r.readReflect(kv, addrOf(kv))
			vv := reflect.New(vt).Elem()
			r.readReflect(vv, addrOf(vv))
			if r.failed {
				break
			}
			out.SetMapIndex(kv, vv)
		}
		if r.failed {
			return
		}
		rv.Set(out)
	case reflect.Ptr:
		if !r.ReadBool() {
			rv.Set(reflect.Zero(rv.Type()))
			return
		}
		p := reflect.New(rv.Type().Elem())
		r.readReflect(p.Elem(), p)
		rv.Set(p)
	case reflect.Struct:
		info := getStructInfo(rv.Type())
		for _, f := range info.fields {
			if r.failed {
				break
			}
			fv := rv.Field(f.index)
			r.readReflect(fv, addrOf(fv))
		}
	default:
		r.fail(unsupportedTypeError("buffer", rv.Type()))
	}
}
