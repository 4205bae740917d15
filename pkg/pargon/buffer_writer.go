package pargon

import (
	"reflect"

	"github.com/blockberries/pargon/internal/wire"
)

// BufferWriter serializes values into a compact binary buffer using
// fixed, platform-independent widths (spec §4.4). Every Write* method
// is a no-op once the writer has failed; callers check Err (or Failed)
// once at the end instead of after every call, matching the teacher's
// cramberry.Writer convention.
type BufferWriter struct {
	opts Options
	buf  []byte

	bitBuf   byte
	bitCount int // bits already placed in bitBuf, 0-7

	failed bool
	err    error
}

// NewBufferWriter returns a writer configured with opts.
func NewBufferWriter(opts Options) *BufferWriter {
	return &BufferWriter{opts: opts}
}

// Bytes returns the buffer written so far. Any partially written byte
// from an unaligned bit cursor is not included until Align is called.
func (w *BufferWriter) Bytes() []byte { return w.buf }

// Failed reports whether a prior operation failed.
func (w *BufferWriter) Failed() bool { return w.failed }

// Err returns the first error encountered, or nil.
func (w *BufferWriter) Err() error { return w.err }

func (w *BufferWriter) fail(err error) {
	if !w.failed {
		w.failed = true
		w.err = err
	}
}

func (w *BufferWriter) order() wire.Order { return w.opts.Endian.byteOrder() }

// --- Byte-granular cursor helpers. ---

// Advance appends n zero bytes and returns their starting offset.
func (w *BufferWriter) Advance(n int) int {
	if w.failed {
		return len(w.buf)
	}
	start := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	return start
}

// ViewBytes returns a mutable slice over [offset, offset+n) of the
// buffer written so far, for patching a length prefix after the fact.
func (w *BufferWriter) ViewBytes(offset, n int) []byte {
	if offset < 0 || n < 0 || offset+n > len(w.buf) {
		w.fail(NewReadError(offset, "ViewBytes out of range", ErrUnexpectedEOF))
		return nil
	}
	return w.buf[offset : offset+n]
}

// --- Bit cursor (spec §4.4/§4.5; MSB-first within each byte). ---

// WriteBit appends a single bit, MSB-first within its byte.
func (w *BufferWriter) WriteBit(bit bool) {
	if w.failed {
		return
	}
	if bit {
		w.bitBuf |= 1 << (7 - w.bitCount)
	}
	w.bitCount++
	if w.bitCount == 8 {
		w.buf = append(w.buf, w.bitBuf)
		w.bitBuf = 0
		w.bitCount = 0
	}
}

// WriteBits appends the low n bits of value, MSB-first, n in [0, 64].
func (w *BufferWriter) WriteBits(value uint64, n int) {
	if w.failed {
		return
	}
	if n < 0 || n > 64 {
		w.fail(NewReadError(len(w.buf), "bit count out of range", ErrInvalidBitCount))
		return
	}
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(value&(1<<uint(i)) != 0)
	}
}

// WriteSignedBits appends value's two's-complement representation in n
// bits, sign bit first.
func (w *BufferWriter) WriteSignedBits(value int64, n int) {
	if n <= 0 || n > 64 {
		w.fail(NewReadError(len(w.buf), "bit count out of range", ErrInvalidBitCount))
		return
	}
	mask := uint64(1)<<uint(n) - 1
	w.WriteBits(uint64(value)&mask, n)
}

// Align pads the current partial byte with zero bits so the cursor
// returns to a byte boundary. A no-op if already aligned.
func (w *BufferWriter) Align() {
	if w.failed || w.bitCount == 0 {
		return
	}
	w.buf = append(w.buf, w.bitBuf)
	w.bitBuf = 0
	w.bitCount = 0
}

// --- Normalized-width primitives (spec §4.4). ---

func (w *BufferWriter) WriteBool(v bool) {
	w.Align()
	if w.failed {
		return
	}
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *BufferWriter) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

func (w *BufferWriter) WriteUint8(v uint8) {
	w.Align()
	if w.failed {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *BufferWriter) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *BufferWriter) WriteUint16(v uint16) {
	w.Align()
	if w.failed {
		return
	}
	off := w.Advance(wire.Int16Size)
	wire.PutUint16(w.buf[off:], v, w.order())
}

func (w *BufferWriter) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

func (w *BufferWriter) WriteUint32(v uint32) {
	w.Align()
	if w.failed {
		return
	}
	off := w.Advance(wire.Int32Size)
	wire.PutUint32(w.buf[off:], v, w.order())
}

func (w *BufferWriter) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

func (w *BufferWriter) WriteUint64(v uint64) {
	w.Align()
	if w.failed {
		return
	}
	off := w.Advance(wire.Int64Size)
	wire.PutUint64(w.buf[off:], v, w.order())
}

func (w *BufferWriter) WriteFloat32(v float32) {
	w.Align()
	if w.failed {
		return
	}
	off := w.Advance(wire.Float32Size)
	wire.PutFloat32(w.buf[off:], v, w.order())
}

func (w *BufferWriter) WriteFloat64(v float64) {
	w.Align()
	if w.failed {
		return
	}
	off := w.Advance(wire.Float64Size)
	wire.PutFloat64(w.buf[off:], v, w.order())
}

// WriteLength writes a normalized-int length prefix, enforcing limit
// when non-zero (spec §5, resource limits applied on the writer too so
// a written document can't silently exceed its own declared limits).
func (w *BufferWriter) WriteLength(n, limit int) {
	if limit > 0 && n > limit {
		w.fail(NewReadError(len(w.buf), "length exceeds limit", ErrMaxLengthExceeded))
		return
	}
	w.WriteUint32(uint32(n))
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *BufferWriter) WriteString(v string) {
	w.WriteLength(len(v), w.opts.Limits.MaxStringLength)
	if w.failed {
		return
	}
	w.Align()
	w.buf = append(w.buf, v...)
}

// WriteBuffer writes a length-prefixed raw byte buffer.
func (w *BufferWriter) WriteBuffer(v []byte) {
	w.WriteLength(len(v), w.opts.Limits.MaxBufferLength)
	if w.failed {
		return
	}
	w.Align()
	w.buf = append(w.buf, v...)
}

// --- Blueprint support (spec §6.1: tag byte followed by the payload). ---

func (w *BufferWriter) WriteBlueprint(b *Blueprint) { w.writeBlueprintDepth(b, 0) }

func (w *BufferWriter) writeBlueprintDepth(b *Blueprint, depth int) {
	if w.failed {
		return
	}
	if limit := w.opts.Limits.MaxDepth; limit > 0 && depth > limit {
		w.fail(NewReadError(len(w.buf), "blueprint nesting too deep", ErrMaxDepthExceeded))
		return
	}
	switch b.Kind() {
	case KindInvalid:
		w.WriteUint8(uint8(wire.TagInvalid))
	case KindNull:
		w.WriteUint8(uint8(wire.TagNull))
	case KindBool:
		w.WriteUint8(uint8(wire.TagBool))
		v, _ := b.AsBool()
		w.WriteBool(v)
	case KindInt:
		w.WriteUint8(uint8(wire.TagInt))
		v, _ := b.AsInt()
		w.WriteInt64(v)
	case KindFloat:
		w.WriteUint8(uint8(wire.TagFloat))
		v, _ := b.AsFloat()
		w.WriteFloat64(v)
	case KindString:
		w.WriteUint8(uint8(wire.TagString))
		v, _ := b.AsString()
		w.WriteString(v)
	case KindArray:
		w.WriteUint8(uint8(wire.TagArray))
		arr, _ := b.AsArray()
		w.WriteLength(len(arr), w.opts.Limits.MaxContainerLength)
		for i := range arr {
			w.writeBlueprintDepth(&arr[i], depth+1)
		}
	case KindObject:
		w.WriteUint8(uint8(wire.TagObject))
		keys := b.ObjectKeys()
		w.WriteLength(len(keys), w.opts.Limits.MaxContainerLength)
		for _, k := range keys {
			w.WriteString(k)
			child, _ := b.ObjectGet(k)
			w.writeBlueprintDepth(child, depth+1)
		}
	}
}

// --- Capability-probed dispatch for arbitrary values (spec §4.1). The
// buffer engine is the only one of the six with a structural fallback
// for hookless structs (capability row 9), so WriteValue here accepts
// any Go value, not just the six explicitly-listed primitive kinds. ---

// WriteValue writes v using the capability probe: a ToBuffer method, a
// registered free function, a Serialize hook, an enum name table, or
// (structs/slices/maps/arrays/primitives only) structural dispatch.
func (w *BufferWriter) WriteValue(v any) error {
	if w.failed {
		return w.err
	}
	return w.writeReflect(reflect.ValueOf(v))
}

func (w *BufferWriter) writeReflect(rv reflect.Value) error {
	if !rv.IsValid() {
		return unsupportedTypeError("buffer", nil)
	}

	if rv.CanAddr() {
		if enc, ok := rv.Addr().Interface().(BufferEncoder); ok {
			return enc.ToBuffer(w)
		}
	} else if enc, ok := rv.Interface().(BufferEncoder); ok {
		return enc.ToBuffer(w)
	}

	t := rv.Type()
	if entry, ok := lookupBufferFunc(t); ok {
		return entry.to(w, addrOf(rv).Interface())
	}

	ptr := addrOf(rv)
	if s, ok := ptr.Interface().(Serializable); ok {
		return s.Serialize(NewSerializer(w))
	}
	if fn, ok := lookupSerializeFunc(t); ok {
		return fn(NewSerializer(w), ptr.Interface())
	}

	if names, ok := lookupEnumNames(t); ok {
		idx := int(reflect.ValueOf(rv.Interface()).Convert(reflect.TypeOf(int64(0))).Int())
		if idx < 0 || idx >= len(names) {
			return NewReadError(len(w.buf), "enum value has no registered name", ErrUnknownEnumName)
		}
		w.WriteInt64(int64(idx))
		return w.err
	}

	return w.writeStructural(rv)
}

// writeStructural handles Go's built-in kinds directly: this is the
// buffer engine's standard-layout fallback (spec row 9), generalized
// from a literal memcpy (meaningless for Go's non-portable struct
// layout) to recursive field-by-field dispatch in declaration order.
func (w *BufferWriter) writeStructural(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Bool:
		w.WriteBool(rv.Bool())
	case reflect.Int8:
		w.WriteInt8(int8(rv.Int()))
	case reflect.Int16:
		w.WriteInt16(int16(rv.Int()))
	case reflect.Int, reflect.Int32:
		w.WriteInt32(int32(rv.Int()))
	case reflect.Int64:
		w.WriteInt64(rv.Int())
	case reflect.Uint8:
		w.WriteUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		w.WriteUint16(uint16(rv.Uint()))
	case reflect.Uint, reflect.Uint32:
		w.WriteUint32(uint32(rv.Uint()))
	case reflect.Uint64:
		w.WriteUint64(rv.Uint())
	case reflect.Float32:
		w.WriteFloat32(float32(rv.Float()))
	case reflect.Float64:
		w.WriteFloat64(rv.Float())
	case reflect.String:
		w.WriteString(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			w.WriteBuffer(rv.Bytes())
			return w.err
		}
		w.WriteLength(rv.Len(), w.opts.Limits.MaxContainerLength)
		for i := 0; i < rv.Len() && !w.failed; i++ {
			w.writeReflect(rv.Index(i))
		}
	case reflect.Array:
		for i := 0; i < rv.Len() && !w.failed; i++ {
			w.writeReflect(rv.Index(i))
		}
	case reflect.Map:
		keys := rv.MapKeys()
		w.WriteLength(len(keys), w.opts.Limits.MaxContainerLength)
		for _, k := range keys {
			if w.failed {
				break
			}
			w.writeReflect(k)
			w.writeReflect(rv.MapIndex(k))
		}
	case reflect.Ptr:
		if rv.IsNil() {
			w.WriteBool(false)
			return w.err
		}
		w.WriteBool(true)
		w.writeReflect(rv.Elem())
	case reflect.Struct:
		info := getStructInfo(rv.Type())
		for _, f := range info.fields {
			if w.failed {
				break
			}
			fv := rv.Field(f.index)
			if f.omitEmpty && isZeroValue(fv) {
				continue
			}
			w.writeReflect(fv)
		}
	default:
		return unsupportedTypeError("buffer", rv.Type())
	}
	return w.err
}

// addrOf returns an addressable pointer to rv's value, copying into a
// new allocation when rv itself isn't addressable.
func addrOf(rv reflect.Value) reflect.Value {
	if rv.CanAddr() {
		return rv.Addr()
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p
}
