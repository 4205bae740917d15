package pargon

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// StringWriter renders values as human-oriented text, directed by a
// per-value format specification string (spec §4.7). Unlike the binary
// engine, failures are reported immediately as an error return from
// each call rather than sticky state, since text rendering has no
// natural "byte offset" for a deferred error to point at.
type StringWriter struct {
	opts Options
	buf  strings.Builder
}

// NewStringWriter returns a writer configured with opts.
func NewStringWriter(opts Options) *StringWriter { return &StringWriter{opts: opts} }

// String returns the text rendered so far.
func (w *StringWriter) String() string { return w.buf.String() }

// Format renders format, substituting each replacement field with the
// corresponding positional or named argument (spec §4.3), and appends
// the result to the writer's buffer.
func (w *StringWriter) Format(format string, args ...namedArgument) error {
	sf := ParseFormatString(format)
	return w.FormatParsed(sf, args...)
}

// FormatParsed is Format for an already-parsed StringFormat, letting a
// caller reuse the same format across many values without re-tokenizing.
func (w *StringWriter) FormatParsed(sf StringFormat, args ...namedArgument) error {
	for _, tok := range sf.Tokens {
		switch tok.ParameterIndex {
		case NoParameter:
			w.buf.WriteString(tok.Specification)
		case NamedParameter:
			arg, ok := findNamedArgument(args, tok.ParameterName)
			if !ok {
				return fmt.Errorf("pargon: %w: %q", ErrUnknownParameter, tok.ParameterName)
			}
			if err := arg.writeTo(w, tok.Specification); err != nil {
				return err
			}
		default:
			if tok.ParameterIndex < 0 || tok.ParameterIndex >= len(args) {
				return fmt.Errorf("pargon: %w: index %d", ErrUnknownParameter, tok.ParameterIndex)
			}
			if err := args[tok.ParameterIndex].writeTo(w, tok.Specification); err != nil {
				return err
			}
		}
	}
	return nil
}

func findNamedArgument(args []namedArgument, name string) (namedArgument, bool) {
	for _, a := range args {
		if a.argName() == name {
			return a, true
		}
	}
	return nil, false
}

// --- Primitive formatting rules (spec §4.7). ---

// WriteBool writes "true"/"false", or "T"/"F" when spec is "t", or
// "1"/"0" when spec is "d".
func (w *StringWriter) WriteBool(v bool, spec string) error {
	switch spec {
	case "t":
		if v {
			w.buf.WriteString("T")
		} else {
			w.buf.WriteString("F")
		}
	case "d":
		if v {
			w.buf.WriteString("1")
		} else {
			w.buf.WriteString("0")
		}
	default:
		w.buf.WriteString(strconv.FormatBool(v))
	}
	return nil
}

// WriteInt writes a signed integer in decimal. Signed integers have no
// hex form; spec is ignored.
func (w *StringWriter) WriteInt(v int64, spec string) error {
	w.buf.WriteString(strconv.FormatInt(v, 10))
	return nil
}

// WriteUint writes an unsigned integer in decimal, or uppercase
// hexadecimal when spec contains "#".
func (w *StringWriter) WriteUint(v uint64, spec string) error {
	if strings.Contains(spec, "#") {
		w.buf.WriteString(strings.ToUpper(strconv.FormatUint(v, 16)))
		return nil
	}
	w.buf.WriteString(strconv.FormatUint(v, 10))
	return nil
}

// WriteFloat writes a floating-point value with trailing zeros stripped,
// unless spec requests fixed precision via "#" followed by a digit count.
// At least one digit always remains after the decimal point.
func (w *StringWriter) WriteFloat(v float64, spec string) error {
	if idx := strings.IndexByte(spec, '#'); idx >= 0 && idx+1 < len(spec) {
		if prec, err := strconv.Atoi(spec[idx+1:]); err == nil {
			w.buf.WriteString(strconv.FormatFloat(v, 'f', prec, 64))
			return nil
		}
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	w.buf.WriteString(s)
	return nil
}

// WriteString writes a string, quoting it with Go-style escapes unless
// spec is "raw".
func (w *StringWriter) WriteString(v string, spec string) error {
	if spec == "raw" {
		w.buf.WriteString(v)
		return nil
	}
	w.buf.WriteString(strconv.Quote(v))
	return nil
}

// WriteEnum writes the registered name for an enum ordinal, or the
// ordinal itself (decimal, or hex with "#") when spec requests it.
func (w *StringWriter) WriteEnum(names []string, ordinal int64, spec string) error {
	switch spec {
	case "n":
		w.buf.WriteString(strconv.FormatInt(ordinal, 10))
		return nil
	case "#":
		w.buf.WriteString("0x" + strconv.FormatInt(ordinal, 16))
		return nil
	default:
		if ordinal < 0 || int(ordinal) >= len(names) {
			return fmt.Errorf("pargon: %w: ordinal %d", ErrUnknownEnumName, ordinal)
		}
		w.buf.WriteString(names[ordinal])
		return nil
	}
}

// --- PON / JSON Blueprint rendering (spec §6.2/§6.3). ---

// WriteBlueprint renders b as PON or JSON per spec: "pon"/"PON" select
// PON (compressed/pretty), "json"/"JSON" select JSON (compressed/pretty).
func (w *StringWriter) WriteBlueprint(b *Blueprint, spec string) error {
	switch spec {
	case "PON":
		return writePON(&w.buf, b, true, w.opts.indentOrDefault())
	case "pon", "":
		return writePON(&w.buf, b, false, w.opts.indentOrDefault())
	case "JSON":
		text, err := MarshalJSONIndent(b, w.opts.indentOrDefault())
		if err != nil {
			return err
		}
		w.buf.WriteString(text)
		return nil
	case "json":
		text, err := MarshalJSON(b)
		if err != nil {
			return err
		}
		w.buf.WriteString(text)
		return nil
	default:
		return fmt.Errorf("pargon: %w: blueprint spec %q", ErrSyntax, spec)
	}
}

func (o Options) indentOrDefault() IndentStyle { return DefaultIndent }

// --- Capability-probed dispatch, mirroring BufferWriter.WriteValue but
// without the buffer engine's hookless-struct fallback (spec row 9 is
// Buffer-only: an unhooked struct has no text representation). ---

// WriteValue writes v, directed by spec, via the capability probe.
func WriteValue[T any](w *StringWriter, v T, spec string) error {
	return w.writeReflect(reflect.ValueOf(v), spec)
}

func (w *StringWriter) writeReflect(rv reflect.Value, spec string) error {
	if !rv.IsValid() {
		w.buf.WriteString("null")
		return nil
	}

	if rv.CanAddr() {
		if enc, ok := rv.Addr().Interface().(StringEncoder); ok {
			return enc.ToString(w, spec)
		}
	} else if enc, ok := rv.Interface().(StringEncoder); ok {
		return enc.ToString(w, spec)
	}

	t := rv.Type()
	if entry, ok := lookupStringFunc(t); ok {
		return entry.to(w, addrOf(rv).Interface(), spec)
	}

	ptr := addrOf(rv)
	if s, ok := ptr.Interface().(Serializable); ok {
		return s.Serialize(NewStringSerializer(w))
	}
	if fn, ok := lookupSerializeFunc(t); ok {
		return fn(NewStringSerializer(w), ptr.Interface())
	}

	if names, ok := lookupEnumNames(t); ok {
		ord := reflect.ValueOf(rv.Interface()).Convert(reflect.TypeOf(int64(0))).Int()
		return w.WriteEnum(names, ord, spec)
	}

	if v, ok := ptr.Interface().(BufferViewable); ok {
		w.buf.WriteString(fmt.Sprintf("%x", v.Bytes()))
		return nil
	}
	if v, ok := ptr.Interface().(StringViewable); ok {
		return w.WriteString(v.String(), spec)
	}

	return w.writeStructural(rv, spec)
}

func (w *StringWriter) writeStructural(rv reflect.Value, spec string) error {
	switch rv.Kind() {
	case reflect.Bool:
		return w.WriteBool(rv.Bool(), spec)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		return w.WriteInt(rv.Int(), spec)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		return w.WriteUint(rv.Uint(), spec)
	case reflect.Float32, reflect.Float64:
		return w.WriteFloat(rv.Float(), spec)
	case reflect.String:
		return w.WriteString(rv.String(), spec)
	case reflect.Slice, reflect.Array:
		open, close := "[", "]"
		switch spec {
		case "{":
			open, close = "{", "}"
		case "-":
			open, close = "", ""
		}
		w.buf.WriteString(open)
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				w.buf.WriteString(", ")
			}
			if err := w.writeReflect(rv.Index(i), ""); err != nil {
				return err
			}
		}
		w.buf.WriteString(close)
		return nil
	case reflect.Map:
		open, close := "{", "}"
		if spec == "[" {
			open, close = "[", "]"
		} else if spec == "-" {
			open, close = "", ""
		}
		w.buf.WriteString(open)
		keys := rv.MapKeys()
		for i, k := range keys {
			if i > 0 {
				w.buf.WriteString(", ")
			}
			if err := w.writeReflect(k, ""); err != nil {
				return err
			}
			w.buf.WriteString(": ")
			if err := w.writeReflect(rv.MapIndex(k), ""); err != nil {
				return err
			}
		}
		w.buf.WriteString(close)
		return nil
	case reflect.Ptr:
		if rv.IsNil() {
			w.buf.WriteString("null")
			return nil
		}
		return w.writeReflect(rv.Elem(), spec)
	default:
		if b, ok := rv.Interface().(Blueprint); ok {
			return w.WriteBlueprint(&b, spec)
		}
		return unsupportedTypeError("string", rv.Type())
	}
}
