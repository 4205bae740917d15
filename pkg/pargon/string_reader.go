package pargon

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// StringReader parses human-oriented text into values, directed by a
// per-value format specification string (spec §4.6/§4.7). It holds the
// entire input in memory and a single cursor offset into it; unlike
// BufferReader there is no bit cursor, since text has no sub-byte
// addressing.
type StringReader struct {
	opts   Options
	input  string
	pos    int
	caser  cases.Caser
}

// NewStringReader wraps input for reading with opts.
func NewStringReader(input string, opts Options) *StringReader {
	return &StringReader{opts: opts, input: input, caser: cases.Fold()}
}

// Remaining returns the unconsumed tail of the input.
func (r *StringReader) Remaining() string { return r.input[r.pos:] }

func (r *StringReader) lineColumn() (int, int) {
	line, col := 1, 1
	for i := 0; i < r.pos && i < len(r.input); i++ {
		if r.input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func (r *StringReader) errorf(format string, args ...any) error {
	line, col := r.lineColumn()
	return NewParseError(line, col, fmt.Sprintf(format, args...), ErrSyntax)
}

func (r *StringReader) skipSpace() {
	for r.pos < len(r.input) {
		switch r.input[r.pos] {
		case ' ', '\t', '\r', '\n':
			r.pos++
		default:
			return
		}
	}
}

// Parse matches format against the input (spec §4.3/§4.6), assigning
// each replacement field's argument from the text consumed at that
// position. Literal runs are matched case-insensitively via
// golang.org/x/text/cases, since the Design Notes call out the source
// implementation's locale-naive ASCII fold as worth replacing.
func (r *StringReader) Parse(format string, args ...namedArgument) error {
	sf := ParseFormatString(format)
	return r.ParseFormat(sf, args...)
}

// ParseFormat is Parse for an already-tokenized format string.
func (r *StringReader) ParseFormat(sf StringFormat, args ...namedArgument) error {
	for i, tok := range sf.Tokens {
		switch tok.ParameterIndex {
		case NoParameter:
			if err := r.matchLiteral(tok.Specification); err != nil {
				return err
			}
		case NamedParameter:
			arg, ok := findNamedArgument(args, tok.ParameterName)
			if !ok {
				return fmt.Errorf("pargon: %w: %q", ErrUnknownParameter, tok.ParameterName)
			}
			r.skipSpaceIfNextLiteral(sf.Tokens, i)
			if err := arg.readFrom(r, tok.Specification); err != nil {
				return err
			}
		default:
			if tok.ParameterIndex < 0 || tok.ParameterIndex >= len(args) {
				return fmt.Errorf("pargon: %w: index %d", ErrUnknownParameter, tok.ParameterIndex)
			}
			r.skipSpaceIfNextLiteral(sf.Tokens, i)
			if err := args[tok.ParameterIndex].readFrom(r, tok.Specification); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipSpaceIfNextLiteral consumes no input: each field parser takes
// exactly the text it needs, and matchLiteral then requires the
// following literal, whitespace included, to appear in the input.
func (r *StringReader) skipSpaceIfNextLiteral(tokens []FormatToken, i int) {
	if i+1 < len(tokens) && tokens[i+1].ParameterIndex == NoParameter {
		// no-op placeholder: field parsing itself consumes exactly what
		// it needs; literal matching below handles any remaining gap.
		_ = tokens
	}
}

func (r *StringReader) matchLiteral(literal string) error {
	if len(r.input)-r.pos < len(literal) {
		return r.errorf("expected %q", literal)
	}
	candidate := r.input[r.pos : r.pos+len(literal)]
	if r.caser.String(candidate) != r.caser.String(literal) {
		return r.errorf("expected %q, got %q", literal, candidate)
	}
	r.pos += len(literal)
	return nil
}

// --- Primitive parsing rules (spec §4.7). The Design Notes flag the
// source implementation's bool parser for not advancing the cursor on
// a match; ReadBool here always advances past what it consumed. ---

// ReadBool parses "true"/"false" (case-insensitively), or "T"/"F" when
// spec is "t", or a single '0'/'1' digit when spec is "d".
func (r *StringReader) ReadBool(spec string) (bool, error) {
	switch spec {
	case "t":
		if r.pos >= len(r.input) {
			return false, r.errorf("expected T or F")
		}
		c := r.input[r.pos]
		r.pos++
		switch c {
		case 'T', 't':
			return true, nil
		case 'F', 'f':
			return false, nil
		default:
			return false, r.errorf("expected T or F, got %q", c)
		}
	case "d":
		if r.pos >= len(r.input) {
			return false, r.errorf("expected 0 or 1")
		}
		c := r.input[r.pos]
		r.pos++
		switch c {
		case '1':
			return true, nil
		case '0':
			return false, nil
		default:
			return false, r.errorf("expected 0 or 1, got %q", c)
		}
	default:
		if r.tryMatchFold("true") {
			return true, nil
		}
		if r.tryMatchFold("false") {
			return false, nil
		}
		return false, r.errorf("expected true or false")
	}
}

func (r *StringReader) tryMatchFold(word string) bool {
	if len(r.input)-r.pos < len(word) {
		return false
	}
	candidate := r.input[r.pos : r.pos+len(word)]
	if r.caser.String(candidate) != r.caser.String(word) {
		return false
	}
	r.pos += len(word)
	return true
}

func (r *StringReader) scanWhile(pred func(byte) bool) string {
	start := r.pos
	for r.pos < len(r.input) && pred(r.input[r.pos]) {
		r.pos++
	}
	return r.input[start:r.pos]
}

// ReadInt parses a signed decimal (or, with spec containing "x"/"X", hexadecimal) integer.
func (r *StringReader) ReadInt(spec string) (int64, error) {
	base := 10
	if strings.ContainsAny(spec, "xX") {
		base = 16
	}
	text := r.scanWhile(func(c byte) bool {
		return c == '-' || c == '+' || isHexDigit(c, base)
	})
	if text == "" {
		return 0, r.errorf("expected an integer")
	}
	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return 0, r.errorf("invalid integer %q: %v", text, err)
	}
	return v, nil
}

// ReadUint parses an unsigned integer, honoring the same hex spec as ReadInt.
func (r *StringReader) ReadUint(spec string) (uint64, error) {
	base := 10
	if strings.ContainsAny(spec, "xX") {
		base = 16
	}
	text := r.scanWhile(func(c byte) bool { return isHexDigit(c, base) })
	if text == "" {
		return 0, r.errorf("expected an unsigned integer")
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, r.errorf("invalid unsigned integer %q: %v", text, err)
	}
	return v, nil
}

func isHexDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base == 16 {
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}

// ReadFloat parses a floating-point literal.
func (r *StringReader) ReadFloat(spec string) (float64, error) {
	text := r.scanWhile(func(c byte) bool {
		return c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' || (c >= '0' && c <= '9')
	})
	if text == "" {
		return 0, r.errorf("expected a floating-point number")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, r.errorf("invalid float %q: %v", text, err)
	}
	return v, nil
}

// ReadString parses a quoted, escaped string, or a raw run of
// non-whitespace when spec is "raw".
func (r *StringReader) ReadString(spec string) (string, error) {
	if spec == "raw" {
		text := r.scanWhile(func(c byte) bool { return c != ' ' && c != '\t' && c != '\n' && c != '\r' })
		if text == "" {
			return "", r.errorf("expected text")
		}
		return text, nil
	}
	if r.pos >= len(r.input) || r.input[r.pos] != '"' {
		return "", r.errorf("expected a quoted string")
	}
	start := r.pos
	r.pos++
	var sb strings.Builder
	for {
		if r.pos >= len(r.input) {
			return "", r.errorf("unterminated string starting at offset %d", start)
		}
		c := r.input[r.pos]
		if c == '"' {
			r.pos++
			return sb.String(), nil
		}
		if c == '\\' && r.pos+1 < len(r.input) {
			r.pos++
			switch r.input[r.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(r.input[r.pos])
			}
			r.pos++
			continue
		}
		sb.WriteByte(c)
		r.pos++
	}
}

// ReadEnum parses the registered name for an enum, or a bare ordinal
// when spec is "n" or "#".
func (r *StringReader) ReadEnum(names []string, spec string) (int64, error) {
	switch spec {
	case "n", "#":
		return r.ReadInt(spec)
	default:
		for i, n := range names {
			if r.tryMatchFold(n) {
				return int64(i), nil
			}
		}
		return 0, r.errorf("unrecognized enum name")
	}
}

// --- PON / JSON Blueprint parsing. ---

// ReadBlueprint parses the remainder of the input as PON or JSON,
// chosen by spec the same way StringWriter.WriteBlueprint chooses how
// to render.
func (r *StringReader) ReadBlueprint(spec string) (Blueprint, error) {
	remaining := r.input[r.pos:]
	switch spec {
	case "json", "JSON":
		b, err := UnmarshalJSON(remaining)
		if err != nil {
			return Blueprint{}, err
		}
		r.pos = len(r.input)
		return b, nil
	default:
		b, err := parsePON(remaining)
		if err != nil {
			return Blueprint{}, err
		}
		r.pos = len(r.input)
		return b, nil
	}
}

// --- Capability-probed dispatch, mirroring StringWriter.writeReflect. ---

// ReadValue parses a value of type T from the remaining input, directed
// by spec, via the capability probe.
func ReadValue[T any](r *StringReader, dest *T, spec string) error {
	rv := reflect.ValueOf(dest).Elem()
	return r.readReflect(rv, reflect.ValueOf(dest), spec)
}

func (r *StringReader) readReflect(rv reflect.Value, ptr reflect.Value, spec string) error {
	if dec, ok := ptr.Interface().(StringDecoder); ok {
		return dec.FromString(r, spec)
	}

	t := rv.Type()
	if entry, ok := lookupStringFunc(t); ok {
		return entry.from(r, ptr.Interface(), spec)
	}

	if s, ok := ptr.Interface().(Serializable); ok {
		return s.Serialize(NewStringDeserializer(r))
	}
	if fn, ok := lookupSerializeFunc(t); ok {
		return fn(NewStringDeserializer(r), ptr.Interface())
	}

	if names, ok := lookupEnumNames(t); ok {
		ord, err := r.ReadEnum(names, spec)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(ord).Convert(t))
		return nil
	}

	return r.readStructural(rv, spec)
}

func (r *StringReader) readStructural(rv reflect.Value, spec string) error {
	switch rv.Kind() {
	case reflect.Bool:
		v, err := r.ReadBool(spec)
		if err != nil {
			return err
		}
		rv.SetBool(v)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		v, err := r.ReadInt(spec)
		if err != nil {
			return err
		}
		rv.SetInt(v)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		v, err := r.ReadUint(spec)
		if err != nil {
			return err
		}
		rv.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := r.ReadFloat(spec)
		if err != nil {
			return err
		}
		rv.SetFloat(v)
	case reflect.String:
		v, err := r.ReadString(spec)
		if err != nil {
			return err
		}
		rv.SetString(v)
	case reflect.Ptr:
		r.skipSpace()
		if r.tryMatchFold("null") {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		p := reflect.New(rv.Type().Elem())
		if err := r.readReflect(p.Elem(), p, spec); err != nil {
			return err
		}
		rv.Set(p)
	case reflect.Slice:
		start := r.pos
		if err := r.readSlice(rv, spec); err != nil {
			r.pos = start
			return err
		}
	case reflect.Array:
		start := r.pos
		if err := r.readArray(rv, spec); err != nil {
			r.pos = start
			return err
		}
	case reflect.Map:
		start := r.pos
		if err := r.readMap(rv, spec); err != nil {
			r.pos = start
			return err
		}
	default:
		return unsupportedTypeError("string", rv.Type())
	}
	return nil
}

// sequenceDelims mirrors StringWriter.writeStructural's sequence spec
// switch: "{" selects braces, "-" selects no delimiter (not parseable
// without a count, so reading it is rejected), anything else selects
// the default square brackets.
func sequenceDelims(spec string) (byte, byte, bool) {
	switch spec {
	case "{":
		return '{', '}', true
	case "-":
		return 0, 0, false
	default:
		return '[', ']', true
	}
}

// mapDelims mirrors StringWriter.writeStructural's map spec switch.
func mapDelims(spec string) (byte, byte, bool) {
	switch spec {
	case "[":
		return '[', ']', true
	case "-":
		return 0, 0, false
	default:
		return '{', '}', true
	}
}

// readSlice parses "[ item, item, ... ]" (spec §4.6 List<T>). On any
// failure the caller restores the cursor to the position before the
// opening delimiter, so a partial parse leaves no trace.
func (r *StringReader) readSlice(rv reflect.Value, spec string) error {
	open, close, ok := sequenceDelims(spec)
	if !ok {
		return r.errorf("sequence format %q has no parseable delimiter", spec)
	}
	r.skipSpace()
	if r.pos >= len(r.input) || r.input[r.pos] != open {
		return r.errorf("expected %q", string(open))
	}
	r.pos++
	r.skipSpace()

	elemType := rv.Type().Elem()
	if r.pos < len(r.input) && r.input[r.pos] == close {
		r.pos++
		rv.Set(reflect.MakeSlice(rv.Type(), 0, 0))
		return nil
	}

	var elems []reflect.Value
	for {
		ev := reflect.New(elemType).Elem()
		if err := r.readReflect(ev, addrOf(ev), ""); err != nil {
			return err
		}
		elems = append(elems, ev)
		r.skipSpace()
		if r.pos >= len(r.input) {
			return r.errorf("unterminated sequence")
		}
		switch r.input[r.pos] {
		case ',':
			r.pos++
			r.skipSpace()
			continue
		case close:
			r.pos++
		default:
			return r.errorf("expected ',' or %q", string(close))
		}
		break
	}

	out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	for i, e := range elems {
		out.Index(i).Set(e)
	}
	rv.Set(out)
	return nil
}

// readArray parses "[ item, item, ... ]" for exactly rv.Len() items
// (spec §4.6 Array<T,N>), staging into a placeholder so a failure part
// way through does not disturb rv.
func (r *StringReader) readArray(rv reflect.Value, spec string) error {
	open, close, ok := sequenceDelims(spec)
	if !ok {
		return r.errorf("array format %q has no parseable delimiter", spec)
	}
	r.skipSpace()
	if r.pos >= len(r.input) || r.input[r.pos] != open {
		return r.errorf("expected %q", string(open))
	}
	r.pos++
	r.skipSpace()

	out := reflect.New(rv.Type()).Elem()
	n := out.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			if r.pos >= len(r.input) || r.input[r.pos] != ',' {
				return r.errorf("expected ',' between array elements")
			}
			r.pos++
			r.skipSpace()
		}
		ev := out.Index(i)
		if err := r.readReflect(ev, addrOf(ev), ""); err != nil {
			return err
		}
		r.skipSpace()
	}
	if r.pos >= len(r.input) || r.input[r.pos] != close {
		return r.errorf("expected %q", string(close))
	}
	r.pos++
	rv.Set(out)
	return nil
}

// readMap parses "{ key : value, ... }" (spec §4.6 Map<K,V>).
func (r *StringReader) readMap(rv reflect.Value, spec string) error {
	open, close, ok := mapDelims(spec)
	if !ok {
		return r.errorf("map format %q has no parseable delimiter", spec)
	}
	r.skipSpace()
	if r.pos >= len(r.input) || r.input[r.pos] != open {
		return r.errorf("expected %q", string(open))
	}
	r.pos++
	r.skipSpace()

	kt, vt := rv.Type().Key(), rv.Type().Elem()
	out := reflect.MakeMap(rv.Type())
	if r.pos < len(r.input) && r.input[r.pos] == close {
		r.pos++
		rv.Set(out)
		return nil
	}

	for {
		kv := reflect.New(kt).Elem()
		if err := r.readReflect(kv, addrOf(kv), ""); err != nil {
			return err
		}
		r.skipSpace()
		if r.pos >= len(r.input) || r.input[r.pos] != ':' {
			return r.errorf("expected ':'")
		}
		r.pos++
		r.skipSpace()

		vv := reflect.New(vt).Elem()
		if err := r.readReflect(vv, addrOf(vv), ""); err != nil {
			return err
		}
		out.SetMapIndex(kv, vv)
		r.skipSpace()
		if r.pos >= len(r.input) {
			return r.errorf("unterminated map")
		}
		switch r.input[r.pos] {
		case ',':
			r.pos++
			r.skipSpace()
			continue
		case close:
			r.pos++
		default:
			return r.errorf("expected ',' or %q", string(close))
		}
		break
	}

	rv.Set(out)
	return nil
}
