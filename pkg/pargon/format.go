package pargon

import "strconv"

// Sentinel ParameterIndex values (spec §3 FormatToken).
const (
	// NoParameter marks a literal token; Specification holds its text.
	NoParameter = -1
	// NamedParameter marks a token selected by ParameterName.
	NamedParameter = -2
)

// FormatToken is one element of a parsed format string: either a
// literal run (ParameterIndex == NoParameter) or a replacement field
// selecting an argument by position or by name.
type FormatToken struct {
	ParameterIndex int
	ParameterName  string
	Specification  string
}

// StringFormat is a parsed format string, ready for repeated use with
// StringWriter.Format/StringReader.Parse without re-parsing the tokens.
type StringFormat struct {
	Tokens []FormatToken
}

// namedArgument is the internal interface every FormatArgument[T]
// satisfies, letting Format/Parse handle a heterogeneous argument list.
type namedArgument interface {
	argName() string
	writeTo(w *StringWriter, spec string) error
	readFrom(r *StringReader, spec string) error
}

// FormatArgument pairs a name with a reference to a value of type T, for
// use as an argument to StringWriter.Format or StringReader.Parse.
type FormatArgument[T any] struct {
	Name  string
	Value *T
}

// NamedArgument builds a FormatArgument wrapping value by reference.
func NamedArgument[T any](name string, value *T) FormatArgument[T] {
	return FormatArgument[T]{Name: name, Value: value}
}

func (a FormatArgument[T]) argName() string { return a.Name }

func (a FormatArgument[T]) writeTo(w *StringWriter, spec string) error {
	return WriteValue(w, *a.Value, spec)
}

func (a FormatArgument[T]) readFrom(r *StringReader, spec string) error {
	return ReadValue(r, a.Value, spec)
}

// ParseFormatString parses format into a sequence of literal and
// replacement-field tokens (spec §4.3). The parser is total: it never
// errors, producing whatever best-effort tokens the grammar yields for
// malformed input.
func ParseFormatString(format string) StringFormat {
	var tokens []FormatToken
	var literal []byte
	nextAuto := 0
	i, n := 0, len(format)

	flushLiteral := func() {
		if len(literal) > 0 {
			tokens = append(tokens, FormatToken{ParameterIndex: NoParameter, Specification: string(literal)})
			literal = literal[:0]
		}
	}

	for i < n {
		c := format[i]
		if c != '{' {
			literal = append(literal, c)
			i++
			continue
		}

		// "{{" is an escaped literal "{".
		if i+1 < n && format[i+1] == '{' {
			literal = append(literal, '{')
			i += 2
			continue
		}

		flushLiteral()
		i++ // consume '{'

		idStart := i
		for i < n && format[i] != '|' && format[i] != '}' {
			i++
		}
		id := format[idStart:i]

		spec := ""
		if i < n && format[i] == '|' {
			i++ // consume '|'
			specStart := i
			depth := 0
		specLoop:
			for i < n {
				switch format[i] {
				case '{':
					depth++
				case '}':
					if depth == 0 {
						break specLoop
					}
					depth--
				}
				i++
			}
			spec = format[specStart:i]
		}
		if i < n && format[i] == '}' {
			i++ // consume '}'
		}

		tok := FormatToken{Specification: spec}
		switch {
		case id == "":
			tok.ParameterIndex = nextAuto
			nextAuto++
		case id == "-":
			tok.ParameterIndex = NoParameter
			tok.Specification = spec
		case isDecimal(id):
			idx, err := strconv.Atoi(id)
			if err != nil {
				idx = nextAuto
				nextAuto++
			}
			tok.ParameterIndex = idx
		default:
			tok.ParameterIndex = NamedParameter
			tok.ParameterName = id
		}
		tokens = append(tokens, tok)
	}
	flushLiteral()
	return StringFormat{Tokens: tokens}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
