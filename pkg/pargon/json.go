package pargon

import (
	"bytes"
	"encoding/json"
)

// Blueprint <-> JSON uses the standard library's encoding/json directly
// (spec §6.3). No third-party JSON library in the retrieved example
// pack offers an advantage over encoding/json for this mapping: the
// one complete JSON-parsing repo in the pack (a hand-rolled Crockford-
// style parser) buys nothing here since Blueprint already supplies its
// own tree type and ordered-object semantics; encoding/json's
// json.Marshal/Decoder are used purely as the text codec underneath.

// MarshalJSON renders b as compressed single-line JSON.
func MarshalJSON(b *Blueprint) (string, error) {
	v, err := blueprintToJSONValue(b)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// MarshalJSONIndent renders b as pretty-printed JSON using indent.
func MarshalJSONIndent(b *Blueprint, indent IndentStyle) (string, error) {
	v, err := blueprintToJSONValue(b)
	if err != nil {
		return "", err
	}
	prefix := ""
	ind := "\t"
	if !indent.Tab {
		ind = strRepeat(" ", indent.Width)
	}
	out, err := json.MarshalIndent(v, prefix, ind)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// UnmarshalJSON parses JSON text into a Blueprint.
func UnmarshalJSON(text string) (Blueprint, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Blueprint{}, NewParseError(0, 0, err.Error(), ErrSyntax)
	}
	return jsonValueToBlueprint(v), nil
}

func blueprintToJSONValue(b *Blueprint) (any, error) {
	switch b.Kind() {
	case KindInvalid:
		// JSON has no "invalid" variant; the framework's own Non-goal
		// on schema validation means round-tripping an Invalid node
		// through JSON is simply not representable, so it degrades to
		// null rather than erroring.
		return nil, nil
	case KindNull:
		return nil, nil
	case KindBool:
		v, _ := b.AsBool()
		return v, nil
	case KindInt:
		v, _ := b.AsInt()
		return v, nil
	case KindFloat:
		v, _ := b.AsFloat()
		return v, nil
	case KindString:
		v, _ := b.AsString()
		return v, nil
	case KindArray:
		arr, _ := b.AsArray()
		out := make([]any, len(arr))
		for i := range arr {
			v, err := blueprintToJSONValue(&arr[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindObject:
		out := make(map[string]any, b.ObjectLen())
		for _, k := range b.ObjectKeys() {
			child, _ := b.ObjectGet(k)
			v, err := blueprintToJSONValue(child)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, ErrUnsupportedType
	}
}

func jsonValueToBlueprint(v any) Blueprint {
	var b Blueprint
	switch t := v.(type) {
	case nil:
		b.SetToNull()
	case bool:
		b.SetToBool(t)
	case json.Number:
		if iv, err := t.Int64(); err == nil {
			b.SetToInt(iv)
		} else if fv, err := t.Float64(); err == nil {
			b.SetToFloat(fv)
		}
	case string:
		b.SetToString(t)
	case []any:
		b.SetToArray()
		for _, e := range t {
			b.ArrayAppend(jsonValueToBlueprint(e))
		}
	case map[string]any:
		b.SetToObject()
		for k, e := range t {
			b.ObjectSet(k, jsonValueToBlueprint(e))
		}
	}
	return b
}

func strRepeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
