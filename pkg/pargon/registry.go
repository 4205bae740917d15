package pargon

import (
	"reflect"
	"sync"
)

// Go has no argument-dependent lookup, so the capability probe's rows 2
// and 4 ("conversion free function" / "Serialize free function", spec
// §4.1) are expressed as explicit per-type registries instead of
// compile-time overload resolution — the rewrite strategy the spec's
// Design Notes (§9) recommend in place of the teacher's template
// specialization and global EnumNames<T> variables.

var enumNames sync.Map // reflect.Type -> []string

// RegisterEnumNames declares the ordinal-to-name table for enum type T
// (capability row 5). Calling it twice for the same T with a different
// table returns ErrDuplicateEnumName; calling it twice with the same
// table is a no-op.
func RegisterEnumNames[T ~int | ~int8 | ~int16 | ~int32 | ~int64 |
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](names ...string) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if existing, ok := enumNames.Load(t); ok {
		if !stringSlicesEqual(existing.([]string), names) {
			return ErrDuplicateEnumName
		}
		return nil
	}
	stored := make([]string, len(names))
	copy(stored, names)
	enumNames.Store(t, stored)
	return nil
}

func lookupEnumNames(t reflect.Type) ([]string, bool) {
	v, ok := enumNames.Load(t)
	if !ok {
		return nil, false
	}
	return v.([]string), true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Buffer free-function registry (capability row 2, buffer engine). ---

type bufferFuncEntry struct {
	to   func(w *BufferWriter, v any) error
	from func(r *BufferReader, v any) error
}

var bufferFuncs sync.Map // reflect.Type -> bufferFuncEntry

// RegisterBufferFunc registers non-member ToBuffer/FromBuffer equivalents
// for T, for use by BufferWriter/BufferReader when T has no ToBuffer or
// Serialize method of its own.
func RegisterBufferFunc[T any](to func(w *BufferWriter, v *T) error, from func(r *BufferReader, v *T) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	bufferFuncs.Store(t, bufferFuncEntry{
		to:   func(w *BufferWriter, v any) error { return to(w, v.(*T)) },
		from: func(r *BufferReader, v any) error { return from(r, v.(*T)) },
	})
}

func lookupBufferFunc(t reflect.Type) (bufferFuncEntry, bool) {
	v, ok := bufferFuncs.Load(t)
	if !ok {
		return bufferFuncEntry{}, false
	}
	return v.(bufferFuncEntry), true
}

// --- String free-function registry (capability row 2, text engine). ---

type stringFuncEntry struct {
	to   func(w *StringWriter, v any, spec string) error
	from func(r *StringReader, v any, spec string) error
}

var stringFuncs sync.Map // reflect.Type -> stringFuncEntry

// RegisterStringFunc registers non-member ToString/FromString
// equivalents for T.
func RegisterStringFunc[T any](to func(w *StringWriter, v *T, spec string) error, from func(r *StringReader, v *T, spec string) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	stringFuncs.Store(t, stringFuncEntry{
		to:   func(w *StringWriter, v any, spec string) error { return to(w, v.(*T), spec) },
		from: func(r *StringReader, v any, spec string) error { return from(r, v.(*T), spec) },
	})
}

func lookupStringFunc(t reflect.Type) (stringFuncEntry, bool) {
	v, ok := stringFuncs.Load(t)
	if !ok {
		return stringFuncEntry{}, false
	}
	return v.(stringFuncEntry), true
}

// --- Blueprint free-function registry (capability row 2, blueprint engine). ---

type blueprintFuncEntry struct {
	to   func(w *BlueprintWriter, v any) error
	from func(r *BlueprintReader, v any) error
}

var blueprintFuncs sync.Map // reflect.Type -> blueprintFuncEntry

// RegisterBlueprintFunc registers non-member ToBlueprint/FromBlueprint
// equivalents for T.
func RegisterBlueprintFunc[T any](to func(w *BlueprintWriter, v *T) error, from func(r *BlueprintReader, v *T) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	blueprintFuncs.Store(t, blueprintFuncEntry{
		to:   func(w *BlueprintWriter, v any) error { return to(w, v.(*T)) },
		from: func(r *BlueprintReader, v any) error { return from(r, v.(*T)) },
	})
}

func lookupBlueprintFunc(t reflect.Type) (blueprintFuncEntry, bool) {
	v, ok := blueprintFuncs.Load(t)
	if !ok {
		return blueprintFuncEntry{}, false
	}
	return v.(blueprintFuncEntry), true
}

// --- Serialize free-function registry (capability row 4, all engines
// via the Serializer façade). ---

var serializeFuncs sync.Map // reflect.Type -> func(*Serializer, any) error

// RegisterSerializeFunc registers a non-member Serialize equivalent for
// T, used by all six engines through the Serializer façade when T has
// no Serialize method of its own.
func RegisterSerializeFunc[T any](fn func(s *Serializer, v *T) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	serializeFuncs.Store(t, func(s *Serializer, v any) error { return fn(s, v.(*T)) })
}

func lookupSerializeFunc(t reflect.Type) (func(*Serializer, any) error, bool) {
	v, ok := serializeFuncs.Load(t)
	if !ok {
		return nil, false
	}
	return v.(func(*Serializer, any) error), true
}
