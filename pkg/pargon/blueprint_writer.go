package pargon

import "reflect"

// BlueprintWriter builds a Blueprint document by navigating a cursor
// through it (spec §4.8): MoveDown/MoveUp move the cursor, and each
// WriteField/WriteValue call fills in the node currently under it. The
// writer owns the tree; ExtractBlueprint hands the finished root back
// to the caller.
type BlueprintWriter struct {
	opts  Options
	root  Blueprint
	stack []*Blueprint

	failed bool
	err    error
}

// NewBlueprintWriter returns a writer starting at an empty root.
func NewBlueprintWriter(opts Options) *BlueprintWriter {
	return &BlueprintWriter{opts: opts}
}

func (w *BlueprintWriter) Failed() bool { return w.failed }
func (w *BlueprintWriter) Err() error   { return w.err }

func (w *BlueprintWriter) fail(err error) {
	if !w.failed {
		w.failed = true
		w.err = err
	}
}

func (w *BlueprintWriter) current() *Blueprint {
	if len(w.stack) == 0 {
		return &w.root
	}
	return w.stack[len(w.stack)-1]
}

// MoveDown descends into the named child of the current object node,
// creating it (and upgrading the current node to an Object) if absent.
func (w *BlueprintWriter) MoveDown(name string) {
	if w.failed {
		return
	}
	if len(w.stack) >= maxOr(w.opts.Limits.MaxDepth, defaultMaxDepth) {
		w.fail(NewPathError(w.path(), "maximum nesting depth exceeded", ErrMaxDepthExceeded))
		return
	}
	child := w.current().ObjectEnsure(name)
	w.stack = append(w.stack, child)
}

// MoveDownIndex descends into the child at index of the current array
// node, growing the array as needed.
func (w *BlueprintWriter) MoveDownIndex(index int) {
	if w.failed {
		return
	}
	child := w.current().ArrayGrow(index + 1)
	w.stack = append(w.stack, child)
}

// MoveUp returns the cursor to the parent of the current node.
func (w *BlueprintWriter) MoveUp() {
	if w.failed || len(w.stack) == 0 {
		return
	}
	w.stack = w.stack[:len(w.stack)-1]
}

// ExtractBlueprint returns the finished document by value. A Blueprint's
// container fields are themselves reference types, so the copy is cheap
// and shares its child storage with the writer's root.
func (w *BlueprintWriter) ExtractBlueprint() Blueprint { return w.root }

func (w *BlueprintWriter) path() string {
	// Best-effort diagnostic path; object keys aren't tracked on the
	// stack itself, so depth is reported instead of named segments.
	return pathDepth(len(w.stack))
}

// WriteField writes value into the named child of the current object
// node, via the same capability probe as WriteValue.
func (w *BlueprintWriter) WriteField(name string, value any) error {
	if w.failed {
		return w.err
	}
	child := w.current().ObjectEnsure(name)
	w.writeInto(child, reflect.ValueOf(value))
	return w.err
}

// WriteValue writes value into the node currently under the cursor.
func (w *BlueprintWriter) WriteValue(value any) error {
	if w.failed {
		return w.err
	}
	w.writeInto(w.current(), reflect.ValueOf(value))
	return w.err
}

func (w *BlueprintWriter) writeInto(node *Blueprint, rv reflect.Value) {
	if !rv.IsValid() {
		node.SetToNull()
		return
	}

	if rv.CanAddr() {
		if enc, ok := rv.Addr().Interface().(BlueprintEncoder); ok {
			w.pushNode(node)
			if err := enc.ToBlueprint(w); err != nil {
				w.fail(err)
			}
			w.popNode()
			return
		}
	} else if enc, ok := rv.Interface().(BlueprintEncoder); ok {
		w.pushNode(node)
		if err := enc.ToBlueprint(w); err != nil {
			w.fail(err)
		}
		w.popNode()
		return
	}

	t := rv.Type()
	if entry, ok := lookupBlueprintFunc(t); ok {
		w.pushNode(node)
		if err := entry.to(w, addrOf(rv).Interface()); err != nil {
			w.fail(err)
		}
		w.popNode()
		return
	}

	ptr := addrOf(rv)
	if s, ok := ptr.Interface().(Serializable); ok {
		w.pushNode(node)
		if err := s.Serialize(NewBlueprintSerializer(w)); err != nil {
			w.fail(err)
		}
		w.popNode()
		return
	}
	if fn, ok := lookupSerializeFunc(t); ok {
		w.pushNode(node)
		if err := fn(NewBlueprintSerializer(w), ptr.Interface()); err != nil {
			w.fail(err)
		}
		w.popNode()
		return
	}

	if names, ok := lookupEnumNames(t); ok {
		idx := reflect.ValueOf(rv.Interface()).Convert(reflect.TypeOf(int64(0))).Int()
		if idx < 0 || int(idx) >= len(names) {
			w.fail(NewPathError(w.path(), "enum value has no registered name", ErrUnknownEnumName))
			return
		}
		node.SetToString(names[idx])
		return
	}

	w.writeStructural(node, rv)
}

// pushNode/popNode let a hook's Serialize/ToBlueprint method address
// "the current node" through the same MoveDown/WriteField API used at
// the top level, by temporarily making node the cursor target.
func (w *BlueprintWriter) pushNode(node *Blueprint) { w.stack = append(w.stack, node) }
func (w *BlueprintWriter) popNode()                 { w.stack = w.stack[:len(w.stack)-1] }

// writeStructural handles Go's built-in kinds directly: primitives map
// onto their matching Blueprint variant, and slices/arrays/maps/pointers
// recurse. Hookless structs have no structural fallback on this engine
// (spec row 9 is Buffer-only): they fail with ErrUnsupportedType.
func (w *BlueprintWriter) writeStructural(node *Blueprint, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Bool:
		node.SetToBool(rv.Bool())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		node.SetToInt(rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		node.SetToInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		node.SetToFloat(rv.Float())
	case reflect.String:
		node.SetToString(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.IsNil() {
			node.SetToNull()
			return
		}
		node.SetToArray()
		for i := 0; i < rv.Len() && !w.failed; i++ {
			child := node.ArrayAppend(Blueprint{})
			w.writeInto(child, rv.Index(i))
		}
	case reflect.Array:
		node.SetToArray()
		for i := 0; i < rv.Len() && !w.failed; i++ {
			child := node.ArrayAppend(Blueprint{})
			w.writeInto(child, rv.Index(i))
		}
	case reflect.Map:
		node.SetToObject()
		for _, k := range rv.MapKeys() {
			if w.failed {
				break
			}
			key, ok := formatMapKey(k)
			if !ok {
				w.fail(unsupportedTypeError("blueprint", rv.Type()))
				break
			}
			child := node.ObjectEnsure(key)
			w.writeInto(child, rv.MapIndex(k))
		}
	case reflect.Ptr:
		if rv.IsNil() {
			node.SetToNull()
			return
		}
		w.writeInto(node, rv.Elem())
	default:
		w.fail(unsupportedTypeError("blueprint", rv.Type()))
	}
}

// formatMapKey renders k as an object key. Blueprint objects are
// string-keyed only (DESIGN.md "Map key types across engines"); other
// key kinds are reported as unsupported rather than silently stringified.
func formatMapKey(k reflect.Value) (string, bool) {
	if k.Kind() != reflect.String {
		return "", false
	}
	return k.String(), true
}

const defaultMaxDepth = 64

func maxOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}

func pathDepth(n int) string {
	if n == 0 {
		return ""
	}
	buf := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		buf = append(buf, '/', '.')
	}
	return string(buf)
}

// ToBlueprint converts any value into a standalone Blueprint using the
// same capability probe as BlueprintWriter.WriteValue. It is the core's
// convenience entry point for one-shot conversions (used by
// Serializer.SerializeDefault to compare a field's value against its
// default).
func ToBlueprint[T any](v T) Blueprint {
	w := NewBlueprintWriter(DefaultOptions)
	w.WriteValue(v)
	return w.ExtractBlueprint()
}
