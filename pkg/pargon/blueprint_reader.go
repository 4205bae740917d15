package pargon

import "reflect"

// BlueprintReader navigates a Blueprint document with the mirror image
// of BlueprintWriter's cursor API, decoding the node under the cursor
// into a destination value on each ReadField/ReadValue call.
type BlueprintReader struct {
	opts  Options
	root  Blueprint
	stack []*Blueprint

	failed bool
	err    error
}

// NewBlueprintReader wraps doc for reading with opts.
func NewBlueprintReader(doc Blueprint, opts Options) *BlueprintReader {
	return &BlueprintReader{opts: opts, root: doc}
}

func (r *BlueprintReader) Failed() bool { return r.failed }
func (r *BlueprintReader) Err() error   { return r.err }

func (r *BlueprintReader) fail(err error) {
	if !r.failed {
		r.failed = true
		r.err = err
	}
}

func (r *BlueprintReader) current() *Blueprint {
	if len(r.stack) == 0 {
		return &r.root
	}
	return r.stack[len(r.stack)-1]
}

// MoveDown descends into the named child of the current object node.
func (r *BlueprintReader) MoveDown(name string) {
	if r.failed {
		return
	}
	child, ok := r.current().ObjectGet(name)
	if !ok {
		r.fail(NewPathError(name, "no such member", ErrTypeMismatch))
		return
	}
	r.stack = append(r.stack, child)
}

// MoveDownIndex descends into the child at index of the current array node.
func (r *BlueprintReader) MoveDownIndex(index int) {
	if r.failed {
		return
	}
	child, ok := r.current().ArrayAt(index)
	if !ok {
		r.fail(NewPathError(r.path(), "array index out of range", ErrTypeMismatch))
		return
	}
	r.stack = append(r.stack, child)
}

// MoveUp returns the cursor to the parent of the current node.
func (r *BlueprintReader) MoveUp() {
	if r.failed || len(r.stack) == 0 {
		return
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// FirstChild descends into an array node's first element, reporting
// false (without failing the reader) if the array is empty.
func (r *BlueprintReader) FirstChild() bool {
	if r.failed || r.current().ArrayLen() == 0 {
		return false
	}
	r.MoveDownIndex(0)
	return !r.failed
}

// NextChild advances from the current array element to its sibling,
// reporting false when there is none.
func (r *BlueprintReader) NextChild() bool {
	if r.failed || len(r.stack) == 0 {
		return false
	}
	cur := r.stack[len(r.stack)-1]
	parent := &r.root
	if len(r.stack) >= 2 {
		parent = r.stack[len(r.stack)-2]
	}
	for i := 0; i < parent.ArrayLen(); i++ {
		el, _ := parent.ArrayAt(i)
		if el == cur {
			if i+1 >= parent.ArrayLen() {
				return false
			}
			sibling, _ := parent.ArrayAt(i + 1)
			r.stack[len(r.stack)-1] = sibling
			return true
		}
	}
	return false
}

func (r *BlueprintReader) path() string { return pathDepth(len(r.stack)) }

// ReadField decodes the named child of the current object node into dest.
func (r *BlueprintReader) ReadField(name string, dest any) error {
	if r.failed {
		return r.err
	}
	child, ok := r.current().ObjectGet(name)
	if !ok {
		r.fail(NewPathError(name, "no such member", ErrTypeMismatch))
		return r.err
	}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrNotPointer
	}
	r.readFrom(child, rv.Elem(), rv)
	return r.err
}

// ReadValue decodes the node currently under the cursor into dest.
func (r *BlueprintReader) ReadValue(dest any) error {
	if r.failed {
		return r.err
	}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrNotPointer
	}
	r.readFrom(r.current(), rv.Elem(), rv)
	return r.err
}

func (r *BlueprintReader) readFrom(node *Blueprint, rv reflect.Value, ptr reflect.Value) {
	if dec, ok := ptr.Interface().(BlueprintDecoder); ok {
		r.pushNode(node)
		if err := dec.FromBlueprint(r); err != nil {
			r.fail(err)
		}
		r.popNode()
		return
	}

	t := rv.Type()
	if entry, ok := lookupBlueprintFunc(t); ok {
		r.pushNode(node)
		if err := entry.from(r, ptr.Interface()); err != nil {
			r.fail(err)
		}
		r.popNode()
		return
	}

	if s, ok := ptr.Interface().(Serializable); ok {
		r.pushNode(node)
		if err := s.Serialize(NewBlueprintDeserializer(r)); err != nil {
			r.fail(err)
		}
		r.popNode()
		return
	}
	if fn, ok := lookupSerializeFunc(t); ok {
		r.pushNode(node)
		if err := fn(NewBlueprintDeserializer(r), ptr.Interface()); err != nil {
			r.fail(err)
		}
		r.popNode()
		return
	}

	if names, ok := lookupEnumNames(t); ok {
		s, ok := node.AsString()
		if !ok {
			r.fail(NewPathError(r.path(), "expected a string for enum value", ErrTypeMismatch))
			return
		}
		for i, n := range names {
			if n == s {
				rv.Set(reflect.ValueOf(int64(i)).Convert(t))
				return
			}
		}
		r.fail(NewPathError(r.path(), "unknown enum name "+s, ErrUnknownEnumName))
		return
	}

	r.readStructural(node, rv)
}

func (r *BlueprintReader) pushNode(node *Blueprint) { r.stack = append(r.stack, node) }
func (r *BlueprintReader) popNode()                 { r.stack = r.stack[:len(r.stack)-1] }

func (r *BlueprintReader) readStructural(node *Blueprint, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Bool:
		v, ok := node.AsBool()
		if !ok {
			r.fail(NewPathError(r.path(), "expected a boolean", ErrTypeMismatch))
			return
		}
		rv.SetBool(v)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		v, ok := node.AsInt()
		if !ok {
			r.fail(NewPathError(r.path(), "expected an integer", ErrTypeMismatch))
			return
		}
		rv.SetInt(v)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		v, ok := node.AsInt()
		if !ok {
			r.fail(NewPathError(r.path(), "expected an integer", ErrTypeMismatch))
			return
		}
		rv.SetUint(uint64(v))
	case reflect.Float32, reflect.Float64:
		v, ok := node.AsFloat()
		if !ok {
			if iv, iok := node.AsInt(); iok {
				rv.SetFloat(float64(iv))
				return
			}
			r.fail(NewPathError(r.path(), "expected a floating-point number", ErrTypeMismatch))
			return
		}
		rv.SetFloat(v)
	case reflect.String:
		v, ok := node.AsString()
		if !ok {
			r.fail(NewPathError(r.path(), "expected a string", ErrTypeMismatch))
			return
		}
		rv.SetString(v)
	case reflect.Slice:
		if node.IsNull() {
			rv.Set(reflect.Zero(rv.Type()))
			return
		}
		arr, ok := node.AsArray()
		if !ok {
			r.fail(NewPathError(r.path(), "expected an array", ErrTypeMismatch))
			return
		}
		out := reflect.MakeSlice(rv.Type(), len(arr), len(arr))
		for i := range arr {
			ev := out.Index(i)
			r.readFrom(&arr[i], ev, addrOf(ev))
		}
		rv.Set(out)
	case reflect.Array:
		arr, ok := node.AsArray()
		if !ok {
			r.fail(NewPathError(r.path(), "expected an array", ErrTypeMismatch))
			return
		}
		for i := 0; i < rv.Len() && i < len(arr); i++ {
			ev := rv.Index(i)
			r.readFrom(&arr[i], ev, addrOf(ev))
		}
	case reflect.Map:
		if node.Kind() != KindObject {
			r.fail(NewPathError(r.path(), "expected an object", ErrTypeMismatch))
			return
		}
		kt, vt := rv.Type().Key(), rv.Type().Elem()
		if kt.Kind() != reflect.String {
			r.fail(unsupportedTypeError("blueprint", rv.Type()))
			return
		}
		out := reflect.MakeMapWithSize(rv.Type(), node.ObjectLen())
		for _, k := range node.ObjectKeys() {
			child, _ := node.ObjectGet(k)
			kv := reflect.New(kt).Elem()
			kv.SetString(k)
			vv := reflect.New(vt).Elem()
			r.readFrom(child, vv, addrOf(vv))
			out.SetMapIndex(kv, vv)
		}
		rv.Set(out)
	case reflect.Ptr:
		if node.IsNull() || node.IsInvalid() {
			rv.Set(reflect.Zero(rv.Type()))
			return
		}
		p := reflect.New(rv.Type().Elem())
		r.readFrom(node, p.Elem(), p)
		rv.Set(p)
	default:
		r.fail(unsupportedTypeError("blueprint", rv.Type()))
	}
}

// FromBlueprint decodes doc into a new value of type T using the same
// capability probe as BlueprintReader.ReadValue.
func FromBlueprint[T any](doc Blueprint) (T, error) {
	var out T
	r := NewBlueprintReader(doc, DefaultOptions)
	err := r.ReadValue(&out)
	return out, err
}
