package pargon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBlueprintZeroValueIsInvalid(t *testing.T) {
	var b Blueprint
	require.True(t, b.IsInvalid())
	require.Equal(t, "Invalid", b.Kind().String())
}

func TestBlueprintSetToScalars(t *testing.T) {
	var b Blueprint

	b.SetToBool(true)
	v, ok := b.AsBool()
	require.True(t, ok)
	require.True(t, v)

	b.SetToInt(42)
	iv, ok := b.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(42), iv)

	b.SetToFloat(3.5)
	fv, ok := b.AsFloat()
	require.True(t, ok)
	require.InDelta(t, 3.5, fv, 1e-9)

	b.SetToString("hello")
	sv, ok := b.AsString()
	require.True(t, ok)
	require.Equal(t, "hello", sv)
}

func TestBlueprintAsWrongKindFails(t *testing.T) {
	var b Blueprint
	b.SetToInt(5)

	_, ok := b.AsString()
	require.False(t, ok)
	_, ok = b.AsBool()
	require.False(t, ok)
}

func TestBlueprintArrayNavigation(t *testing.T) {
	var b Blueprint
	b.ArrayAppend(makeIntBlueprint(1))
	b.ArrayAppend(makeIntBlueprint(2))
	b.ArrayAppend(makeIntBlueprint(3))

	require.True(t, b.IsArray())
	require.Equal(t, 3, b.ArrayLen())

	el, ok := b.ArrayAt(1)
	require.True(t, ok)
	v, _ := el.AsInt()
	require.Equal(t, int64(2), v)

	_, ok = b.ArrayAt(10)
	require.False(t, ok)
}

func TestBlueprintArrayGrow(t *testing.T) {
	var b Blueprint
	el := b.ArrayGrow(3)
	require.Equal(t, 3, b.ArrayLen())
	require.True(t, el.IsInvalid())
}

func TestBlueprintObjectNavigation(t *testing.T) {
	var b Blueprint
	b.ObjectSet("name", makeStringBlueprint("alice"))
	b.ObjectSet("age", makeIntBlueprint(30))

	require.True(t, b.IsObject())
	require.Equal(t, []string{"name", "age"}, b.ObjectKeys())

	child, ok := b.ObjectGet("name")
	require.True(t, ok)
	v, _ := child.AsString()
	require.Equal(t, "alice", v)

	_, ok = b.ObjectGet("missing")
	require.False(t, ok)
}

func TestBlueprintObjectSetOverwritesInPlace(t *testing.T) {
	var b Blueprint
	b.ObjectSet("x", makeIntBlueprint(1))
	b.ObjectSet("x", makeIntBlueprint(2))

	require.Equal(t, 1, b.ObjectLen())
	require.Equal(t, []string{"x"}, b.ObjectKeys())
	child, _ := b.ObjectGet("x")
	v, _ := child.AsInt()
	require.Equal(t, int64(2), v)
}

func TestBlueprintObjectEnsureCreatesInvalidChild(t *testing.T) {
	var b Blueprint
	child := b.ObjectEnsure("nested")
	require.True(t, child.IsInvalid())
	child.SetToInt(7)

	again, ok := b.ObjectGet("nested")
	require.True(t, ok)
	v, _ := again.AsInt()
	require.Equal(t, int64(7), v)
}

func TestBlueprintEqual(t *testing.T) {
	a := makeIntBlueprint(1)
	b := makeIntBlueprint(1)
	c := makeIntBlueprint(2)
	require.True(t, a.Equal(&b))
	require.False(t, a.Equal(&c))

	var objA, objB Blueprint
	objA.ObjectSet("k", makeIntBlueprint(1))
	objB.ObjectSet("k", makeIntBlueprint(1))
	require.True(t, objA.Equal(&objB))

	objB.ObjectSet("k", makeIntBlueprint(2))
	require.False(t, objA.Equal(&objB))
}

func TestBlueprintSetToArrayResetsContainer(t *testing.T) {
	var b Blueprint
	b.SetToObject()
	b.ObjectSet("a", makeIntBlueprint(1))
	b.SetToArray()
	require.Equal(t, 0, b.ArrayLen())
	require.True(t, b.IsArray())
}

// cmp.Diff picks up Blueprint's pointer-receiver Equal method
// automatically, so two structurally equal but differently-built trees
// compare equal without cmp trying (and failing) to read the unexported
// objKeys/objIdx/objVals slices directly.
func TestBlueprintEqualViaCmpDiff(t *testing.T) {
	var a, b Blueprint
	a.ObjectSet("name", makeStringBlueprint("alice"))
	a.ObjectSet("age", makeIntBlueprint(30))

	b.ObjectSet("age", makeIntBlueprint(30))
	b.ObjectSet("name", makeStringBlueprint("alice"))

	if diff := cmp.Diff(&a, &b); diff != "" {
		t.Errorf("blueprint mismatch (-a +b):\n%s", diff)
	}

	b.ObjectSet("age", makeIntBlueprint(31))
	if diff := cmp.Diff(&a, &b); diff == "" {
		t.Fatal("expected a diff after changing age")
	}
}

func makeIntBlueprint(v int64) Blueprint {
	var b Blueprint
	b.SetToInt(v)
	return b
}

func makeStringBlueprint(v string) Blueprint {
	var b Blueprint
	b.SetToString(v)
	return b
}
