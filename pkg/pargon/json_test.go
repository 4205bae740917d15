package pargon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalJSONScalarAndContainer(t *testing.T) {
	var doc Blueprint
	doc.ObjectSet("name", makeStringBlueprint("alice"))
	doc.ObjectSet("age", makeIntBlueprint(30))
	tags := doc.ObjectEnsure("tags")
	tags.ArrayAppend(makeStringBlueprint("a"))
	tags.ArrayAppend(makeStringBlueprint("b"))

	text, err := MarshalJSON(&doc)
	require.NoError(t, err)
	require.Contains(t, text, `"name":"alice"`)
	require.Contains(t, text, `"tags":["a","b"]`)
}

func TestUnmarshalJSONRoundTrip(t *testing.T) {
	text := `{"name": "bob", "age": 42, "active": true, "score": 3.5, "tags": ["x", "y"], "extra": null}`
	doc, err := UnmarshalJSON(text)
	require.NoError(t, err)
	require.True(t, doc.IsObject())

	name, _ := doc.ObjectGet("name")
	nv, _ := name.AsString()
	require.Equal(t, "bob", nv)

	age, _ := doc.ObjectGet("age")
	av, _ := age.AsInt()
	require.Equal(t, int64(42), av)

	score, _ := doc.ObjectGet("score")
	sv, _ := score.AsFloat()
	require.InDelta(t, 3.5, sv, 1e-9)

	extra, _ := doc.ObjectGet("extra")
	require.True(t, extra.IsNull())
}

func TestMarshalJSONIndentPretty(t *testing.T) {
	var doc Blueprint
	doc.ObjectSet("a", makeIntBlueprint(1))

	text, err := MarshalJSONIndent(&doc, IndentStyle{Tab: false, Width: 2})
	require.NoError(t, err)
	require.Contains(t, text, "\n")
	require.Contains(t, text, "  ")
}

func TestJSONBlueprintRoundTripThroughMarshal(t *testing.T) {
	var doc Blueprint
	doc.ObjectSet("flag", func() Blueprint { var b Blueprint; b.SetToBool(true); return b }())
	doc.ObjectSet("count", makeIntBlueprint(5))

	text, err := MarshalJSON(&doc)
	require.NoError(t, err)

	parsed, err := UnmarshalJSON(text)
	require.NoError(t, err)
	require.True(t, doc.Equal(&parsed))
}
