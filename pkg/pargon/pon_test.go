package pargon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePONBareMemberList(t *testing.T) {
	doc, err := parsePON(`name = "alice" age = 30`)
	require.NoError(t, err)
	require.True(t, doc.IsObject())

	name, ok := doc.ObjectGet("name")
	require.True(t, ok)
	v, _ := name.AsString()
	require.Equal(t, "alice", v)

	age, ok := doc.ObjectGet("age")
	require.True(t, ok)
	av, _ := age.AsInt()
	require.Equal(t, int64(30), av)
}

func TestParsePONNestedObject(t *testing.T) {
	doc, err := parsePON(`person { name = "bob" address { city = "nowhere" } }`)
	require.NoError(t, err)

	person, ok := doc.ObjectGet("person")
	require.True(t, ok)
	address, ok := person.ObjectGet("address")
	require.True(t, ok)
	city, ok := address.ObjectGet("city")
	require.True(t, ok)
	v, _ := city.AsString()
	require.Equal(t, "nowhere", v)
}

func TestParsePONArray(t *testing.T) {
	doc, err := parsePON(`tags [1 2 3]`)
	require.NoError(t, err)

	tags, ok := doc.ObjectGet("tags")
	require.True(t, ok)
	require.True(t, tags.IsArray())
	require.Equal(t, 3, tags.ArrayLen())
}

func TestWritePONRoundTrip(t *testing.T) {
	var doc Blueprint
	doc.ObjectSet("a", makeIntBlueprint(1))
	doc.ObjectSet("b", makeStringBlueprint("two"))

	var sb strings.Builder
	err := writePON(&sb, &doc, false, DefaultIndent)
	require.NoError(t, err)

	reparsed, err := parsePON(sb.String())
	require.NoError(t, err)
	require.True(t, doc.Equal(&reparsed))
}
