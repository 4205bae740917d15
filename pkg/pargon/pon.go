package pargon

import (
	"strings"

	"github.com/blockberries/pargon/internal/pon"
)

// writePON renders b as PON text into sb, pretty-printed with indent
// when pretty is true, or as a single compressed line otherwise. This
// is the only place pkg/pargon converts a Blueprint to an internal/pon
// Node: the two trees are kept structurally distinct so internal/pon
// never needs to import this package.
func writePON(sb *strings.Builder, b *Blueprint, pretty bool, indent IndentStyle) error {
	pon.Write(sb, blueprintToNode(b), pon.WriteOptions{
		Pretty: pretty,
		Tab:    indent.Tab,
		Width:  indent.Width,
	})
	return nil
}

// parsePON parses PON source text into a Blueprint.
func parsePON(src string) (Blueprint, error) {
	n, err := pon.Parse(src)
	if err != nil {
		return Blueprint{}, NewParseError(0, 0, err.Error(), ErrSyntax)
	}
	return nodeToBlueprint(n), nil
}

func blueprintToNode(b *Blueprint) pon.Node {
	switch b.Kind() {
	case KindNull:
		return pon.Node{Kind: pon.NodeNull}
	case KindBool:
		v, _ := b.AsBool()
		return pon.Node{Kind: pon.NodeBool, Bool: v}
	case KindInt:
		v, _ := b.AsInt()
		return pon.Node{Kind: pon.NodeInt, Int: v}
	case KindFloat:
		v, _ := b.AsFloat()
		return pon.Node{Kind: pon.NodeFloat, Float: v}
	case KindString:
		v, _ := b.AsString()
		return pon.Node{Kind: pon.NodeString, Str: v}
	case KindArray:
		arr, _ := b.AsArray()
		out := make([]pon.Node, len(arr))
		for i := range arr {
			out[i] = blueprintToNode(&arr[i])
		}
		return pon.Node{Kind: pon.NodeArray, Array: out}
	case KindObject:
		keys := b.ObjectKeys()
		n := pon.Node{Kind: pon.NodeObject, Keys: append([]string(nil), keys...)}
		n.Values = make([]pon.Node, len(keys))
		for i, k := range keys {
			child, _ := b.ObjectGet(k)
			n.Values[i] = blueprintToNode(child)
		}
		return n
	default:
		return pon.Node{Kind: pon.NodeNull}
	}
}

func nodeToBlueprint(n pon.Node) Blueprint {
	var b Blueprint
	switch n.Kind {
	case pon.NodeNull:
		b.SetToNull()
	case pon.NodeBool:
		b.SetToBool(n.Bool)
	case pon.NodeInt:
		b.SetToInt(n.Int)
	case pon.NodeFloat:
		b.SetToFloat(n.Float)
	case pon.NodeString:
		b.SetToString(n.Str)
	case pon.NodeArray:
		b.SetToArray()
		for _, e := range n.Array {
			child := nodeToBlueprint(e)
			b.ArrayAppend(child)
		}
	case pon.NodeObject:
		b.SetToObject()
		for i, k := range n.Keys {
			b.ObjectSet(k, nodeToBlueprint(n.Values[i]))
		}
	}
	return b
}
