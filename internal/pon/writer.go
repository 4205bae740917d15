package pon

import (
	"strconv"
	"strings"
)

// WriteOptions controls Write's indentation.
type WriteOptions struct {
	Pretty bool
	Tab    bool
	Width  int
}

// Write emits n as PON text into sb.
func Write(sb *strings.Builder, n Node, opts WriteOptions) {
	w := &writer{sb: sb, opts: opts}
	w.writeTopLevel(n)
}

type writer struct {
	sb   *strings.Builder
	opts WriteOptions
}

func (w *writer) indent(depth int) {
	if !w.opts.Pretty {
		return
	}
	if w.opts.Tab {
		for i := 0; i < depth; i++ {
			w.sb.WriteByte('\t')
		}
		return
	}
	for i := 0; i < depth*w.opts.Width; i++ {
		w.sb.WriteByte(' ')
	}
}

func (w *writer) newline() {
	if w.opts.Pretty {
		w.sb.WriteByte('\n')
	}
}

// writeTopLevel renders a root Object as a bare member list (no
// enclosing braces), matching ParseDocument's top-level grammar.
func (w *writer) writeTopLevel(n Node) {
	if n.Kind == NodeObject {
		w.writeMembers(n, 0)
		return
	}
	w.writeValue(n, 0)
}

func (w *writer) writeMembers(n Node, depth int) {
	for i, key := range n.Keys {
		if i > 0 {
			w.newline()
			if !w.opts.Pretty {
				w.sb.WriteByte(' ')
			}
		}
		w.indent(depth)
		w.sb.WriteString(key)
		val := n.Values[i]
		if val.Kind == NodeObject || val.Kind == NodeArray {
			w.sb.WriteByte(' ')
			w.writeValue(val, depth)
		} else {
			w.sb.WriteString(" = ")
			w.writeValue(val, depth)
		}
	}
}

func (w *writer) writeValue(n Node, depth int) {
	switch n.Kind {
	case NodeNull:
		w.sb.WriteString("null")
	case NodeBool:
		w.sb.WriteString(strconv.FormatBool(n.Bool))
	case NodeInt:
		w.sb.WriteString(strconv.FormatInt(n.Int, 10))
	case NodeFloat:
		w.sb.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
	case NodeString:
		w.sb.WriteString(strconv.Quote(n.Str))
	case NodeArray:
		w.sb.WriteByte('[')
		for i, e := range n.Array {
			if i > 0 {
				w.sb.WriteByte(' ')
			}
			w.writeValue(e, depth)
		}
		w.sb.WriteByte(']')
	case NodeObject:
		w.sb.WriteByte('{')
		w.newline()
		w.writeMembers(n, depth+1)
		w.newline()
		w.indent(depth)
		w.sb.WriteByte('}')
	}
}
