package jsonshape

import (
	"strings"

	"github.com/valyala/fastjson/fastfloat"
	"github.com/viant/jsonshape/internal/scan"
)

// parseNode builds an untyped value graph from compacted text.
func (w *Worker) parseNode(text string) *Node {
	if text == "" {
		return newNull()
	}
	switch c := text[0]; {
	case c == '{':
		return w.parseObjectNode(text)
	case c == '[':
		return w.parseArrayNode(text)
	case c == '"':
		return &Node{Kind: KindString, String: w.stripEscapes(scan.Dequote(text))}
	case c == '-' || (c >= '0' && c <= '9'):
		if strings.IndexByte(text, '.') == -1 {
			return &Node{Kind: KindInt, Int: fastfloat.ParseInt64BestEffort(text)}
		}
		return &Node{Kind: KindFloat, Float: fastfloat.ParseBestEffort(text)}
	case text == "true":
		return &Node{Kind: KindBool, Bool: true}
	case text == "false":
		return &Node{Kind: KindBool}
	}
	return newNull()
}

func (w *Worker) parseObjectNode(text string) *Node {
	list := w.split(text)
	defer w.release(list)
	items := list.items
	if len(items)%2 == 1 {
		w.degrade("dangling key", items[len(items)-1])
	}
	ret := &Node{Kind: KindObject, Fields: make(map[string]*Node, len(items)/2)}
	for i := 0; i+1 < len(items); i += 2 {
		key := scan.Dequote(items[i])
		if w.tracking() {
			w.path.pushField(key)
		}
		ret.Fields[key] = w.parseNode(items[i+1])
		if w.tracking() {
			w.path.pop()
		}
	}
	return ret
}

func (w *Worker) parseArrayNode(text string) *Node {
	list := w.split(text)
	defer w.release(list)
	ret := &Node{Kind: KindArray, Items: make([]*Node, len(list.items))}
	for i, item := range list.items {
		if w.tracking() {
			w.path.pushIndex(i)
		}
		ret.Items[i] = w.parseNode(item)
		if w.tracking() {
			w.path.pop()
		}
	}
	return ret
}

func (w *Worker) stripEscapes(text string) string {
	if strings.IndexByte(text, '\\') == -1 {
		return text
	}
	buf := w.buffers.Get()
	buf.B = scan.StripEscapes(buf.B[:0], text)
	ret := string(buf.B)
	w.buffers.Put(buf)
	return ret
}
