package jsonshape

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "int", "float", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Node is a JSON value parsed without a destination shape.
// Only the payload matching Kind is meaningful.
type Node struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	String string
	Items  []*Node
	Fields map[string]*Node
}

var nullNode = Node{Kind: KindNull}

func newNull() *Node {
	ret := nullNode
	return &ret
}

// IsNull reports whether the node is nil or holds null.
func (n *Node) IsNull() bool {
	return n == nil || n.Kind == KindNull
}

// Index returns the i-th array item, or nil.
func (n *Node) Index(i int) *Node {
	if n == nil || n.Kind != KindArray || i < 0 || i >= len(n.Items) {
		return nil
	}
	return n.Items[i]
}

// Field returns the object member with the given key, or nil.
func (n *Node) Field(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	return n.Fields[key]
}

// Len returns the number of array items or object members.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindArray:
		return len(n.Items)
	case KindObject:
		return len(n.Fields)
	}
	return 0
}

// Interface lowers the node to plain Go values: nil, bool, int64, float64, string,
// []interface{} and map[string]interface{}.
func (n *Node) Interface() interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindInt:
		return n.Int
	case KindFloat:
		return n.Float
	case KindString:
		return n.String
	case KindArray:
		ret := make([]interface{}, len(n.Items))
		for i, item := range n.Items {
			ret[i] = item.Interface()
		}
		return ret
	case KindObject:
		ret := make(map[string]interface{}, len(n.Fields))
		for key, field := range n.Fields {
			ret[key] = field.Interface()
		}
		return ret
	}
	return nil
}
