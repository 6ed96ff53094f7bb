package ebml

// Shape tells which field of a Value is populated.
type Shape uint8

const (
	ShapeLeaf Shape = iota // a decoded scalar
	ShapeNode              // a single nested container
	ShapeList              // repeated nested containers, in stream order
)

// Value is one named entry of a Node.
type Value struct {
	Node  *Node
	List  []*Node
	Bytes []byte
	Str   string
	Float float64
	Uint  uint64
	Bool  bool
	Kind  Kind
	Shape Shape
}

// Node is a decoded container: descriptor name to value.
//
// A repeated leaf keeps the last occurrence. A repeated container declared
// Multiple keeps every occurrence in order.
type Node struct {
	fields map[string]Value
}

func newNode() *Node {
	return &Node{fields: make(map[string]Value)}
}

// Len returns the number of named entries.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.fields)
}

// Has reports whether the entry exists.
func (n *Node) Has(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n.fields[name]
	return ok
}

// Get returns the raw entry.
func (n *Node) Get(name string) (Value, bool) {
	if n == nil {
		return Value{}, false
	}
	v, ok := n.fields[name]
	return v, ok
}

func (n *Node) leaf(name string, kinds ...Kind) (Value, bool) {
	v, ok := n.Get(name)
	if !ok || v.Shape != ShapeLeaf {
		return Value{}, false
	}
	for _, k := range kinds {
		if v.Kind == k {
			return v, true
		}
	}
	return Value{}, false
}

// Uint returns an unsigned integer leaf.
func (n *Node) Uint(name string) (uint64, bool) {
	v, ok := n.leaf(name, KindUInt)
	return v.Uint, ok
}

// UintOr returns an unsigned integer leaf or def when absent.
func (n *Node) UintOr(name string, def uint64) uint64 {
	if v, ok := n.Uint(name); ok {
		return v
	}
	return def
}

// Bool returns a Bool or UIDBool leaf.
func (n *Node) Bool(name string) (bool, bool) {
	v, ok := n.leaf(name, KindBool, KindUIDBool)
	return v.Bool, ok
}

// String returns a string leaf.
func (n *Node) String(name string) (string, bool) {
	v, ok := n.leaf(name, KindString)
	return v.Str, ok
}

// Bytes returns a binary leaf.
func (n *Node) Bytes(name string) ([]byte, bool) {
	v, ok := n.leaf(name, KindBinary)
	return v.Bytes, ok
}

// Float returns a float leaf.
func (n *Node) Float(name string) (float64, bool) {
	v, ok := n.leaf(name, KindFloat)
	return v.Float, ok
}

// Child returns a single nested container, or nil.
func (n *Node) Child(name string) *Node {
	v, ok := n.Get(name)
	if !ok {
		return nil
	}
	switch v.Shape {
	case ShapeNode:
		return v.Node
	case ShapeList:
		if len(v.List) > 0 {
			return v.List[0]
		}
	}
	return nil
}

// Children returns the repeated containers stored under name.
// A single nested container is returned as a one-element list.
func (n *Node) Children(name string) []*Node {
	v, ok := n.Get(name)
	if !ok {
		return nil
	}
	switch v.Shape {
	case ShapeList:
		return v.List
	case ShapeNode:
		return []*Node{v.Node}
	}
	return nil
}

func (n *Node) set(name string, v Value) {
	n.fields[name] = v
}

func (n *Node) appendChild(name string, child *Node) {
	v := n.fields[name]
	v.Shape = ShapeList
	v.List = append(v.List, child)
	n.fields[name] = v
}
