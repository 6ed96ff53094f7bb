package ebml

// Kind selects the decoder for a leaf element.
type Kind uint8

const (
	KindUInt    Kind = iota // big-endian unsigned integer
	KindString              // UTF-8 text
	KindBinary              // raw bytes
	KindUIDBool             // unsigned integer, true when it equals 1
	KindBool                // unsigned integer, true when it equals 1
	KindFloat               // IEEE-754, 0/4/8/10 bytes
)

func (k Kind) String() string {
	switch k {
	case KindUInt:
		return "uint"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindUIDBool:
		return "uid"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Descriptor describes one element type.
//
// An element is a container when Container is non-nil; Kind is ignored for
// containers. Multiple collects repeated container siblings into a list.
type Descriptor struct {
	Container Schema
	Name      string
	Kind      Kind
	Multiple  bool
}

// IsContainer reports whether the element holds child elements.
func (d *Descriptor) IsContainer() bool {
	return d.Container != nil
}

// Schema maps element identifiers to descriptors for one nesting level.
type Schema map[uint64]*Descriptor

// Leaf declares a scalar element.
func Leaf(name string, kind Kind) *Descriptor {
	return &Descriptor{Name: name, Kind: kind}
}

// Master declares a container element that occurs at most once per parent.
func Master(name string, children Schema) *Descriptor {
	if children == nil {
		children = Schema{}
	}
	return &Descriptor{Name: name, Container: children}
}

// MasterList declares a container element that may repeat under one parent.
func MasterList(name string, children Schema) *Descriptor {
	d := Master(name, children)
	d.Multiple = true
	return d
}
