package dom

import "strconv"

// Handle is the stable arena index of a node inside its Tree. Handles are
// never reused, even after the node is removed.
type Handle int32

// NoHandle marks the absence of a node.
const NoHandle Handle = -1

type NodeKind uint16

const (
	DocumentNode NodeKind = iota + 1
	ControlNode
	ModelNode
	InstanceNode
	SubmissionNode
	ComponentNode
	RepeatNode
	IterationNode
)

func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ControlNode:
		return "control"
	case ModelNode:
		return "model"
	case InstanceNode:
		return "instance"
	case SubmissionNode:
		return "submission"
	case ComponentNode:
		return "component"
	case RepeatNode:
		return "repeat"
	case IterationNode:
		return "iteration"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is a live event target: a control, model, instance, submission,
// component, repeat or repeat iteration.
type Node struct {
	Kind     NodeKind
	Name     string // local name of the element the node was built from
	Value    string // bound value, as seen by the control tree
	ReadOnly bool

	handle                            Handle
	staticID, prefixedID, effectiveID string
	parent, scope                     Handle
	children                          []Handle
	index                             int
	removed                           bool
	tree                              *Tree
}

func (n *Node) Handle() Handle      { return n.handle }
func (n *Node) StaticID() string    { return n.staticID }
func (n *Node) PrefixedID() string  { return n.prefixedID }
func (n *Node) EffectiveID() string { return n.effectiveID }
func (n *Node) Tree() *Tree         { return n.tree }
func (n *Node) IsRemoved() bool     { return n.removed }

// IterationIndex is the 1-based index of a repeat iteration, 0 otherwise.
func (n *Node) IterationIndex() int { return n.index }

// ContainerID returns the effective id of the scope the node lives in.
func (n *Node) ContainerID() string {
	if s := n.Scope(); s != nil {
		return s.effectiveID
	}
	return ContainingDocumentID
}

// IsObserver reports whether handlers can be attached to the node. A repeat
// is a target only, its iterations observe in its place.
func (n *Node) IsObserver() bool {
	return n.Kind != RepeatNode
}

// IsContainer reports whether the node opens a new naming scope.
func (n *Node) IsContainer() bool {
	return n.Kind == DocumentNode || n.Kind == ComponentNode
}

func (n *Node) Parent() *Node {
	return n.tree.Node(n.parent)
}

// Scope returns the container (document or component) the node belongs to.
// The document is its own scope.
func (n *Node) Scope() *Node {
	return n.tree.Node(n.scope)
}

// NestedScope returns the scope children of the node are created in.
func (n *Node) NestedScope() *Node {
	if n.IsContainer() {
		return n
	}
	return n.Scope()
}

func (n *Node) Children() NodeList {
	l := make(NodeList, 0, len(n.children))
	for _, h := range n.children {
		l = append(l, n.tree.Node(h))
	}
	return l
}

func (n *Node) childPrefix() string {
	switch n.Kind {
	case DocumentNode:
		return ""
	case ComponentNode:
		return n.prefixedID + string(ComponentSeparator)
	default:
		return EffectiveIDPrefix(n.prefixedID)
	}
}

// childSuffix is the repeat suffix inherited by children. An iteration's
// own effective id already carries its index.
func (n *Node) childSuffix() string {
	return EffectiveIDSuffix(n.effectiveID)
}

func (n *Node) String() string {
	return n.Kind.String() + " " + n.effectiveID
}
