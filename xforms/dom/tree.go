package dom

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateID  = errors.New("duplicate effective id")
	ErrEmptyID      = errors.New("node id must not be empty")
	ErrForeignNode  = errors.New("node does not belong to this tree")
	ErrRemovedNode  = errors.New("node has been removed from the tree")
	ErrNotARepeat   = errors.New("iterations can only be added to repeats")
	ErrRepeatParent = errors.New("repeat children must be iterations")
)

// NodeSpec describes a node to append to a Tree.
type NodeSpec struct {
	Kind     NodeKind
	Name     string
	ID       string
	Value    string
	ReadOnly bool
}

// Tree is an arena of nodes addressed by Handle. The document node always
// has handle 0. A Tree belongs to a single document and is not safe for
// concurrent mutation.
type Tree struct {
	nodes       []*Node
	byEffective map[string]Handle
}

func NewTree() *Tree {
	t := &Tree{byEffective: make(map[string]Handle)}
	root := &Node{
		Kind:        DocumentNode,
		Name:        "document",
		handle:      0,
		staticID:    ContainingDocumentID,
		prefixedID:  ContainingDocumentID,
		effectiveID: ContainingDocumentID,
		parent:      NoHandle,
		scope:       0,
		tree:        t,
	}
	t.nodes = append(t.nodes, root)
	t.byEffective[root.effectiveID] = root.handle
	return t
}

func (t *Tree) Root() *Node {
	return t.nodes[0]
}

// Node returns the node for h, or nil when h is out of range.
func (t *Tree) Node(h Handle) *Node {
	if h < 0 || int(h) >= len(t.nodes) {
		return nil
	}
	return t.nodes[h]
}

// Lookup finds a live node by effective id.
func (t *Tree) Lookup(effectiveID string) (*Node, bool) {
	h, ok := t.byEffective[effectiveID]
	if !ok {
		return nil, false
	}
	return t.nodes[h], true
}

// Len is the number of live nodes, the document included.
func (t *Tree) Len() int {
	return len(t.byEffective)
}

// AppendChild creates a node under parent. Ids are scoped by the parent's
// component prefix and repeat iteration.
func (t *Tree) AppendChild(parent *Node, s NodeSpec) (*Node, error) {
	if err := t.checkLive(parent); err != nil {
		return nil, err
	}
	if parent.Kind == RepeatNode {
		return nil, errors.Wrapf(ErrRepeatParent, "appending %q to %q", s.ID, parent.effectiveID)
	}
	if s.Kind == IterationNode {
		return nil, errors.Wrapf(ErrNotARepeat, "appending %q to %q", s.ID, parent.effectiveID)
	}
	if s.ID == "" {
		return nil, ErrEmptyID
	}

	prefixed := parent.childPrefix() + s.ID
	n := &Node{
		Kind:        s.Kind,
		Name:        s.Name,
		Value:       s.Value,
		ReadOnly:    s.ReadOnly,
		staticID:    s.ID,
		prefixedID:  prefixed,
		effectiveID: WithSuffix(prefixed, parent.childSuffix()),
		scope:       parent.NestedScope().handle,
	}
	return t.insert(parent, n)
}

// AppendIteration adds the next iteration to a repeat. Iterations are
// numbered from 1.
func (t *Tree) AppendIteration(repeat *Node) (*Node, error) {
	if err := t.checkLive(repeat); err != nil {
		return nil, err
	}
	if repeat.Kind != RepeatNode {
		return nil, errors.Wrapf(ErrNotARepeat, "node %q is a %s", repeat.effectiveID, repeat.Kind)
	}

	index := len(repeat.children) + 1
	staticID := IterationStaticID(repeat.staticID)
	prefixed := EffectiveIDPrefix(repeat.prefixedID) + staticID
	n := &Node{
		Kind:        IterationNode,
		Name:        "iteration",
		staticID:    staticID,
		prefixedID:  prefixed,
		effectiveID: WithSuffix(prefixed, appendIteration(repeat.childSuffix(), index)),
		scope:       repeat.scope,
		index:       index,
	}
	return t.insert(repeat, n)
}

func (t *Tree) insert(parent, n *Node) (*Node, error) {
	if _, ok := t.byEffective[n.effectiveID]; ok {
		return nil, errors.Wrapf(ErrDuplicateID, "%q", n.effectiveID)
	}
	n.tree = t
	n.parent = parent.handle
	n.handle = Handle(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.byEffective[n.effectiveID] = n.handle
	parent.children = append(parent.children, n.handle)
	return n, nil
}

// Remove detaches n and its descendants. Their handles stay valid but the
// nodes can no longer be looked up or reached from the root.
func (t *Tree) Remove(n *Node) error {
	if err := t.checkLive(n); err != nil {
		return err
	}
	if n.Kind == DocumentNode {
		return errors.New("the document node cannot be removed")
	}
	if p := n.Parent(); p != nil {
		for i, h := range p.children {
			if h == n.handle {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	t.detach(n)
	return nil
}

func (t *Tree) detach(n *Node) {
	for _, h := range n.children {
		t.detach(t.nodes[h])
	}
	delete(t.byEffective, n.effectiveID)
	n.removed = true
	n.parent = NoHandle
}

func (t *Tree) checkLive(n *Node) error {
	if n == nil || n.tree != t {
		return ErrForeignNode
	}
	if n.removed {
		return errors.Wrapf(ErrRemovedNode, "%q", n.effectiveID)
	}
	return nil
}

// ParentObserver returns the closest ancestor of n that can observe events,
// crossing component boundaries. It returns nil for the document.
func (t *Tree) ParentObserver(n *Node) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.IsObserver() {
			return p
		}
	}
	return nil
}

// ObserverChain returns the observers from the document down to target.
// The target is included only when it is itself an observer.
func (t *Tree) ObserverChain(target *Node) NodeList {
	var leafToRoot NodeList
	o := target
	if !o.IsObserver() {
		o = t.ParentObserver(o)
	}
	for ; o != nil; o = t.ParentObserver(o) {
		leafToRoot = append(leafToRoot, o)
	}

	chain := make(NodeList, 0, len(leafToRoot))
	rewinder := NewNodeRewinder(leafToRoot)
	for rewinder.Prev() {
		chain = append(chain, rewinder.Node())
	}
	return chain
}

func (n *Node) serialize(ident int) string {
	spaces := ""
	if ident > 0 {
		spaces = "| "
		for i := 1; i < ident; i++ {
			spaces += "  "
		}
	}
	ser := spaces + "<" + n.Kind.String() + " " + n.effectiveID
	if n.Name != "" && n.Name != n.Kind.String() {
		ser += " name=" + strconv.Quote(n.Name)
	}
	if n.Value != "" {
		ser += " value=" + strconv.Quote(n.Value)
	}
	if n.ReadOnly {
		ser += " readonly"
	}
	ser += ">\n"
	for _, child := range n.Children() {
		ser += child.serialize(ident + 1)
	}
	return ser
}

// String dumps the live tree, one node per line.
func (t *Tree) String() string {
	return strings.TrimRight(t.Root().serialize(0), "\n")
}
