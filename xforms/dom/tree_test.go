package dom

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates:
//
//	document
//	  group
//	    comp (component)
//	      inner
//	    r (repeat)
//	      iteration 1
//	        in·1
//	      iteration 2
//	        in·2
func buildTree(t *testing.T) (*Tree, map[string]*Node) {
	t.Helper()
	tree := NewTree()
	nodes := map[string]*Node{}
	add := func(parent *Node, kind NodeKind, id string) *Node {
		n, err := tree.AppendChild(parent, NodeSpec{Kind: kind, Name: kind.String(), ID: id})
		require.NoError(t, err)
		nodes[n.EffectiveID()] = n
		return n
	}

	group := add(tree.Root(), ControlNode, "group")
	comp := add(group, ComponentNode, "comp")
	add(comp, ControlNode, "inner")
	r := add(group, RepeatNode, "r")
	for i := 0; i < 2; i++ {
		it, err := tree.AppendIteration(r)
		require.NoError(t, err)
		nodes[it.EffectiveID()] = it
		add(it, ControlNode, "in")
	}
	return tree, nodes
}

func TestEffectiveIDs(t *testing.T) {
	tree, _ := buildTree(t)

	for _, id := range []string{
		"group",
		"comp",
		"comp$inner",
		"r",
		"r~iteration·1",
		"in·1",
		"r~iteration·2",
		"in·2",
	} {
		_, ok := tree.Lookup(id)
		assert.True(t, ok, "expected node %q", id)
	}
	assert.Equal(t, 9, tree.Len())
}

func TestScopes(t *testing.T) {
	tree, nodes := buildTree(t)

	inner := nodes["comp$inner"]
	assert.Equal(t, "comp", inner.ContainerID())
	assert.Equal(t, "inner", inner.StaticID())
	assert.Equal(t, "comp$inner", inner.PrefixedID())

	assert.Equal(t, ContainingDocumentID, nodes["comp"].ContainerID())
	assert.Equal(t, ContainingDocumentID, nodes["in·2"].ContainerID())
	assert.Equal(t, ContainingDocumentID, tree.Root().ContainerID())
}

func TestObserverChain(t *testing.T) {
	tree, nodes := buildTree(t)

	chain := tree.ObserverChain(nodes["in·2"])
	assert.Equal(t, []string{ContainingDocumentID, "group", "r~iteration·2", "in·2"}, chain.EffectiveIDs())

	// iterations observe in place of their repeat
	chain = tree.ObserverChain(nodes["r~iteration·1"])
	assert.Equal(t, []string{ContainingDocumentID, "group", "r~iteration·1"}, chain.EffectiveIDs())
	assert.False(t, nodes["r"].IsObserver())
	chain = tree.ObserverChain(nodes["r"])
	assert.Equal(t, []string{ContainingDocumentID, "group"}, chain.EffectiveIDs())

	chain = tree.ObserverChain(nodes["comp$inner"])
	assert.Equal(t, []string{ContainingDocumentID, "group", "comp", "comp$inner"}, chain.EffectiveIDs())

	assert.Equal(t, []string{ContainingDocumentID}, tree.ObserverChain(tree.Root()).EffectiveIDs())
}

func TestAppendErrors(t *testing.T) {
	tree, nodes := buildTree(t)

	_, err := tree.AppendChild(nodes["group"], NodeSpec{Kind: ControlNode, ID: "comp"})
	assert.True(t, errors.Is(err, ErrDuplicateID))

	_, err = tree.AppendChild(nodes["r"], NodeSpec{Kind: ControlNode, ID: "x"})
	assert.True(t, errors.Is(err, ErrRepeatParent))

	_, err = tree.AppendIteration(nodes["group"])
	assert.True(t, errors.Is(err, ErrNotARepeat))

	_, err = tree.AppendChild(nodes["group"], NodeSpec{Kind: ControlNode})
	assert.Equal(t, ErrEmptyID, err)

	_, err = NewTree().AppendChild(nodes["group"], NodeSpec{Kind: ControlNode, ID: "x"})
	assert.Equal(t, ErrForeignNode, err)
}

func TestRemove(t *testing.T) {
	tree, nodes := buildTree(t)

	it := nodes["r~iteration·1"]
	require.NoError(t, tree.Remove(it))

	_, ok := tree.Lookup("in·1")
	assert.False(t, ok)
	assert.True(t, nodes["in·1"].IsRemoved())
	assert.Nil(t, nodes["in·1"].Parent())
	assert.Same(t, nodes["in·1"], tree.Node(nodes["in·1"].Handle()))
	assert.Len(t, nodes["r"].Children(), 1)

	err := tree.Remove(it)
	assert.True(t, errors.Is(err, ErrRemovedNode))
	assert.Error(t, tree.Remove(tree.Root()))
}

func TestTreeString(t *testing.T) {
	tree := NewTree()
	g, err := tree.AppendChild(tree.Root(), NodeSpec{Kind: ControlNode, Name: "group", ID: "g"})
	require.NoError(t, err)
	_, err = tree.AppendChild(g, NodeSpec{Kind: ControlNode, Name: "input", ID: "i", Value: "v", ReadOnly: true})
	require.NoError(t, err)

	expected := "<document $containing-document$>\n" +
		"| <control g name=\"group\">\n" +
		"|   <control i name=\"input\" value=\"v\" readonly>"
	assert.Equal(t, expected, tree.String())
}
