package dom

// NodeList is an ordered list of nodes. Observer chains are NodeLists
// ordered from the root to the target.
type NodeList []*Node

// NodeRewinder walks a NodeList backwards, from the last node to the first.
type NodeRewinder struct {
	nodeList NodeList
	i        int
}

func NewNodeRewinder(nl NodeList) *NodeRewinder {
	return &NodeRewinder{
		nodeList: nl,
		i:        len(nl) - 1,
	}
}

func (n *NodeRewinder) Prev() bool {
	return n.i >= 0
}

func (n *NodeRewinder) Node() *Node {
	if n.i >= 0 && n.i < len(n.nodeList) {
		node := n.nodeList[n.i]
		n.i--
		return node
	}
	return nil
}

// NodeIterator walks a NodeList forwards.
type NodeIterator struct {
	nodeList NodeList
	i        int
}

func NewNodeIterator(nl NodeList) *NodeIterator {
	return &NodeIterator{
		nodeList: nl,
		i:        0,
	}
}

func (n *NodeIterator) Next() bool {
	return n.i < len(n.nodeList)
}

func (n *NodeIterator) Node() *Node {
	if n.i >= 0 && n.i < len(n.nodeList) {
		node := n.nodeList[n.i]
		n.i++
		return node
	}
	return nil
}

// Contains returns the position of n in the list, or -1.
func (h NodeList) Contains(n *Node) int {
	for i := range h {
		if n == h[i] {
			return i
		}
	}
	return -1
}

// Last returns the last node of the list, or nil when it is empty.
func (h NodeList) Last() *Node {
	if len(h) == 0 {
		return nil
	}
	return h[len(h)-1]
}

// EffectiveIDs lists the effective ids of the nodes, in order.
func (h NodeList) EffectiveIDs() []string {
	ids := make([]string, 0, len(h))
	for _, n := range h {
		ids = append(ids, n.effectiveID)
	}
	return ids
}
