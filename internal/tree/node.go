package tree

import (
	"github.com/roach88/treepick/internal/ref"
)

// Node is one record in an assembled tree.
type Node struct {
	Record   *ref.Entity
	Parent   *Node
	Children []*Node

	// Depth is 0 for roots.
	Depth int
}

// Ref returns the node's record ref.
func (n *Node) Ref() ref.Ref { return n.Record.Ref }

// Type returns the node's record type tag.
func (n *Node) Type() string { return n.Record.Type }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Path returns the refs from the root down to n.
func (n *Node) Path() []ref.Ref {
	var path []ref.Ref
	for cur := n; cur != nil; cur = cur.Parent {
		path = append(path, cur.Record.Ref)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// onPath reports whether r is n or one of n's ancestors.
func (n *Node) onPath(r ref.Ref) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Record.Ref == r {
			return true
		}
	}
	return false
}

// Tree is an assembled forest of nodes.
type Tree struct {
	Roots []*Node

	// Total is the number of root matches in the source, across all pages.
	Total int
}

// Walk visits nodes in pre-order. Returning false from fn skips the node's
// children.
func (t *Tree) Walk(fn func(*Node) bool) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				visit(n.Children)
			}
		}
	}
	visit(t.Roots)
}

// Find returns the first node with ref r in pre-order, searching every depth,
// or nil.
func (t *Tree) Find(r ref.Ref) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Record.Ref == r {
			found = n
			return false
		}
		return true
	})
	return found
}

// Refs returns the refs of every loaded node, nested children included.
func (t *Tree) Refs() ref.Set {
	s := ref.Set{}
	t.Walk(func(n *Node) bool {
		s.Add(n.Record.Ref)
		return true
	})
	return s
}

// Flatten returns every node in pre-order.
func (t *Tree) Flatten() []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}

// Record returns the entity for r if it is loaded.
func (t *Tree) Record(r ref.Ref) (*ref.Entity, bool) {
	n := t.Find(r)
	if n == nil {
		return nil, false
	}
	return n.Record, true
}
