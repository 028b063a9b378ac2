package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treepick/internal/ref"
)

func sampleTree() *Tree {
	root := &Node{Record: entity("/p/1", "project", "Root")}
	child := &Node{Record: entity("/p/2", "project", "Child"), Parent: root, Depth: 1}
	dup := &Node{Record: entity("/p/3", "project", "Dup"), Parent: child, Depth: 2}
	root.Children = []*Node{child}
	child.Children = []*Node{dup}
	other := &Node{Record: entity("/p/3", "project", "Dup elsewhere")}
	return &Tree{Roots: []*Node{root, other}, Total: 2}
}

func TestTree_FindDeepFirstMatch(t *testing.T) {
	tr := sampleTree()

	n := tr.Find("/p/3")
	require.NotNil(t, n)
	assert.Equal(t, 2, n.Depth, "pre-order returns the nested match first")
	assert.Equal(t, []ref.Ref{"/p/1", "/p/2", "/p/3"}, n.Path())

	assert.Nil(t, tr.Find("/p/404"))
}

func TestTree_RefsIncludesNested(t *testing.T) {
	tr := sampleTree()
	assert.Equal(t, []ref.Ref{"/p/1", "/p/2", "/p/3"}, tr.Refs().Sorted())
	assert.Equal(t, 4, tr.Len())
	assert.Len(t, tr.Flatten(), 4)
}

func TestTree_WalkSkipsChildren(t *testing.T) {
	tr := sampleTree()
	var visited []ref.Ref
	tr.Walk(func(n *Node) bool {
		visited = append(visited, n.Ref())
		return n.Depth < 1
	})
	assert.Equal(t, []ref.Ref{"/p/1", "/p/2", "/p/3"}, visited)
}

func TestTree_Record(t *testing.T) {
	tr := sampleTree()
	rec, ok := tr.Record("/p/2")
	require.True(t, ok)
	assert.Equal(t, "Child", rec.Name())

	_, ok = tr.Record("/p/404")
	assert.False(t, ok)
}

func TestNode_Accessors(t *testing.T) {
	tr := sampleTree()
	root := tr.Roots[0]
	assert.Equal(t, "project", root.Type())
	assert.False(t, root.IsLeaf())
	assert.True(t, tr.Roots[1].IsLeaf())
	assert.Equal(t, []ref.Ref{"/p/1"}, root.Path())
}

func TestTree_Empty(t *testing.T) {
	tr := &Tree{}
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Find("/p/1"))
	assert.Equal(t, 0, tr.Refs().Len())
}
