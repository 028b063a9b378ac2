package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treepick/internal/ref"
)

func TestNew_SeedsInitialRefs(t *testing.T) {
	c := New(Multiple, "a", "b", "c")
	assert.Equal(t, []ref.Ref{"a", "b", "c"}, c.All())
	assert.False(t, c.IsEmpty())
	assert.Equal(t, Multiple, c.Mode())
}

func TestNew_SeedDropsDuplicatesAndEmpty(t *testing.T) {
	c := New(Multiple, "a", "", "b", "a")
	assert.Equal(t, []ref.Ref{"a", "b"}, c.All())
}

func TestNew_SingleModeKeepsFirstSeed(t *testing.T) {
	c := New(Single, "a", "b")
	assert.Equal(t, []ref.Ref{"a"}, c.All())
}

func TestNew_Empty(t *testing.T) {
	c := New(Multiple)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []ref.Ref{}, c.All())
}

func TestSelect_Uniqueness(t *testing.T) {
	c := New(Multiple)
	seq := []ref.Ref{"a", "b", "a", "c", "b", "b", "a"}
	for _, r := range seq {
		c.Select(r)
	}

	seen := map[ref.Ref]int{}
	for _, r := range c.All() {
		seen[r]++
	}
	for r, n := range seen {
		assert.Equal(t, 1, n, "ref %s appears %d times", r, n)
	}
	assert.Equal(t, []ref.Ref{"a", "b", "c"}, c.All())
}

func TestSelect_SingleModeEviction(t *testing.T) {
	c := New(Single)
	for _, r := range []ref.Ref{"a", "b", "c", "b"} {
		c.Select(r)
		all := c.All()
		require.LessOrEqual(t, len(all), 1)
		assert.Equal(t, r, all[0])
	}
}

func TestSelect_SingleModeReselectIsNoop(t *testing.T) {
	c := New(Single, "a")
	assert.False(t, c.Select("a"))
	assert.Equal(t, []ref.Ref{"a"}, c.All())
}

func TestSelect_OrderPreservation(t *testing.T) {
	c := New(Multiple)
	c.Select("a")
	c.Select("b")
	c.Select("c")
	assert.Equal(t, []ref.Ref{"a", "b", "c"}, c.All())

	c.Deselect("b")
	assert.Equal(t, []ref.Ref{"a", "c"}, c.All())
}

func TestSelect_IdempotentReselect(t *testing.T) {
	c := New(Multiple)
	assert.True(t, c.Select("a"))
	before := c.All()

	assert.False(t, c.Select("a"))
	assert.Equal(t, before, c.All())
}

func TestSelect_EmptyRefIsNoop(t *testing.T) {
	c := New(Multiple)
	assert.False(t, c.Select(""))
	assert.True(t, c.IsEmpty())
}

func TestSelectRecord_KeepsRecord(t *testing.T) {
	c := New(Multiple)
	rec := &ref.Entity{Ref: "/project/1", Type: "project"}

	assert.True(t, c.SelectRecord(rec))
	assert.False(t, c.Select("/project/1"), "equality is by ref, not identity")

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Same(t, rec, entries[0].Record)
}

func TestSelectRecord_Nil(t *testing.T) {
	c := New(Multiple)
	assert.False(t, c.SelectRecord(nil))
}

func TestSelectRecord_DistinctObjectsSameRef(t *testing.T) {
	c := New(Multiple)
	a := &ref.Entity{Ref: "/project/1", Fields: map[string]any{"Name": "old"}}
	b := &ref.Entity{Ref: "/project/1", Fields: map[string]any{"Name": "new"}}

	assert.True(t, c.SelectRecord(a))
	assert.False(t, c.SelectRecord(b))
	assert.Equal(t, 1, c.Len())
}

func TestDeselect_Absent(t *testing.T) {
	c := New(Multiple, "a")
	assert.False(t, c.Deselect("z"))
	assert.Equal(t, []ref.Ref{"a"}, c.All())
}

func TestDeselect_Present(t *testing.T) {
	c := New(Multiple, "a", "b")
	assert.True(t, c.Deselect("a"))
	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := New(Multiple, "a", "b")
	all := c.All()
	all[0] = "mutated"
	assert.Equal(t, []ref.Ref{"a", "b"}, c.All())
}

func TestSingle_Modes(t *testing.T) {
	c := New(Single)
	r, err := c.Single()
	require.NoError(t, err)
	assert.Equal(t, ref.Ref(""), r)

	c.Select("a")
	r, err = c.Single()
	require.NoError(t, err)
	assert.Equal(t, ref.Ref("a"), r)

	m := New(Multiple, "a")
	_, err = m.Single()
	require.Error(t, err)
	assert.True(t, IsInvalidModeError(err))

	var me *InvalidModeError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &me)
	assert.Equal(t, "Single", me.Op)
	assert.Equal(t, Multiple, me.Mode)
	assert.Contains(t, err.Error(), "multiple mode")
}

func TestReconcile_FiltersInOrder(t *testing.T) {
	c := New(Multiple, "a", "b", "c")
	got := c.Reconcile(ref.NewSet("c", "a"))
	assert.Equal(t, []ref.Ref{"a", "c"}, got)
}

func TestReconcile_NonDestructive(t *testing.T) {
	sets := []ref.Set{
		nil,
		ref.NewSet(),
		ref.NewSet("a"),
		ref.NewSet("x", "y"),
		ref.NewSet("a", "b", "c", "d"),
	}
	for i, s := range sets {
		t.Run(fmt.Sprintf("set-%d", i), func(t *testing.T) {
			c := New(Multiple, "a", "b", "c")
			c.Reconcile(s)
			assert.Equal(t, []ref.Ref{"a", "b", "c"}, c.All())
		})
	}
}

func TestReconcile_SelectionSurvivesFiltering(t *testing.T) {
	c := New(Multiple, "a", "b")

	// A search hides b.
	assert.Equal(t, []ref.Ref{"a"}, c.Reconcile(ref.NewSet("a", "x")))
	// Several more reloads without b.
	for i := 0; i < 5; i++ {
		c.Reconcile(ref.NewSet("x"))
	}
	// Clearing the search brings b back.
	assert.Equal(t, []ref.Ref{"a", "b"}, c.Reconcile(ref.NewSet("a", "b", "x")))
}

func TestReconcileFunc(t *testing.T) {
	c := New(Multiple, "a", "b", "c")
	got := c.ReconcileFunc(func(r ref.Ref) bool { return r != "b" })
	assert.Equal(t, []ref.Ref{"a", "c"}, got)
}

func TestReset(t *testing.T) {
	c := New(Multiple, "a", "b")
	c.Reset(Single, "c", "d")
	assert.Equal(t, Single, c.Mode())
	assert.Equal(t, []ref.Ref{"c"}, c.All())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "multiple", Multiple.String())
	assert.Equal(t, "single", Single.String())
	assert.Equal(t, "unknown", Mode(7).String())
	assert.Equal(t, Multiple, ModeFor(true))
	assert.Equal(t, Single, ModeFor(false))
}
