package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootPath(t *testing.T) {
	t.Run("creates single-segment path", func(t *testing.T) {
		p, err := NewRootPath("hwroot")
		require.NoError(t, err)
		assert.Equal(t, "hwroot", p.String())
		assert.Equal(t, 1, p.Depth())
	})

	t.Run("rejects empty segment", func(t *testing.T) {
		_, err := NewRootPath("")
		require.Error(t, err)
	})

	t.Run("rejects separator inside segment", func(t *testing.T) {
		_, err := NewRootPath("hw.root")
		require.Error(t, err)
	})

	t.Run("rejects non-ascii segment", func(t *testing.T) {
		_, err := NewRootPath("корень")
		require.Error(t, err)
	})
}

func TestTreePathChild(t *testing.T) {
	root, _ := NewRootPath("hwroot")

	t.Run("appends segment with separator", func(t *testing.T) {
		child, err := root.Child("10")
		require.NoError(t, err)
		assert.Equal(t, "hwroot.10", child.String())
		assert.Equal(t, "10", child.Leaf())
	})

	t.Run("rejects invalid segment", func(t *testing.T) {
		_, err := root.Child("a b")
		require.Error(t, err)
	})
}

func TestTreePathIsAncestorOf(t *testing.T) {
	n1, _ := ParseTreePath("n1")
	n10, _ := ParseTreePath("n10")
	n1Child, _ := ParseTreePath("n1.n204")
	n1Grandchild, _ := ParseTreePath("n1.n204.n305")

	t.Run("direct child", func(t *testing.T) {
		assert.True(t, n1.IsAncestorOf(n1Child))
	})

	t.Run("transitive descendant", func(t *testing.T) {
		assert.True(t, n1.IsAncestorOf(n1Grandchild))
	})

	t.Run("not an ancestor of itself", func(t *testing.T) {
		assert.False(t, n1.IsAncestorOf(n1))
	})

	t.Run("no false positive on shared prefix", func(t *testing.T) {
		// "n1" must not match "n10" by raw prefix
		assert.False(t, n1.IsAncestorOf(n10))
	})

	t.Run("child is not ancestor of parent", func(t *testing.T) {
		assert.False(t, n1Child.IsAncestorOf(n1))
	})
}

func TestParseTreePath(t *testing.T) {
	t.Run("accepts well-formed chain", func(t *testing.T) {
		p, err := ParseTreePath("n101.n204")
		require.NoError(t, err)
		assert.Equal(t, []string{"n101", "n204"}, p.Segments())
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ParseTreePath("")
		require.Error(t, err)
	})

	t.Run("rejects empty segment", func(t *testing.T) {
		_, err := ParseTreePath("n101..n204")
		require.Error(t, err)
	})
}
