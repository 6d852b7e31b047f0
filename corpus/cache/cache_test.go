package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/digestius/document"
)

func TestHash(t *testing.T) {
	a, err := Hash([]byte("eip: 1"))
	require.NoError(t, err)
	b, err := Hash([]byte("eip: 1"))
	require.NoError(t, err)
	c, err := Hash([]byte("eip: 2"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEntries(t *testing.T) {
	c := NewEntries()
	assert.True(t, c.Changed("b.md", 1))

	c.Put(&document.Entry{ID: "b.md", Hash: 1, Document: &document.Document{Path: "b.md"}})
	c.Put(&document.Entry{ID: "a.md", Hash: 2, Document: &document.Document{Path: "a.md"}})
	c.Put(&document.Entry{ID: "bad.md", Hash: 3})

	assert.False(t, c.Changed("b.md", 1))
	assert.True(t, c.Changed("b.md", 5))
	assert.True(t, c.Changed("bad.md", 3), "failed reads are always retried")
	assert.Equal(t, 3, c.Len())

	entry, ok := c.Get("a.md")
	require.True(t, ok)
	assert.Equal(t, uint64(2), entry.Hash)

	assert.Equal(t, 2, c.Retain(map[string]bool{"a.md": true}))
	assert.Equal(t, 1, c.Len())
}
