package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_Failed(t *testing.T) {
	assert.True(t, (&Entry{ID: "a"}).Failed())
	assert.True(t, (&Entry{ID: "a", Document: &Document{}, Err: errors.New("boom")}).Failed())
	assert.False(t, (&Entry{ID: "a", Document: &Document{}}).Failed())
}
