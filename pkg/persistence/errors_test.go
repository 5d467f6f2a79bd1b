package persistence

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphError(t *testing.T) {
	err := NewGraphError("GetByID", "level-1", ErrGraphNotFound)

	assert.Equal(t, "GetByID operation failed for graph level-1: graph not found", err.Error())
	assert.True(t, IsGraphNotFound(err))
	assert.ErrorIs(t, err, ErrGraphNotFound)

	var graphErr *GraphError
	require.ErrorAs(t, error(err), &graphErr)
	assert.Equal(t, "level-1", graphErr.GraphID)

	assert.False(t, IsGraphNotFound(NewGraphError("Save", "x", errors.New("disk full"))))
}

func TestValidateGraphID(t *testing.T) {
	valid := []string{"level-1", "wave_boss", "a.b"}
	for _, id := range valid {
		assert.NoError(t, ValidateGraphID(id), id)
	}

	invalid := []string{"", ".", "..", "a/b", `a\b`, strings.Repeat("x", 129)}
	for _, id := range invalid {
		assert.ErrorIs(t, ValidateGraphID(id), ErrInvalidGraphID, id)
	}
}
