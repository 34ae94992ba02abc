package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangesIdentical(t *testing.T) {
	assert.Nil(t, Changes("A=1\nB=2\n", "A=1\nB=2\n"))
	assert.Equal(t, "", Render(nil))
}

func TestChangesValueEdit(t *testing.T) {
	changes := Changes("A=1\nB=2\n", "A=1\nB=20\n")
	require.NotEmpty(t, changes)

	added, removed := Stats(changes)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)

	out := Render(changes)
	assert.Contains(t, out, "- B=2\n")
	assert.Contains(t, out, "+ B=20\n")
	assert.Contains(t, out, "  A=1\n")
}

func TestChangesAppendedLines(t *testing.T) {
	changes := Changes("A=1\n", "A=1\nNEW=x\n")

	added, removed := Stats(changes)
	assert.Equal(t, 1, added)
	assert.Equal(t, 0, removed)
	assert.True(t, strings.HasSuffix(Render(changes), "+ NEW=x\n"))
}

func TestChangesFromEmpty(t *testing.T) {
	changes := Changes("", "A=1\nB=2\n")
	added, removed := Stats(changes)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, removed)
}
