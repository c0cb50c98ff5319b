package dock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndoList_ReplaysNewestFirst(t *testing.T) {
	var u undoList
	var order []int
	for i := 0; i < 3; i++ {
		u.push(func() { order = append(order, i) })
	}

	assert.Equal(t, 3, u.pending())
	assert.Equal(t, 3, u.replay())
	assert.Equal(t, []int{2, 1, 0}, order)
	assert.Equal(t, 0, u.pending())

	// Replaying an empty list does nothing
	assert.Equal(t, 0, u.replay())
	assert.Len(t, order, 3)
}
