package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/shoplist/internal/item"
)

func TestTrackerKeepsFirstSnapshot(t *testing.T) {
	tr := NewTracker()
	books := item.New(1, "Books", 1, 7)

	tr.Begin(books, item.FieldQuantity)

	books.Quantity = 4
	tr.Begin(books, item.FieldQuantity)

	snap, ok := tr.Snapshot(1, item.FieldQuantity)
	require.True(t, ok)
	assert.Equal(t, 1, snap.Quantity)
	assert.Equal(t, 1, tr.Pending())
}

func TestTrackerKeysAreIndependent(t *testing.T) {
	tr := NewTracker()
	tr.Begin(item.New(1, "Books", 1, 7), item.FieldName)
	tr.Begin(item.New(1, "Books", 1, 7), item.FieldPrice)
	tr.Begin(item.New(2, "Juice", 1, 3), item.FieldName)

	assert.Equal(t, 3, tr.Pending())
	assert.True(t, tr.Editing(1, item.FieldPrice))
	assert.False(t, tr.Editing(1, item.FieldQuantity))

	tr.Discard(1, item.FieldName)
	assert.False(t, tr.Editing(1, item.FieldName))
	assert.True(t, tr.Editing(1, item.FieldPrice))
	assert.True(t, tr.Editing(2, item.FieldName))

	tr.DiscardItem(1)
	assert.Equal(t, 1, tr.Pending())
}

func TestTrackerDiscardMissingIsNoop(t *testing.T) {
	tr := NewTracker()
	tr.Discard(9, item.FieldName)
	_, ok := tr.Snapshot(9, item.FieldName)
	assert.False(t, ok)
}

func TestTrackerSentFollowsSnapshot(t *testing.T) {
	tr := NewTracker()

	tr.MarkSent(1, item.FieldName)
	assert.False(t, tr.Sent(1, item.FieldName), "no snapshot, nothing to mark")

	tr.Begin(item.New(1, "Books", 1, 7), item.FieldName)
	tr.MarkSent(1, item.FieldName)
	assert.True(t, tr.Sent(1, item.FieldName))
	assert.False(t, tr.Sent(1, item.FieldPrice))

	tr.Discard(1, item.FieldName)
	assert.False(t, tr.Sent(1, item.FieldName))

	tr.Begin(item.New(2, "Juice", 1, 3), item.FieldPrice)
	tr.MarkSent(2, item.FieldPrice)
	tr.DiscardItem(2)
	assert.False(t, tr.Sent(2, item.FieldPrice))
}
