package edit

import (
	"github.com/muurk/shoplist/internal/item"
)

type key struct {
	id    int
	field item.Field
}

// Tracker remembers the value a cell held when editing began, keyed by
// (item id, field). Each pair is tracked independently.
//
// A Tracker is not safe for concurrent use; it belongs to the UI event loop.
type Tracker struct {
	snapshots map[key]item.Item
	// sent marks snapshots whose validated value is awaiting the store
	sent map[key]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		snapshots: make(map[key]item.Item),
		sent:      make(map[key]struct{}),
	}
}

// Begin records it as the pre-edit state of field f. A snapshot that already
// exists for the pair is kept, so repeated calls during one edit session
// remember the first value.
func (t *Tracker) Begin(it item.Item, f item.Field) {
	k := key{it.ID, f}
	if _, ok := t.snapshots[k]; ok {
		return
	}
	t.snapshots[k] = it
}

// Snapshot returns the item as it was when editing of (id, f) began.
func (t *Tracker) Snapshot(id int, f item.Field) (item.Item, bool) {
	it, ok := t.snapshots[key{id, f}]
	return it, ok
}

// Editing reports whether (id, f) has an open snapshot.
func (t *Tracker) Editing(id int, f item.Field) bool {
	_, ok := t.snapshots[key{id, f}]
	return ok
}

// MarkSent records that the value of (id, f) passed validation and was handed
// to the store. The snapshot stays open until Discard.
func (t *Tracker) MarkSent(id int, f item.Field) {
	k := key{id, f}
	if _, ok := t.snapshots[k]; ok {
		t.sent[k] = struct{}{}
	}
}

// Sent reports whether (id, f) has an update in flight.
func (t *Tracker) Sent(id int, f item.Field) bool {
	_, ok := t.sent[key{id, f}]
	return ok
}

// Discard drops the snapshot for (id, f), if any.
func (t *Tracker) Discard(id int, f item.Field) {
	k := key{id, f}
	delete(t.snapshots, k)
	delete(t.sent, k)
}

// DiscardItem drops every snapshot held for id. Used when the item is deleted.
func (t *Tracker) DiscardItem(id int) {
	for _, f := range item.Fields {
		t.Discard(id, f)
	}
}

// Reset drops all snapshots.
func (t *Tracker) Reset() {
	clear(t.snapshots)
	clear(t.sent)
}

// Pending returns the number of open snapshots.
func (t *Tracker) Pending() int {
	return len(t.snapshots)
}
