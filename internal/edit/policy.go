package edit

import (
	"context"
	"fmt"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/itemstore"
	"github.com/muurk/shoplist/internal/logging"
)

// Outcome is how an edit session ended.
type Outcome int

const (
	// Unmodified means no snapshot was open for the cell; nothing happened.
	Unmodified Outcome = iota
	// Pending means the value passed validation and a remote update must be
	// sent and resolved.
	Pending
	// Rejected means the value failed validation and was restored locally.
	Rejected
	// Committed means the store accepted the update.
	Committed
	// RolledBack means the store update failed and the value was restored.
	RolledBack
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case Unmodified:
		return "unmodified"
	case Pending:
		return "pending"
	case Rejected:
		return "rejected"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result reports the end of an edit session. Err is an item.ValidationError
// for Rejected and an itemstore error for RolledBack.
type Result struct {
	Outcome Outcome
	Field   item.Field
	ItemID  int
	Err     error
}

// Restored reports whether the field was put back to its pre-edit value.
func (r Result) Restored() bool {
	return r.Outcome == Rejected || r.Outcome == RolledBack
}

// Commit is a validated edit awaiting the remote update. Send may run on any
// goroutine; Resolve must run where the item lives.
type Commit struct {
	ItemID int
	Field  item.Field
	// Item is the full item as it will be sent. Other fields of the item
	// that are still open for editing carry their pre-edit values.
	Item item.Item
}

// Send issues the update. It touches no local state.
func (c *Commit) Send(ctx context.Context, store itemstore.Store) (item.Item, error) {
	return store.Update(ctx, c.Item)
}

// Policy decides what happens when an edited cell loses focus.
type Policy struct {
	Tracker *Tracker
	Store   itemstore.Store
}

// NewPolicy returns a policy over tracker that updates store.
func NewPolicy(tracker *Tracker, store itemstore.Store) *Policy {
	return &Policy{Tracker: tracker, Store: store}
}

// Blur validates field f of it. Without an open snapshot, or while an update
// of the field is in flight, the result is Unmodified. An invalid value is restored from the snapshot and the result is
// Rejected. Otherwise a Commit is returned with a Pending result; the snapshot
// stays open until Resolve.
func (p *Policy) Blur(it *item.Item, f item.Field) (*Commit, Result) {
	res := Result{Field: f, ItemID: it.ID}

	snap, ok := p.Tracker.Snapshot(it.ID, f)
	if !ok || p.Tracker.Sent(it.ID, f) {
		res.Outcome = Unmodified
		return nil, res
	}

	if err := item.ValidateField(*it, f); err != nil {
		it.CopyField(f, snap)
		p.Tracker.Discard(it.ID, f)
		res.Outcome = Rejected
		res.Err = err
		logging.LogEdit(it.ID, f.String(), res.Outcome.String(), err)
		return nil, res
	}

	res.Outcome = Pending
	commit := &Commit{ItemID: it.ID, Field: f, Item: p.payload(*it, f)}
	p.Tracker.MarkSent(it.ID, f)
	return commit, res
}

// payload is it with every other field that is still being edited reset to
// its snapshot value, so unvalidated values never reach the store. Fields
// with an update in flight keep their validated value.
func (p *Policy) payload(it item.Item, f item.Field) item.Item {
	for _, other := range item.Fields {
		if other == f || p.Tracker.Sent(it.ID, other) {
			continue
		}
		if snap, ok := p.Tracker.Snapshot(it.ID, other); ok {
			it.CopyField(other, snap)
		}
	}
	return it
}

// Resolve applies the result of c.Send. On success the field keeps its edited
// value; on failure it is restored from the snapshot. The snapshot is dropped
// either way, including when the item is gone (it == nil).
func (p *Policy) Resolve(it *item.Item, c *Commit, err error) Result {
	res := Result{Field: c.Field, ItemID: c.ItemID, Err: err}

	snap, ok := p.Tracker.Snapshot(c.ItemID, c.Field)
	p.Tracker.Discard(c.ItemID, c.Field)

	if err == nil {
		res.Outcome = Committed
		logging.LogEdit(c.ItemID, c.Field.String(), res.Outcome.String(), nil)
		return res
	}

	res.Outcome = RolledBack
	if it != nil && ok {
		it.CopyField(c.Field, snap)
	}
	logging.LogEdit(c.ItemID, c.Field.String(), res.Outcome.String(), err)
	return res
}

// OnBlur runs Blur, Send and Resolve in sequence.
func (p *Policy) OnBlur(ctx context.Context, it *item.Item, f item.Field) Result {
	commit, res := p.Blur(it, f)
	if commit == nil {
		return res
	}
	_, err := commit.Send(ctx, p.Store)
	return p.Resolve(it, commit, err)
}

// Abort restores field f from its snapshot without contacting the store.
// The result is Rejected when a snapshot was open, with cause as its error.
// A field whose update is in flight is left for Resolve.
func (p *Policy) Abort(it *item.Item, f item.Field, cause error) Result {
	res := Result{Field: f, ItemID: it.ID}

	snap, ok := p.Tracker.Snapshot(it.ID, f)
	if !ok || p.Tracker.Sent(it.ID, f) {
		res.Outcome = Unmodified
		return res
	}

	it.CopyField(f, snap)
	p.Tracker.Discard(it.ID, f)
	res.Outcome = Rejected
	res.Err = cause
	logging.LogEdit(it.ID, f.String(), res.Outcome.String(), cause)
	return res
}
