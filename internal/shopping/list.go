package shopping

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/edit"
	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/itemstore"
	"github.com/muurk/shoplist/internal/logging"
)

// List is the shopping list as the user sees it, backed by a Store.
//
// Every remote operation comes in two halves: the call itself (Load, Add,
// Delete) and the part that applies its result (Loaded, Added, Deleted). The
// UI runs the store call off the event loop and applies the result on it.
// List is not safe for concurrent use.
type List struct {
	store   itemstore.Store
	items   []item.Item
	tracker *edit.Tracker
	policy  *edit.Policy
}

// New returns an empty list backed by store.
func New(store itemstore.Store) *List {
	tracker := edit.NewTracker()
	return &List{
		store:   store,
		tracker: tracker,
		policy:  edit.NewPolicy(tracker, store),
	}
}

// Store returns the backing store.
func (l *List) Store() itemstore.Store {
	return l.store
}

// Items returns a copy of the current items in display order.
func (l *List) Items() []item.Item {
	out := make([]item.Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Find returns the item with the given id.
func (l *List) Find(id int) (item.Item, bool) {
	if it := l.find(id); it != nil {
		return *it, true
	}
	return item.Item{}, false
}

func (l *List) find(id int) *item.Item {
	for i := range l.items {
		if l.items[i].ID == id {
			return &l.items[i]
		}
	}
	return nil
}

// Total returns the sum of all line totals.
func (l *List) Total() decimal.Decimal {
	return item.Total(l.items)
}

// Editing reports whether (id, f) has an open edit session.
func (l *List) Editing(id int, f item.Field) bool {
	return l.tracker.Editing(id, f)
}

// Saving reports whether an update of (id, f) is in flight.
func (l *List) Saving(id int, f item.Field) bool {
	return l.tracker.Sent(id, f)
}

// Load replaces the list with the store's items.
func (l *List) Load(ctx context.Context) Notice {
	items, err := l.store.List(ctx)
	return l.Loaded(items, err)
}

// Loaded applies the result of Store.List. On failure the list is emptied.
func (l *List) Loaded(items []item.Item, err error) Notice {
	l.tracker.Reset()

	if err != nil {
		l.items = nil
		logging.Error("Failed to load items", zap.Error(err))
		return failure("Failed to load items", itemstore.ShortMessage(err))
	}

	l.items = make([]item.Item, len(items))
	copy(l.items, items)
	logging.Info("Items loaded", zap.Int("count", len(items)))
	return info("Items Loaded", fmt.Sprintf("%d items on your shopping list", len(items)))
}

// DraftRejected is the notice for a draft that fails validation.
func DraftRejected(err error) Notice {
	logging.Debug("Draft rejected", zap.Error(err))
	return failure("Failed to Add Item", "Please fill all fields correctly")
}

// StillSaving is the notice for reopening a cell whose update is in flight.
func StillSaving(f item.Field) Notice {
	return info("Still Saving", fmt.Sprintf("Wait for the %s update to finish", f))
}

// Add validates d and creates it in the store. Invalid drafts never reach
// the store.
func (l *List) Add(ctx context.Context, d item.Draft) Notice {
	if err := d.Validate(); err != nil {
		return DraftRejected(err)
	}
	created, err := l.store.Create(ctx, d)
	return l.Added(d, created, err)
}

// Added applies the result of Store.Create. On failure the list is left as
// it was. The store's id is kept unless it is zero or already in use, in
// which case the next free local id is assigned.
func (l *List) Added(d item.Draft, created item.Item, err error) Notice {
	if err != nil {
		logging.Warn("Failed to add item", zap.String("name", d.Name), zap.Error(err))
		return failure("Failed to Add Item", itemstore.ShortMessage(err))
	}

	// Non-persisting stores answer with an empty echo
	if created.Name == "" {
		id := created.ID
		created = d.Item()
		created.ID = id
	}

	if created.ID == 0 || l.find(created.ID) != nil {
		local := l.nextFreeID()
		logging.Warn("Store returned unusable id, assigning local id",
			zap.Int("store_id", created.ID),
			zap.Int("local_id", local),
		)
		created.ID = local
	}

	l.items = append(l.items, created)
	return success("Item Added", fmt.Sprintf("%s has been added to your shopping list", created.Name))
}

func (l *List) nextFreeID() int {
	next := 1
	for _, it := range l.items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

// Delete removes the item from the store and then from the list.
func (l *List) Delete(ctx context.Context, id int) Notice {
	if l.find(id) == nil {
		return failure("Failed to Remove Item", fmt.Sprintf("item %d is not on the list", id))
	}
	return l.Deleted(id, l.store.Delete(ctx, id))
}

// Deleted applies the result of Store.Delete. On failure the item stays.
func (l *List) Deleted(id int, err error) Notice {
	it := l.find(id)
	if it == nil {
		return Notice{}
	}
	name := it.Name

	if err != nil {
		logging.Warn("Failed to delete item", zap.Int("item_id", id), zap.Error(err))
		return failure("Failed to Remove Item", itemstore.ShortMessage(err))
	}

	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	l.tracker.DiscardItem(id)
	return info("Item Removed", fmt.Sprintf("%s has been removed from your shopping list", name))
}

// BeginEdit opens an edit session on (id, f). It returns false when the item
// is not on the list or an update of the field is still in flight.
func (l *List) BeginEdit(id int, f item.Field) bool {
	it := l.find(id)
	if it == nil || l.tracker.Sent(id, f) {
		return false
	}
	l.tracker.Begin(*it, f)
	return true
}

// Blur writes text into (id, f) and closes the cell. Text that does not
// parse is treated like an invalid value. A non-nil Commit must be sent and
// passed to Resolve.
func (l *List) Blur(id int, f item.Field, text string) (*edit.Commit, edit.Result) {
	it := l.find(id)
	if it == nil {
		l.tracker.Discard(id, f)
		return nil, edit.Result{Outcome: edit.Unmodified, Field: f, ItemID: id}
	}

	if !l.tracker.Editing(id, f) || l.tracker.Sent(id, f) {
		return nil, edit.Result{Outcome: edit.Unmodified, Field: f, ItemID: id}
	}

	if err := it.SetText(f, text); err != nil {
		return nil, l.policy.Abort(it, f, err)
	}
	return l.policy.Blur(it, f)
}

// Resolve applies the outcome of a sent Commit.
func (l *List) Resolve(c *edit.Commit, err error) edit.Result {
	return l.policy.Resolve(l.find(c.ItemID), c, err)
}

// Cancel abandons the edit of (id, f) and restores its pre-edit value.
func (l *List) Cancel(id int, f item.Field) edit.Result {
	it := l.find(id)
	if it == nil {
		l.tracker.Discard(id, f)
		return edit.Result{Outcome: edit.Unmodified, Field: f, ItemID: id}
	}
	return l.policy.Abort(it, f, nil)
}

// Edit runs a complete edit session synchronously.
func (l *List) Edit(ctx context.Context, id int, f item.Field, text string) (edit.Result, Notice) {
	if !l.BeginEdit(id, f) {
		return edit.Result{Outcome: edit.Unmodified, Field: f, ItemID: id},
			failure("Failed to Update Item", fmt.Sprintf("item %d is not on the list", id))
	}

	commit, res := l.Blur(id, f, text)
	if commit != nil {
		_, err := commit.Send(ctx, l.store)
		res = l.Resolve(commit, err)
	}
	return res, l.EditNotice(res)
}

// EditNotice describes an edit result for the user.
func (l *List) EditNotice(res edit.Result) Notice {
	name := fmt.Sprintf("item %d", res.ItemID)
	if it := l.find(res.ItemID); it != nil {
		name = it.Name
	}

	switch res.Outcome {
	case edit.Committed:
		return success("Item Updated", fmt.Sprintf("%s %s saved", name, res.Field))
	case edit.Rejected:
		if res.Err == nil {
			return info("Edit Cancelled", fmt.Sprintf("%s %s unchanged", name, res.Field))
		}
		return failure("Edit Rejected", res.Err.Error())
	case edit.RolledBack:
		return failure("Update Failed", fmt.Sprintf("%s reverted: %s", res.Field, itemstore.ShortMessage(res.Err)))
	}
	return Notice{}
}
