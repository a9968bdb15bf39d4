// Package edit implements optimistic inline editing with rollback.
//
// A Tracker records the value of a cell the moment it enters edit mode. When
// the cell loses focus, a Policy validates the new value:
//
//   - invalid values are restored from the snapshot and never sent
//   - valid values are sent to the item store; a failed update restores the
//     snapshot
//
// The snapshot is dropped once the session ends, whatever the outcome.
//
// Blur, Commit.Send and Resolve are separate steps so the network call can
// run away from the goroutine that owns the items:
//
//	commit, res := policy.Blur(&it, item.FieldPrice)
//	if commit != nil {
//	    _, err := commit.Send(ctx, store) // in a tea.Cmd
//	    res = policy.Resolve(&it, commit, err)
//	}
//
// OnBlur does all three synchronously.
package edit
