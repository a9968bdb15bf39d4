// Package shopping holds the shopping list controller.
//
// List owns the items, the edit tracker and the commit/rollback policy.
// Every operation returns a Notice for the status line. Failures always leave
// the list in its last known-good state.
package shopping
