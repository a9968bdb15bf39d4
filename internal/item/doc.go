// Package item defines the shopping list item model.
//
// An Item carries a store-assigned id, a name, a whole-number quantity and a
// decimal price. Prices use shopspring/decimal so totals never pick up float
// rounding noise.
//
// # Constraints
//
// Constraints are checked when a value is committed, never per keystroke:
//   - name: non-empty after trimming
//   - quantity: at least 1
//   - price: at least 0.01
//
// Violations are reported as *ValidationError, which names the offending field.
//
// # Fields
//
// Field identifies a single editable column. Items can be read and written
// per field as text (Text, SetText), which is how table cells and the CLI
// "set" command talk to the model, and a single field can be copied between
// two items (CopyField) to restore a previous value.
package item
