package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinQuantity is the smallest quantity a committed item may carry.
const MinQuantity = 1

// MinPrice is the smallest price a committed item may carry.
var MinPrice = decimal.RequireFromString("0.01")

// ValidationError is a client-side constraint violation on a single field.
// It is always recoverable by restoring the field's previous value.
type ValidationError struct {
	Field   Field
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field f.
func NewValidationError(f Field, message string) *ValidationError {
	return &ValidationError{Field: f, Message: message}
}

// IsValidationError checks if an error is (or wraps) a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateName requires a non-empty name after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError(FieldName, "item name is required")
	}
	return nil
}

// ValidateQuantity requires quantity >= MinQuantity.
func ValidateQuantity(q int) error {
	if q < MinQuantity {
		return NewValidationError(FieldQuantity, fmt.Sprintf("quantity must be at least %d, got %d", MinQuantity, q))
	}
	return nil
}

// ValidatePrice requires price >= MinPrice.
func ValidatePrice(p decimal.Decimal) error {
	if p.LessThan(MinPrice) {
		return NewValidationError(FieldPrice, fmt.Sprintf("price must be at least %s, got %s", MinPrice.StringFixed(2), p.String()))
	}
	return nil
}

// ValidateField checks a single field of it against its constraint.
func ValidateField(it Item, f Field) error {
	switch f {
	case FieldName:
		return ValidateName(it.Name)
	case FieldQuantity:
		return ValidateQuantity(it.Quantity)
	case FieldPrice:
		return ValidatePrice(it.Price)
	}
	return fmt.Errorf("unknown field %v", f)
}

// Validate checks every field and returns all violations (empty if valid).
func Validate(it Item) []error {
	var errs []error
	for _, f := range Fields {
		if err := ValidateField(it, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Validate checks the draft with the same constraints as a committed item.
func (d Draft) Validate() error {
	return errors.Join(Validate(d.Item())...)
}
