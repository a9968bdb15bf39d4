package item

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field identifies one editable column of an Item.
type Field int

const (
	FieldName Field = iota
	FieldQuantity
	FieldPrice
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldName, FieldQuantity, FieldPrice}

// String returns the field's wire/display name.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldQuantity:
		return "quantity"
	case FieldPrice:
		return "price"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField maps a field name (case-insensitive) to its Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "item":
		return FieldName, nil
	case "quantity", "qty":
		return FieldQuantity, nil
	case "price":
		return FieldPrice, nil
	}
	return 0, fmt.Errorf("unknown field %q (expected name, quantity or price)", s)
}

// Item is a single shopping list entry.
type Item struct {
	ID       int             `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Quantity int             `json:"quantity" yaml:"quantity"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
}

// Draft is an item that has not been assigned an id by the store yet.
type Draft struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Item converts the draft into an Item with a zero id.
func (d Draft) Item() Item {
	return Item{Name: d.Name, Quantity: d.Quantity, Price: d.Price}
}

// New builds an item from plain values. Used for seed data and tests.
func New(id int, name string, quantity int, price float64) Item {
	return Item{ID: id, Name: name, Quantity: quantity, Price: decimal.NewFromFloat(price)}
}

// LineTotal returns quantity × price.
func (it Item) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Text returns the field's value as it would be typed into a cell.
func (it Item) Text(f Field) string {
	switch f {
	case FieldName:
		return it.Name
	case FieldQuantity:
		return strconv.Itoa(it.Quantity)
	case FieldPrice:
		return it.Price.String()
	}
	return ""
}

// SetText parses text into field f. The item is left untouched on error.
func (it *Item) SetText(f Field, text string) error {
	text = strings.TrimSpace(text)
	switch f {
	case FieldName:
		it.Name = text
	case FieldQuantity:
		q, err := strconv.Atoi(text)
		if err != nil {
			return NewValidationError(f, fmt.Sprintf("%q is not a whole number", text))
		}
		it.Quantity = q
	case FieldPrice:
		p, err := decimal.NewFromString(text)
		if err != nil {
			return NewValidationError(f, fmt.Sprintf("%q is not a valid price", text))
		}
		it.Price = p
	default:
		return fmt.Errorf("unknown field %v", f)
	}
	return nil
}

// CopyField copies field f from src into it, leaving other fields alone.
func (it *Item) CopyField(f Field, src Item) {
	switch f {
	case FieldName:
		it.Name = src.Name
	case FieldQuantity:
		it.Quantity = src.Quantity
	case FieldPrice:
		it.Price = src.Price
	}
}

// Equal reports whether both items hold the same values.
func (it Item) Equal(o Item) bool {
	return it.ID == o.ID && it.Name == o.Name && it.Quantity == o.Quantity && it.Price.Equal(o.Price)
}

// String returns a short human-readable description.
func (it Item) String() string {
	return fmt.Sprintf("#%d %s (%d × %s)", it.ID, it.Name, it.Quantity, it.Price.StringFixed(2))
}

// ParseDraft builds a draft from the three text inputs of the add form.
// Parse failures are returned as validation errors.
func ParseDraft(name, quantity, price string) (Draft, error) {
	var it Item
	if err := it.SetText(FieldName, name); err != nil {
		return Draft{}, err
	}
	if err := it.SetText(FieldQuantity, quantity); err != nil {
		return Draft{}, err
	}
	if err := it.SetText(FieldPrice, price); err != nil {
		return Draft{}, err
	}
	return Draft{Name: it.Name, Quantity: it.Quantity, Price: it.Price}, nil
}

// Seed returns the built-in starter list used when nothing else is configured.
func Seed() []Item {
	return []Item{
		New(1, "Books", 1, 7),
		New(2, "Juice", 1, 3),
		New(3, "Shoes", 1, 10),
		New(4, "Bananas", 1, 2),
		New(5, "Iron", 1, 7),
	}
}
