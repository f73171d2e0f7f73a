package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing a non-negative stock quantity.
// It supports decimal quantities for items counted by weight or volume.
// It is immutable - all operations return new Quantity instances.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity creates a new Quantity with the specified value
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: value}, nil
}

// NewQuantityFromFloat creates Quantity from a float64 value
func NewQuantityFromFloat(value float64) (Quantity, error) {
	return NewQuantity(decimal.NewFromFloat(value))
}

// NewQuantityFromInt creates Quantity from an int64 value
func NewQuantityFromInt(value int64) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(value))
}

// MustNewQuantity creates a Quantity and panics on error
func MustNewQuantity(value decimal.Decimal) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity returns a zero quantity
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// Amount returns the decimal value
func (q Quantity) Amount() decimal.Decimal {
	return q.value
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the quantity is positive
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// Add returns a new Quantity with the sum of both quantities
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Subtract returns a new Quantity with the difference
// Returns error if the result would be negative
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, errors.New("resulting quantity would be negative")
	}
	return Quantity{value: result}, nil
}

// Equals returns true if both quantities are equal
func (q Quantity) Equals(other Quantity) bool {
	return q.value.Equal(other.value)
}

// LessThan returns true if this quantity is less than the other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// GreaterThanOrEqual returns true if this quantity is at least the other
func (q Quantity) GreaterThanOrEqual(other Quantity) bool {
	return q.value.GreaterThanOrEqual(other.value)
}

// SufficientFor returns true if this quantity covers the required amount
func (q Quantity) SufficientFor(required Quantity) bool {
	return q.value.GreaterThanOrEqual(required.value)
}

// String returns a string representation of the Quantity
func (q Quantity) String() string {
	return q.value.String()
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.value.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Validates non-negativity, maintaining the domain invariant.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if value.IsNegative() {
		return errors.New("quantity cannot be negative")
	}
	q.value = value
	return nil
}

// Value implements driver.Valuer for database storage
func (q Quantity) Value() (driver.Value, error) {
	return q.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (q *Quantity) Scan(value any) error {
	if value == nil {
		q.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Quantity", value)
	}

	val, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	q.value = val
	return nil
}
