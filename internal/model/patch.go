package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Optional records whether a JSON field was present at all. An explicit null
// counts as present, sets Null and leaves Value at its zero value.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// ItemPatch is a sparse update for an item. Absent fields are left untouched.
type ItemPatch struct {
	ProductName Optional[string]          `json:"product_name"`
	Quantity    Optional[int64]           `json:"quantity"`
	UnitPrice   Optional[decimal.Decimal] `json:"unit_price"`
	Checked     Optional[bool]            `json:"checked"`
	CategoryID  Optional[*string]         `json:"category_id"`
}

// Empty reports whether no recognized field is present.
func (p ItemPatch) Empty() bool {
	return !p.ProductName.Set && !p.Quantity.Set && !p.UnitPrice.Set &&
		!p.Checked.Set && !p.CategoryID.Set
}
