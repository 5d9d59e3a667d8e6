package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type List struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	HasPrice  bool            `json:"has_price"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

type Item struct {
	ID           string          `json:"id"`
	ListID       string          `json:"list_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Checked      bool            `json:"checked"`
	CategoryID   *string         `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CreatedAt    time.Time       `json:"created_at"`

	// FinalSubtotal is a stored subtotal for finalized historical entries.
	// When valid it replaces the computed subtotal.
	FinalSubtotal decimal.NullDecimal `json:"-"`
}

// ListRow is one row of the lists ⟕ items ⟕ categories join. Item fields are
// nil when the list has no items.
type ListRow struct {
	ListID        string
	UserID        string
	ListName      string
	HasPrice      bool
	ListCreatedAt time.Time

	ItemID        *string
	ProductName   string
	Quantity      int64
	UnitPrice     decimal.NullDecimal
	FinalSubtotal decimal.NullDecimal
	Checked       bool
	CategoryID    *string
	CategoryName  *string
	ItemCreatedAt *time.Time
}

// NewItem carries the fields accepted when adding an item to a list.
type NewItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Checked     bool            `json:"checked"`
	CategoryID  *string         `json:"category_id"`
}
