package shopping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

// Resolution is the outcome of merging a patch onto a stored item.
type Resolution struct {
	// Changes holds only the fields to persist.
	Changes model.ItemPatch
	// Item is the effective record after the merge, with its subtotal priced.
	Item model.Item
}

// Resolve merges patch onto existing. A field is persisted iff it is present
// in the patch; an explicit null category clears it. On an unpriced list a
// present unit price is stored as zero.
func Resolve(existing model.Item, patch model.ItemPatch, priced bool) (Resolution, error) {
	if patch.Empty() {
		return Resolution{}, ErrNoFieldsToUpdate
	}

	// Only the category reference may be cleared with null.
	nulls := []struct {
		field string
		null  bool
	}{
		{"product_name", patch.ProductName.Null},
		{"quantity", patch.Quantity.Null},
		{"unit_price", patch.UnitPrice.Null},
		{"checked", patch.Checked.Null},
	}
	for _, n := range nulls {
		if n.null {
			return Resolution{}, fmt.Errorf("%s must not be null: %w", n.field, ErrInvalidInput)
		}
	}

	changes := patch
	merged := existing

	if changes.ProductName.Set {
		name := strings.TrimSpace(changes.ProductName.Value)
		if name == "" {
			return Resolution{}, fmt.Errorf("product name is required: %w", ErrInvalidInput)
		}
		changes.ProductName.Value = name
		merged.ProductName = name
	}
	if changes.Quantity.Set {
		if changes.Quantity.Value < 0 {
			return Resolution{}, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
		}
		merged.Quantity = changes.Quantity.Value
	}
	if changes.UnitPrice.Set {
		if changes.UnitPrice.Value.IsNegative() {
			return Resolution{}, fmt.Errorf("unit price must not be negative: %w", ErrInvalidInput)
		}
		if !priced {
			changes.UnitPrice.Value = decimal.Zero
		}
		merged.UnitPrice = changes.UnitPrice.Value
	}
	if changes.Checked.Set {
		merged.Checked = changes.Checked.Value
	}
	if changes.CategoryID.Set {
		if id := changes.CategoryID.Value; id != nil && strings.TrimSpace(*id) == "" {
			changes.CategoryID.Value = nil
		}
		merged.CategoryID = changes.CategoryID.Value
		// Name is re-resolved by the caller for the new reference.
		merged.CategoryName = nil
	}

	return Resolution{Changes: changes, Item: priceItem(merged)}, nil
}
