package shopping

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

const moneyPlaces = 2

// Subtotal is quantity × unit price rounded to cents.
func Subtotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(moneyPlaces)
}

// Total sums the subtotals first and rounds once, so per-item rounding never
// compounds.
func Total(items []model.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal)
	}
	return sum.Round(moneyPlaces)
}

// priceItem fills in the subtotal. A stored final subtotal wins over the
// computed one: finalized historical entries keep the amount recorded then.
func priceItem(it model.Item) model.Item {
	if it.FinalSubtotal.Valid {
		it.Subtotal = it.FinalSubtotal.Decimal
	} else {
		it.Subtotal = Subtotal(it.Quantity, it.UnitPrice)
	}
	return it
}

// summarize attaches priced items and the derived totals to a list.
func summarize(l model.List, items []model.Item) model.List {
	priced := make([]model.Item, 0, len(items))
	for _, it := range items {
		priced = append(priced, priceItem(it))
	}
	l.Items = priced
	l.ItemCount = len(priced)
	l.Total = Total(priced)
	return l
}

// Aggregate folds joined list/item rows into nested lists. Rows for the same
// list need not be contiguous; lists come out in order of first appearance.
func Aggregate(rows []model.ListRow) []model.List {
	index := make(map[string]int)
	var lists []model.List

	for _, r := range rows {
		i, ok := index[r.ListID]
		if !ok {
			i = len(lists)
			index[r.ListID] = i
			lists = append(lists, model.List{
				ID:        r.ListID,
				UserID:    r.UserID,
				Name:      r.ListName,
				HasPrice:  r.HasPrice,
				CreatedAt: r.ListCreatedAt,
				Items:     []model.Item{},
			})
		}
		if r.ItemID == nil {
			continue
		}
		lists[i].Items = append(lists[i].Items, itemFromRow(r))
	}

	for i := range lists {
		lists[i] = summarize(lists[i], lists[i].Items)
	}
	return lists
}

func itemFromRow(r model.ListRow) model.Item {
	it := model.Item{
		ID:            *r.ItemID,
		ListID:        r.ListID,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		UnitPrice:     decimal.Zero,
		Checked:       r.Checked,
		CategoryID:    r.CategoryID,
		FinalSubtotal: r.FinalSubtotal,
	}
	if r.UnitPrice.Valid {
		it.UnitPrice = r.UnitPrice.Decimal
	}
	// Category name only when the join matched.
	if r.CategoryID != nil {
		it.CategoryName = r.CategoryName
	}
	if r.ItemCreatedAt != nil {
		it.CreatedAt = *r.ItemCreatedAt
	}
	return it
}
