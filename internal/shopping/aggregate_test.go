package shopping

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

func strPtr(s string) *string { return &s }

func itemRow(listID, itemID string, qty int64, price string) model.ListRow {
	return model.ListRow{
		ListID:      listID,
		UserID:      "u1",
		ListName:    "List " + listID,
		HasPrice:    true,
		ItemID:      strPtr(itemID),
		ProductName: "Product " + itemID,
		Quantity:    qty,
		UnitPrice:   decimal.NullDecimal{Decimal: dec(price), Valid: true},
	}
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		qty   int64
		price string
		want  string
	}{
		{2, "19.90", "39.80"},
		{3, "5.00", "15.00"},
		{0, "9.99", "0"},
		{1, "0.005", "0.01"},
		{3, "0.333", "1"},
		{7, "1.1", "7.70"},
	}
	for _, tt := range tests {
		got := Subtotal(tt.qty, dec(tt.price))
		if !got.Equal(dec(tt.want)) {
			t.Errorf("Subtotal(%d, %s) = %s, want %s", tt.qty, tt.price, got, tt.want)
		}
	}
}

func TestTotalSumsThenRounds(t *testing.T) {
	// Two finalized half-cent subtotals: summing first gives 0.01, rounding
	// each first would give 0.02.
	items := []model.Item{
		{Subtotal: dec("0.005")},
		{Subtotal: dec("0.005")},
	}
	if got := Total(items); !got.Equal(dec("0.01")) {
		t.Errorf("Total = %s, want 0.01", got)
	}
}

func TestTotalInvariantUnderReorder(t *testing.T) {
	items := []model.Item{
		{Subtotal: dec("39.80")},
		{Subtotal: dec("0.10")},
		{Subtotal: dec("12.345")},
		{Subtotal: dec("7")},
	}
	want := Total(items)
	reversed := []model.Item{items[3], items[2], items[1], items[0]}
	if got := Total(reversed); !got.Equal(want) {
		t.Errorf("reordered total = %s, want %s", got, want)
	}
	if !want.Equal(dec("59.25")) {
		t.Errorf("total = %s, want 59.25", want)
	}
}

func TestAggregateGroupsScatteredRows(t *testing.T) {
	rows := []model.ListRow{
		itemRow("l1", "i1", 2, "5"),
		itemRow("l2", "i2", 1, "3"),
		itemRow("l1", "i3", 1, "3"),
	}

	lists := Aggregate(rows)
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].ID != "l1" || lists[1].ID != "l2" {
		t.Errorf("order = [%s %s], want [l1 l2]", lists[0].ID, lists[1].ID)
	}
	if lists[0].ItemCount != 2 {
		t.Errorf("l1 item_count = %d, want 2", lists[0].ItemCount)
	}
	if !lists[0].Total.Equal(dec("13")) {
		t.Errorf("l1 total = %s, want 13", lists[0].Total)
	}
	if !lists[1].Total.Equal(dec("3")) {
		t.Errorf("l2 total = %s, want 3", lists[1].Total)
	}
	if lists[0].Items[1].ID != "i3" {
		t.Errorf("l1 second item = %s, want i3", lists[0].Items[1].ID)
	}
}

func TestAggregateEmptyList(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []model.ListRow{{ListID: "l1", UserID: "u1", ListName: "Empty", ListCreatedAt: created}}

	lists := Aggregate(rows)
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	l := lists[0]
	if l.Items == nil || len(l.Items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", l.Items)
	}
	if l.ItemCount != 0 {
		t.Errorf("item_count = %d, want 0", l.ItemCount)
	}
	if !l.Total.IsZero() {
		t.Errorf("total = %s, want 0", l.Total)
	}
	if !l.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", l.CreatedAt, created)
	}
}

func TestAggregateNoRows(t *testing.T) {
	if lists := Aggregate(nil); len(lists) != 0 {
		t.Errorf("expected no lists, got %d", len(lists))
	}
}

func TestAggregateMissingUnitPriceIsZero(t *testing.T) {
	r := itemRow("l1", "i1", 4, "0")
	r.UnitPrice = decimal.NullDecimal{}

	lists := Aggregate([]model.ListRow{r})
	it := lists[0].Items[0]
	if !it.UnitPrice.IsZero() {
		t.Errorf("unit_price = %s, want 0", it.UnitPrice)
	}
	if !it.Subtotal.IsZero() {
		t.Errorf("subtotal = %s, want 0", it.Subtotal)
	}
}

func TestAggregateFinalSubtotalEchoed(t *testing.T) {
	r := itemRow("l1", "i1", 2, "10")
	r.FinalSubtotal = decimal.NullDecimal{Decimal: dec("17.333"), Valid: true}
	other := itemRow("l1", "i2", 1, "1")

	lists := Aggregate([]model.ListRow{r, other})
	if got := lists[0].Items[0].Subtotal; !got.Equal(dec("17.333")) {
		t.Errorf("subtotal = %s, want override 17.333", got)
	}
	if got := lists[0].Items[1].Subtotal; !got.Equal(dec("1")) {
		t.Errorf("subtotal = %s, want computed 1", got)
	}
	if got := lists[0].Total; !got.Equal(dec("18.33")) {
		t.Errorf("total = %s, want 18.33", got)
	}
}

func TestAggregateCategoryName(t *testing.T) {
	withCat := itemRow("l1", "i1", 1, "1")
	withCat.CategoryID = strPtr("c1")
	withCat.CategoryName = strPtr("Dairy")
	noCat := itemRow("l1", "i2", 1, "1")

	lists := Aggregate([]model.ListRow{withCat, noCat})
	items := lists[0].Items
	if items[0].CategoryName == nil || *items[0].CategoryName != "Dairy" {
		t.Errorf("category_name = %v, want Dairy", items[0].CategoryName)
	}
	if items[1].CategoryName != nil {
		t.Errorf("category_name = %q, want nil", *items[1].CategoryName)
	}
}

func TestAggregateIsPure(t *testing.T) {
	rows := []model.ListRow{itemRow("l1", "i1", 2, "19.90")}
	first := Aggregate(rows)
	second := Aggregate(rows)
	if !first[0].Total.Equal(second[0].Total) {
		t.Errorf("totals differ: %s vs %s", first[0].Total, second[0].Total)
	}
	if rows[0].Quantity != 2 || !rows[0].UnitPrice.Decimal.Equal(dec("19.90")) {
		t.Error("input rows were modified")
	}
}
