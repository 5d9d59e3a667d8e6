package shopping

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	lists map[string]model.List
	items map[string]model.Item

	updateItemCalls int
	// failWith is returned by every store call when set.
	failWith error
	// vanish makes mutations report zero affected rows.
	vanish bool
}

func newMemStore() *memStore {
	return &memStore{lists: map[string]model.List{}, items: map[string]model.Item{}}
}

func (m *memStore) CreateList(ctx context.Context, l model.List) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.lists[l.ID] = l
	return nil
}

func (m *memStore) GetListByID(ctx context.Context, id string) (*model.List, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	l, ok := m.lists[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *memStore) UpdateList(ctx context.Context, id, name string) (bool, error) {
	l, ok := m.lists[id]
	if !ok || m.vanish {
		return false, nil
	}
	l.Name = name
	m.lists[id] = l
	return true, nil
}

func (m *memStore) DeleteList(ctx context.Context, id string) (bool, error) {
	if _, ok := m.lists[id]; !ok || m.vanish {
		return false, nil
	}
	delete(m.lists, id)
	for itemID, it := range m.items {
		if it.ListID == id {
			delete(m.items, itemID)
		}
	}
	return true, nil
}

func (m *memStore) AddItem(ctx context.Context, item model.Item) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.lists[item.ListID]; !ok {
		return errors.New("foreign key violation")
	}
	item.Subtotal = decimal.Zero
	m.items[item.ID] = item
	return nil
}

func (m *memStore) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (m *memStore) GetItemsByListID(ctx context.Context, listID string) ([]model.Item, error) {
	var out []model.Item
	for _, it := range m.items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateItem(ctx context.Context, id string, p model.ItemPatch) (bool, error) {
	m.updateItemCalls++
	it, ok := m.items[id]
	if !ok || m.vanish {
		return false, nil
	}
	if p.ProductName.Set {
		it.ProductName = p.ProductName.Value
	}
	if p.Quantity.Set {
		it.Quantity = p.Quantity.Value
	}
	if p.UnitPrice.Set {
		it.UnitPrice = p.UnitPrice.Value
	}
	if p.Checked.Set {
		it.Checked = p.Checked.Value
	}
	if p.CategoryID.Set {
		it.CategoryID = p.CategoryID.Value
	}
	m.items[id] = it
	return true, nil
}

func (m *memStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok || m.vanish {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memStore) GetListsByUserID(ctx context.Context, userID string) ([]model.ListRow, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var lists []model.List
	for _, l := range m.lists {
		if l.UserID == userID {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].CreatedAt.Before(lists[j].CreatedAt) })

	var rows []model.ListRow
	for _, l := range lists {
		base := model.ListRow{ListID: l.ID, UserID: l.UserID, ListName: l.Name, HasPrice: l.HasPrice, ListCreatedAt: l.CreatedAt}
		items, _ := m.GetItemsByListID(ctx, l.ID)
		if len(items) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, it := range items {
			r := base
			id := it.ID
			created := it.CreatedAt
			r.ItemID = &id
			r.ProductName = it.ProductName
			r.Quantity = it.Quantity
			r.UnitPrice = decimal.NullDecimal{Decimal: it.UnitPrice, Valid: true}
			r.Checked = it.Checked
			r.CategoryID = it.CategoryID
			r.ItemCreatedAt = &created
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (m *memStore) ClearChecked(ctx context.Context, listID string) (int64, error) {
	var n int64
	for id, it := range m.items {
		if it.ListID == listID && it.Checked {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

// memCategories is a fixed catalog.
type memCategories map[string]string

func (c memCategories) CategoryName(ctx context.Context, id string) (*string, error) {
	name, ok := c[id]
	if !ok {
		return nil, nil
	}
	return &name, nil
}

func (c memCategories) CategoryByName(ctx context.Context, name string) (*model.Category, error) {
	for id, n := range c {
		if n == name {
			return &model.Category{ID: id, Name: n}, nil
		}
	}
	return nil, nil
}

// testService wires a Service with deterministic ids and a clock that
// advances one second per call.
func testService(store Store, opts ...Option) *Service {
	var n int
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	base := []Option{
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	}
	cats := memCategories{"cat-dairy": "Dairy", "cat-pantry": "Pantry"}
	return NewService(store, cats, append(base, opts...)...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
