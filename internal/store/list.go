package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.List, error) {
	var l model.List
	var hasPrice int
	err := scanner.Scan(&l.ID, &l.UserID, &l.Name, &hasPrice, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.HasPrice = hasPrice != 0
	return &l, nil
}

const listCols = `id, user_id, name, has_price, created_at`

func (s *ListStore) CreateList(ctx context.Context, l model.List) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (id, user_id, name, has_price, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Name, boolInt(l.HasPrice), l.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

func (s *ListStore) GetListByID(ctx context.Context, id string) (*model.List, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ListStore) UpdateList(ctx context.Context, id, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE shopping_lists SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return false, fmt.Errorf("update list: %w", err)
	}
	return affected(result)
}

// DeleteList removes the list. Its items go with it through ON DELETE CASCADE.
func (s *ListStore) DeleteList(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	return affected(result)
}

// GetListsByUserID returns one row per item, or a single row with nil item
// fields for an empty list, ordered by list creation then item creation.
func (s *ListStore) GetListsByUserID(ctx context.Context, userID string) ([]model.ListRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.user_id, l.name, l.has_price, l.created_at,
		       i.id, i.product_name, i.quantity, i.unit_price, i.final_subtotal,
		       i.checked, i.category_id, c.name, i.created_at
		FROM shopping_lists l
		LEFT JOIN items i ON i.list_id = l.id
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE l.user_id = ?
		ORDER BY l.created_at ASC, l.rowid ASC, i.created_at ASC, i.rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	var out []model.ListRow
	for rows.Next() {
		r, err := scanListRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list row: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanListRow(scanner interface{ Scan(...any) error }) (*model.ListRow, error) {
	var r model.ListRow
	var hasPrice int
	var itemID, productName, categoryID, categoryName sql.NullString
	var quantity, checked sql.NullInt64
	var itemCreatedAt sql.NullTime

	err := scanner.Scan(
		&r.ListID, &r.UserID, &r.ListName, &hasPrice, &r.ListCreatedAt,
		&itemID, &productName, &quantity, &r.UnitPrice, &r.FinalSubtotal,
		&checked, &categoryID, &categoryName, &itemCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.HasPrice = hasPrice != 0
	if itemID.Valid {
		r.ItemID = &itemID.String
	}
	r.ProductName = productName.String
	r.Quantity = quantity.Int64
	r.Checked = checked.Int64 != 0
	r.CategoryID = nullString(categoryID)
	r.CategoryName = nullString(categoryName)
	if itemCreatedAt.Valid {
		r.ItemCreatedAt = &itemCreatedAt.Time
	}
	return &r, nil
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var categoryID, categoryName sql.NullString
	var checked int

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.ProductName, &item.Quantity, &item.UnitPrice,
		&item.FinalSubtotal, &checked, &categoryID, &categoryName, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	item.CategoryID = nullString(categoryID)
	item.CategoryName = nullString(categoryName)
	return &item, nil
}

const itemSelect = `SELECT i.id, i.list_id, i.product_name, i.quantity, i.unit_price, i.final_subtotal,
	i.checked, i.category_id, c.name, i.created_at
	FROM items i LEFT JOIN categories c ON c.id = i.category_id`

func (s *ListStore) AddItem(ctx context.Context, item model.Item) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, list_id, product_name, quantity, unit_price, checked, category_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ListID, item.ProductName, item.Quantity, item.UnitPrice,
		boolInt(item.Checked), stringPtr(item.CategoryID), item.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *ListStore) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ListStore) GetItemsByListID(ctx context.Context, listID string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		itemSelect+` WHERE i.list_id = ? ORDER BY i.created_at ASC, i.rowid ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem writes only the fields present in the patch. Each column is
// guarded by its presence flag so the statement text never changes.
func (s *ListStore) UpdateItem(ctx context.Context, id string, p model.ItemPatch) (bool, error) {
	var categoryID sql.NullString
	if p.CategoryID.Value != nil {
		categoryID = sql.NullString{String: *p.CategoryID.Value, Valid: true}
	}
	unitPrice := p.UnitPrice.Value
	if !p.UnitPrice.Set {
		unitPrice = decimal.Zero
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET
			product_name = CASE WHEN ? THEN ? ELSE product_name END,
			quantity     = CASE WHEN ? THEN ? ELSE quantity END,
			unit_price   = CASE WHEN ? THEN ? ELSE unit_price END,
			checked      = CASE WHEN ? THEN ? ELSE checked END,
			category_id  = CASE WHEN ? THEN ? ELSE category_id END
		WHERE id = ?`,
		boolInt(p.ProductName.Set), p.ProductName.Value,
		boolInt(p.Quantity.Set), p.Quantity.Value,
		boolInt(p.UnitPrice.Set), unitPrice,
		boolInt(p.Checked.Set), boolInt(p.Checked.Value),
		boolInt(p.CategoryID.Set), categoryID,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("update item: %w", err)
	}
	return affected(result)
}

func (s *ListStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return affected(result)
}

func (s *ListStore) ClearChecked(ctx context.Context, listID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE list_id = ? AND checked = 1`,
		listID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func stringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
