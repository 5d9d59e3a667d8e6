package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const categoryCols = `id, name, created_at`

func (s *CategoryStore) Create(ctx context.Context, c model.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert category %q: %w", c.Name, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryCols+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CategoryByName matches case-insensitively.
func (s *CategoryStore) CategoryByName(ctx context.Context, name string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE lower(name) = ?`,
		strings.ToLower(strings.TrimSpace(name)),
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// CategoryName resolves an id to its display name. A missing category
// yields nil, never an error.
func (s *CategoryStore) CategoryName(ctx context.Context, id string) (*string, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return &c.Name, nil
}

func (s *CategoryStore) Update(ctx context.Context, id, name string) (*model.Category, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("rename category %q: %w", name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	ok, err := affected(result)
	if err != nil || !ok {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the category. Items that referenced it keep existing with a
// NULL category_id (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return affected(result)
}
