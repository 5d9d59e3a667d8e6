package shopping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

// Store is the persistence the service needs. Lookups return nil, nil when
// the row does not exist; mutations report whether a row was affected.
type Store interface {
	CreateList(ctx context.Context, l model.List) error
	GetListByID(ctx context.Context, id string) (*model.List, error)
	UpdateList(ctx context.Context, id, name string) (bool, error)
	DeleteList(ctx context.Context, id string) (bool, error)
	AddItem(ctx context.Context, item model.Item) error
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	GetItemsByListID(ctx context.Context, listID string) ([]model.Item, error)
	UpdateItem(ctx context.Context, id string, p model.ItemPatch) (bool, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
	GetListsByUserID(ctx context.Context, userID string) ([]model.ListRow, error)
	ClearChecked(ctx context.Context, listID string) (int64, error)
}

// CategoryLookup reads the category catalog.
type CategoryLookup interface {
	// CategoryName returns nil when no category has the id.
	CategoryName(ctx context.Context, id string) (*string, error)
	CategoryByName(ctx context.Context, name string) (*model.Category, error)
}

// Service runs the list and item use cases for an already-authenticated
// caller. It keeps no state between calls.
type Service struct {
	store          Store
	categories     CategoryLookup
	now            func() time.Time
	newID          func() string
	autoCategorize bool
}

type Option func(*Service)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides id generation.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithAutoCategorize assigns a catalog category from the product name when
// an added item carries none.
func WithAutoCategorize(enabled bool) Option {
	return func(s *Service) { s.autoCategorize = enabled }
}

func NewService(store Store, categories CategoryLookup, opts ...Option) *Service {
	s := &Service{
		store:      store,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireCaller(callerID string) error {
	if strings.TrimSpace(callerID) == "" {
		return ErrMissingCaller
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	return name, nil
}

// ownedList loads a list and checks it belongs to the caller.
func (s *Service) ownedList(ctx context.Context, callerID, listID string) (*model.List, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	l, err := s.store.GetListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(l, callerID); err != nil {
		return nil, err
	}
	return l, nil
}

// listItem loads an item and checks it sits in listID.
func (s *Service) listItem(ctx context.Context, listID, itemID string) (*model.Item, error) {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	if item.ListID != listID {
		return nil, fmt.Errorf("item %s in list %s: %w", itemID, listID, ErrItemListMismatch)
	}
	return item, nil
}

// categoryName resolves a referenced category, rejecting unknown ids.
func (s *Service) categoryName(ctx context.Context, id *string) (*string, error) {
	if id == nil {
		return nil, nil
	}
	name, err := s.categories.CategoryName(ctx, *id)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return nil, fmt.Errorf("unknown category %s: %w", *id, ErrInvalidInput)
	}
	return name, nil
}

func (s *Service) CreateList(ctx context.Context, callerID, name string, hasPrice bool) (*model.List, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	l := model.List{
		ID:        s.newID(),
		UserID:    callerID,
		Name:      name,
		HasPrice:  hasPrice,
		CreatedAt: s.now(),
		Items:     []model.Item{},
		Total:     decimal.Zero,
	}
	if err := s.store.CreateList(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Service) AddItem(ctx context.Context, callerID, listID string, in model.NewItem) (*model.Item, error) {
	l, err := s.ownedList(ctx, callerID, listID)
	if err != nil {
		return nil, err
	}

	productName := strings.TrimSpace(in.ProductName)
	if productName == "" {
		return nil, fmt.Errorf("product name is required: %w", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price must not be negative: %w", ErrInvalidInput)
	}
	unitPrice := in.UnitPrice
	if !l.HasPrice {
		unitPrice = decimal.Zero
	}

	categoryID := in.CategoryID
	if categoryID != nil && strings.TrimSpace(*categoryID) == "" {
		categoryID = nil
	}
	categoryName, err := s.categoryName(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if categoryID == nil && s.autoCategorize {
		if suggested := SuggestCategory(productName); suggested != "" {
			c, err := s.categories.CategoryByName(ctx, suggested)
			if err != nil {
				return nil, err
			}
			if c != nil {
				categoryID, categoryName = &c.ID, &c.Name
			}
		}
	}

	item := model.Item{
		ID:           s.newID(),
		ListID:       l.ID,
		ProductName:  productName,
		Quantity:     in.Quantity,
		UnitPrice:    unitPrice,
		Checked:      in.Checked,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		CreatedAt:    s.now(),
	}
	if err := s.store.AddItem(ctx, item); err != nil {
		return nil, err
	}
	item = priceItem(item)
	return &item, nil
}

func (s *Service) UpdateItem(ctx context.Context, callerID, listID, itemID string, patch model.ItemPatch) (*model.Item, error) {
	l, err := s.ownedList(ctx, callerID, listID)
	if err != nil {
		return nil, err
	}
	existing, err := s.listItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}

	res, err := Resolve(*existing, patch, l.HasPrice)
	if err != nil {
		return nil, err
	}
	if res.Changes.CategoryID.Set {
		name, err := s.categoryName(ctx, res.Changes.CategoryID.Value)
		if err != nil {
			return nil, err
		}
		res.Item.CategoryName = name
	}

	ok, err := s.store.UpdateItem(ctx, itemID, res.Changes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update item %s: %w", itemID, ErrInconsistent)
	}
	return &res.Item, nil
}

func (s *Service) DeleteItem(ctx context.Context, callerID, listID, itemID string) error {
	if _, err := s.ownedList(ctx, callerID, listID); err != nil {
		return err
	}
	if _, err := s.listItem(ctx, listID, itemID); err != nil {
		return err
	}

	ok, err := s.store.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete item %s: %w", itemID, ErrInconsistent)
	}
	return nil
}

// UpdateList renames a list. The returned list carries no items; callers
// re-fetch to see them.
func (s *Service) UpdateList(ctx context.Context, callerID, listID, name string) (*model.List, error) {
	l, err := s.ownedList(ctx, callerID, listID)
	if err != nil {
		return nil, err
	}
	name, err = cleanName(name)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateList(ctx, listID, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update list %s: %w", listID, ErrInconsistent)
	}

	l.Name = name
	l.Items = []model.Item{}
	l.Total = decimal.Zero
	l.ItemCount = 0
	return l, nil
}

func (s *Service) DeleteList(ctx context.Context, callerID, listID string) error {
	if _, err := s.ownedList(ctx, callerID, listID); err != nil {
		return err
	}

	ok, err := s.store.DeleteList(ctx, listID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete list %s: %w", listID, ErrInconsistent)
	}
	return nil
}

// GetLists returns every list the caller owns, oldest first.
func (s *Service) GetLists(ctx context.Context, callerID string) ([]model.List, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	rows, err := s.store.GetListsByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	lists := Aggregate(rows)
	if lists == nil {
		lists = []model.List{}
	}
	return lists, nil
}

func (s *Service) GetList(ctx context.Context, callerID, listID string) (*model.List, error) {
	l, err := s.ownedList(ctx, callerID, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.GetItemsByListID(ctx, listID)
	if err != nil {
		return nil, err
	}
	out := summarize(*l, items)
	return &out, nil
}

func (s *Service) GetItems(ctx context.Context, callerID, listID string) ([]model.Item, error) {
	if _, err := s.ownedList(ctx, callerID, listID); err != nil {
		return nil, err
	}
	items, err := s.store.GetItemsByListID(ctx, listID)
	if err != nil {
		return nil, err
	}
	priced := make([]model.Item, 0, len(items))
	for _, it := range items {
		priced = append(priced, priceItem(it))
	}
	return priced, nil
}

// ClearChecked removes every checked item from the list and reports how many
// went.
func (s *Service) ClearChecked(ctx context.Context, callerID, listID string) (int64, error) {
	if _, err := s.ownedList(ctx, callerID, listID); err != nil {
		return 0, err
	}
	return s.store.ClearChecked(ctx, listID)
}
