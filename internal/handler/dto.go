package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

// money renders an amount as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type itemResponse struct {
	ID           string      `json:"id"`
	ListID       string      `json:"list_id"`
	ProductName  string      `json:"product_name"`
	Quantity     int64       `json:"quantity"`
	UnitPrice    json.Number `json:"unit_price"`
	Checked      bool        `json:"checked"`
	CategoryID   *string     `json:"category_id"`
	CategoryName *string     `json:"category_name"`
	Subtotal     json.Number `json:"subtotal"`
	CreatedAt    time.Time   `json:"created_at"`
}

type listResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	HasPrice  bool           `json:"has_price"`
	CreatedAt time.Time      `json:"created_at"`
	Items     []itemResponse `json:"items"`
	Total     json.Number    `json:"total"`
	ItemCount int            `json:"item_count"`
}

func toItemResponse(it model.Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		ListID:       it.ListID,
		ProductName:  it.ProductName,
		Quantity:     it.Quantity,
		UnitPrice:    money(it.UnitPrice),
		Checked:      it.Checked,
		CategoryID:   it.CategoryID,
		CategoryName: it.CategoryName,
		Subtotal:     money(it.Subtotal),
		CreatedAt:    it.CreatedAt,
	}
}

func toItemResponses(items []model.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toListResponse(l model.List) listResponse {
	return listResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Name:      l.Name,
		HasPrice:  l.HasPrice,
		CreatedAt: l.CreatedAt,
		Items:     toItemResponses(l.Items),
		Total:     money(l.Total),
		ItemCount: l.ItemCount,
	}
}
