package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
)

// CategoryHandler manages the shared category catalog.
type CategoryHandler struct {
	categories *store.CategoryStore
	logger     *slog.Logger
}

func NewCategoryHandler(cs *store.CategoryStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: cs, logger: logger}
}

// requireCaller rejects anonymous requests. The catalog is shared, so every
// route, reads included, needs an identified caller.
func requireCaller(w http.ResponseWriter, r *http.Request) bool {
	if auth.UserID(r.Context()) == "" {
		writeErrorMessage(w, http.StatusBadRequest, shopping.ErrMissingCaller.Error())
		return false
	}
	return true
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "list categories", err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	c, err := h.categories.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, "get category", err)
		return
	}
	if c == nil {
		writeErrorMessage(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeErrorMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	c := model.Category{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	if err := h.categories.Create(r.Context(), c); err != nil {
		writeError(w, r, h.logger, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeErrorMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := h.categories.Update(r.Context(), r.PathValue("id"), name)
	if err != nil {
		writeError(w, r, h.logger, "update category", err)
		return
	}
	if c == nil {
		writeErrorMessage(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	ok, err := h.categories.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, "delete category", err)
		return
	}
	if !ok {
		writeErrorMessage(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
