package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/metrics"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/shopping"
)

type ListHandler struct {
	svc     *shopping.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewListHandler(svc *shopping.Service, m *metrics.Metrics, logger *slog.Logger) *ListHandler {
	return &ListHandler{svc: svc, metrics: m, logger: logger}
}

type createListRequest struct {
	Name     string `json:"name"`
	HasPrice bool   `json:"has_price"`
}

type updateListRequest struct {
	Name string `json:"name"`
}

func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.svc.CreateList(r.Context(), auth.UserID(r.Context()), req.Name, req.HasPrice)
	if err != nil {
		writeError(w, r, h.logger, "create list", err)
		return
	}
	writeJSON(w, http.StatusCreated, toListResponse(*l))
}

func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.GetLists(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, "get lists", err)
		return
	}
	out := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toListResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetList(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, "get list", err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(*l))
}

func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.svc.UpdateList(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, r, h.logger, "update list", err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(*l))
}

func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteList(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, "delete list", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetItems(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, "get items", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.NewItem
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.AddItem(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, h.logger, "add item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(*item))
}

func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch model.ItemPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), r.PathValue("item_id"), patch)
	if err != nil {
		writeError(w, r, h.logger, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), r.PathValue("item_id")); err != nil {
		writeError(w, r, h.logger, "delete item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ClearChecked(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, "clear checked", err)
		return
	}
	if h.metrics != nil {
		h.metrics.ItemsCleared(n)
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}
