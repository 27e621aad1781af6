package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/backend"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/receipt"
)

type GroceryHandler struct {
	svc    *backend.Service
	logger *slog.Logger
}

func NewGroceryHandler(svc *backend.Service, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{svc: svc, logger: logger}
}

func (h *GroceryHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	householdID := q.Get("household_id")
	if householdID == "" {
		writeError(w, r, h.logger, apperr.Validation("fetch lists", "household_id is required"))
		return
	}
	includeArchived, _ := strconv.ParseBool(q.Get("include_archived"))
	lists, err := h.svc.Lists(r.Context(), householdID, includeArchived)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if lists == nil {
		lists = []model.GroceryList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *GroceryHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req model.NewList
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	l, err := h.svc.InsertList(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *GroceryHandler) GetList(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetList(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *GroceryHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req model.ListPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	l, err := h.svc.UpdateList(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *GroceryHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteList(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadReceipt takes the raw image as the request body.
func (h *GroceryHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, receipt.MaxSize+1)
	url, err := h.svc.UploadReceipt(r.Context(), r.PathValue("id"), r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"receipt_url": url})
}

func (h *GroceryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Items(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *GroceryHandler) DeleteListItems(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteItemsByList(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (h *GroceryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req model.NewItem
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	item, err := h.svc.InsertItem(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req model.ItemPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
