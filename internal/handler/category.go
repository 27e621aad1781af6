package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/basket/internal/backend"
	"github.com/dukerupert/basket/internal/model"
)

type CategoryHandler struct {
	svc    *backend.Service
	logger *slog.Logger
}

func NewCategoryHandler(svc *backend.Service, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, logger: logger}
}

// List returns the defaults for household_id=null, or a household's custom
// categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		cats []model.Category
		err  error
	)
	switch householdID := r.URL.Query().Get("household_id"); householdID {
	case "", "null":
		cats, err = h.svc.DefaultCategories(r.Context())
	default:
		cats, err = h.svc.HouseholdCategories(r.Context(), householdID)
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if cats == nil {
		cats = []model.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID string `json:"household_id"`
		Name        string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	c, err := h.svc.InsertCategory(r.Context(), req.HouseholdID, req.Name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reassign moves every item in the household from one category name to
// another.
func (h *CategoryHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	n, err := h.svc.ReassignItemsCategory(r.Context(), r.PathValue("id"), req.From, req.To)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
