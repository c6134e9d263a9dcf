package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// BudgetHandler exposes the budget operations of the ledger store.
type BudgetHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(store *ledger.Store, log zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{store: store, log: log}
}

type CreateBudgetRequest struct {
	Category string `json:"category"`
	Target   int64  `json:"target"`
	Period   string `json:"period,omitempty"`
}

type UpdateBudgetRequest struct {
	Category *string `json:"category,omitempty"`
	Target   *int64  `json:"target,omitempty"`
	Period   *string `json:"period,omitempty"`
}

// HandleBudgets routes collection-level requests.
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Budgets())
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBudgetByID routes requests for a specific budget.
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Budget ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BudgetHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, err := h.store.AddBudget(r.Context(), ledger.CreateBudgetParams{
		Category: req.Category,
		Target:   req.Target,
		Period:   req.Period,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create budget")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BudgetHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateBudget(r.Context(), id, ledger.UpdateBudgetParams{
		Category: req.Category,
		Target:   req.Target,
		Period:   req.Period,
	})
	if err != nil {
		h.log.Error().Err(err).Str("budget", id).Msg("failed to update budget")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BudgetHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteBudget(r.Context(), id); err != nil {
		h.log.Error().Err(err).Str("budget", id).Msg("failed to delete budget")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
