package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// AccountHandler exposes the account operations of the ledger store.
type AccountHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(store *ledger.Store, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{store: store, log: log}
}

// HTTP request types (transport layer concerns)

type CreateAccountRequest struct {
	Name             string             `json:"name"`
	Type             ledger.AccountType `json:"type"`
	Balance          int64              `json:"balance"`
	Currency         string             `json:"currency"`
	Icon             string             `json:"icon"`
	Color            string             `json:"color"`
	ExcludeFromTotal bool               `json:"isExcludedFromTotal"`
}

type UpdateAccountRequest struct {
	Name             *string             `json:"name,omitempty"`
	Type             *ledger.AccountType `json:"type,omitempty"`
	Balance          *int64              `json:"balance,omitempty"`
	Currency         *string             `json:"currency,omitempty"`
	Icon             *string             `json:"icon,omitempty"`
	Color            *string             `json:"color,omitempty"`
	ExcludeFromTotal *bool               `json:"isExcludedFromTotal,omitempty"`
}

// HandleAccounts routes collection-level requests.
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAccountByID routes requests for a specific account.
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPut:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Accounts())
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.store.CreateAccount(r.Context(), ledger.CreateAccountParams{
		Name:             req.Name,
		Type:             req.Type,
		Balance:          req.Balance,
		Currency:         req.Currency,
		Icon:             req.Icon,
		Color:            req.Color,
		ExcludeFromTotal: req.ExcludeFromTotal,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create account")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (h *AccountHandler) handleGet(w http.ResponseWriter, _ *http.Request, id string) {
	for _, acc := range h.store.Accounts() {
		if acc.ID == id {
			writeJSON(w, http.StatusOK, acc)
			return
		}
	}
	http.Error(w, "Account not found", http.StatusNotFound)
}

func (h *AccountHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateAccount(r.Context(), id, ledger.UpdateAccountParams{
		Name:             req.Name,
		Type:             req.Type,
		Balance:          req.Balance,
		Currency:         req.Currency,
		Icon:             req.Icon,
		Color:            req.Color,
		ExcludeFromTotal: req.ExcludeFromTotal,
	})
	if err != nil {
		h.log.Error().Err(err).Str("account", id).Msg("failed to update account")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	// Unknown id is a no-op, not an error.
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteAccount(r.Context(), id); err != nil {
		h.log.Error().Err(err).Str("account", id).Msg("failed to delete account")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
