package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// TransactionHandler exposes the transaction operations of the ledger store.
type TransactionHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(store *ledger.Store, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{store: store, log: log}
}

type CreateTransactionRequest struct {
	Type        ledger.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	AccountID   string                 `json:"accountId"`
	ToAccountID string                 `json:"toAccountId,omitempty"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        string                 `json:"date,omitempty"` // YYYY-MM-DD
}

// HandleTransactions routes collection-level requests.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransactionByID routes requests for a specific transaction.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleList returns transactions most-recent-first with limit/offset
// pagination.
func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	txs := h.store.Transactions()

	offset := parseIntQuery(r, "offset", 0)
	limit := parseIntQuery(r, "limit", len(txs))
	if offset > len(txs) {
		offset = len(txs)
	}
	end := offset + limit
	if end > len(txs) {
		end = len(txs)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs[offset:end],
		"total":        len(txs),
	})
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "Invalid date (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	tx, err := h.store.AddTransaction(r.Context(), ledger.CreateTransactionParams{
		Type:        req.Type,
		Amount:      req.Amount,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to record transaction")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, _ *http.Request, id string) {
	for _, tx := range h.store.Transactions() {
		if tx.ID == id {
			writeJSON(w, http.StatusOK, tx)
			return
		}
	}
	http.Error(w, "Transaction not found", http.StatusNotFound)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteTransaction(r.Context(), id); err != nil {
		h.log.Error().Err(err).Str("transaction", id).Msg("failed to delete transaction")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseIntQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
