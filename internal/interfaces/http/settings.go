package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// SettingsHandler exposes the active currency and the ledger summary.
type SettingsHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(store *ledger.Store, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, log: log}
}

type SetCurrencyRequest struct {
	Code string `json:"code"`
}

type SummaryResponse struct {
	TotalBalance          int64  `json:"totalBalance"`
	TotalBalanceFormatted string `json:"totalBalanceFormatted"`
	Currency              string `json:"currency"`
}

// HandleCurrency serves and switches the active display currency.
func (h *SettingsHandler) HandleCurrency(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		code := h.store.Currency()
		info, ok := ledger.CurrencyByCode(code)
		if !ok {
			// The active code is always validated on the way in, but a
			// restored snapshot may carry a code we no longer register.
			info = ledger.CurrencyInfo{Code: code}
		}
		writeJSON(w, http.StatusOK, info)
	case http.MethodPut:
		var req SetCurrencyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := h.store.SetCurrency(r.Context(), req.Code); err != nil {
			h.log.Error().Err(err).Str("code", req.Code).Msg("failed to set currency")
			http.Error(w, err.Error(), mutationStatus(err))
			return
		}
		info, _ := ledger.CurrencyByCode(req.Code)
		writeJSON(w, http.StatusOK, info)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSummary serves the aggregate balance across non-excluded accounts.
func (h *SettingsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	total := h.store.TotalBalance()
	writeJSON(w, http.StatusOK, SummaryResponse{
		TotalBalance:          total,
		TotalBalanceFormatted: h.store.FormatAmount(total),
		Currency:              h.store.Currency(),
	})
}
