package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// GoalHandler exposes the savings goal operations of the ledger store.
type GoalHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(store *ledger.Store, log zerolog.Logger) *GoalHandler {
	return &GoalHandler{store: store, log: log}
}

type CreateGoalRequest struct {
	Name     string     `json:"name"`
	Target   int64      `json:"target"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

type UpdateGoalRequest struct {
	Name     *string    `json:"name,omitempty"`
	Target   *int64     `json:"target,omitempty"`
	Saved    *int64     `json:"saved,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// HandleGoals routes collection-level requests.
func (h *GoalHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Goals())
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleGoalByID routes requests for a specific goal.
func (h *GoalHandler) HandleGoalByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
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

func (h *GoalHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.store.AddGoal(r.Context(), ledger.CreateGoalParams{
		Name:     req.Name,
		Target:   req.Target,
		Deadline: req.Deadline,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create goal")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GoalHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateGoal(r.Context(), id, ledger.UpdateGoalParams{
		Name:     req.Name,
		Target:   req.Target,
		Saved:    req.Saved,
		Deadline: req.Deadline,
	})
	if err != nil {
		h.log.Error().Err(err).Str("goal", id).Msg("failed to update goal")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteGoal(r.Context(), id); err != nil {
		h.log.Error().Err(err).Str("goal", id).Msg("failed to delete goal")
		http.Error(w, err.Error(), mutationStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
