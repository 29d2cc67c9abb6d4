package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalweek/goalweek/internal/ctxkeys"
	"github.com/goalweek/goalweek/internal/repository"
	"github.com/goalweek/goalweek/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Title                  string `json:"title"`
	DesiredWeeklyFrequency int    `json:"desiredWeeklyFrequency"`
}

type createCompletionRequest struct {
	GoalID string `json:"goalId"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errMalformedBody.Error())
		return
	}

	goal, err := h.goalService.CreateGoal(r.Context(), req.Title, req.DesiredWeeklyFrequency)
	if errors.Is(err, service.ErrValidation) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create goal", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, "failed to create goal")
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{"goal": goal})
}

func (h *GoalHandler) CreateCompletion(w http.ResponseWriter, r *http.Request) {
	var req createCompletionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errMalformedBody.Error())
		return
	}

	snapshot, err := h.goalService.RecordCompletion(r.Context(), req.GoalID)
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, repository.ErrGoalNotFound):
		writeError(w, r, http.StatusNotFound, repository.ErrGoalNotFound.Error())
		return
	case errors.Is(err, service.ErrQuotaExceeded):
		writeError(w, r, http.StatusConflict, service.ErrQuotaExceeded.Error())
		return
	case err != nil:
		slog.Error("failed to record completion", "error", err, "goal_id", req.GoalID, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, "failed to record completion")
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{"goalCompletion": snapshot})
}

func (h *GoalHandler) PendingGoals(w http.ResponseWriter, r *http.Request) {
	pending, err := h.goalService.PendingGoals(r.Context())
	if err != nil {
		slog.Error("failed to load pending goals", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, "failed to load pending goals")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"pendingGoals": pending})
}

func (h *GoalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.goalService.WeekSummary(r.Context())
	if err != nil {
		slog.Error("failed to load week summary", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, "failed to load week summary")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"summary": summary})
}
