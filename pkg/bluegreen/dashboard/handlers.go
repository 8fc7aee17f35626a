package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

type HealthStatus struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, h.logger, http.StatusOK, HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentStatus),
	}

	if h.recorder != nil {
		if _, err := h.recorder.RecentErrors(1); err != nil {
			status.Components["journal"] = ComponentStatus{Status: "unhealthy", Message: err.Error()}
			status.Status = "unhealthy"
		} else {
			status.Components["journal"] = ComponentStatus{Status: "healthy"}
		}
	} else {
		status.Components["journal"] = ComponentStatus{
			Status:  "unhealthy",
			Message: "Journal not initialized",
		}
		status.Status = "unhealthy"
	}

	if h.rollouts != nil {
		status.Components["kubernetes"] = ComponentStatus{Status: "healthy"}
	} else {
		status.Components["kubernetes"] = ComponentStatus{
			Status:  "unhealthy",
			Message: "Rollout client not initialized",
		}
		status.Status = "unhealthy"
	}

	statusCode := http.StatusOK
	if status.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSONResponse(w, h.logger, statusCode, status)
}

func (h *Handler) RolloutStatus(w http.ResponseWriter, r *http.Request) {
	if h.rollouts == nil {
		WriteError(w, h.logger, fmt.Errorf("%w: rollout client not available", apperrors.ErrKubernetes))
		return
	}

	namespace := r.URL.Query().Get("namespace")
	if namespace == "" {
		namespace = h.config.Namespace
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = h.config.Rollout
	}

	status, err := h.rollouts.Status(r.Context(), namespace, name)
	if err != nil {
		h.logger.Error(err, "failed to read rollout status", "namespace", namespace, "name", name)
		WriteError(w, h.logger, err)
		return
	}

	WriteJSONResponse(w, h.logger, http.StatusOK, status)
}

func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		WriteError(w, h.logger, fmt.Errorf("%w: journal not available", apperrors.ErrStorage))
		return
	}

	filters, err := parseJournalFilters(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	entries, err := h.recorder.List(filters)
	if err != nil {
		h.logger.Error(err, "failed to list journal entries")
		WriteError(w, h.logger, err)
		return
	}

	WriteJSONResponse(w, h.logger, http.StatusOK, entries)
}

func (h *Handler) RecentErrors(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		WriteError(w, h.logger, fmt.Errorf("%w: journal not available", apperrors.ErrStorage))
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			WriteError(w, h.logger, fmt.Errorf("%w: limit must be a positive integer", apperrors.ErrInvalid))
			return
		}
		limit = parsed
	}

	entries, err := h.recorder.RecentErrors(limit)
	if err != nil {
		h.logger.Error(err, "failed to get recent errors")
		WriteError(w, h.logger, err)
		return
	}

	WriteJSONResponse(w, h.logger, http.StatusOK, entries)
}

func (h *Handler) CleanupJournal(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		WriteError(w, h.logger, fmt.Errorf("%w: journal not available", apperrors.ErrStorage))
		return
	}

	beforeStr := r.URL.Query().Get("before")
	if beforeStr == "" {
		WriteError(w, h.logger, fmt.Errorf("%w: before parameter is required", apperrors.ErrInvalid))
		return
	}

	before, err := time.Parse(time.RFC3339, beforeStr)
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: before must be an RFC3339 timestamp: %w", apperrors.ErrInvalid, err))
		return
	}

	if err := h.recorder.Cleanup(before); err != nil {
		h.logger.Error(err, "failed to clean up journal")
		WriteError(w, h.logger, err)
		return
	}

	WriteJSONResponse(w, h.logger, http.StatusOK, map[string]string{"status": "cleaned"})
}

func parseJournalFilters(r *http.Request) (journal.Filters, error) {
	var filters journal.Filters

	q := r.URL.Query()
	filters.Subject = q.Get("subject")
	filters.Op = q.Get("op")
	filters.Level = journal.Level(q.Get("level"))

	if sinceStr := q.Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return filters, fmt.Errorf("%w: since must be an RFC3339 timestamp: %w", apperrors.ErrInvalid, err)
		}
		filters.Since = since
	}
	if untilStr := q.Get("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return filters, fmt.Errorf("%w: until must be an RFC3339 timestamp: %w", apperrors.ErrInvalid, err)
		}
		filters.Until = until
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return filters, fmt.Errorf("%w: limit must be a positive integer", apperrors.ErrInvalid)
		}
		filters.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filters, fmt.Errorf("%w: offset must be a non-negative integer", apperrors.ErrInvalid)
		}
		filters.Offset = offset
	}

	return filters, nil
}
