package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/resto-planning/shift-planner/backend/internal/cache"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

// GetWeeklyStats passe par Redis quand il est configuré. Une panne du cache
// n'empêche pas de répondre.
func (h *Handler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	days, err := domain.ParseDays(r.URL.Query().Get("days"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var key string
	if h.statsCache != nil {
		key = cache.Key(h.engine.Epoch(), h.engine.Revision(), days)
		report, ok, err := h.statsCache.Get(key)
		if err != nil {
			slog.Warn("lecture du cache impossible", "key", key, "error", err)
		} else if ok {
			h.successResponse(w, r, "statistiques hebdomadaires récupérées", report)
			return
		}
	}

	report, err := h.engine.WeeklyStats(days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if h.statsCache != nil {
		if err := h.statsCache.Set(key, report); err != nil {
			slog.Warn("écriture du cache impossible", "key", key, "error", err)
		}
	}

	h.successResponse(w, r, "statistiques hebdomadaires récupérées", report)
}

func (h *Handler) GetSlotUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.engine.SlotUsage()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("occupation par case de %d minutes", h.engine.Grid().Granularity()), usage)
}

func (h *Handler) AuditConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.engine.AuditConflicts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "audit des conflits terminé", map[string]any{
		"total":     len(conflicts),
		"conflicts": conflicts,
	})
}
