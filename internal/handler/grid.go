package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

type gridResponse struct {
	timegrid.Info
	Hours []int           `json:"hours"`
	Slots []timegrid.Slot `json:"slots"`
}

func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	grid := h.engine.Grid()

	h.successResponse(w, r, "grille horaire récupérée", gridResponse{
		Info:  grid.Info(),
		Hours: grid.HoursRange(),
		Slots: grid.AllSlots(),
	})
}

// UpdateGranularity change le pas sans toucher aux créneaux. Les créneaux qui ne
// tombent plus sur la grille sont renvoyés pour que le client décide d'une réparation.
func (h *Handler) UpdateGranularity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Granularity int `json:"granularity" validate:"required,oneof=15 30 60"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.engine.SetGranularity(req.Granularity); err != nil {
		h.planningError(w, r, err)
		return
	}

	nonConformant, err := h.engine.ValidateAllShiftsAgainstGrid()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "granularité modifiée", map[string]any{
		"grid":          h.engine.Grid().Info(),
		"nonConformant": nonConformant,
	})
}

func (h *Handler) ValidateSlot(w http.ResponseWriter, r *http.Request) {
	hour, err := strconv.Atoi(r.URL.Query().Get("hour"))
	if err != nil {
		h.badRequest(w, r, errors.New("paramètre hour invalide"))
		return
	}
	minute, err := strconv.Atoi(r.URL.Query().Get("minute"))
	if err != nil {
		h.badRequest(w, r, errors.New("paramètre minute invalide"))
		return
	}

	grid := h.engine.Grid()
	valid := grid.IsValidSlot(hour, minute)
	data := map[string]any{
		"hour":   hour,
		"minute": minute,
		"valid":  valid,
	}
	if !valid && minute >= 0 && minute < 60 {
		data["snapped"] = grid.SnapToGrid(minute)
	}

	h.successResponse(w, r, "case horaire vérifiée", data)
}

func (h *Handler) GetNonConformantShifts(w http.ResponseWriter, r *http.Request) {
	ids, err := h.engine.ValidateAllShiftsAgainstGrid()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "créneaux hors grille récupérés", ids)
}

func (h *Handler) RepairShifts(w http.ResponseWriter, r *http.Request) {
	fixed, err := h.engine.RepairAll()
	if err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "créneaux recalés sur la grille", map[string]int{"fixed": fixed})
}

func (h *Handler) MigrateGranularity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Granularity int `json:"granularity" validate:"required,oneof=15 30 60"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	fixed, err := h.engine.MigrateGranularity(req.Granularity)
	if err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "migration de la grille terminée", map[string]any{
		"grid":  h.engine.Grid().Info(),
		"fixed": fixed,
	})
}

func (h *Handler) SuggestGranularity(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.engine.SuggestGranularity()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "suggestion de granularité calculée", suggestion)
}
