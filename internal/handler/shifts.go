package handler

import (
	"fmt"
	"net/http"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	day := domain.Day(r.URL.Query().Get("day"))
	if day != "" && !day.IsValid() {
		h.badRequest(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidDay, day))
		return
	}

	shifts, err := h.engine.ListShifts(employeeID, day)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "liste des créneaux récupérée", shifts)
}

type shiftRequest struct {
	EmployeeID    string   `json:"employeeID" validate:"required"`
	Day           string   `json:"day" validate:"required,weekday"`
	StartHour     *int     `json:"startHour" validate:"required,gte=0,lte=23"`
	StartMinute   *int     `json:"startMinute" validate:"required,gte=0,lte=59"`
	DurationHours *float64 `json:"durationHours" validate:"required,gt=0"`
}

func (h *Handler) ProposeShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		shiftRequest
		Notes string `json:"notes" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id, err := h.engine.ProposeShift(domain.Shift{
		EmployeeID:    req.EmployeeID,
		Day:           domain.Day(req.Day),
		StartHour:     *req.StartHour,
		StartMinute:   *req.StartMinute,
		DurationHours: *req.DurationHours,
		Notes:         req.Notes,
	})
	if err != nil {
		h.planningError(w, r, err)
		return
	}

	shift, err := h.engine.GetShift(id)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "créneau créé", shift)
}

// CheckConflicts ne modifie rien : il liste les créneaux que la proposition chevaucherait
func (h *Handler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		shiftRequest
		ExcludeShiftID string `json:"excludeShiftID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	conflicts, err := h.engine.ConflictsFor(req.EmployeeID, domain.Day(req.Day), *req.StartHour, *req.StartMinute, *req.DurationHours, req.ExcludeShiftID)
	if err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "conflits vérifiés", map[string]any{
		"hasConflicts": len(conflicts) > 0,
		"conflicts":    conflicts,
	})
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	h.successResponse(w, r, "créneau récupéré", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		EmployeeID    *string  `json:"employeeID" validate:"omitnil,min=1"`
		Day           *string  `json:"day" validate:"omitnil,weekday"`
		StartHour     *int     `json:"startHour" validate:"omitnil,gte=0,lte=23"`
		StartMinute   *int     `json:"startMinute" validate:"omitnil,gte=0,lte=59"`
		DurationHours *float64 `json:"durationHours" validate:"omitnil,gt=0"`
		Notes         *string  `json:"notes" validate:"omitnil,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	changes := domain.ShiftChanges{
		EmployeeID:    req.EmployeeID,
		StartHour:     req.StartHour,
		StartMinute:   req.StartMinute,
		DurationHours: req.DurationHours,
		Notes:         req.Notes,
	}
	if req.Day != nil {
		day := domain.Day(*req.Day)
		changes.Day = &day
	}

	if err := h.engine.UpdateShift(shift.ID, changes); err != nil {
		h.planningError(w, r, err)
		return
	}

	updated, err := h.engine.GetShift(shift.ID)
	if err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "créneau modifié", updated)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.engine.DeleteShift(shift.ID); err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "créneau supprimé", nil)
}
