package handler

import (
	"net/http"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.backend.AllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "liste des employés récupérée", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName  string   `json:"firstName" validate:"required,max=50"`
		LastName   string   `json:"lastName" validate:"required,max=50"`
		Position   string   `json:"position" validate:"required,oneof=cuisinier serveur barman manager aide commis"`
		Email      string   `json:"email" validate:"omitempty,email"`
		Phone      string   `json:"phone" validate:"omitempty,max=20"`
		HourlyRate *float64 `json:"hourlyRate" validate:"omitnil,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := &domain.Employee{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Position:   domain.Position(req.Position),
		Email:      req.Email,
		Phone:      req.Phone,
		HourlyRate: domain.DefaultHourlyRate,
		IsActive:   true,
	}
	if req.HourlyRate != nil {
		employee.HourlyRate = *req.HourlyRate
	}

	if err := h.backend.CreateEmployee(employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employé créé", employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	h.successResponse(w, r, "employé récupéré", employee)
}

// DeactivateEmployee ne supprime pas l'employé : ses créneaux restent comptés
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.engine.DeactivateEmployee(employee.ID); err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "employé désactivé", nil)
}

func (h *Handler) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	stats, err := h.engine.EmployeeStats(employee.ID)
	if err != nil {
		h.planningError(w, r, err)
		return
	}

	h.successResponse(w, r, "statistiques de l'employé récupérées", stats)
}
