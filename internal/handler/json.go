package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("erreur interne", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("corps de requête JSON invalide")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusNotFound, msg)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "erreur interne du serveur",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// planningError traduit les erreurs du moteur : les violations sont renvoyées
// au client avec le détail de chaque règle non respectée.
func (h *Handler) planningError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(w, r, http.StatusBadRequest, Response{
			Success: false,
			Message: validationErr.Error(),
			Data:    validationErr.Violations,
		})
	case errors.Is(err, domain.ErrShiftNotFound):
		h.notFound(w, r, "créneau introuvable")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		h.notFound(w, r, "employé introuvable")
	case errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, domain.ErrInvalidHour),
		errors.Is(err, domain.ErrInvalidMinute),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, timegrid.ErrInvalidGranularity):
		h.badRequest(w, r, err)
	default:
		h.internalServerError(w, r, err)
	}
}
