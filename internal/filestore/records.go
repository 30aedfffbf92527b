package filestore

import (
	"time"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

// shiftRecord est le format d'un créneau dans shifts.json
type shiftRecord struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	Day           string    `json:"day"`
	StartHour     int       `json:"start_hour"`
	StartMinute   int       `json:"start_minute"`
	DurationHours float64   `json:"duration_hours"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type employeeRecord struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"prenom"`
	LastName   string    `json:"nom"`
	Position   string    `json:"poste"`
	Email      string    `json:"email"`
	Phone      string    `json:"telephone"`
	HourlyRate float64   `json:"taux_horaire"`
	IsActive   bool      `json:"actif"`
	CreatedAt  time.Time `json:"date_creation"`
}

func encodeShift(s *domain.Shift) shiftRecord {
	return shiftRecord{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		Day:           string(s.Day),
		StartHour:     s.StartHour,
		StartMinute:   s.StartMinute,
		DurationHours: s.DurationHours,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// decodeShift rejette tout enregistrement incomplet ou mal formé
func decodeShift(r shiftRecord) (domain.Shift, error) {
	s := domain.Shift{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Day:           domain.Day(r.Day),
		StartHour:     r.StartHour,
		StartMinute:   r.StartMinute,
		DurationHours: r.DurationHours,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if s.ID == "" || s.EmployeeID == "" {
		return domain.Shift{}, errMissingIdentifier
	}
	if err := s.WellFormed(); err != nil {
		return domain.Shift{}, err
	}
	return s, nil
}

func encodeEmployee(e *domain.Employee) employeeRecord {
	return employeeRecord{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Position:   string(e.Position),
		Email:      e.Email,
		Phone:      e.Phone,
		HourlyRate: e.HourlyRate,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
	}
}

func decodeEmployee(r employeeRecord) (domain.Employee, error) {
	if r.ID == "" {
		return domain.Employee{}, errMissingIdentifier
	}
	e := domain.Employee{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Position:   domain.Position(r.Position),
		Email:      r.Email,
		Phone:      r.Phone,
		HourlyRate: r.HourlyRate,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
	}
	if e.HourlyRate <= 0 {
		e.HourlyRate = domain.DefaultHourlyRate
	}
	return e, nil
}
