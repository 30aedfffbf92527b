package domain

import (
	"fmt"
	"strings"
)

type ViolationKind string

const (
	EmployeeNotFound    ViolationKind = "EmployeeNotFound"
	EmployeeInactive    ViolationKind = "EmployeeInactive"
	DurationOutOfRange  ViolationKind = "DurationOutOfRange"
	GranularityMismatch ViolationKind = "GranularityMismatch"
	OutsideOpeningHours ViolationKind = "OutsideOpeningHours"
	SameDayConflict     ViolationKind = "SameDayConflict"
	WeeklyCapExceeded   ViolationKind = "WeeklyCapExceeded"
	InsufficientRest    ViolationKind = "InsufficientRest"
)

// Violation est une règle métier non respectée par un créneau candidat.
// Value et Limit portent les grandeurs comparées (heures ou minutes selon Kind).
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Message  string        `json:"message"`
	ShiftIDs []string      `json:"shiftIDs,omitempty"`
	Value    float64       `json:"value,omitempty"`
	Limit    float64       `json:"limit,omitempty"`
}

// ValidationError regroupe toutes les violations d'une même proposition
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("créneau refusé: %s", strings.Join(msgs, "; "))
}

func (e *ValidationError) Has(kind ViolationKind) bool {
	for _, v := range e.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func (e *ValidationError) Kinds() []ViolationKind {
	kinds := make([]ViolationKind, 0, len(e.Violations))
	for _, v := range e.Violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}
