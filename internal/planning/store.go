package planning

import "github.com/resto-planning/shift-planner/backend/internal/domain"

// ShiftStore est la couche de persistance des créneaux.
// Replace(id, nil) supprime, Replace(id, s) crée ou remplace. L'écriture doit être
// synchrone : une erreur signifie que rien n'a été persisté.
// Les tranches et créneaux renvoyés appartiennent à l'appelant.
// ShiftByID renvoie domain.ErrShiftNotFound pour un identifiant inconnu.
type ShiftStore interface {
	AllShifts() ([]*domain.Shift, error)
	AllShiftsForEmployee(employeeID string) ([]*domain.Shift, error)
	ShiftByID(shiftID string) (*domain.Shift, error)
	Replace(shiftID string, shift *domain.Shift) error
}

// EmployeeDirectory renvoie domain.ErrEmployeeNotFound pour un identifiant inconnu
type EmployeeDirectory interface {
	Lookup(employeeID string) (*domain.Employee, error)
	AllEmployees() ([]*domain.Employee, error)
	DeactivateEmployee(employeeID string) error
}

// Notifier est prévenu après chaque écriture validée
type Notifier interface {
	ShiftChanged(kind string, employee *domain.Employee, shift *domain.Shift) error
}
