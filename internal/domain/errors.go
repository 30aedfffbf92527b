package domain

import "errors"

var (
	ErrShiftNotFound     = errors.New("créneau introuvable")
	ErrEmployeeNotFound  = errors.New("employé introuvable")
	ErrInvalidDay        = errors.New("jour invalide")
	ErrInvalidHour       = errors.New("heure invalide")
	ErrInvalidMinute     = errors.New("minute invalide")
	ErrInvalidDuration   = errors.New("durée invalide")
	ErrPersistenceFailed = errors.New("échec de la persistance")
)
