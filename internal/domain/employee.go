package domain

import (
	"slices"
	"time"
)

type Position string

const (
	PositionCook      Position = "cuisinier"
	PositionWaiter    Position = "serveur"
	PositionBartender Position = "barman"
	PositionManager   Position = "manager"
	PositionHelper    Position = "aide"
	PositionCommis    Position = "commis"
)

var Positions = []Position{
	PositionCook,
	PositionWaiter,
	PositionBartender,
	PositionManager,
	PositionHelper,
	PositionCommis,
}

func (p Position) IsValid() bool {
	return slices.Contains(Positions, p)
}

const DefaultHourlyRate = 15.0

type Employee struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Position   Position  `json:"position"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	HourlyRate float64   `json:"hourlyRate"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
