package domain

import (
	"fmt"
	"math"
	"time"
)

const MinutesPerDay = 24 * 60

type Shift struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeID"`
	Day           Day       `json:"day"`
	StartHour     int       `json:"startHour"`
	StartMinute   int       `json:"startMinute"`
	DurationHours float64   `json:"durationHours"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ShiftChanges décrit une mise à jour partielle, un champ nil est conservé
type ShiftChanges struct {
	EmployeeID    *string
	Day           *Day
	StartHour     *int
	StartMinute   *int
	DurationHours *float64
	Notes         *string
}

// WellFormed vérifie la forme de l'enregistrement, pas les règles métier
func (s *Shift) WellFormed() error {
	if !s.Day.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDay, s.Day)
	}
	if s.StartHour < 0 || s.StartHour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, s.StartHour)
	}
	if s.StartMinute < 0 || s.StartMinute > 59 {
		return fmt.Errorf("%w: %d", ErrInvalidMinute, s.StartMinute)
	}
	if s.DurationHours <= 0 || math.IsNaN(s.DurationHours) || math.IsInf(s.DurationHours, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, s.DurationHours)
	}
	return nil
}

// Apply renvoie une copie modifiée
func (s Shift) Apply(c ShiftChanges) Shift {
	if c.EmployeeID != nil {
		s.EmployeeID = *c.EmployeeID
	}
	if c.Day != nil {
		s.Day = *c.Day
	}
	if c.StartHour != nil {
		s.StartHour = *c.StartHour
	}
	if c.StartMinute != nil {
		s.StartMinute = *c.StartMinute
	}
	if c.DurationHours != nil {
		s.DurationHours = *c.DurationHours
	}
	if c.Notes != nil {
		s.Notes = *c.Notes
	}
	return s
}

func (s *Shift) StartMinutes() int {
	return s.StartHour*60 + s.StartMinute
}

func (s *Shift) DurationMinutes() int {
	return int(math.Round(s.DurationHours * 60))
}

// EndMinutes n'est pas ramené sur 24h : il dépasse 1440 après minuit
func (s *Shift) EndMinutes() int {
	return s.StartMinutes() + s.DurationMinutes()
}

// EndTime est l'heure de fin en minutes dans la journée
func (s *Shift) EndTime() int {
	return s.EndMinutes() % MinutesPerDay
}

func (s *Shift) DecimalTime() float64 {
	return float64(s.StartHour) + float64(s.StartMinute)/60
}

func (s *Shift) FormattedTime() string {
	return FormatClock(s.StartMinutes())
}

func (s *Shift) FormattedEnd() string {
	return FormatClock(s.EndTime())
}

// OccupiedSlots parcourt la grille depuis le début par pas de granularity.
// L'heure revient à 0 après 23 mais le jour reste le même.
func (s *Shift) OccupiedSlots(granularity int) []Clock {
	if granularity <= 0 {
		return nil
	}

	slots := make([]Clock, 0, s.DurationMinutes()/granularity+1)
	hour, minute := s.StartHour, s.StartMinute
	for consumed := 0; consumed < s.DurationMinutes(); consumed += granularity {
		slots = append(slots, Clock{Hour: hour, Minute: minute})
		minute += granularity
		for minute >= 60 {
			minute -= 60
			hour = (hour + 1) % 24
		}
	}
	return slots
}

// IntersectsInTime compare les intervalles semi-ouverts du même jour, tous employés confondus
func (s *Shift) IntersectsInTime(other *Shift) bool {
	if s.Day != other.Day {
		return false
	}
	s1, e1 := s.StartMinutes(), s.EndMinutes()
	s2, e2 := other.StartMinutes(), other.EndMinutes()
	return !(e1 <= s2 || s1 >= e2)
}

// Overlaps détecte la double affectation d'un employé. Deux créneaux bout à bout ne se chevauchent pas.
func (s *Shift) Overlaps(other *Shift) bool {
	if s.EmployeeID != other.EmployeeID {
		return false
	}
	return s.IntersectsInTime(other)
}

type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return Clock{Hour: minutes / 60, Minute: minutes % 60}.String()
}

// OverlapMinutes renvoie la durée commune de deux créneaux du même jour, 0 sinon
func (s *Shift) OverlapMinutes(other *Shift) int {
	if !s.IntersectsInTime(other) {
		return 0
	}
	return min(s.EndMinutes(), other.EndMinutes()) - max(s.StartMinutes(), other.StartMinutes())
}
