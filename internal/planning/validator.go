package planning

import (
	"fmt"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

// Rules regroupe les limites du droit du travail appliquées aux créneaux, en heures
type Rules struct {
	MinShiftDuration float64
	MaxShiftDuration float64
	MaxWeeklyHours   float64
	MinRestPeriod    float64
	// WrapWeekForRest compare aussi Dimanche et Lundi pour le repos
	WrapWeekForRest bool
	// RestFromElapsedTime mesure le repos en temps réellement écoulé au lieu de
	// comparer les heures de fin et de début sur une horloge de 24h
	RestFromElapsedTime bool
}

func DefaultRules() Rules {
	return Rules{
		MinShiftDuration: 1,
		MaxShiftDuration: 12,
		MaxWeeklyHours:   35,
		MinRestPeriod:    11,
	}
}

type Validator struct {
	rules Rules
	grid  *timegrid.Grid
}

func NewValidator(rules Rules, grid *timegrid.Grid) *Validator {
	return &Validator{rules: rules, grid: grid}
}

func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate applique toutes les règles et renvoie chaque violation trouvée, dans l'ordre :
// employé, durée, grille, chevauchement, plafond hebdomadaire, repos.
// employee vaut nil si l'employé est inconnu. employeeShifts contient tous les créneaux
// de la semaine de cet employé, excludeID désigne la version précédente en cas de mise à jour.
func (v *Validator) Validate(candidate *domain.Shift, employee *domain.Employee, employeeShifts []*domain.Shift, excludeID string) []domain.Violation {
	violations := make([]domain.Violation, 0)

	switch {
	case employee == nil:
		violations = append(violations, domain.Violation{
			Kind:    domain.EmployeeNotFound,
			Message: fmt.Sprintf("l'employé %s n'existe pas", candidate.EmployeeID),
		})
	case !employee.IsActive:
		violations = append(violations, domain.Violation{
			Kind:    domain.EmployeeInactive,
			Message: fmt.Sprintf("l'employé %s est désactivé", employee.FullName()),
		})
	}

	if candidate.DurationHours < v.rules.MinShiftDuration || candidate.DurationHours > v.rules.MaxShiftDuration {
		limit := v.rules.MaxShiftDuration
		if candidate.DurationHours < v.rules.MinShiftDuration {
			limit = v.rules.MinShiftDuration
		}
		violations = append(violations, domain.Violation{
			Kind:    domain.DurationOutOfRange,
			Message: fmt.Sprintf("la durée doit être comprise entre %gh et %gh", v.rules.MinShiftDuration, v.rules.MaxShiftDuration),
			Value:   candidate.DurationHours,
			Limit:   limit,
		})
	}

	violations = append(violations, v.checkGrid(candidate)...)

	others := make([]*domain.Shift, 0, len(employeeShifts))
	for _, s := range employeeShifts {
		if s.EmployeeID != candidate.EmployeeID {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		others = append(others, s)
	}

	if conflicts := FindConflicts(candidate, others, ""); len(conflicts) > 0 {
		ids := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			ids = append(ids, c.ID)
		}
		violations = append(violations, domain.Violation{
			Kind:     domain.SameDayConflict,
			Message:  fmt.Sprintf("chevauchement avec %d créneau(x) le %s", len(conflicts), candidate.Day),
			ShiftIDs: ids,
		})
	}

	if violation, ok := v.checkWeeklyCap(candidate, others); !ok {
		violations = append(violations, violation)
	}

	violations = append(violations, v.checkRest(candidate, others)...)

	return violations
}

func (v *Validator) checkGrid(candidate *domain.Shift) []domain.Violation {
	violations := make([]domain.Violation, 0)

	if granularity := v.grid.Granularity(); !v.grid.IsOnGrid(candidate.StartMinute) {
		violations = append(violations, domain.Violation{
			Kind:    domain.GranularityMismatch,
			Message: fmt.Sprintf("la minute %d ne respecte pas la granularité de %s", candidate.StartMinute, timegrid.GranularityLabel(granularity)),
			Value:   float64(candidate.StartMinute),
			Limit:   float64(granularity),
		})
	}

	if !v.grid.IsServiceHour(candidate.StartHour) {
		violations = append(violations, domain.Violation{
			Kind:    domain.OutsideOpeningHours,
			Message: fmt.Sprintf("%dh est en dehors des heures d'ouverture", candidate.StartHour),
			Value:   float64(candidate.StartHour),
		})
	}

	return violations
}

// checkWeeklyCap additionne en minutes pour éviter les erreurs d'arrondi
func (v *Validator) checkWeeklyCap(candidate *domain.Shift, others []*domain.Shift) (domain.Violation, bool) {
	total := candidate.DurationMinutes()
	for _, s := range others {
		total += s.DurationMinutes()
	}

	totalHours := float64(total) / 60
	if totalHours <= v.rules.MaxWeeklyHours {
		return domain.Violation{}, true
	}

	return domain.Violation{
		Kind:    domain.WeeklyCapExceeded,
		Message: fmt.Sprintf("%gh planifiées dans la semaine, maximum %gh", totalHours, v.rules.MaxWeeklyHours),
		Value:   totalHours,
		Limit:   v.rules.MaxWeeklyHours,
	}, false
}

// checkRest compare le candidat aux créneaux de la veille et du lendemain.
// Par défaut le repos se calcule sur une horloge de 24h : l'heure de fin est ramenée
// dans la journée puis comparée à l'heure de début du lendemain.
func (v *Validator) checkRest(candidate *domain.Shift, others []*domain.Shift) []domain.Violation {
	violations := make([]domain.Violation, 0)
	minRest := int(v.rules.MinRestPeriod * 60)

	prev, hasPrev := candidate.Day.Previous(v.rules.WrapWeekForRest)
	next, hasNext := candidate.Day.Next(v.rules.WrapWeekForRest)

	for _, s := range others {
		var gap int
		switch {
		case hasPrev && s.Day == prev:
			gap = v.restGap(s, candidate)
		case hasNext && s.Day == next:
			gap = v.restGap(candidate, s)
		default:
			continue
		}

		if gap < minRest {
			violations = append(violations, domain.Violation{
				Kind:     domain.InsufficientRest,
				Message:  fmt.Sprintf("repos de %s seulement avec le créneau du %s, minimum %gh", formatGap(gap), s.Day, v.rules.MinRestPeriod),
				ShiftIDs: []string{s.ID},
				Value:    float64(gap) / 60,
				Limit:    v.rules.MinRestPeriod,
			})
		}
	}

	return violations
}

// restGap renvoie les minutes de repos entre first et second, placé le lendemain
func (v *Validator) restGap(first, second *domain.Shift) int {
	if v.rules.RestFromElapsedTime {
		return second.StartMinutes() + domain.MinutesPerDay - first.EndMinutes()
	}
	return wrappedGap(first.EndTime(), second.StartMinutes())
}

func wrappedGap(end, nextStart int) int {
	if end <= nextStart {
		return nextStart - end
	}
	return domain.MinutesPerDay - end + nextStart
}

func formatGap(minutes int) string {
	if minutes < 0 {
		return "0h"
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
