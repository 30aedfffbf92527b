package planning

import (
	"cmp"
	"slices"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

// FindConflicts renvoie les créneaux du même employé qui chevauchent candidate le même jour.
// Le créneau excludeID (celui qu'on met à jour) est ignoré.
func FindConflicts(candidate *domain.Shift, existing []*domain.Shift, excludeID string) []*domain.Shift {
	conflicts := make([]*domain.Shift, 0)
	for _, s := range existing {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if s.EmployeeID != candidate.EmployeeID {
			continue
		}
		if s.Overlaps(candidate) {
			conflicts = append(conflicts, s)
		}
	}
	sortShifts(conflicts)
	return conflicts
}

// FindAllConflicts compare toutes les paires de créneaux. Un chevauchement pour le même
// employé est grave, entre deux employés il n'est qu'informatif.
func FindAllConflicts(all []*domain.Shift) []domain.ConflictReport {
	shifts := slices.Clone(all)
	sortShifts(shifts)

	reports := make([]domain.ConflictReport, 0)
	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			a, b := shifts[i], shifts[j]
			if !a.IntersectsInTime(b) {
				continue
			}

			report := domain.ConflictReport{
				Type:           domain.ConflictScheduleOverlap,
				Severity:       domain.SeverityMedium,
				Day:            a.Day,
				First:          domain.NewConflictInfo(a),
				Second:         domain.NewConflictInfo(b),
				OverlapMinutes: a.OverlapMinutes(b),
			}
			if a.EmployeeID == b.EmployeeID {
				report.Type = domain.ConflictEmployeeOverlap
				report.Severity = domain.SeverityHigh
			}
			reports = append(reports, report)
		}
	}
	return reports
}

// sortShifts trie par jour, heure de début puis identifiant
func sortShifts(shifts []*domain.Shift) {
	slices.SortFunc(shifts, func(a, b *domain.Shift) int {
		return cmp.Or(
			cmp.Compare(a.Day.Index(), b.Day.Index()),
			cmp.Compare(a.StartMinutes(), b.StartMinutes()),
			cmp.Compare(a.ID, b.ID),
		)
	})
}
