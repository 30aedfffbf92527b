package planning

import (
	"slices"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

// Aggregate calcule les totaux d'heures et de coût d'un ensemble de créneaux.
// Les heures d'un employé inconnu sont comptées mais pas valorisées :
// son identifiant apparaît alors dans UnpricedEmployeeIDs.
func Aggregate(shifts []*domain.Shift, employees []*domain.Employee) *domain.AggregateReport {
	rates := make(map[string]float64, len(employees))
	for _, e := range employees {
		rates[e.ID] = e.HourlyRate
	}

	report := &domain.AggregateReport{
		PerEmployeeHours:    make(map[string]float64),
		PerEmployeeCost:     make(map[string]float64),
		Daily:               make(map[domain.Day]*domain.DailyStats, len(domain.Week)),
		UnpricedEmployeeIDs: make([]string, 0),
	}
	for _, day := range domain.Week {
		report.Daily[day] = &domain.DailyStats{EmployeeIDs: make([]string, 0)}
	}

	for _, s := range shifts {
		report.TotalShifts++
		report.TotalHours += s.DurationHours
		report.PerEmployeeHours[s.EmployeeID] += s.DurationHours

		if daily, ok := report.Daily[s.Day]; ok {
			daily.ShiftsCount++
			daily.TotalHours += s.DurationHours
			if !slices.Contains(daily.EmployeeIDs, s.EmployeeID) {
				daily.EmployeeIDs = append(daily.EmployeeIDs, s.EmployeeID)
			}
		}
	}

	for employeeID, hours := range report.PerEmployeeHours {
		rate, ok := rates[employeeID]
		if !ok {
			report.UnpricedEmployeeIDs = append(report.UnpricedEmployeeIDs, employeeID)
			continue
		}
		cost := hours * rate
		report.PerEmployeeCost[employeeID] = cost
		report.TotalCost += cost
	}
	slices.Sort(report.UnpricedEmployeeIDs)
	for _, daily := range report.Daily {
		slices.Sort(daily.EmployeeIDs)
	}

	report.ActiveEmployeeCount = len(report.PerEmployeeHours)
	if report.ActiveEmployeeCount > 0 {
		report.AverageHoursPerActiveEmployee = report.TotalHours / float64(report.ActiveEmployeeCount)
	}

	return report
}

// EmployeeSummary calcule les statistiques d'un seul employé. shifts ne contient que ses créneaux.
func EmployeeSummary(employee *domain.Employee, shifts []*domain.Shift) *domain.EmployeeStats {
	stats := &domain.EmployeeStats{
		EmployeeID: employee.ID,
		DailyHours: make(map[domain.Day]float64, len(domain.Week)),
	}
	for _, day := range domain.Week {
		stats.DailyHours[day] = 0
	}

	for _, s := range shifts {
		stats.ShiftsCount++
		stats.TotalHours += s.DurationHours
		stats.DailyHours[s.Day] += s.DurationHours
	}

	if stats.ShiftsCount > 0 {
		stats.AverageShiftDuration = stats.TotalHours / float64(stats.ShiftsCount)
	}
	stats.Cost = stats.TotalHours * employee.HourlyRate

	return stats
}
