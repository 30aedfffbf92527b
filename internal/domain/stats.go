package domain

type DailyStats struct {
	ShiftsCount int      `json:"shiftsCount"`
	TotalHours  float64  `json:"totalHours"`
	EmployeeIDs []string `json:"employeeIDs"`
}

type AggregateReport struct {
	TotalHours                    float64             `json:"totalHours"`
	TotalCost                     float64             `json:"totalCost"`
	TotalShifts                   int                 `json:"totalShifts"`
	PerEmployeeHours              map[string]float64  `json:"perEmployeeHours"`
	PerEmployeeCost               map[string]float64  `json:"perEmployeeCost"`
	ActiveEmployeeCount           int                 `json:"activeEmployeeCount"`
	AverageHoursPerActiveEmployee float64             `json:"averageHoursPerActiveEmployee"`
	Daily                         map[Day]*DailyStats `json:"daily"`
	UnpricedEmployeeIDs           []string            `json:"unpricedEmployeeIDs"`
}

type EmployeeStats struct {
	EmployeeID           string          `json:"employeeID"`
	TotalHours           float64         `json:"totalHours"`
	ShiftsCount          int             `json:"shiftsCount"`
	DailyHours           map[Day]float64 `json:"dailyHours"`
	AverageShiftDuration float64         `json:"averageShiftDuration"`
	Cost                 float64         `json:"cost"`
}

// SlotUsage compte, pour chaque jour, les créneaux occupant chaque case de la grille
type SlotUsage map[Day]map[string]int
