package domain

// ConflictInfo résume un créneau existant en conflit avec une proposition
type ConflictInfo struct {
	ShiftID       string  `json:"shiftID"`
	EmployeeID    string  `json:"employeeID"`
	Day           Day     `json:"day"`
	FormattedTime string  `json:"formattedTime"`
	StartHour     int     `json:"startHour"`
	StartMinute   int     `json:"startMinute"`
	DurationHours float64 `json:"durationHours"`
}

func NewConflictInfo(s *Shift) ConflictInfo {
	return ConflictInfo{
		ShiftID:       s.ID,
		EmployeeID:    s.EmployeeID,
		Day:           s.Day,
		FormattedTime: s.FormattedTime(),
		StartHour:     s.StartHour,
		StartMinute:   s.StartMinute,
		DurationHours: s.DurationHours,
	}
}

type ConflictType string

const (
	ConflictEmployeeOverlap ConflictType = "employee_overlap"
	ConflictScheduleOverlap ConflictType = "schedule_conflict"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// ConflictReport est une paire de créneaux qui se recouvrent, produite par l'audit
type ConflictReport struct {
	Type           ConflictType `json:"type"`
	Severity       Severity     `json:"severity"`
	Day            Day          `json:"day"`
	First          ConflictInfo `json:"first"`
	Second         ConflictInfo `json:"second"`
	OverlapMinutes int          `json:"overlapMinutes"`
}
