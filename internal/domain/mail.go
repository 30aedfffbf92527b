package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	MailShiftAssigned  = "shift_assigned"
	MailShiftUpdated   = "shift_updated"
	MailShiftCancelled = "shift_cancelled"
)

type ShiftMailData struct {
	FullName      string  `json:"fullName"`
	Day           Day     `json:"day"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	DurationHours float64 `json:"durationHours"`
	Notes         string  `json:"notes"`
}
