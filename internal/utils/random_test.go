package utils

import (
	"strings"
	"testing"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

func TestGenerateRandomEmployee(t *testing.T) {
	for i := 0; i < 50; i++ {
		e := GenerateRandomEmployee("restaurant.fr")
		if e.FirstName == "" || e.LastName == "" {
			t.Fatalf("empty name: %+v", e)
		}
		if !e.Position.IsValid() {
			t.Errorf("invalid position %q", e.Position)
		}
		if !strings.HasSuffix(e.Email, "@restaurant.fr") || !strings.HasPrefix(e.Email, strings.ToLower(e.FirstName)+".") {
			t.Errorf("email = %q", e.Email)
		}
		if e.HourlyRate < 12 || e.HourlyRate > 25 {
			t.Errorf("hourly rate = %v, want within [12, 25]", e.HourlyRate)
		}
		if !e.IsActive {
			t.Error("generated employee is inactive")
		}
	}
}

func TestGenerateRandomWorkingDays(t *testing.T) {
	for i := 0; i < 50; i++ {
		days := GenerateRandomWorkingDays()
		if len(days) == 0 || len(days) > len(domain.Week) {
			t.Fatalf("len(days) = %d", len(days))
		}
		seen := make(map[domain.Day]bool)
		for _, d := range days {
			if !d.IsValid() || seen[d] {
				t.Fatalf("days = %v", days)
			}
			seen[d] = true
		}
	}
}

func TestGenerateRandomShift(t *testing.T) {
	grid, err := timegrid.New(8, 26, 30)
	if err != nil {
		t.Fatalf("timegrid.New() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		s := GenerateRandomShift("emp_1", domain.Friday, grid, 2, 8)
		if err := s.WellFormed(); err != nil {
			t.Fatalf("WellFormed() error = %v for %+v", err, s)
		}
		if !grid.IsValidSlot(s.StartHour, s.StartMinute) {
			t.Errorf("start %s is not a grid slot", s.FormattedTime())
		}
		if s.DurationHours < 2 || s.DurationHours > 8 {
			t.Errorf("duration = %v, want within [2, 8]", s.DurationHours)
		}
	}
}
