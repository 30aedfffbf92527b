package seed

import (
	"io"
	"log/slog"
	"testing"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/filestore"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

func newTestEngine(t *testing.T) (*filestore.Store, *planning.Engine) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(logger)

	st, err := filestore.Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("filestore.Open() error = %v", err)
	}
	grid, err := timegrid.New(8, 23, 15)
	if err != nil {
		t.Fatalf("timegrid.New() error = %v", err)
	}
	return st, planning.NewEngine(grid, planning.DefaultRules(), st, st, planning.WithLogger(logger))
}

func TestDemoData(t *testing.T) {
	employees, err := DemoEmployees()
	if err != nil {
		t.Fatalf("DemoEmployees() error = %v", err)
	}
	if len(employees) != 6 {
		t.Fatalf("len(employees) = %d, want 6", len(employees))
	}
	for _, e := range employees {
		if !e.Position.IsValid() || e.HourlyRate <= 0 {
			t.Errorf("invalid demo employee %+v", e)
		}
	}

	shifts, err := DemoShifts()
	if err != nil {
		t.Fatalf("DemoShifts() error = %v", err)
	}
	if len(shifts) != 9 {
		t.Fatalf("len(shifts) = %d, want 9", len(shifts))
	}
	for _, s := range shifts {
		if err := s.WellFormed(); err != nil {
			t.Errorf("demo shift %+v: %v", s, err)
		}
	}
}

func TestSeedDemoData(t *testing.T) {
	st, engine := newTestEngine(t)

	result, err := SeedDemoData(st, engine)
	if err != nil {
		t.Fatalf("SeedDemoData() error = %v", err)
	}
	// le renfort du mardi chevauche le service du midi de Pierre Martin
	if result.Employees != 6 || result.Accepted != 8 || result.Rejected != 1 {
		t.Errorf("result = %+v, want 6 employees, 8 accepted, 1 rejected", result)
	}

	conflicts, err := engine.AuditConflicts()
	if err != nil {
		t.Fatalf("AuditConflicts() error = %v", err)
	}
	for _, c := range conflicts {
		if c.Type == domain.ConflictEmployeeOverlap {
			t.Errorf("seeded data contains an employee overlap: %+v", c)
		}
	}

	// un second passage ne recrée pas les employés
	again, err := SeedDemoData(st, engine)
	if err != nil {
		t.Fatalf("second SeedDemoData() error = %v", err)
	}
	if again.Employees != 0 || again.Accepted != 0 {
		t.Errorf("second result = %+v, want nothing new", again)
	}
}

func TestSeedRandom(t *testing.T) {
	st, engine := newTestEngine(t)

	created, err := SeedRandomEmployees(st, 4, "restaurant.fr")
	if err != nil {
		t.Fatalf("SeedRandomEmployees() error = %v", err)
	}
	if created != 4 {
		t.Errorf("created = %d, want 4", created)
	}

	result, err := SeedRandomShifts(st, engine, 20)
	if err != nil {
		t.Fatalf("SeedRandomShifts() error = %v", err)
	}
	if result.Accepted+result.Rejected != 20 {
		t.Errorf("result = %+v, want 20 proposals", result)
	}

	shifts, err := st.AllShifts()
	if err != nil {
		t.Fatalf("AllShifts() error = %v", err)
	}
	if len(shifts) != result.Accepted {
		t.Errorf("stored shifts = %d, want %d", len(shifts), result.Accepted)
	}
}
