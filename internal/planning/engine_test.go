package planning

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

var testEmployees = []domain.Employee{
	{ID: "e1", FirstName: "Marie", LastName: "Dupont", Position: domain.PositionWaiter, Email: "marie.dupont@restaurant.fr", HourlyRate: 16, IsActive: true},
	{ID: "e2", FirstName: "Pierre", LastName: "Martin", Position: domain.PositionCook, Email: "pierre.martin@restaurant.fr", HourlyRate: 18, IsActive: true},
	{ID: "e3", FirstName: "Julie", LastName: "Lemaire", Position: domain.PositionBartender, HourlyRate: 17},
}

func newTestEngine(t *testing.T, store *memStore, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }),
	}
	return NewEngine(newTestGrid(t, 0, 24, 15), DefaultRules(), store, store, append(base, opts...)...)
}

func propose(t *testing.T, e *Engine, employeeID string, day domain.Day, hour, minute int, duration float64) string {
	t.Helper()
	id, err := e.ProposeShift(domain.Shift{EmployeeID: employeeID, Day: day, StartHour: hour, StartMinute: minute, DurationHours: duration})
	if err != nil {
		t.Fatalf("ProposeShift(%s %s %02d:%02d %gh) error = %v", employeeID, day, hour, minute, duration, err)
	}
	return id
}

func violationKinds(t *testing.T, err error) []domain.ViolationKind {
	t.Helper()
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want *domain.ValidationError", err)
	}
	return validationErr.Kinds()
}

func TestProposeShift(t *testing.T) {
	store := newMemStore(testEmployees...)
	notifier := &recordingNotifier{}
	e := newTestEngine(t, store, WithNotifier(notifier))

	id := propose(t, e, "e1", domain.Monday, 11, 0, 4)
	if id != "s1" {
		t.Errorf("id = %q, want s1", id)
	}

	stored, err := e.GetShift(id)
	if err != nil {
		t.Fatal(err)
	}
	if stored.EmployeeID != "e1" || stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Errorf("stored shift = %+v", stored)
	}
	if e.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", e.Revision())
	}
	if !slices.Equal(notifier.events, []string{"shift_assigned:e1:s1"}) {
		t.Errorf("notifications = %v", notifier.events)
	}
}

func TestProposeShiftRejections(t *testing.T) {
	tests := []struct {
		name     string
		employee string
		shift    domain.Shift
		want     domain.ViolationKind
	}{
		{"employé inconnu", "nobody", domain.Shift{Day: domain.Friday, StartHour: 18, DurationHours: 4}, domain.EmployeeNotFound},
		{"employé désactivé", "e3", domain.Shift{Day: domain.Friday, StartHour: 18, DurationHours: 4}, domain.EmployeeInactive},
		{"durée excessive", "e1", domain.Shift{Day: domain.Friday, StartHour: 8, DurationHours: 12.5}, domain.DurationOutOfRange},
		{"minute hors grille", "e1", domain.Shift{Day: domain.Friday, StartHour: 18, StartMinute: 20, DurationHours: 4}, domain.GranularityMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(testEmployees...)
			notifier := &recordingNotifier{}
			e := newTestEngine(t, store, WithNotifier(notifier))

			tt.shift.EmployeeID = tt.employee
			_, err := e.ProposeShift(tt.shift)
			if got := violationKinds(t, err); !slices.Contains(got, tt.want) {
				t.Errorf("violations = %v, want %s", got, tt.want)
			}
			if store.writes != 0 || e.Revision() != 0 || len(notifier.events) != 0 {
				t.Errorf("rejected shift had side effects: writes=%d revision=%d events=%v", store.writes, e.Revision(), notifier.events)
			}
		})
	}
}

func TestProposeShiftMalformed(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))

	_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: "Funday", StartHour: 10, DurationHours: 2})
	if !errors.Is(err, domain.ErrInvalidDay) {
		t.Errorf("error = %v, want ErrInvalidDay", err)
	}
	_, err = e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Monday, StartHour: 25, DurationHours: 2})
	if !errors.Is(err, domain.ErrInvalidHour) {
		t.Errorf("error = %v, want ErrInvalidHour", err)
	}
}

func TestRestPeriodAcrossDays(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))
	propose(t, e, "e1", domain.Monday, 11, 0, 4)

	_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Tuesday, StartHour: 1, DurationHours: 3})
	if got := violationKinds(t, err); !slices.Equal(got, []domain.ViolationKind{domain.InsufficientRest}) {
		t.Errorf("violations = %v, want [InsufficientRest]", got)
	}

	propose(t, e, "e1", domain.Tuesday, 2, 0, 3)
}

func TestWeeklyCapReportsTotal(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))
	for _, day := range domain.Week[:5] {
		propose(t, e, "e1", day, 10, 0, 7)
	}

	_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Saturday, StartHour: 10, DurationHours: 1})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) || len(validationErr.Violations) != 1 {
		t.Fatalf("error = %v, want a single violation", err)
	}
	v := validationErr.Violations[0]
	if v.Kind != domain.WeeklyCapExceeded || v.Value != 36 || v.Limit != 35 {
		t.Errorf("violation = %+v, want WeeklyCapExceeded 36/35", v)
	}
}

func TestUpdateShift(t *testing.T) {
	store := newMemStore(testEmployees...)
	notifier := &recordingNotifier{}
	e := newTestEngine(t, store, WithNotifier(notifier))

	first := propose(t, e, "e1", domain.Monday, 11, 0, 4)
	second := propose(t, e, "e1", domain.Monday, 16, 0, 3)

	// Déplacer le créneau d'une heure ne doit pas entrer en conflit avec lui-même
	hour := 12
	if err := e.UpdateShift(first, domain.ShiftChanges{StartHour: &hour}); err != nil {
		t.Fatalf("UpdateShift() error = %v", err)
	}

	// Allonger jusqu'à chevaucher le second créneau est refusé
	duration := 5.0
	err := e.UpdateShift(first, domain.ShiftChanges{DurationHours: &duration})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) || !validationErr.Has(domain.SameDayConflict) {
		t.Fatalf("UpdateShift() error = %v, want SameDayConflict", err)
	}
	if !slices.Equal(validationErr.Violations[0].ShiftIDs, []string{second}) {
		t.Errorf("conflicting ids = %v, want [%s]", validationErr.Violations[0].ShiftIDs, second)
	}

	stored, err := e.GetShift(first)
	if err != nil {
		t.Fatal(err)
	}
	if stored.StartHour != 12 || stored.DurationHours != 4 {
		t.Errorf("stored shift = %+v, want unchanged 12:00 4h", stored)
	}

	missing := 10
	if err := e.UpdateShift("nope", domain.ShiftChanges{StartHour: &missing}); !errors.Is(err, domain.ErrShiftNotFound) {
		t.Errorf("UpdateShift(unknown) error = %v, want ErrShiftNotFound", err)
	}

	if !slices.Contains(notifier.events, "shift_updated:e1:"+first) {
		t.Errorf("notifications = %v", notifier.events)
	}
}

func TestDeleteShiftTwice(t *testing.T) {
	notifier := &recordingNotifier{}
	e := newTestEngine(t, newMemStore(testEmployees...), WithNotifier(notifier))
	id := propose(t, e, "e2", domain.Wednesday, 10, 0, 8)

	if err := e.DeleteShift(id); err != nil {
		t.Fatalf("first DeleteShift() error = %v", err)
	}
	if err := e.DeleteShift(id); !errors.Is(err, domain.ErrShiftNotFound) {
		t.Fatalf("second DeleteShift() error = %v, want ErrShiftNotFound", err)
	}
	if !slices.Contains(notifier.events, "shift_cancelled:e2:"+id) {
		t.Errorf("notifications = %v", notifier.events)
	}
}

func TestPersistenceFailure(t *testing.T) {
	store := newMemStore(testEmployees...)
	e := newTestEngine(t, store)
	id := propose(t, e, "e1", domain.Monday, 11, 0, 4)

	store.failWrite = true

	_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Friday, StartHour: 18, DurationHours: 4})
	if !errors.Is(err, domain.ErrPersistenceFailed) || !errors.Is(err, errDiskFull) {
		t.Errorf("ProposeShift() error = %v, want ErrPersistenceFailed wrapping the store error", err)
	}
	if err := e.DeleteShift(id); !errors.Is(err, domain.ErrPersistenceFailed) {
		t.Errorf("DeleteShift() error = %v, want ErrPersistenceFailed", err)
	}

	all, _ := e.ListShifts("", "")
	if len(all) != 1 || all[0].ID != id {
		t.Errorf("shifts after failed writes = %+v", all)
	}
	if e.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", e.Revision())
	}
}

func TestNotifierFailureDoesNotFailCommit(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...), WithNotifier(&recordingNotifier{fail: true}))
	propose(t, e, "e1", domain.Monday, 11, 0, 4)
}

func TestConflictsFor(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))
	id := propose(t, e, "e1", domain.Monday, 11, 0, 4)
	propose(t, e, "e2", domain.Monday, 11, 0, 4)

	infos, err := e.ConflictsFor("e1", domain.Monday, 13, 30, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].ShiftID != id || infos[0].FormattedTime != "11:00" {
		t.Errorf("ConflictsFor() = %+v", infos)
	}

	infos, err = e.ConflictsFor("e1", domain.Monday, 13, 30, 2, id)
	if err != nil || len(infos) != 0 {
		t.Errorf("ConflictsFor() with exclude = %+v, %v", infos, err)
	}
}

func TestWeeklyStatsAndAudit(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))

	report, err := e.WeeklyStats(nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalHours != 0 || report.AverageHoursPerActiveEmployee != 0 {
		t.Errorf("empty WeeklyStats() = %+v", report)
	}

	propose(t, e, "e1", domain.Monday, 11, 0, 4)
	propose(t, e, "e2", domain.Monday, 12, 0, 4)
	propose(t, e, "e2", domain.Friday, 18, 0, 5)

	report, err = e.WeeklyStats([]domain.Day{domain.Monday})
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalHours != 8 || report.TotalCost != 4*16+4*18 {
		t.Errorf("WeeklyStats(Lundi) = %+v", report)
	}

	conflicts, err := e.AuditConflicts()
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 1 || conflicts[0].Severity != domain.SeverityMedium || conflicts[0].OverlapMinutes != 180 {
		t.Errorf("AuditConflicts() = %+v", conflicts)
	}
}

func TestGranularityDriftAndRepair(t *testing.T) {
	store := newMemStore(testEmployees...)
	e := newTestEngine(t, store)
	onHour := propose(t, e, "e1", domain.Monday, 11, 0, 4)
	quarter := propose(t, e, "e1", domain.Tuesday, 11, 15, 4)
	threeQuarters := propose(t, e, "e2", domain.Tuesday, 11, 45, 4)

	if err := e.SetGranularity(20); err == nil {
		t.Fatal("SetGranularity(20) should fail")
	}
	if err := e.SetGranularity(30); err != nil {
		t.Fatal(err)
	}

	// Les créneaux existants ne sont pas modifiés par le changement de grille
	ids, err := e.ValidateAllShiftsAgainstGrid()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []string{quarter, threeQuarters}) {
		t.Errorf("ValidateAllShiftsAgainstGrid() = %v, want [%s %s]", ids, quarter, threeQuarters)
	}

	fixed, err := e.RepairAll()
	if err != nil {
		t.Fatal(err)
	}
	if fixed != 2 {
		t.Errorf("RepairAll() = %d, want 2", fixed)
	}

	for id, want := range map[string]int{onHour: 0, quarter: 0, threeQuarters: 30} {
		s, err := e.GetShift(id)
		if err != nil {
			t.Fatal(err)
		}
		if s.StartMinute != want {
			t.Errorf("shift %s minute = %d, want %d", id, s.StartMinute, want)
		}
	}

	if ids, _ := e.ValidateAllShiftsAgainstGrid(); len(ids) != 0 {
		t.Errorf("non-conformant after repair = %v", ids)
	}
	if fixed, _ := e.RepairAll(); fixed != 0 {
		t.Errorf("second RepairAll() = %d, want 0", fixed)
	}
}

func TestMigrateAndSuggestGranularity(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))

	suggestion, err := e.SuggestGranularity()
	if err != nil {
		t.Fatal(err)
	}
	if suggestion.Suggested != 60 || suggestion.TotalShifts != 0 {
		t.Errorf("empty SuggestGranularity() = %+v", suggestion)
	}

	propose(t, e, "e1", domain.Monday, 11, 0, 4)
	propose(t, e, "e2", domain.Monday, 11, 30, 4)
	if s, _ := e.SuggestGranularity(); s.Suggested != 30 {
		t.Errorf("SuggestGranularity() = %+v, want 30", s)
	}

	propose(t, e, "e2", domain.Wednesday, 9, 45, 2)
	if s, _ := e.SuggestGranularity(); s.Suggested != 15 {
		t.Errorf("SuggestGranularity() = %+v, want 15", s)
	}

	changed, err := e.MigrateGranularity(60)
	if err != nil {
		t.Fatal(err)
	}
	if changed != 2 || e.Grid().Granularity() != 60 {
		t.Errorf("MigrateGranularity(60) = %d, granularity %d", changed, e.Grid().Granularity())
	}
	if s, _ := e.SuggestGranularity(); s.Suggested != 60 {
		t.Errorf("SuggestGranularity() after migration = %+v, want 60", s)
	}
}

func TestEmployeeStatsAndSlotUsage(t *testing.T) {
	e := newTestEngine(t, newMemStore(testEmployees...))
	propose(t, e, "e1", domain.Monday, 22, 0, 4)
	propose(t, e, "e2", domain.Monday, 23, 0, 1)

	stats, err := e.EmployeeStats("e1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalHours != 4 || stats.Cost != 64 || stats.DailyHours[domain.Monday] != 4 {
		t.Errorf("EmployeeStats() = %+v", stats)
	}
	if _, err := e.EmployeeStats("nobody"); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Errorf("EmployeeStats(unknown) error = %v", err)
	}

	usage, err := e.SlotUsage()
	if err != nil {
		t.Fatal(err)
	}
	if usage[domain.Monday]["23_0"] != 2 || usage[domain.Monday]["1_45"] != 1 || usage[domain.Monday]["2_0"] != 0 {
		t.Errorf("SlotUsage()[Lundi] = %v", usage[domain.Monday])
	}
}

func TestConcurrentProposalsKeepSingleWriter(t *testing.T) {
	e := NewEngine(newTestGrid(t, 0, 24, 15), DefaultRules(), newMemStore(testEmployees...), newMemStore(testEmployees...),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Thursday, StartHour: 10, DurationHours: 4})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted %d identical proposals, want 1", accepted)
	}
}

func TestEnforceGrid(t *testing.T) {
	seed := func() *memStore {
		store := newMemStore(testEmployees...)
		store.shifts["s1"] = domain.Shift{ID: "s1", EmployeeID: "e1", Day: domain.Monday, StartHour: 11, StartMinute: 7, DurationHours: 4}
		store.shifts["s2"] = domain.Shift{ID: "s2", EmployeeID: "e2", Day: domain.Monday, StartHour: 3, DurationHours: 2}
		store.shifts["s3"] = domain.Shift{ID: "s3", EmployeeID: "e2", Day: domain.Tuesday, StartHour: 18, StartMinute: 30, DurationHours: 4}
		return store
	}
	newEngine := func(store *memStore) *Engine {
		return NewEngine(newTestGrid(t, 8, 23, 15), DefaultRules(), store, store, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	}

	tests := []struct {
		name        string
		repair      bool
		wantFixed   int
		wantDropped []string
		wantKept    map[string]int
	}{
		{name: "recalage puis retrait", repair: true, wantFixed: 1, wantDropped: []string{"s2"}, wantKept: map[string]int{"s1": 0, "s3": 30}},
		{name: "retrait seul", repair: false, wantFixed: 0, wantDropped: []string{"s2", "s1"}, wantKept: map[string]int{"s3": 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			e := newEngine(store)

			fixed, dropped, err := e.EnforceGrid(tt.repair)
			if err != nil {
				t.Fatalf("EnforceGrid() error = %v", err)
			}
			if fixed != tt.wantFixed || !slices.Equal(dropped, tt.wantDropped) {
				t.Errorf("EnforceGrid() = %d, %v, want %d, %v", fixed, dropped, tt.wantFixed, tt.wantDropped)
			}

			all, _ := e.ListShifts("", "")
			if len(all) != len(tt.wantKept) {
				t.Fatalf("kept %d shifts, want %d", len(all), len(tt.wantKept))
			}
			for _, s := range all {
				if want, ok := tt.wantKept[s.ID]; !ok || s.StartMinute != want {
					t.Errorf("shift %s minute = %d, want %d (kept %v)", s.ID, s.StartMinute, want, ok)
				}
			}
			if ids, _ := e.ValidateAllShiftsAgainstGrid(); len(ids) != 0 {
				t.Errorf("non-conformant after EnforceGrid = %v", ids)
			}
		})
	}
}

func TestEpochDiffersBetweenEngines(t *testing.T) {
	first := newTestEngine(t, newMemStore(testEmployees...))
	second := newTestEngine(t, newMemStore(testEmployees...))

	if first.Epoch() == "" || first.Epoch() == second.Epoch() {
		t.Errorf("epochs = %q and %q, want two distinct values", first.Epoch(), second.Epoch())
	}
	if first.Revision() != 0 || second.Revision() != 0 {
		t.Errorf("revisions = %d and %d, want 0", first.Revision(), second.Revision())
	}
}

func TestDeactivateEmployee(t *testing.T) {
	store := newMemStore(testEmployees...)
	e := newTestEngine(t, store)
	propose(t, e, "e1", domain.Monday, 11, 0, 4)
	revision := e.Revision()

	if err := e.DeactivateEmployee("e1"); err != nil {
		t.Fatalf("DeactivateEmployee() error = %v", err)
	}
	if e.Revision() != revision+1 {
		t.Errorf("Revision() = %d, want %d", e.Revision(), revision+1)
	}

	_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Friday, StartHour: 18, DurationHours: 4})
	if got := violationKinds(t, err); !slices.Equal(got, []domain.ViolationKind{domain.EmployeeInactive}) {
		t.Errorf("violations = %v, want [EmployeeInactive]", got)
	}

	// Les créneaux déjà planifiés restent en place
	if shifts, _ := e.ListShifts("e1", ""); len(shifts) != 1 {
		t.Errorf("e1 has %d shifts after deactivation, want 1", len(shifts))
	}

	if err := e.DeactivateEmployee("nobody"); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Errorf("DeactivateEmployee(unknown) error = %v, want ErrEmployeeNotFound", err)
	}

	store.failWrite = true
	if err := e.DeactivateEmployee("e2"); !errors.Is(err, domain.ErrPersistenceFailed) || !errors.Is(err, errDiskFull) {
		t.Errorf("DeactivateEmployee() error = %v, want ErrPersistenceFailed wrapping the store error", err)
	}
}

// pausingDirectory suspend la désactivation jusqu'à ce que release soit fermé
type pausingDirectory struct {
	*memStore
	entered chan struct{}
	release chan struct{}
}

func (d *pausingDirectory) DeactivateEmployee(employeeID string) error {
	close(d.entered)
	<-d.release
	return d.memStore.DeactivateEmployee(employeeID)
}

func TestDeactivateEmployeeBlocksProposals(t *testing.T) {
	store := newMemStore(testEmployees...)
	directory := &pausingDirectory{memStore: store, entered: make(chan struct{}), release: make(chan struct{})}
	e := NewEngine(newTestGrid(t, 0, 24, 15), DefaultRules(), store, directory,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	deactivated := make(chan error, 1)
	go func() {
		deactivated <- e.DeactivateEmployee("e1")
	}()
	<-directory.entered

	proposed := make(chan error, 1)
	go func() {
		_, err := e.ProposeShift(domain.Shift{EmployeeID: "e1", Day: domain.Thursday, StartHour: 10, DurationHours: 4})
		proposed <- err
	}()

	select {
	case err := <-proposed:
		t.Fatalf("ProposeShift() returned %v while the deactivation was in progress", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(directory.release)
	if err := <-deactivated; err != nil {
		t.Fatalf("DeactivateEmployee() error = %v", err)
	}
	if got := violationKinds(t, <-proposed); !slices.Equal(got, []domain.ViolationKind{domain.EmployeeInactive}) {
		t.Errorf("violations = %v, want [EmployeeInactive]", got)
	}
}
