package planning

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/telemetry"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

// Engine est le point d'entrée unique pour lire et modifier le planning.
// Toutes les écritures passent par un verrou global : la validation et l'écriture
// forment une seule opération. Les lectures partagent le verrou en lecture.
type Engine struct {
	mu        sync.RWMutex
	grid      *timegrid.Grid
	validator *Validator
	shifts    ShiftStore
	employees EmployeeDirectory
	notifier  Notifier
	logger    *slog.Logger
	epoch     string
	revision  atomic.Uint64

	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

func NewEngine(grid *timegrid.Grid, rules Rules, shifts ShiftStore, employees EmployeeDirectory, opts ...Option) *Engine {
	e := &Engine{
		grid:      grid,
		validator: NewValidator(rules, grid),
		shifts:    shifts,
		employees: employees,
		logger:    slog.Default(),
		epoch:     uuid.NewString(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Grid() *timegrid.Grid {
	return e.grid
}

func (e *Engine) Rules() Rules {
	return e.validator.Rules()
}

// Epoch identifie cette instance du moteur. Revision repart de zéro à chaque
// démarrage, le couple (Epoch, Revision) reste unique.
func (e *Engine) Epoch() string {
	return e.epoch
}

// Revision augmente à chaque écriture réussie
func (e *Engine) Revision() uint64 {
	return e.revision.Load()
}

// lookupEmployee renvoie nil sans erreur si l'employé n'existe pas
func (e *Engine) lookupEmployee(employeeID string) (*domain.Employee, error) {
	employee, err := e.employees.Lookup(employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return employee, nil
}

func (e *Engine) validate(candidate *domain.Shift, excludeID string) (*domain.Employee, error) {
	employee, err := e.lookupEmployee(candidate.EmployeeID)
	if err != nil {
		return nil, err
	}

	employeeShifts, err := e.shifts.AllShiftsForEmployee(candidate.EmployeeID)
	if err != nil {
		return nil, err
	}

	violations := e.validator.Validate(candidate, employee, employeeShifts, excludeID)
	if len(violations) > 0 {
		for _, v := range violations {
			telemetry.ViolationsTotal.WithLabelValues(string(v.Kind)).Inc()
		}
		return employee, &domain.ValidationError{Violations: violations}
	}

	return employee, nil
}

func (e *Engine) record(operation string, err error) {
	var validationErr *domain.ValidationError
	switch {
	case err == nil:
		telemetry.ShiftOperations.WithLabelValues(operation, telemetry.ResultCommitted).Inc()
	case errors.As(err, &validationErr):
		telemetry.ShiftOperations.WithLabelValues(operation, telemetry.ResultRejected).Inc()
	default:
		telemetry.ShiftOperations.WithLabelValues(operation, telemetry.ResultFailed).Inc()
	}
}

// ProposeShift valide puis enregistre un nouveau créneau et renvoie son identifiant.
// Un refus est renvoyé sous forme de *domain.ValidationError.
func (e *Engine) ProposeShift(candidate domain.Shift) (string, error) {
	if err := candidate.WellFormed(); err != nil {
		return "", err
	}

	shift, employee, err := e.propose(candidate)
	e.record("propose", err)
	if err != nil {
		return "", err
	}

	e.logger.Info("créneau créé", "shift_id", shift.ID, "employee_id", shift.EmployeeID, "day", shift.Day, "start", shift.FormattedTime(), "duration", shift.DurationHours)
	e.notify(domain.MailShiftAssigned, employee, shift)
	return shift.ID, nil
}

func (e *Engine) propose(candidate domain.Shift) (*domain.Shift, *domain.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate.ID = ""
	employee, err := e.validate(&candidate, "")
	if err != nil {
		e.logRejection(&candidate, err)
		return nil, nil, err
	}

	now := e.now()
	candidate.ID = e.newID()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	if err := e.commit(candidate.ID, &candidate); err != nil {
		return nil, nil, err
	}
	return &candidate, employee, nil
}

// UpdateShift applique changes au créneau id après une validation complète.
// La version précédente du créneau n'entre pas dans les contrôles.
func (e *Engine) UpdateShift(id string, changes domain.ShiftChanges) error {
	shift, employee, err := e.update(id, changes)
	e.record("update", err)
	if err != nil {
		return err
	}

	e.logger.Info("créneau modifié", "shift_id", id, "employee_id", shift.EmployeeID, "day", shift.Day, "start", shift.FormattedTime(), "duration", shift.DurationHours)
	e.notify(domain.MailShiftUpdated, employee, shift)
	return nil
}

func (e *Engine) update(id string, changes domain.ShiftChanges) (*domain.Shift, *domain.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.shifts.ShiftByID(id)
	if err != nil {
		return nil, nil, err
	}

	updated := current.Apply(changes)
	updated.ID = id
	if err := updated.WellFormed(); err != nil {
		return nil, nil, err
	}

	employee, err := e.validate(&updated, id)
	if err != nil {
		e.logRejection(&updated, err)
		return nil, nil, err
	}

	updated.UpdatedAt = e.now()
	if err := e.commit(id, &updated); err != nil {
		return nil, nil, err
	}
	return &updated, employee, nil
}

// DeleteShift renvoie domain.ErrShiftNotFound si le créneau n'existe pas ou plus
func (e *Engine) DeleteShift(id string) error {
	shift, err := e.delete(id)
	e.record("delete", err)
	if err != nil {
		return err
	}

	e.logger.Info("créneau supprimé", "shift_id", id, "employee_id", shift.EmployeeID)
	employee, err := e.lookupEmployee(shift.EmployeeID)
	if err != nil {
		e.logger.Warn("impossible de retrouver l'employé pour la notification", "employee_id", shift.EmployeeID, "error", err)
		return nil
	}
	e.notify(domain.MailShiftCancelled, employee, shift)
	return nil
}

func (e *Engine) delete(id string) (*domain.Shift, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	shift, err := e.shifts.ShiftByID(id)
	if err != nil {
		return nil, err
	}

	if err := e.commit(id, nil); err != nil {
		return nil, err
	}
	return shift, nil
}

// DeactivateEmployee prend le verrou d'écriture : aucune proposition en cours de
// validation ne peut être enregistrée pour cet employé après la désactivation.
func (e *Engine) DeactivateEmployee(employeeID string) error {
	if err := e.deactivate(employeeID); err != nil {
		return err
	}

	e.logger.Info("employé désactivé", "employee_id", employeeID)
	return nil
}

func (e *Engine) deactivate(employeeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.employees.DeactivateEmployee(employeeID); err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return err
		}
		e.logger.Error("échec de la désactivation", "employee_id", employeeID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}
	e.revision.Add(1)
	return nil
}

// commit est appelé verrou tenu. Le store garantit qu'un échec ne laisse aucune trace.
func (e *Engine) commit(id string, shift *domain.Shift) error {
	if err := e.shifts.Replace(id, shift); err != nil {
		e.logger.Error("échec de l'enregistrement, modification annulée", "shift_id", id, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}
	e.revision.Add(1)
	return nil
}

func (e *Engine) logRejection(candidate *domain.Shift, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		e.logger.Info("créneau refusé", "employee_id", candidate.EmployeeID, "day", candidate.Day, "start", candidate.FormattedTime(), "violations", validationErr.Kinds())
	}
}

func (e *Engine) notify(kind string, employee *domain.Employee, shift *domain.Shift) {
	if e.notifier == nil || employee == nil || employee.Email == "" {
		return
	}
	if err := e.notifier.ShiftChanged(kind, employee, shift); err != nil {
		e.logger.Warn("échec de l'envoi de la notification", "type", kind, "shift_id", shift.ID, "error", err)
	}
}

// ConflictsFor liste les créneaux de l'employé qui chevaucheraient le créneau décrit,
// sans rien enregistrer.
func (e *Engine) ConflictsFor(employeeID string, day domain.Day, startHour, startMinute int, durationHours float64, excludeID string) ([]domain.ConflictInfo, error) {
	candidate := &domain.Shift{
		EmployeeID:    employeeID,
		Day:           day,
		StartHour:     startHour,
		StartMinute:   startMinute,
		DurationHours: durationHours,
	}
	if err := candidate.WellFormed(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	existing, err := e.shifts.AllShiftsForEmployee(employeeID)
	if err != nil {
		return nil, err
	}

	conflicts := FindConflicts(candidate, existing, excludeID)
	infos := make([]domain.ConflictInfo, 0, len(conflicts))
	for _, c := range conflicts {
		infos = append(infos, domain.NewConflictInfo(c))
	}
	return infos, nil
}

// WeeklyStats agrège les créneaux des jours demandés, toute la semaine si days est vide
func (e *Engine) WeeklyStats(days []domain.Day) (*domain.AggregateReport, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all, err := e.shifts.AllShifts()
	if err != nil {
		return nil, err
	}
	employees, err := e.employees.AllEmployees()
	if err != nil {
		return nil, err
	}

	if len(days) > 0 {
		all = slices.DeleteFunc(all, func(s *domain.Shift) bool {
			return !slices.Contains(days, s.Day)
		})
	}
	return Aggregate(all, employees), nil
}

func (e *Engine) AuditConflicts() ([]domain.ConflictReport, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all, err := e.shifts.AllShifts()
	if err != nil {
		return nil, err
	}
	return FindAllConflicts(all), nil
}

// ValidateAllShiftsAgainstGrid renvoie les identifiants des créneaux dont le début
// n'est pas une case valide de la grille actuelle.
func (e *Engine) ValidateAllShiftsAgainstGrid() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all, err := e.shifts.AllShifts()
	if err != nil {
		return nil, err
	}
	sortShifts(all)

	ids := make([]string, 0)
	for _, s := range all {
		if !e.grid.IsValidSlot(s.StartHour, s.StartMinute) {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

// RepairAll ramène la minute de début de chaque créneau sur la grille et renvoie
// le nombre de créneaux corrigés. Les heures hors service ne sont pas modifiables ici.
func (e *Engine) RepairAll() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repairLocked()
}

func (e *Engine) repairLocked() (int, error) {
	all, err := e.shifts.AllShifts()
	if err != nil {
		return 0, err
	}
	sortShifts(all)

	fixed := 0
	for _, s := range all {
		if e.grid.IsOnGrid(s.StartMinute) {
			if !e.grid.IsServiceHour(s.StartHour) {
				e.logger.Warn("créneau hors des heures d'ouverture", "shift_id", s.ID, "day", s.Day, "start", s.FormattedTime())
			}
			continue
		}

		repaired := *s
		repaired.StartMinute = e.grid.SnapToGrid(s.StartMinute)
		repaired.UpdatedAt = e.now()
		if err := e.commit(s.ID, &repaired); err != nil {
			return fixed, err
		}

		e.logger.Info("créneau recalé sur la grille", "shift_id", s.ID, "from", s.FormattedTime(), "to", repaired.FormattedTime())
		telemetry.ShiftsRepaired.Inc()
		fixed++
	}
	return fixed, nil
}

// EnforceGrid garantit qu'après le chargement chaque créneau commence sur une case
// valide de la grille. Avec repair, les minutes sont d'abord recalées. Les créneaux
// encore invalides, ceux qui commencent hors des heures d'ouverture par exemple,
// sont retirés du planning.
func (e *Engine) EnforceGrid(repair bool) (fixed int, dropped []string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if repair {
		if fixed, err = e.repairLocked(); err != nil {
			return fixed, nil, err
		}
	}

	all, err := e.shifts.AllShifts()
	if err != nil {
		return fixed, nil, err
	}
	sortShifts(all)

	dropped = make([]string, 0)
	for _, s := range all {
		if e.grid.IsValidSlot(s.StartHour, s.StartMinute) {
			continue
		}
		if err := e.commit(s.ID, nil); err != nil {
			return fixed, dropped, err
		}

		e.logger.Warn("créneau hors grille retiré", "shift_id", s.ID, "employee_id", s.EmployeeID, "day", s.Day, "start", s.FormattedTime(), "duration", s.DurationHours)
		dropped = append(dropped, s.ID)
	}
	return fixed, dropped, nil
}

// SetGranularity change le pas de la grille sans toucher aux créneaux existants
func (e *Engine) SetGranularity(minutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.grid.Granularity()
	if err := e.grid.SetGranularity(minutes); err != nil {
		return err
	}
	if previous != minutes {
		e.revision.Add(1)
		e.logger.Info("granularité modifiée", "from", previous, "to", minutes)
	}
	return nil
}

// MigrateGranularity change le pas de la grille puis recale tous les créneaux
func (e *Engine) MigrateGranularity(minutes int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.grid.SetGranularity(minutes); err != nil {
		return 0, err
	}
	e.revision.Add(1)
	return e.repairLocked()
}

type GranularitySuggestion struct {
	Current      int         `json:"current"`
	Suggested    int         `json:"suggested"`
	Reason       string      `json:"reason"`
	MinutesUsage map[int]int `json:"minutesUsage"`
	TotalShifts  int         `json:"totalShifts"`
}

// SuggestGranularity propose le pas le plus large compatible avec les minutes utilisées
func (e *Engine) SuggestGranularity() (*GranularitySuggestion, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all, err := e.shifts.AllShifts()
	if err != nil {
		return nil, err
	}

	suggestion := &GranularitySuggestion{
		Current:      e.grid.Granularity(),
		MinutesUsage: make(map[int]int),
		TotalShifts:  len(all),
	}
	for _, s := range all {
		suggestion.MinutesUsage[s.StartMinute]++
	}

	usedOnly := func(allowed ...int) bool {
		for m := range suggestion.MinutesUsage {
			if !slices.Contains(allowed, m) {
				return false
			}
		}
		return true
	}

	switch {
	case len(all) == 0:
		suggestion.Suggested = 60
		suggestion.Reason = "aucun créneau existant, granularité par défaut"
	case usedOnly(0):
		suggestion.Suggested = 60
		suggestion.Reason = "seules les heures pleines sont utilisées"
	case usedOnly(0, 30):
		suggestion.Suggested = 30
		suggestion.Reason = "utilisation des demi-heures"
	case usedOnly(0, 15, 30, 45):
		suggestion.Suggested = 15
		suggestion.Reason = "utilisation des quarts d'heure"
	default:
		suggestion.Suggested = suggestion.Current
		suggestion.Reason = "granularité actuelle appropriée"
	}
	return suggestion, nil
}

func (e *Engine) EmployeeStats(employeeID string) (*domain.EmployeeStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	employee, err := e.employees.Lookup(employeeID)
	if err != nil {
		return nil, err
	}
	shifts, err := e.shifts.AllShiftsForEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	return EmployeeSummary(employee, shifts), nil
}

// SlotUsage compte par jour le nombre de créneaux qui occupent chaque case de la grille
func (e *Engine) SlotUsage() (domain.SlotUsage, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all, err := e.shifts.AllShifts()
	if err != nil {
		return nil, err
	}

	granularity := e.grid.Granularity()
	usage := make(domain.SlotUsage, len(domain.Week))
	for _, day := range domain.Week {
		usage[day] = make(map[string]int)
	}
	for _, s := range all {
		for _, slot := range s.OccupiedSlots(granularity) {
			usage[s.Day][timegrid.SlotKey(slot.Hour, slot.Minute)]++
		}
	}
	return usage, nil
}

func (e *Engine) GetShift(id string) (*domain.Shift, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shifts.ShiftByID(id)
}

// ListShifts filtre par employé et par jour quand ils sont renseignés
func (e *Engine) ListShifts(employeeID string, day domain.Day) ([]*domain.Shift, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var (
		shifts []*domain.Shift
		err    error
	)
	if employeeID != "" {
		shifts, err = e.shifts.AllShiftsForEmployee(employeeID)
	} else {
		shifts, err = e.shifts.AllShifts()
	}
	if err != nil {
		return nil, err
	}

	if day != "" {
		shifts = slices.DeleteFunc(shifts, func(s *domain.Shift) bool {
			return s.Day != day
		})
	}
	sortShifts(shifts)
	return shifts, nil
}
