package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

const (
	shiftsFile    = "shifts.json"
	employeesFile = "employees.json"
)

var errMissingIdentifier = errors.New("identifiant manquant")

// Store conserve créneaux et employés en mémoire et les réécrit dans deux fichiers
// JSON (un objet indexé par identifiant) à chaque modification.
type Store struct {
	mu        sync.RWMutex
	dir       string
	logger    *slog.Logger
	shifts    map[string]domain.Shift
	employees map[string]domain.Employee
}

// Open charge les fichiers de dir, en les créant au besoin. Les enregistrements
// mal formés sont ignorés et journalisés.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &Store{
		dir:       dir,
		logger:    logger,
		shifts:    make(map[string]domain.Shift),
		employees: make(map[string]domain.Employee),
	}

	var shiftRecords map[string]shiftRecord
	if err := s.readFile(shiftsFile, &shiftRecords); err != nil {
		return nil, err
	}
	for key, r := range shiftRecords {
		if r.ID == "" {
			r.ID = key
		}
		shift, err := decodeShift(r)
		if err != nil {
			logger.Warn("créneau ignoré au chargement", "shift_id", key, "error", err)
			continue
		}
		s.shifts[shift.ID] = shift
	}

	var employeeRecords map[string]employeeRecord
	if err := s.readFile(employeesFile, &employeeRecords); err != nil {
		return nil, err
	}
	for key, r := range employeeRecords {
		if r.ID == "" {
			r.ID = key
		}
		employee, err := decodeEmployee(r)
		if err != nil {
			logger.Warn("employé ignoré au chargement", "employee_id", key, "error", err)
			continue
		}
		s.employees[employee.ID] = employee
	}

	logger.Info("données chargées", "dir", dir, "shifts", len(s.shifts), "employees", len(s.employees))
	return s, nil
}

func (s *Store) readFile(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// writeFile écrit dans un fichier temporaire puis le renomme
func (s *Store) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

func (s *Store) flushShifts() error {
	records := make(map[string]shiftRecord, len(s.shifts))
	for id, shift := range s.shifts {
		records[id] = encodeShift(&shift)
	}
	return s.writeFile(shiftsFile, records)
}

func (s *Store) flushEmployees() error {
	records := make(map[string]employeeRecord, len(s.employees))
	for id, employee := range s.employees {
		records[id] = encodeEmployee(&employee)
	}
	return s.writeFile(employeesFile, records)
}

func (s *Store) AllShifts() ([]*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shifts := make([]*domain.Shift, 0, len(s.shifts))
	for _, shift := range s.shifts {
		shifts = append(shifts, &shift)
	}
	return shifts, nil
}

func (s *Store) AllShiftsForEmployee(employeeID string) ([]*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shifts := make([]*domain.Shift, 0)
	for _, shift := range s.shifts {
		if shift.EmployeeID == employeeID {
			shifts = append(shifts, &shift)
		}
	}
	return shifts, nil
}

func (s *Store) ShiftByID(shiftID string) (*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shift, ok := s.shifts[shiftID]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	return &shift, nil
}

// Replace met à jour la mémoire puis le fichier. Si l'écriture échoue,
// l'état mémoire précédent est restauré.
func (s *Store) Replace(shiftID string, shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.shifts[shiftID]
	if shift == nil {
		if !existed {
			return domain.ErrShiftNotFound
		}
		delete(s.shifts, shiftID)
	} else {
		s.shifts[shiftID] = *shift
	}

	if err := s.flushShifts(); err != nil {
		if existed {
			s.shifts[shiftID] = previous
		} else {
			delete(s.shifts, shiftID)
		}
		return err
	}
	return nil
}

func (s *Store) Lookup(employeeID string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &employee, nil
}

func (s *Store) AllEmployees() ([]*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]*domain.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employees = append(employees, &employee)
	}
	return employees, nil
}

// CreateEmployee complète l'identifiant et la date de création s'ils sont vides
func (s *Store) CreateEmployee(employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now()
	}
	if _, exists := s.employees[employee.ID]; exists {
		return fmt.Errorf("employé %s déjà existant", employee.ID)
	}

	s.employees[employee.ID] = *employee
	if err := s.flushEmployees(); err != nil {
		delete(s.employees, employee.ID)
		return err
	}
	return nil
}

// DeactivateEmployee désactive sans supprimer, ses créneaux restent en place
func (s *Store) DeactivateEmployee(employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}

	updated := employee
	updated.IsActive = false
	s.employees[employeeID] = updated
	if err := s.flushEmployees(); err != nil {
		s.employees[employeeID] = employee
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
