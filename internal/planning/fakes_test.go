package planning

import (
	"errors"
	"fmt"
	"sync"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

var errDiskFull = errors.New("disque plein")

type memStore struct {
	mu        sync.Mutex
	shifts    map[string]domain.Shift
	employees map[string]domain.Employee
	failWrite bool
	writes    int
}

func newMemStore(employees ...domain.Employee) *memStore {
	s := &memStore{
		shifts:    make(map[string]domain.Shift),
		employees: make(map[string]domain.Employee),
	}
	for _, e := range employees {
		s.employees[e.ID] = e
	}
	return s
}

func (m *memStore) AllShifts() ([]*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shifts := make([]*domain.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		shifts = append(shifts, &s)
	}
	return shifts, nil
}

func (m *memStore) AllShiftsForEmployee(employeeID string) ([]*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shifts := make([]*domain.Shift, 0)
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID {
			shifts = append(shifts, &s)
		}
	}
	return shifts, nil
}

func (m *memStore) ShiftByID(shiftID string) (*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.shifts[shiftID]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	return &s, nil
}

func (m *memStore) Replace(shiftID string, shift *domain.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrite {
		return errDiskFull
	}
	m.writes++
	if shift == nil {
		delete(m.shifts, shiftID)
		return nil
	}
	m.shifts[shiftID] = *shift
	return nil
}

func (m *memStore) Lookup(employeeID string) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &e, nil
}

func (m *memStore) AllEmployees() ([]*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	employees := make([]*domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		employees = append(employees, &e)
	}
	return employees, nil
}

func (m *memStore) DeactivateEmployee(employeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	if m.failWrite {
		return errDiskFull
	}
	e.IsActive = false
	m.employees[employeeID] = e
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (n *recordingNotifier) ShiftChanged(kind string, employee *domain.Employee, shift *domain.Shift) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail {
		return errors.New("file indisponible")
	}
	n.events = append(n.events, fmt.Sprintf("%s:%s:%s", kind, employee.ID, shift.ID))
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}
