package seed

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/store"
	"github.com/resto-planning/shift-planner/backend/internal/utils"
)

//go:embed data/*.csv
var data embed.FS

// Result compte ce que le moteur a accepté ou refusé
type Result struct {
	Employees int
	Accepted  int
	Rejected  int
}

// readCSV renvoie chaque ligne sous forme de map indexée par l'en-tête
func readCSV(name string) ([]map[string]string, error) {
	raw, err := data.ReadFile(name)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: en-tête illisible: %w", name, err)
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}
		records = append(records, record)
	}
	return records, nil
}

func DemoEmployees() ([]*domain.Employee, error) {
	records, err := readCSV("data/employees.csv")
	if err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(records))
	for _, record := range records {
		rate, err := strconv.ParseFloat(record["taux_horaire"], 64)
		if err != nil {
			return nil, fmt.Errorf("taux horaire de %s: %w", record["id"], err)
		}
		employees = append(employees, &domain.Employee{
			ID:         record["id"],
			FirstName:  record["prenom"],
			LastName:   record["nom"],
			Position:   domain.Position(record["poste"]),
			Email:      record["email"],
			Phone:      record["telephone"],
			HourlyRate: rate,
			IsActive:   true,
		})
	}
	return employees, nil
}

func DemoShifts() ([]domain.Shift, error) {
	records, err := readCSV("data/shifts.csv")
	if err != nil {
		return nil, err
	}

	shifts := make([]domain.Shift, 0, len(records))
	for i, record := range records {
		hour, errHour := strconv.Atoi(record["heure"])
		minute, errMinute := strconv.Atoi(record["minute"])
		duration, errDuration := strconv.ParseFloat(record["duree"], 64)
		if err := errors.Join(errHour, errMinute, errDuration); err != nil {
			return nil, fmt.Errorf("ligne %d: %w", i+2, err)
		}

		shifts = append(shifts, domain.Shift{
			EmployeeID:    record["employe"],
			Day:           domain.Day(record["jour"]),
			StartHour:     hour,
			StartMinute:   minute,
			DurationHours: duration,
			Notes:         record["notes"],
		})
	}
	return shifts, nil
}

// SeedDemoData insère l'équipe de démonstration puis ses créneaux via le moteur.
// Un employé déjà présent n'est pas recréé. Les créneaux refusés sont journalisés.
func SeedDemoData(backend store.Backend, engine *planning.Engine) (*Result, error) {
	employees, err := DemoEmployees()
	if err != nil {
		return nil, err
	}
	shifts, err := DemoShifts()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, employee := range employees {
		_, err := backend.Lookup(employee.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, domain.ErrEmployeeNotFound):
			return result, err
		}

		if err := backend.CreateEmployee(employee); err != nil {
			return result, err
		}
		result.Employees++
	}

	for _, shift := range shifts {
		if err := proposeOrLog(engine, shift, result); err != nil {
			return result, err
		}
	}

	slog.Info("données de démonstration insérées", "employees", result.Employees, "accepted", result.Accepted, "rejected", result.Rejected)
	return result, nil
}

// proposeOrLog ne renvoie que les erreurs qui doivent interrompre le remplissage
func proposeOrLog(engine *planning.Engine, shift domain.Shift, result *Result) error {
	_, err := engine.ProposeShift(shift)
	var validationErr *domain.ValidationError
	switch {
	case err == nil:
		result.Accepted++
	case errors.As(err, &validationErr):
		slog.Warn("créneau refusé", "employee_id", shift.EmployeeID, "day", shift.Day, "start", shift.FormattedTime(), "violations", validationErr.Kinds())
		result.Rejected++
	default:
		return err
	}
	return nil
}

func SeedRandomEmployees(backend store.Backend, n int, emailDomainName string) (int, error) {
	created := 0
	for i := 0; i < n; i++ {
		if err := backend.CreateEmployee(utils.GenerateRandomEmployee(emailDomainName)); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// SeedRandomShifts propose n créneaux aléatoires aux employés actifs
func SeedRandomShifts(backend store.Backend, engine *planning.Engine, n int) (*Result, error) {
	all, err := backend.AllEmployees()
	if err != nil {
		return nil, err
	}

	active := make([]*domain.Employee, 0, len(all))
	for _, e := range all {
		if e.IsActive {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return nil, errors.New("aucun employé actif")
	}

	rules := engine.Rules()
	result := &Result{}
	for i := 0; i < n; i++ {
		employee := active[i%len(active)]
		days := utils.GenerateRandomWorkingDays()
		shift := utils.GenerateRandomShift(employee.ID, days[0], engine.Grid(), rules.MinShiftDuration, min(rules.MaxShiftDuration, 8))
		if err := proposeOrLog(engine, shift, result); err != nil {
			return result, err
		}
	}
	return result, nil
}
