package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

func (r *Repository) Lookup(employeeID string) (*domain.Employee, error) {
	query := `
		SELECT first_name, last_name, position, email, phone, hourly_rate, is_active, created_at
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID: employeeID,
	}

	dst := []any{&employee.FirstName, &employee.LastName, &employee.Position, &employee.Email, &employee.Phone, &employee.HourlyRate, &employee.IsActive, &employee.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}

	return employee, nil
}

func (r *Repository) AllEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, first_name, last_name, position, email, phone, hourly_rate, is_active, created_at
		FROM employees ORDER BY last_name, first_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.FirstName, &employee.LastName, &employee.Position, &employee.Email, &employee.Phone, &employee.HourlyRate, &employee.IsActive, &employee.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}

	query := `
		INSERT INTO employees (id, first_name, last_name, position, email, phone, hourly_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	args := []any{employee.ID, employee.FirstName, employee.LastName, employee.Position, employee.Email, employee.Phone, employee.HourlyRate, employee.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt); err != nil {
		return err
	}

	return nil
}

// DeactivateEmployee ne supprime jamais la ligne, les créneaux y font référence
func (r *Repository) DeactivateEmployee(employeeID string) error {
	query := `
		UPDATE employees SET is_active = FALSE WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, employeeID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEmployeeNotFound
	}

	return nil
}
