package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

const shiftColumns = `id, employee_id, day, start_hour, start_minute, duration_hours, notes, created_at, updated_at`

func scanShift(row interface{ Scan(...any) error }) (*domain.Shift, error) {
	shift := &domain.Shift{}
	dst := []any{&shift.ID, &shift.EmployeeID, &shift.Day, &shift.StartHour, &shift.StartMinute, &shift.DurationHours, &shift.Notes, &shift.CreatedAt, &shift.UpdatedAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *Repository) queryShifts(query string, args ...any) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) AllShifts() ([]*domain.Shift, error) {
	return r.queryShifts(`SELECT ` + shiftColumns + ` FROM shifts`)
}

func (r *Repository) AllShiftsForEmployee(employeeID string) ([]*domain.Shift, error) {
	return r.queryShifts(`SELECT `+shiftColumns+` FROM shifts WHERE employee_id = $1`, employeeID)
}

func (r *Repository) ShiftByID(shiftID string) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift, err := scanShift(r.dbpool.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, shiftID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}
	return shift, nil
}

// Replace crée, remplace ou supprime (shift nil) un créneau dans une transaction
func (r *Repository) Replace(shiftID string, shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if shift == nil {
		result, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, shiftID)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrShiftNotFound
		}
	} else {
		query := `
			INSERT INTO shifts (` + shiftColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				employee_id = EXCLUDED.employee_id,
				day = EXCLUDED.day,
				start_hour = EXCLUDED.start_hour,
				start_minute = EXCLUDED.start_minute,
				duration_hours = EXCLUDED.duration_hours,
				notes = EXCLUDED.notes,
				updated_at = EXCLUDED.updated_at
		`
		args := []any{shiftID, shift.EmployeeID, shift.Day, shift.StartHour, shift.StartMinute, shift.DurationHours, shift.Notes, shift.CreatedAt, shift.UpdatedAt}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
