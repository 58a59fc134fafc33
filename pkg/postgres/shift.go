package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/coopsaude/escala/pkg/db"
)

const dateLayout = "2006-01-02"

// InsertShift inserts a single shift record and returns its id
func (d *DB) InsertShift(ctx context.Context, shift *db.Shift) (int64, error) {
	var timeWindow *string
	if shift.TimeWindow != "" {
		timeWindow = &shift.TimeWindow
	}

	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO shift (patient_id, collaborator_id, service_date, service_type,
			amount_billed, amount_paid, payment_mode, time_window, exchange_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, shift.PatientID, shift.CollaboratorID, shift.ServiceDate, shift.ServiceType,
		shift.AmountBilled, shift.AmountPaid, shift.PaymentMode, timeWindow, shift.ExchangeID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shift: %w", err)
	}

	shift.ID = id
	return id, nil
}

// InsertShifts inserts shift records one by one and reports per-item
// outcomes. There is no batch transaction: earlier successes stand even
// when a later insert fails.
func (d *DB) InsertShifts(ctx context.Context, shifts []db.Shift) []db.InsertShiftResult {
	results := make([]db.InsertShiftResult, len(shifts))
	for i := range shifts {
		id, err := d.InsertShift(ctx, &shifts[i])
		results[i] = db.InsertShiftResult{Index: i, ID: id, Err: err}
	}
	return results
}

// GetShifts retrieves shift records matching the filter
func (d *DB) GetShifts(ctx context.Context, filter db.ShiftFilter) ([]db.Shift, error) {
	query := `
		SELECT id, patient_id, collaborator_id, service_date, service_type,
			amount_billed, amount_paid, payment_mode, time_window, exchange_id
		FROM shift
		WHERE 1=1`
	args := []interface{}{}

	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		query += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if filter.CollaboratorID != nil {
		args = append(args, *filter.CollaboratorID)
		query += fmt.Sprintf(" AND collaborator_id = $%d", len(args))
	}
	if filter.ServiceType != "" {
		args = append(args, filter.ServiceType)
		query += fmt.Sprintf(" AND service_type = $%d", len(args))
	}
	if filter.From != "" {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND service_date >= $%d", len(args))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND service_date <= $%d", len(args))
	}

	query += " ORDER BY service_date, id"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		var s db.Shift
		var serviceDate time.Time
		var timeWindow *string
		if err := rows.Scan(&s.ID, &s.PatientID, &s.CollaboratorID, &serviceDate, &s.ServiceType,
			&s.AmountBilled, &s.AmountPaid, &s.PaymentMode, &timeWindow, &s.ExchangeID); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.ServiceDate = serviceDate.Format(dateLayout)
		if timeWindow != nil {
			s.TimeWindow = *timeWindow
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// UpdateShiftCollaborator reassigns a shift to another collaborator
func (d *DB) UpdateShiftCollaborator(ctx context.Context, shiftID, collaboratorID int64) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift SET collaborator_id = $2 WHERE id = $1
	`, shiftID, collaboratorID)
	if err != nil {
		return fmt.Errorf("failed to update shift collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %d not found", shiftID)
	}
	return nil
}

// UpdateShiftFields applies a partial update to a shift record.
// Nil fields in the update are left unchanged.
func (d *DB) UpdateShiftFields(ctx context.Context, shiftID int64, update db.ShiftUpdate) error {
	sets := ""
	args := []interface{}{shiftID}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		if sets != "" {
			sets += ", "
		}
		sets += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if update.CollaboratorID != nil {
		addSet("collaborator_id", *update.CollaboratorID)
	}
	if update.ServiceType != nil {
		addSet("service_type", *update.ServiceType)
	}
	if update.AmountBilled != nil {
		addSet("amount_billed", *update.AmountBilled)
	}
	if update.AmountPaid != nil {
		addSet("amount_paid", *update.AmountPaid)
	}
	if update.PaymentMode != nil {
		addSet("payment_mode", *update.PaymentMode)
	}
	if update.TimeWindow != nil {
		addSet("time_window", *update.TimeWindow)
	}

	if sets == "" {
		return nil
	}

	tag, err := d.pool.Exec(ctx, "UPDATE shift SET "+sets+" WHERE id = $1", args...)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %d not found", shiftID)
	}
	return nil
}

// DeleteShift removes a shift record
func (d *DB) DeleteShift(ctx context.Context, shiftID int64) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM shift WHERE id = $1`, shiftID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %d not found", shiftID)
	}
	return nil
}

// ShiftExistsFor reports whether the collaborator already has a shift on
// the date, ignoring the given service types
func (d *DB) ShiftExistsFor(ctx context.Context, collaboratorID int64, date string, excludeTypes []string) (bool, error) {
	if excludeTypes == nil {
		excludeTypes = []string{}
	}

	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM shift
			WHERE collaborator_id = $1
			  AND service_date = $2
			  AND service_type != ALL($3)
		)
	`, collaboratorID, date, excludeTypes).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing shifts: %w", err)
	}

	return exists, nil
}
