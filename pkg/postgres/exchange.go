package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/coopsaude/escala/pkg/db"
)

const exchangeSelect = `
	SELECT e.id, e.origin_shift_id, e.origin_collaborator_id,
		e.destination_shift_id, e.destination_collaborator_id,
		e.origin_date, e.destination_date, e.origin_type, e.destination_type,
		e.destination_status, e.manager_status,
		oc.name, dc.name, p.name
	FROM exchange e
	JOIN collaborator oc ON oc.id = e.origin_collaborator_id
	JOIN collaborator dc ON dc.id = e.destination_collaborator_id
	JOIN shift os ON os.id = e.origin_shift_id
	JOIN patient p ON p.id = os.patient_id`

func scanExchange(row pgx.Row) (*db.Exchange, error) {
	var e db.Exchange
	var originDate, destinationDate time.Time
	err := row.Scan(&e.ID, &e.OriginShiftID, &e.OriginCollaboratorID,
		&e.DestinationShiftID, &e.DestinationCollaboratorID,
		&originDate, &destinationDate, &e.OriginType, &e.DestinationType,
		&e.DestinationStatus, &e.ManagerStatus,
		&e.OriginCollaboratorName, &e.DestinationCollaboratorName, &e.PatientName)
	if err != nil {
		return nil, err
	}
	e.OriginDate = originDate.Format(dateLayout)
	e.DestinationDate = destinationDate.Format(dateLayout)
	return &e, nil
}

// GetExchange retrieves a single exchange record with its display projections
func (d *DB) GetExchange(ctx context.Context, id int64) (*db.Exchange, error) {
	row := d.pool.QueryRow(ctx, exchangeSelect+` WHERE e.id = $1`, id)
	exchange, err := scanExchange(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("exchange %d not found", id)
		}
		return nil, fmt.Errorf("failed to query exchange: %w", err)
	}
	return exchange, nil
}

// GetExchanges retrieves exchange records matching the filter
func (d *DB) GetExchanges(ctx context.Context, filter db.ExchangeFilter) ([]db.Exchange, error) {
	query := exchangeSelect + ` WHERE 1=1`
	args := []interface{}{}

	if filter.PendingOnly {
		query += ` AND e.destination_status != 'Rejected' AND e.manager_status = 'Pending'`
	}
	if filter.CollaboratorID != nil {
		args = append(args, *filter.CollaboratorID)
		query += fmt.Sprintf(` AND (e.origin_collaborator_id = $%d OR e.destination_collaborator_id = $%d)`,
			len(args), len(args))
	}

	query += ` ORDER BY e.id`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []db.Exchange
	for rows.Next() {
		exchange, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, *exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchanges: %w", err)
	}

	return exchanges, nil
}

// UpdateExchangeManagerStatus moves the manager approval track of an exchange
func (d *DB) UpdateExchangeManagerStatus(ctx context.Context, id int64, status string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE exchange SET manager_status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update exchange manager status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exchange %d not found", id)
	}
	return nil
}

// InsertSwapJournalEntry records the intended swap before any shift row is mutated
func (d *DB) InsertSwapJournalEntry(ctx context.Context, entry *db.SwapJournalEntry) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO swap_journal (id, exchange_id, origin_shift_id, destination_shift_id,
			origin_collaborator_before, destination_collaborator_before,
			origin_applied, destination_applied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, entry.ID, entry.ExchangeID, entry.OriginShiftID, entry.DestinationShiftID,
		entry.OriginCollaboratorBefore, entry.DestinationCollaboratorBefore,
		entry.OriginApplied, entry.DestinationApplied).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert swap journal entry: %w", err)
	}
	return nil
}

// UpdateSwapJournalEntry updates the applied flags and completion time of an entry
func (d *DB) UpdateSwapJournalEntry(ctx context.Context, entry *db.SwapJournalEntry) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE swap_journal
		SET origin_applied = $2, destination_applied = $3, completed_at = $4
		WHERE id = $1
	`, entry.ID, entry.OriginApplied, entry.DestinationApplied, entry.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update swap journal entry: %w", err)
	}
	return nil
}

// GetIncompleteSwapJournalEntries retrieves journal entries whose swap
// has not been fully applied
func (d *DB) GetIncompleteSwapJournalEntries(ctx context.Context) ([]db.SwapJournalEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, exchange_id, origin_shift_id, destination_shift_id,
			origin_collaborator_before, destination_collaborator_before,
			origin_applied, destination_applied, created_at, completed_at
		FROM swap_journal
		WHERE completed_at IS NULL
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query swap journal: %w", err)
	}
	defer rows.Close()

	var entries []db.SwapJournalEntry
	for rows.Next() {
		var e db.SwapJournalEntry
		if err := rows.Scan(&e.ID, &e.ExchangeID, &e.OriginShiftID, &e.DestinationShiftID,
			&e.OriginCollaboratorBefore, &e.DestinationCollaboratorBefore,
			&e.OriginApplied, &e.DestinationApplied, &e.CreatedAt, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan swap journal entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating swap journal: %w", err)
	}

	return entries, nil
}
