package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/coopsaude/escala/pkg/db"
)

// GetPatient retrieves a patient record
func (d *DB) GetPatient(ctx context.Context, id int64) (*db.Patient, error) {
	var p db.Patient
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, city, neighborhood, default_daily_rate, default_professional_rate
		FROM patient
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.City, &p.Neighborhood, &p.DefaultDailyRate, &p.DefaultProfessionalRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("patient %d not found", id)
		}
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return &p, nil
}

// ListCollaborators retrieves the full collaborator pool ordered by name
func (d *DB) ListCollaborators(ctx context.Context) ([]db.Collaborator, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, city FROM collaborator ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer rows.Close()

	var collaborators []db.Collaborator
	for rows.Next() {
		var c db.Collaborator
		if err := rows.Scan(&c.ID, &c.Name, &c.City); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collaborators = append(collaborators, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaborators: %w", err)
	}

	return collaborators, nil
}

// GetNeighborhoods retrieves the neighborhood names registered for a collaborator
func (d *DB) GetNeighborhoods(ctx context.Context, collaboratorID int64) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT neighborhood FROM collaborator_neighborhood WHERE collaborator_id = $1
	`, collaboratorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborator neighborhoods: %w", err)
	}
	defer rows.Close()

	var neighborhoods []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan neighborhood: %w", err)
		}
		neighborhoods = append(neighborhoods, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating neighborhoods: %w", err)
	}

	return neighborhoods, nil
}

// GetPatientSpecialties retrieves the specialty ids a patient requires
func (d *DB) GetPatientSpecialties(ctx context.Context, patientID int64) ([]int64, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT specialty_id FROM patient_specialty WHERE patient_id = $1
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patient specialties: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan specialty id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patient specialties: %w", err)
	}

	return ids, nil
}

// GetCollaboratorsBySpecialties retrieves the ids of collaborators
// holding any of the given specialties
func (d *DB) GetCollaboratorsBySpecialties(ctx context.Context, specialtyIDs []int64) ([]int64, error) {
	if len(specialtyIDs) == 0 {
		return nil, nil
	}

	rows, err := d.pool.Query(ctx, `
		SELECT DISTINCT collaborator_id
		FROM collaborator_specialty
		WHERE specialty_id = ANY($1)
	`, specialtyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators by specialties: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaborator ids: %w", err)
	}

	return ids, nil
}

// GetAvailability retrieves the ids of collaborators explicitly marked
// available for the date
func (d *DB) GetAvailability(ctx context.Context, date string) ([]int64, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT collaborator_id FROM availability WHERE service_date = $1
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability: %w", err)
	}

	return ids, nil
}
