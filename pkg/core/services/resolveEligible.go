package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/eligibility"
	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/db"
)

// ResolveEligibleStore defines the database operations needed to resolve
// eligibility: the patient and pool fetches plus the association lookups
// the resolver performs itself.
type ResolveEligibleStore interface {
	GetPatient(ctx context.Context, id int64) (*db.Patient, error)
	ListCollaborators(ctx context.Context) ([]db.Collaborator, error)
	eligibility.AssociationStore
}

// ResolveEligible loads the patient and the full collaborator pool and
// runs the eligibility filter chain over them.
func ResolveEligible(
	ctx context.Context,
	store ResolveEligibleStore,
	sess model.SessionContext,
	logger *zap.Logger,
	patientID int64,
	opts eligibility.Options,
) (*eligibility.Result, error) {
	logger.Debug("Resolving eligibility", zap.Int64("patient_id", patientID))

	patient, err := store.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}

	pool, err := store.ListCollaborators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collaborator pool: %w", err)
	}
	logger.Debug("Fetched collaborator pool", zap.Int("count", len(pool)))

	result := eligibility.Resolve(ctx, store, sess, logger,
		toModelPatient(patient), toModelCollaborators(pool), opts)

	logger.Info("Eligibility resolved",
		zap.Int64("patient_id", patientID),
		zap.Int("eligible", len(result.Collaborators)),
		zap.Bool("no_specialty_match", result.NoSpecialtyMatch),
		zap.Bool("no_availability", result.NoAvailabilityForDate))

	return result, nil
}
