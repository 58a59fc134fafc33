package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/db"
)

// CreateShiftBatchStore defines the database operations needed for batch creation
type CreateShiftBatchStore interface {
	GetPatient(ctx context.Context, id int64) (*db.Patient, error)
	ShiftExistsFor(ctx context.Context, collaboratorID int64, date string, excludeTypes []string) (bool, error)
	InsertShift(ctx context.Context, shift *db.Shift) (int64, error)
}

// SkippedDate reports why one date of a batch was not processed
type SkippedDate struct {
	Date   string
	Reason string
}

// CreateShiftBatchResult contains the per-date outcomes of a batch
type CreateShiftBatchResult struct {
	Created []db.Shift
	Skipped []SkippedDate
}

// CreateShiftBatch creates one shift per supplied date, best-effort:
// validation and duplicate checks apply independently per date, a failed
// date is skipped with a recorded reason, and earlier successes are
// never rolled back. Management shifts are exempt from duplicate checks.
func CreateShiftBatch(
	ctx context.Context,
	store CreateShiftBatchStore,
	session *scheduling.Session,
	sess model.SessionContext,
	logger *zap.Logger,
	base scheduling.ShiftInput,
	dates []string,
) (*CreateShiftBatchResult, error) {
	logger.Debug("Creating shift batch",
		zap.Int64("patient_id", base.PatientID),
		zap.Int64("collaborator_id", base.CollaboratorID),
		zap.String("service_type", string(base.ServiceType)),
		zap.Int("date_count", len(dates)),
		zap.Int64("user_id", sess.UserID))

	if len(dates) == 0 {
		return nil, &scheduling.ValidationError{Field: "dates", Reason: "no service dates given"}
	}

	patient, err := store.GetPatient(ctx, base.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	modelPatient := toModelPatient(patient)

	result := &CreateShiftBatchResult{}

	for _, date := range dates {
		input := base
		input.Date = date

		shift, err := scheduling.BuildShift(input, modelPatient)
		if err != nil {
			logger.Warn("Skipping date: validation failed", zap.String("date", date), zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: err.Error()})
			continue
		}

		if shift.ServiceType != model.ServiceTypeManagement {
			if session.IsDuplicate(shift.CollaboratorID, shift.ServiceDate, shift.ServiceType) {
				logger.Warn("Skipping date: duplicate in session", zap.String("date", date))
				result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: scheduling.ErrDuplicateShift.Error()})
				continue
			}

			exists, err := store.ShiftExistsFor(ctx, shift.CollaboratorID, shift.ServiceDate, duplicateCheckExclusions)
			if err != nil {
				logger.Warn("Skipping date: duplicate check failed", zap.String("date", date), zap.Error(err))
				result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: "duplicate check failed: " + err.Error()})
				continue
			}
			if exists {
				logger.Warn("Skipping date: duplicate in backend", zap.String("date", date))
				result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: scheduling.ErrDuplicateShift.Error()})
				continue
			}
		}

		record := toShiftRecord(*shift)
		if _, err := store.InsertShift(ctx, &record); err != nil {
			logger.Warn("Skipping date: insert failed", zap.String("date", date), zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: "insert failed: " + err.Error()})
			continue
		}

		shift.ID = record.ID
		session.MarkCompleted(*shift)
		result.Created = append(result.Created, record)
	}

	logger.Info("Shift batch finished",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}
