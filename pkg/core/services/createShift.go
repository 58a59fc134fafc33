package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/db"
)

// duplicateCheckExclusions lists the service types exempt from duplicate
// prevention: management shifts may coexist on the same collaborator/date
var duplicateCheckExclusions = []string{string(model.ServiceTypeManagement)}

// CreateShiftStore defines the database operations needed to create a single shift
type CreateShiftStore interface {
	GetPatient(ctx context.Context, id int64) (*db.Patient, error)
	ShiftExistsFor(ctx context.Context, collaboratorID int64, date string, excludeTypes []string) (bool, error)
	InsertShift(ctx context.Context, shift *db.Shift) (int64, error)
}

// CreateShiftResult contains the persisted shift
type CreateShiftResult struct {
	Shift db.Shift
}

// CreateShift validates the input and persists a single shift.
// Validation failures and duplicates are rejected before any write.
// The duplicate check covers both the current session's completed set
// and the backend (authoritative), except for management shifts.
func CreateShift(
	ctx context.Context,
	store CreateShiftStore,
	session *scheduling.Session,
	sess model.SessionContext,
	logger *zap.Logger,
	input scheduling.ShiftInput,
) (*CreateShiftResult, error) {
	logger.Debug("Creating shift",
		zap.Int64("patient_id", input.PatientID),
		zap.Int64("collaborator_id", input.CollaboratorID),
		zap.String("date", input.Date),
		zap.String("service_type", string(input.ServiceType)),
		zap.Int64("user_id", sess.UserID))

	patient, err := store.GetPatient(ctx, input.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}

	shift, err := scheduling.BuildShift(input, toModelPatient(patient))
	if err != nil {
		return nil, err
	}

	if shift.ServiceType != model.ServiceTypeManagement {
		if session.IsDuplicate(shift.CollaboratorID, shift.ServiceDate, shift.ServiceType) {
			return nil, fmt.Errorf("%w (created earlier this session)", scheduling.ErrDuplicateShift)
		}

		exists, err := store.ShiftExistsFor(ctx, shift.CollaboratorID, shift.ServiceDate, duplicateCheckExclusions)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing shifts: %w", err)
		}
		if exists {
			return nil, scheduling.ErrDuplicateShift
		}
	}

	record := toShiftRecord(*shift)
	if _, err := store.InsertShift(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to insert shift: %w", err)
	}

	shift.ID = record.ID
	session.MarkCompleted(*shift)

	logger.Info("Shift created",
		zap.Int64("shift_id", record.ID),
		zap.Int64("collaborator_id", record.CollaboratorID),
		zap.String("date", record.ServiceDate),
		zap.String("service_type", record.ServiceType))

	return &CreateShiftResult{Shift: record}, nil
}
