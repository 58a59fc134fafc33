package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/db"
)

// RotateShiftsStore defines the database operations needed for rotation commit
type RotateShiftsStore interface {
	GetPatient(ctx context.Context, id int64) (*db.Patient, error)
	InsertShifts(ctx context.Context, shifts []db.Shift) []db.InsertShiftResult
}

// FailedShift reports a per-item insert failure during rotation commit
type FailedShift struct {
	Shift  db.Shift
	Reason string
}

// RotateShiftsResult contains the staged and, unless staging only, the
// persisted rotation shifts
type RotateShiftsResult struct {
	Staged     []model.Shift
	Inserted   []db.Shift
	Failed     []FailedShift
	StagedOnly bool
}

// RotateShifts generates rotated shifts for a date range and stages them
// in the session. Regenerating an overlapping range replaces the staged
// entries for those dates rather than duplicating them. When stageOnly
// is false the whole staged plan is persisted best-effort, per item,
// and the staging set is cleared.
func RotateShifts(
	ctx context.Context,
	store RotateShiftsStore,
	session *scheduling.Session,
	sess model.SessionContext,
	logger *zap.Logger,
	input scheduling.RotationInput,
	stageOnly bool,
) (*RotateShiftsResult, error) {
	logger.Debug("Rotating shifts",
		zap.Int64("patient_id", input.PatientID),
		zap.String("service_type", string(input.ServiceType)),
		zap.String("start", input.Start),
		zap.String("end", input.End),
		zap.Int("collaborator_count", len(input.Collaborators)),
		zap.Bool("stage_only", stageOnly),
		zap.Int64("user_id", sess.UserID))

	patient, err := store.GetPatient(ctx, input.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}

	shifts, err := scheduling.BuildRotation(input, toModelPatient(patient))
	if err != nil {
		return nil, err
	}

	session.StageRotation(shifts)
	staged := session.StagedShifts()
	logger.Debug("Rotation staged",
		zap.String("plan_id", session.PlanID),
		zap.Int("generated", len(shifts)),
		zap.Int("staged_total", len(staged)))

	result := &RotateShiftsResult{Staged: staged, StagedOnly: stageOnly}
	if stageOnly {
		return result, nil
	}

	// Persist the whole staged plan, best-effort per item
	records := make([]db.Shift, len(staged))
	for i, shift := range staged {
		records[i] = toShiftRecord(shift)
	}

	for _, itemResult := range store.InsertShifts(ctx, records) {
		if itemResult.Err != nil {
			logger.Warn("Failed to insert rotated shift",
				zap.String("date", records[itemResult.Index].ServiceDate),
				zap.Error(itemResult.Err))
			result.Failed = append(result.Failed, FailedShift{
				Shift:  records[itemResult.Index],
				Reason: itemResult.Err.Error(),
			})
			continue
		}

		record := records[itemResult.Index]
		record.ID = itemResult.ID
		result.Inserted = append(result.Inserted, record)

		persisted := staged[itemResult.Index]
		persisted.ID = itemResult.ID
		session.MarkCompleted(persisted)
	}

	session.ClearStaged()

	logger.Info("Rotation committed",
		zap.Int("inserted", len(result.Inserted)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}
