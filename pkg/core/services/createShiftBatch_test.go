package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
)

func TestCreateShiftBatch(t *testing.T) {
	store := &mockShiftWriteStore{patient: servicePatient}
	session := scheduling.NewSession()

	result, err := CreateShiftBatch(context.Background(), store, session, schedulerSession,
		zap.NewNop(), serviceShiftInput(), []string{"2024-03-01", "2024-03-02", "2024-03-03"})

	require.NoError(t, err)
	assert.Len(t, result.Created, 3)
	assert.Empty(t, result.Skipped)
	assert.Len(t, store.inserted, 3)
	assert.Equal(t, "2024-03-02", result.Created[1].ServiceDate)
}

func TestCreateShiftBatch_NoDates(t *testing.T) {
	store := &mockShiftWriteStore{patient: servicePatient}

	result, err := CreateShiftBatch(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), serviceShiftInput(), nil)

	require.Error(t, err)
	assert.True(t, scheduling.IsValidationError(err))
	assert.Nil(t, result)
}

func TestCreateShiftBatch_SkipsBadDatesAndContinues(t *testing.T) {
	store := &mockShiftWriteStore{patient: servicePatient}
	session := scheduling.NewSession()

	result, err := CreateShiftBatch(context.Background(), store, session, schedulerSession,
		zap.NewNop(), serviceShiftInput(), []string{"2024-03-01", "bogus", "2024-03-03"})

	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "bogus", result.Skipped[0].Date)
	assert.NotEmpty(t, result.Skipped[0].Reason)
}

func TestCreateShiftBatch_SkipsDuplicates(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:  servicePatient,
		existing: map[string]bool{"1/2024-03-02": true},
	}
	session := scheduling.NewSession()
	session.MarkCompleted(model.Shift{
		CollaboratorID: 1,
		ServiceDate:    "2024-03-01",
		ServiceType:    model.ServiceTypeDay,
	})

	result, err := CreateShiftBatch(context.Background(), store, session, schedulerSession,
		zap.NewNop(), serviceShiftInput(), []string{"2024-03-01", "2024-03-02", "2024-03-03"})

	require.NoError(t, err)
	// 03-01 is a session duplicate, 03-02 already exists in the backend
	require.Len(t, result.Created, 1)
	assert.Equal(t, "2024-03-03", result.Created[0].ServiceDate)
	assert.Len(t, result.Skipped, 2)
}

func TestCreateShiftBatch_InsertFailureDoesNotAbort(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:   servicePatient,
		insertErr: errors.New("disk full"),
	}

	result, err := CreateShiftBatch(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), serviceShiftInput(), []string{"2024-03-01", "2024-03-02"})

	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Len(t, result.Skipped, 2)
}

func TestCreateShiftBatch_ManagementDatesNeverDeduplicated(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:  servicePatient,
		existing: map[string]bool{"1/2024-03-01": true},
	}

	input := serviceShiftInput()
	input.ServiceType = model.ServiceTypeManagement
	input.TimeWindow = "09:00-11:00"

	result, err := CreateShiftBatch(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), input, []string{"2024-03-01", "2024-03-01"})

	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Skipped)
}

func TestCreateShiftBatch_PatientLookupFailureAbortsUpFront(t *testing.T) {
	store := &mockShiftWriteStore{patientErr: errors.New("patient not found")}

	result, err := CreateShiftBatch(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), serviceShiftInput(), []string{"2024-03-01"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, store.inserted)
}
