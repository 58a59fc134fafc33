package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/db"
)

// mockShiftWriteStore implements the shift-creation store interfaces
type mockShiftWriteStore struct {
	patient    *db.Patient
	patientErr error

	existing  map[string]bool // "collaboratorID/date" -> shift exists in backend
	existsErr error

	inserted  []db.Shift
	insertErr error
	nextID    int64
}

func (m *mockShiftWriteStore) GetPatient(ctx context.Context, id int64) (*db.Patient, error) {
	if m.patientErr != nil {
		return nil, m.patientErr
	}
	return m.patient, nil
}

func (m *mockShiftWriteStore) ShiftExistsFor(ctx context.Context, collaboratorID int64, date string, excludeTypes []string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.existing[fmt.Sprintf("%d/%s", collaboratorID, date)], nil
}

func (m *mockShiftWriteStore) InsertShift(ctx context.Context, shift *db.Shift) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	shift.ID = m.nextID
	m.inserted = append(m.inserted, *shift)
	return shift.ID, nil
}

var servicePatient = &db.Patient{
	ID:                      10,
	Name:                    "Dona Maria",
	City:                    "Fortaleza",
	Neighborhood:            "Aldeota",
	DefaultDailyRate:        300,
	DefaultProfessionalRate: 180,
}

var schedulerSession = model.SessionContext{UserID: 42, Role: model.RoleScheduler}

func serviceShiftInput() scheduling.ShiftInput {
	return scheduling.ShiftInput{
		PatientID:      10,
		CollaboratorID: 1,
		Date:           "2024-03-01",
		ServiceType:    model.ServiceTypeDay,
		PaymentMode:    model.PaymentUpfront,
	}
}

func TestCreateShift(t *testing.T) {
	store := &mockShiftWriteStore{patient: servicePatient}
	session := scheduling.NewSession()

	result, err := CreateShift(context.Background(), store, session, schedulerSession,
		zap.NewNop(), serviceShiftInput())

	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, int64(1), result.Shift.ID)
	assert.Equal(t, "2024-03-01", result.Shift.ServiceDate)
	assert.Equal(t, "SD", result.Shift.ServiceType)
	assert.Equal(t, 300.0, result.Shift.AmountBilled)
	assert.Equal(t, 180.0, result.Shift.AmountPaid)

	// The persisted shift now counts as a session duplicate
	assert.True(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeDay))
}

func TestCreateShift_ValidationFailureWritesNothing(t *testing.T) {
	store := &mockShiftWriteStore{patient: servicePatient}
	input := serviceShiftInput()
	input.Date = "not-a-date"

	result, err := CreateShift(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), input)

	require.Error(t, err)
	assert.True(t, scheduling.IsValidationError(err))
	assert.Nil(t, result)
	assert.Empty(t, store.inserted)
}

func TestCreateShift_SessionDuplicateRejected(t *testing.T) {
	store := &mockShiftWriteStore{patient: servicePatient}
	session := scheduling.NewSession()
	session.MarkCompleted(model.Shift{
		CollaboratorID: 1,
		ServiceDate:    "2024-03-01",
		ServiceType:    model.ServiceTypeDay,
	})

	result, err := CreateShift(context.Background(), store, session, schedulerSession,
		zap.NewNop(), serviceShiftInput())

	require.ErrorIs(t, err, scheduling.ErrDuplicateShift)
	assert.Nil(t, result)
	assert.Empty(t, store.inserted)
}

func TestCreateShift_BackendDuplicateRejected(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:  servicePatient,
		existing: map[string]bool{"1/2024-03-01": true},
	}

	result, err := CreateShift(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), serviceShiftInput())

	require.ErrorIs(t, err, scheduling.ErrDuplicateShift)
	assert.Nil(t, result)
	assert.Empty(t, store.inserted)
}

func TestCreateShift_DuplicateCheckFailureAborts(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:   servicePatient,
		existsErr: errors.New("connection reset"),
	}

	result, err := CreateShift(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), serviceShiftInput())

	require.Error(t, err)
	assert.NotErrorIs(t, err, scheduling.ErrDuplicateShift)
	assert.Nil(t, result)
	assert.Empty(t, store.inserted)
}

func TestCreateShift_ManagementSkipsDuplicateChecks(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:   servicePatient,
		existsErr: errors.New("should not be called"),
	}
	session := scheduling.NewSession()

	input := serviceShiftInput()
	input.ServiceType = model.ServiceTypeManagement
	input.TimeWindow = "09:00-11:00"

	first, err := CreateShift(context.Background(), store, session, schedulerSession, zap.NewNop(), input)
	require.NoError(t, err)
	second, err := CreateShift(context.Background(), store, session, schedulerSession, zap.NewNop(), input)
	require.NoError(t, err)

	assert.NotEqual(t, first.Shift.ID, second.Shift.ID)
	assert.Len(t, store.inserted, 2)
}

func TestCreateShift_PatientLookupFailure(t *testing.T) {
	store := &mockShiftWriteStore{patientErr: errors.New("patient not found")}

	result, err := CreateShift(context.Background(), store, scheduling.NewSession(),
		schedulerSession, zap.NewNop(), serviceShiftInput())

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestCreateShift_InsertFailureLeavesSessionClean(t *testing.T) {
	store := &mockShiftWriteStore{
		patient:   servicePatient,
		insertErr: errors.New("constraint violation"),
	}
	session := scheduling.NewSession()

	result, err := CreateShift(context.Background(), store, session, schedulerSession,
		zap.NewNop(), serviceShiftInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeDay))
}
