package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopsaude/escala/pkg/core/model"
)

func TestSession_DuplicateDetection(t *testing.T) {
	session := NewSession()

	assert.False(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeDay))

	session.MarkCompleted(model.Shift{
		CollaboratorID: 1,
		ServiceDate:    "2024-03-01",
		ServiceType:    model.ServiceTypeDay,
	})

	assert.True(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeDay))

	// Any differing key component is not a duplicate
	assert.False(t, session.IsDuplicate(2, "2024-03-01", model.ServiceTypeDay))
	assert.False(t, session.IsDuplicate(1, "2024-03-02", model.ServiceTypeDay))
	assert.False(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeNight))
}

func TestSession_ManagementShiftsExempt(t *testing.T) {
	session := NewSession()

	session.MarkCompleted(model.Shift{
		CollaboratorID: 1,
		ServiceDate:    "2024-03-01",
		ServiceType:    model.ServiceTypeManagement,
	})

	// Several management shifts for the same collaborator and date are
	// legitimate
	assert.False(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeManagement))
}

func TestSession_StageRotationOrdersByDate(t *testing.T) {
	session := NewSession()

	session.StageRotation([]model.Shift{
		{CollaboratorID: 2, ServiceDate: "2024-03-02", ServiceType: model.ServiceTypeFull},
		{CollaboratorID: 1, ServiceDate: "2024-03-01", ServiceType: model.ServiceTypeFull},
		{CollaboratorID: 3, ServiceDate: "2024-03-03", ServiceType: model.ServiceTypeFull},
	})

	staged := session.StagedShifts()
	require.Len(t, staged, 3)
	assert.Equal(t, "2024-03-01", staged[0].ServiceDate)
	assert.Equal(t, "2024-03-02", staged[1].ServiceDate)
	assert.Equal(t, "2024-03-03", staged[2].ServiceDate)
	assert.Equal(t, 3, session.StagedCount())
}

func TestSession_RestagingReplacesOverlappingDates(t *testing.T) {
	session := NewSession()

	session.StageRotation([]model.Shift{
		{CollaboratorID: 1, ServiceDate: "2024-03-01", ServiceType: model.ServiceTypeDay},
		{CollaboratorID: 2, ServiceDate: "2024-03-01", ServiceType: model.ServiceTypeNight},
		{CollaboratorID: 1, ServiceDate: "2024-03-02", ServiceType: model.ServiceTypeDay},
	})
	require.Equal(t, 3, session.StagedCount())

	// Regenerating 2024-03-01 replaces that day's pair without touching
	// 2024-03-02
	session.StageRotation([]model.Shift{
		{CollaboratorID: 5, ServiceDate: "2024-03-01", ServiceType: model.ServiceTypeDay},
		{CollaboratorID: 6, ServiceDate: "2024-03-01", ServiceType: model.ServiceTypeNight},
	})

	staged := session.StagedShifts()
	require.Len(t, staged, 3)
	assert.Equal(t, int64(5), staged[0].CollaboratorID)
	assert.Equal(t, int64(6), staged[1].CollaboratorID)
	assert.Equal(t, int64(1), staged[2].CollaboratorID)
	assert.Equal(t, "2024-03-02", staged[2].ServiceDate)
}

func TestSession_ClearStagedStartsNewPlan(t *testing.T) {
	session := NewSession()
	originalPlan := session.PlanID
	require.NotEmpty(t, originalPlan)

	session.StageRotation([]model.Shift{
		{CollaboratorID: 1, ServiceDate: "2024-03-01", ServiceType: model.ServiceTypeFull},
	})
	session.ClearStaged()

	assert.Zero(t, session.StagedCount())
	assert.Empty(t, session.StagedShifts())
	assert.NotEqual(t, originalPlan, session.PlanID)
}

func TestSession_ClearStagedKeepsCompletedSet(t *testing.T) {
	session := NewSession()

	session.MarkCompleted(model.Shift{
		CollaboratorID: 1,
		ServiceDate:    "2024-03-01",
		ServiceType:    model.ServiceTypeDay,
	})
	session.ClearStaged()

	assert.True(t, session.IsDuplicate(1, "2024-03-01", model.ServiceTypeDay))
}
