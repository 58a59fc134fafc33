package scheduling

import (
	"sort"

	"github.com/google/uuid"

	"github.com/coopsaude/escala/pkg/core/model"
)

// completionKey identifies a shift for session duplicate prevention
type completionKey struct {
	collaboratorID int64
	date           string
	serviceType    model.ServiceType
}

// Session tracks the shifts created during one interactive scheduling
// session: the completed set backs the fast-path duplicate check, and
// the staged rotation plan holds generated-but-not-yet-persisted shifts.
type Session struct {
	// PlanID identifies the current staged rotation plan
	PlanID string

	completed map[completionKey]struct{}
	staged    map[string][]model.Shift // keyed by service date
}

// NewSession creates an empty scheduling session
func NewSession() *Session {
	return &Session{
		PlanID:    uuid.NewString(),
		completed: make(map[completionKey]struct{}),
		staged:    make(map[string][]model.Shift),
	}
}

// MarkCompleted records a successfully persisted shift in the session set
func (s *Session) MarkCompleted(shift model.Shift) {
	s.completed[completionKey{
		collaboratorID: shift.CollaboratorID,
		date:           shift.ServiceDate,
		serviceType:    shift.ServiceType,
	}] = struct{}{}
}

// IsDuplicate reports whether a shift with the same collaborator, date
// and service type was already completed this session. Management
// shifts are exempt: they may legitimately coexist.
func (s *Session) IsDuplicate(collaboratorID int64, date string, serviceType model.ServiceType) bool {
	if serviceType == model.ServiceTypeManagement {
		return false
	}
	_, found := s.completed[completionKey{
		collaboratorID: collaboratorID,
		date:           date,
		serviceType:    serviceType,
	}]
	return found
}

// StageRotation adds generated rotation shifts to the staging plan.
// Dates that overlap a previously staged batch are replaced rather than
// duplicated: the last generation wins for each date.
func (s *Session) StageRotation(shifts []model.Shift) {
	byDate := make(map[string][]model.Shift)
	for _, shift := range shifts {
		byDate[shift.ServiceDate] = append(byDate[shift.ServiceDate], shift)
	}
	for date, dayShifts := range byDate {
		s.staged[date] = dayShifts
	}
}

// StagedShifts returns the full staged plan ordered by date
func (s *Session) StagedShifts() []model.Shift {
	dates := make([]string, 0, len(s.staged))
	for date := range s.staged {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var shifts []model.Shift
	for _, date := range dates {
		shifts = append(shifts, s.staged[date]...)
	}
	return shifts
}

// StagedCount returns the number of shifts currently staged
func (s *Session) StagedCount() int {
	count := 0
	for _, dayShifts := range s.staged {
		count += len(dayShifts)
	}
	return count
}

// ClearStaged discards the staged plan and starts a fresh one
func (s *Session) ClearStaged() {
	s.PlanID = uuid.NewString()
	s.staged = make(map[string][]model.Shift)
}
