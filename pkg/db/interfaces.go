package db

import "context"

// ShiftStore is the persistence contract the shift generator relies on.
// No cross-row transactional guarantee is offered; batch operations are
// best-effort and callers must handle partial failure.
type ShiftStore interface {
	InsertShift(ctx context.Context, shift *Shift) (int64, error)
	InsertShifts(ctx context.Context, shifts []Shift) []InsertShiftResult
	GetShifts(ctx context.Context, filter ShiftFilter) ([]Shift, error)
	UpdateShiftCollaborator(ctx context.Context, shiftID, collaboratorID int64) error
	UpdateShiftFields(ctx context.Context, shiftID int64, update ShiftUpdate) error
	DeleteShift(ctx context.Context, shiftID int64) error

	// ShiftExistsFor reports whether the collaborator already has a
	// persisted shift on the date, ignoring the given service types.
	// This is the authoritative complement to the session-scoped check.
	ShiftExistsFor(ctx context.Context, collaboratorID int64, date string, excludeTypes []string) (bool, error)
}

// ExchangeStore is the persistence contract of the exchange workflow.
// Exchanges are created externally; this system only reads them and
// moves the manager approval track.
type ExchangeStore interface {
	GetExchange(ctx context.Context, id int64) (*Exchange, error)
	GetExchanges(ctx context.Context, filter ExchangeFilter) ([]Exchange, error)
	UpdateExchangeManagerStatus(ctx context.Context, id int64, status string) error
}

// SwapJournalStore persists the compensating-log entries written before
// an exchange swap mutates the shift rows.
type SwapJournalStore interface {
	InsertSwapJournalEntry(ctx context.Context, entry *SwapJournalEntry) error
	UpdateSwapJournalEntry(ctx context.Context, entry *SwapJournalEntry) error
	GetIncompleteSwapJournalEntries(ctx context.Context) ([]SwapJournalEntry, error)
}

// LookupStore covers the read-only reference lookups used by the
// eligibility resolver and the shift generator.
type LookupStore interface {
	GetPatient(ctx context.Context, id int64) (*Patient, error)
	ListCollaborators(ctx context.Context) ([]Collaborator, error)
	GetNeighborhoods(ctx context.Context, collaboratorID int64) ([]string, error)
	GetPatientSpecialties(ctx context.Context, patientID int64) ([]int64, error)
	GetCollaboratorsBySpecialties(ctx context.Context, specialtyIDs []int64) ([]int64, error)
	GetAvailability(ctx context.Context, date string) ([]int64, error)
}

// Store is the full gateway contract implemented by pkg/postgres
type Store interface {
	ShiftStore
	ExchangeStore
	SwapJournalStore
	LookupStore
}
