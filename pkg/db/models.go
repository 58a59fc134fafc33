package db

import "time"

// Shift represents a database shift record ("escala")
type Shift struct {
	ID             int64
	PatientID      int64
	CollaboratorID int64
	ServiceDate    string // 2006-01-02
	ServiceType    string
	AmountBilled   float64
	AmountPaid     float64
	PaymentMode    string
	TimeWindow     string // empty unless the service type is management
	ExchangeID     *int64 // set when the shift originated from an exchange
}

// Exchange represents a database shift exchange record ("troca de serviço").
// The *Name fields are read-only projections populated by a join at query
// time; they are never written by this system.
type Exchange struct {
	ID                        int64
	OriginShiftID             int64
	OriginCollaboratorID      int64
	DestinationShiftID        int64
	DestinationCollaboratorID int64
	OriginDate                string
	DestinationDate           string
	OriginType                string
	DestinationType           string
	DestinationStatus         string
	ManagerStatus             string

	OriginCollaboratorName      string
	DestinationCollaboratorName string
	PatientName                 string
}

// SwapJournalEntry records the intended before-state of an exchange swap
// before either shift row is mutated, so a reconciliation pass can detect
// and repair partially applied swaps.
type SwapJournalEntry struct {
	ID                            string // uuid
	ExchangeID                    int64
	OriginShiftID                 int64
	DestinationShiftID            int64
	OriginCollaboratorBefore      int64
	DestinationCollaboratorBefore int64
	OriginApplied                 bool
	DestinationApplied            bool
	CreatedAt                     time.Time
	CompletedAt                   *time.Time
}

// Collaborator represents a database collaborator record
type Collaborator struct {
	ID   int64
	Name string
	City string
}

// Patient represents a database patient record
type Patient struct {
	ID                      int64
	Name                    string
	City                    string
	Neighborhood            string
	DefaultDailyRate        float64
	DefaultProfessionalRate float64
}

// ShiftFilter narrows a shift query. Nil/zero fields are ignored.
type ShiftFilter struct {
	PatientID      *int64
	CollaboratorID *int64
	ServiceType    string
	From           string // 2006-01-02, inclusive
	To             string // 2006-01-02, inclusive
	Limit          int
	Offset         int
}

// ExchangeFilter narrows an exchange query
type ExchangeFilter struct {
	PendingOnly    bool // only exchanges whose manager track is still open
	CollaboratorID *int64
}

// InsertShiftResult reports the per-item outcome of a best-effort batch insert
type InsertShiftResult struct {
	Index int
	ID    int64
	Err   error
}

// ShiftUpdate carries the partial fields of a shift update.
// Nil fields are left unchanged.
type ShiftUpdate struct {
	CollaboratorID *int64
	ServiceType    *string
	AmountBilled   *float64
	AmountPaid     *float64
	PaymentMode    *string
	TimeWindow     *string
}
