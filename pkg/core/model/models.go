package model

import "fmt"

// ServiceType is the closed set of shift service codes
type ServiceType string

const (
	ServiceTypeDay        ServiceType = "SD" // day shift
	ServiceTypeNight      ServiceType = "SN" // night shift
	ServiceTypeFull       ServiceType = "P"  // full extended shift
	ServiceTypeMorning    ServiceType = "M"
	ServiceTypeAfternoon  ServiceType = "T"
	ServiceTypeManagement ServiceType = "GR" // ad-hoc, caller supplies the time window
)

// IsValid returns true if the service type is one of the known codes
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeDay, ServiceTypeNight, ServiceTypeFull,
		ServiceTypeMorning, ServiceTypeAfternoon, ServiceTypeManagement:
		return true
	}
	return false
}

// ParseServiceType parses a service type code.
// "PT" is accepted as a legacy alias of "P" and canonicalised.
func ParseServiceType(code string) (ServiceType, error) {
	if code == "PT" {
		return ServiceTypeFull, nil
	}
	t := ServiceType(code)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown service type %q", code)
	}
	return t, nil
}

// Window is the derived working time window for a service type
type Window struct {
	Start        string // HH:MM
	End          string // HH:MM
	SpansNextDay bool   // end time falls on the following calendar day
}

// Window returns the derived time window for the service type.
// Management shifts have no derived window (the caller supplies one),
// so ok is false for ServiceTypeManagement.
func (t ServiceType) Window() (w Window, ok bool) {
	switch t {
	case ServiceTypeDay:
		return Window{Start: "07:00", End: "19:00"}, true
	case ServiceTypeNight:
		return Window{Start: "19:00", End: "07:00", SpansNextDay: true}, true
	case ServiceTypeFull:
		return Window{Start: "07:00", End: "07:00", SpansNextDay: true}, true
	case ServiceTypeMorning:
		return Window{Start: "07:00", End: "13:00"}, true
	case ServiceTypeAfternoon:
		return Window{Start: "13:00", End: "19:00"}, true
	}
	return Window{}, false
}

// PaymentMode is the payment timing mode for a shift
type PaymentMode string

const (
	PaymentUpfront   PaymentMode = "AV" // paid upfront
	PaymentOnReceipt PaymentMode = "AR" // paid on receipt
)

func (m PaymentMode) IsValid() bool {
	return m == PaymentUpfront || m == PaymentOnReceipt
}

// ApprovalStatus is one track of the exchange approval workflow
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusRejected ApprovalStatus = "Rejected"
)

func (s ApprovalStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsTerminal returns true once a track can no longer change
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Role identifies what the current user is allowed to do
type Role string

const (
	RoleManager   Role = "manager"
	RoleScheduler Role = "scheduler"
)

// SessionContext carries the identity of the interactive user through
// the scheduling and exchange operations, instead of each component
// re-fetching it ad hoc.
type SessionContext struct {
	UserID int64
	Role   Role
}

// Collaborator represents a caregiver in the cooperative pool
type Collaborator struct {
	ID   int64
	Name string
	City string
}

// Patient represents the person a shift is scheduled for
type Patient struct {
	ID                      int64
	Name                    string
	City                    string
	Neighborhood            string
	DefaultDailyRate        float64 // default amount billed per day
	DefaultProfessionalRate float64 // default amount paid to the collaborator per day
}

// Shift is a single unit of scheduled work for one collaborator on one date
type Shift struct {
	ID             int64 // zero until persisted
	PatientID      int64
	CollaboratorID int64
	ServiceDate    string // 2006-01-02
	ServiceType    ServiceType
	AmountBilled   float64
	AmountPaid     float64
	PaymentMode    PaymentMode
	TimeWindow     string // only set for management shifts
	ExchangeID     *int64 // set when the shift originated from an exchange
}
