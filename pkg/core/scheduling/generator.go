// Package scheduling builds shift records from user input: single
// shifts, per-date batches and rotated multi-collaborator ranges. It
// owns the validation rules, the time-window derivation and the
// session-scoped duplicate staging set.
package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coopsaude/escala/pkg/core/model"
)

const dateLayout = "2006-01-02"

// ErrDuplicateShift is returned when a shift for the same collaborator,
// date and non-management service type already exists
var ErrDuplicateShift = errors.New("collaborator already has a shift of this type on this date")

// ValidationError reports a missing or malformed input field.
// No write is performed when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a user-correctable input error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ShiftInput is the caller-supplied data for one shift
type ShiftInput struct {
	PatientID      int64
	CollaboratorID int64
	Date           string // 2006-01-02
	ServiceType    model.ServiceType
	PaymentMode    model.PaymentMode
	AmountBilled   float64 // zero means use the patient's default daily rate
	AmountPaid     float64 // zero means use the patient's default professional rate
	TimeWindow     string  // required for management shifts, ignored otherwise
}

// BuildShift validates the input and produces an unpersisted shift,
// filling amounts from the patient's default rates when not overridden.
func BuildShift(input ShiftInput, patient model.Patient) (*model.Shift, error) {
	if input.PatientID == 0 {
		return nil, &ValidationError{Field: "patient", Reason: "no patient selected"}
	}
	if input.CollaboratorID == 0 {
		return nil, &ValidationError{Field: "collaborator", Reason: "no collaborator selected"}
	}
	if input.Date == "" {
		return nil, &ValidationError{Field: "date", Reason: "no service date given"}
	}
	if _, err := time.Parse(dateLayout, input.Date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a valid date", input.Date)}
	}
	if !input.ServiceType.IsValid() {
		return nil, &ValidationError{Field: "service type", Reason: fmt.Sprintf("unknown code %q", string(input.ServiceType))}
	}
	if !input.PaymentMode.IsValid() {
		return nil, &ValidationError{Field: "payment mode", Reason: "must be AV or AR"}
	}

	shift := &model.Shift{
		PatientID:      input.PatientID,
		CollaboratorID: input.CollaboratorID,
		ServiceDate:    input.Date,
		ServiceType:    input.ServiceType,
		PaymentMode:    input.PaymentMode,
		AmountBilled:   input.AmountBilled,
		AmountPaid:     input.AmountPaid,
	}
	if shift.AmountBilled == 0 {
		shift.AmountBilled = patient.DefaultDailyRate
	}
	if shift.AmountPaid == 0 {
		shift.AmountPaid = patient.DefaultProfessionalRate
	}

	if input.ServiceType == model.ServiceTypeManagement {
		window := strings.TrimSpace(input.TimeWindow)
		if window == "" {
			return nil, &ValidationError{Field: "time window", Reason: "management shifts require a time window"}
		}
		shift.TimeWindow = window
	}

	return shift, nil
}

// RotationInput describes a contiguous date range to be cycled across
// an ordered list of collaborators for fairness.
type RotationInput struct {
	PatientID     int64
	Collaborators []model.Collaborator // order determines the cycle
	ServiceType   model.ServiceType    // P for full-day rotation, SD or SN for day/night pairing
	Start         string               // 2006-01-02, inclusive
	End           string               // 2006-01-02, inclusive
	PaymentMode   model.PaymentMode
	AmountBilled  float64 // zero means patient default
	AmountPaid    float64
}

// BuildRotation produces the staged shifts for a rotated date range.
//
// For service type P, day i of the range is assigned to collaborator
// i mod N, one shift per day. For SD/SN, each day gets two shifts
// covering collaborators i mod N and (i+1) mod N; on even day indices
// the first of the pair takes the day shift, and the labels alternate
// daily so the same collaborator does not always draw the same one.
func BuildRotation(input RotationInput, patient model.Patient) ([]model.Shift, error) {
	if input.PatientID == 0 {
		return nil, &ValidationError{Field: "patient", Reason: "no patient selected"}
	}
	if len(input.Collaborators) == 0 {
		return nil, &ValidationError{Field: "collaborators", Reason: "no collaborators selected"}
	}
	switch input.ServiceType {
	case model.ServiceTypeFull, model.ServiceTypeDay, model.ServiceTypeNight:
	default:
		return nil, &ValidationError{Field: "service type", Reason: "rotation supports P, SD and SN only"}
	}
	if !input.PaymentMode.IsValid() {
		return nil, &ValidationError{Field: "payment mode", Reason: "must be AV or AR"}
	}

	start, err := time.Parse(dateLayout, input.Start)
	if err != nil {
		return nil, &ValidationError{Field: "start date", Reason: fmt.Sprintf("%q is not a valid date", input.Start)}
	}
	end, err := time.Parse(dateLayout, input.End)
	if err != nil {
		return nil, &ValidationError{Field: "end date", Reason: fmt.Sprintf("%q is not a valid date", input.End)}
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "date range", Reason: "end date is before start date"}
	}

	billed := input.AmountBilled
	if billed == 0 {
		billed = patient.DefaultDailyRate
	}
	paid := input.AmountPaid
	if paid == 0 {
		paid = patient.DefaultProfessionalRate
	}

	n := len(input.Collaborators)
	var shifts []model.Shift

	for day, date := 0, start; !date.After(end); day, date = day+1, date.AddDate(0, 0, 1) {
		dateStr := date.Format(dateLayout)

		if input.ServiceType == model.ServiceTypeFull {
			shifts = append(shifts, model.Shift{
				PatientID:      input.PatientID,
				CollaboratorID: input.Collaborators[day%n].ID,
				ServiceDate:    dateStr,
				ServiceType:    model.ServiceTypeFull,
				AmountBilled:   billed,
				AmountPaid:     paid,
				PaymentMode:    input.PaymentMode,
			})
			continue
		}

		// Day/night pairing: two shifts per day, alternating labels by
		// day-index parity
		first := input.Collaborators[day%n]
		second := input.Collaborators[(day+1)%n]
		firstType, secondType := model.ServiceTypeDay, model.ServiceTypeNight
		if day%2 == 1 {
			firstType, secondType = model.ServiceTypeNight, model.ServiceTypeDay
		}

		shifts = append(shifts,
			model.Shift{
				PatientID:      input.PatientID,
				CollaboratorID: first.ID,
				ServiceDate:    dateStr,
				ServiceType:    firstType,
				AmountBilled:   billed,
				AmountPaid:     paid,
				PaymentMode:    input.PaymentMode,
			},
			model.Shift{
				PatientID:      input.PatientID,
				CollaboratorID: second.ID,
				ServiceDate:    dateStr,
				ServiceType:    secondType,
				AmountBilled:   billed,
				AmountPaid:     paid,
				PaymentMode:    input.PaymentMode,
			},
		)
	}

	return shifts, nil
}
