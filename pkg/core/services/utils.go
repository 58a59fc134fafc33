package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/db"
)

const dateLayout = "2006-01-02"

// toModelPatient converts a patient record to the domain type
func toModelPatient(p *db.Patient) model.Patient {
	return model.Patient{
		ID:                      p.ID,
		Name:                    p.Name,
		City:                    p.City,
		Neighborhood:            p.Neighborhood,
		DefaultDailyRate:        p.DefaultDailyRate,
		DefaultProfessionalRate: p.DefaultProfessionalRate,
	}
}

// toModelCollaborators converts collaborator records to the domain type
func toModelCollaborators(records []db.Collaborator) []model.Collaborator {
	collaborators := make([]model.Collaborator, len(records))
	for i, r := range records {
		collaborators[i] = model.Collaborator{ID: r.ID, Name: r.Name, City: r.City}
	}
	return collaborators
}

// toShiftRecord converts a domain shift to its database record
func toShiftRecord(s model.Shift) db.Shift {
	return db.Shift{
		ID:             s.ID,
		PatientID:      s.PatientID,
		CollaboratorID: s.CollaboratorID,
		ServiceDate:    s.ServiceDate,
		ServiceType:    string(s.ServiceType),
		AmountBilled:   s.AmountBilled,
		AmountPaid:     s.AmountPaid,
		PaymentMode:    string(s.PaymentMode),
		TimeWindow:     s.TimeWindow,
		ExchangeID:     s.ExchangeID,
	}
}

// ExpandRecurrence expands an RRULE string into concrete service dates,
// starting from the given date, capped at count occurrences. Used to
// turn a named schedule rule from the config into a batch date list.
func ExpandRecurrence(ruleStr, startDate string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("occurrence count must be positive")
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date format: %w", err)
	}

	rule, err := rrule.StrToRRule(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule: %w", err)
	}
	rule.DTStart(start)

	iterator := rule.Iterator()
	dates := make([]string, 0, count)
	for len(dates) < count {
		next, ok := iterator()
		if !ok {
			break
		}
		dates = append(dates, next.Format(dateLayout))
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("recurrence rule produced no dates")
	}

	return dates, nil
}
