// Package eligibility computes which collaborators may be assigned to a
// patient: city match, optional neighborhood match, specialty match and
// per-date availability, applied in that order.
package eligibility

import (
	"context"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
)

// AssociationStore defines the lookups the resolver performs itself.
// The patient and the collaborator pool are loaded by the caller.
type AssociationStore interface {
	// GetNeighborhoods returns the neighborhood names registered for a collaborator
	GetNeighborhoods(ctx context.Context, collaboratorID int64) ([]string, error)
	// GetPatientSpecialties returns the specialty ids a patient requires (possibly empty)
	GetPatientSpecialties(ctx context.Context, patientID int64) ([]int64, error)
	// GetCollaboratorsBySpecialties returns the ids of collaborators holding any of the given specialties
	GetCollaboratorsBySpecialties(ctx context.Context, specialtyIDs []int64) ([]int64, error)
	// GetAvailability returns the ids of collaborators explicitly marked available for the date
	GetAvailability(ctx context.Context, date string) ([]int64, error)
}

// Options controls the optional filter steps
type Options struct {
	// ApplyNeighborhoodFilter restricts candidates to collaborators
	// registered in the patient's neighborhood
	ApplyNeighborhoodFilter bool

	// Date, when set (2006-01-02), restricts candidates to collaborators
	// with an availability record for that date (single-schedule flow)
	Date string
}

// Result is the outcome of an eligibility resolution
type Result struct {
	// Collaborators eligible for assignment, ordered by name
	Collaborators []model.Collaborator

	// NeighborhoodFilterSkipped is set when the neighborhood lookup
	// failed and the filter was skipped (fail-open degradation)
	NeighborhoodFilterSkipped bool

	// NoSpecialtyMatch is set when the patient requires specialties but
	// no candidate holds any of them (terminal "no eligible collaborator")
	NoSpecialtyMatch bool

	// NoAvailabilityForDate is set when a date was given and no candidate
	// has an availability record for it (informational, not an error)
	NoAvailabilityForDate bool
}

// Resolve filters the collaborator pool down to those eligible for the
// patient. Association lookup failures are logged and fail open (the
// criterion is skipped), except the specialty intersection: when the
// patient requires specialties and none of the candidates match, the
// result is empty rather than falling back to the broader set.
func Resolve(
	ctx context.Context,
	store AssociationStore,
	sess model.SessionContext,
	logger *zap.Logger,
	patient model.Patient,
	pool []model.Collaborator,
	opts Options,
) *Result {
	logger.Debug("Resolving eligible collaborators",
		zap.Int64("patient_id", patient.ID),
		zap.Int64("user_id", sess.UserID),
		zap.Int("pool_size", len(pool)),
		zap.Bool("neighborhood_filter", opts.ApplyNeighborhoodFilter),
		zap.String("date", opts.Date))

	result := &Result{}

	// Step 1: city match, unconditional
	candidates := filterByCity(pool, patient.City)
	logger.Debug("Filtered by city", zap.String("city", patient.City), zap.Int("count", len(candidates)))

	// Step 2: optional neighborhood match
	if opts.ApplyNeighborhoodFilter {
		narrowed, err := filterByNeighborhood(ctx, store, candidates, patient.Neighborhood)
		if err != nil {
			// Degrade gracefully to the city-only set
			logger.Warn("Neighborhood lookup failed, skipping neighborhood filter",
				zap.Int64("patient_id", patient.ID), zap.Error(err))
			result.NeighborhoodFilterSkipped = true
		} else {
			candidates = narrowed
			logger.Debug("Filtered by neighborhood",
				zap.String("neighborhood", patient.Neighborhood), zap.Int("count", len(candidates)))
		}
	}

	// Step 3: specialty intersection
	required, err := store.GetPatientSpecialties(ctx, patient.ID)
	if err != nil {
		logger.Warn("Patient specialty lookup failed, skipping specialty filter",
			zap.Int64("patient_id", patient.ID), zap.Error(err))
	} else if len(required) > 0 {
		matchingIDs, err := store.GetCollaboratorsBySpecialties(ctx, required)
		if err != nil {
			logger.Warn("Specialty collaborator lookup failed, skipping specialty filter",
				zap.Int64("patient_id", patient.ID), zap.Error(err))
		} else {
			candidates = filterByIDs(candidates, matchingIDs)
			logger.Debug("Filtered by specialties",
				zap.Int64s("required", required), zap.Int("count", len(candidates)))
			if len(candidates) == 0 {
				// Fail closed: a required specialty nobody holds is a
				// terminal outcome, not a reason to widen the filter
				result.NoSpecialtyMatch = true
			}
		}
	}

	// Step 4: per-date availability (single-schedule flow only)
	if opts.Date != "" {
		availableIDs, err := store.GetAvailability(ctx, opts.Date)
		if err != nil {
			logger.Warn("Availability lookup failed, skipping availability filter",
				zap.String("date", opts.Date), zap.Error(err))
		} else {
			candidates = filterByIDs(candidates, availableIDs)
			logger.Debug("Filtered by availability", zap.String("date", opts.Date), zap.Int("count", len(candidates)))
			if len(candidates) == 0 {
				result.NoAvailabilityForDate = true
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})
	result.Collaborators = candidates

	return result
}

// filterByCity keeps collaborators whose city equals the patient's city
func filterByCity(pool []model.Collaborator, city string) []model.Collaborator {
	filtered := make([]model.Collaborator, 0)
	for _, c := range pool {
		if c.City == city {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// filterByNeighborhood keeps collaborators whose registered neighborhood
// set contains the patient's neighborhood. Any lookup error abandons the
// whole step so the caller can fall back to the unfiltered set.
func filterByNeighborhood(
	ctx context.Context,
	store AssociationStore,
	candidates []model.Collaborator,
	neighborhood string,
) ([]model.Collaborator, error) {
	filtered := make([]model.Collaborator, 0)
	for _, c := range candidates {
		neighborhoods, err := store.GetNeighborhoods(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if slices.Contains(neighborhoods, neighborhood) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// filterByIDs keeps collaborators whose id appears in the given set
func filterByIDs(candidates []model.Collaborator, ids []int64) []model.Collaborator {
	allowed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	filtered := make([]model.Collaborator, 0)
	for _, c := range candidates {
		if allowed[c.ID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
