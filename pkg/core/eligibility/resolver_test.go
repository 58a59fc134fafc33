package eligibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
)

// mockAssociationStore implements a test double for the resolver lookups
type mockAssociationStore struct {
	neighborhoods       map[int64][]string
	patientSpecialties  []int64
	specialtyMatches    []int64
	availability        map[string][]int64
	neighborhoodsErr    error
	patientSpecsErr     error
	specialtyMatchesErr error
	availabilityErr     error
}

func (m *mockAssociationStore) GetNeighborhoods(ctx context.Context, collaboratorID int64) ([]string, error) {
	if m.neighborhoodsErr != nil {
		return nil, m.neighborhoodsErr
	}
	return m.neighborhoods[collaboratorID], nil
}

func (m *mockAssociationStore) GetPatientSpecialties(ctx context.Context, patientID int64) ([]int64, error) {
	if m.patientSpecsErr != nil {
		return nil, m.patientSpecsErr
	}
	return m.patientSpecialties, nil
}

func (m *mockAssociationStore) GetCollaboratorsBySpecialties(ctx context.Context, specialtyIDs []int64) ([]int64, error) {
	if m.specialtyMatchesErr != nil {
		return nil, m.specialtyMatchesErr
	}
	return m.specialtyMatches, nil
}

func (m *mockAssociationStore) GetAvailability(ctx context.Context, date string) ([]int64, error) {
	if m.availabilityErr != nil {
		return nil, m.availabilityErr
	}
	return m.availability[date], nil
}

var testPatient = model.Patient{ID: 10, Name: "Dona Maria", City: "Fortaleza", Neighborhood: "Aldeota"}

func testPool() []model.Collaborator {
	return []model.Collaborator{
		{ID: 1, Name: "Ana", City: "Fortaleza"},
		{ID: 2, Name: "Bruno", City: "Fortaleza"},
		{ID: 3, Name: "Carla", City: "Sobral"},
		{ID: 4, Name: "Davi", City: "Fortaleza"},
	}
}

func TestResolve_CityFilterIsUnconditional(t *testing.T) {
	store := &mockAssociationStore{}
	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{})

	require.Len(t, result.Collaborators, 3)
	for _, c := range result.Collaborators {
		assert.Equal(t, "Fortaleza", c.City)
	}
}

func TestResolve_OrderedByName(t *testing.T) {
	store := &mockAssociationStore{}
	pool := []model.Collaborator{
		{ID: 2, Name: "Bruno", City: "Fortaleza"},
		{ID: 4, Name: "Davi", City: "Fortaleza"},
		{ID: 1, Name: "Ana", City: "Fortaleza"},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, pool, Options{})

	names := make([]string, len(result.Collaborators))
	for i, c := range result.Collaborators {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Davi"}, names)
}

func TestResolve_NeighborhoodFilterNarrows(t *testing.T) {
	store := &mockAssociationStore{
		neighborhoods: map[int64][]string{
			1: {"Aldeota", "Meireles"},
			2: {"Benfica"},
			4: {"Aldeota"},
		},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{ApplyNeighborhoodFilter: true})

	require.Len(t, result.Collaborators, 2)
	assert.Equal(t, "Ana", result.Collaborators[0].Name)
	assert.Equal(t, "Davi", result.Collaborators[1].Name)
	assert.False(t, result.NeighborhoodFilterSkipped)
}

func TestResolve_NeighborhoodFilterNeverWidens(t *testing.T) {
	// Enabling the neighborhood filter must never increase the eligible
	// set relative to the city-only result
	stores := []*mockAssociationStore{
		{neighborhoods: map[int64][]string{}},
		{neighborhoods: map[int64][]string{1: {"Aldeota"}, 2: {"Aldeota"}, 4: {"Aldeota"}}},
		{neighborhoods: map[int64][]string{2: {"Centro"}}},
	}

	for _, store := range stores {
		cityOnly := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
			testPatient, testPool(), Options{})
		withNeighborhood := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
			testPatient, testPool(), Options{ApplyNeighborhoodFilter: true})

		assert.LessOrEqual(t, len(withNeighborhood.Collaborators), len(cityOnly.Collaborators))
	}
}

func TestResolve_NeighborhoodLookupFailureFailsOpen(t *testing.T) {
	store := &mockAssociationStore{
		neighborhoodsErr: errors.New("association table unavailable"),
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{ApplyNeighborhoodFilter: true})

	// Degrades to the city-only set instead of aborting
	assert.Len(t, result.Collaborators, 3)
	assert.True(t, result.NeighborhoodFilterSkipped)
}

func TestResolve_SpecialtyIntersection(t *testing.T) {
	store := &mockAssociationStore{
		patientSpecialties: []int64{7},
		specialtyMatches:   []int64{2, 3},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{})

	// Collaborator 3 is in another city, so only 2 survives both filters
	require.Len(t, result.Collaborators, 1)
	assert.Equal(t, int64(2), result.Collaborators[0].ID)
}

func TestResolve_SpecialtyFailsClosed(t *testing.T) {
	// A required specialty nobody holds empties the result even though
	// the city filter alone was non-empty
	store := &mockAssociationStore{
		patientSpecialties: []int64{7},
		specialtyMatches:   []int64{},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{})

	assert.Empty(t, result.Collaborators)
	assert.True(t, result.NoSpecialtyMatch)
}

func TestResolve_NoRequiredSpecialtiesSkipsFilter(t *testing.T) {
	store := &mockAssociationStore{
		patientSpecialties: []int64{},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{})

	assert.Len(t, result.Collaborators, 3)
	assert.False(t, result.NoSpecialtyMatch)
}

func TestResolve_SpecialtyLookupFailureFailsOpen(t *testing.T) {
	tests := []struct {
		name  string
		store *mockAssociationStore
	}{
		{"patient specialties lookup fails", &mockAssociationStore{patientSpecsErr: errors.New("boom")}},
		{"collaborator specialties lookup fails", &mockAssociationStore{
			patientSpecialties:  []int64{7},
			specialtyMatchesErr: errors.New("boom"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Resolve(context.Background(), tt.store, model.SessionContext{}, zap.NewNop(),
				testPatient, testPool(), Options{})

			assert.Len(t, result.Collaborators, 3)
			assert.False(t, result.NoSpecialtyMatch)
		})
	}
}

func TestResolve_AvailabilityForDate(t *testing.T) {
	store := &mockAssociationStore{
		availability: map[string][]int64{
			"2024-03-01": {1, 3},
		},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{Date: "2024-03-01"})

	require.Len(t, result.Collaborators, 1)
	assert.Equal(t, "Ana", result.Collaborators[0].Name)
	assert.False(t, result.NoAvailabilityForDate)
}

func TestResolve_NoAvailabilityIsInformational(t *testing.T) {
	store := &mockAssociationStore{
		availability: map[string][]int64{},
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{Date: "2024-03-02"})

	assert.Empty(t, result.Collaborators)
	assert.True(t, result.NoAvailabilityForDate)
}

func TestResolve_AvailabilityLookupFailureFailsOpen(t *testing.T) {
	store := &mockAssociationStore{
		availabilityErr: errors.New("boom"),
	}

	result := Resolve(context.Background(), store, model.SessionContext{}, zap.NewNop(),
		testPatient, testPool(), Options{Date: "2024-03-01"})

	assert.Len(t, result.Collaborators, 3)
	assert.False(t, result.NoAvailabilityForDate)
}
