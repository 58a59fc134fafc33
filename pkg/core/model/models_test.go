package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceType(t *testing.T) {
	for _, code := range []string{"SD", "SN", "P", "M", "T", "GR"} {
		parsed, err := ParseServiceType(code)
		require.NoError(t, err)
		assert.Equal(t, ServiceType(code), parsed)
	}

	// Legacy alias is canonicalised
	parsed, err := ParseServiceType("PT")
	require.NoError(t, err)
	assert.Equal(t, ServiceTypeFull, parsed)

	_, err = ParseServiceType("XX")
	assert.Error(t, err)
	_, err = ParseServiceType("")
	assert.Error(t, err)
}

func TestServiceTypeWindow(t *testing.T) {
	tests := []struct {
		serviceType ServiceType
		want        Window
	}{
		{ServiceTypeDay, Window{Start: "07:00", End: "19:00"}},
		{ServiceTypeNight, Window{Start: "19:00", End: "07:00", SpansNextDay: true}},
		{ServiceTypeFull, Window{Start: "07:00", End: "07:00", SpansNextDay: true}},
		{ServiceTypeMorning, Window{Start: "07:00", End: "13:00"}},
		{ServiceTypeAfternoon, Window{Start: "13:00", End: "19:00"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.serviceType), func(t *testing.T) {
			window, ok := tt.serviceType.Window()
			require.True(t, ok)
			assert.Equal(t, tt.want, window)
		})
	}

	// Management has no derived window
	_, ok := ServiceTypeManagement.Window()
	assert.False(t, ok)
}
