package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coopsaude/escala/pkg/core/model"
)

func TestCompositeStatus(t *testing.T) {
	tests := []struct {
		name        string
		destination model.ApprovalStatus
		manager     model.ApprovalStatus
		want        model.ApprovalStatus
	}{
		{"both pending", model.StatusPending, model.StatusPending, model.StatusPending},
		{"destination pending hides manager approval", model.StatusPending, model.StatusApproved, model.StatusPending},
		{"destination pending hides manager rejection", model.StatusPending, model.StatusRejected, model.StatusPending},
		{"destination rejected wins over manager approval", model.StatusRejected, model.StatusApproved, model.StatusRejected},
		{"destination rejected wins over pending manager", model.StatusRejected, model.StatusPending, model.StatusRejected},
		{"destination approved awaits manager", model.StatusApproved, model.StatusPending, model.StatusPending},
		{"both approved", model.StatusApproved, model.StatusApproved, model.StatusApproved},
		{"manager rejects after destination approval", model.StatusApproved, model.StatusRejected, model.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompositeStatus(tt.destination, tt.manager))
		})
	}
}

func TestCanDecide(t *testing.T) {
	assert.True(t, CanDecide(model.StatusApproved, model.StatusPending))

	// Everything else is not actionable by the manager
	assert.False(t, CanDecide(model.StatusPending, model.StatusPending))
	assert.False(t, CanDecide(model.StatusRejected, model.StatusPending))
	assert.False(t, CanDecide(model.StatusApproved, model.StatusApproved))
	assert.False(t, CanDecide(model.StatusApproved, model.StatusRejected))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.StatusRejected, model.StatusPending))
	assert.True(t, IsTerminal(model.StatusApproved, model.StatusApproved))
	assert.True(t, IsTerminal(model.StatusApproved, model.StatusRejected))

	assert.False(t, IsTerminal(model.StatusPending, model.StatusPending))
	assert.False(t, IsTerminal(model.StatusApproved, model.StatusPending))
}
