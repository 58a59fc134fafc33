// Package exchange holds the pure state rules for the two-track shift
// exchange approval workflow: a destination-collaborator track and a
// manager track, both Pending -> Approved | Rejected. The collaborator
// swap on the underlying shifts is gated on the manager track alone,
// and only once the destination track has approved.
package exchange

import "github.com/coopsaude/escala/pkg/core/model"

// CompositeStatus composes the two approval tracks into the single
// status shown to users. It is a display rule, never stored.
//
//   - destination Rejected         -> Rejected, regardless of manager
//   - destination Pending          -> Pending
//   - destination Approved:
//     manager Pending              -> Pending (awaiting manager decision)
//     manager Approved             -> Approved
//     manager Rejected             -> Rejected
func CompositeStatus(destination, manager model.ApprovalStatus) model.ApprovalStatus {
	switch destination {
	case model.StatusRejected:
		return model.StatusRejected
	case model.StatusPending:
		return model.StatusPending
	}
	return manager
}

// CanDecide returns true when the manager may approve or reject the
// exchange: the destination collaborator has accepted and the manager
// track is still open.
func CanDecide(destination, manager model.ApprovalStatus) bool {
	return destination == model.StatusApproved && manager == model.StatusPending
}

// IsTerminal returns true when no further action can change the
// composite outcome of the exchange.
func IsTerminal(destination, manager model.ApprovalStatus) bool {
	if destination == model.StatusRejected {
		return true
	}
	return destination == model.StatusApproved && manager.IsTerminal()
}
