package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/exchange"
	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/db"
)

// ErrManagerRoleRequired is returned when a non-manager session attempts
// an exchange decision
var ErrManagerRoleRequired = errors.New("exchange decisions require the manager role")

// ErrExchangeNotActionable is returned when the exchange is not in a
// state the manager can decide on: the destination collaborator has not
// approved yet, or a track has already reached a terminal state
var ErrExchangeNotActionable = errors.New("exchange is not awaiting a manager decision")

// PartialSwapError reports that manager approval was recorded but the
// collaborator swap was only partially applied to the shift rows.
// The data must be checked (or reconciled); nothing is rolled back.
type PartialSwapError struct {
	ExchangeID int64
	Stage      string
	Err        error
}

func (e *PartialSwapError) Error() string {
	return fmt.Sprintf("exchange %d approved but swap partially applied (%s): %v", e.ExchangeID, e.Stage, e.Err)
}

func (e *PartialSwapError) Unwrap() error { return e.Err }

// ApproveExchangeStore defines the database operations needed to approve an exchange
type ApproveExchangeStore interface {
	GetExchange(ctx context.Context, id int64) (*db.Exchange, error)
	UpdateExchangeManagerStatus(ctx context.Context, id int64, status string) error
	UpdateShiftCollaborator(ctx context.Context, shiftID, collaboratorID int64) error
	InsertSwapJournalEntry(ctx context.Context, entry *db.SwapJournalEntry) error
	UpdateSwapJournalEntry(ctx context.Context, entry *db.SwapJournalEntry) error
}

// ApproveExchangeResult reports how far the approval got
type ApproveExchangeResult struct {
	Exchange           db.Exchange
	OriginUpdated      bool
	DestinationUpdated bool
}

// Partial returns true when the collaborator swap did not reach both shifts
func (r *ApproveExchangeResult) Partial() bool {
	return !r.OriginUpdated || !r.DestinationUpdated
}

// ApproveExchange records the manager's approval of an exchange and
// swaps the assigned collaborators on the two underlying shifts.
//
// Manager approval is the single authorizing event; the two shift
// updates are a best-effort consequence with no cross-row transaction.
// Before any row is mutated an intent entry is written to the swap
// journal, so a later reconciliation pass can repair a partial swap.
// On partial application the returned error is a *PartialSwapError and
// the result describes which side was applied.
func ApproveExchange(
	ctx context.Context,
	store ApproveExchangeStore,
	sess model.SessionContext,
	logger *zap.Logger,
	exchangeID int64,
) (*ApproveExchangeResult, error) {
	logger.Debug("Approving exchange",
		zap.Int64("exchange_id", exchangeID),
		zap.Int64("user_id", sess.UserID))

	if sess.Role != model.RoleManager {
		return nil, ErrManagerRoleRequired
	}

	exch, err := store.GetExchange(ctx, exchangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange: %w", err)
	}

	if !exchange.CanDecide(model.ApprovalStatus(exch.DestinationStatus), model.ApprovalStatus(exch.ManagerStatus)) {
		return nil, fmt.Errorf("%w: destination=%s manager=%s",
			ErrExchangeNotActionable, exch.DestinationStatus, exch.ManagerStatus)
	}

	// Record the intended swap before mutating anything
	entry := &db.SwapJournalEntry{
		ID:                            uuid.NewString(),
		ExchangeID:                    exch.ID,
		OriginShiftID:                 exch.OriginShiftID,
		DestinationShiftID:            exch.DestinationShiftID,
		OriginCollaboratorBefore:      exch.OriginCollaboratorID,
		DestinationCollaboratorBefore: exch.DestinationCollaboratorID,
	}
	if err := store.InsertSwapJournalEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record swap intent: %w", err)
	}

	// Step 1: the authorizing event. Failure here leaves the exchange untouched.
	if err := store.UpdateExchangeManagerStatus(ctx, exch.ID, string(model.StatusApproved)); err != nil {
		return nil, fmt.Errorf("failed to approve exchange: %w", err)
	}
	exch.ManagerStatus = string(model.StatusApproved)

	result := &ApproveExchangeResult{Exchange: *exch}

	// Step 2: origin shift takes the destination collaborator
	if err := store.UpdateShiftCollaborator(ctx, exch.OriginShiftID, exch.DestinationCollaboratorID); err != nil {
		logger.Error("Exchange approved but origin shift update failed",
			zap.Int64("exchange_id", exch.ID),
			zap.Int64("origin_shift_id", exch.OriginShiftID),
			zap.Error(err))
		return result, &PartialSwapError{ExchangeID: exch.ID, Stage: "origin shift", Err: err}
	}
	result.OriginUpdated = true
	entry.OriginApplied = true
	if err := store.UpdateSwapJournalEntry(ctx, entry); err != nil {
		logger.Warn("Failed to update swap journal", zap.String("entry_id", entry.ID), zap.Error(err))
	}

	// Step 3: destination shift takes the origin collaborator.
	// Independent failure does not roll back step 2.
	if err := store.UpdateShiftCollaborator(ctx, exch.DestinationShiftID, exch.OriginCollaboratorID); err != nil {
		logger.Error("Exchange approved but destination shift update failed",
			zap.Int64("exchange_id", exch.ID),
			zap.Int64("destination_shift_id", exch.DestinationShiftID),
			zap.Error(err))
		return result, &PartialSwapError{ExchangeID: exch.ID, Stage: "destination shift", Err: err}
	}
	result.DestinationUpdated = true

	entry.DestinationApplied = true
	now := time.Now().UTC()
	entry.CompletedAt = &now
	if err := store.UpdateSwapJournalEntry(ctx, entry); err != nil {
		logger.Warn("Failed to complete swap journal entry", zap.String("entry_id", entry.ID), zap.Error(err))
	}

	logger.Info("Exchange approved and shifts swapped",
		zap.Int64("exchange_id", exch.ID),
		zap.Int64("origin_shift_id", exch.OriginShiftID),
		zap.Int64("destination_shift_id", exch.DestinationShiftID))

	return result, nil
}
