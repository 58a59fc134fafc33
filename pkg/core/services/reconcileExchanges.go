package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/db"
)

// ReconcileExchangesStore defines the database operations needed to
// repair partially applied swaps
type ReconcileExchangesStore interface {
	GetIncompleteSwapJournalEntries(ctx context.Context) ([]db.SwapJournalEntry, error)
	GetExchange(ctx context.Context, id int64) (*db.Exchange, error)
	UpdateShiftCollaborator(ctx context.Context, shiftID, collaboratorID int64) error
	UpdateSwapJournalEntry(ctx context.Context, entry *db.SwapJournalEntry) error
}

// ReconcileExchangesResult summarizes a reconciliation pass
type ReconcileExchangesResult struct {
	Scanned  int
	Repaired int
	Skipped  int
	Failed   int
}

// ReconcileExchanges scans the swap journal for entries whose swap never
// fully applied and re-applies the missing shift updates. Entries whose
// exchange was never manager-approved are skipped: the intent was
// recorded but the authorizing event did not happen, so mutating the
// shifts would be wrong. Re-applying an already-applied side is
// idempotent (the target collaborator id is taken from the journal).
func ReconcileExchanges(
	ctx context.Context,
	store ReconcileExchangesStore,
	sess model.SessionContext,
	logger *zap.Logger,
) (*ReconcileExchangesResult, error) {
	logger.Debug("Reconciling exchange swaps", zap.Int64("user_id", sess.UserID))

	entries, err := store.GetIncompleteSwapJournalEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch swap journal: %w", err)
	}

	result := &ReconcileExchangesResult{Scanned: len(entries)}

	for i := range entries {
		entry := &entries[i]

		exch, err := store.GetExchange(ctx, entry.ExchangeID)
		if err != nil {
			logger.Warn("Failed to fetch exchange for journal entry",
				zap.String("entry_id", entry.ID),
				zap.Int64("exchange_id", entry.ExchangeID),
				zap.Error(err))
			result.Failed++
			continue
		}

		if exch.ManagerStatus != string(model.StatusApproved) {
			logger.Debug("Skipping journal entry: exchange not approved",
				zap.String("entry_id", entry.ID),
				zap.String("manager_status", exch.ManagerStatus))
			result.Skipped++
			continue
		}

		repaired := true

		if !entry.OriginApplied {
			if err := store.UpdateShiftCollaborator(ctx, entry.OriginShiftID, entry.DestinationCollaboratorBefore); err != nil {
				logger.Warn("Failed to repair origin shift",
					zap.String("entry_id", entry.ID),
					zap.Int64("origin_shift_id", entry.OriginShiftID),
					zap.Error(err))
				repaired = false
			} else {
				entry.OriginApplied = true
			}
		}

		if !entry.DestinationApplied {
			if err := store.UpdateShiftCollaborator(ctx, entry.DestinationShiftID, entry.OriginCollaboratorBefore); err != nil {
				logger.Warn("Failed to repair destination shift",
					zap.String("entry_id", entry.ID),
					zap.Int64("destination_shift_id", entry.DestinationShiftID),
					zap.Error(err))
				repaired = false
			} else {
				entry.DestinationApplied = true
			}
		}

		if repaired {
			now := time.Now().UTC()
			entry.CompletedAt = &now
			result.Repaired++
			logger.Info("Repaired partially applied swap",
				zap.String("entry_id", entry.ID),
				zap.Int64("exchange_id", entry.ExchangeID))
		} else {
			result.Failed++
		}

		if err := store.UpdateSwapJournalEntry(ctx, entry); err != nil {
			logger.Warn("Failed to update swap journal entry",
				zap.String("entry_id", entry.ID), zap.Error(err))
		}
	}

	logger.Info("Reconciliation finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("repaired", result.Repaired),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}
