package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/exchange"
	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/db"
)

// RejectExchangeStore defines the database operations needed to reject an exchange
type RejectExchangeStore interface {
	GetExchange(ctx context.Context, id int64) (*db.Exchange, error)
	UpdateExchangeManagerStatus(ctx context.Context, id int64, status string) error
}

// RejectExchangeResult contains the rejected exchange
type RejectExchangeResult struct {
	Exchange db.Exchange
}

// RejectExchange records the manager's rejection of an exchange.
// No shift record is mutated, ever.
func RejectExchange(
	ctx context.Context,
	store RejectExchangeStore,
	sess model.SessionContext,
	logger *zap.Logger,
	exchangeID int64,
) (*RejectExchangeResult, error) {
	logger.Debug("Rejecting exchange",
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

	if err := store.UpdateExchangeManagerStatus(ctx, exch.ID, string(model.StatusRejected)); err != nil {
		return nil, fmt.Errorf("failed to reject exchange: %w", err)
	}
	exch.ManagerStatus = string(model.StatusRejected)

	logger.Info("Exchange rejected", zap.Int64("exchange_id", exch.ID))

	return &RejectExchangeResult{Exchange: *exch}, nil
}
