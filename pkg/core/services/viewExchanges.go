package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/pkg/core/exchange"
	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/db"
)

// ViewExchangesStore defines the database operations needed to list exchanges
type ViewExchangesStore interface {
	GetExchanges(ctx context.Context, filter db.ExchangeFilter) ([]db.Exchange, error)
}

// ExchangeView pairs an exchange record with its composed display status
type ExchangeView struct {
	Exchange db.Exchange

	// Display is the single status shown to users, composed from the
	// two approval tracks
	Display model.ApprovalStatus

	// Actionable is true when the manager may approve or reject
	Actionable bool
}

// ViewExchangesResult contains the exchange listing
type ViewExchangesResult struct {
	Exchanges []ExchangeView
}

// ViewExchanges lists exchange records with their composite display status
func ViewExchanges(
	ctx context.Context,
	store ViewExchangesStore,
	sess model.SessionContext,
	logger *zap.Logger,
	filter db.ExchangeFilter,
) (*ViewExchangesResult, error) {
	logger.Debug("Listing exchanges",
		zap.Bool("pending_only", filter.PendingOnly),
		zap.Int64("user_id", sess.UserID))

	exchanges, err := store.GetExchanges(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchanges: %w", err)
	}

	views := make([]ExchangeView, len(exchanges))
	for i, exch := range exchanges {
		destination := model.ApprovalStatus(exch.DestinationStatus)
		manager := model.ApprovalStatus(exch.ManagerStatus)
		views[i] = ExchangeView{
			Exchange:   exch,
			Display:    exchange.CompositeStatus(destination, manager),
			Actionable: exchange.CanDecide(destination, manager),
		}
	}

	logger.Debug("Found exchanges", zap.Int("count", len(views)))

	return &ViewExchangesResult{Exchanges: views}, nil
}
