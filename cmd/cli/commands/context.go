package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/coopsaude/escala/internal/config"
	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Session  *scheduling.Session
	User     model.SessionContext
	Logger   *zap.Logger
	Ctx      context.Context
}
