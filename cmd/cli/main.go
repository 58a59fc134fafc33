package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coopsaude/escala/cmd/cli/commands"
	"github.com/coopsaude/escala/internal/config"
	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/logging"
	"github.com/coopsaude/escala/pkg/postgres"
)

var (
	env    string
	userID int64
	role   string
	app    *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "escala",
		Short: "Escala CLI - Manage home-care shifts and shift exchanges",
		Long:  `A back-office tool for generating work shifts, resolving collaborator eligibility and deciding shift exchange requests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Logger != nil {
					app.Logger.Sync()
				}
				if app.Database != nil {
					app.Database.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().Int64Var(&userID, "user", 0, "Id of the operating user")
	rootCmd.PersistentFlags().StringVar(&role, "role", "", "Role of the operating user (manager or scheduler)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.EligibleCmd(appRef()))
	rootCmd.AddCommand(commands.CreateShiftCmd(appRef()))
	rootCmd.AddCommand(commands.CreateBatchCmd(appRef()))
	rootCmd.AddCommand(commands.RotateShiftsCmd(appRef()))
	rootCmd.AddCommand(commands.ListShiftsCmd(appRef()))
	rootCmd.AddCommand(commands.ListExchangesCmd(appRef()))
	rootCmd.AddCommand(commands.ApproveExchangeCmd(appRef()))
	rootCmd.AddCommand(commands.RejectExchangeCmd(appRef()))
	rootCmd.AddCommand(commands.ReconcileCmd(appRef()))
	rootCmd.AddCommand(commands.InteractiveCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, created empty up front so the
// command constructors can capture it before initApp fills it in
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{Ctx: context.Background()}
	}
	return app
}

// initApp sets up logger, config, database and the scheduling session
func initApp() error {
	var err error
	appRef()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database initialized successfully")

	sessionRole := role
	if sessionRole == "" {
		sessionRole = app.Cfg.DefaultRole
	}
	if sessionRole == "" {
		sessionRole = string(model.RoleScheduler)
	}
	app.User = model.SessionContext{UserID: userID, Role: model.Role(sessionRole)}
	app.Session = scheduling.NewSession()

	app.Logger.Debug("Session initialized",
		zap.Int64("user_id", app.User.UserID),
		zap.String("role", string(app.User.Role)),
		zap.String("plan_id", app.Session.PlanID))

	return nil
}
