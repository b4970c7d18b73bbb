// Command serenorh is the Sereno RH attendance CLI. Every invocation renders
// one view as JSON on stdout; see package cli for the views and exit codes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/cli"
	"github.com/example/sereno-rh/internal/config"
	"github.com/example/sereno-rh/internal/logging"
	"github.com/example/sereno-rh/internal/metrics"
	"github.com/example/sereno-rh/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "serenorh: %v\n", err)
		return cli.ExitFailure
	}

	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Fallback:   stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "serenorh: %v\n", err)
		return cli.ExitFailure
	}
	defer closer.Close()
	ctx = logging.ContextWithLogger(ctx, logger)

	storage, err := sqlite.Open(ctx, cfg.SQLiteDSN)
	if err != nil {
		logger.ErrorContext(ctx, "failed to open storage", "error", err)
		return cli.ExitFailure
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.ErrorContext(ctx, "failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to apply migrations", "error", err)
		return cli.ExitFailure
	}

	hasher := application.NewSecretHasher(application.DefaultArgon2idParams)
	if err := application.NewSeeder(storage, hasher, logger).Seed(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to seed demo data", "error", err)
		return cli.ExitFailure
	}

	now := time.Now
	engine := metrics.NewEngine(now, cfg.Location)

	app := cli.New(cli.Options{
		Services: cli.Services{
			Auth:       application.NewAuthService(storage, storage, application.VerifySecret, []byte(cfg.SessionSecret), cfg.SessionTTL, now, logger),
			Employees:  application.NewEmployeeService(storage, storage, nil, hasher, logger),
			Attendance: application.NewAttendanceService(storage, storage, now, cfg.Location, logger),
			Rewards:    application.NewRewardService(storage, storage, storage, nil, now, logger),
			Goals:      application.NewGoalService(storage, storage, nil, now, cfg.Location, logger),
			Dashboards: application.NewDashboardService(storage, engine, logger),
		},
		Sessions: cli.NewSessionFile(cfg.SessionFile),
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
	})
	return app.Run(ctx, args)
}
