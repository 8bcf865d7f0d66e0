package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdewinter/gatehouse/internal"
	"github.com/mdewinter/gatehouse/internal/auth"
	authdb "github.com/mdewinter/gatehouse/internal/auth/db"
	"github.com/mdewinter/gatehouse/internal/db"
	"github.com/mdewinter/gatehouse/internal/email"
	"github.com/mdewinter/gatehouse/internal/email/apisender"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	logger := slog.New(slog.NewTextHandler(errOut, nil))

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("failed to get config from environment", "error", err)
		return 1
	}

	sqlDB, err := db.OpenSQLite(cfg.dbFile, true)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Second*60)
	defer cancel()

	if err := db.Migrate(migrateCtx, sqlDB); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return 1
	}

	var sender email.Sender = email.NewLogSender(logger)
	if cfg.mail.apiURL != nil {
		sender = apisender.NewSender(&http.Client{Timeout: time.Second * 10}, apisender.Settings{
			APIURL:      cfg.mail.apiURL,
			ServerToken: cfg.mail.serverToken,
			TokenHeader: cfg.mail.tokenHeader,
		})
	}

	mailSvc := email.NewService(sender, email.Templates{
		From:     email.Address(cfg.auth.MailFrom),
		Subject:  cfg.auth.MailSubject,
		Body:     cfg.auth.MailBody,
		HTMLBody: cfg.auth.MailBodyHTML,
	})

	svc, err := auth.NewService(authdb.New(sqlDB), mailSvc, cfg.auth)
	if err != nil {
		logger.Error("failed to create auth service", "error", err)
		return 1
	}

	logger.Info("console started",
		"dbFile", cfg.dbFile,
		"buildRevision", internal.BuildRevision,
		"buildRevisionTime", internal.BuildRevisionTime,
		"buildLocalModified", internal.BuildLocalModified,
	)

	if err := newConsole(svc, in, out).run(ctx); err != nil {
		logger.Error("console stopped with error", "error", err)
		return 1
	}

	logger.Info("console stopped successfully")

	return 0
}
