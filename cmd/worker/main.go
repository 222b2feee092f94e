// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

// Command worker is the entry point for the Inkwell mail delivery worker.
//
// It pops mail jobs off the Redis outbox queue, renders the letter for each
// job, and hands the result to the configured sender. In development
// (MAIL_DEV_DIR set) letters are written to disk as HTML files instead of
// going through Postmark.
//
// The worker runs until SIGTERM or SIGINT.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwellapp/inkwell/internal/mail"
	"github.com/inkwellapp/inkwell/internal/platform/config"
	"github.com/inkwellapp/inkwell/internal/platform/constants"
	redisstore "github.com/inkwellapp/inkwell/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "inkwell-worker"))
	slog.SetDefault(log)

	log.Info("[Inkwell] worker_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "inkwell-worker"))
		slog.SetDefault(log)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	// The blocking client has no read deadline so BRPOP can park indefinitely.
	rdb, err := redisstore.NewBlockingClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Sender Selection ───────────────────────────────────────────────
	var sender mail.Sender
	if cfg.MailDevDir != "" {
		log.Info("mail_dev_mode_enabled", slog.String("dir", cfg.MailDevDir))
		sender = mail.NewDevSender(cfg.MailDevDir)
	} else {
		postmarkSender, perr := mail.NewPostmarkSender(
			cfg.PostmarkServerToken,
			cfg.PostmarkAccountToken,
			cfg.SenderEmail,
			cfg.SupportEmail,
		)
		must(log, perr, "initialize postmark sender")
		sender = postmarkSender
	}

	// ── 5. Worker Loop ────────────────────────────────────────────────────
	head := mail.Letterhead{
		Domain:   cfg.Domain,
		SiteName: cfg.SiteName,
		Protocol: cfg.Protocol(),
	}

	worker := mail.NewWorker(rdb, sender, head, log)

	runCtx, runCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer runCancel()

	log.Info("worker_started", slog.String("queue", constants.RedisKeyMailQueue))

	// Run returns the context error once the shutdown signal lands.
	_ = worker.Run(runCtx)

	log.Info("worker stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
