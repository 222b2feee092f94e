// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

// Command createsuperuser bootstraps an administrator account.
//
// It is an operator tool, meant to be run once against a fresh database, and
// intentionally bypasses the signup flow: no confirmation email is sent and
// the account starts with a confirmed address.
//
// Usage:
//
//	createsuperuser -email admin@inkwell.blog -username admin -password <secret>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/inkwellapp/inkwell/internal/platform/config"
	pgstore "github.com/inkwellapp/inkwell/internal/platform/postgres"
	"github.com/inkwellapp/inkwell/internal/users/account"
)

func main() {
	var (
		username = flag.String("username", "", "display name for the new administrator")
		email    = flag.String("email", "", "login email address (required)")
		password = flag.String("password", "", "initial password (required)")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "createsuperuser: -email and -password are required")
		flag.Usage()
		os.Exit(2)
	}

	// Quiet logger. This is an interactive tool, so the service layer's
	// structured output would only be noise on the operator's terminal.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := config.Load()
	fatalIf(err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	fatalIf(err, "connect to postgres")
	defer pool.Close()

	service := account.NewService(account.NewPostgresRepository(pool), log)

	acct, err := service.CreateSuperuser(ctx, account.CreateInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	fatalIf(err, "create superuser")

	fmt.Printf("Superuser created.\n  id:    %s\n  email: %s\n  slug:  %s\n", acct.ID, acct.Email, acct.Slug)
}

func fatalIf(err error, context string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "createsuperuser: %s: %v\n", context, err)
		os.Exit(1)
	}
}
