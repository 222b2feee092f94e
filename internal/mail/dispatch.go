// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwellapp/inkwell/internal/platform/constants"
)

// Dispatcher enqueues letters for asynchronous delivery. It satisfies the
// mailer contracts of the domain services.
type Dispatcher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewDispatcher creates a queue producer on the shared Redis client.
func NewDispatcher(client *redis.Client, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

/*
SendPasswordReset queues the recovery letter.

Parameters:
  - context: context.Context
  - email: recipient address
  - uidb64: encoded account identifier for the reset URL
  - token: reset token for the reset URL

Returns:
  - error: queueing failures (never delivery failures)
*/
func (dispatcher *Dispatcher) SendPasswordReset(context context.Context, email, uidb64, token string) error {
	return dispatcher.enqueue(context, Job{
		Kind:  JobPasswordReset,
		Email: email,
		UID:   uidb64,
		Token: token,
	})
}

/*
SendEmailConfirmation queues the address confirmation letter.

Parameters:
  - context: context.Context
  - email: recipient address
  - token: confirmation token

Returns:
  - error: queueing failures (never delivery failures)
*/
func (dispatcher *Dispatcher) SendEmailConfirmation(context context.Context, email, token string) error {
	return dispatcher.enqueue(context, Job{
		Kind:  JobConfirmEmail,
		Email: email,
		Token: token,
	})
}

func (dispatcher *Dispatcher) enqueue(context context.Context, job Job) error {
	job.EnqueuedAt = time.Now()

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mail_dispatch_marshal_failed: %w", err)
	}

	if err := dispatcher.client.LPush(context, constants.RedisKeyMailQueue, payload).Err(); err != nil {
		return fmt.Errorf("mail_dispatch_enqueue_failed: %w", err)
	}

	dispatcher.logger.DebugContext(context, "mail job queued",
		slog.String("kind", job.Kind))

	return nil
}
