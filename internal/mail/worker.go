// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwellapp/inkwell/internal/platform/constants"
)

// popTimeout bounds each BRPOP so the loop can notice context cancellation.
const popTimeout = 5 * time.Second

// Worker is the long-running outbox consumer. One instance per worker
// process; running several processes is safe because BRPOP hands each job to
// exactly one consumer.
type Worker struct {
	client *redis.Client
	sender Sender
	head   Letterhead
	logger *slog.Logger
}

// NewWorker wires a consumer. The Redis client should come from
// [redis.NewBlockingClient] so long pops are not cut short by read timeouts.
func NewWorker(client *redis.Client, sender Sender, head Letterhead, logger *slog.Logger) *Worker {
	return &Worker{
		client: client,
		sender: sender,
		head:   head,
		logger: logger,
	}
}

/*
Run consumes the outbox until the context is cancelled.

Description: Pops one job at a time and delivers it. A failed delivery is
logged and the job is dropped; a malformed payload is logged and skipped.
Connectivity errors back off briefly instead of spinning.

Parameters:
  - ctx: context.Context (cancel to stop)

Returns:
  - error: only the context's error on shutdown
*/
func (worker *Worker) Run(ctx context.Context) error {
	worker.logger.Info("mail worker started",
		slog.String("queue", constants.RedisKeyMailQueue))

	for {
		if err := ctx.Err(); err != nil {
			worker.logger.Info("mail worker stopping")
			return err
		}

		result, err := worker.client.BRPop(ctx, popTimeout, constants.RedisKeyMailQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // empty queue, poll again
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			worker.logger.Error("mail queue pop failed", slog.String("error", err.Error()))
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value].
		if len(result) != 2 {
			continue
		}

		if err := worker.process(ctx, []byte(result[1])); err != nil {
			worker.logger.Error("mail delivery failed", slog.String("error", err.Error()))
		}
	}
}

// process renders and delivers a single job payload.
func (worker *Worker) process(ctx context.Context, payload []byte) error {
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("mail_worker_decode_failed: %w", err)
	}

	var (
		subject string
		body    string
		err     error
	)

	switch job.Kind {
	case JobPasswordReset:
		subject, body, err = worker.head.ResetPassword(job.Email, job.UID, job.Token)
	case JobConfirmEmail:
		subject, body, err = worker.head.ConfirmEmail(job.Email, job.Token)
	default:
		return fmt.Errorf("mail_worker_unknown_kind: %q", job.Kind)
	}
	if err != nil {
		return err
	}

	if err := worker.sender.SendEmail(ctx, SendParams{
		SendTo:   job.Email,
		Subject:  subject,
		BodyHTML: body,
		Tag:      job.Kind,
	}); err != nil {
		return err
	}

	worker.logger.Info("mail delivered",
		slog.String("kind", job.Kind))

	return nil
}
