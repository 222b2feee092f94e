// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

/*
Package mail implements the transactional email pipeline of Inkwell.

Letters are never sent from the request path. The [Dispatcher] pushes a job
onto a Redis list and returns; a separate worker process pops jobs and
delivers them through a [Sender]. Delivery is at-least-once: a crashed worker
leaves the job on the list, and a failed send is logged and dropped rather
than bubbled back to the member who triggered it.

# Architecture

  - Dispatcher: request-path producer (Redis LPUSH).
  - Worker: long-running consumer (Redis BRPOP).
  - Sender: delivery backend. Postmark in production, files on disk in
    development.
  - Letterhead: renders the HTML letters from embedded templates.
*/
package mail

import (
	"context"
	"time"
)

// # Delivery Contract

// Sender represents a backend capable of delivering a single email.
type Sender interface {
	SendEmail(context context.Context, params SendParams) error
}

// SendParams represents the parameters for sending an email.
type SendParams struct {
	SendTo   string `json:"send_to"`       // Email address of the recipient
	Subject  string `json:"subject"`       // Subject of the email
	BodyHTML string `json:"body_html"`     // HTML body of the email
	Tag      string `json:"tag,omitempty"` // Optional delivery analytics tag
}

// # Queue Jobs

// Job kinds carried on the outbox list.
const (
	JobPasswordReset = "password_reset"
	JobConfirmEmail  = "confirm_email"
)

// Job is the unit of work exchanged between the API process and the worker.
type Job struct {
	Kind       string    `json:"kind"`
	Email      string    `json:"email"`
	UID        string    `json:"uid,omitempty"`
	Token      string    `json:"token,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
