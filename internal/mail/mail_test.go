// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package mail

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHead = Letterhead{
	Domain:   "inkwell.blog",
	SiteName: "Inkwell",
	Protocol: "https",
}

/*
TestLetterhead_ResetPassword checks the recovery letter carries the full
reset URL and the site identity.
*/
func TestLetterhead_ResetPassword(t *testing.T) {
	subject, body, err := testHead.ResetPassword("user@test.com", "MDE5MmQ1", "k3x9s-abcdef")

	require.NoError(t, err)
	assert.Equal(t, "Password reset on Inkwell", subject)
	assert.Contains(t, body, "https://inkwell.blog/password-reset/MDE5MmQ1/k3x9s-abcdef")
	assert.Contains(t, body, "user@test.com")
	assert.Contains(t, body, "Inkwell")
}

/*
TestLetterhead_ConfirmEmail checks the confirmation letter carries the
confirmation URL.
*/
func TestLetterhead_ConfirmEmail(t *testing.T) {
	subject, body, err := testHead.ConfirmEmail("user@test.com", "deadbeef")

	require.NoError(t, err)
	assert.Equal(t, "Confirm your email on Inkwell", subject)
	assert.Contains(t, body, "https://inkwell.blog/confirm-email/deadbeef")
}

/*
TestLetterhead_EscapesHTML checks that member-controlled values cannot
inject markup into a letter.
*/
func TestLetterhead_EscapesHTML(t *testing.T) {
	_, body, err := testHead.ResetPassword(`<script>alert(1)</script>@test.com`, "uid", "token")

	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

// captureSender records the last delivery request.
type captureSender struct {
	last SendParams
}

func (s *captureSender) SendEmail(_ context.Context, params SendParams) error {
	s.last = params
	return nil
}

/*
TestWorker_Process covers job decoding and routing to the right letter.
*/
func TestWorker_Process(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("password_reset_job", func(t *testing.T) {
		sender := &captureSender{}
		worker := NewWorker(nil, sender, testHead, logger)

		payload, err := json.Marshal(Job{
			Kind:  JobPasswordReset,
			Email: "user@test.com",
			UID:   "MDE5MmQ1",
			Token: "k3x9s-abcdef",
		})
		require.NoError(t, err)

		require.NoError(t, worker.process(context.Background(), payload))
		assert.Equal(t, "user@test.com", sender.last.SendTo)
		assert.Equal(t, JobPasswordReset, sender.last.Tag)
		assert.Contains(t, sender.last.BodyHTML, "/password-reset/MDE5MmQ1/k3x9s-abcdef")
	})

	t.Run("confirm_email_job", func(t *testing.T) {
		sender := &captureSender{}
		worker := NewWorker(nil, sender, testHead, logger)

		payload, err := json.Marshal(Job{
			Kind:  JobConfirmEmail,
			Email: "user@test.com",
			Token: "deadbeef",
		})
		require.NoError(t, err)

		require.NoError(t, worker.process(context.Background(), payload))
		assert.Contains(t, sender.last.BodyHTML, "/confirm-email/deadbeef")
	})

	t.Run("unknown_kind_rejected", func(t *testing.T) {
		worker := NewWorker(nil, &captureSender{}, testHead, logger)

		payload, err := json.Marshal(Job{Kind: "carrier_pigeon", Email: "user@test.com"})
		require.NoError(t, err)

		err = worker.process(context.Background(), payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "carrier_pigeon")
	})

	t.Run("malformed_payload_rejected", func(t *testing.T) {
		worker := NewWorker(nil, &captureSender{}, testHead, logger)
		assert.Error(t, worker.process(context.Background(), []byte("not json")))
	})
}

/*
TestDevSender checks the development backend writes the letter to disk.
*/
func TestDevSender(t *testing.T) {
	dir := t.TempDir()
	sender := NewDevSender(filepath.Join(dir, "outbox"))

	err := sender.SendEmail(context.Background(), SendParams{
		SendTo:   "user@test.com",
		Subject:  "Password reset on Inkwell",
		BodyHTML: "<p>hello</p>",
		Tag:      JobPasswordReset,
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "outbox"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "password_reset")

	content, err := os.ReadFile(filepath.Join(dir, "outbox", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(content))
}
