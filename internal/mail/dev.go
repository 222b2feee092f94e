// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements [Sender] for local development. It writes each letter
// to an HTML file instead of delivering it, so the emailed links can be
// opened straight from the filesystem.
type DevSender struct {
	dir string
}

// NewDevSender creates a file-backed sender. The directory is created on
// first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// SendEmail writes the letter to <dir>/<timestamp>_<tag>.html.
func (sender *DevSender) SendEmail(_ context.Context, params SendParams) error {
	if err := os.MkdirAll(sender.dir, 0o755); err != nil {
		return fmt.Errorf("dev_sender_mkdir_failed: %w", err)
	}

	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}

	name := fmt.Sprintf("%s_%s.html",
		time.Now().Format("2006_01_02_150405"),
		sanitizeFilename(identifier))

	path := filepath.Join(sender.dir, name)
	if err := os.WriteFile(path, []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("dev_sender_write_failed: %w", err)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "letter"
	}
	return strings.ToLower(s)
}
