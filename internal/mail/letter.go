// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var letters = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Letterhead carries the site identity every letter is rendered with.
type Letterhead struct {
	// Domain is the host the emailed links point at, e.g. "inkwell.blog".
	Domain string
	// SiteName is the human-readable product name used in copy.
	SiteName string
	// Protocol is "https" in production, "http" in development.
	Protocol string
}

// letterContext is the data handed to every template.
type letterContext struct {
	Email    string
	Domain   string
	SiteName string
	Protocol string
	UID      string
	Token    string
}

/*
ResetPassword renders the password recovery letter.

Parameters:
  - email: recipient address (also shown in the letter body)
  - uid: encoded account identifier for the reset URL
  - token: reset token for the reset URL

Returns:
  - string: subject line
  - string: rendered HTML body
  - error: template execution failures
*/
func (head Letterhead) ResetPassword(email, uid, token string) (string, string, error) {
	subject := fmt.Sprintf("Password reset on %s", head.SiteName)
	body, err := head.render("reset_password.html", letterContext{
		Email:    email,
		Domain:   head.Domain,
		SiteName: head.SiteName,
		Protocol: head.Protocol,
		UID:      uid,
		Token:    token,
	})
	return subject, body, err
}

/*
ConfirmEmail renders the address confirmation letter sent after signup.

Parameters:
  - email: recipient address
  - token: confirmation token for the confirmation URL

Returns:
  - string: subject line
  - string: rendered HTML body
  - error: template execution failures
*/
func (head Letterhead) ConfirmEmail(email, token string) (string, string, error) {
	subject := fmt.Sprintf("Confirm your email on %s", head.SiteName)
	body, err := head.render("confirm_email.html", letterContext{
		Email:    email,
		Domain:   head.Domain,
		SiteName: head.SiteName,
		Protocol: head.Protocol,
		Token:    token,
	})
	return subject, body, err
}

func (head Letterhead) render(name string, data letterContext) (string, error) {
	var buffer bytes.Buffer
	if err := letters.ExecuteTemplate(&buffer, name, data); err != nil {
		return "", fmt.Errorf("rendering letter %q: %w", name, err)
	}
	return buffer.String(), nil
}
