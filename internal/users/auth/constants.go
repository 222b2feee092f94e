// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the session lifetime granted when the member asks
	// to be remembered. Long-lived (30 days) for a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// ShortSessionTTL is the session lifetime without "remember me". The
	// cookie itself is browser-session scoped; this bounds the server side.
	ShortSessionTTL = 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// ConfirmTokenTTL is the duration an email confirmation token remains
	// valid. Long-lived (24 hours) as members might not check email
	// immediately.
	ConfirmTokenTTL = 24 * time.Hour

	// ConfirmTokenLength is the byte length of the random confirmation token.
	ConfirmTokenLength = 32
)
