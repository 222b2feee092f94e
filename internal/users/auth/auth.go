// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

/*
Package auth implements the identity and access management layer of Inkwell.

It handles everything from member signup and secure password hashing to
session lifecycle management via JWT and refresh tokens, plus the email-based
password recovery and address confirmation flows.

# Architecture

  - Service: Orchestrates business logic (Signup, Login, Password recovery).
  - Repository: Abstracted interfaces for Postgres (sessions) and Redis
    (confirmation tokens). Account storage lives in the account package.
  - Security: Bcrypt hashing, RSA-signed JWTs, and keyed-HMAC reset tokens.
*/
package auth

import (
	"time"
)

// # Domain Entities

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPassword1       = "password1"
	FieldPassword2       = "password2"
	FieldToken           = "token"
	FieldUID             = "uid"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
