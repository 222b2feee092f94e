// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

/*
Package account implements the member identity core of the Inkwell blog.

It defines the Account entity and the business rules for registration,
slug assignment, and profile management.

# Architecture

This layer is the "Truth" of the account subsystem. The entity has no
transport or storage dependencies; repositories implement the contracts
defined here, and the auth package builds its flows on top of this one.
*/
package account

import (
	"context"
	"time"

	"github.com/inkwellapp/inkwell/internal/platform/sec"
	"github.com/inkwellapp/inkwell/pkg/pagination"
)

// DefaultAvatarPath is the avatar assigned to accounts that never uploaded one.
const DefaultAvatarPath = "images/avatars/default.png"

// # Domain Entities

// Account represents a registered member of the Inkwell blog.
//
// Email is the login identifier and is globally unique. Username is a display
// name and is NOT unique; the unique public handle is the slug, assigned once
// at first persistence and never regenerated.
type Account struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	Slug           string       `json:"slug"`
	FirstName      string       `json:"first_name,omitempty"`
	LastName       string       `json:"last_name,omitempty"`
	AvatarURL      string       `json:"avatar_url"`
	Bio            string       `json:"bio,omitempty"`
	BirthDate      *time.Time   `json:"birth_date,omitempty"`
	Subscribed     bool         `json:"subscribed"`
	EmailConfirmed bool         `json:"email_confirmed"`
	PasswordHash   string       `json:"-"` // Explicitly omitted from JSON for security.
	Role           sec.UserRole `json:"role"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Profile is the public projection of an [Account], exposed on the
// /profiles/{slug} endpoint. It omits email and every private field.
type Profile struct {
	Username  string    `json:"username"`
	Slug      string    `json:"slug"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// PublicProfile maps the account to its public projection.
func (a *Account) PublicProfile() Profile {
	return Profile{
		Username:  a.Username,
		Slug:      a.Slug,
		AvatarURL: a.AvatarURL,
		Bio:       a.Bio,
		JoinedAt:  a.CreatedAt,
	}
}

// # Field Identifiers

// Field names for validation and identity mapping in the account domain.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword1 = "password1"
	FieldPassword2 = "password2"
	FieldSlug      = "slug"
	FieldBio       = "bio"
	FieldBirthDate = "birth_date"
)

// # Repository Contract

// Repository defines the persistence contract for accounts.
//
// The storage layer enforces unique constraints on email and slug; they are
// the last line of defense against check-then-act races in this package.
type Repository interface {
	// Create persists a brand-new account.
	Create(ctx context.Context, acct *Account) error

	// FindByID returns the account with the given primary key.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByEmail returns the account registered under the given email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindBySlug returns the account owning the given public handle.
	FindBySlug(ctx context.Context, slug string) (*Account, error)

	// SlugExists reports whether any account already holds the exact slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Update persists changes to mutable profile fields. It never touches
	// the slug or the password hash.
	Update(ctx context.Context, acct *Account) error

	// UpdatePassword replaces only the account's password hash.
	UpdatePassword(ctx context.Context, accountID, newHash string) error

	// MarkEmailConfirmed flips the email-confirmation flag.
	MarkEmailConfirmed(ctx context.Context, accountID string) error

	// List returns a page of accounts ordered by creation time, plus the
	// total count for pagination metadata.
	List(ctx context.Context, params pagination.Params) ([]*Account, int, error)
}
