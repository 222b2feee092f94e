// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/platform/sec"
	"github.com/inkwellapp/inkwell/pkg/pagination"
	"github.com/inkwellapp/inkwell/pkg/uuidv7"
)

// Service implements account business logic on top of the repository.
type Service struct {
	repo      Repository
	allocator *Allocator
	logger    *slog.Logger
}

// NewService wires the account service. The slug allocator probes existence
// through the same repository the service persists with.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		allocator: NewAllocator(repo),
		logger:    logger,
	}
}

// CreateInput carries the fields accepted at registration time.
type CreateInput struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Subscribed bool
}

/*
Create registers a new account.

Email is mandatory and acts as the login identifier; it is normalized
(domain part lowercased) before any lookup or insert. The public slug is
derived from the username via the allocator, exactly once. Password hashing
uses bcrypt with the default cost.

Returns:
  - *Account: the persisted account.
  - error: apperr.ValidationError when email is missing, apperr.Conflict
    when the email is already registered.
*/
func (s *Service) Create(ctx context.Context, input CreateInput) (*Account, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, apperr.ValidationError("Users must have an email address")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	acct := &Account{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		AvatarURL:    DefaultAvatarPath,
		Subscribed:   input.Subscribed,
		PasswordHash: hash,
		Role:         sec.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.EnsureSlug(ctx, acct); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account created",
		slog.String("account_id", acct.ID),
		slog.String("slug", acct.Slug))

	return acct, nil
}

// EnsureSlug assigns a slug to the account if it does not have one yet.
// An already-assigned slug is never regenerated, regardless of later
// username changes.
func (s *Service) EnsureSlug(ctx context.Context, acct *Account) error {
	if acct.Slug != "" {
		return nil
	}
	allocated, err := s.allocator.Allocate(ctx, acct.Username)
	if err != nil {
		return err
	}
	acct.Slug = allocated
	return nil
}

// GetByID returns the account with the given primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProfileBySlug returns the public projection of the account owning the
// given handle.
func (s *Service) GetProfileBySlug(ctx context.Context, slug string) (Profile, error) {
	acct, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return Profile{}, err
	}
	return acct.PublicProfile(), nil
}

// UpdateInput carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateInput struct {
	Username   *string
	Email      *string
	FirstName  *string
	LastName   *string
	AvatarURL  *string
	Bio        *string
	BirthDate  *time.Time
	Subscribed *bool
}

/*
UpdateProfile applies a partial update to the caller's own account.

Changing the email re-runs normalization and the uniqueness pre-check.
Changing the username never changes the slug.

Returns:
  - *Account: the updated account.
  - error: apperr.Conflict when the new email belongs to another account.
*/
func (s *Service) UpdateProfile(ctx context.Context, accountID string, input UpdateInput) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return nil, apperr.ValidationError("Users must have an email address")
		}
		if email != acct.Email {
			if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != acct.ID {
				return nil, apperr.Conflict("Email is already registered")
			} else if err != nil && !apperr.IsNotFound(err) {
				return nil, err
			}
			// A new address starts unconfirmed again.
			acct.Email = email
			acct.EmailConfirmed = false
		}
	}
	if input.Username != nil {
		acct.Username = *input.Username
	}
	if input.FirstName != nil {
		acct.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		acct.LastName = *input.LastName
	}
	if input.AvatarURL != nil {
		acct.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		acct.Bio = *input.Bio
	}
	if input.BirthDate != nil {
		acct.BirthDate = input.BirthDate
	}
	if input.Subscribed != nil {
		acct.Subscribed = *input.Subscribed
	}
	acct.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// List returns a page of accounts for the admin surface.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]*Account, pagination.Meta, error) {
	accounts, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return accounts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
CreateSuperuser registers an administrator account, for bootstrap tooling.

It runs the same path as Create and then promotes the account to admin with
a confirmed email, so the operator can log in immediately.
*/
func (s *Service) CreateSuperuser(ctx context.Context, input CreateInput) (*Account, error) {
	acct, err := s.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	acct.Role = sec.RoleAdmin
	acct.EmailConfirmed = true
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// NormalizeEmail trims whitespace and lowercases the domain part of the
// address. The local part keeps its case, matching common provider behavior.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
