// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/platform/sec"
	"github.com/inkwellapp/inkwell/internal/users/account"
	"github.com/inkwellapp/inkwell/pkg/pagination"
)

// memoryRepo is an in-memory [account.Repository] for service tests.
type memoryRepo struct {
	byID map[string]*account.Account
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*account.Account{}}
}

func (r *memoryRepo) Create(_ context.Context, acct *account.Account) error {
	for _, existing := range r.byID {
		if existing.Email == acct.Email || existing.Slug == acct.Slug {
			return apperr.Conflict("Email or slug is already registered")
		}
	}
	clone := *acct
	r.byID[acct.ID] = &clone
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*account.Account, error) {
	acct, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *acct
	return &clone, nil
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, acct := range r.byID {
		if acct.Email == email {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *memoryRepo) FindBySlug(_ context.Context, slug string) (*account.Account, error) {
	for _, acct := range r.byID {
		if acct.Slug == slug {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *memoryRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, acct := range r.byID {
		if acct.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Update(_ context.Context, acct *account.Account) error {
	stored, ok := r.byID[acct.ID]
	if !ok {
		return apperr.NotFound("Account")
	}
	// Slug and password hash stay untouched, mirroring the SQL UPDATE.
	slug, hash := stored.Slug, stored.PasswordHash
	clone := *acct
	clone.Slug, clone.PasswordHash = slug, hash
	r.byID[acct.ID] = &clone
	return nil
}

func (r *memoryRepo) UpdatePassword(_ context.Context, accountID, newHash string) error {
	stored, ok := r.byID[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	stored.PasswordHash = newHash
	return nil
}

func (r *memoryRepo) MarkEmailConfirmed(_ context.Context, accountID string) error {
	stored, ok := r.byID[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	stored.EmailConfirmed = true
	return nil
}

func (r *memoryRepo) List(_ context.Context, params pagination.Params) ([]*account.Account, int, error) {
	var all []*account.Account
	for _, acct := range r.byID {
		clone := *acct
		all = append(all, &clone)
	}
	return all, len(all), nil
}

func newTestService(repo account.Repository) *account.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, logger)
}

/*
TestService_Create covers registration: slug assignment, email
normalization, the default role, and password hashing.
*/
func TestService_Create(t *testing.T) {
	repo := newMemoryRepo()
	service := newTestService(repo)

	acct, err := service.Create(context.Background(), account.CreateInput{
		Username: "Jane Austen",
		Email:    "Jane@Example.COM",
		Password: "test_password",
	})

	require.NoError(t, err)
	assert.Equal(t, "jane-austen", acct.Slug)
	assert.Equal(t, "Jane@example.com", acct.Email)
	assert.Equal(t, sec.RoleMember, acct.Role)
	assert.False(t, acct.EmailConfirmed)
	assert.NotEqual(t, "test_password", acct.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("test_password", acct.PasswordHash))
}

/*
TestService_Create_RequiresEmail checks that registration without an email
is rejected before any storage access.
*/
func TestService_Create_RequiresEmail(t *testing.T) {
	service := newTestService(newMemoryRepo())

	_, err := service.Create(context.Background(), account.CreateInput{
		Username: "No Email",
		Email:    "   ",
		Password: "test_password",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "Users must have an email address", ae.Message)
}

/*
TestService_Create_DuplicateEmail checks that a second registration under
the same address is rejected with a conflict.
*/
func TestService_Create_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	service := newTestService(repo)

	_, err := service.Create(context.Background(), account.CreateInput{
		Username: "First", Email: "user@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), account.CreateInput{
		Username: "Second", Email: "user@test.com", Password: "other_password",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

/*
TestService_Create_SlugCollision checks that two members with the same
display name receive distinct slugs, the second carrying a random suffix.
*/
func TestService_Create_SlugCollision(t *testing.T) {
	repo := newMemoryRepo()
	service := newTestService(repo)

	first, err := service.Create(context.Background(), account.CreateInput{
		Username: "Jane Austen", Email: "jane1@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	second, err := service.Create(context.Background(), account.CreateInput{
		Username: "Jane Austen", Email: "jane2@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane-austen", first.Slug)
	assert.Regexp(t, `^jane-austen-[0-9a-f]{8}$`, second.Slug)
}

/*
TestService_EnsureSlug_AssignedOnce checks that an already-assigned slug is
never regenerated.
*/
func TestService_EnsureSlug_AssignedOnce(t *testing.T) {
	service := newTestService(newMemoryRepo())

	acct := &account.Account{Username: "Jane Austen", Slug: "original-handle"}
	require.NoError(t, service.EnsureSlug(context.Background(), acct))

	assert.Equal(t, "original-handle", acct.Slug)
}

/*
TestService_UpdateProfile_SlugStable checks that renaming the account does
not touch the slug.
*/
func TestService_UpdateProfile_SlugStable(t *testing.T) {
	repo := newMemoryRepo()
	service := newTestService(repo)

	acct, err := service.Create(context.Background(), account.CreateInput{
		Username: "Jane Austen", Email: "jane@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	newName := "Currer Bell"
	updated, err := service.UpdateProfile(context.Background(), acct.ID, account.UpdateInput{
		Username: &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, "Currer Bell", updated.Username)
	assert.Equal(t, "jane-austen", updated.Slug)
}

/*
TestService_UpdateProfile_EmailChange checks normalization, the uniqueness
guard, and the confirmation reset when the address changes.
*/
func TestService_UpdateProfile_EmailChange(t *testing.T) {
	repo := newMemoryRepo()
	service := newTestService(repo)

	first, err := service.Create(context.Background(), account.CreateInput{
		Username: "First", Email: "first@test.com", Password: "test_password",
	})
	require.NoError(t, err)
	require.NoError(t, repo.MarkEmailConfirmed(context.Background(), first.ID))

	_, err = service.Create(context.Background(), account.CreateInput{
		Username: "Second", Email: "second@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	t.Run("conflicting_address_rejected", func(t *testing.T) {
		taken := "Second@Test.com"
		_, err := service.UpdateProfile(context.Background(), first.ID, account.UpdateInput{
			Email: &taken,
		})
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("new_address_resets_confirmation", func(t *testing.T) {
		fresh := "fresh@Test.COM"
		updated, err := service.UpdateProfile(context.Background(), first.ID, account.UpdateInput{
			Email: &fresh,
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh@test.com", updated.Email)
		assert.False(t, updated.EmailConfirmed)
	})

	t.Run("same_address_is_noop", func(t *testing.T) {
		acct, err := repo.FindByID(context.Background(), first.ID)
		require.NoError(t, err)
		same := acct.Email
		updated, err := service.UpdateProfile(context.Background(), first.ID, account.UpdateInput{
			Email: &same,
		})
		require.NoError(t, err)
		assert.Equal(t, acct.Email, updated.Email)
	})
}

/*
TestService_NormalizeEmail covers the domain-lowercasing rule.
*/
func TestService_NormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mixed_case_domain", "User@EXAMPLE.Com", "User@example.com"},
		{"local_part_case_kept", "MixedCase@test.com", "MixedCase@test.com"},
		{"surrounding_whitespace", "  user@test.com  ", "user@test.com"},
		{"no_at_sign", "not-an-email", "not-an-email"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, account.NormalizeEmail(tt.input))
		})
	}
}

/*
TestService_CreateSuperuser checks that the bootstrap path promotes the
account to admin with a confirmed email.
*/
func TestService_CreateSuperuser(t *testing.T) {
	repo := newMemoryRepo()
	service := newTestService(repo)

	acct, err := service.CreateSuperuser(context.Background(), account.CreateInput{
		Username: "Operator", Email: "ops@inkwell.blog", Password: "test_password",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, acct.Role)
	assert.True(t, acct.EmailConfirmed)

	stored, err := repo.FindByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, stored.Role)
}
