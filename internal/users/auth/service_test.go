// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/users/account"
	"github.com/inkwellapp/inkwell/internal/users/auth"
	"github.com/inkwellapp/inkwell/pkg/pagination"
)

// # Test Fakes

type fakeAccountRepo struct {
	byID map[string]*account.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[string]*account.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, acct *account.Account) error {
	clone := *acct
	r.byID[acct.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*account.Account, error) {
	acct, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *acct
	return &clone, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, acct := range r.byID {
		if acct.Email == email {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeAccountRepo) FindBySlug(_ context.Context, slug string) (*account.Account, error) {
	for _, acct := range r.byID {
		if acct.Slug == slug {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeAccountRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, acct := range r.byID {
		if acct.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, acct *account.Account) error {
	clone := *acct
	r.byID[acct.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, accountID, newHash string) error {
	acct, ok := r.byID[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	acct.PasswordHash = newHash
	return nil
}

func (r *fakeAccountRepo) MarkEmailConfirmed(_ context.Context, accountID string) error {
	acct, ok := r.byID[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	acct.EmailConfirmed = true
	return nil
}

func (r *fakeAccountRepo) List(_ context.Context, _ pagination.Params) ([]*account.Account, int, error) {
	return nil, 0, nil
}

type fakeSessionRepo struct {
	byID map[string]*auth.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: map[string]*auth.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	clone := *session
	r.byID[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range r.byID {
		if session.TokenHash == tokenHash && session.ExpiresAt.After(time.Now()) {
			clone := *session
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session not found or expired")
}

func (r *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	delete(r.byID, sessionID)
	return nil
}

func (r *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for id, session := range r.byID {
		if session.UserID == userID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for id, session := range r.byID {
		if session.UserID == userID && id != currentSessionID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error { return nil }

func (r *fakeSessionRepo) activeFor(userID string) int {
	count := 0
	for _, session := range r.byID {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

type fakeConfirmRepo struct {
	tokens map[string]string
}

func newFakeConfirmRepo() *fakeConfirmRepo {
	return &fakeConfirmRepo{tokens: map[string]string{}}
}

func (r *fakeConfirmRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeConfirmRepo) Get(_ context.Context, token string) (string, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return "", apperr.NotFound("Confirmation token is invalid or expired")
	}
	return userID, nil
}

func (r *fakeConfirmRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

// recordedMail captures one queued letter.
type recordedMail struct {
	kind   string
	email  string
	uidb64 string
	token  string
}

type fakeMailer struct {
	sent []recordedMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, uidb64, token string) error {
	m.sent = append(m.sent, recordedMail{kind: "reset", email: email, uidb64: uidb64, token: token})
	return nil
}

func (m *fakeMailer) SendEmailConfirmation(_ context.Context, email, token string) error {
	m.sent = append(m.sent, recordedMail{kind: "confirm", email: email, token: token})
	return nil
}

// # Harness

type harness struct {
	service     *auth.Service
	accountRepo *fakeAccountRepo
	sessionRepo *fakeSessionRepo
	confirmRepo *fakeConfirmRepo
	mailer      *fakeMailer
	resetTokens *auth.ResetTokenGenerator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accountRepo := newFakeAccountRepo()
	sessionRepo := newFakeSessionRepo()
	confirmRepo := newFakeConfirmRepo()
	mailer := &fakeMailer{}
	resetTokens := auth.NewResetTokenGenerator("test-secret", time.Hour)

	service := auth.NewService(
		account.NewService(accountRepo, logger),
		accountRepo,
		sessionRepo,
		confirmRepo,
		resetTokens,
		fakeTokenProvider{},
		mailer,
		logger,
	)

	return &harness{
		service:     service,
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		confirmRepo: confirmRepo,
		mailer:      mailer,
		resetTokens: resetTokens,
	}
}

func (h *harness) signup(t *testing.T, email string) *account.Account {
	t.Helper()
	acct, err := h.service.Signup(context.Background(), auth.SignupInput{
		Username:  "Test Member",
		Email:     email,
		Password1: "test_password",
		Password2: "test_password",
	})
	require.NoError(t, err)
	return acct
}

// # Tests

/*
TestService_Signup covers enrollment: the confirmation letter side effect
and the mismatched-password guard.
*/
func TestService_Signup(t *testing.T) {
	t.Run("queues_confirmation_letter", func(t *testing.T) {
		h := newHarness(t)

		acct := h.signup(t, "user@test.com")

		require.Len(t, h.mailer.sent, 1)
		letter := h.mailer.sent[0]
		assert.Equal(t, "confirm", letter.kind)
		assert.Equal(t, "user@test.com", letter.email)
		assert.Equal(t, acct.ID, h.confirmRepo.tokens[letter.token])
	})

	t.Run("password_mismatch_creates_nothing", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.service.Signup(context.Background(), auth.SignupInput{
			Username:  "Test Member",
			Email:     "user@test.com",
			Password1: "test_password",
			Password2: "other_password",
		})

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Passwords must match", ae.Message)
		assert.Empty(t, h.accountRepo.byID)
		assert.Empty(t, h.mailer.sent)
	})
}

/*
TestService_Login covers the credential matrix and the remember-me session
length split.
*/
func TestService_Login(t *testing.T) {
	h := newHarness(t)
	h.signup(t, "user@test.com")

	t.Run("unknown_email", func(t *testing.T) {
		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email: "ghost@test.com", Password: "test_password",
		})
		require.Error(t, err)
		assert.Equal(t, "Email isn't registered", apperr.As(err).Message)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@test.com", Password: "wrong_password",
		})
		require.Error(t, err)
		assert.Equal(t, "Email or password isn't correct", apperr.As(err).Message)
	})

	t.Run("success_issues_tokens", func(t *testing.T) {
		session, err := h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@test.com", Password: "test_password",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.False(t, session.Remembered)
		assert.WithinDuration(t, time.Now().Add(auth.ShortSessionTTL), session.RefreshTokenExpiresAt, time.Minute)
	})

	t.Run("normalized_email_matches", func(t *testing.T) {
		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@TEST.COM", Password: "test_password",
		})
		assert.NoError(t, err)
	})

	t.Run("remember_me_extends_session", func(t *testing.T) {
		session, err := h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@test.com", Password: "test_password", RememberMe: true,
		})
		require.NoError(t, err)
		assert.True(t, session.Remembered)
		assert.WithinDuration(t, time.Now().Add(auth.RefreshTokenTTL), session.RefreshTokenExpiresAt, time.Minute)
	})
}

/*
TestService_RefreshSession covers rotation: the old token dies, the new one
works, and the expiry is inherited rather than extended.
*/
func TestService_RefreshSession(t *testing.T) {
	h := newHarness(t)
	h.signup(t, "user@test.com")

	login, err := h.service.Login(context.Background(), auth.LoginInput{
		Email: "user@test.com", Password: "test_password", RememberMe: true,
	})
	require.NoError(t, err)

	rotated, err := h.service.RefreshSession(context.Background(), login.RefreshToken, "agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, login.RefreshTokenExpiresAt, rotated.RefreshTokenExpiresAt)

	// Replay of the consumed token must fail.
	_, err = h.service.RefreshSession(context.Background(), login.RefreshToken, "agent", "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired refresh token", apperr.As(err).Message)
}

/*
TestService_Logout checks revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	h := newHarness(t)
	acct := h.signup(t, "user@test.com")

	login, err := h.service.Login(context.Background(), auth.LoginInput{
		Email: "user@test.com", Password: "test_password",
	})
	require.NoError(t, err)
	require.Equal(t, 1, h.sessionRepo.activeFor(acct.ID))

	require.NoError(t, h.service.Logout(context.Background(), login.RefreshToken))
	assert.Equal(t, 0, h.sessionRepo.activeFor(acct.ID))

	// A second logout with the same token is a silent success.
	assert.NoError(t, h.service.Logout(context.Background(), login.RefreshToken))
}

/*
TestService_PasswordResetFlow exercises the full recovery path: request,
link validation, completion, session revocation, and token invalidation.
*/
func TestService_PasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	acct := h.signup(t, "user@test.com")

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Email: "user@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	t.Run("unknown_email_is_surfaced", func(t *testing.T) {
		err := h.service.RequestPasswordReset(context.Background(), "ghost@test.com")
		require.Error(t, err)
		assert.Equal(t, "Email isn't registered", apperr.As(err).Message)
	})

	require.NoError(t, h.service.RequestPasswordReset(context.Background(), "user@test.com"))

	var letter recordedMail
	for _, sent := range h.mailer.sent {
		if sent.kind == "reset" {
			letter = sent
		}
	}
	require.NotEmpty(t, letter.token)

	t.Run("link_validates", func(t *testing.T) {
		subject, err := h.service.ValidateResetLink(context.Background(), letter.uidb64, letter.token)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, subject.ID)
	})

	t.Run("garbage_uid_rejected", func(t *testing.T) {
		_, err := h.service.ValidateResetLink(context.Background(), "%%%", letter.token)
		require.Error(t, err)
		assert.Equal(t, "Reset link is invalid or expired", apperr.As(err).Message)
	})

	t.Run("mismatch_rejected_before_update", func(t *testing.T) {
		err := h.service.CompletePasswordReset(context.Background(), letter.uidb64, letter.token, "brand_new_pw", "different_pw")
		require.Error(t, err)
		assert.Equal(t, "Passwords must match", apperr.As(err).Message)
	})

	require.NoError(t, h.service.CompletePasswordReset(
		context.Background(), letter.uidb64, letter.token, "brand_new_pw", "brand_new_pw"))

	t.Run("new_password_works_old_does_not", func(t *testing.T) {
		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@test.com", Password: "test_password",
		})
		require.Error(t, err)

		_, err = h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@test.com", Password: "brand_new_pw",
		})
		assert.NoError(t, err)
	})

	t.Run("all_prior_sessions_revoked", func(t *testing.T) {
		// Only the post-reset login session above may remain.
		assert.LessOrEqual(t, h.sessionRepo.activeFor(acct.ID), 1)
	})

	t.Run("used_link_is_dead", func(t *testing.T) {
		_, err := h.service.ValidateResetLink(context.Background(), letter.uidb64, letter.token)
		require.Error(t, err)
		assert.Equal(t, "Reset link is invalid or expired", apperr.As(err).Message)
	})
}

/*
TestService_ChangePassword covers the authenticated credential rotation.
*/
func TestService_ChangePassword(t *testing.T) {
	h := newHarness(t)
	acct := h.signup(t, "user@test.com")

	current, err := h.service.Login(context.Background(), auth.LoginInput{
		Email: "user@test.com", Password: "test_password",
	})
	require.NoError(t, err)

	other, err := h.service.Login(context.Background(), auth.LoginInput{
		Email: "user@test.com", Password: "test_password",
	})
	require.NoError(t, err)
	require.NotEqual(t, current.RefreshToken, other.RefreshToken)

	t.Run("wrong_current_password", func(t *testing.T) {
		err := h.service.ChangePassword(context.Background(), acct.ID, "wrong", "brand_new_pw", current.RefreshToken)
		require.Error(t, err)
		assert.Equal(t, "Current password is incorrect", apperr.As(err).Message)
	})

	t.Run("success_revokes_other_sessions", func(t *testing.T) {
		require.Equal(t, 2, h.sessionRepo.activeFor(acct.ID))

		err := h.service.ChangePassword(context.Background(), acct.ID, "test_password", "brand_new_pw", current.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, 1, h.sessionRepo.activeFor(acct.ID))

		_, err = h.service.Login(context.Background(), auth.LoginInput{
			Email: "user@test.com", Password: "brand_new_pw",
		})
		assert.NoError(t, err)
	})
}

/*
TestService_ConfirmEmail covers the confirmation token exchange and its
single-use semantics.
*/
func TestService_ConfirmEmail(t *testing.T) {
	h := newHarness(t)
	acct := h.signup(t, "user@test.com")
	token := h.mailer.sent[0].token

	require.NoError(t, h.service.ConfirmEmail(context.Background(), token))

	stored, err := h.accountRepo.FindByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)

	// Single use: the consumed token no longer resolves.
	err = h.service.ConfirmEmail(context.Background(), token)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
