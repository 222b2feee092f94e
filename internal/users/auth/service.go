// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/platform/sec"
	"github.com/inkwellapp/inkwell/internal/users/account"
	"github.com/inkwellapp/inkwell/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given member.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - slug: The public handle of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, slug, role string, timeToLive time.Duration) (string, error)
}

// Mailer hands transactional messages to the delivery pipeline. The concrete
// implementation enqueues; a worker process performs the actual send.
type Mailer interface {
	// SendPasswordReset queues the recovery letter carrying the reset link
	// parts.
	SendPasswordReset(context context.Context, email, uidb64, token string) error

	// SendEmailConfirmation queues the address confirmation letter.
	SendEmailConfirmation(context context.Context, email, token string) error
}

// Service implements authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// recovery logic must be reviewed by the security team.
type Service struct {
	accounts               *account.Service
	accountRepository      account.Repository
	sessionRepository      SessionRepository
	confirmTokenRepository ConfirmTokenRepository
	resetTokens            *ResetTokenGenerator
	tokenProvider          TokenProvider
	mailer                 Mailer
	logger                 *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	accounts *account.Service,
	accountRepo account.Repository,
	sessionRepo SessionRepository,
	confirmRepo ConfirmTokenRepository,
	resetTokens *ResetTokenGenerator,
	tokenProv TokenProvider,
	mailer Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:               accounts,
		accountRepository:      accountRepo,
		sessionRepository:      sessionRepo,
		confirmTokenRepository: confirmRepo,
		resetTokens:            resetTokens,
		tokenProvider:          tokenProv,
		mailer:                 mailer,
		logger:                 logger,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Username   string
	Email      string
	Password1  string
	Password2  string
	FirstName  string
	LastName   string
	Subscribed bool
}

/*
Signup validates, hashes, and persists a brand new member account.

Description: Enrollment of a new member. The two password fields must agree
before anything is persisted; a mismatch creates no account. On success, an
email confirmation token is stored and the confirmation letter is queued.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *account.Account: Created entity
  - error: Validation, Conflict (if the email exists), or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*account.Account, error) {
	if input.Password1 != input.Password2 {
		return nil, apperr.ValidationError("Passwords must match",
			apperr.FieldError{Field: FieldPassword2, Message: "Passwords must match"})
	}

	acct, err := service.accounts.Create(context, account.CreateInput{
		Username:   input.Username,
		Email:      input.Email,
		Password:   input.Password1,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Subscribed: input.Subscribed,
	})
	if err != nil {
		return nil, err
	}

	// Confirmation is an async side effect; signup succeeds regardless.
	if err := service.sendConfirmation(context, acct); err != nil {
		service.logger.ErrorContext(context, "queueing confirmation email failed",
			slog.String("account_id", acct.ID),
			slog.String("error", err.Error()))
	}

	return acct, nil
}

func (service *Service) sendConfirmation(context context.Context, acct *account.Account) error {
	token, err := sec.GenerateSecureToken(ConfirmTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_confirm_token_failed: %w", err)
	}
	if err := service.confirmTokenRepository.Set(context, token, acct.ID, ConfirmTokenTTL); err != nil {
		return err
	}
	return service.mailer.SendEmailConfirmation(context, acct.Email, token)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	UserAgent  string
	IPAddress  string
}

// LoginSession represents a successfully established member session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Remembered            bool
	User                  *account.Account
}

/*
Login validates member credentials and issues security tokens.

Description: The email is the login identifier. An unknown address and a
wrong password produce distinct messages, matching the product's form
behavior. With RememberMe the session lives for a month; without it the
session is bounded to a day and the cookie is browser-session scoped.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	email := account.NormalizeEmail(input.Email)

	acct, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Email isn't registered")
		}
		return nil, err
	}

	// Constant-time comparison inside bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(input.Password, acct.PasswordHash) {
		return nil, apperr.Unauthorized("Email or password isn't correct")
	}

	sessionTTL := ShortSessionTTL
	if input.RememberMe {
		sessionTTL = RefreshTokenTTL
	}

	session, refreshToken, err := service.openSession(context, acct, sessionTTL, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(acct.ID, acct.Slug, string(acct.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		Remembered:            input.RememberMe,
		User:                  acct,
	}, nil
}

// openSession mints a refresh token and persists its tracking session.
func (service *Service) openSession(context context.Context, acct *account.Account, ttl time.Duration, userAgent, ipAddress string) (*Session, string, error) {
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	session := &Session{
		ID:        uuidv7.New(),
		UserID:    acct.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, "", fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return session, refreshToken, nil
}

/*
Logout permanently revokes the member's active session.

Description: Ensures that a tracked refresh token can never be used again.
Logout with an unknown token is a silent success (idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)

	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the refresh token rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent
reuse, and issues a fresh pair of rotated tokens. The new session inherits
the ORIGINAL expiry, so rotation never extends a session past what the
member agreed to at login.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: revoke the old session to prevent replay attacks.
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	acct, err := service.accountRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found or suspended")
	}

	newRefreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_secure_token_failed: %w", err)
	}

	newSession := &Session{
		ID:        uuidv7.New(),
		UserID:    acct.ID,
		TokenHash: sec.HashToken(newRefreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: session.ExpiresAt,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_session_creation_failed: %w", err)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(acct.ID, acct.Slug, string(acct.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: newSession.ExpiresAt,
		User:                  acct,
	}, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Resolves the account, derives the stateless reset token from its
current credential state, and queues the recovery letter. An unknown address
is reported to the caller; the product's reset form has always surfaced it.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Validation or queueing failures
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	acct, err := service.accountRepository.FindByEmail(context, account.NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.ValidationError("Email isn't registered",
				apperr.FieldError{Field: FieldEmail, Message: "Email isn't registered"})
		}
		return err
	}

	uidb64 := EncodeUID(acct.ID)
	token := service.resetTokens.Make(acct)

	if err := service.mailer.SendPasswordReset(context, acct.Email, uidb64, token); err != nil {
		return fmt.Errorf("auth_service_queue_reset_email_failed: %w", err)
	}

	service.logger.InfoContext(context, "password reset requested",
		slog.String("account_id", acct.ID))

	return nil
}

/*
ValidateResetLink resolves and verifies the two reset URL components.

Description: Decodes the account identifier, loads the account, and checks
the token against its current state. Every failure mode collapses into one
client-safe message so the link reveals nothing about why it is dead.

Parameters:
  - context: context.Context
  - uidb64: string (encoded account ID)
  - token: string

Returns:
  - *account.Account: The reset subject
  - error: Validation failure for any invalid or expired link
*/
func (service *Service) ValidateResetLink(context context.Context, uidb64, token string) (*account.Account, error) {
	invalidLink := apperr.ValidationError("Reset link is invalid or expired")

	accountID, err := DecodeUID(uidb64)
	if err != nil {
		return nil, invalidLink
	}

	acct, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, invalidLink
		}
		return nil, err
	}

	if !service.resetTokens.Check(acct, token) {
		return nil, invalidLink
	}

	return acct, nil
}

/*
CompletePasswordReset finishes the forgot-password flow.

Description: Re-verifies the link, enforces the matching-password rule,
stores the new hash, and revokes every active session. Storing the new hash
also implicitly invalidates the used token and any sibling tokens.

Parameters:
  - context: context.Context
  - uidb64: string
  - token: string
  - password1: string
  - password2: string

Returns:
  - error: Validation or update failures
*/
func (service *Service) CompletePasswordReset(context context.Context, uidb64, token, password1, password2 string) error {
	if password1 != password2 {
		return apperr.ValidationError("Passwords must match",
			apperr.FieldError{Field: FieldPassword2, Message: "Passwords must match"})
	}

	acct, err := service.ValidateResetLink(context, uidb64, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(password1)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, acct.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security cleanup: revoke EVERY active session for this member.
	_ = service.sessionRepository.RevokeAll(context, acct.ID)

	service.logger.InfoContext(context, "password reset completed",
		slog.String("account_id", acct.ID))

	return nil
}

/*
ChangePassword allows an authenticated member to update their credentials.

Description: Verifies the current password and then revokes all OTHER
refresh sessions to force re-login on other devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - error: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {
	acct, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, acct.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	tokenHash := sec.HashToken(currentRefreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = service.sessionRepository.RevokeOthers(context, userID, session.ID)
	}

	return nil
}

/*
ConfirmEmail marks a member's email address as confirmed using a token from
the confirmation letter.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Resolution or database errors
*/
func (service *Service) ConfirmEmail(context context.Context, token string) error {
	userID, err := service.confirmTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	if err := service.accountRepository.MarkEmailConfirmed(context, userID); err != nil {
		return fmt.Errorf("auth_service_confirm_email_failed: %w", err)
	}

	_ = service.confirmTokenRepository.Delete(context, token)

	return nil
}
