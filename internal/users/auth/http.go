// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

/*
Package auth provides the HTTP delivery layer for member identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session management and password recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/platform/constants"
	"github.com/inkwellapp/inkwell/internal/platform/middleware"
	requestutil "github.com/inkwellapp/inkwell/internal/platform/request"
	"github.com/inkwellapp/inkwell/internal/platform/respond"
	"github.com/inkwellapp/inkwell/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the member lifecycle entry
// points (Signup, Login, Password recovery callbacks).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/confirm-email", handler.confirmEmail)
	router.Post("/password-reset", handler.requestPasswordReset)
	router.Post("/password-reset/validate", handler.validateResetLink)
	router.Post("/password-reset/complete", handler.completePasswordReset)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password1  string `json:"password1"`
	Password2  string `json:"password2"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Subscribed bool   `json:"subscribed"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type confirmEmailRequest struct {
	Token string `json:"token"`
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type resetLinkRequest struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

type completeResetRequest struct {
	UID       string `json:"uid"`
	Token     string `json:"token"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Signup handles the creation of a new member account.

POST /api/v1/auth/signup

Description: Validates input (including the two matching password fields),
checks for identity conflicts, persists the account, and queues the email
confirmation letter.

Request:
  - Body: signupRequest

Response:
  - 201: Account: Created member profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, 150).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword1, input.Password1).
		MinLen(FieldPassword1, input.Password1, 8).
		Match(FieldPassword2, input.Password1, input.Password2, "Passwords must match")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	acct, err := handler.authService.Signup(request.Context(), SignupInput{
		Username:   input.Username,
		Email:      input.Email,
		Password1:  input.Password1,
		Password2:  input.Password2,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Subscribed: input.Subscribed,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, acct)
}

/*
Login authenticates a member and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates a JWT access token, and injects
a secure refresh token cookie. Without remember_me the cookie is
browser-session scoped.

Request:
  - Body: loginRequest (Email, Password, RememberMe)

Response:
  - 200: Session: Access token and member profile
  - 401: ErrUnauthorized: Unknown email or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:      input.Email,
		Password:   input.Password,
		RememberMe: input.RememberMe,
		UserAgent:  request.UserAgent(),
		IPAddress:  middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cookie := &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	// A session cookie (no Expires) dies with the browser unless the member
	// asked to be remembered.
	if session.Remembered {
		cookie.Expires = session.RefreshTokenExpiresAt
	}
	http.SetCookie(writer, cookie)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current member session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie and
issuing a fresh access token and an updated refresh token. The rotated
session keeps its original expiry.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		cookie.Value,
		request.UserAgent(),
		middleware.RealIP(request),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

/*
ConfirmEmail marks a member's email ownership as verified.

POST /api/v1/auth/confirm-email

Description: Validates an email confirmation token and flips the account's
confirmation flag.

Request:
  - Body: confirmEmailRequest (Token)

Response:
  - 200: Success: Email confirmed
  - 400: ErrInvalidJSON: Missing token
  - 404: ErrNotFound: Token unknown or expired
*/
func (handler *Handler) confirmEmail(writer http.ResponseWriter, request *http.Request) {
	var input confirmEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.authService.ConfirmEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email confirmed successfully",
	})
}

/*
RequestPasswordReset initiates the password recovery flow.

POST /api/v1/auth/password-reset

Description: Queues a recovery letter carrying the reset link. An address
that is not registered is reported as a field error.

Request:
  - Body: requestResetRequest (Email)

Response:
  - 200: Success: Reset letter queued
  - 400: ErrValidation: Invalid format or unregistered email
*/
func (handler *Handler) requestPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input requestResetRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "A reset link has been sent to your email.",
	})
}

/*
ValidateResetLink checks a reset link before the member types a new password.

POST /api/v1/auth/password-reset/validate

Description: Lets the frontend verify the uid/token pair from the emailed
URL and decide whether to render the new-password form or the dead-link page.

Request:
  - Body: resetLinkRequest (UID, Token)

Response:
  - 200: Success: Link is live
  - 400: ErrValidation: Link invalid or expired
*/
func (handler *Handler) validateResetLink(writer http.ResponseWriter, request *http.Request) {
	var input resetLinkRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldUID, input.UID).Required(FieldToken, input.Token)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.authService.ValidateResetLink(request.Context(), input.UID, input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Reset link is valid",
	})
}

/*
CompletePasswordReset finishes the password recovery flow.

POST /api/v1/auth/password-reset/complete

Description: Validates the reset link and the matching password pair, then
updates the member's password and revokes every session.

Request:
  - Body: completeResetRequest (UID, Token, Password1, Password2)

Response:
  - 200: Success: Password updated
  - 400: ErrValidation: Dead link, mismatch, or weak password
*/
func (handler *Handler) completePasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input completeResetRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldUID, input.UID).
		Required(FieldToken, input.Token).
		Required(FieldPassword1, input.Password1).
		MinLen(FieldPassword1, input.Password1, 8).
		Match(FieldPassword2, input.Password1, input.Password2, "Passwords must match")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.CompletePasswordReset(
		request.Context(),
		input.UID,
		input.Token,
		input.Password1,
		input.Password2,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
ChangePassword updates the authenticated member's password.

POST /api/v1/auth/change-password

Description: Verifies the current password and security context before
applying a new password.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Session invalid or authentication required
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing active session cookie"))
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID,
		input.CurrentPassword,
		input.NewPassword,
		cookie.Value,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}
