// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

/*
Package account (HTTP) provides the delivery layer for profile management.

It exposes the authenticated "me" endpoints, the public profile lookup by
slug, and the admin-only account listing.
*/
package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwellapp/inkwell/internal/platform/middleware"
	requestutil "github.com/inkwellapp/inkwell/internal/platform/request"
	"github.com/inkwellapp/inkwell/internal/platform/respond"
	"github.com/inkwellapp/inkwell/internal/platform/sec"
	"github.com/inkwellapp/inkwell/internal/platform/validate"
	"github.com/inkwellapp/inkwell/pkg/pagination"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Account Management (authenticated)
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)
		router.Get("/me", handler.getMe)
		router.Patch("/me", handler.updateMe)
	})

	// Public profile discovery
	router.Get("/profiles/{slug}", handler.getProfile)

	// Administration
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)
		router.Use(middleware.RequireRole(sec.RoleAdmin))
		router.Get("/admin/accounts", handler.listAccounts)
	})

	return router
}

// # Profile Endpoints

/*
GET /api/v1/me.

Description: Retrieves the full private profile of the authenticated member.

Response:
  - 200: Account: Fully hydrated account
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	acct, err := handler.accountService.GetByID(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, acct)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	AvatarURL  *string `json:"avatar_url"`
	Bio        *string `json:"bio"`
	BirthDate  *string `json:"birth_date"` // yyyy-mm-dd
	Subscribed *bool   `json:"subscribed"`
}

/*
PATCH /api/v1/me.

Description: Applies partial updates to the authenticated member's profile.
Changing the username does not change the slug.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: Account: The updated account
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Username != nil {
		v.Required(FieldUsername, *input.Username).MaxLen(FieldUsername, *input.Username, 150)
	}
	if input.Email != nil {
		v.Email(FieldEmail, *input.Email)
	}
	if input.Bio != nil {
		v.MaxLen(FieldBio, *input.Bio, 500)
	}

	var birthDate *time.Time
	if input.BirthDate != nil && *input.BirthDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", *input.BirthDate)
		v.Custom(FieldBirthDate, parseErr != nil, "Must be a yyyy-mm-dd date")
		if parseErr == nil {
			birthDate = &parsed
		}
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	acct, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateInput{
		Username:   input.Username,
		Email:      input.Email,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		AvatarURL:  input.AvatarURL,
		Bio:        input.Bio,
		BirthDate:  birthDate,
		Subscribed: input.Subscribed,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, acct)
}

/*
GET /api/v1/profiles/{slug}.

Description: Retrieves the public profile owning the given handle. No
authentication required; private fields are never included.

Request:
  - slug: string (URL handle)

Response:
  - 200: Profile: Public projection
  - 404: ErrNotFound: No account owns the slug
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	if err := (&validate.Validator{}).Slug(FieldSlug, slug).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfileBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Administration Endpoints

/*
GET /api/v1/admin/accounts.

Description: Paginated listing of every registered account, for staff
tooling. Requires the admin role.

Request:
  - page, limit: query parameters

Response:
  - 200: []Account + pagination metadata
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	accounts, meta, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}
