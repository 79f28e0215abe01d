// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/permission"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// # Definitions & Constructors

// Handler implements the /users endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

var (
	// adminOnly guards the account management endpoints.
	adminOnly = permission.Set{permission.PutNotAllowed, permission.IsAdminOrDenied}

	// selfService guards /users/me.
	selfService = permission.Set{permission.IsAuthenticated}
)

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET, PATCH /me          : The caller's own profile.
//   - GET, POST /             : Account list and creation (admin).
//   - GET, PATCH, DELETE /{username} : Account management (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self service
	router.Get("/me", selfService.Handle(permission.ActionRetrieve, handler.me))
	router.Patch("/me", selfService.Handle(permission.ActionPartialUpdate, handler.updateMe))

	// Administration
	router.Get("/", adminOnly.Handle(permission.ActionList, handler.list))
	router.Post("/", adminOnly.Handle(permission.ActionCreate, handler.create))
	router.Get("/{username}", adminOnly.Handle(permission.ActionRetrieve, handler.get))
	router.Patch("/{username}", adminOnly.Handle(permission.ActionPartialUpdate, handler.update))
	router.Put("/{username}", adminOnly.Handle(permission.ActionUpdate, respond.MethodNotAllowed))
	router.Delete("/{username}", adminOnly.Handle(permission.ActionDestroy, handler.delete))

	return router
}

// # Request Payloads

type createRequest struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio" validate:"max=300"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

type updateRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio" validate:"omitempty,max=300"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (payload updateRequest) input() UpdateInput {
	input := UpdateInput{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Bio:       payload.Bio,
	}
	if payload.Role != nil {
		role := sec.UserRole(*payload.Role)
		input.Role = &role
	}
	return input
}

// # Self Service

/*
GET /v1/users/me.

Response:
  - 200: User: The caller's profile
  - 401: ErrUnauthorized: Anonymous caller
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Me(request.Context(), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /v1/users/me.

Description: Updates the caller's profile. The role is only writable by
staff, superusers and administrators.

Request:
  - Body: updateRequest

Response:
  - 200: User: Updated profile
  - 400: ErrValidation: Invalid fields or username taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var payload updateRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateMe(request.Context(), requestutil.Principal(request), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Administration

/*
GET /v1/users.

Request:
  - search: string (username substring)
  - page, limit: int

Response:
  - 200: Page[User]
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search, _ := query.Trimmed(request.URL.Query(), "search")

	users, total, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, users)
}

/*
POST /v1/users.

Request:
  - Body: createRequest

Response:
  - 201: User: Created account
  - 400: ErrValidation: Invalid fields, username or email taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload createRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Create(request.Context(), CreateInput{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Bio:       payload.Bio,
		Role:      sec.UserRole(payload.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Get(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var payload updateRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Update(request.Context(), requestutil.Param(request, "username"), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
