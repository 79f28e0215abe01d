// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the confirmation code and token endpoints.
type Handler struct {
	service        *Service
	limitPerMinute int
}

// NewHandler constructs a new [Handler]. limitPerMinute caps requests per client IP.
func NewHandler(service *Service, limitPerMinute int) *Handler {
	return &Handler{service: service, limitPerMinute: limitPerMinute}
}

// Routes returns a [chi.Router] configured with the authentication endpoints.
//
// # Endpoints
//   - POST /email : Mails a confirmation code, registering the email on first use.
//   - POST /token : Exchanges email and confirmation code for an access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	if handler.limitPerMinute > 0 {
		router.Use(middleware.StrictRateLimit(handler.limitPerMinute, time.Minute))
	}

	router.Post("/email", handler.requestCode)
	router.Post("/token", handler.issueToken)

	return router
}

// # Request Payloads

type emailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type tokenRequest struct {
	Email            string `json:"email" validate:"required,email,max=254"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=50"`
}

/*
POST /v1/auth/email.

Description: Fetches or creates the account for the email and mails it a
confirmation code. The code itself is never part of the response.

Request:
  - Body: emailRequest

Response:
  - 200: CodeRequest: Email and username of the account
  - 400: ErrValidation: Missing or malformed email
  - 429: ErrRateLimited: A code was sent recently
  - 503: ErrServiceUnavailable: Mail relay failure
*/
func (handler *Handler) requestCode(writer http.ResponseWriter, request *http.Request) {
	var payload emailRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.RequestCode(request.Context(), payload.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /v1/auth/token.

Request:
  - Body: tokenRequest

Response:
  - 201: AccessToken
  - 400: ErrValidation: Unverified email or invalid confirmation code
*/
func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	var payload tokenRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.IssueToken(request.Context(), payload.Email, payload.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, token)
}
