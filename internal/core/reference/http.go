// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/permission"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// access lets anyone list terms and only administrators change them.
var access = permission.Set{
	permission.PutNotAllowed,
	permission.IsAuthenticatedOrReadOnly,
	permission.IsAdminOrReadOnly,
}

// Handler implements the HTTP layer of one lookup table.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reference [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the list, create and delete endpoints.
//
// The detail URL only answers DELETE; other methods get 405.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", access.Handle(permission.ActionList, handler.list))
	router.Post("/", access.Handle(permission.ActionCreate, handler.create))
	router.Delete("/{slug}", access.Handle(permission.ActionDestroy, handler.delete))
	router.Put("/{slug}", access.Handle(permission.ActionUpdate, respond.MethodNotAllowed))

	return router
}

type createRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

/*
GET /v1/{categories|genres}.

Request:
  - search: string (name substring)
  - page, limit: int

Response:
  - 200: Page[Term]
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search, _ := query.Trimmed(request.URL.Query(), "search")

	terms, total, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, terms)
}

/*
POST /v1/{categories|genres}.

Request:
  - Body: createRequest

Response:
  - 201: Term
  - 400: ErrValidation: Invalid fields or slug taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload createRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), payload.Name, payload.Slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, term)
}

// DELETE /v1/{categories|genres}/{slug}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
