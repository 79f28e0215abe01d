// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/permission"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// access lets anyone read, authenticated callers write, and only the author
// or a moderator change an existing review.
var access = permission.Set{permission.PutNotAllowed, permission.IsOwnerOrModeratorOrReadOnly}

// Handler implements /titles/{title_id}/reviews.
type Handler struct {
	service *Service
}

// NewHandler constructs a review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] meant to be mounted under a path carrying
// the title_id parameter. comments is mounted under /{review_id}/comments
// when not nil.
func (handler *Handler) Routes(comments http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", access.Handle(permission.ActionList, handler.list))
	router.Post("/", access.Handle(permission.ActionCreate, handler.create))
	router.Get("/{review_id}", access.Handle(permission.ActionRetrieve, handler.get))
	router.Patch("/{review_id}", access.Handle(permission.ActionPartialUpdate, handler.update))
	router.Put("/{review_id}", access.Handle(permission.ActionUpdate, respond.MethodNotAllowed))
	router.Delete("/{review_id}", access.Handle(permission.ActionDestroy, handler.delete))

	if comments != nil {
		router.Mount("/{review_id}/comments", comments)
	}

	return router
}

type createRequest struct {
	Text  string `json:"text" validate:"required"`
	Score *int   `json:"score" validate:"omitempty,gte=1,lte=10"`
}

type updateRequest struct {
	Text  *string `json:"text" validate:"omitempty"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

/*
GET /v1/titles/{title_id}/reviews.

Request:
  - title: int (optional, ANDed with the path title)
  - page, limit: int

Response:
  - 200: Page[Review]
  - 400: ErrValidation: Non-numeric title filter
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	matches, err := titleFilterMatches(request, titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.List(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !matches {
		reviews, total = []*Review{}, 0
	}
	respond.Paginated(writer, request, params, total, reviews)
}

// titleFilterMatches reports whether the optional ?title= filter agrees with titleID.
func titleFilterMatches(request *http.Request, titleID int64) (bool, error) {
	raw, ok := query.Trimmed(request.URL.Query(), FieldTitle)
	if !ok {
		return true, nil
	}

	filterID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, apperr.ValidationError("Enter a number.").WithField(FieldTitle)
	}
	return filterID == titleID, nil
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
POST /v1/titles/{title_id}/reviews.

Request:
  - Body: createRequest (score defaults to 5)

Response:
  - 201: Review
  - 400: ErrValidation: Invalid fields or a second review of the title
  - 401: ErrUnauthorized
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload createRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Create(request.Context(), author, titleID, CreateInput{
		Text:  payload.Text,
		Score: payload.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

/*
PATCH /v1/titles/{title_id}/reviews/{review_id}.

Response:
  - 200: Review
  - 403: ErrForbidden: Neither the author nor a moderator
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := access.Authorize(request, permission.ActionPartialUpdate, review); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload updateRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), review, UpdateInput{Text: payload.Text, Score: payload.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := access.Authorize(request, permission.ActionDestroy, review); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), review); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// load fetches the review addressed by the URL.
func (handler *Handler) load(request *http.Request) (*Review, error) {
	titleID, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		return nil, err
	}
	reviewID, err := requestutil.ID(request, "review_id", "Review")
	if err != nil {
		return nil, err
	}
	return handler.service.Get(request.Context(), titleID, reviewID)
}
