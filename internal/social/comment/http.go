// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/permission"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

var access = permission.Set{permission.PutNotAllowed, permission.IsOwnerOrModeratorOrReadOnly}

// Handler implements /titles/{title_id}/reviews/{review_id}/comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] meant to be mounted under a path carrying
// the title_id and review_id parameters.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", access.Handle(permission.ActionList, handler.list))
	router.Post("/", access.Handle(permission.ActionCreate, handler.create))
	router.Get("/{comment_id}", access.Handle(permission.ActionRetrieve, handler.get))
	router.Patch("/{comment_id}", access.Handle(permission.ActionPartialUpdate, handler.update))
	router.Put("/{comment_id}", access.Handle(permission.ActionUpdate, respond.MethodNotAllowed))
	router.Delete("/{comment_id}", access.Handle(permission.ActionDestroy, handler.delete))

	return router
}

type createRequest struct {
	Text string `json:"text" validate:"required"`
}

type updateRequest struct {
	Text *string `json:"text"`
}

// path holds the parent ids of a comment URL.
type path struct {
	titleID  int64
	reviewID int64
}

func parentIDs(request *http.Request) (path, error) {
	titleID, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		return path{}, err
	}
	reviewID, err := requestutil.ID(request, "review_id", "Review")
	if err != nil {
		return path{}, err
	}
	return path{titleID: titleID, reviewID: reviewID}, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	parent, err := parentIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.List(request.Context(), parent.titleID, parent.reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, comments)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

/*
POST /v1/titles/{title_id}/reviews/{review_id}/comments.

Response:
  - 201: Comment
  - 400: ErrValidation: Blank text
  - 404: ErrNotFound: Unknown title or a review of another title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	parent, err := parentIDs(request)
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

	comment, err := handler.service.Create(request.Context(), author, parent.titleID, parent.reviewID, payload.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := access.Authorize(request, permission.ActionPartialUpdate, comment); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload updateRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), comment, payload.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := access.Authorize(request, permission.ActionDestroy, comment); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), comment); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) load(request *http.Request) (*Comment, error) {
	parent, err := parentIDs(request)
	if err != nil {
		return nil, err
	}
	commentID, err := requestutil.ID(request, "comment_id", "Comment")
	if err != nil {
		return nil, err
	}
	return handler.service.Get(request.Context(), parent.titleID, parent.reviewID, commentID)
}
