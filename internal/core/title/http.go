// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/permission"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// access lets anyone read titles and only administrators write them.
var access = permission.Set{permission.PutNotAllowed, permission.IsAdminOrReadOnly}

// Handler implements the /titles endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the title endpoints.
//
// # Endpoints
//   - GET, POST /                   : Filtered list and creation.
//   - GET, PATCH, DELETE /{title_id} : Single title.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", access.Handle(permission.ActionList, handler.list))
	router.Post("/", access.Handle(permission.ActionCreate, handler.create))
	router.Get("/{title_id}", access.Handle(permission.ActionRetrieve, handler.get))
	router.Patch("/{title_id}", access.Handle(permission.ActionPartialUpdate, handler.update))
	router.Put("/{title_id}", access.Handle(permission.ActionUpdate, respond.MethodNotAllowed))
	router.Delete("/{title_id}", access.Handle(permission.ActionDestroy, handler.delete))

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        *int     `json:"year" validate:"required,year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" validate:"dive,required,max=50"`
	Category    string   `json:"category" validate:"required,max=50"`
}

type updateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year" validate:"omitempty,year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category" validate:"omitempty,max=50"`
}

// filterFromRequest reads the list filters. A non-numeric year is a client error.
func filterFromRequest(request *http.Request) (Filter, error) {
	values := request.URL.Query()

	var filter Filter
	filter.Category, _ = query.Trimmed(values, FieldCategory)
	filter.Genre, _ = query.Trimmed(values, FieldGenre)
	filter.Name, _ = query.Trimmed(values, FieldName)

	if raw, ok := query.Trimmed(values, FieldYear); ok {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, validate.RequiredError(FieldYear, "Enter a number.")
		}
		filter.Year = &year
	}

	return filter, nil
}

/*
GET /v1/titles.

Request:
  - category, genre: string (slug)
  - name: string (substring)
  - year: int
  - page, limit: int

Response:
  - 200: Page[Title]
  - 400: ErrValidation: Non-numeric year
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	titles, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, titles)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
POST /v1/titles.

Request:
  - Body: createRequest (genre and category as slugs)

Response:
  - 201: Title: Read shape
  - 400: ErrValidation: Invalid fields or unknown slugs
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload createRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:        payload.Name,
		Year:        *payload.Year,
		Description: payload.Description,
		Category:    payload.Category,
		Genre:       payload.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

/*
PATCH /v1/titles/{title_id}.

Request:
  - Body: updateRequest

Response:
  - 200: Title: Read shape
  - 400: ErrValidation: Invalid fields or unknown slugs
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload updateRequest
	if err := requestutil.DecodeAndValidate(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:        payload.Name,
		Year:        payload.Year,
		Description: payload.Description,
		Category:    payload.Category,
		Genre:       payload.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
