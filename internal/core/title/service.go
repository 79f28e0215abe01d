// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"strings"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// Resolver maps slugs of one lookup table to terms.
type Resolver interface {
	Resolve(context context.Context, field string, slugs []string) ([]*reference.Term, error)
}

// # Inputs

// CreateInput carries a new title with its references given as slugs.
type CreateInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genre       []string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genre       *[]string
}

// # Service Layer

// Service orchestrates the title catalogue.
type Service struct {
	repo       Repository
	categories Resolver
	genres     Resolver
}

// NewService constructs a title [Service].
func NewService(repo Repository, categories, genres Resolver) *Service {
	return &Service{repo: repo, categories: categories, genres: genres}
}

// List returns one page of titles matching filter.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	return service.repo.List(context, filter, params.Limit, params.Offset())
}

// Get returns one title in its read shape.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.FindByID(context, id)
}

/*
Create adds a title to the catalogue.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Title: The stored title in its read shape
  - error: Validation failures or unknown slugs
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	record := &Record{
		Name:        strings.TrimSpace(input.Name),
		Year:        input.Year,
		Description: input.Description,
	}
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	if err := service.resolveCategory(context, record, input.Category); err != nil {
		return nil, err
	}
	if err := service.resolveGenres(context, record, input.Genre); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, record.ID)
}

/*
Update applies a partial update to a title.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *Title: The updated title in its read shape
  - error: apperr.NotFound, validation failures or unknown slugs
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Title, error) {
	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// 1. Start from the stored state
	record := &Record{
		ID:          current.ID,
		Name:        current.Name,
		Year:        current.Year,
		Description: current.Description,
		GenreIDs:    slice.Map(current.Genre, func(term reference.Term) int64 { return term.ID }),
	}
	if current.Category != nil {
		record.CategoryID = pointer.To(current.Category.ID)
	}

	// 2. Overlay the provided fields
	if input.Name != nil {
		record.Name = strings.TrimSpace(*input.Name)
	}
	pointer.Apply(&record.Year, input.Year)
	pointer.Apply(&record.Description, input.Description)

	if err := validateRecord(record); err != nil {
		return nil, err
	}

	if input.Category != nil {
		if err := service.resolveCategory(context, record, *input.Category); err != nil {
			return nil, err
		}
	}
	if input.Genre != nil {
		if err := service.resolveGenres(context, record, *input.Genre); err != nil {
			return nil, err
		}
	}

	// 3. Persist and reload the read shape
	if err := service.repo.Update(context, record); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, id)
}

// Delete removes a title with its reviews and comments.
func (service *Service) Delete(context context.Context, id int64) error {
	return service.repo.Delete(context, id)
}

// # Helpers

func (service *Service) resolveCategory(context context.Context, record *Record, slugValue string) error {
	if strings.TrimSpace(slugValue) == "" {
		return validate.RequiredError(FieldCategory, "This field may not be null.")
	}

	terms, err := service.categories.Resolve(context, FieldCategory, []string{slugValue})
	if err != nil {
		return err
	}
	record.CategoryID = pointer.To(terms[0].ID)
	return nil
}

func (service *Service) resolveGenres(context context.Context, record *Record, slugs []string) error {
	terms, err := service.genres.Resolve(context, FieldGenre, slugs)
	if err != nil {
		return err
	}
	record.GenreIDs = slice.Map(terms, func(term *reference.Term) int64 { return term.ID })
	return nil
}

func validateRecord(record *Record) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldName, record.Name).
		MaxLen(FieldName, record.Name, MaxNameLen).
		Year(FieldYear, record.Year)

	return validator.Err()
}
