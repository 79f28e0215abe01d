// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slice"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// # Service Layer

// Service applies the rules shared by categories and genres.
type Service struct {
	repo Repository
}

// NewService constructs a reference [Service] over one lookup table.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of terms, optionally filtered by name.
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	return service.repo.List(context, search, params.Limit, params.Offset())
}

/*
Create adds a term.

Description: When no slug is given it is derived from the name.

Parameters:
  - context: context.Context
  - name: string
  - slugValue: string (optional)

Returns:
  - *Term: The persisted term
  - error: Validation failures or a taken slug
*/
func (service *Service) Create(context context.Context, name, slugValue string) (*Term, error) {
	term := &Term{
		Name: strings.TrimSpace(name),
		Slug: strings.TrimSpace(slugValue),
	}
	if term.Slug == "" {
		term.Slug = slug.FromMax(term.Name, MaxSlugLen)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).MaxLen(FieldName, term.Name, MaxNameLen)
	if term.Slug == "" {
		validator.Required(FieldSlug, term.Slug)
	} else {
		validator.Slug(FieldSlug, term.Slug).MaxLen(FieldSlug, term.Slug, MaxSlugLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, term); err != nil {
		return nil, err
	}
	return term, nil
}

// Delete removes the term with slug.
func (service *Service) Delete(context context.Context, slugValue string) error {
	return service.repo.DeleteBySlug(context, slugValue)
}

/*
Resolve maps slugs to terms, reporting the first unknown slug against field.

Parameters:
  - context: context.Context
  - field: string (payload field the slugs came from)
  - slugs: []string

Returns:
  - []*Term: Terms in the order of the deduplicated slugs
  - error: apperr VALIDATION_ERROR naming the missing slug
*/
func (service *Service) Resolve(context context.Context, field string, slugs []string) ([]*Term, error) {
	slugs = slice.Unique(slugs)
	if len(slugs) == 0 {
		return []*Term{}, nil
	}

	found, err := service.repo.FindBySlugs(context, slugs)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]*Term, len(found))
	for _, term := range found {
		bySlug[term.Slug] = term
	}

	terms := make([]*Term, 0, len(slugs))
	for _, value := range slugs {
		term, ok := bySlug[value]
		if !ok {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   field,
				Message: fmt.Sprintf("Object with slug=%s does not exist.", value),
			})
		}
		terms = append(terms, term)
	}
	return terms, nil
}
