// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"strings"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// Titles looks up the title a review hangs under.
type Titles interface {
	Get(context context.Context, id int64) (*title.Title, error)
}

// CreateInput carries a new review. A nil score takes [DefaultScore].
type CreateInput struct {
	Text  string
	Score *int
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Text  *string
	Score *int
}

// Service orchestrates reviews under a title.
type Service struct {
	repo   Repository
	titles Titles
}

// NewService constructs a review [Service].
func NewService(repo Repository, titles Titles) *Service {
	return &Service{repo: repo, titles: titles}
}

// List returns one page of a title's reviews. Unknown titles are 404.
func (service *Service) List(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if _, err := service.titles.Get(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, titleID, params.Limit, params.Offset())
}

// Get returns a review of a title.
func (service *Service) Get(context context.Context, titleID, id int64) (*Review, error) {
	if _, err := service.titles.Get(context, titleID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, titleID, id)
}

/*
Create publishes the author's review of a title.

Parameters:
  - context: context.Context
  - author: *sec.Principal
  - titleID: int64
  - input: CreateInput

Returns:
  - *Review: The stored review
  - error: apperr.NotFound for the title, validation failures or [MsgDuplicate]
*/
func (service *Service) Create(context context.Context, author *sec.Principal, titleID int64, input CreateInput) (*Review, error) {
	if author == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}

	// 1. The title must exist
	if _, err := service.titles.Get(context, titleID); err != nil {
		return nil, err
	}

	// 2. Validate the payload
	review := &Review{
		TitleID:  titleID,
		AuthorID: author.UserID,
		Text:     strings.TrimSpace(input.Text),
		Score:    pointer.Fallback(input.Score, DefaultScore),
	}
	if err := validateReview(review); err != nil {
		return nil, err
	}

	// 3. Persist and translate the one-review-per-title constraint
	if err := service.repo.Create(context, review); err != nil {
		if dberr.IsUniqueViolation(err, schema.UniqueAuthorTitle) {
			return nil, apperr.ValidationError(MsgDuplicate, apperr.FieldError{Field: "non_field_errors", Message: MsgDuplicate})
		}
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, dberr.Wrap(err, "create_review")
	}
	return review, nil
}

// Update applies a partial update to a loaded review. Callers authorize first.
func (service *Service) Update(context context.Context, review *Review, input UpdateInput) (*Review, error) {
	updated := *review
	if input.Text != nil {
		updated.Text = strings.TrimSpace(*input.Text)
	}
	pointer.Apply(&updated.Score, input.Score)

	if err := validateReview(&updated); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a loaded review and its comments. Callers authorize first.
func (service *Service) Delete(context context.Context, review *Review) error {
	return service.repo.Delete(context, review.ID)
}

func validateReview(review *Review) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldText, review.Text).
		Range(FieldScore, review.Score, MinScore, MaxScore)

	return validator.Err()
}
