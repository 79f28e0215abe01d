// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Reviews looks up a review under its title. [*review.Service] satisfies it.
type Reviews interface {
	Get(context context.Context, titleID, id int64) (*review.Review, error)
}

// Service orchestrates comments under a review.
type Service struct {
	repo    Repository
	reviews Reviews
}

// NewService constructs a comment [Service].
func NewService(repo Repository, reviews Reviews) *Service {
	return &Service{repo: repo, reviews: reviews}
}

// List returns one page of a review's comments. The review must belong to the title.
func (service *Service) List(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, reviewID, params.Limit, params.Offset())
}

// Get returns a comment addressed by its full path.
func (service *Service) Get(context context.Context, titleID, reviewID, id int64) (*Comment, error) {
	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, reviewID, id)
}

/*
Create posts the author's comment under a review.

Parameters:
  - context: context.Context
  - author: *sec.Principal
  - titleID, reviewID: int64
  - text: string

Returns:
  - *Comment: The stored comment
  - error: apperr.NotFound for the title or review, validation failures
*/
func (service *Service) Create(context context.Context, author *sec.Principal, titleID, reviewID int64, text string) (*Comment, error) {
	if author == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}

	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{ReviewID: reviewID, AuthorID: author.UserID, Text: strings.TrimSpace(text)}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update replaces the text of a loaded comment. Callers authorize first.
func (service *Service) Update(context context.Context, comment *Comment, text *string) (*Comment, error) {
	updated := *comment
	if text != nil {
		updated.Text = strings.TrimSpace(*text)
	}

	if err := validateComment(&updated); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a loaded comment. Callers authorize first.
func (service *Service) Delete(context context.Context, comment *Comment) error {
	return service.repo.Delete(context, comment.ID)
}

func validateComment(comment *Comment) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, comment.Text)
	return validator.Err()
}
