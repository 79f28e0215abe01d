// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages the discussion threads under reviews.
package comment

import (
	"context"
	"time"
)

// FieldText is the JSON name of a comment's body.
const FieldText = "text"

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	PubDate  time.Time `json:"pub_date"`
}

// OwnerID implements permission.Owned.
func (comment *Comment) OwnerID() int64 { return comment.AuthorID }

// Repository defines the persistence contract for comments, scoped to a review.
type Repository interface {
	// List returns one page of a review's comments, newest first.
	List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	// FindByID returns apperr.NotFound unless comment id belongs to reviewID.
	FindByID(context context.Context, reviewID, id int64) (*Comment, error)

	// Create stores comment and fills ID, Author and PubDate.
	Create(context context.Context, comment *Comment) error

	// Update rewrites the text of comment.ID.
	Update(context context.Context, comment *Comment) error

	Delete(context context.Context, id int64) error
}
