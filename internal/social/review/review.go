// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages the scored reviews readers leave on titles.

Each reader may review a title once. The rule lives in the database as a
unique constraint; the service only translates its violation.
*/
package review

import (
	"context"
	"time"
)

// Score bounds.
const (
	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 5
)

// JSON field names used in validation details.
const (
	FieldText  = "text"
	FieldScore = "score"
	FieldTitle = "title"
)

// MsgDuplicate is reported when a reader reviews the same title twice.
const MsgDuplicate = "Review must be unique"

// # Domain Entities

// Review is a reader's verdict on a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// OwnerID implements permission.Owned.
func (review *Review) OwnerID() int64 { return review.AuthorID }

// # Repository Contracts

// Repository defines the persistence contract for reviews. Every read is
// scoped to a title so a review is never reachable under another title.
type Repository interface {
	// List returns one page of a title's reviews, newest first.
	List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	// FindByID returns apperr.NotFound unless review id belongs to titleID.
	FindByID(context context.Context, titleID, id int64) (*Review, error)

	// Create stores review and fills ID, Author and PubDate. A unique
	// violation of the author/title constraint is returned unwrapped.
	Create(context context.Context, review *Review) error

	// Update rewrites the text and score of review.ID.
	Update(context context.Context, review *Review) error

	// Delete removes a review with its comments.
	Delete(context context.Context, id int64) error
}
