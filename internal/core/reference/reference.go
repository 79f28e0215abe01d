// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the slugged lookup tables titles are classified by:
categories and genres.

Both share one shape ([Term]) and one set of rules. Terms are listed,
created and deleted; they are addressed by slug and never updated.
*/
package reference

import "context"

// # Limits

const (
	// MaxNameLen bounds a term's display name.
	MaxNameLen = 256

	// MaxSlugLen bounds a term's slug.
	MaxSlugLen = 50
)

// JSON field names used in validation details.
const (
	FieldName = "name"
	FieldSlug = "slug"
)

// # Domain Entities

// Term is a category or a genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Repository Contracts

// Repository defines the persistence contract for one lookup table.
type Repository interface {
	/*
		List returns one page of terms ordered by slug.

		Parameters:
		  - context: context.Context
		  - search: string (case-insensitive name substring, empty for all)
		  - limit, offset: int

		Returns:
		  - []*Term: The page
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*Term, int, error)

	// Create inserts term and fills its ID. A taken slug is a validation error.
	Create(context context.Context, term *Term) error

	// DeleteBySlug removes a term. Missing slugs return apperr.NotFound.
	DeleteBySlug(context context.Context, slug string) error

	// FindBySlugs returns the terms whose slug is in slugs, in no particular order.
	FindBySlugs(context context.Context, slugs []string) ([]*Term, error)
}
