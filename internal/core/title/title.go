// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the catalogue of reviewable works.

A title belongs to at most one category and any number of genres. Clients
read titles with their category and genres expanded and the average review
score attached as rating; they write them with the category and genres given
as slugs.
*/
package title

import (
	"context"

	"github.com/taibuivan/yamdb/internal/core/reference"
)

const (
	// MaxNameLen bounds a title's name.
	MaxNameLen = 256
)

// JSON field names used in validation details and filters.
const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldGenre       = "genre"
	FieldCategory    = "category"
)

// # Domain Entities

// Title is the read representation of a work.
type Title struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description string           `json:"description"`
	Genre       []reference.Term `json:"genre"`
	Category    *reference.Term  `json:"category"`
}

// Record is the write representation of a title with resolved references.
type Record struct {
	ID          int64
	Name        string
	Year        int
	Description string
	CategoryID  *int64
	GenreIDs    []int64
}

// Filter narrows a title listing. Zero values do not filter.
type Filter struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}

// # Repository Contracts

// Repository defines the persistence contract for titles.
type Repository interface {
	/*
		List returns one page of titles, newest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit, offset: int

		Returns:
		  - []*Title: The page, ratings included
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	// FindByID returns apperr.NotFound when the title does not exist.
	FindByID(context context.Context, id int64) (*Title, error)

	// Create inserts the title with its genres and fills record.ID.
	Create(context context.Context, record *Record) error

	// Update replaces the stored fields and genres of record.ID.
	Update(context context.Context, record *Record) error

	// Delete removes a title with its reviews and their comments.
	Delete(context context.Context, id int64) error
}
