// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package referencetest provides an in-memory [reference.Repository].
package referencetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// Repository stores terms in memory with a unique slug.
type Repository struct {
	mu         sync.Mutex
	terms      map[int64]*reference.Term
	nextID     int64
	resource   string
	constraint string
}

// NewRepository returns an empty store. table names the unique constraint
// ("uq_<table>_slug") and resource the 404 message.
func NewRepository(table, resource string) *Repository {
	return &Repository{
		terms:      make(map[int64]*reference.Term),
		nextID:     1,
		resource:   resource,
		constraint: "uq_" + table + "_slug",
	}
}

// Seed inserts terms and returns them with their ids.
func (repository *Repository) Seed(terms ...reference.Term) []*reference.Term {
	seeded := make([]*reference.Term, 0, len(terms))
	for _, term := range terms {
		created := term
		if err := repository.Create(context.Background(), &created); err != nil {
			panic(err)
		}
		seeded = append(seeded, &created)
	}
	return seeded
}

func (repository *Repository) List(_ context.Context, search string, limit, offset int) ([]*reference.Term, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*reference.Term
	for _, term := range repository.terms {
		if search == "" || strings.Contains(strings.ToLower(term.Name), strings.ToLower(search)) {
			copied := *term
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Slug < matched[j].Slug })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository *Repository) Create(_ context.Context, term *reference.Term) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.terms {
		if existing.Slug == term.Slug {
			return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: repository.constraint}, "create_term")
		}
	}

	term.ID = repository.nextID
	repository.nextID++
	copied := *term
	repository.terms[term.ID] = &copied
	return nil
}

func (repository *Repository) DeleteBySlug(_ context.Context, slug string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for id, term := range repository.terms {
		if term.Slug == slug {
			delete(repository.terms, id)
			return nil
		}
	}
	return apperr.NotFound(repository.resource)
}

func (repository *Repository) FindBySlugs(_ context.Context, slugs []string) ([]*reference.Term, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	wanted := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		wanted[slug] = true
	}

	var found []*reference.Term
	for _, term := range repository.terms {
		if wanted[term.Slug] {
			copied := *term
			found = append(found, &copied)
		}
	}
	return found, nil
}

// Term returns the stored term with the given id.
func (repository *Repository) Term(id int64) (reference.Term, bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	term, ok := repository.terms[id]
	if !ok {
		return reference.Term{}, false
	}
	return *term, true
}
