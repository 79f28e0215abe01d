// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package titletest provides an in-memory [title.Repository].
package titletest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/reference/referencetest"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// Repository stores title records and expands their references from the
// given term stores on read.
type Repository struct {
	mu         sync.Mutex
	records    map[int64]title.Record
	ratings    map[int64]float64
	nextID     int64
	categories *referencetest.Repository
	genres     *referencetest.Repository
}

// NewRepository returns an empty store.
func NewRepository(categories, genres *referencetest.Repository) *Repository {
	return &Repository{
		records:    make(map[int64]title.Record),
		ratings:    make(map[int64]float64),
		nextID:     1,
		categories: categories,
		genres:     genres,
	}
}

// Seed inserts a record and returns its id.
func (repository *Repository) Seed(record title.Record) int64 {
	if err := repository.Create(context.Background(), &record); err != nil {
		panic(err)
	}
	return record.ID
}

// SetRating fixes the average score reported for a title.
func (repository *Repository) SetRating(id int64, rating float64) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.ratings[id] = rating
}

func (repository *Repository) List(_ context.Context, filter title.Filter, limit, offset int) ([]*title.Title, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*title.Title
	for _, record := range repository.records {
		item := repository.expand(record)
		if repository.matches(item, filter) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository *Repository) FindByID(_ context.Context, id int64) (*title.Title, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, ok := repository.records[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return repository.expand(record), nil
}

func (repository *Repository) Create(_ context.Context, record *title.Record) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record.ID = repository.nextID
	repository.nextID++
	repository.records[record.ID] = clone(*record)
	return nil
}

func (repository *Repository) Update(_ context.Context, record *title.Record) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.records[record.ID]; !ok {
		return apperr.NotFound("Title")
	}
	repository.records[record.ID] = clone(*record)
	return nil
}

func (repository *Repository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.records[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repository.records, id)
	delete(repository.ratings, id)
	return nil
}

// # Helpers

func (repository *Repository) expand(record title.Record) *title.Title {
	item := &title.Title{
		ID:          record.ID,
		Name:        record.Name,
		Year:        record.Year,
		Description: record.Description,
		Genre:       []reference.Term{},
	}
	if rating, ok := repository.ratings[record.ID]; ok {
		item.Rating = &rating
	}
	if record.CategoryID != nil {
		if term, ok := repository.categories.Term(*record.CategoryID); ok {
			item.Category = &term
		}
	}
	for _, id := range record.GenreIDs {
		if term, ok := repository.genres.Term(id); ok {
			item.Genre = append(item.Genre, term)
		}
	}
	sort.Slice(item.Genre, func(i, j int) bool { return item.Genre[i].Slug < item.Genre[j].Slug })
	return item
}

func (repository *Repository) matches(item *title.Title, filter title.Filter) bool {
	if filter.Category != "" && (item.Category == nil || item.Category.Slug != filter.Category) {
		return false
	}
	if filter.Genre != "" {
		found := false
		for _, term := range item.Genre {
			found = found || term.Slug == filter.Genre
		}
		if !found {
			return false
		}
	}
	if filter.Name != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Name)) {
		return false
	}
	return filter.Year == nil || item.Year == *filter.Year
}

func clone(record title.Record) title.Record {
	record.GenreIDs = append([]int64(nil), record.GenreIDs...)
	if record.CategoryID != nil {
		id := *record.CategoryID
		record.CategoryID = &id
	}
	return record
}
