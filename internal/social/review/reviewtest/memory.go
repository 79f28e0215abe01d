// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package reviewtest provides an in-memory [review.Repository].
package reviewtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/social/review"
)

// Repository stores reviews in memory and enforces one review per author
// and title the way the database constraint does.
type Repository struct {
	mu      sync.Mutex
	reviews map[int64]review.Review
	authors map[int64]string
	nextID  int64
	clock   time.Time
}

// NewRepository returns an empty store. authors maps user ids to usernames.
func NewRepository(authors map[int64]string) *Repository {
	return &Repository{
		reviews: make(map[int64]review.Review),
		authors: authors,
		nextID:  1,
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repository *Repository) List(_ context.Context, titleID int64, limit, offset int) ([]*review.Review, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*review.Review
	for _, stored := range repository.reviews {
		if stored.TitleID == titleID {
			copied := stored
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository *Repository) FindByID(_ context.Context, titleID, id int64) (*review.Review, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.reviews[id]
	if !ok || stored.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return &stored, nil
}

func (repository *Repository) Create(_ context.Context, created *review.Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, stored := range repository.reviews {
		if stored.TitleID == created.TitleID && stored.AuthorID == created.AuthorID {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: schema.UniqueAuthorTitle}
		}
	}

	repository.clock = repository.clock.Add(time.Minute)
	created.ID = repository.nextID
	created.Author = repository.authors[created.AuthorID]
	created.PubDate = repository.clock
	repository.nextID++

	repository.reviews[created.ID] = *created
	return nil
}

func (repository *Repository) Update(_ context.Context, updated *review.Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.reviews[updated.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	stored.Text = updated.Text
	stored.Score = updated.Score
	repository.reviews[updated.ID] = stored

	*updated = stored
	return nil
}

func (repository *Repository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.reviews[id]; !ok {
		return apperr.NotFound("Review")
	}
	delete(repository.reviews, id)
	return nil
}
