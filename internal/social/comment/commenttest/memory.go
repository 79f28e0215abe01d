// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package commenttest provides an in-memory [comment.Repository].
package commenttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/social/comment"
)

// Repository stores comments in memory with strictly increasing publication dates.
type Repository struct {
	mu       sync.Mutex
	comments map[int64]comment.Comment
	authors  map[int64]string
	nextID   int64
	clock    time.Time
}

// NewRepository returns an empty store. authors maps user ids to usernames.
func NewRepository(authors map[int64]string) *Repository {
	return &Repository{
		comments: make(map[int64]comment.Comment),
		authors:  authors,
		nextID:   1,
		clock:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repository *Repository) List(_ context.Context, reviewID int64, limit, offset int) ([]*comment.Comment, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*comment.Comment
	for _, stored := range repository.comments {
		if stored.ReviewID == reviewID {
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

func (repository *Repository) FindByID(_ context.Context, reviewID, id int64) (*comment.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.comments[id]
	if !ok || stored.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return &stored, nil
}

func (repository *Repository) Create(_ context.Context, created *comment.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.clock = repository.clock.Add(time.Minute)
	created.ID = repository.nextID
	created.Author = repository.authors[created.AuthorID]
	created.PubDate = repository.clock
	repository.nextID++

	repository.comments[created.ID] = *created
	return nil
}

func (repository *Repository) Update(_ context.Context, updated *comment.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.comments[updated.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Text = updated.Text
	repository.comments[updated.ID] = stored

	*updated = stored
	return nil
}

func (repository *Repository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, id)
	return nil
}
