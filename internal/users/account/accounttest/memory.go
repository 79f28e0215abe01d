// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package accounttest provides an in-memory [account.Repository] for tests
// of the packages that depend on accounts.
package accounttest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

// Repository keeps accounts in a map and enforces the same unique
// constraints as the users.account table.
type Repository struct {
	mu     sync.Mutex
	users  map[int64]*account.User
	nextID int64
	now    func() time.Time
}

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{
		users:  make(map[int64]*account.User),
		nextID: 1,
		now:    time.Now,
	}
}

// Seed inserts user as is and returns a copy with the assigned id.
func (repository *Repository) Seed(user account.User) *account.User {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if user.Role == "" {
		user.Role = sec.RoleUser
	}
	user.ID = repository.nextID
	repository.nextID++
	user.DateJoined = repository.now()
	user.UpdatedAt = user.DateJoined

	stored := user
	repository.users[user.ID] = &stored
	return clone(&stored)
}

func (repository *Repository) List(_ context.Context, search string, limit, offset int) ([]*account.User, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*account.User
	for _, user := range repository.users {
		if search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			matched = append(matched, clone(user))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (repository *Repository) FindByID(_ context.Context, id int64) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if user, ok := repository.users[id]; ok {
		return clone(user), nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *Repository) FindByUsername(_ context.Context, username string) (*account.User, error) {
	return repository.findBy(func(user *account.User) bool { return username != "" && user.Username == username })
}

func (repository *Repository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	return repository.findBy(func(user *account.User) bool { return user.Email == email })
}

func (repository *Repository) Create(_ context.Context, user *account.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.checkUnique(user); err != nil {
		return dberr.Wrap(err, "create_user")
	}

	user.ID = repository.nextID
	repository.nextID++
	user.DateJoined = repository.now()
	user.UpdatedAt = user.DateJoined

	repository.users[user.ID] = clone(user)
	return nil
}

func (repository *Repository) Update(_ context.Context, user *account.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := repository.checkUnique(user); err != nil {
		return dberr.Wrap(err, "update_user")
	}

	user.UpdatedAt = repository.tick(repository.users[user.ID].UpdatedAt)
	repository.users[user.ID] = clone(user)
	return nil
}

func (repository *Repository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.users, id)
	return nil
}

func (repository *Repository) GetOrCreateByEmail(_ context.Context, email string) (*account.User, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Email == email {
			return clone(user), false, nil
		}
	}

	now := repository.now()
	user := &account.User{
		ID:         repository.nextID,
		Email:      email,
		Role:       sec.RoleUser,
		DateJoined: now,
		UpdatedAt:  now,
	}
	repository.nextID++
	repository.users[user.ID] = user
	return clone(user), true, nil
}

func (repository *Repository) AssignUsername(_ context.Context, id int64, username string) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	if user.Username != "" {
		return clone(user), nil
	}
	if err := repository.checkUnique(&account.User{ID: id, Email: user.Email, Username: username}); err != nil {
		return nil, err
	}

	user.Username = username
	user.UpdatedAt = repository.tick(user.UpdatedAt)
	return clone(user), nil
}

func (repository *Repository) RecordLogin(_ context.Context, id int64, at time.Time) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.LastLoginAt = &at
	return clone(user), nil
}

func (repository *Repository) findBy(match func(*account.User) bool) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if match(user) {
			return clone(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

// checkUnique mirrors uq_account_email and uq_account_username.
func (repository *Repository) checkUnique(candidate *account.User) error {
	for _, user := range repository.users {
		if user.ID == candidate.ID {
			continue
		}
		if user.Email == candidate.Email {
			return uniqueViolation("uq_account_email")
		}
		if candidate.Username != "" && user.Username == candidate.Username {
			return uniqueViolation("uq_account_username")
		}
	}
	return nil
}

// tick returns a timestamp strictly after previous so state-bound codes change.
func (repository *Repository) tick(previous time.Time) time.Time {
	now := repository.now()
	if !now.After(previous) {
		now = previous.Add(time.Microsecond)
	}
	return now
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func clone(user *account.User) *account.User {
	copied := *user
	if user.LastLoginAt != nil {
		at := *user.LastLoginAt
		copied.LastLoginAt = &at
	}
	return &copied
}
