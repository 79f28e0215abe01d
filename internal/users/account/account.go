// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages user accounts: the administrator CRUD under
/users and the self-service profile under /users/me.

# Architecture

  - Entity: User, the identity every review and comment is attributed to.
  - Repository: persistence contract implemented in store_postgres.go.
  - Service: profile rules (reserved usernames, role assignment).
  - Handler: chi routes guarded by permission sets.

The auth package reuses the Repository to sign users up by email.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// ReservedUsername cannot be taken because /users/me is a fixed route.
const ReservedUsername = "me"

// JSON field names used in validation details.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldRole     = "role"
)

// # Domain Entities

// User is a registered account.
//
// Field order matches the JSON representation.
type User struct {
	ID          int64        `json:"-"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Username    string       `json:"username"`
	Bio         string       `json:"bio"`
	Email       string       `json:"email"`
	Role        sec.UserRole `json:"role"`
	IsStaff     bool         `json:"-"`
	IsSuperuser bool         `json:"-"`
	LastLoginAt *time.Time   `json:"-"`
	DateJoined  time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// Principal returns the authorization view of the user.
func (user *User) Principal() *sec.Principal {
	return &sec.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

// CodeSubject returns the state a confirmation code is bound to.
func (user *User) CodeSubject() sec.CodeSubject {
	return sec.CodeSubject{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		LastLogin: user.LastLoginAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		List returns one page of users ordered by id.

		Parameters:
		  - context: context.Context
		  - search: string (case-insensitive username substring, empty for all)
		  - limit, offset: int

		Returns:
		  - []*User: The page
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, search string, limit, offset int) ([]*User, int, error)

	// FindByID returns apperr.NotFound when no account has the id.
	FindByID(context context.Context, id int64) (*User, error)

	// FindByUsername returns apperr.NotFound when no account has the username.
	FindByUsername(context context.Context, username string) (*User, error)

	// FindByEmail returns apperr.NotFound when no account has the email.
	FindByEmail(context context.Context, email string) (*User, error)

	// Create inserts user and fills ID, DateJoined and UpdatedAt.
	Create(context context.Context, user *User) error

	// Update persists the profile fields and refreshes UpdatedAt.
	Update(context context.Context, user *User) error

	// Delete removes the account with its reviews and comments.
	Delete(context context.Context, id int64) error

	/*
		GetOrCreateByEmail returns the account registered with email, creating
		it when missing. Concurrent calls for the same email yield the same row.

		Returns:
		  - *User: The account
		  - bool: true when this call created it
		  - error: Storage failures
	*/
	GetOrCreateByEmail(context context.Context, email string) (*User, bool, error)

	// AssignUsername sets the username of an account that has none yet and
	// returns the current row. Unique violations are returned unchanged.
	AssignUsername(context context.Context, id int64, username string) (*User, error)

	// RecordLogin stamps the last login time and returns the updated row.
	RecordLogin(context context.Context, id int64, at time.Time) (*User, error)
}
