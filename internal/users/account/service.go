// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Inputs

// CreateInput carries the fields of a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      sec.UserRole
}

// UpdateInput carries a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.UserRole
}

// # Service Layer

// Service orchestrates the account rules shared by the admin and self-service endpoints.
type Service struct {
	repo Repository
}

// NewService constructs a new account [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

/*
List returns one page of accounts.

Parameters:
  - context: context.Context
  - search: string (username substring)
  - params: pagination.Params

Returns:
  - []*User: The page
  - int: Total matching accounts
  - error: Storage failures
*/
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*User, int, error) {
	return service.repo.List(context, search, params.Limit, params.Offset())
}

// Get retrieves an account by username.
func (service *Service) Get(context context.Context, username string) (*User, error) {
	return service.repo.FindByUsername(context, username)
}

/*
Create registers an account on behalf of an administrator.

Description: The email is normalized to lower case and the role defaults to
[sec.RoleUser].

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *User: The persisted account
  - error: Validation failures or unique violations
*/
func (service *Service) Create(context context.Context, input CreateInput) (*User, error) {
	user := &User{
		Username:  input.Username,
		Email:     normalizeEmail(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}
	if user.Role == "" {
		user.Role = sec.RoleUser
	}

	if err := validateProfile(user); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

/*
Update applies a partial update to the account identified by username.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateInput

Returns:
  - *User: The updated account
  - error: apperr.NotFound, validation failures or unique violations
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*User, error) {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

// Delete removes the account identified by username.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return err
	}
	return service.repo.Delete(context, user.ID)
}

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, principal *sec.Principal) (*User, error) {
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	return service.repo.FindByID(context, principal.UserID)
}

/*
UpdateMe applies a partial update to the caller's own account.

Description: Only callers allowed to assign roles may change their own role;
for everyone else the role field is read-only and silently ignored.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - input: UpdateInput

Returns:
  - *User: The updated account
  - error: Validation failures or unique violations
*/
func (service *Service) UpdateMe(context context.Context, principal *sec.Principal, input UpdateInput) (*User, error) {
	user, err := service.Me(context, principal)
	if err != nil {
		return nil, err
	}

	if !principal.CanAssignRoles() {
		input.Role = nil
	}
	return service.apply(context, user, input)
}

// ResolvePrincipal loads the current authorization state of an account.
func (service *Service) ResolvePrincipal(context context.Context, userID int64) (*sec.Principal, error) {
	user, err := service.repo.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}

// # Helpers

func (service *Service) apply(context context.Context, user *User, input UpdateInput) (*User, error) {
	pointer.Apply(&user.Username, input.Username)
	pointer.Apply(&user.FirstName, input.FirstName)
	pointer.Apply(&user.LastName, input.LastName)
	pointer.Apply(&user.Bio, input.Bio)
	pointer.Apply(&user.Role, input.Role)
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}

	if err := validateProfile(user); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

// validateProfile checks the rules payload tags cannot express.
func validateProfile(user *User) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, user.Username).
		Custom(FieldUsername, strings.EqualFold(user.Username, ReservedUsername),
			"Username \""+ReservedUsername+"\" is reserved").
		Required(FieldEmail, user.Email).
		Email(FieldEmail, user.Email).
		Custom(FieldRole, !user.Role.Valid(), "Must be one of: "+strings.Join(sec.RoleNames(), ", "))

	return validator.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
