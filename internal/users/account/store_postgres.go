// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users.account: identity, profile and authorization flags.

An empty username is stored as NULL so the unique constraint only applies to
accounts that picked one.
*/
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/query"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository creates a new Postgres implementation for account management.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// userColumns is the select list matching [scanUser].
var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// scanUser hydrates a [User] from a row selected with [userColumns].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var username *string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&username,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.LastLoginAt,
		&user.DateJoined,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if username != nil {
		user.Username = *username
	}
	return user, nil
}

/*
List returns one page of accounts ordered by id.

Parameters:
  - context: context.Context
  - search: string (username substring, empty for all)
  - limit, offset: int

Returns:
  - []*User: The page
  - int: Total matching rows
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*User, int, error) {
	var builder strings.Builder
	args := []any{}
	argID := 1

	builder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE 1=1",
		userColumns, schema.UserAccount.Table))

	if search != "" {
		builder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.UserAccount.Username, argID))
		args = append(args, query.Contains(search))
		argID++
	}

	builder.WriteString(fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", schema.UserAccount.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var (
		users []*User
		total int
	)
	for rows.Next() {
		user := &User{}
		var username *string
		if err := rows.Scan(
			&user.ID, &user.Email, &username, &user.FirstName, &user.LastName, &user.Bio,
			&user.Role, &user.IsStaff, &user.IsSuperuser, &user.LastLoginAt, &user.DateJoined,
			&user.UpdatedAt, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		if username != nil {
			user.Username = *username
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_users")
	}

	return users, total, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id)
}

// FindByUsername retrieves an account by its exact username.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username)
}

// FindByEmail retrieves an account by its normalized email.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Email, email)
}

func (repository *PostgresRepository) findOne(context context.Context, column string, value any) (*User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, schema.UserAccount.Table, column)

	user, err := scanUser(repository.db.QueryRow(context, sql, value))
	if err != nil {
		return nil, dberr.NotFound(err, "User", "find_user_by_"+column)
	}
	return user, nil
}

/*
Create inserts a new account.

Description: The database assigns id, datejoined and updatedat; they are
copied back into user.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Unique violations on email or username, storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Username, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.IsStaff, schema.UserAccount.IsSuperuser,
		schema.UserAccount.ID, schema.UserAccount.DateJoined, schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, sql,
		user.Email, user.Username, user.FirstName, user.LastName, user.Bio,
		user.Role, user.IsStaff, user.IsSuperuser,
	).Scan(&user.ID, &user.DateJoined, &user.UpdatedAt)

	return dberr.Wrap(err, "create_user")
}

/*
Update persists every mutable field of user and refreshes updatedat.

Parameters:
  - context: context.Context
  - user: *User (hydrated entity with changes)

Returns:
  - error: apperr.NotFound, unique violations or storage failures
*/
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NULLIF($3, ''), %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Username, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.IsStaff, schema.UserAccount.IsSuperuser, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, sql,
		user.ID, user.Email, user.Username, user.FirstName, user.LastName, user.Bio,
		user.Role, user.IsStaff, user.IsSuperuser,
	).Scan(&user.UpdatedAt)

	return dberr.NotFound(err, "User", "update_user")
}

// Delete removes an account. Reviews and comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "User", "delete_user")
	}
	return nil
}

/*
GetOrCreateByEmail returns the account for email, inserting it when missing.

Description: ON CONFLICT DO NOTHING makes the insert idempotent; when another
request won the race the row is read back instead.

Returns:
  - *User: The account
  - bool: true when this call inserted the row
  - error: Storage failures
*/
func (repository *PostgresRepository) GetOrCreateByEmail(context context.Context, email string) (*User, bool, error) {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1)
		ON CONFLICT (%s) DO NOTHING
		RETURNING %s`,
		schema.UserAccount.Table, schema.UserAccount.Email,
		schema.UserAccount.Email,
		userColumns,
	)

	user, err := scanUser(repository.db.QueryRow(context, sql, email))
	if err == nil {
		return user, true, nil
	}
	if !isNoRows(err) {
		return nil, false, dberr.Wrap(err, "insert_user_by_email")
	}

	user, err = repository.FindByEmail(context, email)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// AssignUsername sets the username only while it is still NULL.
func (repository *PostgresRepository) AssignUsername(context context.Context, id int64, username string) (*User, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username,
		userColumns,
	)

	user, err := scanUser(repository.db.QueryRow(context, sql, id, username))
	if err == nil {
		return user, nil
	}
	if !isNoRows(err) {
		// Unique violations stay raw so the caller can pick another name.
		return nil, err
	}

	// Someone else assigned it first.
	return repository.FindByID(context, id)
}

// RecordLogin stamps lastloginat, which also invalidates outstanding confirmation codes.
func (repository *PostgresRepository) RecordLogin(context context.Context, id int64, at time.Time) (*User, error) {
	sql := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID, userColumns)

	user, err := scanUser(repository.db.QueryRow(context, sql, id, at))
	if err != nil {
		return nil, dberr.NotFound(err, "User", "record_login")
	}
	return user, nil
}

func isNoRows(err error) bool {
	return err == pgx.ErrNoRows
}
