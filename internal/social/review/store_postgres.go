// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository constructs a PostgreSQL backed review store.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// readColumns selects a review aliased as r with its author's username.
var readColumns = fmt.Sprintf(`r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, COALESCE(a.%s, '')`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
	schema.UserAccount.Username)

// authorJoin attaches the author account to rows aliased as r.
var authorJoin = fmt.Sprintf(`JOIN %s a ON a.%s = r.%s`,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID)

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	targets := append([]any{
		&review.ID, &review.TitleID, &review.AuthorID,
		&review.Text, &review.Score, &review.PubDate, &review.Author,
	}, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns a title's reviews ordered by publication date descending.
func (repository *PostgresRepository) List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	sql := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s r %s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		readColumns, schema.SocialReview.Table, authorJoin,
		schema.SocialReview.TitleID,
		schema.SocialReview.PubDate, schema.SocialReview.ID)

	rows, err := repository.db.Query(context, sql, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	var (
		reviews []*Review
		total   int
	)
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_reviews")
	}

	return reviews, total, nil
}

// FindByID retrieves a review of the given title.
func (repository *PostgresRepository) FindByID(context context.Context, titleID, id int64) (*Review, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s r %s WHERE r.%s = $1 AND r.%s = $2`,
		readColumns, schema.SocialReview.Table, authorJoin,
		schema.SocialReview.ID, schema.SocialReview.TitleID)

	review, err := scanReview(repository.db.QueryRow(context, sql, id, titleID))
	if err != nil {
		return nil, dberr.NotFound(err, "Review", "find_review")
	}
	return review, nil
}

/*
Create inserts a review and reads it back with its author in one statement.

Parameters:
  - context: context.Context
  - review: *Review (TitleID, AuthorID, Text and Score set)

Returns:
  - error: The raw unique violation for a second review, other failures wrapped
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	sql := fmt.Sprintf(`
		WITH r AS (
			INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT %s FROM r %s`,
		schema.SocialReview.Table,
		schema.SocialReview.TitleID, schema.SocialReview.AuthorID, schema.SocialReview.Text, schema.SocialReview.Score,
		readColumns, authorJoin)

	created, err := scanReview(repository.db.QueryRow(context, sql, review.TitleID, review.AuthorID, review.Text, review.Score))
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UniqueAuthorTitle) {
			return err
		}
		return dberr.Wrap(err, "create_review")
	}

	*review = *created
	return nil
}

// Update rewrites the text and score of a review.
func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	sql := fmt.Sprintf(`
		WITH r AS (
			UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1
			RETURNING *
		)
		SELECT %s FROM r %s`,
		schema.SocialReview.Table,
		schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.ID,
		readColumns, authorJoin)

	updated, err := scanReview(repository.db.QueryRow(context, sql, review.ID, review.Text, review.Score))
	if err != nil {
		return dberr.NotFound(err, "Review", "update_review")
	}

	*review = *updated
	return nil
}

// Delete removes a review. Comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Review", "delete_review")
	}
	return nil
}
