// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// NewRepository constructs a PostgreSQL backed comment store.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var readColumns = fmt.Sprintf(`m.%s, m.%s, m.%s, m.%s, m.%s, COALESCE(a.%s, '')`,
	schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
	schema.SocialComment.Text, schema.SocialComment.PubDate,
	schema.UserAccount.Username)

var authorJoin = fmt.Sprintf(`JOIN %s a ON a.%s = m.%s`,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID)

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	comment := &Comment{}
	targets := append([]any{
		&comment.ID, &comment.ReviewID, &comment.AuthorID,
		&comment.Text, &comment.PubDate, &comment.Author,
	}, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns a review's comments ordered by publication date descending.
func (repository *PostgresRepository) List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	sql := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s m %s
		WHERE m.%s = $1
		ORDER BY m.%s DESC, m.%s DESC
		LIMIT $2 OFFSET $3`,
		readColumns, schema.SocialComment.Table, authorJoin,
		schema.SocialComment.ReviewID,
		schema.SocialComment.PubDate, schema.SocialComment.ID)

	rows, err := repository.db.Query(context, sql, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	var (
		comments []*Comment
		total    int
	)
	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_comments")
	}

	return comments, total, nil
}

// FindByID retrieves a comment of the given review.
func (repository *PostgresRepository) FindByID(context context.Context, reviewID, id int64) (*Comment, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s m %s WHERE m.%s = $1 AND m.%s = $2`,
		readColumns, schema.SocialComment.Table, authorJoin,
		schema.SocialComment.ID, schema.SocialComment.ReviewID)

	comment, err := scanComment(repository.db.QueryRow(context, sql, id, reviewID))
	if err != nil {
		return nil, dberr.NotFound(err, "Comment", "find_comment")
	}
	return comment, nil
}

// Create inserts a comment and reads it back with its author.
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	sql := fmt.Sprintf(`
		WITH m AS (
			INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
			RETURNING *
		)
		SELECT %s FROM m %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ReviewID, schema.SocialComment.AuthorID, schema.SocialComment.Text,
		readColumns, authorJoin)

	created, err := scanComment(repository.db.QueryRow(context, sql, comment.ReviewID, comment.AuthorID, comment.Text))
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	*comment = *created
	return nil
}

// Update rewrites the text of a comment.
func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	sql := fmt.Sprintf(`
		WITH m AS (
			UPDATE %s SET %s = $2 WHERE %s = $1
			RETURNING *
		)
		SELECT %s FROM m %s`,
		schema.SocialComment.Table,
		schema.SocialComment.Text, schema.SocialComment.ID,
		readColumns, authorJoin)

	updated, err := scanComment(repository.db.QueryRow(context, sql, comment.ID, comment.Text))
	if err != nil {
		return dberr.NotFound(err, "Comment", "update_comment")
	}

	*comment = *updated
	return nil
}

// Delete removes a comment.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Comment", "delete_comment")
	}
	return nil
}
