// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title (Postgres) reads titles in a single round trip:

  - JSON Aggregation: genres are folded into a JSON array per row.
  - Scalar Sub-query: the rating is the average review score, NULL without reviews.
  - Window Function: COUNT(*) OVER() returns the total with the page.

Writes touch core.title and core.title_genre inside one transaction.
*/
package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/query"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository constructs a PostgreSQL backed title store.
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// readColumns selects the read shape of a title aliased as t, with its
// category aliased as c.
var readColumns = fmt.Sprintf(`
		t.%s, t.%s, t.%s, t.%s,
		(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
		c.%s, c.%s, c.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s tg ON tg.%s = g.%s
			WHERE tg.%s = t.%s
		), '[]') AS genres`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
	schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID, schema.CoreTitle.ID,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Slug,
	schema.CoreGenre.Table,
	schema.CoreTitleGenre.Table, schema.CoreTitleGenre.GenreID, schema.CoreGenre.ID,
	schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID,
)

// readFrom joins a title to its optional category.
var readFrom = fmt.Sprintf(`%s t LEFT JOIN %s c ON c.%s = t.%s`,
	schema.CoreTitle.Table, schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID)

// genreJSON decodes one element of the aggregated genres array.
type genreJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// titleScan holds the nullable columns of a read row.
type titleScan struct {
	title        Title
	categoryID   *int64
	categoryName *string
	categorySlug *string
	genres       []byte
}

func (scan *titleScan) targets() []any {
	return []any{
		&scan.title.ID, &scan.title.Name, &scan.title.Year, &scan.title.Description,
		&scan.title.Rating,
		&scan.categoryID, &scan.categoryName, &scan.categorySlug,
		&scan.genres,
	}
}

func (scan *titleScan) hydrate() (*Title, error) {
	title := scan.title

	if scan.categoryID != nil {
		title.Category = &reference.Term{ID: *scan.categoryID, Name: *scan.categoryName, Slug: *scan.categorySlug}
	}

	var genres []genreJSON
	if err := json.Unmarshal(scan.genres, &genres); err != nil {
		return nil, fmt.Errorf("unmarshal_title_genres_failed: %w", err)
	}
	title.Genre = make([]reference.Term, len(genres))
	for i, genre := range genres {
		title.Genre[i] = reference.Term{ID: genre.ID, Name: genre.Name, Slug: genre.Slug}
	}

	return &title, nil
}

/*
List returns a filtered page of titles ordered by id descending.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slug, name substring, exact year)
  - limit, offset: int

Returns:
  - []*Title: Hydrated titles
  - int: Total matching rows
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	var builder strings.Builder
	args := []any{}
	argID := 1

	builder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE 1=1", readColumns, readFrom))

	// Category slug
	if filter.Category != "" {
		builder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Genre slug
	if filter.Genre != "" {
		builder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.CoreTitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
			schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, argID))
		args = append(args, filter.Genre)
		argID++
	}

	// Name substring
	if filter.Name != "" {
		builder.WriteString(fmt.Sprintf(" AND t.%s ILIKE $%d", schema.CoreTitle.Name, argID))
		args = append(args, query.Contains(filter.Name))
		argID++
	}

	// Exact year
	if filter.Year != nil {
		builder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	builder.WriteString(fmt.Sprintf(" ORDER BY t.%s DESC LIMIT $%d OFFSET $%d", schema.CoreTitle.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	var (
		titles []*Title
		total  int
	)
	for rows.Next() {
		scan := &titleScan{}
		if err := rows.Scan(append(scan.targets(), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}

		title, err := scan.hydrate()
		if err != nil {
			return nil, 0, dberr.Wrap(err, "hydrate_title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_titles")
	}

	return titles, total, nil
}

// FindByID retrieves the read shape of one title.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE t.%s = $1", readColumns, readFrom, schema.CoreTitle.ID)

	scan := &titleScan{}
	if err := repository.db.QueryRow(context, sql, id).Scan(scan.targets()...); err != nil {
		return nil, dberr.NotFound(err, "Title", "find_title")
	}

	title, err := scan.hydrate()
	if err != nil {
		return nil, dberr.Wrap(err, "hydrate_title")
	}
	return title, nil
}

/*
Create inserts a title and links its genres atomically.

Parameters:
  - context: context.Context
  - record: *Record (ID is filled on success)

Returns:
  - error: Constraint violations or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		sql := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
			schema.CoreTitle.Table,
			schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
			schema.CoreTitle.ID)

		err := tx.QueryRow(context, sql, record.Name, record.Year, record.Description, record.CategoryID).Scan(&record.ID)
		if err != nil {
			return dberr.Wrap(err, "create_title")
		}

		return linkGenres(context, tx, record.ID, record.GenreIDs)
	})
}

/*
Update rewrites a title and replaces its genre links atomically.

Parameters:
  - context: context.Context
  - record: *Record

Returns:
  - error: apperr.NotFound, constraint violations or storage failures
*/
func (repository *PostgresRepository) Update(context context.Context, record *Record) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		sql := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
			schema.CoreTitle.Table,
			schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
			schema.CoreTitle.ID)

		tag, err := tx.Exec(context, sql, record.ID, record.Name, record.Year, record.Description, record.CategoryID)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return dberr.NotFound(pgx.ErrNoRows, "Title", "update_title")
		}

		unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID)
		if _, err := tx.Exec(context, unlink, record.ID); err != nil {
			return dberr.Wrap(err, "unlink_title_genres")
		}

		return linkGenres(context, tx, record.ID, record.GenreIDs)
	})
}

// Delete removes a title. Reviews and comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Title", "delete_title")
	}
	return nil
}

func linkGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	sql := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING`,
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID)

	if _, err := tx.Exec(context, sql, titleID, genreIDs); err != nil {
		return dberr.Wrap(err, "link_title_genres")
	}
	return nil
}
