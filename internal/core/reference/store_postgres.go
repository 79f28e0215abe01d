// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/query"
)

// PostgresRepository implements [Repository] over one lookup table.
type PostgresRepository struct {
	db       postgres.Querier
	table    schema.ReferenceTable
	resource string
}

// NewCategoryRepository returns the repository for core.category.
func NewCategoryRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db, table: schema.CoreCategory, resource: "Category"}
}

// NewGenreRepository returns the repository for core.genre.
func NewGenreRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db, table: schema.CoreGenre, resource: "Genre"}
}

/*
List returns one page of terms ordered by slug.

Parameters:
  - context: context.Context
  - search: string
  - limit, offset: int

Returns:
  - []*Term: The page
  - int: Total count
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Term, int, error) {
	var builder strings.Builder
	args := []any{}
	argID := 1

	builder.WriteString(fmt.Sprintf("SELECT %s, %s, %s, COUNT(*) OVER() AS total_count FROM %s WHERE 1=1",
		repository.table.ID, repository.table.Name, repository.table.Slug, repository.table.Table))

	if search != "" {
		builder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", repository.table.Name, argID))
		args = append(args, query.Contains(search))
		argID++
	}

	builder.WriteString(fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", repository.table.Slug, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_"+repository.table.Table)
	}
	defer rows.Close()

	var (
		terms []*Term
		total int
	)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_"+repository.table.Table)
		}
		terms = append(terms, term)
	}

	return terms, total, dberr.Wrap(rows.Err(), "iterate_"+repository.table.Table)
}

// Create inserts a term.
func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	sql := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		repository.table.Table, repository.table.Name, repository.table.Slug, repository.table.ID)

	err := repository.db.QueryRow(context, sql, term.Name, term.Slug).Scan(&term.ID)
	return dberr.Wrap(err, "create_"+repository.table.Table)
}

// DeleteBySlug removes a term. Titles of a deleted category keep a NULL category;
// a deleted genre is dropped from every title.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, repository.table.Table, repository.table.Slug)

	tag, err := repository.db.Exec(context, sql, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_"+repository.table.Table)
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, repository.resource, "delete_"+repository.table.Table)
	}
	return nil
}

// FindBySlugs resolves slugs in a single round trip.
func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Term, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	sql := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ANY($1)`,
		repository.table.ID, repository.table.Name, repository.table.Slug,
		repository.table.Table, repository.table.Slug)

	rows, err := repository.db.Query(context, sql, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "find_"+repository.table.Table)
	}

	terms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Term, error) {
		term := &Term{}
		return term, row.Scan(&term.ID, &term.Name, &term.Slug)
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_"+repository.table.Table)
	}
	return terms, nil
}
