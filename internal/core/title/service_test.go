// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/reference/referencetest"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/core/title/titletest"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

type catalogue struct {
	service    *title.Service
	titles     *titletest.Repository
	categories *referencetest.Repository
	genres     *referencetest.Repository
}

func newCatalogue() *catalogue {
	categories := referencetest.NewRepository("category", "Category")
	categories.Seed(reference.Term{Name: "Books", Slug: "books"}, reference.Term{Name: "Films", Slug: "films"})

	genres := referencetest.NewRepository("genre", "Genre")
	genres.Seed(
		reference.Term{Name: "Drama", Slug: "drama"},
		reference.Term{Name: "Comedy", Slug: "comedy"},
		reference.Term{Name: "Horror", Slug: "horror"},
	)

	titles := titletest.NewRepository(categories, genres)
	service := title.NewService(titles, reference.NewService(categories), reference.NewService(genres))

	return &catalogue{service: service, titles: titles, categories: categories, genres: genres}
}

func detailFields(err error) []string {
	appErr := apperr.As(err)
	if appErr == nil {
		return nil
	}
	fields := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

/*
TestService_Create_ExpandsReferences returns the category and genres as terms.
*/
func TestService_Create_ExpandsReferences(t *testing.T) {
	fixture := newCatalogue()

	created, err := fixture.service.Create(context.Background(), title.CreateInput{
		Name:     "  The Trial ",
		Year:     1962,
		Category: "films",
		Genre:    []string{"drama", "comedy", "drama"},
	})
	require.NoError(t, err)

	assert.Equal(t, "The Trial", created.Name)
	require.NotNil(t, created.Category)
	assert.Equal(t, "films", created.Category.Slug)
	assert.Equal(t, []string{"comedy", "drama"}, []string{created.Genre[0].Slug, created.Genre[1].Slug})
	assert.Len(t, created.Genre, 2)
	assert.Nil(t, created.Rating)
}

/*
TestService_Create_GenreOptional stores an empty genre list when none is given.
*/
func TestService_Create_GenreOptional(t *testing.T) {
	fixture := newCatalogue()

	created, err := fixture.service.Create(context.Background(), title.CreateInput{Name: "Solaris", Year: 1972, Category: "books"})
	require.NoError(t, err)
	assert.NotNil(t, created.Genre)
	assert.Empty(t, created.Genre)
}

/*
TestService_Create_Validation reports each failing field.
*/
func TestService_Create_Validation(t *testing.T) {
	fixture := newCatalogue()

	cases := []struct {
		name  string
		input title.CreateInput
		field string
	}{
		{"blank name", title.CreateInput{Name: " ", Year: 2000, Category: "books"}, title.FieldName},
		{"future year", title.CreateInput{Name: "Soon", Year: 3000, Category: "books"}, title.FieldYear},
		{"ancient year", title.CreateInput{Name: "Old", Year: 1500, Category: "books"}, title.FieldYear},
		{"missing category", title.CreateInput{Name: "Lost", Year: 2000}, title.FieldCategory},
		{"unknown category", title.CreateInput{Name: "Lost", Year: 2000, Category: "games"}, title.FieldCategory},
		{"unknown genre", title.CreateInput{Name: "Lost", Year: 2000, Category: "books", Genre: []string{"drama", "jazz"}}, title.FieldGenre},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.service.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.Contains(t, detailFields(err), tc.field)
		})
	}
}

/*
TestService_Update_KeepsUnsetFields changes only the provided fields.
*/
func TestService_Update_KeepsUnsetFields(t *testing.T) {
	fixture := newCatalogue()

	created, err := fixture.service.Create(context.Background(), title.CreateInput{
		Name: "Stalker", Year: 1979, Description: "Zone", Category: "films", Genre: []string{"drama"},
	})
	require.NoError(t, err)

	updated, err := fixture.service.Update(context.Background(), created.ID, title.UpdateInput{
		Year: pointer.To(1980),
	})
	require.NoError(t, err)
	assert.Equal(t, "Stalker", updated.Name)
	assert.Equal(t, 1980, updated.Year)
	assert.Equal(t, "Zone", updated.Description)
	assert.Equal(t, "films", updated.Category.Slug)
	require.Len(t, updated.Genre, 1)
	assert.Equal(t, "drama", updated.Genre[0].Slug)

	updated, err = fixture.service.Update(context.Background(), created.ID, title.UpdateInput{
		Category: pointer.To("books"),
		Genre:    pointer.To([]string{"horror", "comedy"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "books", updated.Category.Slug)
	require.Len(t, updated.Genre, 2)
	assert.Equal(t, "comedy", updated.Genre[0].Slug)

	updated, err = fixture.service.Update(context.Background(), created.ID, title.UpdateInput{Genre: pointer.To([]string{})})
	require.NoError(t, err)
	assert.Empty(t, updated.Genre)
}

/*
TestService_Update_Errors covers unknown titles and invalid overlays.
*/
func TestService_Update_Errors(t *testing.T) {
	fixture := newCatalogue()

	_, err := fixture.service.Update(context.Background(), 99, title.UpdateInput{Name: pointer.To("x")})
	assert.True(t, apperr.IsNotFound(err))

	created, err := fixture.service.Create(context.Background(), title.CreateInput{Name: "Mirror", Year: 1975, Category: "films"})
	require.NoError(t, err)

	_, err = fixture.service.Update(context.Background(), created.ID, title.UpdateInput{Year: pointer.To(2999)})
	assert.Contains(t, detailFields(err), title.FieldYear)

	_, err = fixture.service.Update(context.Background(), created.ID, title.UpdateInput{Category: pointer.To("")})
	assert.Contains(t, detailFields(err), title.FieldCategory)
}

/*
TestService_List_Filters narrows by category, genre, name and year.
*/
func TestService_List_Filters(t *testing.T) {
	fixture := newCatalogue()
	ctx := context.Background()

	inputs := []title.CreateInput{
		{Name: "Dune", Year: 1965, Category: "books", Genre: []string{"drama"}},
		{Name: "Dune", Year: 2021, Category: "films", Genre: []string{"drama"}},
		{Name: "Airplane!", Year: 1980, Category: "films", Genre: []string{"comedy"}},
	}
	for _, input := range inputs {
		_, err := fixture.service.Create(ctx, input)
		require.NoError(t, err)
	}

	params := pagination.Params{Page: 1, Limit: 10}
	count := func(filter title.Filter) int {
		_, total, err := fixture.service.List(ctx, filter, params)
		require.NoError(t, err)
		return total
	}

	assert.Equal(t, 3, count(title.Filter{}))
	assert.Equal(t, 2, count(title.Filter{Category: "films"}))
	assert.Equal(t, 2, count(title.Filter{Genre: "drama"}))
	assert.Equal(t, 2, count(title.Filter{Name: "dun"}))
	assert.Equal(t, 1, count(title.Filter{Year: pointer.To(1980)}))
	assert.Equal(t, 1, count(title.Filter{Category: "films", Genre: "drama"}))

	page, _, err := fixture.service.List(ctx, title.Filter{}, params)
	require.NoError(t, err)
	assert.Equal(t, "Airplane!", page[0].Name, "newest first")
}

/*
TestService_Delete removes the title.
*/
func TestService_Delete(t *testing.T) {
	fixture := newCatalogue()

	created, err := fixture.service.Create(context.Background(), title.CreateInput{Name: "Ivan", Year: 1962, Category: "films"})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Delete(context.Background(), created.ID))
	_, err = fixture.service.Get(context.Background(), created.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(fixture.service.Delete(context.Background(), created.ID)))
}
