// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

/*
TestFromRequest_Clamping covers defaults and bounds.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", 1, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=5", 3, 5},
		{"garbage", "?page=x&limit=y", 1, pagination.DefaultLimit},
		{"negative", "?page=-2&limit=0", 1, pagination.DefaultLimit},
		{"too_large", "?limit=1000", 1, pagination.MaxLimit},
		{"huge_page", "?page=922337203685477581&limit=100", pagination.MaxPage, pagination.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/v1/titles"+tt.query, nil))
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

/*
TestNewPage_Links builds neighbour links that keep existing filters.
*/
func TestNewPage_Links(t *testing.T) {
	request := httptest.NewRequest("GET", "http://api.test/v1/titles?year=2000&page=2&limit=2", nil)
	params := pagination.FromRequest(request)

	page := pagination.NewPage(request, params, 5, []string{"c", "d"})

	assert.Equal(t, 5, page.Count)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Next, "page=3")
	assert.Contains(t, *page.Next, "year=2000")
	assert.Contains(t, *page.Previous, "page=1")
	assert.Equal(t, 2, params.Offset())
}

/*
TestNewPage_LastPage has no next link and never nil results.
*/
func TestNewPage_LastPage(t *testing.T) {
	request := httptest.NewRequest("GET", "/v1/genres", nil)

	page := pagination.NewPage[string](request, pagination.FromRequest(request), 0, nil)

	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

/*
TestFromRequest_OffsetNeverNegative keeps the offset positive for the largest page.
*/
func TestFromRequest_OffsetNeverNegative(t *testing.T) {
	params := pagination.FromRequest(httptest.NewRequest("GET", "/v1/titles?page=922337203685477581&limit=100", nil))

	assert.Positive(t, params.Offset())
	assert.LessOrEqual(t, params.Offset(), math.MaxInt32)

	page := pagination.NewPage(httptest.NewRequest("GET", "/v1/titles", nil), params, 3, []int{})
	assert.Nil(t, page.Next)
	assert.NotNil(t, page.Previous)
}
