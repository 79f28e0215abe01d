// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/reference/referencetest"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

var (
	admin  = &sec.Principal{UserID: 1, Username: "boss", Role: sec.RoleAdmin}
	reader = &sec.Principal{UserID: 2, Username: "reader", Role: sec.RoleUser}
)

func newRouter() http.Handler {
	repo := referencetest.NewRepository("category", "Category")
	repo.Seed(reference.Term{Name: "Books", Slug: "books"}, reference.Term{Name: "Films", Slug: "films"})
	return reference.NewHandler(reference.NewService(repo)).Routes()
}

func call(router http.Handler, method, path, body string, principal *sec.Principal) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if principal != nil {
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Access lets anyone list and only administrators write.
*/
func TestHandler_Access(t *testing.T) {
	router := newRouter()

	assert.Equal(t, http.StatusOK, call(router, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(router, http.MethodPost, "/", `{"name":"Music","slug":"music"}`, nil).Code)
	assert.Equal(t, http.StatusForbidden, call(router, http.MethodPost, "/", `{"name":"Music","slug":"music"}`, reader).Code)
	assert.Equal(t, http.StatusForbidden, call(router, http.MethodDelete, "/books", "", reader).Code)
}

/*
TestHandler_CreateAndDelete manages terms as an administrator.
*/
func TestHandler_CreateAndDelete(t *testing.T) {
	router := newRouter()

	recorder := call(router, http.MethodPost, "/", `{"name":"Music","slug":"music"}`, admin)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"name":"Music","slug":"music"}`, recorder.Body.String())

	recorder = call(router, http.MethodPost, "/", `{"name":"Music again","slug":"music"}`, admin)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"slug"`)

	assert.Equal(t, http.StatusNoContent, call(router, http.MethodDelete, "/music", "", admin).Code)
	assert.Equal(t, http.StatusNotFound, call(router, http.MethodDelete, "/music", "", admin).Code)
}

/*
TestHandler_DetailMethods refuses retrieve and update on the detail URL.
*/
func TestHandler_DetailMethods(t *testing.T) {
	router := newRouter()

	assert.Equal(t, http.StatusMethodNotAllowed, call(router, http.MethodPut, "/books", `{"name":"x"}`, admin).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, call(router, http.MethodPatch, "/books", `{"name":"x"}`, admin).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, call(router, http.MethodGet, "/books", "", nil).Code)
}

/*
TestHandler_ListSearch filters by name and renders the page envelope.
*/
func TestHandler_ListSearch(t *testing.T) {
	router := newRouter()

	recorder := call(router, http.MethodGet, "/?search=fil", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"count":1,"next":null,"previous":null,"results":[{"name":"Films","slug":"films"}]}`, recorder.Body.String())
}
