// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/account/accounttest"
)

// # Fixtures

type fixture struct {
	router http.Handler
	repo   *accounttest.Repository
	admin  *account.User
	reader *account.User
}

func newFixture() *fixture {
	repo := accounttest.NewRepository()
	return &fixture{
		router: account.NewHandler(account.NewService(repo)).Routes(),
		repo:   repo,
		admin:  repo.Seed(account.User{Username: "boss", Email: "boss@example.com", Role: sec.RoleAdmin}),
		reader: repo.Seed(account.User{Username: "reader", Email: "reader@example.com", Bio: "hi"}),
	}
}

func (f *fixture) do(method, path, body string, as *account.User) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if as != nil {
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), as.Principal()))
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// # Self Service

/*
TestHandler_Me returns the caller's profile with the six public fields.
*/
func TestHandler_Me(t *testing.T) {
	f := newFixture()

	recorder := f.do(http.MethodGet, "/me", "", f.reader)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "reader", body["username"])
	assert.Equal(t, "user", body["role"])
	assert.Len(t, body, 6)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", "", nil).Code)
}

/*
TestHandler_UpdateMe ignores a role change from a regular user.
*/
func TestHandler_UpdateMe(t *testing.T) {
	f := newFixture()

	recorder := f.do(http.MethodPatch, "/me", `{"role":"admin","first_name":"Ann"}`, f.reader)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, "Ann", body["first_name"])
}

// # Administration

/*
TestHandler_AdminOnly denies anonymous and regular callers.
*/
func TestHandler_AdminOnly(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/", "", f.reader).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/boss", "", f.reader).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/", "", f.admin).Code)
}

/*
TestHandler_PutNotAllowed answers 405 even to administrators.
*/
func TestHandler_PutNotAllowed(t *testing.T) {
	f := newFixture()

	recorder := f.do(http.MethodPut, "/reader", `{"username":"x","email":"x@example.com"}`, f.admin)
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

/*
TestHandler_CreateAndGet creates an account and retrieves it by username.
*/
func TestHandler_CreateAndGet(t *testing.T) {
	f := newFixture()

	recorder := f.do(http.MethodPost, "/", `{"username":"newbie","email":"New@Example.com","role":"moderator"}`, f.admin)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "new@example.com", decode(t, recorder)["email"])

	recorder = f.do(http.MethodGet, "/newbie", "", f.admin)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "moderator", decode(t, recorder)["role"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/ghost", "", f.admin).Code)
}

/*
TestHandler_Create_Validation reports payload errors by JSON field name.
*/
func TestHandler_Create_Validation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing username", `{"email":"a@example.com"}`, "username"},
		{"bad characters", `{"username":"a b","email":"a@example.com"}`, "username"},
		{"bad email", `{"username":"ann","email":"nope"}`, "email"},
		{"unknown role", `{"username":"ann","email":"a@example.com","role":"root"}`, "role"},
		{"reserved", `{"username":"me","email":"a@example.com"}`, "username"},
		{"taken", `{"username":"reader","email":"a@example.com"}`, "username"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := f.do(http.MethodPost, "/", tc.body, f.admin)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"field":"`+tc.field+`"`)
		})
	}
}

/*
TestHandler_Delete removes an account.
*/
func TestHandler_Delete(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/reader", "", f.admin).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/reader", "", f.admin).Code)
}

/*
TestHandler_List paginates with the shared envelope.
*/
func TestHandler_List(t *testing.T) {
	f := newFixture()

	recorder := f.do(http.MethodGet, "/?limit=1", "", f.admin)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.EqualValues(t, 2, body["count"])
	assert.NotNil(t, body["next"])
	assert.Nil(t, body["previous"])
	assert.Len(t, body["results"], 1)
}
