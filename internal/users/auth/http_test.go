// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/users/auth"
)

func post(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.RemoteAddr = "192.0.2.1:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_EmailThenToken walks the sign-up flow over HTTP.
*/
func TestHandler_EmailThenToken(t *testing.T) {
	h := newHarness(t, 0)
	router := auth.NewHandler(h.service, 0).Routes()

	recorder := post(router, "/email", `{"email":"reader@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"email":"reader@example.com","username":"reader"}`, recorder.Body.String())

	recorder = post(router, "/token", `{"email":"reader@example.com","confirmation_code":"`+h.mail.lastCode(t)+`"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.Len(t, body, 1)
}

/*
TestHandler_Validation reports missing fields by JSON name.
*/
func TestHandler_Validation(t *testing.T) {
	h := newHarness(t, 0)
	router := auth.NewHandler(h.service, 0).Routes()

	recorder := post(router, "/email", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"email"`)

	recorder = post(router, "/token", `{"email":"reader@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"confirmation_code"`)

	recorder = post(router, "/token", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_RateLimited caps requests per client.
*/
func TestHandler_RateLimited(t *testing.T) {
	h := newHarness(t, 0)
	router := auth.NewHandler(h.service, 1).Routes()

	assert.Equal(t, http.StatusOK, post(router, "/email", `{"email":"a@example.com"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "/email", `{"email":"b@example.com"}`).Code)
}
