// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

/*
TestCreated_WritesBareBody ensures resources are not wrapped in an envelope.
*/
func TestCreated_WritesBareBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Created(recorder, map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"token":"abc"}`, recorder.Body.String())
	assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")
}

/*
TestError_AppError renders the status, code and field details.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/v1/auth/token", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "email", Message: "required"}))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "email", body.Details[0].Field)
}

/*
TestError_UnknownErrorIsHidden maps plain errors to a generic 500.
*/
func TestError_UnknownErrorIsHidden(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/titles", nil)

	respond.Error(recorder, request, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
}

/*
TestPaginated renders the list shape.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/genres", nil)

	respond.Paginated(recorder, request, pagination.FromRequest(request), 1, []string{"drama"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"count":1,"next":null,"previous":null,"results":["drama"]}`, recorder.Body.String())
}

/*
TestMethodNotAllowed answers 405 in the error envelope.
*/
func TestMethodNotAllowed(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.MethodNotAllowed(recorder, httptest.NewRequest(http.MethodPut, "/v1/titles/1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "METHOD_NOT_ALLOWED")
}
