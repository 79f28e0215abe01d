// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/api"
	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/reference/referencetest"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/core/title/titletest"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/comment/commenttest"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/social/review/reviewtest"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/account/accounttest"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # Fakes

type outbox struct {
	mu   sync.Mutex
	last mail.Message
}

func (box *outbox) Send(_ context.Context, message mail.Message) error {
	box.mu.Lock()
	defer box.mu.Unlock()
	box.last = message
	return nil
}

func (box *outbox) code() string {
	box.mu.Lock()
	defer box.mu.Unlock()
	_, code, _ := strings.Cut(box.last.Body, ": ")
	return code
}

type openCooldown struct{}

func (openCooldown) Acquire(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }
func (openCooldown) Release(context.Context, string) error                        { return nil }

// # Fixture

func newSecurity(t *testing.T) (*sec.TokenService, *sec.CodeSigner) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := sec.NewCodeSigner("test-secret", 0)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer), signer
}

type stack struct {
	handler http.Handler
	mail    *outbox
	tokens  *sec.TokenService
}

// newStack assembles the full router over in-memory stores. Account 1 is
// the administrator "boss"; the next registration becomes account 2.
func newStack(t *testing.T) *stack {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens, signer := newSecurity(t)

	accounts := accounttest.NewRepository()
	accounts.Seed(account.User{Email: "boss@example.com", Username: "boss", Role: sec.RoleAdmin})
	accountService := account.NewService(accounts)

	box := &outbox{}
	authService := auth.NewService(accounts, signer, tokens, box, openCooldown{}, time.Hour)

	categories := referencetest.NewRepository("category", "Category")
	genres := referencetest.NewRepository("genre", "Genre")
	categoryService := reference.NewService(categories)
	genreService := reference.NewService(genres)

	titleService := title.NewService(titletest.NewRepository(categories, genres), categoryService, genreService)

	authors := map[int64]string{1: "boss", 2: "reader"}
	reviewService := review.NewService(reviewtest.NewRepository(authors), titleService)
	commentService := comment.NewService(commenttest.NewRepository(authors), reviewService)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("redis: connection refused") },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	cfg := &config.Config{ServerPort: "0", Environment: "test", RateLimitRPS: 1000, RateLimitBurst: 1000}
	server := api.NewServer(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		api.Identity{Verifier: tokens, Resolver: accountService},
		api.Handlers{
			Liveness:   liveness,
			Readiness:  readiness,
			Auth:       auth.NewHandler(authService, 0),
			Users:      account.NewHandler(accountService),
			Categories: reference.NewHandler(categoryService),
			Genres:     reference.NewHandler(genreService),
			Titles:     title.NewHandler(titleService),
			Reviews:    review.NewHandler(reviewService),
			Comments:   comment.NewHandler(commentService),
		})

	return &stack{handler: server.Handler(), mail: box, tokens: tokens}
}

func (s *stack) call(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func (s *stack) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.tokens.GenerateAccessToken("1", "boss", string(sec.RoleAdmin), time.Hour)
	require.NoError(t, err)
	return token
}

// # Flows

/*
TestServer_SignUpAndReview walks from a confirmation code to a comment on a review.
*/
func TestServer_SignUpAndReview(t *testing.T) {
	s := newStack(t)
	admin := s.adminToken(t)

	// 1. Register by email and exchange the code for a token
	recorder := s.call(t, http.MethodPost, "/v1/auth/email/", `{"email":"reader@example.com"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"email":"reader@example.com","username":"reader"}`, recorder.Body.String())

	recorder = s.call(t, http.MethodPost, "/v1/auth/token/",
		`{"email":"reader@example.com","confirmation_code":"`+s.mail.code()+`"}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code)

	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &issued))
	require.NotEmpty(t, issued.Token)

	recorder = s.call(t, http.MethodGet, "/v1/users/me/", "", issued.Token)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"reader"`)

	// 2. The administrator builds the catalogue
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/v1/categories/", `{"name":"Films","slug":"films"}`, admin).Code)
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/v1/genres/", `{"name":"Drama"}`, admin).Code)
	require.Equal(t, http.StatusForbidden, s.call(t, http.MethodPost, "/v1/genres/", `{"name":"Noir"}`, issued.Token).Code)

	recorder = s.call(t, http.MethodPost, "/v1/titles/", `{"name":"Stalker","year":1979,"category":"films","genre":["drama"]}`, admin)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// 3. The reader reviews the title once
	recorder = s.call(t, http.MethodPost, "/v1/titles/1/reviews/", `{"text":"Hypnotic","score":9}`, issued.Token)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"author":"reader"`)

	recorder = s.call(t, http.MethodPost, "/v1/titles/1/reviews/", `{"text":"Again"}`, issued.Token)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = s.call(t, http.MethodPatch, "/v1/titles/1/reviews/1/", `{"score":10}`, issued.Token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 4. Others discuss it
	recorder = s.call(t, http.MethodPost, "/v1/titles/1/reviews/1/comments/", `{"text":"Agreed"}`, admin)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"author":"boss"`)

	recorder = s.call(t, http.MethodGet, "/v1/titles/1/reviews/1/comments", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"count":1`)

	// 5. The title itself is still served by the title router
	recorder = s.call(t, http.MethodGet, "/v1/titles/1", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"name":"Stalker"`)
}

/*
TestServer_PutIsNotAllowed answers 405 to PUT on every resource.
*/
func TestServer_PutIsNotAllowed(t *testing.T) {
	s := newStack(t)
	admin := s.adminToken(t)

	for _, path := range []string{
		"/v1/users/boss/",
		"/v1/categories/films/",
		"/v1/genres/drama/",
		"/v1/titles/1/",
		"/v1/titles/1/reviews/1/",
		"/v1/titles/1/reviews/1/comments/1/",
	} {
		assert.Equal(t, http.StatusMethodNotAllowed, s.call(t, http.MethodPut, path, `{}`, admin).Code, path)
	}
}

/*
TestServer_Infrastructure covers the probes, metrics and unknown routes.
*/
func TestServer_Infrastructure(t *testing.T) {
	s := newStack(t)

	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health", "", "").Code)

	recorder := s.call(t, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)

	recorder = s.call(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "yamdb_")

	recorder = s.call(t, http.MethodGet, "/v1/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"NOT_FOUND"`)

	recorder = s.call(t, http.MethodGet, "/v1/users/me", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}
