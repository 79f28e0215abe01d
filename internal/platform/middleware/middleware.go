// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware wraps the API router with the per-request chain.

Order matters. The chain assembled by the server is:

  - ProxyHeaders: client address from proxy headers, when trusted.
  - RequestID: correlation id in the context and the X-Request-ID header.
  - StructuredLogger: one access log line per request.
  - RateLimit: token bucket per client address.
  - PanicRecovery: a panic becomes a 500 error envelope.
  - CORS: preflight answers for the configured origins.
  - Authenticate: bearer token to principal (see authn.go).
*/
package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"golang.org/x/time/rate"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// maxRequestIDLen caps client supplied correlation IDs.
const maxRequestIDLen = 128

// # Correlation

// RequestID reuses the caller's X-Request-ID when it is sane and mints one otherwise.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := request.Header.Get(constants.HeaderXRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, id)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), id)))
		})
	}
}

// # Access Log

// accessWriter remembers what was sent back to the client.
type accessWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (access *accessWriter) WriteHeader(status int) {
	access.status = status
	access.ResponseWriter.WriteHeader(status)
}

func (access *accessWriter) Write(body []byte) (int, error) {
	written, err := access.ResponseWriter.Write(body)
	access.bytes += written
	return written, err
}

// accessEntry collects what later middleware learns about the request.
type accessEntry struct {
	userID int64
}

type accessEntryKey struct{}

// recordUser notes the authenticated account on the pending access log line.
func recordUser(ctx context.Context, userID int64) {
	if entry, ok := ctx.Value(accessEntryKey{}).(*accessEntry); ok {
		entry.userID = userID
	}
}

/*
StructuredLogger emits "http_request_finished" once the handler returns.

Description: Handlers receive a logger carrying the request id, method, path
and client address through [ctxutil.GetLogger]. The level follows the status:
info below 400, warn for client errors, error for server errors.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			scoped := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			entry := &accessEntry{}
			ctx := context.WithValue(ctxutil.WithLogger(request.Context(), scoped), accessEntryKey{}, entry)
			access := &accessWriter{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(access, request.WithContext(ctx))

			attrs := []slog.Attr{
				slog.Int("status", access.status),
				slog.Int("bytes", access.bytes),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if entry.userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", entry.userID))
			}
			scoped.LogAttrs(ctx, levelFor(access.status), "http_request_finished", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

// visitors keeps one token bucket per client address.
type visitors struct {
	mu     sync.Mutex
	byAddr map[string]*visitor
	limit  rate.Limit
	burst  int
}

func (table *visitors) allow(addr string, now time.Time) bool {
	table.mu.Lock()
	defer table.mu.Unlock()

	entry, ok := table.byAddr[addr]
	if !ok {
		entry = &visitor{bucket: rate.NewLimiter(table.limit, table.burst)}
		table.byAddr[addr] = entry
	}
	entry.seen = now
	return entry.bucket.AllowN(now, 1)
}

// forget drops buckets idle since before cutoff.
func (table *visitors) forget(cutoff time.Time) {
	table.mu.Lock()
	defer table.mu.Unlock()

	for addr, entry := range table.byAddr {
		if entry.seen.Before(cutoff) {
			delete(table.byAddr, addr)
		}
	}
}

func (table *visitors) janitor(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			table.forget(now.Add(-constants.RateLimitClientTTL))
		}
	}
}

/*
RateLimit throttles each client address with a token bucket.

Description: Rejected requests get 429 with a Retry-After of one refill
period. Idle buckets are collected until ctx is cancelled.

Parameters:
  - ctx: context.Context (stops the janitor)
  - requestsPerSecond: float64 (non-positive uses the default)
  - burst: int (non-positive uses the default)
*/
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		requestsPerSecond = constants.DefaultRateLimitRPS
	}
	if burst <= 0 {
		burst = constants.DefaultRateLimitBurst
	}

	table := &visitors{byAddr: map[string]*visitor{}, limit: rate.Limit(requestsPerSecond), burst: burst}
	go table.janitor(ctx)

	retryAfter := int(math.Ceil(1 / requestsPerSecond))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !table.allow(RealIP(request), time.Now()) {
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// StrictRateLimit caps a sensitive route group at limit requests per window and client IP.
func StrictRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	retryAfter := int(window.Seconds())

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			respond.Error(writer, request, apperr.RateLimited(retryAfter))
		}),
	)
}

// # Recovery

// PanicRecovery logs the panic with its stack and answers with a bare 500.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(writer, request, apperr.Internal(nil))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// CORS answers preflight requests and decorates responses for the given origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", constants.HeaderAuthorization, constants.HeaderXRequestID},
		ExposedHeaders: []string{constants.HeaderXRequestID, constants.HeaderRetryAfter},
		MaxAge:         300,
	})
}

// # Client Address

/*
ProxyHeaders decides where the client address comes from.

Description: When trust is set, chi's RealIP replaces RemoteAddr with
True-Client-IP, X-Real-IP or the first X-Forwarded-For hop. Otherwise the
headers are ignored, so a caller cannot pick its own rate limit bucket.
*/
func ProxyHeaders(trust bool) func(http.Handler) http.Handler {
	if trust {
		return chimw.RealIP
	}
	return func(next http.Handler) http.Handler { return next }
}

// RealIP returns the client address as settled by [ProxyHeaders].
func RealIP(request *http.Request) string {
	if host, _, err := net.SplitHostPort(request.RemoteAddr); err == nil {
		return host
	}
	return request.RemoteAddr
}
