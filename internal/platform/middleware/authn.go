// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// PrincipalResolver loads the current state of the account a token was issued for.
//
// It must return an error satisfying [apperr.IsNotFound] when the account is gone.
type PrincipalResolver interface {
	ResolvePrincipal(context context.Context, userID int64) (*sec.Principal, error)
}

/*
Authenticate extracts and verifies the bearer token from the Authorization header.

Flow:
 1. Without an Authorization header the request proceeds as anonymous.
 2. The header must read "Bearer <token>".
 3. The token signature, issuer and expiry are verified.
 4. The account is loaded so role changes and deletions apply immediately.
 5. The resulting [*sec.Principal] is injected into the request context.

Parameters:
  - verifier: TokenVerifier
  - resolver: PrincipalResolver

Returns:
  - func(http.Handler) http.Handler
*/
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// 1. Anonymous access
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Format validation
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization header"))
				return
			}

			// 3. Token verification
			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Given token not valid for any token type"))
				return
			}

			userID, err := strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Token contained no recognizable user identification"))
				return
			}

			// 4. Account lookup
			principal, err := resolver.ResolvePrincipal(request.Context(), userID)
			if err != nil {
				if apperr.IsNotFound(err) {
					respond.Error(writer, request, apperr.Unauthorized("User not found"))
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// 5. Context injection
			recordUser(request.Context(), principal.UserID)
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
