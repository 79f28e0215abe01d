// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements passwordless sign-up and sign-in.

# Flow

  - POST /auth/email: the account for the email is fetched or created and a
    confirmation code is mailed to it.
  - POST /auth/token: the email and code are exchanged for an access token.

Codes are stateless: they are an HMAC over the account state, so any change
to the account (including the login recorded by a successful exchange)
invalidates them.
*/
package auth

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// JSON field names used in validation details.
const (
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
)

// # Collaborators

// Cooldown throttles repeated code requests for the same email.
type Cooldown interface {
	Acquire(context context.Context, key string) (bool, time.Duration, error)
	Release(context context.Context, key string) error
}

// CodeSigner issues and verifies confirmation codes.
type CodeSigner interface {
	Make(subject sec.CodeSubject) string
	Check(subject sec.CodeSubject, code string) bool
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// # Results

// CodeRequest acknowledges a mailed confirmation code.
type CodeRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// AccessToken is the body returned by the token endpoint.
type AccessToken struct {
	Token string `json:"token"`
}
