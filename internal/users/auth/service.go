// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/account"
)

const (
	// maxUsernameLen matches the username column.
	maxUsernameLen = 150

	// fallbackUsername is used when the email local part has no usable characters.
	fallbackUsername = "user"

	confirmationMailBody = "Confirmation code for your account: %s"
)

// usernameStrip removes characters a username may not contain.
var usernameStrip = regexp.MustCompile(`[^\w.@+-]`)

// # Service Layer

// Service orchestrates confirmation codes and access tokens.
type Service struct {
	accounts account.Repository
	signer   CodeSigner
	tokens   TokenIssuer
	mailer   mail.Sender
	cooldown Cooldown
	tokenTTL time.Duration
	now      func() time.Time
}

/*
NewService constructs the authentication [Service].

Parameters:
  - accounts: account.Repository
  - signer: CodeSigner
  - tokens: TokenIssuer
  - mailer: mail.Sender
  - cooldown: Cooldown (per-email resend throttle)
  - tokenTTL: time.Duration (access token lifetime)

Returns:
  - *Service
*/
func NewService(
	accounts account.Repository,
	signer CodeSigner,
	tokens TokenIssuer,
	mailer mail.Sender,
	cooldown Cooldown,
	tokenTTL time.Duration,
) *Service {
	if tokenTTL <= 0 {
		tokenTTL = constants.DefaultAccessTokenTTL
	}
	return &Service{
		accounts: accounts,
		signer:   signer,
		tokens:   tokens,
		mailer:   mailer,
		cooldown: cooldown,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for login stamps. Intended for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

/*
RequestCode mails a confirmation code to email, registering the account on first use.

Description: Calls for the same email within the resend interval are rejected
with 429. Accounts created here get their username from the email local part.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *CodeRequest: The email and username of the account
  - error: Validation, throttling, storage or mail failures
*/
func (service *Service) RequestCode(context context.Context, email string) (*CodeRequest, error) {
	email = normalizeEmail(email)

	// 1. Validate the address
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email).MaxLen(FieldEmail, email, 254)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Throttle resends
	if err := service.acquireCooldown(context, email); err != nil {
		return nil, err
	}

	// 3. Fetch or register the account
	user, created, err := service.accounts.GetOrCreateByEmail(context, email)
	if err != nil {
		service.releaseCooldown(context, email)
		return nil, err
	}

	if user.Username == "" {
		user, err = service.assignUsername(context, user)
		if err != nil {
			service.releaseCooldown(context, email)
			return nil, err
		}
	}

	// 4. Sign and deliver the code
	code := service.signer.Make(user.CodeSubject())

	err = service.mailer.Send(context, mail.Message{
		To:      user.Email,
		Subject: constants.ConfirmationMailSubject,
		Body:    fmt.Sprintf(confirmationMailBody, code),
	})
	if err != nil {
		service.releaseCooldown(context, email)
		return nil, apperr.ServiceUnavailable("Unable to send the confirmation code", err)
	}

	metrics.ConfirmationCodesTotal.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "confirmation_code_sent",
		slog.Int64("user_id", user.ID),
		slog.Bool("created", created),
	)

	return &CodeRequest{Email: user.Email, Username: user.Username}, nil
}

/*
IssueToken exchanges a confirmation code for an access token.

Description: A successful exchange records the login, which changes the
account state and so consumes the code.

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - *AccessToken: Signed JWT
  - error: "Unverified email", "Invalid confirmation code" or storage failures
*/
func (service *Service) IssueToken(context context.Context, email, code string) (*AccessToken, error) {
	email = normalizeEmail(email)

	// 1. Validate input shape
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Required(FieldConfirmationCode, code).
		MaxLen(FieldConfirmationCode, code, constants.ConfirmationCodeMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Resolve the account
	user, err := service.accounts.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ValidationError("Unverified email").WithField(FieldEmail)
		}
		return nil, err
	}

	// 3. Verify the code against the current account state
	if !service.signer.Check(user.CodeSubject(), code) {
		return nil, apperr.ValidationError("Invalid confirmation code").WithField(FieldConfirmationCode)
	}

	// 4. Consume the code
	user, err = service.accounts.RecordLogin(context, user.ID, service.now().UTC())
	if err != nil {
		return nil, err
	}

	// 5. Sign the access token
	token, err := service.tokens.GenerateAccessToken(
		strconv.FormatInt(user.ID, 10), user.Username, string(user.Role), service.tokenTTL,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generate_access_token_failed: %w", err))
	}

	metrics.AccessTokensTotal.Inc()
	return &AccessToken{Token: token}, nil
}

// # Helpers

// assignUsername derives a username from the email local part, falling back
// to "<local>-<id>" when the local part is reserved or already taken.
func (service *Service) assignUsername(context context.Context, user *account.User) (*account.User, error) {
	local := usernameFromEmail(user.Email)
	suffixed := withSuffix(local, strconv.FormatInt(user.ID, 10))

	candidate := local
	if strings.EqualFold(local, account.ReservedUsername) {
		candidate = suffixed
	}

	assigned, err := service.accounts.AssignUsername(context, user.ID, candidate)
	if candidate != suffixed && dberr.IsUniqueViolation(err, "") {
		assigned, err = service.accounts.AssignUsername(context, user.ID, suffixed)
	}

	switch {
	case err == nil:
		return assigned, nil
	case apperr.IsAppError(err):
		return nil, err
	default:
		return nil, dberr.Wrap(err, "assign_username")
	}
}

func (service *Service) acquireCooldown(context context.Context, email string) error {
	acquired, remaining, err := service.cooldown.Acquire(context, email)
	if err != nil {
		// A Redis outage disables throttling.
		ctxutil.GetLogger(context).WarnContext(context, "code_cooldown_unavailable", slog.Any("error", err))
		return nil
	}
	if !acquired {
		return apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
	}
	return nil
}

func (service *Service) releaseCooldown(context context.Context, email string) {
	if err := service.cooldown.Release(context, email); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "code_cooldown_release_failed", slog.Any("error", err))
	}
}

// usernameFromEmail returns the sanitized local part of email.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = usernameStrip.ReplaceAllString(local, "")
	if local == "" {
		return fallbackUsername
	}
	return truncate(local, maxUsernameLen)
}

// withSuffix appends "-suffix" while keeping the result within the column size.
func withSuffix(base, suffix string) string {
	return truncate(base, maxUsernameLen-len(suffix)-1) + "-" + suffix
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
