// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// codeKeyInfo scopes the derived key so SECRET_KEY can seed other signers later.
const codeKeyInfo = "yamdb/confirmation-code/v1"

// codeMACBytes is how much of the HMAC digest ends up in the code.
const codeMACBytes = 16

// CodeSubject is the account state a confirmation code is bound to.
//
// Any change to these fields (a login, a role change, a profile edit) makes
// every previously issued code invalid.
type CodeSubject struct {
	UserID    int64
	Email     string
	Role      string
	LastLogin *time.Time
	UpdatedAt time.Time
}

// CodeSigner issues and checks stateless confirmation codes of the form
// "<base36 unix seconds>-<hex hmac>".
type CodeSigner struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

/*
NewCodeSigner derives the signing key from secret with HKDF-SHA256.

Parameters:
  - secret: string (application SECRET_KEY)
  - maxAge: time.Duration (0 disables the age check)

Returns:
  - *CodeSigner: Ready signer
  - error: Key derivation failures
*/
func NewCodeSigner(secret string, maxAge time.Duration) (*CodeSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: confirmation code secret is empty")
	}

	key := make([]byte, sha256.Size)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive confirmation code key: %w", err)
	}

	return &CodeSigner{key: key, maxAge: maxAge, now: time.Now}, nil
}

// WithClock returns a copy of the signer reading time from now.
func (signer *CodeSigner) WithClock(now func() time.Time) *CodeSigner {
	clone := *signer
	clone.now = now
	return &clone
}

// Make issues a code for subject's current state.
func (signer *CodeSigner) Make(subject CodeSubject) string {
	timestamp := signer.now().Unix()
	return strconv.FormatInt(timestamp, 36) + "-" + signer.mac(timestamp, subject)
}

// Check reports whether code was issued for subject in its current state
// and, when a max age is configured, is still fresh.
func (signer *CodeSigner) Check(subject CodeSubject, code string) bool {
	encodedTimestamp, digest, found := strings.Cut(code, "-")
	if !found || encodedTimestamp == "" || digest == "" {
		return false
	}

	timestamp, err := strconv.ParseInt(encodedTimestamp, 36, 64)
	if err != nil {
		return false
	}

	if !hmac.Equal([]byte(digest), []byte(signer.mac(timestamp, subject))) {
		return false
	}

	if signer.maxAge > 0 && signer.now().Sub(time.Unix(timestamp, 0)) > signer.maxAge {
		return false
	}

	return true
}

// mac computes the truncated hex HMAC over timestamp and the subject state.
func (signer *CodeSigner) mac(timestamp int64, subject CodeSubject) string {
	var lastLogin int64
	if subject.LastLogin != nil {
		lastLogin = subject.LastLogin.UnixMicro()
	}

	hash := hmac.New(sha256.New, signer.key)
	fmt.Fprintf(hash, "%d|%d|%s|%s|%d|%d",
		timestamp,
		subject.UserID,
		strings.ToLower(subject.Email),
		subject.Role,
		lastLogin,
		subject.UpdatedAt.UnixMicro(),
	)

	return hex.EncodeToString(hash.Sum(nil)[:codeMACBytes])
}
