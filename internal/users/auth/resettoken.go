// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell/internal/users/account"
)

// resetSignatureHexLen is how many hex characters of the HMAC digest end up
// in the token. 128 bits is plenty; shorter tokens keep reset URLs readable.
const resetSignatureHexLen = 32

// ResetTokenGenerator mints and checks stateless password reset tokens.
//
// A token is `<base36 timestamp>-<truncated hex HMAC>`. The HMAC is keyed by
// the application secret and covers the account ID, the current password
// hash, and the email. Because the password hash is part of the signed
// state, completing a reset (or any password change) invalidates every
// previously issued token without any storage.
type ResetTokenGenerator struct {
	secret []byte
	ttl    time.Duration

	// now is replaceable in tests to pin the expiry boundary.
	now func() time.Time
}

// NewResetTokenGenerator creates a generator keyed by the application secret.
func NewResetTokenGenerator(secret string, ttl time.Duration) *ResetTokenGenerator {
	return &ResetTokenGenerator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

/*
Make produces a reset token bound to the account's current credential state.

Parameters:
  - acct: *account.Account (the token subject)

Returns:
  - string: transport-safe token for the reset URL
*/
func (generator *ResetTokenGenerator) Make(acct *account.Account) string {
	timestamp := strconv.FormatInt(generator.now().Unix(), 36)
	return timestamp + "-" + generator.sign(acct, timestamp)
}

/*
Check verifies a reset token against the account's current state.

Description: Recomputes the signature and compares it in constant time, then
enforces the validity window. A token is rejected when malformed, when the
password hash or email changed since issuance, when it is older than the
configured TTL, or when its timestamp lies in the future.

Parameters:
  - acct: *account.Account
  - token: string

Returns:
  - bool: true only for a genuine, unexpired token
*/
func (generator *ResetTokenGenerator) Check(acct *account.Account, token string) bool {
	timestamp, signature, ok := strings.Cut(token, "-")
	if !ok || timestamp == "" || signature == "" {
		return false
	}

	expected := generator.sign(acct, timestamp)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return false
	}

	issuedAt, err := strconv.ParseInt(timestamp, 36, 64)
	if err != nil {
		return false
	}

	age := generator.now().Unix() - issuedAt
	return age >= 0 && time.Duration(age)*time.Second <= generator.ttl
}

func (generator *ResetTokenGenerator) sign(acct *account.Account, timestamp string) string {
	mac := hmac.New(sha256.New, generator.secret)
	fmt.Fprintf(mac, "%s|%s|%s|%s", acct.ID, acct.PasswordHash, acct.Email, timestamp)
	return hex.EncodeToString(mac.Sum(nil))[:resetSignatureHexLen]
}

// # Account Identifier Encoding

// EncodeUID wraps the account ID for safe inclusion in a reset URL.
func EncodeUID(accountID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(accountID))
}

// DecodeUID reverses [EncodeUID]. Malformed input yields an error rather
// than a garbage ID.
func DecodeUID(uidb64 string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return "", fmt.Errorf("decoding account identifier: %w", err)
	}
	return string(raw), nil
}
