// Package auth implements the shared-password operator session: an
// HMAC-signed expiring cookie checked by middleware on admin routes.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignSession produces a session token valid until expiry. The token format
// is "<unix-expiry>.<hex hmac-sha256>"; each part is self-describing so
// verification needs no server-side session state.
func SignSession(secret string, expiry time.Time) string {
	payload := strconv.FormatInt(expiry.Unix(), 10)
	return payload + "." + signature(secret, payload)
}

// VerifySession checks a token's signature and expiry.
func VerifySession(secret, token string) bool {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}

	expected := signature(secret, payload)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		return false
	}

	expiry, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return false
	}
	return time.Now().Unix() < expiry
}

// CheckPassword compares the submitted password with the configured one in
// constant time.
func CheckPassword(configured, submitted string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}

func signature(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprint(mac, payload)
	return hex.EncodeToString(mac.Sum(nil))
}
