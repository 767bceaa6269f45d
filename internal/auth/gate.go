// Package auth implements the shared-secret gate in front of moderation
// operations. It is a single-tenant check, not a session or token system.
package auth

import "crypto/subtle"

// Gate authorizes admin requests against a fixed process-wide secret.
type Gate struct {
	secret string
}

// NewGate builds a gate for the given secret. An empty secret denies
// every request.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authorize reports whether the supplied secret matches. It never errors;
// missing and mismatched secrets both come back false.
func (g *Gate) Authorize(supplied string) bool {
	if g.secret == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.secret), []byte(supplied)) == 1
}
