// Package auth guards write endpoints with static API tokens mapped to scopes.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/wanda-blog/pkg/stringsutil"
)

type Role string

const (
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Allows reports whether r satisfies required. Admin satisfies every scope.
func (r Role) Allows(required Role) bool {
	return r == RoleAdmin || r == required
}

func parseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleEditor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q, expected editor or admin", s)
	}
}

type token struct {
	secret []byte
	role   Role
}

type Tokens struct {
	entries []token
}

// ParseTokens reads "token:role,token:role".
func ParseTokens(raw string) (Tokens, error) {
	var t Tokens
	for _, pair := range stringsutil.SplitTrim(raw, ",") {
		secret, roleName, ok := strings.Cut(pair, ":")
		secret = strings.TrimSpace(secret)
		if !ok || secret == "" {
			return Tokens{}, fmt.Errorf("invalid token entry, expected token:role")
		}
		role, err := parseRole(roleName)
		if err != nil {
			return Tokens{}, err
		}
		t.entries = append(t.entries, token{secret: []byte(secret), role: role})
	}
	return t, nil
}

func NewTokens(pairs map[string]Role) Tokens {
	var t Tokens
	for secret, role := range pairs {
		t.entries = append(t.entries, token{secret: []byte(secret), role: role})
	}
	return t
}

func (t Tokens) Len() int {
	return len(t.entries)
}

// Lookup compares against every configured token in constant time.
func (t Tokens) Lookup(key string) (Role, bool) {
	var (
		found Role
		ok    bool
	)
	candidate := []byte(key)
	for _, e := range t.entries {
		if subtle.ConstantTimeCompare(e.secret, candidate) == 1 {
			found, ok = e.role, true
		}
	}
	return found, ok
}
