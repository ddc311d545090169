// Package identity is the boundary to the external identity provider. The
// ledger uses the resolved identity for exactly two things: picking a store
// mode and tagging ownership.
package identity

import (
	"net/http"
	"strings"
)

// Identity is an authenticated subject or the anonymous sentinel.
type Identity struct {
	Subject string
}

// Anonymous returns the unauthenticated identity.
func Anonymous() Identity {
	return Identity{}
}

// IsAuthenticated reports whether a subject was established.
func (i Identity) IsAuthenticated() bool {
	return i.Subject != ""
}

// Provider resolves an incoming request to an identity. Unknown or absent
// credentials resolve to Anonymous, never to an error: the ledger treats
// "not signed in" as a mode, not a failure.
type Provider interface {
	Identify(r *http.Request) Identity
}

// BearerTokens is a static token table provider: "Authorization: Bearer x"
// maps through the table to a subject id. It stands in for the external
// identity service in deployments that front this server with one.
type BearerTokens struct {
	tokens map[string]string
}

// NewBearerTokens parses a "token:subject,token:subject" list.
func NewBearerTokens(list string) *BearerTokens {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, subject, ok := strings.Cut(pair, ":")
		if !ok || token == "" || subject == "" {
			continue
		}
		tokens[token] = subject
	}
	return &BearerTokens{tokens: tokens}
}

// Len returns how many tokens are configured.
func (b *BearerTokens) Len() int {
	return len(b.tokens)
}

// Identify implements Provider.
func (b *BearerTokens) Identify(r *http.Request) Identity {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return Anonymous()
	}
	subject, ok := b.tokens[strings.TrimSpace(token)]
	if !ok {
		return Anonymous()
	}
	return Identity{Subject: subject}
}
