package identity

import (
	"net/http/httptest"
	"testing"
)

func TestNewBearerTokens(t *testing.T) {
	tests := []struct {
		name string
		list string
		want int
	}{
		{"empty", "", 0},
		{"single", "tok:alice", 1},
		{"multiple with spaces", "tok1:alice, tok2:bob", 2},
		{"skips malformed", "tok1:alice,broken,:nosubject,notoken:", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBearerTokens(tt.list).Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIdentify(t *testing.T) {
	p := NewBearerTokens("tok1:alice,tok2:bob")

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"known token", "Bearer tok1", "alice"},
		{"other token", "Bearer tok2", "bob"},
		{"padded token", "Bearer  tok1 ", "alice"},
		{"unknown token", "Bearer nope", ""},
		{"no header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/transactions", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			id := p.Identify(r)
			if id.Subject != tt.want {
				t.Errorf("Subject = %q, want %q", id.Subject, tt.want)
			}
			if id.IsAuthenticated() != (tt.want != "") {
				t.Errorf("IsAuthenticated() = %v", id.IsAuthenticated())
			}
		})
	}
}

func TestAnonymous(t *testing.T) {
	if Anonymous().IsAuthenticated() {
		t.Error("anonymous identity must not be authenticated")
	}
}
