package domain

import (
	"net/url"
	"strings"
	"time"
)

// SessionStatus describes the lifecycle state of a session.
// A session moves Disconnected -> Connected exactly once; there is no
// automatic token refresh, so a long-running process must reconnect
// itself once the bearer token expires server-side.
type SessionStatus string

const (
	// StatusDisconnected means no valid bearer token is held.
	StatusDisconnected SessionStatus = "Disconnected"

	// StatusConnected means authentication succeeded and the session
	// header is usable.
	StatusConnected SessionStatus = "Connected"
)

// SessionContext is the process-wide connection state for one RSC instance.
// It is immutable once established and safe to share between goroutines as
// a read-only value. Callers must check Status before issuing queries.
type SessionContext struct {
	// BaseURL is the normalized instance URL, e.g. "https://acme.my.rubrik.com".
	BaseURL string `json:"base_url"`

	// GraphQLURL is BaseURL + the GraphQL API path.
	GraphQLURL string `json:"graphql_url"`

	// TokenURL is BaseURL + the client token API path.
	TokenURL string `json:"token_url"`

	// AuthHeader is the full Authorization header value ("Bearer <token>").
	AuthHeader string `json:"-"`

	// Instance is the hostname-only form of BaseURL, used to tag every
	// record produced during this session.
	Instance string `json:"instance"`

	// Status is Connected or Disconnected.
	Status SessionStatus `json:"status"`

	// Message carries the human-readable failure reason when Status is
	// Disconnected, empty otherwise.
	Message string `json:"message,omitempty"`

	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`
}

// IsConnected returns true if the session holds a usable bearer token.
func (s *SessionContext) IsConnected() bool {
	return s != nil && s.Status == StatusConnected && s.AuthHeader != ""
}

// Token returns the bearer token without the "Bearer " prefix.
func (s *SessionContext) Token() string {
	return strings.TrimPrefix(s.AuthHeader, "Bearer ")
}

// InstanceHostname extracts the hostname-only form of an instance URL.
// Returns the input unchanged if it cannot be parsed.
func InstanceHostname(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(strings.TrimPrefix(baseURL, "https://"), "http://")
	}
	return u.Hostname()
}

// NormalizeBaseURL cleans up a caller-supplied instance URL. Users often
// paste a full endpoint URL from their browser, so known API suffixes and
// trailing slashes are stripped and the https scheme is added if missing.
func NormalizeBaseURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	for _, suffix := range []string{"/api/graphql", "/api/client_token"} {
		if i := strings.Index(s, suffix); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimRight(s, "/")
}
