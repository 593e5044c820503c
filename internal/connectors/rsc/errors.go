package rsc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
)

// Connector errors.
var (
	// ErrNoSession indicates a query was attempted before Authenticate.
	ErrNoSession = errors.New("rsc: no active session")

	// ErrEmptyToken indicates the token endpoint answered 200 but without
	// an access token.
	ErrEmptyToken = errors.New("rsc: token endpoint returned no access token")

	// errBadOperation indicates a malformed operation template.
	errBadOperation = errors.New("invalid operation")
)

// APIError represents a non-2xx HTTP response from an RSC endpoint.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rsc: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// GraphQLError represents a top-level "errors" array in a GraphQL response.
// Fetches that hit one mid-pagination still return the nodes accumulated so
// far alongside this error.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "rsc: graphql: " + strings.Join(e.Messages, "; ")
}

// AuthError is a terminal authentication failure with the backend message
// already rewritten for humans where a known pattern matched.
type AuthError struct {
	Message string
	Raw     string
}

func (e *AuthError) Error() string {
	return "rsc: " + e.Message
}

// Unwrap makes every AuthError match domain.ErrAuthFailed.
func (e *AuthError) Unwrap() error {
	return domain.ErrAuthFailed
}

// IsAuthError checks whether err is a terminal authentication failure.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// rewriteRule maps a known backend error substring to an actionable
// message. The patterns are part of the backend contract in practice; if
// RSC changes its error text these rewrites silently stop matching and the
// raw message passes through instead.
type rewriteRule struct {
	substring string
	message   string
}

var rewriteRules = []rewriteRule{
	{
		substring: "PERMISSION_DENIED",
		message:   "Invalid client_id or client_secret. Verify the service account credentials and try again.",
	},
	{
		substring: "IP address is not allowed",
		message:   "Your IP address is not on the allowed IP list of this RSC instance. Add it under Settings > Access and try again.",
	},
}

// rewriteBackendMessage returns the actionable replacement for a known
// backend error message, or the message verbatim when no pattern matches.
func rewriteBackendMessage(raw string) string {
	for _, rule := range rewriteRules {
		if strings.Contains(raw, rule.substring) {
			return rule.message
		}
	}
	return raw
}
