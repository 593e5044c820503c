package rsc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// AuthRetryDelay is the wait before the single automatic retry of the
	// token request. Transient token endpoint failures usually self-resolve
	// within a couple of seconds.
	AuthRetryDelay = 2 * time.Second

	// TokenPath is the client token endpoint path.
	TokenPath = "/api/client_token"

	// GraphQLPath is the GraphQL endpoint path.
	GraphQLPath = "/api/graphql"
)

// Client talks to one RSC instance. Authenticate establishes the session;
// afterwards the client carries a bearer-token HTTP client and can execute
// GraphQL operations. A Client is safe for concurrent reads once
// authenticated; the session is written exactly once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *domain.SessionContext
	limiter    *RateLimiter

	// retryDelay is AuthRetryDelay unless shortened by tests.
	retryDelay time.Duration
}

// NewClient creates a client for an instance URL. The URL is normalized:
// pasted endpoint suffixes and trailing slashes are stripped and https is
// assumed.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    domain.NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    NewRateLimiter(),
		retryDelay: AuthRetryDelay,
	}
}

// SetRetryDelay overrides the auth retry delay.
// Defaults to AuthRetryDelay. Useful for testing.
func (c *Client) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// BaseURL returns the normalized instance URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the established session context, nil before Authenticate.
func (c *Client) Session() *domain.SessionContext {
	return c.session
}

// RequireSession errors unless Authenticate has succeeded. Every fetch path
// calls this guard before touching the GraphQL endpoint.
func (c *Client) RequireSession() error {
	if !c.session.IsConnected() {
		return ErrNoSession
	}
	return nil
}

// tokenRequest is the wire body for the client token endpoint. The
// "client|" prefix belongs only here, never in stored credentials.
type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
	Errors      []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Authenticate exchanges a service account credential for a bearer token
// and establishes the session. A failed attempt is retried exactly once
// after a short delay; a failure after that is returned as an *AuthError
// with the backend message rewritten where a known pattern matches.
func (c *Client) Authenticate(ctx context.Context, cred *domain.Credential) (*domain.SessionContext, error) {
	if !cred.IsValid() {
		return nil, domain.ErrInvalidCredential
	}

	tokenURL := c.baseURL + TokenPath

	token, err := c.requestToken(ctx, tokenURL, cred)
	if err != nil {
		logger.Warn("token request failed, retrying once: %v", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
		token, err = c.requestToken(ctx, tokenURL, cred)
	}
	if err != nil {
		return nil, err
	}

	session := &domain.SessionContext{
		BaseURL:    c.baseURL,
		GraphQLURL: c.baseURL + GraphQLPath,
		TokenURL:   tokenURL,
		AuthHeader: "Bearer " + token,
		Instance:   domain.InstanceHostname(c.baseURL),
		Status:     domain.StatusConnected,
		CreatedAt:  time.Now().UTC(),
	}

	// Swap in a bearer-token client for all subsequent calls.
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	c.httpClient = tc
	c.session = session

	logger.Info("connected to %s", session.Instance)
	return session, nil
}

// requestToken performs one POST to the token endpoint.
func (c *Client) requestToken(ctx context.Context, tokenURL string, cred *domain.Credential) (string, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:     cred.WireClientID(),
		ClientSecret: cred.ClientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	var tr tokenResponse
	// The endpoint sometimes answers plain text on proxy errors, so a
	// decode failure falls through to the status check below.
	_ = json.Unmarshal(respBody, &tr)

	if raw := tr.backendMessage(); raw != "" {
		return "", &AuthError{Message: rewriteBackendMessage(raw), Raw: raw}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			URL:        tokenURL,
		}
	}
	if tr.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return tr.AccessToken, nil
}

// backendMessage returns the first backend error message in the response,
// empty when the response carries none.
func (t *tokenResponse) backendMessage() string {
	if len(t.Errors) > 0 && t.Errors[0].Message != "" {
		return t.Errors[0].Message
	}
	if t.AccessToken == "" && t.Message != "" {
		return t.Message
	}
	return ""
}

// Probe checks best-effort reachability of the instance URL. Used to tell a
// bad persisted URL apart from bad credentials after a terminal auth
// failure: any HTTP response at all counts as reachable.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", c.baseURL, err)
	}
	resp.Body.Close()
	return nil
}
