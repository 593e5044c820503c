package services

import (
	"context"
	"encoding/json"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockQueryer implements driven.Queryer for testing.
type mockQueryer struct {
	nodes    []json.RawMessage
	data     json.RawMessage
	fetchErr error
	queryErr error
	lastOp   driven.Operation
}

func (m *mockQueryer) FetchAll(_ context.Context, op driven.Operation) ([]json.RawMessage, error) {
	m.lastOp = op
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.nodes, nil
}

func (m *mockQueryer) Query(_ context.Context, op driven.Operation) (json.RawMessage, error) {
	m.lastOp = op
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.data, nil
}

// mockProfileStore implements driven.ProfileStore for testing.
type mockProfileStore struct {
	url     string
	cleared bool
	saved   string
}

func (m *mockProfileStore) BaseURL() string { return m.url }

func (m *mockProfileStore) SetBaseURL(url string) error {
	m.saved = url
	return nil
}

func (m *mockProfileStore) ClearBaseURL() error {
	m.cleared = true
	m.url = ""
	return nil
}

// mockCredentialStore implements driven.CredentialStore for testing.
type mockCredentialStore struct {
	creds   map[string]domain.Credential
	saved   []string
	deleted []string
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{creds: make(map[string]domain.Credential)}
}

func (m *mockCredentialStore) Get(_ context.Context, instance string) (*domain.Credential, error) {
	cred, ok := m.creds[instance]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cred, nil
}

func (m *mockCredentialStore) Save(_ context.Context, instance string, cred domain.Credential) error {
	m.creds[instance] = cred
	m.saved = append(m.saved, instance)
	return nil
}

func (m *mockCredentialStore) Delete(_ context.Context, instance string) error {
	delete(m.creds, instance)
	m.deleted = append(m.deleted, instance)
	return nil
}

// mockPrompter implements driven.Prompter for testing.
type mockPrompter struct {
	url          string
	clientID     string
	clientSecret string
	urlPrompts   int
	credPrompts  int
}

func (m *mockPrompter) PromptURL() (string, error) {
	m.urlPrompts++
	return m.url, nil
}

func (m *mockPrompter) PromptCredential() (string, string, error) {
	m.credPrompts++
	return m.clientID, m.clientSecret, nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct {
	baseURL  string
	authErr  error
	probeErr error
	authCred *domain.Credential
}

func (m *mockAuthenticator) Authenticate(_ context.Context, cred *domain.Credential) (*domain.SessionContext, error) {
	m.authCred = cred
	if m.authErr != nil {
		return nil, m.authErr
	}
	return &domain.SessionContext{
		BaseURL:    m.baseURL,
		AuthHeader: "Bearer tok",
		Instance:   domain.InstanceHostname(m.baseURL),
		Status:     domain.StatusConnected,
	}, nil
}

func (m *mockAuthenticator) Probe(_ context.Context) error {
	return m.probeErr
}

// connectedSession returns a minimal usable session for service tests.
func connectedSession() *domain.SessionContext {
	return &domain.SessionContext{
		Status:     domain.StatusConnected,
		AuthHeader: "Bearer tok",
		Instance:   "acme.my.rubrik.com",
	}
}
