package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Credential holds a service account client ID and secret for one RSC
// instance.
//
// ClientID is always stored without the "client|" prefix; the prefix is a
// wire-format detail added only when building the token request body.
type Credential struct {
	// ClientID is the service account client ID, without the "client|" prefix.
	ClientID string `json:"client_id"`

	// ClientSecret is the service account secret.
	ClientSecret string `json:"client_secret"`

	// CreatedAt is when the credential was first persisted.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsValid returns true if both fields are populated.
func (c *Credential) IsValid() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

// WireClientID returns the client ID in the form the token endpoint
// expects, with the "client|" prefix applied exactly once.
func (c *Credential) WireClientID() string {
	return "client|" + strings.TrimPrefix(c.ClientID, "client|")
}

// serviceAccountFile matches the JSON file downloadable from the RSC UI
// when creating a service account.
type serviceAccountFile struct {
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	Name           string `json:"name"`
	AccessTokenURI string `json:"access_token_uri"`
}

// LoadServiceAccountFile reads a downloaded service account JSON file and
// returns the credential plus the instance base URL derived from the
// access_token_uri field (empty if the file does not carry one).
func LoadServiceAccountFile(path string) (*Credential, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading service account file: %w", err)
	}

	var sa serviceAccountFile
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, "", fmt.Errorf("parsing service account file %s: %w", path, err)
	}
	if sa.ClientID == "" || sa.ClientSecret == "" {
		return nil, "", fmt.Errorf("service account file %s: %w", path, ErrInvalidCredential)
	}

	cred := &Credential{
		ClientID:     strings.TrimPrefix(sa.ClientID, "client|"),
		ClientSecret: sa.ClientSecret,
	}
	return cred, NormalizeBaseURL(sa.AccessTokenURI), nil
}
