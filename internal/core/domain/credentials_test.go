package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialWireClientID(t *testing.T) {
	cred := &Credential{ClientID: "abc123", ClientSecret: "s"}
	assert.Equal(t, "client|abc123", cred.WireClientID())

	// The prefix is never doubled even if a stored value carries it.
	cred.ClientID = "client|abc123"
	assert.Equal(t, "client|abc123", cred.WireClientID())
}

func TestCredentialIsValid(t *testing.T) {
	var nilCred *Credential
	assert.False(t, nilCred.IsValid())
	assert.False(t, (&Credential{ClientID: "id"}).IsValid())
	assert.False(t, (&Credential{ClientSecret: "s"}).IsValid())
	assert.True(t, (&Credential{ClientID: "id", ClientSecret: "s"}).IsValid())
}

func TestLoadServiceAccountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service-account.json")
	content := `{
		"client_id": "client|abc123",
		"client_secret": "secret",
		"name": "reporting",
		"access_token_uri": "https://acme.my.rubrik.com/api/client_token"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cred, baseURL, err := LoadServiceAccountFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cred.ClientID, "stored client ID never carries the wire prefix")
	assert.Equal(t, "secret", cred.ClientSecret)
	assert.Equal(t, "https://acme.my.rubrik.com", baseURL, "token endpoint suffix stripped")
}

func TestLoadServiceAccountFileInvalid(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadServiceAccountFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("not json"), 0600))
	_, _, err = LoadServiceAccountFile(badPath)
	assert.Error(t, err)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{"client_id": "x"}`), 0600))
	_, _, err = LoadServiceAccountFile(emptyPath)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
