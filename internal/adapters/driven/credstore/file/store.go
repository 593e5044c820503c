// Package file implements the encrypted, file-based credential store.
// Credentials are sealed with AES-GCM under a 24-byte key; the default key
// is derived from the machine and user identity, so a copied file is
// useless on another host. File names incorporate machine, user and
// instance so multiple profiles coexist in one directory.
package file

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// KeySize is the AES key length in bytes.
const KeySize = 24

// Ensure Store implements the interface.
var _ driven.CredentialStore = (*Store)(nil)

// Store is the file-based credential store.
type Store struct {
	dir     string
	key     []byte
	machine string
	user    string
}

// NewStore creates a credential store rooted at dir. If key is nil the
// default machine+user derived key is used; a caller-supplied key must be
// exactly KeySize bytes.
func NewStore(dir string, key []byte) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".rscreport")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	machine, userName := identity()
	if key == nil {
		key = deriveKey(machine, userName)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	return &Store{
		dir:     dir,
		key:     key,
		machine: machine,
		user:    userName,
	}, nil
}

// Get retrieves the credential for an instance.
func (s *Store) Get(_ context.Context, instance string) (*domain.Credential, error) {
	sealed, err := os.ReadFile(s.path(instance))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	plain, err := s.open(sealed)
	if err != nil {
		return nil, fmt.Errorf("decrypting credential file for %s: %w", instance, err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(plain, &cred); err != nil {
		return nil, fmt.Errorf("parsing credential file for %s: %w", instance, err)
	}
	return &cred, nil
}

// Save stores or replaces the credential for an instance.
func (s *Store) Save(_ context.Context, instance string, cred domain.Credential) error {
	if !cred.IsValid() {
		return domain.ErrInvalidCredential
	}

	plain, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}
	sealed, err := s.seal(plain)
	if err != nil {
		return fmt.Errorf("encrypting credential: %w", err)
	}
	if err := os.WriteFile(s.path(instance), sealed, 0600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	return nil
}

// Delete removes the credential for an instance. Missing files are not an
// error.
func (s *Store) Delete(_ context.Context, instance string) error {
	if err := os.Remove(s.path(instance)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}

// path builds the per-profile file name:
// <machine>_<user>_<instance>_credentials.enc.
func (s *Store) path(instance string) string {
	name := fmt.Sprintf("%s_%s_%s_credentials.enc",
		sanitize(s.machine), sanitize(s.user), sanitize(instance))
	return filepath.Join(s.dir, name)
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("credential file too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (s *Store) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// deriveKey builds the default key from machine and user identity.
func deriveKey(machine, userName string) []byte {
	sum := sha256.Sum256([]byte(machine + "|" + userName + "|rscreport"))
	return sum[:KeySize]
}

func identity() (machine, userName string) {
	machine, err := os.Hostname()
	if err != nil || machine == "" {
		machine = "localhost"
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		userName = u.Username
	} else {
		userName = "unknown"
	}
	return machine, userName
}

// sanitize keeps file names portable across platforms.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, s)
}
