package driven

import (
	"context"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
)

// CredentialStore persists service account credentials per RSC instance.
// Implementations encrypt at rest; the store is keyed by instance hostname
// so multiple profiles can coexist on one machine.
type CredentialStore interface {
	// Get retrieves the credential for an instance.
	// Returns domain.ErrNotFound if none is stored.
	Get(ctx context.Context, instance string) (*domain.Credential, error)

	// Save stores or replaces the credential for an instance.
	Save(ctx context.Context, instance string, cred domain.Credential) error

	// Delete removes the credential for an instance. Deleting a missing
	// credential is not an error.
	Delete(ctx context.Context, instance string) error
}
