package driven

import (
	"context"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
)

// RecordSink persists flat report records. Implementations create the
// destination table on first write and upsert by the record's natural key,
// so repeated report runs converge instead of duplicating rows.
type RecordSink interface {
	// Write persists a batch of records of a single type.
	Write(ctx context.Context, records []domain.Record) error

	// Close releases the underlying storage.
	Close() error
}
