package rsc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// snapshotListQuery fetches the snapshot list of one protected object.
const snapshotListQuery = `query SnapshotListQuery($first: Int, $after: String, $snappableId: String!) {
  snapshotsListConnection(first: $first, after: $after, snappableId: $snappableId) {
    edges {
      node {
        id
        date
        isOnDemandSnapshot
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`

// SnapshotListOperation builds the paginated snapshot list operation for
// one object ID.
func SnapshotListOperation(objectID string) driven.Operation {
	return driven.Operation{
		Name:       "SnapshotListQuery",
		Query:      snapshotListQuery,
		Connection: "snapshotsListConnection",
		Variables: map[string]any{
			"snappableId": objectID,
		},
	}
}

// DecodeSnapshotDates extracts the snapshot timestamps from raw snapshot
// nodes, skipping entries without a parseable date.
func DecodeSnapshotDates(nodes []json.RawMessage) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(nodes))
	for _, node := range nodes {
		var n struct {
			ID   string `json:"id"`
			Date any    `json:"date"`
		}
		if err := json.Unmarshal(node, &n); err != nil {
			return dates, fmt.Errorf("decoding snapshot node: %w", err)
		}
		if t := ToTime(n.Date); t != nil {
			dates = append(dates, *t)
		}
	}
	return dates, nil
}
