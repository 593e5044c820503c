package rsc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// activitySeriesQuery fetches activity events filtered by object name. The
// API accepts an object *name* filter only; names can collide across
// objects, so callers must match the fid client-side afterwards.
const activitySeriesQuery = `query ActivitySeriesQuery($first: Int, $after: String, $filters: ActivitySeriesFilter) {
  activitySeriesConnection(first: $first, after: $after, filters: $filters) {
    edges {
      node {
        activitySeriesId
        fid
        objectName
        objectType
        clusterName
        lastActivityType
        lastActivityStatus
        lastMessage
        startTime
        lastUpdated
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`

// ActivitySeriesOperation builds the paginated events operation for one
// object name over a lookback window.
func ActivitySeriesOperation(objectName string, since time.Time) driven.Operation {
	return driven.Operation{
		Name:       "ActivitySeriesQuery",
		Query:      activitySeriesQuery,
		Connection: "activitySeriesConnection",
		Variables: map[string]any{
			"filters": map[string]any{
				"objectName": objectName,
				"startTimeGt": since.UTC().Format(time.RFC3339),
			},
		},
	}
}

// activitySeriesNode is the raw node shape of the activity connection.
type activitySeriesNode struct {
	ActivitySeriesID   string `json:"activitySeriesId"`
	FID                string `json:"fid"`
	ObjectName         string `json:"objectName"`
	ObjectType         string `json:"objectType"`
	ClusterName        string `json:"clusterName"`
	LastActivityType   string `json:"lastActivityType"`
	LastActivityStatus string `json:"lastActivityStatus"`
	LastMessage        string `json:"lastMessage"`
	StartTime          any    `json:"startTime"`
	LastUpdated        any    `json:"lastUpdated"`
}

// DecodeActivityEvents converts raw activity nodes into typed events.
func DecodeActivityEvents(nodes []json.RawMessage) ([]domain.ActivityEvent, error) {
	events := make([]domain.ActivityEvent, 0, len(nodes))
	for _, node := range nodes {
		var n activitySeriesNode
		if err := json.Unmarshal(node, &n); err != nil {
			return events, fmt.Errorf("decoding activity node: %w", err)
		}
		events = append(events, domain.ActivityEvent{
			SeriesID:    n.ActivitySeriesID,
			ObjectFID:   n.FID,
			ObjectName:  n.ObjectName,
			ObjectType:  n.ObjectType,
			ClusterName: n.ClusterName,
			EventType:   n.LastActivityType,
			Status:      n.LastActivityStatus,
			Message:     n.LastMessage,
			StartTime:   ToTime(n.StartTime),
			EndTime:     ToTime(n.LastUpdated),
		})
	}
	return events, nil
}
