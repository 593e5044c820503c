package domain

import "time"

// ActivityEvent is one flattened entry from the RSC activity series
// connection.
//
// The events API filters by object *name*, which can collide across
// objects; ObjectFID carries the real identifier so callers can filter
// client-side.
type ActivityEvent struct {
	// SeriesID identifies the activity series the event belongs to.
	SeriesID string `json:"series_id"`

	// ObjectFID is the object identifier the event applies to.
	ObjectFID string `json:"object_fid"`

	// ObjectName is the display name the server-side filter matches on.
	ObjectName string `json:"object_name"`

	// ObjectType is the RSC object type.
	ObjectType string `json:"object_type"`

	// ClusterName is the cluster the event originated from.
	ClusterName string `json:"cluster_name"`

	// EventType is the activity type, e.g. "Backup".
	EventType string `json:"event_type"`

	// Status is the last event status, e.g. "Success" or "Failure".
	Status string `json:"status"`

	// Message is the last activity message.
	Message string `json:"message"`

	// StartTime is when the series started, nil if unknown.
	StartTime *time.Time `json:"start_time"`

	// EndTime is when the series last updated, nil if still running.
	EndTime *time.Time `json:"end_time"`
}
