package services

import (
	"context"
	"time"

	"github.com/joshuastenhouse/rscreporting-go/internal/connectors/rsc"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// DefaultEventLookback is how far back events are fetched by default.
const DefaultEventLookback = 24 * time.Hour

// EventService fetches activity events for one protected object.
//
// The events API filters by object name only, and names can collide across
// objects, so the fetch over-selects and the fid match happens client-side.
type EventService struct {
	queryer driven.Queryer
}

// NewEventService creates an event service.
func NewEventService(queryer driven.Queryer) *EventService {
	return &EventService{queryer: queryer}
}

// FetchForObject returns the deduplicated events belonging to objectID.
// objectName is what the server-side filter matches on; since bounds the
// lookback (zero means DefaultEventLookback).
func (s *EventService) FetchForObject(
	ctx context.Context,
	session *domain.SessionContext,
	objectID, objectName string,
	since time.Time,
) ([]domain.ActivityEvent, error) {
	if err := RequireSession(session); err != nil {
		return nil, err
	}
	if objectID == "" || objectName == "" {
		return nil, domain.ErrInvalidInput
	}
	if since.IsZero() {
		since = time.Now().Add(-DefaultEventLookback)
	}

	nodes, err := s.queryer.FetchAll(ctx, rsc.ActivitySeriesOperation(objectName, since))
	if err != nil {
		return nil, err
	}
	events, err := rsc.DecodeActivityEvents(nodes)
	if err != nil {
		return nil, err
	}

	return DeduplicateEvents(FilterEventsByObjectID(events, objectID)), nil
}

// FilterEventsByObjectID keeps only events whose fid matches the target
// object. This is the client-side half of the name-based server filter.
func FilterEventsByObjectID(events []domain.ActivityEvent, objectID string) []domain.ActivityEvent {
	filtered := make([]domain.ActivityEvent, 0, len(events))
	for _, e := range events {
		if e.ObjectFID == objectID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// DeduplicateEvents collapses events that share a series ID, keeping the
// entry with the latest end time. Order of first appearance is preserved.
func DeduplicateEvents(events []domain.ActivityEvent) []domain.ActivityEvent {
	index := make(map[string]int, len(events))
	deduped := make([]domain.ActivityEvent, 0, len(events))
	for _, e := range events {
		i, seen := index[e.SeriesID]
		if !seen {
			index[e.SeriesID] = len(deduped)
			deduped = append(deduped, e)
			continue
		}
		if laterEnd(e.EndTime, deduped[i].EndTime) {
			deduped[i] = e
		}
	}
	return deduped
}

func laterEnd(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
