package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joshuastenhouse/rscreporting-go/internal/connectors/rsc"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
	"github.com/joshuastenhouse/rscreporting-go/internal/logger"
)

// ReportResult is the outcome of one inventory fetch.
type ReportResult struct {
	// RunID uniquely identifies this fetch run.
	RunID string

	// Type is the resource kind fetched.
	Type string

	// Records are the flattened rows, in server order.
	Records []domain.Record

	// StartedAt and FinishedAt bound the fetch.
	StartedAt  time.Time
	FinishedAt time.Time
}

// InventoryService runs the generic fetch-flatten-sink pipeline for any
// declared report type.
type InventoryService struct {
	queryer driven.Queryer
	sink    driven.RecordSink
}

// NewInventoryService creates an inventory service. sink may be nil when
// records are only returned, not persisted.
func NewInventoryService(queryer driven.Queryer, sink driven.RecordSink) *InventoryService {
	return &InventoryService{queryer: queryer, sink: sink}
}

// Fetch retrieves and flattens all records of one report type. When a sink
// is configured the records are also persisted.
func (s *InventoryService) Fetch(
	ctx context.Context,
	session *domain.SessionContext,
	reportType string,
	pageSize int,
) (*ReportResult, error) {
	if err := RequireSession(session); err != nil {
		return nil, err
	}

	mapping, err := rsc.MappingByName(reportType)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		RunID:     uuid.NewString(),
		Type:      mapping.Type,
		StartedAt: time.Now().UTC(),
	}
	logger.Info("report run %s: fetching %s from %s", result.RunID, mapping.Type, session.Instance)

	nodes, err := s.queryer.FetchAll(ctx, mapping.Operation(pageSize))
	if err != nil {
		return nil, err
	}

	records, err := rsc.FlattenAll(nodes, mapping, session.Instance, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.FinishedAt = time.Now().UTC()

	if s.sink != nil && len(records) > 0 {
		if err := s.sink.Write(ctx, records); err != nil {
			return result, err
		}
		logger.Info("report run %s: wrote %d %s records", result.RunID, len(records), mapping.Type)
	}
	return result, nil
}
