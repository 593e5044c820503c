package services

import (
	"context"

	"github.com/joshuastenhouse/rscreporting-go/internal/connectors/rsc"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// ThreatHuntRollUp holds the three materialized aggregation tiers plus the
// top-level summary for one hunt. Every tier is fully built from the
// nested result; none re-queries.
type ThreatHuntRollUp struct {
	Matches   []domain.ThreatHuntMatchRecord
	Snapshots []domain.ThreatHuntSnapshotSummary
	Objects   []domain.ThreatHuntObjectSummary
	Summary   domain.ThreatHuntSummary
}

// ThreatHuntService fetches and aggregates threat hunt results.
type ThreatHuntService struct {
	queryer driven.Queryer
}

// NewThreatHuntService creates a threat hunt service.
func NewThreatHuntService(queryer driven.Queryer) *ThreatHuntService {
	return &ThreatHuntService{queryer: queryer}
}

// Fetch retrieves the nested result of one hunt.
func (s *ThreatHuntService) Fetch(
	ctx context.Context,
	session *domain.SessionContext,
	huntID string,
) (*domain.ThreatHuntResult, error) {
	if err := RequireSession(session); err != nil {
		return nil, err
	}
	if huntID == "" {
		return nil, domain.ErrInvalidInput
	}

	data, err := s.queryer.Query(ctx, rsc.ThreatHuntResultOperation(huntID))
	if err != nil {
		return nil, err
	}
	return rsc.DecodeThreatHuntResult(data)
}

// RollUp derives all aggregation tiers from one nested hunt result.
func RollUp(result *domain.ThreatHuntResult) *ThreatHuntRollUp {
	r := &ThreatHuntRollUp{
		Summary: domain.ThreatHuntSummary{
			HuntID: result.HuntID,
			Name:   result.Name,
			Status: result.Status,
		},
	}

	for _, obj := range result.Objects {
		objSummary := domain.ThreatHuntObjectSummary{
			HuntID:      result.HuntID,
			ObjectID:    obj.ObjectID,
			ObjectName:  obj.ObjectName,
			ObjectType:  obj.ObjectType,
			ClusterName: obj.ClusterName,
		}

		for _, snap := range obj.Snapshots {
			snapSummary := domain.ThreatHuntSnapshotSummary{
				HuntID:       result.HuntID,
				ObjectID:     obj.ObjectID,
				ObjectName:   obj.ObjectName,
				SnapshotFID:  snap.SnapshotFID,
				SnapshotDate: snap.SnapshotDate,
				MatchCount:   len(snap.Matches),
				ScannedFiles: snap.ScannedFiles,
			}

			for _, match := range snap.Matches {
				r.Matches = append(r.Matches, domain.ThreatHuntMatchRecord{
					HuntID:       result.HuntID,
					ObjectID:     obj.ObjectID,
					ObjectName:   obj.ObjectName,
					SnapshotFID:  snap.SnapshotFID,
					SnapshotDate: snap.SnapshotDate,
					RuleName:     match.RuleName,
					FilePath:     match.FilePath,
				})
			}

			objSummary.SnapshotsScanned++
			objSummary.MatchCount += len(snap.Matches)
			if len(snap.Matches) > 0 {
				objSummary.SnapshotsWithMatches++
				r.Summary.SnapshotsWithMatches++
			}
			r.Summary.SnapshotCount++
			r.Summary.ScannedFileCount += snap.ScannedFiles
			r.Snapshots = append(r.Snapshots, snapSummary)
		}

		r.Summary.ObjectCount++
		r.Summary.MatchCount += objSummary.MatchCount
		if objSummary.MatchCount > 0 {
			r.Summary.ObjectsWithMatches++
		}
		r.Objects = append(r.Objects, objSummary)
	}

	return r
}
