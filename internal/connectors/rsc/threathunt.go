package rsc

import (
	"encoding/json"
	"fmt"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// threatHuntResultQuery fetches the full nested result of one threat hunt:
// per-object, per-snapshot, per-match. Not paginated; hunts are bounded.
const threatHuntResultQuery = `query ThreatHuntResultQuery($huntId: String!) {
  threatHuntResult(huntId: $huntId) {
    huntId
    huntDetails {
      name
      status
    }
    results {
      objectFid
      objectName
      objectType
      clusterName
      snapshotResults {
        snapshotFid
        snapshotDate
        scannedFileCount
        matches {
          ruleName
          filePath
          fileSizeBytes
          matchTime
        }
      }
    }
  }
}`

// ThreatHuntResultOperation builds the threat hunt result operation.
func ThreatHuntResultOperation(huntID string) driven.Operation {
	return driven.Operation{
		Name:  "ThreatHuntResultQuery",
		Query: threatHuntResultQuery,
		Variables: map[string]any{
			"huntId": huntID,
		},
	}
}

// threatHuntEnvelope is the raw data shape of the threat hunt query.
type threatHuntEnvelope struct {
	ThreatHuntResult struct {
		HuntID      string `json:"huntId"`
		HuntDetails struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"huntDetails"`
		Results []struct {
			ObjectFID       string `json:"objectFid"`
			ObjectName      string `json:"objectName"`
			ObjectType      string `json:"objectType"`
			ClusterName     string `json:"clusterName"`
			SnapshotResults []struct {
				SnapshotFID      string `json:"snapshotFid"`
				SnapshotDate     any    `json:"snapshotDate"`
				ScannedFileCount int    `json:"scannedFileCount"`
				Matches          []struct {
					RuleName      string `json:"ruleName"`
					FilePath      string `json:"filePath"`
					FileSizeBytes any    `json:"fileSizeBytes"`
					MatchTime     any    `json:"matchTime"`
				} `json:"matches"`
			} `json:"snapshotResults"`
		} `json:"results"`
	} `json:"threatHuntResult"`
}

// DecodeThreatHuntResult converts the raw data field of the threat hunt
// query into the typed nested result.
func DecodeThreatHuntResult(data json.RawMessage) (*domain.ThreatHuntResult, error) {
	var env threatHuntEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding threat hunt result: %w", err)
	}

	raw := env.ThreatHuntResult
	result := &domain.ThreatHuntResult{
		HuntID: raw.HuntID,
		Name:   raw.HuntDetails.Name,
		Status: raw.HuntDetails.Status,
	}
	for _, obj := range raw.Results {
		object := domain.ThreatHuntObject{
			ObjectID:    obj.ObjectFID,
			ObjectName:  obj.ObjectName,
			ObjectType:  obj.ObjectType,
			ClusterName: obj.ClusterName,
		}
		for _, snap := range obj.SnapshotResults {
			snapshot := domain.ThreatHuntSnapshot{
				SnapshotFID:  snap.SnapshotFID,
				SnapshotDate: ToTime(snap.SnapshotDate),
				ScannedFiles: snap.ScannedFileCount,
			}
			for _, match := range snap.Matches {
				m := domain.ThreatHuntMatch{
					RuleName:  match.RuleName,
					FilePath:  match.FilePath,
					MatchedAt: ToTime(match.MatchTime),
				}
				if size, ok := match.FileSizeBytes.(float64); ok {
					m.FileSize = &size
				}
				snapshot.Matches = append(snapshot.Matches, m)
			}
			object.Snapshots = append(object.Snapshots, snapshot)
		}
		result.Objects = append(result.Objects, object)
	}
	return result, nil
}
