package domain

import "time"

// ThreatHuntResult is the nested result of one threat hunt as returned by
// the API: per-object, per-snapshot, per-match. The roll-up tiers below are
// derived from it without re-querying.
type ThreatHuntResult struct {
	HuntID  string             `json:"hunt_id"`
	Name    string             `json:"name"`
	Status  string             `json:"status"`
	Objects []ThreatHuntObject `json:"objects"`
}

// ThreatHuntObject is one scanned object within a hunt.
type ThreatHuntObject struct {
	ObjectID    string               `json:"object_id"`
	ObjectName  string               `json:"object_name"`
	ObjectType  string               `json:"object_type"`
	ClusterName string               `json:"cluster_name"`
	Snapshots   []ThreatHuntSnapshot `json:"snapshots"`
}

// ThreatHuntSnapshot is one scanned snapshot of an object.
type ThreatHuntSnapshot struct {
	SnapshotFID  string            `json:"snapshot_fid"`
	SnapshotDate *time.Time        `json:"snapshot_date"`
	ScannedFiles int               `json:"scanned_files"`
	Matches      []ThreatHuntMatch `json:"matches"`
}

// ThreatHuntMatch is a single indicator match inside a snapshot.
type ThreatHuntMatch struct {
	RuleName  string     `json:"rule_name"`
	FilePath  string     `json:"file_path"`
	FileSize  *float64   `json:"file_size"`
	MatchedAt *time.Time `json:"matched_at"`
}

// ThreatHuntMatchRecord is the per-match roll-up tier: one flat row per
// indicator match across the whole hunt.
type ThreatHuntMatchRecord struct {
	HuntID       string     `json:"hunt_id"`
	ObjectID     string     `json:"object_id"`
	ObjectName   string     `json:"object_name"`
	SnapshotFID  string     `json:"snapshot_fid"`
	SnapshotDate *time.Time `json:"snapshot_date"`
	RuleName     string     `json:"rule_name"`
	FilePath     string     `json:"file_path"`
}

// ThreatHuntSnapshotSummary is the per-snapshot roll-up tier.
type ThreatHuntSnapshotSummary struct {
	HuntID       string     `json:"hunt_id"`
	ObjectID     string     `json:"object_id"`
	ObjectName   string     `json:"object_name"`
	SnapshotFID  string     `json:"snapshot_fid"`
	SnapshotDate *time.Time `json:"snapshot_date"`
	MatchCount   int        `json:"match_count"`
	ScannedFiles int        `json:"scanned_files"`
}

// ThreatHuntObjectSummary is the per-object roll-up tier.
type ThreatHuntObjectSummary struct {
	HuntID               string `json:"hunt_id"`
	ObjectID             string `json:"object_id"`
	ObjectName           string `json:"object_name"`
	ObjectType           string `json:"object_type"`
	ClusterName          string `json:"cluster_name"`
	SnapshotsScanned     int    `json:"snapshots_scanned"`
	SnapshotsWithMatches int    `json:"snapshots_with_matches"`
	MatchCount           int    `json:"match_count"`
}

// ThreatHuntSummary is the single top-level roll-up for one hunt.
type ThreatHuntSummary struct {
	HuntID               string `json:"hunt_id"`
	Name                 string `json:"name"`
	Status               string `json:"status"`
	ObjectCount          int    `json:"object_count"`
	ObjectsWithMatches   int    `json:"objects_with_matches"`
	SnapshotCount        int    `json:"snapshot_count"`
	SnapshotsWithMatches int    `json:"snapshots_with_matches"`
	MatchCount           int    `json:"match_count"`
	ScannedFileCount     int    `json:"scanned_file_count"`
}
