package rsc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// Operation builds the paginated operation for a mapping.
func (m *Mapping) Operation(pageSize int) driven.Operation {
	return driven.Operation{
		Name:       m.Name,
		Query:      m.Query,
		Variables:  map[string]any{},
		Connection: m.Connection,
		PageSize:   pageSize,
	}
}

// MappingByName returns the mapping for a resource kind, matched
// case-insensitively.
func MappingByName(name string) (Mapping, error) {
	for _, m := range Mappings {
		if strings.EqualFold(m.Type, name) {
			return m, nil
		}
	}
	return Mapping{}, fmt.Errorf("unknown report type %q (available: %s)", name, strings.Join(MappingNames(), ", "))
}

// MappingNames lists the available resource kinds, sorted.
func MappingNames() []string {
	names := make([]string, 0, len(Mappings))
	for _, m := range Mappings {
		names = append(names, m.Type)
	}
	sort.Strings(names)
	return names
}

// Mappings declares the built-in report types. Each entry pairs a GraphQL
// query document with the field table that flattens its nodes.
var Mappings = []Mapping{
	{
		Type:       "Cluster",
		Name:       "ClusterListQuery",
		Connection: "clusterConnection",
		Query: `query ClusterListQuery($first: Int, $after: String) {
  clusterConnection(first: $first, after: $after) {
    edges {
      node {
        id
        name
        status
        version
        defaultAddress
        estimatedRunway
        snapshotCount
        lastConnectionTime
        metric {
          totalCapacity
          usedCapacity
          availableCapacity
        }
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`,
		Keys: []string{"ClusterID"},
		Fields: []Field{
			{Column: "ClusterID", Path: []string{"id"}, Kind: KindString},
			{Column: "Cluster", Path: []string{"name"}, Kind: KindString},
			{Column: "Status", Path: []string{"status"}, Kind: KindString},
			{Column: "Version", Path: []string{"version"}, Kind: KindString},
			{Column: "Address", Path: []string{"defaultAddress"}, Kind: KindString},
			{Column: "EstimatedRunwayDays", Path: []string{"estimatedRunway"}, Kind: KindNumber},
			{Column: "Snapshots", Path: []string{"snapshotCount"}, Kind: KindNumber},
			{Column: "LastConnection", Path: []string{"lastConnectionTime"}, Kind: KindTime},
			{Column: "HoursSinceLastConnection", Path: []string{"lastConnectionTime"}, Kind: KindAgeHours},
			{Column: "TotalCapacityGB", Path: []string{"metric", "totalCapacity"}, Kind: KindBytesGB},
			{Column: "UsedCapacityGB", Path: []string{"metric", "usedCapacity"}, Kind: KindBytesGB},
			{Column: "FreeCapacityGB", Path: []string{"metric", "availableCapacity"}, Kind: KindBytesGB},
		},
	},
	{
		Type:       "ObjectCapacity",
		Name:       "ObjectCapacityQuery",
		Connection: "snappableConnection",
		Query: `query ObjectCapacityQuery($first: Int, $after: String) {
  snappableConnection(first: $first, after: $after) {
    edges {
      node {
        fid
        name
        objectType
        location
        slaDomain {
          name
        }
        cluster {
          name
        }
        physicalBytes
        usedBytes
        provisionedBytes
        localStorage
        archiveStorage
        lastSnapshot
        missedSnapshots
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`,
		Keys: []string{"ObjectID"},
		Fields: []Field{
			{Column: "ObjectID", Path: []string{"fid"}, Kind: KindString},
			{Column: "Object", Path: []string{"name"}, Kind: KindString},
			{Column: "Type", Path: []string{"objectType"}, Kind: KindString},
			{Column: "Location", Path: []string{"location"}, Kind: KindString},
			{Column: "SLADomain", Path: []string{"slaDomain", "name"}, Kind: KindString},
			{Column: "Cluster", Path: []string{"cluster", "name"}, Kind: KindString},
			{Column: "PhysicalGB", Path: []string{"physicalBytes"}, Kind: KindBytesGB},
			{Column: "UsedGB", Path: []string{"usedBytes"}, Kind: KindBytesGB},
			{Column: "ProvisionedGB", Path: []string{"provisionedBytes"}, Kind: KindBytesGB},
			{Column: "LocalStorageGB", Path: []string{"localStorage"}, Kind: KindBytesGB},
			{Column: "ArchiveStorageGB", Path: []string{"archiveStorage"}, Kind: KindBytesGB},
			{Column: "LastSnapshot", Path: []string{"lastSnapshot"}, Kind: KindTime},
			{Column: "HoursSinceLastSnapshot", Path: []string{"lastSnapshot"}, Kind: KindAgeHours},
			{Column: "MissedSnapshots", Path: []string{"missedSnapshots"}, Kind: KindNumber},
		},
	},
	{
		Type:       "Anomaly",
		Name:       "AnomalyResultsQuery",
		Connection: "anomalyResults",
		Query: `query AnomalyResultsQuery($first: Int, $after: String) {
  anomalyResults(first: $first, after: $after) {
    edges {
      node {
        id
        objectType
        snappableNew {
          fid
          name
        }
        cluster {
          name
        }
        severity
        detectionTime
        snapshotDate
        anomalyProbability
        encryption
        suspiciousFilesAddedCount
        filesAddedCount
        filesModifiedCount
        filesDeletedCount
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`,
		Keys: []string{"AnomalyID"},
		Fields: []Field{
			{Column: "AnomalyID", Path: []string{"id"}, Kind: KindString},
			{Column: "ObjectID", Path: []string{"snappableNew", "fid"}, Kind: KindString},
			{Column: "Object", Path: []string{"snappableNew", "name"}, Kind: KindString},
			{Column: "Type", Path: []string{"objectType"}, Kind: KindString},
			{Column: "Cluster", Path: []string{"cluster", "name"}, Kind: KindString},
			{Column: "Severity", Path: []string{"severity"}, Kind: KindString},
			{Column: "Detected", Path: []string{"detectionTime"}, Kind: KindTime},
			{Column: "HoursSinceDetection", Path: []string{"detectionTime"}, Kind: KindAgeHours},
			{Column: "SnapshotDate", Path: []string{"snapshotDate"}, Kind: KindTime},
			{Column: "Probability", Path: []string{"anomalyProbability"}, Kind: KindNumber},
			{Column: "Encryption", Path: []string{"encryption"}, Kind: KindString},
			{Column: "SuspiciousFilesAdded", Path: []string{"suspiciousFilesAddedCount"}, Kind: KindNumber},
			{Column: "FilesAdded", Path: []string{"filesAddedCount"}, Kind: KindNumber},
			{Column: "FilesModified", Path: []string{"filesModifiedCount"}, Kind: KindNumber},
			{Column: "FilesDeleted", Path: []string{"filesDeletedCount"}, Kind: KindNumber},
		},
	},
	{
		Type:       "AzureVMDisk",
		Name:       "AzureManagedDiskQuery",
		Connection: "azureNativeManagedDisks",
		Query: `query AzureManagedDiskQuery($first: Int, $after: String) {
  azureNativeManagedDisks(first: $first, after: $after) {
    edges {
      node {
        id
        name
        region
        diskSizeGib
        diskNativeId
        subscription {
          name
        }
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`,
		Keys: []string{"DiskID"},
		Fields: []Field{
			{Column: "DiskID", Path: []string{"id"}, Kind: KindString},
			{Column: "Disk", Path: []string{"name"}, Kind: KindString},
			{Column: "Region", Path: []string{"region"}, Kind: KindString},
			{Column: "SizeGiB", Path: []string{"diskSizeGib"}, Kind: KindNumber},
			{Column: "DiskNativeID", Path: []string{"diskNativeId"}, Kind: KindString},
			// Path casing does not match what the API actually returns
			// (volumeNativeId), so this column is always null. Report
			// consumers already expect the column; keep it until the
			// schema mapping is confirmed with the product team.
			{Column: "VolumeNativeID", Path: []string{"VolumeNativeID"}, Kind: KindString},
			{Column: "Subscription", Path: []string{"subscription", "name"}, Kind: KindString},
		},
	},
	{
		Type:       "AzureTagAssignment",
		Name:       "AzureVMTagQuery",
		Connection: "azureNativeVirtualMachines",
		Query: `query AzureVMTagQuery($first: Int, $after: String) {
  azureNativeVirtualMachines(first: $first, after: $after) {
    edges {
      node {
        id
        name
        region
        subscription {
          name
        }
        tags {
          key
          value
        }
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`,
		Keys: []string{"VMID", "Tag"},
		Fields: []Field{
			{Column: "VMID", Path: []string{"id"}, Kind: KindString},
			{Column: "VM", Path: []string{"name"}, Kind: KindString},
			{Column: "Region", Path: []string{"region"}, Kind: KindString},
			{Column: "Subscription", Path: []string{"subscription", "name"}, Kind: KindString},
		},
		// Tag assignments emit one record per tag.
		FanOut: &FanOut{
			Path: []string{"tags"},
			Fields: []Field{
				{Column: "Tag", Path: []string{"key"}, Kind: KindString},
				{Column: "TagValue", Path: []string{"value"}, Kind: KindString},
			},
		},
	},
}
