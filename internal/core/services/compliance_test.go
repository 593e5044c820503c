package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
)

func TestComputeComplianceWindowsSingleSnapshot(t *testing.T) {
	now := time.Date(2024, 7, 10, 9, 30, 0, 0, time.UTC)
	// Three days back, one hour past the 20:00 anchor: lands in exactly
	// one window.
	snapshot := time.Date(2024, 7, 7, 21, 0, 0, 0, time.UTC)

	windows := ComputeComplianceWindows("obj-1", []time.Time{snapshot}, ComplianceOptions{
		Days: 7,
		Now:  now,
	})

	require.Len(t, windows, 7)
	found := 0
	for _, w := range windows {
		if w.BackupFound {
			found++
			assert.True(t, w.Contains(snapshot))
		}
	}
	assert.Equal(t, 1, found, "one snapshot satisfies exactly one window")
}

func TestComputeComplianceWindowsBoundaries(t *testing.T) {
	now := time.Date(2024, 7, 10, 9, 30, 0, 0, time.UTC)
	anchor := time.Date(2024, 7, 10, 20, 0, 0, 0, time.UTC)

	windows := ComputeComplianceWindows("obj-1", nil, ComplianceOptions{Days: 2, Now: now})

	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[0].DayIndex)
	assert.Equal(t, anchor, windows[0].RangeStart)
	assert.Equal(t, anchor.Add(-24*time.Hour), windows[0].RangeEnd)
	assert.Equal(t, anchor.Add(-24*time.Hour), windows[1].RangeStart)
	assert.Equal(t, anchor.Add(-48*time.Hour), windows[1].RangeEnd)

	// Windows are half-open: the end of the range is excluded, the start
	// boundary of the next day belongs to the newer window.
	assert.True(t, windows[1].Contains(anchor.Add(-48*time.Hour)))
	assert.False(t, windows[1].Contains(anchor.Add(-24*time.Hour)))
	assert.True(t, windows[0].Contains(anchor.Add(-24*time.Hour)))
	assert.False(t, windows[0].Contains(anchor))
}

func TestComputeComplianceWindowsDefaults(t *testing.T) {
	now := time.Date(2024, 7, 10, 9, 30, 0, 0, time.UTC)

	windows := ComputeComplianceWindows("obj-1", nil, ComplianceOptions{Now: now})

	require.Len(t, windows, DefaultComplianceDays)
	assert.Equal(t, DefaultBackupWindowHour, windows[0].RangeStart.Hour())
	assert.Equal(t, 0, windows[0].RangeStart.Minute())
}

func TestComputeComplianceWindowsCustomAnchor(t *testing.T) {
	now := time.Date(2024, 7, 10, 9, 30, 0, 0, time.UTC)

	windows := ComputeComplianceWindows("obj-1", nil, ComplianceOptions{
		Days:         1,
		AnchorHour:   6,
		AnchorMinute: 15,
		Now:          now,
	})

	require.Len(t, windows, 1)
	assert.Equal(t, 6, windows[0].RangeStart.Hour())
	assert.Equal(t, 15, windows[0].RangeStart.Minute())
}

func TestComplianceServiceWindows(t *testing.T) {
	queryer := &mockQueryer{nodes: []json.RawMessage{
		json.RawMessage(`{"id":"snap-1","date":"2024-07-09T21:00:00Z"}`),
		json.RawMessage(`{"id":"snap-2","date":null}`),
	}}
	svc := NewComplianceService(queryer)

	windows, err := svc.Windows(context.Background(), connectedSession(), ComplianceOptions{
		ObjectID: "obj-1",
		Days:     2,
		Now:      time.Date(2024, 7, 10, 9, 30, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "SnapshotListQuery", queryer.lastOp.Name)
	assert.Equal(t, "obj-1", queryer.lastOp.Variables["snappableId"])
	assert.True(t, windows[0].BackupFound)
	assert.False(t, windows[1].BackupFound)
}

func TestComplianceServiceValidation(t *testing.T) {
	svc := NewComplianceService(&mockQueryer{})

	_, err := svc.Windows(context.Background(), nil, ComplianceOptions{ObjectID: "obj-1"})
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = svc.Windows(context.Background(), connectedSession(), ComplianceOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
