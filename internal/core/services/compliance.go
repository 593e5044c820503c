package services

import (
	"context"
	"time"

	"github.com/joshuastenhouse/rscreporting-go/internal/connectors/rsc"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

const (
	// DefaultBackupWindowHour anchors compliance windows at 20:00.
	DefaultBackupWindowHour = 20

	// DefaultComplianceDays is the default report depth.
	DefaultComplianceDays = 7
)

// ComplianceOptions configure one compliance window report.
type ComplianceOptions struct {
	// ObjectID is the protected object to report on.
	ObjectID string

	// Days is the number of 24-hour windows, newest first.
	Days int

	// AnchorHour and AnchorMinute fix the clock time each window ends at.
	AnchorHour   int
	AnchorMinute int

	// Now overrides the reference time; zero means time.Now.
	Now time.Time
}

// ComplianceService computes per-day backup presence from an object's
// snapshot list.
type ComplianceService struct {
	queryer driven.Queryer
}

// NewComplianceService creates a compliance service.
func NewComplianceService(queryer driven.Queryer) *ComplianceService {
	return &ComplianceService{queryer: queryer}
}

// Windows fetches the object's snapshots and emits one window per day.
func (s *ComplianceService) Windows(
	ctx context.Context,
	session *domain.SessionContext,
	opts ComplianceOptions,
) ([]domain.ComplianceWindow, error) {
	if err := RequireSession(session); err != nil {
		return nil, err
	}
	if opts.ObjectID == "" {
		return nil, domain.ErrInvalidInput
	}

	nodes, err := s.queryer.FetchAll(ctx, rsc.SnapshotListOperation(opts.ObjectID))
	if err != nil {
		return nil, err
	}
	snapshots, err := rsc.DecodeSnapshotDates(nodes)
	if err != nil {
		return nil, err
	}

	return ComputeComplianceWindows(opts.ObjectID, snapshots, opts), nil
}

// ComputeComplianceWindows derives one ComplianceWindow per day from a
// snapshot timestamp list.
//
// Windows end at the configured clock time, not at midnight: a single
// early-morning backup can satisfy yesterday's window and not today's, so
// anchoring to calendar days misreports exactly the objects a backup
// report is meant to catch. Window i covers
// [anchor - (i+1)*24h, anchor - i*24h).
func ComputeComplianceWindows(objectID string, snapshots []time.Time, opts ComplianceOptions) []domain.ComplianceWindow {
	days := opts.Days
	if days <= 0 {
		days = DefaultComplianceDays
	}
	hour := opts.AnchorHour
	if hour == 0 && opts.AnchorMinute == 0 {
		hour = DefaultBackupWindowHour
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	anchor := time.Date(now.Year(), now.Month(), now.Day(), hour, opts.AnchorMinute, 0, 0, now.Location())

	windows := make([]domain.ComplianceWindow, 0, days)
	for i := 0; i < days; i++ {
		w := domain.ComplianceWindow{
			ObjectID:   objectID,
			DayIndex:   i + 1,
			RangeStart: anchor.Add(-time.Duration(i) * 24 * time.Hour),
			RangeEnd:   anchor.Add(-time.Duration(i+1) * 24 * time.Hour),
		}
		for _, ts := range snapshots {
			if w.Contains(ts) {
				w.BackupFound = true
				break
			}
		}
		windows = append(windows, w)
	}
	return windows
}
