package detector

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"gatekeeper/internal/config"
	"gatekeeper/internal/support"
)

const detectionLeaderKey = "gatekeeper:leader:detection"

// StartDetectionRoutine runs detection passes on the configured interval.
// A Redis leadership lock makes sure only one instance scans the log at a
// time; a failed run produces no updates and is retried next cycle.
func (d *Detector) StartDetectionRoutine(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	err := support.RunWithLeader(ctx, detectionLeaderKey, support.DefaultLeadershipTTL, func(leaderCtx context.Context) {
		d.runLoop(leaderCtx)
	})
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	// No Redis means no leadership lock; a single-instance deployment still
	// needs its detection loop.
	log.Warn("Detection leadership unavailable, running without lock", "error", err)
	d.runLoop(ctx)
}

func (d *Detector) runLoop(ctx context.Context) {
	updates := config.DetectionIntervalUpdates()
	interval := <-updates

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case newInterval := <-updates:
			if newInterval <= 0 || newInterval == interval {
				continue
			}
			interval = newInterval
			ticker.Reset(interval)
		case <-ticker.C:
			summary, err := d.Run(time.Now())
			if err != nil {
				log.Error("Detection run failed", "error", err)
				continue
			}
			log.Info("Detection run completed",
				"since", summary.Since,
				"flagged_total", summary.FlaggedTotal,
				"new_or_updated", summary.NewOrUpdatedThisRun,
			)
		}
	}
}
