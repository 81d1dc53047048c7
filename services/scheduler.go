// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecopulse/utils"

	"github.com/go-co-op/gocron/v2"
)

// SnapshotUploader stores an archived leaderboard and returns where it lives.
type SnapshotUploader interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}

// ExportSnapshot builds the current leaderboard and uploads it.
func (s *EcoService) ExportSnapshot(ctx context.Context, up SnapshotUploader) (string, error) {
	snap, err := s.SnapshotLeaderboard(ctx)
	if err != nil {
		return "", err
	}
	key := utils.SnapshotKey(snap.WeekStart, snap.ID)
	url, err := up.PutJSON(ctx, key, snap)
	if err != nil {
		return "", fmt.Errorf("upload snapshot %s: %w", key, err)
	}
	return url, nil
}

// StartSnapshotScheduler archives the leaderboard every Sunday at 00:05, just
// after the weekly streak window rolls over. The caller owns Shutdown.
func (s *EcoService) StartSnapshotScheduler(ctx context.Context, up SnapshotUploader) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(s.Engine.Location()))
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.WeeklyJob(1,
			gocron.NewWeekdays(time.Sunday),
			gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0)),
		),
		gocron.NewTask(func() {
			url, err := s.ExportSnapshot(ctx, up)
			if err != nil {
				log.Printf("[Scheduler] leaderboard snapshot failed: %v", err)
				return
			}
			log.Printf("✅ Leaderboard snapshot archived: %s", url)
		}),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
