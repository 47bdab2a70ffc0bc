package services

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultRetentionDays = 365

// SchedulerService runs the nightly change log retention job
type SchedulerService struct {
	changeLog     *ChangeLogService
	cron          *cron.Cron
	retentionDays int
}

// NewSchedulerService creates the scheduler. CHANGELOG_RETENTION_DAYS
// overrides the default retention window.
func NewSchedulerService(changeLog *ChangeLogService) *SchedulerService {
	retention := defaultRetentionDays
	if v := os.Getenv("CHANGELOG_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			retention = days
		} else {
			log.Printf("Ignoring invalid CHANGELOG_RETENTION_DAYS=%q", v)
		}
	}
	return &SchedulerService{
		changeLog:     changeLog,
		cron:          cron.New(),
		retentionDays: retention,
	}
}

// Start schedules the nightly prune and begins the cron loop
func (s *SchedulerService) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", s.pruneChangeLogs)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Scheduler started, change log retention %d days", s.retentionDays)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *SchedulerService) pruneChangeLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := s.changeLog.Prune(ctx, s.retentionDays)
	if err != nil {
		log.Printf("Change log prune failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Pruned %d change log entries older than %d days", deleted, s.retentionDays)
	}
}
