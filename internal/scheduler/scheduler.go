package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"real-estate-dashboard/internal/cleanup"
)

// Scheduler runs the daily archive cleanup job.
type Scheduler struct {
	cron      *cron.Cron
	cleanup   *cleanup.Service
	enabled   bool
	runTime   string
	cfg       cleanup.Config
	isRunning bool
}

func NewScheduler(svc *cleanup.Service, enabled bool, runTime string, cfg cleanup.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		cleanup: svc,
		enabled: enabled,
		runTime: runTime,
		cfg:     cfg,
	}
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.enabled {
		log.Println("Scheduler: daily cleanup is disabled in configuration")
		return nil
	}

	cronSpec := parseDailyRunTime(s.runTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: starting daily cleanup job...")
		result, err := s.cleanup.Run(s.cfg)
		if err != nil {
			log.Printf("Scheduler: daily cleanup failed: %v", err)
			return
		}
		log.Printf("Scheduler: daily cleanup completed: %d/%d deleted",
			result.DeletedCount, result.TargetCount)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: started with daily cleanup at %s (cron: %s)", s.runTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: stopped")
	}
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "03:30" -> "30 3 * * *" (run at 3:30 AM every day)
func parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Fall back to 3 AM on an unparseable time.
	log.Printf("Scheduler: invalid daily run time %q, defaulting to 03:00", timeStr)
	return "0 3 * * *"
}
