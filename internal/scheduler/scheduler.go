// Package scheduler triggers the content generation workflow on the cadence
// configured in the general settings.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner holding at most one generation entry. Apply
// replaces the entry, so a settings change takes effect without restart.
type Scheduler struct {
	cron     *cron.Cron
	mu       sync.Mutex
	entryID  cron.EntryID
	location *time.Location
}

// New creates a Scheduler in the given timezone.
func New(timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		location: loc,
	}, nil
}

// Apply schedules task per the settings, replacing any previous entry.
func (s *Scheduler) Apply(schedule models.ScheduleSettings, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expr, err := cronExpr(schedule)
	if err != nil {
		return err
	}

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(expr, task)
	if err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}
	s.entryID = entryID

	middleware.Logger.Info("generation scheduled",
		"frequency", schedule.Frequency, "time", schedule.Time,
		"cron", expr, "timezone", s.location.String())
	return nil
}

// Start begins the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronExpr maps a schedule to a cron expression: daily at HH:MM, or weekly
// on Monday at HH:MM.
func cronExpr(schedule models.ScheduleSettings) (string, error) {
	hour, minute, err := parseTime(schedule.Time)
	if err != nil {
		return "", err
	}

	switch schedule.Frequency {
	case models.FrequencyDaily:
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case models.FrequencyWeekly:
		return fmt.Sprintf("%d %d * * 1", minute, hour), nil
	default:
		return "", fmt.Errorf("unknown frequency %q", schedule.Frequency)
	}
}

// parseTime extracts hour and minute from HH:MM format.
func parseTime(t string) (int, int, error) {
	if len(t) != 5 || t[2] != ':' ||
		t[0] < '0' || t[0] > '9' || t[1] < '0' || t[1] > '9' ||
		t[3] < '0' || t[3] > '9' || t[4] < '0' || t[4] > '9' {
		return 0, 0, fmt.Errorf("invalid time format %q: must be HH:MM", t)
	}

	hour := int(t[0]-'0')*10 + int(t[1]-'0')
	minute := int(t[3]-'0')*10 + int(t[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: hour 0-23, minute 0-59", t)
	}
	return hour, minute, nil
}
