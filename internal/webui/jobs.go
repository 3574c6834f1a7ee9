package webui

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kayz/promptbuilder/internal/logger"
)

const sessionSweepSchedule = "@every 10m"

// StartJobs schedules idle-session eviction and, when auditCleanup is set, audit
// retention on auditSchedule. Stop the returned cron on shutdown.
func (s *Server) StartJobs(auditSchedule string, auditCleanup func() error) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(sessionSweepSchedule, func() {
		if n := s.EvictIdleSessions(time.Now()); n > 0 {
			logger.Info("Evicted %d idle web sessions", n)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}

	if auditCleanup != nil {
		spec := strings.TrimSpace(auditSchedule)
		if spec == "" {
			spec = "@daily"
		}
		if _, err := c.AddFunc(spec, func() {
			if err := auditCleanup(); err != nil {
				logger.Warn("Audit cleanup failed: %v", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("schedule audit cleanup %q: %w", spec, err)
		}
	}

	c.Start()
	return c, nil
}
