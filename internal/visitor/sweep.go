package visitor

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleSweep registers a cron job that evicts expired entries from m.
func ScheduleSweep(c *cron.Cron, schedule string, m *MemoryStore, logger *slog.Logger) (cron.EntryID, error) {
	return c.AddFunc(schedule, func() {
		if removed := m.Sweep(time.Now()); removed > 0 {
			logger.Info("swept expired quiz progress", "removed", removed, "remaining", m.Len())
		}
	})
}
