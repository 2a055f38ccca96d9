// Package jobs runs the scheduled maintenance work.
package jobs

import (
	"ChemoOrder/services"
	"log"

	"github.com/robfig/cron/v3"
)

// StartCleanupScheduler sweeps expired shared images once at startup and
// then every day shortly after midnight. The returned cron must be stopped
// on shutdown.
func StartCleanupScheduler(share *services.ShareService) (*cron.Cron, error) {
	sweep := func() {
		removed, err := share.CleanupExpired()
		if err != nil {
			log.Printf("Shared image cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Shared image cleanup removed %d expired images", removed)
		}
	}

	sweep()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("5 0 * * *", sweep); err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
