package wizard

import (
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

func logJanitor(message string) {
	log.Printf("[DRAFT-JANITOR %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartDraftJanitor schedules the hourly sweep of abandoned drafts.
func StartDraftJanitor() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@every 1h", func() {
		if removed := Sessions.Sweep(); removed > 0 {
			logJanitor("Swept " + strconv.Itoa(removed) + " expired draft(s)")
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule draft janitor: %v", err)
	}

	c.Start()
	logJanitor("Draft janitor started")
	return c
}
