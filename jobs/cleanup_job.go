package jobs

import (
	"log"

	"github.com/quizarena/backend/services"
)

// PurgeStaleSessions drops hosted quiz sessions that finished or sat idle past
// their TTL.
func PurgeStaleSessions() {
	log.Println("Running job: PurgeStaleSessions...")

	purged := services.Sessions.PurgeExpired()
	if purged == 0 {
		return
	}
	log.Printf("Purged %d stale quiz session(s).", purged)
}
