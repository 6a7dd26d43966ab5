package jobs

import (
	"log"

	"github.com/edukit/quizdesk/session"
)

// ExpireStaleSessions force-submits timed sessions whose countdown passed
// without the client ever submitting — closed laptop, dropped connection.
// Whatever answers were recorded before expiry get persisted; sessions
// whose submit keeps failing stay TimedOut and are retried next run.
func ExpireStaleSessions() {
	expired := session.DefaultManager.Expired()
	if len(expired) == 0 {
		return
	}

	log.Printf("Running job: ExpireStaleSessions, %d session(s) past deadline...", len(expired))
	for _, s := range expired {
		s.ForceTimeout()
		if s.State() == session.StateSubmitted {
			session.DefaultManager.Remove(s.StudentID, s.QuizID)
		}
	}

	if n := session.DefaultManager.ReapSubmitted(); n > 0 {
		log.Printf("Reaped %d finished session(s).", n)
	}
}
