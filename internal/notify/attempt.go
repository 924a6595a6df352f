package notify

import "time"

// Outcome is the terminal state of one recipient's delivery within a run.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSent
	OutcomeBlocked
	OutcomeNotFound
	OutcomeRateLimited // observed mid-delivery; re-queues as pending
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSent:
		return "sent"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// delivered reports whether the message reached the recipient.
func (o Outcome) delivered() bool { return o == OutcomeSent }

// Attempt is the per-recipient accounting record of one run. Ephemeral:
// logged and counted, never persisted.
type Attempt struct {
	UserID  int64
	Outcome Outcome
	Retries int
}

// Summary is the accounting of one dispatch run.
type Summary struct {
	RunID   string
	UTCHour int
	Sent    int
	Failed  int
	Total   int
	Elapsed time.Duration
}
