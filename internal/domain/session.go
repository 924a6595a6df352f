package domain

// SessionState tracks one activity-entry conversation.
type SessionState int

const (
	StateAwaitingInput SessionState = iota
	StateValidating
	StateCommitted
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateValidating:
		return "validating"
	case StateCommitted:
		return "committed"
	}
	return "unknown"
}

// Session is one user's in-flight activity entry: the open window plus where
// the conversation stands. One session per user at a time; the window is
// never shared across sessions.
type Session struct {
	UserID    int64
	State     SessionState
	Window    *OpenWindow
	FirstTime bool
}

// NewSession opens an entry session over an already-computed window.
func NewSession(userID int64, win *OpenWindow, firstTime bool) *Session {
	return &Session{
		UserID:    userID,
		State:     StateAwaitingInput,
		Window:    win,
		FirstTime: firstTime,
	}
}

// Submit parses the user's text against the session window and, when the
// whole window is covered, hands the entries to commit (the storage write).
// A validation or commit failure returns the session to AwaitingInput with
// the window unchanged; only a successful commit consumes the window and
// moves the session to Committed.
func (s *Session) Submit(text string, commit func([]Entry) error) error {
	s.State = StateValidating

	entries, consumed, err := ParseSubmission(text, s.Window)
	if err != nil {
		s.State = StateAwaitingInput
		return err
	}
	if err := commit(entries); err != nil {
		s.State = StateAwaitingInput
		return err
	}

	s.Window = consumed
	s.State = StateCommitted
	return nil
}
