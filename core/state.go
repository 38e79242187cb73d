package core

import "time"

// DefaultHistoryLimit bounds the retained conversation history. Older
// messages are trimmed first; the limit matches what the director can
// usefully feed the classifier.
const DefaultHistoryLimit = 20

// Message is one entry of the per-session conversation history.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the mutable record threaded through a turn. It is
// exclusively owned by the single turn holding the session lock and is
// therefore deliberately unsynchronized: all mutation happens through the
// orchestration graph applying one step's effect at a time.
//
// Fields below the working-set marker are valid for the current turn only
// and are reset by BeginTurn; everything above survives across turns until
// the session is evicted.
type ConversationState struct {
	SessionID    string    `json:"session_id"`
	Messages     []Message `json:"messages"`
	HistoryLimit int       `json:"history_limit"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`

	// Per-turn working set.
	CurrentOwner  Owner          `json:"current_owner"`
	StepCount     int            `json:"step_count"`
	Terminal      bool           `json:"terminal"`
	Visualization *Visualization `json:"visualization,omitempty"`
	Rows          Rows           `json:"rows,omitempty"`
	Columns       []string       `json:"columns,omitempty"`
	Records       *RecordSet     `json:"records,omitempty"`
	Confirmation  string         `json:"confirmation,omitempty"`
	LastFailure   *ToolFailure   `json:"last_failure,omitempty"`
	RetryCount    int            `json:"retry_count"`
}

// NewConversationState creates the state for a freshly seen session id.
func NewConversationState(sessionID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		SessionID:    sessionID,
		HistoryLimit: DefaultHistoryLimit,
		Created:      now,
		Updated:      now,
	}
}

// BeginTurn resets the working set for a new turn and appends the inbound
// user message. Any visualization from the previous turn is cleared here,
// which is what makes the at-most-one-artifact-per-turn invariant hold
// across turns.
func (s *ConversationState) BeginTurn(userMessage string) {
	s.CurrentOwner = DirectorOwner()
	s.StepCount = 0
	s.Terminal = false
	s.Visualization = nil
	s.Rows = nil
	s.Columns = nil
	s.Records = nil
	s.Confirmation = ""
	s.LastFailure = nil
	s.RetryCount = 0
	s.AddMessage("user", userMessage)
}

// AddMessage appends a message and trims history oldest-first past the limit.
func (s *ConversationState) AddMessage(role, text string) {
	limit := s.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	s.Messages = append(s.Messages, Message{Role: role, Text: text, Timestamp: time.Now().UTC()})
	if n := len(s.Messages); n > limit {
		s.Messages = append(s.Messages[:0], s.Messages[n-limit:]...)
	}
	s.Updated = time.Now().UTC()
}

// LastUserMessage returns the most recent user message text, or "".
func (s *ConversationState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == "user" {
			return s.Messages[i].Text
		}
	}
	return ""
}

// HasRows reports whether a query result is available this turn.
func (s *ConversationState) HasRows() bool { return len(s.Rows) > 0 }

// HasResult reports whether any sub-result was produced this turn. The
// director uses this to compose a final response instead of re-delegating.
func (s *ConversationState) HasResult() bool {
	return len(s.Rows) > 0 || s.Records != nil || s.Confirmation != "" || s.Visualization != nil
}
