package core

import "github.com/google/uuid"

// TurnRequest is the inbound boundary from the transport layer: one user
// message bound to a logical conversation.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// TurnResponse is the terminal payload of a turn. Every terminal path
// (responding or failed) yields a well-formed response; the caller never
// sees a bare transport-level failure for an in-domain business error.
type TurnResponse struct {
	Message       string         `json:"message"`
	Visualization *Visualization `json:"visualization,omitempty"`
}

// NewID generates a unique identifier for turns and outbound messages.
func NewID() string { return uuid.NewString() }
