// Package session keeps the per-session chat transcript that is injected into
// every prompt as conversation context.
package session

import "context"

// Turn markers written into a transcript. A turn is appended as
// UserPrefix + message + AIPrefix + reply.
const (
	UserPrefix = "\nUser: "
	AIPrefix   = "\nAI: "
)

// Store maps a session identifier to its accumulated transcript.
// Implementations must be safe for concurrent use.
type Store interface {
	// Context returns the transcript for id, or "" when the session is
	// unknown. Reading a known session refreshes its idle clock.
	Context(ctx context.Context, id string) (string, error)
	// Update appends one turn to the transcript of id, creating it when
	// absent. created reports whether this call created the session.
	Update(ctx context.Context, id, userMessage, reply string) (created bool, err error)
	// Reset forgets id. Resetting an unknown session is not an error.
	Reset(ctx context.Context, id string) error
	// Len reports how many sessions currently hold a transcript.
	Len() int
}

// AppendTurn returns transcript extended by one user/AI turn.
func AppendTurn(transcript, userMessage, reply string) string {
	return transcript + UserPrefix + userMessage + AIPrefix + reply
}
