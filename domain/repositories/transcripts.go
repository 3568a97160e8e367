package repositories

import "github.com/rishav-sunny/voice-summarizer/domain/entities"

// TranscriptStore keeps per-session transcript history.
//
// Append creates the session entry if it does not exist yet. ReadAll returns
// a snapshot of the stored messages in append order, or an empty slice for an
// unknown session. Implementations must be safe for concurrent use: multiple
// relay sessions can share a session identifier and append while the
// summarizer reads.
type TranscriptStore interface {
	// Register creates the session entry if absent. Relay sessions call it
	// once at connection time so summarization of a silent session sees an
	// existing, empty sequence.
	Register(sessionID string)
	Append(sessionID string, message entities.TranscriptMessage)
	ReadAll(sessionID string) []entities.TranscriptMessage
}
