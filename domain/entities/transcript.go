package entities

import "strings"

// TranscriptMessage represents a single transcript event received from the
// upstream transcription service. Messages are immutable once stored; both
// interim and final variants are kept in arrival order.
type TranscriptMessage struct {
	Transcript string `json:"transcript"`
	IsFinal    bool   `json:"is_final"`
	Speaker    string `json:"speaker,omitempty"`
}

// Line formats the message for a flattened transcript, prefixing the speaker
// label in brackets when present.
func (m TranscriptMessage) Line() string {
	if m.Speaker != "" {
		return "[" + m.Speaker + "] " + m.Transcript
	}
	return m.Transcript
}

// FlattenTranscript joins stored messages into a newline-separated transcript
// suitable for summarization. Messages with empty text are skipped.
func FlattenTranscript(messages []TranscriptMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Transcript == "" {
			continue
		}
		lines = append(lines, m.Line())
	}
	return strings.Join(lines, "\n")
}
