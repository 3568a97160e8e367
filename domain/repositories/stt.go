package repositories

import (
	"context"
	"errors"
)

// ErrMissingCredential indicates the transcription service credential is not
// configured. Connection attempts cannot succeed, so callers must not retry.
var ErrMissingCredential = errors.New("missing transcription service credential")

// LiveTranscriber abstracts a realtime speech-to-text service.
type LiveTranscriber interface {
	// Connect opens a persistent duplex connection to the transcription
	// service. It fails fast when no credential is configured.
	Connect(ctx context.Context) (LiveStream, error)
}

// LiveStream is a single live transcription connection. Audio goes in via
// Send, decoded transcript events come out via Recv. Recv returns an error
// when the connection closes or breaks; that ends the event sequence and the
// caller decides whether to reconnect.
type LiveStream interface {
	Send(audio []byte) error
	Recv() (TranscriptEvent, error)
	Close() error
}

// TranscriptEvent is one decoded transcript payload from the upstream service.
type TranscriptEvent struct {
	Transcript string
	IsFinal    bool
}
