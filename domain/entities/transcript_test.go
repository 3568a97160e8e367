package entities

import "testing"

func TestTranscriptMessageLine(t *testing.T) {
	tests := []struct {
		name    string
		message TranscriptMessage
		want    string
	}{
		{
			name:    "without speaker",
			message: TranscriptMessage{Transcript: "hello world"},
			want:    "hello world",
		},
		{
			name:    "with speaker",
			message: TranscriptMessage{Transcript: "hello world", Speaker: "alice"},
			want:    "[alice] hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.message.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenTranscript(t *testing.T) {
	messages := []TranscriptMessage{
		{Transcript: "let's get started", IsFinal: true},
		{Transcript: ""},
		{Transcript: "agreed", IsFinal: true, Speaker: "bob"},
	}

	want := "let's get started\n[bob] agreed"
	if got := FlattenTranscript(messages); got != want {
		t.Errorf("FlattenTranscript() = %q, want %q", got, want)
	}
}

func TestFlattenTranscript_Empty(t *testing.T) {
	if got := FlattenTranscript(nil); got != "" {
		t.Errorf("Expected empty transcript, got %q", got)
	}
}
