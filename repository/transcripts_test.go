package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rishav-sunny/voice-summarizer/domain/entities"
)

func TestInMemoryTranscriptStore_AppendOrder(t *testing.T) {
	store := NewInMemoryTranscriptStore()

	messages := []entities.TranscriptMessage{
		{Transcript: "first", IsFinal: false},
		{Transcript: "second", IsFinal: true},
		{Transcript: "third", IsFinal: false},
		{Transcript: "third", IsFinal: true},
	}
	for _, m := range messages {
		store.Append("session-1", m)
	}

	got := store.ReadAll("session-1")
	if len(got) != len(messages) {
		t.Fatalf("Expected %d messages, got %d", len(messages), len(got))
	}
	for i, m := range messages {
		if got[i] != m {
			t.Errorf("Message %d: expected %+v, got %+v", i, m, got[i])
		}
	}
}

func TestInMemoryTranscriptStore_UnknownSession(t *testing.T) {
	store := NewInMemoryTranscriptStore()

	got := store.ReadAll("never-seen")
	if len(got) != 0 {
		t.Errorf("Expected empty snapshot for unknown session, got %d messages", len(got))
	}
}

func TestInMemoryTranscriptStore_Register(t *testing.T) {
	store := NewInMemoryTranscriptStore()

	store.Register("session-1")
	if got := store.ReadAll("session-1"); len(got) != 0 {
		t.Errorf("Expected empty sequence after register, got %d messages", len(got))
	}

	// Registering again must not reset the sequence
	store.Append("session-1", entities.TranscriptMessage{Transcript: "hello"})
	store.Register("session-1")
	if got := store.ReadAll("session-1"); len(got) != 1 {
		t.Errorf("Expected 1 message after re-register, got %d", len(got))
	}
}

func TestInMemoryTranscriptStore_SnapshotIsolation(t *testing.T) {
	store := NewInMemoryTranscriptStore()

	store.Append("session-1", entities.TranscriptMessage{Transcript: "original"})
	snapshot := store.ReadAll("session-1")
	snapshot[0].Transcript = "mutated"

	got := store.ReadAll("session-1")
	if got[0].Transcript != "original" {
		t.Errorf("Snapshot mutation leaked into the store: %q", got[0].Transcript)
	}
}

func TestInMemoryTranscriptStore_ConcurrentAppends(t *testing.T) {
	store := NewInMemoryTranscriptStore()

	const pumps = 8
	const perPump = 200

	var wg sync.WaitGroup
	for p := 0; p < pumps; p++ {
		wg.Add(1)
		go func(pump int) {
			defer wg.Done()
			for i := 0; i < perPump; i++ {
				store.Append("shared-session", entities.TranscriptMessage{
					Transcript: fmt.Sprintf("pump-%d-msg-%d", pump, i),
				})
			}
		}(p)
	}
	wg.Wait()

	got := store.ReadAll("shared-session")
	if len(got) != pumps*perPump {
		t.Errorf("Expected %d messages after concurrent appends, got %d", pumps*perPump, len(got))
	}
}
