package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rishav-sunny/voice-summarizer/domain/repositories"
)

const (
	// Keepalive probing on the upstream connection.
	pingInterval = 20 * time.Second
	pongWait     = 20 * time.Second

	// Time allowed to write a frame to Deepgram.
	writeWait = 10 * time.Second

	// Maximum message size allowed from Deepgram.
	maxMessageSize = 10 * 1024 * 1024
)

// Config contains Deepgram live transcription settings. Audio parameters are
// fixed: mono 16-bit linear PCM at the configured sample rate.
type Config struct {
	APIKey     string
	URL        string // defaults to the public Deepgram endpoint
	SampleRate int    // defaults to 16000
}

// Deepgram implements repositories.LiveTranscriber against the Deepgram
// realtime listen API.
type Deepgram struct {
	config Config
	logger *zap.Logger
}

// NewDeepgram creates a Deepgram live transcription client.
func NewDeepgram(config Config, logger *zap.Logger) *Deepgram {
	if config.URL == "" {
		config.URL = "wss://api.deepgram.com/v1/listen"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 16000
	}
	return &Deepgram{
		config: config,
		logger: logger,
	}
}

// Connect dials the Deepgram realtime endpoint. It returns
// repositories.ErrMissingCredential when no API key is configured and a
// wrapped dial error on network or protocol failure.
func (d *Deepgram) Connect(ctx context.Context) (repositories.LiveStream, error) {
	if d.config.APIKey == "" {
		return nil, repositories.ErrMissingCredential
	}

	endpoint, err := url.Parse(d.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Deepgram URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("encoding", "linear16")
	query.Set("sample_rate", strconv.Itoa(d.config.SampleRate))
	query.Set("channels", "1")
	endpoint.RawQuery = query.Encode()

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.config.APIKey)
	headers.Set("Accept", "application/json")

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to Deepgram (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to Deepgram: %w", err)
	}

	stream := &deepgramStream{
		conn:   conn,
		logger: d.logger,
		done:   make(chan struct{}),
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait + pingInterval))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait + pingInterval))
		return nil
	})
	go stream.keepalive()

	return stream, nil
}

// transcriptPayload mirrors the nested structure of Deepgram live responses.
type transcriptPayload struct {
	IsFinal bool `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string            `json:"transcript"`
			Words      []json.RawMessage `json:"words"`
		} `json:"alternatives"`
	} `json:"channel"`
}

type deepgramStream struct {
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Send forwards raw audio bytes to Deepgram.
func (s *deepgramStream) Send(audio []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to send audio to Deepgram: %w", err)
	}
	return nil
}

// Recv blocks until the next decodable transcript payload arrives. Malformed
// payloads are dropped without surfacing an error. A read error ends the
// event sequence; the caller owns the reconnect decision.
func (s *deepgramStream) Recv() (repositories.TranscriptEvent, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return repositories.TranscriptEvent{}, fmt.Errorf("failed to receive from Deepgram: %w", err)
		}

		var payload transcriptPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			s.logger.Debug("Dropping malformed Deepgram payload", zap.Error(err))
			continue
		}
		if len(payload.Channel.Alternatives) == 0 {
			continue
		}

		alt := payload.Channel.Alternatives[0]
		return repositories.TranscriptEvent{
			Transcript: alt.Transcript,
			// Deepgram marks finality with a top-level flag; word-level
			// timing data must also be present for the event to count as
			// final.
			IsFinal: alt.Words != nil && payload.IsFinal,
		}, nil
	}
}

// Close shuts the connection down. Safe to call more than once.
func (s *deepgramStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// keepalive sends periodic pings so Deepgram keeps the connection open during
// audio gaps. It stops when the stream is closed or a ping fails.
func (s *deepgramStream) keepalive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
