package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rishav-sunny/voice-summarizer/domain/entities"
	"github.com/rishav-sunny/voice-summarizer/domain/repositories"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Delay before reconnecting after the upstream event sequence breaks.
	receiveBackoff = 2 * time.Second

	// Delay between failed upstream connection attempts.
	reconnectDelay = 1 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Relay pairs one client connection with one upstream transcription
// connection. It runs three pumps: readPump consumes client frames and
// forwards audio upstream, upstreamPump consumes transcript events and fans
// them out to the store and the client, and writePump is the only goroutine
// writing to the client socket.
type Relay struct {
	conn *websocket.Conn

	// Buffered channel of client-bound JSON events.
	send chan []byte

	sessionID string
	connID    string

	transcriber repositories.LiveTranscriber
	store       repositories.TranscriptStore
	logger      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// Guards the upstream handle. Only upstreamPump replaces it; readPump
	// reads it when forwarding audio.
	mu       sync.Mutex
	upstream repositories.LiveStream

	closeOnce sync.Once
	writeDone chan struct{}
}

// HandleTranscribe upgrades the request and runs a relay session until either
// side terminates.
func HandleTranscribe(
	c echo.Context,
	sessionID string,
	transcriber repositories.LiveTranscriber,
	store repositories.TranscriptStore,
	logger *zap.Logger,
) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	relay := NewRelay(conn, sessionID, transcriber, store, logger)
	relay.Run()
	return nil
}

// NewRelay creates a relay session for an accepted client connection.
func NewRelay(
	conn *websocket.Conn,
	sessionID string,
	transcriber repositories.LiveTranscriber,
	store repositories.TranscriptStore,
	logger *zap.Logger,
) *Relay {
	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		conn:        conn,
		send:        make(chan []byte, 256),
		sessionID:   sessionID,
		connID:      uuid.NewString(),
		transcriber: transcriber,
		store:       store,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		writeDone:   make(chan struct{}),
	}
}

// Run drives the session and blocks until teardown completes. When any pump
// exits the others are cancelled, queued events are flushed and both
// connections are closed.
func (r *Relay) Run() {
	r.store.Register(r.sessionID)
	r.logger.Info("Relay session started",
		zap.String("sessionID", r.sessionID),
		zap.String("connID", r.connID))

	r.enqueueEvent(StatusEvent{Status: StatusConnectingUpstream})

	go r.writePump()
	go r.upstreamPump()
	go func() {
		<-r.ctx.Done()
		<-r.writeDone
		r.closeConnections()
	}()

	r.readPump()

	r.cancel()
	<-r.writeDone
	r.closeConnections()

	r.logger.Info("Relay session ended",
		zap.String("sessionID", r.sessionID),
		zap.String("connID", r.connID))
}

// readPump pumps audio frames from the client connection to the upstream.
func (r *Relay) readPump() {
	defer r.cancel()

	r.conn.SetReadLimit(maxMessageSize)
	r.conn.SetReadDeadline(time.Now().Add(pongWait))
	r.conn.SetPongHandler(func(string) error {
		r.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				r.logger.Error("Client connection error",
					zap.String("sessionID", r.sessionID),
					zap.Error(err))
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			r.forwardAudio(message)
		case websocket.TextMessage:
			pcm, err := DecodeLegacyAudioFrame(message)
			if err != nil {
				r.logger.Debug("Ignoring unparseable text frame", zap.Error(err))
				continue
			}
			r.forwardAudio(pcm)
		default:
			r.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// forwardAudio sends one audio frame to the current upstream connection.
// Audio arriving while the upstream is down is dropped.
func (r *Relay) forwardAudio(pcm []byte) {
	stream := r.currentUpstream()
	if stream == nil {
		return
	}
	if err := stream.Send(pcm); err != nil {
		r.logger.Warn("Failed to forward audio upstream",
			zap.String("sessionID", r.sessionID),
			zap.Error(err))
		r.enqueueEvent(ErrorEvent{Error: ErrorCodeSend, Detail: err.Error()})
	}
}

// upstreamPump maintains the upstream connection and relays its transcript
// events. Transport errors are reported to the client and followed by a
// fixed-delay reconnect; a missing credential ends the session.
func (r *Relay) upstreamPump() {
	defer r.cancel()

	for r.ctx.Err() == nil {
		stream := r.currentUpstream()
		if stream == nil {
			var err error
			stream, err = r.transcriber.Connect(r.ctx)
			if err != nil {
				if errors.Is(err, repositories.ErrMissingCredential) {
					r.logger.Error("Upstream credential not configured",
						zap.String("sessionID", r.sessionID))
					r.enqueueEvent(ErrorEvent{Error: ErrorCodeMissingCredential, Detail: err.Error()})
					return
				}
				if r.ctx.Err() != nil {
					return
				}
				r.logger.Warn("Upstream connect failed",
					zap.String("sessionID", r.sessionID),
					zap.Error(err))
				r.enqueueEvent(ErrorEvent{Error: ErrorCodeConnect, Detail: err.Error()})
				if !r.sleep(reconnectDelay) {
					return
				}
				continue
			}
			r.setUpstream(stream)
			r.enqueueEvent(StatusEvent{Status: StatusUpstreamConnected})
			r.logger.Info("Upstream connected",
				zap.String("sessionID", r.sessionID),
				zap.String("connID", r.connID))
		}

		err := r.relayEvents(stream)
		if r.ctx.Err() != nil {
			return
		}
		r.logger.Warn("Upstream receive failed",
			zap.String("sessionID", r.sessionID),
			zap.Error(err))
		r.enqueueEvent(ErrorEvent{Error: ErrorCodeReceive, Detail: err.Error()})
		r.dropUpstream(stream)
		if !r.sleep(receiveBackoff) {
			return
		}
	}
}

// relayEvents consumes the upstream event sequence until it breaks. Every
// event with transcript text is appended to the store and pushed to the
// client, interim and final alike.
func (r *Relay) relayEvents(stream repositories.LiveStream) error {
	for {
		event, err := stream.Recv()
		if err != nil {
			return err
		}
		if event.Transcript == "" {
			continue
		}

		message := entities.TranscriptMessage{
			Transcript: event.Transcript,
			IsFinal:    event.IsFinal,
		}
		r.store.Append(r.sessionID, message)
		r.enqueueEvent(message)
	}
}

// writePump pumps queued events to the client connection and keeps it alive
// with periodic pings. On cancellation it flushes what is queued and sends a
// close frame.
func (r *Relay) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(r.writeDone)
	}()

	for {
		select {
		case message := <-r.send:
			r.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				r.logger.Debug("Failed to write client event", zap.Error(err))
				r.cancel()
				return
			}

		case <-ticker.C:
			r.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				r.cancel()
				return
			}

		case <-r.ctx.Done():
			r.flushAndClose()
			return
		}
	}
}

// flushAndClose drains queued events and writes the close frame.
func (r *Relay) flushAndClose() {
	for {
		select {
		case message := <-r.send:
			r.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			r.conn.SetWriteDeadline(time.Now().Add(writeWait))
			r.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// enqueueEvent marshals an event and queues it for the client. Events are
// dropped once the session is cancelled and the queue is full.
func (r *Relay) enqueueEvent(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("Failed to marshal client event", zap.Error(err))
		return
	}
	select {
	case r.send <- payload:
	case <-r.ctx.Done():
	}
}

// sleep waits for the given delay, returning false when the session is
// cancelled first.
func (r *Relay) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Relay) currentUpstream() repositories.LiveStream {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upstream
}

func (r *Relay) setUpstream(stream repositories.LiveStream) {
	r.mu.Lock()
	r.upstream = stream
	r.mu.Unlock()
}

// dropUpstream clears the shared handle and closes the dead connection so the
// sender pump stops forwarding into it before the reconnect.
func (r *Relay) dropUpstream(stream repositories.LiveStream) {
	r.mu.Lock()
	if r.upstream == stream {
		r.upstream = nil
	}
	r.mu.Unlock()

	if err := stream.Close(); err != nil {
		r.logger.Debug("Upstream close failed", zap.Error(err))
	}
}

// closeConnections tears both connections down. Close failures are logged
// and never propagated.
func (r *Relay) closeConnections() {
	r.closeOnce.Do(func() {
		if stream := r.currentUpstream(); stream != nil {
			if err := stream.Close(); err != nil {
				r.logger.Debug("Upstream close failed", zap.Error(err))
			}
		}
		if err := r.conn.Close(); err != nil {
			r.logger.Debug("Client close failed", zap.Error(err))
		}
	})
}
