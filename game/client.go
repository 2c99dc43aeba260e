package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = time.Minute
	pingInterval = 30 * time.Second
	maxFrameSize = 4096
	outboxSize   = 256
)

// Client is one websocket session. Events for the client go through a
// buffered outbox drained by WritePump; a slow consumer drops events
// rather than blocking the room.
type Client struct {
	sid     string
	conn    *websocket.Conn
	rooms   *Rooms
	limiter *rate.Limiter
	log     zerolog.Logger

	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, rooms *Rooms, log zerolog.Logger) *Client {
	sid := uuid.NewString()
	conn.SetReadLimit(maxFrameSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &Client{
		sid:     sid,
		conn:    conn,
		rooms:   rooms,
		limiter: rate.NewLimiter(2, 5),
		log:     log.With().Str("sid", sid).Logger(),
		outbox:  make(chan []byte, outboxSize),
		done:    make(chan struct{}),
	}
}

func (c *Client) SID() string { return c.sid }

// Emit queues one event for the client. Never blocks.
func (c *Client) Emit(event string, data any) {
	payload, err := json.Marshal(ServerEnvelope{Event: event, Data: data})
	if err != nil {
		c.log.Error().Err(err).Str("event", event).Msg("could not encode event")
		return
	}
	select {
	case c.outbox <- payload:
	default:
		c.log.Warn().Str("event", event).Msg("outbox full, dropping event")
	}
}

// ReadPump consumes inbound frames and dispatches them until the
// connection drops, then tears the session down.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.rooms.Disconnect(c)
		c.closeOnce.Do(func() { close(c.done) })
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env ClientEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}
		c.dispatch(ctx, env)
	}
}

func (c *Client) dispatch(ctx context.Context, env ClientEnvelope) {
	switch env.Event {
	case EventJoinRoom:
		var p JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		c.rooms.Join(c, p)

	case EventMakeGuess:
		if !c.limiter.Allow() {
			c.Emit(EventGuessError, Notice{Msg: "Too many guesses, slow down"})
			return
		}
		var p GuessPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		c.rooms.MakeGuess(ctx, c, p)

	case EventRequestHint:
		var p HintPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		c.rooms.RequestHint(ctx, c, p)
	}
}

// WritePump serializes all writes to the connection: queued events, pings,
// and the close handshake once the session ends.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.outbox:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
