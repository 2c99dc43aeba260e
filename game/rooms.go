package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Emitter is one connected client as seen by the orchestrator.
type Emitter interface {
	SID() string
	Emit(event string, data any)
}

// Room is one game: a target (inside the engine), the roster and the
// shared guess log. A room starts initializing and becomes ready at most
// once; it never re-initializes.
type Room struct {
	id     string
	engine *Engine

	mu      sync.Mutex
	clients map[string]Emitter  // keyed by session id
	players map[string]struct{} // roster, keyed by player name
	guesses []GuessRecord
	ready   bool
}

func newRoom(id string, engine *Engine) *Room {
	return &Room{
		id:      id,
		engine:  engine,
		clients: make(map[string]Emitter),
		players: make(map[string]struct{}),
	}
}

// broadcast sends an event to every client currently in the room. The
// client set is copied under the lock; the sends happen outside it.
func (r *Room) broadcast(event string, data any) {
	r.mu.Lock()
	clients := make([]Emitter, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.Emit(event, data)
	}
}

// snapshotLocked captures the room state for a room_state event. Caller
// holds r.mu.
func (r *Room) snapshotLocked() RoomState {
	state := RoomState{
		Guesses: make([]GuessRecord, len(r.guesses)),
		Players: r.playersLocked(),
		Ready:   r.ready,
	}
	copy(state.Guesses, r.guesses)
	if r.ready {
		state.TotalWords = r.engine.TotalWords()
	}
	return state
}

func (r *Room) playersLocked() []string {
	players := make([]string, 0, len(r.players))
	for name := range r.players {
		players = append(players, name)
	}
	sort.Strings(players)
	return players
}

type sessionInfo struct {
	roomID     string
	playerName string
}

// Rooms maps room ids to rooms and drives their lifecycle.
type Rooms struct {
	newEngine   func() *Engine
	initTimeout time.Duration
	log         zerolog.Logger

	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions map[string]sessionInfo // session id -> membership, for disconnects
}

func NewRooms(newEngine func() *Engine, initTimeout time.Duration, log zerolog.Logger) *Rooms {
	return &Rooms{
		newEngine:   newEngine,
		initTimeout: initTimeout,
		log:         log.With().Str("component", "rooms").Logger(),
		rooms:       make(map[string]*Room),
		sessions:    make(map[string]sessionInfo),
	}
}

func (o *Rooms) get(roomID string) *Room {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.rooms[roomID]
}

// Join adds the client to the room, creating it on first sight. Creating
// kicks off background initialization; joining never waits for it. The
// joining client alone receives the current snapshot.
func (o *Rooms) Join(c Emitter, p JoinPayload) {
	if p.RoomID == "" || p.PlayerName == "" {
		c.Emit(EventError, Notice{Msg: "room_id and player_name required"})
		return
	}

	o.mu.Lock()
	r, ok := o.rooms[p.RoomID]
	if !ok {
		r = newRoom(p.RoomID, o.newEngine())
		o.rooms[p.RoomID] = r
		o.log.Info().Str("room", p.RoomID).Str("target", p.TargetWord).Msg("creating room")
		go o.initialize(r, p.TargetWord)
	}
	o.sessions[c.SID()] = sessionInfo{roomID: p.RoomID, playerName: p.PlayerName}
	o.mu.Unlock()

	r.mu.Lock()
	r.clients[c.SID()] = c
	r.players[p.PlayerName] = struct{}{}
	state := r.snapshotLocked()
	r.mu.Unlock()

	r.broadcast(EventPlayerJoined, RosterUpdate{PlayerName: p.PlayerName, Players: state.Players})
	c.Emit(EventRoomState, state)
}

// initialize runs the engine's one-time precompute and flips the room to
// ready. Fire-and-forget relative to Join, bounded by initTimeout; on
// failure the room reports a fatal error and stays not ready.
func (o *Rooms) initialize(r *Room, targetWord string) {
	ctx, cancel := context.WithTimeout(context.Background(), o.initTimeout)
	defer cancel()

	progress := func(msg string) {
		r.broadcast(EventRoomLoading, Notice{Msg: msg})
	}

	if err := r.engine.Initialize(ctx, targetWord, progress); err != nil {
		o.log.Error().Err(err).Str("room", r.id).Msg("room initialization failed")
		r.broadcast(EventError, Notice{Msg: "Failed to initialize room"})
		return
	}

	r.mu.Lock()
	r.ready = true
	state := r.snapshotLocked()
	r.mu.Unlock()

	o.log.Info().Str("room", r.id).Int("total_words", state.TotalWords).Msg("room ready")
	r.broadcast(EventRoomLoading, Notice{Msg: ""})
	r.broadcast(EventRoomState, state)
}

// MakeGuess evaluates a guess and broadcasts the outcome to the room.
// Every result is broadcast so the requester always sees it; only the
// first occurrence of a display word is kept in the log.
func (o *Rooms) MakeGuess(ctx context.Context, c Emitter, p GuessPayload) {
	if p.RoomID == "" || p.Guess == "" {
		return
	}

	r := o.get(p.RoomID)
	if r == nil {
		c.Emit(EventError, Notice{Msg: "Room not found"})
		return
	}

	r.mu.Lock()
	ready := r.ready
	r.mu.Unlock()
	if !ready {
		c.Emit(EventGuessError, Notice{Msg: "Room is still initializing"})
		return
	}

	res, err := r.engine.ProcessGuess(ctx, p.Guess)
	if err != nil {
		if ge, ok := AsGuessError(err); ok {
			c.Emit(EventGuessError, Notice{Msg: ge.Error()})
			return
		}
		o.log.Error().Err(err).Str("room", r.id).Str("guess", p.Guess).Msg("guess evaluation failed")
		c.Emit(EventError, Notice{Msg: "Internal server error during guess"})
		return
	}

	record := GuessRecord{
		Word:       res.DisplayWord,
		RawGuess:   res.RawGuess,
		Similarity: res.Similarity,
		Rank:       res.Rank,
		PlayerName: p.PlayerName,
		IsCorrect:  res.IsCorrect,
		Top10:      res.Top10,
	}

	r.mu.Lock()
	seen := false
	for _, g := range r.guesses {
		if g.Word == record.Word {
			seen = true
			break
		}
	}
	if !seen {
		r.guesses = append(r.guesses, record)
	}
	r.mu.Unlock()

	r.broadcast(EventNewGuess, record)
}

// RequestHint picks a hint from the room's best guess so far and plays it
// through the normal guess path, attributed to the requester, so hints get
// identical validation, dedup and broadcast handling.
func (o *Rooms) RequestHint(ctx context.Context, c Emitter, p HintPayload) {
	if p.RoomID == "" || p.PlayerName == "" {
		return
	}

	r := o.get(p.RoomID)
	if r == nil {
		return
	}

	r.mu.Lock()
	ready := r.ready
	best := 0
	for _, g := range r.guesses {
		if g.Rank > 0 && (best == 0 || g.Rank < best) {
			best = g.Rank
		}
	}
	r.mu.Unlock()

	if !ready {
		return
	}

	hint := r.engine.HintWord(best)
	if hint == "" {
		return
	}
	o.MakeGuess(ctx, c, GuessPayload{RoomID: p.RoomID, PlayerName: p.PlayerName, Guess: hint})
}

// Disconnect removes the client's membership and announces the roster
// change. The guess log and engine are untouched.
func (o *Rooms) Disconnect(c Emitter) {
	o.mu.Lock()
	info, ok := o.sessions[c.SID()]
	delete(o.sessions, c.SID())
	r := o.rooms[info.roomID]
	o.mu.Unlock()

	if !ok || r == nil {
		return
	}

	r.mu.Lock()
	delete(r.clients, c.SID())
	_, member := r.players[info.playerName]
	delete(r.players, info.playerName)
	roster := r.playersLocked()
	r.mu.Unlock()

	if member {
		r.broadcast(EventPlayerLeft, RosterUpdate{PlayerName: info.playerName, Players: roster})
	}
}
