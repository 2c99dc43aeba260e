package game

import "encoding/json"

// Event names are the observable protocol; clients depend on them.
const (
	EventJoinRoom    = "join_room"
	EventMakeGuess   = "make_guess"
	EventRequestHint = "request_hint"

	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventRoomState    = "room_state"
	EventRoomLoading  = "room_loading"
	EventNewGuess     = "new_guess"
	EventGuessError   = "guess_error"
	EventError        = "error"
)

// ClientEnvelope is one inbound websocket frame.
type ClientEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEnvelope is one outbound websocket frame.
type ServerEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type JoinPayload struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
	TargetWord string `json:"target_word"`
}

type GuessPayload struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
	Guess      string `json:"guess"`
}

type HintPayload struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

// TopEntry is one row of the reveal leaderboard sent on a winning guess.
type TopEntry struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank"`
}

// GuessRecord is a stored and broadcast guess outcome. Word is the family
// key shown to players; RawGuess is what was actually typed.
type GuessRecord struct {
	Word       string     `json:"word"`
	RawGuess   string     `json:"raw_guess"`
	Similarity float64    `json:"similarity"`
	Rank       int        `json:"rank"`
	PlayerName string     `json:"player_name"`
	IsCorrect  bool       `json:"is_correct"`
	Top10      []TopEntry `json:"top_10,omitempty"`
}

// RosterUpdate announces a membership change to the whole room.
type RosterUpdate struct {
	PlayerName string   `json:"player_name"`
	Players    []string `json:"players"`
}

// RoomState is the snapshot sent to a joining client and re-broadcast when
// initialization completes.
type RoomState struct {
	Guesses    []GuessRecord `json:"guesses"`
	TotalWords int           `json:"total_words"`
	Players    []string      `json:"players"`
	Ready      bool          `json:"ready"`
}

type Notice struct {
	Msg string `json:"msg"`
}
