package game

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End to end over a real websocket: join, wait for the ready snapshot,
// win with the exact target.
func TestHandler_WebsocketSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rooms := newTestRooms(t, newFakeAnnotator(fixtureAnnotations()))
	handler := NewHandler(rooms, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/ws", handler.ServeWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	send := func(event string, data any) {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(ClientEnvelope{Event: event, Data: raw}))
	}

	readUntil := func(event string, pred func(json.RawMessage) bool) json.RawMessage {
		t.Helper()
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
			var env ClientEnvelope
			require.NoError(t, conn.ReadJSON(&env))
			if env.Event == event && (pred == nil || pred(env.Data)) {
				return env.Data
			}
		}
		t.Fatalf("never received %q", event)
		return nil
	}

	send(EventJoinRoom, JoinPayload{RoomID: "r1", PlayerName: "alice", TargetWord: "apple"})

	raw := readUntil(EventRoomState, func(raw json.RawMessage) bool {
		var s RoomState
		return json.Unmarshal(raw, &s) == nil && s.Ready
	})
	var state RoomState
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, 6, state.TotalWords)
	assert.Equal(t, []string{"alice"}, state.Players)

	send(EventMakeGuess, GuessPayload{RoomID: "r1", PlayerName: "alice", Guess: "apple"})

	raw = readUntil(EventNewGuess, nil)
	var record GuessRecord
	require.NoError(t, json.Unmarshal(raw, &record))
	assert.True(t, record.IsCorrect)
	assert.Equal(t, 1, record.Rank)
	assert.Equal(t, "apple", record.Word)
	assert.Equal(t, "alice", record.PlayerName)
	assert.Len(t, record.Top10, 5)
}
