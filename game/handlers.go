package game

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	rooms    *Rooms
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(rooms *Rooms, allowedOrigins []string, log zerolog.Logger) *Handler {
	return &Handler{
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header.
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		log: log.With().Str("component", "ws").Logger(),
	}
}

func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).
			Str("ip", ctx.ClientIP()).
			Str("user_agent", ctx.Request.UserAgent()).
			Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, h.rooms, h.log)
	go client.WritePump()
	go client.ReadPump(context.Background())
}
