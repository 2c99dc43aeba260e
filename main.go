package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"api/config"
	"api/game"
	"api/nlp"
	"api/profanity"
	"api/words"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)

	// Dependencies
	annotator := nlp.NewCached(nlp.NewClient(cfg.NLPURL, log))
	checker := profanity.NewDetector()
	vocab := words.NewService(annotator, cfg.VocabURL, cfg.VocabFile, log)

	rooms := game.NewRooms(func() *game.Engine {
		return game.NewEngine(vocab, annotator, checker)
	}, cfg.RoomInitTimeout, log)

	wsHandler := game.NewHandler(rooms, cfg.AllowedOrigins, log)

	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/ws", wsHandler.ServeWS)

	log.Info().Str("addr", cfg.Addr).Str("nlp", cfg.NLPURL).Msg("starting server")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
