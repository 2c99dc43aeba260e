// Package config reads the server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string   `env:"ADDR" envDefault:":8000"`
	GinMode        string   `env:"GIN_MODE" envDefault:"debug"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// NLPURL points at the spaCy annotation sidecar.
	NLPURL string `env:"NLP_URL" envDefault:"http://localhost:5001"`

	VocabURL  string `env:"VOCAB_URL" envDefault:"https://raw.githubusercontent.com/first20hours/google-10000-english/master/google-10000-english-no-swears.txt"`
	VocabFile string `env:"VOCAB_FILE" envDefault:"vocab.txt"`

	// RoomInitTimeout bounds the one-time per-room precompute; a room that
	// blows it reports a fatal error instead of loading forever.
	RoomInitTimeout time.Duration `env:"ROOM_INIT_TIMEOUT" envDefault:"5m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
