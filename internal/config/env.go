// Package config provides shared configuration loaded from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Storage configures the best-score database.
type Storage struct {
	DBPath string `env:"BEST_SCORE_DB" envDefault:"data/reaction.db"`
}

// Leaderboard configures where the read-only leaderboard comes from.
// URL wins over File; with neither set the best-score store is used.
type Leaderboard struct {
	URL  string `env:"LEADERBOARD_URL"`
	File string `env:"LEADERBOARD_FILE"`
}

// Logging configures the process logger.
type Logging struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE"`
}

// Game configures the local terminal binary.
type Game struct {
	Storage
	Leaderboard
	Logging
	Player string `env:"PLAYER"`
	Sound  bool   `env:"SOUND" envDefault:"true"`
}

// SSH configures the SSH server binary.
type SSH struct {
	Storage
	Leaderboard
	Logging
	Host        string `env:"SSH_HOST" envDefault:"::"`
	Port        string `env:"SSH_PORT" envDefault:"2222"`
	HostKeyPath string `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`
}

// Web configures the landing page binary.
type Web struct {
	Storage
	Leaderboard
	Logging
	Host           string `env:"WEB_HOST" envDefault:"0.0.0.0"`
	Port           string `env:"WEB_PORT" envDefault:"8080"`
	SSHDisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"your-server.com"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadGame parses the local game configuration and fills in the player name.
func LoadGame() (Game, error) {
	var cfg Game
	if err := ParseEnv(&cfg); err != nil {
		return Game{}, err
	}
	if cfg.Player == "" {
		cfg.Player = GetEnv("USER", "player")
	}
	return cfg, nil
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
