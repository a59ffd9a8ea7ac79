package config

import "testing"

func TestSSHDefaults(t *testing.T) {
	var cfg SSH
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Host != "::" || cfg.Port != "2222" || cfg.HostKeyPath != "/app/keys/host_key" {
		t.Errorf("unexpected SSH defaults: %+v", cfg)
	}
	if cfg.DBPath != "data/reaction.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %q", cfg.Level)
	}
}

func TestWebOverrides(t *testing.T) {
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("SSH_DISPLAY_HOST", "play.example.com")
	t.Setenv("LEADERBOARD_FILE", "/tmp/board.json")

	var cfg Web
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Port != "9090" || cfg.SSHDisplayHost != "play.example.com" || cfg.Host != "0.0.0.0" {
		t.Errorf("unexpected web config: %+v", cfg)
	}
	if cfg.Leaderboard.File != "/tmp/board.json" {
		t.Errorf("Leaderboard.File = %q", cfg.Leaderboard.File)
	}
}

func TestLoadGame(t *testing.T) {
	t.Setenv("PLAYER", "")
	t.Setenv("USER", "ada")
	t.Setenv("SOUND", "false")

	cfg, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if cfg.Player != "ada" {
		t.Errorf("Player = %q, want ada", cfg.Player)
	}
	if cfg.Sound {
		t.Error("Sound should be disabled")
	}
}

func TestLoadGameRejectsBadBool(t *testing.T) {
	t.Setenv("SOUND", "loud")
	if _, err := LoadGame(); err == nil {
		t.Error("expected parse error for SOUND=loud")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("REACTION_TEST_KEY", "value")
	if got := GetEnv("REACTION_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("REACTION_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q", got)
	}
}
