package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected port 8080, got %s", cfg.Port)
		}
		if cfg.BasePath != "" {
			t.Errorf("expected empty base path, got %q", cfg.BasePath)
		}
		if cfg.Game.Tick() != 2*time.Minute {
			t.Errorf("expected 2m tick, got %s", cfg.Game.Tick())
		}
	})

	t.Run("ProductionValidation", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("APP_ENV", "prod")
		_, err := Load()
		if err == nil {
			t.Error("expected error when SERVER_PASSWORD is missing in production")
		}
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("PORT", "9000")
		os.Setenv("BASE_PATH", "/avala")
		os.Setenv("TICK_DURATION", "60")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Port != "9000" {
			t.Errorf("expected port 9000, got %s", cfg.Port)
		}
		if cfg.BasePath != "/avala" {
			t.Errorf("expected base path /avala, got %s", cfg.BasePath)
		}
		if cfg.Game.TickDuration != 60 {
			t.Errorf("expected tick 60, got %d", cfg.Game.TickDuration)
		}
	})

	t.Run("InvalidNumbers", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("FLAG_TTL", "soon")
		if _, err := Load(); err == nil {
			t.Error("expected error for non numeric FLAG_TTL")
		}

		os.Clearenv()
		os.Setenv("TICK_DURATION", "0")
		if _, err := Load(); err == nil {
			t.Error("expected error for zero TICK_DURATION")
		}
	})

	t.Run("InvalidStart", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("GAME_STARTS_AT", "tomorrow")
		if _, err := Load(); err == nil {
			t.Error("expected error for invalid GAME_STARTS_AT")
		}
	})
}

func TestLoadGameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `game:
  flag_format: "FLAG\\{[a-f0-9]{16}\\}"
  tick_duration: 90
  flag_ttl: 450
  game_starts_at: "2026-10-19 09:00"
server:
  port: 2024
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("FileValues", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("GAME_CONFIG", path)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Game.FlagFormat != `FLAG\{[a-f0-9]{16}\}` {
			t.Errorf("unexpected flag format %q", cfg.Game.FlagFormat)
		}
		if cfg.Game.TickDuration != 90 || cfg.Game.FlagTTL != 450 {
			t.Errorf("unexpected durations: %+v", cfg.Game)
		}
		start, err := cfg.Game.Start()
		if err != nil {
			t.Fatal(err)
		}
		if start.Hour() != 9 || start.Day() != 19 {
			t.Errorf("unexpected start %s", start)
		}
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("GAME_CONFIG", path)
		os.Setenv("TICK_DURATION", "30")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Game.TickDuration != 30 {
			t.Errorf("expected env override 30, got %d", cfg.Game.TickDuration)
		}
		if cfg.Game.FlagTTL != 450 {
			t.Errorf("expected file ttl 450, got %d", cfg.Game.FlagTTL)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(bad, []byte("game: [unterminated"), 0o600); err != nil {
			t.Fatal(err)
		}
		os.Clearenv()
		os.Setenv("GAME_CONFIG", bad)
		if _, err := Load(); err == nil {
			t.Error("expected parse error")
		}
	})
}
