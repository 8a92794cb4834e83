package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string
	DatabaseURL     string
	BasePath        string
	Password        string // vazio desativa o basic auth
	LogLevel        string
	TracingExporter string // "", "stdout", "otlp-http" or "otlp-grpc"
	Env             string // "dev" or "prod"
	Game            Game
}

// Game mirrors the game section of the Avala server.yaml.
type Game struct {
	FlagFormat   string `yaml:"flag_format"`
	TickDuration int    `yaml:"tick_duration"` // seconds
	FlagTTL      int    `yaml:"flag_ttl"`      // seconds
	StartsAt     string `yaml:"game_starts_at"`
}

type gameFile struct {
	Game Game `yaml:"game"`
}

var startLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}

func (g Game) Tick() time.Duration {
	return time.Duration(g.TickDuration) * time.Second
}

func (g Game) TTL() time.Duration {
	return time.Duration(g.FlagTTL) * time.Second
}

// Start parses StartsAt in local time.
func (g Game) Start() (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, g.StartsAt, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid game_starts_at %q", g.StartsAt)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "./avala.db"),
		BasePath:        os.Getenv("BASE_PATH"),
		Password:        os.Getenv("SERVER_PASSWORD"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		TracingExporter: os.Getenv("TRACING_EXPORTER"),
		Env:             getEnv("APP_ENV", "dev"),
		Game: Game{
			FlagFormat:   `[A-Z0-9]{31}=`,
			TickDuration: 120,
			FlagTTL:      600,
			StartsAt:     time.Now().Format(startLayouts[1]),
		},
	}

	if err := loadGameFile(getEnv("GAME_CONFIG", "server.yaml"), &cfg.Game); err != nil {
		return nil, err
	}

	cfg.Game.FlagFormat = getEnv("FLAG_FORMAT", cfg.Game.FlagFormat)
	cfg.Game.StartsAt = getEnv("GAME_STARTS_AT", cfg.Game.StartsAt)
	var err error
	if cfg.Game.TickDuration, err = getEnvInt("TICK_DURATION", cfg.Game.TickDuration); err != nil {
		return nil, err
	}
	if cfg.Game.FlagTTL, err = getEnvInt("FLAG_TTL", cfg.Game.FlagTTL); err != nil {
		return nil, err
	}

	if cfg.Game.TickDuration <= 0 {
		return nil, fmt.Errorf("tick_duration deve ser positivo, obtido %d", cfg.Game.TickDuration)
	}
	if cfg.Game.FlagTTL <= 0 {
		return nil, fmt.Errorf("flag_ttl deve ser positivo, obtido %d", cfg.Game.FlagTTL)
	}
	if _, err := cfg.Game.Start(); err != nil {
		return nil, err
	}

	// Validação Estrita para Produção
	if cfg.Env == "prod" && cfg.Password == "" {
		return nil, fmt.Errorf("produção: SERVER_PASSWORD é obrigatório")
	}

	return cfg, nil
}

// loadGameFile overlays the game section of a server.yaml onto g.
// A missing file is not an error.
func loadGameFile(path string, g *Game) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	file := gameFile{Game: *g}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	*g = file.Game
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
