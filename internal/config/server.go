package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/devsanthoshmk/home360/pkg/persistence"
)

// ServerConfig is the environment-driven configuration of `home360 serve`.
// Flags override individual fields after parsing.
type ServerConfig struct {
	Addr     string `env:"HOME360_ADDR" envDefault:":8360"`
	TourPath string `env:"HOME360_TOUR" envDefault:"tour.yaml"`

	// Store selects the session state backend: memory, file, redis or
	// sqlite.
	Store         string `env:"HOME360_STORE" envDefault:"memory"`
	RedisAddr     string `env:"HOME360_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"HOME360_REDIS_PASSWORD"`
	RedisDB       int    `env:"HOME360_REDIS_DB" envDefault:"0"`
	SQLitePath    string `env:"HOME360_SQLITE_PATH" envDefault:"home360.db"`
	FilePath      string `env:"HOME360_FILE_PATH" envDefault:".home360/sessions"`

	// StateKey enables AES-256 encryption of stored state when set: the
	// active key, base64-encoded, 32 bytes decoded. StateKeyFallbacks holds
	// previous keys for zero-downtime rotation.
	StateKey          string   `env:"HOME360_STATE_KEY"`
	StateKeyFallbacks []string `env:"HOME360_STATE_KEY_FALLBACKS"`

	// HistoryLimit caps the stored visit trail per session. Zero keeps the
	// whole trail.
	HistoryLimit int `env:"HOME360_HISTORY_LIMIT" envDefault:"0"`

	SessionTTL   time.Duration `env:"HOME360_SESSION_TTL" envDefault:"24h"`
	ExitDuration time.Duration `env:"HOME360_EXIT_DURATION" envDefault:"400ms"`
	LoadTimeout  time.Duration `env:"HOME360_LOAD_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is how long a visitor's live controller survives without
	// traffic before it is evicted. State stays in the store; the next
	// request resumes from there.
	IdleTimeout time.Duration `env:"HOME360_IDLE_TIMEOUT" envDefault:"30m"`

	LogLevel  string `env:"HOME360_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"HOME360_LOG_FORMAT" envDefault:"text"`
}

// FromEnv loads the server configuration from environment variables.
func FromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// StateCodec builds the at-rest state encoding from the configuration:
// plain JSON, optionally history-capped, optionally encrypted.
func (c ServerConfig) StateCodec() (persistence.Codec, error) {
	var codec persistence.Codec = persistence.JSON{}

	if c.HistoryLimit > 0 {
		codec = persistence.NewHistoryCapCodec(c.HistoryLimit, codec)
	}

	if c.StateKey != "" {
		active, err := base64.StdEncoding.DecodeString(c.StateKey)
		if err != nil {
			return nil, fmt.Errorf("decode HOME360_STATE_KEY: %w", err)
		}
		fallbacks := make([][]byte, 0, len(c.StateKeyFallbacks))
		for i, k := range c.StateKeyFallbacks {
			key, err := base64.StdEncoding.DecodeString(k)
			if err != nil {
				return nil, fmt.Errorf("decode HOME360_STATE_KEY_FALLBACKS #%d: %w", i+1, err)
			}
			fallbacks = append(fallbacks, key)
		}
		codec, err = persistence.NewEncryptedCodec(persistence.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}, codec)
		if err != nil {
			return nil, err
		}
	}

	return codec, nil
}
