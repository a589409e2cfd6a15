package config

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != ":8360" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store != "memory" {
		t.Errorf("Store = %q", cfg.Store)
	}
	if cfg.ExitDuration != 400*time.Millisecond {
		t.Errorf("ExitDuration = %v", cfg.ExitDuration)
	}
	if cfg.LoadTimeout != 30*time.Second {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log config = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HOME360_ADDR", "127.0.0.1:9000")
	t.Setenv("HOME360_STORE", "redis")
	t.Setenv("HOME360_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("HOME360_EXIT_DURATION", "150ms")
	t.Setenv("HOME360_LOAD_TIMEOUT", "5s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store != "redis" || cfg.RedisAddr != "redis.internal:6380" {
		t.Errorf("redis config = %q/%q", cfg.Store, cfg.RedisAddr)
	}
	if cfg.ExitDuration != 150*time.Millisecond {
		t.Errorf("ExitDuration = %v", cfg.ExitDuration)
	}
	if cfg.LoadTimeout != 5*time.Second {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
}

func TestFromEnvError(t *testing.T) {
	t.Setenv("HOME360_EXIT_DURATION", "not-a-duration")

	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestStateCodecDefault(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	codec, err := cfg.StateCodec()
	if err != nil {
		t.Fatalf("StateCodec: %v", err)
	}

	state := *domain.NewState("living-room")
	data, err := codec.Encode(state)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "living-room") {
		t.Errorf("default codec should store plain JSON, got %s", data)
	}
}

func TestStateCodecEncryptedAndCapped(t *testing.T) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME360_STATE_KEY", base64.StdEncoding.EncodeToString(key))
	t.Setenv("HOME360_HISTORY_LIMIT", "2")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	codec, err := cfg.StateCodec()
	if err != nil {
		t.Fatalf("StateCodec: %v", err)
	}

	state := *domain.NewState("a")
	state.History = []string{"a", "b", "c", "d"}
	state.CurrentSceneID = "d"

	data, err := codec.Encode(state)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "current_scene_id") || !strings.Contains(string(data), "__encrypted__") {
		t.Errorf("state not encrypted at rest: %s", data)
	}

	loaded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(loaded.History) != 2 {
		t.Errorf("history limit ignored, got %v", loaded.History)
	}
}

func TestStateCodecRejectsBadKeys(t *testing.T) {
	t.Setenv("HOME360_STATE_KEY", "not-base64!!")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if _, err := cfg.StateCodec(); err == nil {
		t.Error("expected error for undecodable key")
	}

	t.Setenv("HOME360_STATE_KEY", base64.StdEncoding.EncodeToString([]byte("too-short")))
	cfg, err = FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if _, err := cfg.StateCodec(); err == nil {
		t.Error("expected error for wrong-size key")
	}
}
