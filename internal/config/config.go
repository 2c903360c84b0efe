// Package config loads server settings from CRIMSON_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DataDir       string
	BotDelay      time.Duration
	BotJitter     time.Duration
	BotRandomness float64
	BotAggression float64
	LogLevel      log.Level
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		BotDelay:      450 * time.Millisecond,
		BotJitter:     500 * time.Millisecond,
		BotRandomness: 0.45,
		BotAggression: 1,
		LogLevel:      log.LevelInfo,
	}
}

// Load starts from Default and overrides every field whose variable is set.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CRIMSON_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CRIMSON_ALLOW_ORIGINS"); ok && v != "" {
		cfg.AllowOrigins = v
	}
	if v, ok := lookup("CRIMSON_DATA_DIR"); ok {
		cfg.DataDir = v
	}

	var err error
	if cfg.BotDelay, err = duration(lookup, "CRIMSON_BOT_DELAY", cfg.BotDelay); err != nil {
		return Config{}, err
	}
	if cfg.BotJitter, err = duration(lookup, "CRIMSON_BOT_JITTER", cfg.BotJitter); err != nil {
		return Config{}, err
	}
	if cfg.BotRandomness, err = float(lookup, "CRIMSON_BOT_RANDOMNESS", cfg.BotRandomness); err != nil {
		return Config{}, err
	}
	if cfg.BotAggression, err = float(lookup, "CRIMSON_BOT_AGGRESSION", cfg.BotAggression); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("CRIMSON_LOG_LEVEL"); ok && v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("CRIMSON_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func duration(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}

func float(lookup func(string) (string, bool), key string, def float64) (float64, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return f, nil
}

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
