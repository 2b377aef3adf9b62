package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when it is read from the environment,
// so frame_hz comes from SLOPES_FRAME_HZ.
const EnvPrefix = "SLOPES"

type Config struct {
	Addr        string `mapstructure:"addr"`
	StaticDir   string `mapstructure:"static_dir"`
	Level       string `mapstructure:"level"` // level manifest, empty for the built-in level
	LogLevel    string `mapstructure:"log_level"`
	FrameHz     int    `mapstructure:"frame_hz"`
	BroadcastHz int    `mapstructure:"broadcast_hz"`
	MaxFrameMs  int    `mapstructure:"max_frame_ms"`
	RoomIdleSec int    `mapstructure:"room_idle_s"` // empty rooms are closed after this long
}

// InitConfig loads a .env file from the working directory into the
// environment. A missing file is not an error.
func InitConfig() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading .env: %w", err)
	}

	slog.Info("Successfully loaded environment variables")
	return nil
}

// Load reads slopes.yaml from configDir if present, then environment
// variables, on top of the defaults. PORT is honoured when no address is
// configured explicitly.
func Load(configDir string) (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("static_dir", "dist")
	v.SetDefault("level", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("frame_hz", 60)
	v.SetDefault("broadcast_hz", 30)
	v.SetDefault("max_frame_ms", 250)
	v.SetDefault("room_idle_s", 60)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigName("slopes")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if port, err := GetEnvVariable("PORT"); err == nil && !v.InConfig("addr") && os.Getenv(EnvPrefix+"_ADDR") == "" {
		v.Set("addr", ":"+port)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if c.FrameHz <= 0 || c.BroadcastHz <= 0 {
		return Config{}, fmt.Errorf("frame_hz and broadcast_hz must be positive, got %d and %d", c.FrameHz, c.BroadcastHz)
	}
	return c, nil
}

// MaxFrame is the longest frame the game loop simulates in one go.
func (c Config) MaxFrame() time.Duration {
	return time.Duration(c.MaxFrameMs) * time.Millisecond
}

func (c Config) RoomIdle() time.Duration {
	return time.Duration(c.RoomIdleSec) * time.Second
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}
