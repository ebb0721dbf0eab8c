// Package config loads hoverplayer settings from hoverplayer.yaml,
// HOVERPLAYER_* environment variables and command-line flags, and builds the
// process logger from them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName   = "hoverplayer"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "HOVERPLAYER"

	ViewportWidthKey  = "viewport.width"
	ViewportHeightKey = "viewport.height"
	SelectorKey       = "candidates.selector"
	PlayerMinSizeKey  = "player.min_size"
	FontPathKey       = "render.font"

	LogFilenameKey   = "log.filename"
	LogLevelKey      = "log.level"
	LogMaxSizeKey    = "log.max_size"
	LogMaxBackupsKey = "log.max_backups"
	LogMaxAgeKey     = "log.max_age"
	LogCompressKey   = "log.compress"

	defaultViewportWidth  = 800
	defaultViewportHeight = 600
	defaultSelector       = "p"
	defaultPlayerMinSize  = 12

	defaultLogFilename   = ".hoverplayer.log"
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

type Config struct {
	ViewportWidth  float64
	ViewportHeight float64
	Selector       string
	PlayerMinSize  float64
	FontPath       string
	Log            LogConfig
}

type LogConfig struct {
	Filename   string
	Level      string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Load reads configuration. An explicit file must exist; without one,
// hoverplayer.yaml is looked up in the working directory and defaults are
// used if it is absent. Flags in bindings, keyed by config key, override
// both file and environment once set on the command line.
func Load(file string, bindings map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configBaseName)
		v.AddConfigPath(configFolderPath)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for key, flag := range bindings {
		if flag == nil {
			return nil, fmt.Errorf("flag for config key %q not found", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		ViewportWidth:  v.GetFloat64(ViewportWidthKey),
		ViewportHeight: v.GetFloat64(ViewportHeightKey),
		Selector:       v.GetString(SelectorKey),
		PlayerMinSize:  v.GetFloat64(PlayerMinSizeKey),
		FontPath:       v.GetString(FontPathKey),
		Log: LogConfig{
			Filename:   v.GetString(LogFilenameKey),
			Level:      v.GetString(LogLevelKey),
			MaxSize:    v.GetInt(LogMaxSizeKey),
			MaxBackups: v.GetInt(LogMaxBackupsKey),
			MaxAge:     v.GetInt(LogMaxAgeKey),
			Compress:   v.GetBool(LogCompressKey),
		},
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %gx%g", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ViewportWidthKey, defaultViewportWidth)
	v.SetDefault(ViewportHeightKey, defaultViewportHeight)
	v.SetDefault(SelectorKey, defaultSelector)
	v.SetDefault(PlayerMinSizeKey, defaultPlayerMinSize)
	v.SetDefault(FontPathKey, "")

	v.SetDefault(LogFilenameKey, defaultLogFilename)
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(LogMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(LogMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(LogMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(LogCompressKey, defaultLogCompress)
}

// ParseLevel accepts level names or numeric slog levels (e.g. -4 for debug).
func ParseLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	switch level {
	case "":
		return defaultLevel
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}
	return defaultLevel
}

// NewLogger builds a text logger writing to a rotating file. verbose forces
// debug level.
func (c LogConfig) NewLogger(verbose bool) *slog.Logger {
	filename := c.Filename
	if strings.TrimSpace(filename) == "" {
		filename = defaultLogFilename
	}
	level := ParseLevel(c.Level, slog.LevelInfo)
	if verbose {
		level = slog.LevelDebug
	}

	writer := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
}
