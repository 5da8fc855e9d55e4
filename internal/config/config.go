package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig
	Window     WindowConfig
	Log        LogConfig
	CloseGuard CloseGuardConfig `mapstructure:"close_guard"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// WindowConfig holds the desktop window defaults. Saved sizes override
// Width and Height.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// LogConfig selects the log level and an optional log file.
type LogConfig struct {
	Level string
	File  string
}

// CloseGuardConfig holds the close confirmation text.
type CloseGuardConfig struct {
	Message string
}

// Load reads configuration from file and env. Env var overrides use prefix
// PORTBRIDGE_ (e.g. PORTBRIDGE_DATABASE_PATH). An explicit path that does not
// exist is an error; a missing default config file is not.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "portbridge", "portbridge.db"))
	v.SetDefault("window.title", "Portbridge")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("close_guard.message", "")

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("PORTBRIDGE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "portbridge"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PORTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// LogLevel maps Log.Level onto the Wails logger levels; unknown names are INFO.
func (c Config) LogLevel() logger.LogLevel {
	switch strings.ToLower(c.Log.Level) {
	case "trace":
		return logger.TRACE
	case "debug":
		return logger.DEBUG
	case "warning", "warn":
		return logger.WARNING
	case "error":
		return logger.ERROR
	}
	return logger.INFO
}

// NewLogger returns the file logger when Log.File is set, otherwise the
// default console logger, filtered to LogLevel.
func (c Config) NewLogger() logger.Logger {
	var base logger.Logger
	if c.Log.File != "" {
		base = logger.NewFileLogger(c.Log.File)
	} else {
		base = logger.NewDefaultLogger()
	}
	return &leveledLogger{Logger: base, level: c.LogLevel()}
}

// leveledLogger drops messages below level. Wails filters its own output by
// options.App.LogLevel, but services log through the raw interface.
type leveledLogger struct {
	logger.Logger
	level logger.LogLevel
}

func (l *leveledLogger) Trace(message string) {
	if l.level <= logger.TRACE {
		l.Logger.Trace(message)
	}
}

func (l *leveledLogger) Debug(message string) {
	if l.level <= logger.DEBUG {
		l.Logger.Debug(message)
	}
}

func (l *leveledLogger) Info(message string) {
	if l.level <= logger.INFO {
		l.Logger.Info(message)
	}
}

func (l *leveledLogger) Warning(message string) {
	if l.level <= logger.WARNING {
		l.Logger.Warning(message)
	}
}
