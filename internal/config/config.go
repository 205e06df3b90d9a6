// Package config provides configuration management for dailo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/xvierd/dailo/internal/domain"
)

const defaultDataDir = "~/.dailo"

// Config holds all configuration for the dailo application.
type Config struct {
	Pomodoro      PomodoroConfig     `mapstructure:"pomodoro"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Surface       SurfaceConfig      `mapstructure:"surface"`
	Playback      PlaybackConfig     `mapstructure:"playback"`
	Tasks         TasksConfig        `mapstructure:"tasks"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// PomodoroConfig seeds the timer settings on first run. Once a snapshot
// exists the settings edited in the dashboard win.
type PomodoroConfig struct {
	FocusDuration      Duration `mapstructure:"focus_duration"`
	ShortBreak         Duration `mapstructure:"short_break"`
	LongBreak          Duration `mapstructure:"long_break"`
	SessionsBeforeLong int      `mapstructure:"sessions_before_long"`
}

// Settings converts the configured durations to whole minutes.
func (c PomodoroConfig) Settings() domain.PomodoroSettings {
	return domain.PomodoroSettings{
		FocusDuration:          int(time.Duration(c.FocusDuration).Minutes()),
		ShortBreakDuration:     int(time.Duration(c.ShortBreak).Minutes()),
		LongBreakDuration:      int(time.Duration(c.LongBreak).Minutes()),
		SessionsUntilLongBreak: c.SessionsBeforeLong,
	}.Normalize()
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// SurfaceConfig describes the detached timer surface.
type SurfaceConfig struct {
	// TTY is the device the detached timer renders to, e.g. /dev/pts/3.
	// Empty disables the feature.
	TTY    string `mapstructure:"tty"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// PlaybackConfig locates the media player and sound files.
type PlaybackConfig struct {
	MPVPath  string `mapstructure:"mpv_path"`
	MediaDir string `mapstructure:"media_dir"`
}

// TasksConfig holds task board settings.
type TasksConfig struct {
	TagGitBranch bool `mapstructure:"tag_git_branch"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ThemeConfig holds the initial theme and the accent colors.
type ThemeConfig struct {
	Mode        string `mapstructure:"mode"`
	ColorFocus  string `mapstructure:"color_focus"`
	ColorBreak  string `mapstructure:"color_break"`
	ColorPaused string `mapstructure:"color_paused"`
	ColorAccent string `mapstructure:"color_accent"`
	ColorMuted  string `mapstructure:"color_muted"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Mode:        string(domain.ThemeDark),
		ColorFocus:  "#F97316",
		ColorBreak:  "#22C55E",
		ColorPaused: "#6B7280",
		ColorAccent: "#7C6FE0",
		ColorMuted:  "#95A5A6",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Pomodoro: PomodoroConfig{
			FocusDuration:      Duration(25 * time.Minute),
			ShortBreak:         Duration(5 * time.Minute),
			LongBreak:          Duration(15 * time.Minute),
			SessionsBeforeLong: 4,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Surface: SurfaceConfig{
			Width:  40,
			Height: 12,
		},
		Playback: PlaybackConfig{
			MPVPath:  "mpv",
			MediaDir: defaultDataDir + "/media",
		},
		Tasks: TasksConfig{
			TagGitBranch: true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads the configuration from path, or from the default
// location when path is empty. A missing file is created with defaults.
func LoadFrom(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandPaths resolves ~ in every path setting.
func (c *Config) expandPaths() error {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir
	}
	for _, p := range []*string{&c.Storage.DataDir, &c.Playback.MediaDir, &c.Surface.TTY} {
		if !strings.HasPrefix(*p, "~") {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes the configuration to path.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("pomodoro.focus_duration", cfg.Pomodoro.FocusDuration.String())
	v.Set("pomodoro.short_break", cfg.Pomodoro.ShortBreak.String())
	v.Set("pomodoro.long_break", cfg.Pomodoro.LongBreak.String())
	v.Set("pomodoro.sessions_before_long", cfg.Pomodoro.SessionsBeforeLong)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("surface.tty", cfg.Surface.TTY)
	v.Set("surface.width", cfg.Surface.Width)
	v.Set("surface.height", cfg.Surface.Height)
	v.Set("playback.mpv_path", cfg.Playback.MPVPath)
	v.Set("playback.media_dir", cfg.Playback.MediaDir)
	v.Set("tasks.tag_git_branch", cfg.Tasks.TagGitBranch)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("theme.mode", cfg.Theme.Mode)
	v.Set("theme.color_focus", cfg.Theme.ColorFocus)
	v.Set("theme.color_break", cfg.Theme.ColorBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_accent", cfg.Theme.ColorAccent)
	v.Set("theme.color_muted", cfg.Theme.ColorMuted)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".dailo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "dailo.db")
}

// GetCanvasDir returns the directory of the drawing canvas store.
func GetCanvasDir(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "canvas")
}

// GetLogPath returns the path of the background log file.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "dailo.log")
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("pomodoro.focus_duration", d.Pomodoro.FocusDuration.String())
	v.SetDefault("pomodoro.short_break", d.Pomodoro.ShortBreak.String())
	v.SetDefault("pomodoro.long_break", d.Pomodoro.LongBreak.String())
	v.SetDefault("pomodoro.sessions_before_long", d.Pomodoro.SessionsBeforeLong)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("surface.tty", d.Surface.TTY)
	v.SetDefault("surface.width", d.Surface.Width)
	v.SetDefault("surface.height", d.Surface.Height)
	v.SetDefault("playback.mpv_path", d.Playback.MPVPath)
	v.SetDefault("playback.media_dir", d.Playback.MediaDir)
	v.SetDefault("tasks.tag_git_branch", d.Tasks.TagGitBranch)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)

	// Theme defaults
	theme := DefaultThemeConfig()
	v.SetDefault("theme.mode", theme.Mode)
	v.SetDefault("theme.color_focus", theme.ColorFocus)
	v.SetDefault("theme.color_break", theme.ColorBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_accent", theme.ColorAccent)
	v.SetDefault("theme.color_muted", theme.ColorMuted)
}
