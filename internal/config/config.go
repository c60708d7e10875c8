// Package config holds all shell configuration, loaded from the
// environment with compiled-in defaults matching the target device.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Paths   PathsConfig
	Display DisplayConfig
	Input   InputConfig
	Gesture GestureConfig
	Panel   PanelConfig
	System  SystemConfig
	Logging LogConfig
}

// PathsConfig holds on-disk locations for session state and descriptors.
type PathsConfig struct {
	TempDir  string `envconfig:"TEMP_DIR" default:"/tmp/parchment"`
	DraftDir string `envconfig:"DRAFT_DIR" default:"/opt/etc/draft"`
}

// DisplayConfig holds the e-paper panel geometry and device node.
type DisplayConfig struct {
	Width  int    `envconfig:"DISPLAY_WIDTH" default:"1404"`
	Height int    `envconfig:"DISPLAY_HEIGHT" default:"1872"`
	Device string `envconfig:"DISPLAY_DEVICE" default:"/dev/fb0"`
}

// InputConfig holds input device nodes and capture-loop tuning.
type InputConfig struct {
	TouchDevice   string        `envconfig:"TOUCH_DEVICE" default:"/dev/input/event2"`
	ButtonsDevice string        `envconfig:"BUTTONS_DEVICE" default:"/dev/input/event0"`
	PollTimeout   time.Duration `envconfig:"POLL_TIMEOUT" default:"100ms"`
	FloodBurst    int           `envconfig:"FLOOD_BURST" default:"4096"`
	EventBuffer   int           `envconfig:"EVENT_BUFFER" default:"4096"`
	// Raw digitizer ranges. The touch panel reports inverted coordinates
	// at a lower resolution than the display.
	TouchMaxX int `envconfig:"TOUCH_MAX_X" default:"767"`
	TouchMaxY int `envconfig:"TOUCH_MAX_Y" default:"1023"`
}

// GestureConfig holds recognizer thresholds.
type GestureConfig struct {
	TapHysteresis float64 `envconfig:"TAP_HYSTERESIS" default:"32"`
	// ExitZoneHeight is the height of the bottom strip wave listens on.
	ExitZoneHeight int `envconfig:"EXIT_ZONE_HEIGHT" default:"128"`
}

// PanelConfig holds the app-switcher grid shape.
type PanelConfig struct {
	Rows     int     `envconfig:"PANEL_ROWS" default:"2"`
	Columns  int     `envconfig:"PANEL_COLUMNS" default:"7"`
	FontSize float64 `envconfig:"PANEL_FONT_SIZE" default:"42"`
}

// SystemConfig identifies the system launcher process whose pid the shell
// caches under a reserved marker.
type SystemConfig struct {
	LauncherCmdline string `envconfig:"LAUNCHER_CMDLINE" default:"/usr/bin/xochitl --system"`
	LauncherMarker  string `envconfig:"LAUNCHER_MARKER" default:"xochitl"`
	TrayPath        string `envconfig:"TRAY_PATH" default:"/home/root/tray"`
	WavePath        string `envconfig:"WAVE_PATH" default:"./wave"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"true"`
}

// Load loads configuration from PARCHMENT_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("parchment", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment or falls back to
// the compiled-in defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			TempDir:  "/tmp/parchment",
			DraftDir: "/opt/etc/draft",
		},
		Display: DisplayConfig{
			Width:  1404,
			Height: 1872,
			Device: "/dev/fb0",
		},
		Input: InputConfig{
			TouchDevice:   "/dev/input/event2",
			ButtonsDevice: "/dev/input/event0",
			PollTimeout:   100 * time.Millisecond,
			FloodBurst:    4096,
			EventBuffer:   4096,
			TouchMaxX:     767,
			TouchMaxY:     1023,
		},
		Gesture: GestureConfig{
			TapHysteresis:  32,
			ExitZoneHeight: 128,
		},
		Panel: PanelConfig{
			Rows:     2,
			Columns:  7,
			FontSize: 42,
		},
		System: SystemConfig{
			LauncherCmdline: "/usr/bin/xochitl --system",
			LauncherMarker:  "xochitl",
			TrayPath:        "/home/root/tray",
			WavePath:        "./wave",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: true,
		},
	}
}
