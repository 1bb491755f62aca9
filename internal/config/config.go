// Package config provides the YAML configuration for the mudra gesture controller.
//
// Only the ambient surface is configurable: camera, detector helper, editor
// executable, logging, and the optional journal/monitor/tray features. The
// gesture thresholds and mapping domains are compiled into package gesture.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/logging"
)

// Config is the top-level YAML configuration.
type Config struct {
	Camera    CameraConfig    `yaml:"camera"`
	Detector  DetectorConfig  `yaml:"detector"`
	Editor    EditorConfig    `yaml:"editor"`
	Actuators ActuatorsConfig `yaml:"actuators"`
	Display   DisplayConfig   `yaml:"display"`
	Logging   LoggingConfig   `yaml:"logging"`
	Journal   JournalConfig   `yaml:"journal"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Tray      TrayConfig      `yaml:"tray"`
}

type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type DetectorConfig struct {
	Python                 string  `yaml:"python,omitempty"` // empty: venv lookup, then python3
	Script                 string  `yaml:"script,omitempty"` // empty: search scripts/ next to the binary
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
}

type EditorConfig struct {
	Executable   string        `yaml:"executable"`
	WindowTitle  string        `yaml:"window_title"`
	LaunchSettle time.Duration `yaml:"launch_settle"`
	FindAttempts int           `yaml:"find_attempts"`
	FindDelay    time.Duration `yaml:"find_delay"`
}

type ActuatorsConfig struct {
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

type DisplayConfig struct {
	Title    string `yaml:"title"`
	Headless bool   `yaml:"headless"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// JournalConfig enables the SQLite run journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MonitorConfig enables the HTTP monitor when Addr is set.
type MonitorConfig struct {
	Addr      string `yaml:"addr,omitempty"`
	StaticDir string `yaml:"static_dir,omitempty"` // optional dashboard files served at /
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ShowPreview reports whether frames go to an OpenCV window. The tray's UI
// loop owns the main thread on every platform, so the preview is off while
// the tray is enabled.
func (c Config) ShowPreview() bool {
	return !c.Display.Headless && !c.Tray.Enabled
}

// Default returns a fully-populated Config with defaults.
func Default() Config {
	executable, title := defaultEditor(runtime.GOOS)
	return Config{
		Camera: CameraConfig{
			Device: 0,
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detector: DetectorConfig{
			MaxHands:               2,
			MinDetectionConfidence: 0.5,
			MinTrackingConfidence:  0.5,
		},
		Editor: EditorConfig{
			Executable:   executable,
			WindowTitle:  title,
			LaunchSettle: time.Second,
			FindAttempts: 5,
			FindDelay:    500 * time.Millisecond,
		},
		Actuators: ActuatorsConfig{
			CommandTimeout: 2 * time.Second,
		},
		Display: DisplayConfig{
			Title: "Windows Gesture",
		},
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
	}
}

// defaultEditor returns the editor executable and its initial window title for goos.
func defaultEditor(goos string) (string, string) {
	switch goos {
	case "windows":
		return "notepad.exe", "Untitled - Notepad"
	case "darwin":
		return "TextEdit", "Untitled"
	default:
		return "gedit", "Untitled Document 1 - gedit"
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Decode overlays YAML data onto cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the rest of the program cannot handle.
func (c Config) Validate() error {
	var errs []error

	if c.Camera.Device < 0 {
		errs = append(errs, fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device))
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera resolution must be positive, got %dx%d", c.Camera.Width, c.Camera.Height))
	}
	if c.Camera.FPS <= 0 {
		errs = append(errs, fmt.Errorf("camera.fps must be positive, got %d", c.Camera.FPS))
	}
	if c.Detector.MaxHands <= 0 {
		errs = append(errs, fmt.Errorf("detector.max_hands must be positive, got %d", c.Detector.MaxHands))
	}
	if !inUnitRange(c.Detector.MinDetectionConfidence) || !inUnitRange(c.Detector.MinTrackingConfidence) {
		errs = append(errs, errors.New("detector confidences must be within [0, 1]"))
	}
	if c.Editor.Executable == "" {
		errs = append(errs, errors.New("editor.executable is required"))
	}
	if c.Editor.WindowTitle == "" {
		errs = append(errs, errors.New("editor.window_title is required"))
	}
	if c.Editor.FindAttempts <= 0 {
		errs = append(errs, fmt.Errorf("editor.find_attempts must be positive, got %d", c.Editor.FindAttempts))
	}
	if c.Editor.FindDelay < 0 || c.Editor.LaunchSettle < 0 {
		errs = append(errs, errors.New("editor delays must not be negative"))
	}
	if c.Actuators.CommandTimeout <= 0 {
		errs = append(errs, fmt.Errorf("actuators.command_timeout must be positive, got %s", c.Actuators.CommandTimeout))
	}
	if c.Display.Title == "" {
		errs = append(errs, errors.New("display.title is required"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
