// Package config loads the nodeweave TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/ingyamilmolinar/nodeweave/core/editor"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

// Config holds nodeweave configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Bindings BindingsConfig `toml:"bindings"`
	Editor   EditorConfig   `toml:"editor"`
	Window   WindowConfig   `toml:"window"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" validate:"log_level"`
	Color bool   `toml:"color"`
}

// BindingsConfig picks the buttons and keys of the global gestures.
type BindingsConfig struct {
	FinderButton string `toml:"finder_button" validate:"required,button"`
	PanButton    string `toml:"pan_button" validate:"required,button,nefield=FinderButton"`
	CancelKey    string `toml:"cancel_key" validate:"required,oneof=Escape Backspace Delete Q"`
}

// EditorConfig tunes the interaction layer.
type EditorConfig struct {
	DragDeadZone float64 `toml:"drag_dead_zone" validate:"gte=0,lte=50"`
	PortRadius   float64 `toml:"port_radius" validate:"gt=0,lte=32"`
	Debug        bool    `toml:"debug"`
}

// WindowConfig sizes the demo window.
type WindowConfig struct {
	Width  int    `toml:"width" validate:"min=320,max=7680"`
	Height int    `toml:"height" validate:"min=240,max=4320"`
	Title  string `toml:"title" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("button", func(fl validator.FieldLevel) bool {
		_, err := editor.ButtonFromString(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
		switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
		case "DEBUG", "INFO", "ERROR", "NONE":
			return true
		}
		return false
	})
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "INFO", Color: true},
		Bindings: BindingsConfig{FinderButton: "secondary", PanButton: "middle", CancelKey: "Escape"},
		Editor:   EditorConfig{DragDeadZone: 2, PortRadius: 6},
		Window:   WindowConfig{Width: 1280, Height: 800, Title: "nodeweave"},
	}
}

// ConfigDir returns the nodeweave config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nodeweave")
}

// DefaultPath is where Load looks when given no path.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath; a missing file yields the defaults. Unknown keys and values
// that fail validation are errors.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks every field against its rules.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), message(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "button":
		return fmt.Sprintf("unknown pointer button %q", fe.Value())
	case "log_level":
		return fmt.Sprintf("unknown log level %q", fe.Value())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

// LogLevel is the configured logger level.
func (c *Config) LogLevel() game_log.Level {
	return game_log.LevelFromString(c.Log.Level)
}

// EditorOptions maps the config onto editor options. The config is expected
// to be valid; unparsable buttons fall back to the defaults.
func (c *Config) EditorOptions(logger *game_log.Logger) editor.Options {
	opts := editor.DefaultOptions()
	if b, err := editor.ButtonFromString(c.Bindings.FinderButton); err == nil {
		opts.Bindings.FinderButton = b
	}
	if b, err := editor.ButtonFromString(c.Bindings.PanButton); err == nil {
		opts.Bindings.PanButton = b
	}
	opts.DragDeadZone = c.Editor.DragDeadZone
	opts.PortRadius = c.Editor.PortRadius
	opts.Debug = c.Editor.Debug
	opts.Logger = logger
	return opts
}
