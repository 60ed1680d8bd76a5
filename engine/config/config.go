package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment keys read by Load.
const (
	KeyWindowTitle    = "OXY_WINDOW_TITLE"
	KeyWindowWidth    = "OXY_WINDOW_WIDTH"
	KeyWindowHeight   = "OXY_WINDOW_HEIGHT"
	KeyVSync          = "OXY_VSYNC"
	KeyMaxStep        = "OXY_MAX_STEP"
	KeyFrameLimit     = "OXY_FRAME_LIMIT"
	KeyProfiling      = "OXY_PROFILING"
	KeyClearColor     = "OXY_CLEAR_COLOR"
	KeyVertexShader   = "OXY_VERTEX_SHADER"
	KeyFragmentShader = "OXY_FRAGMENT_SHADER"
	KeyLogLevel       = "OXY_LOG_LEVEL"
	KeyLogJSON        = "OXY_LOG_JSON"
)

// WindowConfiguration configures the platform window.
type WindowConfiguration struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// TimeConfiguration configures the frame loop timing.
type TimeConfiguration struct {
	// MaxStep clamps the elapsed time of a single frame.
	MaxStep time.Duration
	// FrameLimit caps frames per second, 0 leaves the loop uncapped.
	FrameLimit float64
}

// RendererConfiguration configures the renderer and the shader documents it is built from.
type RendererConfiguration struct {
	ClearColor     [4]float32
	VertexShader   string
	FragmentShader string
	Profiling      bool
}

// LogConfiguration configures the logger.
type LogConfiguration struct {
	Level logrus.Level
	JSON  bool
}

// Configure applies the level and formatter to a logger.
func (c LogConfiguration) Configure(logger *logrus.Logger) {
	logger.SetLevel(c.Level)
	if c.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Configuration is the complete application configuration.
type Configuration struct {
	Window   WindowConfiguration
	Time     TimeConfiguration
	Renderer RendererConfiguration
	Log      LogConfiguration
}

// Default returns the configuration used for every key that is not set.
func Default() Configuration {
	return Configuration{
		Window: WindowConfiguration{
			Title:  "oxy-gl",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Time: TimeConfiguration{
			MaxStep: 100 * time.Millisecond,
		},
		Renderer: RendererConfiguration{
			ClearColor:     [4]float32{0.5, 0.5, 0.5, 1},
			VertexShader:   "strip.vert",
			FragmentShader: "strip.frag",
		},
		Log: LogConfiguration{
			Level: logrus.InfoLevel,
		},
	}
}

// Load reads dotenv files into the environment, overriding variables already set,
// then builds the configuration from the environment. Files that do not exist are skipped.
//
// Parameters:
//   - files: dotenv files applied in order, later files win
//
// Returns:
//   - Configuration: the loaded configuration
//   - error: a dotenv parse error, or an invalid value error naming its key
func Load(files ...string) (Configuration, error) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			return Configuration{}, fmt.Errorf("config: %s: %w", file, err)
		}
	}
	envy.Reload()
	return FromEnv()
}

// FromEnv builds the configuration from the variables envy currently holds.
func FromEnv() (Configuration, error) {
	c := Default()
	var err error

	c.Window.Title = stringValue(KeyWindowTitle, c.Window.Title)
	if c.Window.Width, err = intValue(KeyWindowWidth, c.Window.Width); err != nil {
		return c, err
	}
	if c.Window.Height, err = intValue(KeyWindowHeight, c.Window.Height); err != nil {
		return c, err
	}
	if c.Window.VSync, err = boolValue(KeyVSync, c.Window.VSync); err != nil {
		return c, err
	}

	if c.Time.MaxStep, err = durationValue(KeyMaxStep, c.Time.MaxStep); err != nil {
		return c, err
	}
	if c.Time.FrameLimit, err = floatValue(KeyFrameLimit, c.Time.FrameLimit); err != nil {
		return c, err
	}

	if c.Renderer.ClearColor, err = colorValue(KeyClearColor, c.Renderer.ClearColor); err != nil {
		return c, err
	}
	c.Renderer.VertexShader = stringValue(KeyVertexShader, c.Renderer.VertexShader)
	c.Renderer.FragmentShader = stringValue(KeyFragmentShader, c.Renderer.FragmentShader)
	if c.Renderer.Profiling, err = boolValue(KeyProfiling, c.Renderer.Profiling); err != nil {
		return c, err
	}

	if raw := envy.Get(KeyLogLevel, ""); raw != "" {
		if c.Log.Level, err = logrus.ParseLevel(raw); err != nil {
			return c, invalid(KeyLogLevel, raw, err)
		}
	}
	if c.Log.JSON, err = boolValue(KeyLogJSON, c.Log.JSON); err != nil {
		return c, err
	}
	return c, nil
}

func invalid(key, raw string, err error) error {
	return fmt.Errorf("config: invalid %s=%q: %w", key, raw, err)
}

// stringValue returns def when the key is unset or empty.
func stringValue(key, def string) string {
	if raw := envy.Get(key, ""); raw != "" {
		return raw
	}
	return def
}

func intValue(key string, def int) (int, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, invalid(key, raw, err)
	}
	if v <= 0 {
		return def, invalid(key, raw, fmt.Errorf("must be positive"))
	}
	return v, nil
}

func floatValue(key string, def float64) (float64, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, invalid(key, raw, err)
	}
	if v < 0 {
		return def, invalid(key, raw, fmt.Errorf("must not be negative"))
	}
	return v, nil
}

func boolValue(key string, def bool) (bool, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, invalid(key, raw, err)
	}
	return v, nil
}

func durationValue(key string, def time.Duration) (time.Duration, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def, invalid(key, raw, err)
	}
	if v <= 0 {
		return def, invalid(key, raw, fmt.Errorf("must be positive"))
	}
	return v, nil
}

// colorValue parses "r,g,b,a" with every component in [0, 1].
func colorValue(key string, def [4]float32) ([4]float32, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return def, invalid(key, raw, fmt.Errorf("want 4 components, got %d", len(parts)))
	}
	var c [4]float32
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return def, invalid(key, raw, err)
		}
		if v < 0 || v > 1 {
			return def, invalid(key, raw, fmt.Errorf("component %d out of range [0,1]", i))
		}
		c[i] = float32(v)
	}
	return c, nil
}
