package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	envy.Temp(func() {
		for _, key := range []string{KeyWindowTitle, KeyWindowWidth, KeyClearColor, KeyMaxStep, KeyLogLevel, KeyVertexShader, KeyFragmentShader} {
			envy.Set(key, "")
		}
		c, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, Default(), c)
		assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, c.Renderer.ClearColor)
		assert.Equal(t, "oxy-gl", c.Window.Title)
		assert.Equal(t, "strip.vert", c.Renderer.VertexShader)
		assert.Equal(t, "strip.frag", c.Renderer.FragmentShader)
	})
}

func TestFromEnv(t *testing.T) {
	envy.Temp(func() {
		envy.Set(KeyWindowTitle, "strip")
		envy.Set(KeyWindowWidth, "800")
		envy.Set(KeyWindowHeight, "600")
		envy.Set(KeyVSync, "false")
		envy.Set(KeyMaxStep, "250ms")
		envy.Set(KeyFrameLimit, "30")
		envy.Set(KeyProfiling, "true")
		envy.Set(KeyClearColor, "0, 0.25, 1, 1")
		envy.Set(KeyVertexShader, "wave.vert")
		envy.Set(KeyFragmentShader, "wave.frag")
		envy.Set(KeyLogLevel, "debug")
		envy.Set(KeyLogJSON, "1")

		c, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, WindowConfiguration{Title: "strip", Width: 800, Height: 600, VSync: false}, c.Window)
		assert.Equal(t, TimeConfiguration{MaxStep: 250 * time.Millisecond, FrameLimit: 30}, c.Time)
		assert.Equal(t, RendererConfiguration{
			ClearColor:     [4]float32{0, 0.25, 1, 1},
			VertexShader:   "wave.vert",
			FragmentShader: "wave.frag",
			Profiling:      true,
		}, c.Renderer)
		assert.Equal(t, LogConfiguration{Level: logrus.DebugLevel, JSON: true}, c.Log)
	})
}

func TestFromEnvInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{KeyWindowWidth, "wide"},
		{KeyWindowHeight, "-1"},
		{KeyVSync, "maybe"},
		{KeyMaxStep, "10"},
		{KeyMaxStep, "-5ms"},
		{KeyFrameLimit, "-30"},
		{KeyClearColor, "1,0,0"},
		{KeyClearColor, "1,0,0,2"},
		{KeyClearColor, "r,g,b,a"},
		{KeyLogLevel, "loud"},
		{KeyLogJSON, "yes please"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			envy.Temp(func() {
				envy.Set(tt.key, tt.value)
				_, err := FromEnv()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.key)
			})
		})
	}
}

func TestLoadDotenvFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.env")
	local := filepath.Join(dir, "local.env")
	require.NoError(t, os.WriteFile(base, []byte("OXY_WINDOW_TITLE=base\nOXY_FRAME_LIMIT=60\n"), 0o644))
	require.NoError(t, os.WriteFile(local, []byte("OXY_WINDOW_TITLE=local\n"), 0o644))

	// runs after the variables below are restored
	t.Cleanup(envy.Reload)
	t.Setenv(KeyWindowTitle, "from-env")
	t.Setenv(KeyFrameLimit, "")

	c, err := Load(base, filepath.Join(dir, "missing.env"), local)
	require.NoError(t, err)
	assert.Equal(t, "local", c.Window.Title)
	assert.Equal(t, 60.0, c.Time.FrameLimit)
}

func TestLogConfigurationConfigure(t *testing.T) {
	logger := logrus.New()

	LogConfiguration{Level: logrus.WarnLevel, JSON: true}.Configure(logger)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	LogConfiguration{Level: logrus.DebugLevel}.Configure(logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
