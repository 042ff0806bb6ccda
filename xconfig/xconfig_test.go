package xconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	Level   string `yaml:"level" json:"level" default:"info"`
	LogType string `yaml:"log_type" json:"log_type"`
}

type testConfig struct {
	Logger        testLogger                   `yaml:"logger" json:"logger"`
	StrictOutputs bool                         `yaml:"strict_outputs" json:"strict_outputs"`
	MaxPasses     int                          `yaml:"max_passes" json:"max_passes" default:"1"`
	Settle        time.Duration                `yaml:"settle" json:"settle"`
	Components    []string                     `yaml:"components" json:"components"`
	Stimulus      map[string]map[string]string `yaml:"stimulus" json:"stimulus"`
	Internal      string                       `yaml:"-" json:"-"`
}

type defaultedConfig struct {
	Logger testLogger `yaml:"logger"`
	Name   string     `yaml:"name"`
}

func (c *defaultedConfig) Default() {
	c.Name = "sim"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("default tags", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, Load(&cfg))

		assert.Equal(t, "info", cfg.Logger.Level)
		assert.Equal(t, 1, cfg.MaxPasses)
		assert.False(t, cfg.StrictOutputs)
	})

	t.Run("default methods", func(t *testing.T) {
		var cfg defaultedConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "sim", cfg.Name)
		assert.Equal(t, "info", cfg.Logger.Level)
	})

	t.Run("YAML file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sim.yaml", `logger:
  level: debug
  log_type: json
strict_outputs: true
stimulus:
  AndGate:
    a: HIGH
    b: LOW
`)

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(path)))

		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.LogType)
		assert.True(t, cfg.StrictOutputs)
		assert.Equal(t, map[string]map[string]string{
			"AndGate": {"a": "HIGH", "b": "LOW"},
		}, cfg.Stimulus)
	})

	t.Run("JSON file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sim.json", `{"logger": {"level": "warn"}, "max_passes": 3}`)

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(path)))

		assert.Equal(t, "warn", cfg.Logger.Level)
		assert.Equal(t, 3, cfg.MaxPasses)
	})

	t.Run("later files override earlier ones", func(t *testing.T) {
		dir := t.TempDir()
		first := writeFile(t, dir, "a.yaml", "logger:\n  level: debug\nmax_passes: 2\n")
		second := writeFile(t, dir, "b.yaml", "logger:\n  level: error\n")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(first, second)))

		assert.Equal(t, "error", cfg.Logger.Level)
		assert.Equal(t, 2, cfg.MaxPasses)
	})

	t.Run("directories load in name order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "20-override.yml", "logger:\n  level: warn\n")
		writeFile(t, dir, "10-base.yaml", "logger:\n  level: debug\n  log_type: json\n")
		writeFile(t, dir, "README.md", "ignored")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithDirs(dir, filepath.Join(dir, "missing"))))

		assert.Equal(t, "warn", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.LogType)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(filepath.Join(t.TempDir(), "absent.yaml"))))
		assert.Equal(t, "info", cfg.Logger.Level)
	})

	t.Run("empty YAML file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "empty.yaml", "\n")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(path)))
		assert.Equal(t, "info", cfg.Logger.Level)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sim.txt", "level: debug")

		var cfg testConfig
		err := Load(&cfg, WithFiles(path))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file extension")
	})

	t.Run("strict rejects unknown fields", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sim.yaml", "loger:\n  level: debug\n")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(path)))
		require.Error(t, Load(&cfg, WithFiles(path), WithStrict()))
	})

	t.Run("strict JSON rejects unknown fields", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sim.json", `{"bogus": 1}`)

		var cfg testConfig
		require.Error(t, Load(&cfg, WithFiles(path), WithStrict()))
	})

	t.Run("environment overrides files", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sim.yaml", "logger:\n  level: debug\n")
		t.Setenv("HDLSIM_LOGGER_LEVEL", "error")
		t.Setenv("HDLSIM_STRICT_OUTPUTS", "true")
		t.Setenv("HDLSIM_SETTLE", "250ms")
		t.Setenv("HDLSIM_COMPONENTS", "AndGate, OrGate")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithFiles(path), WithEnv("hdlsim")))

		assert.Equal(t, "error", cfg.Logger.Level)
		assert.True(t, cfg.StrictOutputs)
		assert.Equal(t, 250*time.Millisecond, cfg.Settle)
		assert.Equal(t, []string{"AndGate", "OrGate"}, cfg.Components)
	})

	t.Run("environment without prefix", func(t *testing.T) {
		t.Setenv("MAX_PASSES", "4")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithEnv(EnvSkipPrefix)))
		assert.Equal(t, 4, cfg.MaxPasses)
	})

	t.Run("invalid environment value", func(t *testing.T) {
		t.Setenv("HDLSIM_MAX_PASSES", "many")

		var cfg testConfig
		err := Load(&cfg, WithEnv("HDLSIM"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HDLSIM_MAX_PASSES")
	})

	t.Run("ignored fields", func(t *testing.T) {
		t.Setenv("HDLSIM_INTERNAL", "leak")

		var cfg testConfig
		require.NoError(t, Load(&cfg, WithEnv("HDLSIM")))
		assert.Empty(t, cfg.Internal)
	})

	t.Run("non-pointer config", func(t *testing.T) {
		var cfg testConfig
		err := Load(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-nil pointer")
	})

	t.Run("pointer to non-struct", func(t *testing.T) {
		var level string
		require.Error(t, Load(&level))
	})
}

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Level", "level"},
		{"LogType", "log_type"},
		{"StrictOutputs", "strict_outputs"},
		{"HTTPServer", "http_server"},
		{"ID", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, camelToSnake(tt.input))
		})
	}
}

func TestSetMapFromString(t *testing.T) {
	t.Run("pairs", func(t *testing.T) {
		var m map[string]string
		require.NoError(t, setValueFromString(reflect.ValueOf(&m).Elem(), "a=HIGH, b=LOW"))
		assert.Equal(t, map[string]string{"a": "HIGH", "b": "LOW"}, m)
	})

	t.Run("invalid pair", func(t *testing.T) {
		var m map[string]string
		require.Error(t, setValueFromString(reflect.ValueOf(&m).Elem(), "a"))
	})
}
