package hdlsim

import (
	"fmt"
	"log/slog"

	"github.com/vitalvas/hdlkit/hdl"
	"github.com/vitalvas/hdlkit/xconfig"
	"github.com/vitalvas/hdlkit/xlogger"
)

// EnvPrefix prefixes environment overrides, e.g. HDLSIM_LOGGER_LEVEL.
const EnvPrefix = "HDLSIM"

// Config configures Simulate: logging, strict outputs and input stimulus.
type Config struct {
	Logger        xlogger.Config               `yaml:"logger" json:"logger"`
	StrictOutputs bool                         `yaml:"strict_outputs" json:"strict_outputs"`
	Stimulus      map[string]map[string]string `yaml:"stimulus" json:"stimulus"`
}

// LoadConfig reads configuration files in order, then environment overrides.
func LoadConfig(files ...string) (*Config, error) {
	var cfg Config

	if err := xconfig.Load(&cfg, xconfig.WithFiles(files...), xconfig.WithEnv(EnvPrefix)); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// NewLogger builds the configured logger. Logging is off when no log type is set.
func (c *Config) NewLogger() *slog.Logger {
	if c.Logger.LogType == "" {
		return xlogger.Discard()
	}
	return xlogger.New(c.Logger)
}

// Simulate compiles src, applies the configured stimulus and runs one pass.
func Simulate(src string, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	prog, err := hdl.Compile(src)
	if err != nil {
		return nil, err
	}

	stimulus, err := ParseStimulus(cfg.Stimulus)
	if err != nil {
		return nil, fmt.Errorf("invalid stimulus: %w", err)
	}

	engine, err := NewEngine(prog, WithLogger(cfg.NewLogger()), WithStrictOutputs(cfg.StrictOutputs))
	if err != nil {
		return nil, err
	}

	if err := engine.Apply(stimulus); err != nil {
		return nil, fmt.Errorf("failed to apply stimulus: %w", err)
	}

	if err := engine.Run(); err != nil {
		return nil, err
	}

	return engine, nil
}
