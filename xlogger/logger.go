package xlogger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Level      string `yaml:"level" json:"level" default:"info"`
	LogType    string `yaml:"log_type" json:"log_type"`
	AddSource  bool   `yaml:"add_source" json:"add_source"`
	SourcePath string `yaml:"source_path" json:"source_path"`

	// Output receives the log records; stdout when nil.
	Output io.Writer `yaml:"-" json:"-"`
}

func New(conf Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   conf.AddSource,
		Level:       getLogLevel(conf.Level),
		ReplaceAttr: replaceAttr(conf),
	}

	output := conf.Output
	if output == nil {
		output = os.Stdout
	}

	return slog.New(getHandler(conf.LogType, output, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(Config{LogType: "discard"})
}

func getLogLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getHandler(logType string, output io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(logType) {
	case "json":
		return slog.NewJSONHandler(output, opts)

	case "discard":
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)})

	default:
		return slog.NewTextHandler(output, opts)
	}
}

func replaceAttr(conf Config) func(groups []string, a slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		if attr.Key != slog.SourceKey {
			return attr
		}

		source, ok := attr.Value.Any().(*slog.Source)
		if !ok || source == nil {
			return attr
		}

		file := source.File
		if len(conf.SourcePath) > 0 {
			if index := strings.Index(file, conf.SourcePath); index >= 0 {
				file = file[index+len(conf.SourcePath):]
			}
		}

		return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", file, source.Line))
	}
}
