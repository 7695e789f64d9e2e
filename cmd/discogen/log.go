package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogOptions selects the slog handler the CLI logs through.
type LogOptions struct {
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info" env:"DISCOGEN_LOG_LEVEL"`
	LogFormat string `help:"Log format (text, json)." default:"text" env:"DISCOGEN_LOG_FORMAT"`
}

func setupSlog(options LogOptions, w io.Writer) (*slog.Logger, error) {
	var hopts slog.HandlerOptions
	switch strings.ToLower(options.LogLevel) {
	case "debug":
		hopts.Level = slog.LevelDebug
	case "", "info":
		hopts.Level = slog.LevelInfo
	case "warn":
		hopts.Level = slog.LevelWarn
	case "error":
		hopts.Level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %#v", options.LogLevel)
	}

	var handler slog.Handler
	switch strings.ToLower(options.LogFormat) {
	case "", "text":
		handler = slog.NewTextHandler(w, &hopts)
	case "json":
		handler = slog.NewJSONHandler(w, &hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", options.LogFormat)
	}
	return slog.New(handler), nil
}
