package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns the logger configured by cfg. Without a log file it
// writes colored text to stderr, colors disabled when stderr is not a
// terminal. With a log file it writes JSON lines to a rotated file; the
// returned closer must then be closed on exit.
func NewLogger(cfg Config, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, err
	}

	if cfg.LogFile != "" {
		w := &lumberjack.Logger{
			Filename: cfg.LogFile,
			MaxSize:  50, // megabytes
			MaxAge:   7,  // days
			Compress: true,
		}
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), w, nil
	}

	return slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(stderr),
	})), nil, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
