package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// NewLogger builds the application logger. "json" produces structured lines readable by log collectors,
// anything else produces the human friendly local development format.
func NewLogger(format string, level slog.Level) *slog.Logger {
	return newLogger(os.Stdout, format, level)
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: JSONLoggerAttributeReplacer,
		}))
	}
	return slog.New(LocalDevHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
		UseColor: true,
	}.NewLocalDevHandler(w))
}

func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Newf("unknown log level %q", level)
}

func JSONLoggerAttributeReplacer(groups []string, a slog.Attr) slog.Attr {
	// "message" and "severity" are the keys log collectors pick up as the main message and level
	if a.Key == slog.MessageKey {
		a.Key = "message"
		return a
	}

	if a.Key == slog.LevelKey {
		a.Key = "severity"
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		switch {
		case level < slog.LevelInfo:
			a.Value = slog.StringValue("DEBUG")
		case level < slog.LevelWarn:
			a.Value = slog.StringValue("INFO")
		case level < slog.LevelError:
			a.Value = slog.StringValue("WARNING")
		default:
			a.Value = slog.StringValue("ERROR")
		}
	}

	return a
}

type LocalDevHandler struct {
	opts            LocalDevHandlerOptions
	internalHandler slog.Handler

	mu *sync.Mutex
	w  io.Writer
}

type LocalDevHandlerOptions struct {
	SlogOpts slog.HandlerOptions
	UseColor bool
}

func (opts LocalDevHandlerOptions) NewLocalDevHandler(w io.Writer) *LocalDevHandler {
	internalOpts := opts.SlogOpts
	internalOpts.AddSource = false
	internalOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		// time, level and message are printed by Handle, the text handler only prints the attributes
		if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
			return slog.Attr{}
		}
		if rep := opts.SlogOpts.ReplaceAttr; rep != nil {
			return rep(groups, a)
		}
		return a
	}
	return &LocalDevHandler{
		opts:            opts,
		w:               w,
		mu:              &sync.Mutex{},
		internalHandler: slog.NewTextHandler(w, &internalOpts),
	}
}

func (h *LocalDevHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.internalHandler.Enabled(ctx, level)
}

func (h *LocalDevHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString(r.Time.Format(time.RFC3339))
	buf.WriteString(" ")

	level := r.Level.String()
	if h.opts.UseColor {
		level = addColorToLevel(level)
	}
	buf.WriteString(level)
	buf.WriteString(" ")
	buf.WriteString(r.Message)
	buf.WriteString(" ")

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.w.Write(buf.Bytes()); err != nil {
		return err
	}

	return h.internalHandler.Handle(ctx, r)
}

func (h *LocalDevHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LocalDevHandler{
		opts:            h.opts,
		w:               h.w,
		mu:              h.mu,
		internalHandler: h.internalHandler.WithAttrs(attrs),
	}
}

func (h *LocalDevHandler) WithGroup(name string) slog.Handler {
	return &LocalDevHandler{
		opts:            h.opts,
		w:               h.w,
		mu:              h.mu,
		internalHandler: h.internalHandler.WithGroup(name),
	}
}

type Color uint8

const (
	Red     Color = 31
	Yellow  Color = 33
	Blue    Color = 34
	Magenta Color = 35
)

func (c Color) Add(s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", uint8(c), s)
}

var levelToColor = map[string]Color{
	slog.LevelDebug.String(): Magenta,
	slog.LevelInfo.String():  Blue,
	slog.LevelWarn.String():  Yellow,
	slog.LevelError.String(): Red,
}

func addColorToLevel(level string) string {
	color, ok := levelToColor[level]
	if !ok {
		color = Red
	}
	return color.Add(level)
}
