package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

type Logger interface {
	Debug(msg string, tags ...any)
	Info(msg string, tags ...any)
	Warn(msg string, tags ...any)
	Error(msg string, tags ...any)

	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)

	With(attrs ...any) Logger

	// Write prints a message for the user in free form, bypassing levels.
	Write(string)
}

var _ Logger = (*appLogger)(nil)

type appLogger struct {
	logger  *slog.Logger
	sink    *guardedHandler
	console io.Writer
	quiet   bool
	debug   bool
}

type Config struct {
	debug   bool
	format  string
	writer  io.Writer
	console io.Writer
	quiet   bool
}

type Option func(*Config)

// WithDebug lowers the level to debug and adds source locations.
func WithDebug() Option {
	return func(o *Config) {
		o.debug = true
	}
}

// WithFormat selects the record format, "text" or "json".
func WithFormat(format string) Option {
	return func(o *Config) {
		o.format = format
	}
}

// WithWriter sends a copy of every record to w.
func WithWriter(w io.Writer) Option {
	return func(o *Config) {
		o.writer = w
	}
}

// WithConsole replaces stderr (records) and stdout (Write) with w.
func WithConsole(w io.Writer) Option {
	return func(o *Config) {
		o.console = w
	}
}

// WithQuiet suppresses console output.
func WithQuiet() Option {
	return func(o *Config) {
		o.quiet = true
	}
}

var defaultLogger = NewLogger(WithFormat("text"))

func NewLogger(opts ...Option) Logger {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.debug,
	}

	var (
		handlers []slog.Handler
		sink     *guardedHandler
	)

	stderr, stdout := io.Writer(os.Stderr), io.Writer(os.Stdout)
	if cfg.console != nil {
		stderr, stdout = cfg.console, cfg.console
	}
	if !cfg.quiet {
		handlers = append(handlers, newHandler(stderr, cfg.format, handlerOpts))
	}
	if cfg.writer != nil {
		sink = &guardedHandler{
			handler: newHandler(cfg.writer, cfg.format, handlerOpts),
			writer:  cfg.writer,
			mu:      &sync.Mutex{},
		}
		handlers = append(handlers, sink)
	}

	return &appLogger{
		logger:  slog.New(slogmulti.Fanout(handlers...)),
		sink:    sink,
		console: stdout,
		quiet:   cfg.quiet,
		debug:   cfg.debug,
	}
}

var _ slog.Handler = (*guardedHandler)(nil)

// guardedHandler serializes records written to a shared writer so that
// Write and the handler never interleave lines.
type guardedHandler struct {
	handler slog.Handler
	writer  io.Writer
	mu      *sync.Mutex
}

func (g *guardedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return g.handler.Enabled(ctx, level)
}

func (g *guardedHandler) Handle(ctx context.Context, record slog.Record) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handler.Handle(ctx, record)
}

func (g *guardedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &guardedHandler{handler: g.handler.WithAttrs(attrs), writer: g.writer, mu: g.mu}
}

func (g *guardedHandler) WithGroup(name string) slog.Handler {
	return &guardedHandler{handler: g.handler.WithGroup(name), writer: g.writer, mu: g.mu}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func (a *appLogger) Debug(msg string, tags ...any) { a.log(slog.LevelDebug, msg, tags...) }
func (a *appLogger) Info(msg string, tags ...any)  { a.log(slog.LevelInfo, msg, tags...) }
func (a *appLogger) Warn(msg string, tags ...any)  { a.log(slog.LevelWarn, msg, tags...) }
func (a *appLogger) Error(msg string, tags ...any) { a.log(slog.LevelError, msg, tags...) }

func (a *appLogger) Debugf(format string, v ...any) {
	a.log(slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (a *appLogger) Infof(format string, v ...any) {
	a.log(slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (a *appLogger) Warnf(format string, v ...any) {
	a.log(slog.LevelWarn, fmt.Sprintf(format, v...))
}

func (a *appLogger) Errorf(format string, v ...any) {
	a.log(slog.LevelError, fmt.Sprintf(format, v...))
}

// log records msg with the program counter of the caller of the public
// method, so that source locations point at application code.
func (a *appLogger) log(level slog.Level, msg string, tags ...any) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	if a.debug {
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:]) // runtime.Callers, log, public method
		pc = pcs[0]
	}

	record := slog.NewRecord(time.Now(), level, msg, pc)
	record.Add(tags...)
	_ = a.logger.Handler().Handle(ctx, record)
}

func (a *appLogger) With(attrs ...any) Logger {
	clone := *a
	clone.logger = a.logger.With(attrs...)
	return &clone
}

func (a *appLogger) Write(msg string) {
	if !a.quiet {
		_, _ = fmt.Fprintln(a.console, msg)
	}
	if a.sink != nil {
		a.sink.mu.Lock()
		defer a.sink.mu.Unlock()
		_, _ = a.sink.writer.Write([]byte(msg + "\n"))
	}
}
