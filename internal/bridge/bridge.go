// Package bridge is the flat call surface over the reconciliation engine.
// Every operation takes and returns strings and small integers, and every
// failure is reported as a single *Error.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
	"github.com/scxmgr/scxmgr/internal/cmn/config"
	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
	"github.com/scxmgr/scxmgr/internal/elevate"
	"github.com/scxmgr/scxmgr/internal/loader"
	"github.com/scxmgr/scxmgr/internal/persis/fileloaderconfig"
	"github.com/scxmgr/scxmgr/internal/reconcile"
	"github.com/scxmgr/scxmgr/internal/scx"
	"github.com/scxmgr/scxmgr/internal/systemd"
)

// Error is the only error type returned by a Session.
type Error struct {
	// Op is the operation that failed.
	Op string
	// Message describes the failure for a human.
	Message string

	err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.err }

func newError(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return &Error{Op: op, Message: err.Error(), err: err}
}

// Session holds one loaded loader document and the collaborators used to
// act on it. It is not safe for concurrent use.
type Session struct {
	engine       *reconcile.Engine
	loaderConfig string
}

// Option configures Open.
type Option func(*options)

type options struct {
	appConfig      *config.Config
	client         loader.Client
	units          systemd.Units
	copier         elevate.Copier
	runner         cmdutil.Runner
	advertisedOnly bool
}

// WithAppConfig uses cfg instead of loading the application configuration.
func WithAppConfig(cfg *config.Config) Option {
	return func(o *options) { o.appConfig = cfg }
}

// WithClient replaces the D-Bus loader client.
func WithClient(c loader.Client) Option {
	return func(o *options) { o.client = c }
}

// WithUnits replaces the systemd backend.
func WithUnits(u systemd.Units) Option {
	return func(o *options) { o.units = u }
}

// WithCopier replaces the privileged copy.
func WithCopier(c elevate.Copier) Option {
	return func(o *options) { o.copier = c }
}

// WithRunner replaces the runner used by the systemctl backend and pkexec.
func WithRunner(r cmdutil.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithAdvertisedOnly restricts scheduler names to those the loader service
// advertises when the session opens.
func WithAdvertisedOnly() Option {
	return func(o *options) { o.advertisedOnly = true }
}

type optionsKey struct{}

// ContextWithOptions returns a copy of ctx carrying opts. Open applies them
// before its own arguments.
func ContextWithOptions(ctx context.Context, opts ...Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, append(optionsFromContext(ctx), opts...))
}

func optionsFromContext(ctx context.Context) []Option {
	if opts, ok := ctx.Value(optionsKey{}).([]Option); ok {
		return append([]Option(nil), opts...)
	}
	return nil
}

// Open loads the loader document at path and wires a Session around it. An
// empty path selects the loader_config setting. A missing document yields
// the empty default document.
func Open(ctx context.Context, path string, opts ...Option) (*Session, error) {
	const op = "Open"

	var o options
	for _, opt := range append(optionsFromContext(ctx), opts...) {
		opt(&o)
	}

	cfg := o.appConfig
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, newError(op, err)
		}
		cfg = loaded
	}
	if path == "" {
		path = cfg.Paths.LoaderConfig
	}

	runner := o.runner
	if runner == nil {
		runner = cmdutil.NewRunner(cfg.Core.Shell)
	}
	client := o.client
	if client == nil {
		c, err := loader.NewDBusClient(loader.Bus(cfg.Loader.Bus))
		if err != nil {
			return nil, newError(op, err)
		}
		client = c
	}
	units := o.units
	if units == nil {
		u, err := systemd.New(cfg.Units.Backend, runner, cfg.Units.Systemctl)
		if err != nil {
			return nil, newError(op, err)
		}
		units = u
	}
	copier := o.copier
	if copier == nil {
		copier = elevate.NewPkexec(runner, cfg.Elevate.Pkexec, cfg.Elevate.Cp)
	}

	doc, err := fileloaderconfig.LoadOrDefault(path)
	if err != nil {
		return nil, newError(op, err)
	}
	for _, w := range doc.Warnings {
		logger.Warn(ctx, w, tag.File(path))
	}

	engineOpts := []reconcile.Option{
		reconcile.WithTempPath(cfg.Paths.TempPath),
		reconcile.WithLegacyUnit(cfg.Units.Legacy),
		reconcile.WithSupervisorUnit(cfg.Units.Supervisor),
	}
	if o.advertisedOnly {
		names, err := client.SupportedSchedulers(ctx)
		if err != nil {
			return nil, newError(op, err)
		}
		registry, unknown := scx.NewRegistry(names)
		if len(unknown) > 0 {
			logger.Warn(ctx, "Loader advertises unknown schedulers", tag.Args(unknown))
		}
		engineOpts = append(engineOpts, reconcile.WithRegistry(registry))
	}

	logger.Debug(ctx, "Opened loader config",
		tag.File(path),
		tag.Bus(cfg.Loader.Bus),
		tag.Backend(cfg.Units.Backend),
	)

	return &Session{
		engine:       reconcile.New(doc, client, units, copier, engineOpts...),
		loaderConfig: path,
	}, nil
}

// LoaderConfigPath returns the path the session was opened with.
func (s *Session) LoaderConfigPath() string { return s.loaderConfig }

// ResolveScheduler validates name and returns its canonical spelling.
func (s *Session) ResolveScheduler(name string) (string, error) {
	sched, _, err := s.engine.Resolve(name, scx.Auto.Code())
	if err != nil {
		return "", newError("ResolveScheduler", err)
	}
	return sched.String(), nil
}

// ResolveMode validates a mode code and returns the mode name.
func (s *Session) ResolveMode(code uint32) (string, error) {
	m, err := scx.ParseModeCode(code)
	if err != nil {
		return "", newError("ResolveMode", err)
	}
	return m.String(), nil
}

// FlagsForMode returns the arguments the scheduler runs with in the mode.
func (s *Session) FlagsForMode(name string, code uint32) ([]string, error) {
	args, err := s.engine.FlagsForMode(name, code)
	if err != nil {
		return nil, newError("FlagsForMode", err)
	}
	return args, nil
}

// ApplySchedulerChange switches to the scheduler and installs the updated
// document at path, or at the session path when path is empty.
func (s *Session) ApplySchedulerChange(ctx context.Context, name string, code uint32, flags, path string) error {
	if path == "" {
		path = s.loaderConfig
	}
	if _, err := s.engine.Apply(ctx, name, code, flags, path); err != nil {
		return newError("ApplySchedulerChange", err)
	}
	return nil
}

// DisableScheduler stops the running scheduler and clears the boot-time
// selection in the document at path, or at the session path when path is
// empty.
func (s *Session) DisableScheduler(ctx context.Context, path string) error {
	if path == "" {
		path = s.loaderConfig
	}
	if _, err := s.engine.Disable(ctx, path); err != nil {
		return newError("DisableScheduler", err)
	}
	return nil
}

// SupportedSchedulers lists the schedulers the loader service can run.
func (s *Session) SupportedSchedulers(ctx context.Context) ([]string, error) {
	names, err := s.engine.SupportedSchedulers(ctx)
	if err != nil {
		return nil, newError("SupportedSchedulers", err)
	}
	return names, nil
}

// CurrentScheduler returns the name of the running scheduler as reported by
// the loader service.
func (s *Session) CurrentScheduler(ctx context.Context) (string, error) {
	name, err := s.engine.CurrentScheduler(ctx)
	if err != nil {
		return "", newError("CurrentScheduler", err)
	}
	return name, nil
}

// CurrentMode returns the code of the running mode.
func (s *Session) CurrentMode(ctx context.Context) (uint8, error) {
	m, err := s.engine.CurrentMode(ctx)
	if err != nil {
		return 0, newError("CurrentMode", err)
	}
	if !m.Valid() {
		return 0, newError("CurrentMode", fmt.Errorf("%w: code %d", scx.ErrInvalidMode, m.Code()))
	}
	return uint8(m.Code()), nil
}
