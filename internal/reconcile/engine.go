// Package reconcile brings the running sched_ext scheduler, the boot-time
// loader configuration and the competing service units in line with the
// scheduler a user selects.
package reconcile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
	"github.com/scxmgr/scxmgr/internal/elevate"
	"github.com/scxmgr/scxmgr/internal/loader"
	"github.com/scxmgr/scxmgr/internal/persis/fileloaderconfig"
	"github.com/scxmgr/scxmgr/internal/scx"
	"github.com/scxmgr/scxmgr/internal/systemd"
)

// ErrInvalidFlags is returned when the extra flags cannot be tokenized.
var ErrInvalidFlags = errors.New("invalid scheduler flags")

// Defaults for the Engine options.
const (
	DefaultTempPath       = "/tmp/scx_loader.toml"
	DefaultLegacyUnit     = "scx"
	DefaultSupervisorUnit = "scx_loader"
)

// Engine applies scheduler selections. It is not safe for concurrent use;
// callers serialize operations on one Engine.
type Engine struct {
	client   loader.Client
	units    systemd.Units
	copier   elevate.Copier
	config   *fileloaderconfig.Config
	registry *scx.Registry

	tempPath       string
	legacyUnit     string
	supervisorUnit string
	newOpID        func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithTempPath sets where the document is written before relocation.
func WithTempPath(path string) Option {
	return func(e *Engine) {
		if path != "" {
			e.tempPath = path
		}
	}
}

// WithLegacyUnit names the service that conflicts with the loader.
func WithLegacyUnit(unit string) Option {
	return func(e *Engine) {
		if unit != "" {
			e.legacyUnit = unit
		}
	}
}

// WithSupervisorUnit names the loader service unit.
func WithSupervisorUnit(unit string) Option {
	return func(e *Engine) {
		if unit != "" {
			e.supervisorUnit = unit
		}
	}
}

// WithRegistry restricts the schedulers the engine accepts.
func WithRegistry(r *scx.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// New returns an Engine operating on cfg.
func New(cfg *fileloaderconfig.Config, client loader.Client, units systemd.Units, copier elevate.Copier, opts ...Option) *Engine {
	if cfg == nil {
		cfg = fileloaderconfig.DefaultConfig()
	}
	e := &Engine{
		client:         client,
		units:          units,
		copier:         copier,
		config:         cfg,
		registry:       scx.DefaultRegistry(),
		tempPath:       DefaultTempPath,
		legacyUnit:     DefaultLegacyUnit,
		supervisorUnit: DefaultSupervisorUnit,
		newOpID:        newOpID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the in-memory loader document.
func (e *Engine) Config() *fileloaderconfig.Config { return e.config }

// TempPath returns the staging path of the document.
func (e *Engine) TempPath() string { return e.tempPath }

// Resolve validates a scheduler name and mode code.
func (e *Engine) Resolve(name string, modeCode uint32) (scx.Scheduler, scx.Mode, error) {
	s, err := e.registry.Resolve(name)
	if err != nil {
		return 0, 0, err
	}
	m, err := e.registry.ResolveMode(modeCode)
	if err != nil {
		return 0, 0, err
	}
	return s, m, nil
}

// FlagsForMode returns the arguments name runs with in the given mode: the
// stored override if any, else the built-in default.
func (e *Engine) FlagsForMode(name string, modeCode uint32) ([]string, error) {
	s, m, err := e.Resolve(name, modeCode)
	if err != nil {
		return nil, err
	}
	return e.config.FlagsForMode(s, m), nil
}

func (e *Engine) CurrentScheduler(ctx context.Context) (string, error) {
	return e.client.CurrentScheduler(ctx)
}

func (e *Engine) CurrentMode(ctx context.Context) (scx.Mode, error) {
	return e.client.CurrentMode(ctx)
}

func (e *Engine) SupportedSchedulers(ctx context.Context) ([]string, error) {
	return e.client.SupportedSchedulers(ctx)
}

func newOpID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// opContext attaches an operation id to the context logger.
func (e *Engine) opContext(ctx context.Context, op string) (context.Context, string) {
	id := e.newOpID()
	return logger.WithLogger(ctx, logger.FromContext(ctx).With(tag.OpID(id), tag.Operation(op))), id
}

// persist writes the document to the staging path and copies it to
// finalPath with elevated privileges.
func (e *Engine) persist(ctx context.Context, finalPath string) error {
	if err := e.config.WriteFile(e.tempPath); err != nil {
		return err
	}
	logger.Debug(ctx, "Wrote loader config", tag.Path(e.tempPath))

	if err := e.copier.Copy(ctx, e.tempPath, finalPath); err != nil {
		logger.Error(ctx, "Failed to install loader config", tag.Path(finalPath), tag.Error(err))
		return err
	}
	logger.Info(ctx, "Installed loader config", tag.Path(finalPath))
	return nil
}
