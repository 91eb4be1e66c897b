package test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/scxmgr/scxmgr/internal/bridge"
	"github.com/scxmgr/scxmgr/internal/cmn/config"
	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/persis/fileloaderconfig"
	"github.com/scxmgr/scxmgr/internal/schedext"
	"github.com/scxmgr/scxmgr/internal/test/fake"
)

// HelperOption defines functional options for Helper
type HelperOption func(*Options)

type Options struct {
	CaptureLoggingOutput bool // CaptureLoggingOutput enables capturing of logging output
	ConfigMutators       []func(*config.Config)
	LoaderDocument       string
}

// WithCaptureLoggingOutput creates a logging capture option
func WithCaptureLoggingOutput() HelperOption {
	return func(opts *Options) {
		opts.CaptureLoggingOutput = true
	}
}

// WithConfigMutator applies mutations to the configuration before it is
// written to the test config file.
func WithConfigMutator(mutator func(*config.Config)) HelperOption {
	return func(opts *Options) {
		opts.ConfigMutators = append(opts.ConfigMutators, mutator)
	}
}

// WithLoaderDocument seeds the scx_loader config with the given TOML.
func WithLoaderDocument(content string) HelperOption {
	return func(opts *Options) {
		opts.LoaderDocument = content
	}
}

// Helper bundles a test configuration with the fakes standing in for the
// loader service, systemd and pkexec.
type Helper struct {
	Context       context.Context
	Cancel        context.CancelFunc
	Config        *config.Config
	LoggingOutput *SyncBuffer

	Loader *fake.Loader
	Units  *fake.Units
	Copier *fake.Copier

	tmpDir string
}

// Setup creates a new Helper instance for testing
func Setup(t *testing.T, opts ...HelperOption) Helper {
	t.Helper()

	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	tmpDir := t.TempDir()

	cfg := &config.Config{
		Core: config.Core{
			Debug:     true,
			LogFormat: config.LogFormatText,
		},
		Paths: config.PathsConfig{
			LoaderConfig: filepath.Join(tmpDir, "etc", "scx_loader.toml"),
			TempPath:     filepath.Join(tmpDir, "scx_loader.toml.tmp"),
			SysfsRoot:    filepath.Join(tmpDir, "sys", "kernel", "sched_ext"),
		},
		Loader: config.LoaderConfig{Bus: config.BusSystem},
		Units: config.UnitsConfig{
			Backend:    config.BackendSystemctl,
			Systemctl:  config.DefaultSystemctl,
			Legacy:     config.DefaultLegacyUnit,
			Supervisor: config.DefaultLoaderUnit,
		},
	}
	for _, mutate := range options.ConfigMutators {
		mutate(cfg)
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Paths.LoaderConfig), 0750))
	if options.LoaderDocument != "" {
		require.NoError(t, os.WriteFile(cfg.Paths.LoaderConfig, []byte(options.LoaderDocument), 0600))
	}

	configFile := filepath.Join(tmpDir, "config.yaml")
	writeHelperConfigFile(t, cfg, configFile)

	loaded, err := config.Load(config.WithConfigFile(configFile))
	require.NoError(t, err)

	helper := Helper{
		Config: loaded,
		Loader: fake.NewLoader(),
		Units:  fake.NewUnits(),
		Copier: &fake.Copier{},
		tmpDir: tmpDir,
	}
	helper.Units.Enabled[loaded.Units.Supervisor] = true

	ctx := logger.WithLogger(context.Background(), logger.NewLogger(
		logger.WithDebug(),
		logger.WithFormat("text"),
	))
	if options.CaptureLoggingOutput {
		helper.LoggingOutput = &SyncBuffer{buf: new(bytes.Buffer)}
		ctx = logger.WithLogger(ctx, logger.NewLogger(
			logger.WithDebug(),
			logger.WithFormat("text"),
			logger.WithWriter(helper.LoggingOutput),
		))
	}
	ctx = bridge.ContextWithOptions(ctx,
		bridge.WithClient(helper.Loader),
		bridge.WithUnits(helper.Units),
		bridge.WithCopier(helper.Copier),
	)

	ctx, cancel := context.WithCancel(ctx)
	helper.Context = ctx
	helper.Cancel = cancel

	t.Cleanup(helper.Cleanup)
	return helper
}

// writeHelperConfigFile writes the config so commands can be pointed at it
// with --config.
func writeHelperConfigFile(t *testing.T, cfg *config.Config, configPath string) {
	t.Helper()

	configData := map[string]any{
		"debug":         cfg.Core.Debug,
		"log_format":    cfg.Core.LogFormat,
		"loader_config": cfg.Paths.LoaderConfig,
		"temp_path":     cfg.Paths.TempPath,
		"sysfs_root":    cfg.Paths.SysfsRoot,
		"bus":           cfg.Loader.Bus,
		"units": map[string]any{
			"backend":    cfg.Units.Backend,
			"systemctl":  cfg.Units.Systemctl,
			"legacy":     cfg.Units.Legacy,
			"supervisor": cfg.Units.Supervisor,
		},
	}
	if cfg.Core.Shell != "" {
		configData["shell"] = cfg.Core.Shell
	}

	content, err := yaml.Marshal(configData)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, content, 0600))
}

// Cleanup cancels the helper context.
func (h Helper) Cleanup() {
	if h.Cancel != nil {
		h.Cancel()
	}
}

// TempFile creates a temp file with specified name and content.
func (h Helper) TempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	filename := filepath.Join(h.tmpDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0750))
	require.NoError(t, os.WriteFile(filename, data, 0600))
	return filename
}

// WriteKernelState fakes the sched_ext sysfs files. An empty ops leaves the
// ops file out.
func (h Helper) WriteKernelState(t *testing.T, state, ops string) {
	t.Helper()

	root := h.Config.Paths.SysfsRoot
	require.NoError(t, os.MkdirAll(filepath.Join(root, "root"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "state"), []byte(state+"\n"), 0600))
	if ops != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "root", "ops"), []byte(ops+"\n"), 0600))
	}
}

// EnableKernel marks sched_ext as running ops.
func (h Helper) EnableKernel(t *testing.T, ops string) {
	t.Helper()
	h.WriteKernelState(t, schedext.StateEnabled, ops)
}

// LoaderDocument parses the installed scx_loader config.
func (h Helper) LoaderDocument(t *testing.T) *fileloaderconfig.Config {
	t.Helper()

	doc, err := fileloaderconfig.LoadOrDefault(h.Config.Paths.LoaderConfig)
	require.NoError(t, err)
	return doc
}

// SyncBuffer provides thread-safe buffer operations
type SyncBuffer struct {
	buf  *bytes.Buffer
	lock sync.Mutex
}

func (b *SyncBuffer) Write(p []byte) (n int, err error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}
