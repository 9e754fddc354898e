package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/circuitlab/internal/metrics"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

// Loader reads a YAML circuit library and watches it for changes.
type Loader struct {
	path     string
	logger   *slog.Logger
	mu       sync.RWMutex
	current  *LibraryConfig
	onChange []func(*LibraryConfig)
}

// NewLoader creates a Loader and performs the initial load. A nil logger
// falls back to slog.Default().
func NewLoader(path string, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{path: path, logger: logger}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Path returns the watched file.
func (l *Loader) Path() string { return l.path }

// Config returns the current (latest) library.
func (l *Loader) Config() *LibraryConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the library reloads.
func (l *Loader) OnChange(fn func(*LibraryConfig)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the library on file
// changes. The parent directory is watched so editors that replace the file
// on save are still seen. A reload that fails keeps the previous library.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", dir, err)
	}
	target := filepath.Clean(l.path)

	done := make(chan struct{})
	var once sync.Once
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := l.Reload(); err != nil {
						l.logger.Warn("config reload failed, keeping previous library",
							"path", l.path, "error", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("config watcher error", "error", err)
			case <-done:
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the library file.
func (l *Loader) Reload() (*LibraryConfig, error) {
	cfg, err := l.load()
	if err != nil {
		metrics.ConfigReloads.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ConfigReloads.WithLabelValues("success").Inc()
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*LibraryConfig), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	l.logger.Info("config reloaded", "path", l.path, "circuits", len(cfg.Circuits))
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) load() (*LibraryConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", l.path, err)
	}
	return cfg, nil
}

// Parse decodes a library, applies defaults and validates it.
func Parse(data []byte) (*LibraryConfig, error) {
	var cfg LibraryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultEngineConf is the engine configuration used when a library leaves
// settings unset, and by commands that run without a library.
func DefaultEngineConf() EngineConf {
	return EngineConf{Workers: 4, QueueDepth: 256, TimeoutMs: 2000}
}

// ApplyDefaults fills zero-valued settings.
func ApplyDefaults(cfg *LibraryConfig) {
	def := DefaultEngineConf()
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = def.Workers
	}
	if cfg.Engine.QueueDepth == 0 {
		cfg.Engine.QueueDepth = def.QueueDepth
	}
	if cfg.Engine.TimeoutMs == 0 {
		cfg.Engine.TimeoutMs = def.TimeoutMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	for i := range cfg.Circuits {
		if cfg.Circuits[i].Variant == "" {
			cfg.Circuits[i].Variant = validate.VariantLED
		}
	}
}
