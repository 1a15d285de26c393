package backend

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"qtermsim/metrics"
	"qtermsim/ops"
	"qtermsim/sim"
)

// Settings is the process-level backend configuration.
type Settings struct {
	// DefaultBackend is used by runs that name no backend.
	DefaultBackend string
	// Sim configures the statevector backend built by Reset.
	Sim sim.Config
}

// DefaultSettings selects the statevector backend with default sim.Config.
func DefaultSettings() Settings {
	return Settings{DefaultBackend: StatevectorName, Sim: sim.NewConfig()}
}

// Registry maps names to backends. It is safe for concurrent use; the
// backends it returns are not.
type Registry struct {
	mu       sync.RWMutex
	base     Settings
	settings Settings
	backends map[string]Backend
}

// NewRegistry returns a registry holding the built-in backends, configured
// by settings. Reset restores this state.
func NewRegistry(settings Settings) (*Registry, error) {
	r := &Registry{base: settings}
	r.Reset()
	if _, ok := r.backends[settings.DefaultBackend]; !ok {
		return nil, fmt.Errorf("default backend %q: %w", settings.DefaultBackend, ErrUnknownBackend)
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry is the process-wide registry, created with
// DefaultSettings on first use.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(DefaultSettings())
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Reset drops registrations and settings made since construction and
// rebuilds the built-in backends with fresh identities.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = r.base
	r.backends = make(map[string]Backend)
	for _, b := range []Backend{NewStatevector(r.base.Sim), NewQASMOutput(), NewUnitary()} {
		r.backends[b.Name()] = b
	}
	zap.L().Info("backend registry reset", zap.String("default", r.settings.DefaultBackend))
}

// Register adds b under its name, replacing any previous holder.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
	zap.L().Info("backend registered", zap.String("name", b.Name()), zap.String("id", b.ID().String()))
}

// Lookup returns the backend registered as name.
func (r *Registry) Lookup(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownBackend)
	}
	return b, nil
}

// Names lists registered backends in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.backends))
	for name := range r.backends {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// DefaultBackend is the name used by runs that select no backend.
func (r *Registry) DefaultBackend() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.DefaultBackend
}

// SetDefaultBackend changes the default. The name must be registered.
func (r *Registry) SetDefaultBackend(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.backends[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownBackend)
	}
	r.settings.DefaultBackend = name
	zap.L().Info("default backend set", zap.String("name", name))
	return nil
}

// Resolve picks the backend for opts: an explicit instance, then a name,
// then the default.
func (r *Registry) Resolve(opts Options) (Backend, error) {
	if opts.Backend != nil {
		return opts.Backend, nil
	}
	name := opts.BackendName
	if name == "" {
		name = r.DefaultBackend()
	}
	return r.Lookup(name)
}

// Run resolves a backend, hands it the matching cache slot from caches and
// records the run. caches may be nil.
func (r *Registry) Run(list []ops.Operation, n int, caches Caches, opts Options) (Result, error) {
	b, err := r.Resolve(opts)
	if err != nil {
		return Result{}, err
	}

	var cache *sim.Cache
	if b.Capabilities().Cached && caches != nil {
		cache = caches.For(b)
	}

	start := time.Now()
	res, err := b.Run(list, n, cache, opts)
	elapsed := time.Since(start)
	metrics.ObserveRun(b.Name(), elapsed, err)

	if err != nil {
		zap.L().Debug("run failed", zap.String("backend", b.Name()), zap.Error(err))
		return Result{}, err
	}
	zap.L().Debug("run complete",
		zap.String("backend", b.Name()),
		zap.Int("operations", len(list)),
		zap.Int("qubits", n),
		zap.Int("shots", opts.Shots),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}
