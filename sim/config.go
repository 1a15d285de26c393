package sim

import (
	"fmt"
	"runtime"
)

// Numeric and scheduling defaults.
const (
	// DefaultEpsilon is the squared-distance tolerance used when comparing
	// state vectors, and the probability at or below which a sampled outcome
	// counts as round-off. Long gate chains accumulate error well above it.
	DefaultEpsilon = 1e-16

	// DefaultParallelShots is the shot count from which sampling is split
	// across workers.
	DefaultParallelShots = 4096
)

// Config carries the numeric policy and sampling parallelism.
type Config struct {
	Epsilon       float64
	Workers       int
	ParallelShots int
}

// Option mutates a Config under construction.
type Option func(*Config)

// NewConfig returns the defaults with opts applied.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Epsilon:       DefaultEpsilon,
		Workers:       runtime.GOMAXPROCS(0),
		ParallelShots: DefaultParallelShots,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithEpsilon sets the round-off floor used when sampling. It panics on a
// negative value.
func WithEpsilon(eps float64) Option {
	if eps < 0 {
		panic(fmt.Sprintf("sim: negative epsilon %g", eps))
	}
	return func(c *Config) { c.Epsilon = eps }
}

// WithWorkers bounds the number of goroutines drawing shots. It panics when
// n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("sim: workers must be >= 1, got %d", n))
	}
	return func(c *Config) { c.Workers = n }
}

// WithParallelShots sets the shot count from which sampling runs in parallel.
func WithParallelShots(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("sim: parallel shot threshold must be >= 1, got %d", n))
	}
	return func(c *Config) { c.ParallelShots = n }
}
