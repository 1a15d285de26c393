package backend

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"qtermsim/metrics"
	"qtermsim/ops"
	"qtermsim/sim"
)

// StatevectorName is the registry name of the dense simulator.
const StatevectorName = "statevector"

// Statevector simulates circuits on a dense amplitude vector. The unitary
// prefix of a list, up to the first Measure or Reset, is memoised in the
// caller's cache; the rest runs per shot.
type Statevector struct {
	identity
	cfg sim.Config
}

// NewStatevector returns a simulator using cfg for sampling parallelism.
func NewStatevector(cfg sim.Config) *Statevector {
	return &Statevector{identity: newIdentity(StatevectorName), cfg: cfg}
}

func (b *Statevector) Capabilities() Capabilities {
	return Capabilities{Statevector: true, Shots: true, Cached: true}
}

// Run evolves list and produces the outputs selected by opts:
//
//   - ReturnsAuto: counts when shots > 0, otherwise the statevector. A list
//     containing measurements run without shots yields one collapsed
//     trajectory.
//   - ReturnsStatevector: the statevector; shots must be 0.
//   - ReturnsShots: counts; shots must be positive.
//   - ReturnsStatevectorAndShots: counts and the post-measurement state of
//     the final shot; shots must be positive.
//
// Shots on a list without measurements measure every qubit.
func (b *Statevector) Run(list []ops.Operation, n int, cache *sim.Cache, opts Options) (Result, error) {
	if opts.Shots < 0 {
		return Result{}, fmt.Errorf("negative shot count %d: %w", opts.Shots, ErrUnsupportedOperation)
	}
	switch opts.Returns {
	case ReturnsStatevector:
		if opts.Shots > 0 {
			return Result{}, fmt.Errorf("%d shots with returns=%s: %w", opts.Shots, opts.Returns, ErrUnsupportedOperation)
		}
	case ReturnsShots, ReturnsStatevectorAndShots:
		if opts.Shots == 0 {
			return Result{}, fmt.Errorf("returns=%s without shots: %w", opts.Returns, ErrUnsupportedOperation)
		}
	case ReturnsAuto:
	default:
		return Result{}, fmt.Errorf("returns=%s: %w", opts.Returns, ErrUnsupportedOperation)
	}

	cut := ops.FirstNonUnitary(list)
	prefix, tail := list[:cut], list[cut:]

	if cache == nil {
		cache = sim.NewCache()
	}
	before := cache.Index()
	vec, event, err := cache.Advance(prefix, n)
	if err != nil {
		return Result{}, err
	}
	metrics.CacheEvent(string(event))
	switch event {
	case sim.CacheMiss:
		metrics.AddGates(len(prefix))
	case sim.CachePartial:
		metrics.AddGates(len(prefix) - before - 1)
	}

	res := Result{Backend: b.name}
	if opts.Shots == 0 {
		if len(tail) == 0 {
			res.Statevector = vec
			return res, nil
		}
		// One trajectory through the measurements stands in for the state.
		out, err := b.sampler(opts).Trajectories(vec, tail, 1, b.layout(opts), true)
		if err != nil {
			return Result{}, err
		}
		res.Statevector = out.State
		return res, nil
	}

	keepState := opts.Returns == ReturnsStatevectorAndShots
	out, err := b.sampler(opts).Run(vec, tail, opts.Shots, b.layout(opts), keepState)
	if err != nil {
		return Result{}, err
	}
	metrics.AddShots(opts.Shots)
	zap.L().Debug("sampled shots",
		zap.String("backend", b.name),
		zap.Int("shots", opts.Shots),
		zap.Int("tail", len(tail)),
		zap.Int("outcomes", len(out.Counts)),
	)

	res.Counts = out.Counts
	if keepState {
		res.Statevector = out.State
	}
	return res, nil
}

func (b *Statevector) sampler(opts Options) *sim.Sampler {
	seed := opts.Seed
	if !opts.Seeded {
		seed = rand.Uint64()
	}
	return sim.NewSampler(b.cfg, seed)
}

func (b *Statevector) layout(opts Options) sim.Layout {
	if opts.FullRegister {
		return sim.LayoutRegister
	}
	return sim.LayoutDeclared
}

// hasNonUnitary reports whether list contains a Measure or Reset.
func hasNonUnitary(list []ops.Operation) bool {
	return slices.ContainsFunc(list, func(op ops.Operation) bool { return !op.Kind().IsUnitary() })
}
