package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"qtermsim/ops"
)

// ErrZeroNorm is returned when a state has no probability mass to sample.
var ErrZeroNorm = errors.New("sim: state has zero norm")

// Layout decides how the bits recorded during one shot become a Counts key.
type Layout int

const (
	// LayoutDeclared writes one character per measurement, in the order the
	// measurements were declared. A qubit measured twice appears twice.
	LayoutDeclared Layout = iota

	// LayoutRegister writes one character per qubit of the circuit, position q
	// holding the last value recorded for qubit q. Unmeasured qubits read '0'.
	LayoutRegister
)

// Outcome is the result of sampling a number of shots.
type Outcome struct {
	Counts Counts
	// State is the post-measurement state of the final shot. It is only
	// populated when requested, and re-measuring it reproduces that shot's
	// bits.
	State []complex128
}

// Sampler draws shots from amplitude vectors. A Sampler built with a fixed
// seed produces the same Outcome for the same inputs and Config.
type Sampler struct {
	cfg  Config
	seed uint64
}

// NewSampler returns a sampler using cfg for parallelism and seed for its
// random streams.
func NewSampler(cfg Config, seed uint64) *Sampler {
	return &Sampler{cfg: cfg, seed: seed}
}

// Run samples the operations that follow a cached deterministic prefix.
// When tail holds only measurements the distribution of vec is sampled
// directly; otherwise every shot replays tail on its own copy of vec. An
// empty tail measures every qubit in ascending order.
func (s *Sampler) Run(vec []complex128, tail []ops.Operation, shots int, layout Layout, keepState bool) (Outcome, error) {
	if len(tail) == 0 {
		n := NumQubits(vec)
		all := make([]int, n)
		for q := range n {
			all[q] = q
		}
		return s.Sample(vec, all, shots, layout, keepState)
	}

	measured := make([]int, 0, len(tail))
	for _, op := range tail {
		if op.Kind() != ops.Measure {
			return s.Trajectories(vec, tail, shots, layout, keepState)
		}
		measured = append(measured, op.Target(0))
	}
	return s.Sample(vec, measured, shots, layout, keepState)
}

// Sample draws shots outcomes of measuring the qubits in measured, reporting
// bits in that order. vec is only read.
func (s *Sampler) Sample(vec []complex128, measured []int, shots int, layout Layout, keepState bool) (Outcome, error) {
	n := NumQubits(vec)
	if n < 0 {
		return Outcome{}, fmt.Errorf("sim: state of length %d is not a power of two", len(vec))
	}
	for _, q := range measured {
		if q < 0 || q >= n {
			return Outcome{}, fmt.Errorf("measured qubit %d outside a %d-qubit state: %w", q, n, ops.ErrInvalidQubitIndex)
		}
	}

	cdf := Probabilities(vec)
	lastNonZero := -1
	for i := range cdf {
		if cdf[i] <= s.cfg.Epsilon {
			cdf[i] = 0
		}
		if cdf[i] > 0 {
			lastNonZero = i
		}
		if i > 0 {
			cdf[i] += cdf[i-1]
		}
	}
	if lastNonZero < 0 {
		return Outcome{}, ErrZeroNorm
	}
	// Sampling against the accumulated total normalises away rounding drift.
	total := cdf[len(cdf)-1]

	draw := func(rng *rand.Rand, count int) (Counts, []complex128, error) {
		counts := make(Counts)
		bits := make([]byte, len(measured))
		last := 0
		for range count {
			r := rng.Float64() * total
			idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] > r })
			if idx == len(cdf) {
				idx = lastNonZero
			}
			for j, q := range measured {
				bits[j] = byte(idx >> q & 1)
			}
			counts[key(bits, measured, layout, n)]++
			last = idx
		}
		if !keepState || count == 0 {
			return counts, nil, nil
		}
		return counts, project(vec, measured, last), nil
	}
	return s.spread(shots, draw)
}

// Trajectories runs tail once per shot on a private copy of vec, collapsing
// the copy on every Measure and Reset.
func (s *Sampler) Trajectories(vec []complex128, tail []ops.Operation, shots int, layout Layout, keepState bool) (Outcome, error) {
	n := NumQubits(vec)
	if n < 0 {
		return Outcome{}, fmt.Errorf("sim: state of length %d is not a power of two", len(vec))
	}

	draw := func(rng *rand.Rand, count int) (Counts, []complex128, error) {
		counts := make(Counts)
		var last []complex128
		qubits := make([]int, 0, len(tail))
		bits := make([]byte, 0, len(tail))
		for range count {
			st := Clone(vec)
			qubits, bits = qubits[:0], bits[:0]
			for _, op := range tail {
				switch op.Kind() {
				case ops.Measure:
					q := op.Target(0)
					b, err := s.Collapse(st, q, rng.Float64())
					if err != nil {
						return nil, nil, err
					}
					qubits = append(qubits, q)
					bits = append(bits, b)
				case ops.Reset:
					q := op.Target(0)
					b, err := s.Collapse(st, q, rng.Float64())
					if err != nil {
						return nil, nil, err
					}
					if b == 1 {
						flip(st, q)
					}
				default:
					if err := Apply(st, op); err != nil {
						return nil, nil, err
					}
				}
			}
			counts[key(bits, qubits, layout, n)]++
			last = st
		}
		if !keepState {
			last = nil
		}
		return counts, last, nil
	}
	return s.spread(shots, draw)
}

// Collapse measures qubit q of vec in place using the uniform variate r in
// [0, 1) and returns the observed bit. An outcome whose probability does not
// exceed the configured Epsilon is never observed.
func (s *Sampler) Collapse(vec []complex128, q int, r float64) (byte, error) {
	if n := NumQubits(vec); q < 0 || q >= n {
		return 0, fmt.Errorf("qubit %d outside a %d-qubit state: %w", q, n, ops.ErrInvalidQubitIndex)
	}
	return measureQubit(vec, q, r, s.cfg.Epsilon)
}

type part struct {
	counts Counts
	state  []complex128
	err    error
}

// spread splits shots across workers, each with its own deterministic random
// stream, and merges the counts. The returned state comes from the last
// worker, which always receives at least one shot.
func (s *Sampler) spread(shots int, draw func(*rand.Rand, int) (Counts, []complex128, error)) (Outcome, error) {
	if shots <= 0 {
		return Outcome{Counts: Counts{}}, nil
	}
	workers := 1
	if shots >= s.cfg.ParallelShots && s.cfg.Workers > 1 {
		workers = min(s.cfg.Workers, shots)
	}

	parts := make([]part, workers)
	per, rem := shots/workers, shots%workers
	run := func(w int) {
		count := per
		if w < rem {
			count++
		}
		rng := rand.New(rand.NewPCG(s.seed, uint64(w)))
		c, st, err := draw(rng, count)
		parts[w] = part{counts: c, state: st, err: err}
	}

	if workers == 1 {
		run(0)
	} else {
		var wg sync.WaitGroup
		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				run(w)
			}()
		}
		wg.Wait()
	}

	out := Outcome{Counts: make(Counts)}
	for _, p := range parts {
		if p.err != nil {
			return Outcome{}, p.err
		}
		out.Counts.Merge(p.counts)
	}
	out.State = parts[workers-1].state
	return out, nil
}

func key(bits []byte, qubits []int, layout Layout, n int) string {
	if layout == LayoutRegister {
		reg := make([]byte, n)
		for i := range reg {
			reg[i] = '0'
		}
		for i, q := range qubits {
			reg[q] = '0' + bits[i]
		}
		return string(reg)
	}
	buf := make([]byte, len(bits))
	for i, b := range bits {
		buf[i] = '0' + b
	}
	return string(buf)
}

// project returns vec restricted to the basis states agreeing with idx on the
// measured qubits, renormalised.
func project(vec []complex128, measured []int, idx int) []complex128 {
	mask := 0
	for _, q := range measured {
		mask |= 1 << q
	}
	want := idx & mask
	out := make([]complex128, len(vec))
	for i, a := range vec {
		if i&mask == want {
			out[i] = a
		}
	}
	normalise(out)
	return out
}

func measureQubit(vec []complex128, q int, r, eps float64) (byte, error) {
	bit := 1 << q
	var p0, p1 float64
	for i, a := range vec {
		p := real(a)*real(a) + imag(a)*imag(a)
		if i&bit == 0 {
			p0 += p
		} else {
			p1 += p
		}
	}
	if p0 <= eps {
		p0 = 0
	}
	if p1 <= eps {
		p1 = 0
	}
	total := p0 + p1
	if total <= 0 {
		return 0, ErrZeroNorm
	}

	var b byte
	if r < p1/total {
		b = 1
	}
	for i := range vec {
		if (i&bit != 0) != (b == 1) {
			vec[i] = 0
		}
	}
	normalise(vec)
	return b, nil
}

func flip(vec []complex128, q int) {
	bit := 1 << q
	for i := range vec {
		if i&bit == 0 {
			vec[i], vec[i|bit] = vec[i|bit], vec[i]
		}
	}
}

func normalise(vec []complex128) {
	norm := math.Sqrt(Norm(vec))
	if norm == 0 {
		return
	}
	scale := complex(1/norm, 0)
	for i := range vec {
		vec[i] *= scale
	}
}
