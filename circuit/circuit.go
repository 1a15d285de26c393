// Package circuit builds operation lists and runs them on a backend.
//
// A Circuit owns its operations and one amplitude cache per backend it has
// run on. Appending keeps every cache valid; removing or truncating drops the
// entries that depended on the removed history. A Circuit is not safe for
// concurrent use, and must not be mutated while one of its runs is in
// progress.
package circuit

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"qtermsim/backend"
	"qtermsim/ops"
	"qtermsim/qasm"
	"qtermsim/sim"
)

// Circuit is an ordered list of operations on qubits 0..NumQubits()-1.
type Circuit struct {
	ops      []ops.Operation
	n        int
	caches   backend.Caches
	registry *backend.Registry
	err      error
}

// Option configures a new Circuit.
type Option func(*Circuit)

// WithRegistry runs the circuit against r instead of the process default.
func WithRegistry(r *backend.Registry) Option {
	return func(c *Circuit) { c.registry = r }
}

// New returns an empty circuit.
func New(opts ...Option) *Circuit {
	c := &Circuit{caches: make(backend.Caches)}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = backend.DefaultRegistry()
	}
	return c
}

// FromOps returns a circuit holding a copy of list.
func FromOps(list []ops.Operation, opts ...Option) *Circuit {
	c := New(opts...)
	c.ops = slices.Clone(list)
	c.n = ops.QubitCount(c.ops)
	return c
}

// Parse builds a circuit from OpenQASM 2.0 source. Declared but unused
// qubits are not counted.
func Parse(src string, opts ...Option) (*Circuit, error) {
	prog, err := qasm.Parse(src)
	if err != nil {
		return nil, err
	}
	return FromOps(prog.Ops, opts...), nil
}

// Ops returns a copy of the operations.
func (c *Circuit) Ops() []ops.Operation { return slices.Clone(c.ops) }

// Op returns operation i.
func (c *Circuit) Op(i int) ops.Operation { return c.ops[i] }

// Len is the number of operations.
func (c *Circuit) Len() int { return len(c.ops) }

// NumQubits is 1 + the highest qubit referenced, 0 for an empty circuit.
func (c *Circuit) NumQubits() int { return c.n }

// Err returns the first error recorded by a builder call.
func (c *Circuit) Err() error { return c.err }

// Registry is the registry runs are dispatched through.
func (c *Circuit) Registry() *backend.Registry { return c.registry }

// Append adds operations to the end of the circuit.
func (c *Circuit) Append(list ...ops.Operation) *Circuit {
	for _, op := range list {
		c.ops = append(c.ops, op)
		c.n = max(c.n, op.MaxQubit()+1)
	}
	return c
}

// Copy returns a circuit with its own copy of the operations. With
// copyCaches the amplitude caches are deep-copied, otherwise the copy
// starts with none.
func (c *Circuit) Copy(copyCaches bool) *Circuit {
	out := &Circuit{
		ops:      slices.Clone(c.ops),
		n:        c.n,
		registry: c.registry,
		err:      c.err,
	}
	if copyCaches {
		out.caches = c.caches.Clone()
	} else {
		out.caches = make(backend.Caches)
	}
	return out
}

// Extend appends o's operations to c. c's caches stay valid because its
// history is unchanged.
func (c *Circuit) Extend(o *Circuit) *Circuit {
	if c.err == nil && o.err != nil {
		c.err = o.err
	}
	return c.Append(o.ops...)
}

// Concat returns a new circuit running a's operations followed by b's.
// Neither argument is modified; the result inherits a copy of a's caches.
func Concat(a, b *Circuit) *Circuit {
	return a.Copy(true).Extend(b)
}

// RemoveAt deletes operation i.
func (c *Circuit) RemoveAt(i int) error {
	if i < 0 || i >= len(c.ops) {
		return fmt.Errorf("operation %d of %d: %w", i, len(c.ops), ErrOutOfRange)
	}
	c.ops = slices.Delete(c.ops, i, i+1)
	c.mutated(i)
	return nil
}

// Insert places op before operation i; i == Len() appends.
func (c *Circuit) Insert(i int, op ops.Operation) error {
	if i < 0 || i > len(c.ops) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(c.ops), ErrOutOfRange)
	}
	c.ops = slices.Insert(c.ops, i, op)
	c.mutated(i)
	return nil
}

// Replace swaps operation i for op.
func (c *Circuit) Replace(i int, op ops.Operation) error {
	if i < 0 || i >= len(c.ops) {
		return fmt.Errorf("operation %d of %d: %w", i, len(c.ops), ErrOutOfRange)
	}
	c.ops[i] = op
	c.mutated(i)
	return nil
}

// Truncate keeps the first n operations.
func (c *Circuit) Truncate(n int) error {
	if n < 0 || n > len(c.ops) {
		return fmt.Errorf("truncate to %d of %d: %w", n, len(c.ops), ErrOutOfRange)
	}
	c.ops = c.ops[:n:n]
	c.mutated(n)
	return nil
}

// Clear removes every operation and resets the builder error.
func (c *Circuit) Clear() {
	c.ops = nil
	c.err = nil
	c.mutated(0)
}

// mutated drops caches depending on operation index from or later and
// recomputes the qubit count.
func (c *Circuit) mutated(from int) {
	c.caches.Invalidate(from)
	c.n = ops.QubitCount(c.ops)
	zap.L().Debug("circuit mutated", zap.Int("from", from), zap.Int("operations", len(c.ops)))
}

// Run executes the circuit. The backend is chosen by the options, falling
// back to the registry default.
func (c *Circuit) Run(opts ...backend.RunOption) (backend.Result, error) {
	if c.err != nil {
		return backend.Result{}, c.err
	}
	return c.registry.Run(c.ops, c.n, c.caches, backend.NewOptions(opts...))
}

// Statevector runs without shots and returns the amplitudes.
func (c *Circuit) Statevector(opts ...backend.RunOption) ([]complex128, error) {
	res, err := c.Run(append(slices.Clip(opts), backend.WithReturns(backend.ReturnsStatevector))...)
	if err != nil {
		return nil, err
	}
	if !res.HasStatevector() {
		return nil, fmt.Errorf("%s returned no statevector: %w", res.Backend, backend.ErrUnsupportedOperation)
	}
	return res.Statevector, nil
}

// Shots samples the circuit shots times.
func (c *Circuit) Shots(shots int, opts ...backend.RunOption) (sim.Counts, error) {
	res, err := c.Run(append(slices.Clip(opts), backend.WithShots(shots), backend.WithReturns(backend.ReturnsShots))...)
	if err != nil {
		return nil, err
	}
	return res.Counts, nil
}

// QASM renders the circuit as OpenQASM 2.0 without touching any backend.
func (c *Circuit) QASM(prologue bool) string {
	return qasm.Export(c.ops, c.n, prologue)
}

// CacheIndex reports the cache index held for b, -1 when there is none.
func (c *Circuit) CacheIndex(b backend.Backend) int {
	if cache, ok := c.caches[b.ID()]; ok {
		return cache.Index()
	}
	return -1
}

func (c *Circuit) String() string {
	return fmt.Sprintf("Circuit(%d qubits, %d operations)", c.n, len(c.ops))
}
