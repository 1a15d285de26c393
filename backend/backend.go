// Package backend runs operation lists. A Backend turns a list into a
// Result: amplitudes, shot counts, QASM text or a unitary. The Registry maps
// names to backends and holds the default used when a run names none.
package backend

import (
	"errors"

	"github.com/google/uuid"

	"qtermsim/gates"
	"qtermsim/ops"
	"qtermsim/sim"
)

var (
	// ErrUnknownBackend is returned when a name is not registered.
	ErrUnknownBackend = errors.New("backend: unknown backend")
	// ErrUnsupportedOperation is returned for run options a backend cannot
	// honour. Options are never silently downgraded.
	ErrUnsupportedOperation = errors.New("backend: unsupported operation")
)

// Capabilities describes what a backend can produce.
type Capabilities struct {
	Statevector bool
	Shots       bool
	QASM        bool
	Unitary     bool
	// Cached backends receive an amplitude cache slot from the circuit.
	Cached bool
}

// Backend executes an operation list on n qubits.
//
// cache is the caller's slot for this backend; it is nil for backends that
// are not Cached, and may be nil for cached ones, in which case nothing is
// memoised.
type Backend interface {
	ID() uuid.UUID
	Name() string
	Capabilities() Capabilities
	Run(list []ops.Operation, n int, cache *sim.Cache, opts Options) (Result, error)
}

// Result holds whichever outputs the run produced.
type Result struct {
	Statevector []complex128
	Counts      sim.Counts
	QASM        string
	Unitary     gates.Matrix
	// Backend is the name of the backend that produced the result.
	Backend string
}

// HasStatevector reports whether the result carries amplitudes.
func (r Result) HasStatevector() bool { return r.Statevector != nil }

// HasCounts reports whether the result carries shot counts.
func (r Result) HasCounts() bool { return r.Counts != nil }

// identity is embedded by the built-in backends.
type identity struct {
	id   uuid.UUID
	name string
}

func newIdentity(name string) identity {
	return identity{id: uuid.New(), name: name}
}

func (i identity) ID() uuid.UUID { return i.id }
func (i identity) Name() string  { return i.name }
