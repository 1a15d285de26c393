package backend

import (
	"fmt"

	"qtermsim/gates"
	"qtermsim/metrics"
	"qtermsim/ops"
	"qtermsim/sim"
)

// UnitaryName is the registry name of the unitary backend.
const UnitaryName = "unitary"

// Unitary composes the list into its 2^n×2^n matrix, using the same basis
// convention as the amplitudes: row and column index bit q is qubit q.
// Column j is the state reached from basis state |j⟩.
type Unitary struct {
	identity
}

func NewUnitary() *Unitary {
	return &Unitary{identity: newIdentity(UnitaryName)}
}

func (b *Unitary) Capabilities() Capabilities {
	return Capabilities{Unitary: true}
}

func (b *Unitary) Run(list []ops.Operation, n int, _ *sim.Cache, opts Options) (Result, error) {
	if opts.Shots != 0 || opts.Returns != ReturnsAuto {
		return Result{}, fmt.Errorf("%s cannot produce shots or a statevector: %w", b.name, ErrUnsupportedOperation)
	}
	if hasNonUnitary(list) {
		return Result{}, fmt.Errorf("%s: measurement and reset have no unitary: %w", b.name, ErrUnsupportedOperation)
	}

	dim := 1 << n
	u := gates.Identity(dim)
	col := make([]complex128, dim)
	for j := range dim {
		clear(col)
		col[j] = 1
		if _, err := sim.Evolve(col, list); err != nil {
			return Result{}, err
		}
		for i, a := range col {
			u.Set(i, j, a)
		}
	}
	metrics.AddGates(dim * len(list))
	return Result{Backend: b.name, Unitary: u}, nil
}
