package sim

import (
	"fmt"

	"qtermsim/gates"
	"qtermsim/ops"
)

// Apply advances vec in place by one unitary operation. vec must hold 2^n
// amplitudes with every target of op below n. Measure and Reset are not
// handled here; see Sampler.
func Apply(vec []complex128, op ops.Operation) error {
	m, err := gates.For(op)
	if err != nil {
		return err
	}
	return ApplyMatrix(vec, m, op.Targets())
}

// Evolve applies list in order and returns the number of operations applied
// before the first error.
func Evolve(vec []complex128, list []ops.Operation) (int, error) {
	for i, op := range list {
		if err := Apply(vec, op); err != nil {
			return i, fmt.Errorf("operation %d %s: %w", i, op, err)
		}
	}
	return len(list), nil
}

// ApplyMatrix contracts the 2^k×2^k matrix m with the axes of vec named by
// targets, targets[0] being the most significant bit of the local index.
// Untouched qubits are carried through unchanged, which is the same as
// multiplying by m embedded with identities, at O(2^n · 4^k) cost instead of
// O(4^n).
func ApplyMatrix(vec []complex128, m gates.Matrix, targets []int) error {
	n := NumQubits(vec)
	if n < 0 {
		return fmt.Errorf("sim: state of length %d is not a power of two", len(vec))
	}
	k := len(targets)
	dim := 1 << k
	if m.Dim() != dim {
		return fmt.Errorf("%dx%d matrix on %d qubits: %w", m.Dim(), m.Dim(), k, ops.ErrInvalidGate)
	}

	// offsets[l] is the displacement in vec of local basis state l.
	offsets := make([]int, dim)
	mask := 0
	for j, q := range targets {
		if q < 0 || q >= n {
			return fmt.Errorf("qubit %d outside a %d-qubit state: %w", q, n, ops.ErrInvalidQubitIndex)
		}
		bit := 1 << q
		if mask&bit != 0 {
			return fmt.Errorf("qubit %d targeted twice: %w", q, ops.ErrInvalidQubitIndex)
		}
		mask |= bit
		for l := range dim {
			if l>>(k-1-j)&1 == 1 {
				offsets[l] |= bit
			}
		}
	}

	in := make([]complex128, dim)
	for base := range len(vec) {
		if base&mask != 0 {
			continue
		}
		for l, off := range offsets {
			in[l] = vec[base|off]
		}
		for r, off := range offsets {
			var acc complex128
			for c, a := range m.Row(r) {
				if a != 0 {
					acc += a * in[c]
				}
			}
			vec[base|off] = acc
		}
	}
	return nil
}
