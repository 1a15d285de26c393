package circuit

import (
	"fmt"

	"qtermsim/ops"
)

// Gate appends kind with params on the qubits named by sels.
//
// Single-qubit kinds broadcast: every qubit any selector expands to gets its
// own operation, in order, so H(Span(0, 2)) is H(Q(0)).H(Q(1)). Kinds of
// arity k take exactly k selectors, which are zipped: CX(Span(0, 4).Step(2),
// Span(1, 4).Step(2)) is CX(Q(0), Q(1)).CX(Q(2), Q(3)).
//
// The first error is recorded in Err and turns later builder calls into
// no-ops; Run reports it.
func (c *Circuit) Gate(kind ops.Kind, params []float64, sels ...Selector) *Circuit {
	if c.err != nil {
		return c
	}
	if err := c.gate(kind, params, sels); err != nil {
		c.err = fmt.Errorf("%s: %w", kind, err)
	}
	return c
}

func (c *Circuit) gate(kind ops.Kind, params []float64, sels []Selector) error {
	if !kind.Valid() {
		return ops.ErrInvalidGate
	}
	if kind.Arity() == 1 {
		qubits, err := expand(c.n, sels)
		if err != nil {
			return err
		}
		built := make([]ops.Operation, 0, len(qubits))
		for _, q := range qubits {
			op, err := ops.New(kind, []int{q}, params...)
			if err != nil {
				return err
			}
			built = append(built, op)
		}
		c.Append(built...)
		return nil
	}

	if len(sels) != kind.Arity() {
		return fmt.Errorf("%d selectors for %d qubits: %w", len(sels), kind.Arity(), ops.ErrInvalidQubitIndex)
	}
	columns := make([][]int, len(sels))
	for i, s := range sels {
		qs, err := s.Expand(c.n)
		if err != nil {
			return err
		}
		if i > 0 && len(qs) != len(columns[0]) {
			return fmt.Errorf("selectors expand to %d and %d qubits: %w", len(columns[0]), len(qs), ops.ErrInvalidQubitIndex)
		}
		columns[i] = qs
	}

	built := make([]ops.Operation, 0, len(columns[0]))
	targets := make([]int, len(columns))
	for j := range columns[0] {
		for i := range columns {
			targets[i] = columns[i][j]
		}
		op, err := ops.New(kind, targets, params...)
		if err != nil {
			return err
		}
		built = append(built, op)
	}
	c.Append(built...)
	return nil
}

func (c *Circuit) I(sels ...Selector) *Circuit    { return c.Gate(ops.I, nil, sels...) }
func (c *Circuit) X(sels ...Selector) *Circuit    { return c.Gate(ops.X, nil, sels...) }
func (c *Circuit) Y(sels ...Selector) *Circuit    { return c.Gate(ops.Y, nil, sels...) }
func (c *Circuit) Z(sels ...Selector) *Circuit    { return c.Gate(ops.Z, nil, sels...) }
func (c *Circuit) H(sels ...Selector) *Circuit    { return c.Gate(ops.H, nil, sels...) }
func (c *Circuit) S(sels ...Selector) *Circuit    { return c.Gate(ops.S, nil, sels...) }
func (c *Circuit) Sdg(sels ...Selector) *Circuit  { return c.Gate(ops.Sdg, nil, sels...) }
func (c *Circuit) T(sels ...Selector) *Circuit    { return c.Gate(ops.T, nil, sels...) }
func (c *Circuit) Tdg(sels ...Selector) *Circuit  { return c.Gate(ops.Tdg, nil, sels...) }
func (c *Circuit) SX(sels ...Selector) *Circuit   { return c.Gate(ops.SX, nil, sels...) }
func (c *Circuit) SXdg(sels ...Selector) *Circuit { return c.Gate(ops.SXdg, nil, sels...) }

// M measures the selected qubits, recording bits in selection order.
func (c *Circuit) M(sels ...Selector) *Circuit { return c.Gate(ops.Measure, nil, sels...) }

// Reset returns the selected qubits to |0⟩.
func (c *Circuit) Reset(sels ...Selector) *Circuit { return c.Gate(ops.Reset, nil, sels...) }

func (c *Circuit) RX(theta float64, sels ...Selector) *Circuit {
	return c.Gate(ops.RX, []float64{theta}, sels...)
}

func (c *Circuit) RY(theta float64, sels ...Selector) *Circuit {
	return c.Gate(ops.RY, []float64{theta}, sels...)
}

func (c *Circuit) RZ(theta float64, sels ...Selector) *Circuit {
	return c.Gate(ops.RZ, []float64{theta}, sels...)
}

// P is the phase gate diag(1, e^{iλ}).
func (c *Circuit) P(lambda float64, sels ...Selector) *Circuit {
	return c.Gate(ops.Phase, []float64{lambda}, sels...)
}

func (c *Circuit) U1(lambda float64, sels ...Selector) *Circuit {
	return c.Gate(ops.U1, []float64{lambda}, sels...)
}

func (c *Circuit) U2(phi, lambda float64, sels ...Selector) *Circuit {
	return c.Gate(ops.U2, []float64{phi, lambda}, sels...)
}

// U3 is Rz(λ)·Ry(θ)·Rz(φ).
func (c *Circuit) U3(theta, phi, lambda float64, sels ...Selector) *Circuit {
	return c.Gate(ops.U3, []float64{theta, phi, lambda}, sels...)
}

func (c *Circuit) CX(control, target Selector) *Circuit {
	return c.Gate(ops.CX, nil, control, target)
}

func (c *Circuit) CY(control, target Selector) *Circuit {
	return c.Gate(ops.CY, nil, control, target)
}

func (c *Circuit) CZ(control, target Selector) *Circuit {
	return c.Gate(ops.CZ, nil, control, target)
}

func (c *Circuit) CH(control, target Selector) *Circuit {
	return c.Gate(ops.CH, nil, control, target)
}

func (c *Circuit) CRX(theta float64, control, target Selector) *Circuit {
	return c.Gate(ops.CRX, []float64{theta}, control, target)
}

func (c *Circuit) CRY(theta float64, control, target Selector) *Circuit {
	return c.Gate(ops.CRY, []float64{theta}, control, target)
}

func (c *Circuit) CRZ(theta float64, control, target Selector) *Circuit {
	return c.Gate(ops.CRZ, []float64{theta}, control, target)
}

func (c *Circuit) CPhase(lambda float64, control, target Selector) *Circuit {
	return c.Gate(ops.CPhase, []float64{lambda}, control, target)
}

func (c *Circuit) SWAP(a, b Selector) *Circuit {
	return c.Gate(ops.SWAP, nil, a, b)
}

// CCX is the Toffoli gate: target flips when both controls are 1.
func (c *Circuit) CCX(c0, c1, target Selector) *Circuit {
	return c.Gate(ops.CCX, nil, c0, c1, target)
}
