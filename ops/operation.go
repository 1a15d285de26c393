package ops

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxArity and MaxParams bound the storage of an Operation.
const (
	MaxArity  = 3
	MaxParams = 3
)

// MaxQubits bounds qubit indices: every target must be below it. A 32-qubit
// amplitude vector already takes 64 GiB.
const MaxQubits = 32

// Operation is one gate applied to an ordered list of qubits. Target order is
// significant: for controlled kinds the controls come first and the target
// last. An Operation is a comparable value and cannot be modified after New
// returns it, so two operations are identical exactly when == holds.
type Operation struct {
	kind    Kind
	targets [MaxArity]int
	params  [MaxParams]float64
}

// New validates and builds an operation. It fails with ErrInvalidGate when the
// kind is unknown or the parameter count or values are malformed, and with
// ErrInvalidQubitIndex when a target is negative or repeated.
func New(kind Kind, targets []int, params ...float64) (Operation, error) {
	if !kind.Valid() {
		return Operation{}, fmt.Errorf("kind %d: %w", kind, ErrInvalidGate)
	}
	if len(params) != kind.NumParams() {
		return Operation{}, fmt.Errorf("%s takes %d parameters, got %d: %w",
			kind, kind.NumParams(), len(params), ErrInvalidGate)
	}
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Operation{}, fmt.Errorf("%s parameter %v: %w", kind, p, ErrInvalidGate)
		}
	}
	if len(targets) != kind.Arity() {
		return Operation{}, fmt.Errorf("%s acts on %d qubits, got %d: %w",
			kind, kind.Arity(), len(targets), ErrInvalidQubitIndex)
	}

	op := Operation{kind: kind}
	for i, q := range targets {
		if q < 0 || q >= MaxQubits {
			return Operation{}, fmt.Errorf("%s qubit %d: %w", kind, q, ErrInvalidQubitIndex)
		}
		for _, prev := range targets[:i] {
			if prev == q {
				return Operation{}, fmt.Errorf("%s repeats qubit %d: %w", kind, q, ErrInvalidQubitIndex)
			}
		}
		op.targets[i] = q
	}
	copy(op.params[:], params)
	return op, nil
}

// MustNew is New for statically known operations; it panics on error.
func MustNew(kind Kind, targets []int, params ...float64) Operation {
	op, err := New(kind, targets, params...)
	if err != nil {
		panic(err)
	}
	return op
}

func (o Operation) Kind() Kind { return o.kind }

// Arity is the number of targeted qubits.
func (o Operation) Arity() int { return o.kind.Arity() }

// Target returns the i-th targeted qubit.
func (o Operation) Target(i int) int { return o.targets[i] }

// Targets returns a copy of the targeted qubits in declaration order.
func (o Operation) Targets() []int {
	out := make([]int, o.Arity())
	copy(out, o.targets[:])
	return out
}

// Param returns the i-th classical parameter.
func (o Operation) Param(i int) float64 { return o.params[i] }

// Params returns a copy of the classical parameters.
func (o Operation) Params() []float64 {
	out := make([]float64, o.kind.NumParams())
	copy(out, o.params[:])
	return out
}

// MaxQubit is the highest qubit index referenced, -1 for the zero Operation.
func (o Operation) MaxQubit() int {
	m := -1
	for i := range o.Arity() {
		m = max(m, o.targets[i])
	}
	return m
}

// Uses reports whether the operation touches qubit q.
func (o Operation) Uses(q int) bool {
	for i := range o.Arity() {
		if o.targets[i] == q {
			return true
		}
	}
	return false
}

// String renders the operation as kind(params)[targets], e.g. "rx(1.5)[0]".
func (o Operation) String() string {
	var sb strings.Builder
	sb.WriteString(o.kind.String())
	if n := o.kind.NumParams(); n > 0 {
		sb.WriteByte('(')
		for i := range n {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(o.params[i], 'g', -1, 64))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte('[')
	for i := range o.Arity() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(o.targets[i]))
	}
	sb.WriteByte(']')
	return sb.String()
}

// QubitCount is 1 + the highest qubit index referenced by list, or 0 when the
// list is empty.
func QubitCount(list []Operation) int {
	n := 0
	for _, op := range list {
		n = max(n, op.MaxQubit()+1)
	}
	return n
}

// FirstNonUnitary returns the index of the first Measure or Reset in list, or
// len(list) when every operation is unitary.
func FirstNonUnitary(list []Operation) int {
	for i, op := range list {
		if !op.kind.IsUnitary() {
			return i
		}
	}
	return len(list)
}
