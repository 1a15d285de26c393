package circuit

import (
	"fmt"

	"qtermsim/ops"
)

// Selector names qubits. It expands to an ordered index list given the
// circuit's current qubit count, which open-ended slices need.
type Selector interface {
	Expand(n int) ([]int, error)
}

// Q selects a single qubit.
type Q int

func (q Q) Expand(int) ([]int, error) {
	if err := checkIndex(int(q)); err != nil {
		return nil, err
	}
	return []int{int(q)}, nil
}

func checkIndex(q int) error {
	if q < 0 || q >= ops.MaxQubits {
		return fmt.Errorf("qubit %d: %w", q, ops.ErrInvalidQubitIndex)
	}
	return nil
}

// List selects qubits in the given order. Repeats are kept.
type List []int

func (l List) Expand(int) ([]int, error) {
	for _, q := range l {
		if err := checkIndex(q); err != nil {
			return nil, err
		}
	}
	out := make([]int, len(l))
	copy(out, l)
	return out, nil
}

// Slice selects start, start+step, ... up to but excluding stop. Negative
// bounds are rejected. An omitted start is 0, or n-1 when
// step is negative; an omitted stop is n, or one below qubit 0 when step is
// negative. An explicit stop may exceed n, growing the circuit, but no
// selected index may reach ops.MaxQubits.
type Slice struct {
	start, stop, step int
	hasStart, hasStop bool
}

// Span selects [start, stop).
func Span(start, stop int) Slice {
	return Slice{start: start, stop: stop, step: 1, hasStart: true, hasStop: true}
}

// From selects start through the last qubit.
func From(start int) Slice {
	return Slice{start: start, step: 1, hasStart: true}
}

// Until selects qubits below stop.
func Until(stop int) Slice {
	return Slice{stop: stop, step: 1, hasStop: true}
}

// All selects every qubit of the circuit.
func All() Slice {
	return Slice{step: 1}
}

// Step returns s with its stride replaced.
func (s Slice) Step(step int) Slice {
	s.step = step
	return s
}

func (s Slice) Expand(n int) ([]int, error) {
	if s.step == 0 {
		return nil, fmt.Errorf("slice step 0: %w", ops.ErrInvalidQubitIndex)
	}
	if (s.hasStart && s.start < 0) || (s.hasStop && s.stop < 0) {
		return nil, fmt.Errorf("negative slice bound %s: %w", s, ops.ErrInvalidQubitIndex)
	}

	start, stop := s.start, s.stop
	if s.step > 0 {
		if !s.hasStart {
			start = 0
		}
		if !s.hasStop {
			stop = n
		}
		if stop > ops.MaxQubits {
			return nil, fmt.Errorf("slice %s beyond %d qubits: %w", s, ops.MaxQubits, ops.ErrInvalidQubitIndex)
		}
		var out []int
		for q := start; q < stop; q += s.step {
			out = append(out, q)
		}
		return out, nil
	}

	if !s.hasStart {
		start = n - 1
	}
	if !s.hasStop {
		stop = -1
	}
	if start >= ops.MaxQubits {
		return nil, fmt.Errorf("slice %s beyond %d qubits: %w", s, ops.MaxQubits, ops.ErrInvalidQubitIndex)
	}
	var out []int
	for q := start; q > stop; q += s.step {
		out = append(out, q)
	}
	return out, nil
}

func (s Slice) String() string {
	bound := func(v int, ok bool) string {
		if !ok {
			return ""
		}
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("[%s:%s:%d]", bound(s.start, s.hasStart), bound(s.stop, s.hasStop), s.step)
}

// expand resolves every selector and concatenates the results.
func expand(n int, sels []Selector) ([]int, error) {
	var out []int
	for _, s := range sels {
		qs, err := s.Expand(n)
		if err != nil {
			return nil, err
		}
		out = append(out, qs...)
	}
	return out, nil
}
