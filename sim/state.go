// Package sim is the numeric core: it advances dense amplitude vectors
// through operations, memoises prefixes of a run and samples measurement
// outcomes.
//
// Basis convention: qubit q is bit q of the amplitude index, so qubit 0 is the
// least significant (fastest varying) bit. Bitstrings reported by the sampler
// are built from the same bits.
package sim

import (
	"math"
	"math/cmplx"
)

// NewState returns |0…0⟩ on n qubits.
func NewState(n int) []complex128 {
	vec := make([]complex128, 1<<n)
	vec[0] = 1
	return vec
}

// Clone copies vec.
func Clone(vec []complex128) []complex128 {
	out := make([]complex128, len(vec))
	copy(out, vec)
	return out
}

// NumQubits derives the qubit count from a vector length, -1 when the length
// is not a power of two.
func NumQubits(vec []complex128) int {
	n := len(vec)
	if n == 0 || n&(n-1) != 0 {
		return -1
	}
	q := 0
	for n > 1 {
		n >>= 1
		q++
	}
	return q
}

// Pad extends vec with |0⟩ on new high-order qubits so that it spans n
// qubits. The result is a new slice; vec is returned unchanged when it
// already spans n or more qubits.
func Pad(vec []complex128, n int) []complex128 {
	if len(vec) >= 1<<n {
		return vec
	}
	out := make([]complex128, 1<<n)
	copy(out, vec)
	return out
}

// Probabilities returns |a_i|² for every amplitude.
func Probabilities(vec []complex128) []float64 {
	out := make([]float64, len(vec))
	for i, a := range vec {
		out[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return out
}

// Norm is the squared 2-norm of vec.
func Norm(vec []complex128) float64 {
	var s float64
	for _, a := range vec {
		s += real(a)*real(a) + imag(a)*imag(a)
	}
	return s
}

// DistSq is (a-b)†(a-b), or +Inf when the lengths differ.
func DistSq(a, b []complex128) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += real(diff)*real(diff) + imag(diff)*imag(diff)
	}
	return d
}

// Same reports whether a and b are within eps in squared distance.
func Same(a, b []complex128, eps float64) bool {
	return DistSq(a, b) < eps
}

// SameUpToPhase is Same after removing the global phase between a and b.
func SameUpToPhase(a, b []complex128, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	var inner complex128
	for i := range a {
		inner += cmplx.Conj(a[i]) * b[i]
	}
	if cmplx.Abs(inner) == 0 {
		return Same(a, b, eps)
	}
	phase := inner / complex(cmplx.Abs(inner), 0)
	var d float64
	for i := range a {
		diff := a[i]*phase - b[i]
		d += real(diff)*real(diff) + imag(diff)*imag(diff)
	}
	return d < eps
}
