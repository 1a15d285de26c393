// Package gates maps gate kinds and their classical parameters to dense
// unitary matrices.
//
// Local basis convention: for an operation on targets [t0, t1, ...], the
// matrix index reads t0 as the most significant bit. CX on [c, t] is
// therefore diag(I, X) in the |c t⟩ basis, the textbook layout.
package gates

import (
	"fmt"
	"math/cmplx"
	"strings"
)

// Matrix is a square complex matrix stored row-major (offset = i*dim + j).
type Matrix struct {
	dim  int
	data []complex128
}

// New builds a dim×dim matrix from row-major entries. Missing entries are zero.
func New(dim int, entries ...complex128) Matrix {
	if len(entries) > dim*dim {
		panic(fmt.Sprintf("gates: %d entries for a %dx%d matrix", len(entries), dim, dim))
	}
	data := make([]complex128, dim*dim)
	copy(data, entries)
	return Matrix{dim: dim, data: data}
}

// Identity returns the dim×dim identity.
func Identity(dim int) Matrix {
	m := New(dim)
	for i := range dim {
		m.data[i*dim+i] = 1
	}
	return m
}

// Dim is the row (and column) count.
func (m Matrix) Dim() int { return m.dim }

// At returns entry (i, j).
func (m Matrix) At(i, j int) complex128 { return m.data[i*m.dim+j] }

// Set writes entry (i, j). Matrices returned by this package are fresh
// copies, so mutating them never affects the library.
func (m Matrix) Set(i, j int, v complex128) { m.data[i*m.dim+j] = v }

// Row returns the i-th row; the slice aliases the matrix storage.
func (m Matrix) Row(i int) []complex128 { return m.data[i*m.dim : (i+1)*m.dim] }

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	data := make([]complex128, len(m.data))
	copy(data, m.data)
	return Matrix{dim: m.dim, data: data}
}

// Mul returns m·o. Both operands must have the same dimension.
func (m Matrix) Mul(o Matrix) Matrix {
	if m.dim != o.dim {
		panic(fmt.Sprintf("gates: Mul of %dx%d by %dx%d", m.dim, m.dim, o.dim, o.dim))
	}
	n := m.dim
	out := New(n)
	for i := range n {
		for k := range n {
			a := m.data[i*n+k]
			if a == 0 {
				continue
			}
			for j := range n {
				out.data[i*n+j] += a * o.data[k*n+j]
			}
		}
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	n := m.dim
	out := New(n)
	for i := range n {
		for j := range n {
			out.data[j*n+i] = cmplx.Conj(m.data[i*n+j])
		}
	}
	return out
}

// Kron returns the Kronecker product m ⊗ o; m occupies the high-order bits of
// the result index.
func (m Matrix) Kron(o Matrix) Matrix {
	n := m.dim * o.dim
	out := New(n)
	for i := range m.dim {
		for j := range m.dim {
			a := m.data[i*m.dim+j]
			if a == 0 {
				continue
			}
			for k := range o.dim {
				for l := range o.dim {
					out.data[(i*o.dim+k)*n+j*o.dim+l] = a * o.data[k*o.dim+l]
				}
			}
		}
	}
	return out
}

// DistSq is the squared Frobenius distance between m and o, or +Inf when the
// shapes differ.
func (m Matrix) DistSq(o Matrix) float64 {
	if m.dim != o.dim {
		return inf
	}
	var d float64
	for i, v := range m.data {
		diff := v - o.data[i]
		d += real(diff)*real(diff) + imag(diff)*imag(diff)
	}
	return d
}

// Equal reports whether m and o are within eps in squared Frobenius distance.
func (m Matrix) Equal(o Matrix, eps float64) bool {
	return m.DistSq(o) < eps
}

// IsUnitary checks m†m ≈ I within eps.
func (m Matrix) IsUnitary(eps float64) bool {
	return m.Dagger().Mul(m).Equal(Identity(m.dim), eps)
}

// Controlled embeds u into the "all controls active" block of a larger
// matrix and fills the rest with identity. The controls occupy the
// high-order bits, matching targets ordered controls-first.
func Controlled(u Matrix, controls int) Matrix {
	n := u.dim << controls
	out := Identity(n)
	off := n - u.dim
	for i := range u.dim {
		for j := range u.dim {
			out.data[(off+i)*n+off+j] = u.data[i*u.dim+j]
		}
	}
	return out
}

func (m Matrix) String() string {
	var sb strings.Builder
	for i := range m.dim {
		sb.WriteByte('[')
		for j := range m.dim {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%.4g", m.data[i*m.dim+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
