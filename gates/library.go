package gates

import (
	"fmt"
	"math"
	"math/cmplx"

	"qtermsim/ops"
)

var inf = math.Inf(1)

var invSqrt2 = complex(1/math.Sqrt2, 0)

// Fixed single-qubit gates. They are shared; For and Of hand out clones.
var (
	matI   = Identity(2)
	matX   = New(2, 0, 1, 1, 0)
	matY   = New(2, 0, -1i, 1i, 0)
	matZ   = New(2, 1, 0, 0, -1)
	matH   = New(2, invSqrt2, invSqrt2, invSqrt2, -invSqrt2)
	matS   = New(2, 1, 0, 0, 1i)
	matSdg = New(2, 1, 0, 0, -1i)
	matT   = New(2, 1, 0, 0, cmplx.Exp(complex(0, math.Pi/4)))
	matTdg = New(2, 1, 0, 0, cmplx.Exp(complex(0, -math.Pi/4)))
	matSX  = New(2, 0.5+0.5i, 0.5-0.5i, 0.5-0.5i, 0.5+0.5i)
	matSWP = New(4,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	)
)

// RX is exp(-iθX/2).
func RX(theta float64) Matrix {
	c, s := complex(math.Cos(theta/2), 0), complex(0, -math.Sin(theta/2))
	return New(2, c, s, s, c)
}

// RY is exp(-iθY/2).
func RY(theta float64) Matrix {
	c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	return New(2, c, -s, s, c)
}

// RZ is exp(-iθZ/2) = diag(e^{-iθ/2}, e^{iθ/2}).
func RZ(theta float64) Matrix {
	return New(2, cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2)))
}

// PhaseShift is diag(1, e^{iλ}).
func PhaseShift(lambda float64) Matrix {
	return New(2, 1, 0, 0, cmplx.Exp(complex(0, lambda)))
}

// U3 is RZ(λ)·RY(θ)·RZ(φ): φ is applied first.
func U3(theta, phi, lambda float64) Matrix {
	return RZ(lambda).Mul(RY(theta)).Mul(RZ(phi))
}

// U2 is U3(π/2, φ, λ).
func U2(phi, lambda float64) Matrix { return U3(math.Pi/2, phi, lambda) }

// U1 is U3(0, 0, λ), which reduces to RZ(λ).
func U1(lambda float64) Matrix { return U3(0, 0, lambda) }

// For returns the unitary of op, sized 2^arity. Measure and Reset have no
// unitary and fail with ops.ErrInvalidGate.
func For(op ops.Operation) (Matrix, error) {
	return Of(op.Kind(), op.Params()...)
}

// Of returns the unitary for kind with the given parameters.
func Of(kind ops.Kind, params ...float64) (Matrix, error) {
	if !kind.IsUnitary() {
		return Matrix{}, fmt.Errorf("%s has no unitary matrix: %w", kind, ops.ErrInvalidGate)
	}
	if len(params) != kind.NumParams() {
		return Matrix{}, fmt.Errorf("%s takes %d parameters, got %d: %w",
			kind, kind.NumParams(), len(params), ops.ErrInvalidGate)
	}

	switch kind {
	case ops.I:
		return matI.Clone(), nil
	case ops.X:
		return matX.Clone(), nil
	case ops.Y:
		return matY.Clone(), nil
	case ops.Z:
		return matZ.Clone(), nil
	case ops.H:
		return matH.Clone(), nil
	case ops.S:
		return matS.Clone(), nil
	case ops.Sdg:
		return matSdg.Clone(), nil
	case ops.T:
		return matT.Clone(), nil
	case ops.Tdg:
		return matTdg.Clone(), nil
	case ops.SX:
		return matSX.Clone(), nil
	case ops.SXdg:
		return matSX.Dagger(), nil
	case ops.RX:
		return RX(params[0]), nil
	case ops.RY:
		return RY(params[0]), nil
	case ops.RZ:
		return RZ(params[0]), nil
	case ops.Phase:
		return PhaseShift(params[0]), nil
	case ops.U1:
		return U1(params[0]), nil
	case ops.U2:
		return U2(params[0], params[1]), nil
	case ops.U3:
		return U3(params[0], params[1], params[2]), nil
	case ops.CX:
		return Controlled(matX, 1), nil
	case ops.CY:
		return Controlled(matY, 1), nil
	case ops.CZ:
		return Controlled(matZ, 1), nil
	case ops.CH:
		return Controlled(matH, 1), nil
	case ops.CRX:
		return Controlled(RX(params[0]), 1), nil
	case ops.CRY:
		return Controlled(RY(params[0]), 1), nil
	case ops.CRZ:
		return Controlled(RZ(params[0]), 1), nil
	case ops.CPhase:
		return Controlled(PhaseShift(params[0]), 1), nil
	case ops.SWAP:
		return matSWP.Clone(), nil
	case ops.CCX:
		return Controlled(matX, 2), nil
	}
	return Matrix{}, fmt.Errorf("%s: %w", kind, ops.ErrInvalidGate)
}
