// Package ops describes the operations a circuit is made of: a closed set of
// gate kinds and the immutable Operation value applying one of them to an
// ordered list of qubits.
package ops

import "strings"

// Kind identifies a gate. The set is closed; every Kind has a fixed arity and
// a fixed number of classical parameters.
type Kind uint8

const (
	Invalid Kind = iota
	I
	X
	Y
	Z
	H
	S
	Sdg
	T
	Tdg
	SX
	SXdg
	RX
	RY
	RZ
	Phase
	U1
	U2
	U3
	CX
	CY
	CZ
	CH
	CRX
	CRY
	CRZ
	CPhase
	SWAP
	CCX
	Measure
	Reset

	numKinds
)

type kindInfo struct {
	name    string // lowercase name, also the OpenQASM 2.0 mnemonic
	arity   int
	nparams int
}

var kinds = [numKinds]kindInfo{
	Invalid: {"invalid", 0, 0},
	I:       {"id", 1, 0},
	X:       {"x", 1, 0},
	Y:       {"y", 1, 0},
	Z:       {"z", 1, 0},
	H:       {"h", 1, 0},
	S:       {"s", 1, 0},
	Sdg:     {"sdg", 1, 0},
	T:       {"t", 1, 0},
	Tdg:     {"tdg", 1, 0},
	SX:      {"sx", 1, 0},
	SXdg:    {"sxdg", 1, 0},
	RX:      {"rx", 1, 1},
	RY:      {"ry", 1, 1},
	RZ:      {"rz", 1, 1},
	Phase:   {"p", 1, 1},
	U1:      {"u1", 1, 1},
	U2:      {"u2", 1, 2},
	U3:      {"u3", 1, 3},
	CX:      {"cx", 2, 0},
	CY:      {"cy", 2, 0},
	CZ:      {"cz", 2, 0},
	CH:      {"ch", 2, 0},
	CRX:     {"crx", 2, 1},
	CRY:     {"cry", 2, 1},
	CRZ:     {"crz", 2, 1},
	CPhase:  {"cu1", 2, 1},
	SWAP:    {"swap", 2, 0},
	CCX:     {"ccx", 3, 0},
	Measure: {"measure", 1, 0},
	Reset:   {"reset", 1, 0},
}

// aliases accepted by ParseKind in addition to the canonical names.
var aliases = map[string]Kind{
	"i":       I,
	"cnot":    CX,
	"toffoli": CCX,
	"cp":      CPhase,
	"cphase":  CPhase,
	"phase":   Phase,
	"m":       Measure,
	"u":       U3,
}

// Valid reports whether k is one of the declared gate kinds.
func (k Kind) Valid() bool { return k > Invalid && k < numKinds }

// String returns the lowercase mnemonic of the kind.
func (k Kind) String() string {
	if k >= numKinds {
		return kinds[Invalid].name
	}
	return kinds[k].name
}

// Arity is the number of qubits the kind acts on.
func (k Kind) Arity() int {
	if !k.Valid() {
		return 0
	}
	return kinds[k].arity
}

// NumParams is the number of classical parameters the kind takes.
func (k Kind) NumParams() int {
	if !k.Valid() {
		return 0
	}
	return kinds[k].nparams
}

// IsUnitary is false for the measurement-class kinds (Measure, Reset) whose
// effect on the state is stochastic.
func (k Kind) IsUnitary() bool {
	return k.Valid() && k != Measure && k != Reset
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Invalid + 1; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a case-insensitive gate mnemonic.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := Invalid + 1; k < numKinds; k++ {
		if kinds[k].name == name {
			return k, true
		}
	}
	k, ok := aliases[name]
	return k, ok
}
