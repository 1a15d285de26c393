package circuit

import "errors"

// ErrOutOfRange is returned by mutations given an operation index outside
// the circuit.
var ErrOutOfRange = errors.New("circuit: operation index out of range")
