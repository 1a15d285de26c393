package ops

import "errors"

// Sentinel errors returned while building operations. Callers match them with
// errors.Is; context is attached with fmt.Errorf("...: %w", ErrX).
var (
	// ErrInvalidGate is returned for an unknown gate kind or a malformed
	// parameter list (wrong count, NaN or Inf values).
	ErrInvalidGate = errors.New("ops: invalid gate")

	// ErrInvalidQubitIndex is returned for negative, duplicated or otherwise
	// unusable qubit indices.
	ErrInvalidQubitIndex = errors.New("ops: invalid qubit index")
)
