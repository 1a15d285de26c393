package backend

import (
	"fmt"

	"qtermsim/ops"
	"qtermsim/qasm"
	"qtermsim/sim"
)

// QASMOutputName is the registry name of the text export backend.
const QASMOutputName = "qasm_output"

// QASMOutput serialises the list as OpenQASM 2.0 instead of running it.
type QASMOutput struct {
	identity
}

func NewQASMOutput() *QASMOutput {
	return &QASMOutput{identity: newIdentity(QASMOutputName)}
}

func (b *QASMOutput) Capabilities() Capabilities {
	return Capabilities{QASM: true}
}

// Run ignores the cache; its output depends only on list, n and
// opts.Prologue.
func (b *QASMOutput) Run(list []ops.Operation, n int, _ *sim.Cache, opts Options) (Result, error) {
	if opts.Shots != 0 || opts.Returns != ReturnsAuto {
		return Result{}, fmt.Errorf("%s cannot produce shots or a statevector: %w", b.name, ErrUnsupportedOperation)
	}
	return Result{Backend: b.name, QASM: qasm.Export(list, n, opts.Prologue)}, nil
}
