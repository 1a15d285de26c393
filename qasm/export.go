// Package qasm converts operation lists to and from OpenQASM 2.0 text.
//
// Export is deterministic: the same operations on the same register size
// always produce the same text. Parse accepts what Export writes plus the
// common hand-written forms (named registers, whole-register arguments,
// comments, pi expressions).
package qasm

import (
	"fmt"
	"strings"

	"qtermsim/ops"
)

// Export renders list as OpenQASM 2.0 on an n-qubit register named q. Each
// measured qubit q is stored in classical bit c[q]. With prologue false only
// the operation lines are written.
func Export(list []ops.Operation, n int, prologue bool) string {
	var sb strings.Builder
	if prologue {
		numQubits := max(n, ops.QubitCount(list), 1)
		sb.WriteString("OPENQASM 2.0;\n")
		sb.WriteString("include \"qelib1.inc\";\n\n")
		fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
		fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)
	}
	for _, op := range list {
		writeOp(&sb, op)
	}
	return sb.String()
}

// Line renders a single operation without the trailing newline.
func Line(op ops.Operation) string {
	var sb strings.Builder
	writeOp(&sb, op)
	return strings.TrimSuffix(sb.String(), "\n")
}

func writeOp(sb *strings.Builder, op ops.Operation) {
	if op.Kind() == ops.Measure {
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", op.Target(0), op.Target(0))
		return
	}

	sb.WriteString(op.Kind().String())
	if n := op.Kind().NumParams(); n > 0 {
		sb.WriteByte('(')
		for i := range n {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(FormatParam(op.Param(i)))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(' ')
	for i := range op.Arity() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "q[%d]", op.Target(i))
	}
	sb.WriteString(";\n")
}
