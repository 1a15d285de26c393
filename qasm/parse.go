package qasm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qtermsim/ops"
)

// ErrSyntax is returned for statements Parse cannot read.
var ErrSyntax = errors.New("qasm: syntax error")

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex      = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	cregRegex      = regexp.MustCompile(`^creg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	measureRegex   = regexp.MustCompile(`^measure\s+(\w+(?:\s*\[\s*\d+\s*\])?)\s*->\s*(\w+(?:\s*\[\s*\d+\s*\])?)$`)
	statementRegex = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\(([^()]*)\))?\s+(.+)$`)
	operandRegex   = regexp.MustCompile(`^(\w+)(?:\s*\[\s*(\d+)\s*\])?$`)
)

// Program is the result of parsing OpenQASM text.
type Program struct {
	// Qubits is the total size of the declared quantum registers, or the
	// qubit count implied by the operations when no register is declared.
	Qubits int
	Ops    []ops.Operation
}

type register struct {
	offset int
	size   int
}

type parser struct {
	qregs map[string]register
	total int
	ops   []ops.Operation
}

// Parse reads OpenQASM 2.0 source. Registers are laid out in declaration
// order, so the second qreg's qubit 0 follows the last qubit of the first.
// Classical registers are accepted and ignored; barriers are dropped.
// Classically controlled statements and custom gate definitions are rejected
// with ErrSyntax.
func Parse(src string) (Program, error) {
	p := &parser{qregs: make(map[string]register)}

	for lineNo, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		for stmt := range strings.SplitSeq(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := p.statement(stmt); err != nil {
				return Program{}, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
		}
	}

	n := p.total
	if len(p.qregs) == 0 {
		n = ops.QubitCount(p.ops)
	}
	return Program{Qubits: n, Ops: p.ops}, nil
}

func (p *parser) statement(stmt string) error {
	switch {
	case strings.HasPrefix(stmt, "OPENQASM"), strings.HasPrefix(stmt, "include"):
		return nil
	case strings.HasPrefix(stmt, "barrier"):
		return nil
	case strings.HasPrefix(stmt, "if"):
		return fmt.Errorf("classically controlled statement %q: %w", stmt, ErrSyntax)
	case strings.HasPrefix(stmt, "gate "), strings.HasPrefix(stmt, "opaque "):
		return fmt.Errorf("gate definitions are not supported: %w", ErrSyntax)
	}

	if m := qregRegex.FindStringSubmatch(stmt); m != nil {
		if _, dup := p.qregs[m[1]]; dup {
			return fmt.Errorf("qreg %s declared twice: %w", m[1], ErrSyntax)
		}
		size, err := strconv.Atoi(m[2])
		if err != nil || size > ops.MaxQubits-p.total {
			return fmt.Errorf("qreg %s[%s] exceeds %d qubits: %w", m[1], m[2], ops.MaxQubits, ops.ErrInvalidQubitIndex)
		}
		p.qregs[m[1]] = register{offset: p.total, size: size}
		p.total += size
		return nil
	}
	if cregRegex.MatchString(stmt) {
		return nil
	}

	if m := measureRegex.FindStringSubmatch(stmt); m != nil {
		qubits, err := p.operand(m[1])
		if err != nil {
			return err
		}
		for _, q := range qubits {
			if err := p.append(ops.Measure, []int{q}); err != nil {
				return err
			}
		}
		return nil
	}

	m := statementRegex.FindStringSubmatch(stmt)
	if m == nil {
		return fmt.Errorf("unrecognised statement %q: %w", stmt, ErrSyntax)
	}
	kind, ok := ops.ParseKind(m[1])
	if !ok {
		return fmt.Errorf("unknown gate %q: %w: %w", m[1], ErrSyntax, ops.ErrInvalidGate)
	}

	var params []float64
	if strings.TrimSpace(m[2]) != "" {
		params = ParseParams(m[2])
		if params == nil {
			return fmt.Errorf("bad parameters %q: %w", m[2], ErrSyntax)
		}
	}

	args := strings.Split(m[3], ",")
	if kind.Arity() == 1 && len(args) == 1 {
		// A whole-register argument applies the gate to each of its qubits.
		qubits, err := p.operand(args[0])
		if err != nil {
			return err
		}
		for _, q := range qubits {
			if err := p.append(kind, []int{q}, params...); err != nil {
				return err
			}
		}
		return nil
	}

	targets := make([]int, 0, len(args))
	for _, a := range args {
		qubits, err := p.operand(a)
		if err != nil {
			return err
		}
		if len(qubits) != 1 {
			return fmt.Errorf("register argument %q to %s: %w", strings.TrimSpace(a), kind, ErrSyntax)
		}
		targets = append(targets, qubits[0])
	}
	return p.append(kind, targets, params...)
}

func (p *parser) append(kind ops.Kind, targets []int, params ...float64) error {
	op, err := ops.New(kind, targets, params...)
	if err != nil {
		return err
	}
	p.ops = append(p.ops, op)
	return nil
}

// operand resolves name[i] to a global qubit index, or a bare register name
// to all of its qubits.
func (p *parser) operand(s string) ([]int, error) {
	m := operandRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("bad operand %q: %w", s, ErrSyntax)
	}
	name, idx := m[1], m[2]

	if len(p.qregs) == 0 {
		// Operation lines without a prologue: indices are used as they are.
		if idx == "" {
			return nil, fmt.Errorf("undeclared register %q: %w", name, ErrSyntax)
		}
		q, err := index(idx)
		if err != nil {
			return nil, err
		}
		return []int{q}, nil
	}

	reg, ok := p.qregs[name]
	if !ok {
		return nil, fmt.Errorf("undeclared register %q: %w", name, ErrSyntax)
	}
	if idx == "" {
		out := make([]int, reg.size)
		for i := range out {
			out[i] = reg.offset + i
		}
		return out, nil
	}
	q, err := index(idx)
	if err != nil {
		return nil, err
	}
	if q >= reg.size {
		return nil, fmt.Errorf("%s[%d] outside a register of size %d: %w", name, q, reg.size, ops.ErrInvalidQubitIndex)
	}
	return []int{reg.offset + q}, nil
}

// index reads a qubit subscript below ops.MaxQubits.
func index(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil || q >= ops.MaxQubits {
		return 0, fmt.Errorf("qubit index %s: %w", s, ops.ErrInvalidQubitIndex)
	}
	return q, nil
}
