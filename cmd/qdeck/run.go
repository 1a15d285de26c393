package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"qtermsim/backend"
	"qtermsim/circuit"
)

// maxUnitaryQubits bounds the unitary backend, whose result has 4^n entries.
const maxUnitaryQubits = 10

// runMsg carries a finished run back into Update.
type runMsg struct {
	rev     int
	snap    *circuit.Circuit
	backend string
	shots   int
	res     backend.Result
	err     error
	elapsed time.Duration
}

// live reports whether edits re-run the circuit on their own. Only cached
// backends qualify: appending a gate then costs one gate application.
func (m Model) live() bool {
	if !m.cfg.Live {
		return false
	}
	b, err := m.registry.Lookup(m.backend)
	return err == nil && b.Capabilities().Cached
}

// runOptions translates the model settings into run options. The configured
// returns mode applies to shot runs; plain runs always want the statevector.
func (m Model) runOptions(shots int) []backend.RunOption {
	opts := []backend.RunOption{backend.WithBackendName(m.backend)}
	if shots > 0 {
		opts = append(opts, backend.WithShots(shots), backend.WithReturns(m.cfg.Returns))
	}
	if m.cfg.seeded() {
		opts = append(opts, backend.WithSeed(m.cfg.Seed))
	}
	return opts
}

// runCmd runs a snapshot of the circuit off the update loop. The snapshot
// carries copies of the caches; handleRun adopts it when the circuit has not
// changed in the meantime.
func (m *Model) runCmd(shots int) tea.Cmd {
	if m.backend == backend.UnitaryName && m.circ.NumQubits() > maxUnitaryQubits {
		m.setError(fmt.Errorf("unitary backend is limited to %d qubits", maxUnitaryQubits))
		return nil
	}
	snap := m.circ.Copy(true)
	rev, name := m.rev, m.backend
	opts := m.runOptions(shots)
	m.running++
	return func() tea.Msg {
		start := time.Now()
		res, err := snap.Run(opts...)
		return runMsg{
			rev:     rev,
			snap:    snap,
			backend: name,
			shots:   shots,
			res:     res,
			err:     err,
			elapsed: time.Since(start),
		}
	}
}

// handleRun records a run result. Results for an outdated circuit are
// dropped.
func (m *Model) handleRun(msg runMsg) {
	log := zap.L().With(zap.String("backend", msg.backend), zap.Int("shots", msg.shots), zap.Duration("elapsed", msg.elapsed))
	if msg.err != nil {
		log.Warn("run failed", zap.Error(msg.err))
	} else {
		log.Debug("run finished")
	}
	if msg.rev != m.rev {
		return
	}
	if msg.err == nil {
		m.circ = msg.snap
	}
	m.result = &msg
}
