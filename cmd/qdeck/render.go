package main

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"qtermsim/gates"
	"qtermsim/ops"
	"qtermsim/sim"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres s within width terminal columns.
func padCenter(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

func dashes(n int) string { return strings.Repeat("─", n) }

func cellSymbol(r role) string {
	switch r {
	case roleControl, roleDot:
		return "●"
	case roleTarget:
		return "⊕"
	case roleSwap:
		return "×"
	}
	return "─"
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// midLine draws the wire row of a cell w columns wide.
func midLine(cl cell, w int) string {
	l := (w - 1) / 2
	r := w - l - 1
	switch cl.role {
	case roleEmpty:
		return dashes(w)
	case roleWire:
		return dashes(l) + "┼" + dashes(r)
	case roleBox:
		ml := (w - gateBoxW) / 2
		mr := w - ml - gateBoxW
		return dashes(ml) + gateStyle.Render("┤"+padCenter(cl.label, gateNameW)+"├") + dashes(mr)
	}
	return dashes(l) + gateStyle.Render(cellSymbol(cl.role)) + dashes(r)
}

// boxEdge draws the top or bottom border of a gate box, with a connector
// joint in the middle when a multi-qubit gate continues past it.
func boxEdge(left, right, joint string, connected bool) string {
	margin := (cellW - gateBoxW) / 2
	half := gateNameW / 2
	inner := dashes(gateNameW)
	if connected {
		inner = dashes(half) + joint + dashes(gateNameW-half-1)
	}
	return strings.Repeat(" ", margin) + gateStyle.Render(left+inner+right) + strings.Repeat(" ", cellW-margin-gateBoxW)
}

// renderCell returns the three text rows of one grid cell, each cellW
// columns wide.
func renderCell(cl cell, hl cellHighlight) (top, mid, bot string) {
	half := cellW / 2
	empty := strings.Repeat(" ", cellW)
	vert := strings.Repeat(" ", half) + "│" + strings.Repeat(" ", cellW-half-1)

	if hl != hlNone {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		inner := cellW - 2
		top = bdr.Render("╔" + strings.Repeat("═", inner) + "╗")
		mid = bdr.Render("║") + midLine(cl, inner) + bdr.Render("║")
		bot = bdr.Render("╚" + strings.Repeat("═", inner) + "╝")
		return
	}

	if cl.role == roleBox {
		return boxEdge("┌", "┐", "┴", cl.up), midLine(cl, cellW), boxEdge("└", "┘", "┬", cl.down)
	}
	top, bot = empty, empty
	if cl.up {
		top = vert
	}
	if cl.down {
		bot = vert
	}
	return top, midLine(cl, cellW), bot
}

// ──────────────────────────── Panel rendering ────────────────────────────

func (m Model) highlight(step, qubit int) cellHighlight {
	if step != m.cursorStep {
		return hlNone
	}
	switch m.focus {
	case focusSelectTarget:
		if qubit == m.targetQubit {
			return hlTargetSelect
		}
		if slices.Contains(m.selected, qubit) {
			return hlCursor
		}
	case focusCircuit, focusMenu, focusInputParam, focusEditParam:
		if qubit == m.cursorQubit {
			return hlCursor
		}
	}
	return hlNone
}

// renderCircuitPanel renders the circuit grid.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	fmt.Fprintf(&sb, "  %s\n\n", dimStyle.Render(m.circ.String()))

	visible := max((width-labelVisualW-4)/cellW, 1)
	startStep := 0
	if m.cursorStep >= visible {
		startStep = m.cursorStep - visible + 1
	}
	endStep := startStep + visible

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, endStep-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < endStep; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprint(step), cellW))
	}
	sb.WriteString(header + "\n")

	for qubit := range m.numQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		wireLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < endStep; step++ {
			top, mid, bot := renderCell(m.grid.at(step, qubit), m.highlight(step, qubit))
			topLine += top
			wireLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n")
		sb.WriteString(wireLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	sb.WriteString(m.renderClassicalWire(startStep, endStep))

	switch {
	case m.focus == focusSelectTarget:
		fmt.Fprintf(&sb, "\n  %s  Select qubit %d of %d: %s",
			activeGateStyle.Render(m.pending.String()),
			len(m.selected)+1, m.pending.Arity(),
			targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	default:
		fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
		if m.statusMsg != "" {
			style := activeGateStyle
			if m.statusErr {
				style = errorStyle
			}
			fmt.Fprintf(&sb, "  │  %s", style.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderClassicalWire draws the classical register with a ╩ under every
// moment that measures a qubit. It is empty while nothing is measured.
func (m Model) renderClassicalWire(startStep, endStep int) string {
	measured := make(map[int]bool)
	for i := range m.circ.Len() {
		if op := m.circ.Op(i); op.Kind() == ops.Measure {
			measured[op.Target(0)] = true
		}
	}
	if len(measured) == 0 {
		return ""
	}

	half := cellW / 2
	sep := strings.Repeat(" ", labelVisualW)
	wire := cbitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("c%d", len(measured)))) + cbitWireStyle.Render("══")
	for step := startStep; step < endStep; step++ {
		q := m.grid.measured(step, m.circ)
		if q < 0 {
			sep += strings.Repeat(" ", cellW)
			wire += cbitWireStyle.Render(strings.Repeat("═", cellW))
			continue
		}
		label := fmt.Sprint(q)
		sep += strings.Repeat(" ", half) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-half-1)
		wire += cbitWireStyle.Render(strings.Repeat("═", half)) +
			cbitConnectorStyle.Render("╩"+label) +
			cbitWireStyle.Render(strings.Repeat("═", max(cellW-half-1-len(label), 0)))
	}
	return sep + "\n" + wire + "\n"
}

// renderQASMPanel renders the QASM editor.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.qasmEditor.View())
	if m.focus == focusQASM && m.statusErr && m.statusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(ansi.Truncate(m.statusMsg, max(width-4, 1), "…")))
	}

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderRunPanel renders the latest run: amplitudes, a shot histogram, QASM
// text or a unitary, depending on what the backend returned.
func (m Model) renderRunPanel(width, height int) string {
	var sb strings.Builder

	title := "Run · " + m.backend
	if m.running > 0 {
		title += " …"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	rows := max(height-2, 1)
	res := m.result
	switch {
	case res == nil:
		sb.WriteString(dimStyle.Render("r Run  s Shots  b Backend"))
	case res.err != nil:
		sb.WriteString(errorStyle.Render(res.err.Error()))
	default:
		fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("%s in %s", res.backend, res.elapsed.Round(time.Microsecond))))
		var lines []string
		switch {
		case res.res.HasCounts() && res.res.HasStatevector():
			half := max((rows-1)/2, 1)
			lines = append(histogramLines(res.res.Counts, half), amplitudeLines(res.res.Statevector, rows-1-half)...)
		case res.res.HasCounts():
			lines = histogramLines(res.res.Counts, rows-1)
		case res.res.HasStatevector():
			lines = amplitudeLines(res.res.Statevector, rows-1)
		case res.res.Unitary.Dim() > 0:
			lines = unitaryLines(res.res.Unitary, rows-1)
		default:
			lines = strings.Split(strings.TrimRight(res.res.QASM, "\n"), "\n")
			if len(lines) > rows-1 {
				lines = append(lines[:max(rows-2, 0)], dimStyle.Render("…"))
			}
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}

	return runStyle.Width(width).Height(height).Render(sb.String())
}

// basisLabel writes basis index i as n bits, character q holding qubit q,
// the layout full-register shot keys use.
func basisLabel(i, n int) string {
	b := make([]byte, n)
	for q := range n {
		b[q] = '0' + byte(i>>q&1)
	}
	return string(b)
}

func bar(p float64) string {
	return barStyle.Render(strings.Repeat("█", int(math.Round(p*barW))))
}

// amplitudeLines lists the basis states with non-negligible probability,
// at most limit lines.
func amplitudeLines(vec []complex128, limit int) []string {
	n := bits.Len(uint(len(vec))) - 1
	var lines []string
	shown := 0
	for i, a := range vec {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p < 1e-10 {
			continue
		}
		shown++
		if len(lines) >= limit {
			continue
		}
		lines = append(lines, fmt.Sprintf("|%s⟩ %+.3f%+.3fi %5.1f%% %s",
			basisLabel(i, n), real(a), imag(a), 100*p, bar(p)))
	}
	if shown > len(lines) && len(lines) > 0 {
		lines[len(lines)-1] = dimStyle.Render(fmt.Sprintf("… %d more states", shown-len(lines)+1))
	}
	return lines
}

// histogramLines lists the most common shot outcomes.
func histogramLines(counts sim.Counts, limit int) []string {
	lines := []string{dimStyle.Render(fmt.Sprintf("%d shots, %d outcomes", counts.Total(), len(counts)))}
	for _, kc := range counts.MostCommon(max(limit-1, 1)) {
		f := counts.Frequency(kc.Key)
		lines = append(lines, fmt.Sprintf("%s %6d %5.1f%% %s", kc.Key, kc.Count, 100*f, bar(f)))
	}
	return lines
}

// unitaryLines prints the top-left corner of u as magnitude∠phase pairs.
func unitaryLines(u gates.Matrix, limit int) []string {
	const maxCols = 4
	lines := []string{dimStyle.Render(fmt.Sprintf("unitary %d×%d", u.Dim(), u.Dim()))}
	for i := 0; i < u.Dim() && len(lines) < limit; i++ {
		var row strings.Builder
		for j := 0; j < min(u.Dim(), maxCols); j++ {
			r, th := cmplx.Polar(u.At(i, j))
			if r < 1e-9 {
				row.WriteString("    ·     ")
				continue
			}
			fmt.Fprintf(&row, "%4.2f∠%+4.2f ", r, th)
		}
		if u.Dim() > maxCols {
			row.WriteString(dimStyle.Render("…"))
		}
		lines = append(lines, row.String())
	}
	return lines
}

// renderControlsPanel renders the key help bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Step  +/- Qubits  Tab QASM editor")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate  ")
	sb.WriteString(activeGateStyle.Render("e"))
	sb.WriteString(" Edit params\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("r Run  s Shots  b Backend  Bksp Delete  ^R Clear  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt draws overlay on top of bg with its top-left corner at column x
// of line y. Both may carry ANSI styling.
func overlayAt(bg, overlay string, x, y int) string {
	lines := strings.Split(bg, "\n")
	for i, ov := range strings.Split(overlay, "\n") {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		base := lines[row]
		left := ansi.Truncate(base, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(base, x+ansi.StringWidth(ov), "")
		lines[row] = left + ov + right
	}
	return strings.Join(lines, "\n")
}
