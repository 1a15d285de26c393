package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"qtermsim/backend"
	"qtermsim/circuit"
	"qtermsim/ops"
	"qtermsim/qasm"
)

// focus is the panel or popup that owns keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusInputParam
	focusSelectTarget
	focusEditParam
)

// Model is the TUI state. The circuit is the single source of truth; the
// grid and the QASM text are derived from it after every edit.
type Model struct {
	cfg       config
	registry  *backend.Registry
	circ      *circuit.Circuit
	grid      grid
	numQubits int // wires shown, at least circ.NumQubits()
	backend   string
	rev       int // bumped on every circuit change
	dirty     bool

	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	statusMsg   string
	statusErr   bool

	menuCat  int
	menuItem int

	// Gate under construction.
	pending     ops.Kind
	params      []float64
	selected    []int // qubits chosen so far, controls first
	targetQubit int
	paramInput  string
	editIndex   int

	result  *runMsg
	running int
}

func newModel(cfg config, reg *backend.Registry, c *circuit.Circuit, wires int) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(12)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		cfg:        cfg,
		registry:   reg,
		circ:       c,
		numQubits:  max(wires, 1),
		backend:    cfg.Backend,
		qasmEditor: ta,
		focus:      focusCircuit,
		editIndex:  -1,
	}
	m.changed()
	return m
}

// layout rebuilds the grid after the circuit or the wire count changed.
func (m *Model) layout() {
	m.numQubits = max(m.numQubits, m.circ.NumQubits(), 1)
	m.grid = buildGrid(m.circ, m.numQubits)
	m.cursorQubit = min(m.cursorQubit, m.numQubits-1)
	m.cursorStep = min(m.cursorStep, m.grid.steps())
	m.rev++
	m.dirty = true
}

// changed relays a grid edit to the grid and the QASM editor.
func (m *Model) changed() {
	m.layout()
	text := qasm.Export(m.circ.Ops(), m.numQubits, true)
	m.qasmEditor.SetValue(text)
	m.lastQASM = text
}

// parseQASMInput applies the editor text to the circuit. Only the operations
// after the common prefix are replaced so the amplitude caches survive
// edits at the end of the program.
func (m *Model) parseQASMInput() {
	text := m.qasmEditor.Value()
	if text == m.lastQASM {
		return
	}
	m.lastQASM = text

	prog, err := qasm.Parse(text)
	if err != nil {
		m.setError(err)
		return
	}
	old := m.circ.Ops()
	p := 0
	for p < len(old) && p < len(prog.Ops) && old[p] == prog.Ops[p] {
		p++
	}
	if err := m.circ.Truncate(p); err != nil {
		m.setError(err)
		return
	}
	m.circ.Append(prog.Ops[p:]...)
	m.numQubits = max(prog.Qubits, m.circ.NumQubits(), 1)
	m.layout()
}

func (m *Model) setStatus(msg string) {
	m.statusMsg, m.statusErr = msg, false
}

func (m *Model) setError(err error) {
	m.statusMsg, m.statusErr = err.Error(), true
}

// parseParamInput turns the parameter prompt into kind's parameter list. An
// empty prompt means all zeros.
func parseParamInput(kind ops.Kind, input string) ([]float64, error) {
	n := kind.NumParams()
	if strings.TrimSpace(input) == "" {
		return make([]float64, n), nil
	}
	params := qasm.ParseParams(input)
	if params == nil {
		return nil, fmt.Errorf("invalid parameter %q: use numbers or pi expressions (e.g. pi/2, 3*pi/4)", input)
	}
	if len(params) != n {
		return nil, fmt.Errorf("%s takes %d parameters, got %d", kind, n, len(params))
	}
	return params, nil
}

// formatParams renders params the way the prompt accepts them.
func formatParams(params []float64) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = qasm.FormatParam(p)
	}
	return strings.Join(parts, ",")
}

// startGate begins placing kind with the cursor qubit as its first qubit.
func (m *Model) startGate(kind ops.Kind) {
	m.pending = kind
	m.params = nil
	m.selected = []int{m.cursorQubit}
	m.paramInput = ""
	if kind.NumParams() > 0 {
		m.focus = focusInputParam
		return
	}
	m.advance()
}

// advance asks for the next qubit of the pending gate, or places it once
// every qubit is chosen.
func (m *Model) advance() {
	arity := m.pending.Arity()
	if m.numQubits < arity {
		m.setError(fmt.Errorf("%s needs %d qubits", m.pending, arity))
		m.cancelGate()
		return
	}
	if len(m.selected) < arity {
		m.targetQubit = m.nextFree(m.selected[len(m.selected)-1], 1)
		if m.targetQubit < 0 {
			m.targetQubit = m.nextFree(m.selected[len(m.selected)-1], -1)
		}
		m.focus = focusSelectTarget
		return
	}
	if err := m.placeGate(); err != nil {
		m.setError(err)
	}
	m.cancelGate()
}

// nextFree is the first unselected qubit after from in direction dir, -1
// when there is none.
func (m *Model) nextFree(from, dir int) int {
	for q := from + dir; q >= 0 && q < m.numQubits; q += dir {
		if !slices.Contains(m.selected, q) {
			return q
		}
	}
	return -1
}

// placeGate inserts the pending gate at the cursor step.
func (m *Model) placeGate() error {
	op, err := ops.New(m.pending, m.selected, m.params...)
	if err != nil {
		return err
	}
	if err := m.circ.Insert(m.grid.insertIndex(m.cursorStep, m.circ), op); err != nil {
		return err
	}
	m.changed()
	m.cursorStep = min(m.cursorStep+1, m.grid.steps())
	return nil
}

func (m *Model) cancelGate() {
	m.focus = focusCircuit
	m.pending = ops.Invalid
	m.params = nil
	m.selected = nil
	m.paramInput = ""
	m.editIndex = -1
}

// removeWire drops the highest wire together with every operation on it.
func (m *Model) removeWire() {
	if m.numQubits <= 1 {
		return
	}
	last := m.numQubits - 1
	for i := m.circ.Len() - 1; i >= 0; i-- {
		if m.circ.Op(i).Uses(last) {
			if err := m.circ.RemoveAt(i); err != nil {
				m.setError(err)
				return
			}
		}
	}
	m.numQubits = last
	m.changed()
}

// deleteAtCursor removes the operation acting on the cursor cell.
func (m *Model) deleteAtCursor() {
	cl := m.grid.at(m.cursorStep, m.cursorQubit)
	if cl.op < 0 || cl.role == roleWire {
		return
	}
	if err := m.circ.RemoveAt(cl.op); err != nil {
		m.setError(err)
		return
	}
	m.changed()
}

// editAtCursor opens the parameter prompt for the operation under the cursor.
func (m *Model) editAtCursor() {
	cl := m.grid.at(m.cursorStep, m.cursorQubit)
	if cl.op < 0 || cl.role == roleWire {
		return
	}
	op := m.circ.Op(cl.op)
	if op.Kind().NumParams() == 0 {
		m.setStatus(fmt.Sprintf("%s has no parameters", op.Kind()))
		return
	}
	m.editIndex = cl.op
	m.pending = op.Kind()
	m.paramInput = formatParams(op.Params())
	m.focus = focusEditParam
}

// applyEdit replaces the edited operation's parameters.
func (m *Model) applyEdit() error {
	params, err := parseParamInput(m.pending, m.paramInput)
	if err != nil {
		return err
	}
	op, err := ops.New(m.pending, m.circ.Op(m.editIndex).Targets(), params...)
	if err != nil {
		return err
	}
	if err := m.circ.Replace(m.editIndex, op); err != nil {
		return err
	}
	m.changed()
	return nil
}

// cycleBackend switches to the next registered backend.
func (m *Model) cycleBackend() {
	names := m.registry.Names()
	i := slices.Index(names, m.backend)
	m.backend = names[(i+1)%len(names)]
	m.setStatus("Backend: " + m.backend)
	m.dirty = true
}

func (m *Model) save() {
	text := m.qasmEditor.Value()
	if err := os.WriteFile(m.cfg.File, []byte(text), 0o644); err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}
	zap.L().Info("circuit saved", zap.String("file", m.cfg.File), zap.Int("operations", m.circ.Len()))
	m.setStatus("Saved " + m.cfg.File)
}

// paramChar reports whether key may be typed into a parameter prompt.
func paramChar(key string) bool {
	if len(key) != 1 {
		return false
	}
	return strings.ContainsRune("0123456789.,-+eEpi*/ ", rune(key[0]))
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	if m.live() {
		return m.runCmd(0)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.dirty = false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rightW, topH := m.rightWidth(), m.topHeight()
		m.qasmEditor.SetWidth(max(rightW-4, 20))
		m.qasmEditor.SetHeight(max(topH/2-4, 3))

	case runMsg:
		m.running = max(m.running-1, 0)
		m.handleRun(msg)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus != focusQASM {
			m.statusMsg = ""
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.circ.Clear()
				m.cursorStep = 0
				m.changed()
			case "ctrl+s":
				m.save()
			case "up", "k":
				m.cursorQubit = max(m.cursorQubit-1, 0)
			case "down", "j":
				m.cursorQubit = min(m.cursorQubit+1, m.numQubits-1)
			case "left", "h":
				m.cursorStep = max(m.cursorStep-1, 0)
			case "right", "l":
				m.cursorStep = min(m.cursorStep+1, m.grid.steps())
			case "+", "=":
				m.numQubits++
				m.changed()
			case "-":
				m.removeWire()
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.deleteAtCursor()
			case "e":
				m.editAtCursor()
			case "r":
				cmds = append(cmds, m.runCmd(0))
			case "s":
				cmds = append(cmds, m.runCmd(m.cfg.Shots))
			case "b":
				m.cycleBackend()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				m.menuItem = max(m.menuItem-1, 0)
			case "down", "j":
				m.menuItem = min(m.menuItem+1, len(gateMenu[m.menuCat].items)-1)
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				m.startGate(gateMenu[m.menuCat].items[m.menuItem].kind)
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.cancelGate()
			case "up", "k":
				if q := m.nextFree(m.targetQubit, -1); q >= 0 {
					m.targetQubit = q
				}
			case "down", "j":
				if q := m.nextFree(m.targetQubit, 1); q >= 0 {
					m.targetQubit = q
				}
			case "enter":
				if m.targetQubit >= 0 {
					m.selected = append(m.selected, m.targetQubit)
					m.advance()
				}
			}

		case focusInputParam, focusEditParam:
			switch key {
			case "esc":
				m.cancelGate()
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				if m.focus == focusEditParam {
					if err := m.applyEdit(); err != nil {
						m.setError(err)
						break
					}
					m.cancelGate()
					break
				}
				params, err := parseParamInput(m.pending, m.paramInput)
				if err != nil {
					m.setError(err)
					break
				}
				m.params = params
				m.advance()
			default:
				if paramChar(key) {
					m.paramInput += key
				}
			}

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	if m.dirty && m.live() {
		cmds = append(cmds, m.runCmd(0))
	}
	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	rightW := m.rightWidth()
	circuitW := m.width - rightW - 4
	topH := m.topHeight()
	qasmH := topH / 2
	runH := topH - qasmH

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderQASMPanel(rightW, qasmH-2),
		m.renderRunPanel(rightW, runH-2),
	)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderCircuitPanel(circuitW, topH-2), right)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, m.renderControlsPanel(m.width-4, controlsH-2))

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam, focusEditParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}

const controlsH = 6

func (m Model) rightWidth() int { return max(m.width/3, 30) }

func (m Model) topHeight() int { return max(m.height-controlsH, 12) }

// renderParamInput renders the parameter prompt.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	title := "Enter Parameter"
	if m.focus == focusEditParam {
		title = "Edit Parameters"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s(%d): %s_", m.pending, m.pending.NumParams(), m.paramInput)
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57, 0,pi/2"))
	if m.statusErr && m.statusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.statusMsg))
	}
	return menuBorderStyle.Render(sb.String())
}
