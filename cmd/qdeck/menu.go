package main

import (
	"fmt"
	"strings"

	"qtermsim/ops"
)

// menuItem is one gate choice in the picker.
type menuItem struct {
	name    string
	kind    ops.Kind
	example string // parameter hint, empty for fixed gates
}

func (it menuItem) needsParams() bool { return it.kind.NumParams() > 0 }
func (it menuItem) needsTarget() bool { return it.kind.Arity() > 1 }

type menuCategory struct {
	name  string
	items []menuItem
}

var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", kind: ops.H},
			{name: "Pauli-X (NOT)", kind: ops.X},
			{name: "Pauli-Y", kind: ops.Y},
			{name: "Pauli-Z", kind: ops.Z},
			{name: "Identity", kind: ops.I},
			{name: "Phase (S)", kind: ops.S},
			{name: "Phase Dagger (S†)", kind: ops.Sdg},
			{name: "T Gate", kind: ops.T},
			{name: "T Dagger (T†)", kind: ops.Tdg},
			{name: "√X (SX)", kind: ops.SX},
			{name: "√X Dagger", kind: ops.SXdg},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", kind: ops.RX, example: "pi/2"},
			{name: "Rotate Y", kind: ops.RY, example: "pi/2"},
			{name: "Rotate Z", kind: ops.RZ, example: "pi/2"},
			{name: "Phase Shift", kind: ops.Phase, example: "pi/4"},
			{name: "Universal U1", kind: ops.U1, example: "lambda"},
			{name: "Universal U2", kind: ops.U2, example: "phi,lambda"},
			{name: "Universal U3", kind: ops.U3, example: "theta,phi,lambda"},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", kind: ops.CX},
			{name: "Controlled-Y", kind: ops.CY},
			{name: "Controlled-Z", kind: ops.CZ},
			{name: "Controlled-H", kind: ops.CH},
			{name: "SWAP", kind: ops.SWAP},
			{name: "Toffoli (CCX)", kind: ops.CCX},
			{name: "C-Rotate X", kind: ops.CRX, example: "pi/2"},
			{name: "C-Rotate Y", kind: ops.CRY, example: "pi/2"},
			{name: "C-Rotate Z", kind: ops.CRZ, example: "pi/2"},
			{name: "C-Phase (CU1)", kind: ops.CPhase, example: "lambda"},
		},
	},
	{
		name: "Measurement",
		items: []menuItem{
			{name: "Measure", kind: ops.Measure},
			{name: "Reset", kind: ops.Reset},
		},
	},
}

// gateLabel is the text drawn inside a gate box, or at the target of a
// controlled gate that is not drawn with a dedicated wire symbol.
func gateLabel(kind ops.Kind) string {
	switch kind {
	case ops.Measure:
		return "M"
	case ops.Reset:
		return "|0⟩"
	case ops.Sdg:
		return "S†"
	case ops.Tdg:
		return "T†"
	case ops.SX:
		return "√X"
	case ops.SXdg:
		return "√X†"
	case ops.Phase, ops.CPhase:
		return "P"
	case ops.CY:
		return "Y"
	case ops.CH:
		return "H"
	case ops.CRX:
		return "RX"
	case ops.CRY:
		return "RY"
	case ops.CRZ:
		return "RZ"
	}
	return strings.ToUpper(kind.String())
}

// menuSymbol previews how an item is drawn on the grid.
func menuSymbol(kind ops.Kind) string {
	switch kind {
	case ops.CX:
		return "●─⊕"
	case ops.CZ:
		return "●─●"
	case ops.SWAP:
		return "×─×"
	case ops.CCX:
		return "●─●─⊕"
	}
	if kind.Arity() > 1 {
		return "●─" + gateLabel(kind)
	}
	return gateLabel(kind)
}

// renderMenu renders the floating gate picker.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 46)))
	sb.WriteString("\n")

	for i, item := range gateMenu[m.menuCat].items {
		name := fmt.Sprintf("%-18s", item.name)
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ " + name))
			sb.WriteString(gateStyle.Render(menuSymbol(item.kind)))
		} else {
			sb.WriteString("   " + menuNormalStyle.Render(name))
			sb.WriteString(dimStyle.Render(menuSymbol(item.kind)))
		}
		if item.needsTarget() {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.needsParams() {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.example)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
