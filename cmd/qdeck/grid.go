package main

import (
	"slices"

	"qtermsim/circuit"
	"qtermsim/ops"
)

// role is what a grid cell draws for the operation occupying it.
type role int

const (
	roleEmpty   role = iota
	roleBox          // boxed label: single-qubit gates and boxed controlled targets
	roleControl      // ●
	roleTarget       // ⊕
	roleDot          // ● at the target of a CZ
	roleSwap         // ×
	roleWire         // the connector crosses this qubit without acting on it
)

// cell is one (moment, qubit) slot of the grid.
type cell struct {
	op    int // operation index, -1 when empty
	role  role
	label string
	up    bool // connector towards the qubit above
	down  bool // connector towards the qubit below
}

// grid is the circuit laid out by moment: grid[step][qubit].
type grid [][]cell

// buildGrid lays the circuit out over its moments on n wires.
func buildGrid(c *circuit.Circuit, n int) grid {
	moments := c.Moments()
	g := make(grid, len(moments))
	for step, idxs := range moments {
		col := make([]cell, n)
		for q := range col {
			col[q].op = -1
		}
		for _, i := range idxs {
			op := c.Op(i)
			targets := op.Targets()
			lo, hi := slices.Min(targets), slices.Max(targets)
			for q := lo; q <= hi; q++ {
				col[q] = cell{op: i, role: roleWire, up: q > lo, down: q < hi}
			}
			for k, q := range targets {
				col[q].role, col[q].label = cellRole(op.Kind(), k)
			}
		}
		g[step] = col
	}
	return g
}

// cellRole is the drawing of target position k of kind.
func cellRole(kind ops.Kind, k int) (role, string) {
	arity := kind.Arity()
	switch {
	case arity == 1:
		return roleBox, gateLabel(kind)
	case kind == ops.SWAP:
		return roleSwap, ""
	case k < arity-1:
		return roleControl, ""
	case kind == ops.CX || kind == ops.CCX:
		return roleTarget, ""
	case kind == ops.CZ:
		return roleDot, ""
	}
	return roleBox, gateLabel(kind)
}

// steps is the number of moments.
func (g grid) steps() int { return len(g) }

// at returns the cell at (step, qubit); positions past the last moment are
// empty.
func (g grid) at(step, qubit int) cell {
	if step < 0 || step >= len(g) || qubit < 0 || qubit >= len(g[step]) {
		return cell{op: -1}
	}
	return g[step][qubit]
}

// measured returns the qubit measured in step, -1 when the moment holds no
// measurement. With several, the lowest qubit wins.
func (g grid) measured(step int, c *circuit.Circuit) int {
	if step < 0 || step >= len(g) {
		return -1
	}
	for q, cl := range g[step] {
		if cl.op >= 0 && c.Op(cl.op).Kind() == ops.Measure {
			return q
		}
	}
	return -1
}

// insertIndex is where an operation placed at step goes in the operation
// list: before the first operation scheduled after step.
func (g grid) insertIndex(step int, c *circuit.Circuit) int {
	idx := c.Len()
	for s := step + 1; s < len(g); s++ {
		for _, cl := range g[s] {
			if cl.op >= 0 {
				idx = min(idx, cl.op)
			}
		}
	}
	return idx
}
