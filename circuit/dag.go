package circuit

import "qtermsim/ops"

// Node is one operation of the circuit together with its ordering
// constraints: an operation cannot execute before the previous operations on
// any qubit it uses.
type Node struct {
	Index  int
	Op     ops.Operation
	Deps   []int // indices of the nodes that must execute first
	Moment int   // layer in Moments
}

// DAG returns the dependency graph of the circuit in operation order, which
// is already a topological order.
//
// Moments are assigned as early as possible. A multi-qubit operation
// occupies every wire between its lowest and highest qubit, so operations
// sharing a moment can be drawn side by side without crossing.
func (c *Circuit) DAG() []Node {
	nodes := make([]Node, len(c.ops))
	lastOnQubit := make(map[int]int) // qubit -> index of last node using it
	nextMoment := make([]int, c.n)   // first free moment per wire

	for i, op := range c.ops {
		node := Node{Index: i, Op: op}

		seen := make(map[int]bool)
		for _, q := range op.Targets() {
			if last, ok := lastOnQubit[q]; ok && !seen[last] {
				seen[last] = true
				node.Deps = append(node.Deps, last)
			}
		}

		lo, hi := span(op)
		for q := lo; q <= hi; q++ {
			node.Moment = max(node.Moment, nextMoment[q])
		}
		for q := lo; q <= hi; q++ {
			nextMoment[q] = node.Moment + 1
		}
		for _, q := range op.Targets() {
			lastOnQubit[q] = i
		}
		nodes[i] = node
	}
	return nodes
}

// Moments groups operation indices into layers of operations on disjoint
// wire spans, in execution order.
func (c *Circuit) Moments() [][]int {
	var out [][]int
	for _, n := range c.DAG() {
		for len(out) <= n.Moment {
			out = append(out, nil)
		}
		out[n.Moment] = append(out[n.Moment], n.Index)
	}
	return out
}

// span returns the lowest and highest qubit op touches.
func span(op ops.Operation) (int, int) {
	t := op.Targets()
	lo, hi := t[0], t[0]
	for _, q := range t[1:] {
		lo, hi = min(lo, q), max(hi, q)
	}
	return lo, hi
}
