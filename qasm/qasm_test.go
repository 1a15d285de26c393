package qasm

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/ops"
)

func TestParseNamedRegisters(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";

qreg a[2];
qreg b[1];
creg c0[1];
creg c1[1];

h a[1];
cx a[1], b[0];
cx a[0], a[1];
h a[0];
measure a[0] -> c0[0];
measure a[1] -> c1[0];`

	prog, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, 3, prog.Qubits)

	want := []ops.Operation{
		ops.MustNew(ops.H, []int{1}),
		ops.MustNew(ops.CX, []int{1, 2}),
		ops.MustNew(ops.CX, []int{0, 1}),
		ops.MustNew(ops.H, []int{0}),
		ops.MustNew(ops.Measure, []int{0}),
		ops.MustNew(ops.Measure, []int{1}),
	}
	assert.Equal(t, want, prog.Ops)
}

func TestParseWholeRegisterArguments(t *testing.T) {
	src := `qreg q[3]; creg c[3];
h q;
measure q -> c;`

	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Ops, 6)
	for i := range 3 {
		assert.Equal(t, ops.MustNew(ops.H, []int{i}), prog.Ops[i])
		assert.Equal(t, ops.MustNew(ops.Measure, []int{i}), prog.Ops[3+i])
	}
}

func TestParseWithoutPrologue(t *testing.T) {
	prog, err := Parse("x q[0];\nh q[3]; // trailing comment\nbarrier q[0], q[3];\n")
	require.NoError(t, err)
	assert.Equal(t, 4, prog.Qubits)
	assert.Equal(t, []ops.Operation{
		ops.MustNew(ops.X, []int{0}),
		ops.MustNew(ops.H, []int{3}),
	}, prog.Ops)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"classical control", "qreg q[2];\nif (c==1) x q[0];", ErrSyntax},
		{"unknown gate", "qreg q[1];\nfoo q[0];", ErrSyntax},
		{"unknown gate kind", "qreg q[1];\nfoo q[0];", ops.ErrInvalidGate},
		{"bad parameter", "qreg q[1];\nrx(abc) q[0];", ErrSyntax},
		{"missing parameter", "qreg q[1];\nrx q[0];", ops.ErrInvalidGate},
		{"too many parameters", "qreg q[1];\nh(0.5) q[0];", ops.ErrInvalidGate},
		{"wrong arity", "qreg q[2];\ncx q[0];", ops.ErrInvalidQubitIndex},
		{"repeated qubit", "qreg q[2];\ncx q[1], q[1];", ops.ErrInvalidQubitIndex},
		{"index out of range", "qreg q[2];\nx q[2];", ops.ErrInvalidQubitIndex},
		{"undeclared register", "qreg q[2];\nx r[0];", ErrSyntax},
		{"duplicate register", "qreg q[2];\nqreg q[1];", ErrSyntax},
		{"gate definition", "gate foo a { x a; }", ErrSyntax},
		{"garbage", "qreg q[1];\n???", ErrSyntax},
		{"oversized register", "qreg q[99999999999999999999];\nh q;", ops.ErrInvalidQubitIndex},
		{"registers beyond limit", "qreg a[20];\nqreg b[20];", ops.ErrInvalidQubitIndex},
		{"wide index", "x q[64];", ops.ErrInvalidQubitIndex},
		{"overflowing index", "qreg q[2];\nx q[99999999999999999999];", ops.ErrInvalidQubitIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse("qreg q[1];\nh q[0];\nbogus q[0];")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "line 3:"), err.Error())
}

func TestExport(t *testing.T) {
	list := []ops.Operation{
		ops.MustNew(ops.X, []int{0}),
		ops.MustNew(ops.H, []int{0}),
		ops.MustNew(ops.CX, []int{0, 1}),
		ops.MustNew(ops.Measure, []int{1}),
	}
	want := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

x q[0];
h q[0];
cx q[0], q[1];
measure q[1] -> c[1];
`
	assert.Equal(t, want, Export(list, 2, true))
	assert.Equal(t, "x q[0];\nh q[0];\ncx q[0], q[1];\nmeasure q[1] -> c[1];\n", Export(list, 2, false))
	assert.Equal(t, Export(list, 2, true), Export(list, 2, true))
}

func TestExportEmpty(t *testing.T) {
	out := Export(nil, 0, true)
	assert.Contains(t, out, "qreg q[1];")
	assert.Empty(t, Export(nil, 0, false))
}

func TestRoundTripEveryKind(t *testing.T) {
	var list []ops.Operation
	for _, k := range ops.Kinds() {
		targets := []int{2, 0, 1}[:k.Arity()]
		params := []float64{math.Pi / 2, -0.25, 1.125}[:k.NumParams()]
		list = append(list, ops.MustNew(k, targets, params...))
	}

	prog, err := Parse(Export(list, 3, true))
	require.NoError(t, err)
	assert.Equal(t, 3, prog.Qubits)
	require.Len(t, prog.Ops, len(list))
	for i := range list {
		assert.Equal(t, list[i].Kind(), prog.Ops[i].Kind(), "op %d", i)
		assert.Equal(t, list[i].Targets(), prog.Ops[i].Targets(), "op %d", i)
		assert.InDeltaSlice(t, list[i].Params(), prog.Ops[i].Params(), 1e-12, "op %d", i)
	}
}

func TestPiParamRoundTrip(t *testing.T) {
	list := []ops.Operation{
		ops.MustNew(ops.RX, []int{0}, math.Pi/2),
		ops.MustNew(ops.RY, []int{1}, 3*math.Pi/4),
		ops.MustNew(ops.RZ, []int{0}, -math.Pi),
		ops.MustNew(ops.CRX, []int{0, 1}, math.Pi/4),
		ops.MustNew(ops.RX, []int{1}, math.Pi/3),
		ops.MustNew(ops.RY, []int{0}, math.Pi+1e-13),
	}
	out := Export(list, 2, true)
	for _, want := range []string{"rx(pi/2) q[0]", "ry(3*pi/4) q[1]", "rz(-pi) q[0]", "crx(pi/4) q[0], q[1]"} {
		assert.Contains(t, out, want)
	}

	assert.NotContains(t, out, "ry(pi) q[0]")

	// Parameters survive bit for bit, so re-parsed operations compare equal.
	prog, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, list, prog.Ops)
}

func TestLine(t *testing.T) {
	assert.Equal(t, "u2(pi/2, -1) q[3];", Line(ops.MustNew(ops.U2, []int{3}, math.Pi/2, -1)))
	assert.Equal(t, "ccx q[0], q[1], q[2];", Line(ops.MustNew(ops.CCX, []int{0, 1, 2})))
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.5707", 1.5707, true},
		{"-0.5", -0.5, true},
		{"42", 42, true},
		{"3.14e-2", 0.0314, true},
		{"PI", math.Pi, true},
		{"+pi", math.Pi, true},
		{"pi/8", math.Pi / 8, true},
		{"2pi", 2 * math.Pi, true},
		{".5*pi", math.Pi / 2, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"pi*3/2", 3 * math.Pi / 2, true},
		{"-2*pi/3", -2 * math.Pi / 3, true},
		{" 3 * pi / 4 ", 3 * math.Pi / 4, true},
		{"", 0, false},
		{"tau", 0, false},
		{"pi/0", 0, false},
		{"pi/", 0, false},
		{"2**pi", 0, false},
		{"NaN", 0, false},
		{"-Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseParam(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestFormatParam(t *testing.T) {
	for val, want := range map[float64]string{
		math.Pi:            "pi",
		math.Pi / 6:        "pi/6",
		3 * math.Pi / 2:    "3*pi/2",
		-math.Pi / 4:       "-pi/4",
		2 * math.Pi:        "2*pi",
		0:                  "0",
		0.25:               "0.25",
		1.2345678901234567: "1.2345678901234567",
	} {
		assert.Equal(t, want, FormatParam(val))
	}
}

func TestFormatParamRoundTripsExactly(t *testing.T) {
	for _, val := range []float64{
		math.Pi,
		math.Pi + 1e-13,
		math.Nextafter(math.Pi/2, 0),
		-math.Pi / 3,
		math.Pi * 1 / 3,
		2 * math.Pi / 3,
		math.Pi * 2 / 3,
		-1e-300,
		0.1,
	} {
		got, ok := ParseParam(FormatParam(val))
		require.True(t, ok, FormatParam(val))
		assert.Equal(t, val, got, FormatParam(val))
	}

	assert.NotEqual(t, "pi", FormatParam(math.Pi+1e-13))
	assert.NotEqual(t, "pi/2", FormatParam(math.Nextafter(math.Pi/2, 0)))
}

func TestParseParams(t *testing.T) {
	assert.Len(t, ParseParams("pi/2"), 1)
	assert.Len(t, ParseParams("pi/2, pi/4"), 2)
	assert.Nil(t, ParseParams("abc"))
	assert.Nil(t, ParseParams("pi/2,garbage"))
	assert.Nil(t, ParseParams(""))
}
