package backend

// Returns selects the outputs of a run.
type Returns int

const (
	// ReturnsAuto gives counts when shots are requested and the statevector
	// otherwise.
	ReturnsAuto Returns = iota
	ReturnsStatevector
	ReturnsShots
	ReturnsStatevectorAndShots
)

func (r Returns) String() string {
	switch r {
	case ReturnsAuto:
		return "auto"
	case ReturnsStatevector:
		return "statevector"
	case ReturnsShots:
		return "shots"
	case ReturnsStatevectorAndShots:
		return "statevector_and_shots"
	}
	return "unknown"
}

// ParseReturns maps the names produced by String back to a Returns.
func ParseReturns(s string) (Returns, bool) {
	for r := ReturnsAuto; r <= ReturnsStatevectorAndShots; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return ReturnsAuto, false
}

// Options are the per-run settings.
type Options struct {
	Shots   int
	Returns Returns
	// BackendName selects a registered backend; Backend, when set, wins.
	BackendName string
	Backend     Backend
	// FullRegister reports shots as qubit_count-wide strings, position q
	// holding qubit q and unmeasured qubits reading '0'.
	FullRegister bool
	Seed         uint64
	Seeded       bool
	// Prologue controls the OPENQASM header of the qasm_output backend.
	Prologue bool
}

// RunOption mutates Options under construction.
type RunOption func(*Options)

// NewOptions returns the defaults with opts applied.
func NewOptions(opts ...RunOption) Options {
	o := Options{Prologue: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithShots requests n measurement shots.
func WithShots(n int) RunOption {
	return func(o *Options) { o.Shots = n }
}

// WithReturns selects the outputs.
func WithReturns(r Returns) RunOption {
	return func(o *Options) { o.Returns = r }
}

// WithBackendName runs on the registered backend called name.
func WithBackendName(name string) RunOption {
	return func(o *Options) { o.BackendName = name }
}

// WithBackend runs on b, which need not be registered.
func WithBackend(b Backend) RunOption {
	return func(o *Options) { o.Backend = b }
}

// WithFullRegister switches counts keys to the full-register layout.
func WithFullRegister() RunOption {
	return func(o *Options) { o.FullRegister = true }
}

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) RunOption {
	return func(o *Options) {
		o.Seed = seed
		o.Seeded = true
	}
}

// WithPrologue toggles the OPENQASM header in text output.
func WithPrologue(on bool) RunOption {
	return func(o *Options) { o.Prologue = on }
}
