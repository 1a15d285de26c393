package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"qtermsim/backend"
)

// config is the resolved command line, environment and qdeck.yaml settings.
// Flags win over the environment (QDECK_SHOTS, QDECK_LOG_LEVEL, ...), which
// wins over the file.
type config struct {
	Qubits      int
	Shots       int
	Backend     string
	Seed        uint64
	Returns     backend.Returns
	Live        bool
	File        string
	LogFile     string
	LogLevel    string
	MetricsAddr string
}

// seeded reports whether runs should be reproducible.
func (c config) seeded() bool { return c.Seed != 0 }

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("qdeck", pflag.ContinueOnError)
	fs.Int("qubits", 4, "number of wires shown for an empty circuit")
	fs.Int("shots", 1024, "shots taken by the s key")
	fs.String("backend", backend.StatevectorName, "backend runs are dispatched to")
	fs.Uint64("seed", 0, "sampling seed, 0 for a random one per run")
	fs.String("returns", backend.ReturnsAuto.String(), "outputs of a shot run: auto, statevector, shots or statevector_and_shots")
	fs.Bool("live", true, "re-run the statevector after every edit")
	fs.String("file", "circuit.qasm", "QASM file loaded at start and written by ctrl+s")
	fs.String("log.file", "qdeck.log", "log destination")
	fs.String("log.level", "info", "log level")
	fs.String("metrics.addr", "", "serve prometheus metrics on this address when set")
	fs.String("config", "", "config file (default ./qdeck.yaml)")
	return fs
}

// loadConfig parses args and merges the environment and the config file.
func loadConfig(args []string) (config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("QDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return config{}, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("qdeck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := config{
		Qubits:      v.GetInt("qubits"),
		Shots:       v.GetInt("shots"),
		Backend:     v.GetString("backend"),
		Seed:        v.GetUint64("seed"),
		Live:        v.GetBool("live"),
		File:        v.GetString("file"),
		LogFile:     v.GetString("log.file"),
		LogLevel:    v.GetString("log.level"),
		MetricsAddr: v.GetString("metrics.addr"),
	}
	returns, ok := backend.ParseReturns(v.GetString("returns"))
	if !ok {
		return config{}, fmt.Errorf("unknown returns mode %q", v.GetString("returns"))
	}
	cfg.Returns = returns
	if cfg.Qubits < 1 {
		return config{}, fmt.Errorf("qubits must be positive, got %d", cfg.Qubits)
	}
	if cfg.Shots < 1 {
		return config{}, fmt.Errorf("shots must be positive, got %d", cfg.Shots)
	}
	return cfg, nil
}
