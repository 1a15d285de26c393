// Command qdeck is a terminal quantum circuit editor with a live simulation
// panel. Gates are placed on a moment grid or typed as OpenQASM 2.0; the
// circuit is re-run on every edit and can be sampled with shots.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qtermsim/backend"
	"qtermsim/circuit"
	"qtermsim/metrics"
	"qtermsim/qasm"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "qdeck:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer zap.ReplaceGlobals(logger)()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	reg := backend.DefaultRegistry()
	if err := reg.SetDefaultBackend(cfg.Backend); err != nil {
		return err
	}

	c, wires, err := loadCircuit(cfg.File, reg)
	if err != nil {
		return err
	}
	zap.L().Info("qdeck starting",
		zap.String("file", cfg.File),
		zap.Int("operations", c.Len()),
		zap.String("backend", cfg.Backend))

	_, err = tea.NewProgram(newModel(cfg, reg, c, max(wires, cfg.Qubits)), tea.WithAltScreen()).Run()
	return err
}

// newLogger writes JSON logs to the configured file; the terminal belongs to
// the UI.
func newLogger(cfg config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LogFile}
	return zc.Build()
}

// serveMetrics exposes the simulator collectors on addr in the background.
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("metrics server stopped", zap.Error(err))
		}
	}()
	zap.L().Info("serving metrics", zap.String("addr", addr))
	return srv
}

// loadCircuit reads path when it exists. It also returns the declared
// register width so unused wires stay visible.
func loadCircuit(path string, reg *backend.Registry) (*circuit.Circuit, int, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return circuit.New(circuit.WithRegistry(reg)), 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	prog, err := qasm.Parse(string(src))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return circuit.FromOps(prog.Ops, circuit.WithRegistry(reg)), prog.Qubits, nil
}
