// SPDX-License-Identifier: Apache-2.0

package profiling

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime"
	runtimepprof "runtime/pprof"
	"time"
)

type Config struct {
	// Address exposes the /debug/pprof endpoints while profiling when set.
	Address string
	// CPUProfile is the file the cpu profile is written to. Defaults to
	// cpu.prof.
	CPUProfile string
	// MemProfile is the file the allocations profile is written to once
	// profiling stops. Defaults to mem.prof.
	MemProfile string
}

// Profiler profiles the process between Start and Stop.
type Profiler struct {
	cpuFile    *os.File
	memProfile string
	server     *http.Server
}

const readHeaderTimeout = 5 * time.Second

func Start(cfg Config) (*Profiler, error) {
	p := &Profiler{
		memProfile: withDefault(cfg.MemProfile, "mem.prof"),
	}

	cpuFile, err := os.Create(withDefault(cfg.CPUProfile, "cpu.prof"))
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile file: %w", err)
	}
	if err := runtimepprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = cpuFile

	if cfg.Address != "" {
		if err := p.serve(cfg.Address); err != nil {
			p.stopCPUProfile()
			return nil, err
		}
	}

	return p, nil
}

// Stop writes the profiles and shuts down the pprof server, if any.
func (p *Profiler) Stop(ctx context.Context) error {
	errs := p.stopCPUProfile()
	errs = errors.Join(errs, p.writeMemProfile())
	if p.server != nil {
		errs = errors.Join(errs, p.server.Shutdown(ctx))
	}
	return errs
}

func (p *Profiler) serve(address string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", address, err)
	}

	p.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go p.server.Serve(listener) //nolint:errcheck
	return nil
}

func (p *Profiler) stopCPUProfile() error {
	runtimepprof.StopCPUProfile()
	return p.cpuFile.Close()
}

func (p *Profiler) writeMemProfile() error {
	memFile, err := os.Create(p.memProfile)
	if err != nil {
		return fmt.Errorf("could not create memory profile file: %w", err)
	}
	defer memFile.Close()

	runtime.GC() // up-to-date statistics
	if err := runtimepprof.Lookup("allocs").WriteTo(memFile, 0); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}

func withDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
