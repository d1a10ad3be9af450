// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gpu probes for CUDA hardware via nvidia-smi and derives the
// device environment handed to the conversion binary.
package gpu

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const binNvidiaSMI = "nvidia-smi"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

var defaultExec executor = &osExecutor{}

// MemInfo reports GPU memory in MiB as queried from nvidia-smi.
type MemInfo struct {
	TotalMiB int
	UsedMiB  int
}

// Manager answers device questions for the pipeline. It shells out to
// nvidia-smi; hosts without it are plain CPU hosts.
type Manager struct {
	exec executor
	log  zerolog.Logger
}

// Detect returns a Manager for the current host.
func Detect(log zerolog.Logger) *Manager {
	return &Manager{exec: defaultExec, log: log}
}

// Available reports whether nvidia-smi is on PATH and responds.
func (m *Manager) Available() bool {
	if _, err := m.exec.LookPath(binNvidiaSMI); err != nil {
		return false
	}
	if _, err := m.exec.Output(binNvidiaSMI, "-L"); err != nil {
		m.log.Debug().Err(err).Msg("nvidia-smi present but not responding")
		return false
	}
	return true
}

// Device returns "cuda" when a responsive GPU is present, "cpu" otherwise.
func (m *Manager) Device() string {
	if m.Available() {
		return "cuda"
	}
	return "cpu"
}

// Env returns the environment entries the conversion binary needs to pick
// the right device.
func (m *Manager) Env() []string {
	return []string{"TORCH_DEVICE=" + m.Device()}
}

// MemoryInfo queries total and used GPU memory for the first device.
func (m *Manager) MemoryInfo() (MemInfo, error) {
	out, err := m.exec.Output(binNvidiaSMI,
		"--query-gpu=memory.total,memory.used",
		"--format=csv,noheader,nounits")
	if err != nil {
		return MemInfo{}, fmt.Errorf("querying GPU memory: %w", err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return MemInfo{}, fmt.Errorf("unexpected nvidia-smi output: %q", line)
	}

	total, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return MemInfo{}, fmt.Errorf("parsing total memory: %w", err)
	}
	used, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return MemInfo{}, fmt.Errorf("parsing used memory: %w", err)
	}
	return MemInfo{TotalMiB: total, UsedMiB: used}, nil
}
