// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// detectTimeout bounds each probe command.
const detectTimeout = 10 * time.Second

// Kind is the accelerator family.
type Kind int

const (
	// KindCPU means no supported GPU was found.
	KindCPU Kind = iota
	KindNvidia
	KindAMD
	KindAppleSilicon
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNvidia:
		return "NVIDIA"
	case KindAMD:
		return "AMD"
	case KindAppleSilicon:
		return "Apple Silicon"
	case KindCPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// Accelerator describes the detected hardware.
type Accelerator struct {
	Kind Kind
	// Name, e.g. "NVIDIA GeForce RTX 4090"
	Name string
	// MemoryMB is dedicated (or unified, on Apple Silicon) memory; 0 if unknown
	MemoryMB int
	Driver   string
}

// IsGPU reports whether a GPU was found.
func (a *Accelerator) IsGPU() bool {
	return a.Kind != KindCPU
}

// String returns a one-line description.
func (a *Accelerator) String() string {
	s := a.Name
	if a.MemoryMB > 0 {
		s += fmt.Sprintf(" (%d MB)", a.MemoryMB)
	}
	if a.Driver != "" {
		s += " [Driver: " + a.Driver + "]"
	}
	return s
}

// commandFunc runs a probe command and returns its stdout.
type commandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Detector probes for accelerators.
type Detector struct {
	run  commandFunc
	goos string
	arch string
}

// New returns a Detector for the running platform.
func New() *Detector {
	return &Detector{run: runCommand, goos: runtime.GOOS, arch: runtime.GOARCH}
}

// Detect returns the first accelerator found, checking NVIDIA, then AMD,
// then Apple Silicon. It never fails: without a GPU it reports the CPU.
func (d *Detector) Detect(ctx context.Context) *Accelerator {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, detectTimeout)
		defer cancel()
	}

	if out, err := d.run(ctx, "nvidia-smi",
		"--query-gpu=name,memory.total,driver_version",
		"--format=csv,noheader,nounits"); err == nil {
		if acc := parseNvidiaSMI(string(out)); acc != nil {
			return acc
		}
	}

	if d.goos == "linux" {
		if out, err := d.run(ctx, "rocm-smi", "--showproductname"); err == nil {
			if acc := parseROCmSMI(string(out)); acc != nil {
				return acc
			}
		}
	}

	if d.goos == "darwin" && d.arch == "arm64" {
		acc := &Accelerator{Kind: KindAppleSilicon, Name: "Apple Silicon"}
		if out, err := d.run(ctx, "sysctl", "-n", "machdep.cpu.brand_string"); err == nil {
			if brand := strings.TrimSpace(string(out)); brand != "" {
				acc.Name = brand
			}
		}
		if out, err := d.run(ctx, "sysctl", "-n", "hw.memsize"); err == nil {
			if b, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64); err == nil {
				acc.MemoryMB = int(b / (1 << 20))
			}
		}
		return acc
	}

	return &Accelerator{Kind: KindCPU, Name: "CPU (" + d.goos + "/" + d.arch + ")"}
}

// parseNvidiaSMI reads the first line of
// "nvidia-smi --query-gpu=name,memory.total,driver_version --format=csv,noheader,nounits".
func parseNvidiaSMI(out string) *Accelerator {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return nil
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil
	}
	if !strings.HasPrefix(name, "NVIDIA") {
		name = "NVIDIA " + name
	}
	mem, _ := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	return &Accelerator{
		Kind:     KindNvidia,
		Name:     name,
		MemoryMB: int(mem),
		Driver:   strings.TrimSpace(parts[2]),
	}
}

// parseROCmSMI picks the card series out of "rocm-smi --showproductname".
func parseROCmSMI(out string) *Accelerator {
	for _, line := range strings.Split(out, "\n") {
		_, after, ok := strings.Cut(line, "Card series:")
		if !ok {
			_, after, ok = strings.Cut(line, "Card Series:")
		}
		if !ok {
			continue
		}
		if name := strings.TrimSpace(after); name != "" {
			return &Accelerator{Kind: KindAMD, Name: "AMD " + name}
		}
	}
	return nil
}
