// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommands answers probe commands from a table keyed by "name args...".
func fakeCommands(outputs map[string]string) commandFunc {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		if out, ok := outputs[key]; ok {
			return []byte(out), nil
		}
		return nil, errors.New("executable file not found in $PATH")
	}
}

const nvidiaKey = "nvidia-smi --query-gpu=name,memory.total,driver_version --format=csv,noheader,nounits"

func TestKind_String(t *testing.T) {
	assert.Equal(t, "CPU", KindCPU.String())
	assert.Equal(t, "NVIDIA", KindNvidia.String())
	assert.Equal(t, "AMD", KindAMD.String())
	assert.Equal(t, "Apple Silicon", KindAppleSilicon.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestAccelerator_String(t *testing.T) {
	acc := &Accelerator{Kind: KindNvidia, Name: "NVIDIA GeForce RTX 4090", MemoryMB: 24564, Driver: "550.54.14"}
	assert.Equal(t, "NVIDIA GeForce RTX 4090 (24564 MB) [Driver: 550.54.14]", acc.String())
	assert.Equal(t, "AMD Radeon RX 7900 XTX", (&Accelerator{Name: "AMD Radeon RX 7900 XTX"}).String())
}

func TestDetect_Nvidia(t *testing.T) {
	d := &Detector{
		run: fakeCommands(map[string]string{
			nvidiaKey: "NVIDIA GeForce RTX 4090, 24564, 550.54.14\nNVIDIA GeForce RTX 3090, 24576, 550.54.14\n",
		}),
		goos: "linux", arch: "amd64",
	}

	acc := d.Detect(context.Background())
	require.True(t, acc.IsGPU())
	assert.Equal(t, KindNvidia, acc.Kind)
	assert.Equal(t, "NVIDIA GeForce RTX 4090", acc.Name)
	assert.Equal(t, 24564, acc.MemoryMB)
	assert.Equal(t, "550.54.14", acc.Driver)
}

func TestDetect_AMD(t *testing.T) {
	d := &Detector{
		run: fakeCommands(map[string]string{
			"rocm-smi --showproductname": "========= Product Info =========\nGPU[0]\t\t: Card series: \t\tRadeon RX 7900 XTX\nGPU[0]\t\t: Card vendor: \t\tAdvanced Micro Devices, Inc.\n",
		}),
		goos: "linux", arch: "amd64",
	}

	acc := d.Detect(context.Background())
	assert.Equal(t, KindAMD, acc.Kind)
	assert.Equal(t, "AMD Radeon RX 7900 XTX", acc.Name)
}

func TestDetect_AppleSilicon(t *testing.T) {
	d := &Detector{
		run: fakeCommands(map[string]string{
			"sysctl -n machdep.cpu.brand_string": "Apple M2 Max\n",
			"sysctl -n hw.memsize":               "34359738368\n",
		}),
		goos: "darwin", arch: "arm64",
	}

	acc := d.Detect(context.Background())
	assert.Equal(t, KindAppleSilicon, acc.Kind)
	assert.Equal(t, "Apple M2 Max", acc.Name)
	assert.Equal(t, 32768, acc.MemoryMB)
}

func TestDetect_CPUFallback(t *testing.T) {
	d := &Detector{run: fakeCommands(nil), goos: "linux", arch: "amd64"}

	acc := d.Detect(context.Background())
	assert.False(t, acc.IsGPU())
	assert.Equal(t, "CPU (linux/amd64)", acc.Name)
}

func TestParseNvidiaSMI_Malformed(t *testing.T) {
	assert.Nil(t, parseNvidiaSMI(""))
	assert.Nil(t, parseNvidiaSMI("No devices were found"))
	assert.Nil(t, parseNvidiaSMI(" , 100, 1.0"))
}

func TestParseNvidiaSMI_AddsVendor(t *testing.T) {
	acc := parseNvidiaSMI("Tesla T4, 15360, 535.104.05")
	require.NotNil(t, acc)
	assert.Equal(t, "NVIDIA Tesla T4", acc.Name)
	assert.Equal(t, 15360, acc.MemoryMB)
}
