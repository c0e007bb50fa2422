/*
 * Copyright (c) NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package labels

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

func gpuSocket(id uint16, mode types.VirtualizationMode) types.Socket {
	return types.Socket{
		Name: "0000:05:00",
		Processors: []types.Processor{
			{
				Type: types.ProcessorTypeAmdGpu,
				GPU:  &types.GPUInfo{ID: id, VirtualizationMode: mode},
			},
		},
	}
}

func cpuSocket() types.Socket {
	return types.Socket{
		Name: "0",
		Processors: []types.Processor{
			{Type: types.ProcessorTypeAmdCpu, CPU: &types.CPUInfo{Name: "AMD EPYC 9654 96-Core Processor"}},
		},
	}
}

func namer(deviceID types.DeviceID) string {
	switch deviceID.GetDevice() {
	case 0x74a1:
		return "Aqua Vanjaram [Instinct MI300X]"
	case 0x74a5:
		return "Aqua Vanjaram [Instinct MI325X]"
	}
	return ""
}

func TestNew(t *testing.T) {
	testCases := []struct {
		description string
		sockets     []types.Socket
		expected    Labels
	}{
		{
			"No sockets",
			nil,
			Labels{
				"amd.com/gpu.present":  "false",
				"amd.com/gpu.count":    "0",
				"amd.com/cpu.count":    "0",
				"amd.com/socket.count": "0",
			},
		},
		{
			"Uniform GPUs",
			[]types.Socket{
				cpuSocket(),
				gpuSocket(0x74a1, types.VirtualizationModeBareMetal),
				gpuSocket(0x74a1, types.VirtualizationModeBareMetal),
			},
			Labels{
				"amd.com/gpu.present":             "true",
				"amd.com/gpu.count":               "2",
				"amd.com/gpu.device-id":           "74a1",
				"amd.com/gpu.product":             "Aqua-Vanjaram-Instinct-MI300X",
				"amd.com/gpu.virtualization-mode": "baremetal",
				"amd.com/cpu.count":               "1",
				"amd.com/socket.count":            "3",
			},
		},
		{
			"Mixed GPUs",
			[]types.Socket{
				gpuSocket(0x74a1, types.VirtualizationModeBareMetal),
				gpuSocket(0x74a5, types.VirtualizationModeGuest),
			},
			Labels{
				"amd.com/gpu.present":             "true",
				"amd.com/gpu.count":               "2",
				"amd.com/gpu.device-id":           "mixed",
				"amd.com/gpu.product":             "mixed",
				"amd.com/gpu.virtualization-mode": "mixed",
				"amd.com/cpu.count":               "0",
				"amd.com/socket.count":            "2",
			},
		},
		{
			"Unnamed GPU",
			[]types.Socket{
				gpuSocket(0x74a1, types.VirtualizationModeBareMetal),
				gpuSocket(0x1234, types.VirtualizationModeBareMetal),
			},
			Labels{
				"amd.com/gpu.present":             "true",
				"amd.com/gpu.count":               "2",
				"amd.com/gpu.device-id":           "mixed",
				"amd.com/gpu.virtualization-mode": "baremetal",
				"amd.com/cpu.count":               "0",
				"amd.com/socket.count":            "2",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			labels, err := New(DefaultPrefix, tc.sockets, namer)
			require.NoError(t, err)
			require.Equal(t, tc.expected, labels)
		})
	}
}

func TestNewInvalidPrefix(t *testing.T) {
	_, err := New("Not A Prefix", nil, nil)
	require.Error(t, err)
}

func TestSanitizeValue(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"MI300X", "MI300X"},
		{"Aqua Vanjaram [Instinct MI300X]", "Aqua-Vanjaram-Instinct-MI300X"},
		{"[AMD/ATI]", "AMD-ATI"},
		{"Navi 31 [Radeon RX 7900 XT/7900 XTX/7900 GRE/7900M]", "Navi-31-Radeon-RX-7900-XT-7900-XTX-7900-GRE-7900M"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, SanitizeValue(tc.input))
		})
	}

	long := SanitizeValue("Aqua Vanjaram [Instinct MI300X] with a product name that keeps going past the limit")
	require.LessOrEqual(t, len(long), 63)
}

func TestKeys(t *testing.T) {
	labels := Labels{"b": "1", "a": "2"}
	require.Equal(t, []string{"a", "b"}, labels.Keys())
}
