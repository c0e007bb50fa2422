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

package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/amdsmi"
)

func TestDiscover(t *testing.T) {
	testCases := []struct {
		description string
		processors  string
		sockets     int
		valid       bool
	}{
		{
			"GPUs",
			"gpu",
			8,
			true,
		},
		{
			"CPUs and GPUs",
			"cpu,gpu",
			10,
			true,
		},
		{
			"Unknown family",
			"tpu",
			0,
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			f := &SelectionFlags{Processors: tc.processors}
			server := smi.NewMockMI300XServer()

			d, err := Discover(f, server)
			if !tc.valid {
				require.Error(t, err)
				require.Zero(t, server.InitCalls)
				return
			}
			require.NoError(t, err)
			require.Len(t, d.Sockets, tc.sockets)
			require.Equal(t, "25.1.0", d.LibraryVersion.String())
			require.Equal(t, smi.STATUS_NOT_INIT, server.ShutDown())
		})
	}
}

func TestDiscoverFailureShutsDown(t *testing.T) {
	server := smi.NewMockMI300XServer()
	server.Sockets[2].Processors[0].Returns = map[string]smi.Return{
		"GetGpuDeviceBdf": smi.STATUS_DRM_ERROR,
	}

	_, err := Discover(&SelectionFlags{Processors: "gpu"}, server)
	require.ErrorIs(t, err, amdsmi.ErrDRMError)
	require.Equal(t, smi.STATUS_NOT_INIT, server.ShutDown())
}

func TestWriteOutput(t *testing.T) {
	v := map[string]int{"count": 8}

	var y bytes.Buffer
	require.NoError(t, WriteOutput(&y, v, YAMLFormat))
	require.Equal(t, "count: 8\n", y.String())

	var j bytes.Buffer
	require.NoError(t, WriteOutput(&j, v, JSONFormat))
	require.Equal(t, "{\n  \"count\": 8\n}\n", j.String())

	require.Error(t, WriteOutput(&j, v, "toml"))
	require.Error(t, CheckOutputFormat("toml"))
}

func TestHasModule(t *testing.T) {
	modules := "amdgpu 15495168 0 - Live 0x0000000000000000\namdxcp 12288 1 amdgpu, Live 0x0000000000000000\n"
	require.True(t, hasModule(modules, "amdgpu"))
	require.True(t, hasModule(modules, "amdxcp"))
	require.False(t, hasModule(modules, "nvidia"))
	require.False(t, hasModule("", "amdgpu"))
}

func TestCapitalize(t *testing.T) {
	require.Equal(t, "Error parsing", Capitalize("error parsing"))
	require.Equal(t, "", Capitalize(""))
}
