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

package assert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ROCm/amd-smi-discovery/cmd/amd-smi-discovery/util"
	"github.com/ROCm/amd-smi-discovery/internal/smi"
)

const testConfig = `
version: v1
topology-configs:
  mi300x-8:
  - device-filter: "0x74A11002"
    count: 8
    virtualization-mode: baremetal
  mi300x-by-name:
  - device-filter: ["Aqua Vanjaram [Instinct MI300X]"]
    count: 8
  mi300x-4:
  - device-filter: "0x74A11002"
    count: 4
  mi300x-guest:
  - count: 8
    virtualization-mode: guest
  no-mi325x:
  - device-filter: "0x74A51002"
    count: 0
`

const testPCIIDs = `1002  Advanced Micro Devices, Inc. [AMD/ATI]
	74a1  Aqua Vanjaram [Instinct MI300X]
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAssertTopologyConfig(t *testing.T) {
	configFile := writeFile(t, "config.yaml", testConfig)
	pciIDs := writeFile(t, "pci.ids", testPCIIDs)

	testCases := []struct {
		description    string
		selectedConfig string
		matches        bool
	}{
		{
			"Device ID, count and mode",
			"mi300x-8",
			true,
		},
		{
			"Product name",
			"mi300x-by-name",
			true,
		},
		{
			"Wrong count",
			"mi300x-4",
			false,
		},
		{
			"Wrong virtualization mode",
			"mi300x-guest",
			false,
		},
		{
			"Absent device",
			"no-mi325x",
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			f := &Flags{
				SelectionFlags: util.SelectionFlags{Processors: "gpu"},
				ConfigFile:     configFile,
				SelectedConfig: tc.selectedConfig,
				PCIIDsPath:     pciIDs,
			}

			spec, err := ParseConfigFile(f)
			require.NoError(t, err)

			topologyConfig, err := GetSelectedTopologyConfig(f, spec)
			require.NoError(t, err)

			c := &Context{
				Flags:          f,
				TopologyConfig: topologyConfig,
				Library:        smi.NewMockMI300XServer(),
			}

			err = AssertTopologyConfig(c)
			if !tc.matches {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGetSelectedTopologyConfig(t *testing.T) {
	configFile := writeFile(t, "config.yaml", testConfig)

	f := &Flags{ConfigFile: configFile}
	spec, err := ParseConfigFile(f)
	require.NoError(t, err)

	_, err = GetSelectedTopologyConfig(f, spec)
	require.Error(t, err, "selected-config is required with more than one config")

	f.SelectedConfig = "missing"
	_, err = GetSelectedTopologyConfig(f, spec)
	require.Error(t, err)

	single := writeFile(t, "single.yaml", "version: v1\ntopology-configs:\n  only:\n  - count: 1\n")
	f = &Flags{ConfigFile: single}
	spec, err = ParseConfigFile(f)
	require.NoError(t, err)

	config, err := GetSelectedTopologyConfig(f, spec)
	require.NoError(t, err)
	require.Equal(t, "only", f.SelectedConfig)
	require.Len(t, config, 1)
}

func TestParseConfigFileInvalid(t *testing.T) {
	configFile := writeFile(t, "config.yaml", "version: v2\n")
	_, err := ParseConfigFile(&Flags{ConfigFile: configFile})
	require.Error(t, err)

	_, err = ParseConfigFile(&Flags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)

	require.Error(t, CheckFlags(&Flags{}))
}
