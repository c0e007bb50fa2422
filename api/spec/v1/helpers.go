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

package v1

import (
	"fmt"
	"sort"

	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

// ProductNamer returns a human readable product name for a device id, or
// an empty string when none is known.
type ProductNamer func(deviceID types.DeviceID) string

// NewTopology wraps discovered sockets in a versioned 'Topology'.
func NewTopology(libraryVersion, processors string, sockets []types.Socket) Topology {
	if sockets == nil {
		sockets = []types.Socket{}
	}
	return Topology{
		Version:        Version,
		LibraryVersion: libraryVersion,
		Processors:     processors,
		Sockets:        sockets,
	}
}

// NewTopologyConfigSpecSlice describes the given GPUs as one entry per
// device id and virtualization mode, ordered by device id.
func NewTopologyConfigSpecSlice(gpus []*types.GPUInfo, namer ProductNamer) TopologyConfigSpecSlice {
	type key struct {
		deviceID types.DeviceID
		mode     types.VirtualizationMode
	}

	counts := make(map[key]int)
	var keys []key
	for _, gpu := range gpus {
		k := key{gpu.DeviceID(), gpu.VirtualizationMode}
		if _, exists := counts[k]; !exists {
			keys = append(keys, k)
		}
		counts[k]++
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].deviceID != keys[j].deviceID {
			return keys[i].deviceID < keys[j].deviceID
		}
		return keys[i].mode < keys[j].mode
	})

	specs := TopologyConfigSpecSlice{}
	for _, k := range keys {
		mode := k.mode
		spec := TopologyConfigSpec{
			DeviceFilter:       []string{k.deviceID.String()},
			Count:              counts[k],
			VirtualizationMode: &mode,
		}
		if namer != nil {
			spec.Product = namer(k.deviceID)
		}
		specs = append(specs, spec)
	}
	return specs
}

// MatchesDeviceFilter checks if a GPU with the given device id and product
// name is selected by the device filter. An empty filter selects every GPU.
func (ts *TopologyConfigSpec) MatchesDeviceFilter(deviceID types.DeviceID, product string) bool {
	if len(ts.DeviceFilter) == 0 {
		return true
	}
	for _, df := range ts.DeviceFilter {
		if product != "" && df == product {
			return true
		}
		newDeviceID, err := types.NewDeviceIDFromString(df)
		if err == nil && newDeviceID == deviceID {
			return true
		}
	}
	return false
}

// AssertGPUs checks that exactly 'Count' of the given GPUs match the device
// filter and that all of them are in the expected virtualization mode.
func (ts *TopologyConfigSpec) AssertGPUs(gpus []*types.GPUInfo, namer ProductNamer) error {
	matched := 0
	for _, gpu := range gpus {
		var product string
		if namer != nil {
			product = namer(gpu.DeviceID())
		}
		if !ts.MatchesDeviceFilter(gpu.DeviceID(), product) {
			continue
		}
		matched++
		if ts.VirtualizationMode != nil && gpu.VirtualizationMode != *ts.VirtualizationMode {
			return fmt.Errorf("GPU %v is in virtualization mode '%v', expected '%v'", gpu.BDF, gpu.VirtualizationMode, *ts.VirtualizationMode)
		}
	}
	if matched != ts.Count {
		return fmt.Errorf("found %v GPUs matching device filter %v, expected %v", matched, ts.DeviceFilter, ts.Count)
	}
	return nil
}

// AssertGPUs checks every entry of the slice against the given GPUs.
func (specs TopologyConfigSpecSlice) AssertGPUs(gpus []*types.GPUInfo, namer ProductNamer) error {
	for i := range specs {
		if err := specs[i].AssertGPUs(gpus, namer); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
