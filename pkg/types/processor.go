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

package types

import (
	"fmt"
)

// AMDVendorID is the PCI vendor id of AMD GPUs.
const AMDVendorID uint16 = 0x1002

// ProcessorType is the kind of a processor reported under a socket.
type ProcessorType uint32

// Processor types as numbered by the AMD SMI library.
const (
	ProcessorTypeUnknown ProcessorType = iota
	ProcessorTypeAmdGpu
	ProcessorTypeAmdCpu
	ProcessorTypeNonAmdGpu
	ProcessorTypeNonAmdCpu
	ProcessorTypeAmdCpuCore
	ProcessorTypeAmdApu
)

var processorTypeNames = []string{
	"unknown",
	"amd-gpu",
	"amd-cpu",
	"non-amd-gpu",
	"non-amd-cpu",
	"amd-cpu-core",
	"amd-apu",
}

// NewProcessorType converts a raw processor type tag. Tags outside the known
// set are rejected.
func NewProcessorType(tag uint32) (ProcessorType, error) {
	if tag >= uint32(len(processorTypeNames)) {
		return 0, fmt.Errorf("unknown processor type: %v", tag)
	}
	return ProcessorType(tag), nil
}

func (t ProcessorType) String() string {
	if int(t) < len(processorTypeNames) {
		return processorTypeNames[t]
	}
	return fmt.Sprintf("ProcessorType(%d)", uint32(t))
}

// MarshalText renders the type by name in JSON and YAML output.
func (t ProcessorType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a type by name.
func (t *ProcessorType) UnmarshalText(text []byte) error {
	for i, name := range processorTypeNames {
		if string(text) == name {
			*t = ProcessorType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown processor type: '%s'", text)
}

// EnumerationInfo holds the ids under which other runtimes enumerate a GPU.
type EnumerationInfo struct {
	DrmRender uint32 `json:"drm-render" yaml:"drm-render"`
	DrmCard   uint32 `json:"drm-card"   yaml:"drm-card"`
	HsaID     uint32 `json:"hsa-id"     yaml:"hsa-id"`
	HipID     uint32 `json:"hip-id"     yaml:"hip-id"`
	HipUUID   string `json:"hip-uuid"   yaml:"hip-uuid"`
}

// GPUInfo describes an AMD GPU.
type GPUInfo struct {
	BDF                BDF                `json:"bdf"                 yaml:"bdf"`
	UUID               string             `json:"uuid"                yaml:"uuid"`
	ID                 uint16             `json:"id"                  yaml:"id"`
	Revision           uint16             `json:"revision"            yaml:"revision"`
	VendorName         string             `json:"vendor-name"         yaml:"vendor-name"`
	SubsystemID        uint16             `json:"subsystem-id"        yaml:"subsystem-id"`
	SubsystemName      string             `json:"subsystem-name"      yaml:"subsystem-name"`
	Enumeration        EnumerationInfo    `json:"enumeration"         yaml:"enumeration"`
	VirtualizationMode VirtualizationMode `json:"virtualization-mode" yaml:"virtualization-mode"`
}

// DeviceID returns the PCI device id of the GPU combined with the AMD vendor id.
func (g *GPUInfo) DeviceID() DeviceID {
	return NewDeviceID(g.ID, AMDVendorID)
}

// CPUInfo describes an AMD CPU.
type CPUInfo struct {
	Name string `json:"name" yaml:"name"`
}

// Processor is a processor found under a socket. GPU is only set for
// ProcessorTypeAmdGpu and CPU is only set for ProcessorTypeAmdCpu.
type Processor struct {
	Type ProcessorType `json:"type"          yaml:"type"`
	GPU  *GPUInfo      `json:"gpu,omitempty" yaml:"gpu,omitempty"`
	CPU  *CPUInfo      `json:"cpu,omitempty" yaml:"cpu,omitempty"`
}

// Socket is a physical socket and the processors found under it.
type Socket struct {
	Name       string      `json:"name"       yaml:"name"`
	Processors []Processor `json:"processors" yaml:"processors"`
}

// GPUs returns the GPUs found under the given sockets in discovery order.
func GPUs(sockets []Socket) []*GPUInfo {
	var gpus []*GPUInfo
	for _, s := range sockets {
		for _, p := range s.Processors {
			if p.GPU != nil {
				gpus = append(gpus, p.GPU)
			}
		}
	}
	return gpus
}

// CPUs returns the CPUs found under the given sockets in discovery order.
func CPUs(sockets []Socket) []*CPUInfo {
	var cpus []*CPUInfo
	for _, s := range sockets {
		for _, p := range s.Processors {
			if p.CPU != nil {
				cpus = append(cpus, p.CPU)
			}
		}
	}
	return cpus
}
