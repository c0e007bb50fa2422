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

package amdsmi

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

// getProcessorInfo reads the type of a processor and, for AMD GPUs and
// CPUs, the fields specific to that type.
func getProcessorInfo(lib smi.Interface, handle smi.ProcessorHandle) (types.Processor, error) {
	tag, ret := lib.GetProcessorType(handle)
	if err := FromStatus(ret); err != nil {
		return types.Processor{}, fmt.Errorf("error getting processor type: %w", err)
	}

	pt, err := types.NewProcessorType(tag)
	if err != nil {
		return types.Processor{}, fmt.Errorf("%w: %v", ErrUnexpectedData, err)
	}

	processor := types.Processor{Type: pt}
	switch pt {
	case types.ProcessorTypeAmdGpu:
		gpu, err := getGPUInfo(lib, handle)
		if err != nil {
			return types.Processor{}, fmt.Errorf("error getting GPU info: %w", err)
		}
		processor.GPU = gpu
	case types.ProcessorTypeAmdCpu:
		cpu, err := getCPUInfo(lib, handle)
		if err != nil {
			return types.Processor{}, fmt.Errorf("error getting CPU info: %w", err)
		}
		processor.CPU = cpu
	}
	return processor, nil
}

func getGPUInfo(lib smi.Interface, handle smi.ProcessorHandle) (*types.GPUInfo, error) {
	var err error
	gpu := &types.GPUInfo{}

	bdf, ret := lib.GetGpuDeviceBdf(handle)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting BDF: %w", err)
	}
	gpu.BDF = types.NewBDF(bdf)

	buf := make([]byte, smi.GPU_UUID_SIZE)
	_, ret = lib.GetGpuDeviceUuid(handle, buf)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting UUID: %w", err)
	}
	if gpu.UUID, err = CleanString(buf); err != nil {
		return nil, fmt.Errorf("error reading UUID: %w", err)
	}
	if _, err := uuid.Parse(gpu.UUID); err != nil {
		log.Debugf("GPU %v reports a non RFC 4122 UUID '%v': %v", gpu.BDF, gpu.UUID, err)
	}

	gpu.ID, ret = lib.GetGpuId(handle)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting device ID: %w", err)
	}

	gpu.Revision, ret = lib.GetGpuRevision(handle)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting revision: %w", err)
	}

	buf = make([]byte, smi.MAX_STRING_LENGTH)
	if err := FromStatus(lib.GetGpuVendorName(handle, buf)); err != nil {
		return nil, fmt.Errorf("error getting vendor name: %w", err)
	}
	if gpu.VendorName, err = CleanString(buf); err != nil {
		return nil, fmt.Errorf("error reading vendor name: %w", err)
	}

	gpu.SubsystemID, ret = lib.GetGpuSubsystemId(handle)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting subsystem ID: %w", err)
	}

	buf = make([]byte, smi.MAX_STRING_LENGTH)
	if err := FromStatus(lib.GetGpuSubsystemName(handle, buf)); err != nil {
		return nil, fmt.Errorf("error getting subsystem name: %w", err)
	}
	if gpu.SubsystemName, err = CleanString(buf); err != nil {
		return nil, fmt.Errorf("error reading subsystem name: %w", err)
	}

	info, ret := lib.GetGpuEnumerationInfo(handle)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting enumeration info: %w", err)
	}
	hipUUID, err := CleanString(info.HipUUID[:])
	if err != nil {
		return nil, fmt.Errorf("error reading HIP UUID: %w", err)
	}
	gpu.Enumeration = types.EnumerationInfo{
		DrmRender: info.DrmRender,
		DrmCard:   info.DrmCard,
		HsaID:     info.HsaID,
		HipID:     info.HipID,
		HipUUID:   hipUUID,
	}

	mode, ret := lib.GetGpuVirtualizationMode(handle)
	if err := FromStatus(ret); err != nil {
		return nil, fmt.Errorf("error getting virtualization mode: %w", err)
	}
	if gpu.VirtualizationMode, err = types.NewVirtualizationMode(mode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedData, err)
	}

	return gpu, nil
}

func getCPUInfo(lib smi.Interface, handle smi.ProcessorHandle) (*types.CPUInfo, error) {
	buf := make([]byte, smi.MAX_STRING_LENGTH)
	if err := FromStatus(lib.GetProcessorInfo(handle, buf)); err != nil {
		return nil, fmt.Errorf("error getting processor info: %w", err)
	}
	name, err := CleanString(buf)
	if err != nil {
		return nil, fmt.Errorf("error reading processor name: %w", err)
	}
	return &types.CPUInfo{Name: name}, nil
}
