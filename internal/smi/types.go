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

package smi

// Buffer sizes defined in amdsmi.h.
const (
	GPU_UUID_SIZE     = 38
	MAX_STRING_LENGTH = 256
)

// Values of amdsmi_init_flags_t.
const (
	INIT_ALL_PROCESSORS = 0xFFFFFFFF
	INIT_AMD_CPUS       = 1 << 0
	INIT_AMD_GPUS       = 1 << 1
	INIT_NON_AMD_CPUS   = 1 << 2
	INIT_NON_AMD_GPUS   = 1 << 3
	INIT_AMD_APUS       = INIT_AMD_CPUS | INIT_AMD_GPUS
)

// Values of processor_type_t.
const (
	PROCESSOR_TYPE_UNKNOWN      = 0
	PROCESSOR_TYPE_AMD_GPU      = 1
	PROCESSOR_TYPE_AMD_CPU      = 2
	PROCESSOR_TYPE_NON_AMD_GPU  = 3
	PROCESSOR_TYPE_NON_AMD_CPU  = 4
	PROCESSOR_TYPE_AMD_CPU_CORE = 5
	PROCESSOR_TYPE_AMD_APU      = 6
)

// Values of amdsmi_virtualization_mode_t.
const (
	VIRTUALIZATION_MODE_UNKNOWN     = 0
	VIRTUALIZATION_MODE_BAREMETAL   = 1
	VIRTUALIZATION_MODE_HOST        = 2
	VIRTUALIZATION_MODE_GUEST       = 3
	VIRTUALIZATION_MODE_PASSTHROUGH = 4
)

// SocketHandle is an opaque amdsmi_socket_handle. The zero value is the
// empty handle.
type SocketHandle uintptr

// ProcessorHandle is an opaque amdsmi_processor_handle. The zero value is
// the empty handle.
type ProcessorHandle uintptr

// Version mirrors amdsmi_version_t without the build string.
type Version struct {
	Major   uint32
	Minor   uint32
	Release uint32
}

// EnumerationInfo mirrors amdsmi_enumeration_info_t.
type EnumerationInfo struct {
	DrmRender uint32
	DrmCard   uint32
	HsaID     uint32
	HipID     uint32
	HipUUID   [MAX_STRING_LENGTH]byte
	_         [16]uint32
}

// Interface is the subset of the AMD SMI library used for discovery.
//
// Enumeration calls follow the library's count-then-fill protocol: a call
// with an empty handle slice stores the number of available handles in
// count; a call with a non-empty slice fills at most len(handles) entries
// and stores the number of available handles in count.
type Interface interface {
	Init(flags uint64) Return
	ShutDown() Return
	GetLibVersion() (Version, Return)

	GetSocketHandles(count *uint32, handles []SocketHandle) Return
	GetSocketInfo(socket SocketHandle, name []byte) Return
	GetProcessorHandles(socket SocketHandle, count *uint32, handles []ProcessorHandle) Return

	GetProcessorType(processor ProcessorHandle) (uint32, Return)
	GetProcessorInfo(processor ProcessorHandle, name []byte) Return

	GetGpuDeviceBdf(processor ProcessorHandle) (uint64, Return)
	GetGpuDeviceUuid(processor ProcessorHandle, uuid []byte) (uint32, Return)
	GetGpuId(processor ProcessorHandle) (uint16, Return)
	GetGpuRevision(processor ProcessorHandle) (uint16, Return)
	GetGpuVendorName(processor ProcessorHandle, name []byte) Return
	GetGpuSubsystemId(processor ProcessorHandle) (uint16, Return)
	GetGpuSubsystemName(processor ProcessorHandle, name []byte) Return
	GetGpuEnumerationInfo(processor ProcessorHandle) (EnumerationInfo, Return)
	GetGpuVirtualizationMode(processor ProcessorHandle) (uint32, Return)
}
