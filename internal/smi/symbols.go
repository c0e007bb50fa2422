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

// libVersion mirrors amdsmi_version_t, build is a const char*.
type libVersion struct {
	Major   uint32
	Minor   uint32
	Release uint32
	Build   uintptr
}

// library holds the entry points resolved from the shared library. Each
// field is bound to the symbol of the same name in symbolTable.
type library struct {
	path   string
	handle uintptr

	amdsmiInit                     func(flags uint64) Return
	amdsmiShutDown                 func() Return
	amdsmiGetLibVersion            func(version *libVersion) Return
	amdsmiGetSocketHandles         func(count *uint32, handles *SocketHandle) Return
	amdsmiGetSocketInfo            func(socket SocketHandle, length uintptr, name *byte) Return
	amdsmiGetProcessorHandles      func(socket SocketHandle, count *uint32, handles *ProcessorHandle) Return
	amdsmiGetProcessorType         func(processor ProcessorHandle, tag *uint32) Return
	amdsmiGetProcessorInfo         func(processor ProcessorHandle, length uintptr, name *byte) Return
	amdsmiGetGpuDeviceBdf          func(processor ProcessorHandle, bdf *uint64) Return
	amdsmiGetGpuDeviceUuid         func(processor ProcessorHandle, length *uint32, uuid *byte) Return
	amdsmiGetGpuId                 func(processor ProcessorHandle, id *uint16) Return
	amdsmiGetGpuRevision           func(processor ProcessorHandle, revision *uint16) Return
	amdsmiGetGpuVendorName         func(processor ProcessorHandle, name *byte, length uintptr) Return
	amdsmiGetGpuSubsystemId        func(processor ProcessorHandle, id *uint16) Return
	amdsmiGetGpuSubsystemName      func(processor ProcessorHandle, name *byte, length uintptr) Return
	amdsmiGetGpuEnumerationInfo    func(processor ProcessorHandle, info *EnumerationInfo) Return
	amdsmiGetGpuVirtualizationMode func(processor ProcessorHandle, mode *uint32) Return
}

// symbolTable pairs every entry point with the symbol it is resolved from.
func (l *library) symbolTable() map[string]any {
	return map[string]any{
		"amdsmi_init":                        &l.amdsmiInit,
		"amdsmi_shut_down":                   &l.amdsmiShutDown,
		"amdsmi_get_lib_version":             &l.amdsmiGetLibVersion,
		"amdsmi_get_socket_handles":          &l.amdsmiGetSocketHandles,
		"amdsmi_get_socket_info":             &l.amdsmiGetSocketInfo,
		"amdsmi_get_processor_handles":       &l.amdsmiGetProcessorHandles,
		"amdsmi_get_processor_type":          &l.amdsmiGetProcessorType,
		"amdsmi_get_processor_info":          &l.amdsmiGetProcessorInfo,
		"amdsmi_get_gpu_device_bdf":          &l.amdsmiGetGpuDeviceBdf,
		"amdsmi_get_gpu_device_uuid":         &l.amdsmiGetGpuDeviceUuid,
		"amdsmi_get_gpu_id":                  &l.amdsmiGetGpuId,
		"amdsmi_get_gpu_revision":            &l.amdsmiGetGpuRevision,
		"amdsmi_get_gpu_vendor_name":         &l.amdsmiGetGpuVendorName,
		"amdsmi_get_gpu_subsystem_id":        &l.amdsmiGetGpuSubsystemId,
		"amdsmi_get_gpu_subsystem_name":      &l.amdsmiGetGpuSubsystemName,
		"amdsmi_get_gpu_enumeration_info":    &l.amdsmiGetGpuEnumerationInfo,
		"amdsmi_get_gpu_virtualization_mode": &l.amdsmiGetGpuVirtualizationMode,
	}
}

func (l *library) loaded() bool {
	return l.handle != 0
}
