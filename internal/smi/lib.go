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

import (
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultLibraryPath is resolved through the dynamic loader search path.
	DefaultLibraryPath = "libamd_smi.so"
)

// An Option represents a functional option passed to New.
type Option func(*library)

// WithLibraryPath sets the path of the AMD SMI shared library to load.
func WithLibraryPath(path string) Option {
	return func(l *library) {
		l.path = path
	}
}

// New returns an Interface backed by the AMD SMI shared library. The
// library itself is only loaded by Init.
func New(opts ...Option) Interface {
	l := &library{
		path: DefaultLibraryPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.path == "" {
		l.path = DefaultLibraryPath
	}
	return l
}

func (l *library) Init(flags uint64) Return {
	if !l.loaded() {
		if ret := l.load(); ret != STATUS_SUCCESS {
			return ret
		}
	}
	return l.amdsmiInit(flags)
}

func (l *library) ShutDown() Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	ret := l.amdsmiShutDown()
	if ret != STATUS_SUCCESS {
		return ret
	}
	if err := l.unload(); err != nil {
		log.Warnf("error closing %v: %v", l.path, err)
	}
	return STATUS_SUCCESS
}

func (l *library) GetLibVersion() (Version, Return) {
	if !l.loaded() {
		return Version{}, STATUS_NOT_INIT
	}
	var v libVersion
	ret := l.amdsmiGetLibVersion(&v)
	return Version{Major: v.Major, Minor: v.Minor, Release: v.Release}, ret
}

func (l *library) GetSocketHandles(count *uint32, handles []SocketHandle) Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	var first *SocketHandle
	if len(handles) > 0 {
		first = &handles[0]
	}
	return l.amdsmiGetSocketHandles(count, first)
}

func (l *library) GetSocketInfo(socket SocketHandle, name []byte) Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	return l.amdsmiGetSocketInfo(socket, uintptr(len(name)), bytePtr(name))
}

func (l *library) GetProcessorHandles(socket SocketHandle, count *uint32, handles []ProcessorHandle) Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	var first *ProcessorHandle
	if len(handles) > 0 {
		first = &handles[0]
	}
	return l.amdsmiGetProcessorHandles(socket, count, first)
}

func (l *library) GetProcessorType(processor ProcessorHandle) (uint32, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	var tag uint32
	ret := l.amdsmiGetProcessorType(processor, &tag)
	return tag, ret
}

func (l *library) GetProcessorInfo(processor ProcessorHandle, name []byte) Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	return l.amdsmiGetProcessorInfo(processor, uintptr(len(name)), bytePtr(name))
}

func (l *library) GetGpuDeviceBdf(processor ProcessorHandle) (uint64, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	var bdf uint64
	ret := l.amdsmiGetGpuDeviceBdf(processor, &bdf)
	return bdf, ret
}

func (l *library) GetGpuDeviceUuid(processor ProcessorHandle, uuid []byte) (uint32, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	length := uint32(len(uuid))
	ret := l.amdsmiGetGpuDeviceUuid(processor, &length, bytePtr(uuid))
	return length, ret
}

func (l *library) GetGpuId(processor ProcessorHandle) (uint16, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	var id uint16
	ret := l.amdsmiGetGpuId(processor, &id)
	return id, ret
}

func (l *library) GetGpuRevision(processor ProcessorHandle) (uint16, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	var revision uint16
	ret := l.amdsmiGetGpuRevision(processor, &revision)
	return revision, ret
}

func (l *library) GetGpuVendorName(processor ProcessorHandle, name []byte) Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	return l.amdsmiGetGpuVendorName(processor, bytePtr(name), uintptr(len(name)))
}

func (l *library) GetGpuSubsystemId(processor ProcessorHandle) (uint16, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	var id uint16
	ret := l.amdsmiGetGpuSubsystemId(processor, &id)
	return id, ret
}

func (l *library) GetGpuSubsystemName(processor ProcessorHandle, name []byte) Return {
	if !l.loaded() {
		return STATUS_NOT_INIT
	}
	return l.amdsmiGetGpuSubsystemName(processor, bytePtr(name), uintptr(len(name)))
}

func (l *library) GetGpuEnumerationInfo(processor ProcessorHandle) (EnumerationInfo, Return) {
	if !l.loaded() {
		return EnumerationInfo{}, STATUS_NOT_INIT
	}
	var info EnumerationInfo
	ret := l.amdsmiGetGpuEnumerationInfo(processor, &info)
	return info, ret
}

func (l *library) GetGpuVirtualizationMode(processor ProcessorHandle) (uint32, Return) {
	if !l.loaded() {
		return 0, STATUS_NOT_INIT
	}
	var mode uint32
	ret := l.amdsmiGetGpuVirtualizationMode(processor, &mode)
	return mode, ret
}

func bytePtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
