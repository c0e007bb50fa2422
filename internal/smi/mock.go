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
	"fmt"

	"github.com/google/uuid"
)

// MockServer is an in-memory stand-in for the AMD SMI library. Sockets and
// processors are reported according to the flags passed to Init.
type MockServer struct {
	Sockets []*MockSocket
	Version Version

	// ShutDownReturn, when set, is returned by ShutDown instead of success.
	ShutDownReturn Return

	initialized bool
	initFlags   uint64
	InitCalls   int
}

// MockSocket is a socket reported by a MockServer.
type MockSocket struct {
	Name       string
	Processors []*MockProcessor
}

// MockProcessor is a processor reported by a MockServer.
type MockProcessor struct {
	Type               uint32
	Name               string
	BDF                uint64
	UUID               string
	ID                 uint16
	Revision           uint16
	VendorName         string
	SubsystemID        uint16
	SubsystemName      string
	Enumeration        EnumerationInfo
	VirtualizationMode uint32

	// Returns forces the named method to fail with the given status.
	Returns map[string]Return
}

var _ Interface = (*MockServer)(nil)

var mockMI300XBuses = []uint64{0x05, 0x26, 0x46, 0x65, 0x85, 0xa6, 0xc6, 0xe5}

// NewMockMI300XServer returns a MockServer modelled on a dual-socket EPYC
// node with eight MI300X GPUs, one GPU per socket handle.
func NewMockMI300XServer() *MockServer {
	server := &MockServer{
		Version: Version{Major: 25, Minor: 1, Release: 0},
	}
	for i := 0; i < 2; i++ {
		server.Sockets = append(server.Sockets, &MockSocket{
			Name: fmt.Sprintf("%d", i),
			Processors: []*MockProcessor{
				NewMockEpycProcessor(),
			},
		})
	}
	for i, bus := range mockMI300XBuses {
		gpu := NewMockMI300XProcessor(i, bus<<8)
		server.Sockets = append(server.Sockets, &MockSocket{
			Name:       fmt.Sprintf("0000:%02x:00", bus),
			Processors: []*MockProcessor{gpu},
		})
	}
	return server
}

// NewMockMI300XProcessor returns an MI300X GPU at the given packed BDF.
func NewMockMI300XProcessor(index int, bdf uint64) *MockProcessor {
	address := fmt.Sprintf("%04x:%02x:%02x.%x", bdf>>16, (bdf>>8)&0xff, (bdf>>3)&0x1f, bdf&0x7)
	p := &MockProcessor{
		Type:               PROCESSOR_TYPE_AMD_GPU,
		BDF:                bdf,
		UUID:               uuid.NewSHA1(uuid.NameSpaceOID, []byte(address)).String(),
		ID:                 0x74a1,
		Revision:           0x00,
		VendorName:         "Advanced Micro Devices Inc. [AMD/ATI]",
		SubsystemID:        0x74a1,
		SubsystemName:      "MI300X",
		VirtualizationMode: VIRTUALIZATION_MODE_BAREMETAL,
		Enumeration: EnumerationInfo{
			DrmRender: uint32(128 + index),
			DrmCard:   uint32(1 + index),
			HsaID:     uint32(2 + index),
			HipID:     uint32(index),
		},
	}
	copy(p.Enumeration.HipUUID[:], fmt.Sprintf("GPU-%016x", 0x5e1d000000000000|bdf))
	return p
}

// NewMockEpycProcessor returns an AMD EPYC CPU processor.
func NewMockEpycProcessor() *MockProcessor {
	return &MockProcessor{
		Type: PROCESSOR_TYPE_AMD_CPU,
		Name: "AMD EPYC 9654 96-Core Processor",
	}
}

func (s *MockServer) Init(flags uint64) Return {
	s.InitCalls++
	if flags == 0 {
		return STATUS_INVAL
	}
	s.initialized = true
	s.initFlags = flags
	return STATUS_SUCCESS
}

func (s *MockServer) ShutDown() Return {
	if !s.initialized {
		return STATUS_NOT_INIT
	}
	if s.ShutDownReturn != STATUS_SUCCESS {
		return s.ShutDownReturn
	}
	s.initialized = false
	s.initFlags = 0
	return STATUS_SUCCESS
}

func (s *MockServer) GetLibVersion() (Version, Return) {
	return s.Version, STATUS_SUCCESS
}

func (s *MockServer) GetSocketHandles(count *uint32, handles []SocketHandle) Return {
	if !s.initialized {
		return STATUS_NOT_INIT
	}
	if count == nil {
		return STATUS_INVAL
	}
	var visible []SocketHandle
	for i, socket := range s.Sockets {
		if s.socketVisible(socket) {
			visible = append(visible, SocketHandle(i+1))
		}
	}
	copy(handles[:min(int(*count), len(handles))], visible)
	*count = uint32(len(visible))
	return STATUS_SUCCESS
}

func (s *MockServer) GetSocketInfo(socket SocketHandle, name []byte) Return {
	ms, ret := s.socket(socket)
	if ret != STATUS_SUCCESS {
		return ret
	}
	return mockCopyString(name, ms.Name)
}

func (s *MockServer) GetProcessorHandles(socket SocketHandle, count *uint32, handles []ProcessorHandle) Return {
	ms, ret := s.socket(socket)
	if ret != STATUS_SUCCESS {
		return ret
	}
	if count == nil {
		return STATUS_INVAL
	}
	var visible []ProcessorHandle
	for j, p := range ms.Processors {
		if s.processorVisible(p) {
			visible = append(visible, ProcessorHandle(uintptr(socket)<<16|uintptr(j+1)))
		}
	}
	copy(handles[:min(int(*count), len(handles))], visible)
	*count = uint32(len(visible))
	return STATUS_SUCCESS
}

func (s *MockServer) GetProcessorType(processor ProcessorHandle) (uint32, Return) {
	p, ret := s.processor(processor, "GetProcessorType")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	return p.Type, STATUS_SUCCESS
}

func (s *MockServer) GetProcessorInfo(processor ProcessorHandle, name []byte) Return {
	p, ret := s.processor(processor, "GetProcessorInfo")
	if ret != STATUS_SUCCESS {
		return ret
	}
	return mockCopyString(name, p.Name)
}

func (s *MockServer) GetGpuDeviceBdf(processor ProcessorHandle) (uint64, Return) {
	p, ret := s.gpu(processor, "GetGpuDeviceBdf")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	return p.BDF, STATUS_SUCCESS
}

func (s *MockServer) GetGpuDeviceUuid(processor ProcessorHandle, buf []byte) (uint32, Return) {
	p, ret := s.gpu(processor, "GetGpuDeviceUuid")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	if len(buf) <= len(p.UUID) {
		return uint32(len(p.UUID) + 1), STATUS_INSUFFICIENT_SIZE
	}
	if ret := mockCopyString(buf, p.UUID); ret != STATUS_SUCCESS {
		return 0, ret
	}
	return uint32(len(p.UUID)), STATUS_SUCCESS
}

func (s *MockServer) GetGpuId(processor ProcessorHandle) (uint16, Return) {
	p, ret := s.gpu(processor, "GetGpuId")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	return p.ID, STATUS_SUCCESS
}

func (s *MockServer) GetGpuRevision(processor ProcessorHandle) (uint16, Return) {
	p, ret := s.gpu(processor, "GetGpuRevision")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	return p.Revision, STATUS_SUCCESS
}

func (s *MockServer) GetGpuVendorName(processor ProcessorHandle, name []byte) Return {
	p, ret := s.gpu(processor, "GetGpuVendorName")
	if ret != STATUS_SUCCESS {
		return ret
	}
	return mockCopyString(name, p.VendorName)
}

func (s *MockServer) GetGpuSubsystemId(processor ProcessorHandle) (uint16, Return) {
	p, ret := s.gpu(processor, "GetGpuSubsystemId")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	return p.SubsystemID, STATUS_SUCCESS
}

func (s *MockServer) GetGpuSubsystemName(processor ProcessorHandle, name []byte) Return {
	p, ret := s.gpu(processor, "GetGpuSubsystemName")
	if ret != STATUS_SUCCESS {
		return ret
	}
	return mockCopyString(name, p.SubsystemName)
}

func (s *MockServer) GetGpuEnumerationInfo(processor ProcessorHandle) (EnumerationInfo, Return) {
	p, ret := s.gpu(processor, "GetGpuEnumerationInfo")
	if ret != STATUS_SUCCESS {
		return EnumerationInfo{}, ret
	}
	return p.Enumeration, STATUS_SUCCESS
}

func (s *MockServer) GetGpuVirtualizationMode(processor ProcessorHandle) (uint32, Return) {
	p, ret := s.gpu(processor, "GetGpuVirtualizationMode")
	if ret != STATUS_SUCCESS {
		return 0, ret
	}
	return p.VirtualizationMode, STATUS_SUCCESS
}

func (s *MockServer) socket(handle SocketHandle) (*MockSocket, Return) {
	if !s.initialized {
		return nil, STATUS_NOT_INIT
	}
	i := int(handle) - 1
	if i < 0 || i >= len(s.Sockets) || !s.socketVisible(s.Sockets[i]) {
		return nil, STATUS_INVAL
	}
	return s.Sockets[i], STATUS_SUCCESS
}

func (s *MockServer) processor(handle ProcessorHandle, method string) (*MockProcessor, Return) {
	ms, ret := s.socket(SocketHandle(handle >> 16))
	if ret != STATUS_SUCCESS {
		return nil, ret
	}
	j := int(handle&0xffff) - 1
	if j < 0 || j >= len(ms.Processors) || !s.processorVisible(ms.Processors[j]) {
		return nil, STATUS_INVAL
	}
	p := ms.Processors[j]
	if ret, exists := p.Returns[method]; exists {
		return nil, ret
	}
	return p, STATUS_SUCCESS
}

func (s *MockServer) gpu(handle ProcessorHandle, method string) (*MockProcessor, Return) {
	p, ret := s.processor(handle, method)
	if ret != STATUS_SUCCESS {
		return nil, ret
	}
	if p.Type != PROCESSOR_TYPE_AMD_GPU {
		return nil, STATUS_NOT_SUPPORTED
	}
	return p, STATUS_SUCCESS
}

func (s *MockServer) socketVisible(socket *MockSocket) bool {
	for _, p := range socket.Processors {
		if s.processorVisible(p) {
			return true
		}
	}
	return false
}

func (s *MockServer) processorVisible(p *MockProcessor) bool {
	switch p.Type {
	case PROCESSOR_TYPE_AMD_GPU:
		return s.initFlags&INIT_AMD_GPUS != 0
	case PROCESSOR_TYPE_AMD_CPU, PROCESSOR_TYPE_AMD_CPU_CORE:
		return s.initFlags&INIT_AMD_CPUS != 0
	case PROCESSOR_TYPE_AMD_APU:
		return s.initFlags&INIT_AMD_APUS != 0
	case PROCESSOR_TYPE_NON_AMD_GPU:
		return s.initFlags&INIT_NON_AMD_GPUS != 0
	case PROCESSOR_TYPE_NON_AMD_CPU:
		return s.initFlags&INIT_NON_AMD_CPUS != 0
	}
	return s.initFlags == INIT_ALL_PROCESSORS
}

// mockCopyString copies s into buf as a NUL terminated C string, truncating
// like the library does when buf is too small.
func mockCopyString(buf []byte, s string) Return {
	if len(buf) == 0 {
		return STATUS_INSUFFICIENT_SIZE
	}
	n := copy(buf[:len(buf)-1], s)
	buf[n] = 0
	return STATUS_SUCCESS
}
