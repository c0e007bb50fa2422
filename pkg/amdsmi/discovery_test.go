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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

// countingServer records the handle buffers passed to GetSocketHandles.
type countingServer struct {
	*smi.MockServer
	socketCalls []int
}

func (s *countingServer) GetSocketHandles(count *uint32, handles []smi.SocketHandle) smi.Return {
	s.socketCalls = append(s.socketCalls, len(handles))
	return s.MockServer.GetSocketHandles(count, handles)
}

// growingServer reports one more processor on the fill call than on the
// count call, as if a device appeared in between.
type growingServer struct {
	*smi.MockServer
}

func (s *growingServer) GetProcessorHandles(socket smi.SocketHandle, count *uint32, handles []smi.ProcessorHandle) smi.Return {
	ret := s.MockServer.GetProcessorHandles(socket, count, handles)
	if len(handles) > 0 {
		*count++
	}
	return ret
}

func newSession(t *testing.T, lib smi.Interface, flags InitFlags) *Session {
	s, err := Init(flags, WithLibrary(lib))
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	return s
}

func TestGetSocketsInfoGPU(t *testing.T) {
	s := newSession(t, smi.NewMockMI300XServer(), InitAmdGPUs)

	sockets, err := s.GetSocketsInfo()
	require.NoError(t, err)
	require.Len(t, sockets, 8)

	for _, socket := range sockets {
		require.Len(t, socket.Processors, 1)
		p := socket.Processors[0]
		require.Equal(t, types.ProcessorTypeAmdGpu, p.Type)
		require.Nil(t, p.CPU)
		require.NotNil(t, p.GPU)

		require.Less(t, p.GPU.BDF.Function, uint64(8))
		require.Less(t, p.GPU.BDF.Device, uint64(32))
		require.Less(t, p.GPU.BDF.Bus, uint64(256))
		require.Equal(t, socket.Name+".0", p.GPU.BDF.String())

		require.Len(t, p.GPU.UUID, 36)
		require.Equal(t, uint16(0x74a1), p.GPU.ID)
		require.Equal(t, "Advanced Micro Devices Inc. [AMD/ATI]", p.GPU.VendorName)
		require.Equal(t, "MI300X", p.GPU.SubsystemName)
		require.Equal(t, types.VirtualizationModeBareMetal, p.GPU.VirtualizationMode)
		require.Contains(t, p.GPU.Enumeration.HipUUID, "GPU-")
	}

	require.Equal(t, "0000:05:00.0", sockets[0].Processors[0].GPU.BDF.String())
	require.Equal(t, uint32(128), sockets[0].Processors[0].GPU.Enumeration.DrmRender)
	require.Equal(t, "0000:e5:00.0", sockets[7].Processors[0].GPU.BDF.String())
}

func TestGetSocketsInfoCPU(t *testing.T) {
	s := newSession(t, smi.NewMockMI300XServer(), InitAmdCPUs)

	sockets, err := s.GetSocketsInfo()
	require.NoError(t, err)
	require.Len(t, sockets, 2)
	for _, socket := range sockets {
		require.Len(t, socket.Processors, 1)
		require.Equal(t, types.ProcessorTypeAmdCpu, socket.Processors[0].Type)
		require.Equal(t, "AMD EPYC 9654 96-Core Processor", socket.Processors[0].CPU.Name)
	}
}

func TestGetSocketsInfoCountsAddUp(t *testing.T) {
	count := func(flags InitFlags) int {
		server := smi.NewMockMI300XServer()
		s, err := Init(flags, WithLibrary(server))
		require.NoError(t, err)
		defer s.Shutdown()

		sockets, err := s.GetSocketsInfo()
		require.NoError(t, err)
		return len(sockets)
	}

	require.Equal(t, count(InitAllProcessors), count(InitAmdCPUs)+count(InitAmdGPUs))
}

func TestGetSocketsInfoNoSockets(t *testing.T) {
	server := &countingServer{MockServer: smi.NewMockMI300XServer()}
	s := newSession(t, server, InitNonAmdGPUs)

	sockets, err := s.GetSocketsInfo()
	require.NoError(t, err)
	require.NotNil(t, sockets)
	require.Empty(t, sockets)
	require.Equal(t, []int{0}, server.socketCalls)
}

func TestGetSocketsInfoSizesFillCall(t *testing.T) {
	server := &countingServer{MockServer: smi.NewMockMI300XServer()}
	s := newSession(t, server, InitAmdGPUs)

	_, err := s.GetSocketsInfo()
	require.NoError(t, err)
	require.Equal(t, []int{0, 8}, server.socketCalls)
}

func TestGetSocketsInfoCountChanged(t *testing.T) {
	server := &growingServer{MockServer: smi.NewMockMI300XServer()}
	s := newSession(t, server, InitAmdGPUs)

	sockets, err := s.GetSocketsInfo()
	require.ErrorIs(t, err, ErrUnexpectedSize)
	require.Nil(t, sockets)
}

func TestGetSocketsInfoFailures(t *testing.T) {
	testCases := []struct {
		description string
		flags       InitFlags
		mutate      func(p *smi.MockProcessor)
		expected    error
	}{
		{
			"UUID query fails after BDF succeeds",
			InitAmdGPUs,
			func(p *smi.MockProcessor) {
				p.Returns = map[string]smi.Return{"GetGpuDeviceUuid": smi.STATUS_NO_PERM}
			},
			ErrNoPerm,
		},
		{
			"Processor type query fails",
			InitAmdGPUs,
			func(p *smi.MockProcessor) {
				p.Returns = map[string]smi.Return{"GetProcessorType": smi.STATUS_NOT_SUPPORTED}
			},
			ErrNotSupported,
		},
		{
			"Unknown processor type tag",
			InitAllProcessors,
			func(p *smi.MockProcessor) {
				p.Type = 7
			},
			ErrUnexpectedData,
		},
		{
			"Unknown virtualization mode",
			InitAmdGPUs,
			func(p *smi.MockProcessor) {
				p.VirtualizationMode = 9
			},
			ErrUnexpectedData,
		},
		{
			"Vendor name is not UTF-8",
			InitAmdGPUs,
			func(p *smi.MockProcessor) {
				p.VendorName = "\xff\xfe"
			},
			ErrInvalidText,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			server := smi.NewMockMI300XServer()
			tc.mutate(server.Sockets[5].Processors[0])
			s := newSession(t, server, tc.flags)

			sockets, err := s.GetSocketsInfo()
			require.ErrorIs(t, err, tc.expected)
			require.Nil(t, sockets)
		})
	}
}

func TestGetSocketsInfoAfterShutdown(t *testing.T) {
	s, err := InitGPU(WithLibrary(smi.NewMockMI300XServer()))
	require.NoError(t, err)
	s.Shutdown()

	_, err = s.GetSocketsInfo()
	require.ErrorIs(t, err, ErrNotInit)
}

func TestGetSocketsInfoNonAmdProcessor(t *testing.T) {
	server := smi.NewMockMI300XServer()
	server.Sockets = append(server.Sockets, &smi.MockSocket{
		Name: "2",
		Processors: []*smi.MockProcessor{
			{Type: smi.PROCESSOR_TYPE_NON_AMD_GPU},
		},
	})
	s := newSession(t, server, InitNonAmdGPUs)

	sockets, err := s.GetSocketsInfo()
	require.NoError(t, err)
	require.Len(t, sockets, 1)
	require.Equal(t, types.Processor{Type: types.ProcessorTypeNonAmdGpu}, sockets[0].Processors[0])
}
