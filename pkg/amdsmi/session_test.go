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
)

func TestInit(t *testing.T) {
	server := smi.NewMockMI300XServer()

	s, err := InitGPU(WithLibrary(server))
	require.NoError(t, err)
	require.Equal(t, InitAmdGPUs, s.Flags())
	require.Equal(t, "25.1.0", s.LibraryVersion().String())

	s.Shutdown()
	require.ErrorIs(t, FromStatus(server.ShutDown()), ErrNotInit)
}

func TestInitZeroFlags(t *testing.T) {
	server := smi.NewMockMI300XServer()

	_, err := Init(0, WithLibrary(server))
	require.ErrorIs(t, err, ErrInval)
	require.Zero(t, server.InitCalls)
}

func TestInitLibraryNotFound(t *testing.T) {
	_, err := InitGPU(WithLibraryPath("/nonexistent/libamd_smi.so"))
	require.ErrorIs(t, err, ErrFailLoadModule)
}

func TestInitUnsupportedLibraryVersion(t *testing.T) {
	server := smi.NewMockMI300XServer()
	server.Version = smi.Version{Major: 24, Minor: 7, Release: 1}

	_, err := InitGPU(WithLibrary(server))
	require.ErrorIs(t, err, ErrNotSupported)

	var count uint32
	require.Equal(t, smi.STATUS_NOT_INIT, server.GetSocketHandles(&count, nil))
}

func TestShutdownIsIdempotent(t *testing.T) {
	s, err := InitAll(WithLibrary(smi.NewMockMI300XServer()))
	require.NoError(t, err)

	s.Shutdown()
	require.NotPanics(t, s.Shutdown)
}

func TestShutdownFailurePanics(t *testing.T) {
	server := smi.NewMockMI300XServer()
	s, err := InitCPU(WithLibrary(server))
	require.NoError(t, err)

	server.ShutDownReturn = smi.STATUS_BUSY
	require.Panics(t, s.Shutdown)

	server.ShutDownReturn = smi.STATUS_SUCCESS
	require.NotPanics(t, s.Shutdown)
}

func TestVersionAtLeast(t *testing.T) {
	testCases := []struct {
		description string
		version     Version
		expected    bool
	}{
		{
			"Same version",
			Version{Major: 25, Minor: 0},
			true,
		},
		{
			"Newer minor",
			Version{Major: 25, Minor: 2, Release: 0},
			true,
		},
		{
			"Newer major",
			Version{Major: 26},
			true,
		},
		{
			"Older major with newer minor",
			Version{Major: 24, Minor: 9},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.version.AtLeast(MinimumLibraryVersion))
		})
	}
}
