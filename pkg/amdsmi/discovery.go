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

	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

// GetSocketsInfo enumerates the sockets visible to the Session and the
// processors under each of them. Results are returned in the order the
// library reports them; any failure discards the whole result.
func (s *Session) GetSocketsInfo() ([]types.Socket, error) {
	handles, err := getSocketHandles(s.lib)
	if err != nil {
		return nil, fmt.Errorf("error getting socket handles: %w", err)
	}

	sockets := make([]types.Socket, 0, len(handles))
	for i, h := range handles {
		socket, err := getSocketInfo(s.lib, h)
		if err != nil {
			return nil, fmt.Errorf("error getting info for socket %d: %w", i, err)
		}
		sockets = append(sockets, socket)
	}
	return sockets, nil
}

func getSocketInfo(lib smi.Interface, handle smi.SocketHandle) (types.Socket, error) {
	buf := make([]byte, smi.MAX_STRING_LENGTH)
	if err := FromStatus(lib.GetSocketInfo(handle, buf)); err != nil {
		return types.Socket{}, fmt.Errorf("error getting socket name: %w", err)
	}
	name, err := CleanString(buf)
	if err != nil {
		return types.Socket{}, fmt.Errorf("error reading socket name: %w", err)
	}

	handles, err := getProcessorHandles(lib, handle)
	if err != nil {
		return types.Socket{}, fmt.Errorf("error getting processor handles: %w", err)
	}

	processors := make([]types.Processor, 0, len(handles))
	for i, h := range handles {
		p, err := getProcessorInfo(lib, h)
		if err != nil {
			return types.Socket{}, fmt.Errorf("error getting info for processor %d: %w", i, err)
		}
		processors = append(processors, p)
	}

	return types.Socket{Name: name, Processors: processors}, nil
}

func getSocketHandles(lib smi.Interface) ([]smi.SocketHandle, error) {
	return enumerate(func(count *uint32, handles []smi.SocketHandle) smi.Return {
		return lib.GetSocketHandles(count, handles)
	})
}

func getProcessorHandles(lib smi.Interface, socket smi.SocketHandle) ([]smi.ProcessorHandle, error) {
	return enumerate(func(count *uint32, handles []smi.ProcessorHandle) smi.Return {
		return lib.GetProcessorHandles(socket, count, handles)
	})
}

// enumerate runs the count-then-fill protocol. The first call learns the
// number of handles and the second fills a slice of exactly that size. A
// count that changes between the calls is reported as ErrUnexpectedSize.
func enumerate[T any](get func(count *uint32, handles []T) smi.Return) ([]T, error) {
	var count uint32
	if err := FromStatus(get(&count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return []T{}, nil
	}

	handles := make([]T, count)
	expected := count
	if err := FromStatus(get(&count, handles)); err != nil {
		return nil, err
	}
	if count != expected {
		return nil, fmt.Errorf("%w: expected %d handles, library reported %d", ErrUnexpectedSize, expected, count)
	}
	return handles, nil
}
