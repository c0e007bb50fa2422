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
	"strings"
)

// VirtualizationMode is the virtualization state of a GPU.
type VirtualizationMode uint32

// Virtualization modes as numbered by the AMD SMI library.
const (
	VirtualizationModeUnknown VirtualizationMode = iota
	VirtualizationModeBareMetal
	VirtualizationModeHost
	VirtualizationModeGuest
	VirtualizationModePassThrough
)

var virtualizationModeNames = []string{
	"unknown",
	"baremetal",
	"host",
	"guest",
	"passthrough",
}

// NewVirtualizationMode converts a raw mode tag. Tags outside the known set
// are rejected.
func NewVirtualizationMode(tag uint32) (VirtualizationMode, error) {
	if tag >= uint32(len(virtualizationModeNames)) {
		return 0, fmt.Errorf("unknown virtualization mode: %v", tag)
	}
	return VirtualizationMode(tag), nil
}

// ParseVirtualizationMode parses the string form of a VirtualizationMode.
func ParseVirtualizationMode(s string) (VirtualizationMode, error) {
	for i, name := range virtualizationModeNames {
		if strings.EqualFold(s, name) {
			return VirtualizationMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown virtualization mode: '%v'", s)
}

func (m VirtualizationMode) String() string {
	if int(m) < len(virtualizationModeNames) {
		return virtualizationModeNames[m]
	}
	return fmt.Sprintf("VirtualizationMode(%d)", uint32(m))
}

// MarshalText renders the mode by name in JSON and YAML output.
func (m VirtualizationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode by name.
func (m *VirtualizationMode) UnmarshalText(text []byte) error {
	mode, err := ParseVirtualizationMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
