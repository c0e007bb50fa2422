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

// BDF is a PCI address decoded from the packed 64-bit value reported by
// amdsmi_get_gpu_device_bdf.
type BDF struct {
	Function uint64 `json:"function" yaml:"function"`
	Device   uint64 `json:"device"   yaml:"device"`
	Bus      uint64 `json:"bus"      yaml:"bus"`
	Domain   uint64 `json:"domain"   yaml:"domain"`
}

// NewBDF decodes a packed BDF: function in bits 0-2, device in bits 3-7,
// bus in bits 8-15 and domain in bits 16-63.
func NewBDF(v uint64) BDF {
	return BDF{
		Function: v & 0x7,
		Device:   (v >> 3) & 0x1f,
		Bus:      (v >> 8) & 0xff,
		Domain:   v >> 16,
	}
}

// ParseBDF parses a PCI address of the form 'dddd:bb:dd.f'.
func ParseBDF(s string) (BDF, error) {
	var domain, bus, device, function uint64
	n, err := fmt.Sscanf(s, "%x:%x:%x.%x", &domain, &bus, &device, &function)
	if err != nil || n != 4 {
		return BDF{}, fmt.Errorf("unable to parse PCI address '%v': %v", s, err)
	}
	if function > 0x7 || device > 0x1f || bus > 0xff || domain > 0xffffffffffff {
		return BDF{}, fmt.Errorf("PCI address '%v' out of range", s)
	}
	return BDF{Function: function, Device: device, Bus: bus, Domain: domain}, nil
}

// Uint64 packs the BDF back into its 64-bit representation.
func (b BDF) Uint64() uint64 {
	return (b.Domain << 16) | (b.Bus << 8) | (b.Device << 3) | b.Function
}

// String returns the BDF as a PCI address.
func (b BDF) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%x", b.Domain, b.Bus, b.Device, b.Function)
}
