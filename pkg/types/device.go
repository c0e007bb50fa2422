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
	"strconv"
	"strings"
)

// DeviceID packs a PCI device id into the upper and its vendor id into the
// lower 16 bits.
type DeviceID uint32

// NewDeviceID constructs a 'DeviceID' from PCI device and vendor ids.
func NewDeviceID(device, vendor uint16) DeviceID {
	return DeviceID((uint32(device) << 16) | uint32(vendor))
}

// NewDeviceIDFromString parses a 'DeviceID' in one of the forms
//
//	0x74A11002   packed device and vendor, as printed by String
//	1002:74a1    vendor:device, as printed by 'lspci -n'
//
// A bare device id such as '74a1' is taken to be an AMD device.
func NewDeviceIDFromString(str string) (DeviceID, error) {
	if vendor, device, found := strings.Cut(str, ":"); found {
		v, err := parseID(vendor)
		if err != nil {
			return 0, fmt.Errorf("unable to create DeviceID from string '%v': invalid vendor: %v", str, err)
		}
		d, err := parseID(device)
		if err != nil {
			return 0, fmt.Errorf("unable to create DeviceID from string '%v': invalid device: %v", str, err)
		}
		return NewDeviceID(d, v), nil
	}

	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		deviceID, err := strconv.ParseUint(str[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("unable to create DeviceID from string '%v': %v", str, err)
		}
		return DeviceID(deviceID), nil
	}

	d, err := parseID(str)
	if err != nil {
		return 0, fmt.Errorf("unable to create DeviceID from string '%v': %v", str, err)
	}
	return NewDeviceID(d, AMDVendorID), nil
}

func parseID(s string) (uint16, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("expected 4 hex digits, got '%v'", s)
	}
	id, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}

// String returns a 'DeviceID' as a string.
func (d DeviceID) String() string {
	return fmt.Sprintf("0x%X", uint32(d))
}

// GetVendor returns the vendor id.
func (d DeviceID) GetVendor() uint16 {
	return uint16(d)
}

// GetDevice returns the device id.
func (d DeviceID) GetDevice() uint16 {
	return uint16(d >> 16)
}

// IsAMD reports whether the vendor is AMD.
func (d DeviceID) IsAMD() bool {
	return d.GetVendor() == AMDVendorID
}

// DeviceString returns the device id as four lower case hex digits.
func (d DeviceID) DeviceString() string {
	return fmt.Sprintf("%04x", d.GetDevice())
}

// PCIString returns the 'DeviceID' in vendor:device notation.
func (d DeviceID) PCIString() string {
	return fmt.Sprintf("%04x:%04x", d.GetVendor(), d.GetDevice())
}
