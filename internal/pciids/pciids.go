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

package pciids

import (
	"github.com/NVIDIA/go-nvlib/pkg/pciids"
	log "github.com/sirupsen/logrus"

	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

// Namer resolves product names for GPUs from a pci.ids database.
type Namer struct {
	db    pciids.Interface
	cache map[types.DeviceID]string
}

// NewNamer creates a Namer. An empty path uses the system pci.ids database,
// falling back to the copy built into go-nvlib.
func NewNamer(path string) *Namer {
	var opts []pciids.Option
	if path != "" {
		opts = append(opts, pciids.WithFilePath(path))
	}
	return &Namer{
		db:    pciids.NewDB(opts...),
		cache: make(map[types.DeviceID]string),
	}
}

// ProductName returns the pci.ids name of a device, or an empty string if
// the database has no entry for it.
func (n *Namer) ProductName(deviceID types.DeviceID) string {
	if name, exists := n.cache[deviceID]; exists {
		return name
	}
	name, err := n.db.GetDeviceName(deviceID.GetVendor(), deviceID.GetDevice())
	if err != nil {
		log.Debugf("No pci.ids entry for %v: %v", deviceID, err)
		name = ""
	}
	n.cache[deviceID] = name
	return name
}
