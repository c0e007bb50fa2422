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
	"strings"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
)

// InitFlags selects the processor families the library initializes.
type InitFlags uint64

// Init flags as defined by amdsmi_init_flags_t.
const (
	InitAmdCPUs       InitFlags = smi.INIT_AMD_CPUS
	InitAmdGPUs       InitFlags = smi.INIT_AMD_GPUS
	InitNonAmdCPUs    InitFlags = smi.INIT_NON_AMD_CPUS
	InitNonAmdGPUs    InitFlags = smi.INIT_NON_AMD_GPUS
	InitAmdAPUs       InitFlags = smi.INIT_AMD_APUS
	InitAllProcessors InitFlags = smi.INIT_ALL_PROCESSORS
)

var initFlagNames = []struct {
	name  string
	flags InitFlags
}{
	{"all", InitAllProcessors},
	{"apu", InitAmdAPUs},
	{"cpu", InitAmdCPUs},
	{"gpu", InitAmdGPUs},
	{"non-amd-cpu", InitNonAmdCPUs},
	{"non-amd-gpu", InitNonAmdGPUs},
}

// ParseInitFlags combines processor family names into InitFlags. Names are
// case insensitive and may be comma separated.
func ParseInitFlags(names []string) (InitFlags, error) {
	var flags InitFlags
	for _, n := range names {
		for _, name := range strings.Split(n, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			f, err := parseInitFlag(name)
			if err != nil {
				return 0, err
			}
			flags |= f
		}
	}
	if flags == 0 {
		return 0, fmt.Errorf("no processor families selected")
	}
	return flags, nil
}

func parseInitFlag(name string) (InitFlags, error) {
	for _, f := range initFlagNames {
		if f.name == name {
			return f.flags, nil
		}
	}
	return 0, fmt.Errorf("unknown processor family: '%v'", name)
}

// String returns the names of the processor families selected by f.
func (f InitFlags) String() string {
	if f == InitAllProcessors {
		return "all"
	}
	var names []string
	for _, n := range initFlagNames[2:] {
		if f&n.flags != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("InitFlags(0x%X)", uint64(f))
	}
	return strings.Join(names, ",")
}
