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

package labels

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	v1 "github.com/ROCm/amd-smi-discovery/api/spec/v1"
	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

const (
	DefaultPrefix = "amd.com"

	// MixedValue is used when the GPUs of a node disagree on a value.
	MixedValue = "mixed"
)

// Label names, relative to the prefix.
const (
	GPUPresent            = "gpu.present"
	GPUCount              = "gpu.count"
	GPUDeviceID           = "gpu.device-id"
	GPUProduct            = "gpu.product"
	GPUVirtualizationMode = "gpu.virtualization-mode"
	CPUCount              = "cpu.count"
	SocketCount           = "socket.count"
)

var invalidLabelValueChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Labels is a set of node labels.
type Labels map[string]string

// New generates the node labels describing the given sockets. Every label
// is placed under prefix.
func New(prefix string, sockets []types.Socket, namer v1.ProductNamer) (Labels, error) {
	gpus := types.GPUs(sockets)

	var deviceIDs, products, modes []string
	for _, gpu := range gpus {
		deviceIDs = append(deviceIDs, gpu.DeviceID().DeviceString())
		modes = append(modes, gpu.VirtualizationMode.String())
		if namer != nil {
			if name := namer(gpu.DeviceID()); name != "" {
				products = append(products, SanitizeValue(name))
			}
		}
	}

	l := Labels{
		GPUPresent:  strconv.FormatBool(len(gpus) > 0),
		GPUCount:    strconv.Itoa(len(gpus)),
		CPUCount:    strconv.Itoa(len(types.CPUs(sockets))),
		SocketCount: strconv.Itoa(len(sockets)),
	}
	if v := uniform(deviceIDs); v != "" {
		l[GPUDeviceID] = v
	}
	if v := uniform(modes); v != "" {
		l[GPUVirtualizationMode] = v
	}
	if len(products) == len(gpus) {
		if v := uniform(products); v != "" {
			l[GPUProduct] = v
		}
	}

	prefixed := make(Labels)
	for k, v := range l {
		key := prefix + "/" + k
		if errs := validation.IsQualifiedName(key); len(errs) > 0 {
			return nil, fmt.Errorf("invalid label name '%v': %v", key, strings.Join(errs, "; "))
		}
		if errs := validation.IsValidLabelValue(v); len(errs) > 0 {
			return nil, fmt.Errorf("invalid value '%v' for label '%v': %v", v, key, strings.Join(errs, "; "))
		}
		prefixed[key] = v
	}
	return prefixed, nil
}

// Keys returns the label names in sorted order.
func (l Labels) Keys() []string {
	var keys []string
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SanitizeValue converts s into a valid label value.
func SanitizeValue(s string) string {
	s = invalidLabelValueChars.ReplaceAllString(s, "-")
	if len(s) > validation.LabelValueMaxLength {
		s = s[:validation.LabelValueMaxLength]
	}
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
}

func uniform(values []string) string {
	if len(values) == 0 {
		return ""
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return MixedValue
		}
	}
	return values[0]
}
