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

package v1

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

// Version indicates the version of the 'Spec' and 'Topology' structs.
const Version = "v1"

// Topology is a versioned snapshot of the sockets discovered on a node.
type Topology struct {
	Version        string         `json:"version"                   yaml:"version"`
	LibraryVersion string         `json:"library-version,omitempty" yaml:"library-version,omitempty"`
	Processors     string         `json:"processors,omitempty"      yaml:"processors,omitempty"`
	Sockets        []types.Socket `json:"sockets"                   yaml:"sockets"`
}

// Spec is a versioned struct used to hold information on 'TopologyConfigs'.
type Spec struct {
	Version         string                             `json:"version"                    yaml:"version"`
	TopologyConfigs map[string]TopologyConfigSpecSlice `json:"topology-configs,omitempty" yaml:"topology-configs,omitempty"`
}

// TopologyConfigSpec declares the expected number of GPUs matching a device
// filter and, optionally, the virtualization mode they must be in.
type TopologyConfigSpec struct {
	DeviceFilter       []string                  `json:"device-filter,omitempty"       yaml:"device-filter,flow,omitempty"       validate:"dive,required"`
	Product            string                    `json:"product,omitempty"             yaml:"product,omitempty"`
	Count              int                       `json:"count"                         yaml:"count"                              validate:"gte=0"`
	VirtualizationMode *types.VirtualizationMode `json:"virtualization-mode,omitempty" yaml:"virtualization-mode,omitempty"`
}

// TopologyConfigSpecSlice represents a slice of 'TopologyConfigSpec'.
type TopologyConfigSpecSlice []TopologyConfigSpec

// UnmarshalJSON unmarshals raw bytes into a versioned 'Spec'.
func (s *Spec) UnmarshalJSON(b []byte) error {
	spec := make(map[string]json.RawMessage)
	err := json.Unmarshal(b, &spec)
	if err != nil {
		return err
	}

	if !containsKey(spec, "version") && len(spec) > 0 {
		return fmt.Errorf("unable to parse with missing 'version' field")
	}

	result := Spec{}
	if v, exists := spec["version"]; exists {
		if err := json.Unmarshal(v, &result.Version); err != nil {
			return err
		}
	}

	if result.Version != Version {
		return fmt.Errorf("unknown version: %v", result.Version)
	}

	delete(spec, "version")
	for k, v := range spec {
		switch k {
		case "topology-configs":
			configs := map[string]TopologyConfigSpecSlice{}
			err := json.Unmarshal(v, &configs)
			if err != nil {
				return err
			}
			if len(configs) == 0 {
				return fmt.Errorf("at least one entry in '%v' is required", k)
			}
			for c, s := range configs {
				if len(s) == 0 {
					return fmt.Errorf("at least one entry in '%v' is required", c)
				}
			}
			result.TopologyConfigs = configs
		default:
			return fmt.Errorf("unexpected field: %v", k)
		}
	}

	*s = result
	return nil
}

// UnmarshalJSON unmarshals raw bytes into a 'TopologyConfigSpec'.
func (s *TopologyConfigSpec) UnmarshalJSON(b []byte) error {
	spec := make(map[string]json.RawMessage)
	err := json.Unmarshal(b, &spec)
	if err != nil {
		return err
	}

	if !containsKey(spec, "count") {
		return fmt.Errorf("missing required field: count")
	}

	result := TopologyConfigSpec{}
	for k, v := range spec {
		switch k {
		case "device-filter":
			var str string
			err1 := json.Unmarshal(v, &str)
			if err1 == nil {
				result.DeviceFilter = []string{str}
				break
			}
			var strslice []string
			err2 := json.Unmarshal(v, &strslice)
			if err2 == nil {
				result.DeviceFilter = strslice
				break
			}
			return fmt.Errorf("(%v, %v)", err1, err2)
		case "product":
			err := json.Unmarshal(v, &result.Product)
			if err != nil {
				return err
			}
		case "count":
			err := json.Unmarshal(v, &result.Count)
			if err != nil {
				return err
			}
		case "virtualization-mode":
			var mode types.VirtualizationMode
			err := json.Unmarshal(v, &mode)
			if err != nil {
				return fmt.Errorf("error parsing '%v' field: %v", k, err)
			}
			result.VirtualizationMode = &mode
		default:
			return fmt.Errorf("unexpected field: %v", k)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return fmt.Errorf("error validating topology config: %w", err)
	}

	*s = result
	return nil
}

func containsKey(m map[string]json.RawMessage, s string) bool {
	_, exists := m[s]
	return exists
}
