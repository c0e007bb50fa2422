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

package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	yaml "gopkg.in/yaml.v2"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/amdsmi"
	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

const (
	JSONFormat = "json"
	YAMLFormat = "yaml"

	DefaultProcessors = "gpu"
)

// SelectionFlags holds the flags shared by every command that runs a
// discovery.
type SelectionFlags struct {
	Processors  string
	LibraryPath string
}

// BuildSelectionFlags returns the cli flags backing a SelectionFlags.
func BuildSelectionFlags(f *SelectionFlags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "processors",
			Aliases:     []string{"p"},
			Usage:       "Comma separated processor families to discover [gpu | cpu | apu | non-amd-gpu | non-amd-cpu | all]",
			Destination: &f.Processors,
			Value:       DefaultProcessors,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_PROCESSORS"},
		},
		&cli.StringFlag{
			Name:        "library-path",
			Usage:       "Path to the AMD SMI shared library",
			Destination: &f.LibraryPath,
			Value:       smi.DefaultLibraryPath,
			EnvVars:     []string{"AMD_SMI_LIBRARY_PATH"},
		},
	}
}

// Discovery is the result of a single discovery run.
type Discovery struct {
	Flags          amdsmi.InitFlags
	LibraryVersion amdsmi.Version
	Sockets        []types.Socket
}

// Discover initializes AMD SMI for the selected processor families, reads
// the sockets and shuts the library down again. A non-nil lib replaces the
// shared library.
func Discover(f *SelectionFlags, lib smi.Interface) (*Discovery, error) {
	flags, err := amdsmi.ParseInitFlags([]string{f.Processors})
	if err != nil {
		return nil, fmt.Errorf("error parsing 'processors': %v", err)
	}

	if lib == nil && flags&amdsmi.InitAmdGPUs != 0 {
		loaded, err := IsAmdgpuModuleLoaded()
		if err != nil {
			log.Debugf("Unable to check for the amdgpu module: %v", err)
		} else if !loaded {
			log.Warnf("The amdgpu kernel module is not loaded, no AMD GPUs will be discovered")
		}
	}

	opts := []amdsmi.Option{amdsmi.WithLibraryPath(f.LibraryPath)}
	if lib != nil {
		opts = append(opts, amdsmi.WithLibrary(lib))
	}

	session, err := amdsmi.Init(flags, opts...)
	if err != nil {
		return nil, err
	}
	defer session.Shutdown()

	sockets, err := session.GetSocketsInfo()
	if err != nil {
		return nil, fmt.Errorf("error discovering sockets: %w", err)
	}

	return &Discovery{
		Flags:          session.Flags(),
		LibraryVersion: session.LibraryVersion(),
		Sockets:        sockets,
	}, nil
}

// CheckOutputFormat validates the value of an 'output-format' flag.
func CheckOutputFormat(format string) error {
	switch format {
	case JSONFormat:
	case YAMLFormat:
	default:
		return fmt.Errorf("unrecognized 'output-format': %v", format)
	}
	return nil
}

// WriteOutput writes v to w in the given format.
func WriteOutput(w io.Writer, v interface{}, format string) error {
	switch format {
	case YAMLFormat:
		output, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("error marshaling to YAML: %v", err)
		}
		if _, err := w.Write(output); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case JSONFormat:
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling to JSON: %v", err)
		}
		output = append(output, '\n')
		if _, err := w.Write(output); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	default:
		return fmt.Errorf("unrecognized output format: %v", format)
	}
	return nil
}

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[0:1]) + s[1:]
}

func IsAmdgpuModuleLoaded() (bool, error) {
	modules, err := os.ReadFile("/proc/modules")
	if err != nil {
		return false, fmt.Errorf("unable to read /proc/modules: %v", err)
	}
	return hasModule(string(modules), "amdgpu"), nil
}

func hasModule(modules string, name string) bool {
	for _, line := range strings.Split(strings.TrimSpace(modules), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == name {
			return true
		}
	}
	return false
}
