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

package export

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	v1 "github.com/ROCm/amd-smi-discovery/api/spec/v1"
	"github.com/ROCm/amd-smi-discovery/cmd/amd-smi-discovery/util"
	"github.com/ROCm/amd-smi-discovery/internal/pciids"
	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/types"
)

var log = logrus.New()

func GetLogger() *logrus.Logger {
	return log
}

const (
	DefaultConfigLabel = "current"
)

type Flags struct {
	util.SelectionFlags
	OutputFormat string
	ConfigLabel  string
	PCIIDsPath   string
}

type Context struct {
	*cli.Context
	Flags   *Flags
	Library smi.Interface
}

func BuildCommand() *cli.Command {
	// Create a flags struct to hold our flags
	exportFlags := Flags{}

	// Create the 'export' command
	export := cli.Command{}
	export.Name = "export"
	export.Usage = "Export the GPU topology of the node as a topology config"
	export.Action = func(c *cli.Context) error {
		return exportWrapper(c, &exportFlags)
	}

	// Setup the flags for this command
	export.Flags = append([]cli.Flag{
		&cli.StringFlag{
			Name:        "output-format",
			Aliases:     []string{"o"},
			Usage:       "Format for the output [json | yaml]",
			Destination: &exportFlags.OutputFormat,
			Value:       util.YAMLFormat,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_OUTPUT_FORMAT"},
		},
		&cli.StringFlag{
			Name:        "config-label",
			Aliases:     []string{"l"},
			Usage:       "Label to apply to the exported config",
			Destination: &exportFlags.ConfigLabel,
			Value:       DefaultConfigLabel,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_CONFIG_LABEL"},
		},
		&cli.StringFlag{
			Name:        "pci-ids",
			Usage:       "Path to a pci.ids database used to name GPU products",
			Destination: &exportFlags.PCIIDsPath,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_PCI_IDS"},
		},
	}, util.BuildSelectionFlags(&exportFlags.SelectionFlags)...)

	return &export
}

func exportWrapper(c *cli.Context, f *Flags) error {
	err := CheckFlags(f)
	if err != nil {
		_ = cli.ShowSubcommandHelp(c)
		return err
	}

	context := Context{
		Context: c,
		Flags:   f,
	}

	spec, err := ExportTopologyConfigs(&context)
	if err != nil {
		return err
	}

	return util.WriteOutput(os.Stdout, spec, f.OutputFormat)
}

func CheckFlags(f *Flags) error {
	if err := util.CheckOutputFormat(f.OutputFormat); err != nil {
		return err
	}
	if f.ConfigLabel == "" {
		return fmt.Errorf("missing required flag 'config-label'")
	}
	return nil
}

// ExportTopologyConfigs describes the GPUs currently on the node as a
// single topology config labeled with 'config-label'.
func ExportTopologyConfigs(c *Context) (*v1.Spec, error) {
	d, err := util.Discover(&c.Flags.SelectionFlags, c.Library)
	if err != nil {
		return nil, fmt.Errorf("error discovering topology: %w", err)
	}

	gpus := types.GPUs(d.Sockets)
	log.Debugf("Exporting %d GPUs", len(gpus))

	namer := pciids.NewNamer(c.Flags.PCIIDsPath)
	configSpecs := v1.NewTopologyConfigSpecSlice(gpus, namer.ProductName)
	if len(configSpecs) == 0 {
		configSpecs = v1.TopologyConfigSpecSlice{{Count: 0}}
	}

	spec := v1.Spec{
		Version: v1.Version,
		TopologyConfigs: map[string]v1.TopologyConfigSpecSlice{
			c.Flags.ConfigLabel: configSpecs,
		},
	}

	return &spec, nil
}
