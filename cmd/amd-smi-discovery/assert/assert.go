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

package assert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"sigs.k8s.io/yaml"

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

type Flags struct {
	util.SelectionFlags
	ConfigFile     string
	SelectedConfig string
	ValidConfig    bool
	PCIIDsPath     string
}

type Context struct {
	*cli.Context
	Flags          *Flags
	TopologyConfig v1.TopologyConfigSpecSlice
	Library        smi.Interface
}

func BuildCommand() *cli.Command {
	// Create a flags struct to hold our flags
	assertFlags := Flags{}

	// Create the 'assert' command
	assert := cli.Command{}
	assert.Name = "assert"
	assert.Usage = "Assert that the GPUs on the node match a specific topology config"
	assert.Action = func(c *cli.Context) error {
		return assertWrapper(c, &assertFlags)
	}

	// Setup the flags for this command
	assert.Flags = append([]cli.Flag{
		&cli.StringFlag{
			Name:        "config-file",
			Aliases:     []string{"f"},
			Usage:       "Path to the configuration file",
			Destination: &assertFlags.ConfigFile,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_CONFIG_FILE"},
		},
		&cli.StringFlag{
			Name:        "selected-config",
			Aliases:     []string{"c"},
			Usage:       "The label of the topology-config from the config file to assert against the node",
			Destination: &assertFlags.SelectedConfig,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_SELECTED_CONFIG"},
		},
		&cli.BoolFlag{
			Name:        "valid-config",
			Aliases:     []string{"a"},
			Usage:       "Only assert that the config file is valid and the selected config is present in it",
			Destination: &assertFlags.ValidConfig,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_VALID_CONFIG"},
		},
		&cli.StringFlag{
			Name:        "pci-ids",
			Usage:       "Path to a pci.ids database used to match product names in device filters",
			Destination: &assertFlags.PCIIDsPath,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_PCI_IDS"},
		},
	}, util.BuildSelectionFlags(&assertFlags.SelectionFlags)...)

	return &assert
}

func assertWrapper(c *cli.Context, f *Flags) error {
	err := CheckFlags(f)
	if err != nil {
		_ = cli.ShowSubcommandHelp(c)
		return err
	}

	log.Debugf("Parsing config file...")
	spec, err := ParseConfigFile(f)
	if err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	log.Debugf("Selecting specific topology config...")
	topologyConfig, err := GetSelectedTopologyConfig(f, spec)
	if err != nil {
		return fmt.Errorf("error selecting topology config: %v", err)
	}

	if f.ValidConfig {
		fmt.Println("Selected topology configuration is valid")
		return nil
	}

	context := Context{
		Context:        c,
		Flags:          f,
		TopologyConfig: topologyConfig,
	}

	log.Debugf("Asserting topology configuration...")
	err = AssertTopologyConfig(&context)
	if err != nil {
		log.Debug(util.Capitalize(err.Error()))
		return fmt.Errorf("Assertion failure: selected configuration does not match the node")
	}

	fmt.Println("Selected topology configuration matches the node")
	return nil
}

func CheckFlags(f *Flags) error {
	var missing []string
	if f.ConfigFile == "" {
		missing = append(missing, "config-file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags '%v'", strings.Join(missing, ", "))
	}
	return nil
}

func ParseConfigFile(f *Flags) (*v1.Spec, error) {
	var err error
	var configYaml []byte

	if f.ConfigFile == "-" {
		configYaml, err = readAll(os.Stdin)
	} else {
		configYaml, err = os.ReadFile(f.ConfigFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read error: %v", err)
	}

	var spec v1.Spec
	err = yaml.Unmarshal(configYaml, &spec)
	if err != nil {
		return nil, fmt.Errorf("unmarshal error: %v", err)
	}

	return &spec, nil
}

func readAll(r io.Reader) ([]byte, error) {
	var data []byte
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		data = append(data, scanner.Bytes()...)
		data = append(data, '\n')
	}
	return data, scanner.Err()
}

func GetSelectedTopologyConfig(f *Flags, spec *v1.Spec) (v1.TopologyConfigSpecSlice, error) {
	if len(spec.TopologyConfigs) > 1 && f.SelectedConfig == "" {
		return nil, fmt.Errorf("missing required flag 'selected-config' when more than one config available")
	}

	if len(spec.TopologyConfigs) == 1 && f.SelectedConfig == "" {
		for c := range spec.TopologyConfigs {
			f.SelectedConfig = c
		}
	}

	if _, exists := spec.TopologyConfigs[f.SelectedConfig]; !exists {
		return nil, fmt.Errorf("selected topology-config not present: %v", f.SelectedConfig)
	}

	return spec.TopologyConfigs[f.SelectedConfig], nil
}

// AssertTopologyConfig discovers the GPUs on the node and checks them
// against every entry of the selected topology config.
func AssertTopologyConfig(c *Context) error {
	d, err := util.Discover(&c.Flags.SelectionFlags, c.Library)
	if err != nil {
		return fmt.Errorf("error discovering topology: %w", err)
	}

	gpus := types.GPUs(d.Sockets)
	for i, gpu := range gpus {
		log.Debugf("  GPU %v: %v (%v, %v)", i, gpu.BDF, gpu.DeviceID(), gpu.VirtualizationMode)
	}

	namer := pciids.NewNamer(c.Flags.PCIIDsPath)
	return c.TopologyConfig.AssertGPUs(gpus, namer.ProductName)
}
