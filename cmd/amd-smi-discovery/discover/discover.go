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

package discover

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	v1 "github.com/ROCm/amd-smi-discovery/api/spec/v1"
	"github.com/ROCm/amd-smi-discovery/cmd/amd-smi-discovery/util"
	"github.com/ROCm/amd-smi-discovery/internal/smi"
)

var log = logrus.New()

func GetLogger() *logrus.Logger {
	return log
}

type Flags struct {
	util.SelectionFlags
	OutputFormat string
}

type Context struct {
	*cli.Context
	Flags   *Flags
	Library smi.Interface
}

func BuildCommand() *cli.Command {
	// Create a flags struct to hold our flags
	discoverFlags := Flags{}

	// Create the 'discover' command
	discover := cli.Command{}
	discover.Name = "discover"
	discover.Usage = "Print the sockets and processors discovered through AMD SMI"
	discover.Action = func(c *cli.Context) error {
		return discoverWrapper(c, &discoverFlags)
	}

	// Setup the flags for this command
	discover.Flags = append([]cli.Flag{
		&cli.StringFlag{
			Name:        "output-format",
			Aliases:     []string{"o"},
			Usage:       "Format for the output [json | yaml]",
			Destination: &discoverFlags.OutputFormat,
			Value:       util.YAMLFormat,
			EnvVars:     []string{"AMD_SMI_DISCOVERY_OUTPUT_FORMAT"},
		},
	}, util.BuildSelectionFlags(&discoverFlags.SelectionFlags)...)

	return &discover
}

func discoverWrapper(c *cli.Context, f *Flags) error {
	err := util.CheckOutputFormat(f.OutputFormat)
	if err != nil {
		_ = cli.ShowSubcommandHelp(c)
		return err
	}

	context := Context{
		Context: c,
		Flags:   f,
	}

	return Discover(&context, os.Stdout)
}

// Discover runs a discovery and writes the resulting topology to w.
func Discover(c *Context, w io.Writer) error {
	log.Debugf("Discovering processors (%v)...", c.Flags.Processors)
	d, err := util.Discover(&c.Flags.SelectionFlags, c.Library)
	if err != nil {
		return fmt.Errorf("error discovering topology: %w", err)
	}

	topology := v1.NewTopology(d.LibraryVersion.String(), d.Flags.String(), d.Sockets)
	return util.WriteOutput(w, topology, c.Flags.OutputFormat)
}
