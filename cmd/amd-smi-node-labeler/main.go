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

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/ROCm/amd-smi-discovery/cmd/amd-smi-discovery/util"
	"github.com/ROCm/amd-smi-discovery/internal/info"
	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/labels"
)

// DefaultProcessors are the processor families the labeler discovers.
const DefaultProcessors = "gpu,cpu"

// Flags for the amd-smi-node-labeler command.
type Flags struct {
	Debug       bool
	Kubeconfig  string
	NodeName    string
	LibraryPath string
	PCIIDsPath  string
	LabelPrefix string
	DryRun      bool
}

func main() {
	flags := Flags{}

	c := cli.NewApp()
	c.Usage = "Label a kubernetes node with the AMD processors discovered through AMD SMI"
	c.Version = info.GetVersionString()
	c.Before = func(c *cli.Context) error {
		if flags.Debug {
			log.SetLevel(log.DebugLevel)
		}
		return validateFlags(&flags)
	}
	c.Action = func(c *cli.Context) error {
		return start(c, &flags)
	}

	c.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			Aliases:     []string{"d"},
			Usage:       "Enable debug-level logging",
			Destination: &flags.Debug,
			EnvVars:     []string{"AMD_SMI_NODE_LABELER_DEBUG"},
		},
		&cli.StringFlag{
			Name:        "kubeconfig",
			Value:       "",
			Usage:       "absolute path to the kubeconfig file",
			Destination: &flags.Kubeconfig,
			EnvVars:     []string{"KUBECONFIG"},
		},
		&cli.StringFlag{
			Name:        "node-name",
			Aliases:     []string{"n"},
			Value:       "",
			Usage:       "the name of the node to label",
			Destination: &flags.NodeName,
			EnvVars:     []string{"NODE_NAME"},
		},
		&cli.StringFlag{
			Name:        "library-path",
			Value:       smi.DefaultLibraryPath,
			Usage:       "path to the AMD SMI shared library",
			Destination: &flags.LibraryPath,
			EnvVars:     []string{"AMD_SMI_LIBRARY_PATH"},
		},
		&cli.StringFlag{
			Name:        "pci-ids",
			Value:       "",
			Usage:       "path to a pci.ids database used to name GPU products",
			Destination: &flags.PCIIDsPath,
			EnvVars:     []string{"PCI_IDS_PATH"},
		},
		&cli.StringFlag{
			Name:        "label-prefix",
			Value:       labels.DefaultPrefix,
			Usage:       "the prefix every managed label is placed under",
			Destination: &flags.LabelPrefix,
			EnvVars:     []string{"LABEL_PREFIX"},
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "print the labels instead of applying them to the node",
			Destination: &flags.DryRun,
			EnvVars:     []string{"DRY_RUN"},
		},
	}

	err := c.Run(os.Args)
	if err != nil {
		log.Fatal(util.Capitalize(err.Error()))
	}
}

func validateFlags(f *Flags) error {
	if f.DryRun {
		return nil
	}
	if f.NodeName == "" {
		return fmt.Errorf("invalid -n <node-name> flag: must not be empty string")
	}
	return nil
}

func start(c *cli.Context, f *Flags) error {
	if f.DryRun {
		return run(c.Context, f, nil, nil, c.App.Writer)
	}

	config, err := clientcmd.BuildConfigFromFlags("", f.Kubeconfig)
	if err != nil {
		return fmt.Errorf("error building kubernetes clientcmd config: %s", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return fmt.Errorf("error building kubernetes clientset from config: %s", err)
	}

	return run(c.Context, f, clientset, nil, c.App.Writer)
}
