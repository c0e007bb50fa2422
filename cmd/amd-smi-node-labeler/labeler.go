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
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"

	"github.com/ROCm/amd-smi-discovery/cmd/amd-smi-discovery/util"
	"github.com/ROCm/amd-smi-discovery/internal/pciids"
	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/labels"
)

// run discovers the node once and publishes its labels. With a dry run the
// labels are written to w as YAML and no clientset is needed.
func run(ctx context.Context, f *Flags, clientset kubernetes.Interface, lib smi.Interface, w io.Writer) error {
	var labeler *labels.Labeler
	if !f.DryRun {
		var err error
		labeler, err = labels.NewLabeler(clientset, f.NodeName, labels.WithPrefix(f.LabelPrefix))
		if err != nil {
			return fmt.Errorf("error creating node labeler: %w", err)
		}
	}

	discovery, err := util.Discover(&util.SelectionFlags{
		Processors:  DefaultProcessors,
		LibraryPath: f.LibraryPath,
	}, lib)
	if err != nil {
		return err
	}
	log.Debugf("Discovered %d sockets with AMD SMI %v", len(discovery.Sockets), discovery.LibraryVersion)

	namer := pciids.NewNamer(f.PCIIDsPath)
	nodeLabels, err := labels.New(f.LabelPrefix, discovery.Sockets, namer.ProductName)
	if err != nil {
		return fmt.Errorf("error generating node labels: %w", err)
	}

	if f.DryRun {
		return util.WriteOutput(w, map[string]string(nodeLabels), util.YAMLFormat)
	}

	for _, k := range nodeLabels.Keys() {
		log.Infof("Setting label %v=%v", k, nodeLabels[k])
	}
	if err := labeler.Apply(ctx, nodeLabels); err != nil {
		return fmt.Errorf("error labeling node '%v': %w", f.NodeName, err)
	}

	return nil
}
