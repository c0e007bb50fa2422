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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
	"sigs.k8s.io/yaml"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
	"github.com/ROCm/amd-smi-discovery/pkg/labels"
)

const testPCIIDs = `1002  Advanced Micro Devices, Inc. [AMD/ATI]
	74a1  Aqua Vanjaram [Instinct MI300X]
`

func newFlags(t *testing.T) *Flags {
	path := filepath.Join(t.TempDir(), "pci.ids")
	require.NoError(t, os.WriteFile(path, []byte(testPCIIDs), 0600))
	return &Flags{
		NodeName:    "gpu-node-1",
		LibraryPath: smi.DefaultLibraryPath,
		PCIIDsPath:  path,
		LabelPrefix: labels.DefaultPrefix,
	}
}

var expectedLabels = map[string]string{
	"amd.com/gpu.present":             "true",
	"amd.com/gpu.count":               "8",
	"amd.com/gpu.device-id":           "74a1",
	"amd.com/gpu.product":             "Aqua-Vanjaram-Instinct-MI300X",
	"amd.com/gpu.virtualization-mode": "baremetal",
	"amd.com/cpu.count":               "2",
	"amd.com/socket.count":            "10",
}

func TestRunAppliesLabels(t *testing.T) {
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name: "gpu-node-1",
			Labels: map[string]string{
				"kubernetes.io/hostname": "gpu-node-1",
				"amd.com/gpu.memory":     "192G",
			},
		},
	}
	clientset := fake.NewSimpleClientset(node)

	var out bytes.Buffer
	err := run(context.Background(), newFlags(t), clientset, smi.NewMockMI300XServer(), &out)
	require.NoError(t, err)
	require.Empty(t, out.String())

	updated, err := clientset.CoreV1().Nodes().Get(context.Background(), "gpu-node-1", metav1.GetOptions{})
	require.NoError(t, err)

	expected := map[string]string{"kubernetes.io/hostname": "gpu-node-1"}
	for k, v := range expectedLabels {
		expected[k] = v
	}
	require.Equal(t, expected, updated.Labels)
}

func TestRunDryRun(t *testing.T) {
	f := newFlags(t)
	f.DryRun = true
	f.NodeName = ""

	var out bytes.Buffer
	err := run(context.Background(), f, nil, smi.NewMockMI300XServer(), &out)
	require.NoError(t, err)

	var printed map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &printed))
	require.Equal(t, expectedLabels, printed)
}

func TestRunErrors(t *testing.T) {
	testCases := []struct {
		description string
		update      func(*Flags)
		clientset   *fake.Clientset
	}{
		{
			"Missing clientset",
			func(f *Flags) {},
			nil,
		},
		{
			"Invalid node name",
			func(f *Flags) { f.NodeName = "GPU_Node!" },
			fake.NewSimpleClientset(),
		},
		{
			"Invalid label prefix",
			func(f *Flags) { f.LabelPrefix = "not a prefix" },
			fake.NewSimpleClientset(),
		},
		{
			"Node does not exist",
			func(f *Flags) {},
			fake.NewSimpleClientset(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			f := newFlags(t)
			tc.update(f)

			var err error
			if tc.clientset == nil {
				err = run(context.Background(), f, nil, smi.NewMockMI300XServer(), &bytes.Buffer{})
			} else {
				err = run(context.Background(), f, tc.clientset, smi.NewMockMI300XServer(), &bytes.Buffer{})
			}
			require.Error(t, err)
		})
	}
}

func TestValidateFlags(t *testing.T) {
	require.Error(t, validateFlags(&Flags{}))
	require.NoError(t, validateFlags(&Flags{DryRun: true}))
	require.NoError(t, validateFlags(&Flags{NodeName: "gpu-node-1"}))
}
