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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8stypes "k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// An Option represents a functional option passed to NewLabeler.
type Option func(*Labeler)

// Labeler publishes labels on a kubernetes node.
type Labeler struct {
	clientset kubernetes.Interface

	// NodeName is the kubernetes node to label.
	// Its validation follows the RFC 1123 standard for DNS subdomain names.
	NodeName string `validate:"required,hostname_rfc1123"`

	// Prefix is the DNS prefix every managed label is placed under.
	Prefix string `validate:"required,fqdn"`
}

// WithPrefix sets the prefix of the managed labels.
func WithPrefix(prefix string) Option {
	return func(l *Labeler) {
		l.Prefix = prefix
	}
}

// NewLabeler creates a Labeler for the given node.
func NewLabeler(clientset kubernetes.Interface, nodeName string, opts ...Option) (*Labeler, error) {
	l := &Labeler{
		clientset: clientset,
		NodeName:  nodeName,
		Prefix:    DefaultPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate the labeler options.
func (l *Labeler) Validate() error {
	if l.clientset == nil {
		return fmt.Errorf("a k8s ClientSet must be specified")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(l)
}

// Apply sets the given labels on the node and removes any other label under
// the managed prefix.
func (l *Labeler) Apply(ctx context.Context, labels Labels) error {
	node, err := l.clientset.CoreV1().Nodes().Get(ctx, l.NodeName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("unable to get node object: %w", err)
	}

	patch := make(map[string]interface{})
	for k := range node.GetLabels() {
		if !strings.HasPrefix(k, l.Prefix+"/") {
			continue
		}
		if _, exists := labels[k]; !exists {
			log.Debugf("Removing stale label '%v'", k)
			patch[k] = nil
		}
	}
	for k, v := range labels {
		patch[k] = v
	}

	data, err := json.Marshal(map[string]interface{}{
		"metadata": map[string]interface{}{
			"labels": patch,
		},
	})
	if err != nil {
		return fmt.Errorf("unable to build node patch: %w", err)
	}

	_, err = l.clientset.CoreV1().Nodes().Patch(ctx, l.NodeName, k8stypes.MergePatchType, data, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("unable to patch node object: %w", err)
	}

	return nil
}
