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

package amdsmi

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
)

// MinimumLibraryVersion is the oldest AMD SMI library exposing every call
// used for discovery.
var MinimumLibraryVersion = Version{Major: 25, Minor: 0}

// Version is the version of the loaded AMD SMI library.
type Version struct {
	Major   uint32 `json:"major"   yaml:"major"`
	Minor   uint32 `json:"minor"   yaml:"minor"`
	Release uint32 `json:"release" yaml:"release"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Release)
}

// AtLeast reports whether v is the same as or newer than o.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor > o.Minor
	}
	return v.Release >= o.Release
}

// Session is an initialized AMD SMI library. Discovery calls are only valid
// between Init and Shutdown.
//
// The library keeps process wide state, so only one Session should be live
// at a time.
type Session struct {
	lib     smi.Interface
	flags   InitFlags
	version Version
	closed  bool
}

type options struct {
	lib         smi.Interface
	libraryPath string
}

// Option is a functional option passed to Init.
type Option func(*options)

// WithLibrary sets the native library implementation used by the Session.
func WithLibrary(lib smi.Interface) Option {
	return func(o *options) {
		o.lib = lib
	}
}

// WithLibraryPath sets the path of the AMD SMI shared library to load.
func WithLibraryPath(path string) Option {
	return func(o *options) {
		o.libraryPath = path
	}
}

// Init loads and initializes the AMD SMI library for the processor families
// selected by flags.
func Init(flags InitFlags, opts ...Option) (*Session, error) {
	if flags == 0 {
		return nil, fmt.Errorf("error initializing AMD SMI: no processor families selected: %w", ErrInval)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.lib == nil {
		o.lib = smi.New(smi.WithLibraryPath(o.libraryPath))
	}

	log.Debugf("Initializing AMD SMI with flags %v", flags)
	if err := FromStatus(o.lib.Init(uint64(flags))); err != nil {
		return nil, fmt.Errorf("error initializing AMD SMI: %w", err)
	}

	s := &Session{
		lib:   o.lib,
		flags: flags,
	}

	v, ret := o.lib.GetLibVersion()
	if err := FromStatus(ret); err != nil {
		s.Shutdown()
		return nil, fmt.Errorf("error getting AMD SMI library version: %w", err)
	}
	s.version = Version{Major: v.Major, Minor: v.Minor, Release: v.Release}
	if !s.version.AtLeast(MinimumLibraryVersion) {
		s.Shutdown()
		return nil, fmt.Errorf("AMD SMI library version %v is older than %v: %w", s.version, MinimumLibraryVersion, ErrNotSupported)
	}

	log.Debugf("Initialized AMD SMI library version %v", s.version)
	return s, nil
}

// InitGPU initializes the library for AMD GPUs.
func InitGPU(opts ...Option) (*Session, error) {
	return Init(InitAmdGPUs, opts...)
}

// InitCPU initializes the library for AMD CPUs.
func InitCPU(opts ...Option) (*Session, error) {
	return Init(InitAmdCPUs, opts...)
}

// InitAll initializes the library for every processor family.
func InitAll(opts ...Option) (*Session, error) {
	return Init(InitAllProcessors, opts...)
}

// Shutdown releases the library. Calling Shutdown more than once is a no-op.
// Shutdown panics if the library fails to shut down.
func (s *Session) Shutdown() {
	if s.closed {
		return
	}
	if err := FromStatus(s.lib.ShutDown()); err != nil {
		log.Panicf("Error shutting down AMD SMI: %v", err)
	}
	s.closed = true
}

// Flags returns the flags the Session was initialized with.
func (s *Session) Flags() InitFlags {
	return s.flags
}

// LibraryVersion returns the version of the loaded library.
func (s *Session) LibraryVersion() Version {
	return s.version
}
