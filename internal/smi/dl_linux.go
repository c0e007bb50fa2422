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

package smi

import (
	"fmt"

	"github.com/ebitengine/purego"
	log "github.com/sirupsen/logrus"
)

func (l *library) load() Return {
	handle, err := purego.Dlopen(l.path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		log.Debugf("error opening %v: %v", l.path, err)
		return STATUS_FAIL_LOAD_MODULE
	}

	for name, fptr := range l.symbolTable() {
		sym, err := purego.Dlsym(handle, name)
		if err != nil {
			log.Debugf("error looking up symbol %v in %v: %v", name, l.path, err)
			_ = purego.Dlclose(handle)
			return STATUS_FAIL_LOAD_SYMBOL
		}
		purego.RegisterFunc(fptr, sym)
	}

	l.handle = handle
	return STATUS_SUCCESS
}

func (l *library) unload() error {
	if !l.loaded() {
		return nil
	}
	if err := purego.Dlclose(l.handle); err != nil {
		return fmt.Errorf("dlclose: %w", err)
	}
	l.handle = 0
	return nil
}
