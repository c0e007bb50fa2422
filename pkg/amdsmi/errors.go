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
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ROCm/amd-smi-discovery/internal/smi"
)

// Error is the kind of a failure reported by this package. Kinds backed by
// a native status share its numeric value.
type Error uint32

// Native status kinds.
const (
	ErrInval              = Error(smi.STATUS_INVAL)
	ErrNotSupported       = Error(smi.STATUS_NOT_SUPPORTED)
	ErrNotYetImplemented  = Error(smi.STATUS_NOT_YET_IMPLEMENTED)
	ErrFailLoadModule     = Error(smi.STATUS_FAIL_LOAD_MODULE)
	ErrFailLoadSymbol     = Error(smi.STATUS_FAIL_LOAD_SYMBOL)
	ErrDRMError           = Error(smi.STATUS_DRM_ERROR)
	ErrAPIFailed          = Error(smi.STATUS_API_FAILED)
	ErrTimeout            = Error(smi.STATUS_TIMEOUT)
	ErrRetry              = Error(smi.STATUS_RETRY)
	ErrNoPerm             = Error(smi.STATUS_NO_PERM)
	ErrInterrupt          = Error(smi.STATUS_INTERRUPT)
	ErrIO                 = Error(smi.STATUS_IO)
	ErrAddressFault       = Error(smi.STATUS_ADDRESS_FAULT)
	ErrFileError          = Error(smi.STATUS_FILE_ERROR)
	ErrOutOfResources     = Error(smi.STATUS_OUT_OF_RESOURCES)
	ErrInternalException  = Error(smi.STATUS_INTERNAL_EXCEPTION)
	ErrInputOutOfBounds   = Error(smi.STATUS_INPUT_OUT_OF_BOUNDS)
	ErrInitError          = Error(smi.STATUS_INIT_ERROR)
	ErrRefcountOverflow   = Error(smi.STATUS_REFCOUNT_OVERFLOW)
	ErrBusy               = Error(smi.STATUS_BUSY)
	ErrNotFound           = Error(smi.STATUS_NOT_FOUND)
	ErrNotInit            = Error(smi.STATUS_NOT_INIT)
	ErrNoSlot             = Error(smi.STATUS_NO_SLOT)
	ErrDriverNotLoaded    = Error(smi.STATUS_DRIVER_NOT_LOADED)
	ErrNoData             = Error(smi.STATUS_NO_DATA)
	ErrInsufficientSize   = Error(smi.STATUS_INSUFFICIENT_SIZE)
	ErrUnexpectedSize     = Error(smi.STATUS_UNEXPECTED_SIZE)
	ErrUnexpectedData     = Error(smi.STATUS_UNEXPECTED_DATA)
	ErrNonAMDCPU          = Error(smi.STATUS_NON_AMD_CPU)
	ErrNoEnergyDrv        = Error(smi.STATUS_NO_ENERGY_DRV)
	ErrNoMSRDrv           = Error(smi.STATUS_NO_MSR_DRV)
	ErrNoHSMPDrv          = Error(smi.STATUS_NO_HSMP_DRV)
	ErrNoHSMPSup          = Error(smi.STATUS_NO_HSMP_SUP)
	ErrNoHSMPMsgSup       = Error(smi.STATUS_NO_HSMP_MSG_SUP)
	ErrHSMPTimeout        = Error(smi.STATUS_HSMP_TIMEOUT)
	ErrNoDrv              = Error(smi.STATUS_NO_DRV)
	ErrFileNotFound       = Error(smi.STATUS_FILE_NOT_FOUND)
	ErrArgPtrNull         = Error(smi.STATUS_ARG_PTR_NULL)
	ErrAMDGPURestartErr   = Error(smi.STATUS_AMDGPU_RESTART_ERR)
	ErrSettingUnavailable = Error(smi.STATUS_SETTING_UNAVAILABLE)
	ErrCorruptedEEPROM    = Error(smi.STATUS_CORRUPTED_EEPROM)
	ErrMapError           = Error(smi.STATUS_MAP_ERROR)
	ErrUnknownError       = Error(smi.STATUS_UNKNOWN_ERROR)
)

// ErrInvalidText is returned when a string buffer filled by the library is
// not valid UTF-8. It has no native status code.
const ErrInvalidText Error = 1 << 16

var statusErrors = map[smi.Return]Error{
	smi.STATUS_INVAL:               ErrInval,
	smi.STATUS_NOT_SUPPORTED:       ErrNotSupported,
	smi.STATUS_NOT_YET_IMPLEMENTED: ErrNotYetImplemented,
	smi.STATUS_FAIL_LOAD_MODULE:    ErrFailLoadModule,
	smi.STATUS_FAIL_LOAD_SYMBOL:    ErrFailLoadSymbol,
	smi.STATUS_DRM_ERROR:           ErrDRMError,
	smi.STATUS_API_FAILED:          ErrAPIFailed,
	smi.STATUS_TIMEOUT:             ErrTimeout,
	smi.STATUS_RETRY:               ErrRetry,
	smi.STATUS_NO_PERM:             ErrNoPerm,
	smi.STATUS_INTERRUPT:           ErrInterrupt,
	smi.STATUS_IO:                  ErrIO,
	smi.STATUS_ADDRESS_FAULT:       ErrAddressFault,
	smi.STATUS_FILE_ERROR:          ErrFileError,
	smi.STATUS_OUT_OF_RESOURCES:    ErrOutOfResources,
	smi.STATUS_INTERNAL_EXCEPTION:  ErrInternalException,
	smi.STATUS_INPUT_OUT_OF_BOUNDS: ErrInputOutOfBounds,
	smi.STATUS_INIT_ERROR:          ErrInitError,
	smi.STATUS_REFCOUNT_OVERFLOW:   ErrRefcountOverflow,
	smi.STATUS_BUSY:                ErrBusy,
	smi.STATUS_NOT_FOUND:           ErrNotFound,
	smi.STATUS_NOT_INIT:            ErrNotInit,
	smi.STATUS_NO_SLOT:             ErrNoSlot,
	smi.STATUS_DRIVER_NOT_LOADED:   ErrDriverNotLoaded,
	smi.STATUS_NO_DATA:             ErrNoData,
	smi.STATUS_INSUFFICIENT_SIZE:   ErrInsufficientSize,
	smi.STATUS_UNEXPECTED_SIZE:     ErrUnexpectedSize,
	smi.STATUS_UNEXPECTED_DATA:     ErrUnexpectedData,
	smi.STATUS_NON_AMD_CPU:         ErrNonAMDCPU,
	smi.STATUS_NO_ENERGY_DRV:       ErrNoEnergyDrv,
	smi.STATUS_NO_MSR_DRV:          ErrNoMSRDrv,
	smi.STATUS_NO_HSMP_DRV:         ErrNoHSMPDrv,
	smi.STATUS_NO_HSMP_SUP:         ErrNoHSMPSup,
	smi.STATUS_NO_HSMP_MSG_SUP:     ErrNoHSMPMsgSup,
	smi.STATUS_HSMP_TIMEOUT:        ErrHSMPTimeout,
	smi.STATUS_NO_DRV:              ErrNoDrv,
	smi.STATUS_FILE_NOT_FOUND:      ErrFileNotFound,
	smi.STATUS_ARG_PTR_NULL:        ErrArgPtrNull,
	smi.STATUS_AMDGPU_RESTART_ERR:  ErrAMDGPURestartErr,
	smi.STATUS_SETTING_UNAVAILABLE: ErrSettingUnavailable,
	smi.STATUS_CORRUPTED_EEPROM:    ErrCorruptedEEPROM,
	smi.STATUS_MAP_ERROR:           ErrMapError,
	smi.STATUS_UNKNOWN_ERROR:       ErrUnknownError,
}

var errorMessages = map[Error]string{
	ErrInval:              "invalid parameters",
	ErrNotSupported:       "command not supported",
	ErrNotYetImplemented:  "not implemented yet",
	ErrFailLoadModule:     "failed to load library",
	ErrFailLoadSymbol:     "failed to load symbol",
	ErrDRMError:           "error when calling libdrm",
	ErrAPIFailed:          "API call failed",
	ErrTimeout:            "timeout in API call",
	ErrRetry:              "retry operation",
	ErrNoPerm:             "permission denied",
	ErrInterrupt:          "an interrupt occurred during execution of function",
	ErrIO:                 "I/O error",
	ErrAddressFault:       "bad address",
	ErrFileError:          "problem accessing a file",
	ErrOutOfResources:     "not enough memory",
	ErrInternalException:  "an internal exception was caught",
	ErrInputOutOfBounds:   "the provided input is out of allowable or safe range",
	ErrInitError:          "an error occurred when initializing internal data structures",
	ErrRefcountOverflow:   "an internal reference counter exceeded INT32_MAX",
	ErrBusy:               "processor busy",
	ErrNotFound:           "processor not found",
	ErrNotInit:            "processor not initialized",
	ErrNoSlot:             "no more free slot",
	ErrDriverNotLoaded:    "processor driver not loaded",
	ErrNoData:             "no data was found for a given input",
	ErrInsufficientSize:   "not enough resources were available for the operation",
	ErrUnexpectedSize:     "an unexpected amount of data was read",
	ErrUnexpectedData:     "the data read or provided to function is not what was expected",
	ErrNonAMDCPU:          "system has a different CPU than AMD",
	ErrNoEnergyDrv:        "energy driver not found",
	ErrNoMSRDrv:           "MSR driver not found",
	ErrNoHSMPDrv:          "HSMP driver not found",
	ErrNoHSMPSup:          "HSMP not supported",
	ErrNoHSMPMsgSup:       "HSMP message/feature not supported",
	ErrHSMPTimeout:        "HSMP message timed out",
	ErrNoDrv:              "no energy and HSMP driver present",
	ErrFileNotFound:       "file or directory not found",
	ErrArgPtrNull:         "parsed argument is invalid",
	ErrAMDGPURestartErr:   "AMDGPU restart failed",
	ErrSettingUnavailable: "setting is not available",
	ErrCorruptedEEPROM:    "EEPROM is corrupted",
	ErrMapError:           "the internal library error did not map to a status code",
	ErrUnknownError:       "an unknown error occurred",
	ErrInvalidText:        "string returned by the library is not valid UTF-8",
}

func (e Error) Error() string {
	if msg, exists := errorMessages[e]; exists {
		return msg
	}
	return fmt.Sprintf("amdsmi error %d", uint32(e))
}

// Status returns the native status code behind the error and whether the
// error has one.
func (e Error) Status() (uint32, bool) {
	if e == ErrInvalidText {
		return 0, false
	}
	return uint32(e), true
}

// FromStatus converts a native status code into an error. Success maps to
// nil; codes not defined by the library map to ErrUnknownError.
func FromStatus(ret smi.Return) error {
	if ret == smi.STATUS_SUCCESS {
		return nil
	}
	if e, exists := statusErrors[ret]; exists {
		return e
	}
	log.Debugf("Unmapped AMD SMI status code: %d", uint32(ret))
	return ErrUnknownError
}

// KindOf returns the Error kind wrapped by err.
func KindOf(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return 0, false
}
