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
)

// Return is the raw amdsmi_status_t returned by every call into the library.
type Return uint32

// Status codes as defined in amdsmi.h.
const (
	STATUS_SUCCESS             Return = 0
	STATUS_INVAL               Return = 1
	STATUS_NOT_SUPPORTED       Return = 2
	STATUS_NOT_YET_IMPLEMENTED Return = 3
	STATUS_FAIL_LOAD_MODULE    Return = 4
	STATUS_FAIL_LOAD_SYMBOL    Return = 5
	STATUS_DRM_ERROR           Return = 6
	STATUS_API_FAILED          Return = 7
	STATUS_TIMEOUT             Return = 8
	STATUS_RETRY               Return = 9
	STATUS_NO_PERM             Return = 10
	STATUS_INTERRUPT           Return = 11
	STATUS_IO                  Return = 12
	STATUS_ADDRESS_FAULT       Return = 13
	STATUS_FILE_ERROR          Return = 14
	STATUS_OUT_OF_RESOURCES    Return = 15
	STATUS_INTERNAL_EXCEPTION  Return = 16
	STATUS_INPUT_OUT_OF_BOUNDS Return = 17
	STATUS_INIT_ERROR          Return = 18
	STATUS_REFCOUNT_OVERFLOW   Return = 19
	STATUS_BUSY                Return = 30
	STATUS_NOT_FOUND           Return = 31
	STATUS_NOT_INIT            Return = 32
	STATUS_NO_SLOT             Return = 33
	STATUS_DRIVER_NOT_LOADED   Return = 34
	STATUS_NO_DATA             Return = 40
	STATUS_INSUFFICIENT_SIZE   Return = 41
	STATUS_UNEXPECTED_SIZE     Return = 42
	STATUS_UNEXPECTED_DATA     Return = 43
	STATUS_NON_AMD_CPU         Return = 44
	STATUS_NO_ENERGY_DRV       Return = 45
	STATUS_NO_MSR_DRV          Return = 46
	STATUS_NO_HSMP_DRV         Return = 47
	STATUS_NO_HSMP_SUP         Return = 48
	STATUS_NO_HSMP_MSG_SUP     Return = 49
	STATUS_HSMP_TIMEOUT        Return = 50
	STATUS_NO_DRV              Return = 51
	STATUS_FILE_NOT_FOUND      Return = 52
	STATUS_ARG_PTR_NULL        Return = 53
	STATUS_AMDGPU_RESTART_ERR  Return = 54
	STATUS_SETTING_UNAVAILABLE Return = 55
	STATUS_CORRUPTED_EEPROM    Return = 56
	STATUS_MAP_ERROR           Return = 0xFFFFFFFE
	STATUS_UNKNOWN_ERROR       Return = 0xFFFFFFFF
)

var returnNames = map[Return]string{
	STATUS_SUCCESS:             "AMDSMI_STATUS_SUCCESS",
	STATUS_INVAL:               "AMDSMI_STATUS_INVAL",
	STATUS_NOT_SUPPORTED:       "AMDSMI_STATUS_NOT_SUPPORTED",
	STATUS_NOT_YET_IMPLEMENTED: "AMDSMI_STATUS_NOT_YET_IMPLEMENTED",
	STATUS_FAIL_LOAD_MODULE:    "AMDSMI_STATUS_FAIL_LOAD_MODULE",
	STATUS_FAIL_LOAD_SYMBOL:    "AMDSMI_STATUS_FAIL_LOAD_SYMBOL",
	STATUS_DRM_ERROR:           "AMDSMI_STATUS_DRM_ERROR",
	STATUS_API_FAILED:          "AMDSMI_STATUS_API_FAILED",
	STATUS_TIMEOUT:             "AMDSMI_STATUS_TIMEOUT",
	STATUS_RETRY:               "AMDSMI_STATUS_RETRY",
	STATUS_NO_PERM:             "AMDSMI_STATUS_NO_PERM",
	STATUS_INTERRUPT:           "AMDSMI_STATUS_INTERRUPT",
	STATUS_IO:                  "AMDSMI_STATUS_IO",
	STATUS_ADDRESS_FAULT:       "AMDSMI_STATUS_ADDRESS_FAULT",
	STATUS_FILE_ERROR:          "AMDSMI_STATUS_FILE_ERROR",
	STATUS_OUT_OF_RESOURCES:    "AMDSMI_STATUS_OUT_OF_RESOURCES",
	STATUS_INTERNAL_EXCEPTION:  "AMDSMI_STATUS_INTERNAL_EXCEPTION",
	STATUS_INPUT_OUT_OF_BOUNDS: "AMDSMI_STATUS_INPUT_OUT_OF_BOUNDS",
	STATUS_INIT_ERROR:          "AMDSMI_STATUS_INIT_ERROR",
	STATUS_REFCOUNT_OVERFLOW:   "AMDSMI_STATUS_REFCOUNT_OVERFLOW",
	STATUS_BUSY:                "AMDSMI_STATUS_BUSY",
	STATUS_NOT_FOUND:           "AMDSMI_STATUS_NOT_FOUND",
	STATUS_NOT_INIT:            "AMDSMI_STATUS_NOT_INIT",
	STATUS_NO_SLOT:             "AMDSMI_STATUS_NO_SLOT",
	STATUS_DRIVER_NOT_LOADED:   "AMDSMI_STATUS_DRIVER_NOT_LOADED",
	STATUS_NO_DATA:             "AMDSMI_STATUS_NO_DATA",
	STATUS_INSUFFICIENT_SIZE:   "AMDSMI_STATUS_INSUFFICIENT_SIZE",
	STATUS_UNEXPECTED_SIZE:     "AMDSMI_STATUS_UNEXPECTED_SIZE",
	STATUS_UNEXPECTED_DATA:     "AMDSMI_STATUS_UNEXPECTED_DATA",
	STATUS_NON_AMD_CPU:         "AMDSMI_STATUS_NON_AMD_CPU",
	STATUS_NO_ENERGY_DRV:       "AMDSMI_STATUS_NO_ENERGY_DRV",
	STATUS_NO_MSR_DRV:          "AMDSMI_STATUS_NO_MSR_DRV",
	STATUS_NO_HSMP_DRV:         "AMDSMI_STATUS_NO_HSMP_DRV",
	STATUS_NO_HSMP_SUP:         "AMDSMI_STATUS_NO_HSMP_SUP",
	STATUS_NO_HSMP_MSG_SUP:     "AMDSMI_STATUS_NO_HSMP_MSG_SUP",
	STATUS_HSMP_TIMEOUT:        "AMDSMI_STATUS_HSMP_TIMEOUT",
	STATUS_NO_DRV:              "AMDSMI_STATUS_NO_DRV",
	STATUS_FILE_NOT_FOUND:      "AMDSMI_STATUS_FILE_NOT_FOUND",
	STATUS_ARG_PTR_NULL:        "AMDSMI_STATUS_ARG_PTR_NULL",
	STATUS_AMDGPU_RESTART_ERR:  "AMDSMI_STATUS_AMDGPU_RESTART_ERR",
	STATUS_SETTING_UNAVAILABLE: "AMDSMI_STATUS_SETTING_UNAVAILABLE",
	STATUS_CORRUPTED_EEPROM:    "AMDSMI_STATUS_CORRUPTED_EEPROM",
	STATUS_MAP_ERROR:           "AMDSMI_STATUS_MAP_ERROR",
	STATUS_UNKNOWN_ERROR:       "AMDSMI_STATUS_UNKNOWN_ERROR",
}

// Value returns the raw status code.
func (r Return) Value() uint32 {
	return uint32(r)
}

// IsKnown reports whether r is one of the codes defined in amdsmi.h.
func (r Return) IsKnown() bool {
	_, exists := returnNames[r]
	return exists
}

// String returns the amdsmi.h name of the status code.
func (r Return) String() string {
	if name, exists := returnNames[r]; exists {
		return name
	}
	return fmt.Sprintf("AMDSMI_STATUS_%d", uint32(r))
}

// Error implements the error interface so that a Return can be passed
// around directly where the caller does not need a typed error.
func (r Return) Error() string {
	return r.String()
}
