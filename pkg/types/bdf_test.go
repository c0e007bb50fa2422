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

package types

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBDF(t *testing.T) {
	testCases := []struct {
		description string
		value       uint64
		expected    BDF
		address     string
	}{
		{
			"Zero",
			0,
			BDF{},
			"0000:00:00.0",
		},
		{
			"MI300X on bus 0x05",
			0x0500,
			BDF{Bus: 0x05},
			"0000:05:00.0",
		},
		{
			"All fields set",
			(0x1234 << 16) | (0xc6 << 8) | (0x1f << 3) | 0x7,
			BDF{Function: 0x7, Device: 0x1f, Bus: 0xc6, Domain: 0x1234},
			"1234:c6:1f.7",
		},
		{
			"All bits set",
			0xFFFFFFFFFFFFFFFF,
			BDF{Function: 0x7, Device: 0x1f, Bus: 0xff, Domain: 0xFFFFFFFFFFFF},
			"ffffffffffff:ff:1f.7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			bdf := NewBDF(tc.value)
			require.Equal(t, tc.expected, bdf)
			require.Equal(t, tc.address, bdf.String())
			require.Equal(t, tc.value, bdf.Uint64())
		})
	}
}

func TestBDFRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		v := r.Uint64()
		bdf := NewBDF(v)
		require.Less(t, bdf.Function, uint64(8))
		require.Less(t, bdf.Device, uint64(32))
		require.Less(t, bdf.Bus, uint64(256))
		require.Equal(t, v, (bdf.Domain<<16)|(bdf.Bus<<8)|(bdf.Device<<3)|bdf.Function)
	}
}

func TestParseBDF(t *testing.T) {
	testCases := []struct {
		description string
		address     string
		expected    BDF
		valid       bool
	}{
		{
			"Valid address",
			"0000:c6:00.0",
			BDF{Bus: 0xc6},
			true,
		},
		{
			"Valid address with function",
			"0001:05:02.3",
			BDF{Domain: 1, Bus: 0x05, Device: 0x02, Function: 0x3},
			true,
		},
		{
			"Empty address",
			"",
			BDF{},
			false,
		},
		{
			"Missing function",
			"0000:c6:00",
			BDF{},
			false,
		},
		{
			"Device out of range",
			"0000:c6:20.0",
			BDF{},
			false,
		},
		{
			"Function out of range",
			"0000:c6:00.8",
			BDF{},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			bdf, err := ParseBDF(tc.address)
			if !tc.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, bdf)
			require.Equal(t, tc.address, bdf.String())
		})
	}
}
