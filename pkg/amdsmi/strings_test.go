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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	testCases := []struct {
		description string
		buf         []byte
		expected    string
		err         error
	}{
		{
			"NUL padded",
			append([]byte("MI300X"), make([]byte, 250)...),
			"MI300X",
			nil,
		},
		{
			"Whitespace and NUL padded",
			append([]byte("  AMD Instinct MI300X \n"), make([]byte, 16)...),
			"AMD Instinct MI300X",
			nil,
		},
		{
			"Text after the first NUL is dropped",
			[]byte("EPYC\x00stale"),
			"EPYC",
			nil,
		},
		{
			"Not NUL terminated",
			[]byte("0000:05:00"),
			"0000:05:00",
			nil,
		},
		{
			"All NUL",
			make([]byte, 38),
			"",
			nil,
		},
		{
			"Empty buffer",
			nil,
			"",
			nil,
		},
		{
			"Invalid UTF-8",
			[]byte{0xff, 0xfe, 'x', 0},
			"",
			ErrInvalidText,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s, err := CleanString(tc.buf)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, s)
		})
	}
}

// Trimming whitespace before or after removing NUL padding gives the same
// result for printable ASCII text.
func TestCleanStringTrimOrder(t *testing.T) {
	inputs := []string{"MI300X", "EPYC 9654", "gfx942", "a", ""}
	for _, in := range inputs {
		for _, pad := range []int{0, 1, 37, 255} {
			buf := append([]byte(in), make([]byte, pad)...)

			whitespaceFirst := strings.Trim(strings.TrimSpace(string(buf)), "\x00")
			nulFirst := strings.TrimSpace(string(bytes.TrimRight(buf, "\x00")))

			s, err := CleanString(buf)
			require.NoError(t, err)
			require.Equal(t, in, s)
			require.Equal(t, whitespaceFirst, s)
			require.Equal(t, nulFirst, s)
		}
	}
}
