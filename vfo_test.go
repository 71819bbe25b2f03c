// go-rig
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rig.
//
// go-rig is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rig is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rig; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVFO(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want VFO
	}{
		{in: "VFOA", want: VFOA},
		{in: "vfob", want: VFOB},
		{in: "A", want: VFOA},
		{in: "b", want: VFOB},
		{in: "Main", want: VFOMain},
		{in: "SUB", want: VFOSub},
		{in: "MEM", want: VFOMem},
		{in: "currVFO", want: VFOCurr},
		{in: "current", want: VFOCurr},
		{in: "TX", want: VFOTx},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVFO(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseVFO("VFOZ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVFOString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "None", VFONone.String())
	assert.Equal(t, "VFOA", VFOA.String())
	assert.Equal(t, "VFOA|VFOB", (VFOA | VFOB).String())
	assert.Equal(t, "currVFO", VFOCurr.String())
	assert.Equal(t, "VFO(0x10000)", VFO(1<<16).String())

	for _, v := range []VFO{VFOA, VFOB, VFOMain, VFOSub, VFOMem, VFOCurr} {
		parsed, err := ParseVFO(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestFreqString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "blank", FreqNone.String())
	assert.Contains(t, Freq(14_250_000).String(), "MHz")
	assert.Contains(t, Freq(1<<62).String(), "Hz")
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for m, name := range modeNames {
		if m == ModeNone {
			continue
		}
		got, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("usb")
	require.NoError(t, err)
	assert.Equal(t, ModeUSB, got)

	_, err = ParseMode("None")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ParseMode("PKTUSB")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	got, err := ParseLevel("rfpower")
	require.NoError(t, err)
	assert.Equal(t, LevelRFPower, got)
	assert.Equal(t, "RFPOWER", got.String())

	_, err = ParseLevel("VOX")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVFOOpString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CPY", OpCopy.String())
	assert.Equal(t, "XCHG", OpExchange.String())
	assert.Equal(t, "VFOOp(9)", VFOOp(9).String())
}
