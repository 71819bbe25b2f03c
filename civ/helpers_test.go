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

package civ

import (
	"testing"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	testutil "github.com/ZaparooProject/go-rig/internal/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func capsFor(t *testing.T, id int) *rig.Capabilities {
	t.Helper()
	for _, caps := range Models() {
		if caps.ModelID == id {
			return caps
		}
	}
	require.Failf(t, "unknown model", "%d", id)
	return nil
}

// radioFor creates a simulated rig matching caps, with the primary VFO selected.
func radioFor(caps *rig.Capabilities) *testutil.VirtualRadio {
	var vfos []rig.VFO
	for _, v := range []rig.VFO{rig.VFOA, rig.VFOB, rig.VFOMain, rig.VFOSub, rig.VFOVFO, rig.VFOMem} {
		if caps.HasVFO(v) {
			vfos = append(vfos, v)
		}
	}
	radio := testutil.NewVirtualRadio(caps.DefaultAddress, vfos...)
	if caps.FreqBytes == 4 {
		radio.FreqDigits = 8
	}
	radio.TargetCommands = caps.HasTargetCommands
	radio.BandQuery = caps.HasVFOQuery
	return radio
}

func newTestBackend(t *testing.T, id int, port rig.Port) (*Backend, *rig.State) {
	t.Helper()
	return newLoggedBackend(t, id, port, zaptest.NewLogger(t))
}

func newLoggedBackend(t *testing.T, id int, port rig.Port, logger *zap.Logger) (*Backend, *rig.State) {
	t.Helper()
	caps := capsFor(t, id)
	state := rig.NewState(caps)
	state.Timeout = 10 * time.Millisecond
	b, err := NewBackend(rig.BackendConfig{
		Caps:   caps,
		Port:   port,
		State:  state,
		Logger: logger,
	}, WithCollisionBackoff(time.Millisecond))
	require.NoError(t, err)
	return b, state
}
