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
	"fmt"
	"time"

	rig "github.com/ZaparooProject/go-rig"
)

// Model ids
const (
	ModelIC706MKIIG = 311
	ModelIC735      = 319
	ModelICR75      = 339
	ModelIC910      = 344
	ModelIC746PRO   = 346
	ModelIC7300     = 373
	ModelIC9700     = 381
)

// Default bus addresses of known Icom rigs. Several rigs share an address;
// the first model registered for an address wins in a bus scan.
var knownAddresses = map[byte]string{
	0x02: "IC-731",
	0x04: "IC-735",
	0x10: "IC-275",
	0x16: "IC-1275",
	0x1E: "IC-471",
	0x3C: "IC-761",
	0x48: "IC-706",
	0x4A: "IC-R7100",
	0x4E: "IC-706MKII",
	0x50: "IC-756",
	0x58: "IC-706MKIIG",
	0x5A: "IC-R75",
	0x5C: "IC-756PRO",
	0x60: "IC-910H",
	0x64: "IC-756PROII",
	0x66: "IC-746PRO",
	0x6A: "IC-7800",
	0x70: "IC-7000",
	0x7C: "IC-7200",
	0x80: "IC-7410",
	0x88: "IC-7100",
	0x8C: "IC-7600",
	0x94: "IC-7300",
	0xA2: "IC-9700",
	0xA4: "IC-705",
}

// AddressName names the rig that uses addr by default.
func AddressName(addr byte) (string, bool) {
	name, ok := knownAddresses[addr]
	return name, ok
}

var hfLevels = []rig.Level{rig.LevelAF, rig.LevelRF, rig.LevelSQL, rig.LevelRFPower}

func icomCaps(id int, name string, addr byte) *rig.Capabilities {
	return &rig.Capabilities{
		ModelID:        id,
		ModelName:      name,
		Manufacturer:   "Icom",
		Backend:        "civ",
		DefaultAddress: addr,
		Timeout:        time.Second,
		Retries:        3,
		SerialRate:     19200,
		FreqBytes:      5,
		MemChannels:    99,
	}
}

// Models returns the capability descriptors of the supported Icom rigs.
// Each call returns fresh values.
func Models() []*rig.Capabilities {
	ic706 := icomCaps(ModelIC706MKIIG, "IC-706MKIIG", 0x58)
	ic706.VFOs = rig.VFOA | rig.VFOB | rig.VFOMem
	ic706.VFOOps = []rig.VFOOp{rig.OpCopy, rig.OpExchange, rig.OpToVFO}
	ic706.Levels = hfLevels
	ic706.HasRepeater = true
	ic706.Timeout = 200 * time.Millisecond

	ic735 := icomCaps(ModelIC735, "IC-735", 0x04)
	ic735.VFOs = rig.VFOA | rig.VFOB | rig.VFOMem
	ic735.VFOOps = []rig.VFOOp{rig.OpToVFO}
	ic735.FreqBytes = 4
	ic735.MemChannels = 12
	ic735.SerialRate = 1200
	ic735.Timeout = 200 * time.Millisecond

	icr75 := icomCaps(ModelICR75, "IC-R75", 0x5A)
	icr75.VFOs = rig.VFOVFO | rig.VFOMem
	icr75.VFOOps = []rig.VFOOp{rig.OpToVFO}
	icr75.Levels = []rig.Level{rig.LevelAF, rig.LevelRF, rig.LevelSQL, rig.LevelNR}
	icr75.Timeout = 200 * time.Millisecond

	ic910 := icomCaps(ModelIC910, "IC-910H", 0x60)
	ic910.VFOs = rig.VFOMain | rig.VFOSub
	ic910.VFOOps = []rig.VFOOp{rig.OpExchange}
	ic910.Levels = hfLevels
	ic910.HasVFOQuery = true
	ic910.HasRepeater = true

	ic746 := icomCaps(ModelIC746PRO, "IC-746PRO", 0x66)
	ic746.VFOs = rig.VFOA | rig.VFOB | rig.VFOMem
	ic746.VFOOps = []rig.VFOOp{rig.OpCopy, rig.OpExchange, rig.OpToVFO}
	ic746.Levels = hfLevels
	ic746.HasRepeater = true

	ic7300 := icomCaps(ModelIC7300, "IC-7300", 0x94)
	ic7300.VFOs = rig.VFOA | rig.VFOB | rig.VFOMem
	ic7300.VFOOps = []rig.VFOOp{rig.OpCopy, rig.OpExchange, rig.OpToVFO}
	ic7300.Levels = append([]rig.Level{rig.LevelNR, rig.LevelMicGain}, hfLevels...)
	ic7300.HasTargetCommands = true
	ic7300.Targetable = rig.TargetableFreq | rig.TargetableMode
	ic7300.SerialRate = 115200
	ic7300.MaxRIT = 9999

	ic9700 := icomCaps(ModelIC9700, "IC-9700", 0xA2)
	ic9700.VFOs = rig.VFOA | rig.VFOB | rig.VFOMain | rig.VFOSub | rig.VFOMem
	ic9700.VFOOps = []rig.VFOOp{rig.OpCopy, rig.OpExchange, rig.OpToVFO}
	ic9700.Levels = append([]rig.Level{rig.LevelNR, rig.LevelMicGain}, hfLevels...)
	ic9700.HasVFOQuery = true
	ic9700.HasSatMode = true
	ic9700.HasTargetCommands = true
	ic9700.SerialRate = 115200
	ic9700.MaxRIT = 9999
	ic9700.HasRepeater = true

	return []*rig.Capabilities{ic706, ic735, icr75, ic910, ic746, ic7300, ic9700}
}

// Register adds every supported Icom model to reg.
func Register(reg *rig.Registry, opts ...Option) error {
	for _, caps := range Models() {
		if err := reg.Register(rig.Model{Caps: caps, New: Factory(opts...)}); err != nil {
			return fmt.Errorf("failed to register %s: %w", caps.ModelName, err)
		}
	}
	return nil
}

// Factory returns a backend factory applying opts to every backend it builds.
func Factory(opts ...Option) rig.BackendFactory {
	return func(cfg rig.BackendConfig) (rig.Backend, error) {
		return NewBackend(cfg, opts...)
	}
}
