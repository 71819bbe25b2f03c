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

import "time"

// Targetable flags name the parameters a backend can read or write on a
// VFO other than the selected one without swapping.
type Targetable uint32

const (
	TargetableFreq Targetable = 1 << iota
	TargetableMode
	TargetablePTT
	TargetableSplit
	TargetableLevel
	TargetableVFOOp
	TargetableRIT
	TargetableRptr
	TargetableMem

	TargetableNone Targetable = 0
	TargetableAll             = TargetableFreq | TargetableMode | TargetablePTT |
		TargetableSplit | TargetableLevel | TargetableVFOOp | TargetableRIT |
		TargetableRptr | TargetableMem
)

// Capabilities describes one rig model. Values are shared between handles
// and must not be modified after registration.
type Capabilities struct {
	ModelName      string
	Manufacturer   string
	Backend        string
	Levels         []Level
	VFOOps         []VFOOp
	Timeout        time.Duration
	ModelID        int
	SerialRate     int
	Retries        int
	VFOs           VFO
	Targetable     Targetable
	DefaultAddress byte
	// HasVFOQuery reports that the rig answers a direct "which VFO is
	// selected" status command.
	HasVFOQuery bool
	// HasSatMode reports a satellite/dual-watch mode that pins rx/tx to Main/Sub.
	HasSatMode bool
	// HasTargetCommands reports selected/unselected VFO frequency and mode
	// commands, used to read the other VFO without swapping.
	HasTargetCommands bool
	// AbsoluteVFO reports a backend that addresses every VFO by name and
	// never needs to know which one is selected.
	AbsoluteVFO bool
	// FreqBytes is the length of the BCD frequency field (4 or 5).
	FreqBytes int
	// MaxRIT is the largest RIT offset magnitude; zero means no RIT.
	MaxRIT ShortFreq
	// HasRepeater reports repeater shift and offset commands.
	HasRepeater bool
	// MemChannels is the highest memory channel number. Channels count
	// from 1; zero means no addressable memories.
	MemChannels int
}

// Topology derives the VFO topology from the supported VFO set.
func (c *Capabilities) Topology() Topology {
	hasAB := c.VFOs&(VFOA|VFOB) == VFOA|VFOB
	hasMainSub := c.VFOs&(VFOMain|VFOSub) == VFOMain|VFOSub
	switch {
	case hasAB && hasMainSub:
		return TopologyMainSubAB
	case hasMainSub:
		return TopologyMainSub
	case hasAB:
		return TopologyAB
	default:
		return TopologyOther
	}
}

// HasVFO reports whether every VFO in v is supported.
func (c *Capabilities) HasVFO(v VFO) bool {
	return v != VFONone && c.VFOs&v == v
}

// CanTarget reports whether the parameter can be addressed on any VFO.
func (c *Capabilities) CanTarget(t Targetable) bool {
	return c.Targetable&t == t
}

// HasLevel reports whether the model exposes the level.
func (c *Capabilities) HasLevel(l Level) bool {
	for _, have := range c.Levels {
		if have == l {
			return true
		}
	}
	return false
}

// HasVFOOp reports whether the model implements the VFO operation.
func (c *Capabilities) HasVFOOp(op VFOOp) bool {
	for _, have := range c.VFOOps {
		if have == op {
			return true
		}
	}
	return false
}

// Primary returns the VFO a freshly opened session should consider selected.
func (c *Capabilities) Primary() VFO {
	switch c.Topology() {
	case TopologyAB, TopologyMainSubAB:
		return VFOA
	case TopologyMainSub:
		return VFOMain
	default:
		return VFOCurr
	}
}
