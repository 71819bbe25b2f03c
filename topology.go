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

import "fmt"

// Topology is the physical VFO arrangement of a rig.
type Topology int

const (
	// TopologyOther covers rigs without a selectable VFO pair.
	TopologyOther Topology = iota
	// TopologyAB is an A/B pair.
	TopologyAB
	// TopologyMainSub is a Main/Sub receiver pair.
	TopologyMainSub
	// TopologyMainSubAB has Main/Sub receivers, each with A/B.
	TopologyMainSubAB
)

func (t Topology) String() string {
	switch t {
	case TopologyAB:
		return "AB"
	case TopologyMainSub:
		return "MainSub"
	case TopologyMainSubAB:
		return "MainSubAB"
	case TopologyOther:
		return "Other"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// RxTx maps a topology and split state to the receive and transmit VFOs.
// satMode only matters for TopologyMainSubAB, where it pins the pair to Main/Sub.
func RxTx(topo Topology, split, satMode bool) (rx, tx VFO) {
	switch topo {
	case TopologyAB:
		if split {
			return VFOA, VFOB
		}
		return VFOA, VFOA
	case TopologyMainSub:
		if split {
			return VFOMain, VFOSub
		}
		return VFOMain, VFOMain
	case TopologyMainSubAB:
		if satMode {
			return VFOMain, VFOSub
		}
		if split {
			return VFOA, VFOB
		}
		return VFOA, VFOA
	default:
		return VFOCurr, VFOCurr
	}
}

// Pair returns the two selectable VFOs the resolver distinguishes between.
// ok is false for TopologyOther.
func Pair(topo Topology, satMode bool) (first, second VFO, ok bool) {
	switch topo {
	case TopologyAB:
		return VFOA, VFOB, true
	case TopologyMainSub:
		return VFOMain, VFOSub, true
	case TopologyMainSubAB:
		if satMode {
			return VFOMain, VFOSub, true
		}
		return VFOA, VFOB, true
	default:
		return VFONone, VFONone, false
	}
}
