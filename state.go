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

// VFOCache holds the last confirmed values of one VFO.
type VFOCache struct {
	Freq     Freq
	Mode     Mode
	Passband Passband
	HasFreq  bool
	HasMode  bool
}

// State is the mutable session state of one open handle. Backends share it
// with the handle; CurrentVFO only changes after the rig confirmed a change.
type State struct {
	cache      map[VFO]VFOCache
	Timeout    time.Duration
	Retries    int
	CurrentVFO VFO
	RxVFO      VFO
	TxVFO      VFO
	Split      bool
	SatMode    bool
	// ProbeDone records that the rig confirmed CurrentVFO. InvalidateVFO
	// clears it; CurrentVFO is then only a hint for the resolver.
	ProbeDone bool
	// DirectVFOUnavailable is set once the direct VFO query was rejected.
	DirectVFOUnavailable bool
	Address              byte
}

// NewState creates the initial session state for a model.
func NewState(caps *Capabilities) *State {
	rx, tx := RxTx(caps.Topology(), false, false)
	return &State{
		cache:      make(map[VFO]VFOCache),
		Timeout:    caps.Timeout,
		Retries:    caps.Retries,
		CurrentVFO: VFOCurr,
		RxVFO:      rx,
		TxVFO:      tx,
		Address:    caps.DefaultAddress,
	}
}

// CurrentKnown reports whether CurrentVFO names a concrete VFO the rig
// confirmed since the last InvalidateVFO.
func (s *State) CurrentKnown() bool {
	return s.ProbeDone && s.CurrentVFO != VFOCurr && s.CurrentVFO != VFONone
}

// SetCurrent records vfo as the selected VFO the rig confirmed.
func (s *State) SetCurrent(vfo VFO) {
	s.CurrentVFO = vfo
	s.ProbeDone = true
}

// CacheFreq records a confirmed frequency.
func (s *State) CacheFreq(vfo VFO, f Freq) {
	c := s.cache[vfo]
	c.Freq = f
	c.HasFreq = true
	s.cache[vfo] = c
}

// CacheMode records a confirmed mode and passband.
func (s *State) CacheMode(vfo VFO, m Mode, pb Passband) {
	c := s.cache[vfo]
	c.Mode = m
	c.Passband = pb
	c.HasMode = true
	s.cache[vfo] = c
}

// Cached returns the cached values of vfo.
func (s *State) Cached(vfo VFO) (VFOCache, bool) {
	c, ok := s.cache[vfo]
	return c, ok
}

// InvalidateVFO forgets the resolved VFO so the next query resolves again.
func (s *State) InvalidateVFO() {
	s.ProbeDone = false
}

// SetSplit records a confirmed split state and remaps rx/tx.
func (s *State) SetSplit(topo Topology, split bool) {
	s.Split = split
	s.RxVFO, s.TxVFO = RxTx(topo, split, s.SatMode)
}

// Snapshot returns a copy that does not share the cache with s.
func (s *State) Snapshot() State {
	cp := *s
	cp.cache = make(map[VFO]VFOCache, len(s.cache))
	for k, v := range s.cache {
		cp.cache[k] = v
	}
	return cp
}
