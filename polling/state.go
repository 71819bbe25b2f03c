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

package polling

import (
	"time"

	rig "github.com/ZaparooProject/go-rig"
)

// LinkState is the monitor's view of whether the rig answers.
type LinkState int

const (
	StateUnknown LinkState = iota
	StateOnline
	StateOffline
)

func (s LinkState) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// RigState is the last known rig status.
type RigState struct {
	LastSeenTime time.Time
	LastError    error
	Freq         rig.Freq
	Mode         rig.Mode
	Passband     rig.Passband
	Failures     int
	Link         LinkState
	PTT          bool
	// HaveFreq and friends report whether the value was read at least once.
	HaveFreq bool
	HaveMode bool
	HavePTT  bool
}

// TransitionToOnline records a successful cycle. It reports whether the
// link state changed.
func (s *RigState) TransitionToOnline() bool {
	changed := s.Link != StateOnline
	s.Link = StateOnline
	s.Failures = 0
	s.LastError = nil
	s.LastSeenTime = time.Now()
	return changed
}

// RecordFailure counts a failed cycle and moves to offline once limit
// consecutive cycles failed. It reports whether the link state changed.
func (s *RigState) RecordFailure(err error, limit int) bool {
	s.Failures++
	s.LastError = err
	if s.Failures < limit || s.Link == StateOffline {
		return false
	}
	s.Link = StateOffline
	return true
}

// TransitionToOffline forgets the cached values so the first cycle after
// the rig returns reports every value again.
func (s *RigState) TransitionToOffline() {
	s.HaveFreq = false
	s.HaveMode = false
	s.HavePTT = false
}
