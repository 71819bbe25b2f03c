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

// Config controls a Monitor.
type Config struct {
	// VFO is polled. VFOCurr follows whatever the operator selects.
	VFO rig.VFO
	// PollInterval is the pause between two poll cycles.
	PollInterval time.Duration
	// OfflineAfter is the number of consecutive failed cycles after which
	// the rig is reported offline.
	OfflineAfter int
	// SkipMode and SkipPTT leave those values out of each cycle.
	SkipMode bool
	SkipPTT  bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		VFO:          rig.VFOCurr,
		PollInterval: 250 * time.Millisecond,
		OfflineAfter: 3,
	}
}
