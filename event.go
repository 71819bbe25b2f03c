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

// HandleEvent applies an unsolicited update from the rig to the session cache.
func (r *Rig) HandleEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vfo := ev.VFO
	if vfo == VFONone || vfo == VFOCurr {
		vfo = r.cacheKey(VFOCurr)
	}
	if ev.HasFreq {
		r.state.CacheFreq(vfo, ev.Freq)
	}
	if ev.HasMode {
		r.state.CacheMode(vfo, ev.Mode, ev.Passband)
	}
}

// HandleFrame decodes a raw transceive frame with the backend and applies it.
func (r *Rig) HandleFrame(raw []byte) (Event, error) {
	dec, ok := r.backend.(EventDecoder)
	if !ok {
		return Event{}, NewError("decode_event", r.port.String(), ErrNotAvailable)
	}
	ev, err := dec.DecodeEvent(raw)
	if err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	r.HandleEvent(ev)
	return ev, nil
}
