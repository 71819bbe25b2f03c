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

// Package polling watches a rig by polling it and reports changes through
// callbacks.
package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	rig "github.com/ZaparooProject/go-rig"
)

// Source is what the monitor polls. *rig.Rig implements it.
type Source interface {
	GetFreq(ctx context.Context, vfo rig.VFO) (rig.Freq, error)
	GetMode(ctx context.Context, vfo rig.VFO) (rig.Mode, rig.Passband, error)
	GetPTT(ctx context.Context, vfo rig.VFO) (bool, error)
}

// Monitor polls a rig and calls back on every change. Callbacks run on
// the polling goroutine and must not block for long.
type Monitor struct {
	source        Source
	config        *Config
	OnFreqChanged func(f rig.Freq)
	OnModeChanged func(m rig.Mode, pb rig.Passband)
	OnPTTChanged  func(on bool)
	OnOnline      func()
	OnOffline     func(err error)
	// OnError receives failures other than timeouts.
	OnError    func(err error)
	pauseChan  chan struct{}
	resumeChan chan struct{}
	state      RigState
	mu         sync.Mutex
	isPaused   atomic.Bool
	noMode     bool
	noPTT      bool
}

// NewMonitor creates a monitor for source.
func NewMonitor(source Source, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		source:     source,
		config:     config,
		pauseChan:  make(chan struct{}, 1),
		resumeChan: make(chan struct{}, 1),
	}
}

// Start polls until ctx ends and returns its error.
func (m *Monitor) Start(ctx context.Context) error {
	for {
		if m.isPaused.Load() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-m.resumeChan:
			}
			continue
		}

		if err := m.Poll(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.pauseChan:
		case <-time.After(m.config.PollInterval):
		}
	}
}

// Pause suspends polling after the current cycle, e.g. while another
// client talks to the rig.
func (m *Monitor) Pause() {
	if m.isPaused.CompareAndSwap(false, true) {
		select {
		case m.pauseChan <- struct{}{}:
		default:
		}
	}
}

// Resume continues polling.
func (m *Monitor) Resume() {
	if m.isPaused.CompareAndSwap(true, false) {
		select {
		case m.resumeChan <- struct{}{}:
		default:
		}
	}
}

// GetState returns a copy of the last known state.
func (m *Monitor) GetState() RigState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Poll runs one cycle: frequency, then mode and PTT unless skipped or not
// supported by the rig.
func (m *Monitor) Poll(ctx context.Context) error {
	vfo := m.config.VFO
	if vfo == rig.VFONone {
		vfo = rig.VFOCurr
	}

	f, err := m.source.GetFreq(ctx, vfo)
	if err != nil {
		return m.fail(fmt.Errorf("poll frequency: %w", err))
	}
	m.update(func(s *RigState) func() {
		if s.HaveFreq && s.Freq == f {
			return nil
		}
		s.Freq, s.HaveFreq = f, true
		if m.OnFreqChanged == nil {
			return nil
		}
		return func() { m.OnFreqChanged(f) }
	})

	if !m.config.SkipMode && !m.noMode {
		mode, pb, err := m.source.GetMode(ctx, vfo)
		switch {
		case rig.KindOf(err) == rig.KindNotAvailable:
			m.noMode = true
		case err != nil:
			return m.fail(fmt.Errorf("poll mode: %w", err))
		default:
			m.update(func(s *RigState) func() {
				if s.HaveMode && s.Mode == mode && s.Passband == pb {
					return nil
				}
				s.Mode, s.Passband, s.HaveMode = mode, pb, true
				if m.OnModeChanged == nil {
					return nil
				}
				return func() { m.OnModeChanged(mode, pb) }
			})
		}
	}

	if !m.config.SkipPTT && !m.noPTT {
		on, err := m.source.GetPTT(ctx, vfo)
		switch {
		case rig.KindOf(err) == rig.KindNotAvailable:
			m.noPTT = true
		case err != nil:
			return m.fail(fmt.Errorf("poll ptt: %w", err))
		default:
			m.update(func(s *RigState) func() {
				if s.HavePTT && s.PTT == on {
					return nil
				}
				s.PTT, s.HavePTT = on, true
				if m.OnPTTChanged == nil {
					return nil
				}
				return func() { m.OnPTTChanged(on) }
			})
		}
	}

	m.update(func(s *RigState) func() {
		if !s.TransitionToOnline() || m.OnOnline == nil {
			return nil
		}
		return m.OnOnline
	})
	return nil
}

// update applies fn under the lock and runs the callback it returns
// after unlocking.
func (m *Monitor) update(fn func(s *RigState) func()) {
	m.mu.Lock()
	notify := fn(&m.state)
	m.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (m *Monitor) fail(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	limit := m.config.OfflineAfter
	if limit <= 0 {
		limit = 1
	}
	m.update(func(s *RigState) func() {
		if !s.RecordFailure(err, limit) {
			return nil
		}
		s.TransitionToOffline()
		if m.OnOffline == nil {
			return nil
		}
		return func() { m.OnOffline(err) }
	})

	if rig.KindOf(err) != rig.KindTimeout && m.OnError != nil {
		m.OnError(err)
	}
	return err
}
