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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type fakePort struct {
	closeErr error
	closed   bool
}

func (*fakePort) Write([]byte) error { return nil }

func (*fakePort) ReadUntil(time.Duration, ...byte) ([]byte, error) {
	return nil, NewTimeoutError("read", "fake")
}

func (*fakePort) Flush() error { return nil }

func (p *fakePort) Close() error {
	p.closed = true
	return p.closeErr
}

func (*fakePort) String() string { return "fake" }

type fakePTTLine struct {
	closeErr error
	on       bool
}

func (l *fakePTTLine) SetPTT(on bool) error {
	l.on = on
	return nil
}

func (l *fakePTTLine) GetPTT() (bool, error) { return l.on, nil }

func (l *fakePTTLine) Close() error { return l.closeErr }

// fakeBackend records every call. Unless targetable is set it refuses to
// touch a VFO that is not selected, so dispatch mistakes show up as errors.
type fakeBackend struct {
	freqs      map[VFO]Freq
	modes      map[VFO]Mode
	setVFOErr  map[VFO]error
	setFreqErr error
	getVFOErr  error
	splitErr   error
	closeErr   error
	calls      []string
	levels     map[Level]float32
	mu         sync.Mutex
	selected   VFO
	targetable bool
	ptt        bool
	power      PowerStat
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		freqs:     make(map[VFO]Freq),
		modes:     make(map[VFO]Mode),
		setVFOErr: make(map[VFO]error),
		levels:    make(map[Level]float32),
		selected:  VFOA,
		power:     PowerOn,
	}
}

func (b *fakeBackend) record(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) resetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *fakeBackend) target(vfo VFO) (VFO, error) {
	if vfo == VFOCurr {
		return b.selected, nil
	}
	if vfo != b.selected && !b.targetable {
		return VFONone, fmt.Errorf("%s is not selected", vfo)
	}
	return vfo, nil
}

func (b *fakeBackend) SetFreq(_ context.Context, vfo VFO, f Freq) error {
	b.record("set_freq %s %d", vfo, uint64(f))
	if b.setFreqErr != nil {
		return b.setFreqErr
	}
	v, err := b.target(vfo)
	if err != nil {
		return err
	}
	b.freqs[v] = f
	return nil
}

func (b *fakeBackend) GetFreq(_ context.Context, vfo VFO) (Freq, error) {
	b.record("get_freq %s", vfo)
	v, err := b.target(vfo)
	if err != nil {
		return 0, err
	}
	return b.freqs[v], nil
}

func (b *fakeBackend) SetMode(_ context.Context, vfo VFO, m Mode, _ Passband) error {
	b.record("set_mode %s %s", vfo, m)
	v, err := b.target(vfo)
	if err != nil {
		return err
	}
	b.modes[v] = m
	return nil
}

func (b *fakeBackend) GetMode(_ context.Context, vfo VFO) (Mode, Passband, error) {
	b.record("get_mode %s", vfo)
	v, err := b.target(vfo)
	if err != nil {
		return ModeNone, 0, err
	}
	return b.modes[v], PassbandNormal, nil
}

func (b *fakeBackend) SetVFO(_ context.Context, vfo VFO) error {
	b.record("set_vfo %s", vfo)
	if err := b.setVFOErr[vfo]; err != nil {
		return err
	}
	b.selected = vfo
	return nil
}

func (b *fakeBackend) GetVFO(context.Context) (VFO, error) {
	b.record("get_vfo")
	if b.getVFOErr != nil {
		return VFONone, b.getVFOErr
	}
	return b.selected, nil
}

func (b *fakeBackend) SetSplitVFO(_ context.Context, vfo VFO, split bool, tx VFO) error {
	b.record("set_split_vfo %s %t %s", vfo, split, tx)
	return nil
}

func (b *fakeBackend) GetSplitVFO(_ context.Context, vfo VFO) (bool, VFO, error) {
	b.record("get_split_vfo %s", vfo)
	return true, VFOB, nil
}

func (b *fakeBackend) SetSplitFreq(_ context.Context, vfo VFO, f Freq) error {
	b.record("set_split_freq %s %d", vfo, uint64(f))
	if b.splitErr != nil {
		return b.splitErr
	}
	b.freqs[VFOB] = f
	return nil
}

func (b *fakeBackend) GetSplitFreq(_ context.Context, vfo VFO) (Freq, error) {
	b.record("get_split_freq %s", vfo)
	if b.splitErr != nil {
		return 0, b.splitErr
	}
	return b.freqs[VFOB], nil
}

func (b *fakeBackend) SetPTT(_ context.Context, vfo VFO, on bool) error {
	b.record("set_ptt %s %t", vfo, on)
	b.ptt = on
	return nil
}

func (b *fakeBackend) GetPTT(_ context.Context, vfo VFO) (bool, error) {
	b.record("get_ptt %s", vfo)
	return b.ptt, nil
}

func (b *fakeBackend) SetPowerStat(_ context.Context, stat PowerStat) error {
	b.record("set_powerstat %d", int(stat))
	b.power = stat
	return nil
}

func (b *fakeBackend) GetPowerStat(context.Context) (PowerStat, error) {
	b.record("get_powerstat")
	return b.power, nil
}

func (b *fakeBackend) VFOOp(_ context.Context, vfo VFO, op VFOOp) error {
	b.record("vfo_op %s %s", vfo, op)
	return nil
}

func (b *fakeBackend) SetLevel(_ context.Context, vfo VFO, level Level, value float32) error {
	b.record("set_level %s %s", vfo, level)
	b.levels[level] = value
	return nil
}

func (b *fakeBackend) GetLevel(_ context.Context, vfo VFO, level Level) (float32, error) {
	b.record("get_level %s %s", vfo, level)
	return b.levels[level], nil
}

func (b *fakeBackend) DecodeEvent(raw []byte) (Event, error) {
	if len(raw) == 0 {
		return Event{}, errors.New("empty")
	}
	return Event{VFO: VFOCurr, Freq: Freq(raw[0]) * 1000, HasFreq: true}, nil
}

func (b *fakeBackend) Close() error {
	b.record("close")
	return b.closeErr
}

func abCaps() *Capabilities {
	return &Capabilities{
		ModelID:   1,
		ModelName: "Fake AB",
		Backend:   "fake",
		VFOs:      VFOA | VFOB | VFOMem,
		VFOOps:    []VFOOp{OpCopy, OpExchange},
		Levels:    []Level{LevelAF},
		Timeout:   10 * time.Millisecond,
		Retries:   1,
		FreqBytes: 5,
	}
}

func fakeModel(caps *Capabilities, backend *fakeBackend) Model {
	return Model{
		Caps: caps,
		New: func(BackendConfig) (Backend, error) {
			return backend, nil
		},
	}
}
