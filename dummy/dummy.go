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

// Package dummy provides an in-memory rig. Every parameter is targetable,
// so it exercises the frontend without any I/O.
package dummy

import (
	"context"
	"fmt"
	"sync"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"go.uber.org/zap"
)

// ModelDummy is the model id of the in-memory rig.
const ModelDummy = 1

const defaultFreq rig.Freq = 145_000_000

// Caps returns the capability descriptor of the in-memory rig.
func Caps() *rig.Capabilities {
	return &rig.Capabilities{
		ModelID:      ModelDummy,
		ModelName:    "Dummy",
		Manufacturer: "go-rig",
		Backend:      "dummy",
		VFOs:         rig.VFOA | rig.VFOB | rig.VFOMain | rig.VFOSub | rig.VFOMem,
		Targetable:   rig.TargetableAll,
		Levels: []rig.Level{
			rig.LevelAF, rig.LevelRF, rig.LevelSQL, rig.LevelNR, rig.LevelRFPower, rig.LevelMicGain,
		},
		VFOOps:      []rig.VFOOp{rig.OpCopy, rig.OpExchange, rig.OpToVFO},
		Timeout:     time.Second,
		HasVFOQuery: true,
		HasSatMode:  true,
		AbsoluteVFO: true,
		MaxRIT:      9999,
		HasRepeater: true,
		MemChannels: 99,
	}
}

// Register adds the in-memory rig to reg.
func Register(reg *rig.Registry) error {
	return reg.Register(rig.Model{Caps: Caps(), New: Factory})
}

// Factory builds a Backend for the rig handle.
func Factory(cfg rig.BackendConfig) (rig.Backend, error) {
	return New(cfg.Caps, cfg.Logger), nil
}

type channel struct {
	freq  rig.Freq
	mode  rig.Mode
	pb    rig.Passband
	rit   rig.ShortFreq
	shift rig.RptrShift
	offs  rig.Freq
}

// Backend keeps the state of every VFO in memory.
type Backend struct {
	caps     *rig.Capabilities
	logger   *zap.Logger
	channels map[rig.VFO]*channel
	levels   map[rig.Level]float32
	memories map[int]channel
	current  rig.VFO
	// lastVFO is the VFO a memory channel loads into.
	lastVFO rig.VFO
	txVFO   rig.VFO
	power   rig.PowerStat
	memCh   int
	mu      sync.Mutex
	split   bool
	ptt     bool
}

// New creates a backend with every VFO on 145 MHz FM.
func New(caps *rig.Capabilities, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{
		caps:     caps,
		logger:   logger,
		channels: make(map[rig.VFO]*channel),
		levels:   make(map[rig.Level]float32),
		memories: make(map[int]channel),
		current:  rig.VFOA,
		lastVFO:  rig.VFOA,
		txVFO:    rig.VFOB,
		power:    rig.PowerOn,
		memCh:    1,
	}
	for _, v := range []rig.VFO{rig.VFOA, rig.VFOB, rig.VFOC, rig.VFOMain, rig.VFOSub, rig.VFOMem} {
		if caps.HasVFO(v) {
			b.channels[v] = &channel{freq: defaultFreq, mode: rig.ModeFM}
		}
	}
	return b
}

func (b *Backend) channel(op string, vfo rig.VFO) (*channel, error) {
	if vfo == rig.VFOCurr {
		vfo = b.current
	}
	ch, ok := b.channels[vfo]
	if !ok {
		return nil, rig.NewError(op, "dummy", fmt.Errorf("%w: VFO %s", rig.ErrInvalidArgument, vfo))
	}
	return ch, nil
}

func (b *Backend) checkPower(op string) error {
	if b.power != rig.PowerOn {
		return rig.NewTimeoutError(op, "dummy")
	}
	return nil
}

// Close is a no-op.
func (*Backend) Close() error {
	return nil
}

// SetFreq implements rig.Backend.
func (b *Backend) SetFreq(_ context.Context, vfo rig.VFO, f rig.Freq) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("set_freq"); err != nil {
		return err
	}
	ch, err := b.channel("set_freq", vfo)
	if err != nil {
		return err
	}
	b.logger.Debug("set frequency", zap.Stringer("vfo", vfo), zap.Stringer("freq", f))
	ch.freq = f
	return nil
}

// GetFreq implements rig.Backend.
func (b *Backend) GetFreq(_ context.Context, vfo rig.VFO) (rig.Freq, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_freq"); err != nil {
		return 0, err
	}
	ch, err := b.channel("get_freq", vfo)
	if err != nil {
		return 0, err
	}
	return ch.freq, nil
}

// SetMode implements rig.ModeBackend.
func (b *Backend) SetMode(_ context.Context, vfo rig.VFO, m rig.Mode, pb rig.Passband) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("set_mode"); err != nil {
		return err
	}
	ch, err := b.channel("set_mode", vfo)
	if err != nil {
		return err
	}
	ch.mode, ch.pb = m, pb
	return nil
}

// GetMode implements rig.ModeBackend.
func (b *Backend) GetMode(_ context.Context, vfo rig.VFO) (rig.Mode, rig.Passband, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_mode"); err != nil {
		return rig.ModeNone, 0, err
	}
	ch, err := b.channel("get_mode", vfo)
	if err != nil {
		return rig.ModeNone, 0, err
	}
	return ch.mode, ch.pb, nil
}

// SetVFO implements rig.VFOSetter.
func (b *Backend) SetVFO(_ context.Context, vfo rig.VFO) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("set_vfo"); err != nil {
		return err
	}
	if _, err := b.channel("set_vfo", vfo); err != nil {
		return err
	}
	if vfo != rig.VFOCurr {
		b.current = vfo
	}
	if vfo != rig.VFOMem && vfo != rig.VFOCurr {
		b.lastVFO = vfo
	}
	return nil
}

// GetVFO implements rig.VFOGetter.
func (b *Backend) GetVFO(context.Context) (rig.VFO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_vfo"); err != nil {
		return rig.VFONone, err
	}
	return b.current, nil
}

// SetSplitVFO implements rig.SplitBackend.
func (b *Backend) SetSplitVFO(_ context.Context, _ rig.VFO, split bool, txVFO rig.VFO) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("set_split_vfo"); err != nil {
		return err
	}
	if split {
		if _, err := b.channel("set_split_vfo", txVFO); err != nil {
			return err
		}
		b.txVFO = txVFO
	}
	b.split = split
	return nil
}

// GetSplitVFO implements rig.SplitBackend.
func (b *Backend) GetSplitVFO(context.Context, rig.VFO) (bool, rig.VFO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_split_vfo"); err != nil {
		return false, rig.VFONone, err
	}
	if !b.split {
		return false, b.current, nil
	}
	return true, b.txVFO, nil
}

// SetPTT implements rig.PTTBackend.
func (b *Backend) SetPTT(_ context.Context, _ rig.VFO, on bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("set_ptt"); err != nil {
		return err
	}
	b.ptt = on
	return nil
}

// GetPTT implements rig.PTTBackend.
func (b *Backend) GetPTT(context.Context, rig.VFO) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_ptt"); err != nil {
		return false, err
	}
	return b.ptt, nil
}

// SetPowerStat implements rig.PowerBackend. A rig switched off answers
// nothing but GetPowerStat and SetPowerStat.
func (b *Backend) SetPowerStat(_ context.Context, stat rig.PowerStat) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.power = stat
	if stat == rig.PowerOff {
		b.ptt = false
	}
	return nil
}

// GetPowerStat implements rig.PowerBackend.
func (b *Backend) GetPowerStat(context.Context) (rig.PowerStat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.power, nil
}

// VFOOp implements rig.VFOOperator.
func (b *Backend) VFOOp(_ context.Context, vfo rig.VFO, op rig.VFOOp) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("vfo_op"); err != nil {
		return err
	}
	if vfo == rig.VFOCurr {
		vfo = b.current
	}
	if op == rig.OpToVFO {
		return b.memToVFO()
	}
	from, err := b.channel("vfo_op", vfo)
	if err != nil {
		return err
	}
	to, err := b.channel("vfo_op", counterpart(vfo))
	if err != nil {
		return err
	}

	switch op {
	case rig.OpCopy:
		*to = *from
	case rig.OpExchange:
		*from, *to = *to, *from
	default:
		return rig.NewError("vfo_op", "dummy", fmt.Errorf("%w: %s", rig.ErrNotAvailable, op))
	}
	return nil
}

// memToVFO loads the selected memory channel into the last used VFO and
// selects that VFO.
func (b *Backend) memToVFO() error {
	mem, err := b.channel("vfo_op", rig.VFOMem)
	if err != nil {
		return err
	}
	to, err := b.channel("vfo_op", b.lastVFO)
	if err != nil {
		return err
	}
	*to = *mem
	b.current = b.lastVFO
	return nil
}

// counterpart is the VFO an A=B style operation acts on.
func counterpart(vfo rig.VFO) rig.VFO {
	switch vfo {
	case rig.VFOA:
		return rig.VFOB
	case rig.VFOB:
		return rig.VFOA
	case rig.VFOMain:
		return rig.VFOSub
	case rig.VFOSub:
		return rig.VFOMain
	default:
		return rig.VFONone
	}
}

// SetLevel implements rig.LevelBackend.
func (b *Backend) SetLevel(_ context.Context, _ rig.VFO, level rig.Level, value float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("set_level"); err != nil {
		return err
	}
	if !b.caps.HasLevel(level) {
		return rig.NewError("set_level", "dummy", fmt.Errorf("%w: level %s", rig.ErrNotAvailable, level))
	}
	b.levels[level] = value
	return nil
}

// GetLevel implements rig.LevelBackend.
func (b *Backend) GetLevel(_ context.Context, _ rig.VFO, level rig.Level) (float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_level"); err != nil {
		return 0, err
	}
	if !b.caps.HasLevel(level) {
		return 0, rig.NewError("get_level", "dummy", fmt.Errorf("%w: level %s", rig.ErrNotAvailable, level))
	}
	return b.levels[level], nil
}

// SetRIT implements rig.RITBackend.
func (b *Backend) SetRIT(_ context.Context, vfo rig.VFO, offset rig.ShortFreq) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := b.live("set_rit", vfo)
	if err != nil {
		return err
	}
	ch.rit = offset
	return nil
}

// GetRIT implements rig.RITBackend.
func (b *Backend) GetRIT(_ context.Context, vfo rig.VFO) (rig.ShortFreq, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := b.live("get_rit", vfo)
	if err != nil {
		return 0, err
	}
	return ch.rit, nil
}

// SetRptrShift implements rig.RepeaterBackend.
func (b *Backend) SetRptrShift(_ context.Context, vfo rig.VFO, shift rig.RptrShift) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := b.live("set_rptr_shift", vfo)
	if err != nil {
		return err
	}
	ch.shift = shift
	return nil
}

// GetRptrShift implements rig.RepeaterBackend.
func (b *Backend) GetRptrShift(_ context.Context, vfo rig.VFO) (rig.RptrShift, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := b.live("get_rptr_shift", vfo)
	if err != nil {
		return rig.RptrShiftNone, err
	}
	return ch.shift, nil
}

// SetRptrOffs implements rig.RepeaterBackend.
func (b *Backend) SetRptrOffs(_ context.Context, vfo rig.VFO, offset rig.Freq) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := b.live("set_rptr_offs", vfo)
	if err != nil {
		return err
	}
	ch.offs = offset
	return nil
}

// GetRptrOffs implements rig.RepeaterBackend.
func (b *Backend) GetRptrOffs(_ context.Context, vfo rig.VFO) (rig.Freq, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := b.live("get_rptr_offs", vfo)
	if err != nil {
		return 0, err
	}
	return ch.offs, nil
}

// SetMem implements rig.MemoryBackend. The memory VFO shows the selected
// channel; switching channels stores what it holds.
func (b *Backend) SetMem(_ context.Context, _ rig.VFO, ch int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	mem, err := b.live("set_mem", rig.VFOMem)
	if err != nil {
		return err
	}
	if ch < 1 || ch > b.caps.MemChannels {
		return rig.NewError("set_mem", "dummy", fmt.Errorf("%w: channel %d", rig.ErrInvalidArgument, ch))
	}
	b.memories[b.memCh] = *mem
	stored, ok := b.memories[ch]
	if !ok {
		stored = channel{freq: defaultFreq, mode: rig.ModeFM}
	}
	*mem = stored
	b.memCh = ch
	return nil
}

// GetMem implements rig.MemoryBackend.
func (b *Backend) GetMem(context.Context, rig.VFO) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPower("get_mem"); err != nil {
		return 0, err
	}
	return b.memCh, nil
}

// live returns the channel of vfo while the rig is on.
func (b *Backend) live(op string, vfo rig.VFO) (*channel, error) {
	if err := b.checkPower(op); err != nil {
		return nil, err
	}
	return b.channel(op, vfo)
}
