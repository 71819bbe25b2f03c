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

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Rig is an open handle to one transceiver. All methods are safe for
// concurrent use; calls are serialized so at most one transaction is
// outstanding on the port.
type Rig struct {
	port    Port
	backend Backend
	pttLine PTTLine
	caps    *Capabilities
	state   *State
	logger  *zap.Logger
	mu      sync.Mutex
	opened  bool
	closed  bool
}

// New creates a handle for model on port. The port is owned by the handle
// from now on and closed by Close.
func New(model Model, port Port, opts ...Option) (*Rig, error) {
	if model.Caps == nil || model.New == nil {
		return nil, fmt.Errorf("%w: incomplete model", ErrInvalidArgument)
	}
	if port == nil {
		return nil, fmt.Errorf("%w: nil port", ErrInvalidArgument)
	}

	r := &Rig{
		port:   port,
		caps:   model.Caps,
		state:  NewState(model.Caps),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	backend, err := model.New(BackendConfig{
		Caps:   model.Caps,
		Port:   port,
		State:  r.state,
		Logger: r.logger.Named(model.Caps.Backend),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", model.Caps.ModelName, err)
	}
	r.backend = backend
	r.logger = r.logger.With(zap.String("model", model.Caps.ModelName), zap.String("port", port.String()))
	return r, nil
}

// Caps returns the capability descriptor of the model.
func (r *Rig) Caps() *Capabilities {
	return r.caps
}

// State returns a copy of the session state.
func (r *Rig) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Snapshot()
}

// Open performs the backend handshake and establishes the selected VFO.
func (r *Rig) Open(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewError("open", r.port.String(), ErrPortClosed)
	}
	if r.opened {
		return nil
	}
	if opener, ok := r.backend.(Opener); ok {
		if err := opener.Open(ctx); err != nil {
			return fmt.Errorf("backend open failed: %w", err)
		}
	}
	r.opened = true

	if err := r.establishVFO(ctx); err != nil {
		r.opened = false
		return err
	}
	r.logger.Debug("rig opened", zap.Stringer("vfo", r.state.CurrentVFO))
	return nil
}

// establishVFO resolves the selected VFO, or selects the primary one when
// the rig cannot tell. A rig that does not answer is not an open failure.
func (r *Rig) establishVFO(ctx context.Context) error {
	if getter, ok := r.backend.(VFOGetter); ok {
		vfo, err := getter.GetVFO(ctx)
		if err == nil {
			r.state.SetCurrent(vfo)
			return nil
		}
		if KindOf(err) == KindIO {
			return err
		}
		r.logger.Debug("could not resolve current VFO", zap.Error(err))
	}

	primary := r.caps.Primary()
	if primary == VFOCurr {
		return nil
	}
	if setter, ok := r.backend.(VFOSetter); ok {
		if err := setter.SetVFO(ctx, primary); err != nil {
			if KindOf(err) == KindIO {
				return err
			}
			r.logger.Warn("could not select primary VFO", zap.Stringer("vfo", primary), zap.Error(err))
			return nil
		}
		r.state.SetCurrent(primary)
	}
	return nil
}

// Close releases the backend, the PTT line and the port.
func (r *Rig) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.opened = false

	var err error
	err = multierr.Append(err, r.backend.Close())
	if r.pttLine != nil {
		err = multierr.Append(err, r.pttLine.Close())
	}
	err = multierr.Append(err, r.port.Close())
	if err != nil {
		return fmt.Errorf("failed to close rig: %w", err)
	}
	return nil
}

// InvalidateVFO tells the handle the selected VFO may have changed outside
// its control, e.g. on the front panel.
func (r *Rig) InvalidateVFO() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.InvalidateVFO()
}

func (r *Rig) checkOpen(op string) error {
	if !r.opened {
		return NewError(op, r.port.String(), ErrNotOpen)
	}
	return nil
}

// SetFreq sets the frequency of vfo.
func (r *Rig) SetFreq(ctx context.Context, vfo VFO, f Freq) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_freq"); err != nil {
		return err
	}
	if f == FreqNone {
		return fmt.Errorf("%w: cannot set a blank frequency", ErrInvalidFreq)
	}
	return r.setFreq(ctx, vfo, f)
}

func (r *Rig) setFreq(ctx context.Context, vfo VFO, f Freq) error {
	return r.dispatch(ctx, "set_freq", vfo, TargetableFreq, func(v VFO) error {
		if err := r.backend.SetFreq(ctx, v, f); err != nil {
			return err
		}
		r.state.CacheFreq(r.cacheKey(v), f)
		return nil
	})
}

// GetFreq reads the frequency of vfo. A blank memory channel yields FreqNone.
func (r *Rig) GetFreq(ctx context.Context, vfo VFO) (Freq, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_freq"); err != nil {
		return 0, err
	}
	return r.getFreq(ctx, vfo)
}

func (r *Rig) getFreq(ctx context.Context, vfo VFO) (Freq, error) {
	return dispatchGet(ctx, r, "get_freq", vfo, TargetableFreq, func(v VFO) (Freq, error) {
		f, err := r.backend.GetFreq(ctx, v)
		if err != nil {
			return 0, err
		}
		r.state.CacheFreq(r.cacheKey(v), f)
		return f, nil
	})
}

// SetMode sets mode and passband of vfo.
func (r *Rig) SetMode(ctx context.Context, vfo VFO, m Mode, pb Passband) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_mode"); err != nil {
		return err
	}
	return r.setMode(ctx, vfo, m, pb)
}

func (r *Rig) setMode(ctx context.Context, vfo VFO, m Mode, pb Passband) error {
	mb, ok := r.backend.(ModeBackend)
	if !ok {
		return NewError("set_mode", r.port.String(), ErrNotAvailable)
	}
	if m == ModeNone || pb < 0 {
		return fmt.Errorf("%w: mode %s passband %d", ErrInvalidArgument, m, pb)
	}
	return r.dispatch(ctx, "set_mode", vfo, TargetableMode, func(v VFO) error {
		if err := mb.SetMode(ctx, v, m, pb); err != nil {
			return err
		}
		r.state.CacheMode(r.cacheKey(v), m, pb)
		return nil
	})
}

// GetMode reads mode and passband of vfo.
func (r *Rig) GetMode(ctx context.Context, vfo VFO) (Mode, Passband, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_mode"); err != nil {
		return ModeNone, 0, err
	}
	return r.getMode(ctx, vfo)
}

func (r *Rig) getMode(ctx context.Context, vfo VFO) (Mode, Passband, error) {
	mb, ok := r.backend.(ModeBackend)
	if !ok {
		return ModeNone, 0, NewError("get_mode", r.port.String(), ErrNotAvailable)
	}
	type modeResult struct {
		mode Mode
		pb   Passband
	}
	res, err := dispatchGet(ctx, r, "get_mode", vfo, TargetableMode, func(v VFO) (modeResult, error) {
		m, pb, err := mb.GetMode(ctx, v)
		if err != nil {
			return modeResult{}, err
		}
		r.state.CacheMode(r.cacheKey(v), m, pb)
		return modeResult{mode: m, pb: pb}, nil
	})
	return res.mode, res.pb, err
}

// SetVFO selects vfo.
func (r *Rig) SetVFO(ctx context.Context, vfo VFO) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_vfo"); err != nil {
		return err
	}
	v, err := r.resolveVFO(vfo)
	if err != nil {
		return err
	}
	if v == VFOCurr {
		return nil
	}
	return r.selectVFO(ctx, v)
}

// GetVFO returns the selected VFO, asking the rig when the session does not know it.
func (r *Rig) GetVFO(ctx context.Context) (VFO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_vfo"); err != nil {
		return VFONone, err
	}
	return r.currentVFO(ctx)
}

func (r *Rig) currentVFO(ctx context.Context) (VFO, error) {
	getter, ok := r.backend.(VFOGetter)
	if !ok {
		if r.state.CurrentKnown() {
			return r.state.CurrentVFO, nil
		}
		return VFONone, NewError("get_vfo", r.port.String(), ErrNotAvailable)
	}
	vfo, err := getter.GetVFO(ctx)
	if err != nil {
		return VFONone, err
	}
	r.state.SetCurrent(vfo)
	return vfo, nil
}

// SetSplitVFO turns split on or off with txVFO as transmit VFO. VFOCurr
// as txVFO picks the topology's transmit VFO.
func (r *Rig) SetSplitVFO(ctx context.Context, vfo VFO, split bool, txVFO VFO) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_split_vfo"); err != nil {
		return err
	}
	sb, ok := r.backend.(SplitBackend)
	if !ok {
		return NewError("set_split_vfo", r.port.String(), ErrNotAvailable)
	}

	topo := r.caps.Topology()
	if txVFO == VFOCurr || txVFO == VFONone || txVFO == VFOTx {
		_, txVFO = RxTx(topo, split, r.state.SatMode)
	} else if !txVFO.single() || !r.caps.HasVFO(txVFO) {
		return fmt.Errorf("%w: tx VFO %s not supported", ErrInvalidArgument, txVFO)
	}

	return r.dispatch(ctx, "set_split_vfo", vfo, TargetableSplit, func(v VFO) error {
		if err := sb.SetSplitVFO(ctx, v, split, txVFO); err != nil {
			return err
		}
		r.state.SetSplit(topo, split)
		if split && txVFO != VFOCurr {
			r.state.TxVFO = txVFO
		}
		return nil
	})
}

// GetSplitVFO reports whether split is on and which VFO transmits.
func (r *Rig) GetSplitVFO(ctx context.Context, vfo VFO) (bool, VFO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_split_vfo"); err != nil {
		return false, VFONone, err
	}
	sb, ok := r.backend.(SplitBackend)
	if !ok {
		return false, VFONone, NewError("get_split_vfo", r.port.String(), ErrNotAvailable)
	}
	type splitResult struct {
		tx    VFO
		split bool
	}
	res, err := dispatchGet(ctx, r, "get_split_vfo", vfo, TargetableSplit, func(v VFO) (splitResult, error) {
		split, tx, err := sb.GetSplitVFO(ctx, v)
		if err != nil {
			return splitResult{}, err
		}
		r.state.SetSplit(r.caps.Topology(), split)
		if split && tx != VFOCurr && tx != VFONone {
			r.state.TxVFO = tx
		}
		return splitResult{split: split, tx: r.state.TxVFO}, nil
	})
	return res.split, res.tx, err
}

// SetSplitFreq sets the transmit frequency used while split is on.
func (r *Rig) SetSplitFreq(ctx context.Context, vfo VFO, f Freq) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_split_freq"); err != nil {
		return err
	}
	if f == FreqNone {
		return fmt.Errorf("%w: cannot set a blank frequency", ErrInvalidFreq)
	}
	if sb, ok := r.backend.(SplitFreqBackend); ok {
		err := r.dispatch(ctx, "set_split_freq", vfo, TargetableFreq, func(v VFO) error {
			if err := sb.SetSplitFreq(ctx, v, f); err != nil {
				return err
			}
			r.state.CacheFreq(r.state.TxVFO, f)
			return nil
		})
		if !errors.Is(err, ErrNotAvailable) {
			return err
		}
	}
	return r.setFreq(ctx, r.txTarget(), f)
}

// GetSplitFreq reads the transmit frequency used while split is on.
func (r *Rig) GetSplitFreq(ctx context.Context, vfo VFO) (Freq, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_split_freq"); err != nil {
		return 0, err
	}
	if sb, ok := r.backend.(SplitFreqBackend); ok {
		f, err := dispatchGet(ctx, r, "get_split_freq", vfo, TargetableFreq, func(v VFO) (Freq, error) {
			return sb.GetSplitFreq(ctx, v)
		})
		if !errors.Is(err, ErrNotAvailable) {
			return f, err
		}
	}
	return r.getFreq(ctx, r.txTarget())
}

// SetSplitMode sets the transmit mode used while split is on.
func (r *Rig) SetSplitMode(ctx context.Context, vfo VFO, m Mode, pb Passband) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_split_mode"); err != nil {
		return err
	}
	if sb, ok := r.backend.(SplitModeBackend); ok {
		err := r.dispatch(ctx, "set_split_mode", vfo, TargetableMode, func(v VFO) error {
			if err := sb.SetSplitMode(ctx, v, m, pb); err != nil {
				return err
			}
			r.state.CacheMode(r.state.TxVFO, m, pb)
			return nil
		})
		if !errors.Is(err, ErrNotAvailable) {
			return err
		}
	}
	return r.setMode(ctx, r.txTarget(), m, pb)
}

// GetSplitMode reads the transmit mode used while split is on.
func (r *Rig) GetSplitMode(ctx context.Context, vfo VFO) (Mode, Passband, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_split_mode"); err != nil {
		return ModeNone, 0, err
	}
	if sb, ok := r.backend.(SplitModeBackend); ok {
		type modeResult struct {
			mode Mode
			pb   Passband
		}
		res, err := dispatchGet(ctx, r, "get_split_mode", vfo, TargetableMode, func(v VFO) (modeResult, error) {
			m, pb, err := sb.GetSplitMode(ctx, v)
			return modeResult{mode: m, pb: pb}, err
		})
		if !errors.Is(err, ErrNotAvailable) {
			return res.mode, res.pb, err
		}
	}
	return r.getMode(ctx, r.txTarget())
}

// txTarget is the VFO split emulation writes to.
func (r *Rig) txTarget() VFO {
	if r.state.TxVFO == VFONone {
		return VFOCurr
	}
	return r.state.TxVFO
}

// SetPTT keys or unkeys the transmitter.
func (r *Rig) SetPTT(ctx context.Context, vfo VFO, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_ptt"); err != nil {
		return err
	}
	if r.pttLine != nil {
		if err := r.pttLine.SetPTT(on); err != nil {
			return NewIOError("set_ptt", r.port.String(), err)
		}
		return nil
	}
	pb, ok := r.backend.(PTTBackend)
	if !ok {
		return NewError("set_ptt", r.port.String(), ErrNotAvailable)
	}
	return r.dispatch(ctx, "set_ptt", vfo, TargetablePTT, func(v VFO) error {
		return pb.SetPTT(ctx, v, on)
	})
}

// GetPTT reports whether the transmitter is keyed.
func (r *Rig) GetPTT(ctx context.Context, vfo VFO) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_ptt"); err != nil {
		return false, err
	}
	if r.pttLine != nil {
		on, err := r.pttLine.GetPTT()
		if err != nil {
			return false, NewIOError("get_ptt", r.port.String(), err)
		}
		return on, nil
	}
	pb, ok := r.backend.(PTTBackend)
	if !ok {
		return false, NewError("get_ptt", r.port.String(), ErrNotAvailable)
	}
	return dispatchGet(ctx, r, "get_ptt", vfo, TargetablePTT, func(v VFO) (bool, error) {
		return pb.GetPTT(ctx, v)
	})
}

// SetPowerStat switches the rig on or off.
func (r *Rig) SetPowerStat(ctx context.Context, stat PowerStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_powerstat"); err != nil {
		return err
	}
	pb, ok := r.backend.(PowerBackend)
	if !ok {
		return NewError("set_powerstat", r.port.String(), ErrNotAvailable)
	}
	if err := pb.SetPowerStat(ctx, stat); err != nil {
		return err
	}
	if stat == PowerOn {
		r.state.InvalidateVFO()
	}
	return nil
}

// GetPowerStat reports whether the rig is on.
func (r *Rig) GetPowerStat(ctx context.Context) (PowerStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_powerstat"); err != nil {
		return PowerOff, err
	}
	pb, ok := r.backend.(PowerBackend)
	if !ok {
		return PowerOff, NewError("get_powerstat", r.port.String(), ErrNotAvailable)
	}
	return pb.GetPowerStat(ctx)
}

// VFOOp performs a VFO operation on vfo.
func (r *Rig) VFOOp(ctx context.Context, vfo VFO, op VFOOp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("vfo_op"); err != nil {
		return err
	}
	ob, ok := r.backend.(VFOOperator)
	if !ok || !r.caps.HasVFOOp(op) {
		return NewError("vfo_op", r.port.String(), fmt.Errorf("%w: %s", ErrNotAvailable, op))
	}
	return r.dispatch(ctx, "vfo_op", vfo, TargetableVFOOp, func(v VFO) error {
		if err := ob.VFOOp(ctx, v, op); err != nil {
			return err
		}
		r.applyVFOOp(op)
		return nil
	})
}

// applyVFOOp mirrors a confirmed VFO operation in the cache.
func (r *Rig) applyVFOOp(op VFOOp) {
	if op == OpToVFO {
		// the rig picks the VFO it loads and selects
		clear(r.state.cache)
		r.state.InvalidateVFO()
		return
	}
	first, second, ok := Pair(r.caps.Topology(), r.state.SatMode)
	if !ok || !r.state.CurrentKnown() {
		return
	}
	other := first
	if r.state.CurrentVFO == first {
		other = second
	}
	cur, _ := r.state.Cached(r.state.CurrentVFO)
	oth, _ := r.state.Cached(other)
	switch op {
	case OpCopy:
		r.state.cache[other] = cur
	case OpExchange:
		r.state.cache[other] = cur
		r.state.cache[r.state.CurrentVFO] = oth
	}
}

// SetLevel sets a level to value in [0,1].
func (r *Rig) SetLevel(ctx context.Context, vfo VFO, level Level, value float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_level"); err != nil {
		return err
	}
	lb, ok := r.backend.(LevelBackend)
	if !ok || !r.caps.HasLevel(level) {
		return NewError("set_level", r.port.String(), fmt.Errorf("%w: %s", ErrNotAvailable, level))
	}
	if value < 0 || value > 1 {
		return fmt.Errorf("%w: level %s value %v outside [0,1]", ErrInvalidArgument, level, value)
	}
	return r.dispatch(ctx, "set_level", vfo, TargetableLevel, func(v VFO) error {
		return lb.SetLevel(ctx, v, level, value)
	})
}

// GetLevel reads a level as a value in [0,1].
func (r *Rig) GetLevel(ctx context.Context, vfo VFO, level Level) (float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_level"); err != nil {
		return 0, err
	}
	lb, ok := r.backend.(LevelBackend)
	if !ok || !r.caps.HasLevel(level) {
		return 0, NewError("get_level", r.port.String(), fmt.Errorf("%w: %s", ErrNotAvailable, level))
	}
	return dispatchGet(ctx, r, "get_level", vfo, TargetableLevel, func(v VFO) (float32, error) {
		return lb.GetLevel(ctx, v, level)
	})
}
