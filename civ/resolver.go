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

package civ

import (
	"context"
	"fmt"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
	"go.uber.org/zap"
)

// probeMark is added to the frequency when both VFOs hold the same value.
const probeMark rig.Freq = 100

// GetVFO reports the selected VFO. The answer is memoized in the session
// state until the handle invalidates it.
func (b *Backend) GetVFO(ctx context.Context) (rig.VFO, error) {
	if b.state.CurrentKnown() {
		return b.state.CurrentVFO, nil
	}

	first, second, ok := rig.Pair(b.caps.Topology(), b.state.SatMode)
	if !ok {
		return rig.VFONone, rig.NewError("get_vfo", b.port.String(),
			fmt.Errorf("%w: %s has no selectable VFO pair", rig.ErrNotAvailable, b.caps.ModelName))
	}

	if b.directQueryUsable(first) {
		vfo, err := b.queryVFO(ctx)
		switch {
		case err == nil:
			b.remember(vfo)
			return vfo, nil
		case rig.KindOf(err) == rig.KindRejected:
			b.logger.Debug("direct VFO query rejected, probing from now on")
			b.state.DirectVFOUnavailable = true
		default:
			return rig.VFONone, err
		}
	}

	vfo, err := b.probeVFO(ctx, first, second)
	if err != nil {
		return rig.VFONone, err
	}
	b.remember(vfo)
	return vfo, nil
}

func (b *Backend) remember(vfo rig.VFO) {
	b.state.SetCurrent(vfo)
}

// directQueryUsable reports whether the band select query answers for
// the pair starting with first.
func (b *Backend) directQueryUsable(first rig.VFO) bool {
	return b.caps.HasVFOQuery && !b.state.DirectVFOUnavailable && first == rig.VFOMain
}

func (b *Backend) queryVFO(ctx context.Context) (rig.VFO, error) {
	data, err := b.engine.query(ctx, "get_vfo", subRequest(frame.CmdSetVFO, frame.SubVFOReadBand))
	if err != nil {
		return rig.VFONone, err
	}
	if len(data) < 1 {
		return rig.VFONone, rig.NewError("get_vfo", b.port.String(), fmt.Errorf("%w: empty band reply", rig.ErrProtocol))
	}
	switch data[0] {
	case 0x00:
		return rig.VFOMain, nil
	case 0x01:
		return rig.VFOSub, nil
	default:
		return rig.VFONone, rig.NewError("get_vfo", b.port.String(),
			fmt.Errorf("%w: unknown band %02X", rig.ErrProtocol, data[0]))
	}
}

// probeVFO finds the selected VFO through side effects: it selects a
// candidate and checks whether the frequency it reads is the one read
// before. When both VFOs hold the same frequency the selected one is
// marked by a temporary offset first. Whatever it changes it restores on
// a best effort basis.
func (b *Backend) probeVFO(ctx context.Context, first, second rig.VFO) (rig.VFO, error) {
	candidate, other := first, second
	if b.state.CurrentVFO == second {
		candidate, other = second, first
	}

	fCurr, err := b.readFreq(ctx)
	if err != nil {
		return rig.VFONone, err
	}
	if fCurr == rig.FreqNone {
		return rig.VFONone, rig.NewError("get_vfo", b.port.String(),
			fmt.Errorf("%w: selected channel is blank", rig.ErrNotAvailable))
	}
	fOther, otherKnown := b.probeOtherFreq(ctx)

	log := b.logger.With(zap.Stringer("candidate", candidate))
	if otherKnown && fOther != fCurr {
		log.Debug("probing VFO by value", zap.Stringer("curr", fCurr), zap.Stringer("other", fOther))
		return b.probeDistinct(ctx, candidate, other, fCurr)
	}
	log.Debug("probing VFO by offset", zap.Stringer("curr", fCurr))
	return b.probeOffset(ctx, candidate, other, fCurr)
}

// probeOtherFreq reads the unselected VFO without changing the selection.
func (b *Backend) probeOtherFreq(ctx context.Context) (rig.Freq, bool) {
	switch {
	case b.caps.HasTargetCommands:
		f, err := b.readOtherFreq(ctx)
		if err != nil {
			b.logger.Debug("could not read unselected VFO", zap.Error(err))
			return 0, false
		}
		return f, true
	case b.caps.HasVFOOp(rig.OpExchange):
		var f rig.Freq
		err := b.exchanged(ctx, "get_vfo", func() error {
			var err error
			f, err = b.readFreq(ctx)
			return err
		})
		if err != nil {
			b.logger.Debug("could not read VFO through exchange", zap.Error(err))
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (b *Backend) selectRaw(ctx context.Context, vfo rig.VFO) error {
	req, ok := selectRequest(vfo)
	if !ok {
		return rig.NewError("get_vfo", b.port.String(), fmt.Errorf("%w: cannot select %s", rig.ErrInvalidArgument, vfo))
	}
	return b.engine.ack(ctx, "get_vfo", req)
}

// probeDistinct resolves the VFO when both frequencies differ.
func (b *Backend) probeDistinct(ctx context.Context, candidate, other rig.VFO, fCurr rig.Freq) (rig.VFO, error) {
	if err := b.selectRaw(ctx, candidate); err != nil {
		return rig.VFONone, err
	}
	f, err := b.readFreq(ctx)
	if err != nil {
		return rig.VFONone, err
	}
	if f == fCurr {
		return candidate, nil
	}
	if err := b.selectRaw(ctx, other); err != nil {
		b.restoreWarn("selection", err)
		return candidate, nil
	}
	return other, nil
}

// probeOffset resolves the VFO when both frequencies are equal, or the
// other one cannot be read.
func (b *Backend) probeOffset(ctx context.Context, candidate, other rig.VFO, fCurr rig.Freq) (rig.VFO, error) {
	marked := fCurr + probeMark
	if err := b.writeFreq(ctx, marked); err != nil {
		return rig.VFONone, err
	}

	if err := b.selectRaw(ctx, candidate); err != nil {
		// the marked VFO is still selected
		b.restoreWarn("frequency", b.writeFreq(ctx, fCurr))
		return rig.VFONone, err
	}

	f, err := b.readFreq(ctx)
	if err != nil {
		b.restoreWarn("frequency", b.writeFreq(ctx, fCurr))
		return rig.VFONone, err
	}

	if f == marked {
		b.restoreWarn("frequency", b.writeFreq(ctx, fCurr))
		return candidate, nil
	}
	if err := b.selectRaw(ctx, other); err != nil {
		// the candidate stays selected, so that is what the session sees
		b.restoreWarn("selection", err)
		b.unmarkOther(ctx, other, marked, fCurr)
		return candidate, nil
	}
	b.restoreWarn("frequency", b.writeFreq(ctx, fCurr))
	return other, nil
}

// unmarkOther restores the marked VFO while it is not selected. Without
// target commands it can only report which VFO keeps the offset.
func (b *Backend) unmarkOther(ctx context.Context, other rig.VFO, marked, f rig.Freq) {
	if b.caps.HasTargetCommands {
		err := b.writeOtherFreq(ctx, f)
		if err == nil {
			return
		}
		b.restoreWarn("frequency", err)
	}
	b.logger.Warn("VFO left with an offset frequency",
		zap.Stringer("vfo", other),
		zap.Stringer("freq", marked),
		zap.Stringer("want", f))
}

func (b *Backend) restoreWarn(what string, err error) {
	if err != nil {
		b.logger.Warn("VFO probe could not restore "+what, zap.Error(err))
	}
}
