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
	"fmt"

	"go.uber.org/zap"
)

// resolveVFO validates a caller supplied VFO and maps the Tx/Rx pseudo
// targets through the session state.
func (r *Rig) resolveVFO(vfo VFO) (VFO, error) {
	switch vfo {
	case VFOCurr:
		return VFOCurr, nil
	case VFOTx:
		return r.state.TxVFO, nil
	case VFORx:
		return r.state.RxVFO, nil
	}
	if !vfo.single() || !r.caps.HasVFO(vfo) {
		return VFONone, fmt.Errorf("%w: VFO %s not supported by %s", ErrInvalidArgument, vfo, r.caps.ModelName)
	}
	return vfo, nil
}

// cacheKey names the cache slot an operation on v touched.
func (r *Rig) cacheKey(v VFO) VFO {
	if v == VFOCurr && r.state.CurrentKnown() {
		return r.state.CurrentVFO
	}
	return v
}

// selectVFO selects v and records it once the rig confirmed.
func (r *Rig) selectVFO(ctx context.Context, v VFO) error {
	setter, ok := r.backend.(VFOSetter)
	if !ok {
		return NewError("set_vfo", r.port.String(), ErrNotAvailable)
	}
	if err := setter.SetVFO(ctx, v); err != nil {
		return err
	}
	r.state.SetCurrent(v)
	return nil
}

// dispatch runs fn against vfo, either directly or by selecting vfo,
// running fn and selecting the previous VFO again. The restore is attempted
// exactly once and its failure never replaces the result of fn.
func (r *Rig) dispatch(ctx context.Context, op string, vfo VFO, target Targetable, fn func(VFO) error) error {
	v, err := r.resolveVFO(vfo)
	if err != nil {
		return err
	}
	if v == VFOCurr {
		return fn(v)
	}
	targetable := r.caps.CanTarget(target)
	if targetable && r.caps.AbsoluteVFO {
		return fn(v)
	}
	// a VFO remembered from before InvalidateVFO may be stale
	if !r.state.CurrentKnown() {
		if _, err := r.currentVFO(ctx); err != nil {
			return NewError(op, r.port.String(), fmt.Errorf("%w: %w", ErrVFOUnknown, err))
		}
	}
	if v == r.state.CurrentVFO || targetable {
		return fn(v)
	}

	saved := r.state.CurrentVFO
	log := r.logger.Named("dispatch")
	log.Debug("swapping VFO", zap.String("op", op), zap.Stringer("from", saved), zap.Stringer("to", v))

	if err := r.selectVFO(ctx, v); err != nil {
		return err
	}
	opErr := fn(v)
	if restoreErr := r.selectVFO(ctx, saved); restoreErr != nil {
		log.Warn("failed to restore VFO",
			zap.String("op", op),
			zap.Stringer("vfo", saved),
			zap.Error(restoreErr))
	}
	return opErr
}

// dispatchGet is dispatch for operations returning a value.
func dispatchGet[T any](ctx context.Context, r *Rig, op string, vfo VFO, target Targetable,
	fn func(VFO) (T, error),
) (T, error) {
	var result T
	err := r.dispatch(ctx, op, vfo, target, func(v VFO) error {
		var err error
		result, err = fn(v)
		return err
	})
	return result, err
}
