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

package main

import (
	"context"
	"errors"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/config"
	"github.com/ZaparooProject/go-rig/polling"
	"go.uber.org/zap"
)

// monitor prints every change until ctx is cancelled.
func monitor(ctx context.Context, r *rig.Rig, cfg *config.Config, logger *zap.Logger, out *Output) error {
	m := polling.NewMonitor(r, &polling.Config{
		VFO:          rig.VFOCurr,
		PollInterval: cfg.PollInterval(),
		OfflineAfter: cfg.Poll.OfflineAfter,
	})
	m.OnFreqChanged = out.Freq
	m.OnModeChanged = out.Mode
	m.OnPTTChanged = out.PTT
	m.OnOnline = func() { logger.Info("rig online") }
	m.OnOffline = func(err error) {
		logger.Warn("rig offline", zap.Error(err))
		out.Error("rig offline: %v", err)
	}
	m.OnError = func(err error) { logger.Debug("poll failed", zap.Error(err)) }

	if err := m.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
