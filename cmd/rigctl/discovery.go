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

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/civ"
	"github.com/ZaparooProject/go-rig/detection"
	"github.com/ZaparooProject/go-rig/internal/config"
	"github.com/ZaparooProject/go-rig/transport/uart"
	"go.uber.org/zap"
)

// scanPorts looks for rigs on the configured port, or on every detected
// serial interface when no port is configured.
func scanPorts(ctx context.Context, cfg *config.Config, logger *zap.Logger, out *Output) error {
	var devices []detection.DeviceInfo
	if cfg.Port.Path != "" {
		devices = []detection.DeviceInfo{{Path: cfg.Port.Path}}
	} else {
		opts := detection.DefaultOptions()
		opts.Logger = logger
		found, err := detection.DetectPorts(opts)
		if err != nil {
			return err
		}
		out.Ports(found)
		devices = found
	}

	open := func(path string) (rig.Port, error) {
		return uart.Open(uart.Config{
			Path:     path,
			BaudRate: cfg.Port.Baud,
			StopBits: cfg.Port.StopBits,
			NoLock:   cfg.Port.NoLock,
		})
	}
	opts, err := civOptions(cfg)
	if err != nil {
		return err
	}
	rigs, err := detection.FindRigs(ctx, devices, open, civ.ScanConfig{
		Logger:  logger,
		Timeout: cfg.Timeout(),
		Options: opts,
	})
	if err != nil {
		return err
	}
	out.Rigs(rigs)
	return nil
}
