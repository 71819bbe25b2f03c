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

// Package detection finds serial ports that may have a rig behind them.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/civ"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

// ErrNoDevicesFound is returned when no candidate port is present.
var ErrNoDevicesFound = errors.New("no rig interfaces found")

// Options controls which ports are reported.
type Options struct {
	Logger *zap.Logger
	// Blocklist holds VID:PID pairs never reported. Nil uses DefaultBlocklist.
	Blocklist []string
	// IgnorePaths holds device paths never reported.
	IgnorePaths []string
	// KnownOnly drops USB ports whose bridge is not a known rig interface,
	// and all non-USB ports.
	KnownOnly bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{}
}

// DeviceInfo is a serial port that passed the filters.
type DeviceInfo struct {
	Path         string
	VIDPID       string
	Product      string
	SerialNumber string
	// Interface names the bridge chip when it is a known rig interface.
	Interface string
}

// Known reports whether the port uses a known rig interface bridge.
func (d DeviceInfo) Known() bool {
	return d.Interface != ""
}

// listPorts is replaced in tests.
var listPorts = enumerator.GetDetailedPortsList

// DetectPorts lists serial ports, known rig interfaces first.
func DetectPorts(opts Options) ([]DeviceInfo, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	devices := filterPorts(ports, opts)
	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}

func filterPorts(ports []*enumerator.PortDetails, opts Options) []DeviceInfo {
	blocklist := opts.Blocklist
	if blocklist == nil {
		blocklist = DefaultBlocklist()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	devices := make([]DeviceInfo, 0, len(ports))
	for _, p := range ports {
		if p == nil || p.Name == "" {
			continue
		}
		if IsPathIgnored(p.Name, opts.IgnorePaths) {
			logger.Debug("ignoring port", zap.String("path", p.Name))
			continue
		}

		dev := DeviceInfo{Path: p.Name}
		if p.IsUSB {
			dev.VIDPID = FormatVIDPID(p.VID, p.PID)
			dev.Product = p.Product
			dev.SerialNumber = p.SerialNumber
			dev.Interface, _ = InterfaceName(dev.VIDPID)
		}
		if IsBlocked(dev.VIDPID, blocklist) {
			logger.Debug("skipping blocked device", zap.String("path", p.Name), zap.String("vidpid", dev.VIDPID))
			continue
		}
		if opts.KnownOnly && !dev.Known() {
			continue
		}
		devices = append(devices, dev)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Known() && !devices[j].Known()
	})
	return devices
}

// OpenFunc opens the port at path.
type OpenFunc func(path string) (rig.Port, error)

// Found is a rig answering on a detected port.
type Found struct {
	Device DeviceInfo
	Rig    civ.Found
}

// FindRigs runs a CI-V bus scan on every device. Ports that fail to open
// are logged and skipped.
func FindRigs(ctx context.Context, devices []DeviceInfo, open OpenFunc, scan civ.ScanConfig) ([]Found, error) {
	logger := scan.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var found []Found
	for _, dev := range devices {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		port, err := open(dev.Path)
		if err != nil {
			logger.Warn("failed to open port", zap.String("path", dev.Path), zap.Error(err))
			continue
		}

		rigs, err := civ.Scan(ctx, port, scan)
		if closeErr := port.Close(); closeErr != nil {
			logger.Debug("failed to close port", zap.String("path", dev.Path), zap.Error(closeErr))
		}
		for _, r := range rigs {
			found = append(found, Found{Device: dev, Rig: r})
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return found, ctxErr
			}
			logger.Warn("scan failed", zap.String("path", dev.Path), zap.Error(err))
		}
	}
	return found, nil
}
