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
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
	"go.uber.org/zap"
)

// Bus addresses a scan covers by default.
const (
	FirstScanAddress = 0x01
	LastScanAddress  = 0x7F
)

// Found is a device that answered a bus scan.
type Found struct {
	Name    string
	Address byte
	// ID is the transceiver id the rig reported; it equals Address for rigs
	// that reject the id request.
	ID byte
}

// ScanConfig configures Scan. Zero values select the defaults.
type ScanConfig struct {
	Logger  *zap.Logger
	Timeout time.Duration
	First   byte
	Last    byte
	Options []Option
}

// Scan asks every address on the bus for its transceiver id. A rig that
// rejects the request is still reported, identified by its address.
func Scan(ctx context.Context, port rig.Port, cfg ScanConfig) ([]Found, error) {
	if cfg.First == 0 {
		cfg.First = FirstScanAddress
	}
	if cfg.Last == 0 {
		cfg.Last = LastScanAddress
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	state := &rig.State{Timeout: cfg.Timeout}
	engine := NewEngine(port, state, cfg.Logger.Named("scan"))
	for _, opt := range cfg.Options {
		opt(engine)
	}

	var found []Found
	for addr := int(cfg.First); addr <= int(cfg.Last); addr++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		state.Address = byte(addr)

		res, err := engine.Execute(ctx, subRequest(frame.CmdReadID, frame.SubReadID))
		if err != nil {
			switch rig.KindOf(err) {
			case rig.KindTimeout, rig.KindProtocol:
				continue
			default:
				return found, fmt.Errorf("scan aborted at %02X: %w", addr, err)
			}
		}

		dev := Found{Address: byte(addr), ID: byte(addr)}
		if res.Kind == ResultData && len(res.Data) > 0 {
			dev.ID = res.Data[0]
		}
		dev.Name, _ = AddressName(dev.ID)
		cfg.Logger.Info("found device",
			zap.String("address", fmt.Sprintf("%02X", dev.Address)),
			zap.String("id", fmt.Sprintf("%02X", dev.ID)),
			zap.String("name", dev.Name))
		found = append(found, dev)
	}
	return found, nil
}

// ModelForAddress returns the model id registered with addr as default
// address.
func ModelForAddress(reg *rig.Registry, addr byte) (int, bool) {
	for _, caps := range reg.Models() {
		if caps.Backend == "civ" && caps.DefaultAddress == addr {
			return caps.ModelID, true
		}
	}
	return 0, false
}
