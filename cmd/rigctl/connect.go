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
	"fmt"
	"strings"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/civ"
	"github.com/ZaparooProject/go-rig/dummy"
	"github.com/ZaparooProject/go-rig/internal/config"
	"github.com/ZaparooProject/go-rig/ptt/gpio"
	"github.com/ZaparooProject/go-rig/transport/tcp"
	"github.com/ZaparooProject/go-rig/transport/uart"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// newRegistry registers every backend rigctl knows about.
func newRegistry(cfg *config.Config) (*rig.Registry, error) {
	opts, err := civOptions(cfg)
	if err != nil {
		return nil, err
	}
	reg := rig.NewRegistry()
	if err := dummy.Register(reg); err != nil {
		return nil, err
	}
	if err := civ.Register(reg, opts...); err != nil {
		return nil, err
	}
	return reg, nil
}

func civOptions(cfg *config.Config) ([]civ.Option, error) {
	opts := []civ.Option{civ.WithEcho(cfg.Rig.Echo), civ.WithPad(cfg.Rig.Pad)}
	ctrl, ok, err := cfg.ControllerAddress()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, civ.WithControllerAddress(ctrl))
	}
	return opts, nil
}

// openPort opens the link described by the profile.
func openPort(ctx context.Context, cfg *config.Config) (rig.Port, error) {
	if cfg.Rig.Model == dummy.ModelDummy {
		return dummy.NewPort(), nil
	}
	if cfg.Port.Path == "" {
		return nil, errors.New("no port given, use --rig-file or --dummy")
	}
	if cfg.Port.Type == "tcp" {
		port, err := tcp.Dial(ctx, cfg.Port.Path)
		if err != nil {
			return nil, err
		}
		return port, nil
	}
	port, err := uart.Open(uart.Config{
		Path:     cfg.Port.Path,
		BaudRate: cfg.Port.Baud,
		StopBits: cfg.Port.StopBits,
		NoLock:   cfg.Port.NoLock,
	})
	if err != nil {
		return nil, err
	}
	return port, nil
}

// openPTT returns the hardware PTT line, or nil to key over CAT.
func openPTT(cfg *config.Config, port rig.Port) (rig.PTTLine, error) {
	switch strings.ToLower(cfg.PTT.Type) {
	case "", "cat":
		return nil, nil
	case "rts", "dtr":
		up, ok := port.(*uart.Port)
		if !ok {
			return nil, fmt.Errorf("ptt type %s needs a serial port", cfg.PTT.Type)
		}
		signal, err := uart.ParseSignal(cfg.PTT.Type)
		if err != nil {
			return nil, err
		}
		return up.PTTLine(signal), nil
	case "gpio":
		line, err := gpio.Open(cfg.PTT.Pin, cfg.PTT.ActiveLow)
		if err != nil {
			return nil, err
		}
		return line, nil
	default:
		return nil, fmt.Errorf("unknown ptt type %q", cfg.PTT.Type)
	}
}

// connect opens the configured rig. The caller closes the returned rig.
func connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*rig.Rig, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Rig.Model == 0 {
		cfg.Rig.Model = dummy.ModelDummy
	}
	if _, err = reg.Lookup(cfg.Rig.Model); err != nil {
		return nil, err
	}
	opts := []rig.Option{rig.WithLogger(logger)}
	if t := cfg.Timeout(); t > 0 {
		opts = append(opts, rig.WithTimeout(t))
	}
	if cfg.Rig.Retries >= 0 {
		opts = append(opts, rig.WithRetries(cfg.Rig.Retries))
	}
	addr, ok, err := cfg.Address()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, rig.WithAddress(addr))
	}

	port, err := openPort(ctx, cfg)
	if err != nil {
		return nil, err
	}
	line, err := openPTT(cfg, port)
	if err != nil {
		return nil, multierr.Append(err, port.Close())
	}
	if line != nil {
		opts = append(opts, rig.WithPTTLine(line))
	}

	r, err := reg.New(cfg.Rig.Model, port, opts...)
	if err != nil {
		if line != nil {
			err = multierr.Append(err, line.Close())
		}
		return nil, multierr.Append(err, port.Close())
	}
	if err := r.Open(ctx); err != nil {
		return nil, multierr.Append(err, r.Close())
	}
	return r, nil
}
