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

// Command rigctl controls a transceiver from the command line.
//
// Commands follow the rigctl conventions: single letter or long names,
// upper case sets and lower case gets, e.g.
//
//	rigctl -m 373 -r /dev/ttyUSB0 F 14074000 M USB 0 f m
//
// Without commands it reads them line by line from stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/go-rig/internal/config"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a, err := parseArgs(argv, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if a.help {
		return 0
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	a.apply(cfg)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	out := NewOutput(stdout, !a.noColor && isTerminal(stdout))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, a, cfg, logger, stdin, out); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		out.Error("Error: %v", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, a *args, cfg *config.Config, logger *zap.Logger, stdin io.Reader, out *Output) error {
	switch a.mode {
	case ModeList:
		reg, err := newRegistry(cfg)
		if err != nil {
			return err
		}
		out.Models(reg.Models())
		return nil
	case ModeScan:
		return scanPorts(ctx, cfg, logger, out)
	}

	r, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			logger.Warn("close failed", zap.Error(cerr))
		}
	}()

	switch {
	case a.mode == ModeMonitor:
		return monitor(ctx, r, cfg, logger, out)
	case len(a.commands) > 0:
		err := runCommands(ctx, r, out, a.commands)
		if errors.Is(err, errQuit) {
			return nil
		}
		return err
	default:
		return interactive(ctx, r, out, stdin, isTerminal(stdin))
	}
}
