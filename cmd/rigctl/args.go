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
	"fmt"
	"io"

	"github.com/ZaparooProject/go-rig/dummy"
	"github.com/ZaparooProject/go-rig/internal/config"
	"github.com/pborman/getopt"
)

// Mode selects what rigctl does after connecting.
type Mode int

const (
	ModeCommands Mode = iota
	ModeList
	ModeScan
	ModeMonitor
)

// args holds the parsed command line.
type args struct {
	configPath string
	port       string
	portType   string
	civAddress string
	controller string
	pttType    string
	pttPin     string
	logFile    string
	commands   []string
	model      int
	baud       int
	timeoutMs  int
	retries    int
	verbose    int
	mode       Mode
	echo       bool
	quiet      bool
	noColor    bool
	help       bool
}

func parseArgs(argv []string, stderr io.Writer) (*args, error) {
	set := getopt.New()
	set.SetParameters("[command [arg...]]...")

	a := &args{retries: -1}
	set.BoolVarLong(&a.help, "help", 'h', "display help")
	set.StringVarLong(&a.configPath, "config", 'C', "YAML rig profile", "file")
	set.IntVarLong(&a.model, "model", 'm', "rig model id (see --list)", "id")
	set.StringVarLong(&a.port, "rig-file", 'r', "serial device, or host:port with --port-type tcp", "path")
	set.StringVarLong(&a.portType, "port-type", 't', "serial or tcp", "type")
	set.IntVarLong(&a.baud, "serial-speed", 's', "serial baud rate", "baud")
	set.StringVarLong(&a.civAddress, "civaddr", 'c', "CI-V address of the rig, e.g. 0x94", "addr")
	set.StringVarLong(&a.controller, "controller-address", 'z', "CI-V address of this controller", "addr")
	set.StringVarLong(&a.pttType, "ptt-type", 'P', "cat, rts, dtr or gpio", "type")
	set.StringVarLong(&a.pttPin, "ptt-pin", 0, "GPIO pin name for --ptt-type gpio", "pin")
	set.IntVarLong(&a.timeoutMs, "timeout", 0, "reply timeout in milliseconds", "ms")
	set.IntVarLong(&a.retries, "retries", 0, "retries per command", "n")
	set.BoolVarLong(&a.echo, "echo", 'e', "the interface echoes every frame")
	set.StringVarLong(&a.logFile, "log-file", 0, "write logs to a rotating file", "file")
	set.BoolVarLong(&a.quiet, "quiet", 'q', "only log errors")
	set.BoolVarLong(&a.noColor, "no-color", 0, "disable colored output")
	verbose := set.CounterLong("verbose", 'v', "more logging, repeat for debug")
	list := set.BoolLong("list", 'l', "list supported models")
	scan := set.BoolLong("scan", 0, "look for rigs on serial ports and the CI-V bus")
	monitor := set.BoolLong("monitor", 'M', "poll the rig and print every change")
	useDummy := set.BoolLong("dummy", 0, "use the in-memory rig")

	if err := set.Getopt(argv, nil); err != nil {
		set.PrintUsage(stderr)
		return nil, err
	}
	if a.help {
		set.PrintUsage(stderr)
		return a, nil
	}

	a.verbose = *verbose
	if a.quiet && a.verbose > 0 {
		return nil, fmt.Errorf("--quiet and --verbose exclude each other")
	}
	if *useDummy {
		a.model = dummy.ModelDummy
	}

	modes := 0
	for _, on := range []bool{*list, *scan, *monitor} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return nil, fmt.Errorf("--list, --scan and --monitor exclude each other")
	}
	switch {
	case *list:
		a.mode = ModeList
	case *scan:
		a.mode = ModeScan
	case *monitor:
		a.mode = ModeMonitor
	}
	a.commands = set.Args()
	return a, nil
}

// apply overrides the profile with whatever was given on the command line.
func (a *args) apply(cfg *config.Config) {
	if a.model != 0 {
		cfg.Rig.Model = a.model
	}
	if a.port != "" {
		cfg.Port.Path = a.port
	}
	if a.portType != "" {
		cfg.Port.Type = a.portType
	}
	if a.baud != 0 {
		cfg.Port.Baud = a.baud
	}
	if a.civAddress != "" {
		cfg.Rig.Address = a.civAddress
	}
	if a.controller != "" {
		cfg.Rig.ControllerAddress = a.controller
	}
	if a.pttType != "" {
		cfg.PTT.Type = a.pttType
	}
	if a.pttPin != "" {
		cfg.PTT.Pin = a.pttPin
	}
	if a.timeoutMs != 0 {
		cfg.Rig.TimeoutMs = a.timeoutMs
	}
	if a.retries >= 0 {
		cfg.Rig.Retries = a.retries
	}
	if a.echo {
		cfg.Rig.Echo = true
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	switch {
	case a.quiet:
		cfg.Log.Level = "error"
	case a.verbose == 1:
		cfg.Log.Level = "info"
	case a.verbose > 1:
		cfg.Log.Level = "debug"
	}
}
