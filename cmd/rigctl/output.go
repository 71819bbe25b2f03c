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

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/civ"
	"github.com/ZaparooProject/go-rig/detection"
	"github.com/fatih/color"
)

// Output formats results for the terminal.
type Output struct {
	w       io.Writer
	value   *color.Color
	label   *color.Color
	errText *color.Color
	tx      *color.Color
}

// NewOutput creates an output writing to w. Colors are used only when
// colored is set.
func NewOutput(w io.Writer, colored bool) *Output {
	o := &Output{
		w:       w,
		value:   color.New(color.FgHiWhite, color.Bold),
		label:   color.New(color.FgCyan),
		errText: color.New(color.FgRed),
		tx:      color.New(color.FgHiWhite, color.BgRed),
	}
	for _, c := range []*color.Color{o.value, o.label, o.errText, o.tx} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return o
}

// Value prints one result line.
func (o *Output) Value(label string, value any) {
	_, _ = fmt.Fprintf(o.w, "%s %s\n", o.label.Sprintf("%s:", label), o.value.Sprint(value))
}

// Error prints a failed command.
func (o *Output) Error(format string, a ...any) {
	_, _ = fmt.Fprintln(o.w, o.errText.Sprintf(format, a...))
}

// Models prints the model table.
func (o *Output) Models(models []*rig.Capabilities) {
	for _, m := range models {
		_, _ = fmt.Fprintf(o.w, "%s %-12s %-8s %s\n",
			o.value.Sprintf("%4d", m.ModelID), m.Manufacturer, m.ModelName, o.label.Sprint(m.Topology()))
	}
}

// Ports prints detected serial ports.
func (o *Output) Ports(devices []detection.DeviceInfo) {
	for _, d := range devices {
		desc := d.Product
		if d.Known() {
			desc = d.Interface
		}
		_, _ = fmt.Fprintf(o.w, "%s %s %s\n", o.value.Sprint(d.Path), o.label.Sprint(d.VIDPID), desc)
	}
}

// Rigs prints the result of a bus scan.
func (o *Output) Rigs(found []detection.Found) {
	if len(found) == 0 {
		_, _ = fmt.Fprintln(o.w, "no rigs answered")
		return
	}
	for _, f := range found {
		o.rig(f.Device.Path, f.Rig)
	}
}

func (o *Output) rig(path string, r civ.Found) {
	name := r.Name
	if name == "" {
		name = "unknown"
	}
	_, _ = fmt.Fprintf(o.w, "%s address %s id %s %s\n",
		o.value.Sprint(path), o.label.Sprintf("%02X", r.Address), o.label.Sprintf("%02X", r.ID), name)
}

// Freq prints a frequency change from the monitor.
func (o *Output) Freq(f rig.Freq) {
	o.Value("Frequency", f)
}

// Mode prints a mode change from the monitor.
func (o *Output) Mode(m rig.Mode, pb rig.Passband) {
	o.Value("Mode", fmt.Sprintf("%s %d", m, pb))
}

// PTT prints a PTT change from the monitor.
func (o *Output) PTT(on bool) {
	if on {
		_, _ = fmt.Fprintln(o.w, o.tx.Sprint(" TX "))
		return
	}
	o.Value("PTT", "RX")
}
