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

// Package gpio keys a transmitter through a GPIO pin, for interfaces that
// wire PTT to a single board computer header.
package gpio

import (
	"fmt"
	"sync"

	rig "github.com/ZaparooProject/go-rig"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Line is a rig.PTTLine driving one GPIO pin.
type Line struct {
	pin       gpio.PinIO
	activeLow bool
	mu        sync.Mutex
	closed    bool
}

// Open initializes the host drivers and claims the pin registered as name,
// for example "GPIO17".
func Open(name string, activeLow bool) (*Line, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: no GPIO pin named %q", rig.ErrInvalidArgument, name)
	}
	return New(pin, activeLow)
}

// New drives pin as a PTT line and leaves the transmitter unkeyed.
func New(pin gpio.PinIO, activeLow bool) (*Line, error) {
	l := &Line{pin: pin, activeLow: activeLow}
	if err := pin.Out(l.level(false)); err != nil {
		return nil, rig.NewIOError("set_ptt", pin.Name(), err)
	}
	return l, nil
}

func (l *Line) level(on bool) gpio.Level {
	return gpio.Level(on != l.activeLow)
}

// SetPTT keys or unkeys the transmitter.
func (l *Line) SetPTT(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return rig.NewIOError("set_ptt", l.pin.Name(), rig.ErrPortClosed)
	}
	if err := l.pin.Out(l.level(on)); err != nil {
		return rig.NewIOError("set_ptt", l.pin.Name(), err)
	}
	return nil
}

// GetPTT reads the pin back.
func (l *Line) GetPTT() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false, rig.NewIOError("get_ptt", l.pin.Name(), rig.ErrPortClosed)
	}
	return l.pin.Read() == l.level(true), nil
}

// Close unkeys the transmitter and releases the pin.
func (l *Line) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if err := l.pin.Out(l.level(false)); err != nil {
		return rig.NewIOError("close", l.pin.Name(), err)
	}
	if err := l.pin.Halt(); err != nil {
		return rig.NewIOError("close", l.pin.Name(), err)
	}
	return nil
}

func (l *Line) String() string {
	return l.pin.Name()
}
