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

package uart

import (
	"fmt"

	rig "github.com/ZaparooProject/go-rig"
)

// Signal names a modem control line.
type Signal int

const (
	RTS Signal = iota + 1
	DTR
)

func (s Signal) String() string {
	switch s {
	case RTS:
		return "RTS"
	case DTR:
		return "DTR"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// ParseSignal converts "RTS" or "DTR" into a Signal.
func ParseSignal(name string) (Signal, error) {
	switch name {
	case "RTS", "rts":
		return RTS, nil
	case "DTR", "dtr":
		return DTR, nil
	}
	return 0, fmt.Errorf("%w: unknown PTT signal %q", rig.ErrInvalidArgument, name)
}

// PTTLine keys the transmitter by asserting RTS or DTR. Serial drivers
// cannot read back an output line, so the last written state is reported.
type PTTLine struct {
	port   *Port
	signal Signal
	on     bool
}

// SetPTT asserts or releases the line.
func (l *PTTLine) SetPTT(on bool) error {
	l.port.mu.Lock()
	defer l.port.mu.Unlock()
	if l.port.closed {
		return rig.NewIOError("set_ptt", l.port.path, rig.ErrPortClosed)
	}

	var err error
	switch l.signal {
	case RTS:
		err = l.port.port.SetRTS(on)
	case DTR:
		err = l.port.port.SetDTR(on)
	default:
		return fmt.Errorf("%w: PTT signal %s", rig.ErrInvalidArgument, l.signal)
	}
	if err != nil {
		return rig.NewIOError("set_ptt", l.port.path, err)
	}
	l.on = on
	return nil
}

// GetPTT reports the last state written.
func (l *PTTLine) GetPTT() (bool, error) {
	l.port.mu.Lock()
	defer l.port.mu.Unlock()
	if l.port.closed {
		return false, rig.NewIOError("get_ptt", l.port.path, rig.ErrPortClosed)
	}
	return l.on, nil
}

// Close releases the line. The port itself stays open.
func (l *PTTLine) Close() error {
	l.port.mu.Lock()
	closed := l.port.closed
	l.port.mu.Unlock()
	if closed || !l.on {
		return nil
	}
	return l.SetPTT(false)
}

// CarrierDetect reports the DCD input, which some interfaces wire to the
// rig's squelch output.
func (p *Port) CarrierDetect() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, rig.NewIOError("get_dcd", p.path, rig.ErrPortClosed)
	}
	bits, err := p.port.GetModemStatusBits()
	if err != nil {
		return false, rig.NewIOError("get_dcd", p.path, err)
	}
	return bits.DCD, nil
}
