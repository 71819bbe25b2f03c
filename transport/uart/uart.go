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

// Package uart implements rig.Port over a local serial device.
package uart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/transport"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is used when the configuration leaves the rate unset.
	DefaultBaudRate = 19200

	// pollInterval bounds a single blocking read so Close is noticed.
	pollInterval = 50 * time.Millisecond
)

// serialPort is the part of serial.Port the transport uses.
type serialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
	SetRTS(rts bool) error
	SetDTR(dtr bool) error
	GetModemStatusBits() (*serial.ModemStatusBits, error)
	Close() error
}

// Config describes how to open a serial device.
type Config struct {
	Path     string
	BaudRate int
	DataBits int
	StopBits int
	// LockDir holds the advisory lock file. Empty uses the system temp dir.
	LockDir string
	// NoLock skips the lock file, e.g. when another process owns it.
	NoLock bool
}

// Port is a rig.Port over a serial device.
type Port struct {
	port   serialPort
	reader *transport.TerminatedReader
	lock   *lockFile
	path   string
	mu     sync.Mutex
	closed bool
}

// New opens path at baud with 8N1 framing and takes the lock file.
func New(path string, baud int) (*Port, error) {
	return Open(Config{Path: path, BaudRate: baud})
}

// Open opens the device described by cfg.
func Open(cfg Config) (*Port, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: empty serial device path", rig.ErrInvalidArgument)
	}
	mode, err := serialMode(cfg)
	if err != nil {
		return nil, err
	}

	var lock *lockFile
	if !cfg.NoLock {
		lock, err = acquireLock(cfg.LockDir, cfg.Path)
		if err != nil {
			return nil, rig.NewIOError("open", cfg.Path, err)
		}
	}

	sp, err := serial.Open(cfg.Path, mode)
	if err != nil {
		if lock != nil {
			_ = lock.release()
		}
		return nil, rig.NewIOError("open", cfg.Path, err)
	}

	p := newPort(cfg.Path, sp)
	p.lock = lock
	return p, nil
}

func serialMode(cfg Config) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if mode.BaudRate == 0 {
		mode.BaudRate = DefaultBaudRate
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}
	switch cfg.StopBits {
	case 0, 1:
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("%w: %d stop bits", rig.ErrInvalidArgument, cfg.StopBits)
	}
	if mode.BaudRate < 0 {
		return nil, fmt.Errorf("%w: baud rate %d", rig.ErrInvalidArgument, mode.BaudRate)
	}
	return mode, nil
}

func newPort(path string, sp serialPort) *Port {
	p := &Port{port: sp, path: path}
	p.reader = transport.NewTerminatedReader(path, p.readChunk)
	return p
}

// readChunk waits up to timeout for bytes. A timed out serial read returns 0, nil.
func (p *Port) readChunk(buf []byte, timeout time.Duration) (int, error) {
	if timeout > pollInterval {
		timeout = pollInterval
	}
	if err := p.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}
	n, err := p.port.Read(buf)
	if err != nil {
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
			return 0, rig.ErrPortClosed
		}
		return 0, err
	}
	return n, nil
}

// Write sends the whole buffer.
func (p *Port) Write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return rig.NewIOError("write", p.path, rig.ErrPortClosed)
	}
	for len(data) > 0 {
		n, err := p.port.Write(data)
		if err != nil {
			return rig.NewIOError("write", p.path, err)
		}
		if n == 0 {
			return rig.NewIOError("write", p.path, errors.New("short write"))
		}
		data = data[n:]
	}
	return nil
}

// ReadUntil returns bytes up to and including the first terminator.
func (p *Port) ReadUntil(timeout time.Duration, terminators ...byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, rig.NewIOError("read", p.path, rig.ErrPortClosed)
	}
	return p.reader.ReadUntil(timeout, terminators...)
}

// Flush drops buffered input, both ours and the driver's.
func (p *Port) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return rig.NewIOError("flush", p.path, rig.ErrPortClosed)
	}
	p.reader.Reset()
	if err := p.port.ResetInputBuffer(); err != nil {
		return rig.NewIOError("flush", p.path, err)
	}
	return nil
}

// Close closes the device and releases the lock file.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.port.Close()
	if p.lock != nil {
		if lockErr := p.lock.release(); lockErr != nil && err == nil {
			err = lockErr
		}
	}
	if err != nil {
		return rig.NewIOError("close", p.path, err)
	}
	return nil
}

func (p *Port) String() string {
	return p.path
}

// PTTLine returns a PTT line keyed through the port's RTS or DTR signal.
// The line shares the device with the port and is not closed separately.
func (p *Port) PTTLine(signal Signal) *PTTLine {
	return &PTTLine{port: p, signal: signal}
}
