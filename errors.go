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

package rig

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure independently of the backend that produced it.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindInvalidArgument: unsupported VFO/parameter combination, detected before any I/O.
	KindInvalidArgument
	// KindNotAvailable: valid in general but not supported by this model.
	KindNotAvailable
	// KindTimeout: no well-formed reply within the retry budget.
	KindTimeout
	// KindRejected: the rig understood the request and refused it (NAK).
	KindRejected
	// KindProtocol: unparseable reply, or a reply to a different command.
	KindProtocol
	// KindIO: the port itself failed.
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotAvailable:
		return "not available"
	case KindTimeout:
		return "timeout"
	case KindRejected:
		return "rejected"
	case KindProtocol:
		return "protocol"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind plus a few specific conditions.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotAvailable    = errors.New("feature not available")
	ErrTimeout         = errors.New("timeout waiting for reply")
	ErrRejected        = errors.New("command rejected by rig")
	ErrProtocol        = errors.New("protocol error")
	ErrIO              = errors.New("port I/O failure")

	ErrNotOpen     = errors.New("rig not open")
	ErrPortClosed  = errors.New("port closed")
	ErrCollision   = errors.New("bus collision")
	ErrUnknownRig  = errors.New("unknown rig model")
	ErrStrayReply  = errors.New("reply to a different command")
	ErrRestoreVFO  = errors.New("failed to restore VFO")
	ErrVFOUnknown  = errors.New("current VFO unknown")
	ErrInvalidFreq = errors.New("frequency out of range")
)

var sentinelKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrInvalidFreq, KindInvalidArgument},
	{ErrNotAvailable, KindNotAvailable},
	{ErrVFOUnknown, KindNotAvailable},
	{ErrUnknownRig, KindNotAvailable},
	{ErrTimeout, KindTimeout},
	{ErrCollision, KindTimeout},
	{ErrRejected, KindRejected},
	{ErrProtocol, KindProtocol},
	{ErrStrayReply, KindProtocol},
	{ErrIO, KindIO},
	{ErrPortClosed, KindIO},
	{ErrNotOpen, KindIO},
}

// Error carries the operation and port a failure happened on.
type Error struct {
	Err       error
	Op        string
	Port      string
	Kind      ErrorKind
	Retryable bool
}

func (e *Error) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with its operation context. The kind is derived from err.
func NewError(op, port string, err error) *Error {
	kind := KindOf(err)
	return &Error{
		Op:        op,
		Port:      port,
		Err:       err,
		Kind:      kind,
		Retryable: kind == KindTimeout,
	}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(op, port string) *Error {
	return &Error{
		Op:        op,
		Port:      port,
		Err:       ErrTimeout,
		Kind:      KindTimeout,
		Retryable: true,
	}
}

// NewIOError wraps a port failure.
func NewIOError(op, port string, err error) *Error {
	return &Error{
		Op:   op,
		Port: port,
		Err:  fmt.Errorf("%w: %w", ErrIO, err),
		Kind: KindIO,
	}
}

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var rigErr *Error
	if errors.As(err, &rigErr) && rigErr.Kind != KindUnknown {
		return rigErr.Kind
	}
	for _, s := range sentinelKinds {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindUnknown
}

// IsRetryable reports whether repeating the request may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var rigErr *Error
	if errors.As(err, &rigErr) {
		return rigErr.Retryable
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrCollision)
}
