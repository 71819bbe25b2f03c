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
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := getIsRetryableTestCases()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func getIsRetryableTestCases() []struct {
	err  error
	name string
	want bool
} {
	return []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "timeout sentinel",
			err:  ErrTimeout,
			want: true,
		},
		{
			name: "wrapped timeout",
			err:  fmt.Errorf("reading: %w", ErrTimeout),
			want: true,
		},
		{
			name: "collision",
			err:  ErrCollision,
			want: true,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("get_freq", "/dev/ttyUSB0"),
			want: true,
		},
		{
			name: "rejected",
			err:  NewError("set_vfo", "/dev/ttyUSB0", ErrRejected),
			want: false,
		},
		{
			name: "io failure",
			err:  NewIOError("write", "/dev/ttyUSB0", errors.New("broken pipe")),
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("something else"),
			want: false,
		},
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorKind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "invalid argument", err: ErrInvalidArgument, want: KindInvalidArgument},
		{name: "invalid frequency", err: fmt.Errorf("x: %w", ErrInvalidFreq), want: KindInvalidArgument},
		{name: "not available", err: ErrNotAvailable, want: KindNotAvailable},
		{name: "unknown rig", err: ErrUnknownRig, want: KindNotAvailable},
		{name: "vfo unknown", err: ErrVFOUnknown, want: KindNotAvailable},
		{name: "timeout", err: ErrTimeout, want: KindTimeout},
		{name: "rejected", err: ErrRejected, want: KindRejected},
		{name: "protocol", err: ErrProtocol, want: KindProtocol},
		{name: "stray reply", err: ErrStrayReply, want: KindProtocol},
		{name: "io", err: ErrIO, want: KindIO},
		{name: "port closed", err: ErrPortClosed, want: KindIO},
		{name: "not open", err: ErrNotOpen, want: KindIO},
		{name: "plain error", err: errors.New("boom"), want: KindUnknown},
		{
			name: "explicit kind wins",
			err:  &Error{Op: "x", Err: errors.New("boom"), Kind: KindRejected},
			want: KindRejected,
		},
		{
			name: "wrapped rig error",
			err:  fmt.Errorf("outer: %w", NewError("get_mode", "", ErrProtocol)),
			want: KindProtocol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	err := NewError("set_freq", "/dev/ttyUSB0", ErrRejected)
	msg := err.Error()
	for _, part := range []string{"set_freq", "/dev/ttyUSB0", "rejected"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}

	noPort := &Error{Op: "get_vfo", Err: ErrNotAvailable}
	if got, want := noPort.Error(), "get_vfo: feature not available"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewIOError("read", "tcp", errors.New("connection reset"))
	if !errors.Is(err, ErrIO) {
		t.Error("NewIOError should wrap ErrIO")
	}
	var rigErr *Error
	if !errors.As(fmt.Errorf("wrapped: %w", err), &rigErr) {
		t.Fatal("errors.As should find *Error")
	}
	if rigErr.Op != "read" || rigErr.Port != "tcp" {
		t.Errorf("unexpected error context %q/%q", rigErr.Op, rigErr.Port)
	}
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	for kind := KindUnknown; kind <= KindIO; kind++ {
		if s := kind.String(); s == "" || strings.HasPrefix(s, "ErrorKind(") {
			t.Errorf("kind %d has no name", int(kind))
		}
	}
}
