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
	"context"
	"fmt"
)

// CallContext runs fn and returns early when ctx is done. Reads on the port
// cannot be interrupted, so an abandoned call keeps running in the
// background and its result is dropped.
func CallContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("context cancelled before call: %w", ctx.Err())
	default:
	}

	type result struct {
		err   error
		value T
	}
	resultChan := make(chan result, 1)

	go func() {
		v, err := fn()
		resultChan <- result{err: err, value: v}
	}()

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("context cancelled while waiting for rig: %w", ctx.Err())
	case res := <-resultChan:
		return res.value, res.err
	}
}
