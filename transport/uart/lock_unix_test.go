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

//go:build unix

package uart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockPathIsPerDevice(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := lockPath(dir, "/dev/ttyUSB0")
	b := lockPath(dir, "/dev/ttyUSB1")
	assert.NotEqual(t, a, b)
	assert.Equal(t, dir, filepath.Dir(a))
}

func TestLockIsExclusive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := acquireLock(dir, "/dev/ttyUSB0")
	require.NoError(t, err)

	_, err = acquireLock(dir, "/dev/ttyUSB0")
	require.ErrorIs(t, err, ErrPortLocked)

	other, err := acquireLock(dir, "/dev/ttyUSB1")
	require.NoError(t, err)
	require.NoError(t, other.release())

	require.NoError(t, first.release())
	again, err := acquireLock(dir, "/dev/ttyUSB0")
	require.NoError(t, err)
	require.NoError(t, again.release())
}
