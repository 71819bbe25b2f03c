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

package transport

import (
	"errors"
	"sync"
	"testing"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkSource hands out one scripted chunk per read.
type chunkSource struct {
	err    error
	chunks [][]byte
	mu     sync.Mutex
	reads  int
}

func (s *chunkSource) read(p []byte, _ time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if len(s.chunks) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(p, s.chunks[0])
	s.chunks = s.chunks[1:]
	return n, nil
}

func TestTerminatedReader_ReadUntil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		chunks [][]byte
		want   [][]byte
	}{
		{
			name:   "single message in one chunk",
			chunks: [][]byte{{0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD}},
			want:   [][]byte{{0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD}},
		},
		{
			name:   "message split across chunks",
			chunks: [][]byte{{0xFE, 0xFE}, {0xE0, 0x58}, {0xFB, 0xFD}},
			want:   [][]byte{{0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD}},
		},
		{
			name:   "two messages in one chunk",
			chunks: [][]byte{{0xFE, 0xFE, 0x58, 0xE0, 0x03, 0xFD, 0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD}},
			want: [][]byte{
				{0xFE, 0xFE, 0x58, 0xE0, 0x03, 0xFD},
				{0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD},
			},
		},
		{
			name:   "collision marker terminates",
			chunks: [][]byte{{0xFE, 0xFE, 0xE0, 0xFC}},
			want:   [][]byte{{0xFE, 0xFE, 0xE0, 0xFC}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := &chunkSource{chunks: tt.chunks}
			r := NewTerminatedReader("test", src.read)
			for _, want := range tt.want {
				got, err := r.ReadUntil(100*time.Millisecond, 0xFD, 0xFC)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			assert.Equal(t, 0, r.Buffered())
		})
	}
}

func TestTerminatedReader_Timeout(t *testing.T) {
	t.Parallel()

	src := &chunkSource{chunks: [][]byte{{0xFE, 0xFE, 0xE0}}}
	r := NewTerminatedReader("test", src.read)

	got, err := r.ReadUntil(20*time.Millisecond, 0xFD)
	require.ErrorIs(t, err, rig.ErrTimeout)
	assert.Equal(t, rig.KindTimeout, rig.KindOf(err))
	assert.Equal(t, []byte{0xFE, 0xFE, 0xE0}, got)
}

func TestTerminatedReader_IOError(t *testing.T) {
	t.Parallel()

	src := &chunkSource{err: errors.New("device unplugged")}
	r := NewTerminatedReader("/dev/ttyUSB0", src.read)

	_, err := r.ReadUntil(20*time.Millisecond, 0xFD)
	require.Error(t, err)
	assert.Equal(t, rig.KindIO, rig.KindOf(err))
	assert.Contains(t, err.Error(), "/dev/ttyUSB0")
}

func TestTerminatedReader_Reset(t *testing.T) {
	t.Parallel()

	src := &chunkSource{chunks: [][]byte{{0x01, 0x02, 0xFD, 0x03, 0x04}}}
	r := NewTerminatedReader("test", src.read)

	_, err := r.ReadUntil(20*time.Millisecond, 0xFD)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Buffered())

	r.Reset()
	assert.Equal(t, 0, r.Buffered())
}

func TestTerminatedReader_Overflow(t *testing.T) {
	t.Parallel()

	garbage := make([]byte, DefaultMaxMessage+10)
	src := &chunkSource{chunks: [][]byte{garbage[:100], garbage[100:200], garbage[200:]}}
	r := NewTerminatedReader("test", src.read)

	_, err := r.ReadUntil(100*time.Millisecond, 0xFD)
	require.Error(t, err)
	assert.Equal(t, rig.KindProtocol, rig.KindOf(err))
}
