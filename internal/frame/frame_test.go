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

package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		frame Frame
		want  []byte
	}{
		{
			name:  "read frequency",
			frame: Frame{To: 0x94, From: ControllerAddr, Cmd: CmdReadFreq},
			want:  []byte{0xFE, 0xFE, 0x94, 0xE0, 0x03, 0xFD},
		},
		{
			name:  "select VFO B",
			frame: Frame{To: 0x58, From: ControllerAddr, Cmd: CmdSetVFO, Sub: SubVFOB, HasSub: true},
			want:  []byte{0xFE, 0xFE, 0x58, 0xE0, 0x07, 0x01, 0xFD},
		},
		{
			name: "set frequency 14.250 MHz",
			frame: Frame{
				To: 0x58, From: ControllerAddr, Cmd: CmdSetFreq,
				Data: []byte{0x00, 0x00, 0x25, 0x14, 0x00},
			},
			want: []byte{0xFE, 0xFE, 0x58, 0xE0, 0x05, 0x00, 0x00, 0x25, 0x14, 0x00, 0xFD},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Encode(tt.frame); !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncodePadded(t *testing.T) {
	t.Parallel()
	got := EncodePadded(Frame{To: 0x04, From: ControllerAddr, Cmd: CmdReadFreq})
	want := []byte{0xFF, 0xFE, 0xFE, 0x04, 0xE0, 0x03, 0xFD}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodePadded() = % X, want % X", got, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	frames := []Frame{
		{To: 0xE0, From: 0x94, Cmd: Ack},
		{To: 0xE0, From: 0x94, Cmd: Nak},
		{To: 0x94, From: 0xE0, Cmd: CmdSetVFO, Sub: SubVFOExchange, HasSub: true},
		{To: 0xE0, From: 0x94, Cmd: CmdReadFreq, Data: []byte{0x00, 0x00, 0x00, 0x14, 0x00}},
		{To: 0xE0, From: 0xA2, Cmd: CmdLevel, Sub: SubLevelAF, HasSub: true, Data: []byte{0x01, 0x28}},
		{To: 0x00, From: 0x58, Cmd: CmdTransceiveMode, Data: []byte{0x01, 0x02}},
		{To: 0xE0, From: 0x01, Cmd: CmdReadID, Sub: SubReadID, HasSub: true, Data: []byte{0x01}},
	}

	for _, want := range frames {
		got, err := Decode(Encode(want), want.HasSub)
		if err != nil {
			t.Fatalf("Decode(Encode(%+v)) error: %v", want, err)
		}
		if got.To != want.To || got.From != want.From || got.Cmd != want.Cmd ||
			got.Sub != want.Sub || got.HasSub != want.HasSub || !bytes.Equal(got.Data, want.Data) {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		wantErr error
		name    string
		input   []byte
		want    Frame
		hasSub  bool
	}{
		{
			name:  "leading pad and extra preamble",
			input: []byte{0xFF, 0xFE, 0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD},
			want:  Frame{To: 0xE0, From: 0x58, Cmd: Ack},
		},
		{
			name:  "trailing bytes after terminator ignored",
			input: []byte{0xFE, 0xFE, 0xE0, 0x58, 0xFB, 0xFD, 0xFE, 0xFE},
			want:  Frame{To: 0xE0, From: 0x58, Cmd: Ack},
		},
		{
			name:    "collision terminator",
			input:   []byte{0xFE, 0xFE, 0xE0, 0x58, 0xFC},
			wantErr: ErrCollision,
		},
		{
			name:    "collision clobbered the preamble",
			input:   []byte{0x3A, 0x91, 0xE0, 0xFC},
			wantErr: ErrCollision,
		},
		{
			name:    "lone collision byte",
			input:   []byte{0xFC},
			wantErr: ErrCollision,
		},
		{
			name:    "no terminator",
			input:   []byte{0xFE, 0xFE, 0xE0, 0x58, 0x03, 0x00},
			wantErr: ErrMalformed,
		},
		{
			name:    "missing preamble",
			input:   []byte{0xE0, 0x58, 0xFB, 0xFD},
			wantErr: ErrMalformed,
		},
		{
			name:    "reserved source address",
			input:   []byte{0xFE, 0xFE, 0xE0, 0xFB, 0x03, 0xFD},
			wantErr: ErrMalformed,
		},
		{
			name:    "body too short",
			input:   []byte{0xFE, 0xFE, 0xE0, 0x58, 0xFD},
			wantErr: ErrMalformed,
		},
		{
			name:    "sub-command expected but absent",
			input:   []byte{0xFE, 0xFE, 0xE0, 0x58, 0x07, 0xFD},
			hasSub:  true,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tt.input, tt.hasSub)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if got.To != tt.want.To || got.From != tt.want.From || got.Cmd != tt.want.Cmd ||
				!bytes.Equal(got.Data, tt.want.Data) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeTooLong(t *testing.T) {
	t.Parallel()
	input := []byte{0xFE, 0xFE, 0xE0, 0x58, 0x1A}
	input = append(input, bytes.Repeat([]byte{0x01}, MaxFrameLength)...)
	input = append(input, Terminator)
	if _, err := Decode(input, false); !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode() error = %v, want %v", err, ErrMalformed)
	}
}
