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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opt     Option
		name    string
		wantErr bool
	}{
		{name: "nil logger", opt: WithLogger(nil), wantErr: true},
		{name: "zero timeout", opt: WithTimeout(0), wantErr: true},
		{name: "negative retries", opt: WithRetries(-1), wantErr: true},
		{name: "timeout", opt: WithTimeout(time.Second)},
		{name: "retries", opt: WithRetries(0)},
		{name: "address", opt: WithAddress(0x76)},
		{name: "ptt line", opt: WithPTTLine(&fakePTTLine{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(fakeModel(abCaps(), newFakeBackend()), &fakePort{}, tt.opt)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	t.Parallel()

	r, err := New(fakeModel(abCaps(), newFakeBackend()), &fakePort{},
		WithTimeout(2*time.Second), WithRetries(5), WithAddress(0x76))
	require.NoError(t, err)

	st := r.State()
	assert.Equal(t, 2*time.Second, st.Timeout)
	assert.Equal(t, 5, st.Retries)
	assert.Equal(t, byte(0x76), st.Address)
	assert.Equal(t, VFOCurr, st.CurrentVFO)
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()

	_, err := New(Model{}, &fakePort{})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = New(fakeModel(abCaps(), newFakeBackend()), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	failing := Model{Caps: abCaps(), New: func(BackendConfig) (Backend, error) {
		return nil, errors.New("no such device")
	}}
	_, err = New(failing, &fakePort{})
	require.Error(t, err)
}

func TestNotOpen(t *testing.T) {
	t.Parallel()

	r, err := New(fakeModel(abCaps(), newFakeBackend()), &fakePort{})
	require.NoError(t, err)

	err = r.SetFreq(context.Background(), VFOCurr, 14_000_000)
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = r.GetVFO(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestOpenEstablishesVFO(t *testing.T) {
	t.Parallel()

	t.Run("resolved", func(t *testing.T) {
		t.Parallel()
		backend := newFakeBackend()
		backend.selected = VFOB
		r, err := New(fakeModel(abCaps(), backend), &fakePort{}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		require.NoError(t, r.Open(context.Background()))
		assert.Equal(t, VFOB, r.State().CurrentVFO)
		assert.Equal(t, []string{"get_vfo"}, backend.Calls())

		require.NoError(t, r.Open(context.Background()), "open is idempotent")
		assert.Len(t, backend.Calls(), 1)
	})

	t.Run("primary selected", func(t *testing.T) {
		t.Parallel()
		backend := newFakeBackend()
		backend.selected = VFOB
		backend.getVFOErr = NewTimeoutError("get_vfo", "fake")
		r, err := New(fakeModel(abCaps(), backend), &fakePort{})
		require.NoError(t, err)
		require.NoError(t, r.Open(context.Background()))
		assert.Equal(t, VFOA, r.State().CurrentVFO)
		assert.Equal(t, []string{"get_vfo", "set_vfo VFOA"}, backend.Calls())
	})

	t.Run("unresponsive rig", func(t *testing.T) {
		t.Parallel()
		backend := newFakeBackend()
		backend.getVFOErr = NewTimeoutError("get_vfo", "fake")
		backend.setVFOErr[VFOA] = NewTimeoutError("set_vfo", "fake")
		r, err := New(fakeModel(abCaps(), backend), &fakePort{})
		require.NoError(t, err)
		require.NoError(t, r.Open(context.Background()))
		assert.Equal(t, VFOCurr, r.State().CurrentVFO)
	})

	t.Run("port failure", func(t *testing.T) {
		t.Parallel()
		backend := newFakeBackend()
		backend.getVFOErr = NewIOError("get_vfo", "fake", errors.New("unplugged"))
		r, err := New(fakeModel(abCaps(), backend), &fakePort{})
		require.NoError(t, err)
		err = r.Open(context.Background())
		assert.Equal(t, KindIO, KindOf(err))
		assert.ErrorIs(t, r.SetPTT(context.Background(), VFOCurr, true), ErrNotOpen)
	})
}

func TestClose(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.closeErr = errors.New("backend busy")
	port := &fakePort{closeErr: errors.New("port gone")}
	line := &fakePTTLine{}
	r, err := New(fakeModel(abCaps(), backend), port, WithPTTLine(line))
	require.NoError(t, err)

	err = r.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend busy")
	assert.Contains(t, err.Error(), "port gone")
	assert.True(t, port.closed, "port closed despite backend error")

	require.NoError(t, r.Close())
	err = r.Open(context.Background())
	assert.ErrorIs(t, err, ErrPortClosed)
}

func TestSetFreqBlank(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)

	err := r.SetFreq(context.Background(), VFOCurr, FreqNone)
	assert.ErrorIs(t, err, ErrInvalidFreq)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Empty(t, backend.Calls())
}

func TestModeValidation(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)

	assert.ErrorIs(t, r.SetMode(context.Background(), VFOCurr, ModeNone, 0), ErrInvalidArgument)
	assert.ErrorIs(t, r.SetMode(context.Background(), VFOCurr, ModeUSB, -1), ErrInvalidArgument)
	require.NoError(t, r.SetMode(context.Background(), VFOCurr, ModeUSB, PassbandNormal))

	m, _, err := r.GetMode(context.Background(), VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, ModeUSB, m)
}

func TestSetVFO(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)

	require.NoError(t, r.SetVFO(context.Background(), VFOB))
	assert.Equal(t, VFOB, r.State().CurrentVFO)
	require.NoError(t, r.SetVFO(context.Background(), VFOCurr))
	assert.Equal(t, []string{"set_vfo VFOB"}, backend.Calls())

	vfo, err := r.GetVFO(context.Background())
	require.NoError(t, err)
	assert.Equal(t, VFOB, vfo)
}

func TestSplitFreqEmulated(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.splitErr = NewError("set_split_freq", "fake", ErrNotAvailable)
	r := openFakeRig(t, abCaps(), backend)
	require.NoError(t, r.SetSplitVFO(context.Background(), VFOCurr, true, VFOB))
	backend.resetCalls()

	require.NoError(t, r.SetSplitFreq(context.Background(), VFOCurr, 14_205_000))
	assert.Equal(t, []string{
		"set_split_freq currVFO 14205000",
		"set_vfo VFOB",
		"set_freq VFOB 14205000",
		"set_vfo VFOA",
	}, backend.Calls())

	f, err := r.GetSplitFreq(context.Background(), VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, Freq(14_205_000), f)
}

func TestSplitFreqNative(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)

	require.NoError(t, r.SetSplitFreq(context.Background(), VFOCurr, 14_205_000))
	assert.Equal(t, []string{"set_split_freq currVFO 14205000"}, backend.Calls())

	split, tx, err := r.GetSplitVFO(context.Background(), VFOCurr)
	require.NoError(t, err)
	assert.True(t, split)
	assert.Equal(t, VFOB, tx)
	assert.True(t, r.State().Split)
}

func TestSplitInvalidTxVFO(t *testing.T) {
	t.Parallel()

	r := openFakeRig(t, abCaps(), newFakeBackend())
	err := r.SetSplitVFO(context.Background(), VFOCurr, true, VFOSub)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPTT(t *testing.T) {
	t.Parallel()

	t.Run("command", func(t *testing.T) {
		t.Parallel()
		backend := newFakeBackend()
		r := openFakeRig(t, abCaps(), backend)

		require.NoError(t, r.SetPTT(context.Background(), VFOCurr, true))
		on, err := r.GetPTT(context.Background(), VFOCurr)
		require.NoError(t, err)
		assert.True(t, on)
	})

	t.Run("hardware line", func(t *testing.T) {
		t.Parallel()
		backend := newFakeBackend()
		line := &fakePTTLine{}
		r := openFakeRig(t, abCaps(), backend, WithPTTLine(line))

		require.NoError(t, r.SetPTT(context.Background(), VFOCurr, true))
		assert.True(t, line.on)
		on, err := r.GetPTT(context.Background(), VFOCurr)
		require.NoError(t, err)
		assert.True(t, on)
		assert.Empty(t, backend.Calls())
	})
}

func TestPowerStat(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)
	r.state.ProbeDone = true

	require.NoError(t, r.SetPowerStat(context.Background(), PowerOff))
	stat, err := r.GetPowerStat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PowerOff, stat)
	assert.True(t, r.State().ProbeDone)

	require.NoError(t, r.SetPowerStat(context.Background(), PowerOn))
	assert.False(t, r.State().ProbeDone, "a rig coming up may select any VFO")
}

func TestVFOOpUpdatesCache(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.freqs[VFOA] = 14_000_000
	backend.freqs[VFOB] = 7_000_000
	r := openFakeRig(t, abCaps(), backend)
	_, err := r.GetFreq(context.Background(), VFOA)
	require.NoError(t, err)
	_, err = r.GetFreq(context.Background(), VFOB)
	require.NoError(t, err)

	require.NoError(t, r.VFOOp(context.Background(), VFOCurr, OpExchange))
	a, _ := r.state.Cached(VFOA)
	b, _ := r.state.Cached(VFOB)
	assert.Equal(t, Freq(7_000_000), a.Freq)
	assert.Equal(t, Freq(14_000_000), b.Freq)

	require.NoError(t, r.VFOOp(context.Background(), VFOCurr, OpCopy))
	b, _ = r.state.Cached(VFOB)
	assert.Equal(t, Freq(7_000_000), b.Freq)

	caps := abCaps()
	caps.VFOOps = nil
	r = openFakeRig(t, caps, newFakeBackend())
	assert.ErrorIs(t, r.VFOOp(context.Background(), VFOCurr, OpCopy), ErrNotAvailable)
}

func TestLevels(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)
	ctx := context.Background()

	require.NoError(t, r.SetLevel(ctx, VFOCurr, LevelAF, 0.25))
	v, err := r.GetLevel(ctx, VFOCurr, LevelAF)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-6)

	assert.ErrorIs(t, r.SetLevel(ctx, VFOCurr, LevelAF, 1.5), ErrInvalidArgument)
	assert.ErrorIs(t, r.SetLevel(ctx, VFOCurr, LevelAF, -0.1), ErrInvalidArgument)
	assert.ErrorIs(t, r.SetLevel(ctx, VFOCurr, LevelMicGain, 0.5), ErrNotAvailable)
	_, err = r.GetLevel(ctx, VFOCurr, LevelNR)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestHandleEvent(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	r := openFakeRig(t, abCaps(), backend)

	r.HandleEvent(Event{VFO: VFOB, Mode: ModeCW, Passband: 500, HasMode: true})
	b, ok := r.state.Cached(VFOB)
	require.True(t, ok)
	assert.Equal(t, ModeCW, b.Mode)
	assert.False(t, b.HasFreq)

	ev, err := r.HandleFrame([]byte{7})
	require.NoError(t, err)
	assert.Equal(t, Freq(7000), ev.Freq)
	a, ok := r.state.Cached(VFOA)
	require.True(t, ok)
	assert.Equal(t, Freq(7000), a.Freq)

	_, err = r.HandleFrame(nil)
	require.Error(t, err)
}

func TestInvalidateVFO(t *testing.T) {
	t.Parallel()

	r := openFakeRig(t, abCaps(), newFakeBackend())
	r.state.ProbeDone = true
	r.InvalidateVFO()
	assert.False(t, r.State().ProbeDone)
}

func TestStateSnapshotIsolated(t *testing.T) {
	t.Parallel()

	r := openFakeRig(t, abCaps(), newFakeBackend())
	require.NoError(t, r.SetFreq(context.Background(), VFOCurr, 14_000_000))

	snap := r.State()
	snap.CacheFreq(VFOA, 1)
	c, _ := r.state.Cached(VFOA)
	assert.Equal(t, Freq(14_000_000), c.Freq)
}

func TestOffsetsAndMemoryUnavailable(t *testing.T) {
	t.Parallel()

	caps := abCaps()
	caps.MaxRIT = 9999
	caps.HasRepeater = true
	caps.MemChannels = 99
	r := openFakeRig(t, caps, newFakeBackend())
	ctx := context.Background()

	// the fake backend implements none of them
	assert.ErrorIs(t, r.SetRIT(ctx, VFOCurr, 10), ErrNotAvailable)
	_, err := r.GetRIT(ctx, VFOCurr)
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.ErrorIs(t, r.SetRptrShift(ctx, VFOCurr, RptrShiftPlus), ErrNotAvailable)
	assert.ErrorIs(t, r.SetRptrOffs(ctx, VFOCurr, 600_000), ErrNotAvailable)
	assert.ErrorIs(t, r.SetMem(ctx, VFOCurr, 1), ErrNotAvailable)
	_, err = r.GetMem(ctx, VFOCurr)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestParseRptrShift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want RptrShift
	}{
		{in: "+", want: RptrShiftPlus},
		{in: "-", want: RptrShiftMinus},
		{in: "None", want: RptrShiftNone},
		{in: "0", want: RptrShiftNone},
	}
	for _, tt := range tests {
		got, err := ParseRptrShift(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.in != "0" {
			assert.Equal(t, tt.in, got.String())
		}
	}

	_, err := ParseRptrShift("up")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
