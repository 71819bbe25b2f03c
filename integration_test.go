package rig_test

import (
	"context"
	"testing"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/civ"
	testutil "github.com/ZaparooProject/go-rig/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openIcom(t *testing.T, id int, radio *testutil.VirtualRadio) *rig.Rig {
	t.Helper()
	reg := rig.NewRegistry()
	require.NoError(t, civ.Register(reg, civ.WithCollisionBackoff(time.Millisecond)))
	r, err := reg.New(id, radio, rig.WithLogger(zaptest.NewLogger(t)), rig.WithTimeout(5*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.Open(context.Background()))
	radio.ResetLog()
	return r
}

// Setting VFO B on a rig that can only address the selected VFO swaps to
// B, writes the frequency and swaps back.
func TestSwapOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x04, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.FreqDigits = 8
	r := openIcom(t, civ.ModelIC735, radio)
	require.Equal(t, rig.VFOA, r.State().CurrentVFO)

	require.NoError(t, r.SetFreq(context.Background(), rig.VFOB, 14_250_000))
	assert.Equal(t, [][]byte{
		{0xFE, 0xFE, 0x04, 0xE0, 0x07, 0x01, 0xFD},
		{0xFE, 0xFE, 0x04, 0xE0, 0x05, 0x00, 0x00, 0x25, 0x14, 0xFD},
		{0xFE, 0xFE, 0x04, 0xE0, 0x07, 0x00, 0xFD},
	}, radio.Writes())
	assert.Equal(t, rig.VFOA, r.State().CurrentVFO)
	assert.Equal(t, rig.VFOA, radio.Selected())
	assert.Equal(t, uint64(14_250_000), radio.Freq(rig.VFOB))
	assert.Equal(t, uint64(14_000_000), radio.Freq(rig.VFOA))
}

func TestTargetOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x94, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.TargetCommands = true
	r := openIcom(t, civ.ModelIC7300, radio)

	require.NoError(t, r.SetFreq(context.Background(), rig.VFOB, 7_074_000))
	require.NoError(t, r.SetMode(context.Background(), rig.VFOB, rig.ModeLSB, rig.PassbandNormal))
	assert.Zero(t, radio.CountCommand(0x07), "no VFO swap needed")
	assert.Equal(t, uint64(7_074_000), radio.Freq(rig.VFOB))

	f, err := r.GetFreq(context.Background(), rig.VFOB)
	require.NoError(t, err)
	assert.Equal(t, rig.Freq(7_074_000), f)
	m, pb, err := r.GetMode(context.Background(), rig.VFOB)
	require.NoError(t, err)
	assert.Equal(t, rig.ModeLSB, m)
	assert.Equal(t, rig.Passband(2400), pb)
}

// After the operator changed the VFO on the front panel, addressing A must
// not land on the newly selected B.
func TestInvalidatedVFOOnWire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		id    int
		radio func() *testutil.VirtualRadio
		swaps bool
	}{
		{
			name: "swapping rig",
			id:   civ.ModelIC735,
			radio: func() *testutil.VirtualRadio {
				radio := testutil.NewVirtualRadio(0x04, rig.VFOA, rig.VFOB, rig.VFOMem)
				radio.FreqDigits = 8
				return radio
			},
			swaps: true,
		},
		{
			name: "targeting rig",
			id:   civ.ModelIC7300,
			radio: func() *testutil.VirtualRadio {
				radio := testutil.NewVirtualRadio(0x94, rig.VFOA, rig.VFOB, rig.VFOMem)
				radio.TargetCommands = true
				return radio
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			radio := tt.radio()
			r := openIcom(t, tt.id, radio)
			require.Equal(t, rig.VFOA, r.State().CurrentVFO)

			radio.Select(rig.VFOB)
			r.InvalidateVFO()
			require.NoError(t, r.SetFreq(context.Background(), rig.VFOA, 7_000_000))

			assert.Equal(t, uint64(7_000_000), radio.Freq(rig.VFOA))
			assert.Equal(t, uint64(14_000_000), radio.Freq(rig.VFOB))
			assert.Equal(t, rig.VFOB, radio.Selected())
			assert.Equal(t, rig.VFOB, r.State().CurrentVFO)
			if !tt.swaps {
				assert.Equal(t, 1, radio.CountCommand(0x25, 0x01, 0x00), "written through the target command")
			}
		})
	}
}

func TestTargetWithUnknownVFOOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x94, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.TargetCommands = true
	r := openIcom(t, civ.ModelIC7300, radio)
	r.InvalidateVFO()
	radio.InjectFault(testutil.FaultDrop, 100)

	err := r.SetFreq(context.Background(), rig.VFOB, 7_000_000)
	require.ErrorIs(t, err, rig.ErrVFOUnknown)
	assert.Zero(t, radio.CountCommand(0x05), "nothing written to the selected VFO")
	assert.Zero(t, radio.CountCommand(0x25, 0x01, 0x00), "nothing written to the unselected VFO")
	assert.Equal(t, uint64(14_000_000), radio.Freq(rig.VFOA))
	assert.Equal(t, uint64(14_000_000), radio.Freq(rig.VFOB))
}

func TestSplitOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x66, rig.VFOA, rig.VFOB, rig.VFOMem)
	r := openIcom(t, civ.ModelIC746PRO, radio)
	ctx := context.Background()

	require.NoError(t, r.SetSplitVFO(ctx, rig.VFOCurr, true, rig.VFOCurr))
	require.NoError(t, r.SetSplitFreq(ctx, rig.VFOCurr, 14_205_000))
	require.NoError(t, r.SetSplitMode(ctx, rig.VFOCurr, rig.ModeUSB, rig.PassbandNormal))

	split, tx, err := r.GetSplitVFO(ctx, rig.VFOCurr)
	require.NoError(t, err)
	assert.True(t, split)
	assert.Equal(t, rig.VFOB, tx)
	assert.Equal(t, uint64(14_205_000), radio.Freq(rig.VFOB))
	assert.Equal(t, rig.VFOA, radio.Selected())

	f, err := r.GetSplitFreq(ctx, rig.VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, rig.Freq(14_205_000), f)
}

func TestSplitEmulatedOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x04, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.FreqDigits = 8
	r := openIcom(t, civ.ModelIC735, radio)
	ctx := context.Background()

	require.NoError(t, r.SetSplitVFO(ctx, rig.VFOCurr, true, rig.VFOB))
	require.NoError(t, r.SetSplitFreq(ctx, rig.VFOCurr, 21_300_000))
	assert.Equal(t, uint64(21_300_000), radio.Freq(rig.VFOB))
	assert.Equal(t, rig.VFOA, radio.Selected())
}

func TestReceiverWithoutVFOPair(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x5A, rig.VFOVFO, rig.VFOMem)
	r := openIcom(t, civ.ModelICR75, radio)
	ctx := context.Background()

	assert.Equal(t, rig.VFOCurr, r.State().CurrentVFO)
	require.NoError(t, r.SetFreq(ctx, rig.VFOCurr, 9_650_000))
	assert.Equal(t, uint64(9_650_000), radio.Freq(rig.VFOVFO))

	err := r.SetFreq(ctx, rig.VFOA, 9_650_000)
	assert.ErrorIs(t, err, rig.ErrInvalidArgument)

	require.NoError(t, r.SetVFO(ctx, rig.VFOMem))
	assert.Equal(t, rig.VFOMem, radio.Selected())
}

func TestRITOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x94, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.TargetCommands = true
	r := openIcom(t, civ.ModelIC7300, radio)
	ctx := context.Background()

	require.NoError(t, r.SetRIT(ctx, rig.VFOCurr, -500))
	assert.Equal(t, int64(-500), radio.RIT())
	rit, err := r.GetRIT(ctx, rig.VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, rig.ShortFreq(-500), rit)

	radio.ResetLog()
	err = r.SetRIT(ctx, rig.VFOCurr, 10_000)
	require.ErrorIs(t, err, rig.ErrInvalidArgument)
	assert.Empty(t, radio.Writes())

	// RIT is not addressable on the unselected VFO
	require.NoError(t, r.SetRIT(ctx, rig.VFOB, 100))
	assert.Equal(t, 2, radio.CountCommand(0x07))
	assert.Equal(t, rig.VFOA, radio.Selected())
}

func TestRepeaterOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x66, rig.VFOA, rig.VFOB, rig.VFOMem)
	r := openIcom(t, civ.ModelIC746PRO, radio)
	ctx := context.Background()

	require.NoError(t, r.SetRptrShift(ctx, rig.VFOCurr, rig.RptrShiftPlus))
	require.NoError(t, r.SetRptrOffs(ctx, rig.VFOCurr, 600_000))
	shift, err := r.GetRptrShift(ctx, rig.VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, rig.RptrShiftPlus, shift)
	offs, err := r.GetRptrOffs(ctx, rig.VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, rig.Freq(600_000), offs)

	_, err = r.GetRIT(ctx, rig.VFOCurr)
	assert.ErrorIs(t, err, rig.ErrNotAvailable, "no RIT command on this model")
}

func TestMemoryOnWire(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x04, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.FreqDigits = 8
	radio.SetMemory(3, testutil.Channel{Freq: 7_050_000, Mode: 0x00, Filter: 0x02})
	r := openIcom(t, civ.ModelIC735, radio)
	ctx := context.Background()

	err := r.SetMem(ctx, rig.VFOCurr, 13)
	require.ErrorIs(t, err, rig.ErrInvalidArgument)

	require.NoError(t, r.SetVFO(ctx, rig.VFOMem))
	require.NoError(t, r.SetMem(ctx, rig.VFOCurr, 3))
	ch, err := r.GetMem(ctx, rig.VFOCurr)
	require.NoError(t, err)
	assert.Equal(t, 3, ch)
	assert.Equal(t, 3, radio.MemChannel())

	require.NoError(t, r.VFOOp(ctx, rig.VFOCurr, rig.OpToVFO))
	assert.False(t, r.State().ProbeDone, "the rig chose the VFO")
	assert.Equal(t, uint64(7_050_000), radio.Freq(rig.VFOA))

	vfo, err := r.GetVFO(ctx)
	require.NoError(t, err)
	assert.Equal(t, rig.VFOA, vfo)
	assert.Equal(t, uint64(7_050_000), radio.Freq(rig.VFOA), "resolving leaves the frequency alone")
}

func TestFaultyBus(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x94, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.TargetCommands = true
	r := openIcom(t, civ.ModelIC7300, radio)

	radio.InjectFault(testutil.FaultCollision, 1)
	radio.InjectFault(testutil.FaultStray, 1)
	radio.InjectFault(testutil.FaultGarble, 1)
	require.NoError(t, r.SetFreq(context.Background(), rig.VFOCurr, 50_313_000))
	assert.Equal(t, uint64(50_313_000), radio.Freq(rig.VFOA))
}

func TestUnresponsiveRig(t *testing.T) {
	t.Parallel()

	radio := testutil.NewVirtualRadio(0x94, rig.VFOA, rig.VFOB, rig.VFOMem)
	radio.SetPoweredOff(true)
	r := openIcom(t, civ.ModelIC7300, radio)

	err := r.SetFreq(context.Background(), rig.VFOCurr, 14_074_000)
	require.Error(t, err)
	assert.Equal(t, rig.KindTimeout, rig.KindOf(err))
	assert.Len(t, radio.Writes(), 4, "one write plus three retries")

	stat, err := r.GetPowerStat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rig.PowerOff, stat)

	require.NoError(t, r.SetPowerStat(context.Background(), rig.PowerOn))
	require.NoError(t, r.SetFreq(context.Background(), rig.VFOCurr, 14_074_000))
}
