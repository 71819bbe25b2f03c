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
	"fmt"
	"math"
	"strings"

	"periph.io/x/conn/v3/physic"
)

// VFO is a bit set naming one or more logical receive/transmit channels.
// VFOCurr, VFOTx and VFORx are pseudo targets resolved through session state.
type VFO uint32

const (
	VFONone VFO = 0
	VFOA    VFO = 1 << iota
	VFOB
	VFOC
	VFOMain
	VFOSub
	VFOMem
	VFOVFO
	VFOCurr
	VFOTx
	VFORx
)

var vfoNames = []struct {
	name string
	vfo  VFO
}{
	{"VFOA", VFOA},
	{"VFOB", VFOB},
	{"VFOC", VFOC},
	{"Main", VFOMain},
	{"Sub", VFOSub},
	{"MEM", VFOMem},
	{"VFO", VFOVFO},
	{"currVFO", VFOCurr},
	{"TX", VFOTx},
	{"RX", VFORx},
}

func (v VFO) String() string {
	if v == VFONone {
		return "None"
	}
	var parts []string
	for _, n := range vfoNames {
		if v&n.vfo != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("VFO(%#x)", uint32(v))
	}
	return strings.Join(parts, "|")
}

// ParseVFO converts a name such as "VFOA", "Main" or "currVFO" into a VFO.
func ParseVFO(s string) (VFO, error) {
	for _, n := range vfoNames {
		if strings.EqualFold(s, n.name) {
			return n.vfo, nil
		}
	}
	switch strings.ToUpper(s) {
	case "A":
		return VFOA, nil
	case "B":
		return VFOB, nil
	case "C":
		return VFOC, nil
	case "CURR", "CURRENT":
		return VFOCurr, nil
	}
	return VFONone, fmt.Errorf("%w: unknown VFO %q", ErrInvalidArgument, s)
}

// single reports whether exactly one bit is set.
func (v VFO) single() bool {
	return v != 0 && v&(v-1) == 0
}

// Freq is a frequency in Hz.
type Freq uint64

// FreqNone marks a blank, unprogrammed channel. It never equals 0 Hz.
const FreqNone Freq = math.MaxUint64

func (f Freq) String() string {
	if f == FreqNone {
		return "blank"
	}
	if f > Freq(math.MaxInt64)/Freq(physic.Hertz) {
		return fmt.Sprintf("%dHz", uint64(f))
	}
	return (physic.Frequency(f) * physic.Hertz).String()
}

// ShortFreq is a signed offset in Hz, such as a RIT offset.
type ShortFreq int64

// RptrShift is the direction of the transmit offset used through a repeater.
type RptrShift int

const (
	RptrShiftNone RptrShift = iota
	RptrShiftMinus
	RptrShiftPlus
)

func (s RptrShift) String() string {
	switch s {
	case RptrShiftNone:
		return "None"
	case RptrShiftMinus:
		return "-"
	case RptrShiftPlus:
		return "+"
	default:
		return fmt.Sprintf("RptrShift(%d)", int(s))
	}
}

// ParseRptrShift converts "+", "-" or "None" into a RptrShift.
func ParseRptrShift(s string) (RptrShift, error) {
	switch strings.ToLower(s) {
	case "none", "0":
		return RptrShiftNone, nil
	case "-":
		return RptrShiftMinus, nil
	case "+":
		return RptrShiftPlus, nil
	}
	return RptrShiftNone, fmt.Errorf("%w: unknown repeater shift %q", ErrInvalidArgument, s)
}

// Mode is an operating mode.
type Mode int

const (
	ModeNone Mode = iota
	ModeAM
	ModeCW
	ModeUSB
	ModeLSB
	ModeRTTY
	ModeFM
	ModeWFM
	ModeCWR
	ModeRTTYR
)

var modeNames = map[Mode]string{
	ModeNone:  "None",
	ModeAM:    "AM",
	ModeCW:    "CW",
	ModeUSB:   "USB",
	ModeLSB:   "LSB",
	ModeRTTY:  "RTTY",
	ModeFM:    "FM",
	ModeWFM:   "WFM",
	ModeCWR:   "CWR",
	ModeRTTYR: "RTTYR",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name such as "USB" into a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if m != ModeNone && strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
}

// Passband is a filter width in Hz. PassbandNormal selects the rig's
// default width for the mode.
type Passband int

const PassbandNormal Passband = 0

// Level identifies an analog setting.
type Level int

const (
	LevelAF Level = iota + 1
	LevelRF
	LevelSQL
	LevelNR
	LevelRFPower
	LevelMicGain
)

var levelNames = map[Level]string{
	LevelAF:      "AF",
	LevelRF:      "RF",
	LevelSQL:     "SQL",
	LevelNR:      "NR",
	LevelRFPower: "RFPOWER",
	LevelMicGain: "MICGAIN",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel converts a level name such as "AF" into a Level.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidArgument, s)
}

// VFOOp is an operation acting on VFO contents.
type VFOOp int

const (
	// OpCopy copies the current VFO into the other one (A=B).
	OpCopy VFOOp = iota + 1
	// OpExchange swaps the contents of the two VFOs.
	OpExchange
	// OpToVFO copies the selected memory channel into a VFO and leaves
	// the rig in VFO mode.
	OpToVFO
)

func (op VFOOp) String() string {
	switch op {
	case OpCopy:
		return "CPY"
	case OpExchange:
		return "XCHG"
	case OpToVFO:
		return "TO_VFO"
	default:
		return fmt.Sprintf("VFOOp(%d)", int(op))
	}
}

// PowerStat is the power state of the rig.
type PowerStat int

const (
	PowerOff PowerStat = iota
	PowerOn
)
