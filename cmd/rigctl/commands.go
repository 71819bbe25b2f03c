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

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	rig "github.com/ZaparooProject/go-rig"
)

var errQuit = errors.New("quit")

type command struct {
	run   func(ctx context.Context, r *rig.Rig, out *Output, argv []string) error
	short string
	long  string
	args  []string
}

var commandTable = []command{
	{short: "F", long: "set_freq", args: []string{"Frequency"}, run: setFreq},
	{short: "f", long: "get_freq", run: getFreq},
	{short: "M", long: "set_mode", args: []string{"Mode", "Passband"}, run: setMode},
	{short: "m", long: "get_mode", run: getMode},
	{short: "V", long: "set_vfo", args: []string{"VFO"}, run: setVFO},
	{short: "v", long: "get_vfo", run: getVFO},
	{short: "S", long: "set_split_vfo", args: []string{"Split", "TX VFO"}, run: setSplitVFO},
	{short: "s", long: "get_split_vfo", run: getSplitVFO},
	{short: "I", long: "set_split_freq", args: []string{"TX Frequency"}, run: setSplitFreq},
	{short: "i", long: "get_split_freq", run: getSplitFreq},
	{short: "X", long: "set_split_mode", args: []string{"TX Mode", "TX Passband"}, run: setSplitMode},
	{short: "x", long: "get_split_mode", run: getSplitMode},
	{short: "T", long: "set_ptt", args: []string{"PTT"}, run: setPTT},
	{short: "t", long: "get_ptt", run: getPTT},
	{short: "L", long: "set_level", args: []string{"Level", "Level Value"}, run: setLevel},
	{short: "l", long: "get_level", args: []string{"Level"}, run: getLevel},
	{short: "G", long: "vfo_op", args: []string{"Mem/VFO Op"}, run: vfoOp},
	{short: "J", long: "set_rit", args: []string{"RIT"}, run: setRIT},
	{short: "j", long: "get_rit", run: getRIT},
	{short: "R", long: "set_rptr_shift", args: []string{"Rptr Shift"}, run: setRptrShift},
	{short: "r", long: "get_rptr_shift", run: getRptrShift},
	{short: "O", long: "set_rptr_offs", args: []string{"Rptr Offset"}, run: setRptrOffs},
	{short: "o", long: "get_rptr_offs", run: getRptrOffs},
	{short: "E", long: "set_mem", args: []string{"Memory#"}, run: setMem},
	{short: "e", long: "get_mem", run: getMem},
	{long: "set_powerstat", args: []string{"Power Status"}, run: setPowerStat},
	{long: "get_powerstat", run: getPowerStat},
	{short: "q", long: "quit", run: func(context.Context, *rig.Rig, *Output, []string) error { return errQuit }},
}

func lookupCommand(name string) (command, bool) {
	name = strings.TrimPrefix(name, `\`)
	for _, c := range commandTable {
		if (c.short != "" && name == c.short) || name == c.long {
			return c, true
		}
	}
	return command{}, false
}

// runCommands executes a sequence of commands and their arguments, e.g.
// "F 14074000 m". It stops at the first failure.
func runCommands(ctx context.Context, r *rig.Rig, out *Output, tokens []string) error {
	for len(tokens) > 0 {
		c, ok := lookupCommand(tokens[0])
		if !ok {
			return fmt.Errorf("%w: unknown command %q", rig.ErrInvalidArgument, tokens[0])
		}
		if len(tokens)-1 < len(c.args) {
			return fmt.Errorf("%w: %s needs %s", rig.ErrInvalidArgument, c.long, strings.Join(c.args, ", "))
		}
		argv := tokens[1 : 1+len(c.args)]
		tokens = tokens[1+len(c.args):]
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.run(ctx, r, out, argv); err != nil {
			if errors.Is(err, errQuit) {
				return err
			}
			return fmt.Errorf("%s: %w", c.long, err)
		}
	}
	return nil
}

// interactive reads command lines from in until EOF or quit. Failed
// commands are reported and the session continues.
func interactive(ctx context.Context, r *rig.Rig, out *Output, in io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			_, _ = fmt.Fprint(out.w, "Rig command: ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := runCommands(ctx, r, out, strings.Fields(scanner.Text()))
		switch {
		case errors.Is(err, errQuit):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			out.Error("%v", err)
		}
	}
}

func parseFreq(s string) (rig.Freq, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return rig.Freq(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%w: bad frequency %q", rig.ErrInvalidArgument, s)
	}
	return rig.Freq(f), nil
}

func freqText(f rig.Freq) string {
	if f == rig.FreqNone {
		return f.String()
	}
	return strconv.FormatUint(uint64(f), 10)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "on", "true":
		return true, nil
	case "0", "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected 0 or 1, got %q", rig.ErrInvalidArgument, s)
}

func boolText(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseModeArgs(mode, passband string) (rig.Mode, rig.Passband, error) {
	m, err := rig.ParseMode(mode)
	if err != nil {
		return 0, 0, err
	}
	pb, err := strconv.Atoi(passband)
	if err != nil || pb < 0 {
		return 0, 0, fmt.Errorf("%w: bad passband %q", rig.ErrInvalidArgument, passband)
	}
	return m, rig.Passband(pb), nil
}

func parseVFOOp(s string) (rig.VFOOp, error) {
	for _, op := range []rig.VFOOp{rig.OpCopy, rig.OpExchange, rig.OpToVFO} {
		if strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown VFO operation %q", rig.ErrInvalidArgument, s)
}

func setFreq(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	f, err := parseFreq(argv[0])
	if err != nil {
		return err
	}
	return r.SetFreq(ctx, rig.VFOCurr, f)
}

func getFreq(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	f, err := r.GetFreq(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("Frequency", freqText(f))
	return nil
}

func setMode(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	m, pb, err := parseModeArgs(argv[0], argv[1])
	if err != nil {
		return err
	}
	return r.SetMode(ctx, rig.VFOCurr, m, pb)
}

func getMode(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	m, pb, err := r.GetMode(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("Mode", m)
	out.Value("Passband", int(pb))
	return nil
}

func setVFO(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	vfo, err := rig.ParseVFO(argv[0])
	if err != nil {
		return err
	}
	return r.SetVFO(ctx, vfo)
}

func getVFO(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	vfo, err := r.GetVFO(ctx)
	if err != nil {
		return err
	}
	out.Value("VFO", vfo)
	return nil
}

func setSplitVFO(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	split, err := parseBool(argv[0])
	if err != nil {
		return err
	}
	tx, err := rig.ParseVFO(argv[1])
	if err != nil {
		return err
	}
	return r.SetSplitVFO(ctx, rig.VFOCurr, split, tx)
}

func getSplitVFO(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	split, tx, err := r.GetSplitVFO(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("Split", boolText(split))
	out.Value("TX VFO", tx)
	return nil
}

func setSplitFreq(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	f, err := parseFreq(argv[0])
	if err != nil {
		return err
	}
	return r.SetSplitFreq(ctx, rig.VFOCurr, f)
}

func getSplitFreq(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	f, err := r.GetSplitFreq(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("TX Frequency", freqText(f))
	return nil
}

func setSplitMode(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	m, pb, err := parseModeArgs(argv[0], argv[1])
	if err != nil {
		return err
	}
	return r.SetSplitMode(ctx, rig.VFOCurr, m, pb)
}

func getSplitMode(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	m, pb, err := r.GetSplitMode(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("TX Mode", m)
	out.Value("TX Passband", int(pb))
	return nil
}

func setPTT(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	on, err := parseBool(argv[0])
	if err != nil {
		return err
	}
	return r.SetPTT(ctx, rig.VFOCurr, on)
}

func getPTT(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	on, err := r.GetPTT(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("PTT", boolText(on))
	return nil
}

func setLevel(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	level, err := rig.ParseLevel(argv[0])
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(argv[1], 32)
	if err != nil {
		return fmt.Errorf("%w: bad level value %q", rig.ErrInvalidArgument, argv[1])
	}
	return r.SetLevel(ctx, rig.VFOCurr, level, float32(v))
}

func getLevel(ctx context.Context, r *rig.Rig, out *Output, argv []string) error {
	level, err := rig.ParseLevel(argv[0])
	if err != nil {
		return err
	}
	v, err := r.GetLevel(ctx, rig.VFOCurr, level)
	if err != nil {
		return err
	}
	out.Value(level.String(), strconv.FormatFloat(float64(v), 'f', 3, 32))
	return nil
}

func vfoOp(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	op, err := parseVFOOp(argv[0])
	if err != nil {
		return err
	}
	return r.VFOOp(ctx, rig.VFOCurr, op)
}

func setRIT(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	offset, err := strconv.ParseInt(argv[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad RIT offset %q", rig.ErrInvalidArgument, argv[0])
	}
	return r.SetRIT(ctx, rig.VFOCurr, rig.ShortFreq(offset))
}

func getRIT(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	offset, err := r.GetRIT(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("RIT", int64(offset))
	return nil
}

func setRptrShift(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	shift, err := rig.ParseRptrShift(argv[0])
	if err != nil {
		return err
	}
	return r.SetRptrShift(ctx, rig.VFOCurr, shift)
}

func getRptrShift(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	shift, err := r.GetRptrShift(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("Rptr Shift", shift)
	return nil
}

func setRptrOffs(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	offset, err := parseFreq(argv[0])
	if err != nil {
		return err
	}
	return r.SetRptrOffs(ctx, rig.VFOCurr, offset)
}

func getRptrOffs(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	offset, err := r.GetRptrOffs(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("Rptr Offset", freqText(offset))
	return nil
}

func setMem(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	ch, err := strconv.Atoi(argv[0])
	if err != nil {
		return fmt.Errorf("%w: bad memory channel %q", rig.ErrInvalidArgument, argv[0])
	}
	return r.SetMem(ctx, rig.VFOCurr, ch)
}

func getMem(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	ch, err := r.GetMem(ctx, rig.VFOCurr)
	if err != nil {
		return err
	}
	out.Value("Memory#", ch)
	return nil
}

func setPowerStat(ctx context.Context, r *rig.Rig, _ *Output, argv []string) error {
	on, err := parseBool(argv[0])
	if err != nil {
		return err
	}
	stat := rig.PowerOff
	if on {
		stat = rig.PowerOn
	}
	return r.SetPowerStat(ctx, stat)
}

func getPowerStat(ctx context.Context, r *rig.Rig, out *Output, _ []string) error {
	stat, err := r.GetPowerStat(ctx)
	if err != nil {
		return err
	}
	out.Value("Power Status", boolText(stat == rig.PowerOn))
	return nil
}
