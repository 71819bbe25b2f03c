package testing

import (
	"bytes"
	"sync"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
)

// Fault is a transport problem injected into the reply to one command.
type Fault int

const (
	// FaultDrop swallows the command; nothing is answered.
	FaultDrop Fault = iota
	// FaultGarble answers with bytes that are not a frame.
	FaultGarble
	// FaultCollision answers with a collision marker.
	FaultCollision
	// FaultForeign answers from another bus address before the real reply.
	FaultForeign
	// FaultStray answers with a reply to another command before the real reply.
	FaultStray
)

// Channel is the content of one VFO or memory slot.
type Channel struct {
	Freq   uint64
	Mode   byte
	Filter byte
	Blank  bool
}

// VirtualRadio simulates an Icom rig on the other end of a rig.Port. It
// keeps a slot per VFO, answers the CI-V commands the backend uses and can
// inject transport faults. Reads never wait: an empty reply queue times
// out immediately.
//
// TargetCommands enables the 0x25/0x26 unselected VFO commands, BandQuery
// the 07 D2 main/sub query. With Echo set every frame written is returned
// before its reply.
type VirtualRadio struct {
	slots          map[rig.VFO]*Channel
	memories       map[int]Channel
	levels         map[byte]uint64
	rejectSelect   map[rig.VFO]bool
	pending        [][]byte
	writes         [][]byte
	frames         []frame.Frame
	faults         []Fault
	mu             sync.Mutex
	FreqDigits     int
	memChannel     int
	rit            int64
	rptrOffset     uint64
	selected       rig.VFO
	lastVFO        rig.VFO
	split          byte
	Address        byte
	TargetCommands bool
	BandQuery      bool
	Echo           bool
	ptt            bool
	sat            bool
	poweredOff     bool
	closed         bool
}

// NewVirtualRadio creates a radio at addr with one slot per VFO. The first
// VFO is selected. Every slot starts at 14.000 MHz USB.
func NewVirtualRadio(addr byte, vfos ...rig.VFO) *VirtualRadio {
	r := &VirtualRadio{
		Address:      addr,
		FreqDigits:   10,
		slots:        make(map[rig.VFO]*Channel),
		memories:     make(map[int]Channel),
		levels:       make(map[byte]uint64),
		rejectSelect: make(map[rig.VFO]bool),
		memChannel:   1,
	}
	for _, v := range vfos {
		r.slots[v] = &Channel{Freq: 14_000_000, Mode: 0x01, Filter: frame.FilterNormal}
	}
	if len(vfos) > 0 {
		r.selected = vfos[0]
		r.lastVFO = vfos[0]
	}
	return r
}

// SetMemory stores ch in memory channel n.
func (r *VirtualRadio) SetMemory(n int, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memories[n] = ch
}

// MemChannel returns the selected memory channel.
func (r *VirtualRadio) MemChannel() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memChannel
}

// RIT returns the RIT offset in Hz.
func (r *VirtualRadio) RIT() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rit
}

// RptrOffset returns the repeater offset in Hz.
func (r *VirtualRadio) RptrOffset() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rptrOffset
}

// Duplex returns the raw split/duplex state byte.
func (r *VirtualRadio) Duplex() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.split
}

// SetChannel overwrites the content of vfo.
func (r *VirtualRadio) SetChannel(vfo rig.VFO, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := ch
	r.slots[vfo] = &c
}

// SetVFOFreq sets the frequency of vfo.
func (r *VirtualRadio) SetVFOFreq(vfo rig.VFO, hz uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.slots[vfo]; ok {
		ch.Freq = hz
		ch.Blank = false
	}
}

// Channel returns the content of vfo.
func (r *VirtualRadio) Channel(vfo rig.VFO) Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.slots[vfo]; ok {
		return *ch
	}
	return Channel{}
}

// Freq returns the frequency of vfo.
func (r *VirtualRadio) Freq(vfo rig.VFO) uint64 {
	return r.Channel(vfo).Freq
}

// Select selects vfo as if the operator pressed the button.
func (r *VirtualRadio) Select(vfo rig.VFO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = vfo
}

// Selected returns the selected VFO.
func (r *VirtualRadio) Selected() rig.VFO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Split reports whether split is on.
func (r *VirtualRadio) Split() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.split == frame.SubSplitOn
}

// SetDuplex sets the raw split/duplex state byte.
func (r *VirtualRadio) SetDuplex(state byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.split = state
}

// PTT reports whether the transmitter is keyed.
func (r *VirtualRadio) PTT() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ptt
}

// SatMode reports whether satellite mode is on.
func (r *VirtualRadio) SatMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sat
}

// SetSatMode sets satellite mode.
func (r *VirtualRadio) SetSatMode(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sat = on
}

// Level returns the raw 0..255 value of a level sub-command.
func (r *VirtualRadio) Level(sub byte) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[sub]
}

// PoweredOff reports whether the radio was switched off.
func (r *VirtualRadio) PoweredOff() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.poweredOff
}

// SetPoweredOff switches the radio off; it then only answers power on.
func (r *VirtualRadio) SetPoweredOff(off bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.poweredOff = off
}

// RejectSelect makes the radio NAK every selection of vfo.
func (r *VirtualRadio) RejectSelect(vfo rig.VFO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejectSelect[vfo] = true
}

// InjectFault applies f to the next n commands, after any faults already
// queued.
func (r *VirtualRadio) InjectFault(f Fault, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for range n {
		r.faults = append(r.faults, f)
	}
}

// TransceiveFreq builds the frame the radio broadcasts when the selected
// frequency changes on the front panel.
func (r *VirtualRadio) TransceiveFreq() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return frame.Encode(frame.Frame{
		To:   frame.BroadcastAddr,
		From: r.Address,
		Cmd:  frame.CmdTransceiveFreq,
		Data: r.freqField(r.slots[r.selected]),
	})
}

// Writes returns copies of everything written to the radio.
func (r *VirtualRadio) Writes() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.writes))
	copy(out, r.writes)
	return out
}

// Frames returns the decoded frames addressed to the radio.
func (r *VirtualRadio) Frames() []frame.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]frame.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// CountCommand counts received frames with cmd whose data starts with prefix.
func (r *VirtualRadio) CountCommand(cmd byte, prefix ...byte) int {
	n := 0
	for _, f := range r.Frames() {
		if f.Cmd == cmd && bytes.HasPrefix(f.Data, prefix) {
			n++
		}
	}
	return n
}

// ResetLog forgets the recorded writes and frames.
func (r *VirtualRadio) ResetLog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.frames = nil
}

// Write receives bytes from the controller and queues the reply.
func (r *VirtualRadio) Write(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return rig.NewIOError("write", r.String(), rig.ErrPortClosed)
	}
	r.writes = append(r.writes, append([]byte(nil), p...))

	f, err := frame.Decode(p, false)
	if err != nil {
		// wake-up preambles and noise
		return nil
	}
	if r.Echo {
		r.pending = append(r.pending, append([]byte(nil), p...))
	}
	if f.To != r.Address && f.To != frame.BroadcastAddr {
		return nil
	}
	r.frames = append(r.frames, f)

	fault, faulty := r.nextFault()
	if faulty {
		switch fault {
		case FaultDrop:
			return nil
		case FaultGarble:
			r.pending = append(r.pending, BuildGarbage())
			return nil
		case FaultCollision:
			r.pending = append(r.pending, BuildCollision(r.Address))
			return nil
		case FaultForeign:
			r.pending = append(r.pending, BuildAck(r.Address+1))
		case FaultStray:
			stray := byte(frame.CmdTargetMode)
			if f.Cmd == stray {
				stray = frame.CmdReadFreq
			}
			r.pending = append(r.pending, BuildReply(r.Address, stray, 0x00))
		}
	}

	if reply := r.handle(f); reply != nil {
		r.pending = append(r.pending, reply)
	}
	return nil
}

func (r *VirtualRadio) nextFault() (Fault, bool) {
	if len(r.faults) == 0 {
		return 0, false
	}
	f := r.faults[0]
	r.faults = r.faults[1:]
	return f, true
}

// ReadUntil returns the next queued reply or times out at once.
func (r *VirtualRadio) ReadUntil(_ time.Duration, _ ...byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, rig.NewIOError("read", r.String(), rig.ErrPortClosed)
	}
	if len(r.pending) == 0 {
		return nil, rig.NewTimeoutError("read", r.String())
	}
	next := r.pending[0]
	r.pending = r.pending[1:]
	return next, nil
}

// Flush discards unread replies.
func (r *VirtualRadio) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = nil
	return nil
}

// Close closes the port side of the radio.
func (r *VirtualRadio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (*VirtualRadio) String() string {
	return "virtual"
}

func (r *VirtualRadio) ack() []byte {
	return BuildAck(r.Address)
}

func (r *VirtualRadio) nak() []byte {
	return BuildNak(r.Address)
}

func (r *VirtualRadio) reply(cmd byte, data ...byte) []byte {
	return BuildReply(r.Address, cmd, data...)
}

func (r *VirtualRadio) freqField(ch *Channel) []byte {
	if ch == nil || ch.Blank {
		field := make([]byte, (r.FreqDigits+1)/2)
		for i := range field {
			field[i] = 0xFF
		}
		return field
	}
	data, err := frame.ToBCD(ch.Freq, r.FreqDigits)
	if err != nil {
		return nil
	}
	return data
}

func (r *VirtualRadio) parseFreq(data []byte) (uint64, bool) {
	if len(data) != (r.FreqDigits+1)/2 {
		return 0, false
	}
	hz, err := frame.FromBCD(data, r.FreqDigits)
	return hz, err == nil
}

// other returns the partner of vfo in its A/B or Main/Sub pair.
func other(vfo rig.VFO) rig.VFO {
	switch vfo {
	case rig.VFOA:
		return rig.VFOB
	case rig.VFOB:
		return rig.VFOA
	case rig.VFOMain:
		return rig.VFOSub
	case rig.VFOSub:
		return rig.VFOMain
	default:
		return rig.VFONone
	}
}

func (r *VirtualRadio) handle(f frame.Frame) []byte {
	d := f.Data
	if r.poweredOff {
		if f.Cmd == frame.CmdPower && len(d) == 1 && d[0] == frame.SubPowerOn {
			r.poweredOff = false
			return r.ack()
		}
		return nil
	}

	sel := r.slots[r.selected]
	switch f.Cmd {
	case frame.CmdReadFreq:
		return r.reply(frame.CmdReadFreq, r.freqField(sel)...)
	case frame.CmdReadMode:
		if sel == nil {
			return r.nak()
		}
		return r.reply(frame.CmdReadMode, sel.Mode, sel.Filter)
	case frame.CmdSetFreq:
		hz, ok := r.parseFreq(d)
		if !ok || sel == nil {
			return r.nak()
		}
		sel.Freq = hz
		sel.Blank = false
		return r.ack()
	case frame.CmdSetMode:
		if len(d) < 1 || sel == nil {
			return r.nak()
		}
		sel.Mode = d[0]
		if len(d) > 1 {
			sel.Filter = d[1]
		}
		return r.ack()
	case frame.CmdSetVFO:
		return r.handleVFO(d)
	case frame.CmdSetMem:
		if len(d) == 0 {
			return r.selectSlot(rig.VFOMem)
		}
		return r.handleMemChannel(d)
	case frame.CmdMemToVFO:
		mem, dst := r.slots[rig.VFOMem], r.slots[r.lastVFO]
		if mem == nil || dst == nil || r.lastVFO == rig.VFOMem {
			return r.nak()
		}
		*dst = *mem
		r.selected = r.lastVFO
		return r.ack()
	case frame.CmdRIT:
		return r.handleRIT(d)
	case frame.CmdReadOffset:
		data, err := frame.ToBCD(r.rptrOffset/100, 6)
		if err != nil {
			return r.nak()
		}
		return r.reply(frame.CmdReadOffset, data...)
	case frame.CmdSetOffset:
		v, err := frame.FromBCD(d, 6)
		if err != nil || len(d) != 3 {
			return r.nak()
		}
		r.rptrOffset = v * 100
		return r.ack()
	case frame.CmdSplit:
		if len(d) == 0 {
			return r.reply(frame.CmdSplit, r.split)
		}
		r.split = d[0]
		return r.ack()
	case frame.CmdLevel:
		return r.handleLevel(d)
	case frame.CmdFunction:
		if len(d) < 1 || d[0] != frame.SubFuncSatMode {
			return r.nak()
		}
		if len(d) == 1 {
			return r.reply(frame.CmdFunction, frame.SubFuncSatMode, boolByte(r.sat))
		}
		r.sat = d[1] == 0x01
		return r.ack()
	case frame.CmdPower:
		if len(d) == 1 && d[0] == frame.SubPowerOff {
			r.poweredOff = true
			return r.ack()
		}
		return r.ack()
	case frame.CmdReadID:
		if len(d) < 1 || d[0] != frame.SubReadID {
			return r.nak()
		}
		return r.reply(frame.CmdReadID, frame.SubReadID, r.Address)
	case frame.CmdPTT:
		if len(d) < 1 || d[0] != frame.SubPTT {
			return r.nak()
		}
		if len(d) == 1 {
			return r.reply(frame.CmdPTT, frame.SubPTT, boolByte(r.ptt))
		}
		r.ptt = d[1] == 0x01
		return r.ack()
	case frame.CmdTargetFreq:
		return r.handleTargetFreq(d)
	case frame.CmdTargetMode:
		return r.handleTargetMode(d)
	default:
		return r.nak()
	}
}

func (r *VirtualRadio) selectSlot(vfo rig.VFO) []byte {
	if _, ok := r.slots[vfo]; !ok || r.rejectSelect[vfo] {
		return r.nak()
	}
	r.selected = vfo
	if vfo != rig.VFOMem {
		r.lastVFO = vfo
	}
	return r.ack()
}

// handleMemChannel switches to memory channel d, a big endian BCD number.
// The memory slot shows the channel; the previous one keeps its content.
func (r *VirtualRadio) handleMemChannel(d []byte) []byte {
	n, err := frame.FromBCDBigEndian(d, 4)
	if err != nil || len(d) != 2 || n == 0 || n > 99 {
		return r.nak()
	}
	mem, ok := r.slots[rig.VFOMem]
	if !ok {
		return r.nak()
	}
	r.memories[r.memChannel] = *mem
	next, ok := r.memories[int(n)]
	if !ok {
		next = Channel{Blank: true}
	}
	*mem = next
	r.memChannel = int(n)
	return r.ack()
}

func (r *VirtualRadio) handleRIT(d []byte) []byte {
	if len(d) < 1 || d[0] != frame.SubRITOffset {
		return r.nak()
	}
	if len(d) == 1 {
		data, err := frame.EncodeOffset(r.rit, 4)
		if err != nil {
			return r.nak()
		}
		return r.reply(frame.CmdRIT, append([]byte{frame.SubRITOffset}, data...)...)
	}
	v, err := frame.DecodeOffset(d[1:], 4)
	if err != nil {
		return r.nak()
	}
	r.rit = v
	return r.ack()
}

func (r *VirtualRadio) handleVFO(d []byte) []byte {
	if len(d) == 0 {
		return r.selectSlot(rig.VFOVFO)
	}
	switch d[0] {
	case frame.SubVFOA:
		return r.selectSlot(rig.VFOA)
	case frame.SubVFOB:
		return r.selectSlot(rig.VFOB)
	case frame.SubVFOMain:
		return r.selectSlot(rig.VFOMain)
	case frame.SubVFOSub:
		return r.selectSlot(rig.VFOSub)
	case frame.SubVFOEqualAB:
		src, dst := r.slots[r.selected], r.slots[other(r.selected)]
		if src == nil || dst == nil {
			return r.nak()
		}
		*dst = *src
		return r.ack()
	case frame.SubVFOExchange:
		a, b := r.slots[r.selected], r.slots[other(r.selected)]
		if a == nil || b == nil {
			return r.nak()
		}
		*a, *b = *b, *a
		return r.ack()
	case frame.SubVFOReadBand:
		if !r.BandQuery {
			return r.nak()
		}
		band := byte(0x00)
		if r.selected == rig.VFOSub {
			band = 0x01
		}
		return r.reply(frame.CmdSetVFO, frame.SubVFOReadBand, band)
	default:
		return r.nak()
	}
}

func (r *VirtualRadio) handleLevel(d []byte) []byte {
	if len(d) < 1 {
		return r.nak()
	}
	sub := d[0]
	if len(d) == 1 {
		data, err := frame.ToBCDBigEndian(r.levels[sub], 4)
		if err != nil {
			return r.nak()
		}
		return r.reply(frame.CmdLevel, append([]byte{sub}, data...)...)
	}
	v, err := frame.FromBCDBigEndian(d[1:], 4)
	if err != nil || v > 255 {
		return r.nak()
	}
	r.levels[sub] = v
	return r.ack()
}

// target returns the slot a 0x25/0x26 sub-command addresses.
func (r *VirtualRadio) target(sub byte) *Channel {
	switch sub {
	case frame.SubTargetSel:
		return r.slots[r.selected]
	case frame.SubTargetUnsel:
		return r.slots[other(r.selected)]
	default:
		return nil
	}
}

func (r *VirtualRadio) handleTargetFreq(d []byte) []byte {
	if !r.TargetCommands || len(d) < 1 {
		return r.nak()
	}
	ch := r.target(d[0])
	if ch == nil {
		return r.nak()
	}
	if len(d) == 1 {
		return r.reply(frame.CmdTargetFreq, append([]byte{d[0]}, r.freqField(ch)...)...)
	}
	hz, ok := r.parseFreq(d[1:])
	if !ok {
		return r.nak()
	}
	ch.Freq = hz
	ch.Blank = false
	return r.ack()
}

func (r *VirtualRadio) handleTargetMode(d []byte) []byte {
	if !r.TargetCommands || len(d) < 1 {
		return r.nak()
	}
	ch := r.target(d[0])
	if ch == nil {
		return r.nak()
	}
	if len(d) == 1 {
		return r.reply(frame.CmdTargetMode, d[0], ch.Mode, frame.ModeDataOff, ch.Filter)
	}
	ch.Mode = d[1]
	if len(d) >= 4 {
		ch.Filter = d[3]
	}
	return r.ack()
}

func boolByte(b bool) byte {
	if b {
		return 0x01
	}
	return 0x00
}
