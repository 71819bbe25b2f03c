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
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Backend is the minimal set of operations every rig family implements.
// Operations act on vfo, which is either VFOCurr or a VFO the handle has
// verified the backend can reach (selected, or targetable per Capabilities).
// Optional features are discovered through the interfaces below; a backend
// lacking one yields ErrNotAvailable.
type Backend interface {
	SetFreq(ctx context.Context, vfo VFO, f Freq) error
	GetFreq(ctx context.Context, vfo VFO) (Freq, error)
	Close() error
}

// Opener is implemented by backends needing a handshake after the port opens.
type Opener interface {
	Open(ctx context.Context) error
}

// ModeBackend sets and reads the operating mode.
type ModeBackend interface {
	SetMode(ctx context.Context, vfo VFO, m Mode, pb Passband) error
	GetMode(ctx context.Context, vfo VFO) (Mode, Passband, error)
}

// VFOSetter selects a VFO.
type VFOSetter interface {
	SetVFO(ctx context.Context, vfo VFO) error
}

// VFOGetter reports the selected VFO.
type VFOGetter interface {
	GetVFO(ctx context.Context) (VFO, error)
}

// SplitBackend turns split operation on or off.
type SplitBackend interface {
	SetSplitVFO(ctx context.Context, vfo VFO, split bool, txVFO VFO) error
	GetSplitVFO(ctx context.Context, vfo VFO) (split bool, txVFO VFO, err error)
}

// SplitFreqBackend sets the transmit frequency without the handle's
// swap emulation.
type SplitFreqBackend interface {
	SetSplitFreq(ctx context.Context, vfo VFO, f Freq) error
	GetSplitFreq(ctx context.Context, vfo VFO) (Freq, error)
}

// SplitModeBackend sets the transmit mode without the handle's swap emulation.
type SplitModeBackend interface {
	SetSplitMode(ctx context.Context, vfo VFO, m Mode, pb Passband) error
	GetSplitMode(ctx context.Context, vfo VFO) (Mode, Passband, error)
}

// PTTBackend keys the transmitter by command.
type PTTBackend interface {
	SetPTT(ctx context.Context, vfo VFO, on bool) error
	GetPTT(ctx context.Context, vfo VFO) (bool, error)
}

// PowerBackend switches the rig on and off.
type PowerBackend interface {
	SetPowerStat(ctx context.Context, stat PowerStat) error
	GetPowerStat(ctx context.Context) (PowerStat, error)
}

// VFOOperator performs VFO operations such as A=B.
type VFOOperator interface {
	VFOOp(ctx context.Context, vfo VFO, op VFOOp) error
}

// LevelBackend sets and reads levels in the range [0,1].
type LevelBackend interface {
	SetLevel(ctx context.Context, vfo VFO, level Level, value float32) error
	GetLevel(ctx context.Context, vfo VFO, level Level) (float32, error)
}

// RITBackend sets and reads the receiver incremental tuning offset.
type RITBackend interface {
	SetRIT(ctx context.Context, vfo VFO, offset ShortFreq) error
	GetRIT(ctx context.Context, vfo VFO) (ShortFreq, error)
}

// RepeaterBackend sets the repeater shift direction and offset.
type RepeaterBackend interface {
	SetRptrShift(ctx context.Context, vfo VFO, shift RptrShift) error
	GetRptrShift(ctx context.Context, vfo VFO) (RptrShift, error)
	SetRptrOffs(ctx context.Context, vfo VFO, offset Freq) error
	GetRptrOffs(ctx context.Context, vfo VFO) (Freq, error)
}

// MemoryBackend selects memory channels.
type MemoryBackend interface {
	SetMem(ctx context.Context, vfo VFO, ch int) error
	GetMem(ctx context.Context, vfo VFO) (int, error)
}

// EventDecoder turns an unsolicited frame from the rig into an Event.
type EventDecoder interface {
	DecodeEvent(raw []byte) (Event, error)
}

// Event is an unsolicited change reported by the rig (transceive mode).
type Event struct {
	VFO      VFO
	Freq     Freq
	Mode     Mode
	Passband Passband
	HasFreq  bool
	HasMode  bool
}

// BackendConfig is everything a factory needs to build a backend.
type BackendConfig struct {
	Caps   *Capabilities
	Port   Port
	State  *State
	Logger *zap.Logger
}

// BackendFactory builds a backend bound to one handle.
type BackendFactory func(cfg BackendConfig) (Backend, error)

// Model pairs a capability descriptor with its backend.
type Model struct {
	Caps *Capabilities
	New  BackendFactory
}

// Registry maps model ids to models. The zero value is not usable; use NewRegistry.
type Registry struct {
	models map[int]Model
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[int]Model)}
}

// Register adds a model. Registering an id twice is an error.
func (r *Registry) Register(m Model) error {
	if m.Caps == nil || m.New == nil {
		return fmt.Errorf("%w: model needs capabilities and a factory", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.models[m.Caps.ModelID]; exists {
		return fmt.Errorf("%w: model %d already registered", ErrInvalidArgument, m.Caps.ModelID)
	}
	r.models[m.Caps.ModelID] = m
	return nil
}

// Lookup returns the model registered under id.
func (r *Registry) Lookup(id int) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	if !ok {
		return Model{}, fmt.Errorf("%w: %d", ErrUnknownRig, id)
	}
	return m, nil
}

// Models lists registered capabilities ordered by model id.
func (r *Registry) Models() []*Capabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*Capabilities, 0, len(r.models))
	for _, m := range r.models {
		list = append(list, m.Caps)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ModelID < list[j].ModelID })
	return list
}

// New looks up a model and creates a handle for it on port.
func (r *Registry) New(id int, port Port, opts ...Option) (*Rig, error) {
	m, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return New(m, port, opts...)
}
