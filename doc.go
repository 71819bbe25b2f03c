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

/*
Package rig provides a uniform API for controlling amateur radio transceivers.

Each transceiver family speaks its own serial protocol. A backend (see the
civ package for Icom CI-V rigs) translates the uniform operations into that
protocol, while the Rig handle in this package takes care of everything that
is the same for all of them: validating VFO arguments, deciding whether an
operation can address a VFO directly or has to select it first and restore
the previous selection afterwards, and keeping the session state consistent
with what the rig actually confirmed.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-rig"
	    "github.com/ZaparooProject/go-rig/civ"
	    "github.com/ZaparooProject/go-rig/transport/uart"
	)

	registry := rig.NewRegistry()
	if err := civ.Register(registry); err != nil {
	    return err
	}

	port, err := uart.New("/dev/ttyUSB0", 19200)
	if err != nil {
	    return err
	}

	r, err := registry.New(civ.ModelIC7300, port)
	if err != nil {
	    return err
	}
	defer r.Close()

	if err := r.Open(ctx); err != nil {
	    return err
	}
	if err := r.SetFreq(ctx, rig.VFOB, 14_250_000); err != nil {
	    return err
	}

VFO Handling:

Operations take a VFO argument. VFOCurr always means the selected VFO;
VFOTx and VFORx are mapped through the split state. When the model cannot
address the requested VFO directly, the handle selects it, runs the
operation and selects the previous VFO again. A failure to restore the
selection is logged and does not change the result of the operation.

Errors:

Every error can be classified with KindOf into InvalidArgument,
NotAvailable, Timeout, Rejected, Protocol or IO.

Concurrency:

A Rig serializes its operations. The blocking read inside a transaction
cannot be interrupted; use CallContext to abandon a call from the caller's side.
*/
package rig
