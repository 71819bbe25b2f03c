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

package civ

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
	"github.com/ZaparooProject/go-rig/internal/transport"
	"go.uber.org/zap"
)

// ResultKind classifies the outcome of one attempt.
type ResultKind int

const (
	ResultAck ResultKind = iota
	ResultNak
	ResultData
	ResultCollision
	ResultTimeout
	ResultMalformed
)

func (k ResultKind) String() string {
	switch k {
	case ResultAck:
		return "ack"
	case ResultNak:
		return "nak"
	case ResultData:
		return "data"
	case ResultCollision:
		return "collision"
	case ResultTimeout:
		return "timeout"
	case ResultMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the reply to a request. Data excludes the echoed command and
// sub-command.
type Result struct {
	Data []byte
	Kind ResultKind
}

// Request is one CI-V command.
type Request struct {
	Data   []byte
	Cmd    byte
	Sub    byte
	HasSub bool
}

func cmdRequest(cmd byte, data ...byte) Request {
	return Request{Cmd: cmd, Data: data}
}

func subRequest(cmd, sub byte, data ...byte) Request {
	return Request{Cmd: cmd, Sub: sub, HasSub: true, Data: data}
}

const defaultCollisionBackoff = 20 * time.Millisecond

// Engine runs request/reply transactions on a CI-V bus. It reads the rig
// address, timeout and retry count from the session state on every call
// but never modifies the state.
type Engine struct {
	port             rig.Port
	state            *rig.State
	logger           *zap.Logger
	collisionBackoff time.Duration
	controller       byte
	echo             bool
	pad              bool
}

// NewEngine creates an engine for the rig described by state.
func NewEngine(port rig.Port, state *rig.State, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		port:             port,
		state:            state,
		logger:           logger,
		collisionBackoff: defaultCollisionBackoff,
		controller:       frame.ControllerAddr,
	}
}

// execState carries what one execution learned across attempts.
type execState struct {
	last   ResultKind
	strays int
}

// Execute sends req and waits for the matching reply. It writes at most
// Retries+1 times. Replies from other devices, or replies to another
// command, are skipped by reading again without resending; once the retry
// budget of such re-reads is used up the call fails with ErrProtocol.
func (e *Engine) Execute(ctx context.Context, req Request) (Result, error) {
	f := frame.Frame{
		To:     e.state.Address,
		From:   e.controller,
		Cmd:    req.Cmd,
		Sub:    req.Sub,
		HasSub: req.HasSub,
		Data:   req.Data,
	}
	raw := frame.Encode(f)
	if e.pad {
		raw = frame.EncodePadded(f)
	}

	st := &execState{}
	return transport.WithRetry(ctx, transport.RetryConfig{
		Description: fmt.Sprintf("civ command %02X", req.Cmd),
		Port:        e.port.String(),
		MaxRetries:  e.state.Retries,
		OnRetry: func(ctx context.Context, n int) error {
			e.logger.Debug("retrying",
				zap.Int("attempt", n),
				zap.Stringer("last", st.last),
				zap.String("cmd", fmt.Sprintf("%02X", req.Cmd)))
			if st.last == ResultCollision {
				return transport.Sleep(ctx, e.collisionBackoff*time.Duration(n))
			}
			return nil
		},
		OnRetryFailed: func() error {
			return &rig.Error{
				Op:        fmt.Sprintf("civ command %02X", req.Cmd),
				Port:      e.port.String(),
				Err:       fmt.Errorf("%w after %d attempts, last result %s", rig.ErrTimeout, e.state.Retries+1, st.last),
				Kind:      rig.KindTimeout,
				Retryable: true,
			}
		},
	}, func(int) (Result, bool, error) {
		return e.try(req, raw, st)
	})
}

// try performs one write and the reads that belong to it.
func (e *Engine) try(req Request, raw []byte, st *execState) (Result, bool, error) {
	if err := e.port.Flush(); err != nil {
		return Result{}, false, rig.NewIOError("flush", e.port.String(), err)
	}
	e.logger.Debug("civ tx", zap.String("frame", fmt.Sprintf("% X", raw)))
	if err := e.port.Write(raw); err != nil {
		if rig.KindOf(err) == rig.KindIO {
			return Result{}, false, err
		}
		return Result{}, false, rig.NewIOError("write", e.port.String(), err)
	}

	if e.echo {
		if retry, err := e.readEcho(raw, st); retry || err != nil {
			return Result{}, retry, err
		}
	}

	for {
		buf, err := e.port.ReadUntil(e.state.Timeout, frame.Terminator, frame.Collision)
		if err != nil {
			switch rig.KindOf(err) {
			case rig.KindTimeout:
				st.last = ResultTimeout
				return Result{}, true, nil
			case rig.KindProtocol:
				st.last = ResultMalformed
				return Result{}, true, nil
			default:
				return Result{}, false, err
			}
		}
		e.logger.Debug("civ rx", zap.String("frame", fmt.Sprintf("% X", buf)))

		reply, err := frame.Decode(buf, false)
		switch {
		case errors.Is(err, frame.ErrCollision):
			st.last = ResultCollision
			return Result{}, true, nil
		case err != nil:
			st.last = ResultMalformed
			return Result{}, true, nil
		}

		res, stray := e.classify(req, reply)
		if !stray {
			st.last = res.Kind
			return res, false, nil
		}
		st.strays++
		if st.strays > e.state.Retries {
			return Result{}, false, &rig.Error{
				Op:   fmt.Sprintf("civ command %02X", req.Cmd),
				Port: e.port.String(),
				Err: fmt.Errorf("%w: %w: last reply %02X->%02X cmd %02X",
					rig.ErrProtocol, rig.ErrStrayReply, reply.From, reply.To, reply.Cmd),
				Kind: rig.KindProtocol,
			}
		}
		e.logger.Debug("skipping stray reply",
			zap.String("cmd", fmt.Sprintf("%02X", reply.Cmd)),
			zap.String("from", fmt.Sprintf("%02X", reply.From)))
	}
}

// readEcho consumes the copy of our own frame a single wire bus returns.
func (e *Engine) readEcho(raw []byte, st *execState) (bool, error) {
	echo, err := e.port.ReadUntil(e.state.Timeout, frame.Terminator, frame.Collision)
	if err != nil {
		if rig.KindOf(err) == rig.KindTimeout {
			st.last = ResultTimeout
			return true, nil
		}
		return false, err
	}
	if !bytes.Equal(bytes.TrimLeft(echo, string([]byte{frame.Pad})), bytes.TrimLeft(raw, string([]byte{frame.Pad}))) {
		st.last = ResultCollision
		return true, nil
	}
	return false, nil
}

// classify maps a decoded reply onto a result. stray is set for replies
// that do not belong to req.
func (e *Engine) classify(req Request, reply frame.Frame) (Result, bool) {
	if reply.From != e.state.Address || reply.To != e.controller {
		return Result{}, true
	}
	switch reply.Cmd {
	case frame.Ack:
		return Result{Kind: ResultAck}, false
	case frame.Nak:
		return Result{Kind: ResultNak}, false
	case req.Cmd:
	default:
		return Result{}, true
	}
	data := reply.Data
	if req.HasSub {
		if len(data) == 0 || data[0] != req.Sub {
			return Result{}, true
		}
		data = data[1:]
	}
	return Result{Kind: ResultData, Data: data}, false
}

// ack runs a command that expects a plain acknowledgement.
func (e *Engine) ack(ctx context.Context, op string, req Request) error {
	res, err := e.Execute(ctx, req)
	if err != nil {
		return err
	}
	switch res.Kind {
	case ResultAck:
		return nil
	case ResultNak:
		return rig.NewError(op, e.port.String(), rig.ErrRejected)
	default:
		return rig.NewError(op, e.port.String(),
			fmt.Errorf("%w: expected acknowledgement, got %s", rig.ErrProtocol, res.Kind))
	}
}

// query runs a command that expects data back.
func (e *Engine) query(ctx context.Context, op string, req Request) ([]byte, error) {
	res, err := e.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	switch res.Kind {
	case ResultData:
		return res.Data, nil
	case ResultNak:
		return nil, rig.NewError(op, e.port.String(), rig.ErrRejected)
	default:
		return nil, rig.NewError(op, e.port.String(),
			fmt.Errorf("%w: expected data, got %s", rig.ErrProtocol, res.Kind))
	}
}
