/*
 * Hazel - An OpenFlow Switch Agent
 *
 * Copyright (C) 2016 Hazel SDN Project.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package network

import (
	"context"
	"net"

	"github.com/hazelsdn/hazel/core"
	"github.com/hazelsdn/hazel/openflow"
	"github.com/hazelsdn/hazel/openflow/trans"
)

// session is one controller connection: a transceiver reading on its own
// goroutine, delivering every decoded message to the cooperative runner.
type session struct {
	id          core.CxnID
	transceiver *trans.Transceiver
	controller  *Controller
	canceller   context.CancelFunc
}

func newSession(id core.CxnID, conn net.Conn, controller *Controller) *session {
	s := &session{
		id:         id,
		controller: controller,
	}
	s.transceiver = trans.NewTransceiver(trans.NewStream(conn), s)

	return s
}

// OnMessage hands the decoded message to the state manager on the runner
// goroutine, preserving per-connection arrival order.
func (r *session) OnMessage(msg openflow.Incoming) error {
	r.controller.runner.Submit(func() {
		if err := r.controller.handler.HandleMessage(msg, r.id); err != nil {
			logger.Debugf("handler error on connection %v: %v", r.id, err)
		}
	})

	return nil
}

func (r *session) Run(ctx context.Context) {
	ctx, canceller := context.WithCancel(ctx)
	r.canceller = canceller
	defer r.transceiver.Close()

	if err := r.transceiver.Run(ctx); err != nil {
		logger.Infof("connection %v closed: %v", r.id, err)
	}
	r.controller.removeSession(r.id)
}

func (r *session) Write(msg openflow.Outgoing) error {
	return r.transceiver.Write(msg)
}

func (r *session) Close() {
	if r.canceller != nil {
		r.canceller()
	}
}
