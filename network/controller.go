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

// Package network accepts controller connections and implements the
// connection-writer contract the state manager sends replies through.
package network

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hazelsdn/hazel/core"
	"github.com/hazelsdn/hazel/openflow"
	"github.com/hazelsdn/hazel/soc"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("network")

const errorSuppressWindow = 5 * time.Second

// Handler consumes inbound messages on the runner goroutine. Implemented by
// core.StateManager.
type Handler interface {
	HandleMessage(msg openflow.Incoming, cxnID core.CxnID) error
}

type Controller struct {
	mu      sync.Mutex
	runner  *soc.Runner
	handler Handler
	seen    map[core.CxnID]*session
	nextID  core.CxnID
	errors  *errorCache
}

func NewController(runner *soc.Runner) *Controller {
	if runner == nil {
		panic("runner is nil")
	}

	return &Controller{
		runner: runner,
		seen:   make(map[core.CxnID]*session),
		errors: newErrorCache(errorSuppressWindow),
	}
}

// SetHandler installs the message handler. Must be called before Serve.
func (r *Controller) SetHandler(handler Handler) {
	if handler == nil {
		panic("handler is nil")
	}
	r.handler = handler
}

// Serve accepts controller connections on port until ctx is cancelled.
func (r *Controller) Serve(ctx context.Context, port int) error {
	if r.handler == nil {
		panic("Serve called without a handler")
	}

	listener, err := net.ListenTCP("tcp", &net.TCPAddr{Port: port})
	if err != nil {
		return errors.Wrap(err, "failed to listen on the controller port")
	}
	defer listener.Close()
	logger.Infof("listening on :%v", port)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				r.closeAll()
				return errors.New("closed by the context done signal")
			default:
			}
			logger.Errorf("failed to accept a new connection: %v", err)
			continue
		}

		s := r.addSession(conn)
		logger.Infof("new controller connection %v from %v", s.id, conn.RemoteAddr())
		go s.Run(ctx)
	}
}

func (r *Controller) addSession(conn net.Conn) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s := newSession(r.nextID, conn, r)
	r.seen[s.id] = s

	return s
}

func (r *Controller) removeSession(id core.CxnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.seen, id)
	r.errors.RemoveConnection(id)
}

func (r *Controller) session(id core.CxnID) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seen[id]
	if !ok {
		return nil, errors.Errorf("unknown connection id %v", id)
	}
	return s, nil
}

func (r *Controller) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.seen {
		s.Close()
	}
}

// Send writes one reply or asynchronous message to the connection. The
// message's ownership passes to the transport on success.
func (r *Controller) Send(cxnID core.CxnID, reply openflow.Outgoing) error {
	s, err := r.session(cxnID)
	if err != nil {
		return err
	}
	return s.Write(reply)
}

// SendError writes an error reply quoting up to 64 bytes of the offending
// request. Identical errors within the suppression window are dropped.
func (r *Controller) SendError(version uint8, cxnID core.CxnID, xid uint32, errType, code uint16, payload []byte) error {
	if r.errors.Suppressed(cxnID, xid, errType, code) {
		logger.Debugf("suppressed duplicate error reply: cxn=%v, xid=%v, type=%v, code=%v", cxnID, xid, errType, code)
		return nil
	}

	msg := openflow.NewError(version, xid)
	msg.ErrType = errType
	msg.Code = code
	msg.Data = payload

	s, err := r.session(cxnID)
	if err != nil {
		return err
	}
	if err := s.Write(msg); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to send error reply to connection %v", cxnID))
	}

	return nil
}
