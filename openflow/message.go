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

package openflow

import (
	"errors"
)

const (
	OF10_VERSION = 0x01
	OF11_VERSION = 0x02
	OF12_VERSION = 0x03
	OF13_VERSION = 0x04
)

var (
	ErrInvalidPacketLength  = errors.New("invalid packet length")
	ErrUnsupportedVersion   = errors.New("unsupported protocol version")
	ErrUnsupportedMessage   = errors.New("unsupported message type")
	ErrUnsupportedMatchType = errors.New("unsupported flow match type")
)

// Message is the header shared by every decoded OpenFlow message object.
// The wire codec fills it in during decode; reply constructors fill it in
// before encode.
type Message struct {
	version  uint8
	msgType  uint8
	xid      uint32
	raw      []byte
	released bool
}

func NewMessage(version uint8, msgType uint8, xid uint32) Message {
	return Message{
		version: version,
		msgType: msgType,
		xid:     xid,
	}
}

func (r *Message) Version() uint8 {
	return r.version
}

func (r *Message) Type() uint8 {
	return r.msgType
}

func (r *Message) TransactionID() uint32 {
	return r.xid
}

func (r *Message) SetTransactionID(xid uint32) {
	r.xid = xid
}

// SetRaw records the undecoded packet bytes. Error replies quote a prefix of
// these bytes back to the controller.
func (r *Message) SetRaw(packet []byte) {
	r.raw = packet
}

func (r *Message) Raw() []byte {
	return r.raw
}

// Release returns the message object to the decode layer. Every inbound
// message is owned by exactly one handler or task and must be released
// exactly once; a second release is a programming error under the
// single-threaded execution model.
func (r *Message) Release() {
	if r.released {
		panic("message released twice")
	}
	r.released = true
	r.raw = nil
}

func (r *Message) Released() bool {
	return r.released
}

type Header interface {
	Version() uint8
	Type() uint8
	TransactionID() uint32
}

// Incoming is a decoded controller message whose ownership has been handed
// to the state manager.
type Incoming interface {
	Header
	Raw() []byte
	Release()
	Released() bool
}

// Outgoing is a reply or asynchronous message bound for the wire codec.
type Outgoing interface {
	Header
}
