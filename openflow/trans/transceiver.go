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

// Package trans frames OpenFlow messages over a stream. Message bodies are
// decoded and encoded by an external wire codec registered per version; the
// transceiver only handles the length-prefixed framing and delivery.
package trans

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/hazelsdn/hazel/openflow"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("trans")

const (
	// I/O timeouts in seconds.
	readTimeout  = 1
	writeTimeout = readTimeout * 2
)

// Codec translates between wire packets and decoded message objects. The
// codec owns bit-exactness for its wire version.
type Codec interface {
	Decode(packet []byte) (openflow.Incoming, error)
	Encode(msg openflow.Outgoing) ([]byte, error)
}

var codecs = map[uint8]Codec{}

// RegisterCodec installs the wire codec for an OpenFlow version. The codec
// module is expected to call this during init.
func RegisterCodec(version uint8, codec Codec) {
	if codec == nil {
		panic("nil message codec")
	}
	codecs[version] = codec
}

func codecFor(version uint8) (Codec, error) {
	c, ok := codecs[version]
	if ok {
		return c, nil
	}
	return nil, errors.Wrapf(openflow.ErrUnsupportedVersion, "no codec for version 0x%02x", version)
}

// Handler consumes decoded inbound messages. Ownership of each message
// transfers to the handler.
type Handler interface {
	OnMessage(msg openflow.Incoming) error
}

type Transceiver struct {
	stream   *Stream
	observer Handler
	version  uint8
	closed   bool
}

func NewTransceiver(stream *Stream, handler Handler) *Transceiver {
	if stream == nil {
		panic("stream is nil")
	}
	if handler == nil {
		panic("handler is nil")
	}

	return &Transceiver{
		stream:   stream,
		observer: handler,
	}
}

// Version returns the negotiated wire version, which is fixed by the first
// packet on the connection.
func (r *Transceiver) Version() (negotiated bool, version uint8) {
	if r.version == 0 {
		return false, 0
	}
	return true, r.version
}

// Write encodes and sends one outgoing message.
func (r *Transceiver) Write(msg openflow.Outgoing) error {
	codec, err := codecFor(msg.Version())
	if err != nil {
		return err
	}
	packet, err := codec.Encode(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}
	if _, err := r.stream.Write(packet); err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	return nil
}

func (r *Transceiver) negotiate(packet []byte) error {
	// The first message on the connection has to be HELLO.
	if packet[1] != 0x00 {
		return errors.New("negotiation error: missing HELLO message")
	}
	if packet[0] < openflow.OF10_VERSION || packet[0] > openflow.OF13_VERSION {
		return errors.Wrapf(openflow.ErrUnsupportedVersion, "version 0x%02x", packet[0])
	}
	r.version = packet[0]

	return nil
}

func isTimeout(err error) bool {
	type Timeout interface {
		Timeout() bool
	}

	if v, ok := errors.Cause(err).(Timeout); ok {
		return v.Timeout()
	}

	return false
}

// Run reads, decodes and delivers messages until the context is cancelled or
// the connection fails.
func (r *Transceiver) Run(ctx context.Context) error {
	r.stream.SetReadTimeout(readTimeout * time.Second)
	r.stream.SetWriteTimeout(writeTimeout * time.Second)

	packet, err := r.waitPacket(ctx)
	if err != nil {
		return err
	}
	if err := r.negotiate(packet); err != nil {
		return err
	}

	for {
		if err := r.dispatch(packet); err != nil {
			logger.Errorf("failed to dispatch message: %v", err)
		}

		packet, err = r.waitPacket(ctx)
		if err != nil {
			return err
		}
	}
}

// waitPacket blocks for the next whole packet, retrying on read timeouts so
// shutdown is noticed promptly.
func (r *Transceiver) waitPacket(ctx context.Context) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, errors.New("closed by the context done signal")
		default:
		}

		packet, err := r.readPacket()
		if err == nil {
			return packet, nil
		}
		if isTimeout(err) {
			continue
		}
		return nil, err
	}
}

func (r *Transceiver) readPacket() ([]byte, error) {
	header, err := r.stream.Peek(8) // peek ofp_header
	if err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint16(header[2:4])
	if length < 8 {
		return nil, openflow.ErrInvalidPacketLength
	}

	return r.stream.ReadN(int(length))
}

func (r *Transceiver) dispatch(packet []byte) error {
	if packet[0] != r.version {
		return errors.Wrapf(openflow.ErrUnsupportedVersion,
			"unexpected version 0x%02x on a version 0x%02x connection", packet[0], r.version)
	}

	codec, err := codecFor(r.version)
	if err != nil {
		return err
	}
	msg, err := codec.Decode(packet)
	if err != nil {
		return errors.Wrap(err, "failed to decode message")
	}

	return r.observer.OnMessage(msg)
}

func (r *Transceiver) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	return r.stream.Close()
}
