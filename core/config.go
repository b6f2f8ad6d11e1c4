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

package core

import (
	"github.com/hazelsdn/hazel/openflow"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/op/go-logging"
)

func (r *StateManager) handleHello(msg *openflow.Hello, cxnID CxnID) error {
	logger.Debugf("received HELLO from connection %v", cxnID)
	msg.Release()
	return nil
}

func (r *StateManager) handleEchoRequest(msg *openflow.EchoRequest, cxnID CxnID) error {
	defer msg.Release()

	reply := openflow.NewEchoReply(msg.Version(), msg.TransactionID())
	reply.Data = append([]byte(nil), msg.Data...)
	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send echo reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleEchoReply(msg *openflow.EchoReply, cxnID CxnID) error {
	logger.Debugf("received ECHO_REPLY from connection %v", cxnID)
	msg.Release()
	return nil
}

func (r *StateManager) handleBarrierRequest(msg *openflow.BarrierRequest, cxnID CxnID) error {
	defer msg.Release()

	// Handlers run to completion before the next message, so all
	// synchronous state is already settled when the reply goes out.
	reply := openflow.NewBarrierReply(msg.Version(), msg.TransactionID())
	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send barrier reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleSetConfig(msg *openflow.SetConfig, cxnID CxnID) error {
	logger.Debugf("handling set config: flags=0x%x, miss_send_len=%v", msg.Flags, msg.MissSendLen)

	r.config.ConfigSetDone = true
	r.config.Flags = msg.Flags
	r.config.MissSendLen = msg.MissSendLen

	msg.Release()
	return nil
}

func (r *StateManager) handleGetConfigRequest(msg *openflow.GetConfigRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling get config request: xid=%v", msg.TransactionID())

	reply := openflow.NewGetConfigReply(msg.Version(), msg.TransactionID())
	reply.Flags = r.config.Flags
	reply.MissSendLen = r.config.MissSendLen

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send get config reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleFeaturesRequest(msg *openflow.FeaturesRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling features request: xid=%v", msg.TransactionID())

	reply := openflow.NewFeaturesReply(msg.Version(), msg.TransactionID())
	reply.DatapathID = r.dpidGet()
	reply.NumBuffers = 0
	if err := r.fwd.ForwardingFeaturesGet(reply); err != nil {
		logger.Errorf("failed to get forwarding features: %v", err)
		return err
	}
	if err := r.port.FeaturesGet(reply); err != nil {
		logger.Errorf("failed to get port features: %v", err)
		return err
	}

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send features reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleTableMod(msg *openflow.TableMod, cxnID CxnID) error {
	// No table properties are configurable; accepted and ignored.
	logger.Debugf("ignoring table mod: table=%v, config=0x%x", msg.TableID, msg.Config)
	msg.Release()
	return nil
}

func (r *StateManager) handlePacketOut(msg *openflow.PacketOut, cxnID CxnID) error {
	defer msg.Release()

	if logger.IsEnabledFor(logging.DEBUG) && len(msg.Data) > 0 {
		packet := gopacket.NewPacket(msg.Data, layers.LayerTypeEthernet, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		if eth, ok := packet.LinkLayer().(*layers.Ethernet); ok {
			logger.Debugf("packet out: in_port=%v, src=%v, dst=%v, type=%v",
				msg.InPort, eth.SrcMAC, eth.DstMAC, eth.EthernetType)
		}
	}

	if err := r.fwd.PacketOut(msg); err != nil {
		logger.Errorf("forwarding packet out failed: %v", err)
	}

	return nil
}

func (r *StateManager) handlePortMod(msg *openflow.PortMod, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling port mod: port=%v", msg.PortNumber)

	if err := r.port.Modify(msg); err != nil {
		logger.Errorf("port modify failed: %v", err)
		if sendErr := r.cxn.SendError(msg.Version(), cxnID, msg.TransactionID(),
			errTypePortModFailed(msg.Version()), codePortModBadPort(msg.Version()), errorPayload(msg)); sendErr != nil {
			logger.Errorf("failed to send port mod error message: %v", sendErr)
		}
		return err
	}

	return nil
}

func (r *StateManager) handleQueueGetConfigRequest(msg *openflow.QueueGetConfigRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling queue get config request: port=%v", msg.PortNumber)

	reply, err := r.port.QueueConfigGet(msg)
	if err != nil {
		logger.Errorf("failed to get queue config on port %v: %v", msg.PortNumber, err)
		if sendErr := r.cxn.SendError(msg.Version(), cxnID, msg.TransactionID(),
			errTypeQueueOpFailed(msg.Version()), codeQueueOpBadPort(msg.Version()), errorPayload(msg)); sendErr != nil {
			logger.Errorf("failed to send queue config error message: %v", sendErr)
		}
		return err
	}
	reply.SetTransactionID(msg.TransactionID())
	reply.PortNumber = msg.PortNumber

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send queue config reply: %v", err)
		return err
	}

	return nil
}

// handleExperimenter hands the message to both the forwarding and port
// collaborators, each with its own owned copy. If both report no support the
// controller gets a BAD_EXPERIMENTER error; a single success is a success.
func (r *StateManager) handleExperimenter(msg *openflow.Experimenter, cxnID CxnID) error {
	logger.Debugf("handling experimenter message: experimenter=0x%x, xid=%v", msg.Experimenter, msg.TransactionID())

	portCopy := msg.Clone()
	version := msg.Version()
	xid := msg.TransactionID()
	payload := errorPayload(msg)

	fwdErr := r.fwd.Experimenter(msg, cxnID)
	if fwdErr != nil {
		logger.Debugf("forwarding experimenter error: %v", fwdErr)
	}
	portErr := r.port.Experimenter(portCopy, cxnID)
	if portErr != nil {
		logger.Debugf("port experimenter error: %v", portErr)
	}

	msg.Release()
	portCopy.Release()

	if cause(fwdErr) == ErrNotSupported && cause(portErr) == ErrNotSupported {
		if err := r.cxn.SendError(version, cxnID, xid,
			errTypeBadRequest(version), codeBadExperimenter(version), payload); err != nil {
			logger.Errorf("failed to send experimenter error message: %v", err)
		}
		return nil
	}
	if fwdErr == nil || portErr == nil {
		return nil
	}
	// Not handled and some error; surface whichever module failed.
	if fwdErr != nil && cause(fwdErr) != ErrNotSupported {
		return fwdErr
	}
	return portErr
}
