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

	"github.com/davecgh/go-spew/spew"
	"github.com/op/go-logging"
)

// HandleMessage routes one decoded controller message to its handler.
// Ownership of msg transfers to the handler; every path releases it exactly
// once, directly or through a spawned iteration task.
func (r *StateManager) HandleMessage(msg openflow.Incoming, cxnID CxnID) error {
	switch v := msg.(type) {
	case *openflow.Hello:
		return r.handleHello(v, cxnID)
	case *openflow.EchoRequest:
		return r.handleEchoRequest(v, cxnID)
	case *openflow.EchoReply:
		return r.handleEchoReply(v, cxnID)
	case *openflow.BarrierRequest:
		return r.handleBarrierRequest(v, cxnID)
	case *openflow.FeaturesRequest:
		return r.handleFeaturesRequest(v, cxnID)
	case *openflow.GetConfigRequest:
		return r.handleGetConfigRequest(v, cxnID)
	case *openflow.SetConfig:
		return r.handleSetConfig(v, cxnID)
	case *openflow.TableMod:
		return r.handleTableMod(v, cxnID)
	case *openflow.FlowMod:
		return r.handleFlowMod(v, cxnID)
	case *openflow.PacketOut:
		return r.handlePacketOut(v, cxnID)
	case *openflow.PortMod:
		return r.handlePortMod(v, cxnID)
	case *openflow.FlowStatsRequest:
		return r.handleFlowStatsRequest(v, cxnID)
	case *openflow.AggregateStatsRequest:
		return r.handleAggregateStatsRequest(v, cxnID)
	case *openflow.TableStatsRequest:
		return r.handleTableStatsRequest(v, cxnID)
	case *openflow.PortStatsRequest:
		return r.handlePortStatsRequest(v, cxnID)
	case *openflow.QueueStatsRequest:
		return r.handleQueueStatsRequest(v, cxnID)
	case *openflow.DescStatsRequest:
		return r.handleDescStatsRequest(v, cxnID)
	case *openflow.PortDescStatsRequest:
		return r.handlePortDescStatsRequest(v, cxnID)
	case *openflow.QueueGetConfigRequest:
		return r.handleQueueGetConfigRequest(v, cxnID)
	case *openflow.ExperimenterStatsRequest:
		return r.handleExperimenterStatsRequest(v, cxnID)
	case *openflow.Experimenter:
		return r.handleExperimenter(v, cxnID)
	case *openflow.BSNSetIPMask:
		return r.handleBSNSetIPMask(v, cxnID)
	case *openflow.BSNGetIPMaskRequest:
		return r.handleBSNGetIPMaskRequest(v, cxnID)
	case *openflow.BSNHybridGetRequest:
		return r.handleBSNHybridGetRequest(v, cxnID)
	default:
		return r.unhandledMessage(msg, cxnID)
	}
}

// unhandledMessage reports BAD_REQUEST/BAD_TYPE for anything the dispatcher
// has no handler for.
func (r *StateManager) unhandledMessage(msg openflow.Incoming, cxnID CxnID) error {
	logger.Errorf("unhandled message from connection %v: type=%v, ver=%v", cxnID, msg.Type(), msg.Version())
	if logger.IsEnabledFor(logging.DEBUG) {
		logger.Debugf("unhandled message dump: %v", spew.Sdump(msg))
	}

	if err := r.cxn.SendError(msg.Version(), cxnID, msg.TransactionID(),
		errTypeBadRequest(msg.Version()), codeBadType(msg.Version()), errorPayload(msg)); err != nil {
		logger.Errorf("failed to send error message for unhandled message: %v", err)
	}

	msg.Release()
	return ErrUnknown
}
