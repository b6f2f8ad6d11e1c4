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
	"time"

	"github.com/hazelsdn/hazel/openflow"
	"github.com/hazelsdn/hazel/soc"
)

// CxnID identifies a controller connection within the connection manager.
type CxnID int

// FlowStats is a point-in-time counter snapshot for one flow.
type FlowStats struct {
	Packets uint64
	Bytes   uint64
}

// Forwarding is the datapath's flow and packet interface. Implementations
// live outside the state manager.
type Forwarding interface {
	PacketOut(msg *openflow.PacketOut) error
	FlowCreate(id FlowID, msg *openflow.FlowMod) (tableID uint8, err error)
	FlowModify(id FlowID, msg *openflow.FlowMod) error
	FlowDelete(id FlowID) (FlowStats, error)
	FlowStatsGet(id FlowID) (FlowStats, error)
	TableStatsGet(req *openflow.TableStatsRequest) (*openflow.TableStatsReply, error)
	ForwardingFeaturesGet(reply *openflow.FeaturesReply) error
	Experimenter(msg *openflow.Experimenter, cxnID CxnID) error
}

// PortManager is the datapath's port and queue interface.
type PortManager interface {
	Modify(msg *openflow.PortMod) error
	StatsGet(req *openflow.PortStatsRequest) (*openflow.PortStatsReply, error)
	QueueConfigGet(req *openflow.QueueGetConfigRequest) (*openflow.QueueGetConfigReply, error)
	QueueStatsGet(req *openflow.QueueStatsRequest) (*openflow.QueueStatsReply, error)
	DescStatsGet(reply *openflow.PortDescStatsReply) error
	FeaturesGet(reply *openflow.FeaturesReply) error
	Experimenter(msg *openflow.Experimenter, cxnID CxnID) error
}

// ConnectionWriter sends replies and error messages back to a controller
// connection. Send takes ownership of reply on success.
type ConnectionWriter interface {
	Send(cxnID CxnID, reply openflow.Outgoing) error
	SendError(version uint8, cxnID CxnID, xid uint32, errType, code uint16, payload []byte) error
}

// Scheduler is the cooperative runner contract the state manager depends on.
// *soc.Runner satisfies it; tests substitute an immediate scheduler.
type Scheduler interface {
	RegisterTask(task soc.Task, priority int) error
	ShouldYield() bool
	CurrentTime() time.Time
}
