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

package main

import (
	"github.com/hazelsdn/hazel/core"
	"github.com/hazelsdn/hazel/openflow"
)

// localForwarding is the stand-in datapath wired in when no platform
// forwarding module is linked. It accepts flows into table 0 and keeps
// per-flow counters at zero, which keeps the agent exercisable end to end
// without hardware.
type localForwarding struct {
	flows map[core.FlowID]struct{}
}

func newLocalForwarding() *localForwarding {
	return &localForwarding{flows: make(map[core.FlowID]struct{})}
}

func (r *localForwarding) PacketOut(msg *openflow.PacketOut) error {
	return nil
}

func (r *localForwarding) FlowCreate(id core.FlowID, msg *openflow.FlowMod) (uint8, error) {
	r.flows[id] = struct{}{}
	return 0, nil
}

func (r *localForwarding) FlowModify(id core.FlowID, msg *openflow.FlowMod) error {
	if _, ok := r.flows[id]; !ok {
		return core.ErrNotFound
	}
	return nil
}

func (r *localForwarding) FlowDelete(id core.FlowID) (core.FlowStats, error) {
	if _, ok := r.flows[id]; !ok {
		return core.FlowStats{}, core.ErrNotFound
	}
	delete(r.flows, id)
	return core.FlowStats{}, nil
}

func (r *localForwarding) FlowStatsGet(id core.FlowID) (core.FlowStats, error) {
	if _, ok := r.flows[id]; !ok {
		return core.FlowStats{}, core.ErrNotFound
	}
	return core.FlowStats{}, nil
}

func (r *localForwarding) TableStatsGet(req *openflow.TableStatsRequest) (*openflow.TableStatsReply, error) {
	reply := openflow.NewTableStatsReply(req.Version(), req.TransactionID())
	reply.Entries = []openflow.TableStatsEntry{{
		TableID:    0,
		Name:       "local",
		MaxEntries: 1 << 16,
	}}
	return reply, nil
}

func (r *localForwarding) ForwardingFeaturesGet(reply *openflow.FeaturesReply) error {
	reply.NumTables = 1
	return nil
}

func (r *localForwarding) Experimenter(msg *openflow.Experimenter, cxnID core.CxnID) error {
	return core.ErrNotSupported
}

// localPorts is the matching stand-in port manager: no ports, no queues.
type localPorts struct{}

func newLocalPorts() *localPorts {
	return &localPorts{}
}

func (r *localPorts) Modify(msg *openflow.PortMod) error {
	return core.ErrNotFound
}

func (r *localPorts) StatsGet(req *openflow.PortStatsRequest) (*openflow.PortStatsReply, error) {
	return openflow.NewPortStatsReply(req.Version(), req.TransactionID()), nil
}

func (r *localPorts) QueueConfigGet(req *openflow.QueueGetConfigRequest) (*openflow.QueueGetConfigReply, error) {
	return nil, core.ErrNotFound
}

func (r *localPorts) QueueStatsGet(req *openflow.QueueStatsRequest) (*openflow.QueueStatsReply, error) {
	return nil, core.ErrNotFound
}

func (r *localPorts) DescStatsGet(reply *openflow.PortDescStatsReply) error {
	return nil
}

func (r *localPorts) FeaturesGet(reply *openflow.FeaturesReply) error {
	return nil
}

func (r *localPorts) Experimenter(msg *openflow.Experimenter, cxnID core.CxnID) error {
	return core.ErrNotSupported
}
