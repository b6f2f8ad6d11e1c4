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

// Package core is the first line of defense against controller messages: it
// decodes nothing and encodes nothing, but owns the flow table, dispatches
// flow mods and stats requests, and produces the replies and asynchronous
// notifications the protocol requires.
package core

import (
	"github.com/op/go-logging"
)

var logger = logging.MustGetLogger("core")

// DescStats is the switch description reported by DESC stats replies.
type DescStats struct {
	Manufacturer string
	Hardware     string
	Software     string
	SerialNumber string
	Datapath     string
}

// SwitchConfig is the process-wide switch configuration set by SET_CONFIG
// and read by GET_CONFIG and the datapath's miss path.
type SwitchConfig struct {
	Flags         uint16
	MissSendLen   uint16
	ConfigSetDone bool
}

// Config carries the collaborators and identity of a StateManager.
type Config struct {
	Forwarding  Forwarding
	PortManager PortManager
	Connection  ConnectionWriter
	Scheduler   Scheduler
	DatapathID  uint64
	Description DescStats
}

func checkParam(c Config) {
	if c.Forwarding == nil {
		panic("Forwarding is nil")
	}
	if c.PortManager == nil {
		panic("PortManager is nil")
	}
	if c.Connection == nil {
		panic("Connection is nil")
	}
	if c.Scheduler == nil {
		panic("Scheduler is nil")
	}
}

// StateManager is the switch agent's authoritative OpenFlow state: the flow
// table, switch config, ip-mask table and id allocators. One live instance
// per process; all methods run on the cooperative runner's goroutine.
type StateManager struct {
	fwd    Forwarding
	port   PortManager
	cxn    ConnectionWriter
	sched  Scheduler
	ft     *FlowTable
	config SwitchConfig
	desc   DescStats
	dpid   uint64
	ipMask ipMaskTable
	xids   *xidAllocator
	flows  *flowIDAllocator
}

func NewStateManager(c Config) *StateManager {
	checkParam(c)

	return &StateManager{
		fwd:    c.Forwarding,
		port:   c.PortManager,
		cxn:    c.Connection,
		sched:  c.Scheduler,
		ft:     NewFlowTable(c.Scheduler),
		desc:   c.Description,
		dpid:   c.DatapathID,
		xids:   newXidAllocator(),
		flows:  newFlowIDAllocator(),
		config: SwitchConfig{MissSendLen: 128},
	}
}

// FlowTable exposes the table for iteration task spawning and tests.
func (r *StateManager) FlowTable() *FlowTable {
	return r.ft
}

// SwitchConfig returns the current switch configuration.
func (r *StateManager) SwitchConfig() SwitchConfig {
	return r.config
}

// Description returns the static switch description.
func (r *StateManager) Description() DescStats {
	return r.desc
}

func (r *StateManager) dpidGet() uint64 {
	return r.dpid
}
