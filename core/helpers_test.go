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

// immediateScheduler runs every registered task to completion on the spot
// and never asks for a yield, which makes the asynchronous handlers
// synchronous under test.
type immediateScheduler struct {
	now time.Time
}

func (r *immediateScheduler) RegisterTask(task soc.Task, priority int) error {
	for !task.Run() {
	}
	return nil
}

func (r *immediateScheduler) ShouldYield() bool {
	return false
}

func (r *immediateScheduler) CurrentTime() time.Time {
	return r.now
}

// manualScheduler queues tasks for explicit stepping, for tests that mutate
// the table between slices.
type manualScheduler struct {
	now   time.Time
	tasks []soc.Task
	yield bool
}

func (r *manualScheduler) RegisterTask(task soc.Task, priority int) error {
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *manualScheduler) ShouldYield() bool {
	return r.yield
}

func (r *manualScheduler) CurrentTime() time.Time {
	return r.now
}

// step runs one slice of the oldest task; it reports whether any task is
// still pending.
func (r *manualScheduler) step() bool {
	if len(r.tasks) == 0 {
		return false
	}
	if done := r.tasks[0].Run(); done {
		r.tasks = r.tasks[1:]
	}
	return len(r.tasks) > 0
}

func (r *manualScheduler) runAll() {
	for r.step() {
	}
}

type fwdFlow struct {
	msg   *openflow.FlowMod
	stats FlowStats
}

// dummyForwarding records every datapath call the state manager makes.
type dummyForwarding struct {
	flows         map[FlowID]*fwdFlow
	createCount   int
	modifyCount   int
	deleteCount   int
	deletedIDs    []FlowID
	packetOuts    int
	createErr     error
	modifyErr     error
	experimentErr error
	tableReply    *openflow.TableStatsReply
	tableErr      error
}

func newDummyForwarding() *dummyForwarding {
	return &dummyForwarding{
		flows:         make(map[FlowID]*fwdFlow),
		experimentErr: ErrNotSupported,
	}
}

func (r *dummyForwarding) PacketOut(msg *openflow.PacketOut) error {
	r.packetOuts++
	return nil
}

func (r *dummyForwarding) FlowCreate(id FlowID, msg *openflow.FlowMod) (uint8, error) {
	r.createCount++
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.flows[id] = &fwdFlow{msg: msg}
	return msg.TableID, nil
}

func (r *dummyForwarding) FlowModify(id FlowID, msg *openflow.FlowMod) error {
	r.modifyCount++
	if r.modifyErr != nil {
		return r.modifyErr
	}
	if _, ok := r.flows[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (r *dummyForwarding) FlowDelete(id FlowID) (FlowStats, error) {
	r.deleteCount++
	r.deletedIDs = append(r.deletedIDs, id)
	f, ok := r.flows[id]
	if !ok {
		return FlowStats{}, ErrNotFound
	}
	delete(r.flows, id)
	return f.stats, nil
}

func (r *dummyForwarding) FlowStatsGet(id FlowID) (FlowStats, error) {
	f, ok := r.flows[id]
	if !ok {
		return FlowStats{}, ErrNotFound
	}
	return f.stats, nil
}

func (r *dummyForwarding) TableStatsGet(req *openflow.TableStatsRequest) (*openflow.TableStatsReply, error) {
	if r.tableErr != nil {
		return nil, r.tableErr
	}
	if r.tableReply != nil {
		return r.tableReply, nil
	}
	return openflow.NewTableStatsReply(req.Version(), 0), nil
}

func (r *dummyForwarding) ForwardingFeaturesGet(reply *openflow.FeaturesReply) error {
	reply.NumTables = 1
	reply.Capabilities = 0x1
	return nil
}

func (r *dummyForwarding) Experimenter(msg *openflow.Experimenter, cxnID CxnID) error {
	return r.experimentErr
}

// dummyPorts records port manager calls.
type dummyPorts struct {
	modifyErr     error
	queueCfgErr   error
	queueStatsErr error
	experimentErr error
	modifyCount   int
}

func newDummyPorts() *dummyPorts {
	return &dummyPorts{experimentErr: ErrNotSupported}
}

func (r *dummyPorts) Modify(msg *openflow.PortMod) error {
	r.modifyCount++
	return r.modifyErr
}

func (r *dummyPorts) StatsGet(req *openflow.PortStatsRequest) (*openflow.PortStatsReply, error) {
	reply := openflow.NewPortStatsReply(req.Version(), 0)
	reply.Entries = []openflow.PortStatsEntry{{PortNumber: 1}}
	return reply, nil
}

func (r *dummyPorts) QueueConfigGet(req *openflow.QueueGetConfigRequest) (*openflow.QueueGetConfigReply, error) {
	if r.queueCfgErr != nil {
		return nil, r.queueCfgErr
	}
	return openflow.NewQueueGetConfigReply(req.Version(), 0), nil
}

func (r *dummyPorts) QueueStatsGet(req *openflow.QueueStatsRequest) (*openflow.QueueStatsReply, error) {
	if r.queueStatsErr != nil {
		return nil, r.queueStatsErr
	}
	return openflow.NewQueueStatsReply(req.Version(), 0), nil
}

func (r *dummyPorts) DescStatsGet(reply *openflow.PortDescStatsReply) error {
	reply.Ports = []openflow.PhysicalPort{{Number: 1, Name: "eth1"}}
	return nil
}

func (r *dummyPorts) FeaturesGet(reply *openflow.FeaturesReply) error {
	reply.Ports = append(reply.Ports, openflow.PhysicalPort{Number: 1, Name: "eth1"})
	return nil
}

func (r *dummyPorts) Experimenter(msg *openflow.Experimenter, cxnID CxnID) error {
	return r.experimentErr
}

type sentError struct {
	version uint8
	cxnID   CxnID
	xid     uint32
	errType uint16
	code    uint16
	payload []byte
}

// dummyConn captures everything the state manager sends.
type dummyConn struct {
	sent    []openflow.Outgoing
	errors  []sentError
	sendErr error
}

func (r *dummyConn) Send(cxnID CxnID, reply openflow.Outgoing) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, reply)
	return nil
}

func (r *dummyConn) SendError(version uint8, cxnID CxnID, xid uint32, errType, code uint16, payload []byte) error {
	r.errors = append(r.errors, sentError{
		version: version,
		cxnID:   cxnID,
		xid:     xid,
		errType: errType,
		code:    code,
		payload: payload,
	})
	return nil
}

type testEnv struct {
	sm    *StateManager
	fwd   *dummyForwarding
	ports *dummyPorts
	cxn   *dummyConn
	sched *immediateScheduler
}

func newTestEnv() *testEnv {
	fwd := newDummyForwarding()
	ports := newDummyPorts()
	cxn := &dummyConn{}
	sched := &immediateScheduler{now: time.Unix(1400000000, 0)}

	sm := NewStateManager(Config{
		Forwarding:  fwd,
		PortManager: ports,
		Connection:  cxn,
		Scheduler:   sched,
		DatapathID:  0x00000000deadbeef,
		Description: DescStats{Manufacturer: "Hazel", Software: "hazel 0.1.0"},
	})

	return &testEnv{sm: sm, fwd: fwd, ports: ports, cxn: cxn, sched: sched}
}

func newFlowMod10(xid uint32, cmd uint8) *openflow.FlowMod {
	return openflow.NewFlowMod(openflow.OF10_VERSION, xid, cmd)
}
