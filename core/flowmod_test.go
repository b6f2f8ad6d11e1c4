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
	"testing"

	"github.com/hazelsdn/hazel/openflow"
	"github.com/hazelsdn/hazel/openflow/of10"
	"github.com/hazelsdn/hazel/openflow/of13"
)

func TestFlowAddOverwrite(t *testing.T) {
	env := newTestEnv()

	a := newFlowMod10(100, of10.OFPFC_ADD)
	a.Match.SetEtherType(0x0800)
	a.Priority = 100
	a.Actions = []openflow.Action{openflow.NewOutputAction(1)}
	if err := env.sm.HandleMessage(a, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := newFlowMod10(101, of10.OFPFC_ADD)
	b.Match.SetEtherType(0x0800)
	b.Priority = 100
	b.Actions = []openflow.Action{openflow.NewOutputAction(2)}
	if err := env.sm.HandleMessage(b, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := env.sm.FlowTable().Status()
	if status.CurrentCount != 1 {
		t.Fatalf("unexpected flow count: expected=1, got=%v", status.CurrentCount)
	}
	if env.fwd.deleteCount != 1 {
		t.Fatalf("unexpected forwarding delete count: expected=1, got=%v", env.fwd.deleteCount)
	}
	var entry *FlowEntry
	env.sm.FlowTable().Iterate(func(e *FlowEntry) bool {
		entry = e
		return false
	})
	if entry == nil {
		t.Fatal("no entry in the flow table")
	}
	if len(entry.Effects.Actions) != 1 || entry.Effects.Actions[0].Port != 2 {
		t.Fatalf("unexpected entry actions: %v", entry.Effects.Actions)
	}
	// Overwrite displacement never produces a flow_removed notification.
	if len(env.cxn.sent) != 0 {
		t.Fatalf("unexpected messages sent: %v", env.cxn.sent)
	}
	if !a.Released() || !b.Released() {
		t.Fatal("request messages were not released")
	}
}

func TestFlowAddOverlapRejected(t *testing.T) {
	env := newTestEnv()

	a := newFlowMod10(100, of10.OFPFC_ADD)
	a.Match.SetInPort(1)
	a.Priority = 100
	a.Actions = []openflow.Action{openflow.NewOutputAction(1)}
	if err := env.sm.HandleMessage(a, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := newFlowMod10(200, of10.OFPFC_ADD)
	b.Priority = 100
	b.Flags = of10.OFPFF_CHECK_OVERLAP
	b.Actions = []openflow.Action{openflow.NewOutputAction(2)}
	if err := env.sm.HandleMessage(b, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 1 {
		t.Fatalf("unexpected flow count: expected=1, got=%v", got)
	}
	if len(env.cxn.errors) != 1 {
		t.Fatalf("unexpected error count: expected=1, got=%v", len(env.cxn.errors))
	}
	e := env.cxn.errors[0]
	if e.xid != 200 {
		t.Fatalf("unexpected error xid: expected=200, got=%v", e.xid)
	}
	if e.errType != of10.OFPET_FLOW_MOD_FAILED || e.code != of10.OFPFMFC_OVERLAP {
		t.Fatalf("unexpected error type/code: type=%v, code=%v", e.errType, e.code)
	}
	if !b.Released() {
		t.Fatal("rejected request was not released")
	}
}

func TestFlowAddDisjointOverlapAccepted(t *testing.T) {
	env := newTestEnv()

	a := newFlowMod10(100, of10.OFPFC_ADD)
	a.Match.SetInPort(1)
	a.Priority = 100
	if err := env.sm.HandleMessage(a, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same priority but a disjoint in_port: no overlap.
	b := newFlowMod10(200, of10.OFPFC_ADD)
	b.Match.SetInPort(2)
	b.Priority = 100
	b.Flags = of10.OFPFF_CHECK_OVERLAP
	if err := env.sm.HandleMessage(b, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 2 {
		t.Fatalf("unexpected flow count: expected=2, got=%v", got)
	}
	if len(env.cxn.errors) != 0 {
		t.Fatalf("unexpected errors: %v", env.cxn.errors)
	}
}

func TestFlowAddEmergencyTimeout(t *testing.T) {
	env := newTestEnv()

	msg := newFlowMod10(300, of10.OFPFC_ADD)
	msg.Flags = of10.OFPFF_EMERG
	msg.IdleTimeout = 10
	if err := env.sm.HandleMessage(msg, 1); cause(err) != ErrParam {
		t.Fatalf("unexpected return: expected=%v, got=%v", ErrParam, err)
	}

	if len(env.cxn.errors) != 1 {
		t.Fatalf("unexpected error count: expected=1, got=%v", len(env.cxn.errors))
	}
	e := env.cxn.errors[0]
	if e.errType != of10.OFPET_FLOW_MOD_FAILED || e.code != of10.OFPFMFC_BAD_EMERG_TIMEOUT {
		t.Fatalf("unexpected error type/code: type=%v, code=%v", e.errType, e.code)
	}
	if got := env.sm.FlowTable().Status().CurrentCount; got != 0 {
		t.Fatalf("unexpected flow count: expected=0, got=%v", got)
	}
	if !msg.Released() {
		t.Fatal("request was not released")
	}
}

func TestFlowAddForwardingFailure(t *testing.T) {
	env := newTestEnv()
	env.fwd.createErr = ErrResource

	msg := newFlowMod10(400, of10.OFPFC_ADD)
	msg.Match.SetInPort(1)
	if err := env.sm.HandleMessage(msg, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := env.sm.FlowTable().Status()
	if status.CurrentCount != 0 {
		t.Fatalf("unexpected flow count: expected=0, got=%v", status.CurrentCount)
	}
	if status.ForwardingAddErrors != 1 {
		t.Fatalf("unexpected forwarding error count: expected=1, got=%v", status.ForwardingAddErrors)
	}
	if len(env.cxn.errors) != 1 {
		t.Fatalf("unexpected error count: expected=1, got=%v", len(env.cxn.errors))
	}
	e := env.cxn.errors[0]
	if e.errType != of10.OFPET_FLOW_MOD_FAILED || e.code != of10.OFPFMFC_ALL_TABLES_FULL {
		t.Fatalf("unexpected error type/code: type=%v, code=%v", e.errType, e.code)
	}
}

func TestFlowModifyTreatAsAdd(t *testing.T) {
	env := newTestEnv()

	msg := newFlowMod10(500, of10.OFPFC_MODIFY)
	msg.Match.SetInPort(2)
	msg.Actions = []openflow.Action{openflow.NewOutputAction(3)}
	if err := env.sm.HandleMessage(msg, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 1 {
		t.Fatalf("unexpected flow count: expected=1, got=%v", got)
	}
	if env.fwd.createCount != 1 {
		t.Fatalf("unexpected forwarding create count: expected=1, got=%v", env.fwd.createCount)
	}
	if len(env.cxn.errors) != 0 {
		t.Fatalf("unexpected errors: %v", env.cxn.errors)
	}
	if !msg.Released() {
		t.Fatal("request was not released")
	}
}

func TestFlowModifyReplacesEffects(t *testing.T) {
	env := newTestEnv()

	add := newFlowMod10(600, of10.OFPFC_ADD)
	add.Match.SetInPort(1)
	add.Match.SetEtherType(0x0800)
	add.Priority = 10
	add.Actions = []openflow.Action{openflow.NewOutputAction(1)}
	if err := env.sm.HandleMessage(add, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A wider non-strict modify must catch the more specific entry.
	mod := newFlowMod10(601, of10.OFPFC_MODIFY)
	mod.Match.SetInPort(1)
	mod.Actions = []openflow.Action{openflow.NewOutputAction(7)}
	if err := env.sm.HandleMessage(mod, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.fwd.createCount != 1 {
		t.Fatalf("treat-as-add triggered unexpectedly: create count=%v", env.fwd.createCount)
	}
	if env.fwd.modifyCount != 1 {
		t.Fatalf("unexpected forwarding modify count: expected=1, got=%v", env.fwd.modifyCount)
	}
	var entry *FlowEntry
	env.sm.FlowTable().Iterate(func(e *FlowEntry) bool {
		entry = e
		return false
	})
	if entry.Effects.Actions[0].Port != 7 {
		t.Fatalf("unexpected entry actions after modify: %v", entry.Effects.Actions)
	}
	if !mod.Released() {
		t.Fatal("modify request was not released")
	}
}

func TestFlowModifyStrictTreatAsAdd(t *testing.T) {
	env := newTestEnv()

	msg := newFlowMod10(700, of10.OFPFC_MODIFY_STRICT)
	msg.Match.SetInPort(4)
	msg.Priority = 5
	msg.Actions = []openflow.Action{openflow.NewOutputAction(9)}
	if err := env.sm.HandleMessage(msg, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 1 {
		t.Fatalf("unexpected flow count: expected=1, got=%v", got)
	}
	if env.fwd.createCount != 1 {
		t.Fatalf("unexpected forwarding create count: expected=1, got=%v", env.fwd.createCount)
	}
	if !msg.Released() {
		t.Fatal("request was not released")
	}
}

func TestFlowModifyStrictPriorityMismatch(t *testing.T) {
	env := newTestEnv()

	add := newFlowMod10(800, of10.OFPFC_ADD)
	add.Match.SetInPort(1)
	add.Priority = 10
	if err := env.sm.HandleMessage(add, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same match, different priority: no strict match, so treat as add.
	mod := newFlowMod10(801, of10.OFPFC_MODIFY_STRICT)
	mod.Match.SetInPort(1)
	mod.Priority = 20
	if err := env.sm.HandleMessage(mod, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 2 {
		t.Fatalf("unexpected flow count: expected=2, got=%v", got)
	}
}

func TestFlowDeleteNonStrict(t *testing.T) {
	env := newTestEnv()

	for i, port := range []uint16{80, 443, 8080} {
		add := newFlowMod10(uint32(900+i), of10.OFPFC_ADD)
		add.Match.SetEtherType(0x0800)
		add.Match.SetIPProtocol(6)
		add.Match.SetDstPort(port)
		add.Priority = uint16(i)
		add.Actions = []openflow.Action{openflow.NewOutputAction(1)}
		if err := env.sm.HandleMessage(add, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	del := newFlowMod10(903, of10.OFPFC_DELETE)
	del.Match.SetEtherType(0x0800)
	del.Match.SetIPProtocol(6)
	if err := env.sm.HandleMessage(del, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 0 {
		t.Fatalf("unexpected flow count: expected=0, got=%v", got)
	}
	if env.fwd.deleteCount != 3 {
		t.Fatalf("unexpected forwarding delete count: expected=3, got=%v", env.fwd.deleteCount)
	}
	if len(env.cxn.errors) != 0 {
		t.Fatalf("unexpected errors: %v", env.cxn.errors)
	}
	if !del.Released() {
		t.Fatal("delete request was not released")
	}
}

func TestFlowDeleteIdempotent(t *testing.T) {
	env := newTestEnv()

	add := newFlowMod10(1000, of10.OFPFC_ADD)
	add.Match.SetInPort(3)
	if err := env.sm.HandleMessage(add, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for xid := uint32(1001); xid <= 1002; xid++ {
		del := newFlowMod10(xid, of10.OFPFC_DELETE)
		del.Match.SetInPort(3)
		if err := env.sm.HandleMessage(del, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := env.sm.FlowTable().Status().CurrentCount; got != 0 {
		t.Fatalf("unexpected flow count: expected=0, got=%v", got)
	}
	// Zero matches on the second delete is not an error.
	if len(env.cxn.errors) != 0 {
		t.Fatalf("unexpected errors: %v", env.cxn.errors)
	}
}

func TestFlowDeleteHonorsOutPort(t *testing.T) {
	env := newTestEnv()

	add := newFlowMod10(1100, of10.OFPFC_ADD)
	add.Match.SetInPort(1)
	add.Actions = []openflow.Action{openflow.NewOutputAction(2)}
	if err := env.sm.HandleMessage(add, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// out_port filter pointing elsewhere: nothing is deleted.
	del := newFlowMod10(1101, of10.OFPFC_DELETE)
	del.OutPort = 9
	if err := env.sm.HandleMessage(del, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := env.sm.FlowTable().Status().CurrentCount; got != 1 {
		t.Fatalf("unexpected flow count: expected=1, got=%v", got)
	}

	// out_port matching an output action: the entry goes away.
	del2 := newFlowMod10(1102, of10.OFPFC_DELETE)
	del2.OutPort = 2
	if err := env.sm.HandleMessage(del2, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := env.sm.FlowTable().Status().CurrentCount; got != 0 {
		t.Fatalf("unexpected flow count: expected=0, got=%v", got)
	}
}

func TestFlowDeleteStrictSendsFlowRemoved(t *testing.T) {
	env := newTestEnv()

	add := newFlowMod10(1200, of10.OFPFC_ADD)
	add.Match.SetInPort(1)
	add.Priority = 7
	add.Flags = of10.OFPFF_SEND_FLOW_REM
	if err := env.sm.HandleMessage(add, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	del := newFlowMod10(1201, of10.OFPFC_DELETE_STRICT)
	del.Match.SetInPort(1)
	del.Priority = 7
	if err := env.sm.HandleMessage(del, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.cxn.sent) != 1 {
		t.Fatalf("unexpected sent count: expected=1, got=%v", len(env.cxn.sent))
	}
	removed, ok := env.cxn.sent[0].(*openflow.FlowRemoved)
	if !ok {
		t.Fatalf("unexpected message type: %T", env.cxn.sent[0])
	}
	if removed.Reason != of10.OFPRR_DELETE {
		t.Fatalf("unexpected flow_removed reason: expected=%v, got=%v", of10.OFPRR_DELETE, removed.Reason)
	}
	if removed.Priority != 7 {
		t.Fatalf("unexpected flow_removed priority: expected=7, got=%v", removed.Priority)
	}
}

func TestFlowModVersionedErrorCodes(t *testing.T) {
	env := newTestEnv()
	env.fwd.createErr = ErrResource

	msg := openflow.NewFlowMod(openflow.OF13_VERSION, 1300, of13.OFPFC_ADD)
	if err := env.sm.HandleMessage(msg, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.cxn.errors) != 1 {
		t.Fatalf("unexpected error count: expected=1, got=%v", len(env.cxn.errors))
	}
	e := env.cxn.errors[0]
	if e.errType != of13.OFPET_FLOW_MOD_FAILED || e.code != of13.OFPFMFC_TABLE_FULL {
		t.Fatalf("unexpected error type/code: type=%v, code=%v", e.errType, e.code)
	}
}

func TestFlowIDUniqueness(t *testing.T) {
	env := newTestEnv()

	for i := 0; i < 16; i++ {
		add := newFlowMod10(uint32(1400+i), of10.OFPFC_ADD)
		add.Match.SetDstPort(uint16(i))
		if err := env.sm.HandleMessage(add, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	seen := make(map[FlowID]bool)
	env.sm.FlowTable().Iterate(func(e *FlowEntry) bool {
		if e.ID == 0 {
			t.Fatal("zero flow id in the table")
		}
		if seen[e.ID] {
			t.Fatalf("duplicate flow id %v", e.ID)
		}
		seen[e.ID] = true
		return true
	})
	if len(seen) != 16 {
		t.Fatalf("unexpected entry count: expected=16, got=%v", len(seen))
	}
}
