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
	"github.com/hazelsdn/hazel/openflow/of10"
	"github.com/hazelsdn/hazel/openflow/of13"
	"github.com/hazelsdn/hazel/soc"
)

// FlowRemovedReason is the cause of a flow entry removal.
type FlowRemovedReason int

const (
	ReasonIdleTimeout FlowRemovedReason = iota
	ReasonHardTimeout
	ReasonDelete
	// ReasonOverwrite marks an entry displaced by an ADD with an identical
	// strict match. No flow_removed notification is generated for it.
	ReasonOverwrite
)

func (r FlowRemovedReason) wireReason() uint8 {
	switch r {
	case ReasonIdleTimeout:
		return of10.OFPRR_IDLE_TIMEOUT
	case ReasonHardTimeout:
		return of10.OFPRR_HARD_TIMEOUT
	default:
		return of10.OFPRR_DELETE
	}
}

func (r *StateManager) handleFlowMod(msg *openflow.FlowMod, cxnID CxnID) error {
	switch msg.Command {
	case of13.OFPFC_ADD:
		return r.flowAdd(msg, cxnID)
	case of13.OFPFC_MODIFY:
		return r.flowModify(msg, cxnID)
	case of13.OFPFC_MODIFY_STRICT:
		return r.flowModifyStrict(msg, cxnID)
	case of13.OFPFC_DELETE:
		return r.flowDelete(msg, cxnID)
	case of13.OFPFC_DELETE_STRICT:
		return r.flowDeleteStrict(msg, cxnID)
	default:
		logger.Errorf("unknown flow mod command %v", msg.Command)
		r.flowModErrMsgSend(ErrNotSupported, msg.Version(), cxnID, msg)
		msg.Release()
		return ErrNotSupported
	}
}

// overlapFound scans the table for an entry whose match bitspace intersects
// the flow_mod's at equal priority. The scan is synchronous; overlap checks
// must not interleave with other mutations.
func (r *StateManager) overlapFound(msg *openflow.FlowMod) (bool, error) {
	query, err := buildQuery(msg, MatchOverlap, true)
	if err != nil {
		return false, err
	}

	found := false
	r.ft.Iterate(func(entry *FlowEntry) bool {
		if query.Matches(entry) {
			found = true
			return false
		}
		return true
	})

	return found, nil
}

// flowAdd implements ADD: overlap rejection, emergency-timeout validation,
// overwrite of an identical strict match, table insert and forwarding
// creation. Protocol failures are reported as wire errors; of these, only
// the emergency-timeout rejection also returns an error (ErrParam).
func (r *StateManager) flowAdd(msg *openflow.FlowMod, cxnID CxnID) error {
	defer msg.Release()

	ver := msg.Version()
	logger.Debugf("handling flow add: xid=%v, ver=%v", msg.TransactionID(), ver)

	if msg.Flags&openflow.FlagCheckOverlap(ver) != 0 {
		overlap, err := r.overlapFound(msg)
		if err != nil {
			return err
		}
		if overlap {
			logger.Debugf("overlap found when adding flow: xid=%v", msg.TransactionID())
			if err := r.cxn.SendError(ver, cxnID, msg.TransactionID(),
				errTypeFlowModFailed(ver), codeOverlap(ver), errorPayload(msg)); err != nil {
				logger.Errorf("failed to send overlap error message: %v", err)
			}
			return nil
		}
	}

	if emerg := openflow.FlagEmergency(ver); emerg != 0 && msg.Flags&emerg != 0 &&
		(msg.IdleTimeout != 0 || msg.HardTimeout != 0) {
		logger.Debugf("attempted to set timeout on an emergency flow: xid=%v", msg.TransactionID())
		if err := r.cxn.SendError(ver, cxnID, msg.TransactionID(),
			errTypeFlowModFailed(ver), codeBadEmergTimeout(ver), errorPayload(msg)); err != nil {
			logger.Errorf("failed to send bad emergency timeout error message: %v", err)
		}
		return ErrParam
	}

	query, err := buildQuery(msg, MatchStrict, true)
	if err != nil {
		logger.Errorf("failed to build strict query: %v", err)
		return err
	}

	// Displace an existing flow with the identical strict match.
	if entry, err := r.ft.StrictMatch(query); err == nil {
		r.flowEntryDelete(entry, ReasonOverwrite, cxnID)
	}

	flowID := r.flows.allocate()
	entry, err := r.ft.Add(flowID, msg)
	if err != nil {
		logger.Errorf("flow table add failed: %v", err)
		return err
	}

	tableID, err := r.fwd.FlowCreate(flowID, msg)
	if err != nil {
		logger.Infof("forwarding rejected flow insert: %v", err)
		r.ft.addError()
		r.flowModErrMsgSend(err, ver, cxnID, msg)
		r.ft.Delete(entry)
		return nil
	}

	entry.TableID = tableID
	entry.InsertTime = r.sched.CurrentTime()
	logger.Debugf("flow table now has %v entries", r.ft.Status().CurrentCount)

	return nil
}

// flowModifyState is the shared iteration state for non-strict modify and
// delete tasks. It owns the request message until Done runs.
type flowModifyState struct {
	sm         *StateManager
	request    *openflow.FlowMod
	cxnID      CxnID
	numMatched int
}

// modifyIter applies the modify per entry and falls back to ADD when no
// entry matched.
type modifyIter struct {
	*flowModifyState
}

func (r *modifyIter) Entry(entry *FlowEntry) {
	r.numMatched++
	if err := r.sm.fwd.FlowModify(entry.ID, r.request); err != nil {
		logger.Debugf("flow modify error: %v", err)
		r.sm.flowModErrMsgSend(err, r.request.Version(), r.cxnID, r.request)
		return
	}
	r.sm.ft.ModifyEffects(entry, r.request)
}

func (r *modifyIter) Done() {
	if r.numMatched == 0 {
		logger.Debugf("no entries to modify, treat as add")
		// OpenFlow 1.0.0, section 4.6, page 14: treat as an add. Ownership
		// of the request transfers to the add path, which releases it.
		r.sm.flowAdd(r.request, r.cxnID)
		return
	}
	logger.Debugf("finished flow modify task: matched=%v", r.numMatched)
	r.request.Release()
}

// deleteIter removes each matched entry. Zero matches is not an error.
type deleteIter struct {
	*flowModifyState
}

func (r *deleteIter) Entry(entry *FlowEntry) {
	r.sm.flowEntryDelete(entry, ReasonDelete, r.cxnID)
}

func (r *deleteIter) Done() {
	logger.Debugf("finished flow delete task")
	r.request.Release()
}

// flowModify handles the non-strict MODIFY by spawning an iteration task.
// The request's ownership transfers to the task.
func (r *StateManager) flowModify(msg *openflow.FlowMod, cxnID CxnID) error {
	logger.Debugf("handling flow modify: xid=%v", msg.TransactionID())

	query, err := buildQuery(msg, MatchNonStrict, true)
	if err != nil {
		msg.Release()
		return err
	}

	state := &flowModifyState{sm: r, request: msg, cxnID: cxnID}
	if err := r.ft.SpawnIterTask(query, &modifyIter{state}, soc.DefaultPriority); err != nil {
		msg.Release()
		return err
	}

	return nil
}

// flowModifyStrict is synchronous: one strict match is modified, or the
// request is treated as an add.
func (r *StateManager) flowModifyStrict(msg *openflow.FlowMod, cxnID CxnID) error {
	logger.Debugf("handling flow modify strict: xid=%v", msg.TransactionID())

	query, err := buildQuery(msg, MatchStrict, true)
	if err != nil {
		msg.Release()
		return err
	}

	entry, err := r.ft.StrictMatch(query)
	if cause(err) == ErrNotFound {
		logger.Debugf("no entries to modify strict, treat as add")
		// OpenFlow 1.0.0, section 4.6, page 14: treat as an add.
		return r.flowAdd(msg, cxnID)
	}

	defer msg.Release()
	if err := r.fwd.FlowModify(entry.ID, msg); err != nil {
		logger.Debugf("flow modify error: %v", err)
		r.flowModErrMsgSend(err, msg.Version(), cxnID, msg)
		return nil
	}
	r.ft.ModifyEffects(entry, msg)

	return nil
}

// flowDelete handles the non-strict DELETE by spawning an iteration task
// honoring the message's out_port filter.
func (r *StateManager) flowDelete(msg *openflow.FlowMod, cxnID CxnID) error {
	logger.Debugf("handling flow delete: xid=%v", msg.TransactionID())

	query, err := buildQuery(msg, MatchNonStrict, false)
	if err != nil {
		msg.Release()
		return err
	}

	state := &flowModifyState{sm: r, request: msg, cxnID: cxnID}
	if err := r.ft.SpawnIterTask(query, &deleteIter{state}, soc.DefaultPriority); err != nil {
		msg.Release()
		return err
	}

	return nil
}

// flowDeleteStrict is synchronous: at most one strict match is removed.
// Absence of a match is not an error.
func (r *StateManager) flowDeleteStrict(msg *openflow.FlowMod, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling flow delete strict: xid=%v", msg.TransactionID())

	query, err := buildQuery(msg, MatchStrict, false)
	if err != nil {
		return err
	}

	if entry, err := r.ft.StrictMatch(query); err == nil {
		r.flowEntryDelete(entry, ReasonDelete, cxnID)
	}

	return nil
}

// flowEntryDelete tears a flow down: forwarding delete, optional
// flow_removed notification, table unlink.
func (r *StateManager) flowEntryDelete(entry *FlowEntry, reason FlowRemovedReason, cxnID CxnID) {
	finalStats, err := r.fwd.FlowDelete(entry.ID)
	if err != nil {
		logger.Errorf("forwarding flow delete failed for flow %v: %v", entry.ID, err)
	}

	ver := entry.Effects.Version
	if entry.Flags&openflow.FlagSendFlowRemoved(ver) != 0 && reason != ReasonOverwrite {
		r.sendFlowRemoved(entry, reason, finalStats, cxnID)
	}

	if err := r.ft.Delete(entry); err != nil {
		logger.Errorf("flow table delete failed for flow %v: %v", entry.ID, err)
	}
}

func (r *StateManager) sendFlowRemoved(entry *FlowEntry, reason FlowRemovedReason, finalStats FlowStats, cxnID CxnID) {
	ver := entry.Effects.Version
	msg := openflow.NewFlowRemoved(ver, r.xids.allocate())
	msg.Cookie = entry.Cookie
	msg.Priority = entry.Priority
	msg.Reason = reason.wireReason()
	msg.TableID = entry.TableID
	msg.DurationSec, msg.DurationNSec = calcDuration(entry.InsertTime, r.sched.CurrentTime())
	msg.IdleTimeout = entry.IdleTimeout
	msg.HardTimeout = entry.HardTimeout
	msg.PacketCount = finalStats.Packets
	msg.ByteCount = finalStats.Bytes
	msg.Match = entry.Match.Clone()

	if err := r.cxn.Send(cxnID, msg); err != nil {
		logger.Errorf("failed to send flow_removed for flow %v: %v", entry.ID, err)
	}
}
