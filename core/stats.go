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

// replySizeLimit caps one multipart segment. A segment is flushed when the
// next entry would take its encoded size past this limit; only a single
// entry larger than the limit makes a segment exceed it.
const replySizeLimit = 1 << 15

func calcDuration(insertTime, now time.Time) (secs, nsecs uint32) {
	if insertTime.IsZero() || now.Before(insertTime) {
		return 0, 0
	}
	d := now.Sub(insertTime)
	return uint32(d / time.Second), uint32(d % time.Second)
}

// statsQuery normalizes the query fields shared by flow and aggregate stats
// requests. Stats queries are always non-strict.
func statsQuery(version uint8, match *openflow.Match, tableID uint8, outPort uint32, cookie, cookieMask uint64) (*Query, error) {
	if match == nil {
		return nil, ErrUnknown
	}

	q := &Query{
		Mode:    MatchNonStrict,
		Match:   match.Clone(),
		TableID: tableID,
	}
	if openflow.PortIsWildcard(version, outPort) {
		q.OutPort = openflow.PortAny
	} else {
		q.OutPort = outPort
	}
	if version >= openflow.OF11_VERSION {
		q.Cookie = cookie
		q.CookieMask = cookieMask
	}

	return q, nil
}

// flowStatsState streams matched entries back as multipart segments. It owns
// the request until Done runs.
type flowStatsState struct {
	sm          *StateManager
	cxnID       CxnID
	req         *openflow.FlowStatsRequest
	currentTime time.Time
	reply       *openflow.FlowStatsReply
}

func (r *flowStatsState) ensureReply() *openflow.FlowStatsReply {
	if r.reply == nil {
		r.reply = openflow.NewFlowStatsReply(r.req.Version(), r.req.TransactionID())
		r.reply.More = true
	}
	return r.reply
}

func (r *flowStatsState) Entry(entry *FlowEntry) {
	reply := r.ensureReply()

	flowStats, err := r.sm.fwd.FlowStatsGet(entry.ID)
	if err != nil {
		logger.Errorf("failed to get stats for flow %v: %v", entry.ID, err)
		return
	}

	// A reply only carries entries whose effects encode under its own
	// version; flows installed under another version are skipped.
	if r.req.Version() != entry.Effects.Version {
		logger.Debugf("stats request version (%v) differs from entry version (%v), entry skipped",
			r.req.Version(), entry.Effects.Version)
		return
	}

	secs, nsecs := calcDuration(entry.InsertTime, r.currentTime)
	stats := openflow.FlowStatsEntry{
		TableID:      entry.TableID,
		DurationSec:  secs,
		DurationNSec: nsecs,
		Priority:     entry.Priority,
		IdleTimeout:  entry.IdleTimeout,
		HardTimeout:  entry.HardTimeout,
		Cookie:       entry.Cookie,
		PacketCount:  flowStats.Packets,
		ByteCount:    flowStats.Bytes,
		Match:        entry.Match.Clone(),
	}
	if r.req.Version() >= openflow.OF13_VERSION {
		stats.Flags = entry.Flags
	}
	if entry.Effects.Version == openflow.OF10_VERSION {
		stats.Actions = append([]openflow.Action(nil), entry.Effects.Actions...)
	} else {
		stats.Instructions = append([]openflow.Instruction(nil), entry.Effects.Instructions...)
	}
	reply.Entries = append(reply.Entries, stats)

	// Flush before the segment outgrows the reply size cap: an entry that
	// would push the segment past the cap starts the next segment instead.
	if reply.Length() > replySizeLimit && len(reply.Entries) > 1 {
		reply.Entries = reply.Entries[:len(reply.Entries)-1]
		if err := r.sm.cxn.Send(r.cxnID, reply); err != nil {
			logger.Errorf("failed to send flow stats segment: %v", err)
		}
		r.reply = nil
		next := r.ensureReply()
		next.Entries = append(next.Entries, stats)
	}
}

func (r *flowStatsState) Done() {
	reply := r.ensureReply()
	reply.More = false
	if err := r.sm.cxn.Send(r.cxnID, reply); err != nil {
		logger.Errorf("failed to send final flow stats segment: %v", err)
	}
	r.req.Release()
}

func (r *StateManager) handleFlowStatsRequest(msg *openflow.FlowStatsRequest, cxnID CxnID) error {
	logger.Debugf("handling flow stats request: xid=%v", msg.TransactionID())

	query, err := statsQuery(msg.Version(), msg.Match, msg.TableID, msg.OutPort, msg.Cookie, msg.CookieMask)
	if err != nil {
		logger.Errorf("failed to build flow stats query")
		msg.Release()
		return err
	}

	state := &flowStatsState{
		sm:          r,
		cxnID:       cxnID,
		req:         msg,
		currentTime: r.sched.CurrentTime(),
	}
	if err := r.ft.SpawnIterTask(query, state, soc.DefaultPriority); err != nil {
		logger.Errorf("failed to start flow stats iteration")
		msg.Release()
		return err
	}

	// Ownership of msg has passed to the iteration task.
	return nil
}

// aggregateStatsState accumulates totals across matched entries and replies
// once at terminal.
type aggregateStatsState struct {
	sm      *StateManager
	cxnID   CxnID
	req     *openflow.AggregateStatsRequest
	packets uint64
	bytes   uint64
	flows   uint32
}

func (r *aggregateStatsState) Entry(entry *FlowEntry) {
	flowStats, err := r.sm.fwd.FlowStatsGet(entry.ID)
	if err != nil {
		logger.Errorf("failed to get stats for flow %v: %v", entry.ID, err)
		return
	}
	r.packets += flowStats.Packets
	r.bytes += flowStats.Bytes
	r.flows++
}

func (r *aggregateStatsState) Done() {
	reply := openflow.NewAggregateStatsReply(r.req.Version(), r.req.TransactionID())
	reply.PacketCount = r.packets
	reply.ByteCount = r.bytes
	reply.FlowCount = r.flows
	if err := r.sm.cxn.Send(r.cxnID, reply); err != nil {
		logger.Errorf("failed to send aggregate stats reply: %v", err)
	}
	r.req.Release()
}

func (r *StateManager) handleAggregateStatsRequest(msg *openflow.AggregateStatsRequest, cxnID CxnID) error {
	logger.Debugf("handling aggregate stats request: xid=%v", msg.TransactionID())

	query, err := statsQuery(msg.Version(), msg.Match, msg.TableID, msg.OutPort, msg.Cookie, msg.CookieMask)
	if err != nil {
		logger.Errorf("failed to build aggregate stats query")
		msg.Release()
		return err
	}

	state := &aggregateStatsState{sm: r, cxnID: cxnID, req: msg}
	if err := r.ft.SpawnIterTask(query, state, soc.DefaultPriority); err != nil {
		logger.Errorf("failed to start aggregate stats iteration")
		msg.Release()
		return err
	}

	return nil
}

func (r *StateManager) handleTableStatsRequest(msg *openflow.TableStatsRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling table stats request: xid=%v", msg.TransactionID())

	reply, err := r.fwd.TableStatsGet(msg)
	if err != nil {
		logger.Errorf("table stats returned error: %v", err)
		return err
	}
	reply.SetTransactionID(msg.TransactionID())

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send table stats reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handlePortStatsRequest(msg *openflow.PortStatsRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling port stats request: xid=%v", msg.TransactionID())

	reply, err := r.port.StatsGet(msg)
	if err != nil {
		logger.Errorf("failed to get stats for port %v: %v", msg.PortNumber, err)
		if sendErr := r.cxn.SendError(msg.Version(), cxnID, msg.TransactionID(),
			errTypeBadRequest(msg.Version()), codeRequestEPerm(msg.Version()), errorPayload(msg)); sendErr != nil {
			logger.Errorf("failed to send port stats error message: %v", sendErr)
		}
		return err
	}
	reply.SetTransactionID(msg.TransactionID())

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send port stats reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleQueueStatsRequest(msg *openflow.QueueStatsRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling queue stats request: xid=%v", msg.TransactionID())

	reply, err := r.port.QueueStatsGet(msg)
	if err != nil {
		logger.Errorf("failed to get stats for queue %v on port %v: %v", msg.QueueID, msg.PortNumber, err)

		var code uint16
		switch cause(err) {
		case ErrRange:
			code = codeQueueOpBadQueue(msg.Version())
		default:
			code = codeQueueOpBadPort(msg.Version())
		}
		if sendErr := r.cxn.SendError(msg.Version(), cxnID, msg.TransactionID(),
			errTypeQueueOpFailed(msg.Version()), code, errorPayload(msg)); sendErr != nil {
			logger.Errorf("failed to send queue stats error message: %v", sendErr)
		}
		return err
	}
	reply.SetTransactionID(msg.TransactionID())

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send queue stats reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleDescStatsRequest(msg *openflow.DescStatsRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling desc stats request: xid=%v", msg.TransactionID())

	reply := openflow.NewDescStatsReply(msg.Version(), msg.TransactionID())
	reply.Manufacturer = r.desc.Manufacturer
	reply.Hardware = r.desc.Hardware
	reply.Software = r.desc.Software
	reply.SerialNumber = r.desc.SerialNumber
	reply.Datapath = r.desc.Datapath

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send desc stats reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handlePortDescStatsRequest(msg *openflow.PortDescStatsRequest, cxnID CxnID) error {
	defer msg.Release()
	logger.Debugf("handling port desc stats request: xid=%v", msg.TransactionID())

	reply := openflow.NewPortDescStatsReply(msg.Version(), msg.TransactionID())
	if err := r.port.DescStatsGet(reply); err != nil {
		logger.Errorf("failed to get port descriptions: %v", err)
		return err
	}

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send port desc stats reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleExperimenterStatsRequest(msg *openflow.ExperimenterStatsRequest, cxnID CxnID) error {
	logger.Debugf("handling experimenter stats request: xid=%v", msg.TransactionID())

	// No experimenter stats are supported at this layer.
	return r.unhandledMessage(msg, cxnID)
}
