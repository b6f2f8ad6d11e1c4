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

package openflow

import (
	"github.com/hazelsdn/hazel/openflow/of10"
	"github.com/hazelsdn/hazel/openflow/of13"
)

// Stats requests and replies. On 1.0 these ride OFPT_STATS_REQUEST/REPLY; on
// 1.1+ they are multipart messages. The decoded model keeps one type per
// stats kind and lets the codec handle the container framing.

func statsRequestType(version uint8) uint8 {
	if version == OF10_VERSION {
		return of10.OFPT_STATS_REQUEST
	}
	return of13.OFPT_MULTIPART_REQUEST
}

func statsReplyType(version uint8) uint8 {
	if version == OF10_VERSION {
		return of10.OFPT_STATS_REPLY
	}
	return of13.OFPT_MULTIPART_REPLY
}

// statsHeaderLen is the encoded size of the OpenFlow header plus the stats
// (1.0) or multipart (1.1+) preamble. Reply length accounting mirrors the
// codec's framing so pagination decisions match the bytes on the wire.
func statsHeaderLen(version uint8) int {
	if version == OF10_VERSION {
		return 12
	}
	return 16
}

type FlowStatsRequest struct {
	Message
	TableID    uint8
	OutPort    uint32
	Cookie     uint64 // 1.1+
	CookieMask uint64 // 1.1+
	Match      *Match
}

func NewFlowStatsRequest(version uint8, xid uint32) *FlowStatsRequest {
	return &FlowStatsRequest{
		Message: NewMessage(version, statsRequestType(version), xid),
		TableID: of13.OFPTT_ALL,
		OutPort: PortAny,
		Match:   NewMatch(),
	}
}

type FlowStatsEntry struct {
	TableID      uint8
	DurationSec  uint32
	DurationNSec uint32
	Priority     uint16
	IdleTimeout  uint16
	HardTimeout  uint16
	Flags        uint16 // 1.3
	Cookie       uint64
	PacketCount  uint64
	ByteCount    uint64
	Match        *Match
	Actions      []Action
	Instructions []Instruction
}

func (r *FlowStatsEntry) wireLength(version uint8) int {
	if version == OF10_VERSION {
		// ofp_flow_stats with the fixed 1.0 match, plus 8 bytes per action.
		return 88 + 8*len(r.Actions)
	}
	n := 56 + matchWireLength(r.Match)
	for _, ins := range r.Instructions {
		n += 8 + 8*len(ins.Actions)
	}
	return n
}

// matchWireLength approximates the OXM encoding: a 4-byte header plus an
// 8-byte slot per set field, padded to 8 bytes.
func matchWireLength(m *Match) int {
	if m == nil {
		return 8
	}
	fields := 0
	for f := matchField(0); f < numMatchFields; f++ {
		if m.mask[f] != 0 {
			fields++
		}
	}
	n := 4 + 8*fields
	if rem := n % 8; rem != 0 {
		n += 8 - rem
	}
	return n
}

type FlowStatsReply struct {
	Message
	More    bool
	Entries []FlowStatsEntry
}

func NewFlowStatsReply(version uint8, xid uint32) *FlowStatsReply {
	return &FlowStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

// Length is the encoded message size, used to keep multipart segments under
// the reply size cap.
func (r *FlowStatsReply) Length() int {
	n := statsHeaderLen(r.Version())
	for i := range r.Entries {
		n += r.Entries[i].wireLength(r.Version())
	}
	return n
}

type AggregateStatsRequest struct {
	Message
	TableID    uint8
	OutPort    uint32
	Cookie     uint64 // 1.1+
	CookieMask uint64 // 1.1+
	Match      *Match
}

func NewAggregateStatsRequest(version uint8, xid uint32) *AggregateStatsRequest {
	return &AggregateStatsRequest{
		Message: NewMessage(version, statsRequestType(version), xid),
		TableID: of13.OFPTT_ALL,
		OutPort: PortAny,
		Match:   NewMatch(),
	}
}

type AggregateStatsReply struct {
	Message
	PacketCount uint64
	ByteCount   uint64
	FlowCount   uint32
}

func NewAggregateStatsReply(version uint8, xid uint32) *AggregateStatsReply {
	return &AggregateStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

type TableStatsRequest struct {
	Message
}

func NewTableStatsRequest(version uint8, xid uint32) *TableStatsRequest {
	return &TableStatsRequest{Message: NewMessage(version, statsRequestType(version), xid)}
}

type TableStatsEntry struct {
	TableID      uint8
	Name         string // 1.0-1.2
	ActiveCount  uint32
	LookupCount  uint64
	MatchedCount uint64
	MaxEntries   uint32 // 1.0-1.2
}

type TableStatsReply struct {
	Message
	More    bool
	Entries []TableStatsEntry
}

func NewTableStatsReply(version uint8, xid uint32) *TableStatsReply {
	return &TableStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

type PortStatsRequest struct {
	Message
	PortNumber uint32
}

func NewPortStatsRequest(version uint8, xid uint32) *PortStatsRequest {
	return &PortStatsRequest{Message: NewMessage(version, statsRequestType(version), xid), PortNumber: PortAny}
}

type PortStatsEntry struct {
	PortNumber   uint32
	RxPackets    uint64
	TxPackets    uint64
	RxBytes      uint64
	TxBytes      uint64
	RxDropped    uint64
	TxDropped    uint64
	RxErrors     uint64
	TxErrors     uint64
	RxFrameErr   uint64
	RxOverErr    uint64
	RxCrcErr     uint64
	Collisions   uint64
	DurationSec  uint32 // 1.3
	DurationNSec uint32 // 1.3
}

type PortStatsReply struct {
	Message
	More    bool
	Entries []PortStatsEntry
}

func NewPortStatsReply(version uint8, xid uint32) *PortStatsReply {
	return &PortStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

type QueueStatsRequest struct {
	Message
	PortNumber uint32
	QueueID    uint32
}

func NewQueueStatsRequest(version uint8, xid uint32) *QueueStatsRequest {
	return &QueueStatsRequest{Message: NewMessage(version, statsRequestType(version), xid)}
}

type QueueStatsEntry struct {
	PortNumber uint32
	QueueID    uint32
	TxBytes    uint64
	TxPackets  uint64
	TxErrors   uint64
}

type QueueStatsReply struct {
	Message
	More    bool
	Entries []QueueStatsEntry
}

func NewQueueStatsReply(version uint8, xid uint32) *QueueStatsReply {
	return &QueueStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

type QueueGetConfigRequest struct {
	Message
	PortNumber uint32
}

func NewQueueGetConfigRequest(version uint8, xid uint32) *QueueGetConfigRequest {
	return &QueueGetConfigRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_QUEUE_GET_CONFIG_REQUEST, of13.OFPT_QUEUE_GET_CONFIG_REQUEST), xid)}
}

type PacketQueue struct {
	QueueID uint32
	MinRate uint16
	MaxRate uint16 // 1.2+
}

type QueueGetConfigReply struct {
	Message
	PortNumber uint32
	Queues     []PacketQueue
}

func NewQueueGetConfigReply(version uint8, xid uint32) *QueueGetConfigReply {
	return &QueueGetConfigReply{Message: NewMessage(version, typeCode(version, of10.OFPT_QUEUE_GET_CONFIG_REPLY, of13.OFPT_QUEUE_GET_CONFIG_REPLY), xid)}
}

type DescStatsRequest struct {
	Message
}

func NewDescStatsRequest(version uint8, xid uint32) *DescStatsRequest {
	return &DescStatsRequest{Message: NewMessage(version, statsRequestType(version), xid)}
}

type DescStatsReply struct {
	Message
	Manufacturer string
	Hardware     string
	Software     string
	SerialNumber string
	Datapath     string
}

func NewDescStatsReply(version uint8, xid uint32) *DescStatsReply {
	return &DescStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

type PortDescStatsRequest struct {
	Message
}

func NewPortDescStatsRequest(version uint8, xid uint32) *PortDescStatsRequest {
	return &PortDescStatsRequest{Message: NewMessage(version, statsRequestType(version), xid)}
}

type PortDescStatsReply struct {
	Message
	Ports []PhysicalPort
}

func NewPortDescStatsReply(version uint8, xid uint32) *PortDescStatsReply {
	return &PortDescStatsReply{Message: NewMessage(version, statsReplyType(version), xid)}
}

type ExperimenterStatsRequest struct {
	Message
	Experimenter uint32
	Data         []byte
}

func NewExperimenterStatsRequest(version uint8, xid uint32) *ExperimenterStatsRequest {
	return &ExperimenterStatsRequest{Message: NewMessage(version, statsRequestType(version), xid)}
}
