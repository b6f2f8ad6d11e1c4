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
	"net"

	"github.com/hazelsdn/hazel/openflow/of10"
	"github.com/hazelsdn/hazel/openflow/of13"
)

// PortAny is the normalized destination wildcard. The codec maps the
// per-version sentinels (OFPP_NONE on 1.0, OFPP_ANY on 1.1+) to and from it.
const PortAny uint32 = 0xffffffff

// PortIsWildcard reports whether port is the destination wildcard under the
// given wire version.
func PortIsWildcard(version uint8, port uint32) bool {
	if version == OF10_VERSION {
		return port == of10.OFPP_NONE || port == PortAny
	}
	return port == of13.OFPP_ANY
}

// FlagCheckOverlap returns the CHECK_OVERLAP flag bit for the version.
func FlagCheckOverlap(version uint8) uint16 {
	if version == OF10_VERSION {
		return of10.OFPFF_CHECK_OVERLAP
	}
	return of13.OFPFF_CHECK_OVERLAP
}

// FlagSendFlowRemoved returns the SEND_FLOW_REM flag bit for the version.
func FlagSendFlowRemoved(version uint8) uint16 {
	if version == OF10_VERSION {
		return of10.OFPFF_SEND_FLOW_REM
	}
	return of13.OFPFF_SEND_FLOW_REM
}

// FlagEmergency returns the EMERG flag bit, which only exists on 1.0. A zero
// return means the version has no emergency flows.
func FlagEmergency(version uint8) uint16 {
	if version == OF10_VERSION {
		return of10.OFPFF_EMERG
	}
	return 0
}

type Hello struct {
	Message
}

func NewHello(version uint8, xid uint32) *Hello {
	return &Hello{Message: NewMessage(version, typeCode(version, of10.OFPT_HELLO, of13.OFPT_HELLO), xid)}
}

type EchoRequest struct {
	Message
	Data []byte
}

func NewEchoRequest(version uint8, xid uint32) *EchoRequest {
	return &EchoRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_ECHO_REQUEST, of13.OFPT_ECHO_REQUEST), xid)}
}

type EchoReply struct {
	Message
	Data []byte
}

func NewEchoReply(version uint8, xid uint32) *EchoReply {
	return &EchoReply{Message: NewMessage(version, typeCode(version, of10.OFPT_ECHO_REPLY, of13.OFPT_ECHO_REPLY), xid)}
}

type FeaturesRequest struct {
	Message
}

func NewFeaturesRequest(version uint8, xid uint32) *FeaturesRequest {
	return &FeaturesRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_FEATURES_REQUEST, of13.OFPT_FEATURES_REQUEST), xid)}
}

type PhysicalPort struct {
	Number     uint32
	HWAddr     net.HardwareAddr
	Name       string
	Config     uint32
	State      uint32
	Curr       uint32
	Advertised uint32
	Supported  uint32
	Peer       uint32
	CurrSpeed  uint32 // 1.1+
	MaxSpeed   uint32 // 1.1+
}

type FeaturesReply struct {
	Message
	DatapathID   uint64
	NumBuffers   uint32
	NumTables    uint8
	AuxiliaryID  uint8 // 1.3
	Capabilities uint32
	Actions      uint32 // 1.0 only
	Ports        []PhysicalPort
}

func NewFeaturesReply(version uint8, xid uint32) *FeaturesReply {
	return &FeaturesReply{Message: NewMessage(version, typeCode(version, of10.OFPT_FEATURES_REPLY, of13.OFPT_FEATURES_REPLY), xid)}
}

type GetConfigRequest struct {
	Message
}

func NewGetConfigRequest(version uint8, xid uint32) *GetConfigRequest {
	return &GetConfigRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_GET_CONFIG_REQUEST, of13.OFPT_GET_CONFIG_REQUEST), xid)}
}

type GetConfigReply struct {
	Message
	Flags       uint16
	MissSendLen uint16
}

func NewGetConfigReply(version uint8, xid uint32) *GetConfigReply {
	return &GetConfigReply{Message: NewMessage(version, typeCode(version, of10.OFPT_GET_CONFIG_REPLY, of13.OFPT_GET_CONFIG_REPLY), xid)}
}

type SetConfig struct {
	Message
	Flags       uint16
	MissSendLen uint16
}

func NewSetConfig(version uint8, xid uint32) *SetConfig {
	return &SetConfig{Message: NewMessage(version, typeCode(version, of10.OFPT_SET_CONFIG, of13.OFPT_SET_CONFIG), xid)}
}

type TableMod struct {
	Message
	TableID uint8
	Config  uint32
}

func NewTableMod(version uint8, xid uint32) *TableMod {
	return &TableMod{Message: NewMessage(version, of13.OFPT_TABLE_MOD, xid)}
}

type PacketOut struct {
	Message
	BufferID uint32
	InPort   uint32
	Actions  []Action
	Data     []byte
}

func NewPacketOut(version uint8, xid uint32) *PacketOut {
	return &PacketOut{Message: NewMessage(version, typeCode(version, of10.OFPT_PACKET_OUT, of13.OFPT_PACKET_OUT), xid)}
}

type PortMod struct {
	Message
	PortNumber uint32
	HWAddr     net.HardwareAddr
	Config     uint32
	Mask       uint32
	Advertise  uint32
}

func NewPortMod(version uint8, xid uint32) *PortMod {
	return &PortMod{Message: NewMessage(version, typeCode(version, of10.OFPT_PORT_MOD, of13.OFPT_PORT_MOD), xid)}
}

// FlowMod is the decoded flow_mod for every command; Command selects the
// add / modify / delete semantics. The Actions and Instructions lists follow
// the same version split as Effects.
type FlowMod struct {
	Message
	Command      uint8
	Cookie       uint64
	CookieMask   uint64 // 1.1+
	TableID      uint8  // 1.1+
	IdleTimeout  uint16
	HardTimeout  uint16
	Priority     uint16
	BufferID     uint32
	OutPort      uint32
	Flags        uint16
	Match        *Match
	Actions      []Action
	Instructions []Instruction
}

func NewFlowMod(version uint8, xid uint32, command uint8) *FlowMod {
	return &FlowMod{
		Message: NewMessage(version, typeCode(version, of10.OFPT_FLOW_MOD, of13.OFPT_FLOW_MOD), xid),
		Command: command,
		Match:   NewMatch(),
		OutPort: PortAny,
	}
}

// Effects builds the versioned flow effects carried by this flow_mod.
func (r *FlowMod) Effects() *Effects {
	return NewEffects(r.Version(), r.Actions, r.Instructions)
}

type FlowRemoved struct {
	Message
	Cookie       uint64
	Priority     uint16
	Reason       uint8
	TableID      uint8 // 1.1+
	DurationSec  uint32
	DurationNSec uint32
	IdleTimeout  uint16
	HardTimeout  uint16 // 1.2+
	PacketCount  uint64
	ByteCount    uint64
	Match        *Match
}

func NewFlowRemoved(version uint8, xid uint32) *FlowRemoved {
	return &FlowRemoved{
		Message: NewMessage(version, typeCode(version, of10.OFPT_FLOW_REMOVED, of13.OFPT_FLOW_REMOVED), xid),
		Match:   NewMatch(),
	}
}

type BarrierRequest struct {
	Message
}

func NewBarrierRequest(version uint8, xid uint32) *BarrierRequest {
	return &BarrierRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_BARRIER_REQUEST, of13.OFPT_BARRIER_REQUEST), xid)}
}

type BarrierReply struct {
	Message
}

func NewBarrierReply(version uint8, xid uint32) *BarrierReply {
	return &BarrierReply{Message: NewMessage(version, typeCode(version, of10.OFPT_BARRIER_REPLY, of13.OFPT_BARRIER_REPLY), xid)}
}

type ErrorMsg struct {
	Message
	ErrType uint16
	Code    uint16
	Data    []byte
}

func NewError(version uint8, xid uint32) *ErrorMsg {
	return &ErrorMsg{Message: NewMessage(version, typeCode(version, of10.OFPT_ERROR, of13.OFPT_ERROR), xid)}
}

type Experimenter struct {
	Message
	Experimenter uint32
	ExpType      uint32
	Data         []byte
}

func NewExperimenter(version uint8, xid uint32) *Experimenter {
	return &Experimenter{Message: NewMessage(version, typeCode(version, of10.OFPT_VENDOR, of13.OFPT_EXPERIMENTER), xid)}
}

// Clone deep-copies the message so two collaborators can each own a copy.
func (r *Experimenter) Clone() *Experimenter {
	v := NewExperimenter(r.Version(), r.TransactionID())
	v.Experimenter = r.Experimenter
	v.ExpType = r.ExpType
	v.Data = append([]byte(nil), r.Data...)
	v.SetRaw(append([]byte(nil), r.Raw()...))
	return v
}

func typeCode(version uint8, v10, v13 uint8) uint8 {
	if version == OF10_VERSION {
		return v10
	}
	return v13
}
