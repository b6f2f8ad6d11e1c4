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

// Action type codes shared by the decoded model. The wire codec translates
// per-version action encodings into these.
const (
	ActionOutput = iota
	ActionSetVLANID
	ActionSetVLANPriority
	ActionStripVLAN
	ActionSetSrcMAC
	ActionSetDstMAC
	ActionSetSrcIP
	ActionSetDstIP
	ActionSetIPTOS
	ActionSetSrcPort
	ActionSetDstPort
	ActionEnqueue
	ActionGroup
	ActionSetField
)

type Action struct {
	Type    uint16
	Port    uint32 // Output, Enqueue
	QueueID uint32 // Enqueue
	Value   []byte // Set* payload, opaque to the state manager
}

func NewOutputAction(port uint32) Action {
	return Action{Type: ActionOutput, Port: port}
}

// Instruction type codes (OpenFlow 1.1+).
const (
	InstructionGotoTable = iota + 1
	InstructionWriteMetadata
	InstructionWriteActions
	InstructionApplyActions
	InstructionClearActions
	InstructionMeter
)

type Instruction struct {
	Type    uint16
	TableID uint8 // GotoTable
	Actions []Action
}

// Effects is a flow entry's forwarding outcome: an action list for a flow
// installed under OpenFlow 1.0, or an instruction list for 1.1 and later.
// Exactly one of the two lists is populated, selected by Version.
type Effects struct {
	Version      uint8
	Actions      []Action
	Instructions []Instruction
}

func NewEffects(version uint8, actions []Action, instructions []Instruction) *Effects {
	e := &Effects{Version: version}
	if version == OF10_VERSION {
		e.Actions = actions
	} else {
		e.Instructions = instructions
	}
	return e
}

func (r *Effects) Clone() *Effects {
	v := &Effects{Version: r.Version}
	v.Actions = append([]Action(nil), r.Actions...)
	v.Instructions = make([]Instruction, 0, len(r.Instructions))
	for _, ins := range r.Instructions {
		ins.Actions = append([]Action(nil), ins.Actions...)
		v.Instructions = append(v.Instructions, ins)
	}
	if len(v.Actions) == 0 {
		v.Actions = nil
	}
	if len(v.Instructions) == 0 {
		v.Instructions = nil
	}
	return v
}

// OutputPorts lists every port the effects forward to, in order of
// appearance. Used for out_port query filtering.
func (r *Effects) OutputPorts() []uint32 {
	var ports []uint32
	for _, a := range r.Actions {
		if a.Type == ActionOutput || a.Type == ActionEnqueue {
			ports = append(ports, a.Port)
		}
	}
	for _, ins := range r.Instructions {
		for _, a := range ins.Actions {
			if a.Type == ActionOutput || a.Type == ActionEnqueue {
				ports = append(ports, a.Port)
			}
		}
	}
	return ports
}

func (r *Effects) OutputsTo(port uint32) bool {
	for _, p := range r.OutputPorts() {
		if p == port {
			return true
		}
	}
	return false
}
