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

// Big Switch Networks experimenter extensions. These arrive on the wire as
// experimenter messages; the codec decodes the known subtypes into the typed
// forms below.

type BSNSetIPMask struct {
	Message
	Index uint8
	Mask  uint32
}

func NewBSNSetIPMask(version uint8, xid uint32) *BSNSetIPMask {
	return &BSNSetIPMask{Message: NewMessage(version, typeCode(version, of10.OFPT_VENDOR, of13.OFPT_EXPERIMENTER), xid)}
}

type BSNGetIPMaskRequest struct {
	Message
	Index uint8
}

func NewBSNGetIPMaskRequest(version uint8, xid uint32) *BSNGetIPMaskRequest {
	return &BSNGetIPMaskRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_VENDOR, of13.OFPT_EXPERIMENTER), xid)}
}

type BSNGetIPMaskReply struct {
	Message
	Index uint8
	Mask  uint32
}

func NewBSNGetIPMaskReply(version uint8, xid uint32) *BSNGetIPMaskReply {
	return &BSNGetIPMaskReply{Message: NewMessage(version, typeCode(version, of10.OFPT_VENDOR, of13.OFPT_EXPERIMENTER), xid)}
}

type BSNHybridGetRequest struct {
	Message
}

func NewBSNHybridGetRequest(version uint8, xid uint32) *BSNHybridGetRequest {
	return &BSNHybridGetRequest{Message: NewMessage(version, typeCode(version, of10.OFPT_VENDOR, of13.OFPT_EXPERIMENTER), xid)}
}

type BSNHybridGetReply struct {
	Message
	HybridEnable  uint8
	HybridVersion uint16
}

func NewBSNHybridGetReply(version uint8, xid uint32) *BSNHybridGetReply {
	return &BSNHybridGetReply{Message: NewMessage(version, typeCode(version, of10.OFPT_VENDOR, of13.OFPT_EXPERIMENTER), xid)}
}
