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
)

const ipMaskSlots = 256

// ipMaskTable backs the BSN IP mask extension: 256 u32 slots addressed by an
// 8-bit index.
type ipMaskTable [ipMaskSlots]uint32

func (r *ipMaskTable) set(index int, mask uint32) error {
	if index < 0 || index >= ipMaskSlots {
		return ErrRange
	}
	r[index] = mask
	return nil
}

func (r *ipMaskTable) get(index int) (uint32, error) {
	if index < 0 || index >= ipMaskSlots {
		return 0, ErrRange
	}
	return r[index], nil
}

func (r *StateManager) handleBSNSetIPMask(msg *openflow.BSNSetIPMask, cxnID CxnID) error {
	logger.Debugf("received BSN set IP mask from connection %v", cxnID)

	version := msg.Version()
	xid := msg.TransactionID()
	index := int(msg.Index)
	mask := msg.Mask
	payload := errorPayload(msg)
	msg.Release()

	if err := r.ipMask.set(index, mask); err != nil {
		logger.Errorf("bad index for set ip_mask: %v", index)
		if sendErr := r.cxn.SendError(version, cxnID, xid,
			errTypeBadRequest(version), codeRequestEPerm(version), payload); sendErr != nil {
			logger.Errorf("failed to send set ip mask error message: %v", sendErr)
		}
		return nil
	}
	logger.Debugf("ip_mask: set index %v to 0x%x", index, mask)

	return nil
}

func (r *StateManager) handleBSNGetIPMaskRequest(msg *openflow.BSNGetIPMaskRequest, cxnID CxnID) error {
	logger.Debugf("received BSN get IP mask request from connection %v", cxnID)

	version := msg.Version()
	xid := msg.TransactionID()
	index := int(msg.Index)
	payload := errorPayload(msg)
	msg.Release()

	mask, err := r.ipMask.get(index)
	if err != nil {
		logger.Errorf("bad index for get ip_mask: %v", index)
		if sendErr := r.cxn.SendError(version, cxnID, xid,
			errTypeBadRequest(version), codeRequestEPerm(version), payload); sendErr != nil {
			logger.Errorf("failed to send get ip mask error message: %v", sendErr)
		}
		return nil
	}

	reply := openflow.NewBSNGetIPMaskReply(version, xid)
	reply.Index = uint8(index)
	reply.Mask = mask

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send get ip mask reply: %v", err)
		return err
	}

	return nil
}

func (r *StateManager) handleBSNHybridGetRequest(msg *openflow.BSNHybridGetRequest, cxnID CxnID) error {
	logger.Debugf("received BSN hybrid_get from connection %v", cxnID)

	reply := openflow.NewBSNHybridGetReply(msg.Version(), msg.TransactionID())
	reply.HybridEnable = 1
	reply.HybridVersion = 0
	msg.Release()

	if err := r.cxn.Send(cxnID, reply); err != nil {
		logger.Errorf("failed to send hybrid_get reply: %v", err)
		return err
	}

	return nil
}
