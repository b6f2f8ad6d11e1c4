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
)

// Version-aware wire error selection. OpenFlow renumbered the error space
// after 1.0, so every (internal error, version) pair resolves through the
// small tables below instead of per-version conditionals at each call site.

// errorPayloadLimit bounds how much of the offending request is echoed back.
const errorPayloadLimit = 64

func errorPayload(msg openflow.Incoming) []byte {
	raw := msg.Raw()
	if len(raw) > errorPayloadLimit {
		raw = raw[:errorPayloadLimit]
	}
	return append([]byte(nil), raw...)
}

func errTypeBadRequest(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPET_BAD_REQUEST
	}
	return of13.OFPET_BAD_REQUEST
}

func errTypeFlowModFailed(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPET_FLOW_MOD_FAILED
	}
	return of13.OFPET_FLOW_MOD_FAILED
}

func errTypePortModFailed(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPET_PORT_MOD_FAILED
	}
	return of13.OFPET_PORT_MOD_FAILED
}

func errTypeQueueOpFailed(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPET_QUEUE_OP_FAILED
	}
	return of13.OFPET_QUEUE_OP_FAILED
}

func codeBadType(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPBRC_BAD_TYPE
	}
	return of13.OFPBRC_BAD_TYPE
}

func codeBadExperimenter(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPBRC_BAD_VENDOR
	}
	return of13.OFPBRC_BAD_EXPERIMENTER
}

func codeRequestEPerm(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPBRC_EPERM
	}
	return of13.OFPBRC_EPERM
}

func codeOverlap(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPFMFC_OVERLAP
	}
	return of13.OFPFMFC_OVERLAP
}

func codeBadEmergTimeout(version uint8) uint16 {
	// Emergency flows only exist on 1.0.
	return of10.OFPFMFC_BAD_EMERG_TIMEOUT
}

func codePortModBadPort(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPPMFC_BAD_PORT
	}
	return of13.OFPPMFC_BAD_PORT
}

func codeQueueOpBadPort(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPQOFC_BAD_PORT
	}
	return of13.OFPQOFC_BAD_PORT
}

func codeQueueOpBadQueue(version uint8) uint16 {
	if version == openflow.OF10_VERSION {
		return of10.OFPQOFC_BAD_QUEUE
	}
	return of13.OFPQOFC_BAD_QUEUE
}

// flowModFailedCode maps an internal error to the FLOW_MOD_FAILED code for
// the version. 1.0 kept dedicated codes that later versions folded into
// TABLE_FULL, BAD_COMMAND and UNKNOWN.
func flowModFailedCode(version uint8, err error) uint16 {
	switch cause(err) {
	case ErrResource:
		if version == openflow.OF10_VERSION {
			return of10.OFPFMFC_ALL_TABLES_FULL
		}
		return of13.OFPFMFC_TABLE_FULL
	case ErrNotSupported:
		if version == openflow.OF10_VERSION {
			return of10.OFPFMFC_UNSUPPORTED
		}
		return of13.OFPFMFC_BAD_COMMAND
	default:
		if version == openflow.OF10_VERSION {
			return of10.OFPFMFC_EPERM
		}
		return of13.OFPFMFC_UNKNOWN
	}
}

// flowModErrMsgSend translates err into the wire error for the version and
// sends it on the offending flow_mod's connection.
func (r *StateManager) flowModErrMsgSend(err error, version uint8, cxnID CxnID, msg *openflow.FlowMod) {
	if err == nil {
		return
	}

	code := flowModFailedCode(version, err)
	if sendErr := r.cxn.SendError(version, cxnID, msg.TransactionID(),
		errTypeFlowModFailed(version), code, errorPayload(msg)); sendErr != nil {
		logger.Errorf("failed to send flow mod error message: %v", sendErr)
	}
}
