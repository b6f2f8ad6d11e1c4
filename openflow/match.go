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
	"encoding/binary"
	"net"
)

type matchField int

const (
	fieldInPort matchField = iota
	fieldSrcMAC
	fieldDstMAC
	fieldEtherType
	fieldVLANID
	fieldVLANPriority
	fieldIPProtocol
	fieldIPTOS
	fieldSrcIP
	fieldDstIP
	fieldSrcPort
	fieldDstPort
	numMatchFields
)

// Match is a normalized flow match: a fixed set of fields, each carried as a
// value with a bit mask. A zero mask means the field is wildcarded. The wire
// codec maps the per-version encodings (1.0 wildcard bits, OXM TLVs) onto
// this form.
type Match struct {
	value [numMatchFields]uint64
	mask  [numMatchFields]uint64
}

func NewMatch() *Match {
	return &Match{}
}

func (r *Match) set(f matchField, value, mask uint64) {
	r.value[f] = value & mask
	r.mask[f] = mask
}

func (r *Match) get(f matchField) (wildcard bool, value uint64) {
	return r.mask[f] == 0, r.value[f]
}

func (r *Match) SetInPort(port uint32) {
	r.set(fieldInPort, uint64(port), 0xffffffff)
}

func (r *Match) InPort() (wildcard bool, port uint32) {
	w, v := r.get(fieldInPort)
	return w, uint32(v)
}

func (r *Match) SetSrcMAC(mac net.HardwareAddr) {
	r.set(fieldSrcMAC, macToUint64(mac), 0xffffffffffff)
}

func (r *Match) SrcMAC() (wildcard bool, mac net.HardwareAddr) {
	w, v := r.get(fieldSrcMAC)
	return w, uint64ToMAC(v)
}

func (r *Match) SetDstMAC(mac net.HardwareAddr) {
	r.set(fieldDstMAC, macToUint64(mac), 0xffffffffffff)
}

func (r *Match) DstMAC() (wildcard bool, mac net.HardwareAddr) {
	w, v := r.get(fieldDstMAC)
	return w, uint64ToMAC(v)
}

func (r *Match) SetEtherType(t uint16) {
	r.set(fieldEtherType, uint64(t), 0xffff)
}

func (r *Match) EtherType() (wildcard bool, etherType uint16) {
	w, v := r.get(fieldEtherType)
	return w, uint16(v)
}

func (r *Match) SetVLANID(id uint16) {
	r.set(fieldVLANID, uint64(id), 0xfff)
}

func (r *Match) VLANID() (wildcard bool, vlanID uint16) {
	w, v := r.get(fieldVLANID)
	return w, uint16(v)
}

func (r *Match) SetVLANPriority(p uint8) {
	r.set(fieldVLANPriority, uint64(p), 0x7)
}

func (r *Match) VLANPriority() (wildcard bool, priority uint8) {
	w, v := r.get(fieldVLANPriority)
	return w, uint8(v)
}

func (r *Match) SetIPProtocol(p uint8) {
	r.set(fieldIPProtocol, uint64(p), 0xff)
}

func (r *Match) IPProtocol() (wildcard bool, protocol uint8) {
	w, v := r.get(fieldIPProtocol)
	return w, uint8(v)
}

func (r *Match) SetIPTOS(tos uint8) {
	r.set(fieldIPTOS, uint64(tos), 0x3f)
}

func (r *Match) IPTOS() (wildcard bool, tos uint8) {
	w, v := r.get(fieldIPTOS)
	return w, uint8(v)
}

func (r *Match) SetSrcIP(ip *net.IPNet) {
	r.set(fieldSrcIP, ipToUint64(ip.IP), ipMaskToUint64(ip.Mask))
}

func (r *Match) SrcIP() *net.IPNet {
	return r.ipNet(fieldSrcIP)
}

func (r *Match) SetDstIP(ip *net.IPNet) {
	r.set(fieldDstIP, ipToUint64(ip.IP), ipMaskToUint64(ip.Mask))
}

func (r *Match) DstIP() *net.IPNet {
	return r.ipNet(fieldDstIP)
}

func (r *Match) SetSrcPort(p uint16) {
	r.set(fieldSrcPort, uint64(p), 0xffff)
}

func (r *Match) SrcPort() (wildcard bool, port uint16) {
	w, v := r.get(fieldSrcPort)
	return w, uint16(v)
}

func (r *Match) SetDstPort(p uint16) {
	r.set(fieldDstPort, uint64(p), 0xffff)
}

func (r *Match) DstPort() (wildcard bool, port uint16) {
	w, v := r.get(fieldDstPort)
	return w, uint16(v)
}

func (r *Match) ipNet(f matchField) *net.IPNet {
	v := make(net.IP, 4)
	m := make(net.IPMask, 4)
	binary.BigEndian.PutUint32(v, uint32(r.value[f]))
	binary.BigEndian.PutUint32(m, uint32(r.mask[f]))
	return &net.IPNet{IP: v, Mask: m}
}

func (r *Match) Clone() *Match {
	v := *r
	return &v
}

// Equal reports whether both matches carry the same masks and agree on every
// masked bit. This is the field comparison behind strict matching.
func (r *Match) Equal(other *Match) bool {
	for f := matchField(0); f < numMatchFields; f++ {
		if r.mask[f] != other.mask[f] {
			return false
		}
		if r.value[f]&r.mask[f] != other.value[f]&other.mask[f] {
			return false
		}
	}
	return true
}

// Covers reports whether other is at least as specific as r: every bit r
// cares about is fixed to the same value in other. This is the entry test
// behind non-strict matching, with r as the query.
func (r *Match) Covers(other *Match) bool {
	for f := matchField(0); f < numMatchFields; f++ {
		if r.mask[f]&other.mask[f] != r.mask[f] {
			return false
		}
		if (r.value[f]^other.value[f])&r.mask[f] != 0 {
			return false
		}
	}
	return true
}

// Overlaps reports whether some packet could match both r and other: the
// matches agree on every bit both of them care about.
func (r *Match) Overlaps(other *Match) bool {
	for f := matchField(0); f < numMatchFields; f++ {
		if (r.value[f]^other.value[f])&(r.mask[f]&other.mask[f]) != 0 {
			return false
		}
	}
	return true
}

func macToUint64(mac net.HardwareAddr) uint64 {
	if len(mac) != 6 {
		return 0
	}
	v := make([]byte, 8)
	copy(v[2:], mac)
	return binary.BigEndian.Uint64(v)
}

func uint64ToMAC(v uint64) net.HardwareAddr {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return net.HardwareAddr(b[2:])
}

func ipToUint64(ip net.IP) uint64 {
	v := ip.To4()
	if v == nil {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(v))
}

func ipMaskToUint64(mask net.IPMask) uint64 {
	if len(mask) != 4 {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(mask))
}
