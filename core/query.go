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

// MatchMode selects the query semantics over the flow table.
type MatchMode int

const (
	// MatchStrict requires equal match fields, masks, priority and
	// cookie-masked cookie.
	MatchStrict MatchMode = iota
	// MatchNonStrict requires the entry to be at least as specific as the
	// query; priority is ignored.
	MatchNonStrict
	// MatchOverlap requires a non-empty intersection of match bitspaces at
	// equal priority; cookies are ignored.
	MatchOverlap
)

// TableIDAny matches entries in any table.
const TableIDAny uint8 = 0xff

// Query is a normalized predicate over flow entries.
type Query struct {
	TableID       uint8
	Match         *openflow.Match
	Mode          MatchMode
	CheckPriority bool
	Priority      uint16
	OutPort       uint32
	Cookie        uint64
	CookieMask    uint64
}

// buildQuery normalizes a flow_mod into a Query. Works for add, modify and
// delete messages alike.
func buildQuery(msg *openflow.FlowMod, mode MatchMode, forceWildcardPort bool) (*Query, error) {
	if msg.Match == nil {
		return nil, ErrParam
	}

	q := &Query{Mode: mode}
	if msg.Version() > openflow.OF10_VERSION {
		q.TableID = msg.TableID
	} else {
		q.TableID = TableIDAny
	}
	q.Match = msg.Match.Clone()
	if mode == MatchStrict || mode == MatchOverlap {
		q.CheckPriority = true
		q.Priority = msg.Priority
	}
	if forceWildcardPort {
		q.OutPort = openflow.PortAny
	} else if openflow.PortIsWildcard(msg.Version(), msg.OutPort) {
		q.OutPort = openflow.PortAny
	} else {
		q.OutPort = msg.OutPort
	}
	if mode != MatchOverlap && msg.Version() >= openflow.OF11_VERSION {
		q.Cookie = msg.Cookie
		q.CookieMask = msg.CookieMask
	}

	return q, nil
}

// Matches reports whether entry satisfies the query under its mode.
func (r *Query) Matches(entry *FlowEntry) bool {
	if r.TableID != TableIDAny && entry.TableID != r.TableID {
		return false
	}

	switch r.Mode {
	case MatchStrict:
		if r.CheckPriority && entry.Priority != r.Priority {
			return false
		}
		if !r.Match.Equal(entry.Match) {
			return false
		}
		return r.cookieMatches(entry) && r.outPortMatches(entry)

	case MatchNonStrict:
		if !r.Match.Covers(entry.Match) {
			return false
		}
		return r.cookieMatches(entry) && r.outPortMatches(entry)

	case MatchOverlap:
		if r.CheckPriority && entry.Priority != r.Priority {
			return false
		}
		return r.Match.Overlaps(entry.Match)
	}

	return false
}

// cookieMatches applies the cookie-mask test. Entries installed under 1.0
// carry no cookie semantics and always pass.
func (r *Query) cookieMatches(entry *FlowEntry) bool {
	if entry.Effects.Version < openflow.OF11_VERSION {
		return true
	}
	return (entry.Cookie^r.Cookie)&r.CookieMask == 0
}

// outPortMatches applies the out_port filter: wildcard, or some output of
// the entry's effects forwards to the port.
func (r *Query) outPortMatches(entry *FlowEntry) bool {
	if r.OutPort == openflow.PortAny {
		return true
	}
	return entry.Effects.OutputsTo(r.OutPort)
}
