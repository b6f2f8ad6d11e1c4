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

// FlowEntry is one installed flow. The table owns its entries; an entry's
// lifetime ends only through FlowTable.Delete.
type FlowEntry struct {
	ID          FlowID
	TableID     uint8
	Priority    uint16
	Match       *openflow.Match
	Cookie      uint64
	IdleTimeout uint16
	HardTimeout uint16
	Flags       uint16
	Effects     *openflow.Effects
	// InsertTime is set once the forwarding layer accepts the flow and is
	// never mutated afterwards.
	InsertTime time.Time
}

// FlowTableStatus carries the table's bookkeeping counters.
type FlowTableStatus struct {
	CurrentCount        int
	Adds                int
	Deletes             int
	ForwardingAddErrors int
}

// FlowTable is the owning store of flow entries: an id index plus insertion
// order for scanning. All access happens on the cooperative runner's
// goroutine, so no locking is involved.
type FlowTable struct {
	entries map[FlowID]*FlowEntry
	order   []FlowID
	status  FlowTableStatus
	sched   Scheduler
}

func NewFlowTable(sched Scheduler) *FlowTable {
	if sched == nil {
		panic("Scheduler is nil")
	}

	return &FlowTable{
		entries: make(map[FlowID]*FlowEntry),
		sched:   sched,
	}
}

// Add allocates an entry populated from msg and links it into the table.
func (r *FlowTable) Add(id FlowID, msg *openflow.FlowMod) (*FlowEntry, error) {
	if id == 0 {
		return nil, ErrParam
	}
	if _, ok := r.entries[id]; ok {
		return nil, ErrParam
	}

	entry := &FlowEntry{
		ID:          id,
		TableID:     msg.TableID,
		Priority:    msg.Priority,
		Match:       msg.Match.Clone(),
		Cookie:      msg.Cookie,
		IdleTimeout: msg.IdleTimeout,
		HardTimeout: msg.HardTimeout,
		Flags:       msg.Flags,
		Effects:     msg.Effects(),
	}
	r.entries[id] = entry
	r.order = append(r.order, id)
	r.status.CurrentCount++
	r.status.Adds++

	return entry, nil
}

// StrictMatch returns the first entry strictly matching the query.
func (r *FlowTable) StrictMatch(query *Query) (*FlowEntry, error) {
	for _, id := range r.order {
		entry := r.entries[id]
		if query.Matches(entry) {
			return entry, nil
		}
	}
	return nil, ErrNotFound
}

// Delete unlinks the entry. The caller handles forwarding teardown and
// controller notification.
func (r *FlowTable) Delete(entry *FlowEntry) error {
	if entry == nil {
		return ErrParam
	}
	linked, ok := r.entries[entry.ID]
	if !ok || linked != entry {
		return ErrNotFound
	}

	delete(r.entries, entry.ID)
	for i, id := range r.order {
		if id == entry.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.status.CurrentCount--
	r.status.Deletes++

	return nil
}

// ModifyEffects replaces the entry's effects from msg without touching its
// identity, timers or counters. The whole effects value is swapped at once,
// so an in-flight iterator sees either the old or the new effects.
func (r *FlowTable) ModifyEffects(entry *FlowEntry, msg *openflow.FlowMod) {
	entry.Effects = msg.Effects()
}

// Iterate scans entries in insertion order without yielding. body returns
// false to stop early. Used by scanners that must finish within one slice,
// such as overlap detection.
func (r *FlowTable) Iterate(body func(entry *FlowEntry) bool) {
	for _, id := range r.order {
		if !body(r.entries[id]) {
			return
		}
	}
}

// SpawnIterTask registers a cooperative task scanning entries that match
// query. The callback observes a snapshot: entries deleted before delivery
// are skipped, entries added after the spawn are not delivered.
func (r *FlowTable) SpawnIterTask(query *Query, cb IterCallback, priority int) error {
	if query == nil || cb == nil {
		panic("nil iteration query or callback")
	}

	task := &iterTask{
		ft:    r,
		query: query,
		cb:    cb,
		ids:   append([]FlowID(nil), r.order...),
	}
	if err := r.sched.RegisterTask(task, priority); err != nil {
		return ErrResource
	}

	return nil
}

func (r *FlowTable) Status() FlowTableStatus {
	return r.status
}

func (r *FlowTable) addError() {
	r.status.ForwardingAddErrors++
}

var _ soc.Task = &iterTask{}
