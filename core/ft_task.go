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

// IterCallback receives matched entries from an iteration task. Done is
// called exactly once after the last entry (or on cancellation) and is the
// only safe place to release the originating request and free state.
type IterCallback interface {
	Entry(entry *FlowEntry)
	Done()
}

// iterTask cooperatively scans a snapshot of flow ids taken at spawn time.
// The query is re-evaluated when an entry is delivered, so entries modified
// after the spawn are matched against their current state and entries
// deleted after the spawn are skipped.
type iterTask struct {
	ft    *FlowTable
	query *Query
	cb    IterCallback
	ids   []FlowID
	pos   int
	done  bool
}

func (r *iterTask) Run() bool {
	for r.pos < len(r.ids) {
		id := r.ids[r.pos]
		r.pos++

		entry, ok := r.ft.entries[id]
		if !ok {
			continue
		}
		if !r.query.Matches(entry) {
			continue
		}
		r.cb.Entry(entry)

		if r.ft.sched.ShouldYield() {
			return false
		}
	}

	r.done = true
	r.cb.Done()
	return true
}

// Cancel runs the task to terminal with an empty remainder so the callback
// can still free its state.
func (r *iterTask) Cancel() {
	if r.done {
		return
	}
	r.done = true
	r.pos = len(r.ids)
	r.cb.Done()
}
