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
	"testing"
)

func TestXidAllocatorStartsAt1000(t *testing.T) {
	alloc := newXidAllocator()
	if got := alloc.allocate(); got != 1000 {
		t.Fatalf("unexpected first xid: expected=1000, got=%v", got)
	}
	if got := alloc.allocate(); got != 1001 {
		t.Fatalf("unexpected second xid: expected=1001, got=%v", got)
	}
}

func TestFlowIDAllocatorSkipsZeroOnWrap(t *testing.T) {
	alloc := newFlowIDAllocator()
	if got := alloc.allocate(); got != 1 {
		t.Fatalf("unexpected first flow id: expected=1, got=%v", got)
	}

	alloc.next = 0xffffffff
	if got := alloc.allocate(); got != 0xffffffff {
		t.Fatalf("unexpected flow id: expected=0xffffffff, got=%v", got)
	}
	if got := alloc.allocate(); got != 1 {
		t.Fatalf("wrap-around must skip zero: expected=1, got=%v", got)
	}
}
