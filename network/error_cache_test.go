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

package network

import (
	"testing"
	"time"
)

func TestErrorCacheSuppressesRepeats(t *testing.T) {
	cache := newErrorCache(time.Minute)

	if cache.Suppressed(1, 100, 3, 1) {
		t.Fatal("first error must not be suppressed")
	}
	if !cache.Suppressed(1, 100, 3, 1) {
		t.Fatal("repeated error must be suppressed")
	}

	// A different tuple passes through.
	if cache.Suppressed(1, 100, 3, 2) {
		t.Fatal("different code must not be suppressed")
	}
	if cache.Suppressed(2, 100, 3, 1) {
		t.Fatal("different connection must not be suppressed")
	}
}

func TestErrorCacheExpires(t *testing.T) {
	cache := newErrorCache(time.Millisecond)

	if cache.Suppressed(1, 100, 3, 1) {
		t.Fatal("first error must not be suppressed")
	}
	time.Sleep(5 * time.Millisecond)
	if cache.Suppressed(1, 100, 3, 1) {
		t.Fatal("expired error must not be suppressed")
	}
}

func TestErrorCacheRemoveConnection(t *testing.T) {
	cache := newErrorCache(time.Minute)

	cache.Suppressed(1, 100, 3, 1)
	cache.Suppressed(2, 100, 3, 1)
	cache.RemoveConnection(1)

	if cache.Suppressed(1, 100, 3, 1) {
		t.Fatal("removed connection must start fresh")
	}
	if !cache.Suppressed(2, 100, 3, 1) {
		t.Fatal("other connections must keep their entries")
	}
}
