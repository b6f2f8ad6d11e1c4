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
	"fmt"
	"time"

	"github.com/hazelsdn/hazel/core"

	lru "github.com/hashicorp/golang-lru"
)

// errorCache suppresses repeats of one wire error within a short window. A
// non-strict modify task can fail dozens of entries of the same request and
// would otherwise flood the controller with identical error replies.
type errorCache struct {
	cache      *lru.Cache
	expiration time.Duration
}

func newErrorCache(expiration time.Duration) *errorCache {
	c, err := lru.New(8192)
	if err != nil {
		panic(fmt.Sprintf("failed to init a LRU error cache: %v", err))
	}

	return &errorCache{
		cache:      c,
		expiration: expiration,
	}
}

func (r *errorCache) key(cxnID core.CxnID, xid uint32, errType, code uint16) string {
	return fmt.Sprintf("%v/%v/%v/%v", cxnID, xid, errType, code)
}

// Suppressed records the error and reports whether an identical one was
// already sent within the expiration window.
func (r *errorCache) Suppressed(cxnID core.CxnID, xid uint32, errType, code uint16) bool {
	key := r.key(cxnID, xid, errType, code)

	now := time.Now()
	if v, ok := r.cache.Get(key); ok {
		timestamp := v.(time.Time)
		if now.Sub(timestamp) <= r.expiration {
			return true
		}
	}
	r.cache.Add(key, now)

	return false
}

// RemoveConnection drops every cached error of a closed connection.
func (r *errorCache) RemoveConnection(cxnID core.CxnID) {
	prefix := fmt.Sprintf("%v/", cxnID)
	for _, k := range r.cache.Keys() {
		key := k.(string)
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			r.cache.Remove(key)
		}
	}
}
