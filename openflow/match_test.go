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
	"net"
	"testing"
)

func TestMatchEqual(t *testing.T) {
	a := NewMatch()
	a.SetInPort(1)
	a.SetEtherType(0x0800)

	b := NewMatch()
	b.SetInPort(1)
	b.SetEtherType(0x0800)

	if !a.Equal(b) {
		t.Fatal("identical matches must be equal")
	}

	b.SetInPort(2)
	if a.Equal(b) {
		t.Fatal("different in_port values must not be equal")
	}

	c := NewMatch()
	c.SetEtherType(0x0800)
	if a.Equal(c) {
		t.Fatal("different wildcard sets must not be equal")
	}
}

func TestMatchCovers(t *testing.T) {
	src := []struct {
		build    func() (query, entry *Match)
		expected bool
	}{
		{
			// Fully wildcarded query covers anything.
			build: func() (*Match, *Match) {
				e := NewMatch()
				e.SetInPort(1)
				e.SetEtherType(0x0800)
				return NewMatch(), e
			},
			expected: true,
		},
		{
			// Query narrower than the entry does not cover it.
			build: func() (*Match, *Match) {
				q := NewMatch()
				q.SetInPort(1)
				return q, NewMatch()
			},
			expected: false,
		},
		{
			// Same field, same value.
			build: func() (*Match, *Match) {
				q := NewMatch()
				q.SetEtherType(0x0800)
				e := NewMatch()
				e.SetEtherType(0x0800)
				e.SetIPProtocol(6)
				return q, e
			},
			expected: true,
		},
		{
			// Same field, different value.
			build: func() (*Match, *Match) {
				q := NewMatch()
				q.SetEtherType(0x0800)
				e := NewMatch()
				e.SetEtherType(0x86dd)
				return q, e
			},
			expected: false,
		},
		{
			// Query prefix wider than the entry's prefix.
			build: func() (*Match, *Match) {
				q := NewMatch()
				q.SetSrcIP(&net.IPNet{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)})
				e := NewMatch()
				e.SetSrcIP(&net.IPNet{IP: net.IPv4(10, 1, 2, 0), Mask: net.CIDRMask(24, 32)})
				return q, e
			},
			expected: true,
		},
		{
			// Entry prefix wider than the query's prefix.
			build: func() (*Match, *Match) {
				q := NewMatch()
				q.SetSrcIP(&net.IPNet{IP: net.IPv4(10, 1, 2, 0), Mask: net.CIDRMask(24, 32)})
				e := NewMatch()
				e.SetSrcIP(&net.IPNet{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)})
				return q, e
			},
			expected: false,
		},
	}

	for i, v := range src {
		q, e := v.build()
		if got := q.Covers(e); got != v.expected {
			t.Fatalf("unexpected Covers result for case %v: expected=%v, got=%v", i, v.expected, got)
		}
	}
}

func TestMatchOverlaps(t *testing.T) {
	src := []struct {
		build    func() (a, b *Match)
		expected bool
	}{
		{
			// A wildcard overlaps everything.
			build: func() (*Match, *Match) {
				b := NewMatch()
				b.SetInPort(1)
				return NewMatch(), b
			},
			expected: true,
		},
		{
			// Disjoint fixed values do not overlap.
			build: func() (*Match, *Match) {
				a := NewMatch()
				a.SetInPort(1)
				b := NewMatch()
				b.SetInPort(2)
				return a, b
			},
			expected: false,
		},
		{
			// Distinct fields intersect.
			build: func() (*Match, *Match) {
				a := NewMatch()
				a.SetInPort(1)
				b := NewMatch()
				b.SetEtherType(0x0800)
				return a, b
			},
			expected: true,
		},
		{
			// Overlapping prefixes intersect.
			build: func() (*Match, *Match) {
				a := NewMatch()
				a.SetDstIP(&net.IPNet{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)})
				b := NewMatch()
				b.SetDstIP(&net.IPNet{IP: net.IPv4(10, 1, 0, 0), Mask: net.CIDRMask(16, 32)})
				return a, b
			},
			expected: true,
		},
		{
			// Disjoint prefixes do not intersect.
			build: func() (*Match, *Match) {
				a := NewMatch()
				a.SetDstIP(&net.IPNet{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(16, 32)})
				b := NewMatch()
				b.SetDstIP(&net.IPNet{IP: net.IPv4(10, 1, 0, 0), Mask: net.CIDRMask(16, 32)})
				return a, b
			},
			expected: false,
		},
	}

	for i, v := range src {
		a, b := v.build()
		if got := a.Overlaps(b); got != v.expected {
			t.Fatalf("unexpected Overlaps result for case %v: expected=%v, got=%v", i, v.expected, got)
		}
		if got := b.Overlaps(a); got != v.expected {
			t.Fatalf("Overlaps must be symmetric for case %v", i)
		}
	}
}

func TestMatchAccessors(t *testing.T) {
	m := NewMatch()

	if wildcard, _ := m.InPort(); !wildcard {
		t.Fatal("unset in_port must be a wildcard")
	}
	m.SetInPort(5)
	wildcard, port := m.InPort()
	if wildcard || port != 5 {
		t.Fatalf("unexpected in_port: wildcard=%v, port=%v", wildcard, port)
	}

	mac, _ := net.ParseMAC("00:11:22:33:44:55")
	m.SetSrcMAC(mac)
	wildcard, got := m.SrcMAC()
	if wildcard || got.String() != mac.String() {
		t.Fatalf("unexpected src mac: wildcard=%v, mac=%v", wildcard, got)
	}

	m.SetSrcIP(&net.IPNet{IP: net.IPv4(192, 168, 0, 0), Mask: net.CIDRMask(16, 32)})
	ip := m.SrcIP()
	if ip.String() != "192.168.0.0/16" {
		t.Fatalf("unexpected src ip: %v", ip)
	}
}

func TestMessageReleaseOnce(t *testing.T) {
	msg := NewHello(OF10_VERSION, 1)
	if msg.Released() {
		t.Fatal("fresh message must not be released")
	}
	msg.Release()
	if !msg.Released() {
		t.Fatal("message must report released")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("double release must panic")
		}
	}()
	msg.Release()
}
