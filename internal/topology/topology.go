/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */

// Package topology models the zone -> network -> server description the DNS
// records are derived from.
package topology

import (
	"fmt"
	"strings"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

type Zone struct {
	Domain        string    `yaml:"domain" json:"domain"`
	PrivatePrefix string    `yaml:"private_prefix" json:"private_prefix"`
	Networks      []Network `yaml:"networks" json:"networks"`
}

type Network struct {
	Name    string   `yaml:"name" json:"name"`
	Root    string   `yaml:"root" json:"root"`
	Servers []Server `yaml:"servers" json:"servers"`
}

type Server struct {
	Name      string   `yaml:"name" json:"name"`
	PrivateIP string   `yaml:"private_ip" json:"private_ip"`
	Alias     []string `yaml:"alias,omitempty" json:"alias,omitempty"`
}

// Filter selects which half of the namespace Expand emits.
type Filter int

const (
	Both Filter = iota
	Public
	Private
)

func (f Filter) Public() bool  { return f == Public || f == Both }
func (f Filter) Private() bool { return f == Private || f == Both }

func (f Filter) String() string {
	switch f {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return "both"
	}
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return Both, nil
	case "public":
		return Public, nil
	case "private":
		return Private, nil
	default:
		return Both, fmt.Errorf("unknown record filter %q", s)
	}
}

// Expand flattens the zone into records. Public records for every network come
// first, then private ones, both in network order.
func Expand(zone *Zone, filter Filter) []record.Record {
	var records []record.Record
	if filter.Public() {
		for _, network := range zone.Networks {
			records = append(records, network.ExpandPublic(zone.Domain)...)
		}
	}
	if filter.Private() {
		for _, network := range zone.Networks {
			records = append(records, network.ExpandPrivate(zone.PrivatePrefix, zone.Domain)...)
		}
	}
	return records
}

// ExpandPublic emits the server records followed by <network>.<domain>
// pointing at the root server.
func (n Network) ExpandPublic(domain string) []record.Record {
	var records []record.Record
	for _, server := range n.Servers {
		records = append(records, server.ExpandPublic(n.Name, n.Root, domain)...)
	}
	return append(records, record.Alias(
		dnsname.Join(n.Name, domain),
		dnsname.Join(n.Root, n.Name, domain),
	))
}

// ExpandPrivate is ExpandPublic for the <network>.<prefix> namespace.
func (n Network) ExpandPrivate(prefix, domain string) []record.Record {
	suffix := dnsname.Join(n.Name, prefix)

	var records []record.Record
	for _, server := range n.Servers {
		records = append(records, server.ExpandPrivate(suffix, domain)...)
	}
	return append(records, record.Alias(
		dnsname.Join(suffix, domain),
		dnsname.Join(n.Root, suffix, domain),
	))
}

// ExpandPublic only ever emits aliases to the network root. The root itself
// gets no self alias since the network alias already points at it.
func (s Server) ExpandPublic(suffix, root, domain string) []record.Record {
	rootName := dnsname.Join(root, suffix, domain)

	var records []record.Record
	if s.Name != root {
		records = append(records, record.Alias(dnsname.Join(s.Name, suffix, domain), rootName))
	}
	for _, alias := range s.Alias {
		records = append(records, record.Alias(dnsname.Join(alias, suffix, domain), rootName))
	}
	return records
}

// ExpandPrivate emits the server's address record and aliases pointing at the
// server itself, not at the network root.
func (s Server) ExpandPrivate(suffix, domain string) []record.Record {
	name := dnsname.Join(s.Name, suffix, domain)

	records := []record.Record{record.Address(name, s.PrivateIP)}
	for _, alias := range s.Alias {
		records = append(records, record.Alias(dnsname.Join(alias, suffix, domain), name))
	}
	return records
}
