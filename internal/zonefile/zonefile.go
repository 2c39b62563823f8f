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

// Package zonefile renders records in RFC 1035 master file format.
package zonefile

import (
	"fmt"
	"io"
	"net"

	"github.com/miekg/dns"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

const DefaultTTL = 3600

// RR converts a record into its miekg/dns form.
func RR(r record.Record, ttl uint32) (dns.RR, error) {
	header := func(rrtype uint16) dns.RR_Header {
		return dns.RR_Header{
			Name:   dnsname.Canonical(r.Name()),
			Rrtype: rrtype,
			Class:  dns.ClassINET,
			Ttl:    ttl,
		}
	}

	switch r.Type() {
	case record.TypeA:
		ip := net.ParseIP(r.Value()).To4()
		if ip == nil {
			return nil, fmt.Errorf("record %s: %q is not an IPv4 address", r.Name(), r.Value())
		}
		return &dns.A{Hdr: header(dns.TypeA), A: ip}, nil
	case record.TypeAAAA:
		ip := net.ParseIP(r.Value())
		if ip == nil {
			return nil, fmt.Errorf("record %s: %q is not an IPv6 address", r.Name(), r.Value())
		}
		return &dns.AAAA{Hdr: header(dns.TypeAAAA), AAAA: ip}, nil
	case record.TypeCNAME:
		return &dns.CNAME{Hdr: header(dns.TypeCNAME), Target: dnsname.Canonical(r.Value())}, nil
	default:
		return nil, fmt.Errorf("record %s: unsupported kind %s", r.Name(), r.Kind())
	}
}

// Render writes an $ORIGIN and $TTL header followed by one line per record.
// Nothing is written past the first record that cannot be converted.
func Render(w io.Writer, domain string, records []record.Record, ttl uint32) error {
	if _, err := fmt.Fprintf(w, "$ORIGIN %s\n$TTL %d\n", dnsname.Canonical(domain), ttl); err != nil {
		return err
	}
	for _, r := range records {
		rr, err := RR(r, ttl)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, rr.String()); err != nil {
			return err
		}
	}
	return nil
}
