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
package dnsname

import (
	"strings"

	"github.com/miekg/dns"
)

// Canonical returns the name with a trailing dot, the form PowerDNS and zone
// files expect.
func Canonical(name string) string {
	return dns.Fqdn(name)
}

// Trim removes a single trailing dot.
func Trim(name string) string {
	return strings.TrimSuffix(name, ".")
}

// Join glues labels together with dots. No escaping or normalization is done,
// the labels are expected to come from configuration as-is.
func Join(labels ...string) string {
	return strings.Join(labels, ".")
}

// Valid reports whether name is syntactically a domain name.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	_, ok := dns.IsDomainName(name)
	return ok
}

// Equal compares two names ignoring case and a trailing dot.
func Equal(a, b string) bool {
	return strings.EqualFold(Trim(a), Trim(b))
}
