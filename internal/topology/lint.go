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
package topology

import (
	"fmt"
	"net/netip"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
)

// Issue is a configuration smell. None of them stop expansion: a network whose
// root is missing still gets its alias and a duplicate name is resolved by the
// last record winning.
type Issue struct {
	Network string
	Server  string
	Message string
}

func (i Issue) String() string {
	switch {
	case i.Server != "":
		return fmt.Sprintf("network %s, server %s: %s", i.Network, i.Server, i.Message)
	case i.Network != "":
		return fmt.Sprintf("network %s: %s", i.Network, i.Message)
	default:
		return i.Message
	}
}

func Lint(zone *Zone) []Issue {
	var issues []Issue

	for _, network := range zone.Networks {
		rootFound := false
		for _, server := range network.Servers {
			if server.Name == network.Root {
				rootFound = true
			}
			if _, err := netip.ParseAddr(server.PrivateIP); err != nil {
				issues = append(issues, Issue{
					Network: network.Name,
					Server:  server.Name,
					Message: fmt.Sprintf("private_ip %q is not an IP address", server.PrivateIP),
				})
			}
		}
		if !rootFound {
			issues = append(issues, Issue{
				Network: network.Name,
				Message: fmt.Sprintf("root %q does not match any server", network.Root),
			})
		}
	}

	seen := make(map[string]bool)
	for _, r := range Expand(zone, Both) {
		if !dnsname.Valid(r.Name()) {
			issues = append(issues, Issue{Message: fmt.Sprintf("%q is not a valid domain name", r.Name())})
		}
		if seen[r.Name()] {
			issues = append(issues, Issue{Message: fmt.Sprintf("%s is generated more than once, the last one wins", r.Name())})
		}
		seen[r.Name()] = true
	}

	return issues
}
