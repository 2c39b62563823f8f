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

// Package record holds the two kinds of DNS entry the manager knows how to
// derive and reconcile: address records and alias records.
package record

import (
	"encoding/json"
	"fmt"
	"net/netip"
)

type Kind int

const (
	KindAddress Kind = iota + 1
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Wire record types.
const (
	TypeA     = "A"
	TypeAAAA  = "AAAA"
	TypeCNAME = "CNAME"
)

// Record is a DNS entry identified by its fully-qualified name. The zero value
// is not a valid record; use Address or Alias. Records compare with ==.
type Record struct {
	kind  Kind
	name  string
	value string
}

// Address returns a record mapping name to an IPv4 or IPv6 literal.
func Address(name, ip string) Record {
	return Record{kind: KindAddress, name: name, value: ip}
}

// Alias returns a record mapping name to another domain name.
func Alias(name, target string) Record {
	return Record{kind: KindAlias, name: name, value: target}
}

func (r Record) Kind() Kind     { return r.kind }
func (r Record) Name() string   { return r.name }
func (r Record) Value() string  { return r.value }
func (r Record) IsZero() bool   { return r == Record{} }
func (r Record) String() string { return fmt.Sprintf("%s %s %s", r.Type(), r.name, r.value) }

// Type is the RR type the record is published as. Address records holding an
// IPv6 literal are AAAA, everything else that is an address is A.
func (r Record) Type() string {
	switch r.kind {
	case KindAddress:
		if addr, err := netip.ParseAddr(r.value); err == nil && addr.Is6() && !addr.Is4In6() {
			return TypeAAAA
		}
		return TypeA
	case KindAlias:
		return TypeCNAME
	default:
		return ""
	}
}

// FromType converts a provider record into a Record. Only A, AAAA and CNAME are
// modelled; anything else reports ok == false and is meant to be skipped.
func FromType(recordType, name, content string) (r Record, ok bool) {
	switch recordType {
	case TypeA, TypeAAAA:
		return Address(name, content), true
	case TypeCNAME:
		return Alias(name, content), true
	default:
		return Record{}, false
	}
}

type jsonRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRecord{Type: r.Type(), Name: r.name, Value: r.value})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var jr jsonRecord
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}
	parsed, ok := FromType(jr.Type, jr.Name, jr.Value)
	if !ok {
		return fmt.Errorf("unsupported record type %q", jr.Type)
	}
	*r = parsed
	return nil
}
