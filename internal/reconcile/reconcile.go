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

// Package reconcile compares observed records against desired ones.
package reconcile

import (
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

// Change pairs the record we want with the one currently published under the
// same name. The two may differ in kind as well as in value.
type Change struct {
	Desired  record.Record `json:"desired"`
	Observed record.Record `json:"observed"`
}

type Diff struct {
	// Superfluous records are published but not desired. They are reported
	// only, nothing in this module ever deletes them.
	Superfluous []record.Record `json:"superfluous"`
	Missing     []record.Record `json:"missing"`
	Changed     []Change        `json:"changed"`
}

// Converged reports whether applying the diff would be a no-op.
func (d Diff) Converged() bool {
	return len(d.Missing) == 0 && len(d.Changed) == 0
}

// byName indexes records by name. A later record with the same name replaces
// an earlier one, but the name keeps the position of its first appearance so
// output order follows the input.
type byName struct {
	order   []string
	records map[string]record.Record
}

func index(records []record.Record) byName {
	idx := byName{records: make(map[string]record.Record, len(records))}
	for _, r := range records {
		if _, ok := idx.records[r.Name()]; !ok {
			idx.order = append(idx.order, r.Name())
		}
		idx.records[r.Name()] = r
	}
	return idx
}

// Compute classifies every name in observed and desired as superfluous,
// missing, changed or unchanged. Unchanged names are not reported.
func Compute(observed, desired []record.Record) Diff {
	a := index(observed)
	b := index(desired)

	var diff Diff
	for _, name := range a.order {
		current := a.records[name]
		wanted, ok := b.records[name]
		switch {
		case !ok:
			diff.Superfluous = append(diff.Superfluous, current)
		case wanted != current:
			diff.Changed = append(diff.Changed, Change{Desired: wanted, Observed: current})
		}
	}
	for _, name := range b.order {
		if _, ok := a.records[name]; !ok {
			diff.Missing = append(diff.Missing, b.records[name])
		}
	}
	return diff
}
