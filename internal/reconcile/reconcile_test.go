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
package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

func TestComputeScenario(t *testing.T) {
	observed := []record.Record{record.Address("x.ex.com", "1.1.1.1")}
	desired := []record.Record{
		record.Address("x.ex.com", "2.2.2.2"),
		record.Alias("y.ex.com", "x.ex.com"),
	}

	diff := Compute(observed, desired)

	assert.Empty(t, diff.Superfluous)
	assert.Equal(t, []record.Record{record.Alias("y.ex.com", "x.ex.com")}, diff.Missing)
	assert.Equal(t, []Change{{
		Desired:  record.Address("x.ex.com", "2.2.2.2"),
		Observed: record.Address("x.ex.com", "1.1.1.1"),
	}}, diff.Changed)
	assert.False(t, diff.Converged())
}

func TestComputeSuperfluous(t *testing.T) {
	observed := []record.Record{
		record.Address("old.ex.com", "10.0.0.9"),
		record.Alias("keep.ex.com", "x.ex.com"),
	}
	desired := []record.Record{record.Alias("keep.ex.com", "x.ex.com")}

	diff := Compute(observed, desired)

	assert.Equal(t, []record.Record{record.Address("old.ex.com", "10.0.0.9")}, diff.Superfluous)
	assert.Empty(t, diff.Missing)
	assert.Empty(t, diff.Changed)
	assert.True(t, diff.Converged())
}

func TestComputeKindChangeIsChanged(t *testing.T) {
	observed := []record.Record{record.Address("x.ex.com", "10.0.0.1")}
	desired := []record.Record{record.Alias("x.ex.com", "y.ex.com")}

	diff := Compute(observed, desired)

	assert.Empty(t, diff.Superfluous)
	assert.Empty(t, diff.Missing)
	assert.Equal(t, []Change{{Desired: desired[0], Observed: observed[0]}}, diff.Changed)
}

func TestComputeLastDuplicateWins(t *testing.T) {
	observed := []record.Record{
		record.Address("x.ex.com", "1.1.1.1"),
		record.Address("x.ex.com", "2.2.2.2"),
	}
	desired := []record.Record{
		record.Address("x.ex.com", "3.3.3.3"),
		record.Address("x.ex.com", "2.2.2.2"),
	}

	assert.True(t, Compute(observed, desired).Converged())
	assert.Empty(t, Compute(observed, desired).Changed)

	desired = append(desired, record.Alias("x.ex.com", "z.ex.com"))
	diff := Compute(observed, desired)
	assert.Equal(t, []Change{{
		Desired:  record.Alias("x.ex.com", "z.ex.com"),
		Observed: record.Address("x.ex.com", "2.2.2.2"),
	}}, diff.Changed)
}

func TestComputeOrderFollowsInput(t *testing.T) {
	desired := []record.Record{
		record.Alias("c.ex.com", "a.ex.com"),
		record.Alias("a.ex.com", "b.ex.com"),
		record.Alias("b.ex.com", "c.ex.com"),
	}

	diff := Compute(nil, desired)
	assert.Equal(t, desired, diff.Missing)
}

func TestComputeIdempotent(t *testing.T) {
	set := randomRecords(rand.New(rand.NewSource(1)), 200)

	diff := Compute(set, set)

	assert.Empty(t, diff.Superfluous)
	assert.Empty(t, diff.Missing)
	assert.Empty(t, diff.Changed)
}

func TestComputePartitionIsComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		observed := randomRecords(rng, 40)
		desired := randomRecords(rng, 40)

		diff := Compute(observed, desired)

		seen := make(map[string]string)
		mark := func(name, class string) {
			if prev, ok := seen[name]; ok {
				t.Fatalf("%s classified as both %s and %s", name, prev, class)
			}
			seen[name] = class
		}
		for _, r := range diff.Superfluous {
			mark(r.Name(), "superfluous")
		}
		for _, r := range diff.Missing {
			mark(r.Name(), "missing")
		}
		for _, c := range diff.Changed {
			assert.Equal(t, c.Desired.Name(), c.Observed.Name())
			mark(c.Desired.Name(), "changed")
		}

		a := lastByName(observed)
		b := lastByName(desired)
		for name, r := range a {
			if other, ok := b[name]; ok && other == r {
				mark(name, "unchanged")
			}
		}

		for name := range a {
			assert.Contains(t, seen, name)
		}
		for name := range b {
			assert.Contains(t, seen, name)
		}
	}
}

func TestApplyingDiffConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	observed := randomRecords(rng, 60)
	desired := randomRecords(rng, 60)

	diff := Compute(observed, desired)

	state := lastByName(observed)
	for _, c := range diff.Changed {
		state[c.Desired.Name()] = c.Desired
	}
	for _, r := range diff.Missing {
		state[r.Name()] = r
	}
	var updated []record.Record
	for _, r := range state {
		updated = append(updated, r)
	}

	after := Compute(updated, desired)
	assert.Empty(t, after.Missing)
	assert.Empty(t, after.Changed)
	assert.ElementsMatch(t, diff.Superfluous, after.Superfluous)
}

func randomRecords(rng *rand.Rand, n int) []record.Record {
	records := make([]record.Record, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("h%d.ex.com", rng.Intn(n))
		if rng.Intn(2) == 0 {
			records = append(records, record.Address(name, fmt.Sprintf("10.0.0.%d", rng.Intn(3))))
		} else {
			records = append(records, record.Alias(name, fmt.Sprintf("h%d.ex.com", rng.Intn(3))))
		}
	}
	return records
}

func lastByName(records []record.Record) map[string]record.Record {
	m := make(map[string]record.Record, len(records))
	for _, r := range records {
		m[r.Name()] = r
	}
	return m
}
