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

// Package syncer runs one reconcile pass of a topology against a provider.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/reconcile"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/topology"
)

var (
	ErrZoneNotFound     = errors.New("zone not found")
	ErrRecordIDNotFound = errors.New("record id not found")
)

type Options struct {
	// DryRun computes and logs the plan but never creates or updates.
	DryRun bool
}

// Result describes a finished pass. On error it holds whatever was done
// before the failing operation.
type Result struct {
	ZoneID  string         `json:"zone_id"`
	Diff    reconcile.Diff `json:"diff"`
	Updated int            `json:"updated"`
	Created int            `json:"created"`
	DryRun  bool           `json:"dry_run"`

	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

type Driver struct {
	provider provider.Provider
	logger   *zap.Logger
	opts     Options
}

func New(p provider.Provider, logger *zap.Logger, opts Options) *Driver {
	return &Driver{provider: p, logger: logger, opts: opts}
}

// Run converges the provider's copy of zone.Domain onto the expanded topology.
// Changed records are updated first, then missing ones are created. The first
// failing provider call ends the pass. Superfluous records are only logged.
func (d *Driver) Run(ctx context.Context, zone *topology.Zone) (*Result, error) {
	result := &Result{DryRun: d.opts.DryRun, Started: time.Now()}
	defer func() { result.Finished = time.Now() }()

	logger := d.logger.With(zap.String("zone", zone.Domain))
	logger.Info("Processing records...")

	zoneID, err := d.findZone(ctx, zone.Domain)
	if err != nil {
		return result, err
	}
	result.ZoneID = zoneID

	remote, err := d.provider.ListRecords(ctx, zoneID)
	if err != nil {
		return result, fmt.Errorf("failed to list records: %w", err)
	}

	ids := make(map[string]string, len(remote))
	observed := make([]record.Record, 0, len(remote))
	for _, rr := range remote {
		r, ok := record.FromType(rr.Type, rr.Name, rr.Content)
		if !ok {
			logger.Debug("Ignoring unsupported record type.",
				zap.String("name", rr.Name), zap.String("type", rr.Type))
			continue
		}
		// Only modelled records are indexed so an update never lands on, say,
		// a TXT record sharing the name.
		ids[rr.Name] = rr.ID
		observed = append(observed, r)
	}

	desired := topology.Expand(zone, topology.Both)
	diff := reconcile.Compute(observed, desired)
	result.Diff = diff

	logger.Info("Computed record diff.",
		zap.Int("observed", len(observed)),
		zap.Int("desired", len(desired)),
		zap.Int("superfluous", len(diff.Superfluous)),
		zap.Int("missing", len(diff.Missing)),
		zap.Int("changed", len(diff.Changed)))

	for _, r := range diff.Superfluous {
		logger.Info("Leaving superfluous record in place.", zap.Stringer("record", r))
	}

	if d.opts.DryRun {
		for _, c := range diff.Changed {
			logger.Info("Would update record.", zap.Stringer("from", c.Observed), zap.Stringer("to", c.Desired))
		}
		for _, r := range diff.Missing {
			logger.Info("Would create record.", zap.Stringer("record", r))
		}
		return result, nil
	}

	for _, c := range diff.Changed {
		id, ok := ids[c.Desired.Name()]
		if !ok {
			return result, fmt.Errorf("%w: %s", ErrRecordIDNotFound, c.Desired.Name())
		}
		if err := d.provider.UpdateRecord(ctx, zoneID, id, c.Desired); err != nil {
			return result, fmt.Errorf("failed to update %s: %w", c.Desired.Name(), err)
		}
		result.Updated++
		logger.Info("Updated record.", zap.Stringer("from", c.Observed), zap.Stringer("to", c.Desired))
	}

	for _, r := range diff.Missing {
		if err := d.provider.CreateRecord(ctx, zoneID, r); err != nil {
			return result, fmt.Errorf("failed to create %s: %w", r.Name(), err)
		}
		result.Created++
		logger.Info("Created record.", zap.Stringer("record", r))
	}

	logger.Info("Finished processing records.",
		zap.Int("updated", result.Updated), zap.Int("created", result.Created))
	return result, nil
}

func (d *Driver) findZone(ctx context.Context, domain string) (string, error) {
	zones, err := d.provider.ListZones(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list zones: %w", err)
	}
	name := dnsname.Trim(domain)
	for _, z := range zones {
		if z.Name == name {
			return z.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrZoneNotFound, domain)
}
