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

// Package memory is an in-process provider. It backs dry runs and tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

func init() {
	provider.Register("memory", func(logger *zap.Logger, settings map[string]string) (provider.Provider, error) {
		// A dry run against memory needs the zone to exist up front.
		var opts struct {
			Zone string `mapstructure:"zone"`
		}
		if err := provider.DecodeSettings(settings, &opts); err != nil {
			return nil, err
		}
		p := New()
		if opts.Zone != "" {
			p.AddZone(opts.Zone)
		}
		logger.Debug("Created in-memory provider.", zap.String("zone", opts.Zone))
		return p, nil
	})
}

type zone struct {
	name    string
	records []provider.RemoteRecord
}

// Provider keeps every zone in memory. Ids are assigned sequentially and
// never reused.
type Provider struct {
	mu     sync.Mutex
	zones  []*zone
	nextID int
}

func New() *Provider {
	return &Provider{}
}

// AddZone creates an empty zone and returns its id.
func (p *Provider) AddZone(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zones = append(p.zones, &zone{name: name})
	return p.zoneID(len(p.zones) - 1)
}

// Seed adds records of any type to a zone as if they had been published
// outside of the manager.
func (p *Provider) Seed(zoneID string, records ...provider.RemoteRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	z, err := p.zone(zoneID)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.ID == "" {
			r.ID = p.newID()
		}
		z.records = append(z.records, r)
	}
	return nil
}

func (p *Provider) zoneID(i int) string {
	return "zone-" + strconv.Itoa(i+1)
}

func (p *Provider) zone(id string) (*zone, error) {
	for i, z := range p.zones {
		if p.zoneID(i) == id {
			return z, nil
		}
	}
	return nil, fmt.Errorf("zone %q does not exist", id)
}

func (p *Provider) newID() string {
	p.nextID++
	return "rec-" + strconv.Itoa(p.nextID)
}

func (p *Provider) ListZones(context.Context) ([]provider.Zone, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]provider.Zone, 0, len(p.zones))
	for i, z := range p.zones {
		result = append(result, provider.Zone{ID: p.zoneID(i), Name: z.name})
	}
	return result, nil
}

func (p *Provider) ListRecords(_ context.Context, zoneID string) ([]provider.RemoteRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	z, err := p.zone(zoneID)
	if err != nil {
		return nil, err
	}
	return append([]provider.RemoteRecord(nil), z.records...), nil
}

func (p *Provider) CreateRecord(_ context.Context, zoneID string, r record.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	z, err := p.zone(zoneID)
	if err != nil {
		return err
	}
	z.records = append(z.records, provider.RemoteRecord{
		ID:      p.newID(),
		Name:    r.Name(),
		Type:    r.Type(),
		Content: r.Value(),
	})
	return nil
}

func (p *Provider) UpdateRecord(_ context.Context, zoneID, recordID string, r record.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	z, err := p.zone(zoneID)
	if err != nil {
		return err
	}
	for i := range z.records {
		if z.records[i].ID == recordID {
			z.records[i] = provider.RemoteRecord{
				ID:      recordID,
				Name:    r.Name(),
				Type:    r.Type(),
				Content: r.Value(),
			}
			return nil
		}
	}
	return fmt.Errorf("record %q does not exist in zone %q", recordID, zoneID)
}
