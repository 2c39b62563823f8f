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

// Package cloudflare publishes records to Cloudflare DNS.
package cloudflare

import (
	"context"
	"fmt"

	"github.com/cloudflare/cloudflare-go/v6"
	"github.com/cloudflare/cloudflare-go/v6/dns"
	"github.com/cloudflare/cloudflare-go/v6/option"
	"github.com/cloudflare/cloudflare-go/v6/zones"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

// A TTL of 1 tells Cloudflare to pick the TTL itself.
const automaticTTL = dns.TTL(1)

func init() {
	provider.Register("cloudflare", func(logger *zap.Logger, settings map[string]string) (provider.Provider, error) {
		return New(logger, settings)
	})
}

// Options are decoded from the settings map.
type Options struct {
	APIToken string `mapstructure:"api_token"`
	// BaseURL overrides the API endpoint, mostly for tests.
	BaseURL    string `mapstructure:"base_url"`
	MaxRetries int    `mapstructure:"retries"`
}

type Provider struct {
	client *cloudflare.Client
	logger *zap.Logger
}

func New(logger *zap.Logger, settings map[string]string) (*Provider, error) {
	var opts Options
	if err := provider.DecodeSettings(settings, &opts); err != nil {
		return nil, err
	}
	if opts.APIToken == "" {
		return nil, fmt.Errorf("cloudflare: missing required setting 'api_token'")
	}

	clientOptions := []option.RequestOption{
		option.WithAPIToken(opts.APIToken),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(opts.BaseURL))
	}

	return &Provider{
		client: cloudflare.NewClient(clientOptions...),
		logger: logger,
	}, nil
}

func (p *Provider) ListZones(ctx context.Context) ([]provider.Zone, error) {
	var result []provider.Zone

	iter := p.client.Zones.ListAutoPaging(ctx, zones.ZoneListParams{})
	for iter.Next() {
		zone := iter.Current()
		result = append(result, provider.Zone{ID: zone.ID, Name: dnsname.Trim(zone.Name)})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	p.logger.Debug("Listed zones.", zap.Int("count", len(result)))
	return result, nil
}

func (p *Provider) ListRecords(ctx context.Context, zoneID string) ([]provider.RemoteRecord, error) {
	var result []provider.RemoteRecord

	iter := p.client.DNS.Records.ListAutoPaging(ctx, dns.RecordListParams{
		ZoneID: cloudflare.F(zoneID),
	})
	for iter.Next() {
		r := iter.Current()
		result = append(result, provider.RemoteRecord{
			ID:      r.ID,
			Name:    dnsname.Trim(r.Name),
			Type:    string(r.Type),
			Content: r.Content,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records for zone %s: %w", zoneID, err)
	}

	p.logger.Debug("Listed records.", zap.String("zoneID", zoneID), zap.Int("count", len(result)))
	return result, nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, r record.Record) error {
	body, err := recordParam(r)
	if err != nil {
		return err
	}

	_, err = p.client.DNS.Records.New(ctx, dns.RecordNewParams{
		ZoneID: cloudflare.F(zoneID),
		Body:   body.(dns.RecordNewParamsBodyUnion),
	})
	if err != nil {
		return fmt.Errorf("failed to create record %s: %w", r, err)
	}
	return nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, r record.Record) error {
	body, err := recordParam(r)
	if err != nil {
		return err
	}

	_, err = p.client.DNS.Records.Edit(ctx, recordID, dns.RecordEditParams{
		ZoneID: cloudflare.F(zoneID),
		Body:   body.(dns.RecordEditParamsBodyUnion),
	})
	if err != nil {
		return fmt.Errorf("failed to update record %s (%s): %w", r, recordID, err)
	}
	return nil
}

// recordParam builds the typed body shared by create and edit. Records are
// never proxied.
func recordParam(r record.Record) (interface{}, error) {
	name := cloudflare.F(r.Name())
	content := cloudflare.F(r.Value())
	ttl := cloudflare.F(automaticTTL)
	proxied := cloudflare.F(false)

	switch r.Type() {
	case record.TypeA:
		return dns.ARecordParam{
			Name:    name,
			Type:    cloudflare.F(dns.ARecordTypeA),
			Content: content,
			TTL:     ttl,
			Proxied: proxied,
		}, nil
	case record.TypeAAAA:
		return dns.AAAARecordParam{
			Name:    name,
			Type:    cloudflare.F(dns.AAAARecordTypeAAAA),
			Content: content,
			TTL:     ttl,
			Proxied: proxied,
		}, nil
	case record.TypeCNAME:
		return dns.CNAMERecordParam{
			Name:    name,
			Type:    cloudflare.F(dns.CNAMERecordTypeCNAME),
			Content: content,
			TTL:     ttl,
			Proxied: proxied,
		}, nil
	default:
		return nil, fmt.Errorf("record type %q is not supported", r.Type())
	}
}
