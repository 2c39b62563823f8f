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

// Package powerdns publishes records through the PowerDNS authoritative API.
package powerdns

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/joeig/go-powerdns/v2"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/httplog"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

func init() {
	provider.Register("powerdns", func(logger *zap.Logger, settings map[string]string) (provider.Provider, error) {
		return New(logger, settings)
	})
}

type Options struct {
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"api_key"`
	ServerID string `mapstructure:"server_id"`
	Retries  int    `mapstructure:"retries"`
	TTL      uint32 `mapstructure:"ttl"`
	Insecure bool   `mapstructure:"insecure"`
}

// Provider maps records onto PowerDNS rrsets. PowerDNS has no per-record ids,
// so a record id is its rrset key, "name|type". Zones are identified by their
// canonical name.
type Provider struct {
	pdns   *powerdns.Client
	ttl    uint32
	logger *zap.Logger
}

func New(logger *zap.Logger, settings map[string]string) (*Provider, error) {
	opts := Options{
		ServerID: "localhost",
		TTL:      3600,
	}
	if err := provider.DecodeSettings(settings, &opts); err != nil {
		return nil, err
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("powerdns: missing required setting 'url'")
	}

	httpClient := retryablehttp.NewClient()
	if opts.Insecure {
		httpClient.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	httpClient.RetryMax = opts.Retries
	httpClient.RetryWaitMax = time.Second * 2
	httpClient.Logger = httplog.New(logger)

	return &Provider{
		pdns: powerdns.NewClient(opts.URL, opts.ServerID, map[string]string{"X-API-Key": opts.APIKey},
			httpClient.StandardClient()),
		ttl:    opts.TTL,
		logger: logger,
	}, nil
}

// RecordID is the id ListRecords reports for the rrset holding r.
func RecordID(name, recordType string) string {
	return dnsname.Trim(name) + "|" + recordType
}

func splitRecordID(id string) (name, recordType string, err error) {
	name, recordType, ok := strings.Cut(id, "|")
	if !ok || name == "" || recordType == "" {
		return "", "", fmt.Errorf("malformed PowerDNS record id %q", id)
	}
	return name, recordType, nil
}

// The go-powerdns client has no context support, so ctx is only checked
// before each call.

func (p *Provider) ListZones(ctx context.Context) ([]provider.Zone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zones, err := p.pdns.Zones.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	result := make([]provider.Zone, 0, len(zones))
	for _, zone := range zones {
		if zone.Name == nil {
			continue
		}
		result = append(result, provider.Zone{
			ID:   dnsname.Canonical(*zone.Name),
			Name: dnsname.Trim(*zone.Name),
		})
	}
	return result, nil
}

func (p *Provider) ListRecords(ctx context.Context, zoneID string) ([]provider.RemoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zone, err := p.pdns.Zones.Get(zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone %s: %w", zoneID, err)
	}

	var result []provider.RemoteRecord
	for _, rrSet := range zone.RRsets {
		if rrSet.Name == nil || rrSet.Type == nil {
			continue
		}
		name := dnsname.Trim(*rrSet.Name)
		recordType := string(*rrSet.Type)

		for _, r := range rrSet.Records {
			if r.Content == nil || (r.Disabled != nil && *r.Disabled) {
				continue
			}
			content := *r.Content
			if recordType == record.TypeCNAME {
				content = dnsname.Trim(content)
			}
			result = append(result, provider.RemoteRecord{
				ID:      RecordID(name, recordType),
				Name:    name,
				Type:    recordType,
				Content: content,
			})
		}
	}
	return result, nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, r record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rrSets := &powerdns.RRsets{Sets: []powerdns.RRset{p.replaceRRset(r)}}
	if err := p.pdns.Records.Patch(zoneID, rrSets); err != nil {
		return fmt.Errorf("failed to create record %s: %w", r, err)
	}
	return nil
}

// UpdateRecord replaces the rrset named by recordID with r. When the type
// changes, for instance an address becoming an alias, the old rrset is
// removed in the same patch since PowerDNS refuses a CNAME next to other data.
func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, r record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	oldName, oldType, err := splitRecordID(recordID)
	if err != nil {
		return err
	}

	var sets []powerdns.RRset
	if oldType != r.Type() || !dnsname.Equal(oldName, r.Name()) {
		sets = append(sets, powerdns.RRset{
			Name:       powerdns.String(dnsname.Canonical(oldName)),
			Type:       powerdns.RRTypePtr(powerdns.RRType(oldType)),
			ChangeType: powerdns.ChangeTypePtr(powerdns.ChangeTypeDelete),
		})
	}
	sets = append(sets, p.replaceRRset(r))

	if err := p.pdns.Records.Patch(zoneID, &powerdns.RRsets{Sets: sets}); err != nil {
		return fmt.Errorf("failed to update record %s (%s): %w", r, recordID, err)
	}
	return nil
}

func (p *Provider) replaceRRset(r record.Record) powerdns.RRset {
	content := r.Value()
	if r.Kind() == record.KindAlias {
		content = dnsname.Canonical(content)
	}

	return powerdns.RRset{
		Name:       powerdns.String(dnsname.Canonical(r.Name())),
		Type:       powerdns.RRTypePtr(powerdns.RRType(r.Type())),
		TTL:        powerdns.Uint32(p.ttl),
		ChangeType: powerdns.ChangeTypePtr(powerdns.ChangeTypeReplace),
		Records: []powerdns.Record{
			{
				Content:  powerdns.String(content),
				Disabled: powerdns.Bool(false),
			},
		},
	}
}
