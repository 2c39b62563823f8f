package main

import (
	"context"
	"fmt"
	"os"

	"github.com/namsral/flag"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/dnsname"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/logging"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	_ "github.com/Cray-HPE/cray-topology-dns-manager/internal/provider/providers"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/topology"
)

var (
	configPath = flag.String("config", "topology.yaml", "Path to the topology file")
	filter     = flag.String("filter", "both", "Which records to show: public, private or both")

	// With a provider set the tree shows what is published rather than what
	// the topology expands to.
	providerName    = flag.String("provider", "", "Read live records from this DNS provider instead")
	cloudflareToken = flag.String("cloudflare_token", "", "Cloudflare API token")
	pdnsURL         = flag.String("pdns_url", "http://localhost:9090", "PowerDNS URL")
	pdnsAPIKey      = flag.String("pdns_api_key", "cray", "PowerDNS API Key")
)

func main() {
	// Parse the arguments.
	flag.Parse()

	logger, _ := logging.Setup(os.Getenv("LOG_LEVEL"))

	zone, err := topology.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load topology!", zap.Error(err))
	}

	var records []record.Record
	if *providerName == "" {
		f, err := topology.ParseFilter(*filter)
		if err != nil {
			logger.Fatal("Invalid filter!", zap.Error(err))
		}
		records = topology.Expand(zone, f)
	} else {
		records, err = liveRecords(logger, zone.Domain)
		if err != nil {
			logger.Fatal("Failed to read records from provider!", zap.Error(err))
		}
	}

	fmt.Println(buildTree(zone.Domain, records).String())
}

func liveRecords(logger *zap.Logger, domain string) ([]record.Record, error) {
	p, err := provider.New(*providerName, logger, map[string]string{
		"api_token": *cloudflareToken,
		"url":       *pdnsURL,
		"api_key":   *pdnsAPIKey,
		"zone":      domain,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	zones, err := p.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	for _, z := range zones {
		if z.Name != dnsname.Trim(domain) {
			continue
		}
		remote, err := p.ListRecords(ctx, z.ID)
		if err != nil {
			return nil, err
		}
		var records []record.Record
		for _, rr := range remote {
			if r, ok := record.FromType(rr.Type, rr.Name, rr.Content); ok {
				records = append(records, r)
			}
		}
		return records, nil
	}
	return nil, fmt.Errorf("zone %s not found at provider %s", domain, *providerName)
}
