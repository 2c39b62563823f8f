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
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/namsral/flag"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/api"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/logging"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	_ "github.com/Cray-HPE/cray-topology-dns-manager/internal/provider/providers"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/syncer"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/topology"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/trueup"
)

var (
	configPath   = flag.String("config", "topology.yaml", "Path to the topology file")
	providerName = flag.String("provider", "cloudflare", "DNS provider: cloudflare, powerdns or memory")

	cloudflareToken = flag.String("cloudflare_token", "", "Cloudflare API token")

	pdnsURL      = flag.String("pdns_url", "http://localhost:9090", "PowerDNS URL")
	pdnsAPIKey   = flag.String("pdns_api_key", "cray", "PowerDNS API Key")
	pdnsServerID = flag.String("pdns_server_id", "localhost", "PowerDNS server id")
	pdnsInsecure = flag.Bool("pdns_insecure", false, "Skip TLS verification for PowerDNS")

	httpRetries = flag.Int("http_retries", 0, "Transport level retries for provider API calls")
	dryRun      = flag.Bool("dry_run", false, "Compute and log changes without applying them")

	daemon              = flag.Bool("daemon", false, "Keep running: true up on an interval, watch the config and serve the API")
	trueUpSleepInterval = flag.Int("true_up_sleep_interval", 30, "Time to sleep between true up runs")
	listenAddr          = flag.String("listen", ":8081", "API listen address in daemon mode")

	logger *zap.Logger
)

func main() {
	// Get command line arguments
	flag.Parse()

	// Setup logging
	logger, _ = logging.Setup(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	if *daemon {
		runDaemon()
		return
	}

	if err := runOnce(); err != nil {
		logger.Error("Sync failed.", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newDriver(domain string) (*syncer.Driver, error) {
	settings, err := providerSettings(*providerName, domain)
	if err != nil {
		return nil, err
	}
	p, err := provider.New(*providerName, logger, settings)
	if err != nil {
		return nil, err
	}
	return syncer.New(p, logger, syncer.Options{DryRun: *dryRun}), nil
}

func logLint(zone *topology.Zone) {
	for _, issue := range topology.Lint(zone) {
		logger.Warn("Topology issue.", zap.String("issue", issue.String()))
	}
}

// runOnce loads the topology, converges the zone once and returns.
func runOnce() error {
	zone, err := topology.Load(*configPath)
	if err != nil {
		return err
	}
	logLint(zone)

	driver, err := newDriver(zone.Domain)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := driver.Run(ctx, zone)
	if err != nil {
		return err
	}
	logger.Info("Sync complete.",
		zap.Int("updated", result.Updated),
		zap.Int("created", result.Created),
		zap.Int("superfluous", len(result.Diff.Superfluous)),
		zap.Bool("dryRun", result.DryRun))
	return nil
}

func runDaemon() {
	var (
		waitGroup sync.WaitGroup
		loop      *trueup.Loop
	)

	watcher, err := topology.NewWatcher(*configPath, logger, func(*topology.Zone) {
		if loop != nil && !loop.Trigger() {
			logger.Info("True up already in progress, new topology applies on the next pass.")
		}
	})
	if err != nil {
		logger.Fatal("Failed to load topology!", zap.Error(err))
	}
	logLint(watcher.Zone())

	driver, err := newDriver(watcher.Zone().Domain)
	if err != nil {
		logger.Fatal("Failed to set up DNS provider!", zap.Error(err))
	}

	loop = trueup.New(time.Duration(*trueUpSleepInterval)*time.Second,
		func(ctx context.Context) (*syncer.Result, error) {
			return driver.Run(ctx, watcher.Zone())
		}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	apiServer := api.New(*listenAddr, loop, watcher.Zone, logger)

	go func() {
		<-c

		logger.Info("Shutting down...")

		cancel()

		serverCtx, serverCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer serverCancel()
		if err := apiServer.Shutdown(serverCtx); err != nil {
			logger.Error("API server forced to shutdown!", zap.Error(err))
		}
	}()

	waitGroup.Add(1)
	logger.Info("Starting API server.")
	go func() {
		defer waitGroup.Done()
		if err := apiServer.ListenAndServe(); err != nil {
			logger.Panic("Unable to start API server!", zap.Error(err))
		}
	}()

	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Topology watcher stopped.", zap.Error(err))
		}
	}()

	waitGroup.Add(1)
	logger.Info("Starting up main loop...")
	go func() {
		defer waitGroup.Done()
		loop.Run(ctx)
	}()

	// We'll spend pretty much the rest of life blocking on the next line.
	waitGroup.Wait()
}
