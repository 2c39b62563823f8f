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
	"bufio"
	"os"

	"github.com/namsral/flag"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/logging"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/topology"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/zonefile"
)

var (
	configPath = flag.String("config", "topology.yaml", "Path to the topology file")
	filter     = flag.String("filter", "both", "Which records to export: public, private or both")
	ttl        = flag.Uint("ttl", zonefile.DefaultTTL, "TTL written for every record")
	output     = flag.String("output", "", "Write the zone file here instead of stdout")
)

func main() {
	flag.Parse()

	logger, _ := logging.Setup(os.Getenv("LOG_LEVEL"))

	zone, err := topology.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load topology!", zap.Error(err))
	}
	f, err := topology.ParseFilter(*filter)
	if err != nil {
		logger.Fatal("Invalid filter!", zap.Error(err))
	}

	out := os.Stdout
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			logger.Fatal("Failed to create output file!", zap.Error(err))
		}
		defer out.Close()
	}

	w := bufio.NewWriter(out)
	if err := zonefile.Render(w, zone.Domain, topology.Expand(zone, f), uint32(*ttl)); err != nil {
		logger.Fatal("Failed to render zone file!", zap.Error(err))
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("Failed to write zone file!", zap.Error(err))
	}
}
