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

// Package provider defines the remote DNS store the sync driver talks to and
// a registry of the backends that implement it.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

// Zone is a zone as the provider knows it. Name carries no trailing dot.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RemoteRecord is a record exactly as the provider reports it, of any type.
type RemoteRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Provider is the surface needed to converge a zone. Records are never
// deleted, so there is no delete.
type Provider interface {
	ListZones(ctx context.Context) ([]Zone, error)
	ListRecords(ctx context.Context, zoneID string) ([]RemoteRecord, error)
	CreateRecord(ctx context.Context, zoneID string, r record.Record) error
	UpdateRecord(ctx context.Context, zoneID, recordID string, r record.Record) error
}

// Factory builds a provider from free-form settings, usually collected from
// flags or the environment.
type Factory func(logger *zap.Logger, settings map[string]string) (Provider, error)

var ErrUnknownProvider = errors.New("unknown DNS provider")

var (
	mu        sync.Mutex
	factories = make(map[string]Factory)
)

// Register is called from a backend's init(). Registering a name twice panics.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("provider: %q already registered", name))
	}
	factories[name] = f
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func New(name string, logger *zap.Logger, settings map[string]string) (Provider, error) {
	mu.Lock()
	f, ok := factories[name]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownProvider, name, Names())
	}
	return f(logger.With(zap.String("provider", name)), settings)
}

// DecodeSettings fills out from a settings map. Strings are converted to the
// field types of out, so "3" decodes into an int and "true" into a bool.
// Fields are matched on their `mapstructure` tag.
func DecodeSettings(settings map[string]string, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(settings); err != nil {
		return fmt.Errorf("failed to decode provider settings: %w", err)
	}
	return nil
}
