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
package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

type stubProvider struct {
	settings map[string]string
}

func (stubProvider) ListZones(context.Context) ([]Zone, error) { return nil, nil }
func (stubProvider) ListRecords(context.Context, string) ([]RemoteRecord, error) {
	return nil, nil
}
func (stubProvider) CreateRecord(context.Context, string, record.Record) error { return nil }
func (stubProvider) UpdateRecord(context.Context, string, string, record.Record) error {
	return nil
}

func TestRegistry(t *testing.T) {
	Register("stub-registry", func(_ *zap.Logger, settings map[string]string) (Provider, error) {
		return stubProvider{settings: settings}, nil
	})

	p, err := New("stub-registry", zap.NewNop(), map[string]string{"token": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", p.(stubProvider).settings["token"])
	assert.Contains(t, Names(), "stub-registry")

	assert.Panics(t, func() {
		Register("stub-registry", func(*zap.Logger, map[string]string) (Provider, error) { return nil, nil })
	})
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("does-not-exist", zap.NewNop(), nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestDecodeSettings(t *testing.T) {
	var opts struct {
		URL      string `mapstructure:"url"`
		Retries  int    `mapstructure:"retries"`
		Insecure bool   `mapstructure:"insecure"`
	}

	err := DecodeSettings(map[string]string{
		"url":      "http://pdns:8081",
		"retries":  "3",
		"insecure": "true",
		"unused":   "ignored",
	}, &opts)
	require.NoError(t, err)
	assert.Equal(t, "http://pdns:8081", opts.URL)
	assert.Equal(t, 3, opts.Retries)
	assert.True(t, opts.Insecure)

	err = DecodeSettings(map[string]string{"retries": "three"}, &opts)
	assert.Error(t, err)
}
