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
package powerdns

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/provider"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

type patchBody struct {
	RRsets []struct {
		Name       string `json:"name"`
		Type       string `json:"type"`
		TTL        uint32 `json:"ttl"`
		ChangeType string `json:"changetype"`
		Records    []struct {
			Content  string `json:"content"`
			Disabled bool   `json:"disabled"`
		} `json:"records"`
	} `json:"rrsets"`
}

// fakePDNS serves one zone, ex.com., and records every PATCH it receives.
type fakePDNS struct {
	mu      sync.Mutex
	apiKeys []string
	patches []patchBody
}

const zoneJSON = `{
  "id": "ex.com.",
  "name": "ex.com.",
  "kind": "Native",
  "rrsets": [
    {"name": "x.ex.com.", "type": "A", "ttl": 3600, "records": [{"content": "1.1.1.1", "disabled": false}]},
    {"name": "y.ex.com.", "type": "CNAME", "ttl": 3600, "records": [{"content": "x.ex.com.", "disabled": false}]},
    {"name": "off.ex.com.", "type": "A", "ttl": 3600, "records": [{"content": "10.9.9.9", "disabled": true}]},
    {"name": "ex.com.", "type": "SOA", "ttl": 3600, "records": [{"content": "ns. admin. 1 2 3 4 5", "disabled": false}]}
  ]
}`

func (f *fakePDNS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.apiKeys = append(f.apiKeys, r.Header.Get("X-API-Key"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/zones"):
		_, _ = io.WriteString(w, `[{"id": "ex.com.", "name": "ex.com.", "kind": "Native"}]`)
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/zones/"):
		_, _ = io.WriteString(w, zoneJSON)
	case r.Method == http.MethodPatch:
		var body patchBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.patches = append(f.patches, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestProvider(t *testing.T) (*Provider, *fakePDNS) {
	t.Helper()
	fake := &fakePDNS{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	p, err := New(zap.NewNop(), map[string]string{
		"url":     srv.URL,
		"api_key": "secret",
		"ttl":     "300",
	})
	require.NoError(t, err)
	return p, fake
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(zap.NewNop(), map[string]string{"api_key": "secret"})
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, provider.Names(), "powerdns")
}

func TestListZones(t *testing.T) {
	p, fake := newTestProvider(t)

	zones, err := p.ListZones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []provider.Zone{{ID: "ex.com.", Name: "ex.com"}}, zones)
	assert.Equal(t, []string{"secret"}, fake.apiKeys)
}

func TestListRecords(t *testing.T) {
	p, _ := newTestProvider(t)

	records, err := p.ListRecords(context.Background(), "ex.com.")
	require.NoError(t, err)
	assert.Equal(t, []provider.RemoteRecord{
		{ID: "x.ex.com|A", Name: "x.ex.com", Type: "A", Content: "1.1.1.1"},
		{ID: "y.ex.com|CNAME", Name: "y.ex.com", Type: "CNAME", Content: "x.ex.com"},
		{ID: "ex.com|SOA", Name: "ex.com", Type: "SOA", Content: "ns. admin. 1 2 3 4 5"},
	}, records)
}

func TestCreateRecord(t *testing.T) {
	p, fake := newTestProvider(t)

	require.NoError(t, p.CreateRecord(context.Background(), "ex.com.", record.Alias("www.ex.com", "x.ex.com")))

	require.Len(t, fake.patches, 1)
	sets := fake.patches[0].RRsets
	require.Len(t, sets, 1)
	assert.Equal(t, "www.ex.com.", sets[0].Name)
	assert.Equal(t, "CNAME", sets[0].Type)
	assert.Equal(t, "REPLACE", sets[0].ChangeType)
	assert.Equal(t, uint32(300), sets[0].TTL)
	require.Len(t, sets[0].Records, 1)
	assert.Equal(t, "x.ex.com.", sets[0].Records[0].Content)
}

func TestUpdateRecordSameType(t *testing.T) {
	p, fake := newTestProvider(t)

	err := p.UpdateRecord(context.Background(), "ex.com.", "x.ex.com|A", record.Address("x.ex.com", "2.2.2.2"))
	require.NoError(t, err)

	require.Len(t, fake.patches, 1)
	sets := fake.patches[0].RRsets
	require.Len(t, sets, 1)
	assert.Equal(t, "REPLACE", sets[0].ChangeType)
	assert.Equal(t, "2.2.2.2", sets[0].Records[0].Content)
}

func TestUpdateRecordTypeChange(t *testing.T) {
	p, fake := newTestProvider(t)

	err := p.UpdateRecord(context.Background(), "ex.com.", "x.ex.com|A", record.Alias("x.ex.com", "y.ex.com"))
	require.NoError(t, err)

	require.Len(t, fake.patches, 1)
	sets := fake.patches[0].RRsets
	require.Len(t, sets, 2)
	assert.Equal(t, "DELETE", sets[0].ChangeType)
	assert.Equal(t, "A", sets[0].Type)
	assert.Equal(t, "x.ex.com.", sets[0].Name)
	assert.Equal(t, "REPLACE", sets[1].ChangeType)
	assert.Equal(t, "CNAME", sets[1].Type)
}

func TestUpdateRecordMalformedID(t *testing.T) {
	p, fake := newTestProvider(t)

	err := p.UpdateRecord(context.Background(), "ex.com.", "x.ex.com", record.Address("x.ex.com", "2.2.2.2"))
	assert.Error(t, err)
	assert.Empty(t, fake.patches)
}

func TestCancelledContext(t *testing.T) {
	p, fake := newTestProvider(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ListZones(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.apiKeys)
}
