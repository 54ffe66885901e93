/*
Copyright 2026 Us3r Network.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPeerID = "12D3KooWBu7WqAwSJvGLYoZh1dUd8wsBBKPdLkxFcnR5iG4dzzm3"

func idServer(t *testing.T, addresses []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v0/id", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ID":        testPeerID,
			"Addresses": addresses,
		})
	}))
}

func TestPeerInfo_FiltersAddresses(t *testing.T) {
	srv := idServer(t, []string{
		"/ip4/127.0.0.1/tcp/4001",
		"/ip4/10.42.0.9/tcp/4001",
		"/ip4/10.42.0.9/udp/4001/quic-v1",
		"/ip4/10.42.0.9",
		"/dns4/example.com/tcp/4001",
	})
	defer srv.Close()

	client := NewHTTPClient()
	info, err := client.PeerInfo(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, testPeerID, info.PeerID)
	assert.Equal(t, srv.URL, info.IpfsRpcAddr)
	assert.Equal(t, []string{
		"/ip4/10.42.0.9/tcp/4001/p2p/" + testPeerID,
		"/ip4/10.42.0.9/udp/4001/quic-v1/p2p/" + testPeerID,
	}, info.P2PAddrs)
}

func TestPeerInfo_NoValidAddresses(t *testing.T) {
	srv := idServer(t, []string{
		"/ip4/127.0.0.1/tcp/4001",
		"/ip4/10.42.0.9",
	})
	defer srv.Close()

	client := NewHTTPClient()
	_, err := client.PeerInfo(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValidAddresses))
}

func TestPeerInfo_SkipsMalformedAddresses(t *testing.T) {
	srv := idServer(t, []string{
		"not-a-multiaddr",
		"/ip4/10.42.0.9/tcp/4001",
	})
	defer srv.Close()

	client := NewHTTPClient()
	info, err := client.PeerInfo(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"/ip4/10.42.0.9/tcp/4001/p2p/" + testPeerID}, info.P2PAddrs)
}

func TestPeerInfo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"Message": "ipfs daemon not ready"})
	}))
	defer srv.Close()

	client := NewHTTPClient()
	_, err := client.PeerInfo(context.Background(), srv.URL)
	require.Error(t, err)
	require.True(t, IsAPIError(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "ipfs daemon not ready", apiErr.Message)
}

func TestConnectedPeers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/swarm/peers", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"Peers": []map[string]string{
				{"Peer": "12D3KooWA"},
				{"Peer": "12D3KooWB"},
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient()
	count, err := client.ConnectedPeers(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestConnectedPeers_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	count, err := client.ConnectedPeers(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
