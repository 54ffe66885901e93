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

// Package ipfs provides a client for the RPC API of in-network IPFS peers.
package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	multiaddr "github.com/multiformats/go-multiaddr"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

// ErrNoValidAddresses reports a peer that announced only loopback or
// otherwise undialable addresses.
var ErrNoValidAddresses = errors.New("no valid non loopback addresses")

// APIError represents an error response from an IPFS RPC API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ipfs rpc error (status %d): %s", e.StatusCode, e.Message)
}

// IsAPIError reports whether any error in err's chain is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// RPCClient looks up identity and connectivity of IPFS peers.
type RPCClient interface {
	// PeerInfo queries a peer's identity and returns its dialable
	// announced addresses, each suffixed with /p2p/<peer-id>.
	PeerInfo(ctx context.Context, rpcAddr string) (*keramikv1alpha1.IpfsPeerInfo, error)
	// ConnectedPeers returns the number of peers the peer is connected to.
	ConnectedPeers(ctx context.Context, rpcAddr string) (int, error)
}

// HTTPClient is an RPCClient against the HTTP RPC API.
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient creates a client with sane timeouts.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ RPCClient = (*HTTPClient)(nil)

// PeerInfo implements RPCClient.
func (c *HTTPClient) PeerInfo(ctx context.Context, rpcAddr string) (*keramikv1alpha1.IpfsPeerInfo, error) {
	var resp struct {
		ID        string   `json:"ID"`
		Addresses []string `json:"Addresses"`
	}
	if err := c.doRequest(ctx, rpcAddr, "/api/v0/id", &resp); err != nil {
		return nil, err
	}

	p2p, err := multiaddr.NewMultiaddr("/p2p/" + resp.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid peer id %q: %w", resp.ID, err)
	}

	var p2pAddrs []string
	for _, addr := range resp.Addresses {
		maddr, err := multiaddr.NewMultiaddr(addr)
		if err != nil {
			continue
		}
		if !dialable(maddr) {
			continue
		}
		p2pAddrs = append(p2pAddrs, maddr.Encapsulate(p2p).String())
	}
	if len(p2pAddrs) == 0 {
		return nil, fmt.Errorf("peer %s: %w", rpcAddr, ErrNoValidAddresses)
	}

	return &keramikv1alpha1.IpfsPeerInfo{
		PeerID:      resp.ID,
		IpfsRpcAddr: rpcAddr,
		P2PAddrs:    p2pAddrs,
	}, nil
}

// ConnectedPeers implements RPCClient.
func (c *HTTPClient) ConnectedPeers(ctx context.Context, rpcAddr string) (int, error) {
	var resp struct {
		Peers []json.RawMessage `json:"Peers"`
	}
	if err := c.doRequest(ctx, rpcAddr, "/api/v0/swarm/peers", &resp); err != nil {
		return 0, err
	}
	return len(resp.Peers), nil
}

// dialable reports whether the address has both a non loopback IPv4
// component and a tcp or quic transport.
func dialable(maddr multiaddr.Multiaddr) bool {
	var validIP, validTransport bool
	multiaddr.ForEach(maddr, func(comp multiaddr.Component) bool {
		switch comp.Protocol().Code {
		case multiaddr.P_IP4:
			if ip := net.ParseIP(comp.Value()); ip != nil && !ip.IsLoopback() {
				validIP = true
			}
		case multiaddr.P_TCP, multiaddr.P_QUIC, multiaddr.P_QUIC_V1:
			validTransport = true
		}
		return true
	})
	return validIP && validTransport
}

func (c *HTTPClient) doRequest(ctx context.Context, rpcAddr, path string, result interface{}) error {
	url := strings.TrimSuffix(rpcAddr, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Limit response size to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Message string `json:"Message"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
		} else {
			msg := string(body)
			if len(msg) > 200 {
				msg = msg[:200] + "..."
			}
			apiErr.Message = msg
		}
		return apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}
	return nil
}
