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

package v1alpha1

// Peer is a union of the peer kinds a network can report. Exactly one
// member is set; the JSON key doubles as the kind tag.
type Peer struct {
	// +optional
	Ceramic *CeramicPeerInfo `json:"ceramic,omitempty"`
	// +optional
	Ipfs *IpfsPeerInfo `json:"ipfs,omitempty"`
}

// CeramicPeerInfo describes a full Ceramic peer.
type CeramicPeerInfo struct {
	PeerID      string `json:"peerId"`
	IpfsRpcAddr string `json:"ipfsRpcAddr"`
	CeramicAddr string `json:"ceramicAddr"`
	// Announced dialable addresses, each ending in /p2p/<peerId>.
	P2PAddrs []string `json:"p2pAddrs"`
}

// IpfsPeerInfo describes a bare IPFS peer without a Ceramic API.
type IpfsPeerInfo struct {
	PeerID      string   `json:"peerId"`
	IpfsRpcAddr string   `json:"ipfsRpcAddr"`
	P2PAddrs    []string `json:"p2pAddrs"`
}

// ID returns the peer identifier regardless of kind.
func (p Peer) ID() string {
	switch {
	case p.Ceramic != nil:
		return p.Ceramic.PeerID
	case p.Ipfs != nil:
		return p.Ipfs.PeerID
	}
	return ""
}

// RPCAddr returns the IPFS RPC address regardless of kind.
func (p Peer) RPCAddr() string {
	switch {
	case p.Ceramic != nil:
		return p.Ceramic.IpfsRpcAddr
	case p.Ipfs != nil:
		return p.Ipfs.IpfsRpcAddr
	}
	return ""
}
