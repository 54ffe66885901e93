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

package ceramic

import "fmt"

const (
	// APIPort is the Ceramic HTTP API port.
	APIPort = 7007
	// RustRPCPort is the IPFS RPC port of the ceramic-one sidecar.
	RustRPCPort = 5101
	// GoRPCPort is the IPFS RPC port of the kubo sidecar.
	GoRPCPort = 5001
	// SwarmPort is the libp2p swarm port of either sidecar.
	SwarmPort = 4001
)

// Info carries the deterministic names of one Ceramic variant.
type Info struct {
	Replicas    int32
	StatefulSet string
	Service     string

	suffix string
}

// NewInfo returns the identifying names for the variant with the given
// suffix. Names are deterministic for a given suffix.
func NewInfo(suffix string, replicas int32) Info {
	return Info{
		Replicas:    replicas,
		StatefulSet: "ceramic-" + suffix,
		Service:     "ceramic-" + suffix,
		suffix:      suffix,
	}
}

// NewName derives a per-variant name from the given base name.
func (i Info) NewName(name string) string {
	return fmt.Sprintf("%s-%s", name, i.suffix)
}

// PodName returns the name of the pod at the given ordinal.
func (i Info) PodName(peer int32) string {
	return fmt.Sprintf("%s-%d", i.StatefulSet, peer)
}

// IpfsRpcAddr returns the in-cluster IPFS RPC address of the peer at the
// given ordinal.
func (i Info) IpfsRpcAddr(ns string, peer int32, port int32) string {
	return fmt.Sprintf("http://%s-%d.%s.%s.svc.cluster.local:%d",
		i.StatefulSet, peer, i.Service, ns, port)
}

// CeramicAddr returns the in-cluster Ceramic API address of the peer at the
// given ordinal.
func (i Info) CeramicAddr(ns string, peer int32) string {
	return fmt.Sprintf("http://%s-%d.%s.%s.svc.cluster.local:%d",
		i.StatefulSet, peer, i.Service, ns, APIPort)
}
