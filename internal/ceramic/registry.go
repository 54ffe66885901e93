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

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

const (
	// PeersConfigMapName is the peer registry ConfigMap.
	PeersConfigMapName = "keramik-peers"
	// PeersKey is the registry key inside PeersConfigMapName.
	PeersKey = "peers.json"
)

// PeersConfigMap renders the peer registry for the given peers, preserving
// their order.
func PeersConfigMap(ns string, peers []keramikv1alpha1.Peer) (*corev1.ConfigMap, error) {
	data, err := json.Marshal(peers)
	if err != nil {
		return nil, fmt.Errorf("marshaling peers: %w", err)
	}
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PeersConfigMapName,
			Namespace: ns,
			Labels:    ManagedLabels(),
		},
		Data: map[string]string{
			PeersKey: string(data),
		},
	}, nil
}

// ParsePeers decodes a peer registry document.
func ParsePeers(doc string) ([]keramikv1alpha1.Peer, error) {
	var peers []keramikv1alpha1.Peer
	if err := json.Unmarshal([]byte(doc), &peers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", PeersKey, err)
	}
	return peers, nil
}

// CeramicPeers filters the registry down to full Ceramic peers.
func CeramicPeers(peers []keramikv1alpha1.Peer) []keramikv1alpha1.CeramicPeerInfo {
	return lo.FilterMap(peers, func(p keramikv1alpha1.Peer, _ int) (keramikv1alpha1.CeramicPeerInfo, bool) {
		if p.Ceramic == nil {
			return keramikv1alpha1.CeramicPeerInfo{}, false
		}
		return *p.Ceramic, true
	})
}
