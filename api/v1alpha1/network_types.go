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

import (
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NetworkSpec defines the desired state of an ephemeral Ceramic network.
type NetworkSpec struct {
	// Total number of Ceramic peers to run, distributed across the declared
	// variants by weight.
	// +kubebuilder:default=1
	// +kubebuilder:validation:Minimum=0
	Replicas int32 `json:"replicas"`

	// Seconds after creation at which the network deletes itself.
	// Unset means the network lives until deleted.
	// +kubebuilder:validation:Minimum=60
	// +optional
	TTLSeconds *int64 `json:"ttlSeconds,omitempty"`

	// Name of a secret holding the hex-encoded admin private key to seed the
	// network with. When unset a fresh key is generated.
	// +optional
	PrivateKeySecret *string `json:"privateKeySecret,omitempty"`

	// Ceramic network to join.
	// +kubebuilder:validation:Enum=local;dev-unstable;testnet-clay;mainnet
	// +optional
	NetworkType *string `json:"networkType,omitempty"`

	// Pubsub topic peers subscribe to. Defaults to the local network topic.
	// +optional
	PubsubTopic *string `json:"pubsubTopic,omitempty"`

	// Ethereum RPC endpoint for anchoring. Defaults to the in-network ganache.
	// +optional
	EthRPCURL *string `json:"ethRpcUrl,omitempty"`

	// Ceramic Anchor Service API endpoint. Defaults to the in-network CAS.
	// +optional
	CasAPIURL *string `json:"casApiUrl,omitempty"`

	// Ceramic variants to run. Empty means a single default variant.
	// +optional
	Ceramic []CeramicSpec `json:"ceramic,omitempty"`

	// Overrides for the in-network Ceramic Anchor Service.
	// +optional
	CAS *CasSpec `json:"cas,omitempty"`

	// DataDog agent injection for all managed pods.
	// +optional
	Datadog *DataDogSpec `json:"datadog,omitempty"`

	// Bootstrap job connecting peers to each other. Enabled by default.
	// +optional
	Bootstrap *BootstrapSpec `json:"bootstrap,omitempty"`
}

// CeramicSpec describes one weighted variant of the Ceramic workload.
type CeramicSpec struct {
	// +optional
	Image *string `json:"image,omitempty"`

	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *string `json:"imagePullPolicy,omitempty"`

	// Relative share of the network's replicas this variant receives.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Weight *int32 `json:"weight,omitempty"`

	// IPFS implementation backing this variant. Defaults to Rust.
	// +optional
	IPFS *IpfsSpec `json:"ipfs,omitempty"`

	// State store backing this variant. Defaults to inmemory.
	// +optional
	DB *DatabaseSpec `json:"db,omitempty"`

	// Extra environment for the Ceramic container, overriding defaults by name.
	// +optional
	Env map[string]string `json:"env,omitempty"`

	// +optional
	ResourceLimits *ResourceLimitsSpec `json:"resourceLimits,omitempty"`
}

// DatabaseSpec selects the Ceramic state store.
type DatabaseSpec struct {
	// +kubebuilder:validation:Enum=inmemory;postgres
	// +kubebuilder:default=inmemory
	Kind string `json:"kind"`

	// Postgres credentials, required when kind is postgres.
	// +optional
	User *string `json:"user,omitempty"`
	// +optional
	Password *string `json:"password,omitempty"`
	// Database name. Defaults to ceramic.
	// +optional
	Name *string `json:"name,omitempty"`
}

// IpfsSpec is a union: exactly one of rust or go may be set.
// An empty value selects the Rust implementation with defaults.
type IpfsSpec struct {
	// +optional
	Rust *RustIpfsSpec `json:"rust,omitempty"`
	// +optional
	Go *GoIpfsSpec `json:"go,omitempty"`
}

// RustIpfsSpec configures the ceramic-one sidecar.
type RustIpfsSpec struct {
	// +optional
	Image *string `json:"image,omitempty"`
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *string `json:"imagePullPolicy,omitempty"`
	// Extra environment, overriding defaults by name.
	// +optional
	Env map[string]string `json:"env,omitempty"`
	// Command run once before the daemon to migrate existing blocks.
	// +optional
	MigrationCmd []string `json:"migrationCmd,omitempty"`
	// +optional
	ResourceLimits *ResourceLimitsSpec `json:"resourceLimits,omitempty"`
}

// GoIpfsSpec configures the kubo sidecar.
type GoIpfsSpec struct {
	// +optional
	Image *string `json:"image,omitempty"`
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *string `json:"imagePullPolicy,omitempty"`
	// Shell commands run by an init script against the kubo repo before start.
	// +optional
	Commands []string `json:"commands,omitempty"`
	// +optional
	ResourceLimits *ResourceLimitsSpec `json:"resourceLimits,omitempty"`
}

// ResourceLimitsSpec bounds a single container.
type ResourceLimitsSpec struct {
	// +optional
	CPU *resource.Quantity `json:"cpu,omitempty"`
	// +optional
	Memory *resource.Quantity `json:"memory,omitempty"`
	// +optional
	Storage *resource.Quantity `json:"storage,omitempty"`
}

// CasSpec overrides the in-network Ceramic Anchor Service workloads.
type CasSpec struct {
	// +optional
	Image *string `json:"image,omitempty"`
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *string `json:"imagePullPolicy,omitempty"`
	// +optional
	IpfsImage *string `json:"ipfsImage,omitempty"`
	// +optional
	ResourceLimits *ResourceLimitsSpec `json:"resourceLimits,omitempty"`
}

// DataDogSpec enables DataDog agent injection on managed pods.
type DataDogSpec struct {
	// +kubebuilder:default=false
	// +optional
	Enabled bool `json:"enabled,omitempty"`
	// Version tag reported to DataDog.
	// +optional
	Version *string `json:"version,omitempty"`
	// +kubebuilder:default=false
	// +optional
	ProfilingEnabled bool `json:"profilingEnabled,omitempty"`
}

// BootstrapSpec configures the job that connects new peers to the network.
type BootstrapSpec struct {
	// +kubebuilder:default=true
	// +optional
	Enabled *bool `json:"enabled,omitempty"`
	// +optional
	Image *string `json:"image,omitempty"`
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *string `json:"imagePullPolicy,omitempty"`
}

// NetworkStatus defines the observed state of a Network.
type NetworkStatus struct {
	// Total Ceramic replicas desired across all variants.
	Replicas int32 `json:"replicas"`

	// Ceramic peers that completed discovery in the last pass.
	ReadyReplicas int32 `json:"readyReplicas"`

	// Namespace holding the network's resources.
	// +optional
	Namespace *string `json:"namespace,omitempty"`

	// Discovered peers, in variant then ordinal order.
	// +optional
	Peers []Peer `json:"peers,omitempty"`

	// Time at which the network deletes itself, when ttlSeconds is set.
	// +optional
	ExpirationTime *metav1.Time `json:"expirationTime,omitempty"`

	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Replicas",type="integer",JSONPath=".status.replicas"
// +kubebuilder:printcolumn:name="Ready",type="integer",JSONPath=".status.readyReplicas"
// +kubebuilder:printcolumn:name="Namespace",type="string",JSONPath=".status.namespace"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// Network is the Schema for the networks API.
type Network struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   NetworkSpec   `json:"spec,omitempty"`
	Status NetworkStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// NetworkList contains a list of Network.
type NetworkList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Network `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Network{}, &NetworkList{})
}
