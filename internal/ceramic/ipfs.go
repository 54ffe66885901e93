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
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

const (
	ipfsContainerName = "ipfs"
	ipfsDataVolume    = "ipfs-data"
)

// IpfsConfig is the resolved IPFS implementation of one variant. Exactly
// two implementations exist: RustIpfsConfig and GoIpfsConfig.
type IpfsConfig interface {
	// RPCPort is the port the implementation serves its RPC API on.
	RPCPort() int32

	container(info Info) corev1.Container
	initContainer() *corev1.Container
	configMapData(info Info) map[string]map[string]string
	volumes(info Info) []corev1.Volume
}

// ipfsConfigFrom resolves the union spec. Absent means Rust with defaults.
func ipfsConfigFrom(spec keramikv1alpha1.IpfsSpec) (IpfsConfig, error) {
	switch {
	case spec.Rust != nil && spec.Go != nil:
		return nil, NewConfigError("ipfs", "rust and go are mutually exclusive")
	case spec.Go != nil:
		return goIpfsFrom(*spec.Go), nil
	case spec.Rust != nil:
		return rustIpfsFrom(*spec.Rust), nil
	}
	return defaultRustIpfs(), nil
}

// RustIpfsConfig runs the ceramic-one sidecar.
type RustIpfsConfig struct {
	Image           string
	ImagePullPolicy string
	ResourceLimits  ResourceLimitsConfig
	RustLog         string
	Env             map[string]string
	MigrationCmd    []string
}

func defaultRustIpfs() RustIpfsConfig {
	return RustIpfsConfig{
		Image:           defaultRustIpfsImage,
		ImagePullPolicy: "Always",
		ResourceLimits: ResourceLimitsConfig{
			CPU:     resource.MustParse("250m"),
			Memory:  resource.MustParse("512Mi"),
			Storage: resource.MustParse("1Gi"),
		},
		RustLog: defaultRustLog,
	}
}

func rustIpfsFrom(spec keramikv1alpha1.RustIpfsSpec) RustIpfsConfig {
	cfg := defaultRustIpfs()
	if spec.Image != nil {
		cfg.Image = *spec.Image
	}
	if spec.ImagePullPolicy != nil {
		cfg.ImagePullPolicy = *spec.ImagePullPolicy
	}
	cfg.ResourceLimits = resourceLimits(spec.ResourceLimits, cfg.ResourceLimits)
	cfg.Env = spec.Env
	cfg.MigrationCmd = spec.MigrationCmd
	return cfg
}

func (c RustIpfsConfig) RPCPort() int32 { return RustRPCPort }

func (c RustIpfsConfig) container(_ Info) corev1.Container {
	env := []corev1.EnvVar{
		{Name: "RUST_LOG", Value: c.RustLog},
		{Name: "CERAMIC_ONE_BIND_ADDRESS", Value: fmt.Sprintf("0.0.0.0:%d", RustRPCPort)},
		{Name: "CERAMIC_ONE_METRICS", Value: "true"},
		{Name: "CERAMIC_ONE_METRICS_BIND_ADDRESS", Value: "0.0.0.0:9465"},
		{Name: "CERAMIC_ONE_SWARM_ADDRESSES", Value: fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", SwarmPort)},
		{Name: "CERAMIC_ONE_STORE_DIR", Value: "/data/ipfs"},
		{Name: "CERAMIC_ONE_NETWORK", Value: LocalNetworkType},
		// Hard coded network id, nodes from other networks cannot connect.
		{Name: "CERAMIC_ONE_LOCAL_NETWORK_ID", Value: "0"},
		{Name: "CERAMIC_ONE_KADEMLIA_REPLICATION", Value: "6"},
		{Name: "CERAMIC_ONE_KADEMLIA_PARALLELISM", Value: "1"},
	}
	env = sortEnv(applyEnvOverrides(env, c.Env))
	return corev1.Container{
		Name:            ipfsContainerName,
		Image:           c.Image,
		ImagePullPolicy: corev1.PullPolicy(c.ImagePullPolicy),
		Env:             env,
		Ports: []corev1.ContainerPort{
			{ContainerPort: SwarmPort, Name: "swarm-tcp", Protocol: corev1.ProtocolTCP},
			{ContainerPort: RustRPCPort, Name: "rpc", Protocol: corev1.ProtocolTCP},
			{ContainerPort: 9465, Name: "metrics", Protocol: corev1.ProtocolTCP},
		},
		Resources: corev1.ResourceRequirements{
			Limits:   c.ResourceLimits.ResourceList(),
			Requests: c.ResourceLimits.ResourceList(),
		},
		VolumeMounts: []corev1.VolumeMount{
			{MountPath: "/data/ipfs", Name: ipfsDataVolume},
		},
	}
}

// initContainer returns a one-shot block migration container when a
// migration command is configured.
func (c RustIpfsConfig) initContainer() *corev1.Container {
	if len(c.MigrationCmd) == 0 {
		return nil
	}
	return &corev1.Container{
		Name:            "ipfs-migration",
		Image:           c.Image,
		ImagePullPolicy: corev1.PullPolicy(c.ImagePullPolicy),
		Command:         append([]string{"/usr/bin/ceramic-one"}, c.MigrationCmd...),
		Env: []corev1.EnvVar{
			{Name: "CERAMIC_ONE_STORE_DIR", Value: "/data/ipfs"},
		},
		VolumeMounts: []corev1.VolumeMount{
			{MountPath: "/data/ipfs", Name: ipfsDataVolume},
		},
	}
}

func (c RustIpfsConfig) configMapData(_ Info) map[string]map[string]string { return nil }

func (c RustIpfsConfig) volumes(_ Info) []corev1.Volume { return nil }

// GoIpfsConfig runs the kubo sidecar.
type GoIpfsConfig struct {
	Image           string
	ImagePullPolicy string
	ResourceLimits  ResourceLimitsConfig
	Commands        []string
}

func defaultGoIpfs() GoIpfsConfig {
	return GoIpfsConfig{
		Image:           defaultGoIpfsImage,
		ImagePullPolicy: "IfNotPresent",
		ResourceLimits: ResourceLimitsConfig{
			CPU:     resource.MustParse("1"),
			Memory:  resource.MustParse("2Gi"),
			Storage: resource.MustParse("2Gi"),
		},
	}
}

func goIpfsFrom(spec keramikv1alpha1.GoIpfsSpec) GoIpfsConfig {
	cfg := defaultGoIpfs()
	if spec.Image != nil {
		cfg.Image = *spec.Image
	}
	if spec.ImagePullPolicy != nil {
		cfg.ImagePullPolicy = *spec.ImagePullPolicy
	}
	cfg.ResourceLimits = resourceLimits(spec.ResourceLimits, cfg.ResourceLimits)
	cfg.Commands = spec.Commands
	return cfg
}

func (c GoIpfsConfig) RPCPort() int32 { return GoRPCPort }

const goIpfsBaseScript = `#!/bin/sh
set -ex
# Do not bootstrap against public nodes
ipfs bootstrap rm all
# Do not sticky peer with ceramic specific peers
# We want an isolated network
ipfs config --json Peering.Peers '[]'
# Disable the gateway
ipfs config  --json Addresses.Gateway '[]'
# Enable pubsub
ipfs config  --json PubSub.Enabled true
# Only listen on specific tcp address as nothing else is exposed
ipfs config  --json Addresses.Swarm '["/ip4/0.0.0.0/tcp/4001"]'
# Set explicit resource manager limits as Kubo computes them based off
# the k8s node resources and not the pods limits.
ipfs config Swarm.ResourceMgr.MaxMemory '400 MB'
ipfs config --json Swarm.ResourceMgr.MaxFileDescriptors 500000
`

func (c GoIpfsConfig) configMapData(info Info) map[string]map[string]string {
	data := map[string]string{
		"001-config.sh": goIpfsBaseScript,
	}
	if len(c.Commands) > 0 {
		data["002-config.sh"] = strings.Join(append([]string{"#!/bin/sh", "set -ex"}, c.Commands...), "\n")
	}
	return map[string]map[string]string{
		info.NewName("ipfs-container-init"): data,
	}
}

func (c GoIpfsConfig) container(info Info) corev1.Container {
	mounts := []corev1.VolumeMount{
		{MountPath: "/data/ipfs", Name: ipfsDataVolume},
		{
			MountPath: "/container-init.d/001-config.sh",
			Name:      info.NewName("ipfs-container-init"),
			// Explicit subpath, otherwise k8s uses symlinks which break
			// kubo's init logic.
			SubPath: "001-config.sh",
		},
	}
	if len(c.Commands) > 0 {
		mounts = append(mounts, corev1.VolumeMount{
			MountPath: "/container-init.d/002-config.sh",
			Name:      info.NewName("ipfs-container-init"),
			SubPath:   "002-config.sh",
		})
	}
	return corev1.Container{
		Name:            ipfsContainerName,
		Image:           c.Image,
		ImagePullPolicy: corev1.PullPolicy(c.ImagePullPolicy),
		Ports: []corev1.ContainerPort{
			{ContainerPort: SwarmPort, Name: "swarm-tcp", Protocol: corev1.ProtocolTCP},
			{ContainerPort: GoRPCPort, Name: "rpc", Protocol: corev1.ProtocolTCP},
			{ContainerPort: 9465, Name: "metrics", Protocol: corev1.ProtocolTCP},
		},
		Resources: corev1.ResourceRequirements{
			Limits:   c.ResourceLimits.ResourceList(),
			Requests: c.ResourceLimits.ResourceList(),
		},
		VolumeMounts: mounts,
	}
}

func (c GoIpfsConfig) initContainer() *corev1.Container { return nil }

func (c GoIpfsConfig) volumes(info Info) []corev1.Volume {
	return []corev1.Volume{{
		Name: info.NewName("ipfs-container-init"),
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				DefaultMode:          ptrInt32(0o755),
				LocalObjectReference: corev1.LocalObjectReference{Name: info.NewName("ipfs-container-init")},
			},
		},
	}}
}
