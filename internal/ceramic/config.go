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

	"github.com/samber/lo"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

const (
	// LocalNetworkType is the default, fully in-cluster network type.
	LocalNetworkType = "local"

	// DBTypeInMemory selects the sqlite state store.
	DBTypeInMemory = "inmemory"
	// DBTypePostgres selects the shared postgres state store.
	DBTypePostgres = "postgres"

	// InitConfigMapName is the ConfigMap holding the daemon init script
	// and config template.
	InitConfigMapName = "ceramic-init"

	// PostgresServiceName is the shared postgres service.
	PostgresServiceName = "ceramic-postgres"

	// GanacheServiceName is the in-network Ethereum RPC service.
	GanacheServiceName = "ganache"
	// CASServiceName is the in-network Ceramic Anchor Service.
	CASServiceName = "cas"

	defaultCeramicImage  = "ceramicnetwork/composedb:latest"
	defaultRustIpfsImage = "public.ecr.aws/r5b3e0r5/3box/ceramic-one:latest"
	defaultGoIpfsImage   = "ipfs/kubo:v0.19.1@sha256:c4527752a2130f55090be89ade8dde8f8a5328ec72570676b90f66e2cabf827d"
	defaultRustLog       = "info,ceramic_one=debug,tracing_actix_web=debug,quinn_proto=error"
)

// NetworkConfig is the fully defaulted network level configuration.
type NetworkConfig struct {
	PrivateKeySecret string
	NetworkType      string
	PubsubTopic      string
	EthRPCURL        string
	CasAPIURL        string
}

// DefaultNetworkConfig returns the network configuration for a local network.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		NetworkType: LocalNetworkType,
		PubsubTopic: "/ceramic/local-keramik",
		EthRPCURL:   fmt.Sprintf("http://%s:8545", GanacheServiceName),
		CasAPIURL:   fmt.Sprintf("http://%s:8081", CASServiceName),
	}
}

// NetworkConfigFrom resolves the network level spec against defaults.
func NetworkConfigFrom(spec *keramikv1alpha1.NetworkSpec) NetworkConfig {
	cfg := DefaultNetworkConfig()
	if spec.PrivateKeySecret != nil {
		cfg.PrivateKeySecret = *spec.PrivateKeySecret
	}
	if spec.NetworkType != nil {
		cfg.NetworkType = *spec.NetworkType
	}
	if spec.PubsubTopic != nil {
		cfg.PubsubTopic = *spec.PubsubTopic
	}
	if spec.EthRPCURL != nil {
		cfg.EthRPCURL = *spec.EthRPCURL
	}
	if spec.CasAPIURL != nil {
		cfg.CasAPIURL = *spec.CasAPIURL
	}
	return cfg
}

// ResourceLimitsConfig bounds a container, fully defaulted.
type ResourceLimitsConfig struct {
	CPU     resource.Quantity
	Memory  resource.Quantity
	Storage resource.Quantity
}

// resourceLimits resolves a limits spec against the given defaults.
func resourceLimits(spec *keramikv1alpha1.ResourceLimitsSpec, defaults ResourceLimitsConfig) ResourceLimitsConfig {
	if spec == nil {
		return defaults
	}
	cfg := defaults
	if spec.CPU != nil {
		cfg.CPU = *spec.CPU
	}
	if spec.Memory != nil {
		cfg.Memory = *spec.Memory
	}
	if spec.Storage != nil {
		cfg.Storage = *spec.Storage
	}
	return cfg
}

// ResourceList converts the limits into a kubernetes resource list.
func (r ResourceLimitsConfig) ResourceList() corev1.ResourceList {
	return corev1.ResourceList{
		corev1.ResourceCPU:              r.CPU,
		corev1.ResourceMemory:           r.Memory,
		corev1.ResourceEphemeralStorage: r.Storage,
	}
}

// PostgresConfig carries the resolved per-variant postgres backend settings.
type PostgresConfig struct {
	Name     string
	User     string
	Password string
}

// ConnectionString renders the daemon's database URL.
func (p PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:5432/%s", p.User, p.Password, PostgresServiceName, p.Name)
}

// Config is one fully defaulted Ceramic variant.
type Config struct {
	Weight               int32
	InitConfigMap        string
	Image                string
	ImagePullPolicy      string
	IPFS                 IpfsConfig
	Env                  map[string]string
	ResourceLimits       ResourceLimitsConfig
	DBType               string
	Postgres             PostgresConfig
	EnableHistoricalSync bool
}

// DefaultConfig returns the variant configuration used when the spec
// declares nothing.
func DefaultConfig() Config {
	return Config{
		Weight:          1,
		InitConfigMap:   InitConfigMapName,
		Image:           defaultCeramicImage,
		ImagePullPolicy: "Always",
		IPFS:            defaultRustIpfs(),
		ResourceLimits: ResourceLimitsConfig{
			CPU:     resource.MustParse("250m"),
			Memory:  resource.MustParse("1Gi"),
			Storage: resource.MustParse("1Gi"),
		},
		DBType:               DBTypeInMemory,
		EnableHistoricalSync: true,
	}
}

// configFrom resolves one variant spec against defaults.
func configFrom(spec keramikv1alpha1.CeramicSpec) (Config, error) {
	cfg := DefaultConfig()
	if spec.Weight != nil {
		cfg.Weight = *spec.Weight
	}
	if spec.Image != nil {
		cfg.Image = *spec.Image
	}
	if spec.ImagePullPolicy != nil {
		cfg.ImagePullPolicy = *spec.ImagePullPolicy
	}
	if spec.IPFS != nil {
		ipfs, err := ipfsConfigFrom(*spec.IPFS)
		if err != nil {
			return Config{}, err
		}
		cfg.IPFS = ipfs
	}
	cfg.Env = spec.Env
	cfg.ResourceLimits = resourceLimits(spec.ResourceLimits, cfg.ResourceLimits)
	if spec.DB != nil {
		cfg.DBType = spec.DB.Kind
		if cfg.DBType == DBTypePostgres {
			if spec.DB.User == nil || spec.DB.Password == nil {
				return Config{}, NewConfigError("db", "postgres backend requires user and password")
			}
			cfg.Postgres = PostgresConfig{
				Name:     "ceramic",
				User:     *spec.DB.User,
				Password: *spec.DB.Password,
			}
			if spec.DB.Name != nil {
				cfg.Postgres.Name = *spec.DB.Name
			}
		}
	}
	return cfg, nil
}

// Configs is the resolved list of variants for a network.
type Configs []Config

// ConfigsFrom resolves all declared variants, or a single default variant
// when none are declared. Resolution is deterministic and does no I/O.
func ConfigsFrom(specs []keramikv1alpha1.CeramicSpec) (Configs, error) {
	if len(specs) == 0 {
		return Configs{DefaultConfig()}, nil
	}
	configs := make(Configs, 0, len(specs))
	for i, spec := range specs {
		cfg, err := configFrom(spec)
		if err != nil {
			return nil, fmt.Errorf("ceramic[%d]: %w", i, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// UsesPostgres reports whether any variant needs the shared postgres.
func (c Configs) UsesPostgres() bool {
	return lo.SomeBy(c, func(cfg Config) bool { return cfg.DBType == DBTypePostgres })
}

// Replicas distributes the desired total across variants proportionally to
// weight. The result always sums to total; zero weight gets zero; any
// rounding remainder goes to the earliest variants with positive weight.
func (c Configs) Replicas(total int32) []int32 {
	totalWeight := lo.SumBy(c, func(cfg Config) int64 { return int64(cfg.Weight) })
	replicas := make([]int32, len(c))
	if totalWeight == 0 || total == 0 {
		return replicas
	}
	var assigned int32
	for i, cfg := range c {
		replicas[i] = int32(int64(total) * int64(cfg.Weight) / totalWeight)
		assigned += replicas[i]
	}
	for i := 0; assigned < total; i = (i + 1) % len(c) {
		if c[i].Weight > 0 {
			replicas[i]++
			assigned++
		}
	}
	return replicas
}
