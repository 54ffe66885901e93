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

package simulation

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"

	"github.com/us3r-network/keramik/internal/ceramic"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

const (
	// ManagerServiceName is the headless service the workers find the
	// manager under.
	ManagerServiceName = "goose"
	// ManagerJobName coordinates the run.
	ManagerJobName = "simulate-manager"
	// WorkerJobName prefixes the per-peer worker jobs.
	WorkerJobName = "simulate-worker"

	defaultJobImage = "keramik/runner:dev"

	// Well known test DID, usable only inside an isolated network.
	simulationDIDKey     = "did:key:z6Mkqn5jbycThHcBtakJZ8fHBQ2oVRQhXQEdQk5ZK2NDtNZA"
	simulationDIDPrivKey = "86dce513cf0a37d4acd6d2c2e00fe4b95e0e655ca51e1a890808f5fa6f4fe65a"
)

// JobImageConfig is the resolved runner image for manager and workers.
type JobImageConfig struct {
	Image           string
	ImagePullPolicy string
}

// JobImageConfigFrom resolves the image settings of the simulation spec.
func JobImageConfigFrom(spec *keramikv1alpha1.SimulationSpec) JobImageConfig {
	cfg := JobImageConfig{
		Image:           defaultJobImage,
		ImagePullPolicy: "IfNotPresent",
	}
	if spec.Image != nil {
		cfg.Image = *spec.Image
	}
	if spec.ImagePullPolicy != nil {
		cfg.ImagePullPolicy = *spec.ImagePullPolicy
	}
	return cfg
}

func formatInt32(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

// runnerBaseEnv is the env shared by the manager and worker jobs.
func runnerBaseEnv(scenario string, nonce int32, logLevel string) []corev1.EnvVar {
	rustLog := "info,keramik_runner=trace"
	if logLevel != "" {
		rustLog = logLevel
	}
	return []corev1.EnvVar{
		{Name: "RUNNER_OTLP_ENDPOINT", Value: "http://otel:4317"},
		{Name: "RUST_LOG", Value: rustLog},
		{Name: "RUST_BACKTRACE", Value: "1"},
		{Name: "SIMULATE_SCENARIO", Value: scenario},
		{Name: "SIMULATE_PEERS_PATH", Value: "/keramik-peers/" + ceramic.PeersKey},
		{Name: "SIMULATE_NONCE", Value: formatInt32(nonce)},
		{Name: "DID_KEY", Value: simulationDIDKey},
		{Name: "DID_PRIVATE_KEY", Value: simulationDIDPrivKey},
	}
}

// peersVolume mounts the peer registry into a runner pod.
func peersVolume() (corev1.Volume, corev1.VolumeMount) {
	volume := corev1.Volume{
		Name: ceramic.PeersConfigMapName,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: ceramic.PeersConfigMapName},
			},
		},
	}
	mount := corev1.VolumeMount{
		MountPath: "/keramik-peers",
		Name:      ceramic.PeersConfigMapName,
	}
	return volume, mount
}
