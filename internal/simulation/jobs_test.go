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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

func envMap(env []corev1.EnvVar) map[string]string {
	m := make(map[string]string, len(env))
	for _, e := range env {
		m[e.Name] = e.Value
	}
	return m
}

func int32Ptr(i int32) *int32 { return &i }

func TestJobImageConfigFrom(t *testing.T) {
	cfg := JobImageConfigFrom(&keramikv1alpha1.SimulationSpec{})
	assert.Equal(t, "keramik/runner:dev", cfg.Image)
	assert.Equal(t, "IfNotPresent", cfg.ImagePullPolicy)

	image := "example.com/runner:pr-42"
	policy := "Always"
	cfg = JobImageConfigFrom(&keramikv1alpha1.SimulationSpec{
		Image:           &image,
		ImagePullPolicy: &policy,
	})
	assert.Equal(t, image, cfg.Image)
	assert.Equal(t, policy, cfg.ImagePullPolicy)
}

func TestManagerJob(t *testing.T) {
	job := ManagerJob("keramik-test", ManagerConfig{
		Scenario:       "ceramic-simple",
		Users:          100,
		RunTimeMinutes: 10,
		Nonce:          42,
		Image:          JobImageConfigFrom(&keramikv1alpha1.SimulationSpec{}),
	})

	assert.Equal(t, ManagerJobName, job.Name)
	require.NotNil(t, job.Spec.BackoffLimit)
	assert.Equal(t, int32(4), *job.Spec.BackoffLimit)
	assert.Equal(t, corev1.RestartPolicyNever, job.Spec.Template.Spec.RestartPolicy)
	assert.Equal(t, "manager", job.Spec.Template.Spec.Hostname)
	assert.Equal(t, ManagerServiceName, job.Spec.Template.Spec.Subdomain)

	require.Len(t, job.Spec.Template.Spec.Containers, 1)
	container := job.Spec.Template.Spec.Containers[0]
	assert.Equal(t, []string{"/usr/bin/keramik-runner", "simulate"}, container.Command)

	env := envMap(container.Env)
	assert.Equal(t, "true", env["SIMULATE_MANAGER"])
	assert.Equal(t, "ceramic-simple", env["SIMULATE_SCENARIO"])
	assert.Equal(t, "/keramik-peers/peers.json", env["SIMULATE_PEERS_PATH"])
	assert.Equal(t, "0", env["SIMULATE_TARGET_PEER"])
	assert.Equal(t, "42", env["SIMULATE_NONCE"])
	assert.Equal(t, "100", env["SIMULATE_USERS"])
	assert.Equal(t, "10m", env["SIMULATE_RUN_TIME"])
	assert.Equal(t, "http://otel:4317", env["RUNNER_OTLP_ENDPOINT"])
	assert.NotEmpty(t, env["DID_KEY"])
	assert.NotEmpty(t, env["DID_PRIVATE_KEY"])
	assert.NotContains(t, env, "SIMULATE_THROTTLE_REQUESTS")
	assert.NotContains(t, env, "SIMULATE_TARGET_REQUESTS")
}

func TestManagerJob_OptionalEnv(t *testing.T) {
	job := ManagerJob("keramik-test", ManagerConfig{
		Scenario:             "ceramic-simple",
		Users:                10,
		RunTimeMinutes:       5,
		Nonce:                7,
		ThrottleRequests:     int32Ptr(100),
		SuccessRequestTarget: int32Ptr(5000),
		LogLevel:             "debug",
		Image:                JobImageConfigFrom(&keramikv1alpha1.SimulationSpec{}),
	})
	env := envMap(job.Spec.Template.Spec.Containers[0].Env)
	assert.Equal(t, "100", env["SIMULATE_THROTTLE_REQUESTS"])
	assert.Equal(t, "5000", env["SIMULATE_TARGET_REQUESTS"])
	assert.Equal(t, "debug", env["RUST_LOG"])
}

func TestManagerService(t *testing.T) {
	svc := ManagerService("keramik-test")
	assert.Equal(t, ManagerServiceName, svc.Name)
	assert.Equal(t, corev1.ClusterIPNone, svc.Spec.ClusterIP)
	require.Len(t, svc.Spec.Ports, 1)
	assert.Equal(t, int32(5115), svc.Spec.Ports[0].Port)
	assert.Equal(t, "goose", svc.Spec.Selector["name"])
}

func TestWorkerJob(t *testing.T) {
	image := JobImageConfigFrom(&keramikv1alpha1.SimulationSpec{})
	for _, peer := range []int{0, 1, 2} {
		job := WorkerJob("keramik-test", WorkerConfig{
			Scenario:   "ceramic-simple",
			TargetPeer: peer,
			Nonce:      42,
			Image:      image,
		})
		assert.Equal(t, WorkerJobFor(peer), job.Name)

		env := envMap(job.Spec.Template.Spec.Containers[0].Env)
		assert.Equal(t, "false", env["SIMULATE_MANAGER"])
		assert.Equal(t, "42", env["SIMULATE_NONCE"], "worker shares the manager nonce")
	}

	assert.Equal(t, "simulate-worker-2", WorkerJobFor(2))
}

func TestMonitoringNames(t *testing.T) {
	assert.Equal(t, "jaeger", JaegerStatefulSet("ns").Name)
	assert.Equal(t, "prometheus", PrometheusStatefulSet("ns").Name)
	assert.Equal(t, "opentelemetry", OtelStatefulSet("ns").Name)
	assert.Equal(t, "redis", RedisStatefulSet("ns").Name)
	assert.Equal(t, "otel-config", OtelConfigMap("ns").Name)
	assert.Equal(t, "prom-config", PrometheusConfigMap("ns").Name)
}
