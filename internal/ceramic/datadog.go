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
	"strconv"

	corev1 "k8s.io/api/core/v1"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

// DataDogConfig is the resolved DataDog injection settings for a network.
type DataDogConfig struct {
	Enabled          bool
	Version          string
	ProfilingEnabled bool
}

// DataDogFrom resolves the optional datadog spec.
func DataDogFrom(spec *keramikv1alpha1.DataDogSpec) DataDogConfig {
	if spec == nil {
		return DataDogConfig{}
	}
	cfg := DataDogConfig{
		Enabled:          spec.Enabled,
		Version:          "0.1.0",
		ProfilingEnabled: spec.ProfilingEnabled,
	}
	if spec.Version != nil {
		cfg.Version = *spec.Version
	}
	return cfg
}

// InjectEnv appends the DataDog agent env vars when enabled.
func (d DataDogConfig) InjectEnv(env []corev1.EnvVar) []corev1.EnvVar {
	if !d.Enabled {
		return env
	}
	return append(env,
		corev1.EnvVar{
			Name: "DD_AGENT_HOST",
			ValueFrom: &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{FieldPath: "status.hostIP"},
			},
		},
		corev1.EnvVar{Name: "DD_RUNTIME_METRICS_ENABLED", Value: "true"},
		corev1.EnvVar{Name: "DD_PROFILING_ENABLED", Value: strconv.FormatBool(d.ProfilingEnabled)},
	)
}

// InjectLabels adds the unified service tags when enabled.
func (d DataDogConfig) InjectLabels(labels map[string]string, env, service string) {
	if !d.Enabled {
		return
	}
	labels["tags.datadoghq.com/env"] = env
	labels["tags.datadoghq.com/service"] = service
	labels["tags.datadoghq.com/version"] = d.Version
}

// InjectAnnotations marks the pod for agent admission when enabled.
func (d DataDogConfig) InjectAnnotations(annotations map[string]string) {
	if !d.Enabled {
		return
	}
	annotations["admission.datadoghq.com/enabled"] = "true"
}
