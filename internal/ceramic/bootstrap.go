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
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

// BootstrapJobName is the job connecting new peers to the network.
const BootstrapJobName = "bootstrap"

const defaultRunnerImage = "public.ecr.aws/r5b3e0r5/3box/keramik-runner:latest"

// BootstrapConfig is the resolved bootstrap job configuration.
type BootstrapConfig struct {
	Enabled         bool
	Image           string
	ImagePullPolicy string
	Method          string
}

// BootstrapFrom resolves the optional bootstrap spec. Bootstrap defaults
// to enabled with the ring method.
func BootstrapFrom(spec *keramikv1alpha1.BootstrapSpec) BootstrapConfig {
	cfg := BootstrapConfig{
		Enabled:         true,
		Image:           defaultRunnerImage,
		ImagePullPolicy: "Always",
		Method:          "ring",
	}
	if spec == nil {
		return cfg
	}
	if spec.Enabled != nil {
		cfg.Enabled = *spec.Enabled
	}
	if spec.Image != nil {
		cfg.Image = *spec.Image
	}
	if spec.ImagePullPolicy != nil {
		cfg.ImagePullPolicy = *spec.ImagePullPolicy
	}
	return cfg
}

// BootstrapJob renders the job that dials every peer into the network
// using the peer registry ConfigMap.
func BootstrapJob(ns string, cfg BootstrapConfig) *batchv1.Job {
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      BootstrapJobName,
			Namespace: ns,
			Labels:    Labels("bootstrap"),
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: ptrInt32(4),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: Labels("bootstrap"),
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{{
						Name:            "bootstrap",
						Image:           cfg.Image,
						ImagePullPolicy: corev1.PullPolicy(cfg.ImagePullPolicy),
						Command:         []string{"/usr/bin/keramik-runner", "bootstrap"},
						Env: []corev1.EnvVar{
							{Name: "BOOTSTRAP_METHOD", Value: cfg.Method},
							{Name: "BOOTSTRAP_PEERS_PATH", Value: "/keramik-peers/" + PeersKey},
							{Name: "RUST_LOG", Value: "info,keramik_runner=trace"},
							{Name: "RUST_BACKTRACE", Value: "1"},
						},
						VolumeMounts: []corev1.VolumeMount{
							{MountPath: "/keramik-peers", Name: PeersConfigMapName},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: PeersConfigMapName,
						VolumeSource: corev1.VolumeSource{
							ConfigMap: &corev1.ConfigMapVolumeSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: PeersConfigMapName},
							},
						},
					}},
				},
			},
		},
	}
}
