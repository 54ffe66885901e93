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
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/us3r-network/keramik/internal/ceramic"
)

// WorkerConfig is the per-peer slice of a simulation run.
type WorkerConfig struct {
	Scenario   string
	TargetPeer int
	Nonce      int32
	LogLevel   string
	Image      JobImageConfig
}

// WorkerJobFor names the worker job assigned to a peer index.
func WorkerJobFor(peer int) string {
	return fmt.Sprintf("%s-%d", WorkerJobName, peer)
}

// WorkerJob builds the job driving load against a single peer.
func WorkerJob(namespace string, cfg WorkerConfig) *batchv1.Job {
	env := runnerBaseEnv(cfg.Scenario, cfg.Nonce, cfg.LogLevel)
	env = append(env,
		corev1.EnvVar{Name: "SIMULATE_MANAGER", Value: "false"},
		corev1.EnvVar{Name: "SIMULATE_TARGET_PEER", Value: fmt.Sprintf("%d", cfg.TargetPeer)},
	)

	volume, mount := peersVolume()
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      WorkerJobFor(cfg.TargetPeer),
			Namespace: namespace,
			Labels:    ceramic.ManagedLabels(),
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: ptrInt32(4),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{"name": "goose"},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:            "worker",
							Image:           cfg.Image.Image,
							ImagePullPolicy: corev1.PullPolicy(cfg.Image.ImagePullPolicy),
							Command:         []string{"/usr/bin/keramik-runner", "simulate"},
							Env:             env,
							VolumeMounts:    []corev1.VolumeMount{mount},
						},
					},
					RestartPolicy: corev1.RestartPolicyNever,
					Volumes:       []corev1.Volume{volume},
				},
			},
		},
	}
}
