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
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/us3r-network/keramik/internal/ceramic"
)

// ManagerConfig collects everything the manager job needs to rendezvous
// with its workers and drive a run.
type ManagerConfig struct {
	Scenario             string
	Users                int32
	RunTimeMinutes       int32
	Nonce                int32
	ThrottleRequests     *int32
	SuccessRequestTarget *int32
	LogLevel             string
	Image                JobImageConfig
}

// ManagerService exposes the goose coordination port of the manager pod.
// It is headless so workers resolve the manager pod directly.
func ManagerService(namespace string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ManagerServiceName,
			Namespace: namespace,
			Labels:    ceramic.ManagedLabels(),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Ports: []corev1.ServicePort{
				{
					Name:       "manager",
					Port:       5115,
					Protocol:   corev1.ProtocolTCP,
					TargetPort: intstr.FromInt(5115),
				},
			},
			Selector: map[string]string{"name": "goose"},
		},
	}
}

// ManagerJob builds the coordinating job for a simulation run.
func ManagerJob(namespace string, cfg ManagerConfig) *batchv1.Job {
	env := runnerBaseEnv(cfg.Scenario, cfg.Nonce, cfg.LogLevel)
	env = append(env,
		corev1.EnvVar{Name: "SIMULATE_MANAGER", Value: "true"},
		corev1.EnvVar{Name: "SIMULATE_TARGET_PEER", Value: "0"},
		corev1.EnvVar{Name: "SIMULATE_USERS", Value: formatInt32(cfg.Users)},
		corev1.EnvVar{Name: "SIMULATE_RUN_TIME", Value: formatInt32(cfg.RunTimeMinutes) + "m"},
	)
	if cfg.ThrottleRequests != nil {
		env = append(env, corev1.EnvVar{
			Name:  "SIMULATE_THROTTLE_REQUESTS",
			Value: formatInt32(*cfg.ThrottleRequests),
		})
	}
	if cfg.SuccessRequestTarget != nil {
		env = append(env, corev1.EnvVar{
			Name:  "SIMULATE_TARGET_REQUESTS",
			Value: formatInt32(*cfg.SuccessRequestTarget),
		})
	}

	volume, mount := peersVolume()
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ManagerJobName,
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
					Hostname:  "manager",
					Subdomain: ManagerServiceName,
					Containers: []corev1.Container{
						{
							Name:            "manager",
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
