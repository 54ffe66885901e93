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
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// PostgresStatefulSet renders the shared postgres backing all variants
// that selected the postgres state store.
func PostgresStatefulSet(ns string, cfg PostgresConfig) *appsv1.StatefulSet {
	limits := ResourceLimitsConfig{
		CPU:     resource.MustParse("1"),
		Memory:  resource.MustParse("1Gi"),
		Storage: resource.MustParse("2Gi"),
	}
	requests := ResourceLimitsConfig{
		CPU:     resource.MustParse("1"),
		Memory:  resource.MustParse("512Mi"),
		Storage: resource.MustParse("2Gi"),
	}
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PostgresServiceName,
			Namespace: ns,
			Labels:    Labels(PostgresApp),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: SelectorLabels(PostgresApp)},
			ServiceName: PostgresServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: SelectorLabels(PostgresApp),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "postgres",
						Image:           "postgres:15-alpine",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Env: []corev1.EnvVar{
							{Name: "POSTGRES_DB", Value: cfg.Name},
							{Name: "POSTGRES_PASSWORD", Value: cfg.Password},
							{Name: "POSTGRES_USER", Value: cfg.User},
						},
						Ports: []corev1.ContainerPort{
							{ContainerPort: 5432, Name: "postgres"},
						},
						Resources: corev1.ResourceRequirements{
							Limits:   limits.ResourceList(),
							Requests: requests.ResourceList(),
						},
						VolumeMounts: []corev1.VolumeMount{{
							MountPath: "/var/lib/postgresql",
							Name:      "postgres-data",
							SubPath:   "ceramic_data",
						}},
					}},
					SecurityContext: &corev1.PodSecurityContext{
						FSGroup:    ptrInt64(70),
						RunAsGroup: ptrInt64(70),
						RunAsUser:  ptrInt64(70),
					},
					Volumes: []corev1.Volume{{
						Name: "postgres-data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: "postgres-data",
							},
						},
					}},
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				pvc("postgres-data", "10Gi"),
			},
		},
	}
}

// PostgresService renders the shared postgres ClusterIP service.
func PostgresService(ns string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PostgresServiceName,
			Namespace: ns,
			Labels:    Labels(PostgresApp),
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: SelectorLabels(PostgresApp),
			Ports: []corev1.ServicePort{{
				Name:       "postgres",
				Port:       5432,
				TargetPort: intstr.FromInt32(5432),
			}},
		},
	}
}
