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
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/us3r-network/keramik/internal/ceramic"
)

// RedisStatefulSetName gates the runner jobs until the queue is ready.
const RedisStatefulSetName = "redis"

// RedisService renders the work queue service.
func RedisService(ns string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      RedisStatefulSetName,
			Namespace: ns,
			Labels:    ceramic.Labels("redis"),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  ceramic.SelectorLabels("redis"),
			Ports: []corev1.ServicePort{
				{Name: "redis", Port: 6379},
			},
		},
	}
}

// RedisStatefulSet renders the work queue shared by manager and workers.
func RedisStatefulSet(ns string) *appsv1.StatefulSet {
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      RedisStatefulSetName,
			Namespace: ns,
			Labels:    ceramic.Labels("redis"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: ceramic.SelectorLabels("redis")},
			ServiceName: RedisStatefulSetName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: ceramic.Labels("redis"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "redis",
						Image:           "redis:7-alpine",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Ports: []corev1.ContainerPort{
							{ContainerPort: 6379, Name: "redis"},
						},
					}},
				},
			},
		},
	}
}
