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

// Package simulation renders the workloads of a load simulation run: the
// observability stack, the work queue and the runner jobs.
package simulation

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/us3r-network/keramik/internal/ceramic"
)

const (
	// JaegerServiceName serves the tracing UI and collector.
	JaegerServiceName = "jaeger"
	// OtelServiceName receives OTLP traffic from runners.
	OtelServiceName = "otel"

	// JaegerStatefulSetName, PromStatefulSetName and OtelStatefulSetName
	// gate the simulation until their readyReplicas are positive.
	JaegerStatefulSetName = "jaeger"
	PromStatefulSetName   = "prometheus"
	OtelStatefulSetName   = "opentelemetry"

	// OtelAccountName is the collector's service account.
	OtelAccountName = "monitoring-service-account"
	// OtelClusterRoleName grants the collector read access for scraping.
	OtelClusterRoleName = "monitoring-cluster-role"
	// OtelClusterRoleBindingName binds the role to the account.
	OtelClusterRoleBindingName = "monitoring-cluster-role-binding"

	// OtelConfigMapName holds the collector pipeline config.
	OtelConfigMapName = "otel-config"
	// PromConfigMapName holds the prometheus scrape config.
	PromConfigMapName = "prom-config"
)

const promConfig = `global:
  scrape_interval: 10s
  scrape_timeout: 5s

scrape_configs:
  - job_name: services
    metrics_path: /metrics
    honor_labels: true
    static_configs:
      - targets:
          - 'localhost:9090'
          - 'otel:9464'
`

const otelConfig = `receivers:
  otlp:
    protocols:
      grpc:
        endpoint: 0.0.0.0:4317

processors:
  batch:

exporters:
  prometheus:
    endpoint: 0.0.0.0:9464
  otlp/jaeger:
    endpoint: jaeger:4317
    tls:
      insecure: true

service:
  pipelines:
    traces:
      receivers: [otlp]
      processors: [batch]
      exporters: [otlp/jaeger]
    metrics:
      receivers: [otlp]
      processors: [batch]
      exporters: [prometheus]
`

// JaegerService renders the headless jaeger service.
func JaegerService(ns string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      JaegerServiceName,
			Namespace: ns,
			Labels:    ceramic.Labels("jaeger"),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  ceramic.SelectorLabels("jaeger"),
			Ports: []corev1.ServicePort{
				{Name: "otlp-grpc", Port: 4317},
				{Name: "ui", Port: 16686},
			},
		},
	}
}

// JaegerStatefulSet renders the all-in-one jaeger workload.
func JaegerStatefulSet(ns string) *appsv1.StatefulSet {
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      JaegerStatefulSetName,
			Namespace: ns,
			Labels:    ceramic.Labels("jaeger"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: ceramic.SelectorLabels("jaeger")},
			ServiceName: JaegerServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: ceramic.Labels("jaeger"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "jaeger",
						Image:           "jaegertracing/all-in-one:1.46",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Env: []corev1.EnvVar{
							{Name: "COLLECTOR_OTLP_ENABLED", Value: "true"},
						},
						Ports: []corev1.ContainerPort{
							{ContainerPort: 4317, Name: "otlp-grpc"},
							{ContainerPort: 16686, Name: "ui"},
						},
					}},
				},
			},
		},
	}
}

// PrometheusConfigMap renders the scrape configuration.
func PrometheusConfigMap(ns string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PromConfigMapName,
			Namespace: ns,
			Labels:    ceramic.Labels("prometheus"),
		},
		Data: map[string]string{
			"prom-config.yaml": promConfig,
		},
	}
}

// PrometheusStatefulSet renders the prometheus workload.
func PrometheusStatefulSet(ns string) *appsv1.StatefulSet {
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PromStatefulSetName,
			Namespace: ns,
			Labels:    ceramic.Labels("prometheus"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: ceramic.SelectorLabels("prometheus")},
			ServiceName: PromStatefulSetName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: ceramic.Labels("prometheus"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "prometheus",
						Image:           "prom/prometheus:v2.45.0",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Command: []string{
							"/bin/prometheus",
							"--web.enable-lifecycle",
							"--config.file=/config/prom-config.yaml",
						},
						Ports: []corev1.ContainerPort{
							{ContainerPort: 9090, Name: "webui"},
						},
						VolumeMounts: []corev1.VolumeMount{
							{MountPath: "/config", Name: "config", ReadOnly: true},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: "config",
						VolumeSource: corev1.VolumeSource{
							ConfigMap: &corev1.ConfigMapVolumeSource{
								DefaultMode:          ptrInt32(0o755),
								LocalObjectReference: corev1.LocalObjectReference{Name: PromConfigMapName},
							},
						},
					}},
				},
			},
		},
	}
}

// OtelServiceAccount renders the collector's service account.
func OtelServiceAccount(ns string) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      OtelAccountName,
			Namespace: ns,
			Labels:    ceramic.ManagedLabels(),
		},
	}
}

// OtelClusterRole grants the collector read access to pod metadata for
// resource detection.
func OtelClusterRole() *rbacv1.ClusterRole {
	return &rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{
			Name:   OtelClusterRoleName,
			Labels: ceramic.ManagedLabels(),
		},
		Rules: []rbacv1.PolicyRule{{
			APIGroups: []string{""},
			Resources: []string{"pods", "namespaces"},
			Verbs:     []string{"get", "watch", "list"},
		}},
	}
}

// OtelClusterRoleBinding binds the collector role to its account in the
// given namespace.
func OtelClusterRoleBinding(ns string) *rbacv1.ClusterRoleBinding {
	return &rbacv1.ClusterRoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:   OtelClusterRoleBindingName,
			Labels: ceramic.ManagedLabels(),
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     OtelClusterRoleName,
		},
		Subjects: []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      OtelAccountName,
			Namespace: ns,
		}},
	}
}

// OtelConfigMap renders the collector pipeline.
func OtelConfigMap(ns string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      OtelConfigMapName,
			Namespace: ns,
			Labels:    ceramic.Labels("otel"),
		},
		Data: map[string]string{
			"otel-config.yaml": otelConfig,
		},
	}
}

// OtelService renders the collector service.
func OtelService(ns string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      OtelServiceName,
			Namespace: ns,
			Labels:    ceramic.Labels("otel"),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  ceramic.SelectorLabels("otel"),
			Ports: []corev1.ServicePort{
				{Name: "otlp-receiver", Port: 4317},
				{Name: "prom-metrics", Port: 9464},
			},
		},
	}
}

// OtelStatefulSet renders the collector workload.
func OtelStatefulSet(ns string) *appsv1.StatefulSet {
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      OtelStatefulSetName,
			Namespace: ns,
			Labels:    ceramic.Labels("otel"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: ceramic.SelectorLabels("otel")},
			ServiceName: OtelServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: ceramic.Labels("otel"),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: OtelAccountName,
					Containers: []corev1.Container{{
						Name:            "otel",
						Image:           "otel/opentelemetry-collector-contrib:0.80.0",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Args:            []string{"--config=/config/otel-config.yaml"},
						Ports: []corev1.ContainerPort{
							{ContainerPort: 4317, Name: "otlp-receiver"},
							{ContainerPort: 9464, Name: "prom-metrics"},
						},
						VolumeMounts: []corev1.VolumeMount{
							{MountPath: "/config", Name: "config", ReadOnly: true},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: "config",
						VolumeSource: corev1.VolumeSource{
							ConfigMap: &corev1.ConfigMapVolumeSource{
								DefaultMode:          ptrInt32(0o755),
								LocalObjectReference: corev1.LocalObjectReference{Name: OtelConfigMapName},
							},
						},
					}},
				},
			},
		},
	}
}

func ptrInt32(i int32) *int32 { return &i }
