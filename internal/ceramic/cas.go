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

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
)

const (
	// CASIpfsServiceName is the anchor service's own IPFS node.
	CASIpfsServiceName = "cas-ipfs"
	// CASPostgresServiceName backs the anchor service database.
	CASPostgresServiceName = "cas-postgres"
	// LocalstackServiceName fakes the AWS APIs the anchor service uses.
	LocalstackServiceName = "localstack"

	// CASAuthSecretName holds the anchor service database credentials.
	CASAuthSecretName = "postgres-auth"

	defaultCASImage     = "ceramicnetwork/ceramic-anchor-service:latest"
	defaultGanacheImage = "trufflesuite/ganache:v7.3.0"
)

// CASConfig is the resolved anchor service stack configuration.
type CASConfig struct {
	Image           string
	ImagePullPolicy string
	IpfsImage       string
	ResourceLimits  ResourceLimitsConfig
}

// CASConfigFrom resolves the optional cas spec against defaults.
func CASConfigFrom(spec *keramikv1alpha1.CasSpec) CASConfig {
	cfg := CASConfig{
		Image:           defaultCASImage,
		ImagePullPolicy: "Always",
		IpfsImage:       defaultRustIpfsImage,
		ResourceLimits: ResourceLimitsConfig{
			CPU:     resource.MustParse("250m"),
			Memory:  resource.MustParse("1Gi"),
			Storage: resource.MustParse("1Gi"),
		},
	}
	if spec == nil {
		return cfg
	}
	if spec.Image != nil {
		cfg.Image = *spec.Image
	}
	if spec.ImagePullPolicy != nil {
		cfg.ImagePullPolicy = *spec.ImagePullPolicy
	}
	if spec.IpfsImage != nil {
		cfg.IpfsImage = *spec.IpfsImage
	}
	cfg.ResourceLimits = resourceLimits(spec.ResourceLimits, cfg.ResourceLimits)
	return cfg
}

// CASAuthSecret renders the anchor service database credentials. The
// password is only generated once, callers keep an existing secret.
func CASAuthSecret(ns, password string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      CASAuthSecretName,
			Namespace: ns,
			Labels:    ManagedLabels(),
		},
		StringData: map[string]string{
			"username": "root",
			"password": password,
		},
	}
}

// CASServices renders the ClusterIP services of the anchor service stack.
func CASServices(ns string) []*corev1.Service {
	return []*corev1.Service{
		clusterIPService(ns, CASServiceName, "cas", []corev1.ServicePort{
			{Name: "cas-api", Port: 8081},
			{Name: "cas-metrics", Port: 9464},
		}),
		clusterIPService(ns, CASIpfsServiceName, "cas-ipfs", []corev1.ServicePort{
			{Name: "rpc", Port: RustRPCPort},
			{Name: "swarm-tcp", Port: SwarmPort},
		}),
		clusterIPService(ns, GanacheServiceName, "ganache", []corev1.ServicePort{
			{Name: "rpc", Port: 8545},
		}),
		clusterIPService(ns, CASPostgresServiceName, "cas-postgres", []corev1.ServicePort{
			{Name: "postgres", Port: 5432},
		}),
		clusterIPService(ns, LocalstackServiceName, "localstack", []corev1.ServicePort{
			{Name: "edge", Port: 4566},
		}),
	}
}

// CASStatefulSets renders the workloads of the anchor service stack, in
// apply order.
func CASStatefulSets(ns string, cfg CASConfig, datadog DataDogConfig) []*appsv1.StatefulSet {
	return []*appsv1.StatefulSet{
		casStatefulSet(ns, cfg, datadog),
		casIpfsStatefulSet(ns, cfg),
		ganacheStatefulSet(ns),
		casPostgresStatefulSet(ns),
		localstackStatefulSet(ns),
	}
}

func clusterIPService(ns, name, app string, ports []corev1.ServicePort) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: ns,
			Labels:    Labels(app),
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: SelectorLabels(app),
			Ports:    ports,
		},
	}
}

func casSecretEnv(name, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: CASAuthSecretName},
				Key:                  key,
			},
		},
	}
}

func casStatefulSet(ns string, cfg CASConfig, datadog DataDogConfig) *appsv1.StatefulSet {
	env := []corev1.EnvVar{
		{Name: "NODE_ENV", Value: "dev"},
		{Name: "ANCHOR_EXPIRATION_PERIOD", Value: "300000"},
		{Name: "ANCHOR_SCHEDULE_EXPRESSION", Value: "0/1 * * * ? *"},
		{Name: "APP_MODE", Value: "bundled"},
		{Name: "APP_PORT", Value: "8081"},
		{Name: "BLOCKCHAIN_CONNECTOR", Value: "ethereum"},
		{Name: "ETH_NETWORK", Value: "ganache"},
		{Name: "ETH_RPC_URL", Value: DefaultNetworkConfig().EthRPCURL},
		{Name: "ETH_WALLET_PK", Value: "0x06dd0990d19001c57eeea6d32e8fdeee40d3945962caf18c18c3930baa5a6ec9"},
		{Name: "ETH_CONTRACT_ADDRESS", Value: "0xD3f84Cf6Be3DD0EB16dC89c972f7a27B441A39f2"},
		{Name: "IPFS_API_URL", Value: "http://" + CASIpfsServiceName + ":5101"},
		{Name: "IPFS_PUBSUB_TOPIC", Value: "local"},
		{Name: "MERKLE_DEPTH_LIMIT", Value: "0"},
		{Name: "USE_SMART_CONTRACT_ANCHORS", Value: "true"},
		{Name: "DB_NAME", Value: "anchor_db"},
		{Name: "DB_HOST", Value: CASPostgresServiceName},
		casSecretEnv("DB_USERNAME", "username"),
		casSecretEnv("DB_PASSWORD", "password"),
		{Name: "AWS_ACCOUNT_ID", Value: "000000000000"},
		{Name: "AWS_REGION", Value: "us-east-1"},
		{Name: "AWS_ACCESS_KEY_ID", Value: "."},
		{Name: "AWS_SECRET_ACCESS_KEY", Value: "."},
		{Name: "SQS_QUEUE_URL", Value: "http://" + LocalstackServiceName + ":4566/000000000000/cas-anchor-dev-"},
	}
	env = sortEnv(datadog.InjectEnv(env))

	labels := Labels("cas")
	datadog.InjectLabels(labels, ns, "cas")
	annotations := map[string]string{}
	datadog.InjectAnnotations(annotations)

	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      CASServiceName,
			Namespace: ns,
			Labels:    Labels("cas"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: SelectorLabels("cas")},
			ServiceName: CASServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      labels,
					Annotations: annotations,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "cas-api",
						Image:           cfg.Image,
						ImagePullPolicy: corev1.PullPolicy(cfg.ImagePullPolicy),
						Env:             env,
						Ports: []corev1.ContainerPort{
							{ContainerPort: 8081, Name: "cas-api"},
						},
						Resources: corev1.ResourceRequirements{
							Limits:   cfg.ResourceLimits.ResourceList(),
							Requests: cfg.ResourceLimits.ResourceList(),
						},
					}},
				},
			},
		},
	}
}

func casIpfsStatefulSet(ns string, cfg CASConfig) *appsv1.StatefulSet {
	limits := ResourceLimitsConfig{
		CPU:     resource.MustParse("250m"),
		Memory:  resource.MustParse("512Mi"),
		Storage: resource.MustParse("1Gi"),
	}
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      CASIpfsServiceName,
			Namespace: ns,
			Labels:    Labels("cas-ipfs"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: SelectorLabels("cas-ipfs")},
			ServiceName: CASIpfsServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: Labels("cas-ipfs"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "ipfs",
						Image:           cfg.IpfsImage,
						ImagePullPolicy: corev1.PullPolicy(cfg.ImagePullPolicy),
						Command:         []string{"/usr/bin/ceramic-one", "daemon", "--store-dir", "/data/ipfs", "-b", "0.0.0.0:5101"},
						Env: []corev1.EnvVar{
							{Name: "CERAMIC_ONE_LOCAL_NETWORK_ID", Value: "0"},
							{Name: "CERAMIC_ONE_NETWORK", Value: LocalNetworkType},
						},
						Ports: []corev1.ContainerPort{
							{ContainerPort: RustRPCPort, Name: "rpc"},
							{ContainerPort: SwarmPort, Name: "swarm-tcp"},
						},
						Resources: corev1.ResourceRequirements{
							Limits:   limits.ResourceList(),
							Requests: limits.ResourceList(),
						},
						VolumeMounts: []corev1.VolumeMount{
							{MountPath: "/data/ipfs", Name: "cas-ipfs-data"},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: "cas-ipfs-data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: "cas-ipfs-data",
							},
						},
					}},
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				pvc("cas-ipfs-data", "10Gi"),
			},
		},
	}
}

func ganacheStatefulSet(ns string) *appsv1.StatefulSet {
	limits := ResourceLimitsConfig{
		CPU:     resource.MustParse("250m"),
		Memory:  resource.MustParse("1Gi"),
		Storage: resource.MustParse("1Gi"),
	}
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      GanacheServiceName,
			Namespace: ns,
			Labels:    Labels("ganache"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: SelectorLabels("ganache")},
			ServiceName: GanacheServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: Labels("ganache"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "ganache",
						Image:           defaultGanacheImage,
						ImagePullPolicy: corev1.PullIfNotPresent,
						Command: []string{
							"node",
							"/app/dist/node/cli.js",
							"--miner.blockTime=1",
							"--mnemonic='move sense much taxi wave hurry recall stairs thank brother swift woman'",
							"--networkId=5777",
							"-l=80000000",
							"--quiet",
						},
						Ports: []corev1.ContainerPort{
							{ContainerPort: 8545, Name: "rpc"},
						},
						Resources: corev1.ResourceRequirements{
							Limits:   limits.ResourceList(),
							Requests: limits.ResourceList(),
						},
						VolumeMounts: []corev1.VolumeMount{
							{MountPath: "/ganache-data", Name: "ganache-data"},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: "ganache-data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: "ganache-data",
							},
						},
					}},
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				pvc("ganache-data", "10Gi"),
			},
		},
	}
}

func casPostgresStatefulSet(ns string) *appsv1.StatefulSet {
	limits := ResourceLimitsConfig{
		CPU:     resource.MustParse("250m"),
		Memory:  resource.MustParse("512Mi"),
		Storage: resource.MustParse("1Gi"),
	}
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      CASPostgresServiceName,
			Namespace: ns,
			Labels:    Labels("cas-postgres"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: SelectorLabels("cas-postgres")},
			ServiceName: CASPostgresServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: Labels("cas-postgres"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "postgres",
						Image:           "postgres:15-alpine",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Env: []corev1.EnvVar{
							{Name: "POSTGRES_DB", Value: "anchor_db"},
							casSecretEnv("POSTGRES_PASSWORD", "password"),
							casSecretEnv("POSTGRES_USER", "username"),
						},
						Ports: []corev1.ContainerPort{
							{ContainerPort: 5432, Name: "postgres"},
						},
						Resources: corev1.ResourceRequirements{
							Limits:   limits.ResourceList(),
							Requests: limits.ResourceList(),
						},
						VolumeMounts: []corev1.VolumeMount{{
							MountPath: "/var/lib/postgresql",
							Name:      "postgres-data",
							SubPath:   "cas_data",
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

func localstackStatefulSet(ns string) *appsv1.StatefulSet {
	limits := ResourceLimitsConfig{
		CPU:     resource.MustParse("250m"),
		Memory:  resource.MustParse("1Gi"),
		Storage: resource.MustParse("1Gi"),
	}
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      LocalstackServiceName,
			Namespace: ns,
			Labels:    Labels("localstack"),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    ptrInt32(1),
			Selector:    &metav1.LabelSelector{MatchLabels: SelectorLabels("localstack")},
			ServiceName: LocalstackServiceName,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: Labels("localstack"),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:            "localstack",
						Image:           "localstack/localstack:1.3",
						ImagePullPolicy: corev1.PullIfNotPresent,
						Ports: []corev1.ContainerPort{
							{ContainerPort: 4566, Name: "edge"},
						},
						Resources: corev1.ResourceRequirements{
							Limits:   limits.ResourceList(),
							Requests: limits.ResourceList(),
						},
						VolumeMounts: []corev1.VolumeMount{
							{MountPath: "/var/lib/localstack", Name: "localstack-data"},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: "localstack-data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: "localstack-data",
							},
						},
					}},
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				pvc("localstack-data", "10Gi"),
			},
		},
	}
}
