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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

const (
	// App is the selector app value of Ceramic pods.
	App = "ceramic"
	// PostgresApp is the selector app value of the shared postgres pod.
	PostgresApp = "ceramic-postgres"

	// AdminSecretName holds the hex encoded admin private key.
	AdminSecretName = "ceramic-admin"
	// AdminSecretKey is the key inside AdminSecretName.
	AdminSecretKey = "private-key"

	configHashAnnotation = "keramik/config-hash"
)

const initScript = `#!/bin/bash

set -eo pipefail

export CERAMIC_ADMIN_DID=$(composedb did:from-private-key ${CERAMIC_ADMIN_PRIVATE_KEY})

CERAMIC_ADMIN_DID=$CERAMIC_ADMIN_DID envsubst < /ceramic-init/daemon-config.json > /config/daemon-config.json
`

const daemonConfigTemplate = `{
    "anchor": {
        "auth-method": "did"
    },
    "http-api": {
        "cors-allowed-origins": [
            "${CERAMIC_CORS_ALLOWED_ORIGINS}"
        ],
        "admin-dids": [
            "${CERAMIC_ADMIN_DID}"
        ]
    },
    "ipfs": {
        "mode": "remote",
        "host": "${CERAMIC_IPFS_HOST}"
    },
    "logger": {
        "log-level": ${CERAMIC_LOG_LEVEL},
        "log-to-files": false
    },
    "metrics": {
        "metrics-exporter-enabled": false,
        "prometheus-exporter-enabled": true,
        "prometheus-exporter-port": 9464
    },
    "network": {
        "name": "${CERAMIC_NETWORK}"
    },
    "node": {
        "privateSeedUrl": "inplace:ed25519#${CERAMIC_ADMIN_PRIVATE_KEY}"
    },
    "state-store": {
        "mode": "fs",
        "local-directory": "${CERAMIC_STATE_STORE_PATH}"
    },
    "indexing": {
        "db": "${DB_CONNECTION_STRING}",
        "allow-queries-before-historical-sync": true,
        "disable-composedb": false,
        "enable-historical-sync": ${ENABLE_HISTORICAL_SYNC}
    }
}`

// Bundle groups everything needed to render one variant's resources.
type Bundle struct {
	Info    Info
	Config  Config
	Network NetworkConfig
	Datadog DataDogConfig
}

// variantSelector returns the selector labels of one variant's pods.
func variantSelector(info Info) map[string]string {
	labels := SelectorLabels(App)
	labels["instance"] = info.StatefulSet
	return labels
}

// ConfigMaps renders the init ConfigMap plus any IPFS implementation
// ConfigMaps for one variant.
func ConfigMaps(ns string, b Bundle) []corev1.ConfigMap {
	var maps []corev1.ConfigMap
	if b.Config.InitConfigMap == InitConfigMapName {
		maps = append(maps, corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      InitConfigMapName,
				Namespace: ns,
				Labels:    Labels(App),
			},
			Data: map[string]string{
				"ceramic-init.sh":    initScript,
				"daemon-config.json": daemonConfigTemplate,
			},
		})
	}
	for name, data := range b.Config.IPFS.configMapData(b.Info) {
		maps = append(maps, corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: ns,
				Labels:    Labels(App),
			},
			Data: data,
		})
	}
	sort.Slice(maps, func(i, j int) bool { return maps[i].Name < maps[j].Name })
	return maps
}

// ConfigMapsHash returns a stable hash over the rendered ConfigMap data,
// used to roll pods when config changes.
func ConfigMapsHash(maps []corev1.ConfigMap) string {
	h := sha256.New()
	for _, cm := range maps {
		fmt.Fprintln(h, cm.Name)
		keys := make([]string, 0, len(cm.Data))
		for k := range cm.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h, "%s=%s\n", k, cm.Data[k])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Service renders the headless service governing one variant's pods.
func Service(ns string, b Bundle) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      b.Info.Service,
			Namespace: ns,
			Labels:    Labels(App),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP:                corev1.ClusterIPNone,
			PublishNotReadyAddresses: true,
			Selector:                 variantSelector(b.Info),
			Ports: []corev1.ServicePort{
				{Name: "api", Port: APIPort, Protocol: corev1.ProtocolTCP},
				{Name: "ipfs", Port: b.Config.IPFS.RPCPort(), Protocol: corev1.ProtocolTCP},
				{Name: "swarm-tcp", Port: SwarmPort, Protocol: corev1.ProtocolTCP},
			},
		},
	}
}

// ceramicEnv renders the daemon environment for one variant, caller
// overrides applied last and the result sorted for stable pod specs.
func ceramicEnv(b Bundle) []corev1.EnvVar {
	dbConnectionString := "sqlite:///ceramic-data/ceramic.db"
	if b.Config.DBType == DBTypePostgres {
		dbConnectionString = b.Config.Postgres.ConnectionString()
	}
	env := []corev1.EnvVar{
		{Name: "CERAMIC_NETWORK", Value: b.Network.NetworkType},
		{Name: "CERAMIC_NETWORK_TOPIC", Value: b.Network.PubsubTopic},
		{Name: "ETH_RPC_URL", Value: b.Network.EthRPCURL},
		{Name: "CAS_API_URL", Value: b.Network.CasAPIURL},
		{Name: "CERAMIC_STATE_STORE_PATH", Value: "/ceramic-data/statestore"},
		{Name: "CERAMIC_IPFS_HOST", Value: fmt.Sprintf("http://localhost:%d", b.Config.IPFS.RPCPort())},
		{Name: "CERAMIC_CORS_ALLOWED_ORIGINS", Value: ".*"},
		{Name: "CERAMIC_LOG_LEVEL", Value: "2"},
		{Name: "DB_CONNECTION_STRING", Value: dbConnectionString},
		{Name: "ENABLE_HISTORICAL_SYNC", Value: strconv.FormatBool(b.Config.EnableHistoricalSync)},
	}
	return sortEnv(applyEnvOverrides(env, b.Config.Env))
}

// StatefulSet renders one variant's workload. configHash rolls the pods
// whenever the rendered ConfigMaps change.
func StatefulSet(ns string, b Bundle, configHash string) *appsv1.StatefulSet {
	env := ceramicEnv(b)

	initEnv := append([]corev1.EnvVar{{
		Name: "CERAMIC_ADMIN_PRIVATE_KEY",
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: AdminSecretName},
				Key:                  AdminSecretKey,
			},
		},
	}}, env...)

	env = sortEnv(b.Datadog.InjectEnv(env))

	annotations := map[string]string{
		"prometheus/path":    "/metrics",
		configHashAnnotation: configHash,
	}
	b.Datadog.InjectAnnotations(annotations)

	podLabels := variantSelector(b.Info)
	for k, v := range ManagedLabels() {
		podLabels[k] = v
	}
	b.Datadog.InjectLabels(podLabels, ns, "ceramic")

	volumes := []corev1.Volume{
		{
			Name:         "config-volume",
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		},
		{
			Name: "ceramic-init",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					DefaultMode:          ptrInt32(0o755),
					LocalObjectReference: corev1.LocalObjectReference{Name: b.Config.InitConfigMap},
				},
			},
		},
		{
			Name: "ceramic-data",
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: "ceramic-data"},
			},
		},
		{
			Name: ipfsDataVolume,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: ipfsDataVolume},
			},
		},
	}
	volumes = append(volumes, b.Config.IPFS.volumes(b.Info)...)

	resources := corev1.ResourceRequirements{
		Limits:   b.Config.ResourceLimits.ResourceList(),
		Requests: b.Config.ResourceLimits.ResourceList(),
	}

	initContainers := []corev1.Container{{
		Name:            "init-ceramic-config",
		Image:           b.Config.Image,
		ImagePullPolicy: corev1.PullPolicy(b.Config.ImagePullPolicy),
		Command:         []string{"/bin/bash", "-c", "/ceramic-init/ceramic-init.sh"},
		Env:             sortEnv(initEnv),
		Resources:       resources,
		VolumeMounts: []corev1.VolumeMount{
			{MountPath: "/config", Name: "config-volume"},
			{MountPath: "/ceramic-init", Name: "ceramic-init"},
		},
	}}
	if migration := b.Config.IPFS.initContainer(); migration != nil {
		initContainers = append(initContainers, *migration)
	}

	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      b.Info.StatefulSet,
			Namespace: ns,
			Labels:    Labels(App),
		},
		Spec: appsv1.StatefulSetSpec{
			PodManagementPolicy: appsv1.ParallelPodManagement,
			Replicas:            ptrInt32(b.Info.Replicas),
			Selector:            &metav1.LabelSelector{MatchLabels: variantSelector(b.Info)},
			ServiceName:         b.Info.Service,
			UpdateStrategy: appsv1.StatefulSetUpdateStrategy{
				RollingUpdate: &appsv1.RollingUpdateStatefulSetStrategy{
					MaxUnavailable: ptrIntOrString(intstr.FromString("50%")),
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Annotations: annotations,
					Labels:      podLabels,
				},
				Spec: corev1.PodSpec{
					InitContainers: initContainers,
					Containers: []corev1.Container{
						{
							Name:            "ceramic",
							Image:           b.Config.Image,
							ImagePullPolicy: corev1.PullPolicy(b.Config.ImagePullPolicy),
							Command: []string{
								"/js-ceramic/packages/cli/bin/ceramic.js",
								"daemon",
								"--config",
								"/config/daemon-config.json",
							},
							Env: env,
							Ports: []corev1.ContainerPort{
								{ContainerPort: APIPort, Name: "api"},
								{ContainerPort: 9464, Name: "metrics", Protocol: corev1.ProtocolTCP},
							},
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path: "/api/v0/node/healthcheck",
										Port: intstr.FromString("api"),
									},
								},
								InitialDelaySeconds: 10,
								PeriodSeconds:       1,
								TimeoutSeconds:      30,
							},
							LivenessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path: "/api/v0/node/healthcheck",
										Port: intstr.FromString("api"),
									},
								},
								InitialDelaySeconds: 20,
								PeriodSeconds:       3,
								TimeoutSeconds:      30,
							},
							Resources: resources,
							VolumeMounts: []corev1.VolumeMount{
								{MountPath: "/config", Name: "config-volume"},
								{MountPath: "/ceramic-data", Name: "ceramic-data"},
							},
						},
						b.Config.IPFS.container(b.Info),
					},
					Volumes: volumes,
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				pvc("ceramic-data", "10Gi"),
				pvc(ipfsDataVolume, "10Gi"),
			},
		},
	}
}

func pvc(name, storage string) corev1.PersistentVolumeClaim {
	return corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: mustQuantity(storage),
				},
			},
		},
	}
}
