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

package controller

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
	"github.com/us3r-network/keramik/internal/ceramic"
	"github.com/us3r-network/keramik/internal/ipfs"
)

// NetworkReconciler reconciles a Network object. Rand and Now are injected
// so reconciliation stays deterministic under test.
type NetworkReconciler struct {
	client.Client
	Scheme     *runtime.Scheme
	IpfsClient ipfs.RPCClient
	Rand       io.Reader
	Now        func() time.Time
}

// +kubebuilder:rbac:groups=keramik.us3r.network,resources=networks,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=keramik.us3r.network,resources=networks/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=keramik.us3r.network,resources=networks/finalizers,verbs=update
// +kubebuilder:rbac:groups=core,resources=namespaces,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=apps,resources=statefulsets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=batch,resources=jobs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=services,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=configmaps,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=pods,verbs=get;list;watch

func (r *NetworkReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	network := &keramikv1alpha1.Network{}
	if err := r.Get(ctx, req.NamespacedName, network); err != nil {
		if errors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	// Owned resources are garbage collected with the namespace
	if !network.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}

	// Enforce the TTL before doing any work
	if expiration := expirationTime(network); expiration != nil {
		if !r.Now().Before(expiration.Time) {
			log.Info("Network expired, deleting", "name", network.Name)
			if err := r.Delete(ctx, network); err != nil && !errors.IsNotFound(err) {
				return ctrl.Result{}, err
			}
			return ctrl.Result{}, nil
		}
	}

	ns := NamespaceFor(network.Name)
	ready, peers, err := r.reconcileNetwork(ctx, network, ns)
	if err != nil {
		log.Error(err, "Failed to reconcile network", "name", network.Name)
		return r.updateStatusError(ctx, network, err)
	}

	result := r.updateStatusReady(ctx, network, ns, ready, peers)

	// Wake up to delete the network once the TTL lapses
	if expiration := expirationTime(network); expiration != nil {
		remaining := expiration.Sub(r.Now())
		if result.RequeueAfter == 0 || remaining < result.RequeueAfter {
			result.RequeueAfter = remaining
		}
	}
	return result, nil
}

// expirationTime returns when the network should be torn down, or nil when
// no TTL is set.
func expirationTime(network *keramikv1alpha1.Network) *metav1.Time {
	if network.Spec.TTLSeconds == nil {
		return nil
	}
	expiration := network.CreationTimestamp.Add(time.Duration(*network.Spec.TTLSeconds) * time.Second)
	return &metav1.Time{Time: expiration}
}

// reconcileNetwork drives the namespace to the desired state and returns the
// count of ready peers plus the discovered peer records.
func (r *NetworkReconciler) reconcileNetwork(ctx context.Context, network *keramikv1alpha1.Network, ns string) (int32, []keramikv1alpha1.Peer, error) {
	log := logf.FromContext(ctx)

	if err := r.ensureNamespace(ctx, network, ns); err != nil {
		return 0, nil, err
	}

	configs, err := ceramic.ConfigsFrom(network.Spec.Ceramic)
	if err != nil {
		return 0, nil, err
	}
	networkCfg := ceramic.NetworkConfigFrom(&network.Spec)
	datadog := ceramic.DataDogFrom(network.Spec.Datadog)

	// A local network gets its own anchor service stack
	if networkCfg.NetworkType == ceramic.LocalNetworkType {
		if err := r.reconcileCAS(ctx, network, ns, datadog); err != nil {
			return 0, nil, err
		}
	}

	if configs.UsesPostgres() {
		if err := r.reconcilePostgres(ctx, network, ns, configs); err != nil {
			return 0, nil, err
		}
	}

	if err := r.ensureAdminSecret(ctx, network, ns); err != nil {
		return 0, nil, err
	}

	replicas := configs.Replicas(network.Spec.Replicas)
	desired := make(map[string]bool, len(configs))
	var infos []ceramic.Info
	for i := range configs {
		info := ceramic.NewInfo(strconv.Itoa(i), replicas[i])
		infos = append(infos, info)
		desired[info.StatefulSet] = true
	}

	if err := r.deleteStaleVariants(ctx, ns, desired); err != nil {
		return 0, nil, err
	}

	for i, cfg := range configs {
		bundle := ceramic.Bundle{
			Info:    infos[i],
			Config:  cfg,
			Network: networkCfg,
			Datadog: datadog,
		}
		maps := ceramic.ConfigMaps(ns, bundle)
		for j := range maps {
			if err := applyConfigMap(ctx, r.Client, r.Scheme, network, &maps[j]); err != nil {
				return 0, nil, err
			}
		}
		if err := applyService(ctx, r.Client, r.Scheme, network, ceramic.Service(ns, bundle)); err != nil {
			return 0, nil, err
		}
		sts := ceramic.StatefulSet(ns, bundle, ceramic.ConfigMapsHash(maps))
		if err := applyStatefulSet(ctx, r.Client, r.Scheme, network, sts); err != nil {
			return 0, nil, err
		}
	}

	// Discover peers through pods that report ready. Probing a pod that is
	// still coming up would block the pass on the RPC timeout, so the rest
	// simply stay out of the registry until the next pass.
	var peers []keramikv1alpha1.Peer
	for i, cfg := range configs {
		info := infos[i]
		for p := int32(0); p < info.Replicas; p++ {
			pod := &corev1.Pod{}
			if err := r.Get(ctx, types.NamespacedName{Name: info.PodName(p), Namespace: ns}, pod); err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return 0, nil, err
			}
			if !podReady(pod) {
				log.V(1).Info("Pod not ready, skipping discovery", "pod", pod.Name)
				continue
			}
			rpcAddr := info.IpfsRpcAddr(ns, p, cfg.IPFS.RPCPort())
			peerInfo, err := r.IpfsClient.PeerInfo(ctx, rpcAddr)
			if err != nil {
				log.V(1).Info("Peer not ready", "pod", info.PodName(p), "err", err.Error())
				continue
			}
			peers = append(peers, keramikv1alpha1.Peer{
				Ceramic: &keramikv1alpha1.CeramicPeerInfo{
					PeerID:      peerInfo.PeerID,
					IpfsRpcAddr: peerInfo.IpfsRpcAddr,
					CeramicAddr: info.CeramicAddr(ns, p),
					P2PAddrs:    peerInfo.P2PAddrs,
				},
			})
		}
	}

	registry, err := ceramic.PeersConfigMap(ns, peers)
	if err != nil {
		return 0, nil, err
	}
	if err := applyConfigMap(ctx, r.Client, r.Scheme, network, registry); err != nil {
		return 0, nil, err
	}

	bootstrap := ceramic.BootstrapFrom(network.Spec.Bootstrap)
	if bootstrap.Enabled && len(peers) > 1 {
		if err := applyJob(ctx, r.Client, r.Scheme, network, ceramic.BootstrapJob(ns, bootstrap)); err != nil {
			return 0, nil, err
		}
	}

	return int32(len(peers)), peers, nil
}

func (r *NetworkReconciler) ensureNamespace(ctx context.Context, network *keramikv1alpha1.Network, ns string) error {
	existing := &corev1.Namespace{}
	err := r.Get(ctx, types.NamespacedName{Name: ns}, existing)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}
	namespace := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   ns,
			Labels: ceramic.ManagedLabels(),
		},
	}
	if err := setOwner(network, namespace, r.Scheme); err != nil {
		return err
	}
	return r.Create(ctx, namespace)
}

// ensureAdminSecret makes the admin private key available in the network
// namespace. An explicitly named source secret must exist in the operator
// namespace; without one a fresh key is generated.
func (r *NetworkReconciler) ensureAdminSecret(ctx context.Context, network *keramikv1alpha1.Network, ns string) error {
	existing := &corev1.Secret{}
	err := r.Get(ctx, types.NamespacedName{Name: ceramic.AdminSecretName, Namespace: ns}, existing)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}

	var key []byte
	if network.Spec.PrivateKeySecret != nil && *network.Spec.PrivateKeySecret != "" {
		source := &corev1.Secret{}
		sourceName := *network.Spec.PrivateKeySecret
		if err := r.Get(ctx, types.NamespacedName{Name: sourceName, Namespace: OperatorNamespace}, source); err != nil {
			if errors.IsNotFound(err) {
				return ceramic.NewPreconditionError("secret", sourceName)
			}
			return err
		}
		data, ok := source.Data[ceramic.AdminSecretKey]
		if !ok || len(data) == 0 {
			return ceramic.NewPreconditionError("secret key", sourceName+"/"+ceramic.AdminSecretKey)
		}
		key = data
	} else {
		generated, err := randomHex(r.Rand, 32)
		if err != nil {
			return err
		}
		key = []byte(generated)
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ceramic.AdminSecretName,
			Namespace: ns,
			Labels:    ceramic.ManagedLabels(),
		},
		Data: map[string][]byte{ceramic.AdminSecretKey: key},
	}
	return applySecret(ctx, r.Client, r.Scheme, network, secret)
}

func (r *NetworkReconciler) reconcileCAS(ctx context.Context, network *keramikv1alpha1.Network, ns string, datadog ceramic.DataDogConfig) error {
	// Only draw a password when the secret does not exist yet, so repeated
	// passes never touch the random source.
	existing := &corev1.Secret{}
	err := r.Get(ctx, types.NamespacedName{Name: ceramic.CASAuthSecretName, Namespace: ns}, existing)
	if errors.IsNotFound(err) {
		password, err := randomHex(r.Rand, 16)
		if err != nil {
			return err
		}
		if err := applySecret(ctx, r.Client, r.Scheme, network, ceramic.CASAuthSecret(ns, password)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	for _, svc := range ceramic.CASServices(ns) {
		if err := applyService(ctx, r.Client, r.Scheme, network, svc); err != nil {
			return err
		}
	}
	cfg := ceramic.CASConfigFrom(network.Spec.CAS)
	for _, sts := range ceramic.CASStatefulSets(ns, cfg, datadog) {
		if err := applyStatefulSet(ctx, r.Client, r.Scheme, network, sts); err != nil {
			return err
		}
	}
	return nil
}

func (r *NetworkReconciler) reconcilePostgres(ctx context.Context, network *keramikv1alpha1.Network, ns string, configs ceramic.Configs) error {
	var cfg ceramic.PostgresConfig
	for _, c := range configs {
		if c.DBType == ceramic.DBTypePostgres {
			cfg = c.Postgres
			break
		}
	}
	if err := applyStatefulSet(ctx, r.Client, r.Scheme, network, ceramic.PostgresStatefulSet(ns, cfg)); err != nil {
		return err
	}
	return applyService(ctx, r.Client, r.Scheme, network, ceramic.PostgresService(ns))
}

// deleteStaleVariants removes workloads of variants that were dropped from
// the spec, together with their services.
func (r *NetworkReconciler) deleteStaleVariants(ctx context.Context, ns string, desired map[string]bool) error {
	log := logf.FromContext(ctx)

	list := &appsv1.StatefulSetList{}
	if err := r.List(ctx, list, client.InNamespace(ns), client.MatchingLabels(ceramic.Labels(ceramic.App))); err != nil {
		return err
	}
	for i := range list.Items {
		sts := &list.Items[i]
		if !strings.HasPrefix(sts.Name, "ceramic-") || desired[sts.Name] {
			continue
		}
		log.Info("Deleting stale variant", "name", sts.Name)
		if err := r.Delete(ctx, sts); err != nil && !errors.IsNotFound(err) {
			return err
		}
		svc := &corev1.Service{}
		err := r.Get(ctx, types.NamespacedName{Name: sts.Name, Namespace: ns}, svc)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return err
		}
		if err := r.Delete(ctx, svc); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

func (r *NetworkReconciler) updateStatusError(ctx context.Context, network *keramikv1alpha1.Network, err error) (ctrl.Result, error) {
	reason := "Error"
	if ceramic.IsConfigError(err) {
		reason = "InvalidConfig"
	} else if ceramic.IsPreconditionError(err) {
		reason = "MissingPrecondition"
	}
	mutate := func() {
		meta.SetStatusCondition(&network.Status.Conditions, metav1.Condition{
			Type:               "Ready",
			Status:             metav1.ConditionFalse,
			Reason:             reason,
			Message:            err.Error(),
			ObservedGeneration: network.Generation,
		})
	}
	mutate()
	if statusErr := UpdateStatusWithRetry(ctx, r.Client, network, mutate); statusErr != nil {
		return ctrl.Result{}, statusErr
	}

	// A missing precondition only resolves through user action, so there is
	// nothing to retry until the object changes.
	if ceramic.IsPreconditionError(err) {
		return ctrl.Result{}, nil
	}
	return ctrl.Result{RequeueAfter: RequeueAfterError}, nil
}

func (r *NetworkReconciler) updateStatusReady(ctx context.Context, network *keramikv1alpha1.Network, ns string, ready int32, peers []keramikv1alpha1.Peer) ctrl.Result {
	log := logf.FromContext(ctx)

	allReady := ready >= network.Spec.Replicas
	mutate := func() {
		network.Status.Replicas = network.Spec.Replicas
		network.Status.ReadyReplicas = ready
		network.Status.Namespace = &ns
		network.Status.Peers = peers
		network.Status.ExpirationTime = expirationTime(network)
		condition := metav1.Condition{
			Type:               "Ready",
			Status:             metav1.ConditionFalse,
			Reason:             "Waiting",
			Message:            fmt.Sprintf("%d of %d peers ready", ready, network.Spec.Replicas),
			ObservedGeneration: network.Generation,
		}
		if allReady {
			condition.Status = metav1.ConditionTrue
			condition.Reason = "Running"
			condition.Message = "All peers ready"
		}
		meta.SetStatusCondition(&network.Status.Conditions, condition)
	}
	mutate()
	if err := UpdateStatusWithRetry(ctx, r.Client, network, mutate); err != nil {
		log.Error(err, "Failed to update network status", "name", network.Name)
		return ctrl.Result{RequeueAfter: RequeueAfterError}
	}

	if !allReady {
		return ctrl.Result{RequeueAfter: RequeueAfterWaiting}
	}
	return ctrl.Result{}
}

// randomHex reads n random bytes and hex encodes them.
func randomHex(rand io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *NetworkReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&keramikv1alpha1.Network{}).
		Owns(&appsv1.StatefulSet{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.Secret{}).
		Named("network").
		Complete(r)
}
