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
	"encoding/binary"
	"fmt"
	"io"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
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
	"github.com/us3r-network/keramik/internal/simulation"
)

// SimulationReconciler reconciles a Simulation object. Rand is injected so
// nonce generation stays deterministic under test.
type SimulationReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Rand   io.Reader
}

// +kubebuilder:rbac:groups=keramik.us3r.network,resources=simulations,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=keramik.us3r.network,resources=simulations/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=apps,resources=statefulsets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=batch,resources=jobs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=services,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=configmaps,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=serviceaccounts,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=rbac.authorization.k8s.io,resources=clusterroles;clusterrolebindings,verbs=get;list;watch;create;update;patch;delete

func (r *SimulationReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	sim := &keramikv1alpha1.Simulation{}
	if err := r.Get(ctx, req.NamespacedName, sim); err != nil {
		if errors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}
	if !sim.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}

	// The nonce binds manager and workers to one run. It is persisted
	// before anything else so a restart never re-rolls it.
	if sim.Status.Nonce == nil {
		nonce, err := r.generateNonce()
		if err != nil {
			return ctrl.Result{}, err
		}
		mutate := func() { sim.Status.Nonce = &nonce }
		mutate()
		if err := UpdateStatusWithRetry(ctx, r.Client, sim, mutate); err != nil {
			return ctrl.Result{}, err
		}
		log.Info("Assigned simulation nonce", "name", sim.Name, "nonce", nonce)
	}

	// The observability stack goes up regardless of peer state, so traces
	// from the very first peers are captured.
	if err := r.reconcileMonitoring(ctx, sim); err != nil {
		return r.errorStatus(ctx, sim, err)
	}
	for _, name := range []string{
		simulation.JaegerStatefulSetName,
		simulation.PromStatefulSetName,
		simulation.OtelStatefulSetName,
	} {
		ready, err := statefulSetReady(ctx, r.Client, sim.Namespace, name)
		if err != nil {
			return r.errorStatus(ctx, sim, err)
		}
		if !ready {
			return r.waitingStatus(ctx, sim, fmt.Sprintf("waiting for %s", name))
		}
	}

	peers, err := r.ceramicPeerCount(ctx, sim.Namespace)
	if err != nil {
		return r.errorStatus(ctx, sim, fmt.Errorf("failed to read peer registry: %w", err))
	}
	if peers == 0 {
		return r.waitingStatus(ctx, sim, "no ready peers in registry")
	}

	if err := applyService(ctx, r.Client, r.Scheme, sim, simulation.RedisService(sim.Namespace)); err != nil {
		return r.errorStatus(ctx, sim, err)
	}
	if err := applyStatefulSet(ctx, r.Client, r.Scheme, sim, simulation.RedisStatefulSet(sim.Namespace)); err != nil {
		return r.errorStatus(ctx, sim, err)
	}
	ready, err := statefulSetReady(ctx, r.Client, sim.Namespace, simulation.RedisStatefulSetName)
	if err != nil {
		return r.errorStatus(ctx, sim, err)
	}
	if !ready {
		return r.waitingStatus(ctx, sim, "waiting for redis")
	}

	image := simulation.JobImageConfigFrom(&sim.Spec)
	logLevel := ""
	if sim.Spec.LogLevel != nil {
		logLevel = *sim.Spec.LogLevel
	}
	if err := applyService(ctx, r.Client, r.Scheme, sim, simulation.ManagerService(sim.Namespace)); err != nil {
		return r.errorStatus(ctx, sim, err)
	}
	manager := simulation.ManagerJob(sim.Namespace, simulation.ManagerConfig{
		Scenario:             sim.Spec.Scenario,
		Users:                sim.Spec.Users,
		RunTimeMinutes:       sim.Spec.RunTime,
		Nonce:                *sim.Status.Nonce,
		ThrottleRequests:     sim.Spec.ThrottleRequests,
		SuccessRequestTarget: sim.Spec.SuccessRequestTarget,
		LogLevel:             logLevel,
		Image:                image,
	})
	if err := applyJob(ctx, r.Client, r.Scheme, sim, manager); err != nil {
		return r.errorStatus(ctx, sim, err)
	}

	// Workers only start once the manager pod is up, so they can register
	// with it immediately.
	managerUp, err := jobReady(ctx, r.Client, sim.Namespace, simulation.ManagerJobName)
	if err != nil {
		return r.errorStatus(ctx, sim, err)
	}
	if !managerUp {
		return r.waitingStatus(ctx, sim, "waiting for manager")
	}

	// One worker per ready peer
	for i := 0; i < peers; i++ {
		worker := simulation.WorkerJob(sim.Namespace, simulation.WorkerConfig{
			Scenario:   sim.Spec.Scenario,
			TargetPeer: i,
			Nonce:      *sim.Status.Nonce,
			LogLevel:   logLevel,
			Image:      image,
		})
		if err := applyJob(ctx, r.Client, r.Scheme, sim, worker); err != nil {
			return r.errorStatus(ctx, sim, err)
		}
	}

	return r.runningStatus(ctx, sim)
}

func (r *SimulationReconciler) generateNonce() (int32, error) {
	var raw uint32
	if err := binary.Read(r.Rand, binary.BigEndian, &raw); err != nil {
		return 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return int32(raw & 0x7fffffff), nil
}

// ceramicPeerCount reads the peer registry of the namespace and counts the
// Ceramic peers a worker can target.
func (r *SimulationReconciler) ceramicPeerCount(ctx context.Context, ns string) (int, error) {
	cm := &corev1.ConfigMap{}
	if err := r.Get(ctx, types.NamespacedName{Name: ceramic.PeersConfigMapName, Namespace: ns}, cm); err != nil {
		return 0, err
	}
	peers, err := ceramic.ParsePeers(cm.Data[ceramic.PeersKey])
	if err != nil {
		return 0, err
	}
	return len(ceramic.CeramicPeers(peers)), nil
}

func (r *SimulationReconciler) reconcileMonitoring(ctx context.Context, sim *keramikv1alpha1.Simulation) error {
	ns := sim.Namespace

	// The collector account and its cluster role are shared, so they carry
	// no owner reference.
	if err := applyServiceAccount(ctx, r.Client, r.Scheme, nil, simulation.OtelServiceAccount(ns)); err != nil {
		return err
	}
	if err := applyClusterRole(ctx, r.Client, simulation.OtelClusterRole()); err != nil {
		return err
	}
	if err := applyClusterRoleBinding(ctx, r.Client, simulation.OtelClusterRoleBinding(ns)); err != nil {
		return err
	}

	if err := applyConfigMap(ctx, r.Client, r.Scheme, sim, simulation.OtelConfigMap(ns)); err != nil {
		return err
	}
	if err := applyService(ctx, r.Client, r.Scheme, sim, simulation.OtelService(ns)); err != nil {
		return err
	}
	if err := applyStatefulSet(ctx, r.Client, r.Scheme, sim, simulation.OtelStatefulSet(ns)); err != nil {
		return err
	}

	if err := applyService(ctx, r.Client, r.Scheme, sim, simulation.JaegerService(ns)); err != nil {
		return err
	}
	if err := applyStatefulSet(ctx, r.Client, r.Scheme, sim, simulation.JaegerStatefulSet(ns)); err != nil {
		return err
	}

	if err := applyConfigMap(ctx, r.Client, r.Scheme, sim, simulation.PrometheusConfigMap(ns)); err != nil {
		return err
	}
	return applyStatefulSet(ctx, r.Client, r.Scheme, sim, simulation.PrometheusStatefulSet(ns))
}

func (r *SimulationReconciler) waitingStatus(ctx context.Context, sim *keramikv1alpha1.Simulation, message string) (ctrl.Result, error) {
	mutate := func() {
		meta.SetStatusCondition(&sim.Status.Conditions, metav1.Condition{
			Type:               "Running",
			Status:             metav1.ConditionFalse,
			Reason:             "Waiting",
			Message:            message,
			ObservedGeneration: sim.Generation,
		})
	}
	mutate()
	if err := UpdateStatusWithRetry(ctx, r.Client, sim, mutate); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{RequeueAfter: RequeueAfterWaiting}, nil
}

func (r *SimulationReconciler) errorStatus(ctx context.Context, sim *keramikv1alpha1.Simulation, err error) (ctrl.Result, error) {
	log := logf.FromContext(ctx)
	log.Error(err, "Failed to reconcile simulation", "name", sim.Name)

	mutate := func() {
		meta.SetStatusCondition(&sim.Status.Conditions, metav1.Condition{
			Type:               "Running",
			Status:             metav1.ConditionFalse,
			Reason:             "Error",
			Message:            err.Error(),
			ObservedGeneration: sim.Generation,
		})
	}
	mutate()
	if statusErr := UpdateStatusWithRetry(ctx, r.Client, sim, mutate); statusErr != nil {
		return ctrl.Result{}, statusErr
	}
	return ctrl.Result{RequeueAfter: RequeueAfterError}, nil
}

func (r *SimulationReconciler) runningStatus(ctx context.Context, sim *keramikv1alpha1.Simulation) (ctrl.Result, error) {
	manager := &batchv1.Job{}
	if err := r.Get(ctx, types.NamespacedName{Name: simulation.ManagerJobName, Namespace: sim.Namespace}, manager); err != nil {
		return ctrl.Result{}, err
	}

	condition := metav1.Condition{
		Type:               "Running",
		Status:             metav1.ConditionTrue,
		Reason:             "Running",
		Message:            "Simulation in progress",
		ObservedGeneration: sim.Generation,
	}
	done := manager.Status.Succeeded > 0 || manager.Status.Failed > 0
	if done {
		condition.Status = metav1.ConditionFalse
		condition.Reason = "Complete"
		condition.Message = "Simulation finished"
		if manager.Status.Failed > 0 {
			condition.Reason = "Failed"
			condition.Message = "Manager job failed"
		}
	}
	mutate := func() { meta.SetStatusCondition(&sim.Status.Conditions, condition) }
	mutate()
	if err := UpdateStatusWithRetry(ctx, r.Client, sim, mutate); err != nil {
		return ctrl.Result{}, err
	}

	if done {
		return ctrl.Result{}, nil
	}
	return ctrl.Result{RequeueAfter: RequeueAfterWaiting}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *SimulationReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&keramikv1alpha1.Simulation{}).
		Owns(&appsv1.StatefulSet{}).
		Owns(&batchv1.Job{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{}).
		Named("simulation").
		Complete(r)
}
