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
	"fmt"
	mathrand "math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
	"github.com/us3r-network/keramik/internal/ceramic"
	"github.com/us3r-network/keramik/internal/simulation"
)

var _ = Describe("Simulation Controller", func() {
	const ns = "sim-test"
	const resourceName = "load-test"

	var typeNamespacedName types.NamespacedName

	newSimulationReconciler := func() *SimulationReconciler {
		return &SimulationReconciler{
			Client: k8sClient,
			Scheme: k8sClient.Scheme(),
			Rand:   mathrand.New(mathrand.NewSource(7)),
		}
	}

	reconcileSimulation := func(r *SimulationReconciler) reconcile.Result {
		result, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: typeNamespacedName})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	// Workloads never report ready on their own without kubelets, so the
	// gates are opened by patching status directly.
	markStatefulSetReady := func(name string) {
		sts := &appsv1.StatefulSet{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, sts)).To(Succeed())
		sts.Status.Replicas = 1
		sts.Status.ReadyReplicas = 1
		Expect(k8sClient.Status().Update(ctx, sts)).To(Succeed())
	}

	markJobActive := func(name string) {
		job := &batchv1.Job{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, job)).To(Succeed())
		job.Status.Active = 1
		Expect(k8sClient.Status().Update(ctx, job)).To(Succeed())
	}

	writeRegistry := func(ceramicPeers, ipfsPeers int) {
		var peers []keramikv1alpha1.Peer
		for i := 0; i < ceramicPeers; i++ {
			peers = append(peers, keramikv1alpha1.Peer{
				Ceramic: &keramikv1alpha1.CeramicPeerInfo{
					PeerID:      fmt.Sprintf("12D3KooWC%d", i),
					CeramicAddr: fmt.Sprintf("http://ceramic-0-%d.ceramic-0.%s.svc.cluster.local:7007", i, ns),
					IpfsRpcAddr: fmt.Sprintf("http://ceramic-0-%d.ceramic-0.%s.svc.cluster.local:5101", i, ns),
				},
			})
		}
		for i := 0; i < ipfsPeers; i++ {
			peers = append(peers, keramikv1alpha1.Peer{
				Ipfs: &keramikv1alpha1.IpfsPeerInfo{
					PeerID:      fmt.Sprintf("12D3KooWI%d", i),
					IpfsRpcAddr: fmt.Sprintf("http://cas-ipfs-%d.cas-ipfs.%s.svc.cluster.local:5101", i, ns),
				},
			})
		}
		cm, err := ceramic.PeersConfigMap(ns, peers)
		Expect(err).NotTo(HaveOccurred())
		existing := &corev1.ConfigMap{}
		getErr := k8sClient.Get(ctx, types.NamespacedName{Name: cm.Name, Namespace: ns}, existing)
		if errors.IsNotFound(getErr) {
			Expect(k8sClient.Create(ctx, cm)).To(Succeed())
			return
		}
		Expect(getErr).NotTo(HaveOccurred())
		existing.Data = cm.Data
		Expect(k8sClient.Update(ctx, existing)).To(Succeed())
	}

	BeforeEach(func() {
		typeNamespacedName = types.NamespacedName{Name: resourceName, Namespace: ns}

		namespace := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: ns}}
		err := k8sClient.Create(ctx, namespace)
		if err != nil {
			Expect(errors.IsAlreadyExists(err)).To(BeTrue())
		}

		sim := &keramikv1alpha1.Simulation{
			ObjectMeta: metav1.ObjectMeta{Name: resourceName, Namespace: ns},
			Spec: keramikv1alpha1.SimulationSpec{
				Scenario: "ceramic-simple",
				Users:    10,
				RunTime:  5,
			},
		}
		Expect(k8sClient.Create(ctx, sim)).To(Succeed())
	})

	AfterEach(func() {
		sim := &keramikv1alpha1.Simulation{}
		if err := k8sClient.Get(ctx, typeNamespacedName, sim); err == nil {
			_ = k8sClient.Delete(ctx, sim)
		}
		for _, name := range []string{
			simulation.ManagerJobName,
			simulation.WorkerJobFor(0), simulation.WorkerJobFor(1), simulation.WorkerJobFor(2),
			ceramic.BootstrapJobName,
		} {
			_ = k8sClient.Delete(ctx, &batchv1.Job{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns},
			})
		}
		_ = k8sClient.Delete(ctx, &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: ceramic.PeersConfigMapName, Namespace: ns},
		})
	})

	It("should assign a nonce before anything else", func() {
		r := newSimulationReconciler()
		result := reconcileSimulation(r)
		Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting), "monitoring not up yet")

		sim := &keramikv1alpha1.Simulation{}
		Expect(k8sClient.Get(ctx, typeNamespacedName, sim)).To(Succeed())
		Expect(sim.Status.Nonce).NotTo(BeNil())
		nonce := *sim.Status.Nonce

		By("Verifying the nonce survives further reconciliations")
		reconcileSimulation(r)
		Expect(k8sClient.Get(ctx, typeNamespacedName, sim)).To(Succeed())
		Expect(*sim.Status.Nonce).To(Equal(nonce))
	})

	It("should wait for monitoring before starting jobs", func() {
		writeRegistry(2, 0)

		r := newSimulationReconciler()
		result := reconcileSimulation(r)
		Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting))

		By("Verifying the monitoring stack was created")
		for _, name := range []string{
			simulation.JaegerStatefulSetName,
			simulation.PromStatefulSetName,
			simulation.OtelStatefulSetName,
		} {
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, &appsv1.StatefulSet{})).To(Succeed())
		}

		By("Verifying no manager job exists yet")
		err := k8sClient.Get(ctx, types.NamespacedName{Name: simulation.ManagerJobName, Namespace: ns}, &batchv1.Job{})
		Expect(errors.IsNotFound(err)).To(BeTrue())
	})

	It("should start one worker per ceramic peer", func() {
		writeRegistry(3, 2)

		r := newSimulationReconciler()
		reconcileSimulation(r)
		markStatefulSetReady(simulation.JaegerStatefulSetName)
		markStatefulSetReady(simulation.PromStatefulSetName)
		markStatefulSetReady(simulation.OtelStatefulSetName)

		reconcileSimulation(r)
		markStatefulSetReady(simulation.RedisStatefulSetName)

		reconcileSimulation(r)
		By("Verifying the manager service and job")
		svc := &corev1.Service{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: simulation.ManagerServiceName, Namespace: ns}, svc)).To(Succeed())
		manager := &batchv1.Job{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: simulation.ManagerJobName, Namespace: ns}, manager)).To(Succeed())
		Expect(manager.Spec.Template.Spec.Hostname).To(Equal("manager"))

		By("Verifying workers wait for the manager")
		err := k8sClient.Get(ctx, types.NamespacedName{Name: simulation.WorkerJobFor(0), Namespace: ns}, &batchv1.Job{})
		Expect(errors.IsNotFound(err)).To(BeTrue())

		markJobActive(simulation.ManagerJobName)
		reconcileSimulation(r)

		By("Verifying one worker per ceramic peer, none for ipfs peers")
		sim := &keramikv1alpha1.Simulation{}
		Expect(k8sClient.Get(ctx, typeNamespacedName, sim)).To(Succeed())
		for i := 0; i < 3; i++ {
			worker := &batchv1.Job{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: simulation.WorkerJobFor(i), Namespace: ns}, worker)).To(Succeed())
			var target, nonce string
			for _, e := range worker.Spec.Template.Spec.Containers[0].Env {
				switch e.Name {
				case "SIMULATE_TARGET_PEER":
					target = e.Value
				case "SIMULATE_NONCE":
					nonce = e.Value
				}
			}
			Expect(target).To(Equal(fmt.Sprintf("%d", i)))
			Expect(nonce).To(Equal(fmt.Sprintf("%d", *sim.Status.Nonce)))
		}
		err = k8sClient.Get(ctx, types.NamespacedName{Name: simulation.WorkerJobFor(3), Namespace: ns}, &batchv1.Job{})
		Expect(errors.IsNotFound(err)).To(BeTrue())
	})

	It("should raise monitoring before reading the registry", func() {
		// No registry exists at all. The observability stack still has to go
		// up, and the unreadable registry takes the error path once the
		// monitoring gate passes.
		r := newSimulationReconciler()
		reconcileSimulation(r)

		for _, name := range []string{
			simulation.JaegerStatefulSetName,
			simulation.PromStatefulSetName,
			simulation.OtelStatefulSetName,
		} {
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, &appsv1.StatefulSet{})).To(Succeed())
			markStatefulSetReady(name)
		}

		result := reconcileSimulation(r)
		Expect(result.RequeueAfter).To(Equal(RequeueAfterError))

		sim := &keramikv1alpha1.Simulation{}
		Expect(k8sClient.Get(ctx, typeNamespacedName, sim)).To(Succeed())
		condition := meta.FindStatusCondition(sim.Status.Conditions, "Running")
		Expect(condition).NotTo(BeNil())
		Expect(condition.Reason).To(Equal("Error"))

		By("Waiting once the registry exists but holds no ceramic peers")
		writeRegistry(0, 2)
		result = reconcileSimulation(r)
		Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting))
	})

	It("should keep the run alive until the manager finishes", func() {
		writeRegistry(1, 0)

		r := newSimulationReconciler()
		reconcileSimulation(r)
		markStatefulSetReady(simulation.JaegerStatefulSetName)
		markStatefulSetReady(simulation.PromStatefulSetName)
		markStatefulSetReady(simulation.OtelStatefulSetName)
		reconcileSimulation(r)
		markStatefulSetReady(simulation.RedisStatefulSetName)
		reconcileSimulation(r)
		markJobActive(simulation.ManagerJobName)

		result := reconcileSimulation(r)
		Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting))

		By("Completing the manager job")
		manager := &batchv1.Job{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: simulation.ManagerJobName, Namespace: ns}, manager)).To(Succeed())
		manager.Status.Active = 0
		manager.Status.Succeeded = 1
		now := metav1.NewTime(time.Now())
		manager.Status.CompletionTime = &now
		manager.Status.StartTime = &now
		manager.Status.Conditions = append(manager.Status.Conditions, batchv1.JobCondition{
			Type:   batchv1.JobComplete,
			Status: corev1.ConditionTrue,
		})
		Expect(k8sClient.Status().Update(ctx, manager)).To(Succeed())

		result = reconcileSimulation(r)
		Expect(result.RequeueAfter).To(BeZero())
	})
})
