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
	"fmt"
	"io"
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
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	keramikv1alpha1 "github.com/us3r-network/keramik/api/v1alpha1"
	"github.com/us3r-network/keramik/internal/ceramic"
)

// fakeIpfsClient serves canned peer records keyed by RPC address.
type fakeIpfsClient struct {
	peers map[string]*keramikv1alpha1.IpfsPeerInfo
}

func (f *fakeIpfsClient) PeerInfo(_ context.Context, rpcAddr string) (*keramikv1alpha1.IpfsPeerInfo, error) {
	if info, ok := f.peers[rpcAddr]; ok {
		return info, nil
	}
	return nil, fmt.Errorf("dial %s: connection refused", rpcAddr)
}

func (f *fakeIpfsClient) ConnectedPeers(_ context.Context, _ string) (int, error) {
	return len(f.peers), nil
}

// servePeer registers a canned record for pod ordinal of the given variant.
func (f *fakeIpfsClient) servePeer(ns string, variant int, ordinal int32) {
	info := ceramic.NewInfo(fmt.Sprintf("%d", variant), ordinal+1)
	rpcAddr := info.IpfsRpcAddr(ns, ordinal, ceramic.RustRPCPort)
	peerID := fmt.Sprintf("12D3KooW-%d-%d", variant, ordinal)
	f.peers[rpcAddr] = &keramikv1alpha1.IpfsPeerInfo{
		PeerID:      peerID,
		IpfsRpcAddr: rpcAddr,
		P2PAddrs:    []string{fmt.Sprintf("/ip4/10.0.%d.%d/tcp/4001/p2p/%s", variant, ordinal, peerID)},
	}
}

// countingReader counts how many random bytes reconciliation consumed.
type countingReader struct {
	reader io.Reader
	bytes  int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.bytes += n
	return n, err
}

func newNetworkReconciler(ipfsClient *fakeIpfsClient, now func() time.Time) *NetworkReconciler {
	if now == nil {
		now = time.Now
	}
	return &NetworkReconciler{
		Client:     k8sClient,
		Scheme:     k8sClient.Scheme(),
		IpfsClient: ipfsClient,
		Rand:       mathrand.New(mathrand.NewSource(1)),
		Now:        now,
	}
}

func int64Ptr(i int64) *int64 { return &i }
func int32Ptr(i int32) *int32 { return &i }
func strPtr(s string) *string { return &s }

var _ = Describe("Network Controller", func() {
	const (
		timeout  = time.Second * 10
		interval = time.Millisecond * 250
	)

	reconcileNetwork := func(r *NetworkReconciler, name string) reconcile.Result {
		result, err := r.Reconcile(ctx, reconcile.Request{
			NamespacedName: types.NamespacedName{Name: name},
		})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	deleteNetwork := func(name string) {
		network := &keramikv1alpha1.Network{}
		if err := k8sClient.Get(ctx, types.NamespacedName{Name: name}, network); err == nil {
			_ = k8sClient.Delete(ctx, network)
		}
	}

	// Pods never run without kubelets, so readiness is patched in directly.
	createPod := func(ns, name string, ready bool) {
		pod := &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns},
			Spec: corev1.PodSpec{
				Containers: []corev1.Container{{Name: "ceramic", Image: "ceramicnetwork/js-ceramic"}},
			},
		}
		err := k8sClient.Create(ctx, pod)
		if err != nil {
			Expect(errors.IsAlreadyExists(err)).To(BeTrue())
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, pod)).To(Succeed())
		}
		if !ready {
			return
		}
		pod.Status.Phase = corev1.PodRunning
		pod.Status.Conditions = []corev1.PodCondition{
			{Type: corev1.PodReady, Status: corev1.ConditionTrue},
		}
		Expect(k8sClient.Status().Update(ctx, pod)).To(Succeed())
	}

	Context("When creating a basic Network", func() {
		const resourceName = "basic"
		ns := NamespaceFor(resourceName)

		AfterEach(func() {
			deleteNetwork(resourceName)
		})

		It("should create the namespace and workloads", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec:       keramikv1alpha1.NetworkSpec{Replicas: 2},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			r := newNetworkReconciler(&fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}, nil)
			result := reconcileNetwork(r, resourceName)
			Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting))

			By("Verifying the namespace was created")
			Eventually(func() error {
				return k8sClient.Get(ctx, types.NamespacedName{Name: ns}, &corev1.Namespace{})
			}, timeout, interval).Should(Succeed())

			By("Verifying the admin secret was generated")
			secret := &corev1.Secret{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.AdminSecretName, Namespace: ns}, secret)).To(Succeed())
			Expect(secret.Data[ceramic.AdminSecretKey]).To(HaveLen(64), "32 random bytes hex encoded")

			By("Verifying the variant StatefulSet and Service")
			sts := &appsv1.StatefulSet{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-0", Namespace: ns}, sts)).To(Succeed())
			Expect(*sts.Spec.Replicas).To(Equal(int32(2)))
			svc := &corev1.Service{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-0", Namespace: ns}, svc)).To(Succeed())
			Expect(svc.Spec.ClusterIP).To(Equal(corev1.ClusterIPNone))

			By("Verifying the init ConfigMap and empty peer registry")
			cm := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.InitConfigMapName, Namespace: ns}, cm)).To(Succeed())
			Expect(cm.Data).To(HaveKey("daemon-config.json"))
			registry := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.PeersConfigMapName, Namespace: ns}, registry)).To(Succeed())
			Expect(registry.Data).To(HaveKey(ceramic.PeersKey))

			By("Verifying the local anchor service stack")
			for _, name := range []string{"cas", "cas-ipfs", "ganache", "cas-postgres", "localstack"} {
				Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, &appsv1.StatefulSet{})).To(Succeed())
			}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.CASAuthSecretName, Namespace: ns}, &corev1.Secret{})).To(Succeed())

			By("Verifying status reports the waiting condition")
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, network)).To(Succeed())
			Expect(network.Status.Replicas).To(Equal(int32(2)))
			Expect(network.Status.ReadyReplicas).To(Equal(int32(0)))
			Expect(network.Status.Namespace).NotTo(BeNil())
			Expect(*network.Status.Namespace).To(Equal(ns))
			condition := meta.FindStatusCondition(network.Status.Conditions, "Ready")
			Expect(condition).NotTo(BeNil())
			Expect(condition.Status).To(Equal(metav1.ConditionFalse))
			Expect(condition.Reason).To(Equal("Waiting"))
		})
	})

	Context("When peers come up", func() {
		const resourceName = "peers"
		ns := NamespaceFor(resourceName)

		AfterEach(func() {
			deleteNetwork(resourceName)
		})

		It("should publish the registry and run bootstrap", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec:       keramikv1alpha1.NetworkSpec{Replicas: 2},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			fake := &fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}
			fake.servePeer(ns, 0, 0)
			fake.servePeer(ns, 0, 1)

			r := newNetworkReconciler(fake, nil)
			reconcileNetwork(r, resourceName)

			By("Bringing both pods to ready")
			createPod(ns, "ceramic-0-0", true)
			createPod(ns, "ceramic-0-1", true)
			reconcileNetwork(r, resourceName)

			By("Verifying the peer registry holds both peers")
			registry := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.PeersConfigMapName, Namespace: ns}, registry)).To(Succeed())
			peers, err := ceramic.ParsePeers(registry.Data[ceramic.PeersKey])
			Expect(err).NotTo(HaveOccurred())
			Expect(peers).To(HaveLen(2))
			Expect(ceramic.CeramicPeers(peers)).To(HaveLen(2))

			By("Verifying the bootstrap job was created")
			job := &batchv1.Job{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.BootstrapJobName, Namespace: ns}, job)).To(Succeed())

			By("Verifying the status is ready")
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, network)).To(Succeed())
			Expect(network.Status.ReadyReplicas).To(Equal(int32(2)))
			condition := meta.FindStatusCondition(network.Status.Conditions, "Ready")
			Expect(condition).NotTo(BeNil())
			Expect(condition.Status).To(Equal(metav1.ConditionTrue))
		})

		It("should skip peers that are not reachable", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec:       keramikv1alpha1.NetworkSpec{Replicas: 2},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			fake := &fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}
			fake.servePeer(ns, 0, 0)

			r := newNetworkReconciler(fake, nil)
			reconcileNetwork(r, resourceName)
			createPod(ns, "ceramic-0-0", true)
			createPod(ns, "ceramic-0-1", true)

			result := reconcileNetwork(r, resourceName)
			Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting))

			registry := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.PeersConfigMapName, Namespace: ns}, registry)).To(Succeed())
			peers, err := ceramic.ParsePeers(registry.Data[ceramic.PeersKey])
			Expect(err).NotTo(HaveOccurred())
			Expect(peers).To(HaveLen(1))
		})

		It("should not probe peers whose pods are not ready", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec:       keramikv1alpha1.NetworkSpec{Replicas: 3},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			// Records exist for all three peers, but only the first two pods
			// report ready. The third must stay out of the registry without
			// its RPC endpoint ever being dialed.
			fake := &fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}
			fake.servePeer(ns, 0, 0)
			fake.servePeer(ns, 0, 1)
			fake.servePeer(ns, 0, 2)

			r := newNetworkReconciler(fake, nil)
			reconcileNetwork(r, resourceName)
			createPod(ns, "ceramic-0-0", true)
			createPod(ns, "ceramic-0-1", true)
			createPod(ns, "ceramic-0-2", false)

			result := reconcileNetwork(r, resourceName)
			Expect(result.RequeueAfter).To(Equal(RequeueAfterWaiting))

			registry := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: ceramic.PeersConfigMapName, Namespace: ns}, registry)).To(Succeed())
			peers, err := ceramic.ParsePeers(registry.Data[ceramic.PeersKey])
			Expect(err).NotTo(HaveOccurred())
			Expect(peers).To(HaveLen(2))
		})
	})

	Context("When the Network declares weighted variants", func() {
		const resourceName = "weighted"
		ns := NamespaceFor(resourceName)

		AfterEach(func() {
			deleteNetwork(resourceName)
		})

		It("should split replicas across the variants", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec: keramikv1alpha1.NetworkSpec{
					Replicas: 5,
					Ceramic: []keramikv1alpha1.CeramicSpec{
						{Weight: int32Ptr(1)},
						{Weight: int32Ptr(1)},
					},
				},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			r := newNetworkReconciler(&fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}, nil)
			reconcileNetwork(r, resourceName)

			sts0 := &appsv1.StatefulSet{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-0", Namespace: ns}, sts0)).To(Succeed())
			Expect(*sts0.Spec.Replicas).To(Equal(int32(3)), "remainder goes to the first variant")
			sts1 := &appsv1.StatefulSet{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-1", Namespace: ns}, sts1)).To(Succeed())
			Expect(*sts1.Spec.Replicas).To(Equal(int32(2)))
		})

		It("should delete the StatefulSet of a dropped variant", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec: keramikv1alpha1.NetworkSpec{
					Replicas: 2,
					Ceramic: []keramikv1alpha1.CeramicSpec{
						{Weight: int32Ptr(1)},
						{Weight: int32Ptr(1)},
					},
				},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			r := newNetworkReconciler(&fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}, nil)
			reconcileNetwork(r, resourceName)
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-1", Namespace: ns}, &appsv1.StatefulSet{})).To(Succeed())

			By("Dropping the second variant")
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, network)).To(Succeed())
			network.Spec.Ceramic = network.Spec.Ceramic[:1]
			Expect(k8sClient.Update(ctx, network)).To(Succeed())
			reconcileNetwork(r, resourceName)

			Eventually(func() bool {
				err := k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-1", Namespace: ns}, &appsv1.StatefulSet{})
				return errors.IsNotFound(err)
			}, timeout, interval).Should(BeTrue())
		})
	})

	Context("When the spec does not change between reconciliations", func() {
		const resourceName = "steady"
		ns := NamespaceFor(resourceName)

		AfterEach(func() {
			deleteNetwork(resourceName)
		})

		It("should leave unchanged workloads untouched", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec:       keramikv1alpha1.NetworkSpec{Replicas: 1},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			rand := &countingReader{reader: mathrand.New(mathrand.NewSource(1))}
			r := &NetworkReconciler{
				Client:     k8sClient,
				Scheme:     k8sClient.Scheme(),
				IpfsClient: &fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}},
				Rand:       rand,
				Now:        time.Now,
			}
			reconcileNetwork(r, resourceName)
			randomBytes := rand.bytes
			Expect(randomBytes).To(Equal(32+16), "admin key and anchor db password")

			resourceVersion := func(obj client.Object, name string) string {
				Expect(k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, obj)).To(Succeed())
				return obj.GetResourceVersion()
			}
			versions := map[string]string{
				"sts":      resourceVersion(&appsv1.StatefulSet{}, "ceramic-0"),
				"svc":      resourceVersion(&corev1.Service{}, "ceramic-0"),
				"init":     resourceVersion(&corev1.ConfigMap{}, ceramic.InitConfigMapName),
				"registry": resourceVersion(&corev1.ConfigMap{}, ceramic.PeersConfigMapName),
				"cas":      resourceVersion(&appsv1.StatefulSet{}, "cas"),
				"auth":     resourceVersion(&corev1.Secret{}, ceramic.CASAuthSecretName),
			}

			By("Reconciling a second time")
			reconcileNetwork(r, resourceName)
			Expect(rand.bytes).To(Equal(randomBytes), "no fresh secrets on a steady pass")
			Expect(resourceVersion(&appsv1.StatefulSet{}, "ceramic-0")).To(Equal(versions["sts"]))
			Expect(resourceVersion(&corev1.Service{}, "ceramic-0")).To(Equal(versions["svc"]))
			Expect(resourceVersion(&corev1.ConfigMap{}, ceramic.InitConfigMapName)).To(Equal(versions["init"]))
			Expect(resourceVersion(&corev1.ConfigMap{}, ceramic.PeersConfigMapName)).To(Equal(versions["registry"]))
			Expect(resourceVersion(&appsv1.StatefulSet{}, "cas")).To(Equal(versions["cas"]))
			Expect(resourceVersion(&corev1.Secret{}, ceramic.CASAuthSecretName)).To(Equal(versions["auth"]))

			By("Scaling up still rolls the StatefulSet")
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, network)).To(Succeed())
			network.Spec.Replicas = 2
			Expect(k8sClient.Update(ctx, network)).To(Succeed())
			reconcileNetwork(r, resourceName)
			sts := &appsv1.StatefulSet{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "ceramic-0", Namespace: ns}, sts)).To(Succeed())
			Expect(*sts.Spec.Replicas).To(Equal(int32(2)))
			Expect(sts.ResourceVersion).NotTo(Equal(versions["sts"]))
		})
	})

	Context("When the admin key source is missing", func() {
		const resourceName = "missing-key"

		AfterEach(func() {
			deleteNetwork(resourceName)
		})

		It("should report the precondition and not requeue", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec: keramikv1alpha1.NetworkSpec{
					Replicas:         1,
					PrivateKeySecret: strPtr("no-such-secret"),
				},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			r := newNetworkReconciler(&fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}, nil)
			result, err := r.Reconcile(ctx, reconcile.Request{
				NamespacedName: types.NamespacedName{Name: resourceName},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(BeZero(), "only a spec change can resolve this")

			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, network)).To(Succeed())
			condition := meta.FindStatusCondition(network.Status.Conditions, "Ready")
			Expect(condition).NotTo(BeNil())
			Expect(condition.Reason).To(Equal("MissingPrecondition"))
		})
	})

	Context("When the Network has a TTL", func() {
		const resourceName = "expiring"

		AfterEach(func() {
			deleteNetwork(resourceName)
		})

		It("should delete the Network once the TTL lapses", func() {
			network := &keramikv1alpha1.Network{
				ObjectMeta: metav1.ObjectMeta{Name: resourceName},
				Spec: keramikv1alpha1.NetworkSpec{
					Replicas:   1,
					TTLSeconds: int64Ptr(3600),
				},
			}
			Expect(k8sClient.Create(ctx, network)).To(Succeed())

			By("Reconciling before expiration")
			r := newNetworkReconciler(&fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}}, time.Now)
			reconcileNetwork(r, resourceName)
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, network)).To(Succeed())
			Expect(network.Status.ExpirationTime).NotTo(BeNil())

			By("Reconciling after expiration")
			expired := newNetworkReconciler(&fakeIpfsClient{peers: map[string]*keramikv1alpha1.IpfsPeerInfo{}},
				func() time.Time { return time.Now().Add(2 * time.Hour) })
			reconcileNetwork(expired, resourceName)

			Eventually(func() bool {
				err := k8sClient.Get(ctx, types.NamespacedName{Name: resourceName}, &keramikv1alpha1.Network{})
				return errors.IsNotFound(err)
			}, timeout, interval).Should(BeTrue())
		})
	})
})
