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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// Reconciliation timing constants
const (
	// RequeueAfterError is the delay before retrying a failed reconciliation
	RequeueAfterError = 5 * time.Second
	// RequeueAfterWaiting is the delay while waiting on workloads to come up
	RequeueAfterWaiting = 10 * time.Second
	// StatusUpdateMaxRetries is the maximum number of retries for status updates
	StatusUpdateMaxRetries = 3
)

// OperatorNamespace is where shared operator resources, such as source
// private key secrets, live.
const OperatorNamespace = "keramik"

// NamespaceFor returns the namespace a network's workloads run in.
func NamespaceFor(networkName string) string {
	return "keramik-" + networkName
}

// UpdateStatusWithRetry updates the status subresource with retry on conflict.
// This handles the race condition where concurrent reconciliations may conflict.
//
// An optional mutate callback can be provided to re-apply status fields after
// the object is re-fetched on conflict. Without a mutate callback, the
// re-fetched object's status would overwrite any pending status changes,
// effectively losing the update the caller intended to persist.
func UpdateStatusWithRetry(ctx context.Context, c client.Client, obj client.Object, mutate ...func()) error {
	for i := 0; i < StatusUpdateMaxRetries; i++ {
		err := c.Status().Update(ctx, obj)
		if err == nil {
			return nil
		}
		if !errors.IsConflict(err) {
			return err
		}
		// On conflict, re-fetch the object and retry
		if i < StatusUpdateMaxRetries-1 {
			if err := c.Get(ctx, client.ObjectKeyFromObject(obj), obj); err != nil {
				return fmt.Errorf("failed to re-fetch object after conflict: %w", err)
			}
			// Re-apply desired status changes on the freshly-fetched object
			for _, fn := range mutate {
				fn()
			}
		}
	}
	return fmt.Errorf("failed to update status after %d retries due to conflicts", StatusUpdateMaxRetries)
}

// setOwner sets owner as the controlling owner reference when owner is
// non-nil. Cluster scoped resources shared across networks pass a nil owner.
func setOwner(owner client.Object, obj client.Object, scheme *runtime.Scheme) error {
	if owner == nil {
		return nil
	}
	return controllerutil.SetControllerReference(owner, obj, scheme)
}

// specHashAnnotation carries a fingerprint of the desired spec. Comparing it
// against the live object avoids no-op updates, which the API server would
// otherwise count as writes and the watch machinery as events.
const specHashAnnotation = "keramik.us3r.network/spec-hash"

// specHash fingerprints the desired spec. Typed API structs always marshal,
// so the error is discarded.
func specHash(spec any) string {
	raw, _ := json.Marshal(spec)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func setSpecHash(obj client.Object, hash string) {
	annotations := obj.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[specHashAnnotation] = hash
	obj.SetAnnotations(annotations)
}

func applyConfigMap(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, cm *corev1.ConfigMap) error {
	if err := setOwner(owner, cm, scheme); err != nil {
		return err
	}
	existing := &corev1.ConfigMap{}
	err := c.Get(ctx, types.NamespacedName{Name: cm.Name, Namespace: cm.Namespace}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, cm)
	}
	if err != nil {
		return err
	}
	if equality.Semantic.DeepEqual(existing.Data, cm.Data) &&
		equality.Semantic.DeepEqual(existing.BinaryData, cm.BinaryData) &&
		equality.Semantic.DeepEqual(existing.Labels, cm.Labels) {
		return nil
	}
	existing.Labels = cm.Labels
	existing.Data = cm.Data
	existing.BinaryData = cm.BinaryData
	return c.Update(ctx, existing)
}

// applyService updates ports and selector in place. The allocated cluster IP
// is left untouched. The live spec picks up server side defaults, so change
// detection goes through the spec hash annotation rather than a field
// comparison.
func applyService(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, svc *corev1.Service) error {
	if err := setOwner(owner, svc, scheme); err != nil {
		return err
	}
	hash := specHash(svc.Spec)
	setSpecHash(svc, hash)
	existing := &corev1.Service{}
	err := c.Get(ctx, types.NamespacedName{Name: svc.Name, Namespace: svc.Namespace}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, svc)
	}
	if err != nil {
		return err
	}
	if existing.Annotations[specHashAnnotation] == hash {
		return nil
	}
	existing.Labels = svc.Labels
	setSpecHash(existing, hash)
	existing.Spec.Ports = svc.Spec.Ports
	existing.Spec.Selector = svc.Spec.Selector
	return c.Update(ctx, existing)
}

func applyStatefulSet(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, sts *appsv1.StatefulSet) error {
	if err := setOwner(owner, sts, scheme); err != nil {
		return err
	}
	hash := specHash(sts.Spec)
	setSpecHash(sts, hash)
	existing := &appsv1.StatefulSet{}
	err := c.Get(ctx, types.NamespacedName{Name: sts.Name, Namespace: sts.Namespace}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, sts)
	}
	if err != nil {
		return err
	}
	if existing.Annotations[specHashAnnotation] == hash {
		return nil
	}
	existing.Labels = sts.Labels
	setSpecHash(existing, hash)
	existing.Spec.Replicas = sts.Spec.Replicas
	existing.Spec.Template = sts.Spec.Template
	return c.Update(ctx, existing)
}

// applyJob creates the job if absent. Job pod templates are immutable so an
// existing job is left as is.
func applyJob(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, job *batchv1.Job) error {
	if err := setOwner(owner, job, scheme); err != nil {
		return err
	}
	existing := &batchv1.Job{}
	err := c.Get(ctx, types.NamespacedName{Name: job.Name, Namespace: job.Namespace}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, job)
	}
	return err
}

// applySecret creates the secret if absent. Generated secrets must stay
// stable across reconciliations, so existing data is never overwritten.
func applySecret(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, secret *corev1.Secret) error {
	if err := setOwner(owner, secret, scheme); err != nil {
		return err
	}
	existing := &corev1.Secret{}
	err := c.Get(ctx, types.NamespacedName{Name: secret.Name, Namespace: secret.Namespace}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, secret)
	}
	return err
}

func applyServiceAccount(ctx context.Context, c client.Client, scheme *runtime.Scheme, owner client.Object, sa *corev1.ServiceAccount) error {
	if err := setOwner(owner, sa, scheme); err != nil {
		return err
	}
	existing := &corev1.ServiceAccount{}
	err := c.Get(ctx, types.NamespacedName{Name: sa.Name, Namespace: sa.Namespace}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, sa)
	}
	return err
}

func applyClusterRole(ctx context.Context, c client.Client, role *rbacv1.ClusterRole) error {
	existing := &rbacv1.ClusterRole{}
	err := c.Get(ctx, types.NamespacedName{Name: role.Name}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, role)
	}
	if err != nil {
		return err
	}
	if equality.Semantic.DeepEqual(existing.Rules, role.Rules) {
		return nil
	}
	existing.Rules = role.Rules
	return c.Update(ctx, existing)
}

func applyClusterRoleBinding(ctx context.Context, c client.Client, binding *rbacv1.ClusterRoleBinding) error {
	existing := &rbacv1.ClusterRoleBinding{}
	err := c.Get(ctx, types.NamespacedName{Name: binding.Name}, existing)
	if errors.IsNotFound(err) {
		return c.Create(ctx, binding)
	}
	if err != nil {
		return err
	}
	if equality.Semantic.DeepEqual(existing.Subjects, binding.Subjects) {
		return nil
	}
	existing.Subjects = binding.Subjects
	return c.Update(ctx, existing)
}

// statefulSetReady reports whether the named StatefulSet has at least one
// ready replica. A missing StatefulSet counts as not ready.
func statefulSetReady(ctx context.Context, c client.Client, ns, name string) (bool, error) {
	sts := &appsv1.StatefulSet{}
	if err := c.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, sts); err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return sts.Status.ReadyReplicas > 0, nil
}

// podReady reports whether the pod's Ready condition is true.
func podReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

// jobReady reports whether the named Job has at least one ready pod.
func jobReady(ctx context.Context, c client.Client, ns, name string) (bool, error) {
	job := &batchv1.Job{}
	if err := c.Get(ctx, types.NamespacedName{Name: name, Namespace: ns}, job); err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if job.Status.Ready != nil && *job.Status.Ready > 0 {
		return true, nil
	}
	// Older control planes do not report ready counts
	return job.Status.Active > 0, nil
}
