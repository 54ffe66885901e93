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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SimulationSpec defines a load simulation run against the Ceramic network
// in the Simulation's namespace.
type SimulationSpec struct {
	// Name of the scenario to run.
	Scenario string `json:"scenario"`

	// Simulated users, split across all worker peers.
	// +kubebuilder:validation:Minimum=1
	Users int32 `json:"users"`

	// Runtime of the simulation in minutes.
	// +kubebuilder:validation:Minimum=1
	RunTime int32 `json:"runTime"`

	// Runner image for manager and workers.
	// +optional
	Image *string `json:"image,omitempty"`

	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *string `json:"imagePullPolicy,omitempty"`

	// Request rate limit per worker, in requests per second.
	// +optional
	ThrottleRequests *int32 `json:"throttleRequests,omitempty"`

	// Success threshold passed to scenarios that check one, in requests
	// per second across the whole simulation.
	// +optional
	SuccessRequestTarget *int32 `json:"successRequestTarget,omitempty"`

	// Log level for the runner processes.
	// +optional
	LogLevel *string `json:"logLevel,omitempty"`
}

// SimulationStatus defines the observed state of a Simulation.
type SimulationStatus struct {
	// Random value shared by all jobs of this run so scenarios generate
	// disjoint data per run. Assigned once, before any workload exists.
	// +optional
	Nonce *int32 `json:"nonce,omitempty"`

	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Scenario",type="string",JSONPath=".spec.scenario"
// +kubebuilder:printcolumn:name="Users",type="integer",JSONPath=".spec.users"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// Simulation is the Schema for the simulations API.
type Simulation struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SimulationSpec   `json:"spec,omitempty"`
	Status SimulationStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// SimulationList contains a list of Simulation.
type SimulationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Simulation `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Simulation{}, &SimulationList{})
}
