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

// ManagedLabels returns the labels stamped on every object the operator owns.
func ManagedLabels() map[string]string {
	return map[string]string{
		"managed-by": "keramik",
	}
}

// SelectorLabels returns the selector labels for the given app.
func SelectorLabels(app string) map[string]string {
	return map[string]string{
		"app": app,
	}
}

// Labels returns selector plus managed labels for the given app.
func Labels(app string) map[string]string {
	labels := SelectorLabels(app)
	for k, v := range ManagedLabels() {
		labels[k] = v
	}
	return labels
}
