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
	"sort"

	corev1 "k8s.io/api/core/v1"
)

// applyEnvOverrides replaces defaults by name with the caller's overrides,
// appending names not already present. Later writes win.
func applyEnvOverrides(env []corev1.EnvVar, overrides map[string]string) []corev1.EnvVar {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := overrides[name]
		replaced := false
		for i := range env {
			if env[i].Name == name {
				env[i] = corev1.EnvVar{Name: name, Value: value}
				replaced = true
				break
			}
		}
		if !replaced {
			env = append(env, corev1.EnvVar{Name: name, Value: value})
		}
	}
	return env
}

// sortEnv orders env vars by name so rendered pod specs are stable.
func sortEnv(env []corev1.EnvVar) []corev1.EnvVar {
	sort.SliceStable(env, func(i, j int) bool { return env[i].Name < env[j].Name })
	return env
}
