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
	"errors"
	"fmt"
)

// ConfigError reports a spec that resolved to an unusable configuration.
// The condition clears once the user fixes the spec, so callers requeue.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigError returns a ConfigError for the given spec field.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// IsConfigError reports whether any error in err's chain is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// PreconditionError reports a referenced object that does not exist.
// Requeueing cannot help until the user creates it, so callers surface the
// error and wait for the next watch event.
type PreconditionError struct {
	Resource string
	Name     string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("missing %s %q", e.Resource, e.Name)
}

// NewPreconditionError returns a PreconditionError for the given object.
func NewPreconditionError(resource, name string) *PreconditionError {
	return &PreconditionError{Resource: resource, Name: name}
}

// IsPreconditionError reports whether any error in err's chain is a
// PreconditionError.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
