/*
Copyright 2024 The gkectl authors.

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

package cluster

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotFoundError reports that a named cluster or node pool does not exist.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// ProvisioningError reports a failed create. PartialResources names billable
// resources that may have been left behind and must be cleaned up manually.
type ProvisioningError struct {
	Cluster          string
	Message          string
	PartialResources []string
}

func (e *ProvisioningError) Error() string {
	msg := fmt.Sprintf("provisioning cluster %q failed: %s", e.Cluster, e.Message)
	if len(e.PartialResources) > 0 {
		msg += fmt.Sprintf("; resources possibly left behind: %s", strings.Join(e.PartialResources, ", "))
	}
	return msg
}

// ScalingError reports a rejected or failed node pool resize.
type ScalingError struct {
	Cluster string
	Pool    string
	Message string
}

func (e *ScalingError) Error() string {
	if e.Pool != "" {
		return fmt.Sprintf("scaling node pool %q of cluster %q failed: %s", e.Pool, e.Cluster, e.Message)
	}
	return fmt.Sprintf("scaling cluster %q failed: %s", e.Cluster, e.Message)
}

// Teardown steps, in the order delete performs them.
const (
	TeardownStepDisk    = "disk"
	TeardownStepCluster = "cluster"
	TeardownStepNetwork = "network"
)

// TeardownError reports which step of a delete failed so the caller knows
// what is left to clean up manually.
type TeardownError struct {
	Cluster string
	Step    string
	Message string
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown of cluster %q failed at step %q: %s", e.Cluster, e.Step, e.Message)
}

// TimeoutError reports that polling exceeded its bound without the operation
// reaching a terminal state. The control plane continues the mutation; the
// caller may inspect state and wait again.
type TimeoutError struct {
	Action string
	Wait   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s; the control plane continues the operation", e.Wait, e.Action)
}

// IsTimeout reports whether err is or wraps a TimeoutError.
func IsTimeout(err error) bool {
	var timeout *TimeoutError
	return errors.As(err, &timeout)
}

// operationFailedError carries the control plane's diagnostic for an
// operation that reached ABORTING. Callers wrap it into the taxonomy above.
type operationFailedError struct {
	Handle  OperationHandle
	Message string
}

func (e *operationFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("operation %s failed", e.Handle)
	}
	return e.Message
}
