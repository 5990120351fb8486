/*
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

// Package errors holds the typed error taxonomy shared by both binaries
// (spec §7). Each type wraps enough context for logging without requiring
// callers to string-match error messages.
package errors

import "fmt"

// UnsupportedUnitError is returned by the quantity parser when it sees a
// suffix it doesn't recognize.
type UnsupportedUnitError struct {
	Quantity string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported quantity unit: %q", e.Quantity)
}

// NoFitForPodError is returned when the capacity predicate admits no node.
type NoFitForPodError struct {
	Namespace string
	Name      string
}

func (e *NoFitForPodError) Error() string {
	return fmt.Sprintf("no node fits pod %s/%s", e.Namespace, e.Name)
}

// BindFailedError is returned when the binding subresource call fails or
// returns a status code outside [200, 202].
type BindFailedError struct {
	Namespace string
	Name      string
	NodeName  string
	Err       error
}

func (e *BindFailedError) Error() string {
	return fmt.Sprintf("failed to bind pod %s/%s to node %s: %v", e.Namespace, e.Name, e.NodeName, e.Err)
}

func (e *BindFailedError) Unwrap() error { return e.Err }

// EventFailedError is returned when event creation fails; never fatal to
// the schedule path that observes it.
type EventFailedError struct {
	Err error
}

func (e *EventFailedError) Error() string {
	return fmt.Sprintf("failed to emit scheduled event: %v", e.Err)
}

func (e *EventFailedError) Unwrap() error { return e.Err }

// WatchLostError is raised when the pod watch stream fails permanently.
type WatchLostError struct {
	Err error
}

func (e *WatchLostError) Error() string {
	return fmt.Sprintf("pod watch lost: %v", e.Err)
}

func (e *WatchLostError) Unwrap() error { return e.Err }

// SnapshotFailedError is raised when the initial node listing fails.
type SnapshotFailedError struct {
	Err error
}

func (e *SnapshotFailedError) Error() string {
	return fmt.Sprintf("cluster snapshot failed: %v", e.Err)
}

func (e *SnapshotFailedError) Unwrap() error { return e.Err }

// UnknownPlannerError is raised at startup for an unrecognized --planner value.
type UnknownPlannerError struct {
	Value string
}

func (e *UnknownPlannerError) Error() string {
	return fmt.Sprintf("unknown planner %q", e.Value)
}

// UnknownWorkloadTypeError is raised at startup for an unrecognized --tags entry.
type UnknownWorkloadTypeError struct {
	Value string
}

func (e *UnknownWorkloadTypeError) Error() string {
	return fmt.Sprintf("unknown workload type %q", e.Value)
}
