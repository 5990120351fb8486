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

package planner

import sparkerrors "github.com/spark-sched/spark-sched/pkg/errors"

// ForName resolves the --planner flag value to a concrete strategy.
func ForName(name string) (Planner, error) {
	switch name {
	case "fair":
		return FairPlanner{}, nil
	case "workload":
		return WorkloadAwareFairPlanner{}, nil
	case "profile":
		return NewProfiledPlanner(), nil
	default:
		return nil, &sparkerrors.UnknownPlannerError{Value: name}
	}
}

// ParseWorkloadType resolves one --tags entry.
func ParseWorkloadType(s string) (WorkloadType, error) {
	switch s {
	case "compute":
		return Compute, nil
	case "storage":
		return Storage, nil
	default:
		return "", &sparkerrors.UnknownWorkloadTypeError{Value: s}
	}
}
