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

// Package planner computes per-workload driver/executor resource plans
// (C3) from a depleting cluster.State, implementing the Fair,
// WorkloadAwareFair, and Profiled strategies.
package planner

import "github.com/spark-sched/spark-sched/pkg/cluster"

// WorkloadType classifies a workload's dominant resource usage pattern.
type WorkloadType string

const (
	Compute WorkloadType = "compute"
	Storage WorkloadType = "storage"
)

// DefaultDriverCore is the number of cores every driver pod is assumed to
// consume, used by the profiled planner to size its search space.
const DefaultDriverCore = 1

// ResourcePlan is the per-workload outcome of a planning pass.
type ResourcePlan struct {
	DriverCPUCores int64
	DriverMemMB    int64
	ExecCPUCores   int64
	ExecMemMB      int64
	Nexec          int64
}

// Planner computes resource plans for a batch of workloads. FairPlanner and
// WorkloadAwareFairPlanner deplete state as they go so later workloads see
// what earlier ones consumed; ProfiledPlanner reads state and leaves it
// unchanged.
type Planner interface {
	Plan(state *cluster.State, workloadTypes []WorkloadType, meta []string) []ResourcePlan
}

func defaultPlan(nexec int64) ResourcePlan {
	return ResourcePlan{
		DriverCPUCores: 1,
		DriverMemMB:    1024,
		ExecCPUCores:   1,
		ExecMemMB:      1024,
		Nexec:          nexec,
	}
}
