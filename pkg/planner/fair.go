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

import "github.com/spark-sched/spark-sched/pkg/cluster"

// FairPlanner splits the remaining cluster evenly across the workloads
// still to be scheduled: each workload in turn takes the floor of the
// remaining cores (and memory) divided by the number of workloads left, so
// any remainder falls to later workloads in the batch, which can end up
// with the bigger executor counts (22 cores over 4 workloads gives 5,5,6,6
// cores, i.e. nexec 4,4,5,5).
type FairPlanner struct{}

var _ Planner = FairPlanner{}

func (FairPlanner) Plan(state *cluster.State, workloadTypes []WorkloadType, _ []string) []ResourcePlan {
	nWorkload := int64(len(workloadTypes))
	plans := make([]ResourcePlan, 0, nWorkload)

	for nWorkload > 0 {
		core := state.TotalCores / nWorkload
		memMB := state.TotalMemMB / nWorkload
		nWorkload--

		plan := defaultPlan(core - 1)
		state.TotalCores -= core
		state.TotalMemMB -= memMB

		plans = append(plans, plan)
	}

	return plans
}
