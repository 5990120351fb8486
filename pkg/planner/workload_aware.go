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

import (
	"math"
	"sort"

	"github.com/spark-sched/spark-sched/pkg/cluster"
)

const (
	computeWorkloadWeight = 0.3
	storageWorkloadWeight = 0.7

	minCoreFloor = 2
	minMemFloor  = 2048
)

// WorkloadAwareFairPlanner splits the cluster between compute and storage
// workloads by weighted share (compute workloads use more CPU per unit
// time, storage workloads use more network bandwidth and run longer), then
// redistributes any shortfall storage workloads hit against the larger
// compute share via circular work-stealing.
type WorkloadAwareFairPlanner struct{}

var _ Planner = WorkloadAwareFairPlanner{}

func (WorkloadAwareFairPlanner) Plan(state *cluster.State, workloadTypes []WorkloadType, _ []string) []ResourcePlan {
	plans := make([]ResourcePlan, len(workloadTypes))

	var nCompute, nStorage int64
	for _, ty := range workloadTypes {
		if ty == Compute {
			nCompute++
		} else {
			nStorage++
		}
	}

	denom := computeWorkloadWeight*float64(nCompute) + storageWorkloadWeight*float64(nStorage)
	c := computeWorkloadWeight / denom
	s := storageWorkloadWeight / denom

	cCore := clampFloor(ceil(c*float64(state.TotalCores)), minCoreFloor)
	cMem := clampFloor(ceil(c*float64(state.TotalMemMB)), minMemFloor)
	sCore := clampFloor(ceil(s*float64(state.TotalCores)), minCoreFloor)
	sMem := clampFloor(ceil(s*float64(state.TotalMemMB)), minMemFloor)

	for i, ty := range workloadTypes {
		if ty != Compute {
			continue
		}
		plans[i] = defaultPlan(cCore - 1)
		state.TotalCores -= cCore
		state.TotalMemMB -= cMem
	}

	var maxCore int64
	coreGap := map[int]int64{}
	for i, ty := range workloadTypes {
		if ty != Storage {
			continue
		}
		core := min64(sCore, state.TotalCores)
		mem := min64(sMem, state.TotalMemMB)

		if core > maxCore {
			maxCore = core
		}
		if gap := maxCore - core; gap > 0 {
			coreGap[i] = gap
		}

		plans[i] = defaultPlan(core - 1)
		state.TotalCores -= core
		state.TotalMemMB -= mem
	}

	rebalance(workloadTypes, plans, coreGap)

	return plans
}

// rebalance steals one executor at a time from compute workloads, in
// round-robin order starting from index 0, to close each storage
// workload's gap against the largest storage share granted.
func rebalance(workloadTypes []WorkloadType, plans []ResourcePlan, coreGap map[int]int64) {
	idxs := make([]int, 0, len(coreGap))
	for idx := range coreGap {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	ptr := 0
	for _, idx := range idxs {
		gap := coreGap[idx]
		for gap > 0 {
			if !anyStealable(workloadTypes, plans) {
				break
			}

			i := ptr
			ptr = (ptr + 1) % len(workloadTypes)

			if workloadTypes[i] == Compute && plans[i].Nexec > 1 {
				plans[i].Nexec--
				plans[idx].Nexec++
				gap--
			}
		}
	}
}

func anyStealable(workloadTypes []WorkloadType, plans []ResourcePlan) bool {
	for i, ty := range workloadTypes {
		if ty == Compute && plans[i].Nexec > 1 {
			return true
		}
	}
	return false
}

func clampFloor(v, floor int64) int64 {
	if v > floor {
		return v
	}
	return floor
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func ceil(f float64) int64 {
	return int64(math.Ceil(f))
}
