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

package planner_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	"github.com/spark-sched/spark-sched/pkg/planner"
)

var _ = Describe("WorkloadAwareFairPlanner", func() {
	It("grants storage workloads a larger weighted share than compute (S2)", func() {
		state := &cluster.State{TotalCores: 40, TotalMemMB: 40 * 1024}
		workloadTypes := []planner.WorkloadType{planner.Compute, planner.Storage}

		plans := planner.WorkloadAwareFairPlanner{}.Plan(state, workloadTypes, nil)

		Expect(plans).To(HaveLen(2))
		Expect(plans[1].Nexec).To(BeNumerically(">", plans[0].Nexec))
	})

	It("steals executors from compute workloads to close a storage workload's gap", func() {
		// c=0.15, s=0.35: compute gets ceil(3.6)=4 cores each (nexec 3),
		// leaving 16; storage gets 9 then min(9,7)=7 cores, a gap of 2.
		state := &cluster.State{TotalCores: 24, TotalMemMB: 24 * 1024}
		workloadTypes := []planner.WorkloadType{
			planner.Compute, planner.Compute, planner.Storage, planner.Storage,
		}

		plans := planner.WorkloadAwareFairPlanner{}.Plan(state, workloadTypes, nil)

		for _, p := range plans {
			Expect(p.Nexec).To(BeNumerically(">=", 0))
		}
		Expect(plans[0].Nexec).To(Equal(int64(2)))
		Expect(plans[1].Nexec).To(Equal(int64(2)))
		Expect(plans[3].Nexec).To(Equal(plans[2].Nexec))
	})

	It("never drives a plan's nexec below zero regardless of workload mix (P2)", func() {
		state := &cluster.State{TotalCores: 10, TotalMemMB: 10 * 1024}
		workloadTypes := []planner.WorkloadType{
			planner.Storage, planner.Storage, planner.Storage, planner.Compute,
		}

		plans := planner.WorkloadAwareFairPlanner{}.Plan(state, workloadTypes, nil)

		for _, p := range plans {
			Expect(p.Nexec).To(BeNumerically(">=", 0))
			Expect(p.DriverCPUCores).To(BeNumerically(">=", 1))
		}
	})
})
