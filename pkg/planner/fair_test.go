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

var _ = Describe("FairPlanner", func() {
	It("splits 22 cores across 4 workloads as 5,5,6,6 (S1)", func() {
		state := &cluster.State{TotalCores: 22, TotalMemMB: 22 * 1024}
		workloadTypes := []planner.WorkloadType{planner.Compute, planner.Compute, planner.Compute, planner.Compute}

		plans := planner.FairPlanner{}.Plan(state, workloadTypes, nil)

		Expect(plans).To(HaveLen(4))
		Expect(plans[0].Nexec).To(Equal(int64(4))) // 22/4=5, nexec=5-1
		Expect(plans[1].Nexec).To(Equal(int64(4))) // 17/3=5, nexec=5-1
		Expect(plans[2].Nexec).To(Equal(int64(5))) // 12/2=6, nexec=6-1
		Expect(plans[3].Nexec).To(Equal(int64(5))) // 6/1=6, nexec=6-1
	})

	It("never assigns a negative nexec and caps total consumption at the initial total (P1/P2)", func() {
		state := &cluster.State{TotalCores: 9, TotalMemMB: 9 * 1024}
		workloadTypes := make([]planner.WorkloadType, 3)

		plans := planner.FairPlanner{}.Plan(state, workloadTypes, nil)

		var sum int64
		for _, p := range plans {
			Expect(p.Nexec).To(BeNumerically(">=", 0))
			Expect(p.DriverCPUCores).To(BeNumerically(">=", 1))
			Expect(p.DriverMemMB).To(BeNumerically(">=", 1024))
			Expect(p.ExecCPUCores).To(BeNumerically(">=", 1))
			sum += p.Nexec
		}
		Expect(sum).To(BeNumerically("<=", int64(9-len(workloadTypes))))
	})
})
