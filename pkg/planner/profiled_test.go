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

var _ = Describe("ProfiledPlanner", func() {
	It("minimizes makespan over pi and wc with 4 total executors (S3)", func() {
		// nworkload=2, DefaultDriverCore=1 => maxExec = totalCores - 2 = 4.
		state := &cluster.State{TotalCores: 6, TotalMemMB: 6 * 1024}
		meta := []string{"pi", "wc"}

		plans := planner.NewProfiledPlanner().Plan(state, nil, meta)

		Expect(plans).To(HaveLen(2))
		Expect(plans[0].Nexec).To(Equal(int64(2)))
		Expect(plans[1].Nexec).To(Equal(int64(2)))
	})

	It("caches repeated (meta, budget) lookups (memoized DP table)", func() {
		state := &cluster.State{TotalCores: 6, TotalMemMB: 6 * 1024}
		p := planner.NewProfiledPlanner()

		first := p.Plan(state, nil, []string{"pi", "wc"})
		second := p.Plan(&cluster.State{TotalCores: 6, TotalMemMB: 6 * 1024}, nil, []string{"pi", "wc"})

		Expect(second).To(Equal(first))
	})
})
