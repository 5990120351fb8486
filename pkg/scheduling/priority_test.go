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

package scheduling_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/spark-sched/spark-sched/pkg/config"
	"github.com/spark-sched/spark-sched/pkg/scheduling"
)

func podWithLabels(group, workloadType string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name: "p",
			Labels: map[string]string{
				config.GroupLabelKey:        group,
				config.WorkloadTypeLabelKey: workloadType,
			},
		},
	}
}

var _ = Describe("Score", func() {
	const storageNode = "xyji"
	allNodes := []string{"n1", "n02", "n03"}
	bw := config.BandwidthMap{}
	// bandwidth-to-storage: n1=5, n02=20, n03=25 (ascending order n1, n02, n03)
	bw.Set("n1", storageNode, 5)
	bw.Set("n02", storageNode, 20)
	bw.Set("n03", storageNode, 25)

	It("pins a compute pod to the candidate with the highest bandwidth to storage (S4/P8)", func() {
		cursors := scheduling.NewCursorMap()
		pod := podWithLabels("g1", "compute")

		scores := scheduling.Score(allNodes, []string{"n1", "n03"}, pod, cursors, bw, storageNode)

		Expect(scores["n1"]).To(Equal(0))
		Expect(scores["n03"]).To(Equal(100))
	})

	It("round-robins storage pods through the bandwidth-ordered list (S5/P7)", func() {
		cursors := scheduling.NewCursorMap()
		candidates := []string{"n1", "n02", "n03"}

		first := scheduling.Score(allNodes, candidates, podWithLabels("g2", "storage"), cursors, bw, storageNode)
		Expect(first["n1"]).To(Equal(100))
		Expect(cursors.Get("g2")).To(Equal(uint32(1)))

		second := scheduling.Score(allNodes, candidates, podWithLabels("g2", "storage"), cursors, bw, storageNode)
		Expect(second["n02"]).To(Equal(100))
		Expect(cursors.Get("g2")).To(Equal(uint32(2)))

		third := scheduling.Score(allNodes, candidates, podWithLabels("g2", "storage"), cursors, bw, storageNode)
		Expect(third["n03"]).To(Equal(100))
		Expect(cursors.Get("g2")).To(Equal(uint32(0)))
	})

	It("is deterministic given identical inputs (P6)", func() {
		cursors1 := scheduling.NewCursorMap()
		cursors2 := scheduling.NewCursorMap()
		pod := podWithLabels("g3", "storage")

		s1 := scheduling.Score(allNodes, []string{"n1", "n03"}, pod, cursors1, bw, storageNode)
		s2 := scheduling.Score(allNodes, []string{"n1", "n03"}, pod, cursors2, bw, storageNode)

		Expect(s1).To(Equal(s2))
		Expect(cursors1.Get("g3")).To(Equal(cursors2.Get("g3")))
	})
})
