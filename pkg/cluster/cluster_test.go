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

package cluster_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	sparkerrors "github.com/spark-sched/spark-sched/pkg/errors"
)

func nodeWith(name, cpu, mem string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Allocatable: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse(cpu),
				corev1.ResourceMemory: resource.MustParse(mem),
			},
		},
	}
}

var _ = Describe("Snapshot", func() {
	It("aggregates allocatable capacity net of reserved overhead", func() {
		client := fake.NewSimpleClientset(
			nodeWith("node1", "4", "16Gi"),
			nodeWith("node02", "4", "16Gi"),
		)

		state, err := cluster.Snapshot(context.Background(), client)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Nodes).To(HaveLen(2))
		Expect(state.Nodes["node1"].AllocatableMillicores).To(Equal(int64(4000)))
		Expect(state.Nodes["node1"].AllocatableMemKiB).To(Equal(int64(16 * 1024 * 1024)))

		// total cores: 8 - reservedCores(2)=3 => 5
		Expect(state.TotalCores).To(Equal(int64(5)))
		// total mem: 32768MiB(32GB)=32768 - reservedMemMB(2)=10240 => 22528
		Expect(state.TotalMemMB).To(Equal(int64(32*1024 - 5*1024*2)))
	})

	It("surfaces a SnapshotFailedError-shaped error when a node has no allocatable cpu", func() {
		client := fake.NewSimpleClientset(&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "broken"},
		})
		_, err := cluster.Snapshot(context.Background(), client)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&sparkerrors.SnapshotFailedError{}))
	})
})
