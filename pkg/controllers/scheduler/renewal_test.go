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

package scheduler_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/client-go/kubernetes/fake"
	clientgotesting "k8s.io/client-go/testing"
	"k8s.io/client-go/tools/record"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	"github.com/spark-sched/spark-sched/pkg/config"
	scheduler "github.com/spark-sched/spark-sched/pkg/controllers/scheduler"
	"github.com/spark-sched/spark-sched/pkg/events"
)

var _ = Describe("RunRenewal", func() {
	It("re-snapshots the cluster once the watched namespace is observed empty", func() {
		client := fake.NewSimpleClientset(&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "node1"},
			Status: corev1.NodeStatus{
				Allocatable: corev1.ResourceList{
					corev1.ResourceCPU:    resource.MustParse("8"),
					corev1.ResourceMemory: resource.MustParse("8Gi"),
				},
			},
		})
		recorder := events.NewRecorder(record.NewFakeRecorder(16))

		// The scheduler starts with no known nodes, so nothing can fit until
		// the renewal task re-snapshots from the fake client's node list.
		emptyState := &cluster.State{Nodes: map[string]cluster.Node{}}
		sched := scheduler.New(client, emptyPodLister(), recorder, config.SchedulerName, config.Namespace, config.DefaultBandwidthMap(), config.StorageNodeName, emptyState)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go sched.RunRenewal(ctx)
		go sched.Run(ctx)

		// Let at least one 1Hz renewal tick fire against the still-empty
		// namespace before creating the pod, so the re-snapshot has
		// actually picked up node1 by the time it's enqueued.
		time.Sleep(1200 * time.Millisecond)

		pod := &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "driver-1", Namespace: config.Namespace},
			Spec:       corev1.PodSpec{SchedulerName: config.SchedulerName},
		}
		_, err := client.CoreV1().Pods(config.Namespace).Create(context.Background(), pod, metav1.CreateOptions{})
		Expect(err).NotTo(HaveOccurred())
		sched.Enqueue(pod)

		Eventually(func() string {
			for _, action := range client.Actions() {
				createAction, ok := action.(clientgotesting.CreateActionImpl)
				if !ok || action.GetSubresource() != "binding" {
					continue
				}
				binding, ok := createAction.GetObject().(*corev1.Binding)
				if !ok {
					continue
				}
				return binding.Target.Name
			}
			return ""
		}, "5s", "50ms").Should(Equal("node1"))
	})
})
