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

package scheduling

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/labels"
	corelisters "k8s.io/client-go/listers/core/v1"

	"github.com/spark-sched/spark-sched/pkg/cluster"
)

// PodRequest is the sum of a pod's container resource requests.
type PodRequest struct {
	Millicores int64
	MemKiB     int64
}

// PodRequestFor sums a pod's container CPU/memory requests (C2 conversions
// applied per container).
func PodRequestFor(pod *corev1.Pod) (PodRequest, error) {
	var req PodRequest
	for _, c := range pod.Spec.Containers {
		if cpuQ, ok := c.Resources.Requests[corev1.ResourceCPU]; ok {
			mc, err := cluster.ToMillicores(cpuQ.String())
			if err != nil {
				return PodRequest{}, err
			}
			req.Millicores += mc
		}
		if memQ, ok := c.Resources.Requests[corev1.ResourceMemory]; ok {
			kib, err := cluster.ToKibibytes(memQ.String())
			if err != nil {
				return PodRequest{}, err
			}
			req.MemKiB += kib
		}
	}
	return req, nil
}

// Filter is the capacity predicate (C6): it admits every node whose
// allocatable capacity, net of currently-bound pods' requests, covers the
// candidate pod's request. It reads bound pods from lister rather than
// issuing a live List call against the API server, so the cost of one
// predicate invocation does not grow with how often pods are scheduled.
func Filter(lister corelisters.PodLister, nodes map[string]cluster.Node, req PodRequest) ([]string, error) {
	pods, err := lister.List(labels.Everything())
	if err != nil {
		return nil, err
	}

	used := make(map[string]PodRequest, len(nodes))
	for _, pod := range pods {
		if pod.Spec.NodeName == "" {
			continue
		}
		r, err := PodRequestFor(pod)
		if err != nil {
			continue
		}
		u := used[pod.Spec.NodeName]
		u.Millicores += r.Millicores
		u.MemKiB += r.MemKiB
		used[pod.Spec.NodeName] = u
	}

	var candidates []string
	for name, node := range nodes {
		u := used[name]
		remainingMc := node.AllocatableMillicores - u.Millicores
		remainingKiB := node.AllocatableMemKiB - u.MemKiB
		if remainingMc >= req.Millicores && remainingKiB >= req.MemKiB {
			candidates = append(candidates, name)
		}
	}
	return candidates, nil
}
