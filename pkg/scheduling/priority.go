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
	"sort"

	"github.com/samber/lo"
	corev1 "k8s.io/api/core/v1"

	"github.com/spark-sched/spark-sched/pkg/config"
)

const workloadTypeCompute = "compute"

// Score implements the placement policy (C7): compute workloads pin to the
// candidate with the highest bandwidth to the storage node; storage
// workloads round-robin across bandwidth-ordered candidates, one step per
// pod of the same group, so peers spread across distinct high-bandwidth
// paths.
func Score(allNodes, candidates []string, pod *corev1.Pod, cursors *CursorMap, bw config.BandwidthMap, storageNode string) map[string]int {
	scores := make(map[string]int, len(candidates))
	for _, n := range candidates {
		scores[n] = 0
	}
	if len(candidates) == 0 {
		return scores
	}

	groupID := pod.Labels[config.GroupLabelKey]
	workloadType := pod.Labels[config.WorkloadTypeLabelKey]

	sortedAll := sortNodesByBandwidthAscending(allNodes, bw, storageNode)
	isCandidate := lo.SliceToMap(candidates, func(c string) (string, bool) { return c, true })

	if workloadType == workloadTypeCompute {
		if idx := lastCandidateIndex(sortedAll, isCandidate); idx >= 0 {
			scores[sortedAll[idx]] = 100
		}
		return scores
	}

	cursor := int(cursors.Get(groupID))
	chosen := firstCandidateIndexFrom(sortedAll, isCandidate, cursor)
	if chosen < 0 {
		chosen = lastCandidateIndex(sortedAll, isCandidate)
	}
	if chosen >= 0 {
		scores[sortedAll[chosen]] = 100
		cursors.Set(groupID, uint32((chosen+1)%len(sortedAll)))
	}
	return scores
}

// sortNodesByBandwidthAscending orders every cluster node by its bandwidth
// edge to the storage node, breaking ties by name for determinism.
func sortNodesByBandwidthAscending(allNodes []string, bw config.BandwidthMap, storageNode string) []string {
	sorted := append([]string(nil), allNodes...)
	sort.Slice(sorted, func(i, j int) bool {
		bi := config.BandwidthToStorage(bw, storageNode, sorted[i])
		bj := config.BandwidthToStorage(bw, storageNode, sorted[j])
		if bi != bj {
			return bi < bj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func lastCandidateIndex(sortedAll []string, isCandidate map[string]bool) int {
	for i := len(sortedAll) - 1; i >= 0; i-- {
		if isCandidate[sortedAll[i]] {
			return i
		}
	}
	return -1
}

func firstCandidateIndexFrom(sortedAll []string, isCandidate map[string]bool, from int) int {
	for i := from; i < len(sortedAll); i++ {
		if isCandidate[sortedAll[i]] {
			return i
		}
	}
	return -1
}
