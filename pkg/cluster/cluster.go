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

// Package cluster snapshots the orchestrator's node inventory (C1) and
// converts its quantity strings (C2) into the millicore/KiB units the
// planner and the scheduler's predicate operate on.
package cluster

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"knative.dev/pkg/logging"

	sparkerrors "github.com/spark-sched/spark-sched/pkg/errors"
)

// Node is a read-only snapshot of one node's allocatable capacity.
type Node struct {
	Name                  string
	AllocatableMillicores int64
	AllocatableMemKiB     int64
}

// State is the planner-local, mutable view of the cluster: per-node
// records plus the reserved-overhead-adjusted aggregate totals the
// resource planner consumes and depletes.
type State struct {
	Nodes       map[string]Node
	TotalCores  int64
	TotalMemMB  int64
}

// ReservedCores is the number of cores withheld from the aggregate total
// to account for control-plane / daemon overhead, per spec.md §4.1.
func ReservedCores(nodeCount int64) int64 {
	if nodeCount-2 > 0 {
		return 3 + (nodeCount - 2)
	}
	return 3
}

// ReservedMemMB is the memory withheld from the aggregate total, per node.
func ReservedMemMB(nodeCount int64) int64 {
	return 5 * 1024 * nodeCount
}

// Snapshot lists every node in the cluster, converts its allocatable
// quantities, and aggregates totals net of reserved overhead. A failure to
// read any node is fatal to the caller (spec.md §4.1).
func Snapshot(ctx context.Context, client kubernetes.Interface) (*State, error) {
	nodeList, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, &sparkerrors.SnapshotFailedError{Err: err}
	}

	state := &State{Nodes: map[string]Node{}}
	var totalMillicores, totalKiB int64
	for _, n := range nodeList.Items {
		node, millicores, kib, err := nodeFromStatus(n)
		if err != nil {
			return nil, &sparkerrors.SnapshotFailedError{Err: err}
		}
		state.Nodes[node.Name] = node
		totalMillicores += millicores
		totalKiB += kib
	}

	nodeCount := int64(len(nodeList.Items))
	state.TotalCores = totalMillicores/1000 - ReservedCores(nodeCount)
	state.TotalMemMB = totalKiB/1024 - ReservedMemMB(nodeCount)

	logging.FromContext(ctx).Infow("cluster snapshot complete",
		"nodes", nodeCount, "totalCores", state.TotalCores, "totalMemMB", state.TotalMemMB)
	return state, nil
}

func nodeFromStatus(n corev1.Node) (Node, int64, int64, error) {
	cpuQ, ok := n.Status.Allocatable[corev1.ResourceCPU]
	if !ok {
		return Node{}, 0, 0, &sparkerrors.UnsupportedUnitError{Quantity: "missing cpu"}
	}
	memQ, ok := n.Status.Allocatable[corev1.ResourceMemory]
	if !ok {
		return Node{}, 0, 0, &sparkerrors.UnsupportedUnitError{Quantity: "missing memory"}
	}

	millicores, err := ToMillicores(cpuQ.String())
	if err != nil {
		return Node{}, 0, 0, err
	}
	kib, err := ToKibibytes(memQ.String())
	if err != nil {
		return Node{}, 0, 0, err
	}

	return Node{
		Name:                  n.Name,
		AllocatableMillicores: millicores,
		AllocatableMemKiB:     kib,
	}, millicores, kib, nil
}
