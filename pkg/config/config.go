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

// Package config centralizes the constants shared between the submitter
// and the scheduler: label keys, the scheduler name, and the network
// topology used for placement decisions.
package config

import "math"

const (
	// SchedulerName is the value pods must set as spec.schedulerName to be
	// picked up by the custom scheduler.
	SchedulerName = "spark-sched"

	// Namespace is the namespace both binaries operate against.
	Namespace = "spark"

	// GroupLabelKey tags driver and executor pods belonging to the same
	// submission with a shared group identifier.
	GroupLabelKey = "spark-uuid"

	// WorkloadTypeLabelKey carries the WorkloadType ("compute" | "storage").
	WorkloadTypeLabelKey = "spark-workload-type"

	// StorageNodeName is the node hosting the data the workloads read.
	StorageNodeName = "xyji"

	// MasterNodeName names the control-plane node. Only the default
	// bandwidth map refers to it; the core reservation in pkg/cluster
	// depends on the node count alone.
	MasterNodeName = "node02"
)

// BandwidthMap is a symmetric (node, node) -> bandwidth-units mapping.
// Self-pairs are defined as +Inf so a node is always its own best path.
type BandwidthMap map[NodePair]uint32

// NodePair is an unordered pair of node names, normalized so (a,b) and
// (b,a) hash identically.
type NodePair struct {
	A, B string
}

func pair(a, b string) NodePair {
	if a <= b {
		return NodePair{a, b}
	}
	return NodePair{b, a}
}

// Set records the bandwidth between a and b (symmetric).
func (m BandwidthMap) Set(a, b string, bw uint32) {
	m[pair(a, b)] = bw
}

// Get returns the bandwidth between a and b, or 0 if unknown.
func (m BandwidthMap) Get(a, b string) uint32 {
	return m[pair(a, b)]
}

// MaxBandwidth is used for self-pairs: a node is infinitely close to itself.
const MaxBandwidth = math.MaxUint32

// DefaultBandwidthMap returns the hardcoded default network topology from
// spec.md §6, seeded once at process startup and passed by value/reference
// through the scheduler (see DESIGN NOTES: "Global-ish bandwidth_map").
func DefaultBandwidthMap() BandwidthMap {
	m := BandwidthMap{}
	nodes := []string{"node1", MasterNodeName, "node03", StorageNodeName}
	m.Set("node1", MasterNodeName, 100)
	m.Set("node1", "node03", 100)
	m.Set("node1", StorageNodeName, 5)
	m.Set(MasterNodeName, "node03", 100)
	m.Set(MasterNodeName, StorageNodeName, 20)
	m.Set("node03", StorageNodeName, 25)
	for _, n := range nodes {
		m.Set(n, n, MaxBandwidth)
	}
	return m
}

// BandwidthToStorage returns node's edge weight to the configured storage
// node among the supplied map.
func BandwidthToStorage(m BandwidthMap, storageNode, node string) uint32 {
	return m.Get(node, storageNode)
}
