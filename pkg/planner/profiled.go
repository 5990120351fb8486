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

package planner

import (
	"math"
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/spark-sched/spark-sched/pkg/cluster"
)

// ProfiledPlanner assigns executor counts by minimizing the batch's
// makespan over a table of per-workload, per-executor-count measured
// execution times, via dynamic programming.
type ProfiledPlanner struct {
	mu    sync.Mutex
	cache map[uint64][]int64
}

var _ Planner = (*ProfiledPlanner)(nil)

// NewProfiledPlanner constructs a ProfiledPlanner with its DP-result cache
// ready to use.
func NewProfiledPlanner() *ProfiledPlanner {
	return &ProfiledPlanner{cache: map[uint64][]int64{}}
}

func (p *ProfiledPlanner) Plan(state *cluster.State, workloadTypes []WorkloadType, meta []string) []ResourcePlan {
	plans := make([]ResourcePlan, len(meta))
	nWorkload := int64(len(meta))
	maxExec := int(state.TotalCores) - int(nWorkload)*DefaultDriverCore

	nexecs := p.minExecutionTime(meta, maxExec)
	for i, nexec := range nexecs {
		plans[i] = defaultPlan(nexec)
	}
	return plans
}

type dpKey struct {
	Meta    []string
	MaxExec int
}

func (p *ProfiledPlanner) minExecutionTime(meta []string, maxExec int) []int64 {
	key, err := hashstructure.Hash(dpKey{Meta: meta, MaxExec: maxExec}, hashstructure.FormatV2, nil)
	if err == nil {
		p.mu.Lock()
		if cached, ok := p.cache[key]; ok {
			p.mu.Unlock()
			return cached
		}
		p.mu.Unlock()
	}

	result := minExecutionTime(meta, profiledTable, maxExec)

	if err == nil {
		p.mu.Lock()
		p.cache[key] = result
		p.mu.Unlock()
	}
	return result
}

// minExecutionTime finds the total executor count (bounded by maxExec)
// that minimizes the makespan of running every workload in meta, one
// execution-time lookup per workload per candidate executor count, then
// reconstructs the per-workload nexec split that achieves it.
//
// dp[i][n] is the minimum achievable makespan for workloads[0..=i] using
// at most n executors in total; decision[i][n] is the executor count
// workload i was given to reach it.
func minExecutionTime(workloads []string, table map[profiledKey]int64, maxExec int) []int64 {
	n := len(workloads)
	dp := make([][]int64, n)
	decision := make([][]int64, n)
	for i := range dp {
		dp[i] = make([]int64, maxExec+1)
		decision[i] = make([]int64, maxExec+1)
		for j := range dp[i] {
			dp[i][j] = math.MaxInt64
		}
	}

	for i := 0; i < n; i++ {
		workload := workloads[i]
		for nexec := i + 1; nexec <= maxExec; nexec++ {
			dp[i][nexec] = math.MaxInt64
			for workloadNexec := 1; workloadNexec <= nexec; workloadNexec++ {
				t, ok := table[profiledKey{Workload: workload, Nexec: int64(workloadNexec)}]
				if !ok {
					continue
				}

				if i == 0 {
					if t < dp[i][nexec] {
						dp[i][nexec] = t
						decision[i][nexec] = int64(workloadNexec)
					}
					continue
				}

				prev := dp[i-1][nexec-workloadNexec]
				if prev == math.MaxInt64 {
					continue
				}
				newTime := prev
				if t > newTime {
					newTime = t
				}
				if newTime < dp[i][nexec] {
					dp[i][nexec] = newTime
					decision[i][nexec] = int64(workloadNexec)
				}
			}
		}
	}

	var optimalTotal int
	var minTime int64 = math.MaxInt64
	last := dp[n-1]
	for nexec, t := range last {
		if t < minTime {
			minTime = t
			optimalTotal = nexec
		}
	}

	return reconstructNexecs(decision, n, optimalTotal)
}

func reconstructNexecs(decision [][]int64, numWorkloads, optimalTotalNexec int) []int64 {
	nexecs := make([]int64, numWorkloads)
	remaining := optimalTotalNexec
	for i := numWorkloads - 1; i >= 0; i-- {
		nexecs[i] = decision[i][remaining]
		remaining -= int(nexecs[i])
	}
	return nexecs
}
