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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Namespace is the prometheus namespace prefix for every spark-sched metric.
const Namespace = "spark_sched"

var (
	ScheduleDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "scheduler",
			Name:      "schedule_duration_seconds",
			Help:      "Time spent running predicate+priority+bind for a single pod.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)
	BindFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "scheduler",
			Name:      "bind_failures_total",
			Help:      "Number of pod bind attempts that failed, labeled by reason.",
		},
		[]string{"reason"},
	)
	ClusterAllocatableCores = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "cluster",
			Name:      "allocatable_cores",
			Help:      "Aggregate cluster CPU cores remaining after reserved overhead, as of the last snapshot.",
		},
	)
	ClusterAllocatableMemMB = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "cluster",
			Name:      "allocatable_mem_mb",
			Help:      "Aggregate cluster memory in MB remaining after reserved overhead, as of the last snapshot.",
		},
	)
	PlannerNexec = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "planner",
			Name:      "nexec",
			Help:      "Executor count assigned to a workload by the resource planner.",
		},
		[]string{"strategy", "workload_index"},
	)
)

// MustRegister registers every spark-sched metric, plus the client-go
// apiserver-call metrics, against the controller-runtime global registry.
func MustRegister() {
	crmetrics.Registry.MustRegister(
		ScheduleDurationSeconds,
		BindFailuresTotal,
		ClusterAllocatableCores,
		ClusterAllocatableMemMB,
		PlannerNexec,
		clientGoRequestResult,
		clientGoRequestLatency,
	)
	registerClientGoMetrics()
}
