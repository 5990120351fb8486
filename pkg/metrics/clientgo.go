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
	"context"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	clientmetrics "k8s.io/client-go/tools/metrics"
)

// This file wires up the handful of places client-go registers its own
// metrics hooks, so the apiserver calls both binaries make (list/watch
// nodes and pods, create events, bind) show up on the same /metrics
// endpoint as the spark-sched metrics defined in metrics.go.

var (
	clientGoRequestResult = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "client_go",
			Name:      "requests_total",
			Help:      "Number of apiserver HTTP requests, partitioned by status code, method, and host.",
		},
		[]string{"code", "method", "host"},
	)
	clientGoRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "client_go",
			Name:      "request_duration_seconds",
			Help:      "Apiserver request latency in seconds, partitioned by verb and URL.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"verb", "url"},
	)
)

// registerClientGoMetrics installs the counter/histogram above as the
// client-go package's global request metrics sink. Called once from
// MustRegister.
func registerClientGoMetrics() {
	clientmetrics.Register(clientmetrics.RegisterOpts{
		RequestResult:  &resultAdapter{metric: clientGoRequestResult},
		RequestLatency: &latencyAdapter{metric: clientGoRequestLatency},
	})
}

type resultAdapter struct {
	metric *prometheus.CounterVec
}

func (r *resultAdapter) Increment(_ context.Context, code, method, host string) {
	r.metric.WithLabelValues(code, method, host).Inc()
}

type latencyAdapter struct {
	metric *prometheus.HistogramVec
}

func (l *latencyAdapter) Observe(_ context.Context, verb string, u url.URL, latency time.Duration) {
	l.metric.WithLabelValues(verb, u.String()).Observe(latency.Seconds())
}
