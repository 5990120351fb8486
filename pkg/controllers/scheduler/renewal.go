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

package scheduler

import (
	"context"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"knative.dev/pkg/logging"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	sparkmetrics "github.com/spark-sched/spark-sched/pkg/metrics"
)

// RunRenewal ticks once a second; whenever the watched namespace is empty
// it clears the per-group cursor and history state and re-snapshots the
// cluster, per spec.md §4.8's renewal task.
func (s *Scheduler) RunRenewal(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	log := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pods, err := s.client.CoreV1().Pods(s.namespace).List(ctx, metav1.ListOptions{})
			if err != nil {
				log.Warnw("renewal pod list failed", "err", err)
				continue
			}
			if len(pods.Items) != 0 {
				continue
			}

			s.cursors.Clear()
			s.history.Clear()

			state, err := cluster.Snapshot(ctx, s.client)
			if err != nil {
				log.Warnw("renewal snapshot failed", "err", err)
				continue
			}
			s.setState(state)
			sparkmetrics.ClusterAllocatableCores.Set(float64(state.TotalCores))
			sparkmetrics.ClusterAllocatableMemMB.Set(float64(state.TotalMemMB))
		}
	}
}
