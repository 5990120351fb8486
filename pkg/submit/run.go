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

package submit

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"knative.dev/pkg/logging"

	"github.com/spark-sched/spark-sched/pkg/planner"
)

// Workload is one batch entry: its type, its argv (already built via
// Build), and its group id for logging.
type Workload struct {
	Type    planner.WorkloadType
	Argv    []string
	GroupID string
}

// RunBatch spawns one spark-submit subprocess per workload, in the order
// {compute-first, storage-next} per spec.md §5, and waits for all of them.
// Subprocess exits are independent: one workload's non-zero exit does not
// cancel the others, and every failure is reported, not just the first —
// the returned error combines every subprocess's exit error via multierr.
func RunBatch(ctx context.Context, workloads []Workload, showLog bool) error {
	ordered := orderComputeFirst(workloads)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs error
	for _, w := range ordered {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runOne(ctx, w, showLog); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}

func orderComputeFirst(workloads []Workload) []Workload {
	ordered := make([]Workload, len(workloads))
	copy(ordered, workloads)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Type == planner.Compute && ordered[j].Type != planner.Compute
	})
	return ordered
}

func runOne(ctx context.Context, w Workload, showLog bool) error {
	log := logging.FromContext(ctx)
	log.Infow("spawning spark-submit", "group", w.GroupID, "type", w.Type)

	if len(w.Argv) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, w.Argv[0], w.Argv[1:]...)
	if showLog {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		log.Warnw("spark-submit exited non-zero", "group", w.GroupID, "err", err)
		return err
	}
	return nil
}
