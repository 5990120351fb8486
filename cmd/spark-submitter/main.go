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

// Command spark-submitter computes a resource plan for a batch of
// workloads, tags each with a fresh group UUID, and launches spark-submit
// against the cluster once per workload.
package main

import (
	"context"
	"flag"
	"os"
	"os/exec"
	"strconv"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/klog/v2"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	"github.com/spark-sched/spark-sched/pkg/log"
	sparkmetrics "github.com/spark-sched/spark-sched/pkg/metrics"
	"github.com/spark-sched/spark-sched/pkg/planner"
	"github.com/spark-sched/spark-sched/pkg/submit"
)

func main() {
	// client-go's rest.Config/transport layer logs through klog; route it
	// into the standard flag set so --v and friends work as documented.
	klog.InitFlags(nil)

	var (
		kubeconfig          = flag.String("kubeconfig", "", "path to a kubeconfig; empty uses in-cluster config")
		path                = flag.String("path", "spark-submit", "path to the spark-submit binary")
		master              = flag.String("master", "", "the spark master url")
		deployMode          = flag.String("deploy-mode", "cluster", "spark deploy mode")
		ns                  = flag.String("ns", "spark", "namespace the spark workloads run in")
		serviceAccount      = flag.String("service-account", "spark", "driver/executor service account")
		image               = flag.String("image", "", "driver/executor container image")
		pvcName             = flag.String("pvc-name", "spark-local-dir-1", "pvc volume name")
		pvcClaimName        = flag.String("pvc-claim-name", "", "pre-created pvc claim name")
		pvcMountPath        = flag.String("pvc-mount-path", "/mnt", "pvc mount path in driver/executor")
		plannerName         = flag.String("planner", "fair", "planner strategy: fair|workload|profile")
		schedulerName       = flag.String("scheduler-name", "", "empty uses the orchestrator's default scheduler")
		showLog             = flag.Bool("show-log", false, "stream subprocess stdout/stderr")
		noRun               = flag.Bool("no-run", false, "build commands but do not spawn them")
		noExit              = flag.Bool("no-exit", false, "skip the kubectl delete pods cleanup on exit")
		debug               = flag.Bool("debug", false, "enable debug logging")
		profile             = flag.Bool("profile", false, "benchmark the planner across increasing workload counts instead of submitting")
		profileStart        = flag.Int("profile-start", 1, "first workload count to profile when --profile is set")
		timeIt              = flag.Bool("time", false, "log end-to-end elapsed time for the run")
		logOutputPaths      = flag.String("log-output-paths", "", "comma-separated zap output paths; empty uses stdout")
		logErrorOutputPaths = flag.String("log-error-output-paths", "", "comma-separated zap error output paths; empty uses stderr")
	)
	tags := cliflag.NewStringSlice(nil)
	flag.Var(tags, "tags", "workload type (compute|storage); repeat once per workload")
	progs := cliflag.NewStringSlice(nil)
	flag.Var(progs, "progs", "program invocation; repeat once per workload, same order as --tags")
	meta := cliflag.NewStringSlice(nil)
	flag.Var(meta, "meta", "workload name for the profiled planner; repeat once per workload")
	flag.Parse()

	logger := log.NewLogger(log.Options{OutputPaths: *logOutputPaths, ErrorOutputPaths: *logErrorOutputPaths, Debug: *debug}, "spark-submitter")
	defer logger.Sync() //nolint:errcheck
	ctx := log.IntoContext(context.Background(), logger)

	start := time.Now()
	defer func() {
		if *timeIt {
			logger.Infow("submitter run complete", "elapsed", time.Since(start))
		}
	}()

	restConfig, err := clientcmd.BuildConfigFromFlags("", *kubeconfig)
	if err != nil {
		logger.Fatalw("failed to build kube config", "err", err)
	}
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		logger.Fatalw("failed to build kube client", "err", err)
	}

	sparkmetrics.MustRegister()

	state, err := cluster.Snapshot(ctx, client)
	if err != nil {
		logger.Fatalw("cluster snapshot failed", "err", err)
	}

	strategy, err := planner.ForName(*plannerName)
	if err != nil {
		logger.Fatalw("unknown planner", "planner", *plannerName, "err", err)
	}

	progList := progs.Value()
	tagList := tags.Value()
	if len(tagList) != len(progList) {
		logger.Fatalw("--tags and --progs must be equal length", "tags", len(tagList), "progs", len(progList))
	}
	workloadTypes := make([]planner.WorkloadType, len(tagList))
	for i, t := range tagList {
		wt, err := planner.ParseWorkloadType(t)
		if err != nil {
			logger.Fatalw("unknown workload type", "tag", t, "err", err)
		}
		workloadTypes[i] = wt
	}

	if *profile {
		runProfile(ctx, strategy, *plannerName, state, workloadTypes, meta.Value(), *profileStart)
		return
	}

	plans := strategy.Plan(state, workloadTypes, meta.Value())

	workloads := make([]submit.Workload, 0, len(progList))
	for i, prog := range progList {
		req := submit.Request{
			Path:           *path,
			Master:         *master,
			DeployMode:     *deployMode,
			Namespace:      *ns,
			ServiceAccount: *serviceAccount,
			Image:          *image,
			SchedulerName:  *schedulerName,
			Prog:           prog,
			PVC: submit.PVC{
				Name:      *pvcName,
				ClaimName: *pvcClaimName,
				MountPath: *pvcMountPath,
			},
		}
		argv, groupID, err := submit.Build(req, plans[i], workloadTypes[i])
		if err != nil {
			logger.Fatalw("failed to build submit command", "index", i, "err", err)
		}
		logger.Infow("built workload", "index", i, "group", groupID, "plan", plans[i])
		sparkmetrics.PlannerNexec.WithLabelValues(*plannerName, strconv.Itoa(i)).Set(float64(plans[i].Nexec))
		workloads = append(workloads, submit.Workload{Type: workloadTypes[i], Argv: argv, GroupID: groupID})
	}

	if *noRun {
		logger.Infow("no-run set, not spawning any workload", "count", len(workloads))
		return
	}

	if err := submit.RunBatch(ctx, workloads, *showLog); err != nil {
		logger.Errorw("one or more workloads failed", "err", err)
	}

	if !*noExit {
		cleanup(ctx, *ns, logger)
	}
}

// runProfile benchmarks the planner alone, re-planning for increasing
// prefixes of the workload batch, without building or spawning any
// spark-submit command.
func runProfile(_ context.Context, strategy planner.Planner, plannerName string, state *cluster.State, workloadTypes []planner.WorkloadType, meta []string, start int) {
	logger := log.NewLogger(log.Options{}, "spark-submitter")
	for n := start; n <= len(workloadTypes); n++ {
		snapshot := *state
		begin := time.Now()
		plans := strategy.Plan(&snapshot, workloadTypes[:n], meta)
		elapsed := time.Since(begin)
		for i, plan := range plans {
			sparkmetrics.PlannerNexec.WithLabelValues(plannerName, strconv.Itoa(i)).Set(float64(plan.Nexec))
		}
		logger.Infow("profiled planner pass", "workload_count", n, "elapsed", elapsed, "plans", plans)
	}
}

func cleanup(ctx context.Context, namespace string, logger interface{ Errorw(string, ...interface{}) }) {
	cmd := exec.CommandContext(ctx, "kubectl", "delete", "pods", "--all", "-n", namespace)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		logger.Errorw("cleanup failed", "err", err)
	}
}
