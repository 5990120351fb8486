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

// Command spark-scheduler runs the custom scheduler controller: it watches
// unscheduled pods bearing the configured scheduler name, filters and
// scores candidate nodes, binds the winner, and emits a "Scheduled" event.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/record"
	"k8s.io/klog/v2"
	"knative.dev/pkg/logging"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	"github.com/spark-sched/spark-sched/pkg/config"
	scheduler "github.com/spark-sched/spark-sched/pkg/controllers/scheduler"
	"github.com/spark-sched/spark-sched/pkg/events"
	"github.com/spark-sched/spark-sched/pkg/log"
	sparkmetrics "github.com/spark-sched/spark-sched/pkg/metrics"
	"github.com/spark-sched/spark-sched/pkg/scheduling"
)

func main() {
	// client-go's rest.Config/transport layer logs through klog; route it
	// into the standard flag set so --v and friends work as documented.
	klog.InitFlags(nil)

	var (
		kubeconfig          = flag.String("kubeconfig", "", "path to a kubeconfig; empty uses in-cluster config")
		namespace           = flag.String("namespace", config.Namespace, "namespace this scheduler watches")
		schedulerName       = flag.String("scheduler-name", config.SchedulerName, "scheduler name this controller binds pods for")
		metricsAddr         = flag.String("metrics-addr", ":8080", "address to serve /metrics on")
		logLevel            = flag.String("log-level", "info", "log level: debug|info|error")
		debug               = flag.Bool("debug", false, "shorthand for --log-level=debug")
		logOutputPaths      = flag.String("log-output-paths", "", "comma-separated zap output paths; empty uses stdout")
		logErrorOutputPaths = flag.String("log-error-output-paths", "", "comma-separated zap error output paths; empty uses stderr")
	)
	flag.Parse()

	logger := log.NewLogger(log.Options{Level: *logLevel, OutputPaths: *logOutputPaths, ErrorOutputPaths: *logErrorOutputPaths, Debug: *debug}, "spark-scheduler")
	defer logger.Sync() //nolint:errcheck
	ctx := log.IntoContext(context.Background(), logger)
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	restConfig, err := clientcmd.BuildConfigFromFlags("", *kubeconfig)
	if err != nil {
		logger.Fatalw("failed to build kube config", "err", err)
	}
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		logger.Fatalw("failed to build kube client", "err", err)
	}

	state, err := cluster.Snapshot(ctx, client)
	if err != nil {
		logger.Fatalw("initial cluster snapshot failed", "err", err)
	}
	sparkmetrics.ClusterAllocatableCores.Set(float64(state.TotalCores))
	sparkmetrics.ClusterAllocatableMemMB.Set(float64(state.TotalMemMB))

	recorder := events.NewRecorder(newEventRecorder(client, *schedulerName))

	watcher := scheduling.NewWatcher(client, *namespace, *schedulerName)
	sched := scheduler.New(client, watcher.PodLister(), recorder, *schedulerName, *namespace, config.DefaultBandwidthMap(), config.StorageNodeName, state)

	go func() {
		for pod := range watcher.Queue() {
			sched.Enqueue(pod)
		}
	}()

	sparkmetrics.MustRegister()

	// Run every long-lived component under one errgroup so that any one of
	// them returning an error (e.g. the metrics server failing to listen)
	// tears down the rest instead of leaving the process half-alive.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveMetrics(gctx, *metricsAddr)
	})
	g.Go(func() error {
		sched.RunRenewal(gctx)
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		sched.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("scheduler exited", "err", err)
	}
}

// newEventRecorder wires a broadcaster that streams to the apiserver's
// events subresource, the same pattern kube-scheduler and controller-runtime
// managers use to build their record.EventRecorder.
func newEventRecorder(client kubernetes.Interface, component string) record.EventRecorder {
	broadcaster := record.NewBroadcaster()
	broadcaster.StartRecordingToSink(&typedcorev1.EventSinkImpl{Interface: client.CoreV1().Events("")})
	return broadcaster.NewRecorder(scheme.Scheme, corev1.EventSource{Component: component})
}

// serveMetrics runs the prometheus handler until ctx is cancelled. It
// serves the controller-runtime global registry, which is what
// sparkmetrics.MustRegister populates. A listen or serve failure is
// returned; a shutdown caused by ctx is not.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(crmetrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close() //nolint:errcheck
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.FromContext(ctx).Errorw("metrics server exited", "err", err)
		return err
	}
	return nil
}
