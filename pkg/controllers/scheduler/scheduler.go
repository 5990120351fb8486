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

// Package scheduler implements the control loop (C8): dequeue a pod,
// run the capacity predicate and placement priority, bind it, emit an
// event, and record the placement into the group's history. A renewal
// task re-snapshots the cluster and clears per-group state whenever the
// watched namespace quiesces.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	corelisters "k8s.io/client-go/listers/core/v1"
	"knative.dev/pkg/logging"

	"github.com/spark-sched/spark-sched/pkg/cluster"
	"github.com/spark-sched/spark-sched/pkg/config"
	sparkerrors "github.com/spark-sched/spark-sched/pkg/errors"
	"github.com/spark-sched/spark-sched/pkg/events"
	sparkmetrics "github.com/spark-sched/spark-sched/pkg/metrics"
	"github.com/spark-sched/spark-sched/pkg/scheduling"
)

// Scheduler owns the queue, the per-group cursor/history state, and the
// cluster snapshot the predicate reads from.
type Scheduler struct {
	client        kubernetes.Interface
	podLister     corelisters.PodLister
	recorder      events.Recorder
	schedulerName string
	namespace     string
	bandwidthMap  config.BandwidthMap
	storageNode   string

	cursors *scheduling.CursorMap
	history *scheduling.History

	queue chan *corev1.Pod

	stateMu sync.RWMutex
	state   *cluster.State
}

// New constructs a Scheduler. initialState is the first cluster snapshot;
// subsequent snapshots come from the renewal task. podLister backs the
// capacity predicate (C6) and is expected to come from the same informer
// store the pod watcher (C5) runs, so Filter never issues a live List call.
func New(client kubernetes.Interface, podLister corelisters.PodLister, recorder events.Recorder, schedulerName, namespace string, bandwidthMap config.BandwidthMap, storageNode string, initialState *cluster.State) *Scheduler {
	return &Scheduler{
		client:        client,
		podLister:     podLister,
		recorder:      recorder,
		schedulerName: schedulerName,
		namespace:     namespace,
		bandwidthMap:  bandwidthMap,
		storageNode:   storageNode,
		cursors:       scheduling.NewCursorMap(),
		history:       scheduling.NewHistory(),
		queue:         make(chan *corev1.Pod, 1024),
		state:         initialState,
	}
}

// Enqueue pushes pod onto the scheduler's internal queue, used both by the
// watcher's forwarding loop and by requeue-on-failure.
func (s *Scheduler) Enqueue(pod *corev1.Pod) {
	select {
	case s.queue <- pod:
	default:
	}
}

func (s *Scheduler) currentState() *cluster.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Scheduler) setState(state *cluster.State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = state
}

// Run drains the queue, scheduling one pod at a time, until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case pod := <-s.queue:
			start := time.Now()
			err := s.schedule(ctx, pod)
			result := "success"
			if err != nil {
				result = "failure"
				log.Errorw("schedule failed", "pod", pod.Namespace+"/"+pod.Name, "err", err)
			}
			sparkmetrics.ScheduleDurationSeconds.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}

// schedule implements the per-pod operation described in spec.md §4.8:
// predicate, priority, bind, event, history.
func (s *Scheduler) schedule(ctx context.Context, pod *corev1.Pod) error {
	state := s.currentState()

	req, err := scheduling.PodRequestFor(pod)
	if err != nil {
		return err
	}

	candidates, err := scheduling.Filter(s.podLister, state.Nodes, req)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		s.requeueAfter(pod, time.Second)
		return &sparkerrors.NoFitForPodError{Namespace: pod.Namespace, Name: pod.Name}
	}

	allNodes := make([]string, 0, len(state.Nodes))
	for name := range state.Nodes {
		allNodes = append(allNodes, name)
	}

	scores := scheduling.Score(allNodes, candidates, pod, s.cursors, s.bandwidthMap, s.storageNode)
	best := bestScoringNode(scores)

	if err := s.bind(ctx, pod, best); err != nil {
		sparkmetrics.BindFailuresTotal.WithLabelValues("bind_error").Inc()
		return &sparkerrors.BindFailedError{Namespace: pod.Namespace, Name: pod.Name, NodeName: best, Err: err}
	}

	group := pod.Labels[config.GroupLabelKey]
	s.history.Record(group, best)

	s.recorder.Publish(events.Scheduled(pod, best))

	return nil
}

// bestScoringNode returns the candidate with the highest score, breaking
// ties by sorting candidate names first, per spec.md P6/§4.8 step 4.
func bestScoringNode(scores map[string]int) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if scores[name] > scores[best] {
			best = name
		}
	}
	return best
}

func (s *Scheduler) bind(ctx context.Context, pod *corev1.Pod, nodeName string) error {
	binding := &corev1.Binding{
		ObjectMeta: metav1.ObjectMeta{
			Name:      pod.Name,
			Namespace: pod.Namespace,
		},
		Target: corev1.ObjectReference{
			APIVersion: "v1",
			Kind:       "Node",
			Name:       nodeName,
		},
	}
	return s.client.CoreV1().Pods(pod.Namespace).Bind(ctx, binding, metav1.CreateOptions{
		FieldManager: s.schedulerName,
	})
}

func (s *Scheduler) requeueAfter(pod *corev1.Pod, d time.Duration) {
	go func() {
		time.Sleep(d)
		s.Enqueue(pod)
	}()
}
