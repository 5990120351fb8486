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

package scheduling

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	corelisters "k8s.io/client-go/listers/core/v1"
	"k8s.io/client-go/tools/cache"
	"knative.dev/pkg/logging"

	sparkerrors "github.com/spark-sched/spark-sched/pkg/errors"
)

// Watcher streams unscheduled pods bearing the configured scheduler name
// into a single-consumer queue (C5), and doubles as the PodLister the
// capacity predicate (C6) reads from. It is backed by a single client-go
// reflector over every pod in the namespace (bound and unbound alike): the
// event handler only forwards the unscheduled ones onto the queue, but the
// informer's indexer keeps every pod so Filter never needs a live List call
// per predicate invocation. The reflector re-lists on resource-version
// errors and keeps retrying other list/watch errors itself; none of those
// errors reach Run.
type Watcher struct {
	schedulerName string
	informer      cache.SharedIndexInformer
	lister        corelisters.PodLister
	queue         chan *corev1.Pod
}

// NewWatcher constructs a Watcher over the given namespace (empty string
// watches every namespace).
func NewWatcher(client kubernetes.Interface, namespace, schedulerName string) *Watcher {
	lw := &cache.ListWatch{
		ListFunc: func(opts metav1.ListOptions) (runtime.Object, error) {
			return client.CoreV1().Pods(namespace).List(context.Background(), opts)
		},
		WatchFunc: func(opts metav1.ListOptions) (watch.Interface, error) {
			return client.CoreV1().Pods(namespace).Watch(context.Background(), opts)
		},
	}

	w := &Watcher{
		schedulerName: schedulerName,
		queue:         make(chan *corev1.Pod, 1024),
	}
	w.informer = cache.NewSharedIndexInformer(lw, &corev1.Pod{}, 0, cache.Indexers{cache.NamespaceIndex: cache.MetaNamespaceIndexFunc})
	w.lister = corelisters.NewPodLister(w.informer.GetIndexer())
	w.informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc:    w.enqueue,
		UpdateFunc: func(_, newObj interface{}) { w.enqueue(newObj) },
	})
	return w
}

// PodLister exposes the informer's indexer as a corelisters.PodLister, fed
// by the same watch this Watcher uses to find unscheduled pods.
func (w *Watcher) PodLister() corelisters.PodLister { return w.lister }

func (w *Watcher) enqueue(obj interface{}) {
	pod, ok := obj.(*corev1.Pod)
	if !ok || pod.Spec.NodeName != "" || pod.Spec.SchedulerName != w.schedulerName {
		return
	}
	select {
	case w.queue <- pod:
	default:
	}
}

// Queue returns the channel eligible pods are pushed onto.
func (w *Watcher) Queue() <-chan *corev1.Pod { return w.queue }

// Run starts the informer and blocks until ctx is cancelled.
// WaitForCacheSync reports failure only once its stop channel closes, so
// Run returns a WatchLostError only when ctx is cancelled before the
// initial cache sync completes; list/watch failures are retried by the
// reflector and are never reported as a lost watch.
func (w *Watcher) Run(ctx context.Context) error {
	stop := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()

	go w.informer.Run(stop)

	err := retry.Do(
		func() error {
			if !cache.WaitForCacheSync(stop, w.informer.HasSynced) {
				return &sparkerrors.WatchLostError{Err: ctx.Err()}
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
	if err != nil {
		return &sparkerrors.WatchLostError{Err: err}
	}

	logging.FromContext(ctx).Info("pod watch synced")
	<-ctx.Done()
	return nil
}
