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

// Package events publishes the scheduler's "Scheduled" events (C9) through
// the standard client-go event recorder, deduplicating repeats of the same
// event against the same object within a timeout window.
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
)

// Event is a single event publication request.
type Event struct {
	InvolvedObject runtime.Object
	Type           string
	Reason         string
	Message        string
	DedupeValues   []string
	DedupeTimeout  time.Duration
}

func (e Event) dedupeKey() string {
	return fmt.Sprintf("%s-%s", strings.ToLower(e.Reason), strings.Join(e.DedupeValues, "-"))
}

// Recorder publishes events, deduplicating near-identical repeats.
type Recorder interface {
	Publish(...Event)
}

type recorder struct {
	rec   record.EventRecorder
	cache *cache.Cache
}

const defaultDedupeTimeout = 2 * time.Minute

// NewRecorder wraps a client-go event recorder with dedup bookkeeping.
func NewRecorder(r record.EventRecorder) Recorder {
	return &recorder{
		rec:   r,
		cache: cache.New(defaultDedupeTimeout, 10*time.Second),
	}
}

func (r *recorder) Publish(evts ...Event) {
	for _, evt := range evts {
		r.publishEvent(evt)
	}
}

func (r *recorder) publishEvent(evt Event) {
	timeout := defaultDedupeTimeout
	if evt.DedupeTimeout != 0 {
		timeout = evt.DedupeTimeout
	}
	if len(evt.DedupeValues) > 0 && !r.shouldCreateEvent(evt.dedupeKey(), timeout) {
		return
	}
	r.rec.Event(evt.InvolvedObject, evt.Type, evt.Reason, evt.Message)
}

func (r *recorder) shouldCreateEvent(key string, timeout time.Duration) bool {
	if _, exists := r.cache.Get(key); exists {
		return false
	}
	r.cache.Set(key, nil, timeout)
	return true
}
