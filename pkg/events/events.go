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

package events

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
)

// Scheduled builds the event published once a pod is successfully bound to
// a node (spec.md §4.9): reason "Scheduled", type "Normal", deduplicated
// per pod+node so a retried bind doesn't spam duplicate events.
func Scheduled(pod *corev1.Pod, nodeName string) Event {
	return Event{
		InvolvedObject: pod,
		Type:           corev1.EventTypeNormal,
		Reason:         "Scheduled",
		Message:        fmt.Sprintf("Placed pod %s/%s on %s\n", pod.Namespace, pod.Name, nodeName),
		DedupeValues:   []string{string(pod.UID), nodeName},
	}
}
