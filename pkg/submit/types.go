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

// Package submit builds the spark-submit argv for one workload (C4):
// mints a group UUID, stamps driver/executor labels, and translates a
// planner.ResourcePlan into --conf key=value pairs.
package submit

import "github.com/imdario/mergo"

// PVC describes one persistent-volume-claim mount, applied identically to
// driver and executor pods under a shared volume name.
type PVC struct {
	Name      string
	ClaimName string
	MountPath string
}

// Request is everything the builder needs besides the resource plan.
type Request struct {
	Path           string
	Master         string
	DeployMode     string
	Namespace      string
	ServiceAccount string
	Image          string
	SchedulerName  string
	Prog           string
	PVC            PVC
}

var requestDefaults = Request{
	DeployMode:     "cluster",
	Namespace:      "spark",
	ServiceAccount: "spark",
	PVC:            PVC{MountPath: "/mnt"},
}

// withDefaults fills any zero-valued field from requestDefaults, leaving
// caller-supplied values untouched.
func (r Request) withDefaults() Request {
	if err := mergo.Merge(&r, requestDefaults); err != nil {
		// requestDefaults is a fixed literal; merging it into a same-typed
		// struct cannot fail.
		panic(err)
	}
	return r
}
