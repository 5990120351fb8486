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
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spark-sched/spark-sched/pkg/config"
	"github.com/spark-sched/spark-sched/pkg/planner"
)

// Build translates a ResourcePlan plus invocation metadata into an argv
// vector for the external spark-submit binary (C4). It mints a fresh
// group UUID and returns it alongside the argv so the caller can await the
// driver/executor pods it labels.
func Build(req Request, plan planner.ResourcePlan, workloadType planner.WorkloadType) ([]string, string, error) {
	req = req.withDefaults()
	groupID := uuid.New().String()

	parallelism := 5 * (plan.DriverCPUCores + plan.ExecCPUCores*plan.Nexec)

	argv := []string{req.Path, "--master", req.Master, "--deploy-mode", req.DeployMode, "--name", "spark"}
	conf := func(format string, args ...interface{}) {
		argv = append(argv, "--conf", fmt.Sprintf(format, args...))
	}

	conf("spark.kubernetes.namespace=%s", req.Namespace)
	conf("spark.kubernetes.authenticate.driver.serviceAccountName=%s", req.ServiceAccount)
	conf("spark.kubernetes.container.image=%s", req.Image)
	conf("spark.default.parallelism=%d", parallelism)

	conf("spark.driver.cores=%d", plan.DriverCPUCores)
	conf("spark.driver.memory=%dm", plan.DriverMemMB)
	conf("spark.kubernetes.driver.volumes.persistentVolumeClaim.%s.options.claimName=%s", req.PVC.Name, req.PVC.ClaimName)
	conf("spark.kubernetes.driver.volumes.persistentVolumeClaim.%s.mount.path=%s", req.PVC.Name, req.PVC.MountPath)

	conf("spark.executor.instances=%d", plan.Nexec)
	conf("spark.executor.cores=%d", plan.ExecCPUCores)
	conf("spark.executor.memory=%dm", plan.ExecMemMB)
	conf("spark.kubernetes.executor.volumes.persistentVolumeClaim.%s.options.claimName=%s", req.PVC.Name, req.PVC.ClaimName)
	conf("spark.kubernetes.executor.volumes.persistentVolumeClaim.%s.mount.path=%s", req.PVC.Name, req.PVC.MountPath)

	conf("spark.kubernetes.driver.label.%s=%s", config.GroupLabelKey, groupID)
	conf("spark.kubernetes.executor.label.%s=%s", config.GroupLabelKey, groupID)
	conf("spark.kubernetes.driver.label.%s=%s", config.WorkloadTypeLabelKey, string(workloadType))
	conf("spark.kubernetes.executor.label.%s=%s", config.WorkloadTypeLabelKey, string(workloadType))

	if req.SchedulerName != "" {
		conf("spark.kubernetes.scheduler.name=%s", req.SchedulerName)
	}

	argv = append(argv, strings.Fields(req.Prog)...)

	return argv, groupID, nil
}
