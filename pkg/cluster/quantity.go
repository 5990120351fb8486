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

package cluster

import (
	"strconv"
	"strings"

	sparkerrors "github.com/spark-sched/spark-sched/pkg/errors"
)

// ToMillicores converts an orchestrator CPU quantity string ("500m", "2")
// into millicores.
func ToMillicores(q string) (int64, error) {
	if strings.HasSuffix(q, "m") {
		v, err := strconv.ParseInt(strings.TrimSuffix(q, "m"), 10, 64)
		if err != nil {
			return 0, &sparkerrors.UnsupportedUnitError{Quantity: q}
		}
		return v, nil
	}
	v, err := strconv.ParseInt(q, 10, 64)
	if err != nil {
		return 0, &sparkerrors.UnsupportedUnitError{Quantity: q}
	}
	return v * 1000, nil
}

// ToKibibytes converts an orchestrator memory quantity string ("2Gi",
// "1048576Ki", "512Mi") into kibibytes.
func ToKibibytes(q string) (int64, error) {
	switch {
	case strings.HasSuffix(q, "Ki"):
		return parseUnit(q, "Ki", 1)
	case strings.HasSuffix(q, "Mi"):
		return parseUnit(q, "Mi", 1024)
	case strings.HasSuffix(q, "Gi"):
		return parseUnit(q, "Gi", 1024*1024)
	default:
		return 0, &sparkerrors.UnsupportedUnitError{Quantity: q}
	}
}

func parseUnit(q, suffix string, multiplier int64) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSuffix(q, suffix), 10, 64)
	if err != nil {
		return 0, &sparkerrors.UnsupportedUnitError{Quantity: q}
	}
	return v * multiplier, nil
}
