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

package cluster_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spark-sched/spark-sched/pkg/cluster"
)

var _ = Describe("ToMillicores", func() {
	It("parses a millicore suffix", func() {
		v, err := cluster.ToMillicores("500m")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(500)))
	})

	It("parses a plain core count into millicores", func() {
		v, err := cluster.ToMillicores("4")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(4000)))
	})

	It("rejects an unrecognized suffix", func() {
		_, err := cluster.ToMillicores("4x")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ToKibibytes", func() {
	It("parses Ki directly", func() {
		v, err := cluster.ToKibibytes("1048576Ki")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(1048576)))
	})

	It("parses Mi into Ki", func() {
		v, err := cluster.ToKibibytes("512Mi")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(512 * 1024)))
	})

	It("parses Gi into Ki", func() {
		v, err := cluster.ToKibibytes("2Gi")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(2 * 1024 * 1024)))
	})

	It("rejects an unsupported unit", func() {
		_, err := cluster.ToKibibytes("2Ti")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Reserved overhead", func() {
	It("reserves a flat 3 cores for a single-node cluster", func() {
		Expect(cluster.ReservedCores(1)).To(Equal(int64(3)))
	})

	It("reserves 3 plus one core per node beyond the first two", func() {
		Expect(cluster.ReservedCores(5)).To(Equal(int64(6)))
	})

	It("reserves 5GB of memory per node", func() {
		Expect(cluster.ReservedMemMB(3)).To(Equal(int64(15 * 1024)))
	})
})
