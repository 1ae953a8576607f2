// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"sync"

	"github.com/bufbuild/seqgen/reporter"
)

// Collector gathers the errors and warnings of a [reporter.Handler] into a
// [Report]. It is safe for concurrent use.
type Collector struct {
	// If set, the first error aborts the operation that reported it.
	FailFast bool

	mu     sync.Mutex
	report Report
}

var _ reporter.Reporter = (*Collector)(nil)

// Error implements [reporter.Reporter].
func (c *Collector) Error(err reporter.ErrorWithPos) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.FromError(Error, err)
	if c.FailFast {
		return err
	}
	return nil
}

// Warning implements [reporter.Reporter].
func (c *Collector) Warning(err reporter.ErrorWithPos) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.FromError(Warning, err)
}

// Report returns a copy of the diagnostics collected so far.
func (c *Collector) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(Report(nil), c.report...)
}
