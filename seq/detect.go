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

package seq

// HasRepeatSection returns whether s contains a repeat section, at any depth.
//
// The contents of repeat sections are not searched; a repeat section nested
// in another is reported by [Instantiate] instead.
func HasRepeatSection(s Stream) bool {
	for _, node := range s {
		group, ok := node.(Group)
		if !ok {
			continue
		}
		if group.Kind == RepeatSection || HasRepeatSection(group.Body) {
			return true
		}
	}
	return false
}
