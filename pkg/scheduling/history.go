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

// Package scheduling implements the custom scheduler's node filter (C6),
// placement policy (C7), pod watch (C5), and the per-group state (history,
// round-robin cursors) those pieces share.
package scheduling

import "sync"

// NodeAllocation is one entry in a group's placement history: the node a
// peer landed on and how many of the group's consecutive placements landed
// there in a row. A later placement on the same node after a different one
// starts a new entry.
type NodeAllocation struct {
	NodeName string
	Count    int
}

// History tracks, per group, the ordered sequence of nodes its pods have
// been bound to. Cleared by the renewal task once the namespace quiesces.
type History struct {
	mu      sync.RWMutex
	entries map[string][]NodeAllocation
}

// NewHistory constructs an empty placement history.
func NewHistory() *History {
	return &History{entries: map[string][]NodeAllocation{}}
}

// Record appends nodeName to group's history, coalescing into the
// most recent entry if it names the same node.
func (h *History) Record(group, nodeName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.entries[group]
	if n := len(entries); n > 0 && entries[n-1].NodeName == nodeName {
		entries[n-1].Count++
	} else {
		entries = append(entries, NodeAllocation{NodeName: nodeName, Count: 1})
	}
	h.entries[group] = entries
}

// Get returns a copy of group's recorded placements.
func (h *History) Get(group string) []NodeAllocation {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.entries[group]
	out := make([]NodeAllocation, len(entries))
	copy(out, entries)
	return out
}

// Clear drops every group's history, called when the namespace empties.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = map[string][]NodeAllocation{}
}

// CursorMap holds the next-index-to-try, per group, into the
// bandwidth-sorted node list consulted by the round-robin priority.
type CursorMap struct {
	mu      sync.Mutex
	cursors map[string]uint32
}

// NewCursorMap constructs an empty cursor map.
func NewCursorMap() *CursorMap {
	return &CursorMap{cursors: map[string]uint32{}}
}

// Get returns the current cursor for group, defaulting to 0.
func (c *CursorMap) Get(group string) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursors[group]
}

// Set overwrites the cursor for group.
func (c *CursorMap) Set(group string, value uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursors[group] = value
}

// Clear drops every group's cursor, called when the namespace empties.
func (c *CursorMap) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursors = map[string]uint32{}
}
