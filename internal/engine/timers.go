// Copyright 2025 NetViz Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import "sort"

// A deferredAction is a fire-once callback checked against elapsed
// simulation time, used for the relay/forward behaviors (a node
// re-sending traffic it intercepted after a delay). Running these off
// the simulation clock instead of platform timers keeps runs
// reproducible and lets Teardown cancel everything pending at once.
type deferredAction struct {
	fireAt float64
	fn     func()
}

type timerQueue struct {
	actions []deferredAction
}

// schedule registers fn to run once elapsed simulation time reaches at.
func (q *timerQueue) schedule(at float64, fn func()) {
	q.actions = append(q.actions, deferredAction{fireAt: at, fn: fn})
	sort.SliceStable(q.actions, func(i, j int) bool {
		return q.actions[i].fireAt < q.actions[j].fireAt
	})
}

// fire runs every action due at or before now, in schedule order.
// Actions scheduled by a firing action land in the queue for the next
// tick, so reentrancy cannot loop within one call.
func (q *timerQueue) fire(now float64) {
	n := 0
	for n < len(q.actions) && q.actions[n].fireAt <= now {
		n++
	}
	if n == 0 {
		return
	}
	due := q.actions[:n:n]
	q.actions = q.actions[n:]
	for _, a := range due {
		a.fn()
	}
}

func (q *timerQueue) clear() {
	q.actions = nil
}

func (q *timerQueue) pending() int {
	return len(q.actions)
}
