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

import (
	"math"

	"github.com/netviz-labs/attack-simulator/internal/simrand"
	"github.com/netviz-labs/attack-simulator/internal/utils"
)

// frameDuration is the assumed tick length in simulation time units
// (milliseconds). The spawn-rate math converts packetsPerSecond into an
// expected per-tick count against this fixed frame; the driver is
// expected to call Update at roughly this cadence. Feeding a different
// deltaTime shifts the effective spawn rate rather than rescaling it.
const frameDuration = 16.6

// A Simulation is one running scenario: it owns its nodes, its live
// packets, its metrics and its deferred relay actions. The driver calls
// Update once per frame; a renderer reads Nodes, Packets and Metrics
// between updates. Simulations are not safe for concurrent use.
type Simulation interface {
	// Initialize builds the scenario topology. The factory calls it
	// exactly once; further calls are no-ops.
	Initialize()
	// Update advances the run by one tick: elapsed time, due relay
	// actions, packet motion, new spawns, metrics. deltaTime is in
	// simulation time units, speed scales the clock, intensity is the
	// 0-100 spawn-rate knob.
	Update(deltaTime, speed, intensity float64)
	// Nodes returns the topology. The slice and the nodes are owned by
	// the simulation and must be treated as read-only.
	Nodes() []*Node
	// Packets returns the live packet set, read-only, valid until the
	// next Update.
	Packets() []*Packet
	// Metrics returns a copy of the current counters.
	Metrics() MetricsSnapshot
	// Definition returns the scenario this simulation was built from.
	Definition() ScenarioDefinition
	// Elapsed returns accumulated simulation time.
	Elapsed() float64
	// ActivePackets counts packets currently traveling.
	ActivePackets() int
	// Teardown cancels all pending relay actions and retires the
	// simulation; subsequent Update calls do nothing.
	Teardown()
}

// scenarioPolicy is what a variant layers on the shared loop: topology
// construction, the spawn policy and the metrics policy. The variant
// set is closed; each variant embeds the shared simulation state and
// registers itself as the policy.
type scenarioPolicy interface {
	buildTopology()
	generatePackets(intensity float64)
	updateMetrics()
}

type simulation struct {
	def    ScenarioDefinition
	rng    *simrand.Source
	width  float64
	height float64

	nodes   []*Node
	nodeIDs map[string]*Node
	packets []*Packet
	ipam    *utils.IPAllocator

	metrics   Metrics
	elapsed   float64
	packetSeq int64

	timers      timerQueue
	policy      scenarioPolicy
	initialized bool
	tornDown    bool
}

func newSimulation(def ScenarioDefinition, rng *simrand.Source, width, height float64) simulation {
	return simulation{
		def:     def,
		rng:     rng,
		width:   width,
		height:  height,
		nodeIDs: make(map[string]*Node),
		ipam:    utils.NewIpamService("10.66.0.0", "24"),
	}
}

func (s *simulation) Initialize() {
	if s.initialized {
		return
	}
	s.initialized = true
	s.policy.buildTopology()
}

func (s *simulation) Update(deltaTime, speed, intensity float64) {
	if s.tornDown {
		return
	}
	if speed < 0 {
		speed = 0
	}
	intensity = math.Max(0, math.Min(100, intensity))

	s.elapsed += deltaTime * speed
	s.timers.fire(s.elapsed)

	for _, p := range s.packets {
		p.step(speed)
	}

	s.policy.generatePackets(intensity)
	s.policy.updateMetrics()

	s.sweep()
}

// sweep drops packets that have finished and been counted. Finished but
// not yet counted packets survive until a metrics pass settles them.
func (s *simulation) sweep() {
	live := s.packets[:0]
	for _, p := range s.packets {
		if p.Active || !p.settled {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.packets); i++ {
		s.packets[i] = nil
	}
	s.packets = live
}

func (s *simulation) Teardown() {
	s.tornDown = true
	s.timers.clear()
}

func (s *simulation) Nodes() []*Node { return s.nodes }

func (s *simulation) Packets() []*Packet { return s.packets }

func (s *simulation) Metrics() MetricsSnapshot { return s.metrics.snapshot() }

func (s *simulation) Definition() ScenarioDefinition { return s.def }

func (s *simulation) Elapsed() float64 { return s.elapsed }

func (s *simulation) ActivePackets() int {
	n := 0
	for _, p := range s.packets {
		if p.Active {
			n++
		}
	}
	return n
}

// addNode registers a node under its id and assigns it a display
// address from the scenario subnet. Topology construction is the only
// writer, ids are unique per run.
func (s *simulation) addNode(n *Node) *Node {
	if existing, ok := s.nodeIDs[n.ID]; ok {
		return existing
	}
	if addr, err := s.ipam.AllocateIP(n.ID); err == nil {
		n.Addr = addr
	}
	s.nodes = append(s.nodes, n)
	s.nodeIDs[n.ID] = n
	return n
}

// createPacket allocates the next packet between two nodes, adds it to
// the live set and counts it as sent. Scenario code may keep mutating
// the returned packet (a firewall verdict re-kinds it later).
func (s *simulation) createPacket(source, target *Node, kind PacketKind, speed float64) *Packet {
	s.packetSeq++
	p := newPacket(s.packetSeq, source, target, kind, speed)
	s.packets = append(s.packets, p)
	s.metrics.PacketsSent++
	return p
}

// spawnSlots converts the scenario's packetsPerSecond target and the
// intensity knob into the number of spawn attempts this tick. Each slot
// then rolls the variant's per-slot probability of 0.5, so the slot
// count is twice the target and its fractional part is rounded
// stochastically; the expected spawn count per tick matches the
// intensity-scaled target rate.
func (s *simulation) spawnSlots(intensity float64) int {
	expected := intensity / 100 * s.def.PacketsPerSecond * frameDuration / 1000
	slots := expected * 2
	n := int(slots)
	if s.rng.Next() < slots-math.Trunc(slots) {
		n++
	}
	return n
}

// chance rolls a base probability scaled down by intensity, for the
// variants that spawn at most one flow per tick.
func (s *simulation) chance(base, intensity float64) bool {
	return s.rng.Next() < base*intensity/100
}

// settleFinished counts every finished, not yet counted packet exactly
// once via the variant's classifier, marking it for the sweep.
func (s *simulation) settleFinished(classify func(p *Packet)) {
	for _, p := range s.packets {
		if !p.Active && !p.settled {
			p.settled = true
			classify(p)
		}
	}
}

// schedule registers a relay action against the simulation clock. The
// callback must tolerate firing after the world moved on; Teardown
// cancels everything still pending.
func (s *simulation) schedule(delay float64, fn func()) {
	s.timers.schedule(s.elapsed+delay, fn)
}

// packetSpeed draws the per-tick progress increment for a new packet.
func (s *simulation) packetSpeed() float64 {
	return s.rng.Range(0.008, 0.02)
}
