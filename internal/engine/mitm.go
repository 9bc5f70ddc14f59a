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
)

// relayDelay is how long, in simulation time units, the interceptor
// sits on a message before forwarding it to the real destination.
const relayDelay = 500

// mitmSimulation places an attacker between two clients. Every message
// goes client to attacker first; the attacker forwards a tampered copy
// to the other client after relayDelay.
type mitmSimulation struct {
	simulation

	attacker *Node
	clients  [2]*Node
}

func newMITMSimulation(def ScenarioDefinition, rng *simrand.Source, width, height float64) *mitmSimulation {
	s := &mitmSimulation{simulation: newSimulation(def, rng, width, height)}
	s.policy = s
	return s
}

func (s *mitmSimulation) buildTopology() {
	s.attacker = s.addNode(&Node{
		ID:         "attacker",
		Kind:       NodeAttacker,
		X:          s.width / 2,
		Y:          s.height / 2,
		Radius:     20,
		PulsePhase: s.rng.Range(0, 2*math.Pi),
	})
	s.clients[0] = s.addNode(&Node{
		ID:          "client-1",
		Kind:        NodeClient,
		X:           s.width / 4,
		Y:           s.height / 2,
		Radius:      18,
		Connections: []string{s.attacker.ID},
		PulsePhase:  s.rng.Range(0, 2*math.Pi),
	})
	s.clients[1] = s.addNode(&Node{
		ID:          "client-2",
		Kind:        NodeClient,
		X:           3 * s.width / 4,
		Y:           s.height / 2,
		Radius:      18,
		Connections: []string{s.attacker.ID},
		PulsePhase:  s.rng.Range(0, 2*math.Pi),
	})
	s.attacker.Connections = []string{s.clients[0].ID, s.clients[1].ID}
}

func (s *mitmSimulation) generatePackets(intensity float64) {
	if !s.chance(0.5, intensity) {
		return
	}

	src, dst := s.clients[0], s.clients[1]
	if s.rng.Next() < 0.5 {
		src, dst = dst, src
	}

	s.createPacket(src, s.attacker, PacketNormal, s.packetSpeed())

	// The forward leg happens well after the intercept leg; it is a
	// fresh packet, not the intercepted one changing course.
	target := dst
	s.schedule(relayDelay, func() {
		s.createPacket(s.attacker, target, PacketAttack, s.packetSpeed())
	})
}

func (s *mitmSimulation) updateMetrics() {
	s.metrics.ServerLoad = math.Min(100, float64(s.ActivePackets())/20*100)
	s.metrics.LatencyMs = 150 + s.rng.Range(0, 100)

	s.settleFinished(func(*Packet) {
		s.metrics.PacketsRecv++
	})
}
