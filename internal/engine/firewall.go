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
	"fmt"
	"math"

	"github.com/netviz-labs/attack-simulator/internal/simrand"
)

// verdictDelay is the inspection time, in simulation time units,
// between a packet reaching the firewall's queue and the firewall
// deciding to block or forward it.
const verdictDelay = 500

// firewallSimulation funnels a column of mixed legitimate and hostile
// sources through a firewall in front of one server. Attacker traffic
// is blocked at the scenario's blockRate; everything else is forwarded
// to the server as a fresh packet.
type firewallSimulation struct {
	simulation

	server   *Node
	firewall *Node
	sources  []*Node
}

func newFirewallSimulation(def ScenarioDefinition, rng *simrand.Source, width, height float64) *firewallSimulation {
	s := &firewallSimulation{simulation: newSimulation(def, rng, width, height)}
	s.policy = s
	return s
}

func (s *firewallSimulation) buildTopology() {
	s.server = s.addNode(&Node{
		ID:         "server",
		Kind:       NodeServer,
		X:          s.width * 0.85,
		Y:          s.height / 2,
		Radius:     30,
		PulsePhase: s.rng.Range(0, 2*math.Pi),
	})
	s.firewall = s.addNode(&Node{
		ID:          "firewall",
		Kind:        NodeFirewall,
		X:           s.width / 2,
		Y:           s.height / 2,
		Radius:      25,
		Connections: []string{s.server.ID},
		PulsePhase:  s.rng.Range(0, 2*math.Pi),
	})

	// Interleave clients and attackers down the left-hand column so
	// hostile sources sit among legitimate ones.
	total := s.def.Clients + s.def.Attackers
	clientsLeft, attackersLeft := s.def.Clients, s.def.Attackers
	clientSeq, attackerSeq := 0, 0
	for i := 0; i < total; i++ {
		var id string
		kind := NodeClient
		if (i%2 == 1 && attackersLeft > 0) || clientsLeft == 0 {
			kind = NodeAttacker
			attackersLeft--
			attackerSeq++
			id = fmt.Sprintf("attacker-%d", attackerSeq)
		} else {
			clientsLeft--
			clientSeq++
			id = fmt.Sprintf("client-%d", clientSeq)
		}
		s.sources = append(s.sources, s.addNode(&Node{
			ID:          id,
			Kind:        kind,
			X:           s.width * 0.15,
			Y:           s.height * float64(i+1) / float64(total+1),
			Radius:      14,
			Connections: []string{s.firewall.ID},
			PulsePhase:  s.rng.Range(0, 2*math.Pi),
		}))
	}
}

func (s *firewallSimulation) generatePackets(intensity float64) {
	if !s.chance(0.5, intensity) {
		return
	}

	src, err := simrand.Choice(s.rng, s.sources)
	if err != nil {
		return
	}

	kind := PacketNormal
	if src.Kind == NodeAttacker {
		kind = PacketAttack
	}
	pkt := s.createPacket(src, s.firewall, kind, s.packetSpeed())

	fromAttacker := src.Kind == NodeAttacker
	s.schedule(verdictDelay, func() {
		if fromAttacker && s.rng.Next() < s.def.BlockRate {
			// Kill the packet mid-flight unless it already finished
			// and was counted.
			if !pkt.settled {
				pkt.Kind = PacketBlocked
				pkt.Active = false
				pkt.settled = true
				s.metrics.PacketsBlocked++
			}
			return
		}
		s.createPacket(s.firewall, s.server, kind, s.packetSpeed())
	})
}

func (s *firewallSimulation) updateMetrics() {
	load := math.Min(100, float64(s.ActivePackets())/30*100)
	s.metrics.ServerLoad = load
	s.metrics.LatencyMs = 50 + load/100*200

	s.settleFinished(func(p *Packet) {
		if p.Kind != PacketBlocked {
			s.metrics.PacketsRecv++
		}
	})
}
