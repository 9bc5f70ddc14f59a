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

// NodeKind classifies a topology participant.
type NodeKind string

const (
	NodeServer   NodeKind = "server"
	NodeClient   NodeKind = "client"
	NodeAttacker NodeKind = "attacker"
	NodeFirewall NodeKind = "firewall"
)

// A Node is a fixed participant in a scenario topology. Nodes are built
// once by Initialize and never move or disappear during a run, so
// packets can hold plain references to them. Addr is a synthetic
// display address from the scenario's subnet; Radius and PulsePhase are
// rendering hints only.
type Node struct {
	ID          string   `json:"id"`
	Kind        NodeKind `json:"kind"`
	Addr        string   `json:"addr,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Radius      float64  `json:"radius"`
	Connections []string `json:"connections"`
	PulsePhase  float64  `json:"pulsePhase"`
}
