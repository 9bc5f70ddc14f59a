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

// PacketKind classifies an in-flight packet for rendering and
// accounting. A packet can change kind mid-flight (a firewall verdict
// turns an attack packet into a blocked one).
type PacketKind string

const (
	PacketNormal  PacketKind = "normal"
	PacketAttack  PacketKind = "attack"
	PacketBlocked PacketKind = "blocked"
)

// trailCapacity bounds the per-packet position history kept for the
// renderer's motion trail.
const trailCapacity = 10

// A Point is a 2D canvas position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// A Packet is one simulated message traveling from Source to Target.
// Progress runs from 0 to 1; the on-canvas position is derived from it
// through an ease-in-out curve so packets accelerate out of the source
// and decelerate into the target. Source and Target are non-owning
// references: nodes always outlive the packets between them.
type Packet struct {
	ID       int64      `json:"id"`
	Source   *Node      `json:"-"`
	Target   *Node      `json:"-"`
	Kind     PacketKind `json:"kind"`
	Speed    float64    `json:"speed"`
	Progress float64    `json:"progress"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Active   bool       `json:"active"`
	Trail    []Point    `json:"trail"`

	// settled flips once the packet has been counted as received,
	// dropped or blocked; the sweep removes settled inactive packets.
	settled bool
}

func newPacket(id int64, source, target *Node, kind PacketKind, speed float64) *Packet {
	return &Packet{
		ID:     id,
		Source: source,
		Target: target,
		Kind:   kind,
		Speed:  speed,
		X:      source.X,
		Y:      source.Y,
		Active: true,
		Trail:  make([]Point, 0, trailCapacity),
	}
}

// step advances the packet by one tick scaled by the simulation speed
// knob. Progress only ever grows; once it reaches 1 the packet snaps to
// its target and deactivates, waiting to be counted and swept.
func (p *Packet) step(speed float64) {
	if !p.Active {
		return
	}

	p.pushTrail()

	p.Progress += p.Speed * speed
	if p.Progress >= 1 {
		p.Progress = 1
		p.Active = false
		p.X = p.Target.X
		p.Y = p.Target.Y
		return
	}

	t := easeInOutQuad(p.Progress)
	p.X = p.Source.X + (p.Target.X-p.Source.X)*t
	p.Y = p.Source.Y + (p.Target.Y-p.Source.Y)*t
}

func (p *Packet) pushTrail() {
	if len(p.Trail) >= trailCapacity {
		copy(p.Trail, p.Trail[1:])
		p.Trail = p.Trail[:trailCapacity-1]
	}
	p.Trail = append(p.Trail, Point{X: p.X, Y: p.Y})
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}
