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
	"testing"

	"github.com/stretchr/testify/require"
)

func testLeg() (*Node, *Node) {
	src := &Node{ID: "a", Kind: NodeClient, X: 0, Y: 0}
	dst := &Node{ID: "b", Kind: NodeServer, X: 100, Y: 50}
	return src, dst
}

func TestPacketTravelsToTarget(t *testing.T) {
	src, dst := testLeg()
	p := newPacket(1, src, dst, PacketNormal, 0.1)

	require.True(t, p.Active)
	require.Equal(t, src.X, p.X)
	require.Equal(t, src.Y, p.Y)

	prev := p.Progress
	steps := 0
	for p.Active {
		p.step(1)
		require.Greater(t, p.Progress, prev)
		prev = p.Progress
		steps++
		require.Less(t, steps, 100, "packet never arrived")
	}

	require.Equal(t, 1.0, p.Progress)
	require.Equal(t, dst.X, p.X)
	require.Equal(t, dst.Y, p.Y)
}

func TestPacketSpeedKnobScalesProgress(t *testing.T) {
	src, dst := testLeg()
	slow := newPacket(1, src, dst, PacketNormal, 0.01)
	fast := newPacket(2, src, dst, PacketNormal, 0.01)

	slow.step(1)
	fast.step(2)
	require.InDelta(t, slow.Progress*2, fast.Progress, 1e-12)

	frozen := newPacket(3, src, dst, PacketNormal, 0.01)
	frozen.step(0)
	require.Zero(t, frozen.Progress)
	require.True(t, frozen.Active)
}

func TestPacketTrailBounded(t *testing.T) {
	src, dst := testLeg()
	p := newPacket(1, src, dst, PacketNormal, 0.01)

	for i := 0; i < 50; i++ {
		p.step(1)
		require.LessOrEqual(t, len(p.Trail), trailCapacity)
	}
	require.Len(t, p.Trail, trailCapacity)

	// Oldest entries are evicted first: the head of the trail must lag
	// the current position.
	require.Less(t, p.Trail[0].X, p.Trail[trailCapacity-1].X)
	require.Less(t, p.Trail[trailCapacity-1].X, p.X)
}

func TestInactivePacketDoesNotMove(t *testing.T) {
	src, dst := testLeg()
	p := newPacket(1, src, dst, PacketNormal, 0.5)
	for p.Active {
		p.step(1)
	}

	x, y, progress := p.X, p.Y, p.Progress
	p.step(1)
	require.Equal(t, x, p.X)
	require.Equal(t, y, p.Y)
	require.Equal(t, progress, p.Progress)
}

func TestEaseInOutQuad(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"start", 0, 0},
		{"quarter", 0.25, 0.125},
		{"midpoint", 0.5, 0.5},
		{"three quarters", 0.75, 0.875},
		{"end", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, easeInOutQuad(tt.in), 1e-12)
		})
	}
}
