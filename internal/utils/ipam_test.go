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

package utils

import "testing"

func TestAllocateSequentialAndIdempotent(t *testing.T) {
	a := NewIpamService("10.66.0.0", "24")
	if a == nil {
		t.Fatal("allocator not created")
	}

	first, err := a.AllocateIP("server")
	if err != nil {
		t.Fatalf("AllocateIP: %v", err)
	}
	if first != "10.66.0.1" {
		t.Fatalf("first allocation = %s, want 10.66.0.1", first)
	}

	// Same node gets the same address back.
	again, err := a.AllocateIP("server")
	if err != nil || again != first {
		t.Fatalf("repeat allocation = %s (%v), want %s", again, err, first)
	}

	second, _ := a.AllocateIP("attacker-1")
	if second == first {
		t.Fatalf("distinct nodes share address %s", second)
	}

	nodeID, ok := a.GetNodeByIP(second)
	if !ok || nodeID != "attacker-1" {
		t.Fatalf("reverse lookup = %s/%v", nodeID, ok)
	}
}

func TestReleaseRecyclesAddress(t *testing.T) {
	a := NewIpamService("10.66.0.0", "30")

	ip, err := a.AllocateIP("client-1")
	if err != nil {
		t.Fatalf("AllocateIP: %v", err)
	}
	if err := a.ReleaseIP("client-1"); err != nil {
		t.Fatalf("ReleaseIP: %v", err)
	}
	if err := a.ReleaseIP("client-1"); err == nil {
		t.Fatal("double release did not fail")
	}

	got, err := a.AllocateIP("client-2")
	if err != nil || got != ip {
		t.Fatalf("recycled allocation = %s (%v), want %s", got, err, ip)
	}
}

func TestPoolExhaustion(t *testing.T) {
	// A /30 keeps exactly two usable addresses.
	a := NewIpamService("10.66.0.0", "30")

	if _, err := a.AllocateIP("n1"); err != nil {
		t.Fatalf("n1: %v", err)
	}
	if _, err := a.AllocateIP("n2"); err != nil {
		t.Fatalf("n2: %v", err)
	}
	if _, err := a.AllocateIP("n3"); err == nil {
		t.Fatal("allocation beyond pool size did not fail")
	}
}

func TestBadSubnet(t *testing.T) {
	if a := NewIpamService("not-an-ip", "24"); a != nil {
		t.Fatal("allocator created from invalid subnet")
	}
}
