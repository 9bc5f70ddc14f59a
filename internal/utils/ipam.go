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

import (
	"errors"
	"fmt"
	"net"
)

// An IPAllocator hands out display addresses for topology nodes from a
// synthetic subnet. Allocation order is sequential, so a scenario built
// in a fixed node order always shows the same addresses.
type IPAllocator struct {
	availableIPs []string
	allocated    map[string]string // node id -> IP
	ipToNode     map[string]string // IP -> node id
}

func NewIpamService(subnet string, netmask string) *IPAllocator {
	_, ipnet, err := net.ParseCIDR(fmt.Sprintf("%s/%s", subnet, netmask))
	if err != nil {
		return nil
	}

	ips := []string{}
	for ip := ipnet.IP.Mask(ipnet.Mask); ipnet.Contains(ip); inc(ip) {
		ips = append(ips, ip.String())
	}

	// Remove network and broadcast address
	if len(ips) > 2 {
		ips = ips[1 : len(ips)-1]
	}

	return &IPAllocator{
		availableIPs: ips,
		allocated:    make(map[string]string),
		ipToNode:     make(map[string]string),
	}
}

func (a *IPAllocator) AllocateIP(nodeID string) (string, error) {
	if ip, ok := a.allocated[nodeID]; ok {
		return ip, nil // node already has an IP
	}

	if len(a.availableIPs) == 0 {
		return "", errors.New("no available IP addresses")
	}

	ip := a.availableIPs[0]
	a.availableIPs = a.availableIPs[1:]
	a.allocated[nodeID] = ip
	a.ipToNode[ip] = nodeID

	return ip, nil
}

func (a *IPAllocator) ReleaseIP(nodeID string) error {
	ip, ok := a.allocated[nodeID]
	if !ok {
		return errors.New("node does not have an allocated IP")
	}

	delete(a.allocated, nodeID)
	delete(a.ipToNode, ip)
	a.availableIPs = append([]string{ip}, a.availableIPs...)

	return nil
}

func (a *IPAllocator) GetIP(nodeID string) (string, bool) {
	ip, ok := a.allocated[nodeID]
	return ip, ok
}

func (a *IPAllocator) GetNodeByIP(ip string) (string, bool) {
	nodeID, ok := a.ipToNode[ip]
	return nodeID, ok
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}
