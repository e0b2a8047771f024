// Package hashring implements a vnode-based consistent hash ring (spec.md
// §4.11) used to distribute ingestion across fanout targets with minimal
// remapping on membership changes.
package hashring

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

func hashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

type vnode struct {
	position uint64
	node     string
}

// Ring is a consistent hash ring with vnodesPerNode virtual nodes per
// physical node.
type Ring struct {
	mu            sync.RWMutex
	vnodesPerNode int
	vnodes        []vnode // sorted by position
	nodes         map[string]bool
}

func New(vnodesPerNode int) *Ring {
	if vnodesPerNode <= 0 {
		vnodesPerNode = 100
	}
	return &Ring{vnodesPerNode: vnodesPerNode, nodes: make(map[string]bool)}
}

// AddNode is idempotent: adding an already-present node is a no-op.
func (r *Ring) AddNode(node string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nodes[node] {
		return
	}
	r.nodes[node] = true
	for i := 0; i < r.vnodesPerNode; i++ {
		pos := hashString(fmt.Sprintf("%s:%d", node, i))
		r.vnodes = append(r.vnodes, vnode{position: pos, node: node})
	}
	sort.Slice(r.vnodes, func(i, j int) bool { return r.vnodes[i].position < r.vnodes[j].position })
}

// RemoveNode removes node and its vnodes, returning whether it was present.
func (r *Ring) RemoveNode(node string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.nodes[node] {
		return false
	}
	delete(r.nodes, node)
	kept := r.vnodes[:0]
	for _, v := range r.vnodes {
		if v.node != node {
			kept = append(kept, v)
		}
	}
	r.vnodes = kept
	return true
}

func (r *Ring) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// GetNode returns the owner of the smallest vnode position >= hash(key),
// wrapping around the ring.
func (r *Ring) GetNode(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.vnodes) == 0 {
		return "", false
	}
	idx := r.searchLocked(key)
	return r.vnodes[idx].node, true
}

func (r *Ring) searchLocked(key string) int {
	h := hashString(key)
	i := sort.Search(len(r.vnodes), func(i int) bool { return r.vnodes[i].position >= h })
	if i == len(r.vnodes) {
		i = 0
	}
	return i
}

// GetNodes returns up to k distinct physical owners in clockwise order
// starting from key's position, capped at min(k, node_count).
func (r *Ring) GetNodes(key string, k int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.vnodes) == 0 {
		return nil
	}
	if k > len(r.nodes) {
		k = len(r.nodes)
	}
	if k <= 0 {
		return nil
	}

	start := r.searchLocked(key)
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < len(r.vnodes) && len(out) < k; i++ {
		v := r.vnodes[(start+i)%len(r.vnodes)]
		if !seen[v.node] {
			seen[v.node] = true
			out = append(out, v.node)
		}
	}
	return out
}

// GetNodePair returns (primary, backup); backup is "" with ok=false if only
// one node exists.
func (r *Ring) GetNodePair(key string) (primary string, backup string, hasBackup bool) {
	nodes := r.GetNodes(key, 2)
	if len(nodes) == 0 {
		return "", "", false
	}
	if len(nodes) == 1 {
		return nodes[0], "", false
	}
	return nodes[0], nodes[1], true
}
