package hashring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNodeIdempotent(t *testing.T) {
	r := New(50)
	r.AddNode("a")
	count := len(r.vnodes)
	r.AddNode("a")
	require.Equal(t, count, len(r.vnodes))
	require.Equal(t, 1, r.NodeCount())
}

func TestRemoveNodeReturnsBool(t *testing.T) {
	r := New(50)
	r.AddNode("a")
	require.True(t, r.RemoveNode("a"))
	require.False(t, r.RemoveNode("a"))
}

func TestGetNodePairNoBackupWithOneNode(t *testing.T) {
	r := New(50)
	r.AddNode("only")
	primary, backup, hasBackup := r.GetNodePair("some-key")
	require.Equal(t, "only", primary)
	require.Empty(t, backup)
	require.False(t, hasBackup)
}

func TestGetNodesDistinctAndCapped(t *testing.T) {
	r := New(100)
	for _, n := range []string{"a", "b", "c", "d"} {
		r.AddNode(n)
	}
	nodes := r.GetNodes("key-123", 2)
	require.Len(t, nodes, 2)
	require.NotEqual(t, nodes[0], nodes[1])
}

func TestMinimalRemappingOnAdd(t *testing.T) {
	const nodeCount = 10
	const vnodes = 200
	const keyCount = 5000

	r := New(vnodes)
	for i := 0; i < nodeCount; i++ {
		r.AddNode(fmt.Sprintf("node-%d", i))
	}

	before := make(map[string]string, keyCount)
	for i := 0; i < keyCount; i++ {
		key := fmt.Sprintf("key-%d", i)
		node, _ := r.GetNode(key)
		before[key] = node
	}

	r.AddNode("node-new")

	moved := 0
	for i := 0; i < keyCount; i++ {
		key := fmt.Sprintf("key-%d", i)
		node, _ := r.GetNode(key)
		if node != before[key] {
			moved++
		}
	}

	bound := 2.0/float64(nodeCount+1) + 0.05
	require.Less(t, float64(moved)/float64(keyCount), bound)
}

func TestRemoveOnlyTouchesKeysOnRemovedNode(t *testing.T) {
	r := New(100)
	for _, n := range []string{"a", "b", "c"} {
		r.AddNode(n)
	}

	before := make(map[string]string, 1000)
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		node, _ := r.GetNode(key)
		before[key] = node
	}

	r.RemoveNode("b")

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		node, _ := r.GetNode(key)
		if before[key] != "b" {
			require.Equal(t, before[key], node, "key not on the removed node must not move")
		}
	}
}
