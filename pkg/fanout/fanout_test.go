package fanout

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"frankenterm-core/pkg/hashring"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	require.Equal(t, "frankenterm-events", cfg.Topic)
	require.Equal(t, 100, cfg.FlushMessages)
	require.Equal(t, 100, cfg.VnodesPerNode)
}

func TestCompressionCodecMapping(t *testing.T) {
	require.Equal(t, sarama.CompressionZSTD, compressionCodec("zstd"))
	require.Equal(t, sarama.CompressionGZIP, compressionCodec("gzip"))
	require.Equal(t, sarama.CompressionNone, compressionCodec("unknown"))
}

func TestSelectPartitionIsStableForSamePane(t *testing.T) {
	ring := hashring.New(100)
	ring.AddNode("p0")
	ring.AddNode("p1")
	ring.AddNode("p2")

	a, ok := selectPartition(ring, 42)
	require.True(t, ok)
	b, _ := selectPartition(ring, 42)
	require.Equal(t, a, b)
}

func TestSelectPartitionEmptyRing(t *testing.T) {
	ring := hashring.New(100)
	_, ok := selectPartition(ring, 1)
	require.False(t, ok)
}

func TestNewRejectsMissingBrokers(t *testing.T) {
	_, err := New(Config{}, []string{"p0"}, nil)
	require.Error(t, err)
}
