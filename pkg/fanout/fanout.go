// Package fanout publishes recorder events to one Kafka topic, keying each
// message by the consistent hash ring (pkg/hashring) node that owns its
// pane, so a given pane's events land on the same partition while ring
// membership is unchanged; a membership change moves only the panes whose
// owner changes.
package fanout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"frankenterm-core/pkg/hashring"
	"frankenterm-core/pkg/recorder"
)

// Config configures the Kafka producer and the ring used for key selection.
type Config struct {
	Brokers       []string      `yaml:"brokers"`
	Topic         string        `yaml:"topic"`
	Compression   string        `yaml:"compression"`
	RequiredAcks  int16         `yaml:"required_acks"`
	FlushMessages int           `yaml:"flush_messages"`
	FlushFreq     time.Duration `yaml:"flush_frequency"`
	VnodesPerNode int           `yaml:"vnodes_per_node"`
}

func (c *Config) applyDefaults() {
	if c.Topic == "" {
		c.Topic = "frankenterm-events"
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = int16(sarama.WaitForLocal)
	}
	if c.FlushMessages == 0 {
		c.FlushMessages = 100
	}
	if c.FlushFreq == 0 {
		c.FlushFreq = 500 * time.Millisecond
	}
	if c.VnodesPerNode == 0 {
		c.VnodesPerNode = 100
	}
}

func compressionCodec(name string) sarama.CompressionCodec {
	switch name {
	case "gzip":
		return sarama.CompressionGZIP
	case "snappy":
		return sarama.CompressionSnappy
	case "lz4":
		return sarama.CompressionLZ4
	case "zstd":
		return sarama.CompressionZSTD
	default:
		return sarama.CompressionNone
	}
}

// Fanout owns a Sarama async producer and a consistent hash ring of
// downstream partitions (identified by opaque string names, e.g.
// "partition-0").
type Fanout struct {
	cfg      Config
	log      *logrus.Entry
	producer sarama.AsyncProducer
	ring     *hashring.Ring

	errCount atomic.Int64
	okCount  atomic.Int64
}

// New constructs a Fanout and its Sarama producer. partitions is the set of
// downstream consumer shards to register on the ring up front.
func New(cfg Config, partitions []string, log *logrus.Entry) (*Fanout, error) {
	cfg.applyDefaults()
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("fanout: no brokers configured")
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true
	saramaCfg.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	saramaCfg.Producer.Compression = compressionCodec(cfg.Compression)
	saramaCfg.Producer.Flush.Messages = cfg.FlushMessages
	saramaCfg.Producer.Flush.Frequency = cfg.FlushFreq
	saramaCfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("fanout: create producer: %w", err)
	}

	ring := hashring.New(cfg.VnodesPerNode)
	for _, p := range partitions {
		ring.AddNode(p)
	}

	f := &Fanout{cfg: cfg, log: log, producer: producer, ring: ring}
	go f.drainResponses()

	if log != nil {
		log.WithFields(logrus.Fields{
			"brokers":    cfg.Brokers,
			"topic":      cfg.Topic,
			"partitions": partitions,
		}).Info("fanout producer started")
	}

	return f, nil
}

// AddPartition registers a new downstream shard on the ring.
func (f *Fanout) AddPartition(name string) {
	f.ring.AddNode(name)
}

// RemovePartition removes a downstream shard from the ring.
func (f *Fanout) RemovePartition(name string) bool {
	return f.ring.RemoveNode(name)
}

// Publish routes e to the ring owner of its pane id and sends it async.
// The routed partition name is also attached as the Kafka message key, so
// Kafka's own partitioner further localizes traffic per shard.
func (f *Fanout) Publish(e *recorder.RecorderEvent) error {
	partition, ok := selectPartition(f.ring, e.PaneID)
	if !ok {
		return fmt.Errorf("fanout: no partitions registered")
	}

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("fanout: marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: f.cfg.Topic,
		Key:   sarama.StringEncoder(partition),
		Value: sarama.ByteEncoder(value),
	}
	f.producer.Input() <- msg
	return nil
}

// selectPartition routes a pane id to its ring owner, keyed by the decimal
// pane id string.
func selectPartition(ring *hashring.Ring, paneID uint64) (string, bool) {
	return ring.GetNode(strconv.FormatUint(paneID, 10))
}

func (f *Fanout) drainResponses() {
	for {
		select {
		case success, ok := <-f.producer.Successes():
			if !ok {
				return
			}
			f.okCount.Add(1)
			if f.log != nil {
				f.log.WithFields(logrus.Fields{
					"topic":     success.Topic,
					"partition": success.Partition,
					"offset":    success.Offset,
				}).Trace("fanout message delivered")
			}
		case err, ok := <-f.producer.Errors():
			if !ok {
				return
			}
			f.errCount.Add(1)
			if f.log != nil {
				f.log.WithError(err.Err).Error("fanout message failed")
			}
		}
	}
}

// Stats reports cumulative delivery counts.
func (f *Fanout) Stats() (ok int64, failed int64) {
	return f.okCount.Load(), f.errCount.Load()
}

// Close flushes and closes the underlying producer.
func (f *Fanout) Close() error {
	return f.producer.Close()
}
