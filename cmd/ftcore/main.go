// Command ftcore is a thin wiring demo assembling the core library behind
// the API boundary (spec.md §6): storage, indexing, backpressure, memory
// pressure, query, build coordination, fanout, and the debug/metrics/
// tracing surfaces. It is not a deployable terminal-capture daemon; it
// exists so the packages above can be exercised together the way a real
// integrator's process would wire them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"frankenterm-core/internal/metrics"
	"frankenterm-core/internal/statsapi"
	"frankenterm-core/internal/telemetry"
	"frankenterm-core/pkg/backpressure"
	"frankenterm-core/pkg/buildcoord"
	"frankenterm-core/pkg/fanout"
	"frankenterm-core/pkg/indexer"
	"frankenterm-core/pkg/lexical"
	"frankenterm-core/pkg/memorypressure"
	"frankenterm-core/pkg/profile"
	"frankenterm-core/pkg/storage"
)

func main() {
	var (
		dataDir     string
		profileName string
		metricsAddr string
		statsAddr   string
		brokers     string
	)
	flag.StringVar(&dataDir, "data-dir", "./data", "storage directory")
	flag.StringVar(&profileName, "profile", "interactive", "tuning profile: interactive, ci-batch, low-memory")
	flag.StringVar(&metricsAddr, "metrics-addr", ":9090", "prometheus metrics listen address")
	flag.StringVar(&statsAddr, "stats-addr", ":9091", "debug stats listen address")
	flag.StringVar(&brokers, "kafka-brokers", "", "comma-separated Kafka brokers; fanout disabled when empty")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	entry := logrus.NewEntry(log)

	profiles := profile.BuiltIns()
	active, ok := profiles[profileName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown profile %q\n", profileName)
		os.Exit(1)
	}
	entry.WithField("profile", active.Name).Info("selected tuning profile")

	telem, err := telemetry.New(telemetry.Config{Enabled: true, Exporter: "console"}, entry.WithField("component", "telemetry"))
	if err != nil {
		entry.WithError(err).Fatal("failed to initialize tracing")
	}
	defer telem.Shutdown(context.Background())

	metricsServer := metrics.NewServer(metricsAddr, entry.WithField("component", "metrics"))
	metricsServer.Start()
	defer metricsServer.Stop()

	statsServer := statsapi.NewServer(statsAddr, "v0.1.0", entry.WithField("component", "statsapi"))

	lock, err := acquireBuildLock(dataDir, entry)
	if err != nil {
		entry.WithError(err).Fatal("failed to acquire build coordination lock")
	}
	if lock != nil {
		defer lock.Release()
	}

	writer := lexical.NewWriter()

	st, err := storage.NewStorage(storage.Config{Dir: dataDir}, entry.WithField("component", "storage"), nil)
	if err != nil {
		entry.WithError(err).Fatal("failed to open storage")
	}
	defer st.Shutdown()

	ix := indexer.New(indexer.Config{ConsumerID: "ftcore-primary"}, st, writer, entry.WithField("component", "indexer"))
	st.SetSearcher(&indexer.LexicalSearcher{Writer: writer})

	bp := backpressure.NewManager(active.Backpressure, entry.WithField("component", "backpressure"))
	continuous := backpressure.NewContinuousController(active.Continuous)

	statsServer.Register(storageStats{st: st})
	statsServer.Register(backpressureStats{bp: bp})
	statsServer.Start()
	defer statsServer.Stop()

	var fo *fanout.Fanout
	if brokers != "" {
		fo, err = fanout.New(fanout.Config{Brokers: splitCSV(brokers)}, []string{"shard-0"}, entry.WithField("component", "fanout"))
		if err != nil {
			entry.WithError(err).Warn("fanout disabled: could not connect to brokers")
		} else {
			defer fo.Close()
			statsServer.Register(fanoutStats{fo: fo})
		}
	}

	tier, err := memorypressure.TierFromHostMemory(active.MemoryPressure)
	if err != nil {
		entry.WithError(err).Warn("could not sample host memory, defaulting to green tier")
		tier = memorypressure.Green
	}
	budget := memorypressure.ResizeBudget(tier, active.MemoryPressure)
	entry.WithFields(logrus.Fields{"tier": tier.String(), "cold_batch_size": budget.ColdBatchSize}).Info("memory pressure budget computed")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats, err := ix.Run()
				if err != nil {
					entry.WithError(err).Error("indexer run failed")
					continue
				}
				actions := continuous.Observe(0.0)
				entry.WithFields(logrus.Fields{
					"docs_added": stats.DocsAdded,
					"caught_up":  stats.CaughtUp,
					"severity":   actions.Severity,
				}).Debug("indexer tick")
			}
		}
	}()

	entry.Info("ftcore running")
	<-ctx.Done()
	entry.Info("shutting down")
}

func acquireBuildLock(dataDir string, log *logrus.Entry) (*buildcoord.Lock, error) {
	root, _, err := buildcoord.FindProjectRoot(dataDir)
	if err != nil {
		log.WithError(err).Debug("no project root found, skipping build lock")
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return buildcoord.AcquireWithWait(ctx, root, buildcoord.LockMetadata{BuildCommand: "ftcore run"}, time.Second, log)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type storageStats struct{ st *storage.Storage }

func (s storageStats) Name() string { return "storage" }
func (s storageStats) Stats() interface{} {
	return map[string]interface{}{"indexer_cursor": s.st.Cursor("ftcore-primary")}
}

type backpressureStats struct{ bp *backpressure.Manager }

func (b backpressureStats) Name() string { return "backpressure" }
func (b backpressureStats) Stats() interface{} {
	return map[string]interface{}{"tier": b.bp.CurrentTier().String()}
}

type fanoutStats struct{ fo *fanout.Fanout }

func (f fanoutStats) Name() string { return "fanout" }
func (f fanoutStats) Stats() interface{} {
	ok, failed := f.fo.Stats()
	return map[string]interface{}{"ok": ok, "failed": failed}
}
