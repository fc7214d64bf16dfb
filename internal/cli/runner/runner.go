// Package runner wires the configured stages into one pipeline run.
package runner

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/acquisition"
	"github.com/delcor027/Acidentes-ANTT-PIE/internal/bronze"
	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/config"
	"github.com/delcor027/Acidentes-ANTT-PIE/internal/gold"
	"github.com/delcor027/Acidentes-ANTT-PIE/internal/silver"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/checkpoint"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/control"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/pipeline"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store/duckstore"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store/postgres"
)

// Stage names, in execution order.
const (
	StageExtract = "extract"
	StageBronze  = "bronze"
	StageSilver  = "silver"
	StageGold    = "gold"
)

// AllStages lists every stage in execution order.
var AllStages = []string{StageExtract, StageBronze, StageSilver, StageGold}

// StoreOpener opens the process-wide store handle.
type StoreOpener func(ctx context.Context, cfg config.StoreConfig) (store.Store, error)

// OpenStore opens the store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		st, err := postgres.New(ctx, cfg.DSN, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverDuckDB:
		st, err := duckstore.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

type Runner struct {
	cfg       *config.Config
	openStore StoreOpener
	client    acquisition.HTTPClient
	stats     *control.PipelineStats
	logger    *logrus.Entry

	lastAcquisition *acquisition.Report
}

func New(cfg *config.Config) *Runner {
	id := uuid.New().String()
	return &Runner{
		cfg:       cfg,
		openStore: OpenStore,
		client:    &http.Client{Timeout: cfg.Source.HTTPTimeout},
		stats:     control.NewPipelineStats(id),
		logger:    logrus.WithFields(logrus.Fields{"component": "runner", "pipeline_id": id}),
	}
}

// WithStoreOpener replaces the store factory.
func (r *Runner) WithStoreOpener(open StoreOpener) *Runner {
	r.openStore = open
	return r
}

// WithHTTPClient replaces the client used by acquisition.
func (r *Runner) WithHTTPClient(client acquisition.HTTPClient) *Runner {
	r.client = client
	return r
}

// Stats returns the counters collected so far.
func (r *Runner) Stats() *control.PipelineStats {
	return r.stats
}

// Acquisition returns the report of the last extract stage, if any.
func (r *Runner) Acquisition() *acquisition.Report {
	return r.lastAcquisition
}

// Run executes the named stages in pipeline order. The store is opened once,
// only when a stage needs it, and closed when Run returns.
func (r *Runner) Run(ctx context.Context, stages ...string) (err error) {
	if len(stages) == 0 {
		stages = AllStages
	}
	selected, err := normalize(stages)
	if err != nil {
		return err
	}

	var st store.Store
	if needsStore(selected) {
		st, err = r.openStore(ctx, r.cfg.Store)
		if err != nil {
			return fmt.Errorf("open %s store: %w", r.cfg.Store.Driver, err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				r.logger.WithError(closeErr).Error("Failed to close store")
				if err == nil {
					err = closeErr
				}
			}
		}()
	}

	var chain []pipeline.Stage
	for _, name := range selected {
		switch name {
		case StageExtract:
			chain = append(chain, pipeline.StageFunc(name, r.extract))
		case StageBronze:
			loader := bronze.NewLoader(st, r.cfg.Paths.Root)
			chain = append(chain, pipeline.StageFunc(name, func(ctx context.Context) error {
				defer r.stats.Collect(loader)
				_, err := loader.LoadAll(ctx)
				return err
			}))
		case StageSilver:
			stage := silver.NewStage(st, r.cfg.Transfer.ChunkSize)
			chain = append(chain, pipeline.StageFunc(name, func(ctx context.Context) error {
				defer r.stats.Collect(stage)
				_, err := stage.RunAll(ctx)
				return err
			}))
		case StageGold:
			promoter := gold.NewPromoter(st, r.cfg.Transfer.ChunkSize)
			chain = append(chain, pipeline.StageFunc(name, func(ctx context.Context) error {
				defer r.stats.Collect(promoter)
				_, err := promoter.PromoteAll(ctx)
				return err
			}))
		}
	}

	r.logger.WithField("stages", strings.Join(selected, ",")).Info("Pipeline started")
	return pipeline.BuildChain(chain...).Run(ctx)
}

// extract runs acquisition and records its manifest, also when the run
// aborts.
func (r *Runner) extract(ctx context.Context) error {
	manifest, err := checkpoint.NewManager(r.cfg.Paths.Manifest, r.cfg.Acquisition())
	if err != nil {
		return err
	}

	controller := acquisition.NewController(r.client, r.cfg.Acquisition())
	report, runErr := controller.Run(ctx)
	r.lastAcquisition = report

	stats := ManifestStats(report)
	r.stats.UpdateComponentStats(control.ComponentStats{
		ComponentType: "stage",
		ComponentName: StageExtract,
		Stats: map[string]interface{}{
			"links":       report.Links,
			"descriptors": stats.Descriptors,
			"placed":      stats.Placed,
			"duplicates":  stats.Duplicates,
			"failures":    stats.Failures,
		},
		LastUpdated: report.FinishedAt,
	})

	if err := manifest.Save(report.State.String(), stats, report); err != nil {
		r.logger.WithError(err).Error("Failed to save acquisition manifest")
		if runErr == nil {
			return err
		}
	}
	return runErr
}

// ManifestStats condenses an acquisition report into manifest counters.
func ManifestStats(report *acquisition.Report) checkpoint.Stats {
	s := checkpoint.Stats{Descriptors: len(report.Descriptors)}
	for _, d := range report.Descriptors {
		s.Placed += len(d.Placed)
		s.Duplicates += len(d.Duplicates)
		s.Ignored += len(d.Ignored)
		s.Failures += len(d.Errors)
	}
	return s
}

// LoadManifest reads the last acquisition manifest.
func LoadManifest(cfg *config.Config) (*checkpoint.Manifest, error) {
	mgr, err := checkpoint.NewManager(cfg.Paths.Manifest, cfg.Acquisition())
	if err != nil {
		return nil, err
	}
	return mgr.Load()
}

// ConfigureLogging applies the log level and format to the standard logrus
// logger.
func ConfigureLogging(cfg config.LogConfig, verbose bool) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Format)
	}
	logrus.SetOutput(os.Stderr)
	return nil
}

func normalize(stages []string) ([]string, error) {
	want := map[string]bool{}
	for _, s := range stages {
		name := strings.ToLower(strings.TrimSpace(s))
		known := false
		for _, k := range AllStages {
			if k == name {
				known = true
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown stage %q (want one of %s)", s, strings.Join(AllStages, ", "))
		}
		want[name] = true
	}
	var out []string
	for _, k := range AllStages {
		if want[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

func needsStore(stages []string) bool {
	for _, s := range stages {
		if s != StageExtract {
			return true
		}
	}
	return false
}
