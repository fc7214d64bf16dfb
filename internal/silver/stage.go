// Package silver builds the cleaned tier: raw tables are renamed to the
// canonical columns, scrubbed of placeholder values and appended in chunks.
package silver

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/control"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/dataset"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/transfer"
)

// Stage moves every category from the raw to the cleaned tier.
type Stage struct {
	store    store.Store
	transfer *transfer.Transfer
	logger   *logrus.Entry

	tables, chunks, failed int
	rows                   int64
	lastUpdated            time.Time
}

// NewStage returns a stage writing through st in chunks of chunkSize rows.
func NewStage(st store.Store, chunkSize int) *Stage {
	return &Stage{
		store:    st,
		transfer: transfer.New(st, chunkSize),
		logger:   logrus.WithField("component", "silver"),
	}
}

// WithLogger replaces the logger of the stage and its transfer.
func (s *Stage) WithLogger(logger *logrus.Entry) *Stage {
	s.logger = logger
	s.transfer.WithLogger(logger)
	return s
}

// Run cleans one category. A missing raw table yields a nil report. A
// column mismatch or a store failure aborts; failed chunks only show up in
// the report.
func (s *Stage) Run(ctx context.Context, c dataset.Category) (*transfer.Report, error) {
	d := dataset.Lookup(c)
	src := store.TableRef{Tier: store.TierRaw, Name: d.RawTable}
	dst := store.TableRef{Tier: store.TierCleaned, Name: d.CleanedTable}
	logger := s.logger.WithFields(logrus.Fields{"category": c.String(), "source": src.String(), "target": dst.String()})

	cols, err := s.store.Columns(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", src, err)
	}
	if cols == nil {
		logger.Warn("Raw table missing, nothing to clean")
		return nil, nil
	}

	raw, err := s.store.Read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	logger.WithField("rows", raw.Len()).Info("Raw table read")

	reconciled, err := Reconcile(d, raw)
	if err != nil {
		return nil, err
	}
	cleaned := Clean(reconciled)

	if err := s.store.EnsureTable(ctx, dst, cleaned.Columns); err != nil {
		return nil, fmt.Errorf("create %s: %w", dst, err)
	}
	report := s.transfer.Run(ctx, dst, cleaned)
	s.record(report)

	logger.WithFields(logrus.Fields{
		"rows":          report.Appended(),
		"chunks_failed": report.Failed(),
	}).Info("Cleaned table written")
	return report, nil
}

// RunAll cleans every category in order and stops at the first error.
func (s *Stage) RunAll(ctx context.Context) ([]*transfer.Report, error) {
	var reports []*transfer.Report
	for _, d := range dataset.All() {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := s.Run(ctx, d.Category)
		if err != nil {
			return reports, err
		}
		if r != nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func (s *Stage) record(r *transfer.Report) {
	s.tables++
	s.chunks += len(r.Chunks)
	s.failed += r.Failed()
	s.rows += r.Appended()
	s.lastUpdated = time.Now()
}

// GetStats implements control.StatsProvider.
func (s *Stage) GetStats() control.ComponentStats {
	return control.ComponentStats{
		ComponentType: "stage",
		ComponentName: "silver",
		Stats: map[string]interface{}{
			"tables":        s.tables,
			"rows":          s.rows,
			"chunks":        s.chunks,
			"chunks_failed": s.failed,
		},
		LastUpdated: s.lastUpdated,
	}
}
