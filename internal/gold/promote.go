// Package gold publishes the cleaned tier unchanged.
package gold

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

// Promoter copies cleaned tables into the published tier.
type Promoter struct {
	store    store.Store
	transfer *transfer.Transfer
	logger   *logrus.Entry

	tables, chunks, failed int
	rows                   int64
	lastUpdated            time.Time
}

func NewPromoter(st store.Store, chunkSize int) *Promoter {
	return &Promoter{
		store:    st,
		transfer: transfer.New(st, chunkSize),
		logger:   logrus.WithField("component", "gold"),
	}
}

func (p *Promoter) WithLogger(logger *logrus.Entry) *Promoter {
	p.logger = logger
	p.transfer.WithLogger(logger)
	return p
}

// Promote copies one category. A missing cleaned table yields a nil report.
func (p *Promoter) Promote(ctx context.Context, c dataset.Category) (*transfer.Report, error) {
	d := dataset.Lookup(c)
	src := store.TableRef{Tier: store.TierCleaned, Name: d.CleanedTable}
	dst := store.TableRef{Tier: store.TierPublished, Name: d.PublishedTable}
	logger := p.logger.WithFields(logrus.Fields{"category": c.String(), "target": dst.String()})

	cols, err := p.store.Columns(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", src, err)
	}
	if cols == nil {
		logger.Warn("Cleaned table missing, nothing to publish")
		return nil, nil
	}

	rs, err := p.store.Read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if err := p.store.EnsureTable(ctx, dst, rs.Columns); err != nil {
		return nil, fmt.Errorf("create %s: %w", dst, err)
	}

	report := p.transfer.Run(ctx, dst, rs)
	p.tables++
	p.chunks += len(report.Chunks)
	p.failed += report.Failed()
	p.rows += report.Appended()
	p.lastUpdated = time.Now()

	logger.WithField("rows", report.Appended()).Info("Table published")
	return report, nil
}

// PromoteAll publishes every category in order and stops at the first error.
func (p *Promoter) PromoteAll(ctx context.Context) ([]*transfer.Report, error) {
	var reports []*transfer.Report
	for _, d := range dataset.All() {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := p.Promote(ctx, d.Category)
		if err != nil {
			return reports, err
		}
		if r != nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

// GetStats implements control.StatsProvider.
func (p *Promoter) GetStats() control.ComponentStats {
	return control.ComponentStats{
		ComponentType: "stage",
		ComponentName: "gold",
		Stats: map[string]interface{}{
			"tables":        p.tables,
			"rows":          p.rows,
			"chunks":        p.chunks,
			"chunks_failed": p.failed,
		},
		LastUpdated: p.lastUpdated,
	}
}
